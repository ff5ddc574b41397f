package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"applicant-onboarding/backend/internal/profile/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a profile repository that uses the given db
// for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetBySubmission returns the profile for the submission, or nil if none
// exists yet. It returns an error only for database failures, not for missing
// rows.
func (r *PostgresRepository) GetBySubmission(ctx context.Context, submissionID string) (*domain.Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT submission_id, name, email, whatsapp, current_step, created_at, updated_at
		FROM user_profiles
		WHERE submission_id = $1`, submissionID)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// List returns all profiles. Used by the admin aggregation read path.
func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Profile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT submission_id, name, email, whatsapp, current_step, created_at, updated_at
		FROM user_profiles`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpsertIdentity creates the profile row if absent and refreshes the display
// fields if present. The pointer is untouched here; AdvanceStep owns it.
func (r *PostgresRepository) UpsertIdentity(ctx context.Context, submissionID, name, email, whatsapp string, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_profiles (submission_id, name, email, whatsapp, current_step, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 1, $5, $5)
		ON CONFLICT (submission_id) DO UPDATE
		SET name = EXCLUDED.name,
		    email = EXCLUDED.email,
		    whatsapp = EXCLUDED.whatsapp,
		    updated_at = EXCLUDED.updated_at`,
		submissionID, name, email, whatsapp, now,
	)
	return err
}

// AdvanceStep moves the pointer forward to step, creating the row if needed.
// GREATEST keeps the pointer monotonic when a late or concurrent write carries
// a smaller value; LEAST clamps at the terminal pointer.
func (r *PostgresRepository) AdvanceStep(ctx context.Context, submissionID string, step int, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_profiles (submission_id, current_step, created_at, updated_at)
		VALUES ($1, LEAST($2, 6), $3, $3)
		ON CONFLICT (submission_id) DO UPDATE
		SET current_step = GREATEST(user_profiles.current_step, LEAST($2, 6)),
		    updated_at = EXCLUDED.updated_at`,
		submissionID, step, now,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	var (
		p                     domain.Profile
		name, email, whatsapp sql.NullString
	)
	if err := row.Scan(&p.SubmissionID, &name, &email, &whatsapp, &p.CurrentStep, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Name = name.String
	p.Email = email.String
	p.Whatsapp = whatsapp.String
	return &p, nil
}
