package repository

import (
	"context"
	"database/sql"
	"errors"

	"applicant-onboarding/backend/internal/submission/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a submission repository that uses the given db
// for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const submissionColumns = `id, profile_url, status, onboarding_token, disabled, created_at`

// Create persists the submission. The submission must have ID set; it is not
// assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Submission) error {
	token := sql.NullString{String: s.Token, Valid: s.Token != ""}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO submissions (id, profile_url, status, onboarding_token, disabled, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.ProfileURL, string(s.Status), token, s.Disabled, s.CreatedAt,
	)
	return err
}

// GetByID returns the submission for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions
		WHERE id = $1`, id)
	s, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// List returns all submissions, newest-created-first.
func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Submission, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions
		ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// AdvanceStatus moves the submission to next only when that is a forward
// transition; the guard lives in the statement so concurrent writers cannot
// regress the lifecycle. A no-op (already at or past next) is not an error.
func (r *PostgresRepository) AdvanceStatus(ctx context.Context, id string, next domain.Status) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE submissions
		SET status = $2
		WHERE id = $1
		  AND array_position(ARRAY['pending','onboarding','completed'], status)
		      < array_position(ARRAY['pending','onboarding','completed'], $2)`,
		id, string(next),
	)
	return err
}

// IssueToken replaces the submission's token and clears the disabled flag in a
// single statement, so the access gate never observes a half-applied issuance.
func (r *PostgresRepository) IssueToken(ctx context.Context, id, token string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE submissions
		SET onboarding_token = $2, disabled = FALSE
		WHERE id = $1`,
		id, token,
	)
	return err
}

// SetDisabled toggles access for the submission. The token is preserved so
// re-enabling restores access with the same credential.
func (r *PostgresRepository) SetDisabled(ctx context.Context, id string, disabled bool) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE submissions
		SET disabled = $2
		WHERE id = $1`,
		id, disabled,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*domain.Submission, error) {
	var (
		s      domain.Submission
		status string
		token  sql.NullString
	)
	if err := row.Scan(&s.ID, &s.ProfileURL, &status, &token, &s.Disabled, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.Status = domain.Status(status)
	if token.Valid {
		s.Token = token.String
	}
	return &s, nil
}
