package repository

import (
	"context"
	"database/sql"

	"applicant-onboarding/backend/internal/steps/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a step record repository that uses the given
// db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert writes the step record, overwriting the payload if a record for
// (submission, step) already exists. The original created_at is preserved on
// overwrite; updated_at always moves forward.
func (r *PostgresRepository) Upsert(ctx context.Context, rec *domain.StepRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO step_records (submission_id, step, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (submission_id, step) DO UPDATE
		SET payload = EXCLUDED.payload,
		    updated_at = EXCLUDED.updated_at`,
		rec.SubmissionID, rec.Step, []byte(rec.Payload), rec.UpdatedAt,
	)
	return err
}

// ListBySubmission returns the submission's step records ordered by step
// ascending. A submission with no records yields an empty slice, not an error.
func (r *PostgresRepository) ListBySubmission(ctx context.Context, submissionID string) ([]*domain.StepRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT submission_id, step, payload, created_at, updated_at
		FROM step_records
		WHERE submission_id = $1
		ORDER BY step`, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// ListAll returns every step record ordered by submission then step. Used by
// the admin aggregation read path to avoid one query per submission.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]*domain.StepRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT submission_id, step, payload, created_at, updated_at
		FROM step_records
		ORDER BY submission_id, step`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

func collectRecords(rows *sql.Rows) ([]*domain.StepRecord, error) {
	var out []*domain.StepRecord
	for rows.Next() {
		var (
			rec     domain.StepRecord
			payload []byte
		)
		if err := rows.Scan(&rec.SubmissionID, &rec.Step, &payload, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		rec.Payload = payload
		out = append(out, &rec)
	}
	return out, rows.Err()
}
