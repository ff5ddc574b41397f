package repository

import (
	"context"

	"applicant-onboarding/backend/internal/steps/domain"
)

// Repository defines persistence for step records.
type Repository interface {
	Upsert(ctx context.Context, rec *domain.StepRecord) error
	ListBySubmission(ctx context.Context, submissionID string) ([]*domain.StepRecord, error)
	ListAll(ctx context.Context) ([]*domain.StepRecord, error)
}
