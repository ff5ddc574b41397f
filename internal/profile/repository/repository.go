package repository

import (
	"context"
	"time"

	"applicant-onboarding/backend/internal/profile/domain"
)

// Repository defines persistence for user profile projections.
type Repository interface {
	GetBySubmission(ctx context.Context, submissionID string) (*domain.Profile, error)
	List(ctx context.Context) ([]*domain.Profile, error)
	UpsertIdentity(ctx context.Context, submissionID, name, email, whatsapp string, now time.Time) error
	AdvanceStep(ctx context.Context, submissionID string, step int, now time.Time) error
}
