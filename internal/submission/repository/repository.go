package repository

import (
	"context"

	"applicant-onboarding/backend/internal/submission/domain"
)

// Repository defines persistence for submissions.
type Repository interface {
	Create(ctx context.Context, s *domain.Submission) error
	GetByID(ctx context.Context, id string) (*domain.Submission, error)
	List(ctx context.Context) ([]*domain.Submission, error)
	AdvanceStatus(ctx context.Context, id string, next domain.Status) error
	IssueToken(ctx context.Context, id, token string) error
	SetDisabled(ctx context.Context, id string, disabled bool) error
}
