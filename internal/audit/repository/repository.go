package repository

import (
	"context"

	"applicant-onboarding/backend/internal/audit/domain"
)

// Repository defines persistence for audit logs.
type Repository interface {
	Create(ctx context.Context, a *domain.AuditLog) error
	ListBySubmission(ctx context.Context, submissionID string, limit, offset int32) ([]*domain.AuditLog, error)
}
