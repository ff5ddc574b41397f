package domain

import "time"

// AuditLog represents one administrative action taken against a submission.
type AuditLog struct {
	ID           string
	SubmissionID string
	Action       string
	IP           string
	Metadata     string
	CreatedAt    time.Time
}
