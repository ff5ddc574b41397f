package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"applicant-onboarding/backend/internal/audit/domain"
	auditrepo "applicant-onboarding/backend/internal/audit/repository"
)

// Admin actions recorded against a submission.
const (
	ActionIssueToken = "issue_token"
	ActionDisable    = "disable_access"
	ActionEnable     = "enable_access"
)

// IPExtractor returns the client IP from the request context.
type IPExtractor func(context.Context) string

// AuditLogger writes a single audit event for an admin action on a submission.
// LogEvent is best-effort: failures are logged and do not affect the caller.
type AuditLogger interface {
	LogEvent(ctx context.Context, submissionID, action, metadata string)
}

// Logger implements AuditLogger using the audit repository and an optional IP extractor.
type Logger struct {
	repo        auditrepo.Repository
	ipExtractor IPExtractor
}

// NewLogger returns an AuditLogger that persists to repo and uses ipExtractor for client IP.
// ipExtractor may be nil; then IP is recorded as "unknown".
func NewLogger(repo auditrepo.Repository, ipExtractor IPExtractor) *Logger {
	return &Logger{repo: repo, ipExtractor: ipExtractor}
}

// LogEvent writes one audit log entry. Best-effort: errors are logged and not returned.
func (l *Logger) LogEvent(ctx context.Context, submissionID, action, metadata string) {
	if l.repo == nil {
		return
	}
	ip := "unknown"
	if l.ipExtractor != nil {
		ip = l.ipExtractor(ctx)
	}
	entry := &domain.AuditLog{
		ID:           uuid.New().String(),
		SubmissionID: submissionID,
		Action:       action,
		IP:           ip,
		Metadata:     metadata,
		CreatedAt:    time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		log.Printf("audit: failed to log event %s on %s: %v", action, submissionID, err)
	}
}
