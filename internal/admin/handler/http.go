// Package handler exposes the admin surface over HTTP: submission views,
// step detail, and the token lifecycle actions.
package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"applicant-onboarding/backend/internal/admin/service"
	"applicant-onboarding/backend/internal/audit"
	auditdomain "applicant-onboarding/backend/internal/audit/domain"
	"applicant-onboarding/backend/internal/security"
	"applicant-onboarding/backend/internal/server/httpx"
	stepsdomain "applicant-onboarding/backend/internal/steps/domain"
	submissiondomain "applicant-onboarding/backend/internal/submission/domain"
)

// Aggregator is the read side consumed by the list and detail endpoints.
type Aggregator interface {
	ListSubmissions(ctx context.Context) ([]*service.SubmissionView, error)
	GetSubmissionDetail(ctx context.Context, submissionID string) ([]*stepsdomain.StepRecord, error)
}

// SubmissionAdmin is the write side for the token lifecycle.
type SubmissionAdmin interface {
	GetByID(ctx context.Context, id string) (*submissiondomain.Submission, error)
	IssueToken(ctx context.Context, id, token string) error
	SetDisabled(ctx context.Context, id string, disabled bool) error
}

// AuditReader lists recorded admin actions for a submission, newest first.
type AuditReader interface {
	ListBySubmission(ctx context.Context, submissionID string, limit, offset int32) ([]*auditdomain.AuditLog, error)
}

// Server handles the /api/admin routes.
type Server struct {
	aggregator  Aggregator
	submissions SubmissionAdmin
	auditor     audit.AuditLogger
	auditReader AuditReader
	baseURL     string
	logger      *zap.Logger
}

// NewServer returns an admin Server. baseURL is the public origin used to
// build onboarding links, without a trailing slash.
func NewServer(aggregator Aggregator, submissions SubmissionAdmin, auditor audit.AuditLogger, auditReader AuditReader, baseURL string, logger *zap.Logger) *Server {
	return &Server{
		aggregator:  aggregator,
		submissions: submissions,
		auditor:     auditor,
		auditReader: auditReader,
		baseURL:     baseURL,
		logger:      logger,
	}
}

// List handles GET /api/admin/submissions.
func (s *Server) List(w http.ResponseWriter, r *http.Request) {
	views, err := s.aggregator.ListSubmissions(r.Context())
	if err != nil {
		s.logger.Error("admin list failed", zap.Error(err))
		httpx.WriteError(w, http.StatusServiceUnavailable, "temporarily unavailable")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"submissions": views})
}

// Detail handles GET /api/admin/submissions/{id}.
func (s *Server) Detail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sub, err := s.submissions.GetByID(r.Context(), id)
	if err != nil {
		s.logger.Error("admin detail failed", zap.String("submission_id", id), zap.Error(err))
		httpx.WriteError(w, http.StatusServiceUnavailable, "temporarily unavailable")
		return
	}
	if sub == nil {
		httpx.WriteError(w, http.StatusNotFound, "submission not found")
		return
	}
	records, err := s.aggregator.GetSubmissionDetail(r.Context(), id)
	if err != nil {
		s.logger.Error("admin detail failed", zap.String("submission_id", id), zap.Error(err))
		httpx.WriteError(w, http.StatusServiceUnavailable, "temporarily unavailable")
		return
	}
	steps := make([]service.StepData, 0, len(records))
	for _, rec := range records {
		steps = append(steps, service.StepData{Step: rec.Step, Payload: rec.Payload})
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"id":              sub.ID,
		"status":          sub.Status,
		"disabled":        sub.Disabled,
		"onboarding_data": steps,
	})
}

// IssueToken handles POST /api/admin/submissions/{id}/token. It mints a fresh
// token, re-enables access, and returns the onboarding link for the applicant.
func (s *Server) IssueToken(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sub, err := s.submissions.GetByID(r.Context(), id)
	if err != nil {
		s.logger.Error("issue token failed", zap.String("submission_id", id), zap.Error(err))
		httpx.WriteError(w, http.StatusServiceUnavailable, "temporarily unavailable")
		return
	}
	if sub == nil {
		httpx.WriteError(w, http.StatusNotFound, "submission not found")
		return
	}

	token := security.NewOnboardingToken()
	if err := s.submissions.IssueToken(r.Context(), id, token); err != nil {
		s.logger.Error("issue token failed", zap.String("submission_id", id), zap.Error(err))
		httpx.WriteError(w, http.StatusServiceUnavailable, "temporarily unavailable")
		return
	}
	s.auditor.LogEvent(r.Context(), id, audit.ActionIssueToken, "")

	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"onboarding_token": token,
		"onboarding_link":  fmt.Sprintf("%s/onboarding/%s?token=%s", s.baseURL, id, token),
	})
}

// auditEntry is one audit log row as the admin view renders it.
type auditEntry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	IP        string    `json:"ip"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

const auditPageSize = 50

// AuditTrail handles GET /api/admin/submissions/{id}/audit. It returns the
// recorded token actions for the submission, newest first.
func (s *Server) AuditTrail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sub, err := s.submissions.GetByID(r.Context(), id)
	if err != nil {
		s.logger.Error("audit trail failed", zap.String("submission_id", id), zap.Error(err))
		httpx.WriteError(w, http.StatusServiceUnavailable, "temporarily unavailable")
		return
	}
	if sub == nil {
		httpx.WriteError(w, http.StatusNotFound, "submission not found")
		return
	}
	logs, err := s.auditReader.ListBySubmission(r.Context(), id, auditPageSize, 0)
	if err != nil {
		s.logger.Error("audit trail failed", zap.String("submission_id", id), zap.Error(err))
		httpx.WriteError(w, http.StatusServiceUnavailable, "temporarily unavailable")
		return
	}
	entries := make([]auditEntry, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, auditEntry{
			ID:        l.ID,
			Action:    l.Action,
			IP:        l.IP,
			Metadata:  l.Metadata,
			CreatedAt: l.CreatedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"audit_logs": entries})
}

// Disable handles POST /api/admin/submissions/{id}/disable.
func (s *Server) Disable(w http.ResponseWriter, r *http.Request) {
	s.setDisabled(w, r, true, audit.ActionDisable)
}

// Enable handles POST /api/admin/submissions/{id}/enable. The previously
// issued token becomes valid again.
func (s *Server) Enable(w http.ResponseWriter, r *http.Request) {
	s.setDisabled(w, r, false, audit.ActionEnable)
}

func (s *Server) setDisabled(w http.ResponseWriter, r *http.Request, disabled bool, action string) {
	id := chi.URLParam(r, "id")
	sub, err := s.submissions.GetByID(r.Context(), id)
	if err != nil {
		s.logger.Error("toggle access failed", zap.String("submission_id", id), zap.Error(err))
		httpx.WriteError(w, http.StatusServiceUnavailable, "temporarily unavailable")
		return
	}
	if sub == nil {
		httpx.WriteError(w, http.StatusNotFound, "submission not found")
		return
	}
	if err := s.submissions.SetDisabled(r.Context(), id, disabled); err != nil {
		s.logger.Error("toggle access failed", zap.String("submission_id", id), zap.Error(err))
		httpx.WriteError(w, http.StatusServiceUnavailable, "temporarily unavailable")
		return
	}
	s.auditor.LogEvent(r.Context(), id, action, "")
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"disabled": disabled})
}
