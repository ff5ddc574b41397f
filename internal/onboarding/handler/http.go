// Package handler exposes the onboarding wizard over HTTP. The token travels
// in the X-Onboarding-Token header; every request is re-validated through the
// access gate.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"applicant-onboarding/backend/internal/access"
	"applicant-onboarding/backend/internal/onboarding/service"
	"applicant-onboarding/backend/internal/server/httpx"
	"applicant-onboarding/backend/internal/telemetry"
)

// maxPayloadBytes bounds a step payload; the largest legitimate step 2 body
// with inline document previews stays well under this.
const maxPayloadBytes = 4 << 20

// StepEngine is the progression engine surface the handler needs.
type StepEngine interface {
	SubmitStep(ctx context.Context, submissionID, token string, step int, payload json.RawMessage) (*service.StepResult, error)
	CurrentStep(ctx context.Context, submissionID string) int
}

// AccessGate validates (submission id, token) pairs for the read path.
type AccessGate interface {
	Check(ctx context.Context, submissionID, token string) access.Decision
}

// Server handles the applicant-facing onboarding routes.
type Server struct {
	engine  StepEngine
	gate    AccessGate
	metrics *telemetry.Metrics
	logger  *zap.Logger
}

// NewServer returns an onboarding HTTP handler. metrics may be nil.
func NewServer(engine StepEngine, gate AccessGate, metrics *telemetry.Metrics, logger *zap.Logger) *Server {
	return &Server{
		engine:  engine,
		gate:    gate,
		metrics: metrics,
		logger:  logger.With(zap.String("handler", "onboarding")),
	}
}

// CurrentStep handles GET /api/onboarding/{id}/step. The routing layer uses
// this to decide which step to render or redirect to.
func (s *Server) CurrentStep(w http.ResponseWriter, r *http.Request) {
	submissionID := chi.URLParam(r, "id")
	token := r.Header.Get("X-Onboarding-Token")

	if d := s.gate.Check(r.Context(), submissionID, token); !d.OK {
		s.denied(w, r, d.Reason)
		return
	}

	step := s.engine.CurrentStep(r.Context(), submissionID)
	httpx.WriteJSON(w, http.StatusOK, map[string]int{"current_step": step})
}

// SubmitStep handles POST /api/onboarding/{id}/step/{step}.
func (s *Server) SubmitStep(w http.ResponseWriter, r *http.Request) {
	submissionID := chi.URLParam(r, "id")
	token := r.Header.Get("X-Onboarding-Token")

	step, err := strconv.Atoi(chi.URLParam(r, "step"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "step must be a number")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	res, err := s.engine.SubmitStep(r.Context(), submissionID, token, step, payload)
	if err != nil {
		s.submitError(w, r, step, err)
		return
	}

	s.metrics.RecordStepSubmission(r.Context(), step)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"next_step": res.NextStep,
	})
}

func (s *Server) submitError(w http.ResponseWriter, r *http.Request, step int, err error) {
	var accessErr *service.AccessError
	if errors.As(err, &accessErr) {
		s.denied(w, r, accessErr.Reason)
		return
	}

	var oooErr *service.StepOutOfOrderError
	if errors.As(err, &oooErr) {
		// Not a hard failure: the client is told where to go instead.
		httpx.WriteJSON(w, http.StatusConflict, map[string]any{
			"error":        "step out of order",
			"current_step": oooErr.CurrentStep,
		})
		return
	}

	var valErr *service.ValidationError
	if errors.As(err, &valErr) {
		httpx.WriteError(w, http.StatusUnprocessableEntity, valErr.Detail)
		return
	}

	s.logger.Error("step submission failed",
		zap.Int("step", step),
		zap.Error(err))
	httpx.WriteError(w, http.StatusServiceUnavailable, "temporarily unavailable, please retry")
}

// denied maps a gate reason to a response. All reasons look the same to the
// applicant except disabled, which operators need to distinguish when
// supporting a revoked applicant.
func (s *Server) denied(w http.ResponseWriter, r *http.Request, reason access.Reason) {
	s.metrics.RecordGateDenial(r.Context(), string(reason))
	switch reason {
	case access.ReasonDisabled:
		httpx.WriteError(w, http.StatusForbidden, "access disabled")
	case access.ReasonTransientError:
		httpx.WriteError(w, http.StatusServiceUnavailable, "temporarily unavailable, please retry")
	default:
		httpx.WriteError(w, http.StatusUnauthorized, "invalid token")
	}
}
