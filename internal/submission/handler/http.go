// Package handler exposes the public intake route that creates a submission
// from a profile URL. No token exists at this point; the submission enters the
// pipeline as pending.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"applicant-onboarding/backend/internal/server/httpx"
	"applicant-onboarding/backend/internal/submission/domain"
	"applicant-onboarding/backend/internal/submission/repository"
	"applicant-onboarding/backend/internal/telemetry"
)

// Server handles the intake route.
type Server struct {
	submissions repository.Repository
	metrics     *telemetry.Metrics
	logger      *zap.Logger
}

// NewServer returns an intake HTTP handler. metrics may be nil.
func NewServer(submissions repository.Repository, metrics *telemetry.Metrics, logger *zap.Logger) *Server {
	return &Server{
		submissions: submissions,
		metrics:     metrics,
		logger:      logger.With(zap.String("handler", "intake")),
	}
}

// Create handles POST /api/submissions.
func (s *Server) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProfileURL string `json:"profile_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profileURL := strings.TrimSpace(req.ProfileURL)
	if err := domain.ValidateProfileURL(profileURL); err != nil {
		if errors.Is(err, domain.ErrInvalidProfileURL) {
			httpx.WriteError(w, http.StatusUnprocessableEntity, "please enter a valid URL")
			return
		}
		httpx.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	sub := &domain.Submission{
		ID:         uuid.New().String(),
		ProfileURL: profileURL,
		Status:     domain.StatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.submissions.Create(r.Context(), sub); err != nil {
		s.logger.Error("failed to create submission", zap.Error(err))
		httpx.WriteError(w, http.StatusServiceUnavailable, "failed to save submission, please try again")
		return
	}

	s.metrics.RecordIntake(r.Context())
	httpx.WriteJSON(w, http.StatusCreated, map[string]string{"id": sub.ID})
}
