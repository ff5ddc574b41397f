// Package handler implements the readiness endpoint for load balancers and CI.
package handler

import (
	"context"
	"net/http"
	"time"

	"applicant-onboarding/backend/internal/server/httpx"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server answers GET /healthz.
type Server struct {
	db Pinger
}

// NewServer returns a health Server over the given database handle.
func NewServer(db Pinger) *Server {
	return &Server{db: db}
}

// Check reports ok when the database answers a ping within two seconds.
func (s *Server) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
