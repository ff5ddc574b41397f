package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	adminhandler "applicant-onboarding/backend/internal/admin/handler"
	healthhandler "applicant-onboarding/backend/internal/health/handler"
	onboardinghandler "applicant-onboarding/backend/internal/onboarding/handler"
	submissionhandler "applicant-onboarding/backend/internal/submission/handler"
)

// Handlers collects the HTTP surfaces the router mounts.
type Handlers struct {
	Submission *submissionhandler.Server
	Onboarding *onboardinghandler.Server
	Admin      *adminhandler.Server
	Health     *healthhandler.Server
}

// NewRouter returns the chi router with all routes and middleware mounted.
func NewRouter(h Handlers, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestContext)
	r.Use(Recoverer(logger))
	r.Use(RequestLogger(logger))

	r.Get("/healthz", h.Health.Check)

	r.Route("/api", func(r chi.Router) {
		r.Post("/submissions", h.Submission.Create)

		r.Route("/onboarding/{id}", func(r chi.Router) {
			r.Get("/step", h.Onboarding.CurrentStep)
			r.Post("/step/{step}", h.Onboarding.SubmitStep)
		})

		r.Route("/admin/submissions", func(r chi.Router) {
			r.Get("/", h.Admin.List)
			r.Get("/{id}", h.Admin.Detail)
			r.Get("/{id}/audit", h.Admin.AuditTrail)
			r.Post("/{id}/token", h.Admin.IssueToken)
			r.Post("/{id}/disable", h.Admin.Disable)
			r.Post("/{id}/enable", h.Admin.Enable)
		})
	})

	return r
}
