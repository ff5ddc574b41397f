package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	accessgate "applicant-onboarding/backend/internal/access"
	adminhandler "applicant-onboarding/backend/internal/admin/handler"
	adminservice "applicant-onboarding/backend/internal/admin/service"
	"applicant-onboarding/backend/internal/audit"
	auditrepo "applicant-onboarding/backend/internal/audit/repository"
	"applicant-onboarding/backend/internal/config"
	"applicant-onboarding/backend/internal/db"
	healthhandler "applicant-onboarding/backend/internal/health/handler"
	onboardinghandler "applicant-onboarding/backend/internal/onboarding/handler"
	onboardingservice "applicant-onboarding/backend/internal/onboarding/service"
	profilerepo "applicant-onboarding/backend/internal/profile/repository"
	"applicant-onboarding/backend/internal/server"
	stepsrepo "applicant-onboarding/backend/internal/steps/repository"
	submissionhandler "applicant-onboarding/backend/internal/submission/handler"
	submissionrepo "applicant-onboarding/backend/internal/submission/repository"
	"applicant-onboarding/backend/internal/telemetry"
	otelsetup "applicant-onboarding/backend/internal/telemetry/otel"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := telemetry.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	providers, err := otelsetup.NewProviders(ctx, cfg.OTLPEndpoint, "applicant-onboarding-backend", cfg.OTLPInsecure)
	if err != nil {
		logger.Fatal("otel setup failed", zap.Error(err))
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("otel shutdown failed", zap.Error(err))
		}
	}()

	metrics, err := telemetry.NewMetrics(providers.MeterProvider)
	if err != nil {
		logger.Fatal("metrics setup failed", zap.Error(err))
	}

	pool, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database open failed", zap.Error(err))
	}
	defer pool.Close()

	submissions := submissionrepo.NewPostgresRepository(pool)
	profiles := profilerepo.NewPostgresRepository(pool)
	steps := stepsrepo.NewPostgresRepository(pool)

	gate := accessgate.NewGate(submissions)
	engine := onboardingservice.NewEngine(gate, submissions, profiles, steps)
	aggregator := adminservice.NewAggregator(submissions, profiles, steps)
	auditRepo := auditrepo.NewPostgresRepository(pool)
	auditor := audit.NewLogger(auditRepo, server.ClientIPFromContext)

	router := server.NewRouter(server.Handlers{
		Submission: submissionhandler.NewServer(submissions, metrics, logger),
		Onboarding: onboardinghandler.NewServer(engine, gate, metrics, logger),
		Admin:      adminhandler.NewServer(aggregator, submissions, auditor, auditRepo, cfg.PublicBaseURL, logger),
		Health:     healthhandler.NewServer(pool),
	}, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serve failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
	logger.Info("http server stopped")
}
