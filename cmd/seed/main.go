// seed inserts development sample data for local testing: three submissions
// across the pipeline lifecycle (fresh intake, mid-wizard, completed).
// Idempotent: skips inserts when the seed submissions already exist.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"applicant-onboarding/backend/internal/config"
	"applicant-onboarding/backend/internal/db"
	profilerepo "applicant-onboarding/backend/internal/profile/repository"
	"applicant-onboarding/backend/internal/security"
	stepsdomain "applicant-onboarding/backend/internal/steps/domain"
	stepsrepo "applicant-onboarding/backend/internal/steps/repository"
	submissiondomain "applicant-onboarding/backend/internal/submission/domain"
	submissionrepo "applicant-onboarding/backend/internal/submission/repository"
)

const (
	seedPendingID    = "seed-sub-pending"
	seedActiveID     = "seed-sub-active"
	seedCompletedID  = "seed-sub-completed"
	seedActiveName   = "Ada Lovelace"
	seedActiveEmail  = "ada@example.com"
	seedActivePhone  = "+15550100"
	seedCompleteName = "Grace Hopper"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database open failed: %v", err)
	}
	defer pool.Close()

	submissions := submissionrepo.NewPostgresRepository(pool)
	profiles := profilerepo.NewPostgresRepository(pool)
	steps := stepsrepo.NewPostgresRepository(pool)

	existing, err := submissions.GetByID(ctx, seedPendingID)
	if err != nil {
		log.Fatalf("seed check failed: %v", err)
	}
	if existing != nil {
		log.Println("seed data already present, skipping")
		return
	}

	now := time.Now().UTC()

	// Fresh intake: no token issued yet.
	if err := submissions.Create(ctx, &submissiondomain.Submission{
		ID:         seedPendingID,
		ProfileURL: "https://linkedin.com/in/seed-pending",
		Status:     submissiondomain.StatusPending,
		CreatedAt:  now.Add(-4 * time.Hour),
	}); err != nil {
		log.Fatalf("seed pending submission: %v", err)
	}

	// Mid-wizard: token issued, steps 1-2 submitted, pointer at 3.
	if err := seedActive(ctx, submissions, profiles, steps, now); err != nil {
		log.Fatalf("seed active submission: %v", err)
	}

	// Completed: all five steps submitted.
	if err := seedCompleted(ctx, submissions, profiles, steps, now); err != nil {
		log.Fatalf("seed completed submission: %v", err)
	}

	log.Println("seed data inserted")
}

func seedActive(ctx context.Context, submissions submissionrepo.Repository, profiles profilerepo.Repository, steps stepsrepo.Repository, now time.Time) error {
	if err := submissions.Create(ctx, &submissiondomain.Submission{
		ID:         seedActiveID,
		ProfileURL: "https://linkedin.com/in/seed-active",
		Status:     submissiondomain.StatusPending,
		CreatedAt:  now.Add(-3 * time.Hour),
	}); err != nil {
		return err
	}
	if err := submissions.IssueToken(ctx, seedActiveID, security.NewOnboardingToken()); err != nil {
		return err
	}

	agreement, err := json.Marshal(stepsdomain.AgreementPayload{
		Name:             seedActiveName,
		Email:            seedActiveEmail,
		Whatsapp:         seedActivePhone,
		AgreementConsent: "yes",
		Signature:        seedActiveName,
	})
	if err != nil {
		return err
	}
	personal, err := json.Marshal(stepsdomain.PersonalPayload{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        seedActiveEmail,
		Whatsapp:     seedActivePhone,
		Position:     "Backend Intern",
		Introduction: "I like compilers and long walks through stack traces.",
		StartTime:    "9:00",
	})
	if err != nil {
		return err
	}

	for step, payload := range map[int][]byte{1: agreement, 2: personal} {
		if err := steps.Upsert(ctx, &stepsdomain.StepRecord{
			SubmissionID: seedActiveID,
			Step:         step,
			Payload:      payload,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			return err
		}
	}
	if err := profiles.UpsertIdentity(ctx, seedActiveID, seedActiveName, seedActiveEmail, seedActivePhone, now); err != nil {
		return err
	}
	if err := profiles.AdvanceStep(ctx, seedActiveID, 3, now); err != nil {
		return err
	}
	return submissions.AdvanceStatus(ctx, seedActiveID, submissiondomain.StatusOnboarding)
}

func seedCompleted(ctx context.Context, submissions submissionrepo.Repository, profiles profilerepo.Repository, steps stepsrepo.Repository, now time.Time) error {
	if err := submissions.Create(ctx, &submissiondomain.Submission{
		ID:         seedCompletedID,
		ProfileURL: "https://linkedin.com/in/seed-completed",
		Status:     submissiondomain.StatusPending,
		CreatedAt:  now.Add(-48 * time.Hour),
	}); err != nil {
		return err
	}
	if err := submissions.IssueToken(ctx, seedCompletedID, security.NewOnboardingToken()); err != nil {
		return err
	}

	email := "grace@example.com"
	phone := "+15550101"
	payloads := map[int]any{
		1: stepsdomain.AgreementPayload{Name: seedCompleteName, Email: email, Whatsapp: phone, AgreementConsent: "yes", Signature: seedCompleteName},
		2: stepsdomain.PersonalPayload{FirstName: "Grace", LastName: "Hopper", Email: email, Whatsapp: phone, Position: "Systems Intern"},
		3: stepsdomain.WorkspacePayload{ChatSetup: true, TaskTrackerSetup: true, MobileAppsSetup: true, NotificationsEnabled: true, BookmarksAdded: true, AllToolsConfirmed: true},
		4: stepsdomain.ValuesPayload{ValuesRead: true, Acknowledged: true},
		5: stepsdomain.RoadmapPayload{VideosWatched: "yes", NextStepsRead: "yes", Questions: "When do I get commit access?"},
	}
	for step, p := range payloads {
		raw, err := json.Marshal(p)
		if err != nil {
			return err
		}
		if err := steps.Upsert(ctx, &stepsdomain.StepRecord{
			SubmissionID: seedCompletedID,
			Step:         step,
			Payload:      raw,
			CreatedAt:    now.Add(-47 * time.Hour),
			UpdatedAt:    now.Add(-46 * time.Hour),
		}); err != nil {
			return err
		}
	}
	if err := profiles.UpsertIdentity(ctx, seedCompletedID, seedCompleteName, email, phone, now); err != nil {
		return err
	}
	if err := profiles.AdvanceStep(ctx, seedCompletedID, stepsdomain.TerminalStep, now); err != nil {
		return err
	}
	if err := submissions.AdvanceStatus(ctx, seedCompletedID, submissiondomain.StatusOnboarding); err != nil {
		return err
	}
	return submissions.AdvanceStatus(ctx, seedCompletedID, submissiondomain.StatusCompleted)
}
