// Package service implements the step progression engine: the state machine
// that advances a submission through the onboarding wizard.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"applicant-onboarding/backend/internal/access"
	profiledomain "applicant-onboarding/backend/internal/profile/domain"
	stepsdomain "applicant-onboarding/backend/internal/steps/domain"
	submissiondomain "applicant-onboarding/backend/internal/submission/domain"
)

// AccessError reports a denied gate check. Handlers map the reason to an HTTP
// status without distinguishing most reasons to the applicant.
type AccessError struct {
	Reason access.Reason
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("access denied: %s", e.Reason)
}

// StepOutOfOrderError rejects a submission ahead of the pointer. CurrentStep
// carries the step the applicant should be redirected to.
type StepOutOfOrderError struct {
	Requested   int
	CurrentStep int
}

func (e *StepOutOfOrderError) Error() string {
	return fmt.Sprintf("step %d submitted but current step is %d", e.Requested, e.CurrentStep)
}

// ValidationError reports a payload that fails the step's required fields.
// Nothing is written when validation fails.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return e.Detail
}

// SubmissionRepo is the minimal submission repository needed by the engine.
type SubmissionRepo interface {
	AdvanceStatus(ctx context.Context, id string, next submissiondomain.Status) error
}

// ProfileRepo is the minimal profile repository needed by the engine.
type ProfileRepo interface {
	GetBySubmission(ctx context.Context, submissionID string) (*profiledomain.Profile, error)
	UpsertIdentity(ctx context.Context, submissionID, name, email, whatsapp string, now time.Time) error
	AdvanceStep(ctx context.Context, submissionID string, step int, now time.Time) error
}

// StepRepo is the minimal step record repository needed by the engine.
type StepRepo interface {
	Upsert(ctx context.Context, rec *stepsdomain.StepRecord) error
}

// AccessGate validates (submission id, token) pairs.
type AccessGate interface {
	Check(ctx context.Context, submissionID, token string) access.Decision
}

// Engine owns all writes to the profile pointer and step records. One logical
// instance serves all submissions; per-call state lives in the arguments.
type Engine struct {
	gate        AccessGate
	submissions SubmissionRepo
	profiles    ProfileRepo
	steps       StepRepo
	now         func() time.Time
}

// NewEngine returns an Engine with the given dependencies.
func NewEngine(gate AccessGate, submissions SubmissionRepo, profiles ProfileRepo, steps StepRepo) *Engine {
	return &Engine{
		gate:        gate,
		submissions: submissions,
		profiles:    profiles,
		steps:       steps,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// StepResult is the outcome of an accepted step submission. NextStep is nil
// once the wizard is complete.
type StepResult struct {
	NextStep *int
}

// SubmitStep validates access and records the payload for one wizard step.
//
// The token is re-checked on every call: an administrator can revoke access
// mid-flow and the revocation must bite on the next request. Submitting ahead
// of the pointer is rejected; resubmitting the current or an earlier step
// overwrites that step's record without moving the pointer backward. The step
// record is written before the pointer advances, so a failure between the two
// under-reports progress instead of over-reporting it.
func (e *Engine) SubmitStep(ctx context.Context, submissionID, token string, step int, payload json.RawMessage) (*StepResult, error) {
	if d := e.gate.Check(ctx, submissionID, token); !d.OK {
		return nil, &AccessError{Reason: d.Reason}
	}

	if !stepsdomain.ValidStep(step) {
		return nil, &ValidationError{Detail: fmt.Sprintf("step must be between %d and %d", stepsdomain.FirstStep, stepsdomain.LastStep)}
	}

	var identity *stepsdomain.Identity
	if step == stepsdomain.FirstStep {
		id, err := stepsdomain.DecodeIdentity(payload)
		if err != nil {
			return nil, &ValidationError{Detail: err.Error()}
		}
		identity = id
	} else if err := stepsdomain.ValidatePayload(payload); err != nil {
		return nil, &ValidationError{Detail: err.Error()}
	}

	profile, err := e.profiles.GetBySubmission(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	current := stepsdomain.FirstStep
	if profile != nil && profile.CurrentStep > current {
		current = profile.CurrentStep
	}
	if step > current {
		return nil, &StepOutOfOrderError{Requested: step, CurrentStep: current}
	}

	now := e.now()
	rec := &stepsdomain.StepRecord{
		SubmissionID: submissionID,
		Step:         step,
		Payload:      payload,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := e.steps.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("store step %d: %w", step, err)
	}

	if identity != nil {
		if err := e.profiles.UpsertIdentity(ctx, submissionID, identity.Name, identity.Email, identity.Whatsapp, now); err != nil {
			return nil, fmt.Errorf("store identity: %w", err)
		}
	}

	next := step + 1
	if next > stepsdomain.TerminalStep {
		next = stepsdomain.TerminalStep
	}
	if err := e.profiles.AdvanceStep(ctx, submissionID, next, now); err != nil {
		return nil, fmt.Errorf("advance step: %w", err)
	}

	if next == stepsdomain.TerminalStep {
		if err := e.submissions.AdvanceStatus(ctx, submissionID, submissiondomain.StatusCompleted); err != nil {
			return nil, fmt.Errorf("complete submission: %w", err)
		}
		return &StepResult{}, nil
	}

	// Moves pending → onboarding on the first accepted step; the store's
	// forward-only guard makes this a no-op for onboarding or completed.
	if err := e.submissions.AdvanceStatus(ctx, submissionID, submissiondomain.StatusOnboarding); err != nil {
		return nil, fmt.Errorf("advance status: %w", err)
	}
	return &StepResult{NextStep: &next}, nil
}

// CurrentStep returns the next step the applicant should see. A missing
// profile or a failed read both report step 1: under-reporting progress only
// re-shows an already-submitted step's view, because step data is keyed by
// explicit step number and is idempotent to resubmit.
func (e *Engine) CurrentStep(ctx context.Context, submissionID string) int {
	p, err := e.profiles.GetBySubmission(ctx, submissionID)
	if err != nil || p == nil || p.CurrentStep < stepsdomain.FirstStep {
		return stepsdomain.FirstStep
	}
	if p.CurrentStep > stepsdomain.TerminalStep {
		return stepsdomain.TerminalStep
	}
	return p.CurrentStep
}
