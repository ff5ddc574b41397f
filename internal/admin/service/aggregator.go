// Package service implements the admin read path: joining submissions,
// profile projections, and step payloads into a single view. It never writes.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	profiledomain "applicant-onboarding/backend/internal/profile/domain"
	stepsdomain "applicant-onboarding/backend/internal/steps/domain"
	submissiondomain "applicant-onboarding/backend/internal/submission/domain"
)

// StepData is one step's payload inside a submission view.
type StepData struct {
	Step    int             `json:"step"`
	Payload json.RawMessage `json:"data"`
}

// SubmissionView is one submission merged with its profile fields and ordered
// step payloads. CurrentStep is 0 when the applicant has not started the
// wizard.
type SubmissionView struct {
	ID          string                  `json:"id"`
	ProfileURL  string                  `json:"profile_url"`
	Status      submissiondomain.Status `json:"status"`
	Token       string                  `json:"onboarding_token,omitempty"`
	Disabled    bool                    `json:"disabled"`
	CreatedAt   time.Time               `json:"created_at"`
	Name        string                  `json:"name,omitempty"`
	Email       string                  `json:"email,omitempty"`
	Whatsapp    string                  `json:"whatsapp,omitempty"`
	CurrentStep int                     `json:"current_step"`
	Steps       []StepData              `json:"onboarding_data"`
}

// SubmissionLister lists submissions newest-first.
type SubmissionLister interface {
	List(ctx context.Context) ([]*submissiondomain.Submission, error)
}

// ProfileLister lists all profile projections.
type ProfileLister interface {
	List(ctx context.Context) ([]*profiledomain.Profile, error)
}

// StepLister lists step records, ordered by step within a submission.
type StepLister interface {
	ListBySubmission(ctx context.Context, submissionID string) ([]*stepsdomain.StepRecord, error)
	ListAll(ctx context.Context) ([]*stepsdomain.StepRecord, error)
}

// Aggregator joins the three stores for administrative consumption.
type Aggregator struct {
	submissions SubmissionLister
	profiles    ProfileLister
	steps       StepLister
}

// NewAggregator returns an Aggregator over the given stores.
func NewAggregator(submissions SubmissionLister, profiles ProfileLister, steps StepLister) *Aggregator {
	return &Aggregator{submissions: submissions, profiles: profiles, steps: steps}
}

// ListSubmissions returns all submissions newest-created-first, each with the
// profile fields and step payloads that exist so far. Submissions without a
// profile or step data come back with those parts empty rather than erroring.
func (a *Aggregator) ListSubmissions(ctx context.Context) ([]*SubmissionView, error) {
	subs, err := a.submissions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	profiles, err := a.profiles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	records, err := a.steps.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list step records: %w", err)
	}

	profileBySubmission := make(map[string]*profiledomain.Profile, len(profiles))
	for _, p := range profiles {
		profileBySubmission[p.SubmissionID] = p
	}
	stepsBySubmission := make(map[string][]StepData)
	for _, rec := range records {
		stepsBySubmission[rec.SubmissionID] = append(stepsBySubmission[rec.SubmissionID], StepData{
			Step:    rec.Step,
			Payload: rec.Payload,
		})
	}

	views := make([]*SubmissionView, 0, len(subs))
	for _, sub := range subs {
		v := &SubmissionView{
			ID:         sub.ID,
			ProfileURL: sub.ProfileURL,
			Status:     sub.Status,
			Token:      sub.Token,
			Disabled:   sub.Disabled,
			CreatedAt:  sub.CreatedAt,
			Steps:      []StepData{},
		}
		if p := profileBySubmission[sub.ID]; p != nil {
			v.Name = p.Name
			v.Email = p.Email
			v.Whatsapp = p.Whatsapp
			v.CurrentStep = p.CurrentStep
		}
		if steps := stepsBySubmission[sub.ID]; steps != nil {
			v.Steps = steps
		}
		views = append(views, v)
	}
	return views, nil
}

// GetSubmissionDetail returns the submission's step records ordered by step
// ascending. A submission with no records yields an empty slice.
func (a *Aggregator) GetSubmissionDetail(ctx context.Context, submissionID string) ([]*stepsdomain.StepRecord, error) {
	records, err := a.steps.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("list step records: %w", err)
	}
	if records == nil {
		records = []*stepsdomain.StepRecord{}
	}
	return records, nil
}
