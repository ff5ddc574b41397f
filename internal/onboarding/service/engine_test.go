package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"applicant-onboarding/backend/internal/access"
	profiledomain "applicant-onboarding/backend/internal/profile/domain"
	stepsdomain "applicant-onboarding/backend/internal/steps/domain"
	submissiondomain "applicant-onboarding/backend/internal/submission/domain"
)

// mockGate implements AccessGate for tests.
type mockGate struct {
	decision access.Decision
	calls    int
}

func (m *mockGate) Check(ctx context.Context, submissionID, token string) access.Decision {
	m.calls++
	return m.decision
}

func allowAll() *mockGate {
	return &mockGate{decision: access.Decision{OK: true}}
}

// mockSubmissionRepo implements SubmissionRepo with the store's forward-only
// status guard.
type mockSubmissionRepo struct {
	statuses   map[string]submissiondomain.Status
	advanceErr error
}

func (m *mockSubmissionRepo) AdvanceStatus(ctx context.Context, id string, next submissiondomain.Status) error {
	if m.advanceErr != nil {
		return m.advanceErr
	}
	if m.statuses == nil {
		m.statuses = make(map[string]submissiondomain.Status)
	}
	if m.statuses[id].CanTransitionTo(next) {
		m.statuses[id] = next
	}
	return nil
}

// mockProfileRepo implements ProfileRepo with the store's monotonic pointer.
type mockProfileRepo struct {
	profiles   map[string]*profiledomain.Profile
	getErr     error
	upsertErr  error
	advanceErr error
}

func (m *mockProfileRepo) GetBySubmission(ctx context.Context, submissionID string) (*profiledomain.Profile, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.profiles[submissionID], nil
}

func (m *mockProfileRepo) UpsertIdentity(ctx context.Context, submissionID, name, email, whatsapp string, now time.Time) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if m.profiles == nil {
		m.profiles = make(map[string]*profiledomain.Profile)
	}
	p, ok := m.profiles[submissionID]
	if !ok {
		p = &profiledomain.Profile{SubmissionID: submissionID, CurrentStep: 1, CreatedAt: now}
		m.profiles[submissionID] = p
	}
	p.Name, p.Email, p.Whatsapp = name, email, whatsapp
	p.UpdatedAt = now
	return nil
}

func (m *mockProfileRepo) AdvanceStep(ctx context.Context, submissionID string, step int, now time.Time) error {
	if m.advanceErr != nil {
		return m.advanceErr
	}
	if m.profiles == nil {
		m.profiles = make(map[string]*profiledomain.Profile)
	}
	if step > 6 {
		step = 6
	}
	p, ok := m.profiles[submissionID]
	if !ok {
		p = &profiledomain.Profile{SubmissionID: submissionID, CurrentStep: step, CreatedAt: now}
		m.profiles[submissionID] = p
		return nil
	}
	if step > p.CurrentStep {
		p.CurrentStep = step
	}
	p.UpdatedAt = now
	return nil
}

// mockStepRepo implements StepRepo keyed by (submission, step).
type mockStepRepo struct {
	records   map[string]*stepsdomain.StepRecord
	upserts   int
	upsertErr error
}

func stepKey(submissionID string, step int) string {
	return fmt.Sprintf("%s/%d", submissionID, step)
}

func (m *mockStepRepo) Upsert(ctx context.Context, rec *stepsdomain.StepRecord) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if m.records == nil {
		m.records = make(map[string]*stepsdomain.StepRecord)
	}
	m.upserts++
	m.records[stepKey(rec.SubmissionID, rec.Step)] = rec
	return nil
}

func newTestEngine() (*Engine, *mockGate, *mockSubmissionRepo, *mockProfileRepo, *mockStepRepo) {
	gate := allowAll()
	subs := &mockSubmissionRepo{statuses: map[string]submissiondomain.Status{"sub-1": submissiondomain.StatusPending}}
	profiles := &mockProfileRepo{}
	steps := &mockStepRepo{}
	return NewEngine(gate, subs, profiles, steps), gate, subs, profiles, steps
}

var step1Payload = json.RawMessage(`{"name":"A B","email":"a@b.com","whatsapp":"123"}`)

func TestSubmitStep_Step1CreatesProfile(t *testing.T) {
	engine, _, subs, profiles, steps := newTestEngine()
	ctx := context.Background()

	res, err := engine.SubmitStep(ctx, "sub-1", "tok-1", 1, step1Payload)
	if err != nil {
		t.Fatalf("SubmitStep: %v", err)
	}
	if res.NextStep == nil || *res.NextStep != 2 {
		t.Fatalf("next step = %v, want 2", res.NextStep)
	}

	p := profiles.profiles["sub-1"]
	if p == nil {
		t.Fatal("profile should be created from step 1")
	}
	if p.Name != "A B" || p.Email != "a@b.com" || p.Whatsapp != "123" {
		t.Errorf("profile identity = %q/%q/%q, want A B/a@b.com/123", p.Name, p.Email, p.Whatsapp)
	}
	if p.CurrentStep != 2 {
		t.Errorf("current step = %d, want 2", p.CurrentStep)
	}
	if subs.statuses["sub-1"] != submissiondomain.StatusOnboarding {
		t.Errorf("status = %s, want onboarding", subs.statuses["sub-1"])
	}
	if steps.records[stepKey("sub-1", 1)] == nil {
		t.Error("step 1 record should be stored")
	}
}

func TestSubmitStep_GateDeniedPropagates(t *testing.T) {
	engine, gate, _, profiles, steps := newTestEngine()
	gate.decision = access.Decision{Reason: access.ReasonTokenMismatch}

	_, err := engine.SubmitStep(context.Background(), "sub-1", "wrong", 1, step1Payload)
	var accessErr *AccessError
	if !errors.As(err, &accessErr) {
		t.Fatalf("error = %v, want AccessError", err)
	}
	if accessErr.Reason != access.ReasonTokenMismatch {
		t.Errorf("reason = %q, want %q", accessErr.Reason, access.ReasonTokenMismatch)
	}
	if len(steps.records) != 0 {
		t.Error("no step record should be written on denial")
	}
	if len(profiles.profiles) != 0 {
		t.Error("no profile should be written on denial")
	}
}

func TestSubmitStep_TokenRecheckedEveryCall(t *testing.T) {
	engine, gate, _, _, _ := newTestEngine()
	ctx := context.Background()

	if _, err := engine.SubmitStep(ctx, "sub-1", "tok-1", 1, step1Payload); err != nil {
		t.Fatalf("SubmitStep: %v", err)
	}
	// Admin disables mid-flow; the very next call must be denied.
	gate.decision = access.Decision{Reason: access.ReasonDisabled}
	_, err := engine.SubmitStep(ctx, "sub-1", "tok-1", 2, json.RawMessage(`{"position":"intern"}`))
	var accessErr *AccessError
	if !errors.As(err, &accessErr) {
		t.Fatalf("error = %v, want AccessError", err)
	}
	if accessErr.Reason != access.ReasonDisabled {
		t.Errorf("reason = %q, want %q", accessErr.Reason, access.ReasonDisabled)
	}
	if gate.calls != 2 {
		t.Errorf("gate calls = %d, want 2", gate.calls)
	}
}

func TestSubmitStep_SkipAheadRejected(t *testing.T) {
	engine, _, _, profiles, steps := newTestEngine()
	ctx := context.Background()

	if _, err := engine.SubmitStep(ctx, "sub-1", "tok-1", 1, step1Payload); err != nil {
		t.Fatalf("step 1: %v", err)
	}

	_, err := engine.SubmitStep(ctx, "sub-1", "tok-1", 3, json.RawMessage(`{"chatSetup":true}`))
	var oooErr *StepOutOfOrderError
	if !errors.As(err, &oooErr) {
		t.Fatalf("error = %v, want StepOutOfOrderError", err)
	}
	if oooErr.CurrentStep != 2 {
		t.Errorf("current step in error = %d, want 2", oooErr.CurrentStep)
	}
	if steps.records[stepKey("sub-1", 3)] != nil {
		t.Error("skip-ahead must not create a step record")
	}
	if profiles.profiles["sub-1"].CurrentStep != 2 {
		t.Errorf("pointer = %d, want unchanged 2", profiles.profiles["sub-1"].CurrentStep)
	}
}

func TestSubmitStep_SkipAheadWithNoProfile(t *testing.T) {
	engine, _, _, _, steps := newTestEngine()

	_, err := engine.SubmitStep(context.Background(), "sub-1", "tok-1", 2, json.RawMessage(`{"position":"intern"}`))
	var oooErr *StepOutOfOrderError
	if !errors.As(err, &oooErr) {
		t.Fatalf("error = %v, want StepOutOfOrderError", err)
	}
	if oooErr.CurrentStep != 1 {
		t.Errorf("current step in error = %d, want 1", oooErr.CurrentStep)
	}
	if len(steps.records) != 0 {
		t.Error("no record should be written")
	}
}

func TestSubmitStep_IdempotentResubmission(t *testing.T) {
	engine, _, _, profiles, steps := newTestEngine()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := engine.SubmitStep(ctx, "sub-1", "tok-1", 1, step1Payload); err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
	}

	if len(steps.records) != 1 {
		t.Errorf("record count = %d, want 1", len(steps.records))
	}
	if got := profiles.profiles["sub-1"].CurrentStep; got != 2 {
		t.Errorf("current step = %d, want 2 (not advanced twice)", got)
	}
}

func TestSubmitStep_FullRunToCompletion(t *testing.T) {
	engine, _, subs, profiles, _ := newTestEngine()
	ctx := context.Background()

	payloads := map[int]json.RawMessage{
		1: step1Payload,
		2: json.RawMessage(`{"position":"intern","birthday":"2000-01-01"}`),
		3: json.RawMessage(`{"allToolsConfirmed":true}`),
		4: json.RawMessage(`{"acknowledged":true}`),
		5: json.RawMessage(`{"videosWatched":"true","nextStepsRead":"true","questions":""}`),
	}

	for step := 1; step <= 5; step++ {
		res, err := engine.SubmitStep(ctx, "sub-1", "tok-1", step, payloads[step])
		if err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
		if step < 5 {
			if res.NextStep == nil || *res.NextStep != step+1 {
				t.Fatalf("step %d next = %v, want %d", step, res.NextStep, step+1)
			}
		} else if res.NextStep != nil {
			t.Fatalf("step 5 next = %d, want nil (terminal)", *res.NextStep)
		}
	}

	if subs.statuses["sub-1"] != submissiondomain.StatusCompleted {
		t.Errorf("status = %s, want completed", subs.statuses["sub-1"])
	}
	if got := profiles.profiles["sub-1"].CurrentStep; got != 6 {
		t.Errorf("current step = %d, want 6", got)
	}
	if got := engine.CurrentStep(ctx, "sub-1"); got != 6 {
		t.Errorf("CurrentStep = %d, want 6", got)
	}
}

func TestSubmitStep_BackwardEditAfterCompletion(t *testing.T) {
	engine, _, subs, profiles, steps := newTestEngine()
	ctx := context.Background()

	profiles.profiles = map[string]*profiledomain.Profile{
		"sub-1": {SubmissionID: "sub-1", CurrentStep: 6},
	}
	subs.statuses["sub-1"] = submissiondomain.StatusCompleted

	res, err := engine.SubmitStep(ctx, "sub-1", "tok-1", 2, json.RawMessage(`{"position":"senior intern"}`))
	if err != nil {
		t.Fatalf("backward edit: %v", err)
	}
	if res.NextStep == nil || *res.NextStep != 3 {
		t.Errorf("next = %v, want 3", res.NextStep)
	}
	if steps.records[stepKey("sub-1", 2)] == nil {
		t.Error("backward edit should upsert the step record")
	}
	if got := profiles.profiles["sub-1"].CurrentStep; got != 6 {
		t.Errorf("pointer = %d, want 6 (never regresses)", got)
	}
	if subs.statuses["sub-1"] != submissiondomain.StatusCompleted {
		t.Errorf("status = %s, want completed (sticky)", subs.statuses["sub-1"])
	}
}

func TestSubmitStep_MonotonicPointer(t *testing.T) {
	engine, _, _, profiles, _ := newTestEngine()
	ctx := context.Background()

	last := 0
	steps := []int{1, 1, 2, 1, 3, 2}
	for _, step := range steps {
		if _, err := engine.SubmitStep(ctx, "sub-1", "tok-1", step, payloadForStep(step)); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
		got := profiles.profiles["sub-1"].CurrentStep
		if got < last {
			t.Fatalf("pointer regressed from %d to %d after step %d", last, got, step)
		}
		last = got
	}
}

func payloadForStep(step int) json.RawMessage {
	if step == 1 {
		return step1Payload
	}
	return json.RawMessage(fmt.Sprintf(`{"field":"step-%d"}`, step))
}

func TestSubmitStep_ValidationErrors(t *testing.T) {
	engine, _, _, profiles, steps := newTestEngine()
	ctx := context.Background()

	testCases := []struct {
		name    string
		step    int
		payload string
	}{
		{"step 1 missing email", 1, `{"name":"A B","whatsapp":"123"}`},
		{"step 1 malformed", 1, `{broken`},
		{"step 2 empty object", 2, `{}`},
		{"step 2 array", 2, `[1]`},
		{"step zero", 0, `{"a":1}`},
		{"step six", 6, `{"a":1}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.SubmitStep(ctx, "sub-1", "tok-1", tc.step, json.RawMessage(tc.payload))
			var valErr *ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
		})
	}

	if len(steps.records) != 0 {
		t.Error("no step records should be written for rejected payloads")
	}
	if len(profiles.profiles) != 0 {
		t.Error("no profile should be written for rejected payloads")
	}
}

func TestSubmitStep_RecordWrittenBeforePointer(t *testing.T) {
	engine, _, _, profiles, steps := newTestEngine()
	steps.upsertErr = errors.New("disk full")

	_, err := engine.SubmitStep(context.Background(), "sub-1", "tok-1", 1, step1Payload)
	if err == nil {
		t.Fatal("SubmitStep should fail when the step write fails")
	}
	if len(profiles.profiles) != 0 {
		t.Error("pointer must not advance when the step record write failed")
	}
}

func TestSubmitStep_ProfileReadErrorIsTransient(t *testing.T) {
	engine, _, _, profiles, steps := newTestEngine()
	profiles.getErr = errors.New("connection reset")

	_, err := engine.SubmitStep(context.Background(), "sub-1", "tok-1", 1, step1Payload)
	if err == nil {
		t.Fatal("SubmitStep should surface the storage error")
	}
	var valErr *ValidationError
	var oooErr *StepOutOfOrderError
	if errors.As(err, &valErr) || errors.As(err, &oooErr) {
		t.Errorf("storage error misclassified as %v", err)
	}
	if len(steps.records) != 0 {
		t.Error("nothing should be written when the pointer read failed")
	}
}

func TestCurrentStep(t *testing.T) {
	engine, _, _, profiles, _ := newTestEngine()
	ctx := context.Background()

	if got := engine.CurrentStep(ctx, "sub-1"); got != 1 {
		t.Errorf("CurrentStep with no profile = %d, want 1", got)
	}

	profiles.profiles = map[string]*profiledomain.Profile{
		"sub-1": {SubmissionID: "sub-1", CurrentStep: 4},
	}
	if got := engine.CurrentStep(ctx, "sub-1"); got != 4 {
		t.Errorf("CurrentStep = %d, want 4", got)
	}

	profiles.getErr = errors.New("timeout")
	if got := engine.CurrentStep(ctx, "sub-1"); got != 1 {
		t.Errorf("CurrentStep on storage error = %d, want 1 (under-report)", got)
	}
}
