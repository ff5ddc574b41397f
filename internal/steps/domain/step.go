package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Wizard step bounds. The pointer in the profile projection runs one past
// LastStep: TerminalStep means every step has been submitted.
const (
	FirstStep    = 1
	LastStep     = 5
	TerminalStep = LastStep + 1
)

// ValidStep reports whether n names a real wizard step.
func ValidStep(n int) bool {
	return n >= FirstStep && n <= LastStep
}

// StepRecord is one step's submitted answers for a submission. At most one
// record exists per (submission, step); resubmitting a step overwrites the
// payload rather than appending.
type StepRecord struct {
	SubmissionID string
	Step         int
	Payload      json.RawMessage
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ErrEmptyPayload is returned when a step payload is missing or not a JSON
// object with at least one field.
var ErrEmptyPayload = errors.New("step payload must be a non-empty JSON object")

// ValidatePayload checks that payload is a JSON object with at least one
// field. Field contents are step-specific and stored opaquely.
func ValidatePayload(payload json.RawMessage) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(payload, &m); err != nil {
		return fmt.Errorf("%w: %v", ErrEmptyPayload, err)
	}
	if len(m) == 0 {
		return ErrEmptyPayload
	}
	return nil
}

// Identity is the subset of the step 1 payload mirrored into the profile
// projection, so the admin list renders applicant identity without parsing
// full payloads.
type Identity struct {
	Name     string
	Email    string
	Whatsapp string
}

// DecodeIdentity extracts identity fields from a step 1 payload. The form
// sends either a combined name or a firstName/lastName pair; both are
// accepted. Returns an error when name, email, or whatsapp is missing.
func DecodeIdentity(payload json.RawMessage) (*Identity, error) {
	var fields struct {
		Name      string `json:"name"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Whatsapp  string `json:"whatsapp"`
	}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, fmt.Errorf("decode step 1 payload: %w", err)
	}

	name := strings.TrimSpace(fields.Name)
	if name == "" {
		name = strings.TrimSpace(strings.TrimSpace(fields.FirstName) + " " + strings.TrimSpace(fields.LastName))
	}
	email := strings.TrimSpace(fields.Email)
	whatsapp := strings.TrimSpace(fields.Whatsapp)

	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if whatsapp == "" {
		missing = append(missing, "whatsapp")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("step 1 payload missing required fields: %s", strings.Join(missing, ", "))
	}

	return &Identity{Name: name, Email: email, Whatsapp: whatsapp}, nil
}
