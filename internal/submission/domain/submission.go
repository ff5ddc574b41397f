package domain

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Status is the lifecycle state of a submission. Transitions are forward-only:
// pending → onboarding → completed.
type Status string

const (
	StatusPending    Status = "pending"
	StatusOnboarding Status = "onboarding"
	StatusCompleted  Status = "completed"
)

// rank orders statuses for the forward-only transition check. Unknown
// statuses rank below pending so they can never be transitioned into.
func (s Status) rank() int {
	switch s {
	case StatusPending:
		return 1
	case StatusOnboarding:
		return 2
	case StatusCompleted:
		return 3
	default:
		return 0
	}
}

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	return s.rank() > 0
}

// CanTransitionTo reports whether moving from s to next is a forward
// transition. Same-state transitions are not forward.
func (s Status) CanTransitionTo(next Status) bool {
	return next.Valid() && s.rank() < next.rank()
}

// Submission is one applicant engagement: the submitted profile URL plus the
// access token and lifecycle state the onboarding flow is keyed on.
type Submission struct {
	ID         string
	ProfileURL string
	Status     Status
	// Token is the onboarding access token; empty until an administrator
	// issues one.
	Token     string
	Disabled  bool
	CreatedAt time.Time
}

// ErrInvalidProfileURL is returned by ValidateProfileURL for anything that is
// not an absolute http(s) URL.
var ErrInvalidProfileURL = errors.New("profile URL must be a valid http(s) URL")

// ValidateProfileURL checks that raw parses as an absolute URL with an http or
// https scheme and a host.
func ValidateProfileURL(raw string) error {
	if raw == "" {
		return ErrInvalidProfileURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProfileURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidProfileURL
	}
	return nil
}
