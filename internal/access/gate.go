// Package access validates presented (submission id, token) pairs before any
// onboarding operation runs. Denials are values, not errors; callers decide
// how each reason surfaces.
package access

import (
	"context"
	"strings"

	"applicant-onboarding/backend/internal/security"
	submissiondomain "applicant-onboarding/backend/internal/submission/domain"
)

// Reason classifies why a gate check denied access.
type Reason string

const (
	// ReasonMissingCredential means the submission id or token was absent.
	ReasonMissingCredential Reason = "missing_credential"
	// ReasonNotFound means no submission exists for the id. Surfaced to
	// applicants identically to a token mismatch so ids cannot be probed.
	ReasonNotFound Reason = "not_found"
	// ReasonDisabled means an administrator revoked access; it overrides an
	// otherwise valid token.
	ReasonDisabled Reason = "disabled"
	// ReasonTokenMismatch means the presented token does not equal the stored
	// one, or no token has been issued yet.
	ReasonTokenMismatch Reason = "token_mismatch"
	// ReasonTransientError means the lookup failed; the gate fails closed.
	ReasonTransientError Reason = "transient_error"
)

// Decision is the outcome of a gate check. The zero value denies.
type Decision struct {
	OK     bool
	Reason Reason // empty when OK
}

func deny(r Reason) Decision {
	return Decision{Reason: r}
}

// SubmissionReader is the minimal submission lookup the gate needs.
type SubmissionReader interface {
	GetByID(ctx context.Context, id string) (*submissiondomain.Submission, error)
}

// Gate validates access tokens against stored submissions. Purely a read;
// safe for concurrent use.
type Gate struct {
	submissions SubmissionReader
}

// NewGate returns a Gate backed by the given submission store.
func NewGate(submissions SubmissionReader) *Gate {
	return &Gate{submissions: submissions}
}

// Check reports whether the presented token currently grants access to the
// submission. A storage failure denies with ReasonTransientError, never
// allows.
func (g *Gate) Check(ctx context.Context, submissionID, token string) Decision {
	if strings.TrimSpace(submissionID) == "" || strings.TrimSpace(token) == "" {
		return deny(ReasonMissingCredential)
	}
	s, err := g.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return deny(ReasonTransientError)
	}
	if s == nil {
		return deny(ReasonNotFound)
	}
	if s.Disabled {
		return deny(ReasonDisabled)
	}
	if !security.TokenEqual(token, s.Token) {
		return deny(ReasonTokenMismatch)
	}
	return Decision{OK: true}
}
