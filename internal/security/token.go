// Package security holds the onboarding token helpers: issuance and
// constant-time comparison.
package security

import (
	"crypto/subtle"

	"github.com/google/uuid"
)

// NewOnboardingToken returns a fresh opaque access token. Tokens are random
// UUIDs; they are stored as-is so the admin console can re-render the
// onboarding link for an applicant.
func NewOnboardingToken() string {
	return uuid.New().String()
}

// TokenEqual compares a presented token with the stored one in constant time.
// Returns false when either side is empty.
func TokenEqual(presented, stored string) bool {
	if presented == "" || stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(stored)) == 1
}
