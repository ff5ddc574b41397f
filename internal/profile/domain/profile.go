package domain

import "time"

// Profile is the denormalized identity projection for a submission plus the
// wizard pointer. CurrentStep N means steps 1..N-1 are submitted and N is the
// next step to present; 6 means the wizard is complete. The pointer is
// non-decreasing and written only by the onboarding engine.
type Profile struct {
	SubmissionID string
	Name         string
	Email        string
	Whatsapp     string
	CurrentStep  int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
