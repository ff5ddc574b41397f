package domain

import "testing"

func TestValidateProfileURL_Valid(t *testing.T) {
	valid := []string{
		"https://example.com/u",
		"http://linkedin.com/in/someone",
		"https://portfolio.dev/me?ref=hn",
	}
	for _, raw := range valid {
		if err := ValidateProfileURL(raw); err != nil {
			t.Errorf("ValidateProfileURL(%q) = %v, want nil", raw, err)
		}
	}
}

func TestValidateProfileURL_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"no scheme", "example.com/u"},
		{"relative path", "/profile/123"},
		{"ftp scheme", "ftp://example.com/u"},
		{"scheme only", "https://"},
		{"plain text", "not a url"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateProfileURL(tc.raw); err == nil {
				t.Errorf("ValidateProfileURL(%q) should return error", tc.raw)
			}
		})
	}
}

func TestStatus_CanTransitionTo(t *testing.T) {
	testCases := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusPending, StatusOnboarding, true},
		{StatusPending, StatusCompleted, true},
		{StatusOnboarding, StatusCompleted, true},
		{StatusOnboarding, StatusPending, false},
		{StatusCompleted, StatusOnboarding, false},
		{StatusCompleted, StatusPending, false},
		{StatusPending, StatusPending, false},
		{StatusCompleted, StatusCompleted, false},
		{StatusPending, Status("archived"), false},
	}

	for _, tc := range testCases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s → %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusOnboarding, StatusCompleted} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Status("deleted").Valid() {
		t.Error("unknown status should not be valid")
	}
}
