package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Band is a qualitative password strength level
type Band string

const (
	BandVeryWeak Band = "Very weak"
	BandWeak     Band = "Weak"
	BandFair     Band = "Fair"
	BandGood     Band = "Good"
	BandStrong   Band = "Strong"
)

// MaxStrength is the score of a password passing every check
const MaxStrength = 6

var (
	lowerPattern  = regexp.MustCompile(`[a-z]`)
	upperPattern  = regexp.MustCompile(`[A-Z]`)
	digitPattern  = regexp.MustCompile(`[0-9]`)
	symbolPattern = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// Strength is the result of scoring a password
type Strength struct {
	Score    int      `json:"score"`
	Band     Band     `json:"band"`
	Feedback []string `json:"feedback,omitempty"`
}

// PasswordStrength scores password from 0 to 6, one point per passed check.
// Feedback names the missing pieces in check order; the "10 or more
// characters" check earns a point but never produces feedback.
func PasswordStrength(password string) Strength {
	var s Strength
	length := utf8.RuneCountInString(password)

	if length >= MinPasswordLength {
		s.Score++
	} else {
		s.Feedback = append(s.Feedback, "at least 6 characters")
	}

	if length >= StrongLength {
		s.Score++
	}

	checks := []struct {
		pattern *regexp.Regexp
		missing string
	}{
		{lowerPattern, "lowercase letter"},
		{upperPattern, "uppercase letter"},
		{digitPattern, "number"},
		{symbolPattern, "special character"},
	}
	for _, c := range checks {
		if c.pattern.MatchString(password) {
			s.Score++
		} else {
			s.Feedback = append(s.Feedback, c.missing)
		}
	}

	s.Band = BandFor(s.Score)
	return s
}

// BandFor maps a score to its band
func BandFor(score int) Band {
	switch {
	case score <= 0:
		return BandVeryWeak
	case score <= 2:
		return BandWeak
	case score <= 4:
		return BandFair
	case score == 5:
		return BandGood
	default:
		return BandStrong
	}
}

// Label renders the strength meter text, suggesting at most two improvements
func (s Strength) Label(password string) string {
	label := fmt.Sprintf("Password strength: %s", s.Band)
	if len(s.Feedback) > 0 && password != "" {
		n := min(2, len(s.Feedback))
		label += fmt.Sprintf(" (Add: %s)", strings.Join(s.Feedback[:n], ", "))
	}
	return label
}

// MatchState describes whether the confirmation matches the password
type MatchState string

const (
	MatchNone     MatchState = ""
	MatchOK       MatchState = "match"
	MatchMismatch MatchState = "no-match"
)

// PasswordMatch compares the confirmation against the password.
// An empty confirmation gives no verdict.
func PasswordMatch(password, confirm string) (MatchState, string) {
	switch {
	case confirm == "":
		return MatchNone, ""
	case password == confirm:
		return MatchOK, "✓ Passwords match"
	default:
		return MatchMismatch, "✗ Passwords do not match"
	}
}
