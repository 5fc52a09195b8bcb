package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordStrengthScores(t *testing.T) {
	tests := []struct {
		password string
		score    int
		band     Band
	}{
		{"", 0, BandVeryWeak},
		{"a", 1, BandWeak},
		{"abcdef", 2, BandWeak},
		{"abcdeF", 3, BandFair},
		{"abcde1F", 4, BandFair},
		{"abcde1F!", 5, BandGood},
		{"abcdefghij", 3, BandFair},
		{"Abcdefgh1!", 6, BandStrong},
		{"!!!!!!!!!!", 3, BandFair},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			s := PasswordStrength(tt.password)
			assert.Equal(t, tt.score, s.Score)
			assert.Equal(t, tt.band, s.Band)
			assert.GreaterOrEqual(t, s.Score, 0)
			assert.LessOrEqual(t, s.Score, MaxStrength)
		})
	}
}

func TestPasswordStrengthFeedbackOrder(t *testing.T) {
	s := PasswordStrength("abc")
	assert.Equal(t, []string{"at least 6 characters", "uppercase letter", "number", "special character"}, s.Feedback)
}

func TestBandFor(t *testing.T) {
	assert.Equal(t, BandVeryWeak, BandFor(0))
	assert.Equal(t, BandWeak, BandFor(1))
	assert.Equal(t, BandWeak, BandFor(2))
	assert.Equal(t, BandFair, BandFor(3))
	assert.Equal(t, BandFair, BandFor(4))
	assert.Equal(t, BandGood, BandFor(5))
	assert.Equal(t, BandStrong, BandFor(6))
}

func TestStrengthLabel(t *testing.T) {
	assert.Equal(t, "Password strength: Very weak", PasswordStrength("").Label(""))
	assert.Equal(t,
		"Password strength: Weak (Add: uppercase letter, number)",
		PasswordStrength("abcdef").Label("abcdef"))
	assert.Equal(t, "Password strength: Strong", PasswordStrength("Abcdefgh1!").Label("Abcdefgh1!"))
}

func TestPasswordMatch(t *testing.T) {
	state, text := PasswordMatch("secret1", "")
	assert.Equal(t, MatchNone, state)
	assert.Empty(t, text)

	state, text = PasswordMatch("secret1", "secret1")
	assert.Equal(t, MatchOK, state)
	assert.Equal(t, "✓ Passwords match", text)

	state, text = PasswordMatch("secret1", "secret2")
	assert.Equal(t, MatchMismatch, state)
	assert.Equal(t, "✗ Passwords do not match", text)
}
