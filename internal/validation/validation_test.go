package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsernameAccepted(t *testing.T) {
	for _, name := range []string{"abc", "alice", "Alice_99", "___", "a1_", strings.Repeat("x", 64)} {
		assert.NoError(t, Username(name), name)
	}
}

func TestUsernameRejected(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", MsgUsernameTooShort},
		{"ab", MsgUsernameTooShort},
		{"a-", MsgUsernameTooShort},
		{"alice smith", MsgUsernameCharset},
		{"bob!", MsgUsernameCharset},
		{"ünïcode", MsgUsernameCharset},
		{"dash-name", MsgUsernameCharset},
	}

	for _, tt := range tests {
		err := Username(tt.name)
		require.Error(t, err, tt.name)
		assert.Equal(t, tt.want, err.Error(), tt.name)
	}
}

func TestUsernameLengthCountsCharacters(t *testing.T) {
	err := Username("éé")
	require.Error(t, err)
	assert.Equal(t, MsgUsernameTooShort, err.Error())
}

func TestUsernameHint(t *testing.T) {
	assert.Empty(t, UsernameHint(""))
	assert.Equal(t, MsgUsernameCharset, UsernameHint("a!"))
	assert.Equal(t, MsgUsernameTooShort, UsernameHint("ab"))
	assert.Empty(t, UsernameHint("abc"))
}

func TestPassword(t *testing.T) {
	assert.NoError(t, Password("secret"))
	assert.NoError(t, Password("longer password"))

	for _, p := range []string{"", "a", "12345"} {
		err := Password(p)
		require.Error(t, err)
		assert.Equal(t, MsgPasswordTooShort, err.Error())
	}
}

func TestEmail(t *testing.T) {
	assert.NoError(t, Email("alice@example.com"))
	assert.Error(t, Email(""))
	assert.Error(t, Email("not-an-email"))
}

func TestSignupOrder(t *testing.T) {
	tests := []struct {
		name string
		form SignupForm
		want string
	}{
		{
			name: "username checked first",
			form: SignupForm{Username: "a", Password: "1", ConfirmPassword: "2"},
			want: MsgUsernameTooShort,
		},
		{
			name: "username is trimmed",
			form: SignupForm{Username: "  ab  ", Email: "a@b.co", Password: "secret1", ConfirmPassword: "secret1"},
			want: MsgUsernameTooShort,
		},
		{
			name: "password before confirmation",
			form: SignupForm{Username: "alice", Password: "12345", ConfirmPassword: "54321"},
			want: MsgPasswordTooShort,
		},
		{
			name: "confirmation",
			form: SignupForm{Username: "alice", Password: "secret1", ConfirmPassword: "secret2"},
			want: MsgPasswordsMismatch,
		},
		{
			name: "email last",
			form: SignupForm{Username: "alice", Email: "nope", Password: "secret1", ConfirmPassword: "secret1"},
			want: MsgInvalidEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Signup(tt.form)
			require.Error(t, err)
			var verr *Error
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.want, verr.Message)
		})
	}
}

func TestSignupValid(t *testing.T) {
	err := Signup(SignupForm{
		Username:        " alice ",
		Email:           " alice@example.com ",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	assert.NoError(t, Login("alice", "secret1"))
	assert.Error(t, Login("", "secret1"))
	assert.Error(t, Login("   ", "secret1"))
	assert.Error(t, Login("alice", ""))
}
