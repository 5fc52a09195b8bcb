package validation

import (
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Rule limits
const (
	MinUsernameLength = 3
	MinPasswordLength = 6
	StrongLength      = 10
)

// User-facing validation messages
const (
	MsgUsernameTooShort  = "Username must be at least 3 characters long"
	MsgUsernameCharset   = "Username can only contain letters, numbers, and underscores"
	MsgPasswordTooShort  = "Password must be at least 6 characters long"
	MsgPasswordsMismatch = "Passwords do not match"
	MsgInvalidEmail      = "Please enter a valid email address"
	MsgMissingLogin      = "Please enter both username and password"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Error is a local validation failure. Its message is shown to the user as is.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// SignupForm is the raw content of the signup form
type SignupForm struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Username checks length then character class. Callers trim first.
func Username(username string) error {
	if utf8.RuneCountInString(username) < MinUsernameLength {
		return &Error{Field: "username", Message: MsgUsernameTooShort}
	}
	if !usernamePattern.MatchString(username) {
		return &Error{Field: "username", Message: MsgUsernameCharset}
	}
	return nil
}

// UsernameHint is the live feedback shown while typing a username.
// Unlike Username, an empty value produces no hint and the character
// check comes first.
func UsernameHint(username string) string {
	switch {
	case username == "":
		return ""
	case !usernamePattern.MatchString(username):
		return MsgUsernameCharset
	case utf8.RuneCountInString(username) < MinUsernameLength:
		return MsgUsernameTooShort
	default:
		return ""
	}
}

// Password enforces the minimum length, the only strength rule that blocks submission
func Password(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return &Error{Field: "password", Message: MsgPasswordTooShort}
	}
	return nil
}

// Email checks the address format
func Email(email string) error {
	if err := instance().Var(email, "required,email"); err != nil {
		return &Error{Field: "email", Message: MsgInvalidEmail}
	}
	return nil
}

// Signup validates the whole form in display order and returns the first failure
func Signup(form SignupForm) error {
	if err := Username(strings.TrimSpace(form.Username)); err != nil {
		return err
	}
	if err := Password(form.Password); err != nil {
		return err
	}
	if form.Password != form.ConfirmPassword {
		return &Error{Field: "confirmPassword", Message: MsgPasswordsMismatch}
	}
	return Email(strings.TrimSpace(form.Email))
}

// Login rejects an empty username (after trimming) or password
func Login(username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return &Error{Message: MsgMissingLogin}
	}
	return nil
}
