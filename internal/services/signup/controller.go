package signup

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/cricketstats-go/internal/dependencies/clock"
	"github.com/mcoot/cricketstats-go/internal/gateway"
	"github.com/mcoot/cricketstats-go/internal/model"
	"github.com/mcoot/cricketstats-go/internal/navigation"
	"github.com/mcoot/cricketstats-go/internal/validation"
)

const (
	// RedirectDelay leaves the success message visible before moving on
	RedirectDelay = 2 * time.Second

	SubmitLabel     = "Create Account"
	SubmittingLabel = "Creating account..."

	MsgSuccess      = "Account created successfully! Redirecting to login..."
	MsgFailed       = "Registration failed. Please try again."
	MsgNetworkError = "Network error. Please check your connection and try again."
	MsgTerms        = "Terms of Service page coming soon!"
	MsgPrivacy      = "Privacy Policy page coming soon!"
)

// Outcome classifies how a submission ended
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeInvalid
	OutcomeRejected
	OutcomeNetworkError
)

// Result is what the user was shown for a submission
type Result struct {
	Outcome Outcome
	Message string
}

// View renders the signup form's feedback
type View interface {
	SetLoading(loading bool, label string)
	ShowResult(message string, success bool)
	ResetForm()
}

// Gateway is the API surface the signup form needs
type Gateway interface {
	Register(ctx context.Context, creds model.SignupCredentials) (*gateway.Response, error)
}

// Session is the session store surface the signup form needs
type Session interface {
	RedirectIfLoggedIn(ctx context.Context) (bool, error)
}

// Controller drives the signup form
type Controller struct {
	gateway   Gateway
	session   Session
	navigator navigation.Navigator
	clock     clock.Clock
	view      View
	logger    *slog.Logger

	mu         sync.Mutex
	submitting bool
}

// NewController creates a signup Controller. A nil logger discards output.
func NewController(
	gateway Gateway,
	session Session,
	navigator navigation.Navigator,
	clock clock.Clock,
	view View,
	logger *slog.Logger,
) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Controller{
		gateway:   gateway,
		session:   session,
		navigator: navigator,
		clock:     clock,
		view:      view,
		logger:    logger,
	}
}

// Open runs when the form is shown; logged in users go to the dashboard
func (c *Controller) Open(ctx context.Context) (bool, error) {
	return c.session.RedirectIfLoggedIn(ctx)
}

// Strength scores a password for the live strength meter
func (c *Controller) Strength(password string) validation.Strength {
	return validation.PasswordStrength(password)
}

// MatchStatus is the live password confirmation indicator
func (c *Controller) MatchStatus(password, confirm string) (validation.MatchState, string) {
	return validation.PasswordMatch(password, confirm)
}

// UsernameHint is the live username indicator
func (c *Controller) UsernameHint(username string) string {
	return validation.UsernameHint(username)
}

// Terms handles the terms-of-service link
func (c *Controller) Terms() {
	c.view.ShowResult(MsgTerms, false)
}

// Privacy handles the privacy-policy link
func (c *Controller) Privacy() {
	c.view.ShowResult(MsgPrivacy, false)
}

// Submit validates the form locally and registers the account.
// Invalid forms never reach the network.
func (c *Controller) Submit(ctx context.Context, form validation.SignupForm) (Result, error) {
	if err := validation.Signup(form); err != nil {
		return c.show(OutcomeInvalid, err.Error()), nil
	}

	if err := c.begin(); err != nil {
		return Result{}, err
	}

	creds := model.SignupCredentials{
		Username: strings.TrimSpace(form.Username),
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
	}
	result := c.register(ctx, creds)
	c.end()

	if result.Outcome != OutcomeSuccess {
		return result, nil
	}

	if err := c.clock.Sleep(ctx, RedirectDelay); err != nil {
		return result, err
	}
	c.navigator.Navigate(navigation.LoginPath)
	return result, nil
}

func (c *Controller) register(ctx context.Context, creds model.SignupCredentials) Result {
	resp, err := c.gateway.Register(ctx, creds)
	if err != nil {
		c.logger.Error("signup request failed", slog.String("error", err.Error()))
		return c.show(OutcomeNetworkError, MsgNetworkError)
	}

	if !resp.OK() {
		return c.show(OutcomeRejected, resp.ErrorMessage(MsgFailed))
	}

	c.logger.Info("account created", slog.String("username", creds.Username))
	result := c.show(OutcomeSuccess, MsgSuccess)
	c.view.ResetForm()
	return result
}

func (c *Controller) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return model.ErrSubmitInProgress
	}
	c.submitting = true
	c.view.SetLoading(true, SubmittingLabel)
	return nil
}

func (c *Controller) end() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	c.view.SetLoading(false, SubmitLabel)
}

func (c *Controller) show(outcome Outcome, message string) Result {
	c.view.ShowResult(message, outcome == OutcomeSuccess)
	return Result{Outcome: outcome, Message: message}
}
