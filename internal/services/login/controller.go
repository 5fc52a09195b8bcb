package login

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
	RedirectDelay = 1500 * time.Millisecond

	SubmitLabel     = "Sign in"
	SubmittingLabel = "Signing in..."

	MsgSuccess        = "Login successful! Redirecting..."
	MsgFailed         = "Login failed. Please try again."
	MsgNetworkError   = "Network error. Please check your connection and try again."
	MsgForgotPassword = "Forgot password functionality coming soon!"
)

// State is the controller's submission state
type State int

const (
	StateIdle State = iota
	StateSubmitting
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

// View renders the login form's feedback
type View interface {
	SetLoading(loading bool, label string)
	ShowResult(message string, success bool)
}

// Gateway is the API surface the login form needs
type Gateway interface {
	Login(ctx context.Context, creds model.LoginCredentials) (*gateway.Response, error)
}

// Session is the session store surface the login form needs
type Session interface {
	Set(ctx context.Context, token, username string) error
	RedirectIfLoggedIn(ctx context.Context) (bool, error)
}

// Controller drives the login form
type Controller struct {
	gateway   Gateway
	session   Session
	navigator navigation.Navigator
	clock     clock.Clock
	view      View
	logger    *slog.Logger

	mu    sync.Mutex
	state State
}

// NewController creates a login Controller. A nil logger discards output.
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

// Open runs when the form is shown. An active session skips straight to
// the dashboard and Open returns true.
func (c *Controller) Open(ctx context.Context) (bool, error) {
	return c.session.RedirectIfLoggedIn(ctx)
}

// State returns the current submission state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit logs in with the given credentials. Only one submission may be in
// flight; a concurrent call fails with model.ErrSubmitInProgress.
func (c *Controller) Submit(ctx context.Context, username, password string) (Result, error) {
	if err := c.begin(); err != nil {
		return Result{}, err
	}

	result, err := c.submit(ctx, username, password)
	c.end()
	if err != nil || result.Outcome != OutcomeSuccess {
		return result, err
	}

	if err := c.clock.Sleep(ctx, RedirectDelay); err != nil {
		return result, err
	}
	c.navigator.Navigate(navigation.DashboardPath)
	return result, nil
}

// ForgotPassword handles the forgot-password link
func (c *Controller) ForgotPassword() {
	c.view.ShowResult(MsgForgotPassword, false)
}

func (c *Controller) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSubmitting {
		return model.ErrSubmitInProgress
	}
	c.state = StateSubmitting
	c.view.SetLoading(true, SubmittingLabel)
	return nil
}

func (c *Controller) end() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateIdle
	c.view.SetLoading(false, SubmitLabel)
}

func (c *Controller) submit(ctx context.Context, username, password string) (Result, error) {
	creds := model.LoginCredentials{
		Username: strings.TrimSpace(username),
		Password: password,
	}

	if err := validation.Login(creds.Username, creds.Password); err != nil {
		return c.show(OutcomeInvalid, err.Error()), nil
	}

	resp, err := c.gateway.Login(ctx, creds)
	if err != nil {
		c.logger.Error("login request failed", slog.String("error", err.Error()))
		return c.show(OutcomeNetworkError, MsgNetworkError), nil
	}

	var body model.TokenResponse
	if decodeErr := resp.Decode(&body); decodeErr != nil {
		c.logger.Warn("login response was not JSON", slog.Int("status", resp.StatusCode))
	}

	if !resp.OK() || body.AccessToken == "" {
		return c.show(OutcomeRejected, resp.ErrorMessage(MsgFailed)), nil
	}

	if err := c.session.Set(ctx, body.AccessToken, creds.Username); err != nil {
		return c.show(OutcomeRejected, MsgFailed), err
	}

	c.logger.Info("logged in", slog.String("username", creds.Username))
	return c.show(OutcomeSuccess, MsgSuccess), nil
}

func (c *Controller) show(outcome Outcome, message string) Result {
	c.view.ShowResult(message, outcome == OutcomeSuccess)
	return Result{Outcome: outcome, Message: message}
}
