package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/mcoot/cricketstats-go/internal/gateway"
	"github.com/mcoot/cricketstats-go/internal/model"
	"github.com/mcoot/cricketstats-go/internal/navigation"
)

// Section identifies a dashboard tab
type Section string

const (
	SectionOverview  Section = "overview"
	SectionMatches   Section = "matches"
	SectionBatting   Section = "batting"
	SectionBowling   Section = "bowling"
	SectionAnalytics Section = "analytics"
)

// Sections lists every tab in display order
var Sections = []Section{SectionOverview, SectionMatches, SectionBatting, SectionBowling, SectionAnalytics}

// ParseSection validates a section name
func ParseSection(name string) (Section, error) {
	for _, s := range Sections {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", model.ErrUnknownSection, name)
}

const (
	MsgMatchesFailed        = "Failed to load matches"
	MsgMatchesRetry         = "Failed to load matches. Please try again."
	MsgBattingFailed        = "Failed to load batting stats"
	MsgBattingRetry         = "Failed to load batting stats. Please try again."
	MsgNoMatches            = "No matches found. Add your first match!"
	MsgBowlingPlaceholder   = "Bowling stats will be implemented soon!"
	MsgAnalyticsPlaceholder = "Analytics and charts will be implemented soon!"
	MsgAddMatchFailed       = "Failed to add match"
)

// Overview is the content of the overview cards
type Overview struct {
	TotalMatches   int    `json:"total_matches"`
	TotalRuns      int    `json:"total_runs"`
	BattingAverage string `json:"batting_average"`
	StrikeRate     string `json:"strike_rate"`
}

// ZeroOverview is shown when the summary cannot be loaded
var ZeroOverview = Overview{BattingAverage: "0.00", StrikeRate: "0.00"}

// View renders the dashboard
type View interface {
	ShowWelcome(username string)
	ActivateSection(section Section)
	ShowOverview(overview Overview)
	ShowMatches(matches []model.Match)
	ShowBattingStats(stats model.BattingDetailed)
	ShowPlaceholder(section Section, message string)
	ShowError(message string)
}

// Gateway is the API surface the dashboard needs
type Gateway interface {
	BattingSummary(ctx context.Context) (*gateway.Response, error)
	BattingDetailed(ctx context.Context) (*gateway.Response, error)
	Matches(ctx context.Context) (*gateway.Response, error)
	CreateMatch(ctx context.Context, match model.MatchCreate) (*gateway.Response, error)
}

// Session is the session store surface the dashboard needs
type Session interface {
	RequireAuth(ctx context.Context) (bool, error)
	Username(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// Controller drives the dashboard page
type Controller struct {
	gateway   Gateway
	session   Session
	navigator navigation.Navigator
	view      View
	logger    *slog.Logger

	mu     sync.Mutex
	active Section
}

// NewController creates a dashboard Controller. A nil logger discards output.
func NewController(
	gateway Gateway,
	session Session,
	navigator navigation.Navigator,
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
		view:      view,
		logger:    logger,
	}
}

// Active returns the visible section, or "" before Open
func (c *Controller) Active() Section {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Open shows the dashboard. Without an active session the user is sent to
// the login page and Open returns false.
func (c *Controller) Open(ctx context.Context) (bool, error) {
	ok, err := c.session.RequireAuth(ctx)
	if err != nil || !ok {
		return false, err
	}

	username, err := c.session.Username(ctx)
	if err != nil {
		return false, err
	}
	if username != "" {
		c.view.ShowWelcome(username)
	}

	c.activate(SectionOverview)
	return true, c.LoadOverview(ctx)
}

// Dispatch handles one user event
func (c *Controller) Dispatch(ctx context.Context, event Event) error {
	switch e := event.(type) {
	case NavigateEvent:
		if _, err := ParseSection(string(e.Section)); err != nil {
			return err
		}
		c.activate(e.Section)
		return c.load(ctx, e.Section)
	case LogoutEvent:
		if !e.Confirmed {
			return nil
		}
		return c.session.Clear(ctx)
	case AddMatchEvent:
		c.navigator.Navigate(navigation.AddMatchPath)
		return nil
	default:
		return fmt.Errorf("unhandled dashboard event %T", event)
	}
}

func (c *Controller) activate(section Section) {
	c.mu.Lock()
	c.active = section
	c.mu.Unlock()
	c.view.ActivateSection(section)
}

func (c *Controller) load(ctx context.Context, section Section) error {
	switch section {
	case SectionMatches:
		return c.LoadMatches(ctx)
	case SectionBatting:
		return c.LoadBatting(ctx)
	case SectionBowling:
		c.view.ShowPlaceholder(SectionBowling, MsgBowlingPlaceholder)
	case SectionAnalytics:
		c.view.ShowPlaceholder(SectionAnalytics, MsgAnalyticsPlaceholder)
	default:
		// Overview is loaded on open
	}
	return nil
}

// LoadOverview renders the overview cards, zeroed on any failure.
// Only an ended session is returned as an error.
func (c *Controller) LoadOverview(ctx context.Context) error {
	resp, err := c.gateway.BattingSummary(ctx)
	if err == nil && resp.OK() {
		var summary model.BattingSummary
		if err = resp.Decode(&summary); err == nil {
			c.view.ShowOverview(Overview{
				TotalMatches:   summary.TotalMatches,
				TotalRuns:      summary.TotalRuns,
				BattingAverage: fmt.Sprintf("%.2f", summary.BattingAverage),
				StrikeRate:     fmt.Sprintf("%.2f", summary.StrikeRate),
			})
			return nil
		}
	}

	if err != nil {
		c.logger.Error("failed to load overview stats", slog.String("error", err.Error()))
	} else {
		c.logger.Warn("overview stats unavailable", slog.Int("status", resp.StatusCode))
	}
	c.view.ShowOverview(ZeroOverview)
	return sessionEnded(err)
}

// LoadMatches renders the match list or an error message
func (c *Controller) LoadMatches(ctx context.Context) error {
	resp, err := c.gateway.Matches(ctx)
	if err != nil {
		c.logger.Error("failed to load matches", slog.String("error", err.Error()))
		c.view.ShowError(MsgMatchesRetry)
		return sessionEnded(err)
	}
	if !resp.OK() {
		c.view.ShowError(MsgMatchesFailed)
		return nil
	}

	var matches []model.Match
	if err := resp.Decode(&matches); err != nil {
		c.logger.Error("failed to load matches", slog.String("error", err.Error()))
		c.view.ShowError(MsgMatchesRetry)
		return nil
	}
	c.view.ShowMatches(matches)
	return nil
}

// LoadBatting renders the batting cards. On failure it shows an error and
// zeroed cards.
func (c *Controller) LoadBatting(ctx context.Context) error {
	resp, err := c.gateway.BattingDetailed(ctx)
	if err != nil {
		c.logger.Error("failed to load batting stats", slog.String("error", err.Error()))
		c.view.ShowError(MsgBattingRetry)
		c.view.ShowBattingStats(model.BattingDetailed{})
		return sessionEnded(err)
	}
	if !resp.OK() {
		c.view.ShowError(MsgBattingFailed)
		c.view.ShowBattingStats(model.BattingDetailed{})
		return nil
	}

	var stats model.BattingDetailed
	if err := resp.Decode(&stats); err != nil {
		c.logger.Error("failed to load batting stats", slog.String("error", err.Error()))
		c.view.ShowError(MsgBattingRetry)
		c.view.ShowBattingStats(model.BattingDetailed{})
		return nil
	}
	c.view.ShowBattingStats(stats)
	return nil
}

// CreateMatch records a match from the add-match page
func (c *Controller) CreateMatch(ctx context.Context, match model.MatchCreate) (*model.Match, error) {
	resp, err := c.gateway.CreateMatch(ctx, match)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(MsgAddMatchFailed); err != nil {
		return nil, err
	}

	var created model.Match
	if err := resp.Decode(&created); err != nil {
		return nil, err
	}
	return &created, nil
}

// sessionEnded keeps only the errors that mean the user must log in again
func sessionEnded(err error) error {
	if errors.Is(err, model.ErrSessionExpired) || errors.Is(err, model.ErrMissingToken) {
		return err
	}
	return nil
}
