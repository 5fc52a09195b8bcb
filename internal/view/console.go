// Package view renders controller output for a terminal or an HTML page.
package view

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/mcoot/cricketstats-go/internal/model"
	"github.com/mcoot/cricketstats-go/internal/services/dashboard"
	"github.com/mcoot/cricketstats-go/internal/services/login"
	"github.com/mcoot/cricketstats-go/internal/services/signup"
	"github.com/mcoot/cricketstats-go/internal/validation"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// NotAvailable is shown for a missing numeric value
const NotAvailable = "N/A"

// Console writes output in text or JSON format
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	format string

	sectionErrors int
}

var (
	_ login.View     = (*Console)(nil)
	_ signup.View    = (*Console)(nil)
	_ dashboard.View = (*Console)(nil)
)

// NewConsole creates a Console. Anything other than "json" means text.
func NewConsole(out, errOut io.Writer, format string) *Console {
	if format != FormatJSON {
		format = FormatText
	}
	return &Console{out: out, errOut: errOut, format: format}
}

// SectionErrors counts the dashboard errors shown so far
func (c *Console) SectionErrors() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sectionErrors
}

// JSON reports whether output is JSON
func (c *Console) JSON() bool {
	return c.format == FormatJSON
}

// Print outputs data in the configured format
func (c *Console) Print(data any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.JSON() {
		c.writeJSON(c.out, data)
		return
	}

	switch v := data.(type) {
	case model.User:
		c.printUser(v)
	case SessionStatus:
		c.printSessionStatus(v)
	case []model.Match:
		c.printMatches(v)
	case model.Match:
		c.printMatch(v)
	case StrengthReport:
		c.printStrength(v)
	default:
		// Fallback to JSON for unknown types
		c.writeJSON(c.out, data)
	}
}

// PrintError outputs an error
func (c *Console) PrintError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.JSON() {
		c.writeJSON(c.errOut, map[string]any{
			"error": map[string]string{"message": err.Error()},
		})
		return
	}
	_, _ = fmt.Fprintf(c.errOut, "Error: %s\n", err)
}

// PrintMessage outputs a simple message
func (c *Console) PrintMessage(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.message(msg)
}

func (c *Console) message(msg string) {
	if c.JSON() {
		c.writeJSON(c.out, map[string]string{"message": msg})
		return
	}
	_, _ = fmt.Fprintln(c.out, msg)
}

// Navigated reports a page redirect
func (c *Console) Navigated(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.JSON() {
		c.writeJSON(c.errOut, map[string]string{"navigate": path})
		return
	}
	_, _ = fmt.Fprintf(c.errOut, "-> %s\n", path)
}

// Form views

// SetLoading shows the busy button label while a submission runs
func (c *Console) SetLoading(loading bool, label string) {
	if !loading || c.JSON() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.errOut, label)
}

// ShowResult prints the form's result message
func (c *Console) ShowResult(message string, success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.JSON() {
		c.writeJSON(c.out, map[string]any{"message": message, "success": success})
		return
	}
	if success {
		_, _ = fmt.Fprintln(c.out, message)
		return
	}
	_, _ = fmt.Fprintf(c.errOut, "Error: %s\n", message)
}

// ResetForm has nothing to clear on a terminal
func (c *Console) ResetForm() {}

// Dashboard view

func (c *Console) ShowWelcome(username string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.JSON() {
		c.writeJSON(c.out, map[string]string{"welcome": username})
		return
	}
	_, _ = fmt.Fprintf(c.out, "Welcome, %s!\n", username)
}

func (c *Console) ActivateSection(section dashboard.Section) {
	if c.JSON() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.out, "\n== %s ==\n", SectionTitle(section))
}

func (c *Console) ShowOverview(overview dashboard.Overview) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.JSON() {
		c.writeJSON(c.out, map[string]any{"overview": overview})
		return
	}
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Total Matches:\t%d\n", overview.TotalMatches)
	_, _ = fmt.Fprintf(tw, "Total Runs:\t%d\n", overview.TotalRuns)
	_, _ = fmt.Fprintf(tw, "Batting Average:\t%s\n", overview.BattingAverage)
	_, _ = fmt.Fprintf(tw, "Strike Rate:\t%s\n", overview.StrikeRate)
	_ = tw.Flush()
}

func (c *Console) ShowMatches(matches []model.Match) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.JSON() {
		if matches == nil {
			matches = []model.Match{}
		}
		c.writeJSON(c.out, map[string]any{"matches": matches})
		return
	}
	c.printMatches(matches)
}

func (c *Console) ShowBattingStats(stats model.BattingDetailed) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.JSON() {
		c.writeJSON(c.out, map[string]any{"batting": stats})
		return
	}
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Innings:\t%d\n", stats.Innings)
	_, _ = fmt.Fprintf(tw, "Highest Score:\t%d\n", stats.HighestScore)
	_, _ = fmt.Fprintf(tw, "50s:\t%d\n", stats.Fifties)
	_, _ = fmt.Fprintf(tw, "100s:\t%d\n", stats.Hundreds)
	_ = tw.Flush()
}

func (c *Console) ShowPlaceholder(section dashboard.Section, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.JSON() {
		c.writeJSON(c.out, map[string]string{"section": string(section), "message": message})
		return
	}
	_, _ = fmt.Fprintln(c.out, message)
}

func (c *Console) ShowError(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sectionErrors++

	if c.JSON() {
		c.writeJSON(c.errOut, map[string]any{
			"error": map[string]string{"message": message},
		})
		return
	}
	_, _ = fmt.Fprintf(c.errOut, "Error: %s\n", message)
}

// Printable types

// SessionStatus is the output of "session status"
type SessionStatus struct {
	LoggedIn  bool       `json:"logged_in"`
	Username  string     `json:"username,omitempty"`
	HasToken  bool       `json:"has_token"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Expired   bool       `json:"expired,omitempty"`
	Store     string     `json:"store"`
}

// StrengthReport is the output of "strength"
type StrengthReport struct {
	validation.Strength
	Label string `json:"label"`
}

func (c *Console) printUser(u model.User) {
	_, _ = fmt.Fprintf(c.out, "User: %s (%d)\n", u.Username, u.ID)
	_, _ = fmt.Fprintf(c.out, "Email: %s\n", u.Email)
}

func (c *Console) printSessionStatus(s SessionStatus) {
	if !s.LoggedIn {
		_, _ = fmt.Fprintf(c.out, "Not logged in (store: %s)\n", s.Store)
		return
	}
	_, _ = fmt.Fprintf(c.out, "Logged in as %s (store: %s)\n", s.Username, s.Store)
	switch {
	case s.ExpiresAt == nil:
	case s.Expired:
		_, _ = fmt.Fprintf(c.out, "Token expired: %s\n", s.ExpiresAt.Format(time.RFC3339))
	default:
		_, _ = fmt.Fprintf(c.out, "Token expires: %s\n", s.ExpiresAt.Format(time.RFC3339))
	}
}

func (c *Console) printMatches(matches []model.Match) {
	if len(matches) == 0 {
		_, _ = fmt.Fprintln(c.out, dashboard.MsgNoMatches)
		return
	}

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "DATE\tGROUND\tRUNS\tBALLS\t4s\t6s\tOUT\tRESULT")
	for _, m := range matches {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			m.Date,
			m.Ground,
			OptionalInt(m.RunsScored),
			OptionalInt(m.BallsFaced),
			OptionalInt(m.Fours),
			OptionalInt(m.Sixes),
			orNotAvailable(m.Out),
			orNotAvailable(string(m.MatchResult)),
		)
	}
	_ = tw.Flush()
}

func (c *Console) printMatch(m model.Match) {
	_, _ = fmt.Fprintf(c.out, "Match %d: %s at %s\n", m.ID, m.Date, m.Ground)
	_, _ = fmt.Fprintf(c.out, "Runs: %s (%s balls)\n", OptionalInt(m.RunsScored), OptionalInt(m.BallsFaced))
	if m.MatchResult != "" {
		_, _ = fmt.Fprintf(c.out, "Result: %s\n", m.MatchResult)
	}
}

func (c *Console) printStrength(r StrengthReport) {
	_, _ = fmt.Fprintln(c.out, r.Label)
	_, _ = fmt.Fprintf(c.out, "Score: %d/%d\n", r.Score, validation.MaxStrength)
}

func (c *Console) writeJSON(w io.Writer, data any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

// OptionalInt formats a missing value as N/A and zero as 0
func OptionalInt(n *int) string {
	if n == nil {
		return NotAvailable
	}
	return strconv.Itoa(*n)
}

func orNotAvailable(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

// SectionTitle is the heading shown for a section
func SectionTitle(section dashboard.Section) string {
	s := string(section)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
