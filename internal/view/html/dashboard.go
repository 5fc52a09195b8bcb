// Package html renders the dashboard as a standalone HTML page.
package html

import (
	"context"
	"io"
	"strconv"
	"sync"

	"github.com/mcoot/cricketstats-go/internal/model"
	"github.com/mcoot/cricketstats-go/internal/services/dashboard"
	"github.com/mcoot/cricketstats-go/internal/view"
)

// SectionData is what one dashboard section shows
type SectionData struct {
	Section     dashboard.Section
	Loaded      bool
	Overview    *dashboard.Overview
	Matches     []model.Match
	Batting     *model.BattingDetailed
	Placeholder string
	Errors      []string
}

// DashboardData is the whole page
type DashboardData struct {
	Username string
	Active   dashboard.Section
	Sections []*SectionData
}

// Page collects dashboard output for rendering
type Page struct {
	mu       sync.Mutex
	data     DashboardData
	sections map[dashboard.Section]*SectionData
}

var _ dashboard.View = (*Page)(nil)

// NewPage creates an empty page with every section in display order
func NewPage() *Page {
	p := &Page{sections: make(map[dashboard.Section]*SectionData)}
	for _, s := range dashboard.Sections {
		sd := &SectionData{Section: s}
		p.sections[s] = sd
		p.data.Sections = append(p.data.Sections, sd)
	}
	return p
}

// Data returns a copy of the collected state
func (p *Page) Data() DashboardData {
	p.mu.Lock()
	defer p.mu.Unlock()

	data := DashboardData{Username: p.data.Username, Active: p.data.Active}
	for _, s := range p.data.Sections {
		cp := *s
		cp.Errors = append([]string(nil), s.Errors...)
		data.Sections = append(data.Sections, &cp)
	}
	return data
}

// Render writes the HTML page
func (p *Page) Render(ctx context.Context, w io.Writer) error {
	return Dashboard(p.Data()).Render(ctx, w)
}

func (p *Page) ShowWelcome(username string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data.Username = username
}

func (p *Page) ActivateSection(section dashboard.Section) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data.Active = section
	if s, ok := p.sections[section]; ok {
		s.Loaded = true
	}
}

func (p *Page) ShowOverview(overview dashboard.Overview) {
	p.update(func(s *SectionData) { s.Overview = &overview }, dashboard.SectionOverview)
}

func (p *Page) ShowMatches(matches []model.Match) {
	p.update(func(s *SectionData) { s.Matches = matches }, dashboard.SectionMatches)
}

func (p *Page) ShowBattingStats(stats model.BattingDetailed) {
	p.update(func(s *SectionData) { s.Batting = &stats }, dashboard.SectionBatting)
}

func (p *Page) ShowPlaceholder(section dashboard.Section, message string) {
	p.update(func(s *SectionData) { s.Placeholder = message }, section)
}

// ShowError attaches the message to the active section
func (p *Page) ShowError(message string) {
	p.mu.Lock()
	active := p.data.Active
	p.mu.Unlock()
	p.update(func(s *SectionData) { s.Errors = append(s.Errors, message) }, active)
}

func (p *Page) update(fn func(*SectionData), section dashboard.Section) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.sections[section]; ok {
		fn(s)
	}
}

type card struct {
	ID, Label, Value string
}

func overviewCards(o dashboard.Overview) []card {
	return []card{
		{"total-matches", "Total Matches", strconv.Itoa(o.TotalMatches)},
		{"total-runs", "Total Runs", strconv.Itoa(o.TotalRuns)},
		{"batting-average", "Batting Average", o.BattingAverage},
		{"strike-rate", "Strike Rate", o.StrikeRate},
	}
}

func battingCards(b model.BattingDetailed) []card {
	return []card{
		{"innings", "Innings", strconv.Itoa(b.Innings)},
		{"highest-score", "Highest Score", strconv.Itoa(b.HighestScore)},
		{"fifties", "50s", strconv.Itoa(b.Fifties)},
		{"hundreds", "100s", strconv.Itoa(b.Hundreds)},
	}
}

// showsMatches reports whether the matches table replaces the placeholder.
// A failed load leaves only the error visible.
func (s *SectionData) showsMatches() bool {
	return s.Section == dashboard.SectionMatches && s.Loaded && len(s.Errors) == 0
}

func matchResult(m model.Match) string {
	if m.MatchResult == "" {
		return view.NotAvailable
	}
	return string(m.MatchResult)
}
