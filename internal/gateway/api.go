package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mcoot/cricketstats-go/internal/model"
)

// Endpoints, relative to APIPrefix
const (
	LoginEndpoint           = "/auth/login"
	RegisterEndpoint        = "/auth/register"
	CurrentUserEndpoint     = "/auth/me"
	MatchesEndpoint         = "/matches"
	BattingSummaryEndpoint  = "/bat_stats/summary"
	BattingDetailedEndpoint = "/bat_stats/detailed"
)

// Login posts form-encoded credentials
func (g *Gateway) Login(ctx context.Context, creds model.LoginCredentials) (*Response, error) {
	form := url.Values{}
	form.Set("username", creds.Username)
	form.Set("password", creds.Password)

	resp, err := g.Send(ctx, LoginEndpoint, Options{
		Method: http.MethodPost,
		Header: http.Header{"Content-Type": {"application/x-www-form-urlencoded"}},
		Body:   strings.NewReader(form.Encode()),
	})
	if err != nil {
		return nil, err
	}
	return ReadResponse(resp)
}

// Register posts a new account as JSON
func (g *Gateway) Register(ctx context.Context, creds model.SignupCredentials) (*Response, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := g.Send(ctx, RegisterEndpoint, Options{
		Method: http.MethodPost,
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return nil, err
	}
	return ReadResponse(resp)
}

// CurrentUser fetches the logged in account
func (g *Gateway) CurrentUser(ctx context.Context) (*Response, error) {
	return g.getAuthenticated(ctx, CurrentUserEndpoint)
}

// Matches lists the user's matches
func (g *Gateway) Matches(ctx context.Context) (*Response, error) {
	return g.getAuthenticated(ctx, MatchesEndpoint)
}

// CreateMatch records a new match
func (g *Gateway) CreateMatch(ctx context.Context, match model.MatchCreate) (*Response, error) {
	body, err := json.Marshal(match)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := g.SendAuthenticated(ctx, MatchesEndpoint, Options{
		Method: http.MethodPost,
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return nil, err
	}
	return ReadResponse(resp)
}

// BattingSummary fetches the overview statistics
func (g *Gateway) BattingSummary(ctx context.Context) (*Response, error) {
	return g.getAuthenticated(ctx, BattingSummaryEndpoint)
}

// BattingDetailed fetches the full batting breakdown
func (g *Gateway) BattingDetailed(ctx context.Context) (*Response, error) {
	return g.getAuthenticated(ctx, BattingDetailedEndpoint)
}

func (g *Gateway) getAuthenticated(ctx context.Context, endpoint string) (*Response, error) {
	resp, err := g.SendAuthenticated(ctx, endpoint, Options{})
	if err != nil {
		return nil, err
	}
	return ReadResponse(resp)
}
