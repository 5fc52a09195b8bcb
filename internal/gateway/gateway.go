package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/cricketstats-go/internal/middleware"
	"github.com/mcoot/cricketstats-go/internal/model"
)

const (
	// APIPrefix is joined to the server URL to form the base of every endpoint
	APIPrefix = "/api/v1"

	// RequestIDHeader carries a per-request correlation ID
	RequestIDHeader = "X-Request-ID"
)

// Session is the part of the session store the gateway needs
type Session interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// Config holds gateway settings
type Config struct {
	// ServerURL is the scheme and host of the API server, without the API prefix
	ServerURL string
	// Timeout bounds each request; 0 disables it
	Timeout time.Duration
	// HTTPClient overrides the client built from Timeout (optional)
	HTTPClient *http.Client
}

// DefaultConfig returns the default gateway configuration
func DefaultConfig() Config {
	return Config{
		ServerURL: "http://localhost:8000",
		Timeout:   30 * time.Second,
	}
}

// Options describe one outgoing request
type Options struct {
	Method string
	Header http.Header
	Body   io.Reader
}

// Gateway builds and sends requests to the API
type Gateway struct {
	baseURL    string
	session    Session
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Gateway. A nil logger discards output.
func New(cfg Config, session Session, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.HTTPClient != nil {
		c := *cfg.HTTPClient
		httpClient = &c
	}
	httpClient.Transport = middleware.Chain(httpClient.Transport,
		middleware.RequestID(RequestIDHeader),
		middleware.Logging(logger, RequestIDHeader),
	)

	return &Gateway{
		baseURL:    strings.TrimSuffix(cfg.ServerURL, "/") + APIPrefix,
		session:    session,
		httpClient: httpClient,
		logger:     logger,
	}
}

// BaseURL returns the URL every endpoint is appended to
func (g *Gateway) BaseURL() string {
	return g.baseURL
}

// Send issues a request to endpoint. A JSON Content-Type is sent unless the
// caller's headers override it. The response is returned whatever its status;
// only transport failures are errors.
func (g *Gateway) Send(ctx context.Context, endpoint string, opts Options) (*http.Response, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+endpoint, opts.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for key, values := range opts.Header {
		req.Header[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}

	return resp, nil
}

// SendAuthenticated sends a request carrying the session's bearer token.
// Without a token it fails with model.ErrMissingToken and sends nothing.
// A 401 clears the session and fails with model.ErrSessionExpired.
func (g *Gateway) SendAuthenticated(ctx context.Context, endpoint string, opts Options) (*http.Response, error) {
	token, err := g.session.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if token == "" {
		return nil, model.ErrMissingToken
	}

	header := opts.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	header.Set("Authorization", "Bearer "+token)
	opts.Header = header

	resp, err := g.Send(ctx, endpoint, opts)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		_ = resp.Body.Close()
		g.logger.Warn("session rejected by server", slog.String("endpoint", endpoint))
		if clearErr := g.session.Clear(ctx); clearErr != nil {
			return nil, errors.Join(model.ErrSessionExpired, clearErr)
		}
		return nil, model.ErrSessionExpired
	}

	return resp, nil
}
