// Package middleware wraps the API client's HTTP transport.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Middleware wraps an http.RoundTripper
type Middleware func(http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to http.RoundTripper
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip calls f(r)
func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Chain wraps base in mws. The first middleware sees the request first.
// A nil base means http.DefaultTransport.
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}
	return base
}

// RequestID sets header to a fresh UUID unless the request already has one
func RequestID(header string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get(header) != "" {
				return next.RoundTrip(r)
			}
			r = r.Clone(r.Context())
			r.Header.Set(header, uuid.NewString())
			return next.RoundTrip(r)
		})
	}
}

// Logging logs each request at debug level and transport failures as errors.
// idHeader names the header carrying the request ID.
func Logging(logger *slog.Logger, idHeader string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()

			resp, err := next.RoundTrip(r)

			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("request_id", r.Header.Get(idHeader)),
				slog.Duration("duration", time.Since(start)),
			}
			if err != nil {
				logger.Error("api request failed", append(attrs, slog.String("error", err.Error()))...)
				return nil, err
			}

			logger.Debug("api request", append(attrs, slog.Int("status", resp.StatusCode))...)
			return resp, nil
		})
	}
}
