package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/cricketstats-go/internal/testutil"
)

const idHeader = "X-Request-ID"

func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Seen-ID", r.Header.Get(idHeader))
		w.WriteHeader(http.StatusTeapot)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.RoundTripper) http.RoundTripper {
			return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next.RoundTrip(r)
			})
		}
	}
	base := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		order = append(order, "base")
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})

	req := httptest.NewRequest(http.MethodGet, "http://example.test/", nil)
	_, err := Chain(base, mark("first"), mark("second")).RoundTrip(req)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "base"}, order)
}

func TestRequestIDAddedWithoutMutatingCaller(t *testing.T) {
	srv := echoServer(t)
	client := &http.Client{Transport: Chain(nil, RequestID(idHeader))}

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Len(t, resp.Header.Get("X-Seen-ID"), 36)
	assert.Empty(t, req.Header.Get(idHeader))
}

func TestRequestIDKeepsExisting(t *testing.T) {
	srv := echoServer(t)
	client := &http.Client{Transport: Chain(nil, RequestID(idHeader))}

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set(idHeader, "abc")
	resp, err := client.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, "abc", resp.Header.Get("X-Seen-ID"))
}

func TestLoggingRecordsStatus(t *testing.T) {
	srv := echoServer(t)
	logger, logs := testutil.CaptureLogger()
	client := &http.Client{Transport: Chain(nil, RequestID(idHeader), Logging(logger, idHeader))}

	resp, err := client.Get(srv.URL + "/api/v1/matches")
	require.NoError(t, err)
	_ = resp.Body.Close()

	entries := logs.Entries()
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "api request", entry["msg"])
	assert.Equal(t, "/api/v1/matches", entry["path"])
	assert.EqualValues(t, http.StatusTeapot, entry["status"])
	assert.NotEmpty(t, entry["request_id"])
}

func TestLoggingRecordsFailures(t *testing.T) {
	logger, logs := testutil.CaptureLogger()
	boom := errors.New("connection refused")
	base := RoundTripperFunc(func(r *http.Request) (*http.Response, error) { return nil, boom })

	req := httptest.NewRequest(http.MethodGet, "http://example.test/x", nil)
	_, err := Chain(base, Logging(logger, idHeader)).RoundTrip(req)

	assert.ErrorIs(t, err, boom)
	assert.True(t, strings.Contains(logs.String(), `"level":"ERROR"`))
	assert.Contains(t, logs.String(), "connection refused")
}
