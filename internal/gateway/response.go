package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Response is an API response whose body has been read
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports a 2xx status
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode parses the body as JSON into v
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// ErrorMessage returns the server's error text, or fallback if there is none
func (r *Response) ErrorMessage(fallback string) string {
	return ErrorMessage(r.Body, fallback)
}

// Err returns nil for a 2xx response and a *ServerError otherwise
func (r *Response) Err(fallback string) error {
	if r.OK() {
		return nil
	}
	return &ServerError{
		StatusCode: r.StatusCode,
		Message:    r.ErrorMessage(fallback),
	}
}

// ServerError is a non-2xx response reported by the API
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// ReadResponse reads and closes the body of resp
func ReadResponse(resp *http.Response) (*Response, error) {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

// ErrorMessage extracts a human readable error from an API error body.
// It looks at "detail" first (a string, or a list of validation errors
// carrying "msg"), then "message".
func ErrorMessage(body []byte, fallback string) string {
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fallback
	}

	if len(payload.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(payload.Detail, &detail); err == nil && detail != "" {
			return detail
		}

		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &items); err == nil {
			for _, item := range items {
				if item.Msg != "" {
					return item.Msg
				}
			}
		}
	}

	if payload.Message != "" {
		return payload.Message
	}
	return fallback
}
