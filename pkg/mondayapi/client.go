// Package mondayapi is a hand-written client for the monday.com GraphQL API.
//
// The API has no OpenAPI document, so unlike REST upstreams there is no
// generated client; every operation goes through Execute, which posts a
// query+variables pair to the single /v2 endpoint and returns the raw
// "data" payload. Error detection covers all three upstream failure
// shapes: transport errors, non-2xx statuses, and HTTP 200 responses with
// an embedded error payload.
package mondayapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

const (
	// DefaultEndpoint is the monday.com GraphQL API endpoint.
	DefaultEndpoint = "https://api.monday.com/v2"

	// apiVersion is sent in the API-Version header on every request.
	apiVersion = "2024-10"
)

// Client issues GraphQL operations against monday.com. The credential is
// fixed at construction; nothing is read from process-wide state.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithEndpoint overrides the API endpoint (used by tests).
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a monday.com API client using the given API token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		endpoint:   DefaultEndpoint,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UpstreamError is a failed request: a transport error, a non-2xx status,
// or an error payload embedded in an HTTP 200 body. Requests are never
// retried; mutation idempotency upstream is unknown.
type UpstreamError struct {
	StatusCode int      // HTTP status, or upstream status_code when embedded
	Messages   []string // upstream-provided error messages
	cause      error
}

func (e *UpstreamError) Error() string {
	if len(e.Messages) > 0 {
		return fmt.Sprintf("monday.com API error: %s", strings.Join(e.Messages, "; "))
	}
	if e.cause != nil {
		return fmt.Sprintf("monday.com request failed: %v", e.cause)
	}
	return fmt.Sprintf("monday.com API error: status %d", e.StatusCode)
}

func (e *UpstreamError) Unwrap() error { return e.cause }

// responseEnvelope covers both upstream error shapes: a GraphQL "errors"
// array, and the legacy {"error_message", "status_code"} body, either of
// which can arrive with HTTP 200.
type responseEnvelope struct {
	Data   Raw `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
	ErrorMessage string `json:"error_message"`
	StatusCode   int    `json:"status_code"`
}

// Execute sends one GraphQL operation and returns the raw "data" payload.
// A nil variables map is allowed for operations without variables.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any) (Raw, error) {
	payload := map[string]any{"query": query}
	if len(variables) > 0 {
		payload["variables"] = variables
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.token)
	req.Header.Set("API-Version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{cause: err}
	}
	defer resp.Body.Close()

	// Cap the read: error bodies can be HTML pages from proxies.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Messages:   []string{snippet(raw)},
		}
	}

	var env responseEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, cause: errors.Wrap(err, "decode response")}
	}

	if len(env.Errors) > 0 {
		msgs := make([]string, 0, len(env.Errors))
		for _, e := range env.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Messages: msgs}
	}
	if env.ErrorMessage != "" {
		status := env.StatusCode
		if status == 0 {
			status = resp.StatusCode
		}
		return nil, &UpstreamError{StatusCode: status, Messages: []string{env.ErrorMessage}}
	}

	return env.Data, nil
}

// executeObject runs an operation and decodes the data payload into a
// generic mapping for defensive field extraction.
func (c *Client) executeObject(ctx context.Context, query string, variables map[string]any) (map[string]any, error) {
	data, err := c.Execute(ctx, query, variables)
	if err != nil {
		return nil, err
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, &NormalizationError{Field: "data", Reason: "response data is not an object"}
	}
	return obj, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 300 {
		s = s[:300] + "..."
	}
	return s
}
