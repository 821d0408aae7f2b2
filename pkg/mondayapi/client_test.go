package mondayapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakeAPI spins up a GraphQL endpoint that always answers with the given
// status and body and captures the last request.
func fakeAPI(t *testing.T, status int, body string) (*Client, *http.Request) {
	t.Helper()
	var captured http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = *r.Clone(r.Context())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient("test-token", WithEndpoint(srv.URL)), &captured
}

func TestExecuteSuccess(t *testing.T) {
	client, captured := fakeAPI(t, 200, `{"data":{"boards":[{"id":"1"}]}}`)

	data, err := client.Execute(context.Background(), "query { boards { id } }", nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		t.Fatalf("data is not JSON: %v", err)
	}
	if _, ok := obj["boards"]; !ok {
		t.Error("expected boards key in data")
	}

	if got := captured.Header.Get("Authorization"); got != "test-token" {
		t.Errorf("Authorization header = %q, want test-token", got)
	}
	if got := captured.Header.Get("API-Version"); got == "" {
		t.Error("expected API-Version header")
	}
}

func TestExecuteSendsVariables(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"data":{}}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient("t", WithEndpoint(srv.URL))
	_, err := client.Execute(context.Background(), "query ($ids: [ID!]) { boards (ids: $ids) { id } }",
		map[string]any{"ids": []string{"42"}})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	var payload struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	if payload.Query == "" {
		t.Error("expected query in request body")
	}
	if _, ok := payload.Variables["ids"]; !ok {
		t.Error("expected ids variable in request body")
	}
}

func TestExecuteErrorShapes(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "graphql errors in http 200",
			status:     200,
			body:       `{"errors":[{"message":"Board not found"}],"data":null}`,
			wantStatus: 200,
			wantMsg:    "Board not found",
		},
		{
			name:       "multiple graphql errors joined",
			status:     200,
			body:       `{"errors":[{"message":"first"},{"message":"second"}]}`,
			wantStatus: 200,
			wantMsg:    "second",
		},
		{
			name:       "legacy error_message shape",
			status:     200,
			body:       `{"error_message":"Invalid API token","status_code":401}`,
			wantStatus: 401,
			wantMsg:    "Invalid API token",
		},
		{
			name:       "http 500 with html body",
			status:     500,
			body:       "<html>Internal Server Error</html>",
			wantStatus: 500,
			wantMsg:    "Internal Server Error",
		},
		{
			name:       "http 429 rate limited",
			status:     429,
			body:       `{"error_message":"Rate limit exceeded"}`,
			wantStatus: 429,
			wantMsg:    "Rate limit exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := fakeAPI(t, tt.status, tt.body)

			_, err := client.Execute(context.Background(), "query {}", nil)
			if err == nil {
				t.Fatal("expected error")
			}

			var upstreamErr *UpstreamError
			if !errors.As(err, &upstreamErr) {
				t.Fatalf("expected *UpstreamError, got %T: %v", err, err)
			}
			if upstreamErr.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", upstreamErr.StatusCode, tt.wantStatus)
			}
			if !strings.Contains(upstreamErr.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", upstreamErr.Error(), tt.wantMsg)
			}
		})
	}
}

func TestExecuteTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient("t", WithEndpoint(srv.URL))
	_, err := client.Execute(context.Background(), "query {}", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var upstreamErr *UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("expected *UpstreamError, got %T", err)
	}
	if upstreamErr.Unwrap() == nil {
		t.Error("transport failure should carry its cause")
	}
}

func TestExecuteMalformedResponseBody(t *testing.T) {
	client, _ := fakeAPI(t, 200, `not json at all`)

	_, err := client.Execute(context.Background(), "query {}", nil)
	var upstreamErr *UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("expected *UpstreamError, got %T: %v", err, err)
	}
}

func TestExecuteObjectScalarData(t *testing.T) {
	client, _ := fakeAPI(t, 200, `{"data":"surprise"}`)

	_, err := client.executeObject(context.Background(), "query {}", nil)
	var normErr *NormalizationError
	if !errors.As(err, &normErr) {
		t.Fatalf("expected *NormalizationError, got %T: %v", err, err)
	}
	if normErr.Field != "data" {
		t.Errorf("field = %q, want data", normErr.Field)
	}
}
