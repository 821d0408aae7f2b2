// Package observability ships structured events to Grafana Loki. When no
// Loki endpoint is configured, events are dropped and only local log lines
// remain.
package observability

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"
)

type LokiClient struct {
	url        string
	username   string
	apiKey     string
	httpClient *http.Client
	enabled    bool
	appName    string
	instanceID string
}

// Loki Push API format
type lokiPushRequest struct {
	Streams []lokiStream `json:"streams"`
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

var defaultClient *LokiClient

// Init configures the package-level Loki client from the environment.
// GRAFANA_LOKI_URL unset disables remote shipping.
func Init() {
	url := os.Getenv("GRAFANA_LOKI_URL")
	username := os.Getenv("GRAFANA_LOKI_USER")
	apiKey := os.Getenv("GRAFANA_LOKI_API_KEY")

	appName := os.Getenv("APP_ENV")
	if appName == "" {
		appName = "monday-mcp-dev"
	}
	instanceID := os.Getenv("INSTANCE_ID")
	if instanceID == "" {
		instanceID = "local"
	}

	defaultClient = &LokiClient{
		url:        url,
		username:   username,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		enabled:    url != "",
		appName:    appName,
		instanceID: instanceID,
	}
	if defaultClient.enabled {
		log.Printf("Loki logging enabled (app=%s instance=%s)", appName, instanceID)
	}
}

// Push sends one event to Loki. Failures are logged locally and dropped;
// observability never takes a request down with it.
func Push(labels map[string]string, data map[string]any) {
	if defaultClient == nil || !defaultClient.enabled {
		return
	}
	go defaultClient.push(labels, data)
}

func (c *LokiClient) push(labels map[string]string, data map[string]any) {
	stream := map[string]string{
		"app":      c.appName,
		"instance": c.instanceID,
	}
	for k, v := range labels {
		stream[k] = v
	}

	line, err := json.Marshal(data)
	if err != nil {
		log.Printf("Loki: failed to marshal event: %v", err)
		return
	}

	req := lokiPushRequest{
		Streams: []lokiStream{
			{
				Stream: stream,
				Values: [][]string{
					{strconv.FormatInt(time.Now().UnixNano(), 10), string(line)},
				},
			},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		log.Printf("Loki: failed to marshal request: %v", err)
		return
	}

	httpReq, err := http.NewRequest("POST", c.url, bytes.NewReader(body))
	if err != nil {
		log.Printf("Loki: failed to create request: %v", err)
		return
	}
	httpReq.SetBasicAuth(c.username, c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Printf("Loki: failed to send: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("Loki: unexpected status code: %d", resp.StatusCode)
	}
}

// LogToolCall logs a completed tool invocation.
func LogToolCall(requestID, userID, tool string, durationMs int64, status string, errMsg string) {
	level := "info"
	if status == "error" {
		level = "error"
	}
	labels := map[string]string{
		"type":   "tool_call",
		"status": status,
		"level":  level,
	}

	data := map[string]any{
		"request_id":  requestID,
		"user_id":     userID,
		"tool":        tool,
		"duration_ms": durationMs,
		"status":      status,
	}
	if errMsg != "" {
		data["error"] = errMsg
	}

	Push(labels, data)
}

// LogError logs an error with its originating context.
func LogError(context string, err error) {
	Push(map[string]string{
		"type":  "error",
		"level": "error",
	}, map[string]any{
		"context": context,
		"error":   fmt.Sprintf("%v", err),
	})
}

// LogSecurityEvent logs an auth or abuse related event.
func LogSecurityEvent(requestID, userID, event string, details map[string]any) {
	data := map[string]any{
		"request_id": requestID,
		"user_id":    userID,
		"event":      event,
	}
	for k, v := range details {
		data[k] = v
	}

	Push(map[string]string{
		"type":  "security",
		"level": "warn",
	}, data)
}
