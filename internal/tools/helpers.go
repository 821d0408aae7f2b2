package tools

import (
	"encoding/json"
	"fmt"
)

// ToJSON marshals any value to a JSON string for a tool result body.
func ToJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal response: %w", err)
	}
	return string(b), nil
}

// ToStringSlice converts []any (from MCP params) to []string.
// Non-string elements are silently skipped.
func ToStringSlice(v []any) []string {
	out := make([]string, 0, len(v))
	for _, item := range v {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// IntParam reads an optional integer parameter, returning fallback when it
// is absent. JSON numbers arrive as float64.
func IntParam(params map[string]any, key string, fallback int) int {
	if f, ok := params[key].(float64); ok {
		return int(f)
	}
	return fallback
}
