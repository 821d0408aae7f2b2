package tools

import (
	"errors"
	"testing"
)

func TestValidateParams_RequiredFields(t *testing.T) {
	schema := InputSchema{
		Type: "object",
		Properties: map[string]Property{
			"boardId": {Type: "string", Description: "Board ID"},
			"itemId":  {Type: "string", Description: "Item ID"},
		},
		Required: []string{"boardId", "itemId"},
	}

	tests := []struct {
		name    string
		params  map[string]any
		wantErr bool
		errMsg  string
	}{
		{
			name:    "all required present",
			params:  map[string]any{"boardId": "12", "itemId": "34"},
			wantErr: false,
		},
		{
			name:    "missing one required",
			params:  map[string]any{"boardId": "12"},
			wantErr: true,
			errMsg:  `invalid argument "itemId": required parameter missing`,
		},
		{
			name:    "missing all required",
			params:  map[string]any{},
			wantErr: true,
			errMsg:  `invalid argument "boardId, itemId": required parameter missing`,
		},
		{
			name:    "nil params",
			params:  nil,
			wantErr: true,
			errMsg:  `invalid argument "boardId, itemId": required parameter missing`,
		},
		{
			name:    "empty string for required field",
			params:  map[string]any{"boardId": "", "itemId": "34"},
			wantErr: true,
			errMsg:  `invalid argument "boardId": required parameter missing`,
		},
		{
			name:    "nil value for required field",
			params:  map[string]any{"boardId": nil, "itemId": "34"},
			wantErr: true,
			errMsg:  `invalid argument "boardId": required parameter missing`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateParams(schema, tt.params)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				var valErr *ValidationError
				if !errors.As(err, &valErr) {
					t.Fatalf("expected *ValidationError, got %T", err)
				}
				if err.Error() != tt.errMsg {
					t.Errorf("expected error %q, got %q", tt.errMsg, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestValidateParams_TypeCheck(t *testing.T) {
	schema := InputSchema{
		Type: "object",
		Properties: map[string]Property{
			"itemTitle":    {Type: "string"},
			"limit":        {Type: "integer"},
			"archived":     {Type: "boolean"},
			"groupIds":     {Type: "array"},
			"columnValues": {Type: "object"},
		},
	}

	tests := []struct {
		name    string
		params  map[string]any
		wantErr bool
	}{
		{
			name: "all correct types",
			params: map[string]any{
				"itemTitle":    "task",
				"limit":        float64(5),
				"archived":     true,
				"groupIds":     []any{"g1"},
				"columnValues": map[string]any{"status": "Done"},
			},
			wantErr: false,
		},
		{"string where integer expected", map[string]any{"limit": "five"}, true},
		{"number where string expected", map[string]any{"itemTitle": float64(42)}, true},
		{"string where boolean expected", map[string]any{"archived": "true"}, true},
		{"string where array expected", map[string]any{"groupIds": "g1"}, true},
		{"string where object expected", map[string]any{"columnValues": "not-object"}, true},
		{"extra params not in schema pass through", map[string]any{"unknown_field": "whatever"}, false},
		{"nil value skips type check", map[string]any{"itemTitle": nil}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateParams(schema, tt.params)
			if tt.wantErr {
				var valErr *ValidationError
				if !errors.As(err, &valErr) {
					t.Fatalf("expected *ValidationError, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateParams_NoRequiredNoProperties(t *testing.T) {
	schema := InputSchema{
		Type:       "object",
		Properties: map[string]Property{},
	}

	result, err := ValidateParams(schema, map[string]any{})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if result == nil {
		t.Errorf("expected non-nil result")
	}
}

func TestFindTool(t *testing.T) {
	catalog := []Tool{
		{Name: "list-boards"},
		{Name: "get-board-columns"},
	}

	tool, found := FindTool(catalog, "get-board-columns")
	if !found {
		t.Fatal("expected to find get-board-columns")
	}
	if tool.Name != "get-board-columns" {
		t.Errorf("expected get-board-columns, got %s", tool.Name)
	}

	_, found = FindTool(catalog, "nonexistent")
	if found {
		t.Error("expected not to find nonexistent tool")
	}
}
