package tools

import (
	"fmt"
	"strings"
)

// ValidationError reports caller-supplied arguments that violate a tool's
// documented schema. It is raised before any network call is made.
type ValidationError struct {
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Param, e.Reason)
}

// NewValidationError builds a ValidationError for the named parameter.
func NewValidationError(param, reason string) *ValidationError {
	return &ValidationError{Param: param, Reason: reason}
}

// ValidateParams checks params against a tool's InputSchema:
// required fields must be present and non-empty, and provided values must
// match their declared JSON type. Extra params not in the schema pass
// through untouched. Returns the params (shallow) or a *ValidationError.
func ValidateParams(schema InputSchema, params map[string]any) (map[string]any, error) {
	if params == nil {
		params = make(map[string]any)
	}

	var missing []string
	for _, key := range schema.Required {
		val, exists := params[key]
		if !exists || val == nil {
			missing = append(missing, key)
			continue
		}
		if s, ok := val.(string); ok && s == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{
			Param:  strings.Join(missing, ", "),
			Reason: "required parameter missing",
		}
	}

	for key, val := range params {
		prop, declared := schema.Properties[key]
		if !declared || val == nil {
			continue
		}
		if err := checkType(key, val, prop.Type); err != nil {
			return nil, err
		}
	}

	return params, nil
}

// checkType verifies that val matches the expected JSON Schema type.
// JSON numbers arrive as float64.
func checkType(key string, val any, expectedType string) error {
	switch expectedType {
	case "string":
		if _, ok := val.(string); !ok {
			return &ValidationError{Param: key, Reason: fmt.Sprintf("expected string, got %T", val)}
		}
	case "number", "integer":
		if _, ok := val.(float64); !ok {
			return &ValidationError{Param: key, Reason: fmt.Sprintf("expected number, got %T", val)}
		}
	case "boolean":
		if _, ok := val.(bool); !ok {
			return &ValidationError{Param: key, Reason: fmt.Sprintf("expected boolean, got %T", val)}
		}
	case "array":
		if _, ok := val.([]any); !ok {
			return &ValidationError{Param: key, Reason: fmt.Sprintf("expected array, got %T", val)}
		}
	case "object":
		if _, ok := val.(map[string]any); !ok {
			return &ValidationError{Param: key, Reason: fmt.Sprintf("expected object, got %T", val)}
		}
	}
	return nil
}
