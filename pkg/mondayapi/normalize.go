package mondayapi

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-faster/jx"
)

// NormalizationError reports that a response fragment could not be safely
// converted into a typed entity. Upstream field types vary by value
// (a mapping in one response, a scalar in the next), so every extraction
// returns an explicit outcome instead of asserting shape.
type NormalizationError struct {
	Field  string
	Reason string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("malformed response: field %q: %s", e.Field, e.Reason)
}

// asObject resolves a fragment that must be a mapping. Strings, numbers,
// nulls and lists in object position are the historical defect class; they
// fail here instead of panicking downstream.
func asObject(v any, field string) (map[string]any, error) {
	obj, ok := v.(map[string]any)
	if !ok || obj == nil {
		return nil, &NormalizationError{Field: field, Reason: fmt.Sprintf("expected object, got %s", typeName(v))}
	}
	return obj, nil
}

// asArray resolves a fragment that must be a list.
func asArray(v any, field string) ([]any, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, &NormalizationError{Field: field, Reason: fmt.Sprintf("expected array, got %s", typeName(v))}
	}
	return arr, nil
}

// reqObject extracts a required child object.
func reqObject(obj map[string]any, field string) (map[string]any, error) {
	return asObject(obj[field], field)
}

// reqArray extracts a required child array.
func reqArray(obj map[string]any, field string) ([]any, error) {
	return asArray(obj[field], field)
}

// reqString extracts a required string field. Numeric identifiers are
// accepted and formatted: boards queried by plain id come back as numbers.
func reqString(obj map[string]any, field string) (string, error) {
	switch v := obj[field].(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", &NormalizationError{Field: field, Reason: fmt.Sprintf("expected string, got %s", typeName(v))}
	}
}

// optString extracts an optional string field; absent or mis-typed values
// yield the empty string.
func optString(obj map[string]any, field string) string {
	s, err := reqString(obj, field)
	if err != nil {
		return ""
	}
	return s
}

// optInt extracts an optional integer field, defaulting to zero.
func optInt(obj map[string]any, field string) int {
	if f, ok := obj[field].(float64); ok {
		return int(f)
	}
	return 0
}

// optRaw re-encodes an optional field verbatim. Absent and null both yield
// nil, the documented empty default for opaque payloads.
func optRaw(obj map[string]any, field string) Raw {
	v, ok := obj[field]
	if !ok || v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return Raw(b)
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// =============================================================================
// Entity normalizers
// =============================================================================

// boardFromRaw extracts a board summary. id and name are required;
// everything else takes documented defaults.
func boardFromRaw(v any) (Board, error) {
	obj, err := asObject(v, "board")
	if err != nil {
		return Board{}, err
	}
	id, err := reqString(obj, "id")
	if err != nil {
		return Board{}, err
	}
	name, err := reqString(obj, "name")
	if err != nil {
		return Board{}, err
	}
	return Board{
		ID:         id,
		Name:       name,
		State:      optString(obj, "state"),
		ItemsCount: optInt(obj, "items_count"),
	}, nil
}

// columnFromRaw extracts a column descriptor. The settings payload is
// optional and opaque; a missing or unusable one defaults to empty.
func columnFromRaw(v any) (Column, error) {
	obj, err := asObject(v, "column")
	if err != nil {
		return Column{}, err
	}
	id, err := reqString(obj, "id")
	if err != nil {
		return Column{}, err
	}
	title, err := reqString(obj, "title")
	if err != nil {
		return Column{}, err
	}
	col := Column{
		ID:    id,
		Title: title,
		Type:  optString(obj, "type"),
	}
	// settings_str is a JSON document encoded as a string.
	if s := optString(obj, "settings_str"); s != "" && jx.Valid([]byte(s)) {
		col.Settings = Raw(s)
	}
	return col, nil
}

func groupFromRaw(v any) (Group, error) {
	obj, err := asObject(v, "group")
	if err != nil {
		return Group{}, err
	}
	id, err := reqString(obj, "id")
	if err != nil {
		return Group{}, err
	}
	title, err := reqString(obj, "title")
	if err != nil {
		return Group{}, err
	}
	return Group{ID: id, Title: title}, nil
}

// itemFromRaw extracts an item with its column values. A column_values
// field that is present but not a list of mappings makes the whole item
// unusable: dropping the values silently would misrepresent upstream state.
func itemFromRaw(v any) (Item, error) {
	obj, err := asObject(v, "item")
	if err != nil {
		return Item{}, err
	}
	id, err := reqString(obj, "id")
	if err != nil {
		return Item{}, err
	}
	name, err := reqString(obj, "name")
	if err != nil {
		return Item{}, err
	}
	item := Item{ID: id, Name: name}

	if g, ok := obj["group"].(map[string]any); ok {
		item.GroupID = optString(g, "id")
	}
	if p, ok := obj["parent_item"].(map[string]any); ok {
		item.ParentItemID = optString(p, "id")
	}

	if raw, ok := obj["column_values"]; ok && raw != nil {
		values, err := asArray(raw, "column_values")
		if err != nil {
			return Item{}, err
		}
		item.ColumnValues = make([]ColumnValue, 0, len(values))
		for _, cv := range values {
			value, err := columnValueFromRaw(cv)
			if err != nil {
				return Item{}, err
			}
			item.ColumnValues = append(item.ColumnValues, value)
		}
	}
	return item, nil
}

func columnValueFromRaw(v any) (ColumnValue, error) {
	obj, err := asObject(v, "column_values[]")
	if err != nil {
		return ColumnValue{}, err
	}
	id, err := reqString(obj, "id")
	if err != nil {
		return ColumnValue{}, err
	}
	return ColumnValue{
		ID:    id,
		Text:  optString(obj, "text"),
		Value: optRaw(obj, "value"),
	}, nil
}

// updateFromRaw extracts an item update. Creator and assets are optional.
func updateFromRaw(v any) (Update, error) {
	obj, err := asObject(v, "update")
	if err != nil {
		return Update{}, err
	}
	id, err := reqString(obj, "id")
	if err != nil {
		return Update{}, err
	}
	upd := Update{
		ID:        id,
		Body:      optString(obj, "body"),
		CreatedAt: optString(obj, "created_at"),
	}
	if c, ok := obj["creator"].(map[string]any); ok {
		upd.CreatorID = optString(c, "id")
		upd.CreatorName = optString(c, "name")
	}
	if assets, ok := obj["assets"].([]any); ok {
		for _, a := range assets {
			am, ok := a.(map[string]any)
			if !ok {
				continue
			}
			upd.Assets = append(upd.Assets, Asset{
				ID:   optString(am, "id"),
				Name: optString(am, "name"),
				URL:  optString(am, "url"),
			})
		}
	}
	return upd, nil
}

func docFromRaw(v any) (Doc, error) {
	obj, err := asObject(v, "doc")
	if err != nil {
		return Doc{}, err
	}
	id, err := reqString(obj, "id")
	if err != nil {
		return Doc{}, err
	}
	return Doc{
		ID:          id,
		Name:        optString(obj, "name"),
		ObjectID:    optString(obj, "object_id"),
		WorkspaceID: optString(obj, "workspace_id"),
		URL:         optString(obj, "url"),
	}, nil
}

func docBlockFromRaw(v any) (DocBlock, error) {
	obj, err := asObject(v, "block")
	if err != nil {
		return DocBlock{}, err
	}
	id, err := reqString(obj, "id")
	if err != nil {
		return DocBlock{}, err
	}
	block := DocBlock{
		ID:   id,
		Type: optString(obj, "type"),
	}
	// Block content arrives as a JSON document encoded in a string.
	if s := optString(obj, "content"); s != "" && jx.Valid([]byte(s)) {
		block.Content = Raw(s)
	}
	return block, nil
}
