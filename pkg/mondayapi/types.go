package mondayapi

import "github.com/go-faster/jx"

// Raw is an upstream JSON fragment carried verbatim. It layers the
// encoding/json interfaces over jx.Raw, which a []byte-backed type does
// not get for free (plain []byte round-trips as base64).
type Raw jx.Raw

func (r Raw) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

func (r *Raw) UnmarshalJSON(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

// Type reports the JSON type of the fragment.
func (r Raw) Type() jx.Type {
	return jx.Raw(r).Type()
}

// Board is a top-level monday.com container.
type Board struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	State      string   `json:"state,omitempty"`
	ItemsCount int      `json:"items_count,omitempty"`
	Columns    []Column `json:"columns,omitempty"`
	Groups     []Group  `json:"groups,omitempty"`
}

// Column is a typed field definition on a board. Settings is the
// upstream-defined settings payload, carried verbatim.
type Column struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Settings Raw    `json:"settings,omitempty"`
}

// Group is a named subdivision of a board.
type Group struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ColumnValue is one cell of an item. Value is opaque upstream JSON:
// its shape depends on the column type and is never interpreted here.
type ColumnValue struct {
	ID    string `json:"id"`
	Text  string `json:"text,omitempty"`
	Value Raw    `json:"value,omitempty"`
}

// Item is a row-like entity scoped to a group or a parent item.
type Item struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	GroupID      string        `json:"group_id,omitempty"`
	ParentItemID string        `json:"parent_item_id,omitempty"`
	ColumnValues []ColumnValue `json:"column_values,omitempty"`
}

// Update is a comment posted on an item.
type Update struct {
	ID          string  `json:"id"`
	Body        string  `json:"body"`
	CreatedAt   string  `json:"created_at,omitempty"`
	CreatorID   string  `json:"creator_id,omitempty"`
	CreatorName string  `json:"creator_name,omitempty"`
	Assets      []Asset `json:"assets,omitempty"`
}

// Asset is a file attached to an update.
type Asset struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Doc is a monday workdoc.
type Doc struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ObjectID    string `json:"object_id,omitempty"`
	WorkspaceID string `json:"workspace_id,omitempty"`
	URL         string `json:"url,omitempty"`
}

// DocBlock is one content block of a workdoc. Content is the
// upstream-encoded block body, passed through verbatim.
type DocBlock struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Content Raw    `json:"content,omitempty"`
}
