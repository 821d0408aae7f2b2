package monday

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func TestGetDocsDefaultLimit(t *testing.T) {
	requests := withFakeMonday(t, func(req graphqlRequest) string {
		return `{"data":{"docs":[
			{"id":"d1","name":"notes","url":"https://x/d1"},
			{"id":"d2","name":"plans"}
		]}}`
	})

	result, err := Execute(context.Background(), "get-docs", map[string]any{})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if got := (*requests)[0].Variables["limit"].(float64); got != float64(docsPageSize) {
		t.Errorf("page limit = %v, want %d", got, docsPageSize)
	}
	obj := decodeResult(t, result)
	docs := obj["docs"].([]any)
	if len(docs) != 2 {
		t.Errorf("got %d docs, want 2", len(docs))
	}
}

// The fake implements the upstream's real page*limit offset arithmetic:
// a shrunken limit on a later page would re-read earlier rows, so the
// request limit must stay fixed across pages.
func TestGetDocsPageNumberPagination(t *testing.T) {
	const total = 60
	requests := withFakeMonday(t, func(req graphqlRequest) string {
		limit := int(req.Variables["limit"].(float64))
		page := int(req.Variables["page"].(float64))
		start := (page - 1) * limit

		var sb strings.Builder
		sb.WriteString(`{"data":{"docs":[`)
		for i := start; i < start+limit && i < total; i++ {
			if i > start {
				sb.WriteString(",")
			}
			fmt.Fprintf(&sb, `{"id":"d%d","name":"doc"}`, i+1)
		}
		sb.WriteString(`]}}`)
		return sb.String()
	})

	result, err := Execute(context.Background(), "get-docs", map[string]any{
		"limit": float64(30),
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if len(*requests) != 2 {
		t.Fatalf("expected 2 page requests, got %d", len(*requests))
	}
	for _, r := range *requests {
		if int(r.Variables["limit"].(float64)) != docsPageSize {
			t.Errorf("page request limit = %v, want fixed %d", r.Variables["limit"], docsPageSize)
		}
	}
	if got := (*requests)[1].Variables["page"].(float64); got != 2 {
		t.Errorf("second request page = %v, want 2", got)
	}

	obj := decodeResult(t, result)
	docs := obj["docs"].([]any)
	if len(docs) != 30 {
		t.Fatalf("got %d docs, want 30", len(docs))
	}
	for i, d := range docs {
		id := d.(map[string]any)["id"].(string)
		if want := fmt.Sprintf("d%d", i+1); id != want {
			t.Fatalf("docs[%d] = %s, want %s (duplicated or missing rows)", i, id, want)
		}
	}
}

func TestGetDocContent(t *testing.T) {
	withFakeMonday(t, func(req graphqlRequest) string {
		return `{"data":{"docs":[{"id":"d1","name":"notes","blocks":[
			{"id":"b1","type":"normal_text","content":"{\"text\":\"hello\"}"},
			{"id":"b2","type":"normal_text","content":"{not json"},
			"scalar-junk"
		]}]}}`
	})

	result, err := Execute(context.Background(), "get-doc-content", map[string]any{"docId": "d1"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	obj := decodeResult(t, result)
	if obj["doc"].(map[string]any)["id"] != "d1" {
		t.Errorf("unexpected doc: %v", obj["doc"])
	}
	// Malformed content loses just the content; a non-object block is
	// dropped entirely and reported.
	blocks := obj["blocks"].([]any)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	second := blocks[1].(map[string]any)
	if _, ok := second["content"]; ok {
		t.Errorf("undecodable content should be omitted: %v", second)
	}
	warnings := obj["warnings"].([]any)
	if len(warnings) != 1 {
		t.Errorf("expected 1 warning for the dropped block, got %v", warnings)
	}
}

func TestGetDocContentNotFound(t *testing.T) {
	withFakeMonday(t, func(req graphqlRequest) string {
		return `{"data":{"docs":[]}}`
	})

	_, err := Execute(context.Background(), "get-doc-content", map[string]any{"docId": "missing"})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestCreateDocInWorkspace(t *testing.T) {
	requests := withFakeMonday(t, func(req graphqlRequest) string {
		return `{"data":{"create_doc":{"id":"d9","name":"spec notes"}}}`
	})

	result, err := Execute(context.Background(), "create-doc", map[string]any{
		"title":       "spec notes",
		"workspaceId": "314",
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	location := (*requests)[0].Variables["location"].(map[string]any)
	workspace, ok := location["workspace"].(map[string]any)
	if !ok {
		t.Fatalf("location should carry a workspace object: %v", location)
	}
	// Upstream wants the workspace id numeric, not the string the tool takes.
	if workspace["workspace_id"].(float64) != 314 {
		t.Errorf("workspace_id = %v, want 314", workspace["workspace_id"])
	}
	if workspace["name"] != "spec notes" {
		t.Errorf("name = %v, want title", workspace["name"])
	}
	if workspace["kind"] != "public" {
		t.Errorf("kind = %v, want public", workspace["kind"])
	}

	obj := decodeResult(t, result)
	if obj["doc"].(map[string]any)["id"] != "d9" {
		t.Errorf("unexpected doc: %v", obj["doc"])
	}
}

func TestCreateDocOnItem(t *testing.T) {
	requests := withFakeMonday(t, func(req graphqlRequest) string {
		return `{"data":{"create_doc":{"id":"d10","name":"attached"}}}`
	})

	_, err := Execute(context.Background(), "create-doc", map[string]any{
		"title":    "attached",
		"itemId":   "42",
		"columnId": "doc_col",
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	location := (*requests)[0].Variables["location"].(map[string]any)
	board, ok := location["board"].(map[string]any)
	if !ok {
		t.Fatalf("location should carry a board object: %v", location)
	}
	if board["item_id"] != "42" || board["column_id"] != "doc_col" {
		t.Errorf("unexpected board location: %v", board)
	}
}

func TestCreateDocValidation(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
		want   string
	}{
		{
			name:   "no location at all",
			params: map[string]any{"title": "t"},
			want:   "workspaceId",
		},
		{
			name:   "item without column",
			params: map[string]any{"title": "t", "itemId": "42"},
			want:   "columnId",
		},
		{
			name:   "non-numeric workspace id",
			params: map[string]any{"title": "t", "workspaceId": "main"},
			want:   "workspaceId",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requests := withFakeMonday(t, func(req graphqlRequest) string {
				return `{"data":{}}`
			})

			_, err := Execute(context.Background(), "create-doc", tt.params)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error naming %q, got %v", tt.want, err)
			}
			if len(*requests) != 0 {
				t.Error("validation failures must not reach the network")
			}
		})
	}
}
