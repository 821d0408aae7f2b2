package monday

import (
	"context"
	"strconv"

	"mondaymcp/server/internal/tools"
	"mondaymcp/server/pkg/mondayapi"
)

func handleGetDocs(ctx context.Context, params map[string]any) (string, error) {
	client, err := newClient(ctx)
	if err != nil {
		return "", err
	}

	limit := tools.IntParam(params, "limit", 0)
	// Docs paginate by page number like boards: a fixed page size on every
	// request keeps the page*limit offsets aligned.
	fetch := func(ctx context.Context, cursor string, _ int) (mondayapi.Page[mondayapi.Doc], error) {
		return client.DocsPage(ctx, cursor, docsPageSize)
	}
	docs, warnings, err := mondayapi.CollectPages(ctx, fetch, limit, defaultDocsLimit, docsPageSize)
	if err != nil {
		return "", err
	}

	return tools.ToJSON(map[string]any{
		"docs":     docs,
		"warnings": warnings,
	})
}

func handleGetDocContent(ctx context.Context, params map[string]any) (string, error) {
	docID := params["docId"].(string)

	client, err := newClient(ctx)
	if err != nil {
		return "", err
	}

	doc, blocks, warnings, err := client.DocBlocks(ctx, docID)
	if err != nil {
		return "", err
	}

	return tools.ToJSON(map[string]any{
		"doc":      doc,
		"blocks":   blocks,
		"warnings": warnings,
	})
}

func handleCreateDoc(ctx context.Context, params map[string]any) (string, error) {
	title := params["title"].(string)
	workspaceID, _ := params["workspaceId"].(string)
	itemID, _ := params["itemId"].(string)
	columnID, _ := params["columnId"].(string)

	var location map[string]any
	switch {
	case workspaceID != "":
		wid, err := strconv.Atoi(workspaceID)
		if err != nil {
			return "", tools.NewValidationError("workspaceId", "must be a numeric id")
		}
		location = map[string]any{
			"workspace": map[string]any{
				"workspace_id": wid,
				"name":         title,
				"kind":         "public",
			},
		}
	case itemID != "":
		if columnID == "" {
			return "", tools.NewValidationError("columnId", "required when itemId is given")
		}
		location = map[string]any{
			"board": map[string]any{
				"item_id":   itemID,
				"column_id": columnID,
			},
		}
	default:
		return "", tools.NewValidationError("workspaceId", "either workspaceId or itemId must be given")
	}

	client, err := newClient(ctx)
	if err != nil {
		return "", err
	}

	doc, err := client.CreateDoc(ctx, location)
	if err != nil {
		return "", err
	}

	return tools.ToJSON(map[string]any{"doc": doc})
}
