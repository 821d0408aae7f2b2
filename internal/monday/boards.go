package monday

import (
	"context"
	"strconv"

	"mondaymcp/server/internal/tools"
	"mondaymcp/server/pkg/mondayapi"
)

func handleListBoards(ctx context.Context, params map[string]any) (string, error) {
	client, err := newClient(ctx)
	if err != nil {
		return "", err
	}

	limit := tools.IntParam(params, "limit", 0)
	// Boards paginate by page number and the upstream offsets rows by
	// page*limit, so every request must use the same page size. The driver
	// trims any overshoot on the last page.
	fetch := func(ctx context.Context, cursor string, _ int) (mondayapi.Page[mondayapi.Board], error) {
		return client.BoardsPage(ctx, cursor, boardsPageSize)
	}
	boards, warnings, err := mondayapi.CollectPages(ctx, fetch, limit, defaultBoardsLimit, boardsPageSize)
	if err != nil {
		return "", err
	}

	return tools.ToJSON(map[string]any{
		"boards":   boards,
		"warnings": warnings,
	})
}

func handleGetBoardColumns(ctx context.Context, params map[string]any) (string, error) {
	boardID := params["boardId"].(string)

	client, err := newClient(ctx)
	if err != nil {
		return "", err
	}

	board, warnings, err := client.BoardColumns(ctx, boardID)
	if err != nil {
		return "", err
	}

	return tools.ToJSON(map[string]any{
		"board":    board,
		"warnings": warnings,
	})
}

func handleGetBoardGroups(ctx context.Context, params map[string]any) (string, error) {
	boardID := params["boardId"].(string)

	client, err := newClient(ctx)
	if err != nil {
		return "", err
	}

	groups, warnings, err := client.BoardGroups(ctx, boardID)
	if err != nil {
		return "", err
	}

	return tools.ToJSON(map[string]any{
		"boardId":  boardID,
		"groups":   groups,
		"warnings": warnings,
	})
}

func handleCreateBoard(ctx context.Context, params map[string]any) (string, error) {
	name := params["boardName"].(string)
	kind := params["boardKind"].(string)
	switch kind {
	case "public", "private", "share":
	default:
		return "", tools.NewValidationError("boardKind", "must be public, private or share")
	}

	workspaceID := ""
	if v, ok := params["workspaceId"].(string); ok && v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			return "", tools.NewValidationError("workspaceId", "must be a numeric id")
		}
		workspaceID = v
	}

	client, err := newClient(ctx)
	if err != nil {
		return "", err
	}

	board, err := client.CreateBoard(ctx, name, kind, workspaceID)
	if err != nil {
		return "", err
	}

	return tools.ToJSON(map[string]any{"board": board})
}
