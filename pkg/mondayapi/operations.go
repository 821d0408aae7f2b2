package mondayapi

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/go-faster/errors"
)

// Typed operations over Execute. List operations return a Page or a slice
// plus normalization warnings: entities the upstream sent in a shape that
// could not be extracted are dropped and reported, never fabricated.

// =============================================================================
// Boards
// =============================================================================

// BoardsPage fetches one page of boards. The boards query paginates by
// page number, so the cursor is the page number to fetch ("" means first).
// A short page means end of data.
func (c *Client) BoardsPage(ctx context.Context, cursor string, pageSize int) (Page[Board], error) {
	page, err := parsePageCursor(cursor)
	if err != nil {
		return Page[Board]{}, err
	}
	data, err := c.executeObject(ctx, queryBoardsPage, map[string]any{
		"limit": pageSize,
		"page":  page,
	})
	if err != nil {
		return Page[Board]{}, err
	}
	raw, err := reqArray(data, "boards")
	if err != nil {
		return Page[Board]{}, err
	}

	result := Page[Board]{Items: make([]Board, 0, len(raw))}
	for _, v := range raw {
		board, err := boardFromRaw(v)
		if err != nil {
			result.Warnings = append(result.Warnings, err.Error())
			continue
		}
		result.Items = append(result.Items, board)
	}
	if len(raw) == pageSize {
		result.Cursor = strconv.Itoa(page + 1)
	}
	return result, nil
}

// BoardColumns fetches a single board with its column descriptors.
func (c *Client) BoardColumns(ctx context.Context, boardID string) (Board, []string, error) {
	data, err := c.executeObject(ctx, queryBoardColumns, map[string]any{
		"boardIds": []string{boardID},
	})
	if err != nil {
		return Board{}, nil, err
	}
	obj, err := firstBoard(data, boardID)
	if err != nil {
		return Board{}, nil, err
	}

	board, err := boardFromRaw(obj)
	if err != nil {
		return Board{}, nil, err
	}

	var warnings []string
	if raw, ok := obj["columns"]; ok && raw != nil {
		cols, err := asArray(raw, "columns")
		if err != nil {
			return Board{}, nil, err
		}
		board.Columns = make([]Column, 0, len(cols))
		for _, v := range cols {
			col, err := columnFromRaw(v)
			if err != nil {
				warnings = append(warnings, err.Error())
				continue
			}
			board.Columns = append(board.Columns, col)
		}
	}
	return board, warnings, nil
}

// BoardGroups fetches the groups of a board.
func (c *Client) BoardGroups(ctx context.Context, boardID string) ([]Group, []string, error) {
	data, err := c.executeObject(ctx, queryBoardGroups, map[string]any{
		"boardIds": []string{boardID},
	})
	if err != nil {
		return nil, nil, err
	}
	obj, err := firstBoard(data, boardID)
	if err != nil {
		return nil, nil, err
	}
	raw, err := reqArray(obj, "groups")
	if err != nil {
		return nil, nil, err
	}

	groups := make([]Group, 0, len(raw))
	var warnings []string
	for _, v := range raw {
		group, err := groupFromRaw(v)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		groups = append(groups, group)
	}
	return groups, warnings, nil
}

// CreateBoard creates a board. kind is one of public, private, share.
func (c *Client) CreateBoard(ctx context.Context, name, kind, workspaceID string) (Board, error) {
	vars := map[string]any{
		"boardName": name,
		"boardKind": kind,
	}
	if workspaceID != "" {
		vars["workspaceId"] = workspaceID
	}
	data, err := c.executeObject(ctx, mutationCreateBoard, vars)
	if err != nil {
		return Board{}, err
	}
	obj, err := reqObject(data, "create_board")
	if err != nil {
		return Board{}, err
	}
	return boardFromRaw(obj)
}

// =============================================================================
// Items
// =============================================================================

// ItemsPage fetches one cursor page of items from the given groups of a
// board. The first page carries the group filter; follow-up pages replay
// the upstream cursor verbatim.
func (c *Client) ItemsPage(ctx context.Context, boardID string, groupIDs []string, cursor string, pageSize int) (Page[Item], error) {
	query := queryItemsPage
	vars := map[string]any{
		"boardIds": []string{boardID},
		"limit":    pageSize,
	}
	if cursor == "" {
		vars["queryParams"] = map[string]any{
			"rules": []map[string]any{
				{"column_id": "group", "compare_value": groupIDs, "operator": "any_of"},
			},
		}
	} else {
		query = queryItemsPageCursor
		vars["cursor"] = cursor
	}

	data, err := c.executeObject(ctx, query, vars)
	if err != nil {
		return Page[Item]{}, err
	}
	obj, err := firstBoard(data, boardID)
	if err != nil {
		return Page[Item]{}, err
	}
	itemsPage, err := reqObject(obj, "items_page")
	if err != nil {
		return Page[Item]{}, err
	}
	raw, err := reqArray(itemsPage, "items")
	if err != nil {
		return Page[Item]{}, err
	}

	result := Page[Item]{
		Items:  make([]Item, 0, len(raw)),
		Cursor: optString(itemsPage, "cursor"),
	}
	for _, v := range raw {
		item, err := itemFromRaw(v)
		if err != nil {
			result.Warnings = append(result.Warnings, err.Error())
			continue
		}
		result.Items = append(result.Items, item)
	}
	return result, nil
}

// ItemsByID fetches specific items with their column values.
func (c *Client) ItemsByID(ctx context.Context, itemIDs []string) ([]Item, []string, error) {
	data, err := c.executeObject(ctx, queryItemsByID, map[string]any{
		"itemIds": itemIDs,
	})
	if err != nil {
		return nil, nil, err
	}
	raw, err := reqArray(data, "items")
	if err != nil {
		return nil, nil, err
	}
	items, warnings := collectItems(raw)
	return items, warnings, nil
}

// SubitemsInItems fetches the sub-items of the given parent items.
func (c *Client) SubitemsInItems(ctx context.Context, itemIDs []string) ([]Item, []string, error) {
	data, err := c.executeObject(ctx, querySubitems, map[string]any{
		"itemIds": itemIDs,
	})
	if err != nil {
		return nil, nil, err
	}
	parents, err := reqArray(data, "items")
	if err != nil {
		return nil, nil, err
	}

	var items []Item
	var warnings []string
	for _, p := range parents {
		obj, err := asObject(p, "items[]")
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		raw, ok := obj["subitems"]
		if !ok || raw == nil {
			continue
		}
		subs, err := asArray(raw, "subitems")
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		collected, subWarnings := collectItems(subs)
		items = append(items, collected...)
		warnings = append(warnings, subWarnings...)
	}
	return items, warnings, nil
}

// ItemUpdates fetches up to limit updates posted on an item.
func (c *Client) ItemUpdates(ctx context.Context, itemID string, limit int) ([]Update, []string, error) {
	data, err := c.executeObject(ctx, queryItemUpdates, map[string]any{
		"itemIds": []string{itemID},
		"limit":   limit,
	})
	if err != nil {
		return nil, nil, err
	}
	raw, err := reqArray(data, "items")
	if err != nil {
		return nil, nil, err
	}
	if len(raw) == 0 {
		return nil, nil, errors.Errorf("item %q not found", itemID)
	}
	obj, err := asObject(raw[0], "items[0]")
	if err != nil {
		return nil, nil, err
	}
	rawUpdates, err := reqArray(obj, "updates")
	if err != nil {
		return nil, nil, err
	}

	updates := make([]Update, 0, len(rawUpdates))
	var warnings []string
	for _, v := range rawUpdates {
		upd, err := updateFromRaw(v)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		updates = append(updates, upd)
	}
	return updates, warnings, nil
}

// CreateItem creates an item in a board, optionally inside a group.
func (c *Client) CreateItem(ctx context.Context, boardID, groupID, name string, columnValues map[string]any) (Item, error) {
	vars := map[string]any{
		"boardId":  boardID,
		"itemName": name,
	}
	if groupID != "" {
		vars["groupId"] = groupID
	}
	if err := addColumnValues(vars, columnValues); err != nil {
		return Item{}, err
	}
	data, err := c.executeObject(ctx, mutationCreateItem, vars)
	if err != nil {
		return Item{}, err
	}
	obj, err := reqObject(data, "create_item")
	if err != nil {
		return Item{}, err
	}
	return itemFromRaw(obj)
}

// CreateSubitem creates a sub-item under a parent item.
func (c *Client) CreateSubitem(ctx context.Context, parentItemID, name string, columnValues map[string]any) (Item, error) {
	vars := map[string]any{
		"parentItemId": parentItemID,
		"itemName":     name,
	}
	if err := addColumnValues(vars, columnValues); err != nil {
		return Item{}, err
	}
	data, err := c.executeObject(ctx, mutationCreateSubitem, vars)
	if err != nil {
		return Item{}, err
	}
	obj, err := reqObject(data, "create_subitem")
	if err != nil {
		return Item{}, err
	}
	return itemFromRaw(obj)
}

// UpdateItemColumns sets multiple column values on an item.
func (c *Client) UpdateItemColumns(ctx context.Context, boardID, itemID string, columnValues map[string]any) (Item, error) {
	vars := map[string]any{
		"boardId": boardID,
		"itemId":  itemID,
	}
	if err := addColumnValues(vars, columnValues); err != nil {
		return Item{}, err
	}
	data, err := c.executeObject(ctx, mutationUpdateItemColumns, vars)
	if err != nil {
		return Item{}, err
	}
	obj, err := reqObject(data, "change_multiple_column_values")
	if err != nil {
		return Item{}, err
	}
	return itemFromRaw(obj)
}

// CreateUpdate posts an update (comment) on an item and returns its id.
func (c *Client) CreateUpdate(ctx context.Context, itemID, body string) (string, error) {
	data, err := c.executeObject(ctx, mutationCreateUpdate, map[string]any{
		"itemId": itemID,
		"body":   body,
	})
	if err != nil {
		return "", err
	}
	return mutationID(data, "create_update")
}

// MoveItemToGroup moves an item into another group of its board.
func (c *Client) MoveItemToGroup(ctx context.Context, itemID, groupID string) (string, error) {
	data, err := c.executeObject(ctx, mutationMoveItemToGroup, map[string]any{
		"itemId":  itemID,
		"groupId": groupID,
	})
	if err != nil {
		return "", err
	}
	return mutationID(data, "move_item_to_group")
}

// DeleteItem permanently deletes an item.
func (c *Client) DeleteItem(ctx context.Context, itemID string) (string, error) {
	data, err := c.executeObject(ctx, mutationDeleteItem, map[string]any{"itemId": itemID})
	if err != nil {
		return "", err
	}
	return mutationID(data, "delete_item")
}

// ArchiveItem archives an item.
func (c *Client) ArchiveItem(ctx context.Context, itemID string) (string, error) {
	data, err := c.executeObject(ctx, mutationArchiveItem, map[string]any{"itemId": itemID})
	if err != nil {
		return "", err
	}
	return mutationID(data, "archive_item")
}

// =============================================================================
// Docs
// =============================================================================

// DocsPage fetches one page of workdocs; page-number pagination like boards.
func (c *Client) DocsPage(ctx context.Context, cursor string, pageSize int) (Page[Doc], error) {
	page, err := parsePageCursor(cursor)
	if err != nil {
		return Page[Doc]{}, err
	}
	data, err := c.executeObject(ctx, queryDocsPage, map[string]any{
		"limit": pageSize,
		"page":  page,
	})
	if err != nil {
		return Page[Doc]{}, err
	}
	raw, err := reqArray(data, "docs")
	if err != nil {
		return Page[Doc]{}, err
	}

	result := Page[Doc]{Items: make([]Doc, 0, len(raw))}
	for _, v := range raw {
		doc, err := docFromRaw(v)
		if err != nil {
			result.Warnings = append(result.Warnings, err.Error())
			continue
		}
		result.Items = append(result.Items, doc)
	}
	if len(raw) == pageSize {
		result.Cursor = strconv.Itoa(page + 1)
	}
	return result, nil
}

// DocBlocks fetches a workdoc together with its content blocks.
func (c *Client) DocBlocks(ctx context.Context, docID string) (Doc, []DocBlock, []string, error) {
	data, err := c.executeObject(ctx, queryDocBlocks, map[string]any{
		"docIds": []string{docID},
	})
	if err != nil {
		return Doc{}, nil, nil, err
	}
	raw, err := reqArray(data, "docs")
	if err != nil {
		return Doc{}, nil, nil, err
	}
	if len(raw) == 0 {
		return Doc{}, nil, nil, errors.Errorf("doc %q not found", docID)
	}
	obj, err := asObject(raw[0], "docs[0]")
	if err != nil {
		return Doc{}, nil, nil, err
	}
	doc, err := docFromRaw(obj)
	if err != nil {
		return Doc{}, nil, nil, err
	}

	var blocks []DocBlock
	var warnings []string
	if rawBlocks, ok := obj["blocks"]; ok && rawBlocks != nil {
		arr, err := asArray(rawBlocks, "blocks")
		if err != nil {
			return Doc{}, nil, nil, err
		}
		blocks = make([]DocBlock, 0, len(arr))
		for _, v := range arr {
			block, err := docBlockFromRaw(v)
			if err != nil {
				warnings = append(warnings, err.Error())
				continue
			}
			blocks = append(blocks, block)
		}
	}
	return doc, blocks, warnings, nil
}

// CreateDoc creates a workdoc at the given location (workspace or item).
func (c *Client) CreateDoc(ctx context.Context, location map[string]any) (Doc, error) {
	data, err := c.executeObject(ctx, mutationCreateDoc, map[string]any{
		"location": location,
	})
	if err != nil {
		return Doc{}, err
	}
	obj, err := reqObject(data, "create_doc")
	if err != nil {
		return Doc{}, err
	}
	return docFromRaw(obj)
}

// =============================================================================
// Shared helpers
// =============================================================================

// parsePageCursor maps the driver's opaque cursor back to a page number.
func parsePageCursor(cursor string) (int, error) {
	if cursor == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(cursor)
	if err != nil || page < 1 {
		return 0, errors.Errorf("invalid page cursor %q", cursor)
	}
	return page, nil
}

// firstBoard unwraps the single-board envelope of ids-scoped board queries.
func firstBoard(data map[string]any, boardID string) (map[string]any, error) {
	boards, err := reqArray(data, "boards")
	if err != nil {
		return nil, err
	}
	if len(boards) == 0 {
		return nil, errors.Errorf("board %q not found", boardID)
	}
	return asObject(boards[0], "boards[0]")
}

// collectItems normalizes a raw item list, dropping unusable entries into
// warnings.
func collectItems(raw []any) ([]Item, []string) {
	items := make([]Item, 0, len(raw))
	var warnings []string
	for _, v := range raw {
		item, err := itemFromRaw(v)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		items = append(items, item)
	}
	return items, warnings
}

// addColumnValues encodes column values as the JSON-string the API expects
// for JSON-typed variables. A nil map leaves the variable unset.
func addColumnValues(vars map[string]any, columnValues map[string]any) error {
	if columnValues == nil {
		return nil
	}
	encoded, err := json.Marshal(columnValues)
	if err != nil {
		return errors.Wrap(err, "encode column values")
	}
	vars["columnValues"] = string(encoded)
	return nil
}

// mutationID extracts the id of a mutation result object.
func mutationID(data map[string]any, field string) (string, error) {
	obj, err := reqObject(data, field)
	if err != nil {
		return "", err
	}
	return reqString(obj, "id")
}
