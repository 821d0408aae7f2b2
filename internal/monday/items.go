package monday

import (
	"context"
	"fmt"
	"strings"

	"mondaymcp/server/internal/tools"
	"mondaymcp/server/pkg/mondayapi"
)

func handleListItemsInGroups(ctx context.Context, params map[string]any) (string, error) {
	boardID := params["boardId"].(string)
	groupIDs := tools.ToStringSlice(params["groupIds"].([]any))
	if len(groupIDs) == 0 {
		return "", tools.NewValidationError("groupIds", "must contain at least one group id")
	}
	// The contract demands an explicit limit here; there is no default to
	// fall back to.
	limit := tools.IntParam(params, "limit", 0)
	if limit <= 0 {
		return "", tools.NewValidationError("limit", "must be a positive integer")
	}

	client, err := newClient(ctx)
	if err != nil {
		return "", err
	}

	fetch := func(ctx context.Context, cursor string, pageSize int) (mondayapi.Page[mondayapi.Item], error) {
		return client.ItemsPage(ctx, boardID, groupIDs, cursor, pageSize)
	}
	items, warnings, err := mondayapi.CollectPages(ctx, fetch, limit, limit, itemsPageSize)
	if err != nil {
		return "", err
	}

	return tools.ToJSON(map[string]any{
		"boardId":  boardID,
		"items":    items,
		"warnings": warnings,
	})
}

func handleListSubitemsInItems(ctx context.Context, params map[string]any) (string, error) {
	itemIDs := tools.ToStringSlice(params["itemIds"].([]any))
	if len(itemIDs) == 0 {
		return "", tools.NewValidationError("itemIds", "must contain at least one item id")
	}

	client, err := newClient(ctx)
	if err != nil {
		return "", err
	}

	subitems, warnings, err := client.SubitemsInItems(ctx, itemIDs)
	if err != nil {
		return "", err
	}

	return tools.ToJSON(map[string]any{
		"subitems": subitems,
		"warnings": warnings,
	})
}

func handleGetItemsByID(ctx context.Context, params map[string]any) (string, error) {
	itemIDs := tools.ToStringSlice(params["itemIds"].([]any))
	if len(itemIDs) == 0 {
		return "", tools.NewValidationError("itemIds", "must contain at least one item id")
	}

	client, err := newClient(ctx)
	if err != nil {
		return "", err
	}

	items, warnings, err := client.ItemsByID(ctx, itemIDs)
	if err != nil {
		return "", err
	}

	return tools.ToJSON(map[string]any{
		"items":    items,
		"warnings": warnings,
	})
}

func handleGetItemUpdates(ctx context.Context, params map[string]any) (string, error) {
	itemID := params["itemId"].(string)
	limit := tools.IntParam(params, "limit", defaultUpdatesLimit)
	if limit <= 0 {
		return "", tools.NewValidationError("limit", "must be a positive integer")
	}

	client, err := newClient(ctx)
	if err != nil {
		return "", err
	}

	updates, warnings, err := client.ItemUpdates(ctx, itemID, limit)
	if err != nil {
		return "", err
	}

	return tools.ToJSON(map[string]any{
		"itemId":   itemID,
		"updates":  updates,
		"warnings": warnings,
	})
}

func handleCreateItem(ctx context.Context, params map[string]any) (string, error) {
	boardID := params["boardId"].(string)
	title := params["itemTitle"].(string)
	groupID, _ := params["groupId"].(string)
	parentItemID, _ := params["parentItemId"].(string)
	if groupID != "" && parentItemID != "" {
		return "", tools.NewValidationError("groupId", "mutually exclusive with parentItemId")
	}
	columnValues, _ := params["columnValues"].(map[string]any)

	client, err := newClient(ctx)
	if err != nil {
		return "", err
	}

	var item mondayapi.Item
	if parentItemID != "" {
		item, err = client.CreateSubitem(ctx, parentItemID, title, columnValues)
	} else {
		item, err = client.CreateItem(ctx, boardID, groupID, title, columnValues)
	}
	if err != nil {
		return "", err
	}

	return tools.ToJSON(map[string]any{"item": item})
}

func handleUpdateItem(ctx context.Context, params map[string]any) (string, error) {
	boardID := params["boardId"].(string)
	itemID := params["itemId"].(string)
	columnValues := params["columnValues"].(map[string]any)
	if len(columnValues) == 0 {
		return "", tools.NewValidationError("columnValues", "must contain at least one column value")
	}

	client, err := newClient(ctx)
	if err != nil {
		return "", err
	}

	item, err := client.UpdateItemColumns(ctx, boardID, itemID, columnValues)
	if err != nil {
		return "", err
	}

	return tools.ToJSON(map[string]any{"item": item})
}

// itemNameSearchLimit bounds the single-page lookup when resolving an
// item by name within a group.
const itemNameSearchLimit = 50

func handleUpdateItemName(ctx context.Context, params map[string]any) (string, error) {
	boardID := params["boardId"].(string)
	groupID := params["groupId"].(string)
	itemName := params["itemName"].(string)
	statusValue := params["statusValue"].(string)

	client, err := newClient(ctx)
	if err != nil {
		return "", err
	}

	page, err := client.ItemsPage(ctx, boardID, []string{groupID}, "", itemNameSearchLimit)
	if err != nil {
		return "", err
	}

	targetID := ""
	for _, item := range page.Items {
		if item.Name == itemName {
			targetID = item.ID
			break
		}
	}
	if targetID == "" {
		names := make([]string, 0, len(page.Items))
		for _, item := range page.Items {
			names = append(names, item.Name)
		}
		return "", fmt.Errorf("item %q not found in group %s (items: %s)", itemName, groupID, strings.Join(names, ", "))
	}

	item, err := client.UpdateItemColumns(ctx, boardID, targetID, map[string]any{
		"status": map[string]any{"label": statusValue},
	})
	if err != nil {
		return "", err
	}

	return tools.ToJSON(map[string]any{
		"item":        item,
		"statusValue": statusValue,
		"warnings":    page.Warnings,
	})
}

func handleCreateUpdate(ctx context.Context, params map[string]any) (string, error) {
	itemID := params["itemId"].(string)
	body := params["updateText"].(string)

	client, err := newClient(ctx)
	if err != nil {
		return "", err
	}

	updateID, err := client.CreateUpdate(ctx, itemID, body)
	if err != nil {
		return "", err
	}

	return tools.ToJSON(map[string]any{"itemId": itemID, "updateId": updateID})
}

func handleMoveItemToGroup(ctx context.Context, params map[string]any) (string, error) {
	itemID := params["itemId"].(string)
	groupID := params["groupId"].(string)

	client, err := newClient(ctx)
	if err != nil {
		return "", err
	}

	movedID, err := client.MoveItemToGroup(ctx, itemID, groupID)
	if err != nil {
		return "", err
	}

	return tools.ToJSON(map[string]any{"itemId": movedID, "groupId": groupID})
}

func handleDeleteItem(ctx context.Context, params map[string]any) (string, error) {
	itemID := params["itemId"].(string)

	client, err := newClient(ctx)
	if err != nil {
		return "", err
	}

	deletedID, err := client.DeleteItem(ctx, itemID)
	if err != nil {
		return "", err
	}

	return tools.ToJSON(map[string]any{"itemId": deletedID, "deleted": true})
}

func handleArchiveItem(ctx context.Context, params map[string]any) (string, error) {
	itemID := params["itemId"].(string)

	client, err := newClient(ctx)
	if err != nil {
		return "", err
	}

	archivedID, err := client.ArchiveItem(ctx, itemID)
	if err != nil {
		return "", err
	}

	return tools.ToJSON(map[string]any{"itemId": archivedID, "archived": true})
}
