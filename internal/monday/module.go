// Package monday maps the MCP tool catalog onto the monday.com GraphQL API.
package monday

import (
	"context"
	"fmt"
	"log"

	"mondaymcp/server/internal/broker"
	"mondaymcp/server/internal/middleware"
	"mondaymcp/server/internal/tools"
	"mondaymcp/server/pkg/mondayapi"
)

// Page sizes for paginated catalog tools. Caller limits bound how much is
// collected; these only shape the per-request fetch.
const (
	boardsPageSize = 100
	itemsPageSize  = 100
	docsPageSize   = 25
)

// Contract defaults. A caller-supplied limit always wins and is never
// clamped against these.
const (
	defaultBoardsLimit  = 100
	defaultUpdatesLimit = 25
	defaultDocsLimit    = 25
)

type handlerFunc func(ctx context.Context, params map[string]any) (string, error)

var toolHandlers = map[string]handlerFunc{
	"list-boards":            handleListBoards,
	"get-board-columns":      handleGetBoardColumns,
	"get-board-groups":       handleGetBoardGroups,
	"create-board":           handleCreateBoard,
	"list-items-in-groups":   handleListItemsInGroups,
	"list-subitems-in-items": handleListSubitemsInItems,
	"get-items-by-id":        handleGetItemsByID,
	"get-item-updates":       handleGetItemUpdates,
	"create-item":            handleCreateItem,
	"update-item":            handleUpdateItem,
	"update-item-name":       handleUpdateItemName,
	"create-update":          handleCreateUpdate,
	"move-item-to-group":     handleMoveItemToGroup,
	"delete-item":            handleDeleteItem,
	"archive-item":           handleArchiveItem,
	"get-docs":               handleGetDocs,
	"get-doc-content":        handleGetDocContent,
	"create-doc":             handleCreateDoc,
}

// Definitions returns the full tool catalog.
func Definitions() []tools.Tool {
	return toolDefinitions
}

// Execute runs a tool by name and returns its JSON response body.
func Execute(ctx context.Context, name string, params map[string]any) (string, error) {
	handler, ok := toolHandlers[name]
	if !ok {
		return "", fmt.Errorf("unknown tool: %s", name)
	}
	return handler(ctx, params)
}

// newClient builds an upstream client for the calling user. Overridable in
// tests.
var newClient = func(ctx context.Context) (*mondayapi.Client, error) {
	userID := "local"
	if authCtx := middleware.GetAuthContext(ctx); authCtx != nil {
		userID = authCtx.UserID
	}
	token, err := broker.GetTokenBroker().GetToken(ctx, userID)
	if err != nil {
		log.Printf("[monday] token lookup failed for user %s: %v", userID, err)
		return nil, fmt.Errorf("no monday.com credentials available")
	}
	return mondayapi.NewClient(token), nil
}

// =============================================================================
// Tool Definitions
// =============================================================================

var toolDefinitions = []tools.Tool{
	// Boards
	{
		Name:        "list-boards",
		Description: "List monday.com boards with their id, name, state and item count.",
		InputSchema: tools.InputSchema{
			Type: "object",
			Properties: map[string]tools.Property{
				"limit": {Type: "integer", Description: "Maximum number of boards to return (default 100)"},
			},
		},
		Annotations: tools.AnnotateReadOnly,
	},
	{
		Name:        "get-board-columns",
		Description: "Get the columns of a board, including column type and settings.",
		InputSchema: tools.InputSchema{
			Type: "object",
			Properties: map[string]tools.Property{
				"boardId": {Type: "string", Description: "Board ID"},
			},
			Required: []string{"boardId"},
		},
		Annotations: tools.AnnotateReadOnly,
	},
	{
		Name:        "get-board-groups",
		Description: "Get the groups of a board.",
		InputSchema: tools.InputSchema{
			Type: "object",
			Properties: map[string]tools.Property{
				"boardId": {Type: "string", Description: "Board ID"},
			},
			Required: []string{"boardId"},
		},
		Annotations: tools.AnnotateReadOnly,
	},
	{
		Name:        "create-board",
		Description: "Create a new board.",
		InputSchema: tools.InputSchema{
			Type: "object",
			Properties: map[string]tools.Property{
				"boardName":   {Type: "string", Description: "Name of the new board"},
				"boardKind":   {Type: "string", Description: "Board kind: public, private or share"},
				"workspaceId": {Type: "string", Description: "Workspace to create the board in (optional)"},
			},
			Required: []string{"boardName", "boardKind"},
		},
		Annotations: tools.AnnotateCreate,
	},

	// Items
	{
		Name:        "list-items-in-groups",
		Description: "List items in the given groups of a board. An explicit limit is required.",
		InputSchema: tools.InputSchema{
			Type: "object",
			Properties: map[string]tools.Property{
				"boardId":  {Type: "string", Description: "Board ID"},
				"groupIds": {Type: "array", Description: "Group IDs to read items from", Items: &tools.Property{Type: "string"}},
				"limit":    {Type: "integer", Description: "Maximum number of items to return (required)"},
			},
			Required: []string{"boardId", "groupIds", "limit"},
		},
		Annotations: tools.AnnotateReadOnly,
	},
	{
		Name:        "list-subitems-in-items",
		Description: "List the subitems of the given items.",
		InputSchema: tools.InputSchema{
			Type: "object",
			Properties: map[string]tools.Property{
				"itemIds": {Type: "array", Description: "Parent item IDs", Items: &tools.Property{Type: "string"}},
			},
			Required: []string{"itemIds"},
		},
		Annotations: tools.AnnotateReadOnly,
	},
	{
		Name:        "get-items-by-id",
		Description: "Fetch items by their IDs, including column values.",
		InputSchema: tools.InputSchema{
			Type: "object",
			Properties: map[string]tools.Property{
				"itemIds": {Type: "array", Description: "Item IDs to fetch", Items: &tools.Property{Type: "string"}},
			},
			Required: []string{"itemIds"},
		},
		Annotations: tools.AnnotateReadOnly,
	},
	{
		Name:        "get-item-updates",
		Description: "Get the updates (comments) posted on an item.",
		InputSchema: tools.InputSchema{
			Type: "object",
			Properties: map[string]tools.Property{
				"itemId": {Type: "string", Description: "Item ID"},
				"limit":  {Type: "integer", Description: "Maximum number of updates to return (default 25)"},
			},
			Required: []string{"itemId"},
		},
		Annotations: tools.AnnotateReadOnly,
	},
	{
		Name:        "create-item",
		Description: "Create an item on a board, or a subitem when parentItemId is given.",
		InputSchema: tools.InputSchema{
			Type: "object",
			Properties: map[string]tools.Property{
				"boardId":      {Type: "string", Description: "Board ID"},
				"itemTitle":    {Type: "string", Description: "Name of the new item"},
				"groupId":      {Type: "string", Description: "Group to create the item in (optional; mutually exclusive with parentItemId)"},
				"parentItemId": {Type: "string", Description: "Create as a subitem of this item (optional; mutually exclusive with groupId)"},
				"columnValues": {Type: "object", Description: "Column values keyed by column id (optional)"},
			},
			Required: []string{"boardId", "itemTitle"},
		},
		Annotations: tools.AnnotateCreate,
	},
	{
		Name:        "update-item",
		Description: "Update multiple column values of an item.",
		InputSchema: tools.InputSchema{
			Type: "object",
			Properties: map[string]tools.Property{
				"boardId":      {Type: "string", Description: "Board ID"},
				"itemId":       {Type: "string", Description: "Item ID"},
				"columnValues": {Type: "object", Description: "Column values keyed by column id"},
			},
			Required: []string{"boardId", "itemId", "columnValues"},
		},
		Annotations: tools.AnnotateUpdate,
	},
	{
		Name:        "update-item-name",
		Description: "Find an item by name within a group and set its status column.",
		InputSchema: tools.InputSchema{
			Type: "object",
			Properties: map[string]tools.Property{
				"boardId":     {Type: "string", Description: "Board ID containing the item"},
				"groupId":     {Type: "string", Description: "Group ID containing the item"},
				"itemName":    {Type: "string", Description: "Exact name of the item to update"},
				"statusValue": {Type: "string", Description: "Status label to set (e.g. Done, Working on it)"},
			},
			Required: []string{"boardId", "groupId", "itemName", "statusValue"},
		},
		Annotations: tools.AnnotateUpdate,
	},
	{
		Name:        "create-update",
		Description: "Post an update (comment) on an item.",
		InputSchema: tools.InputSchema{
			Type: "object",
			Properties: map[string]tools.Property{
				"itemId":     {Type: "string", Description: "Item ID"},
				"updateText": {Type: "string", Description: "Body of the update"},
			},
			Required: []string{"itemId", "updateText"},
		},
		Annotations: tools.AnnotateCreate,
	},
	{
		Name:        "move-item-to-group",
		Description: "Move an item to another group on its board.",
		InputSchema: tools.InputSchema{
			Type: "object",
			Properties: map[string]tools.Property{
				"itemId":  {Type: "string", Description: "Item ID"},
				"groupId": {Type: "string", Description: "Target group ID"},
			},
			Required: []string{"itemId", "groupId"},
		},
		Annotations: tools.AnnotateUpdate,
	},
	{
		Name:        "delete-item",
		Description: "Permanently delete an item.",
		InputSchema: tools.InputSchema{
			Type: "object",
			Properties: map[string]tools.Property{
				"itemId": {Type: "string", Description: "Item ID"},
			},
			Required: []string{"itemId"},
		},
		Annotations: tools.AnnotateDelete,
	},
	{
		Name:        "archive-item",
		Description: "Archive an item.",
		InputSchema: tools.InputSchema{
			Type: "object",
			Properties: map[string]tools.Property{
				"itemId": {Type: "string", Description: "Item ID"},
			},
			Required: []string{"itemId"},
		},
		Annotations: tools.AnnotateDelete,
	},

	// Docs
	{
		Name:        "get-docs",
		Description: "List monday.com workdocs.",
		InputSchema: tools.InputSchema{
			Type: "object",
			Properties: map[string]tools.Property{
				"limit": {Type: "integer", Description: "Maximum number of docs to return (default 25)"},
			},
		},
		Annotations: tools.AnnotateReadOnly,
	},
	{
		Name:        "get-doc-content",
		Description: "Get the content blocks of a workdoc.",
		InputSchema: tools.InputSchema{
			Type: "object",
			Properties: map[string]tools.Property{
				"docId": {Type: "string", Description: "Doc ID"},
			},
			Required: []string{"docId"},
		},
		Annotations: tools.AnnotateReadOnly,
	},
	{
		Name:        "create-doc",
		Description: "Create a workdoc in a workspace, or attached to an item's doc column.",
		InputSchema: tools.InputSchema{
			Type: "object",
			Properties: map[string]tools.Property{
				"title":       {Type: "string", Description: "Doc title"},
				"workspaceId": {Type: "string", Description: "Workspace to create the doc in (or use itemId + columnId)"},
				"itemId":      {Type: "string", Description: "Item to attach the doc to (requires columnId)"},
				"columnId":    {Type: "string", Description: "Doc column id on the item"},
			},
			Required: []string{"title"},
		},
		Annotations: tools.AnnotateCreate,
	},
}
