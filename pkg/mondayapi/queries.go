package mondayapi

// GraphQL documents for every operation the server exposes. Variables are
// always passed separately; nothing caller-supplied is interpolated into
// the query text.

const queryBoardsPage = `
query ($limit: Int!, $page: Int!) {
  boards (limit: $limit, page: $page, order_by: created_at) {
    id
    name
    state
    items_count
  }
}`

const queryBoardColumns = `
query ($boardIds: [ID!]) {
  boards (ids: $boardIds) {
    id
    name
    columns {
      id
      title
      type
      settings_str
    }
  }
}`

const queryBoardGroups = `
query ($boardIds: [ID!]) {
  boards (ids: $boardIds) {
    groups {
      id
      title
    }
  }
}`

// First items page: group membership is filtered with query_params rules.
const queryItemsPage = `
query ($boardIds: [ID!], $limit: Int!, $queryParams: ItemsQuery) {
  boards (ids: $boardIds) {
    items_page (limit: $limit, query_params: $queryParams) {
      cursor
      items {
        id
        name
        group { id }
        column_values {
          id
          text
          value
        }
      }
    }
  }
}`

// Follow-up pages: the cursor already encodes the filter, and the API
// rejects cursor and query_params together.
const queryItemsPageCursor = `
query ($boardIds: [ID!], $limit: Int!, $cursor: String!) {
  boards (ids: $boardIds) {
    items_page (limit: $limit, cursor: $cursor) {
      cursor
      items {
        id
        name
        group { id }
        column_values {
          id
          text
          value
        }
      }
    }
  }
}`

const querySubitems = `
query ($itemIds: [ID!]) {
  items (ids: $itemIds) {
    subitems {
      id
      name
      parent_item { id }
      column_values {
        id
        text
        value
      }
    }
  }
}`

const queryItemsByID = `
query ($itemIds: [ID!]) {
  items (ids: $itemIds) {
    id
    name
    group { id }
    column_values {
      id
      text
      value
    }
  }
}`

const queryItemUpdates = `
query ($itemIds: [ID!], $limit: Int!) {
  items (ids: $itemIds) {
    updates (limit: $limit) {
      id
      body
      created_at
      creator { id name }
      assets { id name url }
    }
  }
}`

const queryDocsPage = `
query ($limit: Int!, $page: Int!) {
  docs (limit: $limit, page: $page) {
    id
    name
    object_id
    workspace_id
    url
  }
}`

const queryDocBlocks = `
query ($docIds: [ID!]) {
  docs (ids: $docIds) {
    id
    name
    blocks {
      id
      type
      content
    }
  }
}`

const mutationCreateItem = `
mutation ($boardId: ID!, $groupId: String, $itemName: String!, $columnValues: JSON) {
  create_item (board_id: $boardId, group_id: $groupId, item_name: $itemName, column_values: $columnValues) {
    id
    name
  }
}`

const mutationCreateSubitem = `
mutation ($parentItemId: ID!, $itemName: String!, $columnValues: JSON) {
  create_subitem (parent_item_id: $parentItemId, item_name: $itemName, column_values: $columnValues) {
    id
    name
    parent_item { id }
  }
}`

const mutationUpdateItemColumns = `
mutation ($boardId: ID!, $itemId: ID!, $columnValues: JSON!) {
  change_multiple_column_values (board_id: $boardId, item_id: $itemId, column_values: $columnValues) {
    id
    name
  }
}`

const mutationCreateUpdate = `
mutation ($itemId: ID!, $body: String!) {
  create_update (item_id: $itemId, body: $body) {
    id
  }
}`

const mutationMoveItemToGroup = `
mutation ($itemId: ID!, $groupId: String!) {
  move_item_to_group (item_id: $itemId, group_id: $groupId) {
    id
  }
}`

const mutationDeleteItem = `
mutation ($itemId: ID!) {
  delete_item (item_id: $itemId) {
    id
  }
}`

const mutationArchiveItem = `
mutation ($itemId: ID!) {
  archive_item (item_id: $itemId) {
    id
  }
}`

const mutationCreateBoard = `
mutation ($boardName: String!, $boardKind: BoardKind!, $workspaceId: ID) {
  create_board (board_name: $boardName, board_kind: $boardKind, workspace_id: $workspaceId) {
    id
    name
  }
}`

const mutationCreateDoc = `
mutation ($location: CreateDocInput!) {
  create_doc (location: $location) {
    id
    name
    url
  }
}`
