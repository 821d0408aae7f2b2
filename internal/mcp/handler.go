package mcp

import (
	"context"
	"encoding/json"

	"mondaymcp/server/internal/jsonrpc"
	"mondaymcp/server/internal/monday"
	"mondaymcp/server/internal/tools"
)

type Handler struct {
	catalog []tools.Tool
	exec    tools.ExecFunc
}

func NewHandler() *Handler {
	return &Handler{
		catalog: monday.Definitions(),
		exec:    monday.Execute,
	}
}

// ProcessRequest routes a JSON-RPC request to the appropriate handler.
// Called by the transport middleware.
func (h *Handler) ProcessRequest(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error) {
	switch req.Method {
	case "initialize":
		return h.handleInitialize(req), nil
	case "initialized", "notifications/initialized":
		return nil, nil
	case "tools/list":
		return h.handleToolsList(ctx), nil
	case "tools/call":
		return h.handleToolCall(ctx, req)
	default:
		return nil, &jsonrpc.Error{Code: MethodNotFound, Message: "Method not found"}
	}
}

func (h *Handler) handleInitialize(req *jsonrpc.Request) *InitializeResult {
	return &InitializeResult{
		ProtocolVersion: "2025-03-26",
		Capabilities: ServerCapabilities{
			Tools: &ToolsCapability{},
		},
		ServerInfo: ServerInfo{
			Name:    "monday-mcp",
			Version: "0.1.0",
		},
	}
}

func (h *Handler) handleToolsList(ctx context.Context) *ToolsListResult {
	return &ToolsListResult{Tools: h.catalog}
}

func (h *Handler) handleToolCall(ctx context.Context, req *jsonrpc.Request) (*ToolCallResult, *jsonrpc.Error) {
	paramsBytes, err := json.Marshal(req.Params)
	if err != nil {
		return nil, &jsonrpc.Error{Code: InvalidParams, Message: "Invalid params"}
	}

	var params ToolCallParams
	if err := json.Unmarshal(paramsBytes, &params); err != nil {
		return nil, &jsonrpc.Error{Code: InvalidParams, Message: "Invalid params structure"}
	}
	if params.Name == "" {
		return nil, &jsonrpc.Error{Code: InvalidParams, Message: "name is required"}
	}

	return tools.Run(ctx, h.catalog, h.exec, params.Name, params.Arguments), nil
}
