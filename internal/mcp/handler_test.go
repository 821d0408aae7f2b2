package mcp

import (
	"context"
	"strings"
	"testing"

	"mondaymcp/server/internal/jsonrpc"
)

func TestProcessRequestInitialize(t *testing.T) {
	h := NewHandler()

	result, rpcErr := h.ProcessRequest(context.Background(), &jsonrpc.Request{
		JSONRPC: "2.0",
		Method:  "initialize",
		ID:      1,
	})
	if rpcErr != nil {
		t.Fatalf("initialize failed: %v", rpcErr)
	}

	init, ok := result.(*InitializeResult)
	if !ok {
		t.Fatalf("result type = %T", result)
	}
	if init.ProtocolVersion != "2025-03-26" {
		t.Errorf("protocol version = %q", init.ProtocolVersion)
	}
	if init.ServerInfo.Name != "monday-mcp" {
		t.Errorf("server name = %q", init.ServerInfo.Name)
	}
	if init.Capabilities.Tools == nil {
		t.Error("tools capability should be advertised")
	}
}

func TestProcessRequestInitializedNotification(t *testing.T) {
	h := NewHandler()

	for _, method := range []string{"initialized", "notifications/initialized"} {
		result, rpcErr := h.ProcessRequest(context.Background(), &jsonrpc.Request{
			JSONRPC: "2.0",
			Method:  method,
		})
		if rpcErr != nil || result != nil {
			t.Errorf("%s: result=%v err=%v, want nil/nil", method, result, rpcErr)
		}
	}
}

func TestProcessRequestUnknownMethod(t *testing.T) {
	h := NewHandler()

	_, rpcErr := h.ProcessRequest(context.Background(), &jsonrpc.Request{
		JSONRPC: "2.0",
		Method:  "resources/list",
		ID:      2,
	})
	if rpcErr == nil || rpcErr.Code != MethodNotFound {
		t.Errorf("expected method-not-found, got %v", rpcErr)
	}
}

func TestProcessRequestToolsList(t *testing.T) {
	h := NewHandler()

	result, rpcErr := h.ProcessRequest(context.Background(), &jsonrpc.Request{
		JSONRPC: "2.0",
		Method:  "tools/list",
		ID:      3,
	})
	if rpcErr != nil {
		t.Fatalf("tools/list failed: %v", rpcErr)
	}

	list, ok := result.(*ToolsListResult)
	if !ok {
		t.Fatalf("result type = %T", result)
	}
	if len(list.Tools) != 18 {
		t.Errorf("catalog has %d tools, want 18", len(list.Tools))
	}
	for _, tool := range list.Tools {
		if tool.InputSchema.Type != "object" {
			t.Errorf("tool %s: schema type = %q", tool.Name, tool.InputSchema.Type)
		}
	}
}

func TestToolCallMissingName(t *testing.T) {
	h := NewHandler()

	_, rpcErr := h.ProcessRequest(context.Background(), &jsonrpc.Request{
		JSONRPC: "2.0",
		Method:  "tools/call",
		ID:      4,
		Params:  map[string]any{"arguments": map[string]any{}},
	})
	if rpcErr == nil || rpcErr.Code != InvalidParams {
		t.Errorf("expected invalid-params, got %v", rpcErr)
	}
}

func TestToolCallValidationFailureIsToolError(t *testing.T) {
	h := NewHandler()

	// A failed call is a successful JSON-RPC response carrying an error
	// result, so the model can read the message.
	result, rpcErr := h.ProcessRequest(context.Background(), &jsonrpc.Request{
		JSONRPC: "2.0",
		Method:  "tools/call",
		ID:      5,
		Params: map[string]any{
			"name":      "get-board-columns",
			"arguments": map[string]any{},
		},
	})
	if rpcErr != nil {
		t.Fatalf("expected tool-level error, got protocol error %v", rpcErr)
	}

	call, ok := result.(*ToolCallResult)
	if !ok {
		t.Fatalf("result type = %T", result)
	}
	if !call.IsError {
		t.Fatal("missing required argument should produce an error result")
	}
	if len(call.Content) == 0 || !strings.Contains(call.Content[0].Text, "boardId") {
		t.Errorf("error text should name the missing argument: %v", call.Content)
	}
}

func TestToolCallUnknownTool(t *testing.T) {
	h := NewHandler()

	result, rpcErr := h.ProcessRequest(context.Background(), &jsonrpc.Request{
		JSONRPC: "2.0",
		Method:  "tools/call",
		ID:      6,
		Params: map[string]any{
			"name":      "no-such-tool",
			"arguments": map[string]any{},
		},
	})
	if rpcErr != nil {
		t.Fatalf("expected tool-level error, got protocol error %v", rpcErr)
	}
	call := result.(*ToolCallResult)
	if !call.IsError {
		t.Fatal("unknown tool should produce an error result")
	}
}
