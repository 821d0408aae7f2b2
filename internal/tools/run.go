package tools

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"mondaymcp/server/internal/middleware"
	"mondaymcp/server/internal/observability"
)

var (
	tracer = otel.Tracer("mondaymcp/server/internal/tools")
	meter  = otel.Meter("mondaymcp/server/internal/tools")

	toolCalls metric.Int64Counter
)

func init() {
	toolCalls, _ = meter.Int64Counter("mcp.tool.calls",
		metric.WithDescription("Number of tool invocations"))
}

// ExecFunc executes a named tool and returns its JSON result body.
type ExecFunc func(ctx context.Context, name string, params map[string]any) (string, error)

// Run validates and executes one tool call. Every failure becomes a
// structured error result; a tool invocation never resolves into an empty
// success. Timeouts are left to the upstream client's network layer.
func Run(ctx context.Context, catalog []Tool, exec ExecFunc, name string, params map[string]any) *ToolCallResult {
	start := time.Now()

	ctx, span := tracer.Start(ctx, "tools.Run",
		trace.WithAttributes(attribute.String("mcp.tool.name", name)))
	defer span.End()

	tool, found := FindTool(catalog, name)
	if !found {
		return finish(ctx, span, name, start, "", fmt.Errorf("unknown tool: %s", name))
	}

	validated, err := ValidateParams(tool.InputSchema, params)
	if err != nil {
		return finish(ctx, span, name, start, "", err)
	}

	result, err := exec(ctx, name, validated)
	return finish(ctx, span, name, start, result, err)
}

func finish(ctx context.Context, span trace.Span, name string, start time.Time, result string, err error) *ToolCallResult {
	durationMs := time.Since(start).Milliseconds()
	requestID := middleware.GetRequestID(ctx)
	userID := ""
	if authCtx := middleware.GetAuthContext(ctx); authCtx != nil {
		userID = authCtx.UserID
	}

	status := "success"
	if err != nil {
		status = "error"
		span.SetStatus(codes.Error, err.Error())
	}
	toolCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool", name),
		attribute.String("status", status),
	))

	if err != nil {
		observability.LogToolCall(requestID, userID, name, durationMs, status, err.Error())
		return &ToolCallResult{
			Content: []ContentBlock{{Type: "text", Text: err.Error()}},
			IsError: true,
		}
	}

	observability.LogToolCall(requestID, userID, name, durationMs, status, "")
	return &ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: result}},
	}
}
