package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/datalens-tools/datalens-mcp/internal/catalog"
	"github.com/datalens-tools/datalens-mcp/internal/codec"
	"github.com/datalens-tools/datalens-mcp/internal/common"
	"github.com/datalens-tools/datalens-mcp/internal/dispatch"
	"github.com/datalens-tools/datalens-mcp/internal/rpc"
)

// textResult creates a successful MCP result with text content.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// toolHandler wires one tool id to the dispatcher. Every invocation gets a
// correlation id so a call can be traced through all layers.
func toolHandler(d *dispatch.Dispatcher, logger *common.Logger, toolID string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := logger.WithCorrelationId(uuid.NewString())
		log.Debug().Str("tool", toolID).Msg("tool invocation")

		result, err := d.Dispatch(ctx, dispatch.Invocation{
			ToolID:    toolID,
			Arguments: request.GetArguments(),
		})
		if err != nil {
			return errorResult(formatDispatchError(toolID, err)), nil
		}

		raw, err := json.Marshal(result.Payload)
		if err != nil {
			log.Error().Str("tool", toolID).Str("error", err.Error()).Msg("failed to serialize tool result")
			return errorResult(fmt.Sprintf("Error: failed to serialize result: %v", err)), nil
		}
		return textResult(string(raw)), nil
	}
}

// formatDispatchError renders a typed dispatch error as a structured JSON
// error document, so the calling agent gets a kind it can act on instead of
// a bare message.
func formatDispatchError(toolID string, err error) string {
	doc := map[string]any{
		"tool_id": toolID,
		"ok":      false,
	}

	var unknownTool *dispatch.UnknownToolError
	var codecErr *codec.Error
	var failure *rpc.Failure
	switch {
	case errors.As(err, &unknownTool):
		doc["error"] = map[string]any{
			"kind":   "unknown_tool",
			"detail": unknownTool.Error(),
		}
	case errors.As(err, &codecErr):
		doc["error"] = map[string]any{
			"kind":   string(codecErr.Kind),
			"field":  codecErr.Field,
			"detail": codecErr.Error(),
		}
	case errors.As(err, &failure):
		errDoc := map[string]any{
			"kind":   string(failure.Kind),
			"detail": failure.Detail,
		}
		if failure.StatusCode > 0 {
			errDoc["status"] = failure.StatusCode
		}
		if failure.Response != nil {
			errDoc["response"] = failure.Response
		}
		doc["error"] = errDoc
	default:
		doc["error"] = map[string]any{
			"kind":   "internal",
			"detail": err.Error(),
		}
	}

	raw, marshalErr := json.Marshal(doc)
	if marshalErr != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return string(raw)
}

// RegisterTools registers the reserved tools and every typed wrapper from
// the catalog on the MCP server. Returns the number of tools registered.
func RegisterTools(s *server.MCPServer, d *dispatch.Dispatcher, logger *common.Logger) int {
	count := 0
	add := func(tool mcp.Tool) {
		s.AddTool(tool, toolHandler(d, logger, tool.Name))
		count++
	}

	add(genericTool())
	add(introspectionTool())
	add(methodSchemaTool())
	for _, desc := range catalog.All() {
		add(BuildTool(desc))
	}
	return count
}
