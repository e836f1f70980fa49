// Package mcp bridges the dispatch engine onto the MCP protocol: it builds
// tool definitions from the method catalog and wires each tool to a handler
// that drives the dispatcher.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/datalens-tools/datalens-mcp/internal/catalog"
	"github.com/datalens-tools/datalens-mcp/internal/dispatch"
)

// BuildTool converts a catalog descriptor into an MCP tool definition.
func BuildTool(d catalog.MethodDescriptor) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(toolDescription(d))}
	for _, f := range d.Fields {
		opts = append(opts, buildFieldOption(f))
	}
	return mcp.NewTool(d.ToolID, opts...)
}

func toolDescription(d catalog.MethodDescriptor) string {
	desc := "Call " + d.RemoteMethod + ". " + d.Summary
	if d.Maturity == catalog.MaturityExperimental {
		desc += " (experimental)"
	}
	return desc
}

// buildFieldOption maps a declared field to the matching mcp-go option.
// Object and any-valued fields are exposed as strings: callers pass JSON,
// which the codec parses and validates.
func buildFieldOption(f catalog.Field) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if f.Description != "" {
		opts = append(opts, mcp.Description(f.Description))
	}
	if f.Required {
		opts = append(opts, mcp.Required())
	}

	switch f.Kind {
	case catalog.KindNumber:
		return mcp.WithNumber(f.Name, opts...)
	case catalog.KindBool:
		return mcp.WithBoolean(f.Name, opts...)
	default:
		return mcp.WithString(f.Name, opts...)
	}
}

// genericTool is the passthrough: any RPC method by name with a raw payload.
func genericTool() mcp.Tool {
	return mcp.NewTool(dispatch.GenericToolID,
		mcp.WithDescription("Call any DataLens RPC method by its method name and JSON payload."),
		mcp.WithString("method", mcp.Required(), mcp.Description("RPC method name (e.g. 'listDirectory')")),
		mcp.WithObject("payload", mcp.Description("JSON object with the method's request fields; a string-encoded object is also accepted")),
	)
}

func introspectionTool() mcp.Tool {
	return mcp.NewTool(dispatch.IntrospectionToolID,
		mcp.WithDescription("List DataLens API methods known to this server, with MCP tool names and method categories."),
	)
}

func methodSchemaTool() mcp.Tool {
	return mcp.NewTool(dispatch.MethodSchemaToolID,
		mcp.WithDescription("Return the request schema and invocation hints for a DataLens RPC method."),
		mcp.WithString("method", mcp.Required(), mcp.Description("RPC method name")),
	)
}
