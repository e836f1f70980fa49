// Package dispatch is the single entry point per tool invocation: it
// resolves the tool id against the catalog, drives the codec and RPC client,
// and produces a result tagged with the originating tool id. A caller error
// (unknown tool, bad arguments) never reaches the network.
package dispatch

import (
	"context"
	"fmt"

	"github.com/datalens-tools/datalens-mcp/internal/catalog"
	"github.com/datalens-tools/datalens-mcp/internal/codec"
	"github.com/datalens-tools/datalens-mcp/internal/common"
	"github.com/datalens-tools/datalens-mcp/internal/rpc"
)

// Reserved tool identifiers. These never collide with a typed wrapper's id.
const (
	// GenericToolID forwards any remote method name with a raw payload.
	GenericToolID = "datalens_rpc"
	// IntrospectionToolID serializes the method catalog. Local data only.
	IntrospectionToolID = "datalens_list_methods"
	// MethodSchemaToolID returns the request schema for one remote method.
	MethodSchemaToolID = "datalens_get_method_schema"
)

// Invocation is one tool call: the tool id and its untyped arguments. Owned
// by the dispatcher for the duration of the call, never shared across calls.
type Invocation struct {
	ToolID    string
	Arguments map[string]any
}

// Result is the final payload of a successful invocation, tagged with the
// originating tool id so concurrent callers can correlate responses.
type Result struct {
	ToolID  string
	Payload map[string]any
}

// UnknownToolError reports a tool id that is neither a typed wrapper nor a
// reserved identifier. This is a caller error, not an RPC failure.
type UnknownToolError struct {
	ToolID string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.ToolID)
}

// Dispatcher routes tool invocations. Stateless across calls; the shared
// catalog and the RPC client's connection pool are both safe for concurrent
// use, so invocations never block one another outside network I/O.
type Dispatcher struct {
	client *rpc.Client
	logger *common.Logger
}

// New creates a dispatcher backed by the given RPC client.
func New(client *rpc.Client, logger *common.Logger) *Dispatcher {
	return &Dispatcher{client: client, logger: logger}
}

// Dispatch resolves and executes one tool invocation. Errors are typed:
// *UnknownToolError and *codec.Error are local caller errors raised before
// any network call; *rpc.Failure means exactly one call was attempted.
func (d *Dispatcher) Dispatch(ctx context.Context, inv Invocation) (Result, error) {
	switch inv.ToolID {
	case IntrospectionToolID:
		// Discovery call with no side effects: unknown arguments are ignored.
		return Result{ToolID: inv.ToolID, Payload: listMethodsPayload()}, nil
	case MethodSchemaToolID:
		payload, err := methodSchemaPayload(inv.Arguments)
		if err != nil {
			return Result{ToolID: inv.ToolID}, err
		}
		return Result{ToolID: inv.ToolID, Payload: payload}, nil
	case GenericToolID:
		req, err := encodeGeneric(inv.Arguments)
		if err != nil {
			return Result{ToolID: inv.ToolID}, err
		}
		return d.execute(ctx, inv.ToolID, req)
	}

	desc, ok := catalog.Lookup(inv.ToolID)
	if !ok {
		return Result{ToolID: inv.ToolID}, &UnknownToolError{ToolID: inv.ToolID}
	}
	req, err := codec.Encode(desc, inv.Arguments)
	if err != nil {
		return Result{ToolID: inv.ToolID}, err
	}
	return d.execute(ctx, inv.ToolID, req)
}

// execute performs the single RPC call for an encoded request and decodes
// the response. Each call is atomic from this layer's point of view: one
// HTTP request, success or classified failure as a whole.
func (d *Dispatcher) execute(ctx context.Context, toolID string, req codec.EncodedRequest) (Result, error) {
	outcome := d.client.Call(ctx, req)
	if !outcome.OK() {
		d.logger.Warn().Str("tool", toolID).Str("rpc_method", req.Method).Str("kind", string(outcome.Failure.Kind)).Msg("rpc call failed")
		return Result{ToolID: toolID}, outcome.Failure
	}
	payload, err := codec.Decode(outcome.Body)
	if err != nil {
		return Result{ToolID: toolID}, &rpc.Failure{
			Kind:       rpc.FailureProtocol,
			StatusCode: outcome.StatusCode,
			Detail:     err.Error(),
		}
	}
	return Result{ToolID: toolID, Payload: payload}, nil
}

// encodeGeneric validates the passthrough tool's own two arguments and
// applies the identity codec to the payload.
func encodeGeneric(args map[string]any) (codec.EncodedRequest, error) {
	method, err := stringArg(args, "method")
	if err != nil {
		return codec.EncodedRequest{}, err
	}

	payload := map[string]any{}
	if raw, present := args["payload"]; present && raw != nil {
		normalized, err := normalizePayload(raw)
		if err != nil {
			return codec.EncodedRequest{}, err
		}
		payload = normalized
	}

	return codec.EncodeGeneric(catalog.VerbPost, method, payload), nil
}

// normalizePayload accepts a JSON object, or a string containing one.
func normalizePayload(raw any) (map[string]any, error) {
	if obj, ok := raw.(map[string]any); ok {
		return obj, nil
	}
	if s, ok := raw.(string); ok {
		parsed, err := codec.Decode([]byte(s))
		if err == nil {
			return parsed, nil
		}
	}
	return nil, &codec.Error{Kind: codec.InvalidField, Field: "payload", Reason: "must be a JSON object"}
}

// stringArg reads a required string argument, falling back to alias
// spellings when the canonical name is absent. Errors name the canonical
// field.
func stringArg(args map[string]any, name string, aliases ...string) (string, error) {
	raw, present := args[name]
	if !present || raw == nil || raw == "" {
		for _, alias := range aliases {
			if v, ok := args[alias]; ok && v != nil && v != "" {
				raw, present = v, true
				break
			}
		}
	}
	if !present || raw == nil || raw == "" {
		return "", &codec.Error{Kind: codec.MissingField, Field: name}
	}
	s, ok := raw.(string)
	if !ok {
		return "", &codec.Error{Kind: codec.InvalidField, Field: name, Reason: fmt.Sprintf("expected string, got %T", raw)}
	}
	return s, nil
}

// listMethodsPayload serializes the method registry for discovery. Output is
// deterministic: declaration order, identical across calls.
func listMethodsPayload() map[string]any {
	registry := catalog.Methods()
	methods := make([]any, 0, len(registry))
	for _, m := range registry {
		methods = append(methods, methodEntry(m))
	}
	return map[string]any{
		"snapshotDate":   catalog.SnapshotDate,
		"sourceUrl":      catalog.SourceURL,
		"openapiVersion": catalog.OpenAPIVersion,
		"apiInfo":        catalog.APIInfo,
		"totalMethods":   len(methods),
		"genericTool":    GenericToolID,
		"methods":        methods,
	}
}

func methodEntry(m catalog.RemoteMethod) map[string]any {
	invokeWith := m.TypedTool
	if invokeWith == "" {
		invokeWith = GenericToolID
	}
	entry := map[string]any{
		"method":       m.Method,
		"mcpTool":      invokeWith,
		"invokeWith":   invokeWith,
		"category":     m.Category,
		"experimental": m.Experimental,
		"summary":      m.Summary,
	}
	if m.TypedTool != "" {
		entry["typedTool"] = m.TypedTool
	}
	return entry
}

// methodSchemaPayload returns the request schema and invocation hints for
// one remote method. Method names match case-insensitively.
func methodSchemaPayload(args map[string]any) (map[string]any, error) {
	name, err := stringArg(args, "method", "methodName")
	if err != nil {
		return nil, err
	}
	m, ok := catalog.FindMethod(name)
	if !ok {
		return nil, &codec.Error{
			Kind:   codec.InvalidField,
			Field:  "method",
			Reason: fmt.Sprintf("unknown DataLens RPC method %q; call %s to discover valid methods", name, IntrospectionToolID),
		}
	}
	payload := methodEntry(m)
	payload["snapshotDate"] = catalog.SnapshotDate
	payload["sourceUrl"] = catalog.SourceURL
	payload["openapiVersion"] = catalog.OpenAPIVersion
	payload["requestSchema"] = catalog.RequestSchemaFor(m)
	return payload, nil
}
