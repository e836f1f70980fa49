package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/datalens-tools/datalens-mcp/internal/catalog"
	"github.com/datalens-tools/datalens-mcp/internal/common"
	"github.com/datalens-tools/datalens-mcp/internal/dispatch"
	"github.com/datalens-tools/datalens-mcp/internal/rpc"
)

func newTestDispatcher(t *testing.T, handler http.HandlerFunc) *dispatch.Dispatcher {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := rpc.NewClient(
		common.APIConfig{BaseURL: server.URL, APIVersion: "0", TimeoutSeconds: 5},
		common.NewSilentLogger(),
		func() rpc.Credentials { return rpc.Credentials{OrgID: "org-123", Token: "token-abc"} },
	)
	return dispatch.New(client, common.NewSilentLogger())
}

func resultText(t *testing.T, result *mcpgo.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("Expected single content block, got %d", len(result.Content))
	}
	text, ok := result.Content[0].(mcpgo.TextContent)
	if !ok {
		t.Fatalf("Expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestBuildTool(t *testing.T) {
	d, ok := catalog.Lookup("datalens_get_dashboard")
	if !ok {
		t.Fatal("Expected datalens_get_dashboard in catalog")
	}
	tool := BuildTool(d)
	if tool.Name != "datalens_get_dashboard" {
		t.Errorf("Expected tool name from descriptor, got %s", tool.Name)
	}
	if !strings.Contains(tool.Description, "getDashboard") {
		t.Errorf("Expected description to name the RPC method, got %q", tool.Description)
	}

	props := tool.InputSchema.Properties
	if _, present := props["dashboard_id"]; !present {
		t.Error("Expected dashboard_id property")
	}
	if _, present := props["include_permissions"]; !present {
		t.Error("Expected include_permissions property")
	}
	required := tool.InputSchema.Required
	if len(required) != 1 || required[0] != "dashboard_id" {
		t.Errorf("Expected dashboard_id required, got %v", required)
	}
}

func TestGenericToolPayloadIsObject(t *testing.T) {
	tool := genericTool()
	prop, ok := tool.InputSchema.Properties["payload"].(map[string]any)
	if !ok {
		t.Fatalf("Expected payload property schema, got %T", tool.InputSchema.Properties["payload"])
	}
	if prop["type"] != "object" {
		t.Errorf("Expected payload advertised as object, got %v", prop["type"])
	}
}

func TestToolHandler_Success(t *testing.T) {
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"entries": [{"key": "/team/sales"}]}`))
	})
	handler := toolHandler(d, common.NewSilentLogger(), "datalens_list_directory")

	request := mcpgo.CallToolRequest{}
	request.Params.Arguments = map[string]interface{}{"path": "/team"}

	result, err := handler(context.Background(), request)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("Expected success, got error result: %s", resultText(t, result))
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatalf("Result not JSON: %v", err)
	}
	if _, present := payload["entries"]; !present {
		t.Errorf("Expected entries in payload, got %v", payload)
	}
}

func TestToolHandler_CodecError(t *testing.T) {
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("Expected no RPC call for a codec error")
	})
	handler := toolHandler(d, common.NewSilentLogger(), "datalens_get_dataset")

	request := mcpgo.CallToolRequest{}
	request.Params.Arguments = map[string]interface{}{}

	result, err := handler(context.Background(), request)
	if err != nil {
		t.Fatalf("Unexpected protocol error: %v", err)
	}
	if !result.IsError {
		t.Fatal("Expected error result")
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(resultText(t, result)), &doc); err != nil {
		t.Fatalf("Error document not JSON: %v", err)
	}
	if doc["tool_id"] != "datalens_get_dataset" {
		t.Errorf("Expected tool_id in error document, got %v", doc)
	}
	errDoc, _ := doc["error"].(map[string]any)
	if errDoc["kind"] != "missing_field" {
		t.Errorf("Expected missing_field kind, got %v", errDoc)
	}
	if errDoc["field"] != "dataset_id" {
		t.Errorf("Expected offending field named, got %v", errDoc)
	}
}

func TestToolHandler_UnknownTool(t *testing.T) {
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("Expected no RPC call for an unknown tool")
	})
	handler := toolHandler(d, common.NewSilentLogger(), "datalens_bogus")

	result, err := handler(context.Background(), mcpgo.CallToolRequest{})
	if err != nil {
		t.Fatalf("Unexpected protocol error: %v", err)
	}
	if !result.IsError {
		t.Fatal("Expected error result")
	}
	var doc map[string]any
	json.Unmarshal([]byte(resultText(t, result)), &doc)
	errDoc, _ := doc["error"].(map[string]any)
	if errDoc["kind"] != "unknown_tool" {
		t.Errorf("Expected unknown_tool kind, got %v", errDoc)
	}
}

func TestToolHandler_RPCFailure(t *testing.T) {
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "dataset not found"}`))
	})
	handler := toolHandler(d, common.NewSilentLogger(), "datalens_get_dataset")

	request := mcpgo.CallToolRequest{}
	request.Params.Arguments = map[string]interface{}{"dataset_id": "ds-missing"}

	result, err := handler(context.Background(), request)
	if err != nil {
		t.Fatalf("Unexpected protocol error: %v", err)
	}
	if !result.IsError {
		t.Fatal("Expected error result")
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(resultText(t, result)), &doc); err != nil {
		t.Fatalf("Error document not JSON: %v", err)
	}
	errDoc, _ := doc["error"].(map[string]any)
	if errDoc["kind"] != "not_found" {
		t.Errorf("Expected not_found kind, got %v", errDoc)
	}
	if errDoc["status"] != float64(404) {
		t.Errorf("Expected status 404, got %v", errDoc["status"])
	}
	response, _ := errDoc["response"].(map[string]any)
	if response["message"] != "dataset not found" {
		t.Errorf("Expected remote response carried verbatim, got %v", errDoc["response"])
	}
}

func TestToolHandler_IntrospectionTool(t *testing.T) {
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("Expected no RPC call for introspection")
	})
	handler := toolHandler(d, common.NewSilentLogger(), dispatch.IntrospectionToolID)

	result, err := handler(context.Background(), mcpgo.CallToolRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("Expected success, got %s", resultText(t, result))
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatalf("Result not JSON: %v", err)
	}
	methods, ok := payload["methods"].([]any)
	if !ok || len(methods) == 0 {
		t.Error("Expected non-empty methods list")
	}
}

func TestRegisterTools_Count(t *testing.T) {
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	s := server.NewMCPServer("test", "0.0.0", server.WithToolCapabilities(true))
	count := RegisterTools(s, d, common.NewSilentLogger())
	want := 3 + len(catalog.All())
	if count != want {
		t.Errorf("Expected %d tools registered, got %d", want, count)
	}
}
