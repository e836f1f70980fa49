package catalog

import "strings"

// RemoteMethod is one entry of the full method registry: every RPC method
// known to this adapter, whether or not it has a typed wrapper. Methods
// without a TypedTool are reachable only through the generic passthrough.
type RemoteMethod struct {
	Method       string
	Category     string
	Experimental bool
	TypedTool    string
	Summary      string
}

// remoteMethods lists the full RPC surface covered by the snapshot, in
// declaration order. Typed-wrapper entries come first, mirroring the
// descriptor table; generic-only methods follow grouped by area.
var remoteMethods = buildRegistry()

func buildRegistry() []RemoteMethod {
	out := make([]RemoteMethod, 0, len(descriptors)+len(genericOnlyMethods))
	for _, d := range descriptors {
		out = append(out, RemoteMethod{
			Method:       d.RemoteMethod,
			Category:     d.Category,
			Experimental: d.Maturity == MaturityExperimental,
			TypedTool:    d.ToolID,
			Summary:      d.Summary,
		})
	}
	out = append(out, genericOnlyMethods...)
	return out
}

// genericOnlyMethods are registry entries with no typed wrapper.
var genericOnlyMethods = []RemoteMethod{
	// navigation and entries
	{Method: "getEntry", Category: "read", Summary: "Fetch a single entry by id."},
	{Method: "getEntryByKey", Category: "read", Summary: "Fetch an entry by its navigation key."},
	{Method: "getEntryMeta", Category: "read", Summary: "Fetch entry metadata without data."},
	{Method: "getRevisions", Category: "read", Summary: "List revisions of an entry."},
	{Method: "renameEntry", Category: "write", Summary: "Rename an entry."},
	{Method: "moveEntry", Category: "write", Summary: "Move an entry to another directory."},
	{Method: "copyEntry", Category: "write", Summary: "Copy an entry."},
	{Method: "deleteEntry", Category: "write", Summary: "Delete an entry by id."},
	// locks
	{Method: "createEntryLock", Category: "write", Summary: "Acquire an edit lock on an entry."},
	{Method: "extendEntryLock", Category: "write", Summary: "Extend an existing entry lock."},
	{Method: "deleteEntryLock", Category: "write", Summary: "Release an entry lock."},
	// workbooks
	{Method: "listWorkbooks", Category: "read", Summary: "List workbooks."},
	{Method: "getWorkbook", Category: "read", Summary: "Fetch a workbook by id."},
	{Method: "createWorkbook", Category: "write", Summary: "Create a workbook."},
	{Method: "updateWorkbook", Category: "write", Summary: "Update a workbook."},
	{Method: "deleteWorkbook", Category: "write", Summary: "Delete a workbook."},
	{Method: "moveWorkbook", Category: "write", Summary: "Move a workbook to another collection."},
	{Method: "copyEntriesToWorkbook", Category: "write", Summary: "Copy entries into a workbook."},
	// collections
	{Method: "listCollections", Category: "read", Summary: "List collections."},
	{Method: "getCollection", Category: "read", Summary: "Fetch a collection by id."},
	{Method: "getCollectionBreadcrumbs", Category: "read", Summary: "Fetch a collection's ancestor chain."},
	{Method: "createCollection", Category: "write", Summary: "Create a collection."},
	{Method: "updateCollection", Category: "write", Summary: "Update a collection."},
	{Method: "moveCollection", Category: "write", Summary: "Move a collection."},
	{Method: "deleteCollection", Category: "write", Summary: "Delete a collection."},
	// datasets and connections
	{Method: "getDatasetFields", Category: "read", Summary: "List a dataset's result schema fields."},
	{Method: "copyDataset", Category: "write", Summary: "Copy a dataset."},
	{Method: "getConnectionTypes", Category: "read", Summary: "List available connection types."},
	{Method: "testConnection", Category: "read", Summary: "Verify connection parameters against the source."},
	// charts
	{Method: "getChart", Category: "read", Experimental: true, Summary: "Fetch a chart by id."},
	{Method: "createChart", Category: "write", Experimental: true, Summary: "Create a chart."},
	{Method: "updateChart", Category: "write", Experimental: true, Summary: "Update a chart."},
	{Method: "deleteChart", Category: "write", Experimental: true, Summary: "Delete a chart."},
	// embeds
	{Method: "listEmbeds", Category: "read", Experimental: true, Summary: "List embed configurations for an entry."},
	{Method: "createEmbed", Category: "write", Experimental: true, Summary: "Create an embed configuration."},
	{Method: "deleteEmbed", Category: "write", Experimental: true, Summary: "Delete an embed configuration."},
}

// Methods returns the full method registry in declaration order.
// The returned slice is a copy.
func Methods() []RemoteMethod {
	out := make([]RemoteMethod, len(remoteMethods))
	copy(out, remoteMethods)
	return out
}

// FindMethod looks up a registry entry by remote method name. The match is
// case-insensitive: callers discovering methods through an LLM frequently
// mangle camelCase.
func FindMethod(name string) (RemoteMethod, bool) {
	for _, m := range remoteMethods {
		if strings.EqualFold(m.Method, name) {
			return m, true
		}
	}
	return RemoteMethod{}, false
}

// RequestSchemaFor returns the request schema for a remote method: the typed
// wrapper's declared schema when one exists, or an open object schema for
// generic-only methods.
func RequestSchemaFor(m RemoteMethod) map[string]any {
	if m.TypedTool != "" {
		if d, ok := Lookup(m.TypedTool); ok {
			return d.RequestSchema()
		}
	}
	return map[string]any{"type": "object", "additionalProperties": true}
}
