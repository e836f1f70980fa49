// Package catalog holds the static table of DataLens RPC methods known to
// this adapter: the typed tool wrappers with their argument declarations, and
// the wider method registry reachable through the generic passthrough tool.
//
// The catalog is built once at package init and never mutated, so it is safe
// for unsynchronized concurrent reads.
package catalog

import "fmt"

// Coverage-snapshot metadata baked in at build time. SnapshotDate records
// when the method list was last reconciled against the upstream API surface.
const (
	SnapshotDate   = "2026-06-12"
	SourceURL      = "https://api.datalens.tech/docs"
	OpenAPIVersion = "3.0.1"
)

// APIInfo describes the upstream API the snapshot was taken from.
var APIInfo = map[string]any{
	"title":   "DataLens Public API",
	"version": "0",
}

// Verb is the HTTP verb a descriptor uses against the RPC endpoint.
// Every method on the DataLens /rpc surface is POST; the type exists so the
// codec can route GET descriptors to query-parameter encoding.
type Verb string

const (
	VerbGet  Verb = "GET"
	VerbPost Verb = "POST"
)

// Maturity flags how settled a method's contract is.
type Maturity string

const (
	MaturityStable       Maturity = "stable"
	MaturityExperimental Maturity = "experimental"
)

// FieldKind is the declared shape of one argument field.
type FieldKind string

const (
	KindString FieldKind = "string"
	KindBool   FieldKind = "boolean"
	KindNumber FieldKind = "number"
	KindObject FieldKind = "object"
	// KindAny accepts any JSON value (filters, order specs, id lists).
	KindAny FieldKind = "any"
)

// Field declares one argument of a typed wrapper: the name callers supply,
// the key it is sent under on the wire, its shape, and whether it is required.
// Aliases are accepted argument spellings; most fields take their camelCase
// wire form as well as the canonical snake_case name.
type Field struct {
	Name        string
	Key         string
	Kind        FieldKind
	Required    bool
	Default     any
	Description string
	Aliases     []string
}

// MethodDescriptor is the catalog record binding one tool id to one remote
// RPC method.
type MethodDescriptor struct {
	ToolID       string
	RemoteMethod string
	Verb         Verb
	Category     string
	Maturity     Maturity
	Summary      string
	Fields       []Field
}

// RequestSchema builds a JSON-schema-shaped description of the descriptor's
// declared arguments, used by the method-schema discovery tool.
func (d MethodDescriptor) RequestSchema() map[string]any {
	props := make(map[string]any, len(d.Fields))
	var required []string
	for _, f := range d.Fields {
		prop := map[string]any{}
		switch f.Kind {
		case KindAny:
			// any JSON value; no type constraint
		default:
			prop["type"] = string(f.Kind)
		}
		if f.Description != "" {
			prop["description"] = f.Description
		}
		if f.Default != nil {
			prop["default"] = f.Default
		}
		props[f.Name] = prop
		if f.Required {
			required = append(required, f.Name)
		}
	}
	schema := map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": true,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// descriptors is the full set of typed wrappers, in declaration order.
// Order is load-bearing: the introspection tool reports it verbatim so
// repeated calls are diffable.
var descriptors = []MethodDescriptor{
	{
		ToolID:       "datalens_list_directory",
		RemoteMethod: "listDirectory",
		Verb:         VerbPost,
		Category:     "read",
		Maturity:     MaturityStable,
		Summary:      "List entries under a navigation path. Defaults to the root path '/'.",
		Fields: []Field{
			{Name: "path", Key: "path", Kind: KindString, Default: "/", Description: "Directory path to list"},
			{Name: "created_by", Key: "createdBy", Kind: KindAny, Description: "Filter by creator", Aliases: []string{"createdBy"}},
			{Name: "order_by", Key: "orderBy", Kind: KindAny, Description: "Sort specification", Aliases: []string{"orderBy"}},
			{Name: "filters", Key: "filters", Kind: KindAny, Description: "Entry filters"},
			{Name: "page", Key: "page", Kind: KindNumber, Description: "Page number"},
			{Name: "page_size", Key: "pageSize", Kind: KindNumber, Description: "Entries per page", Aliases: []string{"pageSize"}},
			{Name: "include_permissions_info", Key: "includePermissionsInfo", Kind: KindBool, Description: "Include permission details", Aliases: []string{"includePermissionsInfo"}},
		},
	},
	{
		ToolID:       "datalens_get_entries",
		RemoteMethod: "getEntries",
		Verb:         VerbPost,
		Category:     "read",
		Maturity:     MaturityStable,
		Summary:      "Query entries across the instance with filters, paging, and scope.",
		Fields: []Field{
			{Name: "exclude_locked", Key: "excludeLocked", Kind: KindBool, Description: "Skip locked entries", Aliases: []string{"excludeLocked"}},
			{Name: "include_data", Key: "includeData", Kind: KindBool, Description: "Include entry data", Aliases: []string{"includeData"}},
			{Name: "include_links", Key: "includeLinks", Kind: KindBool, Description: "Include entry links", Aliases: []string{"includeLinks"}},
			{Name: "filters", Key: "filters", Kind: KindAny, Description: "Entry filters"},
			{Name: "order_by", Key: "orderBy", Kind: KindAny, Description: "Sort specification", Aliases: []string{"orderBy"}},
			{Name: "created_by", Key: "createdBy", Kind: KindAny, Description: "Filter by creator", Aliases: []string{"createdBy"}},
			{Name: "page", Key: "page", Kind: KindNumber, Description: "Page number"},
			{Name: "page_size", Key: "pageSize", Kind: KindNumber, Description: "Entries per page", Aliases: []string{"pageSize"}},
			{Name: "include_permissions_info", Key: "includePermissionsInfo", Kind: KindBool, Description: "Include permission details", Aliases: []string{"includePermissionsInfo"}},
			{Name: "ignore_workbook_entries", Key: "ignoreWorkbookEntries", Kind: KindBool, Description: "Exclude workbook-scoped entries", Aliases: []string{"ignoreWorkbookEntries"}},
			{Name: "scope", Key: "scope", Kind: KindString, Description: "Entry scope (dataset, dash, connection, widget)"},
			{Name: "ids", Key: "ids", Kind: KindAny, Description: "Restrict to specific entry ids"},
		},
	},
	{
		ToolID:       "datalens_get_dataset",
		RemoteMethod: "getDataset",
		Verb:         VerbPost,
		Category:     "read",
		Maturity:     MaturityStable,
		Summary:      "Fetch a dataset by id, optionally at a specific revision.",
		Fields: []Field{
			{Name: "dataset_id", Key: "datasetId", Kind: KindString, Required: true, Description: "Dataset id", Aliases: []string{"datasetId"}},
			{Name: "workbook_id", Key: "workbookId", Kind: KindString, Description: "Workbook scope", Aliases: []string{"workbookId"}},
			// getDataset takes the revision under snake_case, unlike getDashboard.
			{Name: "rev_id", Key: "rev_id", Kind: KindString, Description: "Revision id", Aliases: []string{"revId"}},
		},
	},
	{
		ToolID:       "datalens_get_dashboard",
		RemoteMethod: "getDashboard",
		Verb:         VerbPost,
		Category:     "read",
		Maturity:     MaturityStable,
		Summary:      "Fetch a dashboard by id with optional permissions, links, and branch.",
		Fields: []Field{
			{Name: "dashboard_id", Key: "dashboardId", Kind: KindString, Required: true, Description: "Dashboard id", Aliases: []string{"dashboardId"}},
			{Name: "rev_id", Key: "revId", Kind: KindString, Description: "Revision id", Aliases: []string{"revId"}},
			// includePermissionsInfo is the legacy spelling still seen in older clients.
			{Name: "include_permissions", Key: "includePermissions", Kind: KindBool, Description: "Include permission details", Aliases: []string{"includePermissions", "includePermissionsInfo"}},
			{Name: "include_links", Key: "includeLinks", Kind: KindBool, Description: "Include entry links", Aliases: []string{"includeLinks"}},
			{Name: "include_favorite", Key: "includeFavorite", Kind: KindBool, Description: "Include favorite flag", Aliases: []string{"includeFavorite"}},
			{Name: "branch", Key: "branch", Kind: KindString, Description: "Branch (draft or published)"},
			{Name: "workbook_id", Key: "workbookId", Kind: KindString, Description: "Workbook scope", Aliases: []string{"workbookId"}},
		},
	},
	{
		ToolID:       "datalens_get_connection",
		RemoteMethod: "getConnection",
		Verb:         VerbPost,
		Category:     "read",
		Maturity:     MaturityStable,
		Summary:      "Fetch a connection by id.",
		Fields: []Field{
			{Name: "connection_id", Key: "connectionId", Kind: KindString, Required: true, Description: "Connection id", Aliases: []string{"connectionId"}},
			{Name: "workbook_id", Key: "workbookId", Kind: KindString, Description: "Workbook scope", Aliases: []string{"workbookId"}},
			{Name: "binded_dataset_id", Key: "bindedDatasetId", Kind: KindString, Description: "Bound dataset id", Aliases: []string{"bindedDatasetId"}},
			{Name: "rev_id", Key: "rev_id", Kind: KindString, Description: "Revision id", Aliases: []string{"revId"}},
		},
	},
	{
		ToolID:       "datalens_create_connection",
		RemoteMethod: "createConnection",
		Verb:         VerbPost,
		Category:     "write",
		Maturity:     MaturityStable,
		Summary:      "Create a connection. Pass the required fields for the selected type.",
		Fields: []Field{
			{Name: "type", Key: "type", Kind: KindString, Required: true, Description: "Connection type (clickhouse, postgres, ...)"},
		},
	},
	{
		ToolID:       "datalens_update_connection",
		RemoteMethod: "updateConnection",
		Verb:         VerbPost,
		Category:     "write",
		Maturity:     MaturityStable,
		Summary:      "Update a connection's data by id.",
		Fields: []Field{
			{Name: "connection_id", Key: "connectionId", Kind: KindString, Required: true, Description: "Connection id", Aliases: []string{"connectionId"}},
			{Name: "data", Key: "data", Kind: KindObject, Required: true, Description: "Connection fields to update"},
		},
	},
	{
		ToolID:       "datalens_delete_connection",
		RemoteMethod: "deleteConnection",
		Verb:         VerbPost,
		Category:     "write",
		Maturity:     MaturityStable,
		Summary:      "Delete a connection by id.",
		Fields: []Field{
			{Name: "connection_id", Key: "connectionId", Kind: KindString, Required: true, Description: "Connection id", Aliases: []string{"connectionId"}},
		},
	},
	{
		ToolID:       "datalens_create_dashboard",
		RemoteMethod: "createDashboard",
		Verb:         VerbPost,
		Category:     "write",
		Maturity:     MaturityStable,
		Summary:      "Create a dashboard entry in save or publish mode.",
		Fields: []Field{
			{Name: "entry", Key: "entry", Kind: KindObject, Required: true, Description: "Dashboard entry document"},
			{Name: "mode", Key: "mode", Kind: KindString, Required: true, Description: "'save' or 'publish'"},
		},
	},
	{
		ToolID:       "datalens_update_dashboard",
		RemoteMethod: "updateDashboard",
		Verb:         VerbPost,
		Category:     "write",
		Maturity:     MaturityStable,
		Summary:      "Update a dashboard entry in save or publish mode.",
		Fields: []Field{
			{Name: "entry", Key: "entry", Kind: KindObject, Required: true, Description: "Dashboard entry document"},
			{Name: "mode", Key: "mode", Kind: KindString, Required: true, Description: "'save' or 'publish'"},
		},
	},
	{
		ToolID:       "datalens_delete_dashboard",
		RemoteMethod: "deleteDashboard",
		Verb:         VerbPost,
		Category:     "write",
		Maturity:     MaturityStable,
		Summary:      "Delete a dashboard by id.",
		Fields: []Field{
			{Name: "dashboard_id", Key: "dashboardId", Kind: KindString, Required: true, Description: "Dashboard id", Aliases: []string{"dashboardId"}},
			{Name: "lock_token", Key: "lockToken", Kind: KindString, Description: "Entry lock token", Aliases: []string{"lockToken"}},
		},
	},
	{
		ToolID:       "datalens_create_dataset",
		RemoteMethod: "createDataset",
		Verb:         VerbPost,
		Category:     "write",
		Maturity:     MaturityStable,
		Summary:      "Create a dataset, optionally inside a workbook or directory.",
		Fields: []Field{
			{Name: "dataset", Key: "dataset", Kind: KindObject, Required: true, Description: "Dataset document"},
			// createDataset is one of the older endpoints and still takes
			// snake_case wire keys for its envelope fields.
			{Name: "created_via", Key: "created_via", Kind: KindAny, Description: "Creation source marker", Aliases: []string{"createdVia"}},
			{Name: "dir_path", Key: "dir_path", Kind: KindString, Description: "Target directory path", Aliases: []string{"dirPath"}},
			{Name: "name", Key: "name", Kind: KindString, Description: "Dataset name"},
			{Name: "options", Key: "options", Kind: KindObject, Description: "Creation options"},
			{Name: "preview", Key: "preview", Kind: KindBool, Description: "Enable preview"},
			{Name: "workbook_id", Key: "workbook_id", Kind: KindString, Description: "Workbook scope", Aliases: []string{"workbookId"}},
		},
	},
	{
		ToolID:       "datalens_update_dataset",
		RemoteMethod: "updateDataset",
		Verb:         VerbPost,
		Category:     "write",
		Maturity:     MaturityStable,
		Summary:      "Update a dataset by id.",
		Fields: []Field{
			{Name: "dataset_id", Key: "datasetId", Kind: KindString, Required: true, Description: "Dataset id", Aliases: []string{"datasetId"}},
			{Name: "data", Key: "data", Kind: KindObject, Default: map[string]any{}, Description: "Dataset fields to update"},
		},
	},
	{
		ToolID:       "datalens_delete_dataset",
		RemoteMethod: "deleteDataset",
		Verb:         VerbPost,
		Category:     "write",
		Maturity:     MaturityStable,
		Summary:      "Delete a dataset by id.",
		Fields: []Field{
			{Name: "dataset_id", Key: "datasetId", Kind: KindString, Required: true, Description: "Dataset id", Aliases: []string{"datasetId"}},
		},
	},
	{
		ToolID:       "datalens_validate_dataset",
		RemoteMethod: "validateDataset",
		Verb:         VerbPost,
		Category:     "write",
		Maturity:     MaturityStable,
		Summary:      "Validate dataset changes without persisting them.",
		Fields: []Field{
			{Name: "dataset_id", Key: "datasetId", Kind: KindString, Required: true, Description: "Dataset id", Aliases: []string{"datasetId"}},
			{Name: "workbook_id", Key: "workbookId", Kind: KindString, Description: "Workbook scope", Aliases: []string{"workbookId"}},
			{Name: "data", Key: "data", Kind: KindObject, Default: map[string]any{}, Description: "Dataset fields to validate"},
		},
	},
}

// byToolID indexes descriptors for exact-match lookup.
var byToolID = buildIndex()

func buildIndex() map[string]int {
	idx := make(map[string]int, len(descriptors))
	for i, d := range descriptors {
		if d.ToolID == "" || d.RemoteMethod == "" {
			panic(fmt.Sprintf("catalog: descriptor %d has empty tool id or remote method", i))
		}
		if _, dup := idx[d.ToolID]; dup {
			panic(fmt.Sprintf("catalog: duplicate tool id %q", d.ToolID))
		}
		idx[d.ToolID] = i
	}
	return idx
}

// Lookup returns the descriptor for a tool id. Matching is exact and
// case-sensitive; absence is not an error.
func Lookup(toolID string) (MethodDescriptor, bool) {
	i, ok := byToolID[toolID]
	if !ok {
		return MethodDescriptor{}, false
	}
	return descriptors[i], true
}

// All returns every typed-wrapper descriptor in declaration order.
// The returned slice is a copy; callers may not mutate the catalog.
func All() []MethodDescriptor {
	out := make([]MethodDescriptor, len(descriptors))
	copy(out, descriptors)
	return out
}
