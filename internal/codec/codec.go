// Package codec converts loosely-typed tool arguments into the wire shape a
// catalog descriptor declares, and parses RPC response bodies back into
// structured data. Validation is strict: a malformed request against a write
// method is expensive, so no value is ever silently coerced to fit.
package codec

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/datalens-tools/datalens-mcp/internal/catalog"
)

// ErrorKind classifies a codec failure. Both kinds are caller errors raised
// before any network call.
type ErrorKind string

const (
	MissingField ErrorKind = "missing_field"
	InvalidField ErrorKind = "invalid_field"
)

// Error is a validation failure for a single argument field.
type Error struct {
	Kind   ErrorKind
	Field  string
	Reason string
}

func (e *Error) Error() string {
	if e.Kind == MissingField {
		return fmt.Sprintf("missing required field %q", e.Field)
	}
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// EncodedRequest is a validated, wire-ready RPC request.
type EncodedRequest struct {
	Verb   catalog.Verb
	Method string
	Query  url.Values     // populated for GET verbs
	Body   map[string]any // populated for write verbs
}

// Encode validates args against the descriptor's declared fields and builds
// the request payload. Declared fields are renamed to their wire keys, with
// alias spellings resolved first; undeclared fields pass through verbatim so
// request fields added upstream remain reachable without a catalog change.
func Encode(d catalog.MethodDescriptor, args map[string]any) (EncodedRequest, error) {
	payload := make(map[string]any, len(args))
	declared := make(map[string]bool, len(d.Fields))

	for _, f := range d.Fields {
		// Alias keys are consumed by the field they spell, never passed through.
		declared[f.Name] = true
		for _, alias := range f.Aliases {
			declared[alias] = true
		}
		val, present := resolveField(f, args)
		if !present || val == nil {
			if f.Required {
				return EncodedRequest{}, &Error{Kind: MissingField, Field: f.Name}
			}
			if f.Default != nil {
				payload[f.Key] = f.Default
			}
			continue
		}
		checked, err := checkField(f, val)
		if err != nil {
			return EncodedRequest{}, err
		}
		payload[f.Key] = checked
	}

	for name, val := range args {
		if !declared[name] {
			payload[name] = val
		}
	}

	return finishEncode(d.Verb, d.RemoteMethod, payload), nil
}

// resolveField finds a field's value under its canonical name or, failing
// that, one of its aliases. The canonical name wins when both are supplied.
func resolveField(f catalog.Field, args map[string]any) (any, bool) {
	if val, present := args[f.Name]; present && val != nil {
		return val, true
	}
	for _, alias := range f.Aliases {
		if val, present := args[alias]; present && val != nil {
			return val, true
		}
	}
	return nil, false
}

// EncodeGeneric is the identity codec for the passthrough tool: the payload
// is forwarded verbatim as the body (write verbs) or as query parameters
// (read verbs). No shape validation beyond "payload is an object", which the
// map type already guarantees.
func EncodeGeneric(verb catalog.Verb, method string, payload map[string]any) EncodedRequest {
	if payload == nil {
		payload = map[string]any{}
	}
	return finishEncode(verb, method, payload)
}

func finishEncode(verb catalog.Verb, method string, payload map[string]any) EncodedRequest {
	req := EncodedRequest{Verb: verb, Method: method}
	if verb == catalog.VerbGet {
		req.Query = queryValues(payload)
	} else {
		req.Body = payload
	}
	return req
}

// queryValues flattens a payload into query parameters. Scalars are
// formatted directly; composite values are sent as compact JSON.
func queryValues(payload map[string]any) url.Values {
	q := make(url.Values, len(payload))
	for k, v := range payload {
		switch val := v.(type) {
		case string:
			q.Set(k, val)
		case bool, float64, int, int64, json.Number:
			q.Set(k, fmt.Sprint(val))
		default:
			if raw, err := json.Marshal(val); err == nil {
				q.Set(k, string(raw))
			}
		}
	}
	return q
}

// checkField validates one argument value against its declared kind.
func checkField(f catalog.Field, val any) (any, error) {
	switch f.Kind {
	case catalog.KindString:
		s, ok := val.(string)
		if !ok {
			return nil, &Error{Kind: InvalidField, Field: f.Name, Reason: fmt.Sprintf("expected string, got %T", val)}
		}
		return s, nil
	case catalog.KindBool:
		b, ok := val.(bool)
		if !ok {
			return nil, &Error{Kind: InvalidField, Field: f.Name, Reason: fmt.Sprintf("expected boolean, got %T", val)}
		}
		return b, nil
	case catalog.KindNumber:
		switch val.(type) {
		case float64, int, int64, json.Number:
			return val, nil
		}
		return nil, &Error{Kind: InvalidField, Field: f.Name, Reason: fmt.Sprintf("expected number, got %T", val)}
	case catalog.KindObject:
		normalized, err := normalizeJSON(f.Name, val)
		if err != nil {
			return nil, err
		}
		if _, ok := normalized.(map[string]any); !ok {
			return nil, &Error{Kind: InvalidField, Field: f.Name, Reason: fmt.Sprintf("expected object, got %T", normalized)}
		}
		return normalized, nil
	default: // KindAny
		return normalizeJSON(f.Name, val)
	}
}

// normalizeJSON parses stringified JSON objects and arrays. LLM callers
// routinely pass composite arguments as serialized strings; a string that
// looks like JSON but does not parse is an InvalidField, not a passthrough.
func normalizeJSON(field string, val any) (any, error) {
	s, ok := val.(string)
	if !ok {
		return val, nil
	}
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return val, nil
	}
	var parsed any
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		return nil, &Error{Kind: InvalidField, Field: field, Reason: fmt.Sprintf("must be valid JSON when passed as a string: %v", err)}
	}
	return parsed, nil
}

// Decode parses an RPC response body. Empty bodies decode to an empty
// object; anything else must be a JSON object.
func Decode(body []byte) (map[string]any, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return map[string]any{}, nil
	}
	var result map[string]any
	if err := json.Unmarshal([]byte(trimmed), &result); err != nil {
		return nil, fmt.Errorf("invalid or non-object JSON response: %w", err)
	}
	return result, nil
}
