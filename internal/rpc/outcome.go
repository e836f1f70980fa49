package rpc

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// FailureKind classifies one failed RPC attempt. The dispatcher reports this
// taxonomy upward instead of raw HTTP status codes so calling agents get
// categories they can act on.
type FailureKind string

const (
	FailureUnauthorized FailureKind = "unauthorized"
	FailureNotFound     FailureKind = "not_found"
	FailureRateLimited  FailureKind = "rate_limited"
	FailureBadRequest   FailureKind = "bad_request"
	FailureRemote       FailureKind = "remote_error"
	FailureTransport    FailureKind = "transport"
	FailureProtocol     FailureKind = "protocol"
)

// Failure describes one classified RPC failure. StatusCode is zero when the
// failure happened before any HTTP status was obtained.
type Failure struct {
	Kind       FailureKind
	StatusCode int
	Detail     string
	// Response carries the remote-supplied body verbatim: parsed JSON when
	// the body is JSON, truncated raw text otherwise.
	Response any
}

func (f *Failure) Error() string {
	if f.StatusCode > 0 {
		return fmt.Sprintf("%s: upstream returned %d: %s", f.Kind, f.StatusCode, f.Detail)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Detail)
}

// Outcome is the tagged result of one RPC attempt: a success body with its
// status code, or a classified Failure. Produced once per call, consumed once.
type Outcome struct {
	StatusCode int
	Body       []byte
	Failure    *Failure
}

// OK reports whether the call succeeded (2xx with a readable body).
func (o Outcome) OK() bool {
	return o.Failure == nil
}

// classifyStatus maps an HTTP error status to a failure kind. Statuses the
// taxonomy does not name individually (409, 410, ...) are caller errors and
// fold into bad_request.
func classifyStatus(status int) FailureKind {
	switch {
	case status == 401 || status == 403:
		return FailureUnauthorized
	case status == 404:
		return FailureNotFound
	case status == 429:
		return FailureRateLimited
	case status >= 500:
		return FailureRemote
	default:
		return FailureBadRequest
	}
}

// parseResponseBody returns the body as parsed JSON when possible, otherwise
// as truncated raw text.
func parseResponseBody(body []byte) any {
	var parsed any
	if err := json.Unmarshal(body, &parsed); err == nil {
		return parsed
	}
	return truncate(string(body), maxDetailBytes)
}

const maxDetailBytes = 2000

// truncate shortens a string to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	end := max
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	return s[:end] + "...(truncated)"
}
