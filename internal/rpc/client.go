// Package rpc owns the authenticated HTTP client for the DataLens RPC
// endpoint: header injection, the single outbound call per invocation, and
// failure classification. It never retries; retry policy belongs to callers.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/datalens-tools/datalens-mcp/internal/codec"
	"github.com/datalens-tools/datalens-mcp/internal/common"
)

// maxResponseSize caps the response body to prevent OOM from unexpectedly
// large responses.
const maxResponseSize = 50 << 20 // 50MB

// Credentials identify the calling organization. Sourced from the
// environment; never cached across calls.
type Credentials struct {
	OrgID string
	Token string
}

// CredentialsFunc supplies credentials at call time. Re-reading the source on
// every call means externally rotated tokens take effect without a restart.
type CredentialsFunc func() Credentials

// CredentialsFromEnv reads credentials from the environment. Token
// precedence: DATALENS_IAM_TOKEN, then YC_IAM_TOKEN, then
// DATALENS_SUBJECT_TOKEN.
func CredentialsFromEnv() Credentials {
	token := common.EnvNonEmpty("DATALENS_IAM_TOKEN")
	if token == "" {
		token = common.EnvNonEmpty("YC_IAM_TOKEN")
	}
	if token == "" {
		token = common.EnvNonEmpty("DATALENS_SUBJECT_TOKEN")
	}
	return Credentials{
		OrgID: common.EnvNonEmpty("DATALENS_ORG_ID"),
		Token: token,
	}
}

// Client performs authenticated calls against the DataLens RPC endpoint.
// Safe for concurrent use; the underlying http.Client pools connections.
type Client struct {
	baseURL    string
	apiVersion string
	httpClient *http.Client
	creds      CredentialsFunc
	logger     *common.Logger
}

// NewClient creates a client for the configured endpoint. A nil creds falls
// back to CredentialsFromEnv.
func NewClient(api common.APIConfig, logger *common.Logger, creds CredentialsFunc) *Client {
	if creds == nil {
		creds = CredentialsFromEnv
	}
	baseURL := api.BaseURL
	if baseURL == "" {
		baseURL = common.DefaultBaseURL
	}
	apiVersion := api.APIVersion
	if apiVersion == "" {
		apiVersion = common.DefaultAPIVersion
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiVersion: apiVersion,
		httpClient: &http.Client{Timeout: api.Timeout()},
		creds:      creds,
		logger:     logger,
	}
}

// BaseURL returns the configured endpoint, for logging and tests.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Call performs one RPC request and returns the normalized outcome. Missing
// credentials are an unauthorized failure raised locally, before any network
// traffic.
func (c *Client) Call(ctx context.Context, req codec.EncodedRequest) Outcome {
	creds := c.creds()
	if creds.OrgID == "" {
		return failure(FailureUnauthorized, 0, "DATALENS_ORG_ID environment variable is required", nil)
	}
	if creds.Token == "" {
		return failure(FailureUnauthorized, 0, "DATALENS_IAM_TOKEN (or YC_IAM_TOKEN) environment variable is required", nil)
	}

	url := c.baseURL + "/rpc/" + req.Method
	if len(req.Query) > 0 {
		url += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return failure(FailureBadRequest, 0, fmt.Sprintf("failed to marshal request body: %v", err), nil)
		}
		bodyReader = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(req.Verb), url, bodyReader)
	if err != nil {
		return failure(FailureTransport, 0, fmt.Sprintf("failed to build request: %v", err), nil)
	}
	c.applyHeaders(httpReq, creds)

	c.logger.Debug().Str("method", req.Method).Str("url", url).Msg("rpc request")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		c.logger.Error().Str("method", req.Method).Int64("duration_ms", duration.Milliseconds()).Str("error", err.Error()).Msg("rpc request failed")
		return failure(FailureTransport, 0, fmt.Sprintf("failed to reach DataLens API: %v", err), nil)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return failure(FailureTransport, resp.StatusCode, fmt.Sprintf("failed to read response: %v", err), nil)
	}

	c.logger.Debug().Str("method", req.Method).Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Msg("rpc response")

	if resp.StatusCode >= 400 {
		kind := classifyStatus(resp.StatusCode)
		detail := truncate(strings.TrimSpace(string(body)), maxDetailBytes)
		if detail == "" {
			detail = http.StatusText(resp.StatusCode)
		}
		return failure(kind, resp.StatusCode, detail, parseResponseBody(body))
	}

	return Outcome{StatusCode: resp.StatusCode, Body: body}
}

// applyHeaders attaches the org, API-version, and auth headers. The token is
// sent under both the platform-native header and the legacy auth header: the
// upstream API has accepted either across revisions, and sending both avoids
// version detection.
func (c *Client) applyHeaders(req *http.Request, creds Credentials) {
	req.Header.Set("Accept", "application/json")
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("x-dl-api-version", c.apiVersion)
	req.Header.Set("x-dl-org-id", creds.OrgID)
	req.Header.Set("x-yacloud-subjecttoken", creds.Token)

	legacy := creds.Token
	if !strings.HasPrefix(legacy, "OAuth ") {
		legacy = "OAuth " + legacy
	}
	req.Header.Set("x-dl-auth-token", legacy)
}

func failure(kind FailureKind, status int, detail string, response any) Outcome {
	return Outcome{
		StatusCode: status,
		Failure:    &Failure{Kind: kind, StatusCode: status, Detail: detail, Response: response},
	}
}
