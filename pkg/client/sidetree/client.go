/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sidetree

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/sidetree-node/pkg/restapi/v1/casapi"
	"github.com/trustbloc/sidetree-node/pkg/restapi/v1/didapi"
)

var logger = log.New("sidetree-client")

const (
	defaultRetryMax     = 3
	defaultRetryWaitMin = 100 * time.Millisecond
	defaultRetryWaitMax = 2 * time.Second

	apiKeyHeader = "X-API-Key"
)

// Client calls the REST API of a sidetree node for a single channel.
type Client struct {
	baseURL    string
	channel    string
	apiKey     string
	httpClient *retryablehttp.Client
}

// Opt is a client option.
type Opt func(c *Client)

// WithHTTPClient sets the underlying HTTP client, e.g. one with a TLS configuration.
func WithHTTPClient(httpClient *http.Client) Opt {
	return func(c *Client) {
		c.httpClient.HTTPClient = httpClient
	}
}

// WithRetry sets the maximum number of retries and the minimum wait between them.
func WithRetry(retryMax int, waitMin time.Duration) Opt {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin

		if c.httpClient.RetryWaitMax < waitMin {
			c.httpClient.RetryWaitMax = waitMin
		}
	}
}

// WithAPIKey sets the X-API-Key header on every request.
func WithAPIKey(apiKey string) Opt {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

// New returns a client for the given node URL and channel.
func New(baseURL, channel string, opts ...Opt) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.Logger = nil
	httpClient.RetryMax = defaultRetryMax
	httpClient.RetryWaitMin = defaultRetryWaitMin
	httpClient.RetryWaitMax = defaultRetryWaitMax
	httpClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	httpClient.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt > 0 {
			logger.Debugc(req.Context(), "Retrying request", log.WithURL(req.URL.String()))
		}
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		channel:    channel,
		httpClient: httpClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SubmitOperation submits a create, update, patch or deactivate operation.
func (c *Client) SubmitOperation(ctx context.Context,
	req *didapi.OperationRequest) (*didapi.OperationResponse, error) {
	return sendJSON[didapi.OperationRequest, didapi.OperationResponse](ctx, c, http.MethodPost,
		c.sidetreeURL("operations"), req)
}

// Resolve returns the latest version of a DID document.
func (c *Client) Resolve(ctx context.Context, did string) (*didapi.DocumentResponse, error) {
	return sendJSON[any, didapi.DocumentResponse](ctx, c, http.MethodGet,
		c.sidetreeURL("identifiers", did), nil)
}

// State returns the lifecycle state of a DID document.
func (c *Client) State(ctx context.Context, did string) (*didapi.StateResponse, error) {
	return sendJSON[any, didapi.StateResponse](ctx, c, http.MethodGet,
		c.sidetreeURL("identifiers", did, "state"), nil)
}

// ResolveVersions returns every anchored version for an index ID.
func (c *Client) ResolveVersions(ctx context.Context, indexID string) ([]*didapi.DocumentResponse, error) {
	resp, err := sendJSON[any, didapi.VersionsResponse](ctx, c, http.MethodGet,
		c.sidetreeURL("index", indexID, "versions"), nil)
	if err != nil {
		return nil, err
	}

	return resp.Versions, nil
}

// WriteBatch flushes the pending operations and returns the anchor address, empty when nothing was pending.
func (c *Client) WriteBatch(ctx context.Context) (string, error) {
	resp, err := sendJSON[any, didapi.BatchResponse](ctx, c, http.MethodPost, c.sidetreeURL("batch"), nil)
	if err != nil {
		return "", err
	}

	return resp.AnchorAddress, nil
}

// WriteContent stores content and returns its address. A non-empty indexID appends the address to that
// index.
func (c *Client) WriteContent(ctx context.Context, content []byte, indexID string) (string, error) {
	u := c.casURL("content")
	if indexID != "" {
		u += "?index=" + url.QueryEscape(indexID)
	}

	body, err := c.send(ctx, http.MethodPost, u, "application/octet-stream", content)
	if err != nil {
		return "", err
	}

	resp, err := decode[casapi.WriteResponse](body)
	if err != nil {
		return "", err
	}

	return resp.Address, nil
}

// ReadContent returns the verified content stored at address.
func (c *Client) ReadContent(ctx context.Context, address string) ([]byte, error) {
	return c.send(ctx, http.MethodGet, c.casURL("content", address), "", nil)
}

// QueryIndex returns the addresses appended to an index ID.
func (c *Client) QueryIndex(ctx context.Context, indexID string) ([]string, error) {
	resp, err := sendJSON[any, casapi.IndexResponse](ctx, c, http.MethodGet, c.casURL("index", indexID), nil)
	if err != nil {
		return nil, err
	}

	return resp.Addresses, nil
}

func (c *Client) sidetreeURL(elems ...string) string {
	return c.url("sidetree", elems...)
}

func (c *Client) casURL(elems ...string) string {
	return c.url("cas", elems...)
}

func (c *Client) url(api string, elems ...string) string {
	parts := []string{c.baseURL, api, url.PathEscape(c.channel)}

	for _, e := range elems {
		parts = append(parts, url.PathEscape(e))
	}

	return strings.Join(parts, "/")
}

// HTTPError is returned for a non-200 response.
type HTTPError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("status %d: %s: %s", e.StatusCode, e.Code, e.Message)
}
