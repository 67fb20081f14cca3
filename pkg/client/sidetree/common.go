/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sidetree

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
)

func sendJSON[T any, V any](ctx context.Context, c *Client, method, url string, request *T) (*V, error) {
	var (
		reqBody     []byte
		contentType string
	)

	if request != nil {
		b, err := json.Marshal(request)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}

		reqBody = b
		contentType = "application/json"
	}

	body, err := c.send(ctx, method, url, contentType, reqBody)
	if err != nil {
		return nil, err
	}

	return decode[V](body)
}

func (c *Client) send(ctx context.Context, method, url, contentType string, reqBody []byte) ([]byte, error) {
	var rawBody interface{}
	if reqBody != nil {
		rawBody = reqBody
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, rawBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Debug("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		httpErr := &HTTPError{StatusCode: resp.StatusCode}

		var errResp struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}

		if json.Unmarshal(body, &errResp) == nil {
			httpErr.Code = errResp.Code
			httpErr.Message = errResp.Message
		} else {
			httpErr.Message = string(body)
		}

		return nil, httpErr
	}

	return body, nil
}

func decode[V any](body []byte) (*V, error) {
	var v V

	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &v, nil
}
