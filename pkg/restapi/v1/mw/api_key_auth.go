/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mw

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trustbloc/sidetree-node/pkg/restapi/resterr"
)

const header = "X-API-Key"

// Paths served without an API key.
var publicPaths = []string{"/healthcheck", "/ready", "/version", "/metrics"} //nolint:gochecknoglobals

// APIKeyAuth returns a middleware that authenticates requests using the API key from X-API-Key header.
// An empty key disables the check.
func APIKeyAuth(apiKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if apiKey == "" || isPublic(c.Request().URL.Path) {
				return next(c)
			}

			apiKeyHeader := c.Request().Header.Get(header)
			if subtle.ConstantTimeCompare([]byte(apiKeyHeader), []byte(apiKey)) != 1 {
				return resterr.NewUnauthorizedError(errors.New("missing or invalid API key"))
			}

			return next(c)
		}
	}
}

func isPublic(path string) bool {
	path = strings.ToLower(path)

	for _, p := range publicPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}

	return false
}
