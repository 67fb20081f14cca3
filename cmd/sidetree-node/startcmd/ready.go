/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"net/http"
	"sync/atomic"

	"github.com/labstack/echo/v4"
)

const (
	readinessEndpoint = "/ready"
)

// readiness reports 200 once every channel context has been started.
type readiness struct {
	isReady atomic.Bool
}

func newReadinessController(e *echo.Echo) *readiness {
	r := &readiness{}

	e.GET(readinessEndpoint, func(c echo.Context) error {
		if r.isReady.Load() {
			return c.NoContent(http.StatusOK)
		}

		return c.NoContent(http.StatusServiceUnavailable)
	})

	return r
}

func (r *readiness) Ready(isReady bool) {
	r.isReady.Store(isReady)
}
