/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package healthcheck

import (
	"net/http"

	"github.com/alexliesenfeld/health"
	"github.com/labstack/echo/v4"

	healthchecks "github.com/trustbloc/sidetree-node/pkg/observability/health"
)

type router interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// Controller for health check API.
type Controller struct {
	handler http.Handler
}

// NewController registers GET /healthcheck. The response lists every check with its response times.
func NewController(router router, checks []health.Check) *Controller {
	c := &Controller{handler: healthchecks.NewHandler(checks)}

	router.GET("/healthcheck", c.GetHealthcheck)

	return c
}

// GetHealthcheck returns the health check status.
// GET /healthcheck.
func (c *Controller) GetHealthcheck(ctx echo.Context) error {
	c.handler.ServeHTTP(ctx.Response(), ctx.Request())

	return nil
}
