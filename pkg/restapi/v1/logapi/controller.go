/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logapi

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/sidetree-node/internal/logfields"
	"github.com/trustbloc/sidetree-node/pkg/restapi/resterr"
)

//go:generate mockgen -destination controller_mocks_test.go -package logapi_test -source=controller.go -mock_names router=Mockrouter

var logger = log.New("logapi")

type Controller struct{}

type router interface {
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

func NewController(router router) *Controller {
	c := &Controller{}

	router.POST("/loglevels", c.PostLogLevels)

	return c
}

// PostLogLevels updates log levels. The body is a spec such as "sidetree-writer=DEBUG:INFO".
// (POST /loglevels).
func (c *Controller) PostLogLevels(ctx echo.Context) error {
	logLevelBytes, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}

	logLevels := strings.TrimSpace(string(logLevelBytes))
	if logLevels == "" {
		return resterr.NewValidationError(resterr.InvalidValue, "requestBody", fmt.Errorf("empty log spec"))
	}

	if err := log.SetSpec(logLevels); err != nil {
		return resterr.NewValidationError(resterr.InvalidValue, "requestBody",
			fmt.Errorf("failed to set log spec: %w", err))
	}

	logger.Infoc(ctx.Request().Context(), "Log levels modified", logfields.WithUserLogLevel(logLevels))

	return ctx.NoContent(http.StatusOK)
}
