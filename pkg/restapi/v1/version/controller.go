/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package version

//go:generate mockgen -destination controller_mocks_test.go -package version_test -source=controller.go -mock_names router=Mockrouter

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type router interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// Config holds the versions reported by the node.
type Config struct {
	Version       string
	ServerVersion string
	Channels      []string
}

// Controller serves the build and system versions.
type Controller struct {
	version       string
	serverVersion string
	channels      []string
}

type versionResponse struct {
	Version string `json:"version"`
}

type serverVersionResponse struct {
	Version  string   `json:"version"`
	Channels []string `json:"channels,omitempty"`
}

func NewController(router router, cfg Config) *Controller {
	c := &Controller{
		version:       cfg.Version,
		serverVersion: cfg.ServerVersion,
		channels:      cfg.Channels,
	}

	router.GET("/version", c.Version)
	router.GET("/version/system", c.ServerVersion)

	return c
}

// Version returns the build version.
// GET /version.
func (c *Controller) Version(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, versionResponse{Version: c.version})
}

// ServerVersion returns the version of the deployment and the channels it serves.
// GET /version/system.
func (c *Controller) ServerVersion(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, serverVersionResponse{Version: c.serverVersion, Channels: c.channels})
}
