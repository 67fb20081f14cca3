/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package casapi

import (
	"fmt"
	"io"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/trustbloc/sidetree-node/pkg/cas"
	"github.com/trustbloc/sidetree-node/pkg/restapi/resterr"
	"github.com/trustbloc/sidetree-node/pkg/restapi/v1/util"
	"github.com/trustbloc/sidetree-node/pkg/sidetree"
)

const (
	channelParam = "channel"
	addressParam = "address"
	indexIDParam = "indexID"
	indexQuery   = "index"

	// maxContentSize bounds the body of a content write.
	maxContentSize = 1 << 20
)

type router interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

type contextRegistry interface {
	Get(name string) (*sidetree.Context, error)
}

// Config holds the controller dependencies.
type Config struct {
	Registry contextRegistry
	Tracer   trace.Tracer
}

// WriteResponse is returned by POST /cas/{channel}/content.
type WriteResponse struct {
	Address string `json:"address"`
}

// IndexResponse lists the addresses appended to an index ID.
type IndexResponse struct {
	IndexID   string   `json:"indexId"`
	Addresses []string `json:"addresses"`
}

// Controller serves the content addressable store of every registered channel.
type Controller struct {
	registry contextRegistry
	tracer   trace.Tracer
}

// NewController registers the /cas routes.
func NewController(router router, config *Config) *Controller {
	c := &Controller{
		registry: config.Registry,
		tracer:   config.Tracer,
	}

	if c.tracer == nil {
		c.tracer = trace.NewNoopTracerProvider().Tracer("")
	}

	router.POST("/cas/:channel/content", c.PostContent)
	router.GET("/cas/:channel/content/:address", c.GetContent)
	router.GET("/cas/:channel/index/:indexID", c.GetIndex)

	return c
}

// PostContent stores the raw request body and optionally appends its address to the "index" query ID.
// POST /cas/{channel}/content.
func (c *Controller) PostContent(ctx echo.Context) error {
	client, err := c.client(ctx)
	if err != nil {
		return err
	}

	content, err := io.ReadAll(io.LimitReader(ctx.Request().Body, maxContentSize+1))
	if err != nil {
		return resterr.NewValidationError(resterr.InvalidValue, "requestBody", err)
	}

	if len(content) > maxContentSize {
		return resterr.NewValidationError(resterr.InvalidValue, "requestBody",
			fmt.Errorf("content exceeds %d bytes", maxContentSize))
	}

	var opts []cas.PutOption

	indexID := ctx.QueryParam(indexQuery)
	if indexID != "" {
		opts = append(opts, cas.WithIndex(indexID))
	}

	spanCtx, span := c.tracer.Start(ctx.Request().Context(), "casapi.PostContent")
	defer span.End()

	span.SetAttributes(attribute.Int("content_size", len(content)), attribute.String("index_id", indexID))

	address, err := client.Write(spanCtx, content, opts...)
	if err != nil {
		return err
	}

	return util.WriteOutput(ctx)(&WriteResponse{Address: address}, nil)
}

// GetContent returns the content stored at address after verifying it. Content failing verification is
// never returned.
// GET /cas/{channel}/content/{address}.
func (c *Controller) GetContent(ctx echo.Context) error {
	address, err := util.PathParam(ctx, addressParam)
	if err != nil {
		return err
	}

	client, err := c.client(ctx)
	if err != nil {
		return err
	}

	spanCtx, span := c.tracer.Start(ctx.Request().Context(), "casapi.GetContent")
	defer span.End()

	span.SetAttributes(attribute.String("address", address))

	content, err := client.Read(spanCtx, address)

	return util.WriteRawOutputWithContentType(ctx)(content, echo.MIMEOctetStream, err)
}

// GetIndex returns the addresses appended to an index ID in write order.
// GET /cas/{channel}/index/{indexID}.
func (c *Controller) GetIndex(ctx echo.Context) error {
	indexID, err := util.PathParam(ctx, indexIDParam)
	if err != nil {
		return err
	}

	client, err := c.client(ctx)
	if err != nil {
		return err
	}

	spanCtx, span := c.tracer.Start(ctx.Request().Context(), "casapi.GetIndex")
	defer span.End()

	span.SetAttributes(attribute.String("index_id", indexID))

	addresses, err := client.ReadByIndex(spanCtx, indexID)
	if err != nil {
		return err
	}

	return util.WriteOutput(ctx)(&IndexResponse{IndexID: indexID, Addresses: addresses}, nil)
}

func (c *Controller) client(ctx echo.Context) (*cas.Client, error) {
	name, err := util.PathParam(ctx, channelParam)
	if err != nil {
		return nil, err
	}

	node, err := c.registry.Get(name)
	if err != nil {
		return nil, err
	}

	return node.CAS(), nil
}
