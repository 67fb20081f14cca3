/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package didapi

import (
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
	"github.com/trustbloc/logutil-go/pkg/log"
	"go.opentelemetry.io/otel/trace"

	"github.com/trustbloc/sidetree-node/internal/logfields"
	"github.com/trustbloc/sidetree-node/pkg/document"
	resolversvc "github.com/trustbloc/sidetree-node/pkg/observability/tracing/wrappers/resolver"
	writersvc "github.com/trustbloc/sidetree-node/pkg/observability/tracing/wrappers/writer"
	"github.com/trustbloc/sidetree-node/pkg/restapi/v1/util"
	"github.com/trustbloc/sidetree-node/pkg/sidetree"
)

var logger = log.New("didapi")

const (
	channelParam = "channel"
	didParam     = "did"
	indexIDParam = "indexID"
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

// Controller serves the DID operation and resolution endpoints of every registered channel.
type Controller struct {
	registry contextRegistry
	tracer   trace.Tracer
}

// NewController registers the /sidetree routes.
func NewController(router router, config *Config) *Controller {
	c := &Controller{
		registry: config.Registry,
		tracer:   config.Tracer,
	}

	if c.tracer == nil {
		c.tracer = trace.NewNoopTracerProvider().Tracer("")
	}

	router.POST("/sidetree/:channel/operations", c.PostOperation)
	router.GET("/sidetree/:channel/identifiers/:did", c.GetDocument)
	router.GET("/sidetree/:channel/identifiers/:did/state", c.GetDocumentState)
	router.GET("/sidetree/:channel/index/:indexID/versions", c.GetVersions)
	router.POST("/sidetree/:channel/batch", c.PostBatch)

	return c
}

// PostOperation submits a create, update, patch or deactivate operation.
// POST /sidetree/{channel}/operations.
func (c *Controller) PostOperation(ctx echo.Context) error {
	var req OperationRequest

	if err := util.ReadBody(ctx, &req); err != nil {
		return err
	}

	writer, err := c.writer(ctx)
	if err != nil {
		return err
	}

	op, err := writer.Submit(ctx.Request().Context(), toOperation(&req))
	if err != nil {
		return err
	}

	logger.Debugc(ctx.Request().Context(), "Operation accepted", logfields.WithDID(op.ID),
		logfields.WithOperationType(string(op.Type)), logfields.WithSequence(op.Sequence))

	return util.WriteOutput(ctx)(toOperationResponse(op), nil)
}

// GetDocument resolves the latest version of a DID document.
// GET /sidetree/{channel}/identifiers/{did}.
func (c *Controller) GetDocument(ctx echo.Context) error {
	did, err := util.PathParam(ctx, didParam)
	if err != nil {
		return err
	}

	resolver, err := c.resolver(ctx)
	if err != nil {
		return err
	}

	doc, err := resolver.ResolveByID(ctx.Request().Context(), did)
	if err != nil {
		return err
	}

	return util.WriteOutput(ctx)(toDocumentResponse(doc), nil)
}

// GetDocumentState returns the lifecycle state of a DID document.
// GET /sidetree/{channel}/identifiers/{did}/state.
func (c *Controller) GetDocumentState(ctx echo.Context) error {
	did, err := util.PathParam(ctx, didParam)
	if err != nil {
		return err
	}

	resolver, err := c.resolver(ctx)
	if err != nil {
		return err
	}

	state, err := resolver.DocumentState(ctx.Request().Context(), did)
	if err != nil {
		return err
	}

	return util.WriteOutput(ctx)(&StateResponse{ID: did, State: state}, nil)
}

// GetVersions returns every anchored version for an index ID.
// GET /sidetree/{channel}/index/{indexID}/versions.
func (c *Controller) GetVersions(ctx echo.Context) error {
	indexID, err := util.PathParam(ctx, indexIDParam)
	if err != nil {
		return err
	}

	resolver, err := c.resolver(ctx)
	if err != nil {
		return err
	}

	docs, err := resolver.ResolveVersionsByIndex(ctx.Request().Context(), indexID)
	if err != nil {
		return err
	}

	return util.WriteOutput(ctx)(&VersionsResponse{
		IndexID: indexID,
		Versions: lo.Map(docs, func(doc *document.Document, _ int) *DocumentResponse {
			return toDocumentResponse(doc)
		}),
	}, nil)
}

// PostBatch flushes the pending operations of the channel.
// POST /sidetree/{channel}/batch.
func (c *Controller) PostBatch(ctx echo.Context) error {
	writer, err := c.writer(ctx)
	if err != nil {
		return err
	}

	anchorAddress, err := writer.Flush(ctx.Request().Context())
	if err != nil {
		return err
	}

	return util.WriteOutput(ctx)(&BatchResponse{AnchorAddress: anchorAddress}, nil)
}

func (c *Controller) node(ctx echo.Context) (*sidetree.Context, error) {
	name, err := util.PathParam(ctx, channelParam)
	if err != nil {
		return nil, err
	}

	return c.registry.Get(name)
}

func (c *Controller) writer(ctx echo.Context) (writersvc.Service, error) {
	node, err := c.node(ctx)
	if err != nil {
		return nil, err
	}

	return writersvc.Wrap(node.Writer(), c.tracer), nil
}

func (c *Controller) resolver(ctx echo.Context) (resolversvc.Service, error) {
	node, err := c.node(ctx)
	if err != nil {
		return nil, err
	}

	return resolversvc.Wrap(node.Resolver(), c.tracer), nil
}
