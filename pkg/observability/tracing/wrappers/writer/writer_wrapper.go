/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination gomocks_test.go -package writer . Service

package writer

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/trustbloc/sidetree-node/pkg/document"
	"github.com/trustbloc/sidetree-node/pkg/observability/tracing/attributeutil"
)

// Service is the part of the anchor writer exposed over REST.
type Service interface {
	Submit(ctx context.Context, op *document.Operation) (*document.Operation, error)
	Flush(ctx context.Context) (string, error)
	IsPending(ctx context.Context, id string) (bool, error)
}

var _ Service = (*Wrapper)(nil)

type Wrapper struct {
	svc    Service
	tracer trace.Tracer
}

func Wrap(svc Service, tracer trace.Tracer) *Wrapper {
	return &Wrapper{svc: svc, tracer: tracer}
}

func (w *Wrapper) Submit(ctx context.Context, op *document.Operation) (*document.Operation, error) {
	ctx, span := w.tracer.Start(ctx, "writer.Submit")
	defer span.End()

	if op != nil {
		span.SetAttributes(attribute.String("type", string(op.Type)))
		span.SetAttributes(attribute.String("did", op.ID))
		span.SetAttributes(attributeutil.JSON("operation", op,
			attributeutil.WithRedacted("content"), attributeutil.WithRedacted("patch")))
	}

	res, err := w.svc.Submit(ctx, op)
	if err != nil {
		span.RecordError(err)

		return nil, err
	}

	span.SetAttributes(attribute.Int64("sequence", int64(res.Sequence)))

	return res, nil
}

func (w *Wrapper) Flush(ctx context.Context) (string, error) {
	ctx, span := w.tracer.Start(ctx, "writer.Flush")
	defer span.End()

	anchorAddress, err := w.svc.Flush(ctx)
	if err != nil {
		span.RecordError(err)

		return "", err
	}

	span.SetAttributes(attribute.String("anchor_address", anchorAddress))

	return anchorAddress, nil
}

func (w *Wrapper) IsPending(ctx context.Context, id string) (bool, error) {
	ctx, span := w.tracer.Start(ctx, "writer.IsPending")
	defer span.End()

	span.SetAttributes(attribute.String("did", id))

	return w.svc.IsPending(ctx, id)
}
