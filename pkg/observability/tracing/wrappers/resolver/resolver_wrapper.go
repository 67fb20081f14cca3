/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination gomocks_test.go -package resolver . Service

package resolver

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/trustbloc/sidetree-node/pkg/document"
)

// Service is the part of the resolver exposed over REST.
type Service interface {
	ResolveByID(ctx context.Context, did string) (*document.Document, error)
	ResolveVersionsByIndex(ctx context.Context, indexID string) ([]*document.Document, error)
	DocumentState(ctx context.Context, did string) (document.State, error)
}

var _ Service = (*Wrapper)(nil)

type Wrapper struct {
	svc    Service
	tracer trace.Tracer
}

func Wrap(svc Service, tracer trace.Tracer) *Wrapper {
	return &Wrapper{svc: svc, tracer: tracer}
}

func (w *Wrapper) ResolveByID(ctx context.Context, did string) (*document.Document, error) {
	ctx, span := w.tracer.Start(ctx, "resolver.ResolveByID")
	defer span.End()

	span.SetAttributes(attribute.String("did", did))

	doc, err := w.svc.ResolveByID(ctx, did)
	if err != nil {
		span.RecordError(err)

		return nil, err
	}

	span.SetAttributes(attribute.Int("version", doc.Version))

	return doc, nil
}

func (w *Wrapper) ResolveVersionsByIndex(ctx context.Context, indexID string) ([]*document.Document, error) {
	ctx, span := w.tracer.Start(ctx, "resolver.ResolveVersionsByIndex")
	defer span.End()

	span.SetAttributes(attribute.String("index_id", indexID))

	versions, err := w.svc.ResolveVersionsByIndex(ctx, indexID)
	if err != nil {
		span.RecordError(err)

		return nil, err
	}

	span.SetAttributes(attribute.Int("versions", len(versions)))

	return versions, nil
}

func (w *Wrapper) DocumentState(ctx context.Context, did string) (document.State, error) {
	ctx, span := w.tracer.Start(ctx, "resolver.DocumentState")
	defer span.End()

	span.SetAttributes(attribute.String("did", did))

	return w.svc.DocumentState(ctx, did)
}
