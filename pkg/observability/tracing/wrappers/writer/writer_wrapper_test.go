/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package writer

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/trustbloc/sidetree-node/pkg/document"
)

const testDID = "did:example:1"

func TestWrapper_Submit(t *testing.T) {
	ctrl := gomock.NewController(t)

	op := &document.Operation{Type: document.OperationTypeCreate, ID: testDID, Content: []byte(`{}`)}

	svc := NewMockService(ctrl)
	svc.EXPECT().Submit(gomock.Any(), op).Return(&document.Operation{ID: testDID, Sequence: 1}, nil).Times(1)

	w := Wrap(svc, trace.NewNoopTracerProvider().Tracer(""))

	res, err := w.Submit(context.Background(), op)
	require.NoError(t, err)
	require.Equal(t, uint64(1), res.Sequence)
}

func TestWrapper_SubmitError(t *testing.T) {
	ctrl := gomock.NewController(t)

	svc := NewMockService(ctrl)
	svc.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(nil, document.ErrNotFound).Times(1)

	w := Wrap(svc, trace.NewNoopTracerProvider().Tracer(""))

	_, err := w.Submit(context.Background(), &document.Operation{Type: document.OperationTypeUpdate, ID: testDID})
	require.ErrorIs(t, err, document.ErrNotFound)
}

func TestWrapper_Flush(t *testing.T) {
	ctrl := gomock.NewController(t)

	svc := NewMockService(ctrl)
	svc.EXPECT().Flush(gomock.Any()).Return("anchor", nil).Times(1)
	svc.EXPECT().Flush(gomock.Any()).Return("", errors.New("flush failed")).Times(1)

	w := Wrap(svc, trace.NewNoopTracerProvider().Tracer(""))

	anchorAddress, err := w.Flush(context.Background())
	require.NoError(t, err)
	require.Equal(t, "anchor", anchorAddress)

	_, err = w.Flush(context.Background())
	require.EqualError(t, err, "flush failed")
}

func TestWrapper_IsPending(t *testing.T) {
	ctrl := gomock.NewController(t)

	svc := NewMockService(ctrl)
	svc.EXPECT().IsPending(gomock.Any(), testDID).Return(true, nil).Times(1)

	w := Wrap(svc, trace.NewNoopTracerProvider().Tracer(""))

	pending, err := w.IsPending(context.Background(), testDID)
	require.NoError(t, err)
	require.True(t, pending)
}
