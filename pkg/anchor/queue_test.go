/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anchor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trustbloc/sidetree-node/pkg/document"
)

func TestMemQueue(t *testing.T) {
	ctx := context.Background()
	q := NewMemQueue()

	ops, err := q.Peek(ctx, 5)
	require.NoError(t, err)
	require.Empty(t, ops)

	for i, id := range []string{"did:example:1", "did:example:2", "did:example:3"} {
		n, err := q.Add(ctx, &document.Operation{ID: id, Content: []byte("c")})
		require.NoError(t, err)
		require.Equal(t, i+1, n)
	}

	ops, err = q.Peek(ctx, 2)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	require.Equal(t, "did:example:1", ops[0].ID)

	ops[0].Content[0] = 'x'

	all, err := q.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "c", string(all[0].Content), "queued operations are copied")

	require.NoError(t, q.Remove(ctx, 2))

	n, err := q.Len(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	ops, err = q.Peek(ctx, 10)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	require.Equal(t, "did:example:3", ops[0].ID)

	require.NoError(t, q.Remove(ctx, 10))
	require.NoError(t, q.Remove(ctx, 0))

	n, err = q.Len(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestMemQueue_Replace(t *testing.T) {
	ctx := context.Background()
	q := NewMemQueue()

	for _, id := range []string{"did:example:1", "did:example:2", "did:example:3", "did:example:4"} {
		_, err := q.Add(ctx, &document.Operation{ID: id})
		require.NoError(t, err)
	}

	require.NoError(t, q.Replace(ctx, 3, []*document.Operation{{ID: "did:example:2"}}))

	ops, err := q.List(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	require.Equal(t, "did:example:2", ops[0].ID)
	require.Equal(t, "did:example:4", ops[1].ID)

	require.NoError(t, q.Replace(ctx, 10, nil))

	n, err := q.Len(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}
