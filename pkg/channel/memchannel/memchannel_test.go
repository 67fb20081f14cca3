/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package memchannel

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChannel(t *testing.T) {
	ctx := context.Background()
	c := New()

	txns, err := c.Read(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, txns)

	txn, err := c.Write(ctx, "anchor1")
	require.NoError(t, err)
	require.Equal(t, uint64(1), txn.Number)
	require.Equal(t, "anchor1", txn.AnchorAddress)

	txn, err = c.Write(ctx, "anchor2")
	require.NoError(t, err)
	require.Equal(t, uint64(2), txn.Number)

	txns, err = c.Read(ctx, 0)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	require.Equal(t, "anchor1", txns[0].AnchorAddress)
	require.Equal(t, "anchor2", txns[1].AnchorAddress)

	txns, err = c.Read(ctx, 1)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	require.Equal(t, uint64(2), txns[0].Number)

	txns, err = c.Read(ctx, 5)
	require.NoError(t, err)
	require.Empty(t, txns)

	t.Run("returned txns are copies", func(t *testing.T) {
		txns, err := c.Read(ctx, 0)
		require.NoError(t, err)

		txns[0].AnchorAddress = "modified"

		txns, err = c.Read(ctx, 0)
		require.NoError(t, err)
		require.Equal(t, "anchor1", txns[0].AnchorAddress)
	})
}

func TestChannel_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	c := New()

	const n = 50

	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			_, err := c.Write(ctx, fmt.Sprintf("anchor%d", i))
			require.NoError(t, err)
		}(i)
	}

	wg.Wait()

	txns, err := c.Read(ctx, 0)
	require.NoError(t, err)
	require.Len(t, txns, n)

	for i, txn := range txns {
		require.Equal(t, uint64(i+1), txn.Number)
	}
}
