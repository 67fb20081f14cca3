/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package casstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/stretchr/testify/require"

	"github.com/trustbloc/sidetree-node/pkg/cas"
	"github.com/trustbloc/sidetree-node/pkg/document"
	"github.com/trustbloc/sidetree-node/pkg/storage/ariesstore/casstore"
)

func TestStore(t *testing.T) {
	store, err := casstore.New(mem.NewProvider(), "test")
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("get(put(c)) == c", func(t *testing.T) {
		client := cas.New(store)

		address, err := client.Write(ctx, []byte("content"))
		require.NoError(t, err)

		content, err := client.Read(ctx, address)
		require.NoError(t, err)
		require.Equal(t, "content", string(content))
	})

	t.Run("index keeps every version in write order", func(t *testing.T) {
		client := cas.New(store)

		a1, err := client.Write(ctx, []byte("v1"), cas.WithIndex("doc1"))
		require.NoError(t, err)

		a2, err := client.Write(ctx, []byte("v2"), cas.WithIndex("doc1"))
		require.NoError(t, err)

		a3, err := client.Write(ctx, []byte("v1"), cas.WithIndex("doc1"))
		require.NoError(t, err)
		require.Equal(t, a1, a3)

		addresses, err := client.ReadByIndex(ctx, "doc1")
		require.NoError(t, err)
		require.Equal(t, []string{a1, a2, a1}, addresses)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		require.ErrorIs(t, err, document.ErrNotFound)

		_, err = store.GetByIndex(ctx, "missing")
		require.ErrorIs(t, err, document.ErrNotFound)
	})

	t.Run("open store error", func(t *testing.T) {
		_, err := casstore.New(&failingProvider{Provider: mem.NewProvider()}, "test")
		require.ErrorContains(t, err, "injected open error")
	})
}

type failingProvider struct {
	storage.Provider
}

func (p *failingProvider) OpenStore(string) (storage.Store, error) {
	return nil, errors.New("injected open error")
}
