/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package casstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustbloc/sidetree-node/pkg/cas"
	"github.com/trustbloc/sidetree-node/pkg/document"
)

const (
	bucket  = "test-bucket"
	channel = "did:sidetree"
)

type mockS3Uploader struct {
	t      *testing.T
	m      map[string][]byte
	putErr error
	getErr error
}

func (m *mockS3Uploader) PutObject(
	_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}

	assert.Equal(m.t, contentType, *input.ContentType)
	assert.Equal(m.t, bucket, *input.Bucket)

	b, err := io.ReadAll(input.Body)
	assert.NoError(m.t, err)

	m.m[*input.Key] = b

	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3Uploader) GetObject(
	_ context.Context, input *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}

	assert.Equal(m.t, bucket, *input.Bucket)

	b, ok := m.m[*input.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}

	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

type mockIndexStore struct {
	m         map[string][]string
	appendErr error
}

func (m *mockIndexStore) AppendToIndex(_ context.Context, indexID, address string) error {
	if m.appendErr != nil {
		return m.appendErr
	}

	m.m[indexID] = append(m.m[indexID], address)

	return nil
}

func (m *mockIndexStore) GetByIndex(_ context.Context, indexID string) ([]string, error) {
	addresses, ok := m.m[indexID]
	if !ok {
		return nil, document.ErrNotFound
	}

	return addresses, nil
}

func newStore(t *testing.T) (*Store, *mockS3Uploader, *mockIndexStore) {
	t.Helper()

	uploader := &mockS3Uploader{t: t, m: map[string][]byte{}}
	index := &mockIndexStore{m: map[string][]string{}}

	return NewStore(uploader, index, bucket, channel), uploader, index
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		store, uploader, _ := newStore(t)
		client := cas.New(store)

		address, err := client.Write(ctx, []byte("content"), cas.WithIndex("doc1"))
		require.NoError(t, err)
		require.Contains(t, uploader.m, channel+"/"+address)

		content, err := client.Read(ctx, address)
		require.NoError(t, err)
		require.Equal(t, "content", string(content))

		addresses, err := client.ReadByIndex(ctx, "doc1")
		require.NoError(t, err)
		require.Equal(t, []string{address}, addresses)
	})

	t.Run("not found", func(t *testing.T) {
		store, _, _ := newStore(t)

		_, err := store.Get(ctx, "missing")
		require.ErrorIs(t, err, document.ErrNotFound)

		_, err = store.GetByIndex(ctx, "missing")
		require.ErrorIs(t, err, document.ErrNotFound)
	})

	t.Run("access denied is not found", func(t *testing.T) {
		store, uploader, _ := newStore(t)
		uploader.getErr = errors.New("api error AccessDenied: Access Denied")

		_, err := store.Get(ctx, "missing")
		require.ErrorIs(t, err, document.ErrNotFound)
	})

	t.Run("get error", func(t *testing.T) {
		store, uploader, _ := newStore(t)
		uploader.getErr = errors.New("injected get error")

		_, err := store.Get(ctx, "addr")
		require.ErrorContains(t, err, "injected get error")
	})

	t.Run("put error", func(t *testing.T) {
		store, uploader, _ := newStore(t)
		uploader.putErr = errors.New("injected put error")

		err := store.Put(ctx, "addr", []byte("content"))
		require.ErrorContains(t, err, "failed to upload content")
	})

	t.Run("index error", func(t *testing.T) {
		store, _, index := newStore(t)
		index.appendErr = errors.New("injected index error")

		err := store.Put(ctx, "addr", []byte("content"), cas.WithIndex("doc1"))
		require.ErrorContains(t, err, "failed to append to index")
	})
}
