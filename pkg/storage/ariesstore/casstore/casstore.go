/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package casstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/hyperledger/aries-framework-go/spi/storage"

	"github.com/trustbloc/sidetree-node/pkg/cas"
	"github.com/trustbloc/sidetree-node/pkg/document"
)

const (
	contentStorePrefix = "dcas_"
	indexStorePrefix   = "dcas_index_"
)

// Store keeps content and indexes in an aries storage provider.
type Store struct {
	content storage.Store
	index   storage.Store

	// serializes the read-modify-write of index entries
	indexMutex sync.Mutex
}

// New opens the content and index stores for channel.
func New(provider storage.Provider, channel string) (*Store, error) {
	content, err := provider.OpenStore(contentStorePrefix + channel)
	if err != nil {
		return nil, fmt.Errorf("open content store: %w", err)
	}

	index, err := provider.OpenStore(indexStorePrefix + channel)
	if err != nil {
		return nil, fmt.Errorf("open index store: %w", err)
	}

	return &Store{
		content: content,
		index:   index,
	}, nil
}

// Put stores content under address and appends the address to the index, if given.
func (s *Store) Put(ctx context.Context, address string, content []byte, opts ...cas.PutOption) error {
	if err := s.content.Put(address, content); err != nil {
		return fmt.Errorf("put content: %w", err)
	}

	indexID := cas.GetPutOptions(opts...).IndexID
	if indexID == "" {
		return nil
	}

	return s.AppendToIndex(ctx, indexID, address)
}

// AppendToIndex appends address to the addresses stored under indexID.
func (s *Store) AppendToIndex(_ context.Context, indexID, address string) error {
	s.indexMutex.Lock()
	defer s.indexMutex.Unlock()

	addresses, err := s.getIndex(indexID)
	if err != nil && !errors.Is(err, document.ErrNotFound) {
		return err
	}

	b, err := json.Marshal(append(addresses, address))
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}

	if err = s.index.Put(indexID, b); err != nil {
		return fmt.Errorf("put index [%s]: %w", indexID, err)
	}

	return nil
}

// Get returns the content stored under address.
func (s *Store) Get(_ context.Context, address string) ([]byte, error) {
	content, err := s.content.Get(address)
	if err != nil {
		if errors.Is(err, storage.ErrDataNotFound) {
			return nil, document.ErrNotFound
		}

		return nil, fmt.Errorf("get content: %w", err)
	}

	return content, nil
}

// GetByIndex returns the addresses appended to indexID, oldest first.
func (s *Store) GetByIndex(_ context.Context, indexID string) ([]string, error) {
	s.indexMutex.Lock()
	defer s.indexMutex.Unlock()

	return s.getIndex(indexID)
}

func (s *Store) getIndex(indexID string) ([]string, error) {
	b, err := s.index.Get(indexID)
	if err != nil {
		if errors.Is(err, storage.ErrDataNotFound) {
			return nil, document.ErrNotFound
		}

		return nil, fmt.Errorf("get index [%s]: %w", indexID, err)
	}

	var addresses []string

	if err = json.Unmarshal(b, &addresses); err != nil {
		return nil, fmt.Errorf("unmarshal index [%s]: %w", indexID, err)
	}

	if len(addresses) == 0 {
		return nil, document.ErrNotFound
	}

	return addresses, nil
}
