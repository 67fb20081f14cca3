/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination cas_mocks_test.go -self_package mocks -package cas_test -source=cas.go -mock_names Store=MockStore

package cas

import (
	"context"
	"fmt"

	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/sidetree-node/internal/logfields"
	"github.com/trustbloc/sidetree-node/pkg/document"
	"github.com/trustbloc/sidetree-node/pkg/hashing"
)

var logger = log.New("sidetree-cas")

// Store is a content addressable store. Content is keyed by its address and,
// optionally, appended to an ordered index.
type Store interface {
	// Put stores content under the given address and appends the address to the index, if set.
	Put(ctx context.Context, address string, content []byte, opts ...PutOption) error
	// Get returns the content stored under address or document.ErrNotFound.
	Get(ctx context.Context, address string) ([]byte, error)
	// GetByIndex returns the ordered addresses stored under indexID or document.ErrNotFound.
	GetByIndex(ctx context.Context, indexID string) ([]string, error)
}

// PutOptions holds the options for Put.
type PutOptions struct {
	IndexID string
}

// PutOption is a Put option.
type PutOption func(opts *PutOptions)

// WithIndex appends the address of the content to the given index.
func WithIndex(indexID string) PutOption {
	return func(opts *PutOptions) {
		opts.IndexID = indexID
	}
}

// GetPutOptions resolves the given options.
func GetPutOptions(opts ...PutOption) *PutOptions {
	options := &PutOptions{}

	for _, opt := range opts {
		opt(options)
	}

	return options
}

// Client computes addresses on write and verifies content on read.
type Client struct {
	store         Store
	hashAlgorithm uint64
}

// Opt is a Client option.
type Opt func(c *Client)

// WithHashAlgorithm sets the multihash code of the algorithm addresses are computed with.
func WithHashAlgorithm(code uint64) Opt {
	return func(c *Client) {
		c.hashAlgorithm = code
	}
}

// New returns a new content addressable storage client.
func New(store Store, opts ...Opt) *Client {
	c := &Client{
		store:         store,
		hashAlgorithm: hashing.DefaultAlgorithmCode,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Write stores content and returns its address.
func (c *Client) Write(ctx context.Context, content []byte, opts ...PutOption) (string, error) {
	if len(content) == 0 {
		return "", document.NewInvalidOperationError("missing content")
	}

	address, err := hashing.CalculateAddressWith(c.hashAlgorithm, content)
	if err != nil {
		return "", err
	}

	if err = c.store.Put(ctx, address, content, opts...); err != nil {
		return "", fmt.Errorf("put content [%s]: %w", address, err)
	}

	logger.Debugc(ctx, "Content written", logfields.WithAddress(address))

	return address, nil
}

// Read returns the content stored at address after verifying it hashes to that address.
func (c *Client) Read(ctx context.Context, address string) ([]byte, error) {
	if !hashing.IsValidAddress(address) {
		return nil, fmt.Errorf("%w: malformed address [%s]", document.ErrNotFound, address)
	}

	content, err := c.store.Get(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("get content [%s]: %w", address, err)
	}

	if err = hashing.VerifyAddress(address, content); err != nil {
		logger.Errorc(ctx, "Content failed verification", logfields.WithAddress(address), log.WithError(err))

		return nil, err
	}

	return content, nil
}

// ReadByIndex returns the ordered addresses stored under indexID.
func (c *Client) ReadByIndex(ctx context.Context, indexID string) ([]string, error) {
	addresses, err := c.store.GetByIndex(ctx, indexID)
	if err != nil {
		return nil, fmt.Errorf("get index [%s]: %w", indexID, err)
	}

	return addresses, nil
}
