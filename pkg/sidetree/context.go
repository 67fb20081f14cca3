/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sidetree

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/trustbloc/sidetree-node/pkg/anchor"
	"github.com/trustbloc/sidetree-node/pkg/cas"
	"github.com/trustbloc/sidetree-node/pkg/channel"
	"github.com/trustbloc/sidetree-node/pkg/event/spi"
	"github.com/trustbloc/sidetree-node/pkg/observability/metrics"
	"github.com/trustbloc/sidetree-node/pkg/resolver"
)

type eventPublisher interface {
	Publish(ctx context.Context, eventType spi.EventType, data interface{}) error
}

// Config holds the collaborators and batching parameters of a channel context.
type Config struct {
	Channel   string
	DIDMethod string

	Store  cas.Store
	Ledger channel.Channel
	Queue  anchor.OperationQueue

	MaxBatchSize        int
	BatchInterval       time.Duration
	ChannelWriteRetries uint64
	ChannelWriteBackoff time.Duration
	CacheSize           int

	// Protocol defaults to DefaultProtocol.
	Protocol *Protocol

	EventPublisher eventPublisher
	Metrics        metrics.Metrics
}

// Context bundles the document store, channel, writer and resolver of a single channel.
type Context struct {
	name     string
	cas      *cas.Client
	ledger   channel.Channel
	writer   *anchor.Writer
	resolver *resolver.Resolver
}

// New wires the writer and resolver of a channel.
func New(cfg *Config) (*Context, error) {
	if cfg.Channel == "" {
		return nil, errors.New("missing channel name")
	}

	if cfg.Store == nil || cfg.Ledger == nil {
		return nil, fmt.Errorf("channel [%s]: missing store or channel", cfg.Channel)
	}

	protocol := cfg.Protocol
	if protocol == nil {
		protocol = DefaultProtocol()
	}

	if err := protocol.Validate(); err != nil {
		return nil, fmt.Errorf("channel [%s]: %w", cfg.Channel, err)
	}

	casClient := cas.New(cfg.Store, cas.WithHashAlgorithm(protocol.HashAlgorithmInMultiHashCode))

	resolverOpts := []resolver.Opt{resolver.WithHashAlgorithm(protocol.HashAlgorithmInMultiHashCode)}

	if cfg.Metrics != nil {
		resolverOpts = append(resolverOpts, resolver.WithMetrics(cfg.Metrics))
	}

	if cfg.CacheSize > 0 {
		resolverOpts = append(resolverOpts, resolver.WithCacheSize(cfg.CacheSize))
	}

	r := resolver.New(cfg.Channel, casClient, cfg.Ledger, resolverOpts...)

	writerCfg := &anchor.Config{
		Channel:             cfg.Channel,
		DIDMethod:           cfg.DIDMethod,
		MaxBatchSize:        protocol.batchSize(cfg.MaxBatchSize),
		BatchInterval:       cfg.BatchInterval,
		ChannelWriteRetries: cfg.ChannelWriteRetries,
		ChannelWriteBackoff: cfg.ChannelWriteBackoff,
		HashAlgorithm:       protocol.HashAlgorithmInMultiHashCode,
		MaxOperationSize:    protocol.MaxOperationByteSize,
		CAS:                 casClient,
		Ledger:              cfg.Ledger,
		Queue:               cfg.Queue,
		Anchored:            r,
		Metrics:             cfg.Metrics,
	}

	if cfg.EventPublisher != nil {
		writerCfg.EventPublisher = cfg.EventPublisher
	}

	w, err := anchor.New(writerCfg)
	if err != nil {
		return nil, fmt.Errorf("channel [%s]: create writer: %w", cfg.Channel, err)
	}

	r.SetPendingView(w)

	return &Context{
		name:     cfg.Channel,
		cas:      casClient,
		ledger:   cfg.Ledger,
		writer:   w,
		resolver: r,
	}, nil
}

// Name returns the channel name.
func (c *Context) Name() string {
	return c.name
}

// CAS returns the verifying document store client.
func (c *Context) CAS() *cas.Client {
	return c.cas
}

// Channel returns the channel the anchors are written to.
func (c *Context) Channel() channel.Channel {
	return c.ledger
}

// Writer returns the anchor writer.
func (c *Context) Writer() *anchor.Writer {
	return c.writer
}

// Resolver returns the resolver.
func (c *Context) Resolver() *resolver.Resolver {
	return c.resolver
}

// Start starts the background batching.
func (c *Context) Start() {
	c.writer.Start()
}

// Stop stops the background batching.
func (c *Context) Stop() {
	c.writer.Stop()
}
