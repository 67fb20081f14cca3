/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sidetree

import (
	"fmt"
	"sort"
	"sync"

	"github.com/samber/lo"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/sidetree-node/internal/logfields"
	"github.com/trustbloc/sidetree-node/pkg/document"
)

var logger = log.New("sidetree-registry")

// Registry maps channel names to their contexts.
type Registry struct {
	mutex    sync.RWMutex
	contexts map[string]*Context
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{contexts: make(map[string]*Context)}
}

// Register adds a channel context. A channel can be registered once.
func (r *Registry) Register(c *Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.contexts[c.Name()]; ok {
		return fmt.Errorf("channel [%s] is already registered", c.Name())
	}

	r.contexts[c.Name()] = c

	logger.Info("Channel registered", logfields.WithChannel(c.Name()))

	return nil
}

// Get returns the context of the channel or document.ErrNotFound.
func (r *Registry) Get(name string) (*Context, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	c, ok := r.contexts[name]
	if !ok {
		return nil, fmt.Errorf("channel [%s]: %w", name, document.ErrNotFound)
	}

	return c, nil
}

// Names returns the sorted names of the registered channels.
func (r *Registry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := lo.Keys(r.contexts)
	sort.Strings(names)

	return names
}

// Start starts every registered context.
func (r *Registry) Start() {
	for _, c := range r.list() {
		c.Start()
	}
}

// Stop stops every registered context.
func (r *Registry) Stop() {
	for _, c := range r.list() {
		c.Stop()
	}
}

func (r *Registry) list() []*Context {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return lo.Values(r.contexts)
}
