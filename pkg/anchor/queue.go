/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anchor

import (
	"context"
	"sync"

	"github.com/trustbloc/sidetree-node/pkg/document"
)

// OperationQueue is the FIFO of operations waiting to be anchored. Operations are
// removed only after their batch was acknowledged by the channel or rejected.
type OperationQueue interface {
	// Add appends op and returns the queue length.
	Add(ctx context.Context, op *document.Operation) (int, error)
	// Peek returns up to n operations from the head without removing them.
	Peek(ctx context.Context, n int) ([]*document.Operation, error)
	// Remove drops n operations from the head.
	Remove(ctx context.Context, n int) error
	// Replace drops n operations from the head and puts keep, in order, at the head.
	Replace(ctx context.Context, n int, keep []*document.Operation) error
	// List returns all queued operations in FIFO order.
	List(ctx context.Context) ([]*document.Operation, error)
	// Len returns the number of queued operations.
	Len(ctx context.Context) (int, error)
}

// MemQueue is an in-memory OperationQueue.
type MemQueue struct {
	mutex sync.RWMutex
	ops   []*document.Operation
}

// NewMemQueue returns an empty in-memory queue.
func NewMemQueue() *MemQueue {
	return &MemQueue{}
}

// Add appends op.
func (q *MemQueue) Add(_ context.Context, op *document.Operation) (int, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	q.ops = append(q.ops, op.Copy())

	return len(q.ops), nil
}

// Peek returns up to n operations from the head.
func (q *MemQueue) Peek(_ context.Context, n int) ([]*document.Operation, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	if n > len(q.ops) {
		n = len(q.ops)
	}

	if n <= 0 {
		return nil, nil
	}

	return copyOps(q.ops[:n]), nil
}

// Remove drops n operations from the head.
func (q *MemQueue) Remove(_ context.Context, n int) error {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if n > len(q.ops) {
		n = len(q.ops)
	}

	if n <= 0 {
		return nil
	}

	q.ops = append([]*document.Operation(nil), q.ops[n:]...)

	return nil
}

// Replace drops n operations from the head and puts keep in their place.
func (q *MemQueue) Replace(_ context.Context, n int, keep []*document.Operation) error {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if n > len(q.ops) {
		n = len(q.ops)
	}

	if n < 0 {
		n = 0
	}

	q.ops = append(copyOps(keep), q.ops[n:]...)

	return nil
}

// List returns all queued operations.
func (q *MemQueue) List(_ context.Context) ([]*document.Operation, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	return copyOps(q.ops), nil
}

// Len returns the number of queued operations.
func (q *MemQueue) Len(_ context.Context) (int, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	return len(q.ops), nil
}

func copyOps(ops []*document.Operation) []*document.Operation {
	c := make([]*document.Operation, len(ops))

	for i, op := range ops {
		c[i] = op.Copy()
	}

	return c
}
