/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package opqueue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/trustbloc/sidetree-node/pkg/document"
)

const keyPrefix = "sidetreeops"

// replaceScript trims ARGV[1] entries from the head of the list and pushes the remaining
// arguments back at the head, keeping their order.
var replaceScript = redis.NewScript(`
redis.call("LTRIM", KEYS[1], ARGV[1], -1)
for i = #ARGV, 2, -1 do
	redis.call("LPUSH", KEYS[1], ARGV[i])
end
return redis.call("LLEN", KEYS[1])
`)

type redisClient interface {
	API() redis.UniversalClient
}

// Queue is a FIFO of pending operations kept in a Redis list, so that
// operations accepted by a node survive its restart.
type Queue struct {
	redisClient redisClient
	key         string
}

// New creates a Queue for the named channel.
func New(redisClient redisClient, channel string) *Queue {
	return &Queue{
		redisClient: redisClient,
		key:         fmt.Sprintf("%s-%s", keyPrefix, channel),
	}
}

// Add appends op and returns the queue length.
func (q *Queue) Add(ctx context.Context, op *document.Operation) (int, error) {
	b, err := json.Marshal(op)
	if err != nil {
		return 0, fmt.Errorf("marshal operation: %w", err)
	}

	n, err := q.redisClient.API().RPush(ctx, q.key, b).Result()
	if err != nil {
		return 0, fmt.Errorf("redis push operation: %w", err)
	}

	return int(n), nil
}

// Peek returns up to n operations from the head of the queue without removing them.
func (q *Queue) Peek(ctx context.Context, n int) ([]*document.Operation, error) {
	if n <= 0 {
		return nil, nil
	}

	return q.lrange(ctx, 0, int64(n-1))
}

// Remove drops n operations from the head of the queue.
func (q *Queue) Remove(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}

	if err := q.redisClient.API().LTrim(ctx, q.key, int64(n), -1).Err(); err != nil {
		return fmt.Errorf("redis trim operations: %w", err)
	}

	return nil
}

// Replace drops n operations from the head of the queue and puts keep at the head, in one step.
func (q *Queue) Replace(ctx context.Context, n int, keep []*document.Operation) error {
	if n < 0 {
		n = 0
	}

	args := make([]interface{}, 0, len(keep)+1)
	args = append(args, n)

	for _, op := range keep {
		b, err := json.Marshal(op)
		if err != nil {
			return fmt.Errorf("marshal operation: %w", err)
		}

		args = append(args, b)
	}

	if err := replaceScript.Run(ctx, q.redisClient.API(), []string{q.key}, args...).Err(); err != nil {
		return fmt.Errorf("redis replace operations: %w", err)
	}

	return nil
}

// List returns every queued operation in FIFO order.
func (q *Queue) List(ctx context.Context) ([]*document.Operation, error) {
	return q.lrange(ctx, 0, -1)
}

// Len returns the number of queued operations.
func (q *Queue) Len(ctx context.Context) (int, error) {
	n, err := q.redisClient.API().LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis queue length: %w", err)
	}

	return int(n), nil
}

func (q *Queue) lrange(ctx context.Context, start, stop int64) ([]*document.Operation, error) {
	values, err := q.redisClient.API().LRange(ctx, q.key, start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("redis read operations: %w", err)
	}

	ops := make([]*document.Operation, 0, len(values))

	for _, v := range values {
		op := &document.Operation{}

		if err = json.Unmarshal([]byte(v), op); err != nil {
			return nil, fmt.Errorf("data decode: %w", err)
		}

		ops = append(ops, op)
	}

	return ops, nil
}
