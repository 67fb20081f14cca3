/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package txnstream

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trustbloc/sidetree-node/pkg/document"
)

const (
	keyPrefix          = "sidetreetxn"
	fieldAnchorAddress = "anchorAddress"
	fieldTime          = "time"
)

// appendScript assigns the next txn number and appends the entry under the stream ID "<number>-0"
// in a single step, so the stream ID order always matches the txn number order.
var appendScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[2])
redis.call('XADD', KEYS[1], n .. '-0', 'anchorAddress', ARGV[1], 'time', ARGV[2])
return n
`)

type redisClient interface {
	API() redis.UniversalClient
}

// Stream is a channel backed by a Redis stream.
type Stream struct {
	redisClient redisClient
	streamKey   string
	counterKey  string
}

// New creates a Stream for the named channel.
func New(redisClient redisClient, channel string) *Stream {
	return &Stream{
		redisClient: redisClient,
		// both keys share a hash slot so the append script also runs on a cluster
		streamKey:  fmt.Sprintf("%s-{%s}", keyPrefix, channel),
		counterKey: fmt.Sprintf("%s-{%s}-counter", keyPrefix, channel),
	}
}

// Write appends anchorAddress to the stream.
func (s *Stream) Write(ctx context.Context, anchorAddress string) (*document.Txn, error) {
	now := time.Now().UTC()

	number, err := appendScript.Run(ctx, s.redisClient.API(),
		[]string{s.streamKey, s.counterKey}, anchorAddress, now.Format(time.RFC3339Nano)).Uint64()
	if err != nil {
		return nil, fmt.Errorf("redis append txn: %w", err)
	}

	return &document.Txn{
		Number:        number,
		AnchorAddress: anchorAddress,
		Time:          now,
	}, nil
}

// Read returns the txns after since, in stream order.
func (s *Stream) Read(ctx context.Context, since uint64) ([]*document.Txn, error) {
	messages, err := s.redisClient.API().XRange(ctx, s.streamKey, fmt.Sprintf("%d-0", since+1), "+").Result()
	if err != nil {
		return nil, fmt.Errorf("redis read txns: %w", err)
	}

	txns := make([]*document.Txn, 0, len(messages))

	for _, msg := range messages {
		txn, err := toTxn(msg)
		if err != nil {
			return nil, err
		}

		txns = append(txns, txn)
	}

	return txns, nil
}

func toTxn(msg redis.XMessage) (*document.Txn, error) {
	number, err := strconv.ParseUint(strings.TrimSuffix(msg.ID, "-0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid txn id [%s]: %w", msg.ID, err)
	}

	anchorAddress, ok := msg.Values[fieldAnchorAddress].(string)
	if !ok {
		return nil, fmt.Errorf("txn [%s] has no anchor address", msg.ID)
	}

	txn := &document.Txn{
		Number:        number,
		AnchorAddress: anchorAddress,
	}

	if ts, ok := msg.Values[fieldTime].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			txn.Time = t
		}
	}

	return txn, nil
}
