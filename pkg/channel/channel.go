/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination ../anchor/channel_mocks_test.go -package anchor_test -source=channel.go -mock_names Channel=MockChannel

package channel

import (
	"context"

	"github.com/trustbloc/sidetree-node/pkg/document"
)

// Channel is an append-only log of anchor addresses. Txns are numbered
// consecutively starting at 1, and a txn is readable only once every txn with
// a lower number may be read.
type Channel interface {
	// Write appends anchorAddress and returns once the append is acknowledged.
	Write(ctx context.Context, anchorAddress string) (*document.Txn, error)
	// Read returns, in channel order, all txns with a number greater than since.
	Read(ctx context.Context, since uint64) ([]*document.Txn, error)
}
