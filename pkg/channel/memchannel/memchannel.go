/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package memchannel

import (
	"context"
	"sync"
	"time"

	"github.com/trustbloc/sidetree-node/pkg/document"
)

// Channel is an in-process ledger.
type Channel struct {
	mutex sync.RWMutex
	txns  []*document.Txn
}

// New returns an empty in-memory channel.
func New() *Channel {
	return &Channel{}
}

// Write appends anchorAddress.
func (c *Channel) Write(_ context.Context, anchorAddress string) (*document.Txn, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	txn := &document.Txn{
		Number:        uint64(len(c.txns)) + 1,
		AnchorAddress: anchorAddress,
		Time:          time.Now().UTC(),
	}

	c.txns = append(c.txns, txn)

	return copyTxn(txn), nil
}

// Read returns all txns after since.
func (c *Channel) Read(_ context.Context, since uint64) ([]*document.Txn, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if since >= uint64(len(c.txns)) {
		return nil, nil
	}

	txns := make([]*document.Txn, 0, uint64(len(c.txns))-since)

	for _, txn := range c.txns[since:] {
		txns = append(txns, copyTxn(txn))
	}

	return txns, nil
}

func copyTxn(txn *document.Txn) *document.Txn {
	c := *txn

	return &c
}
