/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sidetree

import (
	"context"
	"fmt"

	"github.com/trustbloc/sidetree-node/internal/logfields"
	"github.com/trustbloc/sidetree-node/pkg/event/spi"
)

// HandleAnchorEvent applies a written anchor to the resolver of its channel ahead of the next
// resolution. Other event types are ignored.
func (r *Registry) HandleAnchorEvent(e *spi.Event) error {
	if e.Type != spi.AnchorWritten {
		return nil
	}

	data := &spi.AnchorWrittenData{}
	if err := e.DecodeData(data); err != nil {
		return fmt.Errorf("decode anchor event: %w", err)
	}

	c, err := r.Get(data.Channel)
	if err != nil {
		return err
	}

	if err = c.Resolver().Refresh(context.Background()); err != nil {
		return fmt.Errorf("refresh channel [%s]: %w", data.Channel, err)
	}

	logger.Debug("Resolver refreshed", logfields.WithChannel(data.Channel), logfields.WithTxnNumber(data.TxnNumber))

	return nil
}
