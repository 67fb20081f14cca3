/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package event

import (
	"github.com/trustbloc/sidetree-node/internal/logfields"
	"github.com/trustbloc/sidetree-node/pkg/event/spi"
)

// Initialize creates the event bus and subscribes the anchor event logger.
func Initialize() (*Bus, error) {
	eventBus := NewEventBus()

	subscriber, err := NewEventSubscriber(eventBus, spi.AnchorEventTopic, handleAnchorEvent)
	if err != nil {
		return nil, err
	}

	subscriber.Start()

	return eventBus, nil
}

func handleAnchorEvent(e *spi.Event) error {
	switch e.Type {
	case spi.AnchorWritten:
		data := &spi.AnchorWrittenData{}
		if err := e.DecodeData(data); err != nil {
			return err
		}

		logger.Info("Anchor written", logfields.WithChannel(data.Channel),
			logfields.WithAnchorAddress(data.AnchorAddress), logfields.WithTxnNumber(data.TxnNumber),
			logfields.WithBatchSize(len(data.IDs)))
	case spi.BatchRejected:
		data := &spi.BatchRejectedData{}
		if err := e.DecodeData(data); err != nil {
			return err
		}

		logger.Warn("Batch rejected", logfields.WithChannel(data.Channel), logfields.WithDID(data.ID),
			logfields.WithSequence(data.Sequence), logfields.WithBatchSize(data.OperationCount),
			logfields.WithAdditionalMessage(data.Reason))
	default:
		logger.Info("handling event", logfields.WithEvent(e))
	}

	return nil
}
