/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package event

import (
	"context"
	"encoding/json"
	"fmt"

	guuid "github.com/google/uuid"

	"github.com/trustbloc/sidetree-node/pkg/event/spi"
)

type eventPublisher interface {
	Publish(ctx context.Context, topic string, events ...*spi.Event) error
}

// Publisher wraps event data into events published on a single topic.
type Publisher struct {
	publisher eventPublisher
	source    string
	topic     string
}

// NewEventPublisher creates event publisher.
func NewEventPublisher(pub eventPublisher, source, topic string) *Publisher {
	return &Publisher{
		publisher: pub,
		source:    source,
		topic:     topic,
	}
}

// Publish marshals data and publishes it as an event of the given type.
func (p *Publisher) Publish(ctx context.Context, eventType spi.EventType, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	return p.publisher.Publish(ctx, p.topic, spi.NewEventWithPayload(guuid.NewString(), p.source, eventType, payload))
}
