/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package spi

import (
	"encoding/json"
	"time"
)

// AnchorEventTopic is the topic of the anchor writer events.
const AnchorEventTopic = "sidetree-anchor"

// EventType event type.
type EventType string

const (
	// AnchorWritten is published after an anchor address was acknowledged by the channel.
	AnchorWritten = EventType("anchor_written")
	// BatchRejected is published when queued operations are dropped because of a sequence conflict.
	BatchRejected = EventType("batch_rejected")
)

// Payload is the JSON encoded event data.
type Payload []byte

// Event is a CloudEvents style envelope.
type Event struct {
	// SpecVersion is spec version(required).
	SpecVersion string `json:"specVersion"`

	// ID identifies the event(required).
	ID string `json:"id"`

	// Source is URI for producer(required).
	Source string `json:"source"`

	// Type defines event type(required).
	Type EventType `json:"type"`

	// Time defines time of occurrence(required).
	Time time.Time `json:"time"`

	// DataContentType is data content type(optional).
	DataContentType string `json:"dataContentType,omitempty"`

	// Data defines message(optional).
	Data Payload `json:"data,omitempty"`
}

// AnchorWrittenData is the data of an AnchorWritten event.
type AnchorWrittenData struct {
	Channel          string   `json:"channel"`
	AnchorAddress    string   `json:"anchorAddress"`
	BatchFileAddress string   `json:"batchFileAddress"`
	TxnNumber        uint64   `json:"txnNumber"`
	IDs              []string `json:"ids"`
}

// BatchRejectedData is the data of a BatchRejected event.
type BatchRejectedData struct {
	Channel        string `json:"channel"`
	ID             string `json:"id"`
	Sequence       uint64 `json:"sequence"`
	OperationCount int    `json:"operationCount"`
	Reason         string `json:"reason"`
}

// Copy an event.
func (m *Event) Copy() *Event {
	return &Event{
		SpecVersion:     m.SpecVersion,
		ID:              m.ID,
		Source:          m.Source,
		Type:            m.Type,
		Time:            m.Time,
		DataContentType: m.DataContentType,
		Data:            append(Payload(nil), m.Data...),
	}
}

// DecodeData unmarshals the event data into v.
func (m *Event) DecodeData(v interface{}) error {
	return json.Unmarshal(m.Data, v)
}

// NewEventWithPayload creates a new Event with payload.
func NewEventWithPayload(uuid string, source string, eventType EventType, payload Payload) *Event {
	event := NewEvent(uuid, source, eventType)

	event.Data = payload

	// sidetree components always use json
	event.DataContentType = "application/json"

	return event
}

// NewEvent creates a new Event and sets all required fields.
func NewEvent(uuid string, source string, eventType EventType) *Event {
	return &Event{
		SpecVersion: "1.0",
		ID:          uuid,
		Source:      source,
		Type:        eventType,
		Time:        time.Now().UTC(),
	}
}
