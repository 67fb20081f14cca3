/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package document

import (
	"encoding/json"
	"time"
)

// OperationType defines valid values for operation type.
type OperationType string

const (
	// OperationTypeCreate captures "create" operation type.
	OperationTypeCreate OperationType = "create"

	// OperationTypeUpdate captures "update" operation type. Content replaces the previous content.
	OperationTypeUpdate OperationType = "update"

	// OperationTypePatch captures "patch" operation type. Patch is an RFC 6902 JSON patch
	// applied to the previous content.
	OperationTypePatch OperationType = "patch"

	// OperationTypeDeactivate captures "deactivate" operation type.
	OperationTypeDeactivate OperationType = "deactivate"
)

// Valid returns true if the operation type is supported.
func (t OperationType) Valid() bool {
	switch t {
	case OperationTypeCreate, OperationTypeUpdate, OperationTypePatch, OperationTypeDeactivate:
		return true
	default:
		return false
	}
}

// Operation defines a create/update record for a document.
type Operation struct {
	// Type is the operation type.
	Type OperationType `json:"type"`

	// ID is the full document identifier (DID).
	ID string `json:"id"`

	// IndexID is the external index ID used for version lookup. Defaults to ID.
	IndexID string `json:"indexId,omitempty"`

	// Sequence is the per-document sequence number. Zero means "assign next".
	Sequence uint64 `json:"sequence"`

	// Content is the opaque document content (create and update).
	Content []byte `json:"content,omitempty"`

	// ContentAddress is the address of Content in the document store.
	ContentAddress string `json:"contentAddress,omitempty"`

	// Patch is an RFC 6902 JSON patch (patch operations only).
	Patch json.RawMessage `json:"patch,omitempty"`

	// SubmittedAt is the time the operation was accepted.
	SubmittedAt time.Time `json:"submittedAt"`
}

// Copy returns a deep copy of the operation.
func (o *Operation) Copy() *Operation {
	c := *o

	if o.Content != nil {
		c.Content = append([]byte(nil), o.Content...)
	}

	if o.Patch != nil {
		c.Patch = append(json.RawMessage(nil), o.Patch...)
	}

	return &c
}

// AnchoredOperation is an operation that was found in a batch file referenced from the channel.
type AnchoredOperation struct {
	*Operation

	// TransactionNumber is the channel position of the anchor.
	TransactionNumber uint64 `json:"transactionNumber"`

	// AnchorAddress is the address of the anchor file.
	AnchorAddress string `json:"anchorAddress"`

	// OperationIndex is the index this operation was assigned to in the batch.
	OperationIndex int `json:"operationIndex"`
}

// BatchFile is the ordered group of operations written for a single anchoring round.
// Content is not embedded: operations reference it by ContentAddress.
type BatchFile struct {
	Operations []*Operation `json:"operations"`
}

// AnchorFile references exactly one batch file.
type AnchorFile struct {
	BatchFileAddress string   `json:"batchFileAddress"`
	OperationCount   int      `json:"operationCount"`
	IDs              []string `json:"ids"`
}

// Txn is a single entry of the channel.
type Txn struct {
	// Number is the position of the entry on the channel, starting at 1.
	Number uint64 `json:"number"`

	// AnchorAddress is the address of the anchor file.
	AnchorAddress string `json:"anchorAddress"`

	// Time is the time the entry was acknowledged by the channel.
	Time time.Time `json:"time"`
}
