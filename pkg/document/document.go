/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package document

// State is the lifecycle state of a document.
type State string

const (
	// StateUnknown means no operation was seen for the document.
	StateUnknown State = "unknown"
	// StatePending means an operation was submitted but is not anchored yet.
	StatePending State = "pending"
	// StateAnchored means the operation's batch has an anchor file on the channel.
	StateAnchored State = "anchored"
	// StateResolved means the content was fetched and verified against its address.
	StateResolved State = "resolved"
	// StateRejected means the content failed verification.
	StateRejected State = "rejected"
)

// Document is a single resolved version of a DID document.
type Document struct {
	ID                string `json:"id"`
	IndexID           string `json:"indexId"`
	Content           []byte `json:"content,omitempty"`
	ContentAddress    string `json:"contentAddress"`
	Version           int    `json:"version"`
	Sequence          uint64 `json:"sequence"`
	Deactivated       bool   `json:"deactivated,omitempty"`
	TransactionNumber uint64 `json:"transactionNumber"`
	AnchorAddress     string `json:"anchorAddress"`
}
