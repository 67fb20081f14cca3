/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package didapi

import (
	"encoding/json"
	"time"

	"github.com/trustbloc/sidetree-node/pkg/document"
)

// OperationRequest is the body of POST /sidetree/{channel}/operations.
type OperationRequest struct {
	Type     string          `json:"type"`
	ID       string          `json:"id,omitempty"`
	IndexID  string          `json:"indexId,omitempty"`
	Sequence uint64          `json:"sequence,omitempty"`
	Content  json.RawMessage `json:"content,omitempty"`
	Patch    json.RawMessage `json:"patch,omitempty"`
}

// OperationResponse is the accepted operation. Document is set for create operations only.
type OperationResponse struct {
	Type           string            `json:"type"`
	ID             string            `json:"id"`
	IndexID        string            `json:"indexId"`
	Sequence       uint64            `json:"sequence"`
	ContentAddress string            `json:"contentAddress,omitempty"`
	SubmittedAt    time.Time         `json:"submittedAt"`
	Document       *DocumentResponse `json:"document,omitempty"`
}

// DocumentResponse is a single version of a DID document.
type DocumentResponse struct {
	ID                string          `json:"id"`
	IndexID           string          `json:"indexId"`
	Content           json.RawMessage `json:"content,omitempty"`
	ContentAddress    string          `json:"contentAddress"`
	Version           int             `json:"version"`
	Sequence          uint64          `json:"sequence"`
	Deactivated       bool            `json:"deactivated,omitempty"`
	TransactionNumber uint64          `json:"transactionNumber,omitempty"`
	AnchorAddress     string          `json:"anchorAddress,omitempty"`
}

// StateResponse is the lifecycle state of a DID document.
type StateResponse struct {
	ID    string         `json:"id"`
	State document.State `json:"state"`
}

// VersionsResponse lists the anchored versions of an index ID in channel order.
type VersionsResponse struct {
	IndexID  string              `json:"indexId"`
	Versions []*DocumentResponse `json:"versions"`
}

// BatchResponse is returned by POST /sidetree/{channel}/batch. AnchorAddress is empty when nothing was
// pending.
type BatchResponse struct {
	AnchorAddress string `json:"anchorAddress"`
}

func toOperation(req *OperationRequest) *document.Operation {
	op := &document.Operation{
		Type:     document.OperationType(req.Type),
		ID:       req.ID,
		IndexID:  req.IndexID,
		Sequence: req.Sequence,
		Patch:    req.Patch,
	}

	if len(req.Content) > 0 {
		op.Content = req.Content
	}

	return op
}

func toOperationResponse(op *document.Operation) *OperationResponse {
	resp := &OperationResponse{
		Type:           string(op.Type),
		ID:             op.ID,
		IndexID:        op.IndexID,
		Sequence:       op.Sequence,
		ContentAddress: op.ContentAddress,
		SubmittedAt:    op.SubmittedAt,
	}

	if op.Type == document.OperationTypeCreate {
		resp.Document = &DocumentResponse{
			ID:             op.ID,
			IndexID:        op.IndexID,
			Content:        op.Content,
			ContentAddress: op.ContentAddress,
			Sequence:       op.Sequence,
		}
	}

	return resp
}

func toDocumentResponse(doc *document.Document) *DocumentResponse {
	return &DocumentResponse{
		ID:                doc.ID,
		IndexID:           doc.IndexID,
		Content:           doc.Content,
		ContentAddress:    doc.ContentAddress,
		Version:           doc.Version,
		Sequence:          doc.Sequence,
		Deactivated:       doc.Deactivated,
		TransactionNumber: doc.TransactionNumber,
		AnchorAddress:     doc.AnchorAddress,
	}
}
