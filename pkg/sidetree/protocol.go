/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sidetree

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trustbloc/sidetree-node/pkg/hashing"
)

// Protocol holds the protocol parameters shared by every node of a channel. Nodes with different
// parameters compute different addresses and batches for the same operations.
type Protocol struct {
	// HashAlgorithmInMultiHashCode is the multihash code of the content address algorithm.
	HashAlgorithmInMultiHashCode uint64 `json:"hashAlgorithmInMultiHashCode"`
	// MaxOperationsPerBatch caps the batch size. Zero means no cap.
	MaxOperationsPerBatch int `json:"maxOperationsPerBatch"`
	// MaxOperationByteSize bounds the content or patch of an operation. Zero means unbounded.
	MaxOperationByteSize int `json:"maxOperationByteSize"`
}

// DefaultProtocol returns the parameters used when no protocol file is configured.
func DefaultProtocol() *Protocol {
	return &Protocol{HashAlgorithmInMultiHashCode: hashing.DefaultAlgorithmCode}
}

// LoadProtocol reads the protocol parameters from a JSON file. Parameters missing from the file
// keep their default value.
func LoadProtocol(path string) (*Protocol, error) {
	b, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read protocol file: %w", err)
	}

	p := DefaultProtocol()

	if err = json.Unmarshal(b, p); err != nil {
		return nil, fmt.Errorf("unmarshal protocol file [%s]: %w", path, err)
	}

	if err = p.Validate(); err != nil {
		return nil, fmt.Errorf("protocol file [%s]: %w", path, err)
	}

	return p, nil
}

// Validate checks the protocol parameters.
func (p *Protocol) Validate() error {
	if err := hashing.ValidateAlgorithm(p.HashAlgorithmInMultiHashCode); err != nil {
		return err
	}

	if p.MaxOperationsPerBatch < 0 || p.MaxOperationByteSize < 0 {
		return errors.New("negative protocol limit")
	}

	return nil
}

// batchSize returns the configured batch size capped by the protocol.
func (p *Protocol) batchSize(configured int) int {
	if p.MaxOperationsPerBatch > 0 && (configured <= 0 || configured > p.MaxOperationsPerBatch) {
		return p.MaxOperationsPerBatch
	}

	return configured
}
