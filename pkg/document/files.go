/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gowebpki/jcs"
	"github.com/klauspost/compress/gzip"
)

// maxBatchFileSize bounds the decompressed size of a batch file.
const maxBatchFileSize = 64 << 20

// MarshalBatchFile returns the gzip compressed JSON encoding of the batch file. The
// encoding is deterministic so that equal batches have equal addresses.
func MarshalBatchFile(bf *BatchFile) ([]byte, error) {
	b, err := json.Marshal(bf)
	if err != nil {
		return nil, fmt.Errorf("marshal batch file: %w", err)
	}

	buf := &bytes.Buffer{}

	// the zero value header has no name and no modification time
	zw, err := gzip.NewWriterLevel(buf, gzip.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("create gzip writer: %w", err)
	}

	if _, err = zw.Write(b); err != nil {
		return nil, fmt.Errorf("compress batch file: %w", err)
	}

	if err = zw.Close(); err != nil {
		return nil, fmt.Errorf("compress batch file: %w", err)
	}

	return buf.Bytes(), nil
}

// UnmarshalBatchFile decodes a batch file produced by MarshalBatchFile.
func UnmarshalBatchFile(data []byte) (*BatchFile, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open compressed batch file: %w", err)
	}

	defer func() {
		_ = zr.Close()
	}()

	b, err := io.ReadAll(io.LimitReader(zr, maxBatchFileSize))
	if err != nil {
		return nil, fmt.Errorf("decompress batch file: %w", err)
	}

	bf := &BatchFile{}

	if err = json.Unmarshal(b, bf); err != nil {
		return nil, fmt.Errorf("unmarshal batch file: %w", err)
	}

	return bf, nil
}

// MarshalAnchorFile returns the canonical JSON encoding of the anchor file.
func MarshalAnchorFile(af *AnchorFile) ([]byte, error) {
	b, err := json.Marshal(af)
	if err != nil {
		return nil, fmt.Errorf("marshal anchor file: %w", err)
	}

	canonical, err := jcs.Transform(b)
	if err != nil {
		return nil, fmt.Errorf("canonicalize anchor file: %w", err)
	}

	return canonical, nil
}

// UnmarshalAnchorFile decodes an anchor file and checks that it references a batch file.
func UnmarshalAnchorFile(data []byte) (*AnchorFile, error) {
	af := &AnchorFile{}

	if err := json.Unmarshal(data, af); err != nil {
		return nil, fmt.Errorf("unmarshal anchor file: %w", err)
	}

	if af.BatchFileAddress == "" {
		return nil, fmt.Errorf("anchor file is missing the batch file address")
	}

	if af.OperationCount != len(af.IDs) {
		return nil, fmt.Errorf("anchor file operation count %d does not match %d ids",
			af.OperationCount, len(af.IDs))
	}

	return af, nil
}
