/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package hashing

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
	"github.com/multiformats/go-multihash"

	"github.com/trustbloc/sidetree-node/pkg/document"
)

// DefaultAlgorithmCode is the multihash code of the default hashing algorithm used for addresses.
const DefaultAlgorithmCode = multihash.SHA2_256

// ValidateAlgorithm returns an error if addresses cannot be computed with the given multihash code.
func ValidateAlgorithm(code uint64) error {
	switch code {
	case multihash.SHA2_256, multihash.SHA2_512:
		return nil
	default:
		return fmt.Errorf("unsupported multihash code [%d]", code)
	}
}

// CalculateAddress returns the base64url encoded SHA2-256 multihash of the given content.
func CalculateAddress(content []byte) (string, error) {
	return CalculateAddressWith(DefaultAlgorithmCode, content)
}

// CalculateAddressWith returns the base64url encoded multihash of the content computed with the
// algorithm of the given multihash code.
func CalculateAddressWith(code uint64, content []byte) (string, error) {
	if err := ValidateAlgorithm(code); err != nil {
		return "", err
	}

	mh, err := multihash.Sum(content, code, -1)
	if err != nil {
		return "", fmt.Errorf("compute multihash: %w", err)
	}

	return encode(mh), nil
}

// VerifyAddress checks that the content hashes to the given address, using the algorithm the
// address was computed with.
func VerifyAddress(address string, content []byte) error {
	code, err := decodeCode(address)
	if err != nil {
		return err
	}

	if err = ValidateAlgorithm(code); err != nil {
		return fmt.Errorf("address [%s]: %w", address, err)
	}

	actual, err := CalculateAddressWith(code, content)
	if err != nil {
		return err
	}

	if actual != address {
		return &document.VerificationError{Address: address, Actual: actual}
	}

	return nil
}

// IsValidAddress returns true if the address is a base64url encoded multihash.
func IsValidAddress(address string) bool {
	_, err := decodeCode(address)

	return err == nil
}

// Canonicalize transforms JSON content into its RFC 8785 canonical form.
// Content that is not JSON is returned unchanged.
func Canonicalize(content []byte) ([]byte, error) {
	if !json.Valid(content) {
		return content, nil
	}

	canonical, err := jcs.Transform(content)
	if err != nil {
		return nil, fmt.Errorf("canonicalize json: %w", err)
	}

	return canonical, nil
}

func encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodeCode(address string) (uint64, error) {
	b, err := base64.RawURLEncoding.DecodeString(address)
	if err != nil {
		return 0, fmt.Errorf("address [%s] is not base64url encoded: %w", address, err)
	}

	decoded, err := multihash.Decode(b)
	if err != nil {
		return 0, fmt.Errorf("address [%s] is not a multihash: %w", address, err)
	}

	return decoded.Code, nil
}
