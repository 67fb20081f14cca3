/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package document

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned for an unknown identifier, address or index ID.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned for duplicate or competing operation sequences.
	ErrConflict = errors.New("conflicting operation")
	// ErrChannelWrite is returned when the channel write failed after all retries.
	ErrChannelWrite = errors.New("channel write failed")
	// ErrVerification is returned when fetched content does not match its address.
	ErrVerification = errors.New("content verification failed")
	// ErrInvalidOperation is returned for a malformed operation request.
	ErrInvalidOperation = errors.New("invalid operation")
)

// ConflictError is returned when two operations for the same document carry the same sequence.
type ConflictError struct {
	ID       string
	Sequence uint64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: document [%s] sequence [%d]", ErrConflict, e.ID, e.Sequence)
}

// Is allows errors.Is(err, ErrConflict).
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// ChannelWriteError is returned when an anchor could not be written to the channel.
type ChannelWriteError struct {
	Attempts int
	Err      error
}

func (e *ChannelWriteError) Error() string {
	return fmt.Sprintf("%s after %d attempt(s): %v", ErrChannelWrite, e.Attempts, e.Err)
}

// Is allows errors.Is(err, ErrChannelWrite).
func (e *ChannelWriteError) Is(target error) bool {
	return target == ErrChannelWrite
}

// Unwrap returns the last channel error.
func (e *ChannelWriteError) Unwrap() error {
	return e.Err
}

// VerificationError is returned when content fetched for an address hashes to a different address.
type VerificationError struct {
	Address string
	Actual  string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("%s: expected address [%s] but content hashes to [%s]", ErrVerification, e.Address, e.Actual)
}

// Is allows errors.Is(err, ErrVerification).
func (e *VerificationError) Is(target error) bool {
	return target == ErrVerification
}

// NewInvalidOperationError wraps ErrInvalidOperation with a reason.
func NewInvalidOperationError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidOperation, reason)
}
