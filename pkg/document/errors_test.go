/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package document

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	t.Run("conflict", func(t *testing.T) {
		err := fmt.Errorf("flush: %w", &ConflictError{ID: "did:example:1", Sequence: 2})

		require.ErrorIs(t, err, ErrConflict)
		require.NotErrorIs(t, err, ErrNotFound)

		var conflictErr *ConflictError
		require.True(t, errors.As(err, &conflictErr))
		require.Equal(t, uint64(2), conflictErr.Sequence)
		require.Contains(t, err.Error(), "document [did:example:1] sequence [2]")
	})

	t.Run("channel write", func(t *testing.T) {
		cause := errors.New("ledger unavailable")
		err := &ChannelWriteError{Attempts: 3, Err: cause}

		require.ErrorIs(t, err, ErrChannelWrite)
		require.ErrorIs(t, err, cause)
		require.Contains(t, err.Error(), "after 3 attempt(s)")
	})

	t.Run("verification", func(t *testing.T) {
		err := &VerificationError{Address: "a", Actual: "b"}

		require.ErrorIs(t, err, ErrVerification)
		require.Contains(t, err.Error(), "expected address [a]")
	})

	t.Run("invalid operation", func(t *testing.T) {
		err := NewInvalidOperationError("missing content")

		require.ErrorIs(t, err, ErrInvalidOperation)
		require.EqualError(t, err, "invalid operation: missing content")
	})
}

func TestOperationType(t *testing.T) {
	require.True(t, OperationTypeCreate.Valid())
	require.True(t, OperationTypeDeactivate.Valid())
	require.False(t, OperationType("recover").Valid())
}

func TestOperationCopy(t *testing.T) {
	op := &Operation{ID: "did:example:1", Content: []byte("v1"), Patch: []byte(`[]`)}

	c := op.Copy()
	c.Content[0] = 'x'
	c.Patch[0] = '{'

	require.Equal(t, "v1", string(op.Content))
	require.Equal(t, "[]", string(op.Patch))
}
