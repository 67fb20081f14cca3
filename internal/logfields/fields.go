/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logfields

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log Fields.
const (
	FieldAdditionalMessage = "additionalMessage"
	FieldAddress           = "address"
	FieldAnchorAddress     = "anchorAddress"
	FieldAttempt           = "attempt"
	FieldBatchSize         = "batchSize"
	FieldChannel           = "channel"
	FieldDID               = "did"
	FieldEvent             = "event"
	FieldIndexID           = "indexID"
	FieldOperationType     = "operationType"
	FieldSequence          = "sequence"
	FieldSleep             = "sleep"
	FieldTxnNumber         = "txnNumber"
	FieldUserLogLevel      = "userLogLevel"
)

// WithAdditionalMessage sets the AdditionalMessage field.
func WithAdditionalMessage(value string) zap.Field {
	return zap.Any(FieldAdditionalMessage, value)
}

// WithAddress sets the content address field.
func WithAddress(address string) zap.Field {
	return zap.String(FieldAddress, address)
}

// WithAnchorAddress sets the AnchorAddress field.
func WithAnchorAddress(address string) zap.Field {
	return zap.String(FieldAnchorAddress, address)
}

// WithAttempt sets the Attempt field.
func WithAttempt(attempt int) zap.Field {
	return zap.Int(FieldAttempt, attempt)
}

// WithBatchSize sets the BatchSize field.
func WithBatchSize(size int) zap.Field {
	return zap.Int(FieldBatchSize, size)
}

// WithChannel sets the Channel field.
func WithChannel(channel string) zap.Field {
	return zap.String(FieldChannel, channel)
}

// WithDID sets the DID field.
func WithDID(did string) zap.Field {
	return zap.String(FieldDID, did)
}

// WithEvent sets the Event field.
func WithEvent(event interface{}) zap.Field {
	return zap.Inline(NewObjectMarshaller(FieldEvent, event))
}

// WithIndexID sets the IndexID field.
func WithIndexID(indexID string) zap.Field {
	return zap.String(FieldIndexID, indexID)
}

// WithOperationType sets the OperationType field.
func WithOperationType(opType string) zap.Field {
	return zap.String(FieldOperationType, opType)
}

// WithSequence sets the Sequence field.
func WithSequence(sequence uint64) zap.Field {
	return zap.Uint64(FieldSequence, sequence)
}

// WithSleep sets the sleep field.
func WithSleep(sleep time.Duration) zap.Field {
	return zap.Duration(FieldSleep, sleep)
}

// WithTxnNumber sets the TxnNumber field.
func WithTxnNumber(number uint64) zap.Field {
	return zap.Uint64(FieldTxnNumber, number)
}

// WithUserLogLevel sets the UserLogLevel field.
func WithUserLogLevel(logLevel string) zap.Field {
	return zap.String(FieldUserLogLevel, logLevel)
}

// ObjectMarshaller uses reflection to marshal an object's fields.
type ObjectMarshaller struct {
	key string
	obj interface{}
}

// NewObjectMarshaller returns a new ObjectMarshaller.
func NewObjectMarshaller(key string, obj interface{}) *ObjectMarshaller {
	return &ObjectMarshaller{key: key, obj: obj}
}

// MarshalLogObject marshals the object's fields.
func (m *ObjectMarshaller) MarshalLogObject(e zapcore.ObjectEncoder) error {
	return e.AddReflected(m.key, m.obj)
}
