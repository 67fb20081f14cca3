/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"time"

	"github.com/trustbloc/logutil-go/pkg/log"
)

// Logger used by different metrics provider.
var Logger = log.New("metrics-provider")

// Constants used by different metrics provider.
const (
	// Namespace Organization namespace.
	Namespace = "sidetree"

	// Writer anchor writer.
	Writer                        = "writer"
	WriterOperationsSubmitted     = "operations_submitted_total"
	WriterFlushTimeMetric         = "flush_seconds"
	WriterBatchSizeMetric         = "batch_size"
	WriterChannelWriteTimeMetric  = "channel_write_seconds"
	WriterChannelWriteRetries     = "channel_write_retries_total"
	WriterBatchesRejected         = "batches_rejected_total"
	WriterPendingOperationsMetric = "pending_operations"

	// Resolver document resolver.
	Resolver             = "resolver"
	ResolverResolveTime  = "resolve_seconds"
	ResolverCatchUpTime  = "catch_up_seconds"
	ResolverTxnsRejected = "txns_rejected_total"
)

// Provider is an interface for metrics provider.
type Provider interface {
	// Create creates a metrics provider instance
	Create() error
	// Destroy destroys the metrics provider instance
	Destroy() error
	// Metrics providers metrics
	Metrics() Metrics
}

// Metrics is an interface for the metrics to be supported by the provider.
//
//nolint:interfacebloat
type Metrics interface {
	OperationSubmitted()
	FlushTime(value time.Duration)
	BatchSize(value int)
	ChannelWriteTime(value time.Duration)
	ChannelWriteRetry()
	BatchRejected()
	PendingOperations(value int)
	ResolveTime(value time.Duration)
	CatchUpTime(value time.Duration)
	TxnRejected()
}
