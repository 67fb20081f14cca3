/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package noop

import (
	"time"

	"github.com/trustbloc/sidetree-node/pkg/observability/metrics"
)

// NoMetrics provides default no operation implementation for the NoMetrics interface.
type NoMetrics struct{}

// GetMetrics returns metrics implementation.
func GetMetrics() metrics.Metrics {
	return &NoMetrics{}
}

func (n *NoMetrics) OperationSubmitted()              {}
func (n *NoMetrics) FlushTime(_ time.Duration)        {}
func (n *NoMetrics) BatchSize(_ int)                  {}
func (n *NoMetrics) ChannelWriteTime(_ time.Duration) {}
func (n *NoMetrics) ChannelWriteRetry()               {}
func (n *NoMetrics) BatchRejected()                   {}
func (n *NoMetrics) PendingOperations(_ int)          {}
func (n *NoMetrics) ResolveTime(_ time.Duration)      {}
func (n *NoMetrics) CatchUpTime(_ time.Duration)      {}
func (n *NoMetrics) TxnRejected()                     {}
