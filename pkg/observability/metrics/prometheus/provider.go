/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package prometheus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/sidetree-node/pkg/observability/metrics"
)

var logger = metrics.Logger

var (
	createOnce sync.Once       //nolint:gochecknoglobals
	instance   metrics.Metrics //nolint:gochecknoglobals
)

type promProvider struct {
	httpServer *http.Server
}

// NewPrometheusProvider creates new instance of Prometheus Metrics Provider. When httpServer is
// nil the metrics are only exposed through a handler mounted on the main router.
func NewPrometheusProvider(httpServer *http.Server) metrics.Provider {
	return &promProvider{httpServer: httpServer}
}

// Create creates/initializes the prometheus metrics provider. It blocks while the metrics
// HTTP server is running.
func (pp *promProvider) Create() error {
	if pp.httpServer == nil {
		return nil
	}

	if err := pp.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start metrics HTTP server: %w", err)
	}

	return nil
}

// Metrics returns supported metrics.
func (pp *promProvider) Metrics() metrics.Metrics {
	return GetMetrics()
}

// Destroy destroys the prometheus metrics provider.
func (pp *promProvider) Destroy() error {
	if pp.httpServer != nil {
		return pp.httpServer.Shutdown(context.Background())
	}

	return nil
}

// GetMetrics returns metrics implementation.
func GetMetrics() metrics.Metrics {
	createOnce.Do(func() {
		instance = NewMetrics()
	})

	return instance
}

// PromMetrics manages the metrics for the sidetree node.
type PromMetrics struct {
	operationsSubmitted prometheus.Counter
	flushTime           prometheus.Histogram
	batchSize           prometheus.Histogram
	channelWriteTime    prometheus.Histogram
	channelWriteRetries prometheus.Counter
	batchesRejected     prometheus.Counter
	pendingOperations   prometheus.Gauge
	resolveTime         prometheus.Histogram
	catchUpTime         prometheus.Histogram
	txnsRejected        prometheus.Counter
}

// NewMetrics creates instance of prometheus metrics.
func NewMetrics() metrics.Metrics {
	pm := &PromMetrics{
		operationsSubmitted: newCounter(metrics.Writer, metrics.WriterOperationsSubmitted,
			"The number of operations accepted by the anchor writer.", nil),
		flushTime: newHistogram(metrics.Writer, metrics.WriterFlushTimeMetric,
			"The time (in seconds) it takes to write a batch and its anchor.", nil),
		batchSize: newHistogram(metrics.Writer, metrics.WriterBatchSizeMetric,
			"The number of operations in a written batch.", nil),
		channelWriteTime: newHistogram(metrics.Writer, metrics.WriterChannelWriteTimeMetric,
			"The time (in seconds) it takes the channel to acknowledge an anchor.", nil),
		channelWriteRetries: newCounter(metrics.Writer, metrics.WriterChannelWriteRetries,
			"The number of retried channel writes.", nil),
		batchesRejected: newCounter(metrics.Writer, metrics.WriterBatchesRejected,
			"The number of batches rejected because of a sequence conflict.", nil),
		pendingOperations: newGauge(metrics.Writer, metrics.WriterPendingOperationsMetric,
			"The number of operations waiting to be anchored.", nil),
		resolveTime: newHistogram(metrics.Resolver, metrics.ResolverResolveTime,
			"The time (in seconds) it takes to resolve a document.", nil),
		catchUpTime: newHistogram(metrics.Resolver, metrics.ResolverCatchUpTime,
			"The time (in seconds) it takes to process new channel transactions.", nil),
		txnsRejected: newCounter(metrics.Resolver, metrics.ResolverTxnsRejected,
			"The number of channel transactions whose files failed verification.", nil),
	}

	registerMetrics(pm)

	return pm
}

// OperationSubmitted increments the number of submitted operations.
func (pm *PromMetrics) OperationSubmitted() {
	pm.operationsSubmitted.Inc()
}

// FlushTime records the time for a flush.
func (pm *PromMetrics) FlushTime(value time.Duration) {
	pm.flushTime.Observe(value.Seconds())

	logger.Debug("writer flush time", log.WithDuration(value))
}

// BatchSize records the size of a written batch.
func (pm *PromMetrics) BatchSize(value int) {
	pm.batchSize.Observe(float64(value))
}

// ChannelWriteTime records the time for the channel to acknowledge an anchor.
func (pm *PromMetrics) ChannelWriteTime(value time.Duration) {
	pm.channelWriteTime.Observe(value.Seconds())

	logger.Debug("channel write time", log.WithDuration(value))
}

// ChannelWriteRetry increments the number of channel write retries.
func (pm *PromMetrics) ChannelWriteRetry() {
	pm.channelWriteRetries.Inc()
}

// BatchRejected increments the number of rejected batches.
func (pm *PromMetrics) BatchRejected() {
	pm.batchesRejected.Inc()
}

// PendingOperations sets the number of operations waiting to be anchored.
func (pm *PromMetrics) PendingOperations(value int) {
	pm.pendingOperations.Set(float64(value))
}

// ResolveTime records the time to resolve a document.
func (pm *PromMetrics) ResolveTime(value time.Duration) {
	pm.resolveTime.Observe(value.Seconds())

	logger.Debug("resolve time", log.WithDuration(value))
}

// CatchUpTime records the time to process new channel transactions.
func (pm *PromMetrics) CatchUpTime(value time.Duration) {
	pm.catchUpTime.Observe(value.Seconds())
}

// TxnRejected increments the number of rejected channel transactions.
func (pm *PromMetrics) TxnRejected() {
	pm.txnsRejected.Inc()
}

func registerMetrics(pm *PromMetrics) {
	prometheus.MustRegister(
		pm.operationsSubmitted, pm.flushTime, pm.batchSize, pm.channelWriteTime, pm.channelWriteRetries,
		pm.batchesRejected, pm.pendingOperations, pm.resolveTime, pm.catchUpTime, pm.txnsRejected,
	)
}

func newCounter(subsystem, name, help string, labels prometheus.Labels) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   metrics.Namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: labels,
	})
}

func newGauge(subsystem, name, help string, labels prometheus.Labels) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   metrics.Namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: labels,
	})
}

func newHistogram(subsystem, name, help string, labels prometheus.Labels) prometheus.Histogram {
	return prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace:   metrics.Namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: labels,
	})
}
