/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anchor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	jsonpatch "github.com/evanphx/json-patch"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/sidetree-node/internal/logfields"
	"github.com/trustbloc/sidetree-node/pkg/cas"
	"github.com/trustbloc/sidetree-node/pkg/channel"
	"github.com/trustbloc/sidetree-node/pkg/document"
	"github.com/trustbloc/sidetree-node/pkg/event/spi"
	"github.com/trustbloc/sidetree-node/pkg/hashing"
	"github.com/trustbloc/sidetree-node/pkg/lifecycle"
	"github.com/trustbloc/sidetree-node/pkg/observability/metrics"
	"github.com/trustbloc/sidetree-node/pkg/observability/metrics/noop"
)

var logger = log.New("sidetree-writer")

const (
	defaultMaxBatchSize        = 100
	defaultBatchInterval       = 10 * time.Second
	defaultChannelWriteRetries = 5
	defaultChannelWriteBackoff = 500 * time.Millisecond
	maxChannelWriteBackoff     = 10 * time.Second
)

type casClient interface {
	Write(ctx context.Context, content []byte, opts ...cas.PutOption) (string, error)
}

// anchoredState is the view of the operations already anchored on the channel.
type anchoredState interface {
	// LatestSequence returns document.ErrNotFound for a document without anchored operations.
	LatestSequence(ctx context.Context, id string) (uint64, error)
	// AnchoredOperation returns document.ErrNotFound if no operation with the sequence was anchored.
	AnchoredOperation(ctx context.Context, id string, sequence uint64) (*document.AnchoredOperation, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, eventType spi.EventType, data interface{}) error
}

// Config holds the configuration and collaborators of the Writer.
type Config struct {
	// Channel is the name of the channel, used in events and logs.
	Channel string
	// DIDMethod is the method used for the DIDs derived for creates without an ID.
	DIDMethod string
	// MaxBatchSize is the maximum number of operations per batch. Reaching it triggers a flush.
	MaxBatchSize int
	// BatchInterval is the period of the background flush.
	BatchInterval time.Duration
	// ChannelWriteRetries is the number of retries of a failed channel write.
	ChannelWriteRetries uint64
	// ChannelWriteBackoff is the initial backoff between channel write retries.
	ChannelWriteBackoff time.Duration
	// HashAlgorithm is the multihash code of the content addresses. It must match the CAS client.
	HashAlgorithm uint64
	// MaxOperationSize bounds the content or patch size of an operation. Zero means unbounded.
	MaxOperationSize int

	CAS            casClient
	Ledger         channel.Channel
	Queue          OperationQueue
	Anchored       anchoredState
	EventPublisher eventPublisher
	Metrics        metrics.Metrics
}

// Writer batches submitted operations and anchors them on the channel.
type Writer struct {
	*lifecycle.Lifecycle

	channelName         string
	didMethod           string
	maxBatchSize        int
	batchInterval       time.Duration
	channelWriteRetries uint64
	channelWriteBackoff time.Duration
	hashAlgorithm       uint64
	maxOperationSize    int

	cas       casClient
	ledger    channel.Channel
	queue     OperationQueue
	anchored  anchoredState
	publisher eventPublisher
	metrics   metrics.Metrics

	// serializes sequence assignment with the queue contents
	submitMutex sync.Mutex
	flushMutex  sync.Mutex

	flushChan chan struct{}
	doneChan  chan struct{}
	wg        sync.WaitGroup
}

// New returns a new anchor Writer.
func New(cfg *Config) (*Writer, error) {
	if cfg.CAS == nil || cfg.Ledger == nil || cfg.Anchored == nil {
		return nil, errors.New("missing store, channel or anchored state")
	}

	w := &Writer{
		channelName:         cfg.Channel,
		didMethod:           cfg.DIDMethod,
		maxBatchSize:        cfg.MaxBatchSize,
		batchInterval:       cfg.BatchInterval,
		channelWriteRetries: cfg.ChannelWriteRetries,
		channelWriteBackoff: cfg.ChannelWriteBackoff,
		hashAlgorithm:       cfg.HashAlgorithm,
		maxOperationSize:    cfg.MaxOperationSize,
		cas:                 cfg.CAS,
		ledger:              cfg.Ledger,
		queue:               cfg.Queue,
		anchored:            cfg.Anchored,
		publisher:           cfg.EventPublisher,
		metrics:             cfg.Metrics,
		flushChan:           make(chan struct{}, 1),
		doneChan:            make(chan struct{}),
	}

	if w.maxBatchSize <= 0 {
		w.maxBatchSize = defaultMaxBatchSize
	}

	if w.batchInterval <= 0 {
		w.batchInterval = defaultBatchInterval
	}

	if w.channelWriteRetries == 0 {
		w.channelWriteRetries = defaultChannelWriteRetries
	}

	if w.channelWriteBackoff <= 0 {
		w.channelWriteBackoff = defaultChannelWriteBackoff
	}

	if w.hashAlgorithm == 0 {
		w.hashAlgorithm = hashing.DefaultAlgorithmCode
	}

	if err := hashing.ValidateAlgorithm(w.hashAlgorithm); err != nil {
		return nil, err
	}

	if w.queue == nil {
		w.queue = NewMemQueue()
	}

	if w.metrics == nil {
		w.metrics = noop.GetMetrics()
	}

	w.Lifecycle = lifecycle.New("anchor-writer-"+cfg.Channel,
		lifecycle.WithStart(w.start),
		lifecycle.WithStop(w.stop),
	)

	return w, nil
}

// Submit validates op, assigns its sequence and enqueues it. The returned operation carries the
// assigned ID, sequence and content address.
func (w *Writer) Submit(ctx context.Context, op *document.Operation) (*document.Operation, error) {
	if op == nil {
		return nil, document.NewInvalidOperationError("missing operation")
	}

	op = op.Copy()

	if err := validate(op); err != nil {
		return nil, err
	}

	if size := len(op.Content) + len(op.Patch); w.maxOperationSize > 0 && size > w.maxOperationSize {
		return nil, document.NewInvalidOperationError(
			fmt.Sprintf("operation size %d exceeds the maximum of %d bytes", size, w.maxOperationSize))
	}

	if op.Type == document.OperationTypeCreate || op.Type == document.OperationTypeUpdate {
		if err := w.prepareContent(op); err != nil {
			return nil, err
		}
	}

	w.submitMutex.Lock()
	defer w.submitMutex.Unlock()

	latest, err := w.latestSequence(ctx, op.ID)

	switch {
	case err == nil && op.Type == document.OperationTypeCreate:
		return nil, &document.ConflictError{ID: op.ID, Sequence: latest}
	case errors.Is(err, document.ErrNotFound) && op.Type != document.OperationTypeCreate:
		return nil, fmt.Errorf("document [%s]: %w", op.ID, document.ErrNotFound)
	case err != nil && !errors.Is(err, document.ErrNotFound):
		return nil, err
	}

	if op.Sequence == 0 {
		op.Sequence = latest + 1
	}

	if op.IndexID == "" {
		op.IndexID = op.ID
	}

	op.SubmittedAt = time.Now().UTC().Truncate(time.Millisecond)

	n, err := w.queue.Add(ctx, op)
	if err != nil {
		return nil, fmt.Errorf("enqueue operation: %w", err)
	}

	w.metrics.OperationSubmitted()
	w.metrics.PendingOperations(n)

	logger.Debugc(ctx, "Operation submitted", logfields.WithChannel(w.channelName), logfields.WithDID(op.ID),
		logfields.WithOperationType(string(op.Type)), logfields.WithSequence(op.Sequence))

	if n >= w.maxBatchSize {
		w.signalFlush()
	}

	return op, nil
}

// IsPending returns true if an operation for id is waiting to be anchored.
func (w *Writer) IsPending(ctx context.Context, id string) (bool, error) {
	ops, err := w.queue.List(ctx)
	if err != nil {
		return false, fmt.Errorf("list pending operations: %w", err)
	}

	for _, op := range ops {
		if op.ID == id {
			return true, nil
		}
	}

	return false, nil
}

// Flush anchors up to MaxBatchSize queued operations and returns the anchor address. It
// returns an empty address when nothing is queued. At most one flush runs at a time.
func (w *Writer) Flush(ctx context.Context) (string, error) {
	w.flushMutex.Lock()
	defer w.flushMutex.Unlock()

	start := time.Now()

	ops, err := w.queue.Peek(ctx, w.maxBatchSize)
	if err != nil {
		return "", fmt.Errorf("read pending operations: %w", err)
	}

	if len(ops) == 0 {
		return "", nil
	}

	plan, err := w.planBatch(ctx, ops)
	if err != nil {
		return "", err
	}

	if plan.conflict != nil {
		if err = w.reject(ctx, ops, plan); err != nil {
			return "", err
		}

		return "", plan.conflict
	}

	if len(plan.batch) == 0 {
		// The operations were anchored by an earlier flush that failed to remove them.
		if err = w.queue.Remove(ctx, len(ops)); err != nil {
			return "", fmt.Errorf("remove anchored operations: %w", err)
		}

		logger.Infoc(ctx, "Dropped operations that were already anchored", logfields.WithChannel(w.channelName),
			logfields.WithAnchorAddress(plan.anchorAddress), logfields.WithBatchSize(len(ops)))

		return plan.anchorAddress, nil
	}

	anchorFile, anchorAddress, err := w.writeFiles(ctx, plan.batch)
	if err != nil {
		return "", err
	}

	// An issued channel write is never cancelled.
	txn, err := w.writeToChannel(context.WithoutCancel(ctx), anchorAddress)
	if err != nil {
		logger.Errorc(ctx, "Failed to write anchor to channel", logfields.WithChannel(w.channelName),
			logfields.WithAnchorAddress(anchorAddress), log.WithError(err))

		return "", err
	}

	if err = w.queue.Remove(context.WithoutCancel(ctx), len(ops)); err != nil {
		// The next flush finds the operations anchored and drops them.
		return anchorAddress, fmt.Errorf("remove anchored operations: %w", err)
	}

	w.metrics.FlushTime(time.Since(start))
	w.metrics.BatchSize(len(plan.batch))

	if n, err := w.queue.Len(ctx); err == nil {
		w.metrics.PendingOperations(n)
	}

	logger.Infoc(ctx, "Batch anchored", logfields.WithChannel(w.channelName),
		logfields.WithAnchorAddress(anchorAddress), logfields.WithTxnNumber(txn.Number),
		logfields.WithBatchSize(len(plan.batch)))

	w.publish(ctx, spi.AnchorWritten, &spi.AnchorWrittenData{
		Channel:          w.channelName,
		AnchorAddress:    anchorAddress,
		BatchFileAddress: anchorFile.BatchFileAddress,
		TxnNumber:        txn.Number,
		IDs:              anchorFile.IDs,
	})

	return anchorAddress, nil
}

func (w *Writer) prepareContent(op *document.Operation) error {
	content, err := hashing.Canonicalize(op.Content)
	if err != nil {
		return document.NewInvalidOperationError(err.Error())
	}

	address, err := hashing.CalculateAddressWith(w.hashAlgorithm, content)
	if err != nil {
		return err
	}

	op.Content = content
	op.ContentAddress = address

	if op.ID == "" {
		op.ID = fmt.Sprintf("did:%s:%s", w.didMethod, address)
	}

	return nil
}

// latestSequence returns the highest sequence for id across anchored and pending operations. The
// queue is read first: a flush writes the channel before it removes the operations, so an
// operation removed after the queue was read is visible in the anchored view.
func (w *Writer) latestSequence(ctx context.Context, id string) (uint64, error) {
	ops, err := w.queue.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list pending operations: %w", err)
	}

	latest, err := w.anchored.LatestSequence(ctx, id)
	if err != nil && !errors.Is(err, document.ErrNotFound) {
		return 0, fmt.Errorf("anchored sequence: %w", err)
	}

	found := err == nil

	for _, op := range ops {
		if op.ID != id {
			continue
		}

		found = true

		if op.Sequence > latest {
			latest = op.Sequence
		}
	}

	if !found {
		return 0, document.ErrNotFound
	}

	return latest, nil
}

type batchPlan struct {
	// batch holds the operations to anchor, in queue order.
	batch []*document.Operation
	// rejected holds the operations that conflict with each other or with an anchored operation.
	rejected []*document.Operation
	conflict *document.ConflictError
	// anchorAddress is the anchor of an operation found already anchored.
	anchorAddress string
}

// planBatch splits the peeked operations into the ones to anchor, the ones in conflict and the
// ones an earlier flush already anchored.
func (w *Writer) planBatch(ctx context.Context, ops []*document.Operation) (*batchPlan, error) {
	type key struct {
		id       string
		sequence uint64
	}

	counts := make(map[key]int)

	for _, op := range ops {
		counts[key{op.ID, op.Sequence}]++
	}

	plan := &batchPlan{}

	for _, op := range ops {
		if counts[key{op.ID, op.Sequence}] > 1 {
			plan.reject(op)

			continue
		}

		anchored, err := w.anchored.AnchoredOperation(ctx, op.ID, op.Sequence)

		switch {
		case errors.Is(err, document.ErrNotFound):
			plan.batch = append(plan.batch, op)
		case err != nil:
			return nil, fmt.Errorf("check anchored sequence: %w", err)
		case sameOperation(op, anchored.Operation):
			plan.anchorAddress = anchored.AnchorAddress
		default:
			plan.reject(op)
		}
	}

	return plan, nil
}

func (p *batchPlan) reject(op *document.Operation) {
	p.rejected = append(p.rejected, op)

	if p.conflict == nil {
		p.conflict = &document.ConflictError{ID: op.ID, Sequence: op.Sequence}
	}
}

func sameOperation(op, anchored *document.Operation) bool {
	indexID := anchored.IndexID
	if indexID == "" {
		indexID = anchored.ID
	}

	return op.Type == anchored.Type &&
		op.IndexID == indexID &&
		op.ContentAddress == anchored.ContentAddress &&
		op.SubmittedAt.Equal(anchored.SubmittedAt) &&
		samePatch(op.Patch, anchored.Patch)
}

func samePatch(a, b json.RawMessage) bool {
	if len(a) == 0 || len(b) == 0 {
		return len(a) == len(b)
	}

	ca, cb := &bytes.Buffer{}, &bytes.Buffer{}

	if json.Compact(ca, a) != nil || json.Compact(cb, b) != nil {
		return bytes.Equal(a, b)
	}

	return bytes.Equal(ca.Bytes(), cb.Bytes())
}

// reject drops the conflicting operations and the ones already anchored. The other operations stay
// queued, in order, for the next flush.
func (w *Writer) reject(ctx context.Context, ops []*document.Operation, plan *batchPlan) error {
	conflictErr := plan.conflict

	if err := w.queue.Replace(ctx, len(ops), plan.batch); err != nil {
		return fmt.Errorf("remove rejected operations: %w", err)
	}

	logger.Warnc(ctx, "Rejected conflicting operations", logfields.WithChannel(w.channelName),
		logfields.WithDID(conflictErr.ID), logfields.WithSequence(conflictErr.Sequence),
		logfields.WithBatchSize(len(plan.rejected)))

	w.metrics.BatchRejected()

	w.publish(ctx, spi.BatchRejected, &spi.BatchRejectedData{
		Channel:        w.channelName,
		ID:             conflictErr.ID,
		Sequence:       conflictErr.Sequence,
		OperationCount: len(plan.rejected),
		Reason:         conflictErr.Error(),
	})

	return nil
}

// writeFiles stores the operation content, the batch file and the anchor file.
func (w *Writer) writeFiles(ctx context.Context, ops []*document.Operation) (*document.AnchorFile, string, error) {
	batch := &document.BatchFile{Operations: make([]*document.Operation, len(ops))}
	ids := make([]string, len(ops))

	for i, op := range ops {
		if len(op.Content) > 0 {
			address, err := w.cas.Write(ctx, op.Content)
			if err != nil {
				return nil, "", fmt.Errorf("write operation content: %w", err)
			}

			if address != op.ContentAddress {
				return nil, "", fmt.Errorf("content address mismatch for [%s]: %w", op.ID, document.ErrVerification)
			}
		}

		batchOp := op.Copy()
		batchOp.Content = nil

		batch.Operations[i] = batchOp
		ids[i] = op.ID
	}

	batchBytes, err := document.MarshalBatchFile(batch)
	if err != nil {
		return nil, "", err
	}

	batchAddress, err := w.cas.Write(ctx, batchBytes)
	if err != nil {
		return nil, "", fmt.Errorf("write batch file: %w", err)
	}

	anchorFile := &document.AnchorFile{
		BatchFileAddress: batchAddress,
		OperationCount:   len(ops),
		IDs:              ids,
	}

	anchorBytes, err := document.MarshalAnchorFile(anchorFile)
	if err != nil {
		return nil, "", err
	}

	anchorAddress, err := w.cas.Write(ctx, anchorBytes)
	if err != nil {
		return nil, "", fmt.Errorf("write anchor file: %w", err)
	}

	return anchorFile, anchorAddress, nil
}

func (w *Writer) writeToChannel(ctx context.Context, anchorAddress string) (*document.Txn, error) {
	start := time.Now()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = w.channelWriteBackoff
	b.MaxInterval = maxChannelWriteBackoff
	b.MaxElapsedTime = 0

	var (
		txn      *document.Txn
		attempts int
	)

	err := backoff.RetryNotify(
		func() error {
			attempts++

			var e error

			txn, e = w.ledger.Write(ctx, anchorAddress)

			return e
		},
		backoff.WithMaxRetries(b, w.channelWriteRetries),
		func(err error, sleep time.Duration) {
			w.metrics.ChannelWriteRetry()

			logger.Warnc(ctx, "Channel write failed, retrying", logfields.WithChannel(w.channelName),
				logfields.WithAnchorAddress(anchorAddress), logfields.WithAttempt(attempts),
				logfields.WithSleep(sleep), log.WithError(err))
		},
	)
	if err != nil {
		return nil, &document.ChannelWriteError{Attempts: attempts, Err: err}
	}

	w.metrics.ChannelWriteTime(time.Since(start))

	return txn, nil
}

func (w *Writer) publish(ctx context.Context, eventType spi.EventType, data interface{}) {
	if w.publisher == nil {
		return
	}

	if err := w.publisher.Publish(ctx, eventType, data); err != nil {
		logger.Warnc(ctx, "Failed to publish event", log.WithTopic(string(eventType)), log.WithError(err))
	}
}

func (w *Writer) signalFlush() {
	select {
	case w.flushChan <- struct{}{}:
	default:
	}
}

func (w *Writer) start() {
	w.wg.Add(1)

	go w.run()
}

func (w *Writer) stop() {
	close(w.doneChan)

	w.wg.Wait()
}

func (w *Writer) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.batchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.flushPending()
		case <-w.flushChan:
			w.flushPending()
		case <-w.doneChan:
			logger.Debug("Anchor writer stopped", logfields.WithChannel(w.channelName))

			return
		}
	}
}

func (w *Writer) flushPending() {
	ctx := context.Background()

	for {
		anchorAddress, err := w.Flush(ctx)
		if errors.Is(err, document.ErrConflict) {
			// the conflicting operations were dropped; the rest is still queued
			continue
		}

		if err != nil {
			logger.Error("Background flush failed", logfields.WithChannel(w.channelName), log.WithError(err))

			return
		}

		if anchorAddress == "" {
			return
		}

		n, err := w.queue.Len(ctx)
		if err != nil || n < w.maxBatchSize {
			return
		}
	}
}

func validate(op *document.Operation) error {
	if !op.Type.Valid() {
		return document.NewInvalidOperationError(fmt.Sprintf("unsupported operation type [%s]", op.Type))
	}

	if op.Type != document.OperationTypeCreate && op.ID == "" {
		return document.NewInvalidOperationError(fmt.Sprintf("%s requires an id", op.Type))
	}

	switch op.Type {
	case document.OperationTypeCreate, document.OperationTypeUpdate:
		if len(op.Content) == 0 {
			return document.NewInvalidOperationError(fmt.Sprintf("%s requires content", op.Type))
		}

		op.Patch = nil
	case document.OperationTypePatch:
		if _, err := jsonpatch.DecodePatch(op.Patch); err != nil || len(op.Patch) == 0 {
			return document.NewInvalidOperationError("patch requires a valid JSON patch")
		}

		op.Content = nil
	case document.OperationTypeDeactivate:
		op.Content = nil
		op.Patch = nil
	}

	return nil
}
