/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resolver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bluele/gcache"
	jsonpatch "github.com/evanphx/json-patch"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/sidetree-node/internal/logfields"
	"github.com/trustbloc/sidetree-node/pkg/channel"
	"github.com/trustbloc/sidetree-node/pkg/document"
	"github.com/trustbloc/sidetree-node/pkg/hashing"
	"github.com/trustbloc/sidetree-node/pkg/observability/metrics"
	"github.com/trustbloc/sidetree-node/pkg/observability/metrics/noop"
)

var logger = log.New("sidetree-resolver")

const defaultCacheSize = 1000

type casClient interface {
	Read(ctx context.Context, address string) ([]byte, error)
}

type pendingView interface {
	IsPending(ctx context.Context, id string) (bool, error)
}

// Resolver replays the anchored operations of a channel to resolve documents.
type Resolver struct {
	channelName string
	cas         casClient
	ledger      channel.Channel
	metrics     metrics.Metrics
	pending     pendingView
	hashCode    uint64

	anchorCache gcache.Cache
	batchCache  gcache.Cache

	// serializes applying txns so that every txn is applied exactly once, in channel order
	catchUpMutex sync.Mutex

	mutex          sync.RWMutex
	lastProcessed  uint64
	appliedAnchors map[string]struct{}
	docs           map[string]*docState
	index          map[string][]*document.AnchoredOperation
	rejectedTxns   map[uint64]error
	rejectedIDs    map[string]struct{}
}

type docState struct {
	ops       []*document.AnchoredOperation
	sequences map[uint64]struct{}
	latest    uint64
	conflict  *document.ConflictError
}

// Opt is a Resolver option.
type Opt func(r *Resolver)

// WithMetrics sets the metrics.
func WithMetrics(m metrics.Metrics) Opt {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithHashAlgorithm sets the multihash code used for the addresses of patched content.
func WithHashAlgorithm(code uint64) Opt {
	return func(r *Resolver) {
		r.hashCode = code
	}
}

// WithCacheSize sets the number of anchor and batch files kept in memory.
func WithCacheSize(size int) Opt {
	return func(r *Resolver) {
		r.anchorCache = gcache.New(size).LRU().Build()
		r.batchCache = gcache.New(size).LRU().Build()
	}
}

// New returns a Resolver reading anchors from ledger and files through the verifying cas client.
func New(channelName string, casClient casClient, ledger channel.Channel, opts ...Opt) *Resolver {
	r := &Resolver{
		channelName:    channelName,
		cas:            casClient,
		ledger:         ledger,
		metrics:        noop.GetMetrics(),
		hashCode:       hashing.DefaultAlgorithmCode,
		anchorCache:    gcache.New(defaultCacheSize).LRU().Build(),
		batchCache:     gcache.New(defaultCacheSize).LRU().Build(),
		appliedAnchors: make(map[string]struct{}),
		docs:           make(map[string]*docState),
		index:          make(map[string][]*document.AnchoredOperation),
		rejectedTxns:   make(map[uint64]error),
		rejectedIDs:    make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// SetPendingView sets the view of the operations that were submitted but not yet anchored.
func (r *Resolver) SetPendingView(pending pendingView) {
	r.pending = pending
}

// ResolveByID returns the latest version of the document.
func (r *Resolver) ResolveByID(ctx context.Context, did string) (*document.Document, error) {
	start := time.Now()
	defer func() {
		r.metrics.ResolveTime(time.Since(start))
	}()

	if err := r.catchUp(ctx); err != nil {
		return nil, err
	}

	ops, err := r.documentOperations(did)
	if err != nil {
		return nil, err
	}

	versions, err := r.replay(ctx, ops)
	if err != nil {
		return nil, err
	}

	if len(versions) == 0 {
		return nil, fmt.Errorf("document [%s]: %w", did, document.ErrNotFound)
	}

	return versions[len(versions)-1], nil
}

// ResolveVersionsByIndex returns every anchored version of the documents written under indexID,
// in channel order and, within a batch, in batch order.
func (r *Resolver) ResolveVersionsByIndex(ctx context.Context, indexID string) ([]*document.Document, error) {
	start := time.Now()
	defer func() {
		r.metrics.ResolveTime(time.Since(start))
	}()

	if err := r.catchUp(ctx); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	indexed := append([]*document.AnchoredOperation(nil), r.index[indexID]...)
	r.mutex.RUnlock()

	if len(indexed) == 0 {
		return nil, fmt.Errorf("index [%s]: %w", indexID, document.ErrNotFound)
	}

	versionsByOp := make(map[opKey]*document.Document)

	for _, op := range indexed {
		if _, ok := versionsByOp[keyOf(op)]; ok {
			continue
		}

		ops, err := r.documentOperations(op.ID)
		if err != nil {
			return nil, err
		}

		versions, err := r.replay(ctx, ops)
		if err != nil {
			return nil, err
		}

		for _, v := range versions {
			versionsByOp[opKey{txn: v.TransactionNumber, id: v.ID, sequence: v.Sequence}] = v
		}
	}

	var result []*document.Document

	for _, op := range indexed {
		if v, ok := versionsByOp[keyOf(op)]; ok {
			result = append(result, v)
		}
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("index [%s]: %w", indexID, document.ErrNotFound)
	}

	return result, nil
}

// DocumentState returns the lifecycle state of the document.
func (r *Resolver) DocumentState(ctx context.Context, did string) (document.State, error) {
	_, err := r.ResolveByID(ctx, did)

	switch {
	case err == nil:
		return document.StateResolved, nil
	case errors.Is(err, document.ErrVerification), errors.Is(err, document.ErrConflict):
		return document.StateRejected, nil
	case !errors.Is(err, document.ErrNotFound):
		return document.StateUnknown, err
	}

	r.mutex.RLock()
	_, anchored := r.docs[did]
	_, rejected := r.rejectedIDs[did]
	r.mutex.RUnlock()

	if anchored {
		// anchored, but the content is not available from the store yet
		return document.StateAnchored, nil
	}

	if r.pending != nil {
		pending, err := r.pending.IsPending(ctx, did)
		if err != nil {
			return document.StateUnknown, err
		}

		if pending {
			return document.StatePending, nil
		}
	}

	if rejected {
		return document.StateRejected, nil
	}

	return document.StateUnknown, nil
}

// LatestSequence returns the highest anchored sequence of the document.
func (r *Resolver) LatestSequence(ctx context.Context, did string) (uint64, error) {
	if err := r.catchUp(ctx); err != nil {
		return 0, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	d, ok := r.docs[did]
	if !ok {
		return 0, fmt.Errorf("document [%s]: %w", did, document.ErrNotFound)
	}

	return d.latest, nil
}

// AnchoredOperation returns the anchored operation of the document with the given sequence, or
// document.ErrNotFound.
func (r *Resolver) AnchoredOperation(ctx context.Context, did string,
	sequence uint64) (*document.AnchoredOperation, error) {
	if err := r.catchUp(ctx); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if d, ok := r.docs[did]; ok {
		for _, op := range d.ops {
			if op.Sequence == sequence {
				c := *op
				c.Operation = op.Operation.Copy()

				return &c, nil
			}
		}
	}

	return nil, fmt.Errorf("document [%s] sequence %d: %w", did, sequence, document.ErrNotFound)
}

// Refresh applies the txns written to the channel since the last resolution.
func (r *Resolver) Refresh(ctx context.Context) error {
	return r.catchUp(ctx)
}

// RejectedTxns returns the numbers of the txns whose files failed verification or decoding.
func (r *Resolver) RejectedTxns() map[uint64]error {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	rejected := make(map[uint64]error, len(r.rejectedTxns))

	for n, err := range r.rejectedTxns {
		rejected[n] = err
	}

	return rejected
}

func (r *Resolver) documentOperations(did string) ([]*document.AnchoredOperation, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	d, ok := r.docs[did]
	if !ok {
		return nil, fmt.Errorf("document [%s]: %w", did, document.ErrNotFound)
	}

	if d.conflict != nil {
		return nil, d.conflict
	}

	return append([]*document.AnchoredOperation(nil), d.ops...), nil
}

// replay applies the operations of a single document and returns one version per applied operation.
func (r *Resolver) replay(ctx context.Context, ops []*document.AnchoredOperation) ([]*document.Document, error) {
	var (
		versions []*document.Document
		current  *document.Document
	)

	for _, op := range ops {
		if current != nil && current.Deactivated {
			logger.Debugc(ctx, "Ignoring operation on deactivated document", logfields.WithDID(op.ID),
				logfields.WithSequence(op.Sequence))

			continue
		}

		next, err := r.apply(ctx, current, op)
		if err != nil {
			if errors.Is(err, document.ErrInvalidOperation) {
				logger.Warnc(ctx, "Skipping operation that cannot be applied", logfields.WithDID(op.ID),
					logfields.WithSequence(op.Sequence), log.WithError(err))

				continue
			}

			return nil, err
		}

		next.Version = len(versions) + 1
		versions = append(versions, next)
		current = next
	}

	return versions, nil
}

func (r *Resolver) apply(ctx context.Context, current *document.Document,
	op *document.AnchoredOperation) (*document.Document, error) {
	next := &document.Document{
		ID:                op.ID,
		IndexID:           op.IndexID,
		Sequence:          op.Sequence,
		TransactionNumber: op.TransactionNumber,
		AnchorAddress:     op.AnchorAddress,
	}

	switch op.Type {
	case document.OperationTypeCreate, document.OperationTypeUpdate:
		content, err := r.cas.Read(ctx, op.ContentAddress)
		if err != nil {
			return nil, fmt.Errorf("read content of [%s]: %w", op.ID, err)
		}

		next.Content = content
		next.ContentAddress = op.ContentAddress
	case document.OperationTypePatch:
		if current == nil {
			return nil, document.NewInvalidOperationError("patch without prior content")
		}

		content, err := applyPatch(current.Content, op.Patch)
		if err != nil {
			return nil, err
		}

		address, err := hashing.CalculateAddressWith(r.hashCode, content)
		if err != nil {
			return nil, err
		}

		next.Content = content
		next.ContentAddress = address
	case document.OperationTypeDeactivate:
		if current == nil {
			return nil, document.NewInvalidOperationError("deactivate without prior content")
		}

		next.Content = current.Content
		next.ContentAddress = current.ContentAddress
		next.Deactivated = true
	default:
		return nil, document.NewInvalidOperationError(fmt.Sprintf("unsupported operation type [%s]", op.Type))
	}

	return next, nil
}

func applyPatch(content []byte, patch []byte) ([]byte, error) {
	p, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, document.NewInvalidOperationError(fmt.Sprintf("decode patch: %s", err))
	}

	patched, err := p.Apply(content)
	if err != nil {
		return nil, document.NewInvalidOperationError(fmt.Sprintf("apply patch: %s", err))
	}

	canonical, err := hashing.Canonicalize(patched)
	if err != nil {
		return nil, document.NewInvalidOperationError(err.Error())
	}

	return canonical, nil
}

type opKey struct {
	txn      uint64
	id       string
	sequence uint64
}

func keyOf(op *document.AnchoredOperation) opKey {
	return opKey{txn: op.TransactionNumber, id: op.ID, sequence: op.Sequence}
}
