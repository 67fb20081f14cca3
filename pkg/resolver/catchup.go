/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/sidetree-node/internal/logfields"
	"github.com/trustbloc/sidetree-node/pkg/document"
)

var errMalformedFile = errors.New("malformed file")

// catchUp applies every txn written to the channel since the last processed txn. A txn whose files
// cannot be verified or decoded is rejected and skipped. Any other error stops the catch-up at the
// failing txn so that it is retried on the next call. Txns are applied strictly in number order: the
// catch-up stops before a missing number and resumes once the txn is readable.
func (r *Resolver) catchUp(ctx context.Context) error {
	r.mutex.RLock()
	since := r.lastProcessed
	r.mutex.RUnlock()

	txns, err := r.read(ctx, since)
	if err != nil || len(txns) == 0 {
		return err
	}

	r.catchUpMutex.Lock()
	defer r.catchUpMutex.Unlock()

	r.mutex.RLock()
	last := r.lastProcessed
	r.mutex.RUnlock()

	if last != since {
		// another catch-up ran meanwhile; read what is left
		if txns, err = r.read(ctx, last); err != nil || len(txns) == 0 {
			return err
		}
	}

	start := time.Now()
	defer func() {
		r.metrics.CatchUpTime(time.Since(start))
	}()

	for _, txn := range txns {
		if txn.Number != last+1 {
			logger.Debugc(ctx, "Txn is not readable yet", logfields.WithChannel(r.channelName),
				logfields.WithTxnNumber(last+1))

			break
		}

		if err = r.processTxn(ctx, txn); err != nil {
			return err
		}

		last = txn.Number
	}

	logger.Debugc(ctx, "Caught up with channel", logfields.WithChannel(r.channelName),
		logfields.WithTxnNumber(last))

	return nil
}

// read returns the txns after since, or none if the next txn is not readable yet.
func (r *Resolver) read(ctx context.Context, since uint64) ([]*document.Txn, error) {
	txns, err := r.ledger.Read(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("read channel [%s] since %d: %w", r.channelName, since, err)
	}

	if len(txns) == 0 || txns[0].Number != since+1 {
		return nil, nil
	}

	return txns, nil
}

func (r *Resolver) processTxn(ctx context.Context, txn *document.Txn) error {
	r.mutex.RLock()
	_, applied := r.appliedAnchors[txn.AnchorAddress]
	r.mutex.RUnlock()

	if applied {
		logger.Debugc(ctx, "Anchor was already applied", logfields.WithTxnNumber(txn.Number),
			logfields.WithAnchorAddress(txn.AnchorAddress))

		r.advance(txn)

		return nil
	}

	af, err := r.anchorFile(ctx, txn.AnchorAddress)
	if err != nil {
		return r.handleTxnError(ctx, txn, nil, err)
	}

	bf, err := r.batchFile(ctx, af)
	if err != nil {
		return r.handleTxnError(ctx, txn, af, err)
	}

	r.applyBatch(txn, bf)

	return nil
}

func (r *Resolver) handleTxnError(ctx context.Context, txn *document.Txn, af *document.AnchorFile, err error) error {
	if !errors.Is(err, document.ErrVerification) && !errors.Is(err, errMalformedFile) {
		return fmt.Errorf("process txn %d: %w", txn.Number, err)
	}

	logger.Warnc(ctx, "Rejecting txn", logfields.WithTxnNumber(txn.Number),
		logfields.WithAnchorAddress(txn.AnchorAddress), log.WithError(err))

	r.metrics.TxnRejected()

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.rejectedTxns[txn.Number] = err

	if af != nil {
		for _, id := range af.IDs {
			r.rejectedIDs[id] = struct{}{}
		}
	}

	r.lastProcessed = txn.Number

	return nil
}

func (r *Resolver) advance(txn *document.Txn) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.lastProcessed = txn.Number
}

func (r *Resolver) applyBatch(txn *document.Txn, bf *document.BatchFile) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, op := range bf.Operations {
		anchored := &document.AnchoredOperation{
			Operation:         op.Copy(),
			TransactionNumber: txn.Number,
			AnchorAddress:     txn.AnchorAddress,
			OperationIndex:    i,
		}

		if anchored.IndexID == "" {
			anchored.IndexID = anchored.ID
		}

		d, ok := r.docs[op.ID]
		if !ok {
			if op.Type != document.OperationTypeCreate {
				logger.Warn("Ignoring operation for a document that was never created",
					logfields.WithDID(op.ID), logfields.WithOperationType(string(op.Type)),
					logfields.WithTxnNumber(txn.Number))

				continue
			}

			d = &docState{sequences: make(map[uint64]struct{})}
			r.docs[op.ID] = d
		} else if op.Type == document.OperationTypeCreate {
			logger.Warn("Ignoring create for an existing document", logfields.WithDID(op.ID),
				logfields.WithTxnNumber(txn.Number))

			continue
		}

		if _, exists := d.sequences[op.Sequence]; exists && d.conflict == nil {
			d.conflict = &document.ConflictError{ID: op.ID, Sequence: op.Sequence}

			logger.Error("Conflicting operation sequence", logfields.WithDID(op.ID),
				logfields.WithSequence(op.Sequence), logfields.WithTxnNumber(txn.Number))
		}

		d.ops = append(d.ops, anchored)
		d.sequences[op.Sequence] = struct{}{}

		if op.Sequence > d.latest {
			d.latest = op.Sequence
		}

		r.index[anchored.IndexID] = append(r.index[anchored.IndexID], anchored)
	}

	r.appliedAnchors[txn.AnchorAddress] = struct{}{}
	r.lastProcessed = txn.Number
}

func (r *Resolver) anchorFile(ctx context.Context, address string) (*document.AnchorFile, error) {
	if cached, err := r.anchorCache.Get(address); err == nil {
		return cached.(*document.AnchorFile), nil
	}

	b, err := r.cas.Read(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("read anchor file [%s]: %w", address, err)
	}

	af, err := document.UnmarshalAnchorFile(b)
	if err != nil {
		return nil, fmt.Errorf("%w: anchor file [%s]: %s", errMalformedFile, address, err)
	}

	if err = r.anchorCache.Set(address, af); err != nil {
		logger.Warnc(ctx, "Failed to cache anchor file", logfields.WithAddress(address), log.WithError(err))
	}

	return af, nil
}

func (r *Resolver) batchFile(ctx context.Context, af *document.AnchorFile) (*document.BatchFile, error) {
	address := af.BatchFileAddress

	if cached, err := r.batchCache.Get(address); err == nil {
		return cached.(*document.BatchFile), nil
	}

	b, err := r.cas.Read(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("read batch file [%s]: %w", address, err)
	}

	bf, err := document.UnmarshalBatchFile(b)
	if err != nil {
		return nil, fmt.Errorf("%w: batch file [%s]: %s", errMalformedFile, address, err)
	}

	if err = checkBatch(af, bf); err != nil {
		return nil, fmt.Errorf("%w: batch file [%s]: %s", errMalformedFile, address, err)
	}

	if err = r.batchCache.Set(address, bf); err != nil {
		logger.Warnc(ctx, "Failed to cache batch file", logfields.WithAddress(address), log.WithError(err))
	}

	return bf, nil
}

func checkBatch(af *document.AnchorFile, bf *document.BatchFile) error {
	if len(bf.Operations) != af.OperationCount {
		return fmt.Errorf("batch has %d operations but the anchor file references %d",
			len(bf.Operations), af.OperationCount)
	}

	for i, op := range bf.Operations {
		if op == nil || op.ID == "" {
			return fmt.Errorf("operation %d has no id", i)
		}

		if op.ID != af.IDs[i] {
			return fmt.Errorf("operation %d is for [%s] but the anchor file lists [%s]", i, op.ID, af.IDs[i])
		}

		if !op.Type.Valid() {
			return fmt.Errorf("operation %d has an unsupported type [%s]", i, op.Type)
		}
	}

	return nil
}
