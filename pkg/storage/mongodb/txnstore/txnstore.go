/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package txnstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trustbloc/sidetree-node/pkg/document"
	"github.com/trustbloc/sidetree-node/pkg/storage/mongodb"
)

const (
	txnCollectionPrefix = "sidetreetxn_"
	maxWriteRetries     = 20
	writeRetryInterval  = 10 * time.Millisecond
)

type txnDocument struct {
	Number        uint64    `bson:"_id"`
	AnchorAddress string    `bson:"anchorAddress"`
	Time          time.Time `bson:"time"`
}

// Store is a channel backed by a MongoDB collection.
type Store struct {
	mongoClient *mongodb.Client
	channel     string
	collection  string
}

// NewStore creates a Store for the named channel.
func NewStore(mongoClient *mongodb.Client, channel string) *Store {
	return &Store{
		mongoClient: mongoClient,
		channel:     channel,
		collection:  txnCollectionPrefix + channel,
	}
}

// Write appends anchorAddress under the number following the highest written txn. The number is the
// unique _id of the txn, so a txn is inserted only after every lower number and concurrent writers
// that pick the same number retry with the next one.
func (s *Store) Write(ctx context.Context, anchorAddress string) (*document.Txn, error) {
	collection := s.mongoClient.Database().Collection(s.collection)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = writeRetryInterval
	b.MaxElapsedTime = 0

	var doc *txnDocument

	err := backoff.Retry(func() error {
		last, err := s.lastNumber(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}

		doc = &txnDocument{
			Number:        last + 1,
			AnchorAddress: anchorAddress,
			Time:          time.Now().UTC().Truncate(time.Millisecond),
		}

		_, err = collection.InsertOne(ctx, doc)

		switch {
		case err == nil:
			return nil
		case mongo.IsDuplicateKeyError(err):
			return err
		default:
			return backoff.Permanent(err)
		}
	}, backoff.WithContext(backoff.WithMaxRetries(b, maxWriteRetries), ctx))
	if err != nil {
		return nil, fmt.Errorf("insert txn on channel [%s]: %w", s.channel, err)
	}

	return doc.toTxn(), nil
}

// Read returns the txns after since, ordered by number.
func (s *Store) Read(ctx context.Context, since uint64) ([]*document.Txn, error) {
	cursor, err := s.mongoClient.Database().Collection(s.collection).Find(ctx,
		bson.M{"_id": bson.M{"$gt": since}},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find txns: %w", err)
	}

	var docs []*txnDocument

	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode txns: %w", err)
	}

	txns := make([]*document.Txn, 0, len(docs))

	for _, doc := range docs {
		txns = append(txns, doc.toTxn())
	}

	return txns, nil
}

func (s *Store) lastNumber(ctx context.Context) (uint64, error) {
	doc := &txnDocument{}

	err := s.mongoClient.Database().Collection(s.collection).FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}}).SetProjection(bson.M{"_id": 1}),
	).Decode(doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}

		return 0, fmt.Errorf("find last txn: %w", err)
	}

	return doc.Number, nil
}

func (d *txnDocument) toTxn() *document.Txn {
	return &document.Txn{
		Number:        d.Number,
		AnchorAddress: d.AnchorAddress,
		Time:          d.Time,
	}
}
