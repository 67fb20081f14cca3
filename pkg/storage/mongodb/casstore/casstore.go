/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package casstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trustbloc/sidetree-node/pkg/cas"
	"github.com/trustbloc/sidetree-node/pkg/document"
	"github.com/trustbloc/sidetree-node/pkg/storage/mongodb"
)

const (
	contentCollectionPrefix = "dcas_"
	indexCollectionPrefix   = "dcas_index_"
)

type contentDocument struct {
	Address string `bson:"_id"`
	Content []byte `bson:"content"`
}

type indexDocument struct {
	IndexID   string   `bson:"_id"`
	Addresses []string `bson:"addresses"`
}

// Store keeps content and indexes in MongoDB.
type Store struct {
	mongoClient       *mongodb.Client
	contentCollection string
	indexCollection   string
}

// NewStore creates a Store whose collections are suffixed with channel.
func NewStore(mongoClient *mongodb.Client, channel string) *Store {
	return &Store{
		mongoClient:       mongoClient,
		contentCollection: contentCollectionPrefix + channel,
		indexCollection:   indexCollectionPrefix + channel,
	}
}

// Put upserts content under address and appends the address to the index, if given.
func (s *Store) Put(ctx context.Context, address string, content []byte, opts ...cas.PutOption) error {
	_, err := s.mongoClient.Database().Collection(s.contentCollection).UpdateByID(ctx,
		address, bson.M{
			"$set": bson.M{"content": content},
		}, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert content: %w", err)
	}

	indexID := cas.GetPutOptions(opts...).IndexID
	if indexID == "" {
		return nil
	}

	return s.AppendToIndex(ctx, indexID, address)
}

// AppendToIndex appends address to indexID.
func (s *Store) AppendToIndex(ctx context.Context, indexID, address string) error {
	_, err := s.mongoClient.Database().Collection(s.indexCollection).UpdateByID(ctx,
		indexID, bson.M{
			"$push": bson.M{"addresses": address},
		}, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("append to index [%s]: %w", indexID, err)
	}

	return nil
}

// Get returns the content stored under address.
func (s *Store) Get(ctx context.Context, address string) ([]byte, error) {
	doc := &contentDocument{}

	err := s.mongoClient.Database().Collection(s.contentCollection).
		FindOne(ctx, bson.M{"_id": address}).Decode(doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, document.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("content find failed: %w", err)
	}

	return doc.Content, nil
}

// GetByIndex returns the addresses appended to indexID, oldest first.
func (s *Store) GetByIndex(ctx context.Context, indexID string) ([]string, error) {
	doc := &indexDocument{}

	err := s.mongoClient.Database().Collection(s.indexCollection).
		FindOne(ctx, bson.M{"_id": indexID}).Decode(doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, document.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("index find failed: %w", err)
	}

	if len(doc.Addresses) == 0 {
		return nil, document.ErrNotFound
	}

	return doc.Addresses, nil
}
