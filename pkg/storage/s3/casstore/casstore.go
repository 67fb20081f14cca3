/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package casstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/trustbloc/sidetree-node/pkg/cas"
	"github.com/trustbloc/sidetree-node/pkg/document"
)

const contentType = "application/octet-stream"

type s3Uploader interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// indexStore keeps the index in a different place than the S3 bucket.
type indexStore interface {
	AppendToIndex(ctx context.Context, indexID, address string) error
	GetByIndex(ctx context.Context, indexID string) ([]string, error)
}

// Store keeps content in an S3 bucket.
type Store struct {
	s3Uploader s3Uploader
	indexStore indexStore
	bucket     string
	prefix     string
}

// NewStore creates an S3 Store. Objects are keyed "<channel>/<address>".
func NewStore(s3Uploader s3Uploader, indexStore indexStore, bucket, channel string) *Store {
	return &Store{
		s3Uploader: s3Uploader,
		indexStore: indexStore,
		bucket:     bucket,
		prefix:     channel,
	}
}

// Put uploads content and appends the address to the index, if given.
func (s *Store) Put(ctx context.Context, address string, content []byte, opts ...cas.PutOption) error {
	_, err := s.s3Uploader.PutObject(ctx, &s3.PutObjectInput{
		Body:        bytes.NewReader(content),
		Key:         aws.String(s.resolveKey(address)),
		Bucket:      aws.String(s.bucket),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload content: %w", err)
	}

	indexID := cas.GetPutOptions(opts...).IndexID
	if indexID == "" {
		return nil
	}

	if err = s.indexStore.AppendToIndex(ctx, indexID, address); err != nil {
		return fmt.Errorf("failed to append to index: %w", err)
	}

	return nil
}

// Get downloads the content stored under address.
func (s *Store) Get(ctx context.Context, address string) ([]byte, error) {
	res, err := s.s3Uploader.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.resolveKey(address)),
	})
	if err != nil {
		var awsError *types.NoSuchKey
		if errors.As(err, &awsError) {
			return nil, document.ErrNotFound
		}

		if strings.Contains(err.Error(), "AccessDenied") {
			return nil, document.ErrNotFound
		}

		return nil, fmt.Errorf("failed to get content from S3: %w", err)
	}

	defer func() {
		_ = res.Body.Close()
	}()

	content, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read content body: %w", err)
	}

	return content, nil
}

// GetByIndex returns the addresses appended to indexID.
func (s *Store) GetByIndex(ctx context.Context, indexID string) ([]string, error) {
	return s.indexStore.GetByIndex(ctx, indexID)
}

func (s *Store) resolveKey(address string) string {
	return path.Join(s.prefix, address)
}
