/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package mongotest starts a throwaway MongoDB container for integration tests.
package mongotest

import (
	"context"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	dctest "github.com/ory/dockertest/v3"
	dc "github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	dockerMongoDBImage = "mongo"
	dockerMongoDBTag   = "4.0.0"
)

// StartContainer runs MongoDB bound to hostPort and returns its connection string.
// The container is purged when the test completes.
func StartContainer(t *testing.T, hostPort string) string {
	t.Helper()

	pool, err := dctest.NewPool("")
	require.NoError(t, err)

	resource, err := pool.RunWithOptions(&dctest.RunOptions{
		Repository: dockerMongoDBImage,
		Tag:        dockerMongoDBTag,
		PortBindings: map[dc.Port][]dc.PortBinding{
			"27017/tcp": {{HostIP: "", HostPort: hostPort}},
		},
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pool.Purge(resource), "failed to purge MongoDB resource")
	})

	connString := "mongodb://localhost:" + hostPort

	require.NoError(t, backoff.Retry(func() error {
		return ping(connString)
	}, backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Second), 30)))

	return connString
}

func ping(connString string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(connString))
	if err != nil {
		return err
	}

	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	return mongoClient.Ping(ctx, nil)
}
