/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/spf13/cobra"
	cmdutils "github.com/trustbloc/cmdutil-go/pkg/utils/cmd"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/sidetree-node/internal/logfields"
	"github.com/trustbloc/sidetree-node/pkg/storage/mongodb"
)

const (
	// DatabaseTypeFlagName is the database type.
	DatabaseTypeFlagName = "database-type"
	// DatabaseTypeFlagShorthand is the database type shorthand.
	DatabaseTypeFlagShorthand = "t"
	// DatabaseTypeFlagUsage describes the usage.
	DatabaseTypeFlagUsage = "The type of database to use for content, indexes and transactions." +
		" Supported options: mem, mongodb." +
		" Alternatively, this can be set with the following environment variable: " + DatabaseTypeEnvKey
	// DatabaseTypeEnvKey is the database type.
	DatabaseTypeEnvKey = "DATABASE_TYPE"

	// DatabaseURLFlagName is the database url.
	DatabaseURLFlagName = "database-url"
	// DatabaseURLFlagUsage describes the usage.
	DatabaseURLFlagUsage = "Database URL with credentials if required. Not needed for mem." +
		" Example: 'mongodb://mongodb.example.com:27017'." +
		" Alternatively, this can be set with the following environment variable: " + DatabaseURLEnvKey
	// DatabaseURLEnvKey is the database url.
	DatabaseURLEnvKey = "DATABASE_URL"

	// DatabaseTimeoutFlagName is the database timeout.
	DatabaseTimeoutFlagName = "database-timeout"
	// DatabaseTimeoutFlagUsage describes the usage.
	DatabaseTimeoutFlagUsage = "Total time in seconds to wait until the datasource is available before giving up." +
		" Default: 30 seconds." +
		" Alternatively, this can be set with the following environment variable: " + DatabaseTimeoutEnvKey
	// DatabaseTimeoutEnvKey is the database timeout.
	DatabaseTimeoutEnvKey = "DATABASE_TIMEOUT"

	// DatabasePrefixFlagName is the storage prefix.
	DatabasePrefixFlagName = "database-prefix"
	// DatabasePrefixEnvKey is the storage prefix.
	DatabasePrefixEnvKey = "DATABASE_PREFIX"
	// DatabasePrefixFlagUsage describes the usage.
	DatabasePrefixFlagUsage = "An optional prefix to be used when creating and retrieving underlying databases. " +
		"Alternatively, this can be set with the following environment variable: " + DatabasePrefixEnvKey

	// DatabaseTimeoutDefault is the default storage timeout.
	DatabaseTimeoutDefault = 30

	// DatabaseTypeMemOption keeps everything in memory.
	DatabaseTypeMemOption = "mem"
	// DatabaseTypeMongoDBOption uses MongoDB.
	DatabaseTypeMongoDBOption = "mongodb"

	databaseName = "sidetree"
)

// DBParameters holds database configuration.
type DBParameters struct {
	Type    string
	URL     string
	Prefix  string
	Timeout uint64
}

// Storage is an opened database. Exactly one of Provider and MongoDB is set.
type Storage struct {
	Type     string
	Provider storage.Provider
	MongoDB  *mongodb.Client
}

// Close releases the database.
func (s *Storage) Close() error {
	if s.MongoDB != nil {
		return s.MongoDB.Close()
	}

	return s.Provider.Close()
}

// Flags registers common command flags.
func Flags(cmd *cobra.Command) {
	cmd.Flags().StringP(DatabaseTypeFlagName, DatabaseTypeFlagShorthand, "", DatabaseTypeFlagUsage)
	cmd.Flags().StringP(DatabaseURLFlagName, "", "", DatabaseURLFlagUsage)
	cmd.Flags().StringP(DatabasePrefixFlagName, "", "", DatabasePrefixFlagUsage)
	cmd.Flags().StringP(DatabaseTimeoutFlagName, "", "", DatabaseTimeoutFlagUsage)
}

// DBParams fetches the DB parameters configured for this command.
func DBParams(cmd *cobra.Command) (*DBParameters, error) {
	var err error

	params := &DBParameters{}

	params.Type, err = cmdutils.GetUserSetVarFromString(cmd, DatabaseTypeFlagName, DatabaseTypeEnvKey, false)
	if err != nil {
		return nil, fmt.Errorf("failed to configure dbType: %w", err)
	}

	params.URL, err = cmdutils.GetUserSetVarFromString(cmd, DatabaseURLFlagName, DatabaseURLEnvKey,
		params.Type == DatabaseTypeMemOption)
	if err != nil {
		return nil, fmt.Errorf("failed to configure dbURL: %w", err)
	}

	params.Prefix = cmdutils.GetUserSetOptionalVarFromString(cmd, DatabasePrefixFlagName, DatabasePrefixEnvKey)

	timeout, err := cmdutils.GetUserSetVarFromString(cmd, DatabaseTimeoutFlagName, DatabaseTimeoutEnvKey, true)
	if err != nil && !strings.Contains(err.Error(), "value is empty") {
		return nil, fmt.Errorf("failed to configure dbTimeout: %w", err)
	}

	if timeout == "" {
		timeout = strconv.Itoa(DatabaseTimeoutDefault)
	}

	params.Timeout, err = strconv.ParseUint(timeout, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dbTimeout %s: %w", timeout, err)
	}

	return params, nil
}

// InitStore opens the configured database. MongoDB connections are retried once per second
// for params.Timeout attempts.
func InitStore(params *DBParameters, logger *log.Log, opts ...mongodb.ClientOpt) (*Storage, error) {
	switch params.Type {
	case DatabaseTypeMemOption:
		return &Storage{Type: params.Type, Provider: mem.NewProvider()}, nil
	case DatabaseTypeMongoDBOption:
		var client *mongodb.Client

		err := Retry(
			func() error {
				var openErr error

				client, openErr = connectMongoDB(params, opts...)

				return openErr
			},
			params.Timeout,
			logger,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to init MongoDB: %w", err)
		}

		return &Storage{Type: params.Type, MongoDB: client}, nil
	default:
		return nil, fmt.Errorf("%s is not a valid database type."+
			" run start --help to see the available options", params.Type)
	}
}

func connectMongoDB(params *DBParameters, opts ...mongodb.ClientOpt) (*mongodb.Client, error) {
	client, err := mongodb.New(params.URL, params.Prefix+databaseName, opts...)
	if err != nil {
		// connection string errors are permanent
		return nil, backoff.Permanent(err)
	}

	ctx, cancel := client.ContextWithTimeout()
	defer cancel()

	if err = client.Ping(ctx); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client, nil
}

// Retry invokes task until it succeeds, returns a permanent error or numRetries is exhausted.
func Retry(task func() error, numRetries uint64, logger *log.Log) error {
	const sleep = 1 * time.Second

	return backoff.RetryNotify(
		task,
		backoff.WithMaxRetries(backoff.NewConstantBackOff(sleep), numRetries),
		func(retryErr error, t time.Duration) {
			logger.Warn("Failed to connect to storage, will sleep before trying again.",
				logfields.WithSleep(t), log.WithError(retryErr))
		},
	)
}
