/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cenkalti/backoff/v4"
	"github.com/multiformats/go-multihash"
	dctest "github.com/ory/dockertest/v3"
	dc "github.com/ory/dockertest/v3/docker"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trustbloc/sidetree-node/cmd/common"
	"github.com/trustbloc/sidetree-node/pkg/storage/mongodb/txnstore"
)

const (
	mongoDBConnString  = "mongodb://localhost:27042"
	dockerMongoDBImage = "mongo"
	dockerMongoDBTag   = "4.0.0"
)

func TestStartCmdContents(t *testing.T) {
	startCmd := GetStartCmd()

	require.Equal(t, "start", startCmd.Use)
	require.Equal(t, "Start sidetree-node", startCmd.Short)
	require.Equal(t, "Start sidetree-node, the DID document anchoring and resolution node", startCmd.Long)

	checkFlagPropertiesCorrect(t, startCmd, hostURLFlagName, hostURLFlagShorthand, hostURLFlagUsage)
	checkFlagPropertiesCorrect(t, startCmd, common.DatabaseTypeFlagName, common.DatabaseTypeFlagShorthand,
		common.DatabaseTypeFlagUsage)
}

func TestStartCmdWithBlankArg(t *testing.T) {
	t.Run("test blank host url arg", func(t *testing.T) {
		startCmd := GetStartCmd()

		startCmd.SetArgs([]string{"--" + hostURLFlagName, ""})

		err := startCmd.Execute()
		require.Error(t, err)
		require.Contains(t, err.Error(), "host-url value is empty")
	})

	t.Run("test blank database type arg", func(t *testing.T) {
		startCmd := GetStartCmd()

		startCmd.SetArgs([]string{
			"--" + hostURLFlagName, "localhost:8080",
			"--" + channelsFlagName, "ch1",
			"--" + common.DatabaseTypeFlagName, "",
		})

		err := startCmd.Execute()
		require.Error(t, err)
		require.Contains(t, err.Error(), "database-type value is empty")
	})
}

func TestStartCmdWithMissingArg(t *testing.T) {
	t.Run("test missing host url arg", func(t *testing.T) {
		startCmd := GetStartCmd()
		startCmd.SetArgs([]string{})

		err := startCmd.Execute()
		require.Error(t, err)
		require.Contains(t, err.Error(),
			"Neither host-url (command line flag) nor SIDETREE_NODE_HOST_URL (environment variable) have been set.")
	})

	t.Run("test missing channels arg", func(t *testing.T) {
		startCmd := GetStartCmd()
		startCmd.SetArgs([]string{"--" + hostURLFlagName, "localhost:8080"})

		err := startCmd.Execute()
		require.Error(t, err)
		require.Contains(t, err.Error(), "at least one channel must be set")
	})
}

func TestStartCmdWithBlankEnvVar(t *testing.T) {
	t.Setenv(hostURLEnvKey, "")

	startCmd := GetStartCmd()
	startCmd.SetArgs([]string{})

	err := startCmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "SIDETREE_NODE_HOST_URL value is empty")
}

func TestStartCmdWithInvalidArgs(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{
			name: "unsupported database type",
			args: []string{
				"--" + common.DatabaseTypeFlagName, "couchdb",
				"--" + common.DatabaseURLFlagName, "http://localhost:5984",
			},
			errMsg: "couchdb is not a valid database type",
		},
		{
			name:   "unsupported cas type",
			args:   []string{"--" + casTypeFlagName, "ipfs"},
			errMsg: "unsupported cas type: ipfs",
		},
		{
			name:   "s3 without bucket",
			args:   []string{"--" + casTypeFlagName, casTypeS3},
			errMsg: "Neither cas-s3-bucket (command line flag) nor SIDETREE_NODE_CAS_S3_BUCKET",
		},
		{
			name:   "unsupported channel type",
			args:   []string{"--" + channelTypeFlagName, "kafka"},
			errMsg: "unsupported channel type: kafka",
		},
		{
			name:   "mongodb channel without mongodb",
			args:   []string{"--" + channelTypeFlagName, channelTypeMongoDB},
			errMsg: "channel type mongodb requires database type mongodb",
		},
		{
			name:   "unsupported queue type",
			args:   []string{"--" + queueTypeFlagName, "sqs"},
			errMsg: "unsupported queue type: sqs",
		},
		{
			name:   "redis queue without redis url",
			args:   []string{"--" + queueTypeFlagName, queueTypeRedis},
			errMsg: "neither redis-url (command line flag) nor SIDETREE_NODE_REDIS_URL",
		},
		{
			name:   "invalid redis tls",
			args:   []string{"--" + redisURLFlagName, "localhost:6379", "--" + redisTLSFlagName, "maybe"},
			errMsg: "invalid value for redis-tls [maybe]",
		},
		{
			name:   "invalid batch interval",
			args:   []string{"--" + batchIntervalFlagName, "soon"},
			errMsg: "invalid value for batch-interval [soon]",
		},
		{
			name:   "invalid channel write backoff",
			args:   []string{"--" + channelWriteBackoffFlagName, "1"},
			errMsg: "invalid value for channel-write-backoff [1]",
		},
		{
			name:   "invalid max batch size",
			args:   []string{"--" + maxBatchSizeFlagName, "many"},
			errMsg: "invalid value for max-batch-size [many]",
		},
		{
			name:   "negative channel write retries",
			args:   []string{"--" + channelWriteRetriesFlagName, "-1"},
			errMsg: "must not be negative",
		},
		{
			name:   "invalid cache size",
			args:   []string{"--" + cacheSizeFlagName, "big"},
			errMsg: "invalid value for cache-size [big]",
		},
		{
			name:   "missing protocol file",
			args:   []string{"--" + protocolFileFlagName, "/does/not/exist.json"},
			errMsg: "read protocol file",
		},
		{
			name:   "invalid tls system cert pool",
			args:   []string{"--" + tlsSystemCertPoolFlagName, "wrongvalue"},
			errMsg: "invalid syntax",
		},
		{
			name:   "unsupported metrics provider",
			args:   []string{"--" + metricsProviderFlagName, "statsd"},
			errMsg: "unsupported metrics provider: statsd",
		},
		{
			name:   "unsupported tracing provider",
			args:   []string{"--" + tracingProviderFlagName, "ZIPKIN"},
			errMsg: "unsupported tracing provider: ZIPKIN",
		},
		{
			name:   "invalid profiler flag",
			args:   []string{"--" + enableProfilerFlagName, "yes please"},
			errMsg: "invalid value for enable-profiler",
		},
		{
			name:   "invalid ca certs",
			args:   []string{"--" + tlsCACertsFlagName, "/does/not/exist.pem"},
			errMsg: "failed to prepare configuration",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			startCmd := GetStartCmd(WithHTTPServer(&mockServer{}))

			startCmd.SetArgs(append(memArgs(), tc.args...))

			err := startCmd.Execute()
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestStartCmdValidArgs(t *testing.T) {
	t.Run("mem", func(t *testing.T) {
		server := &mockServer{}

		startCmd := GetStartCmd(WithHTTPServer(server), WithVersion("1.0.0"))

		startCmd.SetArgs(append(memArgs(),
			"--"+batchIntervalFlagName, "1s",
			"--"+maxBatchSizeFlagName, "10",
			"--"+channelWriteRetriesFlagName, "2",
			"--"+channelWriteBackoffFlagName, "10ms",
			"--"+cacheSizeFlagName, "50",
			"--"+protocolFileFlagName, protocolFile(t, `{"maxOperationsPerBatch":5}`),
			"--"+common.LogLevelFlagName, "INFO",
		))

		require.NoError(t, startCmd.Execute())
		require.True(t, server.listenCalled)
		require.False(t, server.listenTLSCalled)
	})

	t.Run("tls", func(t *testing.T) {
		server := &mockServer{}

		startCmd := GetStartCmd(WithHTTPServer(server))

		startCmd.SetArgs(append(memArgs(),
			"--"+tlsCertificateFlagName, "cert.pem",
			"--"+tlsKeyFlagName, "key.pem",
		))

		require.NoError(t, startCmd.Execute())
		require.False(t, server.listenCalled)
		require.Equal(t, "cert.pem", server.certFile)
		require.Equal(t, "key.pem", server.keyFile)
	})

	t.Run("s3 cas", func(t *testing.T) {
		startCmd := GetStartCmd(WithHTTPServer(&mockServer{}))

		startCmd.SetArgs(append(memArgs(),
			"--"+casTypeFlagName, casTypeS3,
			"--"+s3BucketFlagName, "documents",
			"--"+s3RegionFlagName, "us-east-1",
			"--"+s3EndpointFlagName, "http://localhost:4566",
		))

		require.NoError(t, startCmd.Execute())
	})

	t.Run("server error", func(t *testing.T) {
		startCmd := GetStartCmd(WithHTTPServer(&mockServer{err: fmt.Errorf("address in use")}))

		startCmd.SetArgs(memArgs())

		require.EqualError(t, startCmd.Execute(), "address in use")
	})
}

func TestStartCmdValidArgsEnvVar(t *testing.T) {
	t.Setenv(hostURLEnvKey, "localhost:8080")
	t.Setenv(channelsEnvKey, "ch1,ch2")
	t.Setenv(common.DatabaseTypeEnvKey, common.DatabaseTypeMemOption)
	t.Setenv(didMethodEnvKey, "example")
	t.Setenv(apiTokenEnvKey, "secret")

	startCmd := GetStartCmd(WithHTTPServer(&mockServer{}))
	startCmd.SetArgs([]string{})

	require.NoError(t, startCmd.Execute())
}

func TestEchoHandler(t *testing.T) {
	params := startupParams(t, append(memArgs(),
		"--"+apiTokenFlagName, "secret",
		"--"+metricsProviderFlagName, metricsProviderPrometheus,
		"--"+enableProfilerFlagName, "true",
		"--"+didMethodFlagName, "example",
	)...)

	conf, err := prepareConfiguration(params)
	require.NoError(t, err)

	defer conf.Close()

	e, ready := buildEchoHandler(conf, &startOpts{version: "1.0.0", serverVersion: "2.0.0"})

	rec := serve(e, http.MethodGet, readinessEndpoint, "", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	conf.Registry.Start()
	ready.Ready(true)

	rec = serve(e, http.MethodGet, readinessEndpoint, "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(e, http.MethodGet, "/version", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"version":"1.0.0","channels":["ch1","ch2"]}`, rec.Body.String())

	rec = serve(e, http.MethodGet, "/healthcheck", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(e, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(e, http.MethodGet, "/debug/pprof/", "", "secret")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(e, http.MethodPost, "/sidetree/ch1/operations", `{"type":"create","content":{"name":"v1"}}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(e, http.MethodPost, "/sidetree/ch1/operations", `{"type":"create","content":{"name":"v1"}}`, "secret")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Contains(t, rec.Body.String(), `"id":"did:example:`)

	rec = serve(e, http.MethodPost, "/sidetree/ch1/batch", "", "secret")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = serve(e, http.MethodPost, "/sidetree/unknown/batch", "", "secret")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(e, http.MethodPost, "/cas/ch2/content", "hello", "secret")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestProtocolParameters(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		params := startupParams(t, memArgs()...)
		require.Equal(t, uint64(multihash.SHA2_256), params.protocol.HashAlgorithmInMultiHashCode)
		require.Zero(t, params.protocol.MaxOperationsPerBatch)
	})

	t.Run("from file", func(t *testing.T) {
		t.Setenv(protocolFileEnvKey, protocolFile(t,
			`{"hashAlgorithmInMultiHashCode":19,"maxOperationsPerBatch":5,"maxOperationByteSize":2000}`))

		params := startupParams(t, memArgs()...)
		require.Equal(t, uint64(multihash.SHA2_512), params.protocol.HashAlgorithmInMultiHashCode)
		require.Equal(t, 5, params.protocol.MaxOperationsPerBatch)
		require.Equal(t, 2000, params.protocol.MaxOperationByteSize)
	})
}

func TestStartCmdWithMongoDB(t *testing.T) {
	pool, mongoDBResource := startMongoDBContainer(t)
	defer func() {
		require.NoError(t, pool.Purge(mongoDBResource), "failed to purge MongoDB resource")
	}()

	t.Run("start", func(t *testing.T) {
		startCmd := GetStartCmd(WithHTTPServer(&mockServer{}))

		startCmd.SetArgs(mongoArgs())

		require.NoError(t, startCmd.Execute())
	})

	t.Run("mongodb channel and cas", func(t *testing.T) {
		params := startupParams(t, append(mongoArgs(), "--"+common.DatabasePrefixFlagName, "test_")...)

		conf, err := prepareConfiguration(params)
		require.NoError(t, err)

		defer conf.Close()

		require.Len(t, conf.HealthChecks, 1)

		node, err := conf.Registry.Get("ch1")
		require.NoError(t, err)
		require.IsType(t, &txnstore.Store{}, node.Channel())

		ctx := context.Background()

		address, err := node.CAS().Write(ctx, []byte(`{"name":"v1"}`))
		require.NoError(t, err)

		content, err := node.CAS().Read(ctx, address)
		require.NoError(t, err)
		require.JSONEq(t, `{"name":"v1"}`, string(content))
	})
}

func TestPrepareConfigurationErrors(t *testing.T) {
	t.Run("invalid mongodb url", func(t *testing.T) {
		params := startupParams(t, mongoArgs()...)
		params.dbParameters.URL = "invalid"

		conf, err := prepareConfiguration(params)
		require.Nil(t, conf)
		require.ErrorContains(t, err, `scheme must be "mongodb" or "mongodb+srv"`)
	})

	t.Run("redis not reachable", func(t *testing.T) {
		params := startupParams(t, append(memArgs(),
			"--"+queueTypeFlagName, queueTypeRedis,
			"--"+redisURLFlagName, "localhost:1",
		)...)

		conf, err := prepareConfiguration(params)
		require.Nil(t, conf)
		require.ErrorContains(t, err, "create redis client")
	})

	t.Run("duplicate channel", func(t *testing.T) {
		params := startupParams(t, memArgs()...)
		params.channels = []string{"ch1", "ch1"}

		conf, err := prepareConfiguration(params)
		require.Nil(t, conf)
		require.ErrorContains(t, err, "channel [ch1] is already registered")
	})
}

func TestPrepareResolver(t *testing.T) {
	resolver := prepareResolver("http://localhost:4566", "us-east-1")

	endpoint, err := resolver.ResolveEndpoint(s3.ServiceID, "us-east-1")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:4566", endpoint.URL)
	require.Equal(t, "us-east-1", endpoint.SigningRegion)

	_, err = resolver.ResolveEndpoint("SQS", "us-east-1")
	require.Error(t, err)

	var notFound *aws.EndpointNotFoundError
	require.ErrorAs(t, err, &notFound)
}

type mockServer struct {
	err             error
	listenCalled    bool
	listenTLSCalled bool
	certFile        string
	keyFile         string
}

func (s *mockServer) ListenAndServe() error {
	s.listenCalled = true

	return s.err
}

func (s *mockServer) ListenAndServeTLS(certFile, keyFile string) error {
	s.listenTLSCalled = true
	s.certFile = certFile
	s.keyFile = keyFile

	return s.err
}

func memArgs() []string {
	return []string{
		"--" + hostURLFlagName, "localhost:8080",
		"--" + channelsFlagName, "ch1,ch2",
		"--" + common.DatabaseTypeFlagName, common.DatabaseTypeMemOption,
	}
}

func protocolFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "protocol.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func mongoArgs() []string {
	return []string{
		"--" + hostURLFlagName, "localhost:8080",
		"--" + channelsFlagName, "ch1",
		"--" + common.DatabaseTypeFlagName, common.DatabaseTypeMongoDBOption,
		"--" + common.DatabaseURLFlagName, mongoDBConnString,
		"--" + common.DatabaseTimeoutFlagName, "5",
	}
}

func startupParams(t *testing.T, args ...string) *startupParameters {
	t.Helper()

	startCmd := GetStartCmd()
	require.NoError(t, startCmd.ParseFlags(args))

	params, err := getStartupParameters(startCmd)
	require.NoError(t, err)

	return params
}

func serve(h http.Handler, method, path, body, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func checkFlagPropertiesCorrect(t *testing.T, cmd *cobra.Command, flagName, flagShorthand, flagUsage string) {
	t.Helper()

	flag := cmd.Flag(flagName)

	require.NotNil(t, flag)
	require.Equal(t, flagName, flag.Name)
	require.Equal(t, flagShorthand, flag.Shorthand)
	require.Equal(t, flagUsage, flag.Usage)
	require.Equal(t, "", flag.Value.String())
}

func startMongoDBContainer(t *testing.T) (*dctest.Pool, *dctest.Resource) {
	t.Helper()

	pool, err := dctest.NewPool("")
	require.NoError(t, err)

	mongoDBResource, err := pool.RunWithOptions(&dctest.RunOptions{
		Repository: dockerMongoDBImage,
		Tag:        dockerMongoDBTag,
		PortBindings: map[dc.Port][]dc.PortBinding{
			"27017/tcp": {{HostIP: "", HostPort: "27042"}},
		},
	})
	require.NoError(t, err)

	require.NoError(t, waitForMongoDBToBeUp())

	return pool, mongoDBResource
}

func waitForMongoDBToBeUp() error {
	return backoff.Retry(pingMongoDB, backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Second), 30))
}

func pingMongoDB() error {
	var err error

	clientOpts := options.Client().ApplyURI(mongoDBConnString)

	mongoClient, err := mongo.NewClient(clientOpts)
	if err != nil {
		return err
	}

	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = mongoClient.Connect(ctxWithTimeout)
	if err != nil {
		return err
	}

	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	return mongoClient.Ping(ctxWithTimeout, nil)
}
