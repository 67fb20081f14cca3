/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	cmdutils "github.com/trustbloc/cmdutil-go/pkg/utils/cmd"

	"github.com/trustbloc/sidetree-node/cmd/common"
	"github.com/trustbloc/sidetree-node/pkg/observability/tracing"
	"github.com/trustbloc/sidetree-node/pkg/sidetree"
)

const (
	commonEnvVarUsageText = "Alternatively, this can be set with the following environment variable: "

	hostURLFlagName      = "host-url"
	hostURLFlagShorthand = "u"
	hostURLFlagUsage     = "URL to run the sidetree-node instance on. Format: HostName:Port. " +
		commonEnvVarUsageText + hostURLEnvKey
	hostURLEnvKey = "SIDETREE_NODE_HOST_URL"

	channelsFlagName      = "channels"
	channelsFlagShorthand = "c"
	channelsFlagUsage     = "Comma-separated list of the channels served by this node. " +
		commonEnvVarUsageText + channelsEnvKey
	channelsEnvKey = "SIDETREE_NODE_CHANNELS"

	didMethodFlagName  = "did-method"
	didMethodFlagUsage = "DID method of the identifiers derived for creates without an explicit ID. " +
		"Defaults to '" + defaultDIDMethod + "'. " + commonEnvVarUsageText + didMethodEnvKey
	didMethodEnvKey = "SIDETREE_NODE_DID_METHOD"

	protocolFileFlagName  = "protocol-file"
	protocolFileFlagUsage = "Path of the JSON file with the protocol parameters shared by the nodes of a channel: " +
		"hashAlgorithmInMultiHashCode, maxOperationsPerBatch and maxOperationByteSize. Defaults to SHA2-256 " +
		"addresses and no protocol limits. " + commonEnvVarUsageText + protocolFileEnvKey
	protocolFileEnvKey = "SIDETREE_NODE_PROTOCOL_FILE"

	casTypeFlagName  = "cas-type"
	casTypeFlagUsage = "Where content is stored. Supported options: db, s3. Defaults to db. " +
		commonEnvVarUsageText + casTypeEnvKey
	casTypeEnvKey = "SIDETREE_NODE_CAS_TYPE"

	s3BucketFlagName  = "cas-s3-bucket"
	s3BucketFlagUsage = "S3 bucket name. Required for cas-type s3. " + commonEnvVarUsageText + s3BucketEnvKey
	s3BucketEnvKey    = "SIDETREE_NODE_CAS_S3_BUCKET"

	s3RegionFlagName  = "cas-s3-region"
	s3RegionFlagUsage = "S3 region. Required for cas-type s3. " + commonEnvVarUsageText + s3RegionEnvKey
	s3RegionEnvKey    = "SIDETREE_NODE_CAS_S3_REGION"

	s3EndpointFlagName  = "cas-s3-endpoint"
	s3EndpointFlagUsage = "Optional S3 endpoint, for S3 compatible stores. " + commonEnvVarUsageText + s3EndpointEnvKey
	s3EndpointEnvKey    = "SIDETREE_NODE_CAS_S3_ENDPOINT"

	channelTypeFlagName  = "channel-type"
	channelTypeFlagUsage = "Transaction log implementation. Supported options: mem, mongodb, redis. " +
		"Defaults to the database type. " + commonEnvVarUsageText + channelTypeEnvKey
	channelTypeEnvKey = "SIDETREE_NODE_CHANNEL_TYPE"

	queueTypeFlagName  = "queue-type"
	queueTypeFlagUsage = "Pending operation queue implementation. Supported options: mem, redis. Defaults to mem. " +
		commonEnvVarUsageText + queueTypeEnvKey
	queueTypeEnvKey = "SIDETREE_NODE_QUEUE_TYPE"

	redisURLFlagName  = "redis-url"
	redisURLFlagUsage = "Comma-separated list of Redis addresses. Required for the redis channel or queue. " +
		commonEnvVarUsageText + redisURLEnvKey
	redisURLEnvKey = "SIDETREE_NODE_REDIS_URL"

	redisPasswordFlagName  = "redis-password"
	redisPasswordFlagUsage = "Redis password. " + commonEnvVarUsageText + redisPasswordEnvKey
	redisPasswordEnvKey    = "SIDETREE_NODE_REDIS_PASSWORD" //nolint:gosec

	redisMasterNameFlagName  = "redis-master-name"
	redisMasterNameFlagUsage = "Redis sentinel master name. " + commonEnvVarUsageText + redisMasterNameEnvKey
	redisMasterNameEnvKey    = "SIDETREE_NODE_REDIS_MASTER_NAME"

	redisTLSFlagName  = "redis-tls"
	redisTLSFlagUsage = "Connect to Redis over TLS using the configured CA certificates. " +
		"Possible values [true] [false]. Defaults to false. " + commonEnvVarUsageText + redisTLSEnvKey
	redisTLSEnvKey = "SIDETREE_NODE_REDIS_TLS"

	batchIntervalFlagName  = "batch-interval"
	batchIntervalFlagUsage = "Interval between two automatic batch flushes, for example 10s. " +
		commonEnvVarUsageText + batchIntervalEnvKey
	batchIntervalEnvKey = "SIDETREE_NODE_BATCH_INTERVAL"

	maxBatchSizeFlagName  = "max-batch-size"
	maxBatchSizeFlagUsage = "Number of pending operations that triggers a flush. " +
		commonEnvVarUsageText + maxBatchSizeEnvKey
	maxBatchSizeEnvKey = "SIDETREE_NODE_MAX_BATCH_SIZE"

	channelWriteRetriesFlagName  = "channel-write-retries"
	channelWriteRetriesFlagUsage = "Number of times a failed anchor write is retried. " +
		commonEnvVarUsageText + channelWriteRetriesEnvKey
	channelWriteRetriesEnvKey = "SIDETREE_NODE_CHANNEL_WRITE_RETRIES"

	channelWriteBackoffFlagName  = "channel-write-backoff"
	channelWriteBackoffFlagUsage = "Initial backoff between anchor write retries, for example 500ms. " +
		commonEnvVarUsageText + channelWriteBackoffEnvKey
	channelWriteBackoffEnvKey = "SIDETREE_NODE_CHANNEL_WRITE_BACKOFF"

	cacheSizeFlagName  = "cache-size"
	cacheSizeFlagUsage = "Number of anchor and batch files cached by the resolver. " +
		commonEnvVarUsageText + cacheSizeEnvKey
	cacheSizeEnvKey = "SIDETREE_NODE_CACHE_SIZE"

	apiTokenFlagName  = "api-token"
	apiTokenFlagUsage = "Optional key checked against the X-API-Key header of API requests. " +
		commonEnvVarUsageText + apiTokenEnvKey
	apiTokenEnvKey = "SIDETREE_NODE_API_TOKEN" //nolint:gosec

	metricsProviderFlagName         = "metrics-provider-name"
	metricsProviderEnvKey           = "SIDETREE_NODE_METRICS_PROVIDER_NAME"
	allowedMetricsProviderFlagUsage = "The metrics provider name (for example: 'prometheus' etc.). " +
		commonEnvVarUsageText + metricsProviderEnvKey

	promHTTPURLFlagName             = "prom-http-url"
	promHTTPURLEnvKey               = "SIDETREE_NODE_PROM_HTTP_URL"
	allowedPromHTTPURLFlagNameUsage = "Optional URL of a dedicated prometheus metrics server. When not set, metrics " +
		"are served on " + metricsEndpoint + " of the main server. " + commonEnvVarUsageText + promHTTPURLEnvKey

	tracingProviderFlagName  = "tracing-provider"
	tracingProviderEnvKey    = "SIDETREE_NODE_TRACING_PROVIDER"
	tracingProviderFlagUsage = "Tracing provider (for example: 'JAEGER', 'STDOUT'). Tracing is disabled when " +
		"not set. " + commonEnvVarUsageText + tracingProviderEnvKey

	tracingServiceNameFlagName  = "tracing-service-name"
	tracingServiceNameEnvKey    = "SIDETREE_NODE_TRACING_SERVICE_NAME"
	tracingServiceNameFlagUsage = "Name of the tracing service. Default: " + defaultTracingServiceName + ". " +
		commonEnvVarUsageText + tracingServiceNameEnvKey

	enableProfilerFlagName  = "enable-profiler"
	enableProfilerEnvKey    = "SIDETREE_NODE_ENABLE_PROFILER"
	enableProfilerFlagUsage = "Serves the pprof endpoints under /debug/pprof. Possible values [true] [false]. " +
		"Defaults to false. " + commonEnvVarUsageText + enableProfilerEnvKey

	tlsSystemCertPoolFlagName  = "tls-systemcertpool"
	tlsSystemCertPoolFlagUsage = "Use system certificate pool." +
		" Possible values [true] [false]. Defaults to false if not set. " +
		commonEnvVarUsageText + tlsSystemCertPoolEnvKey
	tlsSystemCertPoolEnvKey = "SIDETREE_NODE_TLS_SYSTEMCERTPOOL"

	tlsCACertsFlagName  = "tls-cacerts"
	tlsCACertsFlagUsage = "Comma-Separated list of ca certs path. " + commonEnvVarUsageText + tlsCACertsEnvKey
	tlsCACertsEnvKey    = "SIDETREE_NODE_TLS_CACERTS"

	tlsCertificateFlagName  = "tls-serve-cert"
	tlsCertificateFlagUsage = "Path to the server certificate to use when serving HTTPS. " +
		commonEnvVarUsageText + tlsCertificateLEnvKey
	tlsCertificateLEnvKey = "SIDETREE_NODE_TLS_SERVE_CERT"

	tlsKeyFlagName  = "tls-serve-key"
	tlsKeyFlagUsage = "Path to the private key to use when serving HTTPS. " + commonEnvVarUsageText + tlsKeyEnvKey
	tlsKeyEnvKey    = "SIDETREE_NODE_TLS_SERVE_KEY"
)

const (
	defaultDIDMethod          = "sidetree"
	defaultTracingServiceName = "sidetree-node"

	casTypeDB = "db"
	casTypeS3 = "s3"

	channelTypeMem     = "mem"
	channelTypeMongoDB = "mongodb"
	channelTypeRedis   = "redis"

	queueTypeMem   = "mem"
	queueTypeRedis = "redis"

	metricsProviderPrometheus = "prometheus"
)

type startupParameters struct {
	hostURL                         string
	channels                        []string
	didMethod                       string
	protocol                        *sidetree.Protocol
	dbParameters                    *common.DBParameters
	casParameters                   *casParameters
	channelType                     string
	queueType                       string
	redisParameters                 *redisParameters
	batchParameters                 *batchParameters
	apiToken                        string
	logLevel                        string
	tlsParameters                   *tlsParameters
	metricsProviderName             string
	prometheusMetricsProviderParams *prometheusMetricsProviderParams
	tracingParams                   *tracingParams
	enableProfiler                  bool
}

type casParameters struct {
	casType    string
	s3Bucket   string
	s3Region   string
	s3Endpoint string
}

type redisParameters struct {
	addrs      []string
	password   string
	masterName string
	tls        bool
}

type batchParameters struct {
	batchInterval       time.Duration
	maxBatchSize        int
	channelWriteRetries uint64
	channelWriteBackoff time.Duration
	cacheSize           int
}

type prometheusMetricsProviderParams struct {
	url string
}

type tracingParams struct {
	exporter    tracing.SpanExporterType
	serviceName string
}

type tlsParameters struct {
	systemCertPool bool
	caCerts        []string
	serveCertPath  string
	serveKeyPath   string
}

func getStartupParameters(cmd *cobra.Command) (*startupParameters, error) {
	hostURL, err := cmdutils.GetUserSetVarFromString(cmd, hostURLFlagName, hostURLEnvKey, false)
	if err != nil {
		return nil, err
	}

	channels := cmdutils.GetUserSetOptionalCSVVar(cmd, channelsFlagName, channelsEnvKey)
	if len(channels) == 0 {
		return nil, fmt.Errorf("at least one channel must be set with %s or %s", channelsFlagName, channelsEnvKey)
	}

	didMethod := cmdutils.GetUserSetOptionalVarFromString(cmd, didMethodFlagName, didMethodEnvKey)
	if didMethod == "" {
		didMethod = defaultDIDMethod
	}

	protocol, err := getProtocol(cmd)
	if err != nil {
		return nil, err
	}

	dbParams, err := common.DBParams(cmd)
	if err != nil {
		return nil, err
	}

	casParams, err := getCASParameters(cmd)
	if err != nil {
		return nil, err
	}

	channelType, err := getChannelType(cmd, dbParams.Type)
	if err != nil {
		return nil, err
	}

	queueType, err := getQueueType(cmd)
	if err != nil {
		return nil, err
	}

	redisParams, err := getRedisParameters(cmd, channelType == channelTypeRedis || queueType == queueTypeRedis)
	if err != nil {
		return nil, err
	}

	batchParams, err := getBatchParameters(cmd)
	if err != nil {
		return nil, err
	}

	tlsParams, err := getTLS(cmd)
	if err != nil {
		return nil, err
	}

	metricsProviderName := cmdutils.GetUserSetOptionalVarFromString(cmd, metricsProviderFlagName,
		metricsProviderEnvKey)

	var promParams *prometheusMetricsProviderParams

	switch metricsProviderName {
	case "":
	case metricsProviderPrometheus:
		promParams = &prometheusMetricsProviderParams{
			url: cmdutils.GetUserSetOptionalVarFromString(cmd, promHTTPURLFlagName, promHTTPURLEnvKey),
		}
	default:
		return nil, fmt.Errorf("unsupported metrics provider: %s", metricsProviderName)
	}

	tracingParams, err := getTracingParams(cmd)
	if err != nil {
		return nil, err
	}

	enableProfiler, err := getBool(cmd, enableProfilerFlagName, enableProfilerEnvKey)
	if err != nil {
		return nil, err
	}

	return &startupParameters{
		hostURL:                         hostURL,
		channels:                        channels,
		didMethod:                       didMethod,
		protocol:                        protocol,
		dbParameters:                    dbParams,
		casParameters:                   casParams,
		channelType:                     channelType,
		queueType:                       queueType,
		redisParameters:                 redisParams,
		batchParameters:                 batchParams,
		apiToken:                        cmdutils.GetUserSetOptionalVarFromString(cmd, apiTokenFlagName, apiTokenEnvKey),
		logLevel:                        cmdutils.GetUserSetOptionalVarFromString(cmd, common.LogLevelFlagName, common.LogLevelEnvKey),
		tlsParameters:                   tlsParams,
		metricsProviderName:             metricsProviderName,
		prometheusMetricsProviderParams: promParams,
		tracingParams:                   tracingParams,
		enableProfiler:                  enableProfiler,
	}, nil
}

func getProtocol(cmd *cobra.Command) (*sidetree.Protocol, error) {
	path := cmdutils.GetUserSetOptionalVarFromString(cmd, protocolFileFlagName, protocolFileEnvKey)
	if path == "" {
		return sidetree.DefaultProtocol(), nil
	}

	return sidetree.LoadProtocol(path)
}

func getCASParameters(cmd *cobra.Command) (*casParameters, error) {
	params := &casParameters{
		casType: cmdutils.GetUserSetOptionalVarFromString(cmd, casTypeFlagName, casTypeEnvKey),
	}

	switch params.casType {
	case "", casTypeDB:
		params.casType = casTypeDB

		return params, nil
	case casTypeS3:
	default:
		return nil, fmt.Errorf("unsupported cas type: %s", params.casType)
	}

	var err error

	params.s3Bucket, err = cmdutils.GetUserSetVarFromString(cmd, s3BucketFlagName, s3BucketEnvKey, false)
	if err != nil {
		return nil, err
	}

	params.s3Region, err = cmdutils.GetUserSetVarFromString(cmd, s3RegionFlagName, s3RegionEnvKey, false)
	if err != nil {
		return nil, err
	}

	params.s3Endpoint = cmdutils.GetUserSetOptionalVarFromString(cmd, s3EndpointFlagName, s3EndpointEnvKey)

	return params, nil
}

func getChannelType(cmd *cobra.Command, dbType string) (string, error) {
	channelType := cmdutils.GetUserSetOptionalVarFromString(cmd, channelTypeFlagName, channelTypeEnvKey)

	switch channelType {
	case "":
		if dbType == common.DatabaseTypeMongoDBOption {
			return channelTypeMongoDB, nil
		}

		return channelTypeMem, nil
	case channelTypeMongoDB:
		if dbType != common.DatabaseTypeMongoDBOption {
			return "", fmt.Errorf("channel type %s requires database type %s", channelType,
				common.DatabaseTypeMongoDBOption)
		}

		return channelType, nil
	case channelTypeMem, channelTypeRedis:
		return channelType, nil
	default:
		return "", fmt.Errorf("unsupported channel type: %s", channelType)
	}
}

func getQueueType(cmd *cobra.Command) (string, error) {
	queueType := cmdutils.GetUserSetOptionalVarFromString(cmd, queueTypeFlagName, queueTypeEnvKey)

	switch queueType {
	case "":
		return queueTypeMem, nil
	case queueTypeMem, queueTypeRedis:
		return queueType, nil
	default:
		return "", fmt.Errorf("unsupported queue type: %s", queueType)
	}
}

func getRedisParameters(cmd *cobra.Command, required bool) (*redisParameters, error) {
	addrs := cmdutils.GetUserSetOptionalCSVVar(cmd, redisURLFlagName, redisURLEnvKey)
	if len(addrs) == 0 {
		if required {
			return nil, fmt.Errorf("neither %s (command line flag) nor %s (environment variable) have been set",
				redisURLFlagName, redisURLEnvKey)
		}

		return nil, nil //nolint:nilnil
	}

	useTLS, err := getBool(cmd, redisTLSFlagName, redisTLSEnvKey)
	if err != nil {
		return nil, err
	}

	return &redisParameters{
		addrs:      addrs,
		password:   cmdutils.GetUserSetOptionalVarFromString(cmd, redisPasswordFlagName, redisPasswordEnvKey),
		masterName: cmdutils.GetUserSetOptionalVarFromString(cmd, redisMasterNameFlagName, redisMasterNameEnvKey),
		tls:        useTLS,
	}, nil
}

func getBatchParameters(cmd *cobra.Command) (*batchParameters, error) {
	batchInterval, err := getDuration(cmd, batchIntervalFlagName, batchIntervalEnvKey, 0)
	if err != nil {
		return nil, err
	}

	channelWriteBackoff, err := getDuration(cmd, channelWriteBackoffFlagName, channelWriteBackoffEnvKey, 0)
	if err != nil {
		return nil, err
	}

	maxBatchSize, err := getInt(cmd, maxBatchSizeFlagName, maxBatchSizeEnvKey)
	if err != nil {
		return nil, err
	}

	channelWriteRetries, err := getInt(cmd, channelWriteRetriesFlagName, channelWriteRetriesEnvKey)
	if err != nil {
		return nil, err
	}

	cacheSize, err := getInt(cmd, cacheSizeFlagName, cacheSizeEnvKey)
	if err != nil {
		return nil, err
	}

	// zero values fall back to the writer and resolver defaults
	return &batchParameters{
		batchInterval:       batchInterval,
		maxBatchSize:        maxBatchSize,
		channelWriteRetries: uint64(channelWriteRetries),
		channelWriteBackoff: channelWriteBackoff,
		cacheSize:           cacheSize,
	}, nil
}

func getTLS(cmd *cobra.Command) (*tlsParameters, error) {
	tlsSystemCertPool, err := getBool(cmd, tlsSystemCertPoolFlagName, tlsSystemCertPoolEnvKey)
	if err != nil {
		return nil, err
	}

	tlsCACerts := cmdutils.GetUserSetOptionalVarFromArrayString(cmd, tlsCACertsFlagName, tlsCACertsEnvKey)

	tlsServeCertPath := cmdutils.GetUserSetOptionalVarFromString(cmd, tlsCertificateFlagName, tlsCertificateLEnvKey)

	tlsServeKeyPath := cmdutils.GetUserSetOptionalVarFromString(cmd, tlsKeyFlagName, tlsKeyEnvKey)

	return &tlsParameters{
		systemCertPool: tlsSystemCertPool,
		caCerts:        tlsCACerts,
		serveCertPath:  tlsServeCertPath,
		serveKeyPath:   tlsServeKeyPath,
	}, nil
}

func getTracingParams(cmd *cobra.Command) (*tracingParams, error) {
	serviceName := cmdutils.GetUserSetOptionalVarFromString(cmd, tracingServiceNameFlagName, tracingServiceNameEnvKey)
	if serviceName == "" {
		serviceName = defaultTracingServiceName
	}

	exporter := cmdutils.GetUserSetOptionalVarFromString(cmd, tracingProviderFlagName, tracingProviderEnvKey)
	if !tracing.IsExporterSupported(exporter) {
		return nil, fmt.Errorf("unsupported tracing provider: %s", exporter)
	}

	return &tracingParams{
		exporter:    exporter,
		serviceName: serviceName,
	}, nil
}

func getDuration(cmd *cobra.Command, flagName, envKey string,
	defaultDuration time.Duration) (time.Duration, error) {
	timeoutStr := cmdutils.GetUserSetOptionalVarFromString(cmd, flagName, envKey)
	if timeoutStr == "" {
		return defaultDuration, nil
	}

	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return -1, fmt.Errorf("invalid value for %s [%s]: %w", flagName, timeoutStr, err)
	}

	return timeout, nil
}

func getInt(cmd *cobra.Command, flagName, envKey string) (int, error) {
	str := cmdutils.GetUserSetOptionalVarFromString(cmd, flagName, envKey)
	if str == "" {
		return 0, nil
	}

	value, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s [%s]: %w", flagName, str, err)
	}

	if value < 0 {
		return 0, fmt.Errorf("invalid value for %s [%s]: must not be negative", flagName, str)
	}

	return value, nil
}

func getBool(cmd *cobra.Command, flagName, envKey string) (bool, error) {
	str := cmdutils.GetUserSetOptionalVarFromString(cmd, flagName, envKey)
	if str == "" {
		return false, nil
	}

	value, err := strconv.ParseBool(str)
	if err != nil {
		return false, fmt.Errorf("invalid value for %s [%s]: %w", flagName, str, err)
	}

	return value, nil
}

func createFlags(startCmd *cobra.Command) {
	startCmd.Flags().StringP(hostURLFlagName, hostURLFlagShorthand, "", hostURLFlagUsage)
	startCmd.Flags().StringSliceP(channelsFlagName, channelsFlagShorthand, []string{}, channelsFlagUsage)
	startCmd.Flags().String(didMethodFlagName, "", didMethodFlagUsage)
	startCmd.Flags().String(protocolFileFlagName, "", protocolFileFlagUsage)

	common.Flags(startCmd)

	startCmd.Flags().String(casTypeFlagName, "", casTypeFlagUsage)
	startCmd.Flags().String(s3BucketFlagName, "", s3BucketFlagUsage)
	startCmd.Flags().String(s3RegionFlagName, "", s3RegionFlagUsage)
	startCmd.Flags().String(s3EndpointFlagName, "", s3EndpointFlagUsage)
	startCmd.Flags().String(channelTypeFlagName, "", channelTypeFlagUsage)
	startCmd.Flags().String(queueTypeFlagName, "", queueTypeFlagUsage)
	startCmd.Flags().StringSlice(redisURLFlagName, []string{}, redisURLFlagUsage)
	startCmd.Flags().String(redisPasswordFlagName, "", redisPasswordFlagUsage)
	startCmd.Flags().String(redisMasterNameFlagName, "", redisMasterNameFlagUsage)
	startCmd.Flags().String(redisTLSFlagName, "", redisTLSFlagUsage)
	startCmd.Flags().String(batchIntervalFlagName, "", batchIntervalFlagUsage)
	startCmd.Flags().String(maxBatchSizeFlagName, "", maxBatchSizeFlagUsage)
	startCmd.Flags().String(channelWriteRetriesFlagName, "", channelWriteRetriesFlagUsage)
	startCmd.Flags().String(channelWriteBackoffFlagName, "", channelWriteBackoffFlagUsage)
	startCmd.Flags().String(cacheSizeFlagName, "", cacheSizeFlagUsage)
	startCmd.Flags().String(apiTokenFlagName, "", apiTokenFlagUsage)
	startCmd.Flags().StringP(common.LogLevelFlagName, common.LogLevelFlagShorthand, "", common.LogLevelPrefixFlagUsage)
	startCmd.Flags().String(metricsProviderFlagName, "", allowedMetricsProviderFlagUsage)
	startCmd.Flags().String(promHTTPURLFlagName, "", allowedPromHTTPURLFlagNameUsage)
	startCmd.Flags().String(tracingProviderFlagName, "", tracingProviderFlagUsage)
	startCmd.Flags().String(tracingServiceNameFlagName, "", tracingServiceNameFlagUsage)
	startCmd.Flags().String(enableProfilerFlagName, "", enableProfilerFlagUsage)
	startCmd.Flags().String(tlsSystemCertPoolFlagName, "", tlsSystemCertPoolFlagUsage)
	startCmd.Flags().StringSlice(tlsCACertsFlagName, []string{}, tlsCACertsFlagUsage)
	startCmd.Flags().String(tlsCertificateFlagName, "", tlsCertificateFlagUsage)
	startCmd.Flags().String(tlsKeyFlagName, "", tlsKeyFlagUsage)
}
