/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexliesenfeld/health"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	tlsutils "github.com/trustbloc/cmdutil-go/pkg/utils/tls"
	"github.com/trustbloc/logutil-go/pkg/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"

	"github.com/trustbloc/sidetree-node/cmd/common"
	"github.com/trustbloc/sidetree-node/pkg/anchor"
	"github.com/trustbloc/sidetree-node/pkg/cas"
	"github.com/trustbloc/sidetree-node/pkg/channel"
	"github.com/trustbloc/sidetree-node/pkg/channel/memchannel"
	"github.com/trustbloc/sidetree-node/pkg/event"
	"github.com/trustbloc/sidetree-node/pkg/event/spi"
	healthchecks "github.com/trustbloc/sidetree-node/pkg/observability/health"
	"github.com/trustbloc/sidetree-node/pkg/observability/metrics"
	"github.com/trustbloc/sidetree-node/pkg/observability/metrics/noop"
	promMetricsProvider "github.com/trustbloc/sidetree-node/pkg/observability/metrics/prometheus"
	"github.com/trustbloc/sidetree-node/pkg/observability/tracing"
	"github.com/trustbloc/sidetree-node/pkg/sidetree"
	ariescasstore "github.com/trustbloc/sidetree-node/pkg/storage/ariesstore/casstore"
	"github.com/trustbloc/sidetree-node/pkg/storage/mongodb"
	mongocasstore "github.com/trustbloc/sidetree-node/pkg/storage/mongodb/casstore"
	"github.com/trustbloc/sidetree-node/pkg/storage/mongodb/txnstore"
	"github.com/trustbloc/sidetree-node/pkg/storage/redis"
	"github.com/trustbloc/sidetree-node/pkg/storage/redis/opqueue"
	"github.com/trustbloc/sidetree-node/pkg/storage/redis/txnstream"
	s3casstore "github.com/trustbloc/sidetree-node/pkg/storage/s3/casstore"
)

const metricsServerReadHeaderTimeout = 10 * time.Second

// Configuration holds the resources shared by the channels served by the node.
type Configuration struct {
	RootCAs           *x509.CertPool
	Tracing           *tracing.Tracing
	Storage           *common.Storage
	Redis             *redis.Client
	S3                *s3.Client
	MetricsProvider   metrics.Provider
	Metrics           metrics.Metrics
	EventBus          *event.Bus
	Registry          *sidetree.Registry
	HealthChecks      []health.Check
	StartupParameters *startupParameters
}

type indexStore interface {
	AppendToIndex(ctx context.Context, indexID, address string) error
	GetByIndex(ctx context.Context, indexID string) ([]string, error)
}

// dbCASStore is a document store kept in the database, which can also hold the index of an S3 store.
type dbCASStore interface {
	cas.Store
	indexStore
}

func prepareConfiguration(parameters *startupParameters) (*Configuration, error) {
	rootCAs, err := tlsutils.GetCertPool(parameters.tlsParameters.systemCertPool, parameters.tlsParameters.caCerts)
	if err != nil {
		return nil, err
	}

	tr, err := tracing.Initialize(parameters.tracingParams.exporter, parameters.tracingParams.serviceName)
	if err != nil {
		return nil, fmt.Errorf("initialize tracing: %w", err)
	}

	conf := &Configuration{
		RootCAs:           rootCAs,
		Tracing:           tr,
		StartupParameters: parameters,
	}

	if err = conf.init(); err != nil {
		conf.Close()

		return nil, err
	}

	return conf, nil
}

func (c *Configuration) init() error {
	parameters := c.StartupParameters

	var err error

	c.Storage, err = common.InitStore(parameters.dbParameters, logger,
		mongodb.WithTraceProvider(c.Tracing.Provider))
	if err != nil {
		return err
	}

	if parameters.redisParameters != nil {
		c.Redis, err = createRedisClient(parameters.redisParameters, c.RootCAs, c.Tracing)
		if err != nil {
			return err
		}
	}

	if parameters.casParameters.casType == casTypeS3 {
		c.S3, err = createS3Client(parameters.casParameters, c.Tracing)
		if err != nil {
			return err
		}
	}

	c.MetricsProvider, c.Metrics = createMetrics(parameters)

	c.EventBus, err = event.Initialize()
	if err != nil {
		return fmt.Errorf("initialize event bus: %w", err)
	}

	c.Registry, err = c.createRegistry()
	if err != nil {
		return err
	}

	subscriber, err := event.NewEventSubscriber(c.EventBus, spi.AnchorEventTopic, c.Registry.HandleAnchorEvent)
	if err != nil {
		return fmt.Errorf("subscribe to anchor events: %w", err)
	}

	subscriber.Start()

	hc := &healthchecks.Config{}

	if c.Storage.MongoDB != nil {
		hc.MongoDB = c.Storage.MongoDB
	}

	if c.Redis != nil {
		hc.Redis = c.Redis
	}

	c.HealthChecks = healthchecks.Get(hc)

	return nil
}

// Close releases the shared resources. It is safe to call on a partially initialized configuration.
func (c *Configuration) Close() {
	if c.Registry != nil {
		c.Registry.Stop()
	}

	if c.EventBus != nil {
		if err := c.EventBus.Close(); err != nil {
			logger.Warn("Error closing event bus", log.WithError(err))
		}
	}

	if c.MetricsProvider != nil {
		if err := c.MetricsProvider.Destroy(); err != nil {
			logger.Warn("Error stopping metrics server", log.WithError(err))
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Warn("Error closing Redis client", log.WithError(err))
		}
	}

	if c.Storage != nil {
		if err := c.Storage.Close(); err != nil {
			logger.Warn("Error closing storage", log.WithError(err))
		}
	}

	c.Tracing.Shutdown()
}

func (c *Configuration) createRegistry() (*sidetree.Registry, error) {
	parameters := c.StartupParameters
	registry := sidetree.NewRegistry()
	publisher := event.NewEventPublisher(c.EventBus, parameters.hostURL, spi.AnchorEventTopic)

	for _, name := range parameters.channels {
		store, err := c.createCASStore(name)
		if err != nil {
			return nil, err
		}

		ctx, err := sidetree.New(&sidetree.Config{
			Channel:             name,
			DIDMethod:           parameters.didMethod,
			Store:               store,
			Ledger:              c.createChannel(name),
			Queue:               c.createQueue(name),
			MaxBatchSize:        parameters.batchParameters.maxBatchSize,
			BatchInterval:       parameters.batchParameters.batchInterval,
			ChannelWriteRetries: parameters.batchParameters.channelWriteRetries,
			ChannelWriteBackoff: parameters.batchParameters.channelWriteBackoff,
			CacheSize:           parameters.batchParameters.cacheSize,
			Protocol:            parameters.protocol,
			EventPublisher:      publisher,
			Metrics:             c.Metrics,
		})
		if err != nil {
			return nil, err
		}

		if err = registry.Register(ctx); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

func (c *Configuration) createCASStore(channelName string) (cas.Store, error) {
	var dbStore dbCASStore

	if c.Storage.MongoDB != nil {
		dbStore = mongocasstore.NewStore(c.Storage.MongoDB, channelName)
	} else {
		store, err := ariescasstore.New(c.Storage.Provider, channelName)
		if err != nil {
			return nil, fmt.Errorf("channel [%s]: %w", channelName, err)
		}

		dbStore = store
	}

	if c.S3 == nil {
		return dbStore, nil
	}

	return s3casstore.NewStore(c.S3, dbStore, c.StartupParameters.casParameters.s3Bucket, channelName), nil
}

func (c *Configuration) createChannel(channelName string) channel.Channel {
	switch c.StartupParameters.channelType {
	case channelTypeMongoDB:
		return txnstore.NewStore(c.Storage.MongoDB, channelName)
	case channelTypeRedis:
		return txnstream.New(c.Redis, channelName)
	default:
		return memchannel.New()
	}
}

func (c *Configuration) createQueue(channelName string) anchor.OperationQueue {
	if c.StartupParameters.queueType == queueTypeRedis {
		return opqueue.New(c.Redis, channelName)
	}

	return anchor.NewMemQueue()
}

func createRedisClient(params *redisParameters, rootCAs *x509.CertPool, tr *tracing.Tracing) (*redis.Client, error) {
	opts := []redis.ClientOpt{
		redis.WithPassword(params.password),
		redis.WithMasterName(params.masterName),
		redis.WithTraceProvider(tr.Provider),
	}

	if params.tls {
		opts = append(opts, redis.WithTLSConfig(&tls.Config{
			RootCAs:    rootCAs,
			MinVersion: tls.VersionTLS12,
		}))
	}

	client, err := redis.New(params.addrs, opts...)
	if err != nil {
		return nil, fmt.Errorf("create redis client: %w", err)
	}

	return client, nil
}

func createS3Client(params *casParameters, tr *tracing.Tracing) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(params.s3Region),
	}

	if params.s3Endpoint != "" {
		opts = append(opts, awsconfig.WithEndpointResolverWithOptions(
			prepareResolver(params.s3Endpoint, params.s3Region)))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	otelaws.AppendMiddlewares(&cfg.APIOptions, otelaws.WithTracerProvider(tr.Provider))

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		// path style for S3 compatible endpoints
		o.UsePathStyle = params.s3Endpoint != ""
	}), nil
}

func prepareResolver(endpoint, reg string) aws.EndpointResolverWithOptionsFunc {
	return func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if service == s3.ServiceID {
			return aws.Endpoint{
				URL:               endpoint,
				SigningRegion:     reg,
				HostnameImmutable: true,
			}, nil
		}

		return aws.Endpoint{SigningRegion: reg}, &aws.EndpointNotFoundError{}
	}
}

func createMetrics(parameters *startupParameters) (metrics.Provider, metrics.Metrics) {
	if parameters.metricsProviderName != metricsProviderPrometheus {
		return nil, noop.GetMetrics()
	}

	var metricsServer *http.Server

	if parameters.prometheusMetricsProviderParams.url != "" {
		h := promMetricsProvider.NewHandler()

		mux := http.NewServeMux()
		mux.Handle(h.Path(), h.Handler())

		metricsServer = &http.Server{
			Addr:              parameters.prometheusMetricsProviderParams.url,
			Handler:           mux,
			ReadHeaderTimeout: metricsServerReadHeaderTimeout,
		}
	}

	provider := promMetricsProvider.NewPrometheusProvider(metricsServer)

	go func() {
		if err := provider.Create(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start metrics provider", log.WithError(err))
		}
	}()

	return provider, provider.Metrics()
}
