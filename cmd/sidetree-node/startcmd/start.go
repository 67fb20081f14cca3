/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echopprof "github.com/sevenNt/echo-pprof"
	"github.com/spf13/cobra"
	"github.com/trustbloc/logutil-go/pkg/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/trustbloc/sidetree-node/cmd/common"
	"github.com/trustbloc/sidetree-node/internal/logfields"
	"github.com/trustbloc/sidetree-node/pkg/observability/metrics/prometheus"
	"github.com/trustbloc/sidetree-node/pkg/restapi/handlers"
	"github.com/trustbloc/sidetree-node/pkg/restapi/v1/casapi"
	"github.com/trustbloc/sidetree-node/pkg/restapi/v1/didapi"
	"github.com/trustbloc/sidetree-node/pkg/restapi/v1/healthcheck"
	"github.com/trustbloc/sidetree-node/pkg/restapi/v1/logapi"
	"github.com/trustbloc/sidetree-node/pkg/restapi/v1/mw"
	"github.com/trustbloc/sidetree-node/pkg/restapi/v1/version"
)

var logger = log.New("sidetree-node")

const (
	metricsEndpoint   = "/metrics"
	readHeaderTimeout = 10 * time.Second
)

type httpServer interface {
	ListenAndServe() error
	ListenAndServeTLS(certFile, keyFile string) error
}

type startOpts struct {
	server        httpServer
	version       string
	serverVersion string
}

// StartOpts configures the start command.
type StartOpts func(opts *startOpts)

// WithHTTPServer sets the server used to serve the REST API.
func WithHTTPServer(server httpServer) StartOpts {
	return func(opts *startOpts) {
		opts.server = server
	}
}

// WithVersion sets the version reported by /version.
func WithVersion(version string) StartOpts {
	return func(opts *startOpts) {
		opts.version = version
	}
}

// WithServerVersion sets the version reported by /version/system.
func WithServerVersion(version string) StartOpts {
	return func(opts *startOpts) {
		opts.serverVersion = version
	}
}

// GetStartCmd returns the Cobra start command.
func GetStartCmd(opts ...StartOpts) *cobra.Command {
	startCmd := createStartCmd(opts...)

	createFlags(startCmd)

	return startCmd
}

func createStartCmd(opts ...StartOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start sidetree-node",
		Long:  "Start sidetree-node, the DID document anchoring and resolution node",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := getStartupParameters(cmd)
			if err != nil {
				return fmt.Errorf("failed to get startup parameters: %w", err)
			}

			common.SetDefaultLogLevel(logger, params.logLevel)

			conf, err := prepareConfiguration(params)
			if err != nil {
				return fmt.Errorf("failed to prepare configuration: %w", err)
			}

			defer conf.Close()

			o := &startOpts{}

			for _, opt := range opts {
				opt(o)
			}

			e, ready := buildEchoHandler(conf, o)

			conf.Registry.Start()
			ready.Ready(true)

			if o.server == nil {
				o.server = &http.Server{
					Addr:              params.hostURL,
					Handler:           e,
					ReadHeaderTimeout: readHeaderTimeout,
				}
			}

			logger.Info("Starting sidetree-node", log.WithURL(params.hostURL),
				logfields.WithChannel(strings.Join(params.channels, ",")))

			return startServer(o.server, params.tlsParameters)
		},
	}
}

func buildEchoHandler(conf *Configuration, opts *startOpts) (*echo.Echo, *readiness) {
	params := conf.StartupParameters

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handlers.HTTPErrorHandler(conf.Tracing.Tracer)

	e.Use(echomw.Recover())
	e.Use(otelecho.Middleware(params.tracingParams.serviceName,
		otelecho.WithTracerProvider(conf.Tracing.Provider)))
	e.Use(mw.APIKeyAuth(params.apiToken))

	if params.enableProfiler {
		echopprof.Wrap(e)
	}

	if params.prometheusMetricsProviderParams != nil && params.prometheusMetricsProviderParams.url == "" {
		h := prometheus.NewHandler()

		e.Add(h.Method(), h.Path(), echo.WrapHandler(h.Handler()))
	}

	healthcheck.NewController(e, conf.HealthChecks)

	version.NewController(e, version.Config{
		Version:       opts.version,
		ServerVersion: opts.serverVersion,
		Channels:      conf.Registry.Names(),
	})

	logapi.NewController(e)

	didapi.NewController(e, &didapi.Config{
		Registry: conf.Registry,
		Tracer:   conf.Tracing.Tracer,
	})

	casapi.NewController(e, &casapi.Config{
		Registry: conf.Registry,
		Tracer:   conf.Tracing.Tracer,
	})

	return e, newReadinessController(e)
}

func startServer(server httpServer, tlsParams *tlsParameters) error {
	if tlsParams.serveCertPath != "" && tlsParams.serveKeyPath != "" {
		return server.ListenAndServeTLS(tlsParams.serveCertPath, tlsParams.serveKeyPath)
	}

	return server.ListenAndServe()
}
