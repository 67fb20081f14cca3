/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/alexliesenfeld/health"

	"github.com/trustbloc/sidetree-node/pkg/observability/health/healthutil"
)

const (
	checkTimeout  = 5 * time.Second
	cacheDuration = 10 * time.Second
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Config holds the dependencies checked by the node. Nil dependencies are not checked.
type Config struct {
	MongoDB pinger
	Redis   pinger
}

// Get returns the checks of the configured dependencies.
func Get(config *Config) []health.Check {
	var checks []health.Check

	if config.MongoDB != nil {
		checks = append(checks, pingCheck("mongodb", config.MongoDB))
	}

	if config.Redis != nil {
		checks = append(checks, pingCheck("redis", config.Redis))
	}

	return checks
}

// NewHandler returns an http.Handler reporting the status of the checks with their response times.
func NewHandler(checks []health.Check) http.Handler {
	responseTimes := healthutil.NewResponseTimes()

	opts := []health.CheckerOption{
		health.WithCacheDuration(cacheDuration),
		health.WithTimeout(checkTimeout),
		health.WithInterceptors(healthutil.ResponseTimeInterceptor(responseTimes)),
	}

	for _, check := range checks {
		opts = append(opts, health.WithCheck(check))
	}

	return health.NewHandler(
		health.NewChecker(opts...),
		health.WithResultWriter(healthutil.NewJSONResultWriter(responseTimes)),
	)
}

func pingCheck(name string, p pinger) health.Check {
	return health.Check{
		Name: name,
		Check: func(ctx context.Context) error {
			if err := p.Ping(ctx); err != nil {
				return fmt.Errorf("failed to ping %s: %w", name, err)
			}

			return nil
		},
		MaxTimeInError:     1,
		MaxContiguousFails: 1,
	}
}
