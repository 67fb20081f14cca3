/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package healthutil

import (
	"context"
	"sync"
	"time"

	"github.com/alexliesenfeld/health"
)

// ResponseTimeState holds the response times of a single check.
type ResponseTimeState struct {
	LastResponseTime    time.Duration
	AverageResponseTime time.Duration
}

// ResponseTimes records the response times of the checks. It is safe for concurrent use.
type ResponseTimes struct {
	mu     sync.RWMutex
	states map[string]ResponseTimeState
}

// NewResponseTimes returns an empty ResponseTimes.
func NewResponseTimes() *ResponseTimes {
	return &ResponseTimes{states: make(map[string]ResponseTimeState)}
}

// Get returns the response times of the named check.
func (r *ResponseTimes) Get(name string) (ResponseTimeState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.states[name]

	return s, ok
}

func (r *ResponseTimes) record(name string, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.states[name]
	if !ok {
		r.states[name] = ResponseTimeState{
			LastResponseTime:    elapsed,
			AverageResponseTime: elapsed,
		}

		return
	}

	r.states[name] = ResponseTimeState{
		LastResponseTime:    elapsed,
		AverageResponseTime: (s.AverageResponseTime + elapsed) / 2, //nolint:gomnd
	}
}

// ResponseTimeInterceptor measures every check execution.
func ResponseTimeInterceptor(times *ResponseTimes) health.Interceptor {
	return func(next health.InterceptorFunc) health.InterceptorFunc {
		return func(ctx context.Context, name string, state health.CheckState) health.CheckState {
			now := time.Now()

			result := next(ctx, name, state)

			times.record(name, time.Since(now))

			return result
		}
	}
}
