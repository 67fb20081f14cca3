/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package healthutil_test

import (
	"context"
	"testing"

	"github.com/alexliesenfeld/health"
	"github.com/stretchr/testify/require"

	"github.com/trustbloc/sidetree-node/pkg/observability/health/healthutil"
)

func TestResponseTimeInterceptor(t *testing.T) {
	times := healthutil.NewResponseTimes()

	interceptor := healthutil.ResponseTimeInterceptor(times)

	next := &mockInterceptor{}

	_, ok := times.Get("test")
	require.False(t, ok)

	interceptor(next.InterceptorFunc())(context.Background(), "test", health.CheckState{})
	interceptor(next.InterceptorFunc())(context.Background(), "test", health.CheckState{})

	require.Equal(t, 2, next.Calls)

	_, ok = times.Get("test")
	require.True(t, ok)
}

type mockInterceptor struct {
	Calls int
}

func (m *mockInterceptor) InterceptorFunc() health.InterceptorFunc {
	return func(ctx context.Context, name string, state health.CheckState) health.CheckState {
		m.Calls++

		return state
	}
}
