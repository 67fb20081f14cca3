/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package healthutil_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexliesenfeld/health"
	"github.com/stretchr/testify/require"

	"github.com/trustbloc/sidetree-node/pkg/observability/health/healthutil"
)

func TestResultWriter_Write(t *testing.T) {
	times := healthutil.NewResponseTimes()

	interceptor := healthutil.ResponseTimeInterceptor(times)
	interceptor(func(_ context.Context, _ string, state health.CheckState) health.CheckState {
		time.Sleep(time.Millisecond)

		return state
	})(context.Background(), "mongodb", health.CheckState{})

	writer := healthutil.NewJSONResultWriter(times)

	rw := httptest.NewRecorder()
	err := writer.Write(&health.CheckerResult{
		Status: health.StatusDown,
		Details: map[string]health.CheckResult{
			"mongodb": {
				Status: health.StatusUp,
			},
			"redis": {
				Status: health.StatusDown,
			},
		},
	}, http.StatusServiceUnavailable, rw, nil)
	require.NoError(t, err)

	require.Equal(t, http.StatusServiceUnavailable, rw.Code)
	require.Equal(t, "application/json", rw.Header().Get("Content-Type"))

	var body struct {
		Status     string `json:"status"`
		Components map[string]struct {
			Status           string `json:"status"`
			LastResponseTime string `json:"last_response_time"`
		} `json:"components"`
	}

	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &body))
	require.Equal(t, "down", body.Status)
	require.Len(t, body.Components, 2)
	require.NotEmpty(t, body.Components["mongodb"].LastResponseTime)
	require.Empty(t, body.Components["redis"].LastResponseTime)
}
