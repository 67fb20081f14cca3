/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package util_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/trustbloc/sidetree-node/pkg/restapi/resterr"
	"github.com/trustbloc/sidetree-node/pkg/restapi/v1/util"
)

func TestReadBody(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctx, _ := echoContext(`{"type":"create"}`)

		var body struct {
			Type string `json:"type"`
		}

		require.NoError(t, util.ReadBody(ctx, &body))
		require.Equal(t, "create", body.Type)
	})

	t.Run("invalid json", func(t *testing.T) {
		ctx, _ := echoContext(`{"type":`)

		var body struct{}

		err := util.ReadBody(ctx, &body)

		var customErr *resterr.CustomError
		require.ErrorAs(t, err, &customErr)
		require.Equal(t, resterr.InvalidValue, customErr.Code)
		require.Equal(t, "requestBody", customErr.FailedParameter)
	})
}

func TestPathParam(t *testing.T) {
	t.Run("escaped did", func(t *testing.T) {
		ctx, _ := echoContext("")
		ctx.SetParamNames("did")
		ctx.SetParamValues("did%3Asidetree%3Aabc")

		value, err := util.PathParam(ctx, "did")
		require.NoError(t, err)
		require.Equal(t, "did:sidetree:abc", value)
	})

	t.Run("invalid escape", func(t *testing.T) {
		ctx, _ := echoContext("")
		ctx.SetParamNames("did")
		ctx.SetParamValues("did%zz")

		_, err := util.PathParam(ctx, "did")
		require.ErrorContains(t, err, "invalid-value[did]")
	})

	t.Run("empty", func(t *testing.T) {
		ctx, _ := echoContext("")

		_, err := util.PathParam(ctx, "channel")
		require.ErrorContains(t, err, "value is empty")
	})
}

func TestWriteOutput(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctx, rec := echoContext("")

		require.NoError(t, util.WriteOutput(ctx)(map[string]string{"address": "abc"}, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"address":"abc"}`, rec.Body.String())
	})

	t.Run("with code", func(t *testing.T) {
		ctx, rec := echoContext("")

		require.NoError(t, util.WriteOutputWithCode(http.StatusCreated, ctx)([]string{"a"}, nil))
		require.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("error", func(t *testing.T) {
		ctx, _ := echoContext("")

		require.EqualError(t, util.WriteOutput(ctx)(nil, errors.New("some error")), "some error")
	})

	t.Run("marshal error", func(t *testing.T) {
		ctx, _ := echoContext("")

		require.ErrorContains(t, util.WriteOutput(ctx)(make(chan int), nil), "marshal response")
	})
}

func TestWriteRawOutputWithContentType(t *testing.T) {
	ctx, rec := echoContext("")

	require.NoError(t, util.WriteRawOutputWithContentType(ctx)([]byte("raw"), "application/octet-stream", nil))
	require.Equal(t, "raw", rec.Body.String())
	require.Equal(t, "application/octet-stream", rec.Header().Get(echo.HeaderContentType))

	require.Error(t, util.WriteRawOutputWithContentType(ctx)(nil, "", errors.New("some error")))
}

func echoContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
