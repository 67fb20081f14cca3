/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/trustbloc/sidetree-node/pkg/restapi/resterr"
)

const (
	requestBody = "requestBody"
)

func ReadBody(ctx echo.Context, body interface{}) error {
	if err := ctx.Bind(body); err != nil {
		return resterr.NewValidationError(resterr.InvalidValue, requestBody, err)
	}

	return nil
}

// PathParam returns the unescaped path parameter. DIDs arrive percent-encoded when they carry reserved
// characters.
func PathParam(ctx echo.Context, name string) (string, error) {
	value, err := url.PathUnescape(ctx.Param(name))
	if err != nil {
		return "", resterr.NewValidationError(resterr.InvalidValue, name, err)
	}

	if value == "" {
		return "", resterr.NewValidationError(resterr.InvalidValue, name, errors.New("value is empty"))
	}

	return value, nil
}

func WriteOutput(ctx echo.Context) func(output interface{}, err error) error {
	return WriteOutputWithCode(http.StatusOK, ctx)
}

func WriteOutputWithCode(code int, ctx echo.Context) func(output interface{}, err error) error {
	return func(output interface{}, err error) error {
		if err != nil {
			return err
		}

		b, err := json.Marshal(output)
		if err != nil {
			return fmt.Errorf("marshal response: %w", err)
		}

		return ctx.JSONBlob(code, b)
	}
}

func WriteRawOutputWithContentType(ctx echo.Context) func(output []byte, ct string, err error) error {
	return func(output []byte, ct string, err error) error {
		if err != nil {
			return err
		}

		return ctx.Blob(http.StatusOK, ct, output)
	}
}
