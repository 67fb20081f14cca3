/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resterr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ProcessError returns the HTTP status and the response body of err. Errors raised by echo
// keep their status.
func ProcessError(err error) (int, *Response) {
	var echoHTTPError *echo.HTTPError
	if errors.As(err, &echoHTTPError) {
		message := fmt.Sprintf("%v", echoHTTPError.Message)
		if echoHTTPError.Internal != nil {
			message = echoHTTPError.Error()
		}

		return echoHTTPError.Code, &Response{
			Code:    strings.ReplaceAll(strings.ToLower(http.StatusText(echoHTTPError.Code)), " ", "-"),
			Message: message,
		}
	}

	return FromError(err).HTTPCodeMsg()
}
