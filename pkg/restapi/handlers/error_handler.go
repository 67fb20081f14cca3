/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/trustbloc/logutil-go/pkg/log"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/trustbloc/sidetree-node/internal/logfields"
	"github.com/trustbloc/sidetree-node/pkg/restapi/resterr"
)

var logger = log.New("rest-err")

// HTTPErrorHandler writes errors returned by the handlers as {"code","message"} responses.
func HTTPErrorHandler(tracer trace.Tracer) func(err error, c echo.Context) {
	return func(err error, c echo.Context) {
		ctx, span := tracer.Start(c.Request().Context(), "HTTPErrorHandler")
		defer span.End()

		code, resp := resterr.ProcessError(err)

		span.SetStatus(codes.Error, resp.Message)
		span.RecordError(err)

		if code >= http.StatusInternalServerError {
			logger.Errorc(ctx, "HTTP Error Handler",
				log.WithURL(c.Request().RequestURI),
				log.WithHTTPStatus(code),
				logfields.WithAdditionalMessage(resp.Message),
			)
		} else {
			logger.Debugc(ctx, "HTTP Error Handler",
				log.WithURL(c.Request().RequestURI),
				log.WithHTTPStatus(code),
				logfields.WithAdditionalMessage(resp.Message),
			)
		}

		sendResponse(c, code, resp)
	}
}

func sendResponse(c echo.Context, code int, resp *resterr.Response) {
	if c.Response().Committed {
		return
	}

	var err error

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, resp)
	}

	if err != nil {
		logger.Errorc(c.Request().Context(), "write http response", log.WithError(err))
	}
}
