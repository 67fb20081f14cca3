/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resterr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/trustbloc/sidetree-node/pkg/document"
)

// ErrorCode is the code returned in the error response body.
type ErrorCode string

const (
	SystemError        ErrorCode = "system-error"
	InvalidValue       ErrorCode = "invalid-value"
	InvalidOperation   ErrorCode = "invalid-operation"
	NotFound           ErrorCode = "not-found"
	Conflict           ErrorCode = "conflict"
	VerificationFailed ErrorCode = "verification-failed"
	ChannelUnavailable ErrorCode = "channel-unavailable"
	Unauthorized       ErrorCode = "unauthorized"
)

func (c ErrorCode) Name() string {
	return string(c)
}

var statusByCode = map[ErrorCode]int{ //nolint:gochecknoglobals
	SystemError:        http.StatusInternalServerError,
	InvalidValue:       http.StatusBadRequest,
	InvalidOperation:   http.StatusBadRequest,
	NotFound:           http.StatusNotFound,
	Conflict:           http.StatusConflict,
	VerificationFailed: http.StatusUnprocessableEntity,
	ChannelUnavailable: http.StatusServiceUnavailable,
	Unauthorized:       http.StatusUnauthorized,
}

// Response is the JSON body of an error response.
type Response struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CustomError is an error with a REST error code.
type CustomError struct {
	Code            ErrorCode
	FailedParameter string
	Err             error
}

func (e *CustomError) Error() string {
	if e.FailedParameter != "" {
		return fmt.Sprintf("%s[%s]: %v", e.Code, e.FailedParameter, e.Err)
	}

	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// HTTPCodeMsg returns the HTTP status and the response body of the error.
func (e *CustomError) HTTPCodeMsg() (int, *Response) {
	status, ok := statusByCode[e.Code]
	if !ok {
		status = http.StatusInternalServerError
	}

	return status, &Response{Code: e.Code.Name(), Message: e.Err.Error()}
}

func NewValidationError(code ErrorCode, failedParam string, err error) *CustomError {
	return &CustomError{
		Code:            code,
		FailedParameter: failedParam,
		Err:             err,
	}
}

func NewSystemError(err error) *CustomError {
	return &CustomError{
		Code: SystemError,
		Err:  err,
	}
}

func NewUnauthorizedError(err error) *CustomError {
	return &CustomError{
		Code: Unauthorized,
		Err:  err,
	}
}

// FromError maps a domain error to its REST error.
func FromError(err error) *CustomError {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr
	}

	code := SystemError

	switch {
	case errors.Is(err, document.ErrNotFound):
		code = NotFound
	case errors.Is(err, document.ErrConflict):
		code = Conflict
	case errors.Is(err, document.ErrVerification):
		code = VerificationFailed
	case errors.Is(err, document.ErrInvalidOperation):
		code = InvalidOperation
	case errors.Is(err, document.ErrChannelWrite):
		code = ChannelUnavailable
	}

	return &CustomError{Code: code, Err: err}
}
