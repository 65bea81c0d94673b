// Package apperr defines the service error taxonomy and its HTTP mapping.
// Every error surfaced to a caller carries a stable code and a
// human-readable message; nothing is retried and nothing is swallowed.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies an error category on the wire.
type Code string

const (
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeInvalidToken       Code = "invalid_token"
	CodeTokenExpired       Code = "token_expired"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeValidation         Code = "validation_error"
	CodeInternal           Code = "internal_error"
)

// Error is a typed service error. HTTPStatus is the status a handler should
// respond with when this error reaches the HTTP boundary.
type Error struct {
	Code       Code
	Message    string
	HTTPStatus int
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match two taxonomy errors by code.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

func newError(code Code, status int, message string, err error) *Error {
	return &Error{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// InvalidCredentials covers failed logins. The message never reveals whether
// the username or the password was wrong.
func InvalidCredentials() *Error {
	return newError(CodeInvalidCredentials, http.StatusUnauthorized, "incorrect username or password", nil)
}

// Unauthorized covers requests lacking usable authentication.
func Unauthorized(message string) *Error {
	return newError(CodeUnauthorized, http.StatusUnauthorized, message, nil)
}

// InvalidToken covers malformed tokens and bad signatures.
func InvalidToken(err error) *Error {
	return newError(CodeInvalidToken, http.StatusUnauthorized, "could not validate credentials", err)
}

// TokenExpired covers tokens past their embedded expiry.
func TokenExpired() *Error {
	return newError(CodeTokenExpired, http.StatusUnauthorized, "token has expired", nil)
}

// Forbidden covers role and ownership failures.
func Forbidden(message string) *Error {
	return newError(CodeForbidden, http.StatusForbidden, message, nil)
}

// NotFound covers references to rows that do not exist.
func NotFound(message string) *Error {
	return newError(CodeNotFound, http.StatusNotFound, message, nil)
}

// Conflict covers uniqueness violations such as duplicate usernames.
func Conflict(message string) *Error {
	return newError(CodeConflict, http.StatusConflict, message, nil)
}

// Validation covers malformed or semantically invalid request input.
func Validation(message string) *Error {
	return newError(CodeValidation, http.StatusUnprocessableEntity, message, nil)
}

// Internal wraps unexpected failures. The wrapped error is logged, not sent
// to the caller.
func Internal(message string, err error) *Error {
	return newError(CodeInternal, http.StatusInternalServerError, message, err)
}

// FromError recovers the typed error from an error chain, wrapping unknown
// errors as Internal so the HTTP layer always has a status to send.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	return Internal("internal server error", err)
}
