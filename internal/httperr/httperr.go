// Package httperr carries HTTP-status-typed failures from domain code
// to the single rendering boundary in the middleware. Lower layers
// return these errors; only the middleware turns them into responses.
package httperr

import "net/http"

// Error is a failure with a client-facing detail message and status.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

// New builds an Error with an arbitrary status code.
func New(status int, detail string) *Error {
	return &Error{Status: status, Detail: detail}
}

// Unauthorized marks a missing, invalid or expired credential (401).
func Unauthorized(detail string) *Error {
	return New(http.StatusUnauthorized, detail)
}

// Forbidden marks an authenticated but not permitted request (403).
func Forbidden(detail string) *Error {
	return New(http.StatusForbidden, detail)
}

// NotFound marks an absent resource (404).
func NotFound(detail string) *Error {
	return New(http.StatusNotFound, detail)
}

// BadRequest marks malformed input (400).
func BadRequest(detail string) *Error {
	return New(http.StatusBadRequest, detail)
}
