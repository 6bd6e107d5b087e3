package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Machine-readable error codes returned in the response envelope.
const (
	CodeMissingFields      = "MISSING_FIELDS"
	CodeInvalidEmail       = "INVALID_EMAIL"
	CodeWeakPassword       = "WEAK_PASSWORD"
	CodeInvalidCategory    = "INVALID_CATEGORY"
	CodeTokenRequired      = "TOKEN_REQUIRED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeMalformedToken     = "MALFORMED_TOKEN"
	CodeTokenNotActive     = "TOKEN_NOT_ACTIVE"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUserInactive       = "USER_INACTIVE"
	CodeUserSuspended      = "USER_SUSPENDED"
	CodeSessionRevoked     = "SESSION_REVOKED"
	CodeForbiddenRole      = "FORBIDDEN_ROLE"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeDuplicateResource  = "DUPLICATE_RESOURCE"
	CodeSessionNotFound    = "SESSION_NOT_FOUND"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodePlaceNotFound      = "PLACE_NOT_FOUND"
	CodeEndpointNotFound   = "ENDPOINT_NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeInternalError      = "INTERNAL_ERROR"
)

// ErrNotFound is the repository-level sentinel for a missing row. Services
// remap it to a resource-specific AppError before it reaches a handler.
var ErrNotFound = errors.New("requested resource not found")

// AppError carries the HTTP status, machine code and shouldLogout flag for a
// failure. Handlers never map errors themselves; everything funnels through
// FromError.
type AppError struct {
	Code         string
	Status       int
	Message      string
	ShouldLogout bool
	Err          error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewValidationError(code, message string) *AppError {
	return &AppError{Code: code, Status: http.StatusBadRequest, Message: message}
}

// NewAuthError builds a 401. shouldLogout marks failures that mean the
// client's cached credential is permanently dead, so it purges local state
// instead of retry-looping.
func NewAuthError(code, message string, shouldLogout bool) *AppError {
	return &AppError{Code: code, Status: http.StatusUnauthorized, Message: message, ShouldLogout: shouldLogout}
}

func NewForbiddenError(code, message string) *AppError {
	return &AppError{Code: code, Status: http.StatusForbidden, Message: message}
}

func NewNotFoundError(code, message string) *AppError {
	return &AppError{Code: code, Status: http.StatusNotFound, Message: message}
}

func NewConflictError(code, message string) *AppError {
	return &AppError{Code: code, Status: http.StatusConflict, Message: message}
}

func NewInternalError(message string, err error) *AppError {
	return &AppError{Code: CodeInternalError, Status: http.StatusInternalServerError, Message: message, Err: err}
}

// FromError classifies any error into an AppError. Known shapes (an AppError
// somewhere in the chain, a Postgres constraint violation, a store timeout)
// keep their meaning; everything else becomes a generic 500 without leaking
// internals to the client.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" { // unique violation
			return NewConflictError(CodeDuplicateResource, "Resource already exists")
		}
		if strings.HasPrefix(pgErr.Code, "08") { // connection exception class
			return &AppError{Code: CodeServiceUnavailable, Status: http.StatusServiceUnavailable, Message: "Database unavailable", Err: err}
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{Code: CodeServiceUnavailable, Status: http.StatusServiceUnavailable, Message: "Upstream dependency timed out", Err: err}
	}

	if errors.Is(err, ErrNotFound) {
		return NewNotFoundError(CodeEndpointNotFound, "Requested resource not found")
	}

	return NewInternalError("Internal server error", err)
}
