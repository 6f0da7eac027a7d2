package openmeteo

import (
	"errors"
	"fmt"
)

var (
	ErrRateLimited      = errors.New("rate limited")
	ErrServerError      = errors.New("server error")
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrCircuitOpen      = errors.New("circuit breaker open")
	ErrDecode           = errors.New("failed to decode response")
	errNoHTTPClient     = errors.New("http client not configured")
	errInvalidConfig    = errors.New("invalid backoff configuration")
	// errCallerDone marks requests abandoned by the caller's context
	errCallerDone = errors.New("request abandoned by caller")
)

// StatusError carries the HTTP status of a failed request. It unwraps to
// ErrRateLimited, ErrServerError or ErrUnexpectedStatus.
type StatusError struct {
	Code int
	kind error
}

// NewStatusError classifies an HTTP status code
func NewStatusError(code int) *StatusError {
	switch {
	case code == 429:
		return &StatusError{Code: code, kind: ErrRateLimited}
	case code >= 500:
		return &StatusError{Code: code, kind: ErrServerError}
	default:
		return &StatusError{Code: code, kind: ErrUnexpectedStatus}
	}
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: %d", e.kind, e.Code)
}

func (e *StatusError) Unwrap() error {
	return e.kind
}
