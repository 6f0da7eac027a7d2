package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/alexivanou/geoweather/internal/openmeteo"
)

// Kind categorizes a failed operation
type Kind string

const (
	KindNoConnectivity Kind = "no_connectivity"
	KindNoResults      Kind = "no_results"
	KindRateLimited    Kind = "rate_limited"
	KindServerError    Kind = "server_error"
	KindTransportError Kind = "transport_error"
	KindUnknown        Kind = "unknown"
)

// Error is returned by every Service operation that fails. Message is fit
// for display.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or KindUnknown for foreign errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// MessageOf returns the display message of err
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func noConnectivity(message string) *Error {
	return &Error{Kind: KindNoConnectivity, Message: message}
}

func noResults(message string) *Error {
	return &Error{Kind: KindNoResults, Message: message}
}

// classify converts a transport, store or context error into an *Error
func classify(err error) *Error {
	var (
		svcErr    *Error
		statusErr *openmeteo.StatusError
		urlErr    *url.Error
		netErr    net.Error
	)

	switch {
	case errors.As(err, &svcErr):
		return svcErr
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindTransportError, Message: "request cancelled", Err: err}
	case errors.Is(err, openmeteo.ErrRateLimited):
		return &Error{Kind: KindRateLimited, Message: "too many requests, try again later", Err: err}
	case errors.Is(err, openmeteo.ErrServerError):
		return &Error{Kind: KindServerError, Message: "server error, try again later", Err: err}
	case errors.As(err, &statusErr):
		return &Error{Kind: KindTransportError, Message: fmt.Sprintf("network error (%d)", statusErr.Code), Err: err}
	case errors.Is(err, openmeteo.ErrCircuitOpen):
		return &Error{Kind: KindTransportError, Message: "weather service temporarily unavailable", Err: err}
	case errors.Is(err, openmeteo.ErrDecode):
		return &Error{Kind: KindUnknown, Message: fmt.Sprintf("an error occurred: %v", err), Err: err}
	case errors.As(err, &urlErr), errors.As(err, &netErr):
		return &Error{Kind: KindTransportError, Message: "network error, check your connection", Err: err}
	default:
		return &Error{Kind: KindUnknown, Message: fmt.Sprintf("an error occurred: %v", err), Err: err}
	}
}
