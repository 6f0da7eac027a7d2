package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/alexivanou/geoweather/internal/openmeteo"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    Kind
		message string
	}{
		{
			name:    "rate limited",
			err:     fmt.Errorf("forecast: %w", openmeteo.NewStatusError(429)),
			kind:    KindRateLimited,
			message: "too many requests, try again later",
		},
		{
			name:    "server error",
			err:     fmt.Errorf("forecast: %w", openmeteo.NewStatusError(503)),
			kind:    KindServerError,
			message: "server error, try again later",
		},
		{
			name:    "other status",
			err:     fmt.Errorf("forecast: %w", openmeteo.NewStatusError(404)),
			kind:    KindTransportError,
			message: "network error (404)",
		},
		{
			name:    "circuit open",
			err:     fmt.Errorf("%w: open", openmeteo.ErrCircuitOpen),
			kind:    KindTransportError,
			message: "weather service temporarily unavailable",
		},
		{
			name:    "network failure",
			err:     &url.Error{Op: "Get", URL: "https://example.test", Err: errors.New("connection refused")},
			kind:    KindTransportError,
			message: "network error, check your connection",
		},
		{
			name:    "cancelled",
			err:     fmt.Errorf("forecast: %w", context.Canceled),
			kind:    KindTransportError,
			message: "request cancelled",
		},
		{
			name:    "decode",
			err:     fmt.Errorf("%w: unexpected EOF", openmeteo.ErrDecode),
			kind:    KindUnknown,
			message: "an error occurred: failed to decode response: unexpected EOF",
		},
		{
			name:    "anything else",
			err:     errors.New("disk full"),
			kind:    KindUnknown,
			message: "an error occurred: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.message, got.Message)
			assert.ErrorIs(t, got, tt.err)
			assert.Equal(t, tt.kind, KindOf(got))
			assert.Equal(t, tt.message, MessageOf(got))
		})
	}
}

func TestClassify_KeepsServiceErrors(t *testing.T) {
	orig := noResults("no city found nearby")
	assert.Same(t, orig, classify(fmt.Errorf("wrapped: %w", orig)))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, "no city found nearby", orig.Error())
}
