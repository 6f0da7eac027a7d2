// Package openmeteo wraps the Open-Meteo geocoding and forecast APIs.
//
// API Docs: https://open-meteo.com/en/docs and https://open-meteo.com/en/docs/geocoding-api
package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BackoffConfig controls exponential backoff behaviour.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultBackoff retries twice, starting at 300ms
var DefaultBackoff = BackoffConfig{
	MaxRetries:      2,
	InitialInterval: 300 * time.Millisecond,
	MaxInterval:     3 * time.Second,
}

// transport bundles the HTTP client and resilience settings shared by both
// API clients. Each client owns its own circuit breaker.
type transport struct {
	client  *http.Client
	backoff BackoffConfig
	circuit *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

func newTransport(name string, client *http.Client, backoff BackoffConfig, logger *zap.Logger) transport {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:         name,
		MaxRequests:  5,
		Interval:     1 * time.Minute,
		Timeout:      2 * time.Minute,
		IsSuccessful: backendHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return transport{client: client, backoff: backoff, circuit: cb, logger: logger}
}

// getJSON executes a GET with retries, exponential backoff and a circuit
// breaker, then decodes the body into out.
func (t transport) getJSON(ctx context.Context, url string, out interface{}) error {
	if t.client == nil {
		return errNoHTTPClient
	}
	if t.backoff.MaxRetries < 0 || t.backoff.InitialInterval <= 0 {
		return errInvalidConfig
	}

	var attempt int
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		body, err := t.fetch(ctx, url)
		if err == nil {
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("%w: %v", ErrDecode, err)
			}
			return nil
		}

		// If circuit is open, propagate immediately.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !retryable(err) || attempt >= t.backoff.MaxRetries {
			return err
		}

		delay := t.backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if delay > t.backoff.MaxInterval && t.backoff.MaxInterval > 0 {
			delay = t.backoff.MaxInterval
		}
		t.logger.Debug("request failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		attempt++
	}
}

func (t transport) fetch(ctx context.Context, url string) ([]byte, error) {
	result, err := t.circuit.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := t.client.Do(req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("%w: %w", errCallerDone, ctxErr)
			}
			return nil, err
		}
		defer func(Body io.ReadCloser) {
			_ = Body.Close()
		}(resp.Body)

		if resp.StatusCode != http.StatusOK {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil, NewStatusError(resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("%w: %w", errCallerDone, ctxErr)
			}
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// backendHealthy reports whether err leaves the breaker's failure count
// alone. Requests the caller abandoned and plain client errors say nothing
// about the backend.
func backendHealthy(err error) bool {
	return err == nil || errors.Is(err, errCallerDone) || errors.Is(err, ErrUnexpectedStatus)
}

// retryable reports whether another attempt may succeed. Client errors other
// than 429 will not change on retry.
func retryable(err error) bool {
	return !errors.Is(err, ErrUnexpectedStatus)
}
