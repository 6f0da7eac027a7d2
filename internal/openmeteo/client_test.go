package openmeteo

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testGeocodingURL = "https://geocoding.test/v1/search"
	testForecastURL  = "https://forecast.test/v1/forecast"
)

var fastBackoff = BackoffConfig{
	MaxRetries:      2,
	InitialInterval: time.Millisecond,
	MaxInterval:     5 * time.Millisecond,
}

func setupHTTPMock(t *testing.T) (*httpmock.MockTransport, *http.Client) {
	t.Helper()
	mock := httpmock.NewMockTransport()
	return mock, &http.Client{Transport: mock}
}

func TestGeocodingClient_Search(t *testing.T) {
	mock, httpClient := setupHTTPMock(t)
	mock.RegisterResponder(http.MethodGet, testGeocodingURL, func(req *http.Request) (*http.Response, error) {
		q := req.URL.Query()
		assert.Equal(t, "Lyon", q.Get("name"))
		assert.Equal(t, "10", q.Get("count"))
		assert.Equal(t, "fr", q.Get("language"))
		assert.Equal(t, "json", q.Get("format"))
		return httpmock.NewStringResponse(http.StatusOK, `{
			"results": [
				{"id": 2996944, "name": "Lyon", "latitude": 45.75, "longitude": 4.85, "country": "France", "admin1": "Auvergne-Rhône-Alpes"},
				{"id": 2996943, "name": "Lyon-Fontaine", "latitude": 45.6, "longitude": 4.9, "country": "France"}
			],
			"generationtime_ms": 0.5
		}`), nil
	})

	client := NewGeocodingClient(httpClient, testGeocodingURL, "", fastBackoff, zap.NewNop())
	results, err := client.Search(context.Background(), "Lyon", 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 2996944, results[0].ID)
	require.NotNil(t, results[0].Admin1)
	assert.Equal(t, "Auvergne-Rhône-Alpes", *results[0].Admin1)
	assert.Nil(t, results[1].Admin1)
}

func TestGeocodingClient_NullResults(t *testing.T) {
	mock, httpClient := setupHTTPMock(t)
	mock.RegisterResponder(http.MethodGet, testGeocodingURL,
		httpmock.NewStringResponder(http.StatusOK, `{"generationtime_ms": 0.2}`))

	client := NewGeocodingClient(httpClient, testGeocodingURL, "fr", fastBackoff, zap.NewNop())
	results, err := client.Search(context.Background(), "Xyzzy", 100)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestForecastClient_Forecast(t *testing.T) {
	mock, httpClient := setupHTTPMock(t)
	mock.RegisterResponder(http.MethodGet, testForecastURL, func(req *http.Request) (*http.Response, error) {
		q := req.URL.Query()
		assert.Equal(t, "45.75", q.Get("latitude"))
		assert.Equal(t, "4.85", q.Get("longitude"))
		assert.Equal(t, "temperature_2m,relative_humidity_2m,apparent_temperature,rain,wind_speed_10m", q.Get("hourly"))
		assert.Equal(t, "meteofrance_seamless", q.Get("models"))
		assert.Equal(t, "Europe/Paris", q.Get("timezone"))
		return httpmock.NewStringResponse(http.StatusOK, `{
			"latitude": 45.75,
			"longitude": 4.85,
			"hourly": {
				"time": ["2025-06-01T00:00", "2025-06-01T01:00"],
				"temperature_2m": [null, 14.2],
				"relative_humidity_2m": [80, null],
				"apparent_temperature": [13.1, 13.4],
				"rain": [0.0, 0.4],
				"wind_speed_10m": [5.2, null]
			}
		}`), nil
	})

	client := NewForecastClient(httpClient, testForecastURL, "", "", fastBackoff, zap.NewNop())
	resp, err := client.Forecast(context.Background(), 45.75, 4.85)
	require.NoError(t, err)

	h := resp.Hourly
	require.Len(t, h.Time, 2)
	assert.Nil(t, h.Temperature[0])
	require.NotNil(t, h.Temperature[1])
	assert.Equal(t, 14.2, *h.Temperature[1])
	require.NotNil(t, h.RelativeHumidity[0])
	assert.Equal(t, 80, *h.RelativeHumidity[0])
	assert.Nil(t, h.RelativeHumidity[1])
	assert.Nil(t, h.WindSpeed[1])
}

func TestTransport_StatusErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantErr   error
		wantCalls int
	}{
		{name: "rate limited retries", status: http.StatusTooManyRequests, wantErr: ErrRateLimited, wantCalls: 3},
		{name: "server error retries", status: http.StatusBadGateway, wantErr: ErrServerError, wantCalls: 3},
		{name: "not found does not retry", status: http.StatusNotFound, wantErr: ErrUnexpectedStatus, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, httpClient := setupHTTPMock(t)
			mock.RegisterResponder(http.MethodGet, testForecastURL,
				httpmock.NewStringResponder(tt.status, `{"error": true}`))

			client := NewForecastClient(httpClient, testForecastURL, "", "", fastBackoff, zap.NewNop())
			_, err := client.Forecast(context.Background(), 1, 2)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.status, statusErr.Code)
			assert.Equal(t, tt.wantCalls, mock.GetTotalCallCount())
		})
	}
}

func TestTransport_RecoversAfterRetry(t *testing.T) {
	mock, httpClient := setupHTTPMock(t)
	mock.RegisterResponder(http.MethodGet, testGeocodingURL, httpmock.ResponderFromMultipleResponses([]*http.Response{
		httpmock.NewStringResponse(http.StatusServiceUnavailable, ""),
		httpmock.NewStringResponse(http.StatusOK, `{"results": [{"id": 1, "name": "Paris", "latitude": 48.85, "longitude": 2.35, "country": "France"}]}`),
	}))

	client := NewGeocodingClient(httpClient, testGeocodingURL, "fr", fastBackoff, zap.NewNop())
	results, err := client.Search(context.Background(), "Paris", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, mock.GetTotalCallCount())
}

func TestTransport_DecodeError(t *testing.T) {
	mock, httpClient := setupHTTPMock(t)
	mock.RegisterResponder(http.MethodGet, testForecastURL,
		httpmock.NewStringResponder(http.StatusOK, `{"hourly": {"time": "not-a-list"}}`))

	client := NewForecastClient(httpClient, testForecastURL, "", "", fastBackoff, zap.NewNop())
	_, err := client.Forecast(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrDecode)
	assert.Equal(t, 1, mock.GetTotalCallCount())
}

func TestTransport_NetworkError(t *testing.T) {
	mock, httpClient := setupHTTPMock(t)
	mock.RegisterResponder(http.MethodGet, testForecastURL,
		httpmock.NewErrorResponder(errors.New("connection refused")))

	noRetry := fastBackoff
	noRetry.MaxRetries = 0
	client := NewForecastClient(httpClient, testForecastURL, "", "", noRetry, zap.NewNop())
	_, err := client.Forecast(context.Background(), 1, 2)
	require.Error(t, err)
	assert.ErrorContains(t, err, "connection refused")
	assert.NotErrorIs(t, err, ErrDecode)
}

func TestTransport_CancelledContext(t *testing.T) {
	mock, httpClient := setupHTTPMock(t)
	mock.RegisterResponder(http.MethodGet, testForecastURL,
		httpmock.NewStringResponder(http.StatusOK, `{}`))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewForecastClient(httpClient, testForecastURL, "", "", fastBackoff, zap.NewNop())
	_, err := client.Forecast(ctx, 1, 2)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, mock.GetTotalCallCount())
}

func TestTransport_CircuitOpens(t *testing.T) {
	mock, httpClient := setupHTTPMock(t)
	mock.RegisterResponder(http.MethodGet, testForecastURL,
		httpmock.NewStringResponder(http.StatusInternalServerError, ""))

	noRetry := fastBackoff
	noRetry.MaxRetries = 0
	client := NewForecastClient(httpClient, testForecastURL, "", "", noRetry, zap.NewNop())

	// The default breaker trips after more than five consecutive failures
	for i := 0; i < 6; i++ {
		_, err := client.Forecast(context.Background(), 1, 2)
		require.ErrorIs(t, err, ErrServerError)
	}

	_, err := client.Forecast(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 6, mock.GetTotalCallCount())
}

func TestTransport_CancelledSearchesKeepCircuitClosed(t *testing.T) {
	mock, httpClient := setupHTTPMock(t)
	mock.RegisterResponder(http.MethodGet, testGeocodingURL, func(req *http.Request) (*http.Response, error) {
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(50 * time.Millisecond):
		}
		return httpmock.NewStringResponse(http.StatusOK, `{"results": [{"id": 1, "name": "Lyon", "latitude": 45.75, "longitude": 4.85, "country": "France"}]}`), nil
	})

	client := NewGeocodingClient(httpClient, testGeocodingURL, "fr", fastBackoff, zap.NewNop())

	// Superseded keystrokes cancel their searches mid-flight
	for i := 0; i < 8; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		_, err := client.Search(ctx, "Lyo", 0)
		cancel()
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.NotErrorIs(t, err, ErrCircuitOpen)
	}

	results, err := client.Search(context.Background(), "Lyon", 0)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestTransport_ClientErrorsKeepCircuitClosed(t *testing.T) {
	mock, httpClient := setupHTTPMock(t)
	mock.RegisterResponder(http.MethodGet, testForecastURL,
		httpmock.NewStringResponder(http.StatusBadRequest, `{"error": true}`))

	client := NewForecastClient(httpClient, testForecastURL, "", "", fastBackoff, zap.NewNop())
	for i := 0; i < 8; i++ {
		_, err := client.Forecast(context.Background(), 1, 2)
		require.ErrorIs(t, err, ErrUnexpectedStatus)
	}
	assert.Equal(t, 8, mock.GetTotalCallCount())
}
