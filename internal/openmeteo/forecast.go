package openmeteo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	baseForecastURL = "https://api.open-meteo.com/v1/forecast"
	defaultModel    = "meteofrance_seamless"
	defaultTimezone = "Europe/Paris"
)

// HourlyVariables is the fixed list of hourly fields requested
var HourlyVariables = []string{
	"temperature_2m",
	"relative_humidity_2m",
	"apparent_temperature",
	"rain",
	"wind_speed_10m",
}

// ForecastClient fetches hourly forecasts
type ForecastClient struct {
	transport
	baseURL  string
	model    string
	timezone string
}

// NewForecastClient creates a forecast client. Empty settings fall back to
// the public endpoint, the meteofrance_seamless model and Europe/Paris.
func NewForecastClient(httpClient *http.Client, baseURL, model, timezone string, backoff BackoffConfig, logger *zap.Logger) *ForecastClient {
	if baseURL == "" {
		baseURL = baseForecastURL
	}
	if model == "" {
		model = defaultModel
	}
	if timezone == "" {
		timezone = defaultTimezone
	}
	return &ForecastClient{
		transport: newTransport("forecast", httpClient, backoff, logger.With(zap.String("component", "forecast-client"))),
		baseURL:   baseURL,
		model:     model,
		timezone:  timezone,
	}
}

// Forecast fetches the hourly forecast for a coordinate
func (c *ForecastClient) Forecast(ctx context.Context, latitude, longitude float64) (*ForecastResponse, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	q := u.Query()
	q.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	q.Set("hourly", strings.Join(HourlyVariables, ","))
	q.Set("models", c.model)
	q.Set("timezone", c.timezone)
	u.RawQuery = q.Encode()

	var resp ForecastResponse
	if err := c.getJSON(ctx, u.String(), &resp); err != nil {
		return nil, fmt.Errorf("forecast %.4f,%.4f: %w", latitude, longitude, err)
	}
	return &resp, nil
}
