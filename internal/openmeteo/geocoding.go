package openmeteo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

const (
	baseGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	// DefaultSearchCount is the result count for a plain name search
	DefaultSearchCount = 10
)

// GeocodingClient searches places by name
type GeocodingClient struct {
	transport
	baseURL  string
	language string
}

// NewGeocodingClient creates a geocoding client. Empty baseURL and language
// fall back to the public endpoint and "fr".
func NewGeocodingClient(httpClient *http.Client, baseURL, language string, backoff BackoffConfig, logger *zap.Logger) *GeocodingClient {
	if baseURL == "" {
		baseURL = baseGeocodingURL
	}
	if language == "" {
		language = "fr"
	}
	return &GeocodingClient{
		transport: newTransport("geocoding", httpClient, backoff, logger.With(zap.String("component", "geocoding-client"))),
		baseURL:   baseURL,
		language:  language,
	}
}

// Search returns up to count places matching name. A response without
// results yields an empty slice.
func (c *GeocodingClient) Search(ctx context.Context, name string, count int) ([]GeocodingResult, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	if count <= 0 {
		count = DefaultSearchCount
	}

	q := u.Query()
	q.Set("name", name)
	q.Set("count", strconv.Itoa(count))
	q.Set("language", c.language)
	q.Set("format", "json")
	u.RawQuery = q.Encode()

	var resp GeocodingResponse
	if err := c.getJSON(ctx, u.String(), &resp); err != nil {
		return nil, fmt.Errorf("geocoding search %q: %w", name, err)
	}
	return resp.Results, nil
}
