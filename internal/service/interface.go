package service

import (
	"context"
	"time"

	"github.com/alexivanou/geoweather/internal/model"
	"github.com/alexivanou/geoweather/internal/openmeteo"
)

// WeatherService is the surface consumed by the HTTP facade, the CLI and
// the refresh coordinator
type WeatherService interface {
	SearchPlaces(ctx context.Context, query string) ([]model.Place, error)
	GetNearbyPlaces(ctx context.Context, lat, lon float64) ([]model.Place, error)
	GetWeather(ctx context.Context, lat, lon float64, placeID int, placeName string) (model.WeatherSnapshot, error)
	Favorites(ctx context.Context) <-chan []model.FavoriteView
	ListFavorites(ctx context.Context) ([]model.FavoriteView, error)
	AddFavorite(ctx context.Context, place model.Place) error
	RemoveFavorite(ctx context.Context, placeID int) error
	IsFavorite(ctx context.Context, placeID int) (bool, error)
	ToggleFavorite(ctx context.Context, place model.Place) (bool, error)
	SweepCache(ctx context.Context) (int64, error)
	Freshness() time.Duration
}

// Geocoder resolves place names
type Geocoder interface {
	Search(ctx context.Context, name string, count int) ([]openmeteo.GeocodingResult, error)
}

// Forecaster fetches hourly forecasts
type Forecaster interface {
	Forecast(ctx context.Context, latitude, longitude float64) (*openmeteo.ForecastResponse, error)
}
