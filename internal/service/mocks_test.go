package service

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/alexivanou/geoweather/internal/config"
	"github.com/alexivanou/geoweather/internal/connectivity"
	"github.com/alexivanou/geoweather/internal/database"
	"github.com/alexivanou/geoweather/internal/openmeteo"
	"github.com/alexivanou/geoweather/internal/repository"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockGeocoder implements Geocoder
type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Search(ctx context.Context, name string, count int) ([]openmeteo.GeocodingResult, error) {
	args := m.Called(ctx, name, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]openmeteo.GeocodingResult), args.Error(1)
}

// MockForecaster implements Forecaster
type MockForecaster struct {
	mock.Mock
}

func (m *MockForecaster) Forecast(ctx context.Context, latitude, longitude float64) (*openmeteo.ForecastResponse, error) {
	args := m.Called(ctx, latitude, longitude)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openmeteo.ForecastResponse), args.Error(1)
}

type testEnv struct {
	svc        *Service
	repos      *repository.Container
	geocoder   *MockGeocoder
	forecaster *MockForecaster
	now        time.Time
}

func newTestEnv(t *testing.T, online bool) *testEnv {
	t.Helper()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	cfg := config.DBConfig{
		Type: config.DBTypeMemory,
		Name: fmt.Sprintf("testdb_%d", rng.Int()),
	}
	db, err := database.Connect(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db, cfg))

	env := &testEnv{
		repos:      repository.NewRepositories(db, cfg.Type),
		geocoder:   new(MockGeocoder),
		forecaster: new(MockForecaster),
		now:        time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	env.svc = NewService(env.repos, env.geocoder, env.forecaster, connectivity.Static(online), zap.NewNop(),
		WithClock(func() time.Time { return env.now }),
	)
	return env
}

func f64(v float64) *float64 { return &v }

func i64(v int) *int { return &v }

func strPtr(s string) *string { return &s }

// forecastFixture returns a two-hour forecast
func forecastFixture() *openmeteo.ForecastResponse {
	return &openmeteo.ForecastResponse{
		Latitude:  45.75,
		Longitude: 4.85,
		Hourly: openmeteo.HourlySeries{
			Time:                []string{"2025-06-01T12:00", "2025-06-01T13:00"},
			Temperature:         []*float64{f64(21.5), f64(23.0)},
			RelativeHumidity:    []*int{i64(55), i64(50)},
			ApparentTemperature: []*float64{f64(20.9), f64(22.4)},
			Rain:                []*float64{f64(0), f64(0)},
			WindSpeed:           []*float64{f64(12.0), f64(14.0)},
		},
	}
}
