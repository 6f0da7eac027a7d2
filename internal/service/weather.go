package service

import (
	"context"

	"github.com/alexivanou/geoweather/internal/model"
	"go.uber.org/zap"
)

// GetWeather serves cached weather while it is fresh and fetches otherwise.
// When offline or when the fetch fails, any cached snapshot is returned
// regardless of age. A cancelled fetch never writes to the cache.
func (s *Service) GetWeather(ctx context.Context, lat, lon float64, placeID int, placeName string) (model.WeatherSnapshot, error) {
	logger := s.logger.With(zap.Int("place_id", placeID))

	cached, err := s.cache.GetSnapshot(ctx, placeID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return model.WeatherSnapshot{}, classify(ctxErr)
		}
		logger.Warn("failed to read cached weather", zap.Error(err))
		cached = nil
	}

	if cached != nil && cached.IsFresh(s.now(), s.freshness) {
		return *cached, nil
	}

	if !s.connectivity.Online(ctx) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return model.WeatherSnapshot{}, classify(ctxErr)
		}
		if cached != nil {
			logger.Debug("offline, serving cached weather", zap.Time("captured_at", cached.CapturedAt))
			return *cached, nil
		}
		return model.WeatherSnapshot{}, noConnectivity("no connection and no cached data")
	}

	resp, err := s.forecaster.Forecast(ctx, lat, lon)
	if err != nil {
		if ctx.Err() != nil {
			return model.WeatherSnapshot{}, classify(err)
		}
		if cached != nil {
			logger.Info("forecast failed, serving cached weather", zap.Error(err))
			return *cached, nil
		}
		return model.WeatherSnapshot{}, classify(err)
	}

	snapshot := toSnapshot(resp, placeID, placeName, lat, lon, s.timestamp())
	if ctxErr := ctx.Err(); ctxErr != nil {
		return model.WeatherSnapshot{}, classify(ctxErr)
	}
	if err := s.cache.UpsertSnapshot(ctx, snapshot); err != nil {
		logger.Warn("failed to cache weather", zap.Error(err))
	}
	return snapshot, nil
}

// SweepCache deletes snapshots older than the retention period
func (s *Service) SweepCache(ctx context.Context) (int64, error) {
	cutoff := s.timestamp().Add(-s.retention)
	deleted, err := s.cache.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, classify(err)
	}
	s.logger.Info("swept weather cache", zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
	return deleted, nil
}
