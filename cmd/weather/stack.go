package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alexivanou/geoweather/internal/config"
	"github.com/alexivanou/geoweather/internal/connectivity"
	"github.com/alexivanou/geoweather/internal/database"
	"github.com/alexivanou/geoweather/internal/openmeteo"
	"github.com/alexivanou/geoweather/internal/repository"
	"github.com/alexivanou/geoweather/internal/service"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type stack struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sqlx.DB
	svc    *service.Service
	closed bool
}

func newStack(ctx context.Context) (*stack, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := cfg.Log.NewLogger()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.Migrate(db, cfg.DB); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.API.Timeout}
	backoff := openmeteo.DefaultBackoff
	backoff.MaxRetries = cfg.API.MaxRetries

	svc := service.NewService(
		repository.NewRepositories(db, cfg.DB.Type),
		openmeteo.NewGeocodingClient(httpClient, cfg.API.GeocodingURL, cfg.API.Language, backoff, logger),
		openmeteo.NewForecastClient(httpClient, cfg.API.ForecastURL, cfg.API.Model, cfg.API.Timezone, backoff, logger),
		connectivity.NewProbe(cfg.Connectivity.Addr, cfg.Connectivity.TTL, logger),
		logger,
		service.WithFreshness(cfg.Cache.Freshness),
		service.WithRetention(cfg.Cache.Retention),
	)

	return &stack{cfg: cfg, logger: logger, db: db, svc: svc}, nil
}

func (s *stack) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.db.Close()
	_ = s.logger.Sync()
}
