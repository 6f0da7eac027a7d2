package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexivanou/geoweather/internal/api"
	"github.com/alexivanou/geoweather/internal/config"
	"github.com/alexivanou/geoweather/internal/connectivity"
	"github.com/alexivanou/geoweather/internal/database"
	"github.com/alexivanou/geoweather/internal/openmeteo"
	"github.com/alexivanou/geoweather/internal/refresh"
	"github.com/alexivanou/geoweather/internal/repository"
	"github.com/alexivanou/geoweather/internal/scheduler"
	"github.com/alexivanou/geoweather/internal/service"
	"github.com/alexivanou/geoweather/internal/stats"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := cfg.Log.NewLogger()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Connected to database", zap.String("type", string(cfg.DB.Type)))

	if err := database.Migrate(db, cfg.DB); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	repos := repository.NewRepositories(db, cfg.DB.Type)

	httpClient := &http.Client{Timeout: cfg.API.Timeout}
	backoff := openmeteo.DefaultBackoff
	backoff.MaxRetries = cfg.API.MaxRetries

	svc := service.NewService(
		repos,
		openmeteo.NewGeocodingClient(httpClient, cfg.API.GeocodingURL, cfg.API.Language, backoff, logger),
		openmeteo.NewForecastClient(httpClient, cfg.API.ForecastURL, cfg.API.Model, cfg.API.Timezone, backoff, logger),
		connectivity.NewProbe(cfg.Connectivity.Addr, cfg.Connectivity.TTL, logger),
		logger,
		service.WithFreshness(cfg.Cache.Freshness),
		service.WithRetention(cfg.Cache.Retention),
	)

	coordinator := refresh.NewCoordinator(svc, logger)
	coordinatorDone := make(chan struct{})
	go func() {
		defer close(coordinatorDone)
		if err := coordinator.Run(ctx); err != nil {
			logger.Error("Refresh coordinator stopped", zap.Error(err))
		}
	}()

	jobs := scheduler.New(svc, coordinator, cfg.Cache.SweepInterval, cfg.Cache.RefreshInterval, logger)
	if err := jobs.Start(); err != nil {
		logger.Fatal("Failed to start scheduler", zap.Error(err))
	}

	statsCollector := stats.NewCollector(db, cfg.DB, svc.Freshness())
	router := api.NewRouter(svc, statsCollector, cfg.Search.MinLength, logger)

	srv := newServer(ctx, "127.0.0.1:"+cfg.Server.Port, router)

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	jobs.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Ends the coordinator and any open favorites streams
	cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	<-coordinatorDone

	logger.Info("Server exited")
}
