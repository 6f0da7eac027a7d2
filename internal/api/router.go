package api

import (
	"github.com/alexivanou/geoweather/internal/service"
	"github.com/alexivanou/geoweather/internal/stats"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter creates a new HTTP router
func NewRouter(svc service.WeatherService, statsCollector *stats.Collector, minQueryLength int, logger *zap.Logger) *mux.Router {
	handler := NewHandler(svc, minQueryLength, logger)
	statsHandler := NewStatsHandler(statsCollector, logger)

	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1
	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/places/search", handler.SearchPlaces).Methods("GET")
	v1.HandleFunc("/places/nearby", handler.GetNearbyPlaces).Methods("GET")
	v1.HandleFunc("/weather", handler.GetWeather).Methods("GET")
	v1.HandleFunc("/favorites", handler.ListFavorites).Methods("GET")
	v1.HandleFunc("/favorites", handler.AddFavorite).Methods("POST")
	v1.HandleFunc("/favorites/stream", handler.StreamFavorites).Methods("GET")
	v1.HandleFunc("/favorites/{id:[0-9]+}", handler.GetFavorite).Methods("GET")
	v1.HandleFunc("/favorites/{id:[0-9]+}", handler.RemoveFavorite).Methods("DELETE")
	v1.HandleFunc("/cache/sweep", handler.SweepCache).Methods("POST")
	v1.HandleFunc("/stats", statsHandler.GetStats).Methods("GET")

	return router
}
