package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alexivanou/geoweather/internal/model"
	"github.com/alexivanou/geoweather/internal/service"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Handler handles HTTP requests
type Handler struct {
	service        service.WeatherService
	minQueryLength int
	logger         *zap.Logger
	now            func() time.Time
}

// NewHandler creates a new handler instance
func NewHandler(svc service.WeatherService, minQueryLength int, logger *zap.Logger) *Handler {
	return &Handler{
		service:        svc,
		minQueryLength: minQueryLength,
		logger:         logger.With(zap.String("component", "api")),
		now:            time.Now,
	}
}

// weatherResponse adds cache status to a snapshot
type weatherResponse struct {
	*model.WeatherSnapshot
	Fresh            bool  `json:"fresh"`
	ExpiresInSeconds int64 `json:"expires_in_seconds"`
	NearExpiration   bool  `json:"near_expiration"`
}

type favoriteResponse struct {
	Place   model.Place      `json:"place"`
	Weather *weatherResponse `json:"weather"`
}

func (h *Handler) weatherStatus(w *model.WeatherSnapshot) *weatherResponse {
	if w == nil {
		return nil
	}
	now := h.now()
	window := h.service.Freshness()
	return &weatherResponse{
		WeatherSnapshot:  w,
		Fresh:            w.IsFresh(now, window),
		ExpiresInSeconds: int64(w.ExpiresIn(now, window).Seconds()),
		NearExpiration:   w.NearExpiration(now, window),
	}
}

func (h *Handler) favoritesResponse(views []model.FavoriteView) []favoriteResponse {
	resp := make([]favoriteResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, favoriteResponse{Place: v.Place, Weather: h.weatherStatus(v.Weather)})
	}
	return resp
}

// SearchPlaces handles GET /api/v1/places/search
func (h *Handler) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		http.Error(w, "query parameter 'q' is required", http.StatusBadRequest)
		return
	}

	if utf8.RuneCountInString(query) < h.minQueryLength {
		http.Error(w, fmt.Sprintf("query must be at least %d characters", h.minQueryLength), http.StatusBadRequest)
		return
	}

	places, err := h.service.SearchPlaces(r.Context(), query)
	if err != nil {
		h.writeServiceError(w, "searching places", err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"results": places})
}

// GetNearbyPlaces handles GET /api/v1/places/nearby
func (h *Handler) GetNearbyPlaces(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := parseCoordinates(w, r)
	if !ok {
		return
	}

	places, err := h.service.GetNearbyPlaces(r.Context(), lat, lon)
	if err != nil {
		h.writeServiceError(w, "finding nearby places", err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"results": places})
}

// GetWeather handles GET /api/v1/weather
func (h *Handler) GetWeather(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := parseCoordinates(w, r)
	if !ok {
		return
	}

	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		http.Error(w, "invalid id parameter", http.StatusBadRequest)
		return
	}
	name := r.URL.Query().Get("name")

	snapshot, err := h.service.GetWeather(r.Context(), lat, lon, id, name)
	if err != nil {
		h.writeServiceError(w, "getting weather", err)
		return
	}

	h.writeJSON(w, http.StatusOK, h.weatherStatus(&snapshot))
}

// ListFavorites handles GET /api/v1/favorites
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListFavorites(r.Context())
	if err != nil {
		h.writeServiceError(w, "listing favorites", err)
		return
	}

	h.writeJSON(w, http.StatusOK, h.favoritesResponse(views))
}

// StreamFavorites handles GET /api/v1/favorites/stream as server-sent events
func (h *Handler) StreamFavorites(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for views := range h.service.Favorites(r.Context()) {
		data, err := json.Marshal(h.favoritesResponse(views))
		if err != nil {
			h.logger.Error("Error encoding favorites event", zap.Error(err))
			return
		}
		if _, err := fmt.Fprintf(w, "event: favorites\ndata: %s\n\n", data); err != nil {
			return
		}
		flusher.Flush()
	}
}

// AddFavorite handles POST /api/v1/favorites
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var place model.Place
	if err := json.NewDecoder(r.Body).Decode(&place); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if place.ID <= 0 || strings.TrimSpace(place.Name) == "" {
		http.Error(w, "place id and name are required", http.StatusBadRequest)
		return
	}

	if err := h.service.AddFavorite(r.Context(), place); err != nil {
		h.writeServiceError(w, "adding favorite", err)
		return
	}

	h.writeJSON(w, http.StatusCreated, place)
}

// GetFavorite handles GET /api/v1/favorites/{id}
func (h *Handler) GetFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := placeID(w, r)
	if !ok {
		return
	}

	isFav, err := h.service.IsFavorite(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "checking favorite", err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "favorite": isFav})
}

// RemoveFavorite handles DELETE /api/v1/favorites/{id}
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := placeID(w, r)
	if !ok {
		return
	}

	if err := h.service.RemoveFavorite(r.Context(), id); err != nil {
		h.writeServiceError(w, "removing favorite", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SweepCache handles POST /api/v1/cache/sweep
func (h *Handler) SweepCache(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.service.SweepCache(r.Context())
	if err != nil {
		h.writeServiceError(w, "sweeping cache", err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": deleted})
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Error encoding response", zap.Error(err))
	}
}

func (h *Handler) writeServiceError(w http.ResponseWriter, action string, err error) {
	status := statusFor(service.KindOf(err))
	if status >= http.StatusInternalServerError {
		h.logger.Error("Error "+action, zap.Error(err))
	} else {
		h.logger.Debug("Error "+action, zap.Error(err))
	}
	http.Error(w, service.MessageOf(err), status)
}

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindNoConnectivity:
		return http.StatusServiceUnavailable
	case service.KindNoResults:
		return http.StatusNotFound
	case service.KindRateLimited:
		return http.StatusTooManyRequests
	case service.KindServerError, service.KindTransportError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func parseCoordinates(w http.ResponseWriter, r *http.Request) (float64, float64, bool) {
	latStr := r.URL.Query().Get("lat")
	lonStr := r.URL.Query().Get("lon")

	if latStr == "" || lonStr == "" {
		http.Error(w, "parameters 'lat' and 'lon' are required", http.StatusBadRequest)
		return 0, 0, false
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		http.Error(w, "invalid lat parameter", http.StatusBadRequest)
		return 0, 0, false
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		http.Error(w, "invalid lon parameter", http.StatusBadRequest)
		return 0, 0, false
	}

	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		http.Error(w, "invalid coordinates range", http.StatusBadRequest)
		return 0, 0, false
	}

	return lat, lon, true
}

func placeID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		http.Error(w, "invalid place id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
