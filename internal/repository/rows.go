package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexivanou/geoweather/internal/model"
)

type favoriteRow struct {
	PlaceID   int     `db:"place_id"`
	Name      string  `db:"name"`
	Latitude  float64 `db:"latitude"`
	Longitude float64 `db:"longitude"`
	Country   string  `db:"country"`
	Admin1    *string `db:"admin1"`
	AddedAt   int64   `db:"added_at"`
}

func newFavoriteRow(f model.Favorite) favoriteRow {
	return favoriteRow{
		PlaceID:   f.ID,
		Name:      f.Name,
		Latitude:  f.Latitude,
		Longitude: f.Longitude,
		Country:   f.Country,
		Admin1:    f.Admin1,
		AddedAt:   f.AddedAt.UnixMilli(),
	}
}

func (r favoriteRow) toFavorite() model.Favorite {
	return model.Favorite{
		Place: model.Place{
			ID:        r.PlaceID,
			Name:      r.Name,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Country:   r.Country,
			Admin1:    r.Admin1,
		},
		AddedAt: time.UnixMilli(r.AddedAt).UTC(),
	}
}

type weatherCacheRow struct {
	PlaceID             int     `db:"place_id"`
	PlaceName           string  `db:"place_name"`
	Latitude            float64 `db:"latitude"`
	Longitude           float64 `db:"longitude"`
	CurrentTemperature  float64 `db:"current_temperature"`
	ApparentTemperature float64 `db:"apparent_temperature"`
	Condition           string  `db:"weather_condition"`
	MinTemperature      float64 `db:"min_temperature"`
	MaxTemperature      float64 `db:"max_temperature"`
	WindSpeed           float64 `db:"wind_speed"`
	Humidity            int     `db:"humidity"`
	Precipitation       float64 `db:"precipitation"`
	HourlyJSON          string  `db:"hourly_json"`
	CachedAt            int64   `db:"cached_at"`
}

func newWeatherCacheRow(s model.WeatherSnapshot) (weatherCacheRow, error) {
	hourly := s.Hourly
	if hourly == nil {
		hourly = []model.HourlyRecord{}
	}
	data, err := json.Marshal(hourly)
	if err != nil {
		return weatherCacheRow{}, fmt.Errorf("failed to encode hourly forecast: %w", err)
	}

	return weatherCacheRow{
		PlaceID:             s.PlaceID,
		PlaceName:           s.PlaceName,
		Latitude:            s.Latitude,
		Longitude:           s.Longitude,
		CurrentTemperature:  s.CurrentTemperature,
		ApparentTemperature: s.ApparentTemperature,
		Condition:           string(s.Condition),
		MinTemperature:      s.MinTemperature,
		MaxTemperature:      s.MaxTemperature,
		WindSpeed:           s.WindSpeed,
		Humidity:            s.Humidity,
		Precipitation:       s.Precipitation,
		HourlyJSON:          string(data),
		CachedAt:            s.CapturedAt.UnixMilli(),
	}, nil
}

func (r weatherCacheRow) toSnapshot() (model.WeatherSnapshot, error) {
	condition, err := model.ParseCondition(r.Condition)
	if err != nil {
		return model.WeatherSnapshot{}, fmt.Errorf("cached weather for place %d: %w", r.PlaceID, err)
	}

	var hourly []model.HourlyRecord
	if err := json.Unmarshal([]byte(r.HourlyJSON), &hourly); err != nil {
		return model.WeatherSnapshot{}, fmt.Errorf("cached hourly forecast for place %d: %w", r.PlaceID, err)
	}

	return model.WeatherSnapshot{
		PlaceID:             r.PlaceID,
		PlaceName:           r.PlaceName,
		Latitude:            r.Latitude,
		Longitude:           r.Longitude,
		CurrentTemperature:  r.CurrentTemperature,
		ApparentTemperature: r.ApparentTemperature,
		Condition:           condition,
		MinTemperature:      r.MinTemperature,
		MaxTemperature:      r.MaxTemperature,
		WindSpeed:           r.WindSpeed,
		Humidity:            r.Humidity,
		Precipitation:       r.Precipitation,
		Hourly:              hourly,
		CapturedAt:          time.UnixMilli(r.CachedAt).UTC(),
	}, nil
}
