package model

import (
	"fmt"
	"time"
)

// Condition is a coarse weather category
type Condition string

const (
	ConditionSunny  Condition = "SUNNY"
	ConditionCloudy Condition = "CLOUDY"
	ConditionRainy  Condition = "RAINY"
	ConditionStormy Condition = "STORMY"
	// ConditionSnowy and ConditionFoggy are never derived from forecasts.
	ConditionSnowy Condition = "SNOWY"
	ConditionFoggy Condition = "FOGGY"
)

// ParseCondition converts a stored condition name back to a Condition
func ParseCondition(s string) (Condition, error) {
	switch c := Condition(s); c {
	case ConditionSunny, ConditionCloudy, ConditionRainy, ConditionStormy, ConditionSnowy, ConditionFoggy:
		return c, nil
	}
	return "", fmt.Errorf("unknown weather condition %q", s)
}

// nearExpirationWindow flags snapshots about to leave the freshness window
const nearExpirationWindow = 5 * time.Minute

// WeatherSnapshot is the weather for one place at one fetch moment
type WeatherSnapshot struct {
	PlaceID             int            `json:"place_id"`
	PlaceName           string         `json:"place_name"`
	Latitude            float64        `json:"latitude"`
	Longitude           float64        `json:"longitude"`
	CurrentTemperature  float64        `json:"current_temperature"`
	ApparentTemperature float64        `json:"apparent_temperature"`
	Condition           Condition      `json:"condition"`
	MinTemperature      float64        `json:"min_temperature"`
	MaxTemperature      float64        `json:"max_temperature"`
	WindSpeed           float64        `json:"wind_speed"`
	Humidity            int            `json:"humidity"`
	Precipitation       float64        `json:"precipitation"`
	Hourly              []HourlyRecord `json:"hourly"`
	CapturedAt          time.Time      `json:"captured_at"`
}

// HourlyRecord is one hour of forecast data
type HourlyRecord struct {
	Time          string  `json:"time"`
	Temperature   float64 `json:"temperature"`
	Humidity      int     `json:"humidity"`
	WindSpeed     float64 `json:"wind_speed"`
	Precipitation float64 `json:"precipitation"`
}

// Age returns how long ago the snapshot was captured
func (w WeatherSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(w.CapturedAt)
}

// IsFresh reports whether the snapshot is still inside the freshness window.
// A capture time ahead of now (clock stepped back) is never fresh.
func (w WeatherSnapshot) IsFresh(now time.Time, window time.Duration) bool {
	age := w.Age(now)
	return age >= 0 && age < window
}

// ExpiresIn returns the time left in the freshness window, zero once stale
func (w WeatherSnapshot) ExpiresIn(now time.Time, window time.Duration) time.Duration {
	if !w.IsFresh(now, window) {
		return 0
	}
	return window - w.Age(now)
}

// NearExpiration reports whether less than five minutes of freshness remain
func (w WeatherSnapshot) NearExpiration(now time.Time, window time.Duration) bool {
	return w.ExpiresIn(now, window) < nearExpirationWindow
}
