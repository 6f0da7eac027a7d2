package service

import (
	"time"

	"github.com/alexivanou/geoweather/internal/model"
	"github.com/alexivanou/geoweather/internal/openmeteo"
)

const hourlyWindow = 24

func toPlace(r openmeteo.GeocodingResult) model.Place {
	return model.Place{
		ID:        r.ID,
		Name:      r.Name,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Country:   r.Country,
		Admin1:    r.Admin1,
	}
}

func toPlaces(results []openmeteo.GeocodingResult) []model.Place {
	places := make([]model.Place, 0, len(results))
	for _, r := range results {
		places = append(places, toPlace(r))
	}
	return places
}

// toSnapshot maps a forecast onto a snapshot. Current values are the first
// non-null entry of each series.
func toSnapshot(resp *openmeteo.ForecastResponse, placeID int, placeName string, lat, lon float64, capturedAt time.Time) model.WeatherSnapshot {
	h := resp.Hourly

	temperature := firstFloat(h.Temperature, 0)
	apparent := firstFloat(h.ApparentTemperature, temperature)
	humidity := firstInt(h.RelativeHumidity, 0)
	rain := firstFloat(h.Rain, 0)
	wind := firstFloat(h.WindSpeed, 0)
	minTemp, maxTemp := temperatureRange(h.Temperature, temperature)

	return model.WeatherSnapshot{
		PlaceID:             placeID,
		PlaceName:           placeName,
		Latitude:            lat,
		Longitude:           lon,
		CurrentTemperature:  temperature,
		ApparentTemperature: apparent,
		Condition:           deriveCondition(rain, wind),
		MinTemperature:      minTemp,
		MaxTemperature:      maxTemp,
		WindSpeed:           wind,
		Humidity:            humidity,
		Precipitation:       rain,
		Hourly:              hourlyRecords(h),
		CapturedAt:          capturedAt,
	}
}

func deriveCondition(rain, wind float64) model.Condition {
	switch {
	case rain > 10.0 && wind > 50.0:
		return model.ConditionStormy
	case rain > 5.0:
		return model.ConditionRainy
	case rain > 0.1:
		return model.ConditionCloudy
	case wind > 30.0:
		return model.ConditionCloudy
	default:
		return model.ConditionSunny
	}
}

// temperatureRange scans the first 24 non-null temperatures
func temperatureRange(temps []*float64, fallback float64) (float64, float64) {
	if len(temps) > hourlyWindow {
		temps = temps[:hourlyWindow]
	}

	found := false
	var lo, hi float64
	for _, t := range temps {
		if t == nil {
			continue
		}
		if !found {
			lo, hi, found = *t, *t, true
			continue
		}
		if *t < lo {
			lo = *t
		}
		if *t > hi {
			hi = *t
		}
	}
	if !found {
		return fallback, fallback
	}
	return lo, hi
}

// hourlyRecords keeps only hours where every field is present
func hourlyRecords(h openmeteo.HourlySeries) []model.HourlyRecord {
	n := len(h.Time)
	if n > hourlyWindow {
		n = hourlyWindow
	}

	records := make([]model.HourlyRecord, 0, n)
	for i := 0; i < n; i++ {
		temp := floatAt(h.Temperature, i)
		humidity := intAt(h.RelativeHumidity, i)
		wind := floatAt(h.WindSpeed, i)
		rain := floatAt(h.Rain, i)
		if temp == nil || humidity == nil || wind == nil || rain == nil {
			continue
		}
		records = append(records, model.HourlyRecord{
			Time:          h.Time[i],
			Temperature:   *temp,
			Humidity:      *humidity,
			WindSpeed:     *wind,
			Precipitation: *rain,
		})
	}
	return records
}

func firstFloat(values []*float64, fallback float64) float64 {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return fallback
}

func firstInt(values []*int, fallback int) int {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return fallback
}

func floatAt(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

func intAt(values []*int, i int) *int {
	if i >= len(values) {
		return nil
	}
	return values[i]
}
