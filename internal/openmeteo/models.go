package openmeteo

// GeocodingResponse is the body of a geocoding search. Results is null when
// nothing matches.
type GeocodingResponse struct {
	Results []GeocodingResult `json:"results"`
}

// GeocodingResult is one place returned by the geocoding search
type GeocodingResult struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
	Admin1    *string `json:"admin1,omitempty"`
}

// ForecastResponse is the body of a forecast request
type ForecastResponse struct {
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
	Hourly    HourlySeries `json:"hourly"`
}

// HourlySeries holds time-aligned hourly arrays. Any entry may be null.
type HourlySeries struct {
	Time                []string   `json:"time"`
	Temperature         []*float64 `json:"temperature_2m"`
	RelativeHumidity    []*int     `json:"relative_humidity_2m"`
	ApparentTemperature []*float64 `json:"apparent_temperature"`
	Rain                []*float64 `json:"rain"`
	WindSpeed           []*float64 `json:"wind_speed_10m"`
}
