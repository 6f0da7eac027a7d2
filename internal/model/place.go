package model

import "time"

// Place represents a city-level point returned by the geocoding service
type Place struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
	// Admin1 is the administrative region (state, région), when known
	Admin1 *string `json:"admin1,omitempty"`
}

// Favorite is a place pinned by the user
type Favorite struct {
	Place
	AddedAt time.Time `json:"added_at"`
}

// FavoriteView joins a favorite with its latest cached weather.
// Weather is nil until a snapshot exists for the place.
type FavoriteView struct {
	Place   Place            `json:"place"`
	Weather *WeatherSnapshot `json:"weather"`
}
