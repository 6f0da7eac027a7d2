package search

import "github.com/alexivanou/geoweather/internal/model"

// State is one of Idle, Loading, Success or Failure
type State interface {
	isState()
}

// Idle means there is no query long enough to search
type Idle struct{}

// Loading means a search for Query is in flight
type Loading struct {
	Query string
}

// Success carries the places found for Query
type Success struct {
	Query  string
	Places []model.Place
}

// Failure carries a displayable message for a failed search
type Failure struct {
	Query   string
	Message string
}

func (Idle) isState()    {}
func (Loading) isState() {}
func (Success) isState() {}
func (Failure) isState() {}
