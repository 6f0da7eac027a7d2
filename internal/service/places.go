package service

import (
	"context"
	"fmt"

	"github.com/alexivanou/geoweather/internal/model"
	"github.com/alexivanou/geoweather/internal/openmeteo"
)

// SearchPlaces resolves a place name. No match is an error of kind
// KindNoResults, never an empty success.
func (s *Service) SearchPlaces(ctx context.Context, query string) ([]model.Place, error) {
	if !s.connectivity.Online(ctx) {
		if err := ctx.Err(); err != nil {
			return nil, classify(err)
		}
		return nil, noConnectivity("no connection")
	}

	results, err := s.geocoder.Search(ctx, query, openmeteo.DefaultSearchCount)
	if err != nil {
		return nil, classify(err)
	}
	if len(results) == 0 {
		return nil, noResults(fmt.Sprintf("no city found for '%s'", query))
	}
	return toPlaces(results), nil
}
