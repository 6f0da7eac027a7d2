package service

import (
	"context"
	"sort"

	"github.com/alexivanou/geoweather/internal/geo"
	"github.com/alexivanou/geoweather/internal/model"
	"go.uber.org/zap"
)

const (
	nearbyRadiusKm    = 150.0
	nearbyLimit       = 10
	nearbyFallback    = 8
	nearbySearchCount = 100
)

// region maps a coarse bounding area to geocoding search terms. There is no
// reverse geocoding endpoint, so nearby places come from name searches.
type region struct {
	name     string
	contains func(lat, lon float64) bool
	terms    []string
}

func between(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

// Checked in order; the first match wins.
var regions = []region{
	{
		name:     "corse",
		contains: func(lat, lon float64) bool { return between(lat, 41.0, 43.5) && between(lon, 8.0, 10.0) },
		terms:    []string{"Ajaccio", "Bastia", "Corte", "Porto", "Calvi", "Bonifacio", "Ile", "Sant", "San", "Cal", "Cor", "Bas", "Aja", "Pro"},
	},
	{
		name:     "south-east",
		contains: func(lat, lon float64) bool { return between(lat, 42.5, 45.0) && between(lon, 4.0, 8.0) },
		terms:    []string{"Nice", "Marseille", "Toulon", "Cannes", "Antibes", "Avignon", "Nic", "Mar", "Tou", "Can", "Avi", "Aix", "Gra"},
	},
	{
		name:     "south-west",
		contains: func(lat, lon float64) bool { return between(lat, 42.5, 45.5) && between(lon, -2.0, 3.0) },
		terms:    []string{"Toulouse", "Bordeaux", "Montpellier", "Perpignan", "Pau", "Tou", "Bor", "Mon", "Per", "Pau", "Nar", "Bez"},
	},
	{
		name:     "west",
		contains: func(lat, lon float64) bool { return between(lat, 46.5, 49.0) && between(lon, -5.5, -0.5) },
		terms:    []string{"Nantes", "Rennes", "Brest", "Angers", "Lorient", "Nan", "Ren", "Bre", "Ang", "Lor", "Van", "Qui"},
	},
	{
		name:     "north",
		contains: func(lat, lon float64) bool { return lat >= 49.5 },
		terms:    []string{"Lille", "Dunkerque", "Calais", "Amiens", "Rouen", "Lil", "Dun", "Cal", "Ami", "Rou", "Abb"},
	},
	{
		name:     "east",
		contains: func(lat, lon float64) bool { return lon >= 5.0 },
		terms:    []string{"Strasbourg", "Metz", "Nancy", "Mulhouse", "Reims", "Str", "Met", "Nan", "Mul", "Rei", "Col"},
	},
}

var defaultTerms = []string{"Paris", "Lyon", "Orléans", "Tours", "Dijon", "Par", "Lyo", "Orl", "Tou", "Dij", "Bou", "Cle"}

func searchTerms(lat, lon float64) []string {
	for _, r := range regions {
		if r.contains(lat, lon) {
			return r.terms
		}
	}
	return defaultTerms
}

// GetNearbyPlaces returns up to ten places within 150 km, closest first.
// When nothing is that close it returns the eight closest candidates.
func (s *Service) GetNearbyPlaces(ctx context.Context, lat, lon float64) ([]model.Place, error) {
	if !s.connectivity.Online(ctx) {
		if err := ctx.Err(); err != nil {
			return nil, classify(err)
		}
		return nil, noConnectivity("no connection")
	}

	seen := make(map[int]struct{})
	var candidates []model.Place

	for _, term := range searchTerms(lat, lon) {
		if err := ctx.Err(); err != nil {
			return nil, classify(err)
		}

		results, err := s.geocoder.Search(ctx, term, nearbySearchCount)
		if err != nil {
			if ctx.Err() != nil {
				return nil, classify(ctx.Err())
			}
			s.logger.Debug("nearby search term failed", zap.String("term", term), zap.Error(err))
			continue
		}

		for _, r := range results {
			if _, ok := seen[r.ID]; ok {
				continue
			}
			seen[r.ID] = struct{}{}
			candidates = append(candidates, toPlace(r))
		}
	}

	if len(candidates) == 0 {
		return nil, noResults("no city found nearby")
	}
	return closestPlaces(candidates, lat, lon), nil
}

func closestPlaces(candidates []model.Place, lat, lon float64) []model.Place {
	type ranked struct {
		place    model.Place
		distance float64
	}

	all := make([]ranked, 0, len(candidates))
	for _, p := range candidates {
		all = append(all, ranked{place: p, distance: geo.Distance(lat, lon, p.Latitude, p.Longitude)})
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].distance < all[j].distance
	})

	var within []model.Place
	for _, r := range all {
		if r.distance > nearbyRadiusKm {
			break
		}
		within = append(within, r.place)
	}
	if len(within) > 0 {
		if len(within) > nearbyLimit {
			within = within[:nearbyLimit]
		}
		return within
	}

	limit := nearbyFallback
	if len(all) < limit {
		limit = len(all)
	}
	closest := make([]model.Place, 0, limit)
	for _, r := range all[:limit] {
		closest = append(closest, r.place)
	}
	return closest
}
