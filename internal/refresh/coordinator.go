// Package refresh keeps favorites supplied with weather. A single run loop
// owns the set of in-flight fetches.
package refresh

import (
	"context"
	"sort"
	"sync"

	"github.com/alexivanou/geoweather/internal/model"
	"go.uber.org/zap"
)

// WeatherSource is the part of the service the coordinator drives
type WeatherSource interface {
	Favorites(ctx context.Context) <-chan []model.FavoriteView
	GetWeather(ctx context.Context, lat, lon float64, placeID int, placeName string) (model.WeatherSnapshot, error)
}

// State is what a favorites screen renders
type State struct {
	Favorites []model.FavoriteView
	// Loading holds the ids of places with a fetch in flight, ascending
	Loading []int
}

// Busy reports whether any fetch is in flight
func (s State) Busy() bool {
	return len(s.Loading) > 0
}

type fetch struct {
	cancel context.CancelFunc
	token  uint64
}

type completion struct {
	placeID int
	token   uint64
}

// Coordinator loads weather for favorites that have none and refreshes all
// favorites on request
type Coordinator struct {
	source  WeatherSource
	logger  *zap.Logger
	refresh chan struct{}
	updates chan State
}

// NewCoordinator creates a coordinator; call Run to start it
func NewCoordinator(source WeatherSource, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		source:  source,
		logger:  logger.With(zap.String("component", "refresh")),
		refresh: make(chan struct{}, 1),
		updates: make(chan State, 1),
	}
}

// Updates delivers the latest state. Intermediate states are dropped when
// the reader falls behind.
func (c *Coordinator) Updates() <-chan State {
	return c.updates
}

// RefreshAll requests weather for every favorite. Requests made while one
// is pending are merged.
func (c *Coordinator) RefreshAll() {
	select {
	case c.refresh <- struct{}{}:
	default:
	}
}

// Run processes favorites changes and refresh requests until ctx is done.
// It returns after every fetch it started has finished.
func (c *Coordinator) Run(ctx context.Context) error {
	var (
		wg       sync.WaitGroup
		inFlight = make(map[int]fetch)
		done     = make(chan completion)
		latest   []model.FavoriteView
		nextTok  uint64
	)

	defer func() {
		for _, f := range inFlight {
			f.cancel()
		}
		wg.Wait()
	}()

	start := func(p model.Place) {
		if _, ok := inFlight[p.ID]; ok {
			return
		}
		nextTok++
		fetchCtx, cancel := context.WithCancel(ctx)
		inFlight[p.ID] = fetch{cancel: cancel, token: nextTok}

		wg.Add(1)
		go func(token uint64) {
			defer wg.Done()
			defer cancel()

			_, err := c.source.GetWeather(fetchCtx, p.Latitude, p.Longitude, p.ID, p.Name)
			if err != nil && fetchCtx.Err() == nil {
				c.logger.Warn("failed to load weather", zap.Int("place_id", p.ID), zap.Error(err))
			}

			select {
			case done <- completion{placeID: p.ID, token: token}:
			case <-ctx.Done():
			}
		}(nextTok)
	}

	favorites := c.source.Favorites(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil

		case views, ok := <-favorites:
			if !ok {
				return nil
			}
			latest = views

			present := make(map[int]struct{}, len(views))
			for _, v := range views {
				present[v.Place.ID] = struct{}{}
			}
			for id, f := range inFlight {
				if _, ok := present[id]; !ok {
					f.cancel()
					delete(inFlight, id)
				}
			}
			for _, v := range views {
				if v.Weather == nil {
					start(v.Place)
				}
			}

		case <-c.refresh:
			c.logger.Debug("refreshing all favorites", zap.Int("count", len(latest)))
			for _, v := range latest {
				start(v.Place)
			}

		case fin := <-done:
			if f, ok := inFlight[fin.placeID]; ok && f.token == fin.token {
				delete(inFlight, fin.placeID)
			}
		}

		c.publish(latest, inFlight)
	}
}

func (c *Coordinator) publish(views []model.FavoriteView, inFlight map[int]fetch) {
	loading := make([]int, 0, len(inFlight))
	for id := range inFlight {
		loading = append(loading, id)
	}
	sort.Ints(loading)

	// Only the run loop sends, so after draining there is room.
	select {
	case <-c.updates:
	default:
	}
	c.updates <- State{Favorites: views, Loading: loading}
}
