package refresh

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alexivanou/geoweather/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

type fakeSource struct {
	views   chan []model.FavoriteView
	release chan struct{}
	fail    bool

	mu        sync.Mutex
	calls     []int
	cancelled []int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		views:   make(chan []model.FavoriteView),
		release: make(chan struct{}),
	}
}

func (f *fakeSource) Favorites(ctx context.Context) <-chan []model.FavoriteView {
	return f.views
}

func (f *fakeSource) GetWeather(ctx context.Context, lat, lon float64, placeID int, placeName string) (model.WeatherSnapshot, error) {
	f.mu.Lock()
	f.calls = append(f.calls, placeID)
	f.mu.Unlock()

	select {
	case <-f.release:
		if f.fail {
			return model.WeatherSnapshot{}, errors.New("server error")
		}
		return model.WeatherSnapshot{PlaceID: placeID, PlaceName: placeName}, nil
	case <-ctx.Done():
		f.mu.Lock()
		f.cancelled = append(f.cancelled, placeID)
		f.mu.Unlock()
		return model.WeatherSnapshot{}, ctx.Err()
	}
}

func (f *fakeSource) snapshot() (calls, cancelled []int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.calls...), append([]int(nil), f.cancelled...)
}

var (
	lyon  = model.Place{ID: 1, Name: "Lyon", Latitude: 45.75, Longitude: 4.85}
	paris = model.Place{ID: 2, Name: "Paris", Latitude: 48.85, Longitude: 2.35}
)

func withWeather(p model.Place) model.FavoriteView {
	return model.FavoriteView{Place: p, Weather: &model.WeatherSnapshot{PlaceID: p.ID}}
}

func withoutWeather(p model.Place) model.FavoriteView {
	return model.FavoriteView{Place: p}
}

func startCoordinator(t *testing.T, src *fakeSource) (*Coordinator, context.CancelFunc, <-chan error) {
	t.Helper()
	c := NewCoordinator(src, zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx) }()
	return c, cancel, errCh
}

func stop(t *testing.T, cancel context.CancelFunc, errCh <-chan error) {
	t.Helper()
	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("coordinator did not stop")
	}
}

func waitFor(t *testing.T, c *Coordinator, cond func(State) bool) State {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case s := <-c.Updates():
			if cond(s) {
				return s
			}
		case <-timeout:
			t.Fatal("timed out waiting for state")
			return State{}
		}
	}
}

func TestCoordinator_LoadsMissingWeather(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := newFakeSource()
	c, cancel, errCh := startCoordinator(t, src)

	src.views <- []model.FavoriteView{withoutWeather(lyon), withWeather(paris)}
	s := waitFor(t, c, func(s State) bool { return s.Busy() })
	assert.Equal(t, []int{lyon.ID}, s.Loading)
	assert.Len(t, s.Favorites, 2)

	close(src.release)
	waitFor(t, c, func(s State) bool { return !s.Busy() })

	calls, _ := src.snapshot()
	assert.Equal(t, []int{lyon.ID}, calls)

	stop(t, cancel, errCh)
}

func TestCoordinator_DeduplicatesAndCancelsRemoved(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := newFakeSource()
	c, cancel, errCh := startCoordinator(t, src)

	src.views <- []model.FavoriteView{withoutWeather(lyon)}
	src.views <- []model.FavoriteView{withoutWeather(lyon)}
	src.views <- []model.FavoriteView{withWeather(paris)}

	waitFor(t, c, func(s State) bool {
		return len(s.Favorites) == 1 && s.Favorites[0].Place.ID == paris.ID && !s.Busy()
	})

	assert.Eventually(t, func() bool {
		_, cancelled := src.snapshot()
		return len(cancelled) == 1
	}, time.Second, 10*time.Millisecond)

	calls, cancelled := src.snapshot()
	assert.Equal(t, []int{lyon.ID}, calls)
	assert.Equal(t, []int{lyon.ID}, cancelled)

	stop(t, cancel, errCh)
}

func TestCoordinator_RefreshAll(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := newFakeSource()
	src.fail = true
	c, cancel, errCh := startCoordinator(t, src)

	src.views <- []model.FavoriteView{withWeather(lyon), withWeather(paris)}
	waitFor(t, c, func(s State) bool { return len(s.Favorites) == 2 })

	calls, _ := src.snapshot()
	assert.Empty(t, calls)

	c.RefreshAll()
	s := waitFor(t, c, func(s State) bool { return len(s.Loading) == 2 })
	assert.Equal(t, []int{lyon.ID, paris.ID}, s.Loading)

	// Failures are logged and clear the loading state
	close(src.release)
	waitFor(t, c, func(s State) bool { return !s.Busy() })

	calls, _ = src.snapshot()
	assert.ElementsMatch(t, []int{lyon.ID, paris.ID}, calls)

	stop(t, cancel, errCh)
}

func TestCoordinator_ShutdownCancelsFetches(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := newFakeSource()
	c, cancel, errCh := startCoordinator(t, src)

	src.views <- []model.FavoriteView{withoutWeather(lyon), withoutWeather(paris)}
	waitFor(t, c, func(s State) bool { return len(s.Loading) == 2 })

	stop(t, cancel, errCh)

	calls, cancelled := src.snapshot()
	assert.ElementsMatch(t, []int{lyon.ID, paris.ID}, calls)
	assert.ElementsMatch(t, []int{lyon.ID, paris.ID}, cancelled)
}

func TestState_Busy(t *testing.T) {
	require.False(t, State{}.Busy())
	require.True(t, State{Loading: []int{3}}.Busy())
}
