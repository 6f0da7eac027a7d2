package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexivanou/geoweather/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var (
	lyon  = model.Place{ID: lyonID, Name: "Lyon", Latitude: lyonLat, Longitude: lyonLon, Country: "France"}
	paris = model.Place{ID: 2988507, Name: "Paris", Latitude: parisLat, Longitude: parisLon, Country: "France", Admin1: strPtr("Île-de-France")}
)

func receive(t *testing.T, ch <-chan []model.FavoriteView) []model.FavoriteView {
	t.Helper()
	select {
	case views, ok := <-ch:
		require.True(t, ok, "stream closed")
		return views
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for favorites")
		return nil
	}
}

func TestService_AddFavorite_Idempotent(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	require.NoError(t, env.svc.AddFavorite(ctx, lyon))
	require.NoError(t, env.svc.AddFavorite(ctx, lyon))

	views, err := env.svc.ListFavorites(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, lyon, views[0].Place)
	assert.Nil(t, views[0].Weather)

	isFav, err := env.svc.IsFavorite(ctx, lyon.ID)
	require.NoError(t, err)
	assert.True(t, isFav)
}

func TestService_ToggleFavorite(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	added, err := env.svc.ToggleFavorite(ctx, paris)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = env.svc.ToggleFavorite(ctx, paris)
	require.NoError(t, err)
	assert.False(t, added)

	isFav, err := env.svc.IsFavorite(ctx, paris.ID)
	require.NoError(t, err)
	assert.False(t, isFav)

	// Removing an unknown place is fine
	assert.NoError(t, env.svc.RemoveFavorite(ctx, 12345))
}

func TestService_ListFavorites_Join(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	require.NoError(t, env.svc.AddFavorite(ctx, lyon))
	env.now = env.now.Add(time.Minute)
	require.NoError(t, env.svc.AddFavorite(ctx, paris))

	snapshot := cachedSnapshot(lyonID, env.now)
	require.NoError(t, env.repos.WeatherCache.UpsertSnapshot(ctx, snapshot))
	// A cached snapshot for a non-favorite is ignored
	require.NoError(t, env.repos.WeatherCache.UpsertSnapshot(ctx, cachedSnapshot(1, env.now)))

	views, err := env.svc.ListFavorites(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, paris, views[0].Place)
	assert.Nil(t, views[0].Weather)
	assert.Equal(t, lyon, views[1].Place)
	require.NotNil(t, views[1].Weather)
	assert.Equal(t, snapshot, *views[1].Weather)
}

func TestService_Favorites_Stream(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"))

	env := newTestEnv(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := env.svc.Favorites(ctx)
	assert.Empty(t, receive(t, stream))

	require.NoError(t, env.svc.AddFavorite(context.Background(), lyon))
	views := receive(t, stream)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].Weather)

	// A weather-only change re-emits the list
	snapshot := cachedSnapshot(lyonID, env.now)
	require.NoError(t, env.repos.WeatherCache.UpsertSnapshot(context.Background(), snapshot))
	views = receive(t, stream)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].Weather)
	assert.Equal(t, snapshot, *views[0].Weather)

	env.now = env.now.Add(time.Minute)
	require.NoError(t, env.svc.AddFavorite(context.Background(), paris))
	views = receive(t, stream)
	require.Len(t, views, 2)
	assert.Equal(t, paris.ID, views[0].Place.ID)

	require.NoError(t, env.svc.RemoveFavorite(context.Background(), lyon.ID))
	views = receive(t, stream)
	require.Len(t, views, 1)
	assert.Equal(t, paris.ID, views[0].Place.ID)

	cancel()
	select {
	case _, ok := <-stream:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("stream not closed after cancel")
	}
}
