package repository

import (
	"context"
	"time"

	"github.com/alexivanou/geoweather/internal/config"
	"github.com/alexivanou/geoweather/internal/model"
	"github.com/jmoiron/sqlx"
)

// FavoriteRepository defines operations on the favorites table
type FavoriteRepository interface {
	// ListFavorites returns favorites, most recently added first
	ListFavorites(ctx context.Context) ([]model.Favorite, error)
	// GetFavorite returns nil when the place is not a favorite
	GetFavorite(ctx context.Context, placeID int) (*model.Favorite, error)
	UpsertFavorite(ctx context.Context, fav model.Favorite) error
	DeleteFavorite(ctx context.Context, placeID int) error
}

// WeatherCacheRepository defines operations on the weather cache table
type WeatherCacheRepository interface {
	// GetSnapshot returns nil when nothing is cached for the place
	GetSnapshot(ctx context.Context, placeID int) (*model.WeatherSnapshot, error)
	ListSnapshots(ctx context.Context) ([]model.WeatherSnapshot, error)
	UpsertSnapshot(ctx context.Context, snapshot model.WeatherSnapshot) error
	// DeleteOlderThan removes snapshots captured before cutoff
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Container holds all repositories
type Container struct {
	Favorites    FavoriteRepository
	WeatherCache WeatherCacheRepository
	Changes      *Notifier
}

// NewRepositories creates repository implementations based on DB type
func NewRepositories(db *sqlx.DB, dbType config.DBType) *Container {
	changes := NewNotifier()

	if dbType == config.DBTypePostgreSQL {
		return &Container{
			Favorites:    &favoriteRepository{db: db, q: pgFavoriteQueries, changes: changes},
			WeatherCache: &weatherCacheRepository{db: db, q: pgWeatherCacheQueries, changes: changes},
			Changes:      changes,
		}
	}

	// Default to SQLite
	return &Container{
		Favorites:    &favoriteRepository{db: db, q: sqliteFavoriteQueries, changes: changes},
		WeatherCache: &weatherCacheRepository{db: db, q: sqliteWeatherCacheQueries, changes: changes},
		Changes:      changes,
	}
}
