package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexivanou/geoweather/internal/model"
	"github.com/jmoiron/sqlx"
)

// favoriteQueries is the per-dialect SQL for the favorites table
type favoriteQueries struct {
	list   string
	get    string
	upsert string
	delete string
}

// weatherCacheQueries is the per-dialect SQL for the weather_cache table
type weatherCacheQueries struct {
	get         string
	list        string
	upsert      string
	deleteOlder string
}

const favoriteColumns = `place_id, name, latitude, longitude, country, admin1, added_at`

const weatherCacheColumns = `place_id, place_name, latitude, longitude,
	current_temperature, apparent_temperature, weather_condition,
	min_temperature, max_temperature, wind_speed, humidity, precipitation,
	hourly_json, cached_at`

type favoriteRepository struct {
	db      *sqlx.DB
	q       favoriteQueries
	changes *Notifier
}

func (r *favoriteRepository) ListFavorites(ctx context.Context) ([]model.Favorite, error) {
	var rows []favoriteRow
	if err := r.db.SelectContext(ctx, &rows, r.q.list); err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	favorites := make([]model.Favorite, 0, len(rows))
	for _, row := range rows {
		favorites = append(favorites, row.toFavorite())
	}
	return favorites, nil
}

func (r *favoriteRepository) GetFavorite(ctx context.Context, placeID int) (*model.Favorite, error) {
	var row favoriteRow
	if err := r.db.GetContext(ctx, &row, r.q.get, placeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get favorite %d: %w", placeID, err)
	}
	fav := row.toFavorite()
	return &fav, nil
}

func (r *favoriteRepository) UpsertFavorite(ctx context.Context, fav model.Favorite) error {
	if _, err := r.db.NamedExecContext(ctx, r.q.upsert, newFavoriteRow(fav)); err != nil {
		return fmt.Errorf("failed to save favorite %d: %w", fav.ID, err)
	}
	r.changes.Publish(TableFavorites)
	return nil
}

func (r *favoriteRepository) DeleteFavorite(ctx context.Context, placeID int) error {
	res, err := r.db.ExecContext(ctx, r.q.delete, placeID)
	if err != nil {
		return fmt.Errorf("failed to delete favorite %d: %w", placeID, err)
	}
	if n, err := res.RowsAffected(); err != nil || n > 0 {
		r.changes.Publish(TableFavorites)
	}
	return nil
}

type weatherCacheRepository struct {
	db      *sqlx.DB
	q       weatherCacheQueries
	changes *Notifier
}

func (r *weatherCacheRepository) GetSnapshot(ctx context.Context, placeID int) (*model.WeatherSnapshot, error) {
	var row weatherCacheRow
	if err := r.db.GetContext(ctx, &row, r.q.get, placeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached weather %d: %w", placeID, err)
	}

	snapshot, err := row.toSnapshot()
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *weatherCacheRepository) ListSnapshots(ctx context.Context) ([]model.WeatherSnapshot, error) {
	var rows []weatherCacheRow
	if err := r.db.SelectContext(ctx, &rows, r.q.list); err != nil {
		return nil, fmt.Errorf("failed to list cached weather: %w", err)
	}

	snapshots := make([]model.WeatherSnapshot, 0, len(rows))
	for _, row := range rows {
		snapshot, err := row.toSnapshot()
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

func (r *weatherCacheRepository) UpsertSnapshot(ctx context.Context, snapshot model.WeatherSnapshot) error {
	row, err := newWeatherCacheRow(snapshot)
	if err != nil {
		return err
	}
	if _, err := r.db.NamedExecContext(ctx, r.q.upsert, row); err != nil {
		return fmt.Errorf("failed to cache weather %d: %w", snapshot.PlaceID, err)
	}
	r.changes.Publish(TableWeatherCache)
	return nil
}

func (r *weatherCacheRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.q.deleteOlder, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old cached weather: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted cached weather: %w", err)
	}
	if n > 0 {
		r.changes.Publish(TableWeatherCache)
	}
	return n, nil
}
