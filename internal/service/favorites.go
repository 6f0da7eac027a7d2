package service

import (
	"context"

	"github.com/alexivanou/geoweather/internal/model"
	"github.com/alexivanou/geoweather/internal/repository"
	"go.uber.org/zap"
)

// Favorites streams the joined favorites list. A new list is sent after
// every change to the favorites or the weather cache; changes made while
// the consumer is busy collapse into one emission. The channel is closed
// when ctx is done.
func (s *Service) Favorites(ctx context.Context) <-chan []model.FavoriteView {
	out := make(chan []model.FavoriteView)
	sub := s.changes.Subscribe(repository.TableFavorites, repository.TableWeatherCache)

	go func() {
		defer close(out)
		defer sub.Close()

		for {
			views, err := s.ListFavorites(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Warn("failed to load favorites", zap.Error(err))
			} else {
				select {
				case out <- views:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-sub.C():
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

// ListFavorites returns the joined favorites list once
func (s *Service) ListFavorites(ctx context.Context) ([]model.FavoriteView, error) {
	favorites, err := s.favorites.ListFavorites(ctx)
	if err != nil {
		return nil, classify(err)
	}
	snapshots, err := s.cache.ListSnapshots(ctx)
	if err != nil {
		return nil, classify(err)
	}

	byPlace := make(map[int]model.WeatherSnapshot, len(snapshots))
	for _, w := range snapshots {
		byPlace[w.PlaceID] = w
	}

	views := make([]model.FavoriteView, 0, len(favorites))
	for _, f := range favorites {
		view := model.FavoriteView{Place: f.Place}
		if w, ok := byPlace[f.ID]; ok {
			w := w
			view.Weather = &w
		}
		views = append(views, view)
	}
	return views, nil
}

// AddFavorite pins a place. Adding it again moves it to the top.
func (s *Service) AddFavorite(ctx context.Context, place model.Place) error {
	fav := model.Favorite{Place: place, AddedAt: s.timestamp()}
	if err := s.favorites.UpsertFavorite(ctx, fav); err != nil {
		return classify(err)
	}
	return nil
}

// RemoveFavorite unpins a place. Removing an unknown id is not an error.
func (s *Service) RemoveFavorite(ctx context.Context, placeID int) error {
	if err := s.favorites.DeleteFavorite(ctx, placeID); err != nil {
		return classify(err)
	}
	return nil
}

// IsFavorite reports whether a place is pinned
func (s *Service) IsFavorite(ctx context.Context, placeID int) (bool, error) {
	fav, err := s.favorites.GetFavorite(ctx, placeID)
	if err != nil {
		return false, classify(err)
	}
	return fav != nil, nil
}

// ToggleFavorite adds or removes a place and returns the new state
func (s *Service) ToggleFavorite(ctx context.Context, place model.Place) (bool, error) {
	isFav, err := s.IsFavorite(ctx, place.ID)
	if err != nil {
		return false, err
	}
	if isFav {
		return false, s.RemoveFavorite(ctx, place.ID)
	}
	return true, s.AddFavorite(ctx, place)
}
