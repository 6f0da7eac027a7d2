package service

import (
	"time"

	"github.com/alexivanou/geoweather/internal/connectivity"
	"github.com/alexivanou/geoweather/internal/repository"
	"go.uber.org/zap"
)

const (
	defaultFreshness = 30 * time.Minute
	defaultRetention = 7 * 24 * time.Hour
)

// Service decides between the local store and the remote APIs. It is the
// only component that makes that decision.
type Service struct {
	favorites    repository.FavoriteRepository
	cache        repository.WeatherCacheRepository
	changes      *repository.Notifier
	geocoder     Geocoder
	forecaster   Forecaster
	connectivity connectivity.Checker
	logger       *zap.Logger

	now       func() time.Time
	freshness time.Duration
	retention time.Duration
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithFreshness sets how long a cached snapshot is served without a fetch
func WithFreshness(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.freshness = d
		}
	}
}

// WithRetention sets the age after which SweepCache removes snapshots
func WithRetention(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.retention = d
		}
	}
}

// NewService creates a new service instance
func NewService(
	repos *repository.Container,
	geocoder Geocoder,
	forecaster Forecaster,
	checker connectivity.Checker,
	logger *zap.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		favorites:    repos.Favorites,
		cache:        repos.WeatherCache,
		changes:      repos.Changes,
		geocoder:     geocoder,
		forecaster:   forecaster,
		connectivity: checker,
		logger:       logger.With(zap.String("component", "service")),
		now:          time.Now,
		freshness:    defaultFreshness,
		retention:    defaultRetention,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Freshness returns the window during which cached weather is served as is
func (s *Service) Freshness() time.Duration {
	return s.freshness
}

// timestamp returns the current time at the precision the store keeps
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}
