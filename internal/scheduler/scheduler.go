// Package scheduler runs cache maintenance and periodic favorites refresh.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

const sweepTimeout = 30 * time.Second

// Sweeper deletes expired weather snapshots
type Sweeper interface {
	SweepCache(ctx context.Context) (int64, error)
}

// Refresher reloads weather for every favorite
type Refresher interface {
	RefreshAll()
}

// Scheduler owns the background jobs. Both run once at start.
type Scheduler struct {
	scheduler    *gocron.Scheduler
	sweeper      Sweeper
	refresher    Refresher
	sweepEvery   time.Duration
	refreshEvery time.Duration
	logger       *zap.Logger
}

// New creates a new Scheduler. A nil refresher or a non-positive interval
// disables the corresponding job.
func New(sweeper Sweeper, refresher Refresher, sweepEvery, refreshEvery time.Duration, logger *zap.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler:    s,
		sweeper:      sweeper,
		refresher:    refresher,
		sweepEvery:   sweepEvery,
		refreshEvery: refreshEvery,
		logger:       logger.With(zap.String("component", "scheduler")),
	}
}

// Start schedules the jobs and starts the underlying scheduler
func (s *Scheduler) Start() error {
	if s.sweeper != nil && s.sweepEvery > 0 {
		if _, err := s.scheduler.Every(s.sweepEvery).Do(s.sweep); err != nil {
			return err
		}
	}

	if s.refresher != nil && s.refreshEvery > 0 {
		if _, err := s.scheduler.Every(s.refreshEvery).Do(s.refresher.RefreshAll); err != nil {
			return err
		}
	}

	if s.scheduler.Len() == 0 {
		s.logger.Info("no jobs configured; nothing to schedule")
		return nil
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs
func (s *Scheduler) Stop() {
	if s.scheduler != nil && s.scheduler.IsRunning() {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	if _, err := s.sweeper.SweepCache(ctx); err != nil {
		s.logger.Error("cache sweep failed", zap.Error(err))
	}
}
