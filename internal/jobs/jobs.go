// Package jobs runs periodic housekeeping: dropping idle map sessions and expired cache entries.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// Interval is how often housekeeping runs.
const Interval = time.Minute

// Sweeper drops idle sessions.
type Sweeper interface {
	Sweep(now time.Time) int
}

// Purger drops expired cache entries.
type Purger interface {
	Purge(now time.Time) int
}

// Scheduler wraps a gocron scheduler with the housekeeping jobs of the service.
type Scheduler struct {
	scheduler gocron.Scheduler
	log       zerolog.Logger
	now       func() time.Time
}

// New creates a scheduler. Jobs only start running after Start.
func New(log zerolog.Logger) (*Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("jobs: failed to create scheduler: %w", err)
	}
	return &Scheduler{scheduler: scheduler, log: log, now: time.Now}, nil
}

// Every runs task every interval until ctx is done. A run that overlaps the previous one is rescheduled.
func (s *Scheduler) Every(ctx context.Context, interval time.Duration, name string, task func(context.Context)) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("jobs: failed to create %s: %w", name, err)
	}
	return nil
}

// Housekeeping registers the session sweep and the cache purge.
func (s *Scheduler) Housekeeping(ctx context.Context, interval time.Duration, sessions Sweeper, cache Purger) error {
	if err := s.Every(ctx, interval, "session_sweep_job", s.sweepSessions(sessions)); err != nil {
		return err
	}
	return s.Every(ctx, interval, "cache_purge_job", s.purgeCache(cache))
}

// Start starts the scheduler in the background.
func (s *Scheduler) Start() {
	s.scheduler.Start()
}

// Shutdown stops all jobs and waits for running ones to finish.
func (s *Scheduler) Shutdown() error {
	return s.scheduler.Shutdown()
}

func (s *Scheduler) sweepSessions(sessions Sweeper) func(context.Context) {
	return func(context.Context) {
		if removed := sessions.Sweep(s.now()); removed > 0 {
			s.log.Info().Int("removed", removed).Msg("idle sessions dropped")
		}
	}
}

func (s *Scheduler) purgeCache(cache Purger) func(context.Context) {
	return func(context.Context) {
		if purged := cache.Purge(s.now()); purged > 0 {
			s.log.Debug().Int("purged", purged).Msg("expired cache entries dropped")
		}
	}
}
