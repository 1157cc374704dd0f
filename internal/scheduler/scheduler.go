package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"weather-compare/internal/stations"
	"weather-compare/internal/weather"
)

// Scheduler periodically warms the per-parameter station list caches so
// the first comparison of the day does not pay the list-fetch cost. The
// resolver never waits on it: a cold cache still populates on demand.
type Scheduler struct {
	scheduler *gocron.Scheduler
	cache     stations.Cache
	interval  time.Duration
}

// New creates a new Scheduler.
func New(cache stations.Cache, interval time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		cache:     cache,
		interval:  interval,
	}
}

// Start schedules the warm job, runs it once immediately, and starts the
// underlying scheduler.
func (s *Scheduler) Start() error {
	hours := int(s.interval.Hours())
	if hours <= 0 {
		hours = 24
	}

	_, err := s.scheduler.Every(hours).Hours().StartImmediately().Do(func() {
		for _, paramID := range weather.MetObsParams {
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			if err := s.cache.Refresh(ctx, paramID); err != nil {
				log.Printf("scheduler: station list warm failed for param %d: %v", paramID, err)
			}
			cancel()
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
