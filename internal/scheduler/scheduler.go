package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-map/internal/logging"
	"github.com/i474232898/weather-map/internal/weather"
)

const jobTimeout = 2 * time.Minute

// AfterCrawl runs after every crawl that stored a run.
type AfterCrawl func(ctx context.Context, run weather.Run) error

// Scheduler periodically crawls the forecast provider.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	interval  time.Duration
	after     AfterCrawl

	mu sync.Mutex
}

// New creates a new Scheduler. after may be nil.
func New(interval time.Duration, service *weather.Service, after AfterCrawl) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		service:   service,
		interval:  interval,
		after:     after,
	}
}

// RunOnce performs a single crawl (and the after hook) synchronously.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logging.Infof("scheduler: running forecast crawl job")

	run, err := s.service.FetchAndStore(ctx)
	if err != nil {
		return err
	}
	if s.after != nil && len(run.Records) > 0 {
		if err := s.after(ctx, run); err != nil {
			return err
		}
	}

	logging.Infof("scheduler: completed forecast crawl job")
	return nil
}

// Start schedules the periodic job, runs it immediately and starts the
// underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 360
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if err := s.RunOnce(ctx); err != nil {
			logging.Errorf("scheduler: crawl failed: %v", err)
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
