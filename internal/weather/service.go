package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-map/internal/logging"
)

// Service orchestrates fetching from the forecast provider and persisting runs.
type Service struct {
	store    Store
	provider Provider
	now      func() time.Time
}

// NewService creates a new Service.
func NewService(store Store, provider Provider) *Service {
	return &Service{
		store:    store,
		provider: provider,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// FetchAndStore fetches one batch from the provider and stores it as a run.
// An empty batch is not stored so the last good crawl stays authoritative.
func (s *Service) FetchAndStore(ctx context.Context) (Run, error) {
	if s.provider == nil {
		return Run{}, fmt.Errorf("no forecast provider configured")
	}

	batch, err := s.provider.FetchForecasts(ctx)
	if err != nil {
		return Run{}, fmt.Errorf("provider %s: %w", s.provider.Name(), err)
	}

	run := Run{
		ID:        uuid.NewString(),
		FetchedAt: s.now(),
		Profile:   batch.Profile,
		Records:   batch.Records,
	}

	if len(run.Records) == 0 && run.Profile == "" {
		logging.Warnf("provider %s returned no forecasts; keeping previous data", s.provider.Name())
		return run, nil
	}

	if err := s.store.SaveRun(ctx, run); err != nil {
		return Run{}, fmt.Errorf("save run %s: %w", run.ID, err)
	}

	logging.Infow("stored forecast run",
		"run_id", run.ID,
		"provider", s.provider.Name(),
		"records", len(run.Records))
	return run, nil
}

// Store exposes the underlying store for exporters.
func (s *Service) Store() Store {
	return s.store
}
