package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/i474232898/weather-map/internal/weather"
)

var (
	// ErrNotFound is returned when nothing has been stored yet.
	ErrNotFound = errors.New("no weather data stored")
)

// fetchTimeLayout matches SQLite's CURRENT_TIMESTAMP text form.
const fetchTimeLayout = "2006-01-02 15:04:05"

// MemoryStore is a concurrency-safe in-memory implementation of weather.Store.
type MemoryStore struct {
	mu sync.RWMutex

	runs []weather.Run

	// retention configuration
	maxRuns int // max number of crawl runs kept
}

// NewMemoryStore creates a new MemoryStore.
// If maxRuns is <= 0, it is treated as unlimited.
func NewMemoryStore(maxRuns int) *MemoryStore {
	return &MemoryStore{maxRuns: maxRuns}
}

// SaveRun appends a run and enforces retention.
func (s *MemoryStore) SaveRun(_ context.Context, run weather.Run) error {
	run.Records = append([]weather.Record(nil), run.Records...)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = append(s.runs, run)

	// Enforce retention by count.
	if s.maxRuns > 0 && len(s.runs) > s.maxRuns {
		over := len(s.runs) - s.maxRuns
		s.runs = s.runs[over:]
	}
	return nil
}

// Locations returns every location with at least one forecast, sorted.
func (s *MemoryStore) Locations(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, run := range s.runs {
		for _, r := range run.Records {
			seen[r.Location] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// Forecasts returns the most recently stored forecast per date for location,
// ordered by date.
func (s *MemoryStore) Forecasts(_ context.Context, location string) ([]weather.ForecastDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byDate := make(map[string]weather.ForecastDay)
	for _, run := range s.runs {
		fetched := run.FetchedAt.UTC().Format(fetchTimeLayout)
		for _, r := range run.Records {
			if r.Location != location {
				continue
			}
			byDate[r.Date] = weather.ForecastDay{
				Date:      r.Date,
				Weather:   r.Weather,
				MaxTemp:   copyTemp(r.MaxTemp),
				MinTemp:   copyTemp(r.MinTemp),
				FetchTime: fetched,
			}
		}
	}

	out := make([]weather.ForecastDay, 0, len(byDate))
	for _, f := range byDate {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// LatestProfile returns the weather profile text of the newest run that had one.
func (s *MemoryStore) LatestProfile(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.runs) - 1; i >= 0; i-- {
		if s.runs[i].Profile != "" {
			return s.runs[i].Profile, nil
		}
	}
	return "", ErrNotFound
}

func (s *MemoryStore) Close() error {
	return nil
}

func copyTemp(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
