package weather

import (
	"context"
	"time"
)

// Record is one parsed daily forecast row for a region, as delivered by a
// provider before it is persisted.
type Record struct {
	Location string
	Date     string
	Weather  string
	MaxTemp  *float64
	MinTemp  *float64
}

// Batch is everything a single provider fetch yields.
type Batch struct {
	Profile string
	Records []Record
}

// Run is a persisted crawl.
type Run struct {
	ID        string
	FetchedAt time.Time
	Profile   string
	Records   []Record
}

// Provider abstracts a forecast source (the CWA open data API).
type Provider interface {
	Name() string
	FetchForecasts(ctx context.Context) (Batch, error)
}

// Store is the contract the SQLite store (and the in-memory store) satisfy.
type Store interface {
	SaveRun(ctx context.Context, run Run) error
	Locations(ctx context.Context) ([]string, error)
	Forecasts(ctx context.Context, location string) ([]ForecastDay, error)
	LatestProfile(ctx context.Context) (string, error)
	Close() error
}
