package weather

import (
	"errors"
	"fmt"
)

// Dataset is the document published as weather_data.json.
type Dataset struct {
	GeneratedAt Timestamp `json:"generated_at"`
	// Profile is the forecaster's narrative of the latest crawl.
	Profile   string     `json:"weather_profile,omitempty"`
	Locations []Location `json:"locations" validate:"dive"`
}

// Location is one forecast region. Name is the unique key.
type Location struct {
	Name          string        `json:"name" validate:"required"`
	City          string        `json:"city" validate:"required"`
	Lat           float64       `json:"lat" validate:"latitude"`
	Lon           float64       `json:"lon" validate:"longitude"`
	AvgTemp       float64       `json:"avg_temp"`
	ForecastCount int           `json:"forecast_count" validate:"gte=0"`
	Forecasts     []ForecastDay `json:"forecasts" validate:"dive"`
}

// ForecastDay is a single forecast entry. A nil temperature is a missing
// reading and is never treated as zero.
type ForecastDay struct {
	Date      string   `json:"date" validate:"required"`
	Weather   string   `json:"weather,omitempty"`
	MaxTemp   *float64 `json:"max_temp" validate:"omitempty,gte=-100,lte=100"`
	MinTemp   *float64 `json:"min_temp" validate:"omitempty,gte=-100,lte=100"`
	FetchTime string   `json:"fetch_time,omitempty"`
}

// Temp returns a pointer to v, for building forecasts with present readings.
func Temp(v float64) *float64 {
	return &v
}

// Lookup returns the record stored in the dataset for name.
func (d *Dataset) Lookup(name string) (*Location, bool) {
	if d == nil {
		return nil, false
	}
	for i := range d.Locations {
		if d.Locations[i].Name == name {
			return &d.Locations[i], true
		}
	}
	return nil, false
}

// Validate checks invariants that struct tags cannot express.
func (d *Dataset) Validate() error {
	if d.GeneratedAt.IsZero() {
		return errors.New("generated_at is required")
	}
	seen := make(map[string]struct{}, len(d.Locations))
	for _, loc := range d.Locations {
		if _, dup := seen[loc.Name]; dup {
			return fmt.Errorf("duplicate location name %q", loc.Name)
		}
		seen[loc.Name] = struct{}{}
	}
	return nil
}
