package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/i474232898/weather-map/internal/logging"
	"github.com/i474232898/weather-map/internal/store"
	"github.com/i474232898/weather-map/internal/weather"
)

// Coordinates place a region on the map.
type Coordinates struct {
	Lat  float64
	Lon  float64
	City string
}

// FallbackCoordinates is used for regions nobody knows how to place.
var FallbackCoordinates = Coordinates{Lat: 23.5, Lon: 121.0, City: "Unknown"}

// Regions maps the CWA agricultural forecast regions to a representative city.
var Regions = map[string]Coordinates{
	"北部地區":  {Lat: 25.0330, Lon: 121.5654, City: "Taipei"},
	"中部地區":  {Lat: 24.1477, Lon: 120.6736, City: "Taichung"},
	"南部地區":  {Lat: 22.9908, Lon: 120.2133, City: "Tainan"},
	"東部地區":  {Lat: 23.9871, Lon: 121.6015, City: "Hualien"},
	"東北部地區": {Lat: 24.7736, Lon: 121.7580, City: "Yilan"},
	"東南部地區": {Lat: 22.7583, Lon: 121.1444, City: "Taitung"},
}

// Builder turns stored forecasts into the published dataset.
type Builder struct {
	store    weather.Store
	geocoder Geocoder
	now      func() time.Time
}

// NewBuilder creates a Builder. geo may be nil.
func NewBuilder(s weather.Store, geo Geocoder) *Builder {
	return &Builder{
		store:    s,
		geocoder: geo,
		now:      func() time.Time { return time.Now().In(weather.SourceZone) },
	}
}

// Build reads every stored location, ordered by name.
func (b *Builder) Build(ctx context.Context) (*weather.Dataset, error) {
	names, err := b.store.Locations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	logging.Infof("found %d locations", len(names))

	profile, err := b.store.LatestProfile(ctx)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("latest profile: %w", err)
	}

	ds := &weather.Dataset{
		GeneratedAt: weather.Timestamp{Time: b.now()},
		Profile:     profile,
		Locations:   make([]weather.Location, 0, len(names)),
	}

	for _, name := range names {
		forecasts, err := b.store.Forecasts(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("forecasts for %s: %w", name, err)
		}

		c := b.coordinates(ctx, name)
		ds.Locations = append(ds.Locations, weather.Location{
			Name:          name,
			City:          c.City,
			Lat:           c.Lat,
			Lon:           c.Lon,
			AvgTemp:       weather.AverageMax(forecasts),
			ForecastCount: len(forecasts),
			Forecasts:     forecasts,
		})
	}
	return ds, nil
}

func (b *Builder) coordinates(ctx context.Context, name string) Coordinates {
	if c, ok := Regions[name]; ok {
		return c
	}
	if b.geocoder != nil {
		lat, lon, err := b.geocoder.Locate(ctx, name, "Taiwan")
		if err == nil {
			return Coordinates{Lat: lat, Lon: lon, City: name}
		}
		logging.Warnf("geocoding %s failed: %v", name, err)
	}
	return FallbackCoordinates
}
