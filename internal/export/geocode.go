package export

import (
	"context"
	"fmt"
	"sync"

	"github.com/kelvins/geocoder"
)

// Geocoder resolves a city to coordinates.
type Geocoder interface {
	Locate(ctx context.Context, city, country string) (lat, lon float64, err error)
}

// GoogleGeocoder resolves cities through the Google Geocoding API.
type GoogleGeocoder struct {
	mu sync.Mutex
}

// NewGoogleGeocoder configures the geocoder package with apiKey.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{}
}

func (g *GoogleGeocoder) Locate(ctx context.Context, city, country string) (float64, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	// the geocoder package keeps its key in a package variable
	g.mu.Lock()
	defer g.mu.Unlock()

	loc, err := geocoder.Geocoding(geocoder.Address{City: city, Country: country})
	if err != nil {
		return 0, 0, fmt.Errorf("geocode %s: %w", city, err)
	}
	return loc.Latitude, loc.Longitude, nil
}
