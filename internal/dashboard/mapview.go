package dashboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/i474232898/weather-map/internal/logging"
	"github.com/i474232898/weather-map/internal/weather"
)

// ErrNoSelectHandler is returned by a click when OnSelect was never called.
var ErrNoSelectHandler = errors.New("no selection handler registered")

// MapView places one marker per location and reports clicks.
type MapView struct {
	surface MapSurface

	mu          sync.Mutex
	initialized bool
	markers     map[string]*Marker
	onSelect    SelectFunc
}

func NewMapView(surface MapSurface) *MapView {
	return &MapView{
		surface: surface,
		markers: make(map[string]*Marker),
	}
}

// Initialize sets up the map view once; later calls are ignored.
func (v *MapView) Initialize(center LatLng, zoom int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.initialized {
		logging.Debugf("map view already initialized; ignoring center=%v zoom=%d", center, zoom)
		return
	}
	v.surface.SetView(center, zoom)
	v.initialized = true
}

// OnSelect registers the callback invoked with the clicked location.
func (v *MapView) OnSelect(fn SelectFunc) {
	v.mu.Lock()
	v.onSelect = fn
	v.mu.Unlock()
}

// RenderMarkers removes every marker from a previous render and creates one
// marker per location. Each marker refers to the caller's record, not a copy.
func (v *MapView) RenderMarkers(locations []weather.Location) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for name := range v.markers {
		v.surface.RemoveMarker(name)
	}
	v.markers = make(map[string]*Marker, len(locations))

	for i := range locations {
		loc := &locations[i]
		m := &Marker{
			Name:     loc.Name,
			Position: LatLng{Lat: loc.Lat, Lng: loc.Lon},
			Color:    weather.ColorFor(loc.AvgTemp),
			Label:    FormatTemp(loc.AvgTemp),
			Popup: Popup{
				Name:          loc.Name,
				City:          loc.City,
				AvgTemp:       loc.AvgTemp,
				ForecastCount: loc.ForecastCount,
			},
			OnClick: func() (weather.Summary, error) { return v.click(loc) },
		}
		v.markers[loc.Name] = m
		v.surface.AddMarker(*m)
	}
}

func (v *MapView) click(loc *weather.Location) (weather.Summary, error) {
	v.mu.Lock()
	fn := v.onSelect
	v.mu.Unlock()

	if fn == nil {
		logging.Debugf("marker %s clicked with no selection handler", loc.Name)
		return weather.Summary{}, ErrNoSelectHandler
	}
	return fn(loc)
}

// Marker returns the marker created for name.
func (v *MapView) Marker(name string) (Marker, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	m, ok := v.markers[name]
	if !ok {
		return Marker{}, false
	}
	return *m, true
}

// Len reports how many markers are on the map.
func (v *MapView) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.markers)
}

// OnVisible must be called after the map container becomes visible.
func (v *MapView) OnVisible() {
	v.surface.InvalidateSize()
}

// FormatTemp renders a temperature the way marker labels and the panel do.
func FormatTemp(t float64) string {
	return fmt.Sprintf("%g°C", t)
}

// FormatReading is FormatTemp for an optional reading.
func FormatReading(t *float64) string {
	if t == nil {
		return "N/A"
	}
	return FormatTemp(*t)
}
