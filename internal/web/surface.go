package web

import (
	"errors"
	"sync"

	"github.com/i474232898/weather-map/internal/dashboard"
	"github.com/i474232898/weather-map/internal/weather"
)

// ErrUnknownMarker is returned when a click names no marker on the map.
var ErrUnknownMarker = errors.New("unknown marker")

// MapState is what the browser-side Leaflet map is built from.
type MapState struct {
	Center  dashboard.LatLng   `json:"center"`
	Zoom    int                `json:"zoom"`
	Markers []dashboard.Marker `json:"markers"`
	// SizeEpoch increments whenever the widget must re-measure its container.
	SizeEpoch int `json:"sizeEpoch"`
}

// LeafletSurface is the server-side model of the Leaflet map. It implements
// dashboard.MapSurface and dispatches marker clicks coming from the browser.
type LeafletSurface struct {
	mu        sync.RWMutex
	center    dashboard.LatLng
	zoom      int
	order     []string
	markers   map[string]dashboard.Marker
	sizeEpoch int
}

func NewLeafletSurface() *LeafletSurface {
	return &LeafletSurface{markers: make(map[string]dashboard.Marker)}
}

func (s *LeafletSurface) SetView(center dashboard.LatLng, zoom int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.center, s.zoom = center, zoom
}

func (s *LeafletSurface) AddMarker(m dashboard.Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.markers[m.Name]; !exists {
		s.order = append(s.order, m.Name)
	}
	s.markers[m.Name] = m
}

func (s *LeafletSurface) RemoveMarker(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.markers[name]; !ok {
		return
	}
	delete(s.markers, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *LeafletSurface) InvalidateSize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sizeEpoch++
}

// Click runs the click handler of the named marker and returns the summary it
// displayed. The handler runs without the surface lock held.
func (s *LeafletSurface) Click(name string) (weather.Summary, error) {
	s.mu.RLock()
	m, ok := s.markers[name]
	s.mu.RUnlock()

	if !ok {
		return weather.Summary{}, ErrUnknownMarker
	}
	if m.OnClick == nil {
		return weather.Summary{}, dashboard.ErrNoSelectHandler
	}
	return m.OnClick()
}

// State returns the map model in marker insertion order.
func (s *LeafletSurface) State() MapState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	markers := make([]dashboard.Marker, 0, len(s.order))
	for _, name := range s.order {
		markers = append(markers, s.markers[name])
	}
	return MapState{
		Center:    s.center,
		Zoom:      s.zoom,
		Markers:   markers,
		SizeEpoch: s.sizeEpoch,
	}
}
