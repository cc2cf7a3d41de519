package dashboard

import (
	"testing"

	"github.com/i474232898/weather-map/internal/weather"
)

func TestRenderMarkersOnePerLocation(t *testing.T) {
	surface := newFakeSurface()
	v := NewMapView(surface)
	ds := sampleDataset()

	v.RenderMarkers(ds.Locations)

	if len(surface.markers) != 2 || v.Len() != 2 {
		t.Fatalf("expected 2 markers, got surface=%d view=%d", len(surface.markers), v.Len())
	}

	taipei := surface.markers["Taipei"]
	if taipei.Color != weather.ColorRed {
		t.Errorf("Taipei colour = %s, want red", taipei.Color)
	}
	if taipei.Label != "31°C" {
		t.Errorf("Taipei label = %q", taipei.Label)
	}
	if taipei.Popup.ForecastCount != 2 || taipei.Popup.City != "Taipei" {
		t.Errorf("unexpected popup %+v", taipei.Popup)
	}
	if surface.markers["Hualien"].Color != weather.ColorSky {
		t.Errorf("Hualien colour = %s, want sky", surface.markers["Hualien"].Color)
	}
}

func TestMarkerClickPassesFullRecord(t *testing.T) {
	surface := newFakeSurface()
	v := NewMapView(surface)
	ds := sampleDataset()
	v.RenderMarkers(ds.Locations)

	var got []*weather.Location
	v.OnSelect(func(loc *weather.Location) (weather.Summary, error) {
		got = append(got, loc)
		return weather.Summarize(loc), nil
	})

	surface.click("Taipei")

	if len(got) != 1 {
		t.Fatalf("expected exactly one callback, got %d", len(got))
	}
	if got[0] != &ds.Locations[0] {
		t.Fatal("callback did not receive the stored Taipei record")
	}
	if len(got[0].Forecasts) != 2 {
		t.Fatal("record is missing its forecasts")
	}
}

func TestRenderMarkersClearsPrevious(t *testing.T) {
	surface := newFakeSurface()
	v := NewMapView(surface)
	ds := sampleDataset()

	v.RenderMarkers(ds.Locations)
	v.RenderMarkers(ds.Locations[1:])

	if len(surface.markers) != 1 {
		t.Fatalf("expected 1 marker after re-render, got %d", len(surface.markers))
	}
	if _, ok := v.Marker("Taipei"); ok {
		t.Fatal("stale Taipei marker still indexed")
	}
	if len(surface.removed) != 2 {
		t.Fatalf("expected both old markers removed, got %v", surface.removed)
	}
}

func TestInitializeOnce(t *testing.T) {
	surface := newFakeSurface()
	v := NewMapView(surface)

	v.Initialize(LatLng{Lat: 23.5, Lng: 121}, 8)
	v.Initialize(LatLng{Lat: 0, Lng: 0}, 2)

	if surface.setViews != 1 || surface.zoom != 8 {
		t.Fatalf("expected single SetView with zoom 8, got %d calls zoom %d", surface.setViews, surface.zoom)
	}
}

func TestOnVisibleInvalidatesSize(t *testing.T) {
	surface := newFakeSurface()
	NewMapView(surface).OnVisible()
	if surface.invalidated != 1 {
		t.Fatalf("expected one size invalidation, got %d", surface.invalidated)
	}
}

func TestFormatReading(t *testing.T) {
	if got := FormatReading(nil); got != "N/A" {
		t.Fatalf("FormatReading(nil) = %q", got)
	}
	if got := FormatReading(weather.Temp(18.5)); got != "18.5°C" {
		t.Fatalf("FormatReading(18.5) = %q", got)
	}
}
