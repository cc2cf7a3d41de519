// Package dashboard holds the display-independent core of the weather map:
// marker placement, the selection panel, the forecast chart and the
// controller that sequences them. Rendering surfaces are injected through
// the capability interfaces in this file.
package dashboard

import "github.com/i474232898/weather-map/internal/weather"

// ViewPort toggles the top-level regions of the page.
type ViewPort interface {
	ShowLoading()
	ShowError(msg string)
	ShowContent()
	SetGeneratedAt(label string)
	// SetProfile shows the forecaster's narrative for the whole dataset.
	SetProfile(text string)
}

// PanelDisplay shows the location detail panel and brings it into view.
type PanelDisplay interface {
	ShowPanel(summary weather.Summary)
}

// LatLng is a map coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Popup is the content shown when a marker is opened.
type Popup struct {
	Name          string  `json:"name"`
	City          string  `json:"city"`
	AvgTemp       float64 `json:"avgTemp"`
	ForecastCount int     `json:"forecastCount"`
}

// Marker is one location pin on the map surface.
type Marker struct {
	Name     string        `json:"name"`
	Position LatLng        `json:"position"`
	Color    weather.Color `json:"color"`
	Label    string        `json:"label"`
	Popup    Popup         `json:"popup"`
	// OnClick is invoked by the surface once per click and returns what the
	// selection panel displayed.
	OnClick func() (weather.Summary, error) `json:"-"`
}

// SelectFunc handles a marker click and returns the summary it displayed.
type SelectFunc func(loc *weather.Location) (weather.Summary, error)

// MapSurface is the map widget.
type MapSurface interface {
	SetView(center LatLng, zoom int)
	AddMarker(m Marker)
	RemoveMarker(name string)
	// InvalidateSize makes the widget re-measure its container so hit
	// testing matches the visible layout.
	InvalidateSize()
}

// Series is one line of the forecast chart. A nil value is a gap.
type Series struct {
	Name   string
	Color  string
	Values []*float64
}

// ChartSpec describes a forecast chart.
type ChartSpec struct {
	Title  string
	Labels []string
	Series []Series
}

// ChartInstance is a live chart bound to a canvas.
type ChartInstance interface {
	Destroy()
}

// ChartCanvas creates chart instances.
type ChartCanvas interface {
	Draw(spec ChartSpec) (ChartInstance, error)
}
