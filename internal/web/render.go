package web

import (
	"bytes"
	"embed"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/i474232898/weather-map/internal/dashboard"
	"github.com/i474232898/weather-map/internal/weather"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.New("index.html.tmpl").Funcs(template.FuncMap{
	"temp":    dashboard.FormatTemp,
	"reading": dashboard.FormatReading,
}).ParseFS(templateFS, "templates/index.html.tmpl"))

// DefaultTitle is the dashboard heading.
const DefaultTitle = "Taiwan Agricultural Weather Forecast Map"

type pageData struct {
	Title         string
	Static        bool
	Snapshot      PageSnapshot
	SnapshotJSON  template.JS
	MapJSON       template.JS
	LocationsJSON template.JS
}

// staticEntry is what the standalone page needs per location.
type staticEntry struct {
	Summary weather.Summary `json:"summary"`
	Chart   string          `json:"chart"`
}

// RenderDashboard writes the live dashboard page.
func RenderDashboard(w io.Writer, title string, snap PageSnapshot, m MapState) error {
	data := pageData{Title: title, Snapshot: snap}

	var err error
	if data.SnapshotJSON, err = toJSON(snap); err != nil {
		return err
	}
	if data.MapJSON, err = toJSON(m); err != nil {
		return err
	}
	data.LocationsJSON = template.JS("{}")

	return pageTemplate.Execute(w, data)
}

// ChartRenderer renders a chart spec to PNG bytes.
type ChartRenderer func(spec dashboard.ChartSpec) ([]byte, error)

// RenderStandalone writes a self-contained page for ds: markers, summaries
// and pre-rendered charts are embedded so no server is needed.
func RenderStandalone(w io.Writer, title string, ds *weather.Dataset, center dashboard.LatLng, zoom int, generatedAt string, render ChartRenderer) error {
	surface := NewLeafletSurface()
	mapView := dashboard.NewMapView(surface)
	mapView.Initialize(center, zoom)
	mapView.RenderMarkers(ds.Locations)

	entries := make(map[string]staticEntry, len(ds.Locations))
	for i := range ds.Locations {
		loc := &ds.Locations[i]
		png, err := render(dashboard.BuildChartSpec(loc))
		if err != nil {
			return fmt.Errorf("chart for %s: %w", loc.Name, err)
		}
		entries[loc.Name] = staticEntry{
			Summary: weather.Summarize(loc),
			Chart:   "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		}
	}

	snap := PageSnapshot{Content: true, GeneratedAt: generatedAt, Profile: ds.Profile}
	data := pageData{Title: title, Static: true, Snapshot: snap}

	var err error
	if data.SnapshotJSON, err = toJSON(snap); err != nil {
		return err
	}
	if data.MapJSON, err = toJSON(surface.State()); err != nil {
		return err
	}
	if data.LocationsJSON, err = toJSON(entries); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return err
	}
	_, err = buf.WriteTo(w)
	return err
}

func toJSON(v interface{}) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}
