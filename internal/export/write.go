package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/i474232898/weather-map/internal/chart"
	"github.com/i474232898/weather-map/internal/dashboard"
	"github.com/i474232898/weather-map/internal/weather"
	"github.com/i474232898/weather-map/internal/web"
)

// PageOptions configure the standalone page.
type PageOptions struct {
	Title  string
	Center dashboard.LatLng
	Zoom   int
	// Locale selects how the generation time is displayed.
	Locale string
}

// WriteJSON writes ds as indented UTF-8 JSON, replacing path atomically.
func WriteJSON(path string, ds *weather.Dataset) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return writeAtomic(path, buf.Bytes())
}

// WriteStandalone writes a self-contained dashboard page with ds and every
// chart embedded.
func WriteStandalone(path string, ds *weather.Dataset, opts PageOptions) error {
	if opts.Title == "" {
		opts.Title = web.DefaultTitle
	}

	render := func(spec dashboard.ChartSpec) ([]byte, error) {
		return chart.RenderPNG(spec, chart.DefaultWidth, chart.DefaultHeight)
	}

	var buf bytes.Buffer
	generatedAt := web.FormatTimestamp(ds.GeneratedAt.Time, opts.Locale)
	if err := web.RenderStandalone(&buf, opts.Title, ds, opts.Center, opts.Zoom, generatedAt, render); err != nil {
		return fmt.Errorf("render standalone page: %w", err)
	}
	return writeAtomic(path, buf.Bytes())
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
