package main

import (
	"context"

	"github.com/i474232898/weather-map/internal/config"
	"github.com/i474232898/weather-map/internal/dashboard"
	"github.com/i474232898/weather-map/internal/export"
	"github.com/i474232898/weather-map/internal/logging"
	"github.com/i474232898/weather-map/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("failed to load config: %v", err)
	}
	logging.Init(cfg.AppName)
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		logging.Warnf("invalid log level %q: %v", cfg.LogLevel, err)
	}
	defer logging.Sync()

	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		logging.Fatalf("failed to open database %s: %v", cfg.DBPath, err)
	}
	defer db.Close()

	var geo export.Geocoder
	if cfg.Export.GeocoderAPIKey != "" {
		geo = export.NewGoogleGeocoder(cfg.Export.GeocoderAPIKey)
	}

	ctx := context.Background()
	ds, err := export.NewBuilder(db, geo).Build(ctx)
	if err != nil {
		logging.Fatalf("export failed: %v", err)
	}

	if err := export.WriteJSON(cfg.Export.JSONPath, ds); err != nil {
		logging.Fatalf("write %s: %v", cfg.Export.JSONPath, err)
	}
	logging.Infow("data exported",
		"path", cfg.Export.JSONPath,
		"locations", len(ds.Locations),
		"generated_at", ds.GeneratedAt.Time)

	if cfg.Export.HTMLPath != "" {
		err := export.WriteStandalone(cfg.Export.HTMLPath, ds, export.PageOptions{
			Center: dashboard.LatLng{Lat: cfg.Server.MapCenterLat, Lng: cfg.Server.MapCenterLon},
			Zoom:   cfg.Server.MapZoom,
			Locale: cfg.Server.DisplayLocale,
		})
		if err != nil {
			logging.Fatalf("write %s: %v", cfg.Export.HTMLPath, err)
		}
		logging.Infof("created %s (can be opened directly in a browser)", cfg.Export.HTMLPath)
	}
}
