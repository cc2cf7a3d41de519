package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/i474232898/weather-map/internal/config"
	"github.com/i474232898/weather-map/internal/cwa"
	"github.com/i474232898/weather-map/internal/dashboard"
	"github.com/i474232898/weather-map/internal/export"
	"github.com/i474232898/weather-map/internal/logging"
	"github.com/i474232898/weather-map/internal/scheduler"
	"github.com/i474232898/weather-map/internal/store"
	"github.com/i474232898/weather-map/internal/weather"
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
	logging.Infof("database %s initialized", cfg.DBPath)

	provider := cwa.NewClient(cwa.Config{
		BaseURL:        cfg.Crawler.BaseURL,
		Dataset:        cfg.Crawler.Dataset,
		APIKey:         cfg.Crawler.APIKey,
		Timeout:        cfg.Server.HTTPTimeout,
		InsecureTLS:    cfg.Crawler.InsecureTLS,
		RawPath:        cfg.Crawler.RawPath,
		RequestsPerSec: cfg.Crawler.RequestsPerSec,
	}, nil)

	service := weather.NewService(db, provider)

	var after scheduler.AfterCrawl
	if cfg.Crawler.ExportAfterCrawl {
		after = exporter(cfg, db)
	}
	sched := scheduler.New(cfg.Crawler.Interval, service, after)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Crawler.Once {
		if err := sched.RunOnce(ctx); err != nil {
			logging.Fatalf("crawl failed: %v", err)
		}
		return
	}

	if err := sched.Start(); err != nil {
		logging.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	logging.Infof("crawling every %s", cfg.Crawler.Interval)
	<-ctx.Done()
}

func exporter(cfg *config.AppConfig, st weather.Store) scheduler.AfterCrawl {
	var geo export.Geocoder
	if cfg.Export.GeocoderAPIKey != "" {
		geo = export.NewGoogleGeocoder(cfg.Export.GeocoderAPIKey)
	}
	builder := export.NewBuilder(st, geo)

	return func(ctx context.Context, _ weather.Run) error {
		ds, err := builder.Build(ctx)
		if err != nil {
			return err
		}
		if err := export.WriteJSON(cfg.Export.JSONPath, ds); err != nil {
			return err
		}
		logging.Infof("data exported to %s (%d locations)", cfg.Export.JSONPath, len(ds.Locations))

		if cfg.Export.HTMLPath == "" {
			return nil
		}
		return export.WriteStandalone(cfg.Export.HTMLPath, ds, export.PageOptions{
			Center: dashboard.LatLng{Lat: cfg.Server.MapCenterLat, Lng: cfg.Server.MapCenterLon},
			Zoom:   cfg.Server.MapZoom,
			Locale: cfg.Server.DisplayLocale,
		})
	}
}
