package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-map/internal/api/http"
	"github.com/i474232898/weather-map/internal/chart"
	"github.com/i474232898/weather-map/internal/config"
	"github.com/i474232898/weather-map/internal/dashboard"
	"github.com/i474232898/weather-map/internal/loader"
	"github.com/i474232898/weather-map/internal/logging"
	"github.com/i474232898/weather-map/internal/web"
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

	// Shared HTTP client for fetching the dataset.
	httpClient := &http.Client{
		Timeout: cfg.Server.HTTPTimeout,
	}

	page := web.NewPage()
	surface := web.NewLeafletSurface()
	canvas := chart.NewCanvas(chart.DefaultWidth, chart.DefaultHeight)

	dash := dashboard.NewApp(
		loader.New(cfg.Server.DataSource, httpClient),
		page,
		dashboard.NewMapView(surface),
		dashboard.NewSelectionPanel(page),
		dashboard.NewChartView(canvas),
		dashboard.Options{
			Center:     dashboard.LatLng{Lat: cfg.Server.MapCenterLat, Lng: cfg.Server.MapCenterLon},
			Zoom:       cfg.Server.MapZoom,
			FormatTime: web.TimestampFormatter(cfg.Server.DisplayLocale),
		},
	)
	defer dash.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The page polls /api/v1/state until loading finishes.
	go func() {
		if err := dash.Start(ctx); err != nil && !errors.Is(err, dashboard.ErrAlreadyStarted) {
			logging.Errorf("dashboard failed to start: %v", err)
		}
	}()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(httpapi.RequestLogger())
	app.Use(recover.New())

	httpapi.RegisterRoutes(app, httpapi.Deps{
		App:     dash,
		Page:    page,
		Surface: surface,
		Canvas:  canvas,
	})

	go func() {
		logging.Infof("listening on :%s", cfg.Server.Port)
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			logging.Errorf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logging.Errorf("error during shutdown: %v", err)
	}
}
