package httpapi

import (
	"bytes"
	"errors"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-map/internal/chart"
	"github.com/i474232898/weather-map/internal/dashboard"
	"github.com/i474232898/weather-map/internal/weather"
	"github.com/i474232898/weather-map/internal/web"
)

var validate = validator.New()

// Deps are the dashboard components the HTTP layer exposes.
type Deps struct {
	Title   string
	App     *dashboard.App
	Page    *web.Page
	Surface *web.LeafletSurface
	Canvas  *chart.Canvas
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	if deps.Title == "" {
		deps.Title = web.DefaultTitle
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-map",
			"state":   deps.App.State().String(),
		})
	})

	app.Get("/", func(c *fiber.Ctx) error {
		var buf bytes.Buffer
		if err := web.RenderDashboard(&buf, deps.Title, deps.Page.Snapshot(), deps.Surface.State()); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render dashboard")
		}
		c.Type("html", "utf-8")
		return c.Send(buf.Bytes())
	})

	app.Get("/weather_data.json", func(c *fiber.Ctx) error {
		ds := deps.App.Dataset()
		if ds == nil {
			return fiber.NewError(fiber.StatusNotFound, "weather data not loaded")
		}
		return c.JSON(ds)
	})

	v1 := app.Group("/api/v1")

	v1.Get("/state", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"state": deps.App.State().String(),
			"page":  deps.Page.Snapshot(),
		})
	})

	v1.Get("/markers", func(c *fiber.Ctx) error {
		return c.JSON(deps.Surface.State())
	})

	v1.Get("/locations/:name", func(c *fiber.Ctx) error {
		name, err := nameParam(c)
		if err != nil {
			return err
		}

		ds := deps.App.Dataset()
		if ds == nil {
			return fiber.NewError(fiber.StatusConflict, dashboard.ErrNotReady.Error())
		}
		loc, ok := ds.Lookup(name)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown location")
		}
		return c.JSON(loc)
	})

	v1.Post("/markers/:name/click", func(c *fiber.Ctx) error {
		name, err := nameParam(c)
		if err != nil {
			return err
		}

		summary, err := deps.Surface.Click(name)
		switch {
		case errors.Is(err, dashboard.ErrNotReady):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		case errors.Is(err, web.ErrUnknownMarker) && !ready(deps.App.State()):
			// No markers exist until the dataset has loaded.
			return fiber.NewError(fiber.StatusConflict, dashboard.ErrNotReady.Error())
		case errors.Is(err, web.ErrUnknownMarker):
			return fiber.NewError(fiber.StatusNotFound, "unknown marker")
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "failed to select location")
		}
		return c.JSON(summary)
	})

	v1.Get("/selection", func(c *fiber.Ctx) error {
		sel := deps.App.Selection()
		if sel == nil {
			return fiber.NewError(fiber.StatusNotFound, "no location selected")
		}
		return c.JSON(weather.Summarize(sel))
	})

	v1.Get("/selection/chart.png", func(c *fiber.Ctx) error {
		png, ok := deps.Canvas.Current()
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no chart rendered")
		}
		c.Set(fiber.HeaderCacheControl, "no-store")
		c.Type("png")
		return c.Send(png)
	})
}

func ready(s dashboard.State) bool {
	return s == dashboard.StateReady || s == dashboard.StateSelected
}

// locationParam holds the path parameter naming a location.
type locationParam struct {
	Name string `validate:"required,max=128"`
}

func nameParam(c *fiber.Ctx) (string, error) {
	raw, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid location name")
	}

	p := locationParam{Name: strings.Clone(strings.TrimSpace(raw))}
	if err := validate.Struct(p); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return p.Name, nil
}
