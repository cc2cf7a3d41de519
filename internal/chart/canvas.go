// Package chart renders forecast charts to PNG with go-chart.
package chart

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"sync"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/i474232898/weather-map/internal/dashboard"
)

const (
	DefaultWidth  = 960
	DefaultHeight = 480
)

// Canvas is a dashboard.ChartCanvas that keeps the PNG of the live chart.
type Canvas struct {
	width, height int

	mu      sync.Mutex
	live    int
	current *Instance
}

// NewCanvas creates a canvas. Non-positive sizes fall back to the defaults.
func NewCanvas(width, height int) *Canvas {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Canvas{width: width, height: height}
}

// Instance is a rendered chart owned by a Canvas.
type Instance struct {
	canvas    *Canvas
	png       []byte
	destroyed bool
}

// Destroy releases the image. It is safe to call more than once.
func (i *Instance) Destroy() {
	c := i.canvas
	c.mu.Lock()
	defer c.mu.Unlock()

	if i.destroyed {
		return
	}
	i.destroyed = true
	i.png = nil
	c.live--
	if c.current == i {
		c.current = nil
	}
}

// Draw renders spec and makes it the canvas's current chart.
func (c *Canvas) Draw(spec dashboard.ChartSpec) (dashboard.ChartInstance, error) {
	png, err := RenderPNG(spec, c.width, c.height)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	inst := &Instance{canvas: c, png: png}
	c.live++
	c.current = inst
	return inst, nil
}

// Current returns the PNG of the live chart.
func (c *Canvas) Current() ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil, false
	}
	return c.current.png, true
}

// Live reports how many undestroyed instances exist.
func (c *Canvas) Live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live
}

// RenderPNG draws spec as a line chart.
func RenderPNG(spec dashboard.ChartSpec, width, height int) ([]byte, error) {
	n := len(spec.Labels)
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}

	series := make([]gochart.Series, 0, len(spec.Series))
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range spec.Series {
		if len(s.Values) != n {
			return nil, fmt.Errorf("series %q has %d values for %d dates", s.Name, len(s.Values), n)
		}
		for _, v := range s.Values {
			if v != nil {
				lo = math.Min(lo, *v)
				hi = math.Max(hi, *v)
			}
		}
		col := colorFromHex(s.Color)
		series = append(series, gapSeries{
			name: s.Name,
			style: gochart.Style{
				StrokeColor: col,
				StrokeWidth: 3,
				DotColor:    col,
				DotWidth:    4,
			},
			xs: xs,
			ys: s.Values,
		})
	}

	yTicks, err := temperatureTicks(lo, hi)
	if err != nil {
		return nil, err
	}

	ch := gochart.Chart{
		Title:      spec.Title,
		Width:      width,
		Height:     height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 24}},
		XAxis: gochart.XAxis{
			Name:  "Date",
			Ticks: dateTicks(spec.Labels),
			Range: &gochart.ContinuousRange{Min: -0.5, Max: xMax(n)},
			Style: gochart.Style{TextRotationDegrees: 45},
		},
		YAxis: gochart.YAxis{
			Name:  "Temperature (°C)",
			Ticks: yTicks,
			Range: &gochart.ContinuousRange{Min: yTicks[0].Value, Max: yTicks[len(yTicks)-1].Value},
		},
		Series: series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

// dateTicks labels each forecast index and pads half a slot on each side so a
// single-day forecast still has a non-empty x range.
func dateTicks(labels []string) []gochart.Tick {
	ticks := make([]gochart.Tick, 0, len(labels)+2)
	ticks = append(ticks, gochart.Tick{Value: -0.5})
	for i, l := range labels {
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: l})
	}
	ticks = append(ticks, gochart.Tick{Value: xMax(len(labels))})
	return ticks
}

func xMax(n int) float64 {
	if n == 0 {
		return 0.5
	}
	return float64(n) - 0.5
}

const maxTemperatureTicks = 12

// temperatureTicks returns evenly spaced ticks covering [lo, hi] with a
// margin. With no readings it returns a 0-10 axis. The step grows with the
// span so the tick count stays bounded.
func temperatureTicks(lo, hi float64) ([]gochart.Tick, error) {
	switch {
	case math.IsInf(lo, 1) && math.IsInf(hi, -1):
		lo, hi = 0, 10
	case math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0):
		return nil, fmt.Errorf("temperature range [%g, %g] is not finite", lo, hi)
	default:
		lo, hi = math.Floor(lo-2), math.Ceil(hi+2)
	}

	step := niceStep((hi - lo) / 8)
	lo = math.Floor(lo/step) * step
	hi = math.Ceil(hi/step) * step

	count := int(math.Round((hi-lo)/step)) + 1
	if count < 2 || count > maxTemperatureTicks || lo+step == lo {
		return nil, fmt.Errorf("temperature range [%g, %g] cannot be charted", lo, hi)
	}

	ticks := make([]gochart.Tick, count)
	for i := range ticks {
		v := lo + float64(i)*step
		ticks[i] = gochart.Tick{Value: v, Label: fmt.Sprintf("%.0f°C", v)}
	}
	return ticks, nil
}

// niceStep rounds raw up to 1, 2 or 5 times a power of ten, at least 1°C.
func niceStep(raw float64) float64 {
	if raw <= 1 {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 5} {
		if m*mag >= raw {
			return m * mag
		}
	}
	return 10 * mag
}

func colorFromHex(hex string) drawing.Color {
	hex = strings.TrimPrefix(hex, "#")
	if hex == "" {
		return gochart.ColorBlue
	}
	return drawing.ColorFromHex(hex)
}
