package chart

import (
	"bytes"
	"image/png"
	"math"
	"testing"
	"time"

	"github.com/i474232898/weather-map/internal/dashboard"
	"github.com/i474232898/weather-map/internal/weather"
)

func sampleSpec() dashboard.ChartSpec {
	return dashboard.BuildChartSpec(&weather.Location{
		Name: "北部地區",
		City: "Taipei",
		Forecasts: []weather.ForecastDay{
			{Date: "2025-12-03", MaxTemp: weather.Temp(24), MinTemp: weather.Temp(17)},
			{Date: "2025-12-04", MaxTemp: nil, MinTemp: weather.Temp(16)},
			{Date: "2025-12-05", MaxTemp: weather.Temp(22), MinTemp: nil},
			{Date: "2025-12-06", MaxTemp: weather.Temp(21), MinTemp: weather.Temp(15)},
		},
	})
}

func TestRenderPNGProducesImage(t *testing.T) {
	b, err := RenderPNG(sampleSpec(), 640, 320)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 640 || img.Bounds().Dy() != 320 {
		t.Fatalf("unexpected size %v", img.Bounds())
	}
}

func TestRenderPNGSingleDay(t *testing.T) {
	spec := dashboard.BuildChartSpec(&weather.Location{
		Name:      "one",
		Forecasts: []weather.ForecastDay{{Date: "2025-12-03", MaxTemp: weather.Temp(20), MinTemp: weather.Temp(12)}},
	})
	if _, err := RenderPNG(spec, 320, 200); err != nil {
		t.Fatalf("render single day: %v", err)
	}
}

func TestRenderPNGWithoutForecasts(t *testing.T) {
	spec := dashboard.BuildChartSpec(&weather.Location{Name: "empty", City: "Nowhere"})
	if _, err := RenderPNG(spec, 320, 200); err != nil {
		t.Fatalf("render empty forecast: %v", err)
	}
}

func TestCanvasKeepsOneLiveChart(t *testing.T) {
	c := NewCanvas(320, 200)

	first, err := c.Draw(sampleSpec())
	if err != nil {
		t.Fatal(err)
	}
	first.Destroy()
	second, err := c.Draw(sampleSpec())
	if err != nil {
		t.Fatal(err)
	}

	if c.Live() != 1 {
		t.Fatalf("live = %d, want 1", c.Live())
	}
	if b, ok := c.Current(); !ok || len(b) == 0 {
		t.Fatal("expected current chart image")
	}

	second.Destroy()
	second.Destroy()
	if c.Live() != 0 {
		t.Fatalf("live = %d after destroy, want 0", c.Live())
	}
	if _, ok := c.Current(); ok {
		t.Fatal("destroyed chart still current")
	}
}

func TestGapSeriesSegments(t *testing.T) {
	s := gapSeries{
		xs: []float64{0, 1, 2, 3, 4},
		ys: []*float64{weather.Temp(1), weather.Temp(2), nil, weather.Temp(4), nil},
	}

	segs := s.segments()
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if len(segs[0].XValues) != 2 || segs[1].XValues[0] != 3 {
		t.Fatalf("unexpected segments %+v", segs)
	}
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
	if x, y := s.GetValues(2); x != 3 || y != 4 {
		t.Fatalf("GetValues(2) = %v,%v", x, y)
	}
}

func TestTemperatureTicksWithoutReadings(t *testing.T) {
	ticks, err := temperatureTicks(math.Inf(1), math.Inf(-1))
	if err != nil {
		t.Fatal(err)
	}
	if ticks[0].Value != 0 || ticks[len(ticks)-1].Value != 10 {
		t.Fatalf("unexpected default axis %v..%v", ticks[0].Value, ticks[len(ticks)-1].Value)
	}
}

func TestTemperatureTicksBounded(t *testing.T) {
	cases := []struct{ lo, hi float64 }{
		{15, 24},
		{-40, 45},
		{-1e6, 1e6},
		{-1e17, 1e17},
	}
	for _, c := range cases {
		ticks, err := temperatureTicks(c.lo, c.hi)
		if err != nil {
			t.Fatalf("[%g, %g]: %v", c.lo, c.hi, err)
		}
		if len(ticks) < 2 || len(ticks) > maxTemperatureTicks {
			t.Fatalf("[%g, %g]: %d ticks", c.lo, c.hi, len(ticks))
		}
		if ticks[0].Value > c.lo || ticks[len(ticks)-1].Value < c.hi {
			t.Fatalf("[%g, %g]: axis %v..%v does not cover readings", c.lo, c.hi, ticks[0].Value, ticks[len(ticks)-1].Value)
		}
	}
}

func TestRenderPNGHugeReadingReturns(t *testing.T) {
	spec := dashboard.BuildChartSpec(&weather.Location{
		Name:      "huge",
		Forecasts: []weather.ForecastDay{{Date: "2025-12-03", MaxTemp: weather.Temp(1e17), MinTemp: weather.Temp(1e17)}},
	})

	done := make(chan error, 1)
	go func() {
		_, err := RenderPNG(spec, 320, 200)
		done <- err
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected a range error for an unchartable reading")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("RenderPNG did not return")
	}
}
