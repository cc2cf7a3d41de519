package chart

import (
	"fmt"

	gochart "github.com/wcharczuk/go-chart/v2"
)

// gapSeries is a line series whose missing readings break the line instead
// of being interpolated or drawn at zero.
type gapSeries struct {
	name  string
	style gochart.Style
	xs    []float64
	ys    []*float64
}

func (s gapSeries) GetName() string { return s.name }

func (s gapSeries) GetStyle() gochart.Style { return s.style }

func (s gapSeries) GetYAxis() gochart.YAxisType { return gochart.YAxisPrimary }

func (s gapSeries) Validate() error {
	if len(s.xs) != len(s.ys) {
		return fmt.Errorf("series %q: %d x values for %d y values", s.name, len(s.xs), len(s.ys))
	}
	return nil
}

// Len and GetValues expose present points only, so range calculation never
// sees a gap.
func (s gapSeries) Len() int {
	n := 0
	for _, y := range s.ys {
		if y != nil {
			n++
		}
	}
	return n
}

func (s gapSeries) GetValues(index int) (float64, float64) {
	seen := 0
	for i, y := range s.ys {
		if y == nil {
			continue
		}
		if seen == index {
			return s.xs[i], *y
		}
		seen++
	}
	return 0, 0
}

// segments splits the series into runs of consecutive present readings.
func (s gapSeries) segments() []gochart.ContinuousSeries {
	var (
		out []gochart.ContinuousSeries
		cur gochart.ContinuousSeries
	)
	flush := func() {
		if len(cur.XValues) > 0 {
			out = append(out, cur)
		}
		cur = gochart.ContinuousSeries{}
	}
	for i, y := range s.ys {
		if y == nil {
			flush()
			continue
		}
		cur.XValues = append(cur.XValues, s.xs[i])
		cur.YValues = append(cur.YValues, *y)
	}
	flush()
	return out
}

func (s gapSeries) Render(r gochart.Renderer, canvasBox gochart.Box, xrange, yrange gochart.Range, defaults gochart.Style) {
	style := s.style.InheritFrom(defaults)
	for _, seg := range s.segments() {
		gochart.Draw.LineSeries(r, canvasBox, xrange, yrange, style, seg)
	}
}
