package dashboard

import (
	"fmt"

	"github.com/i474232898/weather-map/internal/weather"
)

const (
	MaxSeriesName = "Maximum Temperature"
	MinSeriesName = "Minimum Temperature"

	maxSeriesColor = "#ef4444"
	minSeriesColor = "#3b82f6"
)

// ChartView owns the single live forecast chart.
type ChartView struct {
	canvas  ChartCanvas
	current ChartInstance
}

func NewChartView(canvas ChartCanvas) *ChartView {
	return &ChartView{canvas: canvas}
}

// Render destroys the live chart, if any, and draws loc's forecast.
func (v *ChartView) Render(loc *weather.Location) error {
	v.Close()

	inst, err := v.canvas.Draw(BuildChartSpec(loc))
	if err != nil {
		return fmt.Errorf("draw chart for %s: %w", loc.Name, err)
	}
	v.current = inst
	return nil
}

// Close destroys the live chart.
func (v *ChartView) Close() {
	if v.current != nil {
		v.current.Destroy()
		v.current = nil
	}
}

// BuildChartSpec aligns max and min readings on the forecast dates. Missing
// readings stay nil.
func BuildChartSpec(loc *weather.Location) ChartSpec {
	n := len(loc.Forecasts)
	labels := make([]string, n)
	maxTemps := make([]*float64, n)
	minTemps := make([]*float64, n)

	for i, f := range loc.Forecasts {
		labels[i] = f.Date
		maxTemps[i] = f.MaxTemp
		minTemps[i] = f.MinTemp
	}

	// The bundled chart font has no CJK glyphs, so prefer the romanised city.
	title := loc.City
	if title == "" {
		title = loc.Name
	}

	return ChartSpec{
		Title:  title,
		Labels: labels,
		Series: []Series{
			{Name: MaxSeriesName, Color: maxSeriesColor, Values: maxTemps},
			{Name: MinSeriesName, Color: minSeriesColor, Values: minTemps},
		},
	}
}
