package dashboard

import (
	"context"
	"fmt"

	"github.com/i474232898/weather-map/internal/weather"
)

type fakeView struct {
	loading, content, errShown bool
	errMsg                     string
	generated                  string
	profile                    string
	panels                     []weather.Summary
}

func (v *fakeView) ShowLoading() { v.loading, v.content, v.errShown = true, false, false }

func (v *fakeView) ShowError(msg string) {
	v.loading, v.errShown, v.errMsg = false, true, msg
}

func (v *fakeView) ShowContent() { v.loading, v.content = false, true }

func (v *fakeView) SetGeneratedAt(label string) { v.generated = label }

func (v *fakeView) SetProfile(text string) { v.profile = text }

func (v *fakeView) ShowPanel(s weather.Summary) { v.panels = append(v.panels, s) }

type fakeSurface struct {
	center      LatLng
	zoom        int
	setViews    int
	markers     map[string]Marker
	order       []string
	removed     []string
	invalidated int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{markers: make(map[string]Marker)}
}

func (s *fakeSurface) SetView(center LatLng, zoom int) {
	s.center, s.zoom = center, zoom
	s.setViews++
}

func (s *fakeSurface) AddMarker(m Marker) {
	s.markers[m.Name] = m
	s.order = append(s.order, m.Name)
}

func (s *fakeSurface) RemoveMarker(name string) {
	delete(s.markers, name)
	s.removed = append(s.removed, name)
}

func (s *fakeSurface) InvalidateSize() { s.invalidated++ }

func (s *fakeSurface) click(name string) (weather.Summary, error) {
	m, ok := s.markers[name]
	if !ok {
		panic(fmt.Sprintf("no marker %q", name))
	}
	return m.OnClick()
}

type fakeInstance struct {
	canvas    *fakeCanvas
	spec      ChartSpec
	destroyed bool
}

func (i *fakeInstance) Destroy() {
	if !i.destroyed {
		i.destroyed = true
		i.canvas.live--
	}
}

type fakeCanvas struct {
	live  int
	drawn []*fakeInstance
	err   error
}

func (c *fakeCanvas) Draw(spec ChartSpec) (ChartInstance, error) {
	if c.err != nil {
		return nil, c.err
	}
	inst := &fakeInstance{canvas: c, spec: spec}
	c.live++
	c.drawn = append(c.drawn, inst)
	return inst, nil
}

type stubLoader struct {
	ds  *weather.Dataset
	err error
}

func (l stubLoader) Load(context.Context) (*weather.Dataset, error) {
	return l.ds, l.err
}

func sampleDataset() *weather.Dataset {
	return &weather.Dataset{
		GeneratedAt: weather.Timestamp{},
		Profile:     "cold front arriving",
		Locations: []weather.Location{
			{
				Name: "Taipei", City: "Taipei", Lat: 25.033, Lon: 121.5654, AvgTemp: 31, ForecastCount: 2,
				Forecasts: []weather.ForecastDay{
					{Date: "2025-12-03", MaxTemp: weather.Temp(32), MinTemp: weather.Temp(24)},
					{Date: "2025-12-04", MaxTemp: nil, MinTemp: weather.Temp(23)},
				},
			},
			{
				Name: "Hualien", City: "Hualien", Lat: 23.9871, Lon: 121.6015, AvgTemp: 14, ForecastCount: 3,
				Forecasts: []weather.ForecastDay{
					{Date: "2025-12-03", MaxTemp: weather.Temp(15), MinTemp: nil},
					{Date: "2025-12-04", MaxTemp: weather.Temp(14), MinTemp: weather.Temp(9)},
					{Date: "2025-12-05", MaxTemp: weather.Temp(13), MinTemp: weather.Temp(8)},
				},
			},
		},
	}
}
