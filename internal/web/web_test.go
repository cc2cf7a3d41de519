package web

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/i474232898/weather-map/internal/dashboard"
	"github.com/i474232898/weather-map/internal/weather"
)

func TestPageTransitions(t *testing.T) {
	p := NewPage()
	if s := p.Snapshot(); !s.Loading || s.Content {
		t.Fatalf("new page should be loading: %+v", s)
	}

	p.ShowError("status 404")
	s := p.Snapshot()
	if s.Loading || s.Content || !s.Error || s.ErrorMessage != "status 404" {
		t.Fatalf("unexpected error snapshot %+v", s)
	}

	p.ShowContent()
	p.ShowPanel(weather.Summary{Name: "Taipei"})
	p.ShowPanel(weather.Summary{Name: "Hualien"})
	s = p.Snapshot()
	if !s.Content || s.Error || !s.PanelVisible || s.Panel.Name != "Hualien" || s.ScrollToken != 2 {
		t.Fatalf("unexpected content snapshot %+v", s)
	}

	s.Panel.Name = "mutated"
	if p.Snapshot().Panel.Name != "Hualien" {
		t.Fatal("snapshot shares the panel with the page")
	}
}

func TestPageProfileAndDailyRows(t *testing.T) {
	p := NewPage()
	p.SetProfile("Cold air mass moving south.")
	p.ShowContent()
	p.ShowPanel(weather.Summarize(&weather.Location{
		Name: "北部地區", City: "Taipei",
		Forecasts: []weather.ForecastDay{
			{Date: "2025-12-03", Weather: "多雲", MaxTemp: weather.Temp(22), MinTemp: weather.Temp(15), FetchTime: "2025-12-03 09:00:00"},
			{Date: "2025-12-04", Weather: "晴", MaxTemp: nil, MinTemp: weather.Temp(16)},
		},
	}))

	s := p.Snapshot()
	if s.Profile != "Cold air mass moving south." {
		t.Fatalf("profile = %q", s.Profile)
	}
	s.Panel.Forecasts[0].Weather = "mutated"
	if p.Snapshot().Panel.Forecasts[0].Weather != "多雲" {
		t.Fatal("snapshot shares daily rows with the page")
	}

	var buf bytes.Buffer
	if err := RenderDashboard(&buf, DefaultTitle, p.Snapshot(), MapState{}); err != nil {
		t.Fatal(err)
	}
	html := buf.String()
	for _, want := range []string{
		`<p id="profile">Cold air mass moving south.</p>`,
		`<td>2025-12-03</td><td>多雲</td><td>22°C</td><td>15°C</td><td>2025-12-03 09:00:00</td>`,
		`<td>2025-12-04</td><td>晴</td><td>N/A</td><td>16°C</td><td></td>`,
		`id="avgMax">22°C<`,
		`id="avgMin">15.5°C<`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("dashboard page missing %q", want)
		}
	}
}

func TestLeafletSurfaceClick(t *testing.T) {
	s := NewLeafletSurface()
	clicks := 0
	s.AddMarker(dashboard.Marker{Name: "a", OnClick: func() (weather.Summary, error) {
		clicks++
		return weather.Summary{Name: "a", HighestMax: 30}, nil
	}})
	s.AddMarker(dashboard.Marker{Name: "b"})

	got, err := s.Click("a")
	if err != nil {
		t.Fatal(err)
	}
	if clicks != 1 {
		t.Fatalf("expected one click, got %d", clicks)
	}
	if got.Name != "a" || got.HighestMax != 30 {
		t.Fatalf("click returned %+v", got)
	}
	if _, err := s.Click("b"); !errors.Is(err, dashboard.ErrNoSelectHandler) {
		t.Fatalf("expected ErrNoSelectHandler, got %v", err)
	}
	if _, err := s.Click("zzz"); !errors.Is(err, ErrUnknownMarker) {
		t.Fatalf("expected ErrUnknownMarker, got %v", err)
	}

	s.RemoveMarker("a")
	st := s.State()
	if len(st.Markers) != 1 || st.Markers[0].Name != "b" {
		t.Fatalf("unexpected markers %+v", st.Markers)
	}

	s.InvalidateSize()
	if s.State().SizeEpoch != 1 {
		t.Fatal("size epoch not bumped")
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2025, 12, 3, 6, 5, 9, 0, time.UTC) // 14:05:09 in Taipei

	cases := map[string]string{
		"zh-TW":   "2025/12/3 下午2:05:09",
		"zh-Hant": "2025/12/3 下午2:05:09",
		"":        "2025/12/3 下午2:05:09",
		"en-US":   "12/3/2025, 2:05:09 PM",
		"ja":      "2025/12/3 15:05:09",
	}
	for locale, want := range cases {
		if got := FormatTimestamp(ts, locale); got != want {
			t.Errorf("FormatTimestamp(%q) = %q, want %q", locale, got, want)
		}
	}

	morning := time.Date(2025, 12, 3, 0, 30, 0, 0, time.UTC)
	if got := FormatTimestamp(morning, "zh-TW"); got != "2025/12/3 上午8:30:00" {
		t.Errorf("morning = %q", got)
	}
}

func TestRenderDashboardStates(t *testing.T) {
	p := NewPage()
	p.ShowError("failed to load weather data")

	var buf bytes.Buffer
	if err := RenderDashboard(&buf, DefaultTitle, p.Snapshot(), NewLeafletSurface().State()); err != nil {
		t.Fatal(err)
	}
	html := buf.String()
	if !strings.Contains(html, `id="content" class="hidden"`) {
		t.Fatal("content region should be hidden on error")
	}
	if !strings.Contains(html, "failed to load weather data") {
		t.Fatal("error message missing")
	}
}

func TestRenderStandaloneEmbedsCharts(t *testing.T) {
	ds := &weather.Dataset{Profile: "Dry northeast monsoon.", Locations: []weather.Location{{
		Name: "北部地區", City: "Taipei", Lat: 25, Lon: 121.5, AvgTemp: 22,
		Forecasts: []weather.ForecastDay{{Date: "2025-12-03", MaxTemp: weather.Temp(22)}},
	}}}

	calls := 0
	render := func(dashboard.ChartSpec) ([]byte, error) {
		calls++
		return []byte{0x89, 'P', 'N', 'G'}, nil
	}

	var buf bytes.Buffer
	err := RenderStandalone(&buf, DefaultTitle, ds, dashboard.LatLng{Lat: 23.5, Lng: 121}, 8, "now", render)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("expected one chart render, got %d", calls)
	}
	html := buf.String()
	for _, want := range []string{"data:image/png;base64,", `"summary":`, "北部地區", `"avgMax":22`, `"forecasts":[`, "Dry northeast monsoon."} {
		if !strings.Contains(html, want) {
			t.Errorf("standalone page missing %q", want)
		}
	}
}
