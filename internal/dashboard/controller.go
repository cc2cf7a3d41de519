package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/i474232898/weather-map/internal/loader"
	"github.com/i474232898/weather-map/internal/logging"
	"github.com/i474232898/weather-map/internal/weather"
)

// State is the controller lifecycle.
type State int

const (
	StateLoading State = iota
	StateReady
	StateSelected
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSelected:
		return "selected"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	// ErrNotReady is returned when a selection arrives before the data loaded.
	ErrNotReady = errors.New("dashboard is not ready")
	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("dashboard already started")
)

// Options configure an App.
type Options struct {
	Center LatLng
	Zoom   int
	// FormatTime renders the dataset generation time for display.
	FormatTime func(time.Time) string
}

// App sequences load -> markers -> selection -> panel and chart.
type App struct {
	loader  loader.Loader
	view    ViewPort
	mapView *MapView
	panel   *SelectionPanel
	chart   *ChartView
	opts    Options

	mu       sync.Mutex
	started  bool
	state    State
	dataset  *weather.Dataset
	selected *weather.Location
}

// NewApp wires the components. The map view's selection callback is bound to
// the App.
func NewApp(l loader.Loader, view ViewPort, mapView *MapView, panel *SelectionPanel, chart *ChartView, opts Options) *App {
	if opts.FormatTime == nil {
		opts.FormatTime = func(t time.Time) string { return t.Format(time.RFC3339) }
	}
	a := &App{
		loader:  l,
		view:    view,
		mapView: mapView,
		panel:   panel,
		chart:   chart,
		opts:    opts,
		state:   StateLoading,
	}
	mapView.OnSelect(a.Select)
	return a
}

// Start loads the dataset once and renders the map. A load failure is
// terminal: the error is displayed and the content stays hidden.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return ErrAlreadyStarted
	}
	a.started = true
	a.state = StateLoading
	a.mu.Unlock()

	a.mapView.Initialize(a.opts.Center, a.opts.Zoom)
	a.view.ShowLoading()

	ds, err := a.loader.Load(ctx)
	if err != nil {
		logging.Errorf("error loading weather data: %v", err)
		a.mu.Lock()
		a.state = StateFailed
		a.mu.Unlock()
		a.view.ShowError(err.Error())
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.dataset = ds
	a.view.SetGeneratedAt(a.opts.FormatTime(ds.GeneratedAt.Time))
	a.view.SetProfile(ds.Profile)
	a.mapView.RenderMarkers(ds.Locations)
	a.view.ShowContent()
	a.mapView.OnVisible()
	a.state = StateReady

	logging.Infow("weather data loaded",
		"locations", len(ds.Locations),
		"generated_at", ds.GeneratedAt.Time)
	return nil
}

// Select replaces the current selection and redraws the panel and chart. It
// returns the summary the panel now shows.
func (a *App) Select(loc *weather.Location) (weather.Summary, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateReady && a.state != StateSelected {
		logging.Warnf("selection of %s ignored: %v", loc.Name, ErrNotReady)
		return weather.Summary{}, ErrNotReady
	}

	logging.Debugf("location clicked: %s", loc.Name)

	a.selected = loc
	a.state = StateSelected
	summary := a.panel.Show(loc)
	if err := a.chart.Render(loc); err != nil {
		logging.Errorf("chart render failed: %v", err)
	}
	return summary, nil
}

// State returns the current lifecycle state.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Selection returns the selected location, or nil.
func (a *App) Selection() *weather.Location {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.selected
}

// Dataset returns the loaded dataset, or nil before a successful load.
func (a *App) Dataset() *weather.Dataset {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dataset
}

// Close releases the live chart.
func (a *App) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.chart.Close()
}
