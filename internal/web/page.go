package web

import (
	"sync"

	"github.com/i474232898/weather-map/internal/weather"
)

// PageSnapshot is the renderable state of the dashboard page.
type PageSnapshot struct {
	Loading      bool             `json:"loading"`
	Error        bool             `json:"error"`
	ErrorMessage string           `json:"errorMessage,omitempty"`
	Content      bool             `json:"content"`
	GeneratedAt  string           `json:"generatedAt,omitempty"`
	Profile      string           `json:"profile,omitempty"`
	PanelVisible bool             `json:"panelVisible"`
	Panel        *weather.Summary `json:"panel,omitempty"`
	// ScrollToken changes every time the panel must be scrolled into view.
	ScrollToken int `json:"scrollToken"`
}

// Page records what the dashboard shows. It implements dashboard.ViewPort
// and dashboard.PanelDisplay.
type Page struct {
	mu   sync.RWMutex
	snap PageSnapshot
}

func NewPage() *Page {
	return &Page{snap: PageSnapshot{Loading: true}}
}

func (p *Page) ShowLoading() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.Loading, p.snap.Error, p.snap.Content = true, false, false
}

func (p *Page) ShowError(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.Loading, p.snap.Content = false, false
	p.snap.Error, p.snap.ErrorMessage = true, msg
}

func (p *Page) ShowContent() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.Loading, p.snap.Error, p.snap.Content = false, false, true
}

func (p *Page) SetGeneratedAt(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.GeneratedAt = label
}

func (p *Page) SetProfile(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.Profile = text
}

func (p *Page) ShowPanel(s weather.Summary) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.PanelVisible = true
	p.snap.Panel = &s
	p.snap.ScrollToken++
}

// Snapshot returns a copy of the current page state.
func (p *Page) Snapshot() PageSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	s := p.snap
	if s.Panel != nil {
		panel := *s.Panel
		panel.Forecasts = append([]weather.ForecastDay(nil), panel.Forecasts...)
		s.Panel = &panel
	}
	return s
}
