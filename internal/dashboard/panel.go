package dashboard

import "github.com/i474232898/weather-map/internal/weather"

// SelectionPanel shows summary statistics for the selected location.
type SelectionPanel struct {
	display PanelDisplay
}

func NewSelectionPanel(display PanelDisplay) *SelectionPanel {
	return &SelectionPanel{display: display}
}

// Show displays loc and returns what was displayed.
func (p *SelectionPanel) Show(loc *weather.Location) weather.Summary {
	s := weather.Summarize(loc)
	p.display.ShowPanel(s)
	return s
}
