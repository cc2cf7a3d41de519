package weather

// Color is a CSS hex colour used for map markers.
type Color string

const (
	ColorRed    Color = "#dc2626"
	ColorOrange Color = "#ea580c"
	ColorAmber  Color = "#f59e0b"
	ColorBlue   Color = "#3b82f6"
	ColorSky    Color = "#0ea5e9"
)

// temperatureBands is ordered warmest first; the first band whose lower bound
// is <= t wins.
var temperatureBands = []struct {
	min   float64
	color Color
}{
	{30, ColorRed},
	{25, ColorOrange},
	{20, ColorAmber},
	{15, ColorBlue},
}

// ColorFor maps a temperature in °C to one of five marker colours.
func ColorFor(t float64) Color {
	for _, b := range temperatureBands {
		if t >= b.min {
			return b.color
		}
	}
	return ColorSky
}

// Palette lists every colour ColorFor can return, warmest first.
func Palette() []Color {
	return []Color{ColorRed, ColorOrange, ColorAmber, ColorBlue, ColorSky}
}
