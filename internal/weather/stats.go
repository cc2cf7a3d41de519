package weather

import "math"

// DefaultAverageTemp is used for locations without any max reading.
const DefaultAverageTemp = 20.0

// Summary is what the selection panel displays for a location.
type Summary struct {
	Name       string  `json:"name"`
	City       string  `json:"city"`
	AvgTemp    float64 `json:"avgTemp"`
	HighestMax float64 `json:"highestMax"`
	LowestMin  float64 `json:"lowestMin"`

	ForecastCount int `json:"forecastCount"`
	// AvgMax and AvgMin are nil when the location has no such reading.
	AvgMax *float64 `json:"avgMax"`
	AvgMin *float64 `json:"avgMin"`
	// Forecasts backs the daily table, in date order as loaded.
	Forecasts []ForecastDay `json:"forecasts"`
}

// Summarize computes panel statistics. Missing readings are skipped; with no
// readings at all the extreme defaults to 0.
func Summarize(loc *Location) Summary {
	s := Summary{
		Name:          loc.Name,
		City:          loc.City,
		AvgTemp:       loc.AvgTemp,
		ForecastCount: len(loc.Forecasts),
		AvgMax:        mean(loc.Forecasts, func(f ForecastDay) *float64 { return f.MaxTemp }),
		AvgMin:        mean(loc.Forecasts, func(f ForecastDay) *float64 { return f.MinTemp }),
		Forecasts:     append([]ForecastDay(nil), loc.Forecasts...),
	}

	var haveMax, haveMin bool
	for _, f := range loc.Forecasts {
		if f.MaxTemp != nil && (!haveMax || *f.MaxTemp > s.HighestMax) {
			s.HighestMax = *f.MaxTemp
			haveMax = true
		}
		if f.MinTemp != nil && (!haveMin || *f.MinTemp < s.LowestMin) {
			s.LowestMin = *f.MinTemp
			haveMin = true
		}
	}
	return s
}

// AverageMax is the mean of the present max readings rounded to one decimal,
// or DefaultAverageTemp when there are none.
func AverageMax(forecasts []ForecastDay) float64 {
	if avg := mean(forecasts, func(f ForecastDay) *float64 { return f.MaxTemp }); avg != nil {
		return *avg
	}
	return DefaultAverageTemp
}

// mean averages the present readings selected by pick, rounded to one decimal.
func mean(forecasts []ForecastDay, pick func(ForecastDay) *float64) *float64 {
	var (
		sum float64
		n   int
	)
	for _, f := range forecasts {
		v := pick(f)
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return nil
	}
	return Temp(math.Round(sum/float64(n)*10) / 10)
}
