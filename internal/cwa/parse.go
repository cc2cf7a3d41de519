package cwa

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/i474232898/weather-map/internal/weather"
)

// ErrNoForecasts is returned when the payload lacks agrWeatherForecasts.
var ErrNoForecasts = errors.New("payload has no agricultural forecasts")

type payload struct {
	OpenData struct {
		Resources struct {
			// Resource is either a single object or a list of them.
			Resource json.RawMessage `json:"resource"`
		} `json:"resources"`
	} `json:"cwaopendata"`
}

type resource struct {
	Data struct {
		Forecasts *agrForecasts `json:"agrWeatherForecasts"`
	} `json:"data"`
}

type agrForecasts struct {
	Profile          string `json:"weatherProfile"`
	WeatherForecasts struct {
		Location []location `json:"location"`
	} `json:"weatherForecasts"`
}

type location struct {
	Name     string `json:"locationName"`
	Elements struct {
		Wx   element `json:"Wx"`
		MaxT element `json:"MaxT"`
		MinT element `json:"MinT"`
	} `json:"weatherElements"`
}

type element struct {
	Daily []daily `json:"daily"`
}

type daily struct {
	Date        string      `json:"dataDate"`
	Weather     string      `json:"weather"`
	Temperature temperature `json:"temperature"`
}

// temperature accepts numbers, numeric strings, empty strings and null.
type temperature struct {
	value *float64
}

func (t *temperature) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		t.value = nil
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	if s == "" || s == "-" {
		t.value = nil
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid temperature %s: %w", b, err)
	}
	t.value = &v
	return nil
}

// Parse extracts the weather profile and one record per daily Wx entry.
// Temperatures are matched to the Wx entry by date.
func Parse(body []byte) (weather.Batch, error) {
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return weather.Batch{}, &weather.ParseError{Err: err}
	}

	res, err := firstResource(p.OpenData.Resources.Resource)
	if err != nil {
		return weather.Batch{}, &weather.ParseError{Err: err}
	}
	agr := res.Data.Forecasts
	if agr == nil {
		return weather.Batch{}, &weather.ParseError{Err: ErrNoForecasts}
	}

	batch := weather.Batch{Profile: agr.Profile}
	for _, loc := range agr.WeatherForecasts.Location {
		name := loc.Name
		if name == "" {
			name = "Unknown"
		}

		maxByDate := byDate(loc.Elements.MaxT.Daily)
		minByDate := byDate(loc.Elements.MinT.Daily)

		for _, wx := range loc.Elements.Wx.Daily {
			batch.Records = append(batch.Records, weather.Record{
				Location: name,
				Date:     wx.Date,
				Weather:  wx.Weather,
				MaxTemp:  maxByDate[wx.Date],
				MinTemp:  minByDate[wx.Date],
			})
		}
	}
	return batch, nil
}

func firstResource(raw json.RawMessage) (resource, error) {
	var res resource

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return res, ErrNoForecasts
	}

	if raw[0] == '[' {
		var list []resource
		if err := json.Unmarshal(raw, &list); err != nil {
			return res, err
		}
		if len(list) == 0 {
			return res, ErrNoForecasts
		}
		return list[0], nil
	}

	err := json.Unmarshal(raw, &res)
	return res, err
}

// byDate keeps the first temperature reported for each date.
func byDate(entries []daily) map[string]*float64 {
	out := make(map[string]*float64, len(entries))
	for _, e := range entries {
		if _, seen := out[e.Date]; seen {
			continue
		}
		out[e.Date] = e.Temperature.value
	}
	return out
}
