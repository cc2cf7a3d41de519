package weather

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDatasetLookupReturnsStoredRecord(t *testing.T) {
	d := &Dataset{Locations: []Location{{Name: "a"}, {Name: "Taipei", City: "Taipei"}}}

	loc, ok := d.Lookup("Taipei")
	if !ok {
		t.Fatal("expected Taipei to be found")
	}
	if loc != &d.Locations[1] {
		t.Fatal("Lookup returned a copy instead of the stored record")
	}

	if _, ok := d.Lookup("missing"); ok {
		t.Fatal("unexpected hit for unknown name")
	}
}

func TestDatasetValidateDuplicateNames(t *testing.T) {
	d := &Dataset{
		GeneratedAt: Timestamp{time.Now()},
		Locations:   []Location{{Name: "x"}, {Name: "x"}},
	}
	if err := d.Validate(); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate name error, got %v", err)
	}

	d.Locations = d.Locations[:1]
	if err := d.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestForecastDayNullTemperatures(t *testing.T) {
	var f ForecastDay
	if err := json.Unmarshal([]byte(`{"date":"2025-12-03","max_temp":null,"min_temp":17.5}`), &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if f.MaxTemp != nil {
		t.Fatalf("expected missing max temp, got %v", *f.MaxTemp)
	}
	if f.MinTemp == nil || *f.MinTemp != 17.5 {
		t.Fatalf("unexpected min temp %v", f.MinTemp)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	var err error = &FetchError{URL: "weather_data.json", StatusCode: 404}
	if !errors.Is(err, ErrFetch) || errors.Is(err, ErrParse) {
		t.Fatalf("FetchError classification wrong: %v", err)
	}

	err = &ParseError{Err: errors.New("bad")}
	if !errors.Is(err, ErrParse) || errors.Is(err, ErrFetch) {
		t.Fatalf("ParseError classification wrong: %v", err)
	}
}

func TestTimestampAcceptsNaiveAndZoned(t *testing.T) {
	var naive, zoned Timestamp
	if err := json.Unmarshal([]byte(`"2025-12-03T18:15:00.123456"`), &naive); err != nil {
		t.Fatalf("naive: %v", err)
	}
	if err := json.Unmarshal([]byte(`"2025-12-03T10:15:00.123456Z"`), &zoned); err != nil {
		t.Fatalf("zoned: %v", err)
	}
	if !naive.Equal(zoned.Time) {
		t.Fatalf("naive timestamp not read in source zone: %v vs %v", naive.Time, zoned.Time)
	}

	var bad Timestamp
	if err := json.Unmarshal([]byte(`"yesterday"`), &bad); err == nil {
		t.Fatal("expected error for invalid timestamp")
	}
}
