package weather

import (
	"encoding/json"
	"fmt"
	"time"
)

// SourceZone is the zone naive timestamps are read in. The exporters that
// produce weather_data.json run in Taiwan and may omit the offset.
var SourceZone = time.FixedZone("CST", 8*60*60)

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
}

// Timestamp is an ISO-8601 instant that tolerates a missing zone offset.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = ts
		return nil
	}
	for _, layout := range naiveLayouts {
		if ts, err := time.ParseInLocation(layout, s, SourceZone); err == nil {
			t.Time = ts
			return nil
		}
	}
	return fmt.Errorf("invalid ISO-8601 timestamp %q", s)
}
