package floodapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the wire layout of Station.dateOpened.
const DateLayout = "2006-01-02"

// Station is a monitoring point as listed by the stations endpoint.
type Station struct {
	Reference     string
	CatchmentName string
	Label         string
	DateOpened    *time.Time // nil when the API omits it
	Latitude      float64
	Longitude     float64

	// badDateOpened holds a dateOpened value that could not be parsed.
	badDateOpened string
}

// Reading is a single timestamped water-level measurement. Value is NaN when
// the API reports null.
type Reading struct {
	Timestamp time.Time
	Value     float64
}

type stationWire struct {
	StationReference string     `json:"stationReference"`
	CatchmentName    flexString `json:"catchmentName"`
	Label            flexString `json:"label"`
	DateOpened       flexDate   `json:"dateOpened"`
	Lat              flexFloat  `json:"lat"`
	Long             flexFloat  `json:"long"`
}

// UnmarshalJSON decodes the API representation of a station.
func (s *Station) UnmarshalJSON(b []byte) error {
	var w stationWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	st := Station{
		Reference:     w.StationReference,
		CatchmentName: string(w.CatchmentName),
		Label:         string(w.Label),
		Latitude:      float64(w.Lat),
		Longitude:     float64(w.Long),
	}
	if d := strings.TrimSpace(string(w.DateOpened)); d != "" {
		if t, ok := parseDateOpened(d); ok {
			st.DateOpened = &t
		} else {
			st.badDateOpened = d
		}
	}
	*s = st
	return nil
}

// parseDateOpened accepts a plain date or the date part of a timestamp such
// as "1994-01-01T00:00:00".
func parseDateOpened(d string) (time.Time, bool) {
	if t, err := time.Parse(DateLayout, d); err == nil {
		return t, true
	}
	if len(d) > len(DateLayout) && d[len(DateLayout)] == 'T' {
		if t, err := time.Parse(DateLayout, d[:len(DateLayout)]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type readingWire struct {
	DateTime string   `json:"dateTime"`
	Value    *float64 `json:"value"`
}

// UnmarshalJSON decodes the API representation of a reading.
func (r *Reading) UnmarshalJSON(b []byte) error {
	var w readingWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	ts, err := time.Parse(time.RFC3339, w.DateTime)
	if err != nil {
		return fmt.Errorf("reading dateTime: %w", err)
	}
	v := math.NaN()
	if w.Value != nil {
		v = *w.Value
	}
	*r = Reading{Timestamp: ts, Value: v}
	return nil
}

// flexString accepts either a JSON string or an array of strings (joined).
// A handful of stations publish several labels.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '[' {
		var parts []string
		if err := json.Unmarshal(b, &parts); err != nil {
			return err
		}
		*f = flexString(strings.Join(parts, ", "))
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*f = flexString(s)
	return nil
}

// flexDate accepts a JSON string or an array of strings (first wins).
type flexDate string

func (f *flexDate) UnmarshalJSON(b []byte) error {
	var s flexString
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var parts []string
		if err := json.Unmarshal(b, &parts); err != nil {
			return err
		}
		if len(parts) > 0 {
			*f = flexDate(parts[0])
		}
		return nil
	}
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	*f = flexDate(s)
	return nil
}

// flexFloat accepts a JSON number or an array of numbers (first wins).
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if len(b) > 0 && b[0] == '[' {
		var nums []float64
		if err := json.Unmarshal(b, &nums); err != nil {
			return err
		}
		if len(nums) > 0 {
			*f = flexFloat(nums[0])
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}
