package readings

import (
	"math"
	"time"

	"github.com/sumwatshade/floodwatch/cmd/floodapi"
)

// Series is the chart-ready projection of a readings response. Labels and
// Values are parallel and keep the server's order.
type Series struct {
	Labels []time.Time
	Values []float64
}

// Transform maps readings to a Series without resampling, gap filling or
// outlier handling. NaN values are carried through.
func Transform(readings []floodapi.Reading) Series {
	s := Series{
		Labels: make([]time.Time, len(readings)),
		Values: make([]float64, len(readings)),
	}
	for i, r := range readings {
		s.Labels[i] = r.Timestamp
		s.Values[i] = r.Value
	}
	return s
}

// Len returns the number of points.
func (s Series) Len() int { return len(s.Labels) }

// bounds returns the time and value extent of the non-NaN points; ok is
// false when there are none.
func (s Series) bounds() (minT, maxT time.Time, minV, maxV float64, ok bool) {
	for i, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		t := s.Labels[i]
		if !ok {
			minT, maxT, minV, maxV, ok = t, t, v, v, true
			continue
		}
		if t.Before(minT) {
			minT = t
		}
		if t.After(maxT) {
			maxT = t
		}
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	return minT, maxT, minV, maxV, ok
}
