package readings

import "github.com/sumwatshade/floodwatch/cmd/floodapi"

// Phase is the lifecycle position of the readings view.
type Phase int

const (
	// Idle: no station selected, no chart, station table visible.
	Idle Phase = iota
	// Loading: a readings fetch is in flight.
	Loading
	// Rendered: exactly one chart is live.
	Rendered
	// Failed: the latest fetch failed; the error is shown instead of a chart.
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Rendered:
		return "rendered"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is the complete, copyable state of the view. Token is the latest
// request token issued; responses carrying any other token are stale.
type State struct {
	Phase   Phase
	Station string
	Token   uint64
	Series  Series
	Err     error
}

// Event drives a transition. Fetched and FetchFailed double as tea messages
// produced by the fetch command.
type Event interface{ event() }

// Selected is a user selection; an empty Reference means "no station".
type Selected struct{ Reference string }

// Cleared deselects the current station.
type Cleared struct{}

// Fetched reports a successful readings fetch.
type Fetched struct {
	Token    uint64
	Station  string
	Readings []floodapi.Reading
}

// FetchFailed reports a failed readings fetch.
type FetchFailed struct {
	Token   uint64
	Station string
	Err     error
}

func (Selected) event()    {}
func (Cleared) event()     {}
func (Fetched) event()     {}
func (FetchFailed) event() {}

// FetchRequest asks for the readings of Reference tagged with Token.
type FetchRequest struct {
	Reference string
	Token     uint64
}

// Effect lists the side effects a transition requires, in the order they
// must be applied: Cancel, Release, Fetch, Render.
type Effect struct {
	// Cancel aborts the in-flight fetch, if any.
	Cancel bool
	// Release destroys the live chart, if any.
	Release bool
	// Fetch starts a new readings fetch.
	Fetch *FetchRequest
	// Render creates a chart from the new state's Series.
	Render bool
	// Stale marks a response that was discarded because its token is not the latest.
	Stale bool
}

// Next is the transition function of the readings view. It has no side
// effects; the caller applies the returned Effect.
func Next(s State, ev Event) (State, Effect) {
	switch ev := ev.(type) {
	case Selected:
		if ev.Reference == "" {
			return Next(s, Cleared{})
		}
		next := State{Phase: Loading, Station: ev.Reference, Token: s.Token + 1}
		return next, Effect{
			Cancel:  true,
			Release: true,
			Fetch:   &FetchRequest{Reference: ev.Reference, Token: next.Token},
		}

	case Cleared:
		return State{Phase: Idle, Token: s.Token + 1}, Effect{Cancel: true, Release: true}

	case Fetched:
		if ev.Token != s.Token || s.Phase != Loading {
			return s, Effect{Stale: true}
		}
		s.Phase = Rendered
		s.Series = Transform(ev.Readings)
		s.Err = nil
		return s, Effect{Release: true, Render: true}

	case FetchFailed:
		if ev.Token != s.Token || s.Phase != Loading {
			return s, Effect{Stale: true}
		}
		s.Phase = Failed
		s.Err = ev.Err
		return s, Effect{}
	}
	return s, Effect{}
}
