package readings

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sumwatshade/floodwatch/cmd/floodapi"
)

// Model owns the readings state machine and the single chart resource.
type Model struct {
	state    State
	chart    Chart
	renderer Renderer
	service  floodapi.Service
	limit    int
	log      zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc // cancels the in-flight fetch

	spinner spinner.Model
	width   int
	height  int
}

// Option configures a Model.
type Option func(*Model)

// WithRenderer replaces the ntcharts renderer.
func WithRenderer(r Renderer) Option { return func(m *Model) { m.renderer = r } }

// WithLimit sets how many readings are requested per fetch.
func WithLimit(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.limit = n
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option { return func(m *Model) { m.log = l } }

// WithContext sets the parent context of every fetch.
func WithContext(ctx context.Context) Option { return func(m *Model) { m.ctx = ctx } }

func New(svc floodapi.Service, opts ...Option) *Model {
	m := &Model{
		renderer: LineChartRenderer{},
		service:  svc,
		limit:    floodapi.DefaultReadingsLimit,
		log:      zerolog.Nop(),
		ctx:      context.Background(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		width:    60,
		height:   14,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns a copy of the current state.
func (m *Model) State() State { return m.state }

// Chart returns the live chart or nil.
func (m *Model) Chart() Chart { return m.chart }

// Select is shorthand for dispatching Selected.
func (m *Model) Select(reference string) tea.Cmd { return m.Dispatch(Selected{Reference: reference}) }

// Clear is shorthand for dispatching Cleared.
func (m *Model) Clear() tea.Cmd { return m.Dispatch(Cleared{}) }

// Reload re-issues the fetch for the current station, if any.
func (m *Model) Reload() tea.Cmd {
	if m.state.Station == "" {
		return nil
	}
	return m.Dispatch(Selected{Reference: m.state.Station})
}

// Dispatch runs one transition and applies its effects.
func (m *Model) Dispatch(ev Event) tea.Cmd {
	prev := m.state
	next, eff := Next(m.state, ev)
	m.state = next

	if eff.Stale {
		m.logStale(ev)
		return nil
	}
	if eff.Cancel && m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if eff.Release {
		m.release()
	}

	var cmds []tea.Cmd
	if eff.Fetch != nil {
		cmds = append(cmds, m.fetchCmd(*eff.Fetch))
		if prev.Phase != Loading {
			cmds = append(cmds, m.spinner.Tick)
		}
	}
	if eff.Render {
		m.cancel = nil
		m.chart = m.renderer.NewChart(m.state.Series, m.width, m.height)
		m.log.Info().
			Str("station", m.state.Station).
			Uint64("token", m.state.Token).
			Int("points", m.state.Series.Len()).
			Msg("chart rendered")
	}
	if next.Phase == Failed && prev.Phase == Loading {
		m.cancel = nil
		m.log.Error().
			Err(m.state.Err).
			Str("station", m.state.Station).
			Uint64("token", m.state.Token).
			Msg("fetching readings")
	}
	return tea.Batch(cmds...)
}

// Update handles fetch results and spinner ticks; other messages are ignored.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case Fetched:
		return m.Dispatch(msg)
	case FetchFailed:
		return m.Dispatch(msg)
	case spinner.TickMsg:
		if m.state.Phase != Loading {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd
	}
	return nil
}

// SetSize changes the chart area. A live chart is torn down and recreated
// at the new size.
func (m *Model) SetSize(width, height int) {
	if width <= 0 || height <= 0 || (width == m.width && height == m.height) {
		return
	}
	m.width, m.height = width, height
	if m.state.Phase == Rendered {
		m.release()
		m.chart = m.renderer.NewChart(m.state.Series, m.width, m.height)
	}
}

// Close releases the chart and cancels any in-flight fetch.
func (m *Model) Close() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.release()
}

func (m *Model) release() {
	if m.chart == nil {
		return
	}
	m.chart.Destroy()
	m.chart = nil
}

func (m *Model) fetchCmd(req FetchRequest) tea.Cmd {
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	svc, limit := m.service, m.limit
	log := m.log.With().
		Str("request_id", uuid.NewString()).
		Str("station", req.Reference).
		Uint64("token", req.Token).
		Logger()
	log.Debug().Int("limit", limit).Msg("fetching readings")

	return func() tea.Msg {
		defer cancel()
		readings, err := svc.GetReadings(ctx, req.Reference, limit)
		if err != nil {
			return FetchFailed{Token: req.Token, Station: req.Reference, Err: err}
		}
		log.Debug().Int("count", len(readings)).Msg("readings received")
		return Fetched{Token: req.Token, Station: req.Reference, Readings: readings}
	}
}

func (m *Model) logStale(ev Event) {
	e := m.log.Debug().Uint64("latest_token", m.state.Token)
	switch ev := ev.(type) {
	case Fetched:
		e.Uint64("token", ev.Token).Str("station", ev.Station).Msg("discarding stale readings")
	case FetchFailed:
		if errors.Is(ev.Err, context.Canceled) {
			e.Uint64("token", ev.Token).Str("station", ev.Station).Msg("superseded fetch canceled")
			return
		}
		e.Uint64("token", ev.Token).Str("station", ev.Station).Err(ev.Err).Msg("discarding stale failure")
	default:
		e.Discard().Msg("")
	}
}
