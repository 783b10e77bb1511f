package readings

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumwatshade/floodwatch/cmd/floodapi"
)

// fakeService answers GetReadings from a map and honours cancellation.
type fakeService struct {
	mu       sync.Mutex
	readings map[string][]floodapi.Reading
	err      error
	calls    []string
}

func (f *fakeService) ListStations(ctx context.Context, limit int) ([]floodapi.Station, error) {
	return nil, nil
}

func (f *fakeService) GetReadings(ctx context.Context, reference string, limit int) ([]floodapi.Reading, error) {
	f.mu.Lock()
	f.calls = append(f.calls, reference)
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.readings[reference], nil
}

// countingRenderer tracks how many charts are alive.
type countingRenderer struct {
	created int
	live    int
}

type countingChart struct {
	r         *countingRenderer
	series    Series
	destroyed bool
}

func (r *countingRenderer) NewChart(s Series, width, height int) Chart {
	r.created++
	r.live++
	return &countingChart{r: r, series: s}
}

func (c *countingChart) View() string   { return "chart" }
func (c *countingChart) Series() Series { return c.series }
func (c *countingChart) Destroy() {
	if !c.destroyed {
		c.destroyed = true
		c.r.live--
	}
}

// collect runs cmd and any batched commands, returning their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// fetchResults returns only the fetch outcome messages produced by cmd.
func fetchResults(cmd tea.Cmd) []tea.Msg {
	var out []tea.Msg
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case Fetched, FetchFailed:
			out = append(out, msg)
		}
	}
	return out
}

func deliver(m *Model, cmd tea.Cmd) {
	for _, msg := range fetchResults(cmd) {
		m.Update(msg)
	}
}

func newTestModel(svc floodapi.Service) (*Model, *countingRenderer) {
	r := &countingRenderer{}
	return New(svc, WithRenderer(r)), r
}

func TestModel_SelectRendersOneChart(t *testing.T) {
	svc := &fakeService{readings: map[string][]floodapi.Reading{"S1": sampleReadings(1.2, 1.5)}}
	m, r := newTestModel(svc)

	cmd := m.Select("S1")
	assert.Equal(t, Loading, m.State().Phase)
	assert.Nil(t, m.Chart())

	deliver(m, cmd)

	assert.Equal(t, Rendered, m.State().Phase)
	require.NotNil(t, m.Chart())
	assert.Equal(t, []float64{1.2, 1.5}, m.Chart().Series().Values)
	assert.Equal(t, 1, r.live)
	assert.Equal(t, []string{"S1"}, svc.calls)
}

func TestModel_ClearReleasesChart(t *testing.T) {
	svc := &fakeService{readings: map[string][]floodapi.Reading{"S1": sampleReadings(1)}}
	m, r := newTestModel(svc)
	deliver(m, m.Select("S1"))
	require.Equal(t, 1, r.live)

	cmd := m.Clear()
	assert.Nil(t, fetchResults(cmd))
	assert.Equal(t, Idle, m.State().Phase)
	assert.Nil(t, m.Chart())
	assert.Equal(t, 0, r.live)
}

func TestModel_SelectSameStationTwice(t *testing.T) {
	svc := &fakeService{readings: map[string][]floodapi.Reading{"S1": sampleReadings(1, 2, 3)}}
	m, r := newTestModel(svc)

	deliver(m, m.Select("S1"))
	first := m.Chart().Series()
	deliver(m, m.Select("S1"))

	assert.Equal(t, 1, r.live)
	assert.Equal(t, 2, r.created)
	assert.Equal(t, first, m.Chart().Series())
	assert.Len(t, m.Chart().Series().Values, 3, "series is not doubled")
}

func TestModel_ReselectionKeepsOnlyLatest(t *testing.T) {
	svc := &fakeService{readings: map[string][]floodapi.Reading{
		"A": sampleReadings(9, 9),
		"B": sampleReadings(1, 2, 3),
	}}
	m, r := newTestModel(svc)

	deliver(m, m.Select("A"))
	deliver(m, m.Select("B"))

	assert.Equal(t, 1, r.live)
	assert.Equal(t, "B", m.State().Station)
	assert.Equal(t, []float64{1, 2, 3}, m.Chart().Series().Values)
}

func TestModel_OutOfOrderCompletion(t *testing.T) {
	svc := &fakeService{readings: map[string][]floodapi.Reading{
		"A": sampleReadings(9, 9),
		"B": sampleReadings(1, 2),
	}}
	m, r := newTestModel(svc)

	cmdA := m.Select("A")
	cmdB := m.Select("B")

	// B completes first, then A's fetch runs after it was superseded.
	deliver(m, cmdB)
	deliver(m, cmdA)

	assert.Equal(t, Rendered, m.State().Phase)
	assert.Equal(t, 1, r.live)
	assert.Equal(t, []float64{1, 2}, m.Chart().Series().Values)
}

func TestModel_StaleSuccessDoesNotOverwrite(t *testing.T) {
	m, r := newTestModel(&fakeService{})

	m.Select("A")
	tokenA := m.State().Token
	m.Select("B")
	m.Update(Fetched{Token: m.State().Token, Station: "B", Readings: sampleReadings(1)})
	m.Update(Fetched{Token: tokenA, Station: "A", Readings: sampleReadings(7, 7, 7)})

	assert.Equal(t, 1, r.live)
	assert.Equal(t, []float64{1}, m.Chart().Series().Values)
}

func TestModel_FailureKeepsNoChart(t *testing.T) {
	svc := &fakeService{err: &floodapi.NetworkError{URL: "x", StatusCode: 500}}
	m, r := newTestModel(svc)

	deliver(m, m.Select("S1"))

	st := m.State()
	assert.Equal(t, Failed, st.Phase)
	assert.ErrorIs(t, st.Err, floodapi.ErrNetwork)
	assert.Equal(t, 0, r.live)
	assert.Contains(t, m.View(), "readings error")
	assert.Equal(t, []string{"S1"}, svc.calls, "no automatic retry")
}

func TestModel_Reload(t *testing.T) {
	svc := &fakeService{readings: map[string][]floodapi.Reading{"S1": sampleReadings(1)}}
	m, r := newTestModel(svc)

	assert.Nil(t, m.Reload(), "nothing to reload while idle")

	deliver(m, m.Select("S1"))
	deliver(m, m.Reload())

	assert.Equal(t, []string{"S1", "S1"}, svc.calls)
	assert.Equal(t, 1, r.live)
}

func TestModel_SetSizeRecreatesChart(t *testing.T) {
	svc := &fakeService{readings: map[string][]floodapi.Reading{"S1": sampleReadings(1, 2)}}
	m, r := newTestModel(svc)
	deliver(m, m.Select("S1"))

	m.SetSize(100, 30)

	assert.Equal(t, 2, r.created)
	assert.Equal(t, 1, r.live)
}

func TestModel_CloseCancelsAndReleases(t *testing.T) {
	svc := &fakeService{readings: map[string][]floodapi.Reading{"S1": sampleReadings(1)}}
	m, r := newTestModel(svc)
	deliver(m, m.Select("S1"))

	cmd := m.Select("S1")
	m.Close()
	assert.Equal(t, 0, r.live)

	msgs := fetchResults(cmd)
	require.Len(t, msgs, 1)
	failed, ok := msgs[0].(FetchFailed)
	require.True(t, ok)
	assert.True(t, errors.Is(failed.Err, context.Canceled))
}

func TestModel_EndToEnd(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		w.Write([]byte(`{"items":[{"dateTime":"2024-01-01T00:00:00Z","value":1.2},{"dateTime":"2024-01-01T01:00:00Z","value":1.5}]}`))
	}))
	defer srv.Close()

	svc := floodapi.NewService(floodapi.WithBaseURL(srv.URL))
	m, r := newTestModel(svc)

	deliver(m, m.Select("S1"))

	assert.Equal(t, "/id/stations/S1/readings", gotPath)
	assert.Equal(t, "_sorted&_limit=100", gotQuery)
	require.NotNil(t, m.Chart())
	s := m.Chart().Series()
	assert.Equal(t, []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC),
	}, s.Labels)
	assert.Equal(t, []float64{1.2, 1.5}, s.Values)
	assert.Equal(t, 1, r.live)
}
