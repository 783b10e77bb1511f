package stations

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sumwatshade/floodwatch/cmd/floodapi"
)

// loadedMsg carries the result of the one startup fetch.
type loadedMsg struct {
	stations []floodapi.Station
	err      error
}

// SelectedMsg is emitted when the user picks an entry; Reference is empty
// for the "no station" entry.
type SelectedMsg struct {
	Reference string
}

// LoadCmd fetches up to limit stations once.
func LoadCmd(ctx context.Context, svc floodapi.Service, limit int) tea.Cmd {
	return func() tea.Msg {
		stations, err := svc.ListStations(ctx, limit)
		return loadedMsg{stations: stations, err: err}
	}
}

var (
	selectKey = key.NewBinding(key.WithKeys("enter"))
	clearKey  = key.NewBinding(key.WithKeys("esc"))
	scrollKey = key.NewBinding(key.WithKeys("ctrl+d", "ctrl+u"))
)

func selectCmd(reference string) tea.Cmd {
	return func() tea.Msg { return SelectedMsg{Reference: reference} }
}

// Update handles the load result, selection keys, and list navigation.
func (d *Directory) Update(msg tea.Msg, width, height int) tea.Cmd {
	d.ensureViews(width, height)

	if m, ok := msg.(loadedMsg); ok {
		if m.err != nil {
			d.log.Error().Err(m.err).Msg("fetching stations")
		} else {
			d.log.Info().Int("count", len(m.stations)).Msg("stations loaded")
		}
		d.setStations(m.stations, m.err)
		return nil
	}
	if !d.ready {
		return nil
	}

	if km, ok := msg.(tea.KeyMsg); ok && d.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(km, selectKey):
			it, ok := d.list.SelectedItem().(stationItem)
			if !ok {
				return nil
			}
			return d.Select(it.reference())
		case key.Matches(km, clearKey):
			if d.list.FilterState() == list.FilterApplied {
				d.list.ResetFilter()
				return nil
			}
			return d.Select("")
		case key.Matches(km, scrollKey):
			var cmd tea.Cmd
			d.table, cmd = d.table.Update(msg)
			return cmd
		}
	}

	var cmd tea.Cmd
	d.list, cmd = d.list.Update(msg)
	return cmd
}

// Select marks reference as the active selection and emits SelectedMsg.
func (d *Directory) Select(reference string) tea.Cmd {
	d.selected = reference
	return selectCmd(reference)
}

// Filtering reports whether the list is capturing keystrokes for its filter.
func (d *Directory) Filtering() bool {
	return d.ready && d.list.FilterState() == list.Filtering
}
