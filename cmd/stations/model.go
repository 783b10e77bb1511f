package stations

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/sumwatshade/floodwatch/cmd/floodapi"
)

// Directory holds the station list fetched at startup together with the
// selection list and the metadata table built from it.
type Directory struct {
	stations []floodapi.Station
	err      error
	loaded   bool
	selected string

	list   list.Model
	table  table.Model
	ready  bool
	width  int
	height int

	log zerolog.Logger
}

var (
	statusBarStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 1)
	filterMatchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("219")).Bold(true)
	listTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	faintStyle       = lipgloss.NewStyle().Faint(true)
	errStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// NewDirectory returns an empty directory; feed it the result of LoadCmd.
func NewDirectory(log zerolog.Logger) *Directory {
	return &Directory{log: log}
}

// Stations returns the loaded stations in server order.
func (d *Directory) Stations() []floodapi.Station { return d.stations }

// Err returns the load error, if the load failed.
func (d *Directory) Err() error { return d.err }

// Loaded reports whether the load has completed, successfully or not.
func (d *Directory) Loaded() bool { return d.loaded }

// Selected returns the reference of the active selection ("" for none).
func (d *Directory) Selected() string { return d.selected }

// Lookup finds a station by reference.
func (d *Directory) Lookup(reference string) (floodapi.Station, bool) {
	for _, s := range d.stations {
		if s.Reference == reference {
			return s, true
		}
	}
	return floodapi.Station{}, false
}

// setStations publishes a load result.
func (d *Directory) setStations(stations []floodapi.Station, err error) {
	d.loaded = true
	d.err = err
	if err != nil {
		return
	}
	d.stations = stations
	if d.ready {
		d.list.SetItems(listItems(stations))
		d.table.SetRows(Rows(stations))
	}
}

// ensureViews creates or resizes the list and table for the given pane size.
func (d *Directory) ensureViews(width, height int) {
	if width == 0 || height == 0 {
		return
	}
	d.width = width
	d.height = height
	listHeight := max(5, height-2)
	if !d.ready {
		l := list.New(listItems(d.stations), itemDelegate{dir: d}, width, listHeight)
		l.Title = "Stations"
		l.SetShowStatusBar(true)
		l.SetShowPagination(true)
		l.SetFilteringEnabled(true)
		l.SetShowHelp(false)
		l.Styles.Title = listTitleStyle
		l.Styles.StatusBar = statusBarStyle
		l.Styles.PaginationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		d.list = l

		d.table = newTable(d.stations)
		d.ready = true
	} else {
		d.list.SetSize(width, listHeight)
	}
}
