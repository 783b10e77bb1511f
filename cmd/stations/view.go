package stations

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/sumwatshade/floodwatch/cmd/floodapi"
)

// DisplayDateLayout is how dateOpened appears in the table.
const DisplayDateLayout = "02-01-2006"

// Headers are the metadata table column titles, in order.
var Headers = []string{"No", "Catchment Name", "Date Opened", "Label", "Latitude", "Longitude"}

var columnWidths = []int{4, 22, 12, 26, 10, 10}

// FormatDateOpened renders a date as DD-MM-YYYY, or "" when absent.
func FormatDateOpened(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format(DisplayDateLayout)
}

// Row returns the table cells for the station at zero-based index i.
func Row(i int, s floodapi.Station) []string {
	return []string{
		strconv.Itoa(i + 1),
		s.CatchmentName,
		FormatDateOpened(s.DateOpened),
		s.Label,
		strconv.FormatFloat(s.Latitude, 'f', -1, 64),
		strconv.FormatFloat(s.Longitude, 'f', -1, 64),
	}
}

// Rows returns one row per station, numbered from 1 in server order.
func Rows(stations []floodapi.Station) []table.Row {
	rows := make([]table.Row, len(stations))
	for i, s := range stations {
		rows[i] = Row(i, s)
	}
	return rows
}

func newTable(stations []floodapi.Station) table.Model {
	cols := make([]table.Column, len(Headers))
	for i, h := range Headers {
		cols[i] = table.Column{Title: h, Width: columnWidths[i]}
	}
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(Rows(stations)),
		table.WithFocused(true),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	st.Selected = st.Selected.Foreground(lipgloss.Color("51")).Bold(false)
	t.SetStyles(st)
	return t
}

// View renders the selection list, or the load state before it is ready.
func (d *Directory) View() string {
	if !d.ready {
		return listTitleStyle.Render("Stations") + "\n" + faintStyle.Render("Loading...")
	}
	if d.err != nil {
		return listTitleStyle.Render("Stations") + "\n" + errStyle.Render("stations unavailable: "+d.err.Error())
	}
	if !d.loaded {
		return listTitleStyle.Render("Stations") + "\n" + faintStyle.Render("Loading stations...")
	}
	return d.list.View()
}

// TableView renders the metadata table sized to width x height.
func (d *Directory) TableView(width, height int) string {
	title := listTitleStyle.Render("Station Details")
	if !d.ready || !d.loaded {
		return title + "\n" + faintStyle.Render("Loading...")
	}
	if len(d.stations) == 0 {
		return title + "\n" + faintStyle.Render("No stations available.")
	}
	if width > 0 {
		d.table.SetWidth(width)
	}
	if height > 3 {
		d.table.SetHeight(height - 2)
	}
	return title + "\n" + d.table.View()
}
