package stations

import (
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sumwatshade/floodwatch/cmd/floodapi"
)

var (
	itemTitleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("111")).Bold(true)
	itemDescStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	selectedTitleStyle = itemTitleStyle.Foreground(lipgloss.Color("51"))
	selectedDescStyle  = itemDescStyle.Foreground(lipgloss.Color("245"))
	activeMarkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
)

// NoStationLabel is the title of the empty selection entry.
const NoStationLabel = "No station"

type stationItem struct {
	floodapi.Station
	none bool // the "no selection" entry
}

func (i stationItem) reference() string {
	if i.none {
		return ""
	}
	return i.Reference
}

func (i stationItem) Title() string {
	if i.none {
		return NoStationLabel
	}
	if strings.TrimSpace(i.CatchmentName) != "" {
		return i.CatchmentName
	}
	return i.Label
}

func (i stationItem) Description() string {
	if i.none {
		return "show the station table"
	}
	if i.Label == "" {
		return i.Reference
	}
	return i.Label + " · " + i.Reference
}

func (i stationItem) FilterValue() string {
	if i.none {
		return strings.ToLower(NoStationLabel)
	}
	return strings.ToLower(strings.Join([]string{i.CatchmentName, i.Label, i.Reference}, " "))
}

func listItems(stations []floodapi.Station) []list.Item {
	items := make([]list.Item, 0, len(stations)+1)
	items = append(items, stationItem{none: true})
	for _, s := range stations {
		items = append(items, stationItem{Station: s})
	}
	return items
}

type itemDelegate struct {
	dir *Directory
}

func (d itemDelegate) Height() int                               { return 2 }
func (d itemDelegate) Spacing() int                              { return 1 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	it, ok := listItem.(stationItem)
	if !ok {
		io.WriteString(w, "?")
		return
	}
	title := itemTitleStyle.Render(it.Title())
	desc := itemDescStyle.Render(it.Description())
	if index == m.Index() {
		title = selectedTitleStyle.Render(it.Title())
		desc = selectedDescStyle.Render(it.Description())
	}
	if f := strings.TrimSpace(m.FilterValue()); f != "" {
		plain := it.Title()
		if start, end, ok := matchSpan(plain, f); ok {
			title = plain[:start] + filterMatchStyle.Render(plain[start:end]) + plain[end:]
		}
	}
	mark := "  "
	if d.dir != nil && !it.none && it.Reference == d.dir.selected {
		mark = activeMarkStyle.Render("● ")
	}
	io.WriteString(w, lipgloss.JoinVertical(lipgloss.Left, mark+title, "  "+desc))
}

// matchSpan locates filter in s ignoring case and returns its byte range in s.
// Text whose lowercase form changes byte length (e.g. "İ") is not matched,
// since offsets into the folded copy would not line up with s.
func matchSpan(s, filter string) (start, end int, ok bool) {
	ls, lf := strings.ToLower(s), strings.ToLower(filter)
	if len(ls) != len(s) || len(lf) != len(filter) || lf == "" {
		return 0, 0, false
	}
	pos := strings.Index(ls, lf)
	if pos < 0 {
		return 0, 0, false
	}
	return pos, pos + len(lf), true
}
