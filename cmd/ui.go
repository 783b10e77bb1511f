package cmd

import (
	"context"
	"strings"

	bhelp "github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/sumwatshade/floodwatch/cmd/floodapi"
	"github.com/sumwatshade/floodwatch/cmd/readings"
	"github.com/sumwatshade/floodwatch/cmd/stations"
)

type model struct {
	ctx       context.Context
	service   floodapi.Service
	settings  Settings
	directory *stations.Directory
	readings  *readings.Model
	log       zerolog.Logger
	width     int
	height    int
	// help / key bindings
	keys keyMap
	help bhelp.Model
}

func initialModel(ctx context.Context, svc floodapi.Service, settings Settings, log zerolog.Logger, opts ...readings.Option) model {
	ropts := append([]readings.Option{
		readings.WithContext(ctx),
		readings.WithLimit(settings.ReadingsLimit),
		readings.WithLogger(log),
	}, opts...)
	return model{
		ctx:       ctx,
		service:   svc,
		settings:  settings,
		directory: stations.NewDirectory(log),
		readings:  readings.New(svc, ropts...),
		log:       log,
		keys:      keys,
		help:      bhelp.New(),
	}
}

func (m model) Init() tea.Cmd {
	// the directory is fetched exactly once per program run
	return stations.LoadCmd(m.ctx, m.service, m.settings.StationLimit)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		w, h := chartSize(m.width, m.height)
		m.readings.SetSize(w, h)
	case tea.KeyMsg:
		if !m.directory.Filtering() {
			switch {
			case key.Matches(msg, m.keys.Quit):
				m.readings.Close()
				return m, tea.Quit
			case key.Matches(msg, m.keys.Help):
				m.help.ShowAll = !m.help.ShowAll
				return m, nil
			case key.Matches(msg, m.keys.Reload):
				return m, m.readings.Reload()
			}
		}
	case stations.SelectedMsg:
		m.log.Debug().Str("station", msg.Reference).Msg("selection changed")
		cmds = append(cmds, m.readings.Select(msg.Reference))
	}

	if cmd := m.directory.Update(msg, leftPaneWidth(m.width)-4, paneHeight(m.height)-2); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if cmd := m.readings.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	leftW := leftPaneWidth(m.width)
	rightW := rightPaneWidth(m.width)
	paneH := paneHeight(m.height)

	left := m.directory.View()
	var right string
	if m.readings.State().Phase == readings.Idle {
		right = m.directory.TableView(rightW-4, paneH-2)
	} else {
		right = m.readings.View()
	}

	leftRendered := lipgloss.NewStyle().Width(leftW).Render(contentStyle.Render(left))
	rightRendered := lipgloss.NewStyle().Width(rightW).Render(contentStyle.Render(right))
	columns := lipgloss.JoinHorizontal(lipgloss.Top, leftRendered, dividerStyle.Render("│"), rightRendered)

	ref := m.readings.State().Station
	var catchment string
	if st, ok := m.directory.Lookup(ref); ok {
		catchment = st.CatchmentName
	}
	header := headerStyle.Render(appTitle) + " " + selectionBadge(ref, catchment, max(0, m.width-14))
	sep := dividerStyle.Render(lipgloss.NewStyle().Width(m.width).Render(strings.Repeat("─", max(0, m.width))))
	foot := m.help.View(m.keys)
	if err := m.directory.Err(); err != nil {
		foot = statusStyle.Render("stations: "+err.Error()) + "\n" + foot
	}
	layout := lipgloss.JoinVertical(lipgloss.Left, header, sep, columns, sep, foot)
	if m.width > 0 {
		layout = lipgloss.NewStyle().Width(m.width).Render(layout)
	}
	return layout
}

// pane geometry: left 35% (min 28), divider, right takes the rest
func leftPaneWidth(total int) int {
	return max(28, int(float64(total)*0.35))
}

func rightPaneWidth(total int) int {
	return max(20, total-leftPaneWidth(total)-1)
}

// paneHeight leaves room for header, two separators and the help footer.
func paneHeight(total int) int {
	return max(8, total-5)
}

// chartSize is the canvas left for the chart after padding, title and legend.
func chartSize(width, height int) (int, int) {
	return max(20, rightPaneWidth(width)-4), max(6, paneHeight(height)-6)
}
