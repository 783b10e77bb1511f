package readings

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	infoStyle  = lipgloss.NewStyle().Faint(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// View renders the current phase: a hint, a spinner, the chart, or the error line.
func (m *Model) View() string {
	b := &strings.Builder{}
	switch m.state.Phase {
	case Idle:
		b.WriteString(titleStyle.Render(SeriesLabel))
		b.WriteString("\n")
		b.WriteString(infoStyle.Render("Select a station to plot its recent readings."))
	case Loading:
		b.WriteString(titleStyle.Render(SeriesLabel + " · " + m.state.Station))
		b.WriteString("\n")
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(infoStyle.Render("Loading readings..."))
	case Rendered:
		b.WriteString(titleStyle.Render(SeriesLabel + " · " + m.state.Station))
		b.WriteString("\n")
		if m.chart != nil {
			b.WriteString(m.chart.View())
		}
	case Failed:
		b.WriteString(titleStyle.Render(SeriesLabel + " · " + m.state.Station))
		b.WriteString("\n")
		b.WriteString(errStyle.Render("readings error: " + errString(m.state.Err)))
		b.WriteString("\n")
		b.WriteString(infoStyle.Render("Press r to request again."))
	}
	return b.String()
}

func errString(err error) string {
	if err == nil {
		return "unknown"
	}
	return err.Error()
}
