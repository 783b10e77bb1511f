package cmd

import "github.com/charmbracelet/lipgloss"

// Centralized styles for consistent UX across views.
var (
	appTitle     = "floodwatch"
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")).Background(lipgloss.Color("57")).Padding(0, 1)
	subtleStyle  = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("247"))
	activeStyle  = subtleStyle.Bold(true).Foreground(lipgloss.Color("51")).Background(lipgloss.Color("236"))
	contentStyle = lipgloss.NewStyle().Padding(1, 2)
	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Padding(0, 1)
)

// selectionBadge shows the active station, and its catchment when known,
// next to the title.
func selectionBadge(reference, catchment string, width int) string {
	line := subtleStyle.Render("no station selected")
	if reference != "" {
		text := "station " + reference
		if catchment != "" {
			text += " · " + catchment
		}
		line = activeStyle.Render(text)
	}
	if width > 0 {
		line = lipgloss.NewStyle().MaxWidth(width).Render(line)
	}
	return line
}
