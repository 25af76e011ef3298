package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("211"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("37"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("48"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	menuKeyStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	menuStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("169"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("61")).
			Padding(0, 1).
			Width(22)

	statusHeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	priorityHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("179"))
)
