package dashboard

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	upStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	downStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	neutralStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250"))
)
