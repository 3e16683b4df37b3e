package tui

import "github.com/charmbracelet/lipgloss"

var (
	ActiveStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))

	InactiveStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
)

var (
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))
	UnitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
	TrackFilledStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("105")).
				Bold(true)
	TrackEmptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
	HandleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)
	DraggingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true)
	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

var (
	HelpStyle   = lipgloss.NewStyle().Padding(0, 0, 0, 2)
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("105"))
	HeaderIndicatorStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("226"))
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("105"))
)
