package session

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	section  lipgloss.Style
	member   lipgloss.Style
	chair    lipgloss.Style
	badge    lipgloss.Style
	merge    lipgloss.Style
	content  lipgloss.Style
	meta     lipgloss.Style
	warning  lipgloss.Style
	empty    lipgloss.Style
	spinner  lipgloss.Style
	complete lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		section:  lipgloss.NewStyle().MarginTop(1),
		member:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		chair:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")),
		badge:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		merge:    lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderLeft(true).BorderForeground(lipgloss.Color("213")).PaddingLeft(1),
		content:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		meta:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		warning:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		empty:    lipgloss.NewStyle().Faint(true),
		spinner:  lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
		complete: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("120")),
	}
}
