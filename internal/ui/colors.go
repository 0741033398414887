package ui

import (
	"github.com/charmbracelet/lipgloss"
)

const (
	colorAccent  = lipgloss.Color("#1DB954")
	colorSuccess = lipgloss.Color("#04B575")
	colorError   = lipgloss.Color("#FF5F5F")
	colorWarning = lipgloss.Color("#FFA500")
	colorMuted   = lipgloss.Color("#626262")
)

var styles = newStylesheet()

// stylesheet holds every style the views render with.
type stylesheet struct {
	title    lipgloss.Style
	label    lipgloss.Style
	selected lipgloss.Style
	ok       lipgloss.Style
	err      lipgloss.Style
	warn     lipgloss.Style
	help     lipgloss.Style
}

func newStylesheet() stylesheet {
	bold := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return stylesheet{
		title:    bold(colorAccent).MarginBottom(1),
		label:    bold(colorMuted),
		selected: bold(colorAccent),
		ok:       bold(colorSuccess),
		err:      bold(colorError),
		warn:     lipgloss.NewStyle().Foreground(colorWarning),
		help:     lipgloss.NewStyle().Foreground(colorMuted).Italic(true),
	}
}
