package report

import "github.com/charmbracelet/lipgloss"

// Style decorates report fragments.
type Style struct {
	Title   func(string) string
	Section func(string) string
	Good    func(string) string
	Warn    func(string) string
	Bad     func(string) string
	Muted   func(string) string
}

func identity(s string) string { return s }

// Plain renders without escape sequences.
func Plain() Style {
	return Style{Title: identity, Section: identity, Good: identity, Warn: identity, Bad: identity, Muted: identity}
}

// Colored renders with terminal colors. lipgloss drops the colors when the
// output is not a terminal.
func Colored() Style {
	render := func(s lipgloss.Style) func(string) string {
		return func(v string) string { return s.Render(v) }
	}
	return Style{
		Title:   render(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))),
		Section: render(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))),
		Good:    render(lipgloss.NewStyle().Foreground(lipgloss.Color("2"))),
		Warn:    render(lipgloss.NewStyle().Foreground(lipgloss.Color("3"))),
		Bad:     render(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))),
		Muted:   render(lipgloss.NewStyle().Foreground(lipgloss.Color("241"))),
	}
}
