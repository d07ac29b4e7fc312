// Package ui provides styled console output for the end-of-run
// summary. The log file carries the full record; this is the short
// human-facing view.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vulnreport/vulnreport/pkg/vuln"
)

// Severity colors matching the report palette.
var (
	Critical = lipgloss.Color("#FF0000")
	High     = lipgloss.Color("#FF6B6B")
	Medium   = lipgloss.Color("#FFD93D")
	Low      = lipgloss.Color("#6BCB77")
	Muted    = lipgloss.Color("#6B7280")

	Success = lipgloss.Color("#00D26A")
	Error   = lipgloss.Color("#FF3838")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#1E293B")).
			Padding(0, 1)

	ZoneStyle = lipgloss.NewStyle().Bold(true)

	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted).Italic(true)
)

// severityStyles maps severities to their render style.
var severityStyles = map[vuln.Severity]lipgloss.Style{
	vuln.Critical: lipgloss.NewStyle().Foreground(Critical).Bold(true),
	vuln.High:     lipgloss.NewStyle().Foreground(High).Bold(true),
	vuln.Medium:   lipgloss.NewStyle().Foreground(Medium),
	vuln.Low:      lipgloss.NewStyle().Foreground(Low),
	vuln.None:     lipgloss.NewStyle().Foreground(Muted),
}

// SeverityStyle returns the style for a severity, defaulting to muted.
func SeverityStyle(sev vuln.Severity) lipgloss.Style {
	if s, ok := severityStyles[sev]; ok {
		return s
	}
	return MutedStyle
}
