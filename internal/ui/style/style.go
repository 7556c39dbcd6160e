// Package style provides shared UI styling primitives including brand
// colors and icons for consistent visual presentation across the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Amber  = lipgloss.Color("#D97706")
	Slate  = lipgloss.Color("#667085")
	Ink    = lipgloss.Color("#0B0F19")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
)

// Styles for the end-of-build summary.
var (
	Generated = lipgloss.NewStyle().Foreground(Green)
	Skipped   = lipgloss.NewStyle().Foreground(Slate)
	Degraded  = lipgloss.NewStyle().Foreground(Yellow)
	Header    = lipgloss.NewStyle().Foreground(Amber).Bold(true)
)
