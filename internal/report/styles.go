package report

import (
	"github.com/charmbracelet/lipgloss"
)

var Panel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#444466")).
	Padding(0, 1)

var Title = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#00ffff"))

var Value = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#00ccff"))

var (
	Subtle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	Label  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899"))

	// Matrix entries are coloured by magnitude.
	EntryZero  = lipgloss.NewStyle().Foreground(lipgloss.Color("#444466"))
	EntryUnit  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	EntryOther = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))

	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)
