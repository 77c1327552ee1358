// Package report renders simulation results for the terminal.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/beamsim/internal/phase"
)

var axisNames = [phase.Dim]string{"x", "x'", "y", "y'", "z", "z'", "1"}

// Field is one labelled line of a summary panel.
type Field struct {
	Label string
	Value string
}

// Summary renders a titled panel of fields with aligned labels.
func Summary(title string, fields []Field) string {
	width := 0
	for _, f := range fields {
		width = max(width, lipgloss.Width(f.Label))
	}

	lines := make([]string, 0, len(fields)+1)
	lines = append(lines, Title.Render(title))
	for _, f := range fields {
		pad := strings.Repeat(" ", width-lipgloss.Width(f.Label))
		lines = append(lines, Label.Render(f.Label+pad)+"  "+Value.Render(f.Value))
	}
	return Panel.Render(strings.Join(lines, "\n"))
}

// Matrix renders a homogeneous matrix as a labelled grid.
func Matrix(title string, m phase.Matrix) string {
	var b strings.Builder
	b.WriteString(Title.Render(title))
	b.WriteString("\n")

	b.WriteString("    ")
	for _, name := range axisNames {
		b.WriteString(Subtle.Render(fmt.Sprintf("%11s", name)))
	}
	b.WriteString("\n")

	for i, row := range m {
		b.WriteString(Subtle.Render(fmt.Sprintf("%-4s", axisNames[i])))
		for _, v := range row {
			b.WriteString(entryStyle(v).Render(fmt.Sprintf("%11.4g", v)))
		}
		if i < len(m)-1 {
			b.WriteString("\n")
		}
	}
	return Panel.Render(b.String())
}

func entryStyle(v float64) lipgloss.Style {
	switch {
	case v == 0:
		return EntryZero
	case math.Abs(math.Abs(v)-1) < 1e-12:
		return EntryUnit
	default:
		return EntryOther
	}
}

// Tunes renders the fractional tunes of a one-turn map. A plane that is
// not stable prints as "unstable".
func Tunes(m phase.Matrix) string {
	tunes := m.Tunes()
	fields := make([]Field, 0, len(tunes))
	for plane, nu := range tunes {
		value := "unstable"
		if !math.IsNaN(nu) {
			value = fmt.Sprintf("%.6f", nu)
		}
		fields = append(fields, Field{Label: planeName(plane), Value: value})
	}
	return Summary("tunes", fields)
}

func planeName(plane int) string {
	switch plane {
	case phase.PlaneX:
		return "horizontal"
	case phase.PlaneY:
		return "vertical"
	default:
		return "longitudinal"
	}
}

// Sparkline renders values as a row of block characters at most width wide.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	step := max(len(values)/width, 1)

	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / span
		idx := min(max(int(norm*float64(len(chars)-1)), 0), len(chars)-1)
		c := string(chars[idx])
		switch {
		case norm > 0.7:
			b.WriteString(SparkHigh.Render(c))
		case norm > 0.3:
			b.WriteString(SparkMid.Render(c))
		default:
			b.WriteString(SparkLow.Render(c))
		}
	}
	return b.String()
}
