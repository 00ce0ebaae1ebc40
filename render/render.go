// Package render formats decoded tables for terminal display.
//
// Body values are colored on a six-step gradient (red, yellow, green, cyan,
// blue, magenta) normalized over the table's own min..max range, the
// convention calibration tools use to make hot and cold regions of a map
// visible at a glance.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ecutools/tunefile/codec"
)

var gradient = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("1")), // red
	lipgloss.NewStyle().Foreground(lipgloss.Color("3")), // yellow
	lipgloss.NewStyle().Foreground(lipgloss.Color("2")), // green
	lipgloss.NewStyle().Foreground(lipgloss.Color("6")), // cyan
	lipgloss.NewStyle().Foreground(lipgloss.Color("4")), // blue
	lipgloss.NewStyle().Foreground(lipgloss.Color("5")), // magenta
}

var (
	bannerStyle = lipgloss.NewStyle().Bold(true)
	axisStyle   = lipgloss.NewStyle().Faint(true)
)

// EmptyTable is rendered in place of a grid when a table decoded to no body
// values.
const EmptyTable = "(empty table)"

// Grid renders the body matrix, one row per line, values with two decimals.
// With colorize set, each value is styled by its position in the table's
// min..max range.
func Grid(dt *codec.DecodedTable, colorize bool) string {
	if dt == nil || dt.Empty() {
		return EmptyTable
	}

	min, max := valueRange(dt.Data)
	var b strings.Builder
	for i, row := range dt.Data {
		if i > 0 {
			b.WriteByte('\n')
		}
		cells := make([]string, len(row))
		for j, v := range row {
			cell := fmt.Sprintf("%.2f", v)
			if colorize {
				cell = gradient[gradientIndex(v, min, max)].Render(cell)
			}
			cells[j] = cell
		}
		b.WriteString(strings.Join(cells, "  "))
	}
	return b.String()
}

// Axis renders an axis array on one line; empty axes render as "-".
func Axis(values []float64) string {
	if len(values) == 0 {
		return "-"
	}
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = fmt.Sprintf("%.2f", v)
	}
	return strings.Join(cells, ", ")
}

// Table renders a full table report: name banner, axes, grid.
func Table(name string, dt *codec.DecodedTable, colorize bool) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("=", 50))
	b.WriteByte('\n')
	b.WriteString(bannerStyle.Render("Table: " + name))
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("-", 50))
	b.WriteByte('\n')
	b.WriteString(axisStyle.Render("X Axis: " + Axis(dt.XAxis)))
	b.WriteByte('\n')
	b.WriteString(axisStyle.Render("Y Axis: " + Axis(dt.YAxis)))
	b.WriteByte('\n')
	b.WriteString(Grid(dt, colorize))
	return b.String()
}

func valueRange(data [][]float64) (min, max float64) {
	first := true
	for _, row := range data {
		for _, v := range row {
			if first || v < min {
				min = v
			}
			if first || v > max {
				max = v
			}
			first = false
		}
	}
	return min, max
}

// gradientIndex maps a value's normalized position to one of the six
// gradient steps. A constant table normalizes to the first step.
func gradientIndex(v, min, max float64) int {
	if max == min {
		return 0
	}
	idx := int((v - min) / (max - min) * float64(len(gradient)-1))
	if idx < 0 {
		idx = 0
	}
	if idx > len(gradient)-1 {
		idx = len(gradient) - 1
	}
	return idx
}
