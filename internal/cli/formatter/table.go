package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const tableGap = "  "

// RenderTable lines rows up under styled headers. Widths are measured on
// visible text, so cells may already carry ANSI styling. Rows shorter than
// headers are padded with empty cells; extra cells are dropped.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	widths := make([]int, len(headers))
	measure := func(cells []string) {
		for i := range widths {
			if i < len(cells) {
				widths[i] = max(widths[i], lipgloss.Width(cells[i]))
			}
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}

	var b strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		last := len(widths) - 1
		for i, w := range widths {
			var cell string
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(style(cell))
			if i < last {
				b.WriteString(strings.Repeat(" ", w-lipgloss.Width(cell)))
				b.WriteString(tableGap)
			}
		}
		b.WriteByte('\n')
	}

	writeRow(headers, func(s string) string { return StyleHeader.Render(s) })

	rules := make([]string, len(widths))
	for i, w := range widths {
		rules[i] = strings.Repeat("─", w)
	}
	writeRow(rules, func(s string) string { return StyleDim.Render(s) })

	for _, row := range rows {
		writeRow(row, func(s string) string { return s })
	}
	return b.String()
}
