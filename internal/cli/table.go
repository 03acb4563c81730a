package cli

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Whatshisname303/fair-renderer/internal/view"
)

const columnGap = "  "

// renderTable writes a plain text table: header, a dashed underline per
// column, then the rows. Widths are display widths, so wide runes in
// record values line up.
func renderTable(out io.Writer, table view.Table) {
	widths := columnWidths(table)

	writeRow(out, table.Header, widths)

	underline := make([]string, len(table.Header))
	for i, width := range widths {
		underline[i] = strings.Repeat("-", width)
	}

	writeRow(out, underline, widths)

	for _, row := range table.Rows {
		writeRow(out, row, widths)
	}
}

func columnWidths(table view.Table) []int {
	widths := make([]int, len(table.Header))

	for i, cell := range table.Header {
		widths[i] = runewidth.StringWidth(cell)
	}

	for _, row := range table.Rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}

			if width := runewidth.StringWidth(cell); width > widths[i] {
				widths[i] = width
			}
		}
	}

	return widths
}

// writeRow pads every cell but the last, so lines carry no trailing
// whitespace.
func writeRow(out io.Writer, cells []string, widths []int) {
	var line strings.Builder

	for i, cell := range cells {
		if i > 0 {
			line.WriteString(columnGap)
		}

		if i < len(cells)-1 {
			line.WriteString(runewidth.FillRight(cell, widths[i]))
		} else {
			line.WriteString(cell)
		}
	}

	fprintln(out, strings.TrimRight(line.String(), " "))
}
