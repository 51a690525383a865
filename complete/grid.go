package complete

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Columns computes how many columns of maxWidth-wide entries, with
// two-space separators, fit in cols. Returns at least 1.
func Columns(cols, maxWidth int) int {
	if maxWidth <= 0 {
		return 1
	}
	n := (cols + 2) / (maxWidth + 2)
	if n < 1 {
		n = 1
	}
	return n
}

// FormatGrid renders display strings into rows of a column-major grid
// sized to fit termWidth, two spaces between columns, entries padded
// on the right to the widest entry in their column. display, if
// non-nil, is applied per-candidate for rendering only; the returned
// rows never affect what gets inserted into the buffer.
func FormatGrid(candidates []string, termWidth int, display FilterCallback) []string {
	if len(candidates) == 0 {
		return nil
	}
	rendered := make([]string, len(candidates))
	maxWidth := 0
	for i, c := range candidates {
		s := c
		if display != nil {
			if d, ok := display(c); ok {
				s = d
			}
		}
		rendered[i] = s
		if w := runewidth.StringWidth(s); w > maxWidth {
			maxWidth = w
		}
	}

	numCols := Columns(termWidth, maxWidth)
	numRows := (len(rendered) + numCols - 1) / numCols

	// Column-major: entries fill down each column before moving right,
	// matching peterh/liner's printedTabs layout.
	colWidths := make([]int, numCols)
	for col := 0; col < numCols; col++ {
		for row := 0; row < numRows; row++ {
			idx := col*numRows + row
			if idx >= len(rendered) {
				break
			}
			if w := runewidth.StringWidth(rendered[idx]); w > colWidths[col] {
				colWidths[col] = w
			}
		}
	}

	rows := make([]string, 0, numRows)
	for row := 0; row < numRows; row++ {
		var b strings.Builder
		for col := 0; col < numCols; col++ {
			idx := col*numRows + row
			if idx >= len(rendered) {
				continue
			}
			entry := rendered[idx]
			b.WriteString(entry)
			if col < numCols-1 && (col+1)*numRows+row < len(rendered) {
				pad := colWidths[col] - runewidth.StringWidth(entry)
				b.WriteString(strings.Repeat(" ", pad))
				b.WriteString("  ")
			}
		}
		rows = append(rows, b.String())
	}
	return rows
}
