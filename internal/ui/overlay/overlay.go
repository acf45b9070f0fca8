// Package overlay draws one view on top of another without blanking the
// rows around it. lipgloss only joins views edge to edge, so modal
// surfaces splice themselves into the background line by line.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Place centers fg over bg inside a width x height viewport. Both sides
// keep their ANSI styling; background text stays visible to the left and
// right of the foreground block.
func Place(width, height int, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")
	for len(bgLines) < height {
		bgLines = append(bgLines, strings.Repeat(" ", width))
	}

	x := max(0, (width-lipgloss.Width(fg))/2)
	y := max(0, (height-len(fgLines))/2)

	for i, line := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		bgLines[row] = splice(bgLines[row], x, line)
	}
	return strings.Join(bgLines, "\n")
}

// splice lays fg into bg starting at column x, keeping whatever of bg
// extends past the right edge of fg. Cuts are ANSI-aware on both sides.
func splice(bg string, x int, fg string) string {
	left := ansi.Truncate(bg, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}

	var right string
	end := x + ansi.StringWidth(fg)
	if end < ansi.StringWidth(bg) {
		right = ansi.TruncateLeft(bg, end, "")
	}
	return left + fg + right
}
