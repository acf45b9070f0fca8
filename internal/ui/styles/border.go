// Package styles contains Lip Gloss style definitions.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var boxBorder = lipgloss.RoundedBorder()

// RenderWithTitleBorder draws content in a rounded box with the title
// embedded in the top edge, lazygit style: ╭─ Title ─────╮. The overlay
// surfaces (details, help, event log) all draw through this.
func RenderWithTitleBorder(content, title string, width, height int, titleColor, borderColor lipgloss.TerminalColor) string {
	edge := lipgloss.NewStyle().Foreground(borderColor)
	label := lipgloss.NewStyle().Foreground(titleColor)

	inner := max(1, width-2)
	rows := max(1, height-2)

	// Width wraps overlong body lines; the row loop below clips the rest,
	// so the frame never tears.
	body := lipgloss.NewStyle().Width(inner).Render(content)
	lines := strings.Split(body, "\n")

	left := edge.Render(boxBorder.Left)
	right := edge.Render(boxBorder.Right)

	var b strings.Builder
	b.WriteString(titledTop(edge, label, title, inner))
	b.WriteByte('\n')
	for i := 0; i < rows; i++ {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		b.WriteString(left)
		b.WriteString(lipgloss.PlaceHorizontal(inner, lipgloss.Left, line))
		b.WriteString(right)
		b.WriteByte('\n')
	}
	b.WriteString(edge.Render(boxBorder.BottomLeft + strings.Repeat(boxBorder.Bottom, inner) + boxBorder.BottomRight))

	return b.String()
}

// titledTop renders ╭─ Title ─────╮. Frames too narrow for "─ T ─" drop
// the title rather than overflow.
func titledTop(edge, label lipgloss.Style, title string, inner int) string {
	if title == "" || inner < 4 {
		return edge.Render(boxBorder.TopLeft + strings.Repeat(boxBorder.Top, inner) + boxBorder.TopRight)
	}

	shown := TruncateString(title, inner-4)
	tail := max(0, inner-3-lipgloss.Width(shown))

	return edge.Render(boxBorder.TopLeft+boxBorder.Top+" ") +
		label.Render(shown) +
		edge.Render(" "+strings.Repeat(boxBorder.Top, tail)+boxBorder.TopRight)
}
