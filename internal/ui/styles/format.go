// Package styles contains Lip Gloss style definitions.
package styles

import (
	"github.com/charmbracelet/x/ansi"
)

// TruncateString truncates a string to fit within maxWidth, adding an
// ellipsis if needed. Escape-sequence aware, so already-styled text keeps
// its codes intact.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}

	if ansi.StringWidth(s) <= maxWidth {
		return s
	}

	if maxWidth == 1 {
		return ansi.Truncate(s, 1, "")
	}

	return ansi.Truncate(s, maxWidth, "…")
}

// FormatCategory renders a category name as a fixed-width colored badge so
// row columns line up. Longer names are truncated.
func FormatCategory(category string, width int) string {
	if width < 1 {
		return ""
	}
	badge := TruncateString(category, width)
	for ansi.StringWidth(badge) < width {
		badge += " "
	}
	return CategoryStyle(category).Render(badge)
}
