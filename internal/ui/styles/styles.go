// Package styles holds the shared lipgloss palette and the text helpers
// the browser chrome renders with.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text, brightest to dimmest
	TextPrimaryColor     = lipgloss.AdaptiveColor{Light: "#2D3436", Dark: "#CCCCCC"} // row titles
	TextSecondaryColor   = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#BBBBBB"} // ids, timestamps
	TextMutedColor       = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"} // hints, placeholders
	TextDescriptionColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"} // overlay body text

	// Status line accents
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Gutter bar marking the selected row
	SelectionBarColor = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#FFFFFF"}

	// Overlay chrome
	OverlayTitleColor  = lipgloss.AdaptiveColor{Light: "#2D3436", Dark: "#C9C9C9"}
	OverlayBorderColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#8C8C8C"}

	// Scrollbar column
	ScrollbarThumbColor = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#8C8C8C"}
	ScrollbarTrackColor = lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#3A3A3A"}

	// Fetch spinner in the status bar
	SpinnerColor = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#FFF"}

	// Category palette. Categories hash onto these, so any category name
	// gets one stable color without configuration.
	CategoryPalette = []lipgloss.AdaptiveColor{
		{Light: "#54A0FF", Dark: "#54A0FF"}, // blue
		{Light: "#43BF6D", Dark: "#73F59F"}, // green
		{Light: "#DF8E1D", Dark: "#F9E2AF"}, // yellow
		{Light: "#FF9F43", Dark: "#FF9F43"}, // orange
		{Light: "#874BFD", Dark: "#7D56F4"}, // purple
		{Light: "#179299", Dark: "#94E2D5"}, // teal
	}

	// Row text
	RowTitleStyle    = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	RowMetaStyle     = lipgloss.NewStyle().Foreground(TextSecondaryColor)
	PlaceholderStyle = lipgloss.NewStyle().Foreground(TextMutedColor)

	SelectionBarStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectionBarColor)

	ScrollbarThumbStyle = lipgloss.NewStyle().Foreground(ScrollbarThumbColor)
	ScrollbarTrackStyle = lipgloss.NewStyle().Foreground(ScrollbarTrackColor)

	SpinnerStyle = lipgloss.NewStyle().Foreground(SpinnerColor)

	// Status bar, normal and degraded
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor).
			Padding(0, 1)
	StatusBarWarnStyle = lipgloss.NewStyle().
				Foreground(StatusWarningColor).
				Padding(0, 1)

	// Overlay body text
	OverlayBodyStyle = lipgloss.NewStyle().Foreground(TextDescriptionColor)

	// Placeholder shown where an overlay has no content to render
	EmptyHintStyle = lipgloss.NewStyle().Foreground(TextMutedColor).Italic(true)

	// Help hints at the bottom of the screen
	HelpHintStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
)

// CategoryStyle returns a stable style for a category name. The same name
// always maps to the same palette color.
func CategoryStyle(category string) lipgloss.Style {
	if category == "" {
		return lipgloss.NewStyle().Foreground(TextMutedColor)
	}
	var sum int
	for _, r := range category {
		sum += int(r)
	}
	return lipgloss.NewStyle().Foreground(CategoryPalette[sum%len(CategoryPalette)])
}
