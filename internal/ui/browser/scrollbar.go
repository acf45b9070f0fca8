package browser

import (
	"strings"

	"github.com/zjrosen/windrow/internal/ui/styles"
)

const (
	thumbGlyph = "█"
	trackGlyph = "░"
)

// ScrollbarConfig describes the vertical scrollbar column. All dimensions are
// in cells, so the bar tracks the full scrollable extent rather than the
// handful of rows that happen to be materialized.
type ScrollbarConfig struct {
	Extent         int // total content height in cells
	ViewportHeight int // visible cells in the viewport
	Offset         int // top visible cell
}

// thumbBounds returns the first track row of the thumb and its height in
// rows. The thumb shrinks with the visible fraction but never below one row,
// and its travel spans the track exactly as Offset spans 0..Extent-Viewport.
func (cfg ScrollbarConfig) thumbBounds() (start, height int) {
	switch {
	case cfg.Extent <= 0 || cfg.ViewportHeight <= 0:
		return 0, 0
	case cfg.Extent <= cfg.ViewportHeight:
		// Nothing to scroll, thumb fills the track.
		return 0, cfg.ViewportHeight
	}

	height = max(1, cfg.ViewportHeight*cfg.ViewportHeight/cfg.Extent)

	travel := cfg.ViewportHeight - height
	maxOffset := cfg.Extent - cfg.ViewportHeight
	if travel <= 0 || maxOffset <= 0 {
		return 0, height
	}

	start = travel * cfg.Offset / maxOffset
	start = max(0, min(start, cfg.ViewportHeight-height))
	return start, height
}

// RenderScrollbar draws the bar as a one-cell-wide column, ViewportHeight
// lines joined by newlines. When the content fits in the viewport the column
// is blank so the layout width stays stable.
func RenderScrollbar(cfg ScrollbarConfig) string {
	if cfg.ViewportHeight <= 0 || cfg.Extent <= 0 {
		return ""
	}
	if cfg.Extent <= cfg.ViewportHeight {
		return strings.TrimSuffix(strings.Repeat(" \n", cfg.ViewportHeight), "\n")
	}

	start, height := cfg.thumbBounds()
	thumb := styles.ScrollbarThumbStyle.Render(thumbGlyph)
	track := styles.ScrollbarTrackStyle.Render(trackGlyph)

	var b strings.Builder
	for row := range cfg.ViewportHeight {
		if row > 0 {
			b.WriteByte('\n')
		}
		if row >= start && row < start+height {
			b.WriteString(thumb)
		} else {
			b.WriteString(track)
		}
	}
	return b.String()
}
