package browser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestThumbBounds(t *testing.T) {
	tests := []struct {
		name       string
		cfg        ScrollbarConfig
		wantStart  int
		wantHeight int
	}{
		{"fits exactly", ScrollbarConfig{Extent: 30, ViewportHeight: 30}, 0, 30},
		{"fits with room", ScrollbarConfig{Extent: 20, ViewportHeight: 30}, 0, 30},
		{"half visible", ScrollbarConfig{Extent: 50, ViewportHeight: 30}, 0, 18},
		{"top of long list", ScrollbarConfig{Extent: 300000, ViewportHeight: 30}, 0, 1},
		{"scrolled to end", ScrollbarConfig{Extent: 100, ViewportHeight: 30, Offset: 70}, 21, 9},
		{"scrolled to middle", ScrollbarConfig{Extent: 100, ViewportHeight: 30, Offset: 35}, 10, 9},
		{"zero extent", ScrollbarConfig{ViewportHeight: 30}, 0, 0},
		{"zero viewport", ScrollbarConfig{Extent: 100}, 0, 0},
		{"negative extent", ScrollbarConfig{Extent: -10, ViewportHeight: 30}, 0, 0},
		{"negative viewport", ScrollbarConfig{Extent: 100, ViewportHeight: -30}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, height := tt.cfg.thumbBounds()
			require.Equal(t, tt.wantStart, start, "start")
			require.Equal(t, tt.wantHeight, height, "height")
		})
	}
}

// barPattern reduces a rendered bar to one char per line: '#' thumb,
// '.' track, ' ' blank.
func barPattern(t *testing.T, bar string) string {
	t.Helper()
	var b strings.Builder
	for _, line := range strings.Split(bar, "\n") {
		switch {
		case strings.Contains(line, thumbGlyph):
			b.WriteByte('#')
		case strings.Contains(line, trackGlyph):
			b.WriteByte('.')
		default:
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func TestRenderScrollbar_ThumbAtTop(t *testing.T) {
	bar := RenderScrollbar(ScrollbarConfig{Extent: 100, ViewportHeight: 10})

	require.Equal(t, "#.........", barPattern(t, bar))
}

func TestRenderScrollbar_ThumbAtBottom(t *testing.T) {
	bar := RenderScrollbar(ScrollbarConfig{Extent: 100, ViewportHeight: 10, Offset: 90})

	require.Equal(t, ".........#", barPattern(t, bar))
}

func TestRenderScrollbar_ThumbTracksOffset(t *testing.T) {
	// 10 of 40 cells visible: thumb height 2, travel 8 across maxOffset 30.
	bar := RenderScrollbar(ScrollbarConfig{Extent: 40, ViewportHeight: 10, Offset: 15})

	require.Equal(t, "....##....", barPattern(t, bar))
}

func TestRenderScrollbar_BlankWhenContentFits(t *testing.T) {
	bar := RenderScrollbar(ScrollbarConfig{Extent: 8, ViewportHeight: 12})

	lines := strings.Split(bar, "\n")
	require.Len(t, lines, 12)
	for i, line := range lines {
		require.Equal(t, " ", line, "line %d", i)
	}
}

func TestRenderScrollbar_DegenerateSizes(t *testing.T) {
	require.Empty(t, RenderScrollbar(ScrollbarConfig{Extent: 100}))
	require.Empty(t, RenderScrollbar(ScrollbarConfig{ViewportHeight: 30}))
	require.Empty(t, RenderScrollbar(ScrollbarConfig{Extent: -5, ViewportHeight: -5}))
}

func TestScrollbar_Properties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		cfg := ScrollbarConfig{
			Extent:         rapid.IntRange(1, 1000000).Draw(rt, "extent"),
			ViewportHeight: rapid.IntRange(1, 120).Draw(rt, "viewport"),
		}
		cfg.Offset = rapid.IntRange(0, max(0, cfg.Extent-cfg.ViewportHeight)).Draw(rt, "offset")

		start, height := cfg.thumbBounds()

		require.GreaterOrEqual(rt, height, 1, "thumb must stay visible")
		require.GreaterOrEqual(rt, start, 0)
		require.LessOrEqual(rt, start+height, cfg.ViewportHeight, "thumb must stay inside the track")

		lines := strings.Split(RenderScrollbar(cfg), "\n")
		require.Len(rt, lines, cfg.ViewportHeight)
	})
}
