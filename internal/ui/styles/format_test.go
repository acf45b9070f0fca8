package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"fits", "Hello", 10, "Hello"},
		{"exact", "Hello", 5, "Hello"},
		{"truncate", "Hello World", 8, "Hello W…"},
		{"single cell", "Hello", 1, "H"},
		{"zero", "Hello", 0, ""},
		{"negative", "Hello", -3, ""},
		{"empty", "", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateString(tt.input, tt.maxWidth)
			require.Equal(t, tt.want, got, "TruncateString(%q, %d)", tt.input, tt.maxWidth)
		})
	}
}

func TestTruncateString_PreservesStyling(t *testing.T) {
	styled := RowTitleStyle.Render("a very long styled title indeed")
	got := TruncateString(styled, 10)
	require.LessOrEqual(t, ansi.StringWidth(got), 10, "visible width must fit")
}

func TestFormatCategory_PadsToWidth(t *testing.T) {
	got := FormatCategory("api", 8)
	require.Equal(t, 8, ansi.StringWidth(got), "badge should occupy the full column")
}

func TestFormatCategory_TruncatesLongNames(t *testing.T) {
	got := FormatCategory("observability", 8)
	require.Equal(t, 8, ansi.StringWidth(got))
}

func TestFormatCategory_ZeroWidth(t *testing.T) {
	require.Empty(t, FormatCategory("api", 0))
}

func TestCategoryStyle_Stable(t *testing.T) {
	// Force ANSI color output in test environment
	lipgloss.SetColorProfile(termenv.ANSI256)

	first := CategoryStyle("infra").Render("infra")
	second := CategoryStyle("infra").Render("infra")
	require.Equal(t, first, second, "same category must keep the same color")
}

func TestCategoryStyle_DistinctCategories(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI256)

	infra := CategoryStyle("infra").Render("x")
	auth := CategoryStyle("auth").Render("x")
	require.NotEqual(t, infra, auth, "different categories should pick different palette colors")
}

func TestCategoryStyle_EmptyCategory(t *testing.T) {
	// Must not panic and must render something
	got := CategoryStyle("").Render("-")
	require.NotEmpty(t, got)
}
