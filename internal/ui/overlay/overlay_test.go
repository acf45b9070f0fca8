package overlay

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
)

func rows(line string, n int) string {
	out := make([]string, n)
	for i := range out {
		out[i] = line
	}
	return strings.Join(out, "\n")
}

func TestPlace_CentersCard(t *testing.T) {
	bg := rows("..........", 6)
	card := "[HI]\n[HI]"

	out := Place(10, 6, card, bg)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6)
	// 4-wide card in a 10-wide viewport starts at column 3, rows 2-3.
	require.Equal(t, "...[HI]...", lines[2])
	require.Equal(t, "...[HI]...", lines[3])
	require.Equal(t, "..........", lines[0], "rows above the card are untouched")
	require.Equal(t, "..........", lines[5], "rows below the card are untouched")
}

func TestPlace_BackgroundShowsThroughOnSides(t *testing.T) {
	bg := "ABCDE\nFGHIJ\nKLMNO"

	out := Place(5, 3, "X", bg)

	lines := strings.Split(out, "\n")
	require.Equal(t, "FGXIJ", lines[1], "one cell replaced, neighbors intact")
}

func TestPlace_OversizedCardClampsToOrigin(t *testing.T) {
	bg := rows("...", 3)

	out := Place(3, 3, "WIDECARD\nWIDECARD", bg)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "WIDECARD"), "card wider than the viewport starts at column 0")
}

func TestPlace_TallCardStopsAtBottomEdge(t *testing.T) {
	bg := rows("..", 2)

	out := Place(2, 2, "A\nB\nC\nD", bg)

	require.Equal(t, 2, lipgloss.Height(out), "rows past the viewport are dropped")
}

func TestPlace_PadsShortBackground(t *testing.T) {
	out := Place(5, 4, "XX", "..來..")

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4, "background grows to the viewport height")
	require.Contains(t, lines[1], "XX", "one-line card centers into the padded rows")
	require.Equal(t, "..來..", lines[0], "wide runes in untouched rows survive")
}

func TestPlace_EmptyBackground(t *testing.T) {
	out := Place(6, 3, "[]", "")

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "  []  ", lines[1])
}

func TestPlace_KeepsAnsiSequences(t *testing.T) {
	styled := "\x1b[31mREDROW\x1b[0m"
	bg := styled + "\n" + styled + "\n" + styled

	out := Place(6, 3, "X", bg)

	require.Contains(t, out, "\x1b[31m", "background color codes survive the splice")
	lines := strings.Split(out, "\n")
	require.Contains(t, lines[1], "X")
}

func TestSplice_MidLine(t *testing.T) {
	require.Equal(t, "ab[Y]f", splice("abcdef", 2, "[Y]"))
}

func TestSplice_PastLineEnd(t *testing.T) {
	// Background shorter than the splice column gets space-padded first.
	require.Equal(t, "ab  [Y]", splice("ab", 4, "[Y]"))
}

func TestSplice_ForegroundCoversRest(t *testing.T) {
	require.Equal(t, "a[LONG]", splice("abc", 1, "[LONG]"))
}
