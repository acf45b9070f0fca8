package details

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/windrow/internal/source"

	tea "github.com/charmbracelet/bubbletea"
)

// stripANSI removes ANSI escape codes from a string for easier testing.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

func testEntry() source.Entry {
	return source.Entry{
		ID:        42,
		Title:     "stale cache eviction",
		Category:  "infra",
		Body:      "The cache eviction pass is not keeping up with writes.",
		CreatedAt: time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC),
	}
}

func keyMsg(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestDetails_New(t *testing.T) {
	m := New()
	require.False(t, m.Visible(), "expected new overlay to start hidden")
}

func TestDetails_ShowMakesVisible(t *testing.T) {
	m := New()
	m.SetSize(80, 24)
	m.Show(testEntry(), 41)

	require.True(t, m.Visible())
	require.Equal(t, 41, m.Index())
}

func TestDetails_HideMakesInvisible(t *testing.T) {
	m := New()
	m.SetSize(80, 24)
	m.Show(testEntry(), 0)
	m.Hide()

	require.False(t, m.Visible())
	require.Equal(t, "", m.View(), "expected empty view when hidden")
}

func TestDetails_View_ContainsEntryFields(t *testing.T) {
	m := New()
	m.SetSize(80, 24)
	m.Show(testEntry(), 41)

	view := stripANSI(m.View())
	require.Contains(t, view, "Row 42", "expected 1-based row number in the border title")
	require.Contains(t, view, "stale cache eviction")
	require.Contains(t, view, "infra")
	require.Contains(t, view, "id 42")
	require.Contains(t, view, "2024-03-01 09:30")
}

func TestDetails_View_WrapsBody(t *testing.T) {
	entry := testEntry()
	entry.Body = "alpha beta gamma delta epsilon zeta eta theta iota kappa lambda mu nu xi omicron"

	m := New()
	m.SetSize(46, 24) // Forces the minimum box width, so the body wraps
	m.Show(entry, 0)

	view := stripANSI(m.View())
	require.Contains(t, view, "alpha")
	require.Contains(t, view, "omicron")

	// No body line may poke through the right border
	for _, line := range strings.Split(view, "\n") {
		require.LessOrEqual(t, len([]rune(line)), 40, "line wider than the box: %q", line)
	}
}

func TestDetails_View_EmptyBody(t *testing.T) {
	entry := testEntry()
	entry.Body = ""

	m := New()
	m.SetSize(80, 24)
	m.Show(entry, 0)

	require.Contains(t, stripANSI(m.View()), "No body")
}

func TestDetails_ShowError(t *testing.T) {
	m := New()
	m.SetSize(80, 24)
	m.ShowError(7, errors.New("source unavailable"))

	require.True(t, m.Visible())
	view := stripANSI(m.View())
	require.Contains(t, view, "failed to load row")
	require.Contains(t, view, "source unavailable")
}

func TestDetails_ScrollReachesEndOfBody(t *testing.T) {
	var words []string
	for i := 0; i < 200; i++ {
		words = append(words, fmt.Sprintf("w%03d", i))
	}
	entry := testEntry()
	entry.Body = strings.Join(words, " ")

	m := New()
	m.SetSize(46, 24)
	m.Show(entry, 0)

	require.Contains(t, stripANSI(m.View()), "w000")
	require.NotContains(t, stripANSI(m.View()), "w199", "expected tail of body below the fold")

	m, _ = m.Update(keyRune('G'))
	require.Contains(t, stripANSI(m.View()), "w199", "expected G to scroll to the bottom")

	m, _ = m.Update(keyRune('g'))
	require.Contains(t, stripANSI(m.View()), "w000", "expected g to scroll back to the top")
}

func TestDetails_EscapeEmitsClose(t *testing.T) {
	m := New()
	m.SetSize(80, 24)
	m.Show(testEntry(), 0)

	m, cmd := m.Update(keyMsg(tea.KeyEscape))
	require.False(t, m.Visible())
	require.NotNil(t, cmd, "expected a close command")
	require.IsType(t, CloseMsg{}, cmd())
}

func TestDetails_EnterAlsoCloses(t *testing.T) {
	m := New()
	m.SetSize(80, 24)
	m.Show(testEntry(), 0)

	m, cmd := m.Update(keyMsg(tea.KeyEnter))
	require.False(t, m.Visible())
	require.NotNil(t, cmd)
	require.IsType(t, CloseMsg{}, cmd())
}

func TestDetails_UpdateIgnoredWhenHidden(t *testing.T) {
	m := New()
	m.SetSize(80, 24)

	m, cmd := m.Update(keyMsg(tea.KeyEscape))
	require.Nil(t, cmd)
	require.False(t, m.Visible())
}

func TestDetails_Overlay_PassthroughWhenHidden(t *testing.T) {
	m := New()
	m.SetSize(80, 24)

	bg := "line one\nline two"
	require.Equal(t, bg, m.Overlay(bg))
}

func TestDetails_Overlay_CompositesOnBackground(t *testing.T) {
	m := New()
	m.SetSize(80, 24)
	m.Show(testEntry(), 0)

	bg := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 80)+"\n", 24), "\n")
	out := m.Overlay(bg)

	require.NotEqual(t, bg, out)
	require.Contains(t, stripANSI(out), "╭", "expected the box border over the background")
	require.Contains(t, stripANSI(out), "....", "expected the background to stay visible at the edges")
}
