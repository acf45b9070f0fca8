package help

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tea "github.com/charmbracelet/bubbletea"
)

// stripANSI removes ANSI escape codes from a string for easier testing.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestHelp_New(t *testing.T) {
	m := New()

	assert.False(t, m.Visible(), "expected new overlay to start hidden")
	assert.Equal(t, "dark", m.markdownStyle, "expected dark markdown style by default")
}

func TestHelp_ToggleShowsAndHides(t *testing.T) {
	m := New()
	m.SetSize(80, 24)

	m.Toggle()
	assert.True(t, m.Visible())

	m.Toggle()
	assert.False(t, m.Visible())
	assert.Equal(t, "", m.View(), "expected empty view when hidden")
}

func TestHelp_BuildDoc(t *testing.T) {
	m := New()
	doc := m.buildDoc()

	assert.Contains(t, doc, "## Scrolling")
	assert.Contains(t, doc, "## Actions")
	assert.Contains(t, doc, "## General")
	assert.Contains(t, doc, "`k/↑` scroll up")
	assert.Contains(t, doc, "`enter` view details")
}

func TestHelp_View_ContainsSections(t *testing.T) {
	m := New()
	m.SetSize(80, 24)
	m.Toggle()

	view := stripANSI(m.View())
	assert.Contains(t, view, "Scrolling", "expected view to contain Scrolling section")
	assert.Contains(t, view, "Actions", "expected view to contain Actions section")
	assert.Contains(t, view, "General", "expected view to contain General section")
}

func TestHelp_View_ContainsKeybindings(t *testing.T) {
	m := New()
	m.SetSize(80, 24)
	m.Toggle()

	view := stripANSI(m.View())
	assert.Contains(t, view, "scroll up", "expected view to contain scroll up binding")
	assert.Contains(t, view, "scroll down", "expected view to contain scroll down binding")
	assert.Contains(t, view, "view details", "expected view to contain details binding")
	assert.Contains(t, view, "refresh window", "expected view to contain refresh binding")
	assert.Contains(t, view, "quit", "expected view to contain quit binding")
}

func TestHelp_View_ContainsFooterAndTitle(t *testing.T) {
	m := New()
	m.SetSize(80, 24)
	m.Toggle()

	view := stripANSI(m.View())
	assert.Contains(t, view, "? or esc to close", "expected view to contain footer hint")
	assert.Contains(t, view, "Help", "expected view to contain border title")
}

func TestHelp_HelpKeyCloses(t *testing.T) {
	m := New()
	m.SetSize(80, 24)
	m.Toggle()

	m, cmd := m.Update(keyRune('?'))
	require.False(t, m.Visible())
	require.NotNil(t, cmd, "expected a close command")
	require.IsType(t, CloseMsg{}, cmd())
}

func TestHelp_EscapeCloses(t *testing.T) {
	m := New()
	m.SetSize(80, 24)
	m.Toggle()

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	require.False(t, m.Visible())
	require.NotNil(t, cmd)
	require.IsType(t, CloseMsg{}, cmd())
}

func TestHelp_UpdateIgnoredWhenHidden(t *testing.T) {
	m := New()
	m.SetSize(80, 24)

	m, cmd := m.Update(keyRune('?'))
	assert.Nil(t, cmd)
	assert.False(t, m.Visible())
}

func TestHelp_SetMarkdownStyle(t *testing.T) {
	m := New()
	m.SetMarkdownStyle("light")
	assert.Equal(t, "light", m.markdownStyle)

	// Empty style keeps the current one
	m.SetMarkdownStyle("")
	assert.Equal(t, "light", m.markdownStyle)

	m.SetSize(80, 24)
	m.Toggle()
	view := stripANSI(m.View())
	assert.Contains(t, view, "Scrolling", "expected light style to render sections")
}

func TestHelp_Overlay_PassthroughWhenHidden(t *testing.T) {
	m := New()
	m.SetSize(80, 24)

	bg := "line one\nline two"
	assert.Equal(t, bg, m.Overlay(bg))
}

func TestHelp_Overlay_CompositesOnBackground(t *testing.T) {
	m := New()
	m.SetSize(80, 24)
	m.Toggle()

	bg := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 80)+"\n", 24), "\n")
	out := m.Overlay(bg)

	require.NotEqual(t, bg, out)
	assert.Contains(t, stripANSI(out), "╭", "expected the box border over the background")
	assert.Contains(t, stripANSI(out), "....", "expected the background to stay visible at the edges")
}
