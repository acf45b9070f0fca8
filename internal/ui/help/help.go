// Package help contains the keybinding help overlay.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/zjrosen/windrow/internal/keys"
	"github.com/zjrosen/windrow/internal/ui/overlay"
	"github.com/zjrosen/windrow/internal/ui/styles"
)

const (
	boxMaxWidth = 48 // Maximum box width in characters
	boxMinWidth = 40 // Minimum box width for very small screens
)

// noMarginStyle is a glamour style override that removes document margins,
// so the rendered help sits flush against the box border.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// sectionTitles names the binding groups returned by FullHelp, in order.
var sectionTitles = []string{"Scrolling", "Actions", "General"}

// CloseMsg is sent when the overlay should be closed.
type CloseMsg struct{}

// Model is the help overlay component state.
type Model struct {
	visible       bool
	markdownStyle string // "dark" or "light"
	width         int
	height        int
}

// New creates a new help overlay model.
func New() Model {
	return Model{markdownStyle: "dark"}
}

// SetMarkdownStyle sets the glamour style used for rendering.
func (m *Model) SetMarkdownStyle(style string) {
	if style != "" {
		m.markdownStyle = style
	}
}

// SetSize updates the overlay's knowledge of terminal size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Toggle toggles the overlay visibility.
func (m *Model) Toggle() {
	m.visible = !m.visible
}

// Hide makes the overlay invisible.
func (m *Model) Hide() {
	m.visible = false
}

// Visible returns whether the overlay is currently visible.
func (m Model) Visible() bool {
	return m.visible
}

// Update handles messages for the help overlay.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Browser.Help), key.Matches(msg, keys.Browser.Escape):
			m.visible = false
			return m, func() tea.Msg { return CloseMsg{} }
		}
	}

	return m, nil
}

// View renders the help box (standalone, no background).
func (m Model) View() string {
	if !m.visible {
		return ""
	}

	boxWidth := m.boxWidth()
	innerWidth := boxWidth - 2

	body := strings.TrimRight(m.renderDoc(innerWidth-2), "\n")
	content := body + "\n" + styles.HelpHintStyle.Render(" ? or esc to close")

	contentLines := strings.Count(content, "\n") + 1
	boxHeight := min(contentLines+2, max(m.height-2, 3))

	return styles.RenderWithTitleBorder(content, "Help", boxWidth, boxHeight,
		styles.OverlayTitleColor, styles.OverlayBorderColor)
}

// Overlay renders the help box centered on the given background.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(m.width, m.height, m.View(), bg)
}

// buildDoc assembles the keybinding reference as a markdown document.
func (m Model) buildDoc() string {
	var sb strings.Builder
	for i, group := range keys.Browser.FullHelp() {
		if i < len(sectionTitles) {
			sb.WriteString("## " + sectionTitles[i] + "\n\n")
		}
		for _, b := range group {
			if !b.Enabled() {
				continue
			}
			h := b.Help()
			sb.WriteString(fmt.Sprintf("- `%s` %s\n", h.Key, h.Desc))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderDoc renders the markdown document through glamour. Falls back to
// the raw markdown if rendering fails.
// Uses an explicit style instead of WithAutoStyle(): auto detection queries
// the terminal background and the OSC response leaks into the input stream.
func (m Model) renderDoc(wrapWidth int) string {
	doc := m.buildDoc()

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(m.markdownStyle),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return doc
	}

	out, err := r.Render(doc)
	if err != nil {
		return doc
	}
	return out
}

// boxWidth returns the calculated box width based on screen size.
func (m Model) boxWidth() int {
	return max(min(m.width-8, boxMaxWidth), boxMinWidth)
}
