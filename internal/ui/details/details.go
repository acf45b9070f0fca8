// Package details contains the entry detail overlay.
package details

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/windrow/internal/keys"
	"github.com/zjrosen/windrow/internal/source"
	"github.com/zjrosen/windrow/internal/ui/overlay"
	"github.com/zjrosen/windrow/internal/ui/styles"
)

const (
	boxMaxWidth  = 76 // Maximum box width in characters
	boxMinWidth  = 40 // Minimum box width for very small screens
	boxMaxHeight = 18 // Maximum box height in lines
	boxMinHeight = 8  // Minimum box height in lines
)

// headerLines is the fixed chrome inside the box: title, meta, two
// dividers, and the key hint. The viewport gets whatever is left.
const headerLines = 5

// CloseMsg is sent when the overlay should be closed.
type CloseMsg struct{}

// Model is the detail overlay component state.
type Model struct {
	visible  bool
	entry    source.Entry
	index    int
	loadErr  error
	width    int
	height   int
	viewport viewport.Model
}

// New creates a new detail overlay model.
func New() Model {
	return Model{}
}

// Show displays the overlay for a loaded entry at the given list index.
func (m *Model) Show(entry source.Entry, index int) {
	m.entry = entry
	m.index = index
	m.loadErr = nil
	m.visible = true
	m.refreshViewport()
}

// ShowError displays the overlay in an error state when the entry for the
// given index could not be loaded.
func (m *Model) ShowError(index int, err error) {
	m.entry = source.Entry{}
	m.index = index
	m.loadErr = err
	m.visible = true
	m.refreshViewport()
}

// Hide makes the overlay invisible.
func (m *Model) Hide() {
	m.visible = false
}

// Visible returns whether the overlay is currently visible.
func (m Model) Visible() bool {
	return m.visible
}

// Index returns the list index the overlay was opened for.
func (m Model) Index() int {
	return m.index
}

// SetSize updates the overlay's knowledge of terminal size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.refreshViewport()
}

// Update handles messages for the detail overlay.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Browser.Escape), key.Matches(msg, keys.Browser.Details):
			m.visible = false
			return m, func() tea.Msg { return CloseMsg{} }
		case key.Matches(msg, keys.Browser.Down):
			m.viewport.ScrollDown(1)
			return m, nil
		case key.Matches(msg, keys.Browser.Up):
			m.viewport.ScrollUp(1)
			return m, nil
		case key.Matches(msg, keys.Browser.PageDown):
			m.viewport.ScrollDown(m.viewport.Height)
			return m, nil
		case key.Matches(msg, keys.Browser.PageUp):
			m.viewport.ScrollUp(m.viewport.Height)
			return m, nil
		case key.Matches(msg, keys.Browser.GotoTop):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, keys.Browser.GotoBottom):
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail box (standalone, no background).
func (m Model) View() string {
	if !m.visible {
		return ""
	}

	boxWidth := m.boxWidth()
	innerWidth := boxWidth - 2

	dividerStyle := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor)
	divider := dividerStyle.Render(strings.Repeat("─", innerWidth))

	var sb strings.Builder
	sb.WriteString(m.renderHeader(innerWidth))
	sb.WriteString("\n")
	sb.WriteString(divider)
	sb.WriteString("\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(divider)
	sb.WriteString("\n")
	sb.WriteString(styles.HelpHintStyle.Render(" j/k scroll · esc close"))

	title := fmt.Sprintf("Row %d", m.index+1)
	return styles.RenderWithTitleBorder(sb.String(), title, boxWidth, m.boxHeight(),
		styles.OverlayTitleColor, styles.OverlayBorderColor)
}

// Overlay renders the detail box centered on the given background.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(m.width, m.height, m.View(), bg)
}

// renderHeader renders the title and meta lines above the body viewport.
func (m Model) renderHeader(innerWidth int) string {
	if m.loadErr != nil {
		errStyle := lipgloss.NewStyle().Foreground(styles.StatusErrorColor)
		title := errStyle.Render(styles.TruncateString("failed to load row", innerWidth-1))
		return " " + title + "\n"
	}

	title := styles.RowTitleStyle.Bold(true).Render(
		styles.TruncateString(m.entry.Title, innerWidth-1))

	meta := fmt.Sprintf("%s · id %d · %s",
		styles.CategoryStyle(m.entry.Category).Render(m.entry.Category),
		m.entry.ID,
		m.entry.CreatedAt.Format("2006-01-02 15:04"),
	)

	return " " + title + "\n " + styles.TruncateString(meta, innerWidth-1)
}

// refreshViewport rebuilds the body viewport for the current entry and size.
func (m *Model) refreshViewport() {
	if m.width == 0 || m.height == 0 {
		return
	}

	innerWidth := m.boxWidth() - 2
	viewportHeight := max(m.boxHeight()-2-headerLines, 1)

	m.viewport = viewport.New(innerWidth, viewportHeight)
	m.viewport.SetContent(m.renderBody(innerWidth))
	m.viewport.GotoTop()
}

// renderBody word-wraps the entry body to the box interior.
func (m Model) renderBody(innerWidth int) string {
	if m.loadErr != nil {
		errStyle := lipgloss.NewStyle().Foreground(styles.StatusErrorColor)
		return " " + errStyle.Render(styles.TruncateString(m.loadErr.Error(), innerWidth-2))
	}

	body := m.entry.Body
	if body == "" {
		return " " + styles.EmptyHintStyle.Render("No body")
	}

	wrapped := wordwrap.String(body, innerWidth-2)
	lines := strings.Split(wrapped, "\n")
	for i, line := range lines {
		lines[i] = " " + styles.OverlayBodyStyle.Render(line)
	}
	return strings.Join(lines, "\n")
}

// boxWidth returns the calculated box width based on screen size.
func (m Model) boxWidth() int {
	return max(min(m.width-8, boxMaxWidth), boxMinWidth)
}

// boxHeight returns the calculated box height based on screen size.
func (m Model) boxHeight() int {
	return max(min(m.height-4, boxMaxHeight), boxMinHeight)
}
