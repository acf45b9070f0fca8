// Package eventlog provides an in-app debug overlay that shows recent
// engine and source log lines without leaving the TUI. Lines arrive over
// the log broker; the overlay keeps its own bounded history.
package eventlog

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/windrow/internal/log"
	"github.com/zjrosen/windrow/internal/ui/overlay"
	"github.com/zjrosen/windrow/internal/ui/styles"
)

const (
	viewportMaxHeight = 20  // Fixed viewport height in lines
	viewportMinHeight = 5   // Minimum viewport height for very small screens
	boxMaxWidth       = 120 // Maximum box width in characters
	boxMinWidth       = 40  // Minimum box width in characters
	maxBufferLines    = 500 // Retained history; older lines are dropped
)

// CloseMsg is sent when the overlay should be closed.
type CloseMsg struct{}

// Model is the event log overlay component state.
type Model struct {
	visible  bool
	minLevel log.Level
	lines    []string
	width    int
	height   int
	viewport viewport.Model
}

// New creates a new event log overlay model.
func New() Model {
	return Model{
		minLevel: log.LevelDebug,
	}
}

// Append records one log line. When the overlay is visible and scrolled to
// the bottom, it follows the new line.
func (m *Model) Append(line string) {
	line = strings.TrimSuffix(line, "\n")
	if line == "" {
		return
	}

	m.lines = append(m.lines, line)
	if len(m.lines) > maxBufferLines {
		m.lines = m.lines[len(m.lines)-maxBufferLines:]
	}

	if m.visible {
		atBottom := m.viewport.AtBottom()
		offset := m.viewport.YOffset
		m.refreshViewport()
		if atBottom {
			m.viewport.GotoBottom()
		} else {
			m.viewport.SetYOffset(offset)
		}
	}
}

// Update handles messages for the event log overlay.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "c":
			// Clear history
			m.lines = nil
			m.refreshViewport()
			return m, nil

		case "d":
			m.minLevel = log.LevelDebug
			m.refreshViewport()
			return m, nil

		case "i":
			m.minLevel = log.LevelInfo
			m.refreshViewport()
			return m, nil

		case "w":
			m.minLevel = log.LevelWarn
			m.refreshViewport()
			return m, nil

		case "e":
			m.minLevel = log.LevelError
			m.refreshViewport()
			return m, nil

		case "j", "down":
			m.viewport.ScrollDown(1)
			return m, nil

		case "k", "up":
			m.viewport.ScrollUp(1)
			return m, nil

		case "g":
			m.viewport.GotoTop()
			return m, nil

		case "G":
			m.viewport.GotoBottom()
			return m, nil

		case "ctrl+c":
			return m, tea.Quit

		case "ctrl+x", "esc":
			m.visible = false
			return m, func() tea.Msg { return CloseMsg{} }
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.refreshViewport()
	}

	return m, nil
}

// View renders the event log box (standalone, no background).
func (m Model) View() string {
	if !m.visible {
		return ""
	}

	boxWidth := m.boxWidth()
	innerWidth := boxWidth - 2

	dividerStyle := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor)
	divider := dividerStyle.Render(strings.Repeat("─", innerWidth))

	var sb strings.Builder
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(divider)
	sb.WriteString("\n")
	sb.WriteString(m.buildFilterHint())

	boxHeight := m.viewport.Height + 4
	return styles.RenderWithTitleBorder(sb.String(), "Events", boxWidth, boxHeight,
		styles.OverlayTitleColor, styles.OverlayBorderColor)
}

// Overlay renders the event log centered on the given background.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(m.width, m.height, m.View(), bg)
}

// Visible returns whether the overlay is currently visible.
func (m Model) Visible() bool {
	return m.visible
}

// Toggle toggles the overlay visibility.
func (m *Model) Toggle() {
	m.visible = !m.visible
	if m.visible {
		m.refreshViewport()
		m.viewport.GotoBottom()
	}
}

// Hide makes the overlay invisible.
func (m *Model) Hide() {
	m.visible = false
}

// SetSize updates the overlay's knowledge of terminal size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.refreshViewport()
}

// refreshViewport rebuilds the viewport with the current filtered history.
func (m *Model) refreshViewport() {
	if m.width == 0 || m.height == 0 {
		return
	}

	contentWidth := m.boxWidth() - 2

	// Border (2), divider and filter hint (2) are overhead around the viewport
	maxAllowed := m.height - 6
	viewportHeight := min(viewportMaxHeight, maxAllowed)
	viewportHeight = max(viewportHeight, viewportMinHeight)

	m.viewport = viewport.New(contentWidth, viewportHeight)
	m.viewport.SetContent(m.buildContent(contentWidth))
}

// buildContent builds the filtered, colorized history for display.
func (m Model) buildContent(contentWidth int) string {
	filtered := m.filteredLines()

	if len(filtered) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			Italic(true)
		return emptyStyle.Render("No events to display")
	}

	var lines []string
	for _, entry := range filtered {
		lines = append(lines, m.colorizeEntry(entry, contentWidth))
	}
	return strings.Join(lines, "\n")
}

// filteredLines returns history entries matching the current filter level.
func (m Model) filteredLines() []string {
	var filtered []string
	for _, entry := range m.lines {
		if m.matchesLevel(entry) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// matchesLevel checks if a log line matches the current filter level.
// Lines carry their level as a bracketed tag; unknown lines always show.
func (m Model) matchesLevel(entry string) bool {
	var entryLevel log.Level
	switch {
	case strings.Contains(entry, "[ERROR]"):
		entryLevel = log.LevelError
	case strings.Contains(entry, "[WARN]"):
		entryLevel = log.LevelWarn
	case strings.Contains(entry, "[INFO]"):
		entryLevel = log.LevelInfo
	case strings.Contains(entry, "[DEBUG]"):
		entryLevel = log.LevelDebug
	default:
		return true
	}
	return entryLevel >= m.minLevel
}

// colorizeEntry applies color to a log line based on its level.
func (m Model) colorizeEntry(entry string, maxWidth int) string {
	if ansi.StringWidth(entry) > maxWidth {
		entry = ansi.Truncate(entry, maxWidth-3, "...")
	}

	var style lipgloss.Style
	switch {
	case strings.Contains(entry, "[ERROR]"):
		style = lipgloss.NewStyle().Foreground(styles.StatusErrorColor)
	case strings.Contains(entry, "[WARN]"):
		style = lipgloss.NewStyle().Foreground(styles.StatusWarningColor)
	case strings.Contains(entry, "[INFO]"):
		style = lipgloss.NewStyle().Foreground(styles.TextPrimaryColor)
	case strings.Contains(entry, "[DEBUG]"):
		style = lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	default:
		style = lipgloss.NewStyle().Foreground(styles.TextSecondaryColor)
	}

	return style.Render(entry)
}

// buildFilterHint creates the footer hint showing filter options.
// The active filter level is highlighted with bold styling.
func (m Model) buildFilterHint() string {
	hintStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	activeStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimaryColor).
		Bold(true)

	hints := []string{hintStyle.Render("[c] Clear")}

	filters := []struct {
		key   string
		level log.Level
		name  string
	}{
		{"d", log.LevelDebug, "Debug"},
		{"i", log.LevelInfo, "Info"},
		{"w", log.LevelWarn, "Warn"},
		{"e", log.LevelError, "Error"},
	}

	for _, f := range filters {
		label := fmt.Sprintf("[%s] %s", f.key, f.name)
		if m.minLevel == f.level {
			hints = append(hints, activeStyle.Render(label))
		} else {
			hints = append(hints, hintStyle.Render(label))
		}
	}

	return " " + strings.Join(hints, "  ")
}

// boxWidth returns the calculated box width based on screen size.
func (m Model) boxWidth() int {
	return max(min(m.width-4, boxMaxWidth), boxMinWidth)
}
