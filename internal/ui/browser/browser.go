// Package browser renders the scrolling entry list on top of the windowing
// engine. It owns the viewport offset and the selection cursor, reports
// every offset change to the engine, and draws whatever rows the engine has
// materialized, with placeholders for indices that are still in flight.
package browser

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/windrow/internal/keys"
	"github.com/zjrosen/windrow/internal/pubsub"
	"github.com/zjrosen/windrow/internal/source"
	"github.com/zjrosen/windrow/internal/ui/styles"
	"github.com/zjrosen/windrow/internal/window"
)

// Layout constants
const (
	gutterWidth      = 2 // selection bar plus one space
	scrollbarWidth   = 1
	statusBarLines   = 1
	wheelScrollCells = 3 // cells scrolled per wheel notch
)

// ContentWidth returns the width left for row content inside a browser of
// the given total width. The engine should render rows at this width so
// lines meet the scrollbar column exactly.
func ContentWidth(width int) int {
	return max(0, width-gutterWidth-scrollbarWidth)
}

// ViewportHeight returns the cell height left for rows inside a browser of
// the given total height. The engine viewport should be sized to match.
func ViewportHeight(height int) int {
	return max(0, height-statusBarLines)
}

// spinnerFrames defines the braille spinner animation sequence.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// SpinnerTickMsg advances the spinner frame.
type SpinnerTickMsg struct{}

// OpenDetailsMsg asks the application to open the details overlay for the
// entry at the given logical index.
type OpenDetailsMsg struct {
	Index int
}

// Model is the scrolling list view. It holds presentation state only; row
// content, totals, and the scrollable extent all come from the engine's
// surface on every render.
type Model struct {
	list *window.List[source.Entry]

	width  int
	height int

	offset   int // first visible cell
	selected int // logical row index under the cursor

	showStatusBar bool
	showScrollbar bool

	fetching     bool
	spinnerFrame int
	applied      window.Window // most recently mounted window
	fetchErr     error
}

// New creates a browser bound to a windowing engine.
func New(list *window.List[source.Entry]) Model {
	return Model{list: list, showStatusBar: true, showScrollbar: true}
}

// SetChrome toggles the status bar and the scrollbar column. Hidden chrome
// still reserves its cells so row geometry stays stable across toggles.
func (m Model) SetChrome(statusBar, scrollbar bool) Model {
	m.showStatusBar = statusBar
	m.showScrollbar = scrollbar
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetSize updates the component dimensions and keeps the viewport in range.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m.scrollTo(m.offset)
}

// Offset returns the current viewport offset in cells.
func (m Model) Offset() int {
	return m.offset
}

// Selected returns the logical index of the row under the cursor.
func (m Model) Selected() int {
	return m.selected
}

// Fetching reports whether a fetch is currently in flight.
func (m Model) Fetching() bool {
	return m.fetching
}

// ScrollTo scrolls the viewport to the given cell offset.
func (m Model) ScrollTo(offset int) Model {
	return m.scrollTo(offset)
}

// Select moves the cursor to the given logical row and scrolls it into view.
func (m Model) Select(index int) Model {
	total := m.totalRows()
	if total == 0 {
		return m
	}
	index = max(index, 0)
	index = min(index, total-1)
	m.selected = index
	return m.ensureSelectedVisible()
}

// spinnerTick returns a command that sends SpinnerTickMsg after 80ms.
func spinnerTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return SpinnerTickMsg{}
	})
}

// Update implements tea.Model and handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SpinnerTickMsg:
		if !m.fetching {
			return m, nil
		}
		m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerFrames)
		return m, spinnerTick()

	case pubsub.Event[window.Notice]:
		return m.handleNotice(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	}

	return m, nil
}

// handleNotice reacts to engine lifecycle events: the spinner follows the
// fetch cycle and totals changes re-clamp the viewport.
func (m Model) handleNotice(ev pubsub.Event[window.Notice]) (Model, tea.Cmd) {
	switch ev.Type {
	case window.NoticeFetchStarted:
		wasFetching := m.fetching
		m.fetching = true
		m.fetchErr = nil
		if !wasFetching {
			return m, spinnerTick()
		}

	case window.NoticeApplied:
		m.fetching = false
		m.fetchErr = nil
		m.applied = ev.Payload.Window
		return m.clampToContent(), nil

	case window.NoticeFetchFailed:
		m.fetching = false
		m.fetchErr = ev.Payload.Err

	case window.NoticeTotalChanged:
		return m.clampToContent(), nil
	}

	return m, nil
}

// handleKeyMsg processes keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Browser.Down):
		return m.moveSelection(1), nil

	case key.Matches(msg, keys.Browser.Up):
		return m.moveSelection(-1), nil

	case key.Matches(msg, keys.Browser.PageDown):
		return m.moveSelection(m.screenRows()), nil

	case key.Matches(msg, keys.Browser.PageUp):
		return m.moveSelection(-m.screenRows()), nil

	case key.Matches(msg, keys.Browser.GotoTop):
		m.selected = 0
		return m.scrollTo(0), nil

	case key.Matches(msg, keys.Browser.GotoBottom):
		total := m.totalRows()
		if total == 0 {
			return m, nil
		}
		m.selected = total - 1
		return m.ensureSelectedVisible(), nil

	case key.Matches(msg, keys.Browser.Details):
		if m.totalRows() == 0 {
			return m, nil
		}
		return m, openDetails(m.selected)

	case key.Matches(msg, keys.Browser.Refresh):
		if m.list != nil {
			m.list.Refresh()
		}
		return m, nil
	}

	return m, nil
}

// handleMouseMsg processes mouse input for row clicks and wheel scrolling.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (Model, tea.Cmd) {
	// Only handle left-click release events for zone selection
	if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease {
		first, last := m.visibleRowRange()
		for i := first; i <= last; i++ {
			if z := zone.Get(rowZoneID(i)); z != nil && z.InBounds(msg) {
				m.selected = i
				return m, nil
			}
		}
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m = m.scrollTo(m.offset - wheelScrollCells)
	case tea.MouseButtonWheelDown:
		m = m.scrollTo(m.offset + wheelScrollCells)
	default:
		return m, nil
	}

	return m.dragSelectionIntoView(), nil
}

// openDetails returns a command that asks the app to open the details view.
func openDetails(index int) tea.Cmd {
	return func() tea.Msg {
		return OpenDetailsMsg{Index: index}
	}
}

// moveSelection moves the cursor by delta rows, respecting bounds, and
// scrolls the viewport to keep it visible.
func (m Model) moveSelection(delta int) Model {
	total := m.totalRows()
	if total == 0 {
		return m
	}
	next := m.selected + delta
	next = max(next, 0)
	next = min(next, total-1)
	m.selected = next
	return m.ensureSelectedVisible()
}

// ensureSelectedVisible adjusts the offset so every cell of the selected
// row is on screen. When the row is taller than the viewport its top wins.
func (m Model) ensureSelectedVisible() Model {
	rh := m.rowHeight()
	top := m.selected * rh
	bottom := top + rh

	offset := m.offset
	if bottom > offset+m.viewportHeight() {
		offset = bottom - m.viewportHeight()
	}
	if top < offset {
		offset = top
	}
	return m.scrollTo(offset)
}

// dragSelectionIntoView pulls the cursor along when wheel scrolling pushes
// it off screen.
func (m Model) dragSelectionIntoView() Model {
	first, last := m.visibleRowRange()
	if last < first {
		return m
	}
	selected := m.selected
	selected = max(selected, first)
	selected = min(selected, last)
	m.selected = selected
	return m
}

// scrollTo clamps the offset and reports it to the engine. Unchanged
// offsets are not reported so the settle timer is only reset by real moves.
func (m Model) scrollTo(offset int) Model {
	offset = max(offset, 0)
	offset = min(offset, m.maxOffset())
	if offset == m.offset {
		return m
	}
	m.offset = offset
	if m.list != nil {
		m.list.Scroll(offset)
	}
	return m
}

// clampToContent re-clamps cursor and offset after the total row count
// changed underneath the viewport.
func (m Model) clampToContent() Model {
	total := m.totalRows()
	if total == 0 {
		m.selected = 0
		return m.scrollTo(0)
	}
	m.selected = min(m.selected, total-1)
	return m.scrollTo(m.offset)
}

// visibleRowRange returns the first and last logical row index with at
// least one cell inside the viewport. Returns (0, -1) for an empty list.
func (m Model) visibleRowRange() (first, last int) {
	total := m.totalRows()
	vh := m.viewportHeight()
	if total == 0 || vh <= 0 {
		return 0, -1
	}
	rh := m.rowHeight()
	first = m.offset / rh
	last = (m.offset + vh - 1) / rh
	last = min(last, total-1)
	first = min(first, last)
	return first, last
}

// screenRows returns how many whole rows fit in the viewport, at least one.
func (m Model) screenRows() int {
	rows := m.viewportHeight() / m.rowHeight()
	return max(rows, 1)
}

// viewportHeight returns the cell height available for rows.
func (m Model) viewportHeight() int {
	return ViewportHeight(m.height)
}

func (m Model) maxOffset() int {
	return max(m.extent()-m.viewportHeight(), 0)
}

func (m Model) rowHeight() int {
	if m.list == nil {
		return 1
	}
	return m.list.Surface().RowHeight()
}

func (m Model) totalRows() int {
	if m.list == nil {
		return 0
	}
	return m.list.Surface().TotalRows()
}

func (m Model) extent() int {
	if m.list == nil {
		return 0
	}
	return m.list.Surface().Extent()
}

// View renders the viewport, the scrollbar column, and the status bar.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	vh := m.viewportHeight()
	if vh <= 0 {
		return m.renderStatusBar()
	}
	lines := m.renderViewport(vh)
	return strings.Join(lines, "\n") + "\n" + m.renderStatusBar()
}

// renderViewport produces exactly vh display lines: row blocks clipped to
// the viewport, blank fill past the end of the list, and the scrollbar
// column on the right.
func (m Model) renderViewport(vh int) []string {
	contentWidth := ContentWidth(m.width)
	rh := m.rowHeight()

	var live map[int]window.Row
	if m.list != nil {
		rows := m.list.Surface().Viewport(m.offset, vh)
		live = make(map[int]window.Row, len(rows))
		for _, r := range rows {
			live[r.Index] = r
		}
	}

	out := make([]string, 0, vh)
	first, last := m.visibleRowRange()
	for idx := first; idx <= last; idx++ {
		top := idx * rh
		visFrom := max(0, m.offset-top)
		visTo := min(rh, m.offset+vh-top)
		if visTo <= visFrom {
			continue
		}
		block := m.renderRowBlock(idx, live, contentWidth, visFrom, visTo)
		out = append(out, strings.Split(block, "\n")...)
	}

	blank := strings.Repeat(" ", gutterWidth+contentWidth)
	for len(out) < vh {
		out = append(out, blank)
	}

	if !m.showScrollbar {
		for y := range out {
			out[y] += " "
		}
		return out
	}
	barLines := strings.Split(RenderScrollbar(ScrollbarConfig{
		Extent:         m.extent(),
		ViewportHeight: vh,
		Offset:         m.offset,
	}), "\n")
	for y := range out {
		if y < len(barLines) {
			out[y] += barLines[y]
		}
	}
	return out
}

// renderRowBlock renders the visible lines [visFrom, visTo) of one logical
// row, padded to contentWidth and wrapped in a mouse zone. Rows the engine
// has not materialized yet render as a single ellipsis placeholder.
func (m Model) renderRowBlock(idx int, live map[int]window.Row, contentWidth, visFrom, visTo int) string {
	row, ok := live[idx]

	gutter := "  "
	if idx == m.selected {
		gutter = styles.SelectionBarStyle.Render("▌") + " "
	}

	lines := make([]string, 0, visTo-visFrom)
	for i := visFrom; i < visTo; i++ {
		var content string
		switch {
		case ok && i < len(row.Lines):
			content = row.Lines[i]
		case i == visFrom:
			content = styles.PlaceholderStyle.Render("…")
		}
		if pad := contentWidth - ansi.StringWidth(content); pad > 0 {
			content += strings.Repeat(" ", pad)
		}
		lines = append(lines, gutter+content)
	}
	return zone.Mark(rowZoneID(idx), strings.Join(lines, "\n"))
}

// renderStatusBar renders the single status line under the viewport. A
// hidden status bar keeps its line as blank cells.
func (m Model) renderStatusBar() string {
	if !m.showStatusBar {
		return strings.Repeat(" ", max(m.width, 0))
	}
	total := m.totalRows()

	var b strings.Builder
	if total == 0 {
		b.WriteString("no rows")
	} else {
		fmt.Fprintf(&b, "row %d of %d", m.selected+1, total)
	}
	if !m.applied.IsZero() {
		fmt.Fprintf(&b, " · window %d–%d", m.applied.From, m.applied.End())
	}
	fmt.Fprintf(&b, " · offset %d", m.offset)

	if m.fetchErr != nil {
		b.WriteString(" · fetch failed: ")
		b.WriteString(m.fetchErr.Error())
		return styles.StatusBarWarnStyle.Width(m.width).Render(b.String())
	}
	if m.fetching {
		b.WriteString(" · ")
		b.WriteString(styles.SpinnerStyle.Render(spinnerFrames[m.spinnerFrame]))
		b.WriteString(" fetching")
	}
	return styles.StatusBarStyle.Width(m.width).Render(b.String())
}
