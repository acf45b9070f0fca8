// Package app contains the root application model. It owns the windowing
// engine, the list browser, and the overlay stack, and routes bubbletea
// messages between them.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/windrow/internal/config"
	"github.com/zjrosen/windrow/internal/keys"
	"github.com/zjrosen/windrow/internal/log"
	"github.com/zjrosen/windrow/internal/pubsub"
	"github.com/zjrosen/windrow/internal/source"
	"github.com/zjrosen/windrow/internal/ui/browser"
	"github.com/zjrosen/windrow/internal/ui/details"
	"github.com/zjrosen/windrow/internal/ui/eventlog"
	"github.com/zjrosen/windrow/internal/ui/help"
	"github.com/zjrosen/windrow/internal/ui/styles"
	"github.com/zjrosen/windrow/internal/window"
)

// categoryBadgeWidth is the fixed column width for category badges in row
// meta lines, wide enough for the longest built-in category name.
const categoryBadgeWidth = 8

// detailsFetchTimeout bounds the single-row fetch behind the details overlay.
const detailsFetchTimeout = 5 * time.Second

// Flusher drops cached blocks so the next fetch hits the underlying store.
// A nil Flusher means there is nothing between the engine and the store.
type Flusher interface {
	Flush(ctx context.Context) error
}

// Config wires the application together.
type Config struct {
	// Cfg is the loaded application configuration.
	Cfg config.Config
	// Source supplies list data to the engine and the details overlay.
	Source window.Source[source.Entry]
	// Flusher is flushed when the watched database file changes. Optional.
	Flusher Flusher
	// Tracer records fetch spans. Optional.
	Tracer trace.Tracer
	// DBPath is the database file to watch for external writes. Empty
	// disables the watcher.
	DBPath string
	// DebugMode enables the event log overlay (Ctrl+X toggle).
	DebugMode bool
}

// entryLoadedMsg carries the result of a details-overlay row fetch.
type entryLoadedMsg struct {
	index int
	entry source.Entry
	err   error
}

// Model is the root application state.
type Model struct {
	cfg       config.Config
	src       window.Source[source.Entry]
	flusher   Flusher
	tracer    trace.Tracer
	debugMode bool

	// Global state
	width  int
	height int

	// Engine and list view. The engine is rebuilt on every terminal resize
	// because viewport geometry is part of its configuration; the broker is
	// owned here so listeners survive rebuilds.
	broker  *window.Broker
	list    *window.List[source.Entry]
	browser browser.Model

	// Overlays
	details  details.Model
	help     help.Model
	eventLog eventlog.Model

	// Event stream lifecycle
	listenCancel  context.CancelFunc
	noticeStream  *pubsub.Stream[window.Notice]
	logStream     *log.Stream
	watcher       *source.Watcher
	watcherStream *pubsub.Stream[source.WatchEvent]
}

// New creates the application model. The engine itself is not built until
// the first WindowSizeMsg arrives with real terminal dimensions.
func New(cfg Config) Model {
	listenCtx, listenCancel := context.WithCancel(context.Background())

	broker := pubsub.NewBroker[window.Notice]()

	var (
		watcherHandle *source.Watcher
		watcherStream *pubsub.Stream[source.WatchEvent]
	)
	if cfg.Cfg.Follow.Enabled && cfg.DBPath != "" {
		wcfg := source.DefaultWatchConfig(cfg.DBPath)
		if cfg.Cfg.Follow.Debounce > 0 {
			wcfg.Debounce = cfg.Cfg.Follow.Debounce
		}
		// Silently ignore watcher init errors - browsing works without follow.
		if w, err := source.NewWatcher(wcfg); err == nil {
			if err := w.Start(); err == nil {
				watcherHandle = w
				watcherStream = pubsub.NewStream(listenCtx, w.Broker())
			} else {
				_ = w.Stop()
			}
		}
	}

	var logStream *log.Stream
	if cfg.DebugMode {
		logStream = log.NewStream(listenCtx)
	}

	helpModel := help.New()
	helpModel.SetMarkdownStyle(cfg.Cfg.UI.MarkdownStyle)

	return Model{
		cfg:           cfg.Cfg,
		src:           cfg.Source,
		flusher:       cfg.Flusher,
		tracer:        cfg.Tracer,
		debugMode:     cfg.DebugMode,
		broker:        broker,
		browser:       browser.New(nil),
		details:       details.New(),
		help:          helpModel,
		eventLog:      eventlog.New(),
		listenCancel:  listenCancel,
		noticeStream:  pubsub.NewStream(listenCtx, broker),
		logStream:     logStream,
		watcher:       watcherHandle,
		watcherStream: watcherStream,
	}
}

// Init implements tea.Model and arms the event streams.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.noticeStream.Next()}
	if m.watcherStream != nil {
		cmds = append(cmds, m.watcherStream.Next())
	}
	if m.logStream != nil {
		cmds = append(cmds, m.logStream.Next())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model and routes messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m = m.rebuildEngine(msg.Width, msg.Height)
		m.details.SetSize(msg.Width, msg.Height)
		m.help.SetSize(msg.Width, msg.Height)
		m.eventLog.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case log.Event:
		m.eventLog.Append(msg.Payload)
		if m.logStream != nil {
			return m, m.logStream.Next()
		}
		return m, nil

	case pubsub.Event[window.Notice]:
		var cmd tea.Cmd
		m.browser, cmd = m.browser.Update(msg)
		return m, tea.Batch(cmd, m.noticeStream.Next())

	case pubsub.Event[source.WatchEvent]:
		return m.handleWatchEvent(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case browser.OpenDetailsMsg:
		return m, m.loadEntry(msg.Index)

	case entryLoadedMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatFetch, "Details load failed", msg.err, "index", msg.index)
			m.details.ShowError(msg.index, msg.err)
			return m, nil
		}
		m.details.Show(msg.entry, msg.index)
		return m, nil

	case details.CloseMsg:
		m.details.Hide()
		return m, nil

	case help.CloseMsg:
		m.help.Hide()
		return m, nil

	case eventlog.CloseMsg:
		m.eventLog.Hide()
		return m, nil
	}

	var cmd tea.Cmd
	m.browser, cmd = m.browser.Update(msg)
	return m, cmd
}

// handleKeyMsg routes keyboard input. Visible overlays take the keyboard;
// everything else goes to the browser.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The event log toggle works from anywhere in debug mode.
	if m.debugMode && key.Matches(msg, keys.Browser.EventLog) {
		m.eventLog.Toggle()
		return m, nil
	}

	if m.eventLog.Visible() {
		var cmd tea.Cmd
		m.eventLog, cmd = m.eventLog.Update(msg)
		return m, cmd
	}
	if m.details.Visible() {
		var cmd tea.Cmd
		m.details, cmd = m.details.Update(msg)
		return m, cmd
	}
	if m.help.Visible() {
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.Browser.Help):
		m.help.Toggle()
		return m, nil

	case key.Matches(msg, keys.Browser.Quit):
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.browser, cmd = m.browser.Update(msg)
	return m, cmd
}

// handleMouseMsg routes mouse input. The details overlay scrolls with the
// wheel; the other overlays ignore the mouse and swallow it while visible.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.eventLog.Visible() || m.help.Visible() {
		return m, nil
	}
	if m.details.Visible() {
		var cmd tea.Cmd
		m.details, cmd = m.details.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.browser, cmd = m.browser.Update(msg)
	return m, cmd
}

// handleWatchEvent reacts to database file changes: flush cached blocks so
// the refresh sees fresh data, then re-issue the current window.
func (m Model) handleWatchEvent(ev pubsub.Event[source.WatchEvent]) (tea.Model, tea.Cmd) {
	var rearm tea.Cmd
	if m.watcherStream != nil {
		rearm = m.watcherStream.Next()
	}

	switch ev.Payload.Type {
	case source.SourceChanged:
		log.Info(log.CatWatch, "Source changed, refreshing window", "path", ev.Payload.Path)
		if m.flusher != nil {
			if err := m.flusher.Flush(context.Background()); err != nil {
				log.Warn(log.CatCache, "Cache flush failed", "error", err)
			}
		}
		if m.list != nil {
			m.list.Refresh()
		}

	case source.WatchFailed:
		log.Warn(log.CatWatch, "Watcher error", "error", ev.Payload.Err)
	}

	return m, rearm
}

// rebuildEngine replaces the windowing engine with one sized to the new
// terminal dimensions, carrying the viewport position and selection over.
// The shared broker keeps notice listeners subscribed across the swap.
func (m Model) rebuildEngine(width, height int) Model {
	prevOffset := m.browser.Offset()
	prevSelected := m.browser.Selected()
	prevTotal := 0
	if m.list != nil {
		prevTotal = m.list.Surface().TotalRows()
	}

	contentWidth := browser.ContentWidth(width)
	viewportHeight := browser.ViewportHeight(height)

	lst, err := window.New(window.Config[source.Entry]{
		Width:        contentWidth,
		Height:       viewportHeight,
		RowHeight:    m.cfg.List.RowHeight,
		Rows:         entryRenderer(contentWidth),
		Source:       m.src,
		Overscan:     m.cfg.List.Overscan,
		Debounce:     m.cfg.List.Debounce,
		ReapEvery:    m.cfg.List.ReapEvery,
		QuietAfter:   m.cfg.List.QuietAfter,
		FetchTimeout: m.cfg.List.FetchTimeout,
		Broker:       m.broker,
		Tracer:       m.tracer,
	})
	if err != nil {
		log.ErrorErr(log.CatEngine, "Engine rebuild failed", err, "width", width, "height", height)
		m.browser = m.browser.SetSize(width, height)
		return m
	}

	if m.list != nil {
		_ = m.list.Close()
	}
	m.list = lst
	m.list.Start()
	if prevTotal > 0 {
		m.list.SetTotalRows(prevTotal)
	}

	// Scrolling back to the old offset reports the restored position to the
	// new engine, which fetches there once the scroll settles.
	m.browser = browser.New(m.list).
		SetChrome(m.cfg.UI.ShowStatusBar, m.cfg.UI.ShowScrollbar).
		SetSize(width, height).
		ScrollTo(prevOffset).
		Select(prevSelected)
	return m
}

// loadEntry fetches a single row for the details overlay.
func (m Model) loadEntry(index int) tea.Cmd {
	src := m.src
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), detailsFetchTimeout)
		defer cancel()

		batch, err := src.Fetch(ctx, index, 1)
		if err != nil {
			return entryLoadedMsg{index: index, err: err}
		}
		if len(batch.Items) == 0 {
			return entryLoadedMsg{index: index, err: fmt.Errorf("row %d is out of range", index)}
		}
		return entryLoadedMsg{index: index, entry: batch.Items[0]}
	}
}

// entryRenderer returns the row renderer for entries at the given content
// width: a title line over a meta line with a category badge. The engine
// clips the result to the configured row height.
func entryRenderer(width int) window.RowFunc[source.Entry] {
	return func(e source.Entry, _ int) string {
		title := styles.RowTitleStyle.Render(styles.TruncateString(e.Title, width))
		meta := styles.FormatCategory(e.Category, categoryBadgeWidth) + " " +
			styles.RowMetaStyle.Render(fmt.Sprintf("%s · id %d", e.CreatedAt.Format("2006-01-02"), e.ID))
		return title + "\n" + meta
	}
}

// View implements tea.Model and renders the browser with any visible
// overlays composited on top.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	view := m.browser.View()
	view = m.details.Overlay(view)
	view = m.help.Overlay(view)
	if m.debugMode && m.eventLog.Visible() {
		view = m.eventLog.Overlay(view)
	}

	return zone.Scan(view)
}

// Close stops the engine, the watcher, and the event listeners. Called once
// after the program exits.
func (m *Model) Close() {
	m.listenCancel()
	if m.list != nil {
		_ = m.list.Close()
	}
	if m.watcher != nil {
		_ = m.watcher.Stop()
	}
	m.broker.Close()
}
