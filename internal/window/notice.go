package window

import "github.com/zjrosen/windrow/internal/pubsub"

// Event types published on the engine broker.
const (
	// NoticeFetchStarted: a fetch was issued for Notice.Window.
	NoticeFetchStarted pubsub.EventType = "window.fetch.started"
	// NoticeApplied: a fetch completed and its rows are mounted.
	NoticeApplied pubsub.EventType = "window.applied"
	// NoticeFetchFailed: the source returned an error; nothing was mounted.
	NoticeFetchFailed pubsub.EventType = "window.fetch.failed"
	// NoticeTotalChanged: SetTotalRows was called from outside a fetch.
	NoticeTotalChanged pubsub.EventType = "window.total.changed"
	// NoticeReaped: the reaper removed obsolete rows.
	NoticeReaped pubsub.EventType = "window.reaped"
)

// Notice is the payload carried by engine events. Fields are set per kind:
// Window and RequestID for fetch lifecycle events, Total when a total is
// known, Removed for reap sweeps, Err for failures.
type Notice struct {
	Window    Window
	Total     int
	Removed   int
	RequestID string
	Err       error
}

// Broker is the engine's notice broker type.
type Broker = pubsub.Broker[Notice]

// Event is one delivered engine notice.
type Event = pubsub.Event[Notice]
