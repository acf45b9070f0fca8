// Package log is windrow's debug logger. Lines land in a file as
// `timestamp [LEVEL] [category] msg k=v` and are republished on a broker
// so the in-app event log can tail them. Until Init runs the package-level
// helpers are no-ops, which is how non-debug runs stay silent.
package log

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/windrow/internal/pubsub"
)

// Level labels a line's severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// Category names the subsystem a line came from.
type Category string

const (
	CatEngine Category = "engine" // windowing engine loop and scheduler
	CatFetch  Category = "fetch"  // data-source fetches
	CatSource Category = "source" // source construction and seeding
	CatDB     Category = "db"     // SQLite operations
	CatCache  Category = "cache"  // cached-source blocks and flushes
	CatWatch  Category = "watch"  // file watcher events
	CatConfig Category = "config" // configuration loading/saving
	CatUI     Category = "ui"     // UI component updates
	CatTrace  Category = "trace"  // tracing provider lifecycle
)

// entryEvent is the pubsub event type for published log lines.
const entryEvent pubsub.EventType = "log.entry"

// logger owns the log file and the broker lines fan out on.
type logger struct {
	mu     sync.Mutex
	f      *os.File
	broker *pubsub.Broker[string]
}

var (
	global   *logger
	initOnce sync.Once
)

// Init opens path through tea.LogToFile so stray stdlib log output lands
// in the same file while Bubble Tea owns the terminal. Repeat calls reuse
// the first file. The returned func closes it.
func Init(path string) (func(), error) {
	var err error
	initOnce.Do(func() {
		var f *os.File
		f, err = tea.LogToFile(path, "windrow")
		if err != nil {
			return
		}
		global = &logger{f: f, broker: pubsub.NewBroker[string]()}
	})
	if err != nil {
		return nil, err
	}
	if global == nil {
		return nil, errors.New("log init previously failed")
	}
	return func() { _ = global.f.Close() }, nil
}

// Debug writes a debug line.
func Debug(cat Category, msg string, fields ...any) { emit(LevelDebug, cat, msg, fields) }

// Info writes an info line.
func Info(cat Category, msg string, fields ...any) { emit(LevelInfo, cat, msg, fields) }

// Warn writes a warning line.
func Warn(cat Category, msg string, fields ...any) { emit(LevelWarn, cat, msg, fields) }

// Error writes an error line.
func Error(cat Category, msg string, fields ...any) { emit(LevelError, cat, msg, fields) }

// ErrorErr logs err under an "error" field.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	val := "<nil>"
	if err != nil {
		val = err.Error()
	}
	emit(LevelError, cat, msg, append(fields, "error", val))
}

func emit(level Level, cat Category, msg string, fields []any) {
	l := global
	if l == nil {
		return
	}
	line := formatLine(time.Now(), level, cat, msg, fields)

	l.mu.Lock()
	_, _ = l.f.WriteString(line)
	// Publish under the lock so the overlay sees lines in file order.
	l.broker.Publish(entryEvent, line)
	l.mu.Unlock()
}

// formatLine renders `timestamp [LEVEL] [category] msg k=v`. An odd
// trailing key gets "<missing>" so malformed call sites still show up.
func formatLine(now time.Time, level Level, cat Category, msg string, fields []any) string {
	var b strings.Builder
	b.WriteString(now.Format("2006-01-02T15:04:05"))
	fmt.Fprintf(&b, " [%s] [%s] %s", level, cat, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
	}
	if len(fields)%2 == 1 {
		fmt.Fprintf(&b, " %v=<missing>", fields[len(fields)-1])
	}
	b.WriteByte('\n')
	return b.String()
}

// Event carries one formatted log line.
type Event = pubsub.Event[string]

// Stream delivers log lines into a tea update loop.
type Stream = pubsub.Stream[string]

// NewStream subscribes to log lines until ctx is cancelled. Returns nil
// when logging was never initialized.
func NewStream(ctx context.Context) *Stream {
	if global == nil {
		return nil
	}
	return pubsub.NewStream(ctx, global.broker)
}
