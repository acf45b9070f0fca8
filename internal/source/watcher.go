package source

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/windrow/internal/log"
	"github.com/zjrosen/windrow/internal/pubsub"
)

// WatchKind classifies watcher events.
type WatchKind string

const (
	// SourceChanged means the watched file was written and cached blocks
	// should be flushed.
	SourceChanged WatchKind = "source.changed"
	// WatchFailed carries a filesystem watch error. Watching continues.
	WatchFailed WatchKind = "watch.failed"
)

// WatchEvent is the payload published on the watcher's broker.
type WatchEvent struct {
	Type WatchKind
	Path string
	Err  error
}

// WatchConfig holds watcher options.
type WatchConfig struct {
	// Path is the file to watch. The watch is installed on its directory
	// so replace-by-rename and WAL writes are both seen.
	Path string
	// Debounce coalesces bursts of writes into one event.
	Debounce time.Duration
}

// DefaultWatchConfig returns sensible defaults for watching path.
func DefaultWatchConfig(path string) WatchConfig {
	return WatchConfig{
		Path:     path,
		Debounce: 1 * time.Second,
	}
}

// Watcher monitors the source database file and publishes debounced change
// events on its broker.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	debounce  time.Duration
	broker    *pubsub.Broker[WatchEvent]
	done      chan struct{}
}

// NewWatcher creates a watcher for the file named in cfg.
func NewWatcher(cfg WatchConfig) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		path:      cfg.Path,
		debounce:  cfg.Debounce,
		broker:    pubsub.NewBroker[WatchEvent](),
		done:      make(chan struct{}),
	}, nil
}

// Broker exposes the event stream. Subscribe before Start to avoid missing
// the first change.
func (w *Watcher) Broker() *pubsub.Broker[WatchEvent] {
	return w.broker
}

// Start begins watching the directory containing the source file.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}

	log.Debug(log.CatWatch, "Watching for source changes", "path", w.path, "debounce", w.debounce)
	go w.loop()

	return nil
}

// Stop terminates the watcher and closes its broker.
func (w *Watcher) Stop() error {
	close(w.done)
	err := w.fsWatcher.Close()
	w.broker.Close()
	return err
}

// loop turns raw filesystem events into debounced change notices. The timer
// starts quiescent; every matching event pushes the quiet period out again,
// and only its expiry publishes.
func (w *Watcher) loop() {
	debounce := time.NewTimer(w.debounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.matches(event) {
				continue
			}
			if !debounce.Stop() {
				select {
				case <-debounce.C:
				default:
				}
			}
			debounce.Reset(w.debounce)

		case <-debounce.C:
			log.Debug(log.CatWatch, "Source changed", "path", w.path)
			w.broker.Publish(pubsub.EventType(SourceChanged), WatchEvent{
				Type: SourceChanged,
				Path: w.path,
			})

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warn(log.CatWatch, "Watch error", "error", err)
			w.broker.Publish(pubsub.EventType(WatchFailed), WatchEvent{
				Type: WatchFailed,
				Path: w.path,
				Err:  err,
			})

		case <-w.done:
			return
		}
	}
}

// matches reports whether event touches the watched file or its WAL sibling.
// Create counts because SQLite spawns the -wal file fresh and editors replace
// files wholesale.
func (w *Watcher) matches(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	name := filepath.Base(event.Name)
	want := filepath.Base(w.path)
	return name == want || name == want+"-wal"
}
