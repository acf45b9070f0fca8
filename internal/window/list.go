package window

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/windrow/internal/log"
	"github.com/zjrosen/windrow/internal/pubsub"
	"github.com/zjrosen/windrow/internal/tracing"
)

// Tuning defaults. Overriding them shifts fetch frequency and cleanup
// latency; the defaults match the behavior the engine was tuned for.
const (
	DefaultWidth      = 80
	DefaultHeight     = 24
	DefaultOverscan   = 3
	DefaultDebounce   = 200 * time.Millisecond
	DefaultReapEvery  = 300 * time.Millisecond
	DefaultQuietAfter = 100 * time.Millisecond
)

// Config holds list construction options.
type Config[T any] struct {
	// Width and Height are the viewport dimensions in cells.
	// Default 80x24 when zero.
	Width  int
	Height int

	// RowHeight is the uniform height of one row in cells. Required.
	RowHeight int

	// Rows renders one item. Required.
	Rows RowFunc[T]

	// Source supplies list data. Required.
	Source Source[T]

	// Overscan multiplies the rows-per-viewport count to size the fetched
	// window; the extra rows absorb small scroll deltas without refetching.
	// Default 3.
	Overscan int

	// Debounce is how long scrolling must pause before a settled position is
	// evaluated. Default 200ms.
	Debounce time.Duration

	// ReapEvery is the sweep period for obsolete rows. Default 300ms.
	ReapEvery time.Duration

	// QuietAfter is how long scrolling must have been idle before a sweep
	// may run. Default 100ms.
	QuietAfter time.Duration

	// FetchTimeout bounds the context passed to Source.Fetch.
	// Zero (the default) imposes no timeout: a source that never returns
	// leaves the last-rendered window frozen, matching the engine's
	// documented failure behavior.
	FetchTimeout time.Duration

	// Broker receives lifecycle notices. One is created (and owned) by the
	// list when nil.
	Broker *pubsub.Broker[Notice]

	// Tracer records a span per fetch. Noop when nil.
	Tracer trace.Tracer
}

func (c *Config[T]) validate() error {
	if c.RowHeight <= 0 {
		return fmt.Errorf("%w: row height must be positive, got %d", ErrInvalidConfig, c.RowHeight)
	}
	if c.Rows == nil {
		return fmt.Errorf("%w: row renderer is required", ErrInvalidConfig)
	}
	if c.Source == nil {
		return fmt.Errorf("%w: source is required", ErrInvalidConfig)
	}
	if c.Overscan < 0 {
		return fmt.Errorf("%w: overscan must not be negative, got %d", ErrInvalidConfig, c.Overscan)
	}
	for _, d := range []struct {
		name string
		val  time.Duration
	}{
		{"debounce", c.Debounce},
		{"reap interval", c.ReapEvery},
		{"quiet threshold", c.QuietAfter},
		{"fetch timeout", c.FetchTimeout},
	} {
		if d.val < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidConfig, d.name, d.val)
		}
	}
	return nil
}

func (c *Config[T]) applyDefaults() {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.Overscan == 0 {
		c.Overscan = DefaultOverscan
	}
	if c.Debounce == 0 {
		c.Debounce = DefaultDebounce
	}
	if c.ReapEvery == 0 {
		c.ReapEvery = DefaultReapEvery
	}
	if c.QuietAfter == 0 {
		c.QuietAfter = DefaultQuietAfter
	}
}

// fetchResult carries one finished fetch back into the engine loop.
type fetchResult[T any] struct {
	window Window
	batch  Batch[T]
	err    error
	id     string
}

// List is a windowed view over a logical list served by a Source.
//
// One goroutine (the loop) owns the scheduler, the settle gate, and all
// surface mutations; raw scroll events, fetch results, reaper ticks, and
// refreshes are funneled into it over channels. Fetches run in their own
// goroutine, so the loop stays responsive while a source call is slow.
type List[T any] struct {
	cfg        Config[T]
	surface    *Surface
	factory    rowFactory[T]
	sched      scheduler
	gate       settleGate
	windowSize int
	current    Window // last launched window; loop-confined

	offset     atomic.Int64 // latest raw scroll offset
	lastScroll atomic.Int64 // unix nanos of the latest raw scroll event

	ping    chan struct{}
	results chan fetchResult[T]
	refresh chan struct{}
	done    chan struct{}
	stopped chan struct{}

	startOnce sync.Once
	closeOnce sync.Once
	started   atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc

	events    *pubsub.Broker[Notice]
	ownBroker bool
	tracer    trace.Tracer
}

// New validates cfg and builds a list. No goroutine or timer exists until
// Start.
func New[T any](cfg Config[T]) (*List[T], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	events := cfg.Broker
	ownBroker := false
	if events == nil {
		events = pubsub.NewBroker[Notice]()
		ownBroker = true
	}

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("windrow/window")
	}

	ctx, cancel := context.WithCancel(context.Background())

	l := &List[T]{
		cfg:        cfg,
		surface:    NewSurface(cfg.RowHeight),
		factory:    rowFactory[T]{rowHeight: cfg.RowHeight, width: cfg.Width, fn: cfg.Rows},
		gate:       newSettleGate(cfg.Height, cfg.RowHeight),
		windowSize: cfg.Overscan * screenful(cfg.Height, cfg.RowHeight),
		ping:       make(chan struct{}, 1),
		results:    make(chan fetchResult[T], 1),
		refresh:    make(chan struct{}, 1),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
		events:     events,
		ownBroker:  ownBroker,
		tracer:     tracer,
	}
	return l, nil
}

// Start launches the engine loop and requests the initial window at index 0.
func (l *List[T]) Start() {
	l.startOnce.Do(func() {
		select {
		case <-l.done:
			return
		default:
		}
		l.started.Store(true)
		go l.loop()
	})
}

// Scroll feeds one raw scroll event. Called from any goroutine; the engine
// debounces internally, so callers should report every offset change.
func (l *List[T]) Scroll(offset int) {
	l.lastScroll.Store(time.Now().UnixNano())
	l.offset.Store(int64(offset))
	select {
	case l.ping <- struct{}{}:
	default:
	}
}

// SetTotalRows recomputes the scrollable extent for a new authoritative list
// length, outside the fetch cycle.
func (l *List[T]) SetTotalRows(n int) {
	l.surface.SetTotalRows(n)
	l.events.Publish(NoticeTotalChanged, Notice{Total: l.surface.TotalRows()})
}

// Refresh re-issues the most recently launched window, picking up source
// changes without moving the viewport.
func (l *List[T]) Refresh() {
	select {
	case l.refresh <- struct{}{}:
	default:
	}
}

// Surface returns the row surface for rendering.
func (l *List[T]) Surface() *Surface {
	return l.surface
}

// Events returns the notice broker.
func (l *List[T]) Events() *pubsub.Broker[Notice] {
	return l.events
}

// WindowSize returns the row count fetched per window.
func (l *List[T]) WindowSize() int {
	return l.windowSize
}

// Close stops the loop, the settle timer, and the reaper ticker, and cancels
// the context handed to in-flight fetches; a result arriving after close is
// discarded. Idempotent.
func (l *List[T]) Close() error {
	l.closeOnce.Do(func() {
		close(l.done)
		l.cancel()
		if l.started.Load() {
			<-l.stopped
		}
		if l.ownBroker {
			l.events.Close()
		}
	})
	return nil
}

// loop is the engine's single event loop. All scheduler transitions and
// surface mutations happen here.
func (l *List[T]) loop() {
	defer close(l.stopped)

	reap := time.NewTicker(l.cfg.ReapEvery)
	defer reap.Stop()

	var settle *time.Timer
	defer func() {
		if settle != nil {
			settle.Stop()
		}
	}()

	l.request(0)

	for {
		select {
		case <-l.ping:
			// Reset or start the settle timer so a burst of scroll events
			// collapses into its last position.
			if settle == nil {
				settle = time.NewTimer(l.cfg.Debounce)
			} else {
				if !settle.Stop() {
					select {
					case <-settle.C:
					default:
					}
				}
				settle.Reset(l.cfg.Debounce)
			}

		case <-func() <-chan time.Time {
			if settle != nil {
				return settle.C
			}
			return nil
		}():
			if from, ok := l.gate.accept(int(l.offset.Load())); ok {
				l.request(from)
			}

		case res := <-l.results:
			l.complete(res)

		case <-reap.C:
			l.reap()

		case <-l.refresh:
			l.request(l.current.From)

		case <-l.done:
			return
		}
	}
}

// request runs the scheduler for a desired window start, launching a fetch
// when the machine allows one.
func (l *List[T]) request(from int) {
	if !l.sched.request(from) {
		log.Debug(log.CatEngine, "Window queued behind in-flight fetch", "from", from)
		return
	}
	l.launch(from)
}

// launch issues the single in-flight fetch for [from, from+windowSize).
func (l *List[T]) launch(from int) {
	w := Window{From: from, Count: l.windowSize}
	l.current = w
	id := uuid.NewString()

	l.events.Publish(NoticeFetchStarted, Notice{Window: w, RequestID: id})
	log.Debug(log.CatFetch, "Fetch started", "requestID", id, "from", w.From, "count", w.Count)

	go func() {
		ctx := l.ctx
		if l.cfg.FetchTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, l.cfg.FetchTimeout)
			defer cancel()
		}

		ctx, span := l.tracer.Start(ctx, tracing.SpanFetch,
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(
				attribute.Int(tracing.AttrWindowFrom, w.From),
				attribute.Int(tracing.AttrWindowCount, w.Count),
				attribute.String(tracing.AttrRequestID, id),
			),
		)
		defer span.End()

		batch, err := l.cfg.Source.Fetch(ctx, w.From, w.Count)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(
				attribute.Int(tracing.AttrRowsReturned, len(batch.Items)),
				attribute.Int(tracing.AttrTotalRows, batch.Total),
			)
			span.SetStatus(codes.Ok, "")
		}

		select {
		case l.results <- fetchResult[T]{window: w, batch: batch, err: err, id: id}:
		case <-l.done:
			// Shut down while the fetch was in flight; drop the result.
		}
	}()
}

// complete applies one finished fetch: update the total, build the new batch
// off-surface, supersede everything mounted, mount the batch in one
// operation, then launch the pending window if one accumulated.
func (l *List[T]) complete(res fetchResult[T]) {
	if res.err != nil {
		log.ErrorErr(log.CatFetch, "Fetch failed", res.err,
			"requestID", res.id, "from", res.window.From, "count", res.window.Count)
		l.events.Publish(NoticeFetchFailed, Notice{Window: res.window, RequestID: res.id, Err: res.err})

		if from, next := l.sched.complete(); next {
			l.launch(from)
		}
		return
	}

	l.surface.SetTotalRows(res.batch.Total)

	batch := make([]Row, 0, len(res.batch.Items))
	for i, item := range res.batch.Items {
		batch = append(batch, l.factory.row(item, res.window.From+i))
	}

	l.surface.MarkAllObsolete()
	l.surface.Mount(batch)

	l.events.Publish(NoticeApplied, Notice{
		Window:    res.window,
		Total:     res.batch.Total,
		RequestID: res.id,
	})
	log.Debug(log.CatEngine, "Window applied",
		"requestID", res.id, "from", res.window.From, "rows", len(batch), "total", res.batch.Total)

	if from, next := l.sched.complete(); next {
		l.launch(from)
	}
}

// reap removes obsolete rows once scrolling has been quiet long enough.
func (l *List[T]) reap() {
	if last := l.lastScroll.Load(); last != 0 {
		if time.Since(time.Unix(0, last)) < l.cfg.QuietAfter {
			return
		}
	}
	if removed := l.surface.Sweep(); removed > 0 {
		l.events.Publish(NoticeReaped, Notice{Removed: removed})
		log.Debug(log.CatEngine, "Reaped obsolete rows", "removed", removed)
	}
}
