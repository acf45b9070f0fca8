package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// fileExporter writes finished spans to a local JSONL file, one object per
// line. It backs the "file" exporter mode, which is the default for poking
// at fetch timings with tail or jq and needs no collector running.
type fileExporter struct {
	mu  sync.Mutex
	f   *os.File
	buf *bufio.Writer
	enc *json.Encoder
}

var errExporterClosed = errors.New("trace file already closed")

// newFileExporter opens path for appending, creating parent directories
// as needed.
func newFileExporter(path string) (*fileExporter, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create trace dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // G304: path cleaned above
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	buf := bufio.NewWriter(f)
	return &fileExporter{f: f, buf: buf, enc: json.NewEncoder(buf)}, nil
}

// ExportSpans encodes the batch and flushes it to disk before returning,
// so a crash loses at most the batch being written.
func (e *fileExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	if len(spans) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.f == nil {
		return errExporterClosed
	}
	for _, s := range spans {
		if err := e.enc.Encode(newSpanLine(s)); err != nil {
			return fmt.Errorf("encode span: %w", err)
		}
	}
	return e.buf.Flush()
}

// Shutdown flushes and closes the file. Later calls are no-ops.
func (e *fileExporter) Shutdown(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.f == nil {
		return nil
	}
	flushErr := e.buf.Flush()
	closeErr := e.f.Close()
	e.f = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// spanLine is the JSONL shape of one span. Keys are kept short so jq
// filters over a long browsing session stay terse.
type spanLine struct {
	Trace  string         `json:"trace"`
	Span   string         `json:"span"`
	Parent string         `json:"parent,omitempty"`
	Name   string         `json:"name"`
	Kind   string         `json:"kind"`
	Start  time.Time      `json:"start"`
	End    time.Time      `json:"end"`
	DurMS  float64        `json:"dur_ms"`
	Status string         `json:"status"`
	Err    string         `json:"err,omitempty"`
	Attrs  map[string]any `json:"attrs,omitempty"`
	Events []spanEvent    `json:"events,omitempty"`
}

type spanEvent struct {
	Name  string         `json:"name"`
	At    time.Time      `json:"at"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

func newSpanLine(s sdktrace.ReadOnlySpan) spanLine {
	sc := s.SpanContext()
	line := spanLine{
		Trace:  sc.TraceID().String(),
		Span:   sc.SpanID().String(),
		Name:   s.Name(),
		Kind:   s.SpanKind().String(),
		Start:  s.StartTime(),
		End:    s.EndTime(),
		DurMS:  float64(s.EndTime().Sub(s.StartTime())) / float64(time.Millisecond),
		Status: statusString(s.Status().Code),
		Err:    s.Status().Description,
		Attrs:  attrMap(s.Attributes()),
	}
	if s.Parent().IsValid() {
		line.Parent = s.Parent().SpanID().String()
	}
	for _, ev := range s.Events() {
		line.Events = append(line.Events, spanEvent{
			Name:  ev.Name,
			At:    ev.Time,
			Attrs: attrMap(ev.Attributes),
		})
	}
	return line
}

func statusString(c codes.Code) string {
	switch c {
	case codes.Ok:
		return "ok"
	case codes.Error:
		return "error"
	default:
		return "unset"
	}
}

// attrMap flattens otel attributes for JSON output. Returns nil for an
// empty set so omitempty drops the key.
func attrMap(kvs []attribute.KeyValue) map[string]any {
	if len(kvs) == 0 {
		return nil
	}
	m := make(map[string]any, len(kvs))
	for _, kv := range kvs {
		m[string(kv.Key)] = kv.Value.AsInterface()
	}
	return m
}
