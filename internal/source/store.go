package source

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/windrow/internal/log"
	"github.com/zjrosen/windrow/internal/tracing"
	"github.com/zjrosen/windrow/internal/window"
)

// DefaultTable is the entries table name used when none is configured.
const DefaultTable = "entries"

// Schema creates the entries table. Seed applies it; reads assume it exists.
const Schema = `
CREATE TABLE IF NOT EXISTS entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	body TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// EntryStore serves windows of entries from a SQLite database. The connection
// is read-only; seeding goes through Seed.
type EntryStore struct {
	db     *sql.DB
	dbPath string
	table  string
	tracer trace.Tracer
}

// Open connects to the entries database read-only. An empty table name
// selects DefaultTable.
func Open(dbPath, table string) (*EntryStore, error) {
	if table == "" {
		table = DefaultTable
	}
	if !validTableName(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	log.Debug(log.CatDB, "Opening database", "path", dbPath, "table", table)
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?mode=ro")
	if err != nil {
		log.ErrorErr(log.CatDB, "Failed to open database", err, "path", dbPath)
		return nil, err
	}
	// Verify connection works
	if err := db.Ping(); err != nil {
		log.ErrorErr(log.CatDB, "Failed to ping database", err, "path", dbPath)
		_ = db.Close()
		return nil, err
	}
	log.Info(log.CatDB, "Connected to database", "path", dbPath)

	return &EntryStore{
		db:     db,
		dbPath: dbPath,
		table:  table,
		tracer: otel.Tracer("windrow/source"),
	}, nil
}

// Close closes the database connection.
func (s *EntryStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *EntryStore) DB() *sql.DB {
	return s.db
}

// Fetch returns the entries in [from, from+count) ordered by id, plus the
// table's current row count as the authoritative total.
func (s *EntryStore) Fetch(ctx context.Context, from, count int) (window.Batch[Entry], error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanSourceQuery,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(tracing.AttrSourceKind, "sqlite"),
			attribute.String(tracing.AttrDBPath, s.dbPath),
			attribute.String(tracing.AttrDBTable, s.table),
			attribute.Int(tracing.AttrWindowFrom, from),
			attribute.Int(tracing.AttrWindowCount, count),
		),
	)
	defer span.End()

	if from < 0 {
		from = 0
	}
	if count < 0 {
		count = 0
	}

	//nolint:gosec // G201: table is validated against identifier characters in Open
	query := fmt.Sprintf(
		`SELECT id, title, category, body, created_at FROM %s ORDER BY id LIMIT ? OFFSET ?`,
		s.table,
	)
	rows, err := s.db.QueryContext(ctx, query, count, from)
	if err != nil {
		log.ErrorErr(log.CatDB, "Window query failed", err, "from", from, "count", count)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return window.Batch[Entry]{}, fmt.Errorf("query entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Title, &e.Category, &e.Body, &e.CreatedAt); err != nil {
			log.ErrorErr(log.CatDB, "Window scan failed", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return window.Batch[Entry]{}, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return window.Batch[Entry]{}, fmt.Errorf("iterate entries: %w", err)
	}

	total, err := s.count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return window.Batch[Entry]{}, err
	}

	span.SetAttributes(
		attribute.Int(tracing.AttrRowsReturned, len(entries)),
		attribute.Int(tracing.AttrTotalRows, total),
	)
	span.SetStatus(codes.Ok, "")

	return window.Batch[Entry]{Items: entries, Total: total}, nil
}

// count returns the table's row count.
func (s *EntryStore) count(ctx context.Context) (int, error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanSourceCount,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String(tracing.AttrDBTable, s.table)),
	)
	defer span.End()

	//nolint:gosec // G201: table is validated against identifier characters in Open
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.table)

	var total int
	if err := s.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		log.ErrorErr(log.CatDB, "Count query failed", err, "table", s.table)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("count entries: %w", err)
	}

	span.SetAttributes(attribute.Int(tracing.AttrTotalRows, total))
	span.SetStatus(codes.Ok, "")
	return total, nil
}

// Seed creates the entries schema at dbPath and inserts the given entries.
// Existing rows are kept; ids are assigned by the database.
func Seed(dbPath string, entries []Entry) error {
	db, err := sql.Open("sqlite3", "file:"+dbPath)
	if err != nil {
		return fmt.Errorf("open database for seeding: %w", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("create entries schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(
		`INSERT INTO entries (title, category, body, created_at) VALUES (?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare seed insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range entries {
		if _, err := stmt.Exec(e.Title, e.Category, e.Body, e.CreatedAt); err != nil {
			return fmt.Errorf("insert entry %q: %w", e.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}

	log.Info(log.CatDB, "Seeded database", "path", dbPath, "entries", len(entries))
	return nil
}

// validTableName permits identifier characters only, which is what makes the
// fmt.Sprintf query construction above safe.
func validTableName(name string) bool {
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return name != ""
}
