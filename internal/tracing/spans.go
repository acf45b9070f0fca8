package tracing

// Span attribute keys shared across fetch and source spans.
const (
	// Window attributes
	AttrWindowFrom   = "window.from"
	AttrWindowCount  = "window.count"
	AttrRequestID    = "window.request_id"
	AttrRowsReturned = "window.rows_returned"
	AttrTotalRows    = "window.total_rows"

	// Source attributes
	AttrSourceKind = "source.kind"
	AttrDBPath     = "db.path"
	AttrDBTable    = "db.table"
	AttrCacheHit   = "cache.hit"
	AttrCacheKey   = "cache.key"
)

// Span names.
const (
	SpanFetch       = "window.fetch"
	SpanSourceQuery = "source.query"
	SpanSourceCount = "source.count"
)
