package db

// SQL fragments shared by the history queries.
const (
	// timeFormat is how timestamps are written; SQLite compares them as text.
	timeFormat = "2006-01-02 15:04:05"

	// sqlTimeFilterClause restricts a query to a datetime window.
	sqlTimeFilterClause = "AND timestamp >= datetime('now', ?)"
)
