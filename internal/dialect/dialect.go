// Package dialect isolates the SQL differences between the supported
// database engines: placeholder syntax, column types, the regex operator,
// table listing and connection setup.
//
// Supported URL schemes:
//
//	sqlite://              in-memory SQLite (mattn/go-sqlite3)
//	sqlite:///rel/path.db  file SQLite, relative path
//	sqlite:////abs/path.db file SQLite, absolute path
//	sqlite+modernc:///...  pure-Go SQLite (modernc.org/sqlite), no regex
//	postgres://...         PostgreSQL via pgx
package dialect

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Dialect describes how to talk to one database engine.
type Dialect interface {
	// Name is the configuration name, e.g. "sqlite".
	Name() string
	// DriverName is the database/sql driver to open.
	DriverName() string
	// Placeholder returns the bind marker for the n-th parameter (1-based).
	Placeholder(n int) string
	QuoteIdent(name string) string

	// IDColumn is the column definition of the surrogate key.
	IDColumn() string
	// TextType stores term strings.
	TextType() string
	// StringType is a bounded string column.
	StringType(n int) string

	// ConflictIgnore is appended to INSERT statements so that rows
	// violating a uniqueness constraint are skipped.
	ConflictIgnore() string

	// RegexpFormat returns a format with two %s verbs (column, pattern
	// placeholder). ok is false when the engine has no regex operator.
	RegexpFormat() (format string, ok bool)

	// ListTablesQuery returns the names of all tables visible to the
	// connection.
	ListTablesQuery() string

	// Configure applies pool limits and session settings after open.
	Configure(ctx context.Context, db *sql.DB, opts Options) error
}

// Options are engine-independent connection settings.
type Options struct {
	MaxOpenConns int
	BusyTimeout  time.Duration
}

// FromURL selects a dialect for a database URL and returns the DSN to
// hand to the driver.
func FromURL(raw string) (Dialect, string, error) {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return nil, "", fmt.Errorf("invalid database url %q: missing scheme", raw)
	}

	switch strings.ToLower(scheme) {
	case "sqlite", "sqlite3":
		return SQLite(), sqlitePath(rest), nil
	case "sqlite+modernc":
		return ModerncSQLite(), sqlitePath(rest), nil
	case "postgres", "postgresql", "postgresql+pgx":
		return Postgres(), "postgres://" + rest, nil
	default:
		return nil, "", fmt.Errorf("unsupported database url scheme %q", scheme)
	}
}

// sqlitePath strips the leading slash of the path part, accepting
// "sqlite:///rel.db", "sqlite:////abs.db" and "sqlite://" (memory).
func sqlitePath(rest string) string {
	if rest == "" || rest == "/" {
		return ":memory:"
	}
	return strings.TrimPrefix(rest, "/")
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
