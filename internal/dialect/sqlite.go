package dialect

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sync"

	"github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// sqliteRegexpDriver is mattn/go-sqlite3 with a regexp(pattern, value)
// function installed on every connection, backing the REGEXP operator.
const sqliteRegexpDriver = "sqlite3_rdf"

func init() {
	sql.Register(sqliteRegexpDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("regexp", sqliteRegexp, true)
		},
	})
}

var compiledPatterns sync.Map

func sqliteRegexp(pattern, value string) (bool, error) {
	if re, ok := compiledPatterns.Load(pattern); ok {
		return re.(*regexp.Regexp).MatchString(value), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, err
	}
	compiledPatterns.Store(pattern, re)
	return re.MatchString(value), nil
}

type sqliteDialect struct {
	name   string
	driver string
	regexp bool
}

// SQLite is the default dialect, backed by mattn/go-sqlite3.
func SQLite() Dialect {
	return sqliteDialect{name: "sqlite", driver: sqliteRegexpDriver, regexp: true}
}

// ModerncSQLite is the pure-Go SQLite engine. It has no regex operator.
func ModerncSQLite() Dialect {
	return sqliteDialect{name: "sqlite+modernc", driver: "sqlite"}
}

func (d sqliteDialect) Name() string                { return d.name }
func (d sqliteDialect) DriverName() string          { return d.driver }
func (sqliteDialect) Placeholder(int) string        { return "?" }
func (sqliteDialect) QuoteIdent(name string) string { return quoteIdent(name) }
func (sqliteDialect) IDColumn() string              { return "INTEGER NOT NULL PRIMARY KEY" }
func (sqliteDialect) TextType() string              { return "TEXT" }
func (sqliteDialect) StringType(n int) string       { return fmt.Sprintf("VARCHAR(%d)", n) }
func (sqliteDialect) ConflictIgnore() string        { return " ON CONFLICT DO NOTHING" }

func (d sqliteDialect) RegexpFormat() (string, bool) {
	if !d.regexp {
		return "", false
	}
	return "%s REGEXP %s", true
}

func (sqliteDialect) ListTablesQuery() string {
	return "SELECT name FROM sqlite_master WHERE type = 'table'"
}

// Configure limits the pool to one connection (SQLite has a single
// writer, and an in-memory database lives on one connection) and applies
// session pragmas.
func (sqliteDialect) Configure(ctx context.Context, db *sql.DB, opts Options) error {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	busy := opts.BusyTimeout.Milliseconds()
	if busy <= 0 {
		busy = 5000
	}
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", busy),
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}
