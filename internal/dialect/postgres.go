package dialect

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type postgresDialect struct{}

// Postgres targets PostgreSQL through the pgx stdlib driver.
func Postgres() Dialect { return postgresDialect{} }

func (postgresDialect) Name() string                  { return "postgres" }
func (postgresDialect) DriverName() string            { return "pgx" }
func (postgresDialect) Placeholder(n int) string      { return "$" + strconv.Itoa(n) }
func (postgresDialect) QuoteIdent(name string) string { return quoteIdent(name) }
func (postgresDialect) IDColumn() string              { return "SERIAL NOT NULL PRIMARY KEY" }
func (postgresDialect) TextType() string              { return "TEXT" }
func (postgresDialect) StringType(n int) string       { return fmt.Sprintf("VARCHAR(%d)", n) }
func (postgresDialect) ConflictIgnore() string        { return " ON CONFLICT DO NOTHING" }
func (postgresDialect) RegexpFormat() (string, bool)  { return "%s ~ %s", true }

func (postgresDialect) ListTablesQuery() string {
	return "SELECT tablename FROM pg_catalog.pg_tables WHERE schemaname = current_schema()"
}

func (postgresDialect) Configure(ctx context.Context, db *sql.DB, opts Options) error {
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	return db.PingContext(ctx)
}
