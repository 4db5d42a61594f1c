package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/rdfsql/internal/codec"
	"github.com/roach88/rdfsql/internal/config"
	"github.com/roach88/rdfsql/internal/dialect"
	"github.com/roach88/rdfsql/internal/planner"
	"github.com/roach88/rdfsql/internal/queryir"
	"github.com/roach88/rdfsql/internal/querysql"
	"github.com/roach88/rdfsql/internal/schema"
)

// State is the result of verifying a store's tables.
type State int

const (
	// StateValid means all five tables exist.
	StateValid State = 1
	// StateCorrupted means some but not all tables exist.
	StateCorrupted State = 0
	// StateNoStore means none of the tables exist.
	StateNoStore State = -1
)

func (s State) String() string {
	switch s {
	case StateValid:
		return "valid"
	case StateCorrupted:
		return "corrupted"
	case StateNoStore:
		return "no-store"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Store is one logical triple store inside a database.
//
// A Store is safe for concurrent use to the extent the database is; it
// holds no locks of its own apart from the term cache.
type Store struct {
	identifier string
	tables     schema.Tables
	planner    *planner.Planner
	cache      *codec.Cache
	logger     *slog.Logger
	opts       options

	db       *sql.DB
	dialect  dialect.Dialect
	compiler *querysql.SQLCompiler
}

type options struct {
	logger        *slog.Logger
	stronglyTyped bool
	maxChoices    int
}

// Option configures a Store.
type Option func(*options)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithStronglyTyped restricts regex object searches to the literal
// partition.
func WithStronglyTyped(v bool) Option {
	return func(o *options) { o.stronglyTyped = v }
}

// WithMaxChoices bounds the Choices list length per query.
func WithMaxChoices(n int) Option {
	return func(o *options) { o.maxChoices = n }
}

// New creates a store for identifier. An empty identifier selects
// schema.DefaultIdentifier. The store is unusable until Open succeeds.
func New(identifier string, opts ...Option) *Store {
	o := options{maxChoices: planner.DefaultMaxChoices}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if identifier == "" {
		identifier = schema.DefaultIdentifier
	}

	tables := schema.ForIdentifier(identifier)
	return &Store{
		identifier: identifier,
		tables:     tables,
		planner:    planner.New(tables, planner.Options{StronglyTyped: o.stronglyTyped, MaxChoices: o.maxChoices}),
		cache:      codec.NewCache(),
		logger:     o.logger.With("store", tables.InternedID),
		opts:       o,
	}
}

// OpenConfig builds and opens a store from a loaded configuration.
func OpenConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, State, error) {
	s := New(cfg.Identifier,
		WithLogger(logger),
		WithStronglyTyped(cfg.StronglyTypedTerms),
		WithMaxChoices(cfg.MaxChoices),
	)
	state, err := s.Open(ctx, cfg.Database, cfg.Create)
	if err != nil {
		return nil, state, err
	}
	return s, state, nil
}

// Identifier returns the logical store identifier.
func (s *Store) Identifier() string { return s.identifier }

// Tables returns the physical table names.
func (s *Store) Tables() schema.Tables { return s.tables }

// Dialect returns the dialect of the open connection, or nil.
func (s *Store) Dialect() dialect.Dialect { return s.dialect }

// Open connects to the database and verifies the store's tables. With
// create set, missing tables are created and the returned state is
// StateValid. Without it, any state other than StateValid is returned
// together with a STORE_STATE error.
func (s *Store) Open(ctx context.Context, cfg config.Database, create bool) (State, error) {
	d, dsn, err := dialect.FromURL(cfg.URL)
	if err != nil {
		return StateNoStore, fmt.Errorf("open: %w", err)
	}

	s.logger.Info("opening database", "dialect", d.Name(), "identifier", s.identifier)

	db, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return StateNoStore, fmt.Errorf("failed to open database: %w", err)
	}
	if err := d.Configure(ctx, db, cfg.Options()); err != nil {
		db.Close()
		return StateNoStore, fmt.Errorf("failed to configure database: %w", err)
	}

	s.db = db
	s.dialect = d
	s.compiler = querysql.NewSQLCompiler(d)

	state, err := s.Verify(ctx)
	if err != nil {
		s.Close()
		return StateNoStore, err
	}

	if state == StateValid {
		return state, nil
	}
	if !create {
		s.Close()
		return state, newError(ErrCodeStoreState, "open", fmt.Sprintf("store %s is %s", s.tables.InternedID, state), nil)
	}

	if err := s.createTables(ctx); err != nil {
		s.Close()
		return state, err
	}
	return StateValid, nil
}

// Verify reports which of the store's tables exist.
func (s *Store) Verify(ctx context.Context) (State, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.ListTablesQuery())
	if err != nil {
		return StateNoStore, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	present := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return StateNoStore, fmt.Errorf("scan table name: %w", err)
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return StateNoStore, fmt.Errorf("iterate tables: %w", err)
	}

	found := 0
	for _, name := range s.tables.Names() {
		if present[name] {
			found++
		}
	}
	switch found {
	case len(s.tables.Names()):
		return StateValid, nil
	case 0:
		return StateNoStore, nil
	default:
		return StateCorrupted, nil
	}
}

func (s *Store) createTables(ctx context.Context) error {
	return s.withTx(ctx, "create", func(tx *sql.Tx) error {
		for _, stmt := range schema.CreateStatements(s.dialect, s.tables) {
			s.logger.Debug("exec", "sql", stmt)
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("create schema: %w", err)
			}
		}
		return nil
	})
}

// Close closes the database connection. It is safe to call on a store
// that was never opened.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Destroy drops all five tables of the store.
func (s *Store) Destroy(ctx context.Context) error {
	if err := s.ready("destroy"); err != nil {
		return err
	}
	s.logger.Info("destroying store", "identifier", s.identifier)
	return s.withTx(ctx, "destroy", func(tx *sql.Tx) error {
		for _, stmt := range schema.DropStatements(s.dialect, s.tables) {
			s.logger.Debug("exec", "sql", stmt)
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("drop table: %w", err)
			}
		}
		return nil
	})
}

// CacheStats returns the hit and miss counts of the term cache.
func (s *Store) CacheStats() codec.CacheStats {
	return s.cache.Stats()
}

func (s *Store) ready(op string) error {
	if s.db == nil {
		return newError(ErrCodeStoreState, op, "store is not open", nil)
	}
	return nil
}

// withTx runs fn inside one transaction. Any error rolls the transaction
// back; database errors are returned as TRANSACTION_FAILURE.
func (s *Store) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return newError(ErrCodeTransactionFailure, op, "begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		s.logger.Error("transaction rolled back", "op", op, "error", err)
		var se *Error
		if classified := classify(op, err); errors.As(classified, &se) {
			return classified
		}
		return newError(ErrCodeTransactionFailure, op, "transaction rolled back", err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", "op", op, "error", err)
		return newError(ErrCodeTransactionFailure, op, "commit", err)
	}
	return nil
}

// compile renders q and logs it at debug level.
func (s *Store) compile(op string, q queryir.Query) (string, []any, error) {
	sqlText, params, err := s.compiler.Compile(q)
	if err != nil {
		return "", nil, classify(op, err)
	}
	s.logger.Debug("compiled", "op", op, "sql", sqlText, "params", len(params))
	return sqlText, params, nil
}

// queryer is the read surface shared by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// execer is the write surface shared by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) exec(ctx context.Context, e execer, op string, q queryir.Query) (int64, error) {
	sqlText, params, err := s.compile(op, q)
	if err != nil {
		return 0, err
	}
	res, err := e.ExecContext(ctx, sqlText, params...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: rows affected: %w", op, err)
	}
	return n, nil
}
