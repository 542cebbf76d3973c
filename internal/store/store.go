// Package store persists authors, papers and authorships in SQLite.
//
// All reads and writes go through a Tx obtained from Store.Do. The
// transaction is committed when the callback returns nil and rolled back on
// error or panic, so a batch of writes is applied atomically.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/agentstation/papertrail/internal/store/migrations"
	"github.com/agentstation/papertrail/pkg/constants"
	"github.com/agentstation/papertrail/pkg/errors"
	"github.com/agentstation/papertrail/pkg/logging"
)

// Memory opens a private in-memory database.
const Memory = ":memory:"

const driverName = "sqlite3"

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is a SQLite database holding the paper catalog.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path and applies pending
// migrations. Use Memory for a throwaway database.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != Memory {
		if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
			return nil, errors.WrapIO("create", filepath.Dir(path), err)
		}
	}

	db, err := sql.Open(driverName, dsn(path))
	if err != nil {
		return nil, errors.WrapResource("open", "store", path, err)
	}
	// SQLite has a single writer, and an in-memory database only lives as
	// long as its one connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.WrapResource("open", "store", path, err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func dsn(path string) string {
	return path + "?_foreign_keys=1&_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
}

func (s *Store) migrate(ctx context.Context) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db, migrations.FS)
	if err != nil {
		return errors.WrapResource("migrate", "store", s.path, err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return errors.WrapResource("migrate", "store", s.path, err)
	}
	for _, r := range results {
		logging.Ctx(ctx).Debug().
			Int64("version", r.Source.Version).
			Dur("duration", r.Duration).
			Msg("Applied migration")
	}
	return nil
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Do runs fn inside a transaction.
func (s *Store) Do(ctx context.Context, fn func(tx *Tx) error) (err error) {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapResource("begin", "transaction", "", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = sqlTx.Rollback()
			return
		}
		if cerr := sqlTx.Commit(); cerr != nil {
			err = errors.WrapResource("commit", "transaction", "", cerr)
		}
	}()

	return fn(&Tx{q: sqlTx})
}

// Tx is an open transaction. It is only valid inside the Do callback.
type Tx struct {
	q querier
}

// Authors returns the author repository bound to this transaction.
func (tx *Tx) Authors() *AuthorStore {
	return &AuthorStore{q: tx.q}
}

// Papers returns the paper repository bound to this transaction.
func (tx *Tx) Papers() *PaperStore {
	return &PaperStore{q: tx.q}
}

// exec runs a built statement.
func exec(ctx context.Context, q querier, b sq.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	return q.ExecContext(ctx, query, args...)
}

// query runs a built select.
func query(ctx context.Context, q querier, b sq.Sqlizer) (*sql.Rows, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	return q.QueryContext(ctx, query, args...)
}

// scanRow runs a built select expected to return one row and scans it
// into dest.
func scanRow(ctx context.Context, q querier, b sq.Sqlizer, dest ...any) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	return q.QueryRowContext(ctx, query, args...).Scan(dest...)
}

func exists(ctx context.Context, q querier, table, id string) (bool, error) {
	sub := sq.Select("1").From(table).Where(sq.Eq{"id": id})
	var found bool
	err := scanRow(ctx, q, sq.Select().Column(sq.Expr("EXISTS(?)", sub)), &found)
	return found, err
}

func count(ctx context.Context, q querier, b sq.SelectBuilder) (int, error) {
	var n int
	err := scanRow(ctx, q, b, &n)
	return n, err
}

func isConstraint(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.Code == sqlite3.ErrConstraint
}
