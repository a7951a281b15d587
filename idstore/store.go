// Package idstore keeps a persistent registry of UUIDs in MySQL, SQLite or
// an embedded Pebble key-value store.
//
// Rows are keyed by (scope, id). A scope groups the identifiers of one
// kind of entity, such as "order" or "invoice". Ids are stored as the
// 16-byte big-endian form, so the database orders them exactly as
// fquuid.Compare does and v7 ids list in creation order.
//
// Usage:
//
//	store, err := idstore.Open(ctx, idstore.Config{Dialect: idstore.SQLite, DSN: "ids.db"})
//	if err != nil { ... }
//	defer store.Close()
//	if err := store.Init(ctx); err != nil { ... }
//	id, err := store.Allocate(ctx, "order")
//
// KVStore offers the same operations over Pebble for processes that do
// not run a SQL database.
package idstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/juju/clock"

	"github.com/Lzww0608/fquuid"
)

var (
	// ErrDuplicate is returned by Put when (scope, id) is already stored.
	ErrDuplicate = errors.New("idstore: duplicate id")

	// ErrNotFound is returned by Delete when (scope, id) is not stored.
	ErrNotFound = errors.New("idstore: id not found")

	// ErrNilID is returned when the nil UUID is passed for storage.
	ErrNilID = errors.New("idstore: nil id")

	// ErrInvalidScope is returned for an empty or over-long scope, or one
	// containing NUL.
	ErrInvalidScope = errors.New("idstore: invalid scope")
)

// maxAttempts bounds how often Allocate regenerates after a collision.
const maxAttempts = 3

// Store is a registry of identifiers backed by a *sql.DB. It is safe for
// concurrent use when its Source is.
type Store struct {
	db      *sql.DB
	dialect Dialect
	table   string
	ownsDB  bool

	clock  clock.Clock
	gen    *fquuid.Generator
	logger *slog.Logger
}

// New wraps an open database. The caller keeps ownership of db; Close
// does not close it.
func New(db *sql.DB, dialect Dialect, opts ...Option) (*Store, error) {
	if !dialect.valid() {
		return nil, fmt.Errorf("idstore: unknown dialect %q", dialect)
	}
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Store{
		db:      db,
		dialect: dialect,
		table:   o.table,
		clock:   o.clock,
		gen:     o.generator(),
		logger:  o.logger.With("component", "idstore", "table", o.table),
	}, nil
}

// Init creates the table if it does not exist.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.schema(s.table)); err != nil {
		return fmt.Errorf("idstore: init: %w", err)
	}
	s.logger.Debug("schema ready", "dialect", string(s.dialect))
	return nil
}

// Close releases the database if the Store opened it.
func (s *Store) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying database.
func (s *Store) DB() *sql.DB { return s.db }

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Put stores id under scope. It returns ErrDuplicate if the pair exists.
func (s *Store) Put(ctx context.Context, scope string, id fquuid.UUID) error {
	return s.put(ctx, s.db, scope, id)
}

func (s *Store) put(ctx context.Context, e execer, scope string, id fquuid.UUID) error {
	if err := checkScope(scope); err != nil {
		return err
	}
	if id.IsNil() {
		return ErrNilID
	}
	_, err := e.ExecContext(ctx,
		"INSERT INTO "+s.table+" (scope, id, created_at) VALUES (?, ?, ?)",
		scope, id.Bytes(), s.clock.Now().UnixMilli())
	if err != nil {
		if s.dialect.isDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("idstore: put: %w", err)
	}
	return nil
}

// Has reports whether id is stored under scope.
func (s *Store) Has(ctx context.Context, scope string, id fquuid.UUID) (bool, error) {
	if err := checkScope(scope); err != nil {
		return false, err
	}
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM "+s.table+" WHERE scope = ? AND id = ?",
		scope, id.Bytes()).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("idstore: has: %w", err)
	}
	return true, nil
}

// Delete removes id from scope. It returns ErrNotFound if it was absent.
func (s *Store) Delete(ctx context.Context, scope string, id fquuid.UUID) error {
	if err := checkScope(scope); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM "+s.table+" WHERE scope = ? AND id = ?",
		scope, id.Bytes())
	if err != nil {
		return fmt.Errorf("idstore: delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("idstore: delete: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of ids stored under scope.
func (s *Store) Count(ctx context.Context, scope string) (int64, error) {
	if err := checkScope(scope); err != nil {
		return 0, err
	}
	var n int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+s.table+" WHERE scope = ?", scope).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("idstore: count: %w", err)
	}
	return n, nil
}

// List returns up to limit ids of scope that sort after the given id, in
// ascending order. Pass fquuid.Nil to start from the beginning and the
// last id of a page to fetch the next.
func (s *Store) List(ctx context.Context, scope string, after fquuid.UUID, limit int) ([]fquuid.UUID, error) {
	if limit <= 0 {
		return nil, nil
	}
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM "+s.table+" WHERE scope = ? AND id > ? ORDER BY id LIMIT ?",
		scope, after.Bytes(), limit)
	if err != nil {
		return nil, fmt.Errorf("idstore: list: %w", err)
	}
	defer rows.Close()

	ids := make([]fquuid.UUID, 0, limit)
	for rows.Next() {
		var id fquuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("idstore: list: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("idstore: list: %w", err)
	}
	return ids, nil
}

// Allocate generates a fresh v7 id, stores it under scope and returns it.
// A collision with an existing row is retried with a new id.
func (s *Store) Allocate(ctx context.Context, scope string) (fquuid.UUID, error) {
	if err := checkScope(scope); err != nil {
		return fquuid.Nil, err
	}
	return s.allocate(ctx, s.db, scope)
}

func (s *Store) allocate(ctx context.Context, e execer, scope string) (fquuid.UUID, error) {
	for attempt := 1; ; attempt++ {
		id, err := s.gen.NewV7()
		if err != nil {
			return fquuid.Nil, fmt.Errorf("idstore: allocate: %w", err)
		}
		err = s.put(ctx, e, scope, id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, ErrDuplicate) || attempt == maxAttempts {
			return fquuid.Nil, err
		}
		s.logger.Warn("allocate collision, retrying", "scope", scope, "id", id.String(), "attempt", attempt)
	}
}

// Reserve allocates n ids under scope in a single transaction. Either all
// n are stored and returned in generation order, or none are.
func (s *Store) Reserve(ctx context.Context, scope string, n int) ([]fquuid.UUID, error) {
	if n <= 0 {
		return nil, nil
	}
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("idstore: reserve: %w", err)
	}
	defer tx.Rollback()

	ids := make([]fquuid.UUID, 0, n)
	for i := 0; i < n; i++ {
		id, err := s.allocate(ctx, tx, scope)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("idstore: reserve: commit: %w", err)
	}
	s.logger.Debug("reserved ids", "scope", scope, "count", n)
	return ids, nil
}
