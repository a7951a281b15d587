package idstore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/juju/clock"

	"github.com/Lzww0608/fquuid"
)

// KVConfig configures OpenKV.
type KVConfig struct {
	// Dir is the Pebble data directory. Required.
	Dir string

	// Sync makes every write wait for its own WAL fsync. When false,
	// concurrent writes share fsyncs issued at most every SyncInterval.
	// Writes are durable on return either way.
	Sync bool

	// SyncInterval is the group-commit window used when Sync is false.
	// Default: 5ms.
	SyncInterval time.Duration

	// FS overrides the filesystem, e.g. vfs.NewMem() in tests.
	FS vfs.FS

	// PebbleOptions allows advanced tuning. If nil, Pebble defaults are used.
	// OpenKV works on a copy; FS and the sync interval are set on the copy.
	PebbleOptions *pebble.Options
}

// KVStore is a registry of identifiers backed by Pebble. Keys are
//
//	table "/" scope 0x00 id[16]
//
// and values hold the big-endian creation time in Unix milliseconds. All
// ids of a scope share a prefix and have the same length, so a prefix scan
// yields them in fquuid.Compare order.
type KVStore struct {
	db     *pebble.DB
	ownsDB bool
	table  string

	// mu serialises the read-check-write of Put, Delete and Reserve.
	mu sync.Mutex

	clock  clock.Clock
	gen    *fquuid.Generator
	logger *slog.Logger
}

// OpenKV opens or creates a Pebble database and returns a KVStore that
// owns it.
func OpenKV(cfg KVConfig, opts ...Option) (*KVStore, error) {
	if cfg.Dir == "" {
		return nil, errors.New("idstore: KVConfig.Dir is required")
	}
	// Clone handles nil and leaves the caller's options untouched.
	po := cfg.PebbleOptions.Clone()
	if cfg.FS != nil {
		po.FS = cfg.FS
	}
	if !cfg.Sync {
		interval := cfg.SyncInterval
		if interval <= 0 {
			interval = 5 * time.Millisecond
		}
		po.WALMinSyncInterval = func() time.Duration { return interval }
	}

	db, err := pebble.Open(cfg.Dir, po)
	if err != nil {
		return nil, fmt.Errorf("idstore: open pebble: %w", err)
	}
	s, err := NewKV(db, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.ownsDB = true
	return s, nil
}

// NewKV wraps an open Pebble database. The caller keeps ownership of db.
func NewKV(db *pebble.DB, opts ...Option) (*KVStore, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	return &KVStore{
		db:     db,
		table:  o.table,
		clock:  o.clock,
		gen:    o.generator(),
		logger: o.logger.With("component", "idstore", "backend", "pebble", "table", o.table),
	}, nil
}

// Close releases the database if the KVStore opened it.
func (s *KVStore) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying database.
func (s *KVStore) DB() *pebble.DB { return s.db }

func (s *KVStore) scopePrefix(scope string) []byte {
	k := make([]byte, 0, len(s.table)+len(scope)+2+fquuid.Size)
	k = append(k, s.table...)
	k = append(k, '/')
	k = append(k, scope...)
	return append(k, 0)
}

func (s *KVStore) key(scope string, id fquuid.UUID) []byte {
	k := s.scopePrefix(scope)
	k = k[:len(k)+fquuid.Size]
	fquuid.Store(id, k[len(k)-fquuid.Size:])
	return k
}

// scopeBounds returns the [lower, upper) key range of scope.
func (s *KVStore) scopeBounds(scope string) (lower, upper []byte) {
	lower = s.scopePrefix(scope)
	upper = append([]byte(nil), lower...)
	upper[len(upper)-1] = 1
	return lower, upper
}

// getter is satisfied by *pebble.DB and indexed *pebble.Batch.
type getter interface {
	Get(key []byte) ([]byte, io.Closer, error)
}

func exists(r getter, key []byte) (bool, error) {
	_, closer, err := r.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	closer.Close()
	return true, nil
}

func (s *KVStore) value() []byte {
	var v [8]byte
	binary.BigEndian.PutUint64(v[:], uint64(s.clock.Now().UnixMilli()))
	return v[:]
}

// Put stores id under scope. It returns ErrDuplicate if the pair exists.
func (s *KVStore) Put(ctx context.Context, scope string, id fquuid.UUID) error {
	if err := checkScope(scope); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.db.NewIndexedBatch()
	defer b.Close()
	if err := s.put(b, scope, id); err != nil {
		return err
	}
	if err := b.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("idstore: put: %w", err)
	}
	return nil
}

func (s *KVStore) put(b *pebble.Batch, scope string, id fquuid.UUID) error {
	if err := checkScope(scope); err != nil {
		return err
	}
	if id.IsNil() {
		return ErrNilID
	}
	key := s.key(scope, id)
	found, err := exists(b, key)
	if err != nil {
		return fmt.Errorf("idstore: put: %w", err)
	}
	if found {
		return ErrDuplicate
	}
	if err := b.Set(key, s.value(), nil); err != nil {
		return fmt.Errorf("idstore: put: %w", err)
	}
	return nil
}

// Has reports whether id is stored under scope.
func (s *KVStore) Has(ctx context.Context, scope string, id fquuid.UUID) (bool, error) {
	if err := checkScope(scope); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	found, err := exists(s.db, s.key(scope, id))
	if err != nil {
		return false, fmt.Errorf("idstore: has: %w", err)
	}
	return found, nil
}

// CreatedAt returns the time id was stored under scope, or ErrNotFound.
func (s *KVStore) CreatedAt(ctx context.Context, scope string, id fquuid.UUID) (time.Time, error) {
	if err := checkScope(scope); err != nil {
		return time.Time{}, err
	}
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	v, closer, err := s.db.Get(s.key(scope, id))
	if errors.Is(err, pebble.ErrNotFound) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("idstore: created at: %w", err)
	}
	defer closer.Close()
	if len(v) != 8 {
		return time.Time{}, fmt.Errorf("idstore: created at: corrupt value of %d bytes", len(v))
	}
	return time.UnixMilli(int64(binary.BigEndian.Uint64(v))), nil
}

// Delete removes id from scope. It returns ErrNotFound if it was absent.
func (s *KVStore) Delete(ctx context.Context, scope string, id fquuid.UUID) error {
	if err := checkScope(scope); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.key(scope, id)
	found, err := exists(s.db, key)
	if err != nil {
		return fmt.Errorf("idstore: delete: %w", err)
	}
	if !found {
		return ErrNotFound
	}
	if err := s.db.Delete(key, pebble.Sync); err != nil {
		return fmt.Errorf("idstore: delete: %w", err)
	}
	return nil
}

// Count returns the number of ids stored under scope.
func (s *KVStore) Count(ctx context.Context, scope string) (int64, error) {
	if err := checkScope(scope); err != nil {
		return 0, err
	}
	lower, upper := s.scopeBounds(scope)
	it, err := s.db.NewIterWithContext(ctx, &pebble.IterOptions{LowerBound: lower, UpperBound: upper})
	if err != nil {
		return 0, fmt.Errorf("idstore: count: %w", err)
	}
	defer it.Close()

	var n int64
	for valid := it.First(); valid; valid = it.Next() {
		if n%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		n++
	}
	if err := it.Error(); err != nil {
		return 0, fmt.Errorf("idstore: count: %w", err)
	}
	return n, nil
}

// List returns up to limit ids of scope that sort after the given id, in
// ascending order. Paging works as for Store.List.
func (s *KVStore) List(ctx context.Context, scope string, after fquuid.UUID, limit int) ([]fquuid.UUID, error) {
	if limit <= 0 {
		return nil, nil
	}
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, upper := s.scopeBounds(scope)
	// The successor of key(after) is key(after) followed by a zero byte.
	lower := append(s.key(scope, after), 0)
	it, err := s.db.NewIterWithContext(ctx, &pebble.IterOptions{LowerBound: lower, UpperBound: upper})
	if err != nil {
		return nil, fmt.Errorf("idstore: list: %w", err)
	}
	defer it.Close()

	ids := make([]fquuid.UUID, 0, limit)
	for valid := it.First(); valid && len(ids) < limit; valid = it.Next() {
		k := it.Key()
		id, err := fquuid.Load(k[len(k)-fquuid.Size:])
		if err != nil {
			return nil, fmt.Errorf("idstore: list: %w", err)
		}
		ids = append(ids, id)
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("idstore: list: %w", err)
	}
	return ids, nil
}

// Allocate generates a fresh v7 id, stores it under scope and returns it.
// A collision with an existing key is retried with a new id.
func (s *KVStore) Allocate(ctx context.Context, scope string) (fquuid.UUID, error) {
	ids, err := s.Reserve(ctx, scope, 1)
	if err != nil {
		return fquuid.Nil, err
	}
	return ids[0], nil
}

// Reserve allocates n ids under scope in a single atomic batch. Either all
// n are stored and returned in generation order, or none are.
func (s *KVStore) Reserve(ctx context.Context, scope string, n int) ([]fquuid.UUID, error) {
	if n <= 0 {
		return nil, nil
	}
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.db.NewIndexedBatch()
	defer b.Close()

	ids := make([]fquuid.UUID, 0, n)
	for i := 0; i < n; i++ {
		id, err := s.allocate(b, scope)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := b.Commit(pebble.Sync); err != nil {
		return nil, fmt.Errorf("idstore: reserve: commit: %w", err)
	}
	if n > 1 {
		s.logger.Debug("reserved ids", "scope", scope, "count", n)
	}
	return ids, nil
}

func (s *KVStore) allocate(b *pebble.Batch, scope string) (fquuid.UUID, error) {
	for attempt := 1; ; attempt++ {
		id, err := s.gen.NewV7()
		if err != nil {
			return fquuid.Nil, fmt.Errorf("idstore: allocate: %w", err)
		}
		err = s.put(b, scope, id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, ErrDuplicate) || attempt == maxAttempts {
			return fquuid.Nil, err
		}
		s.logger.Warn("allocate collision, retrying", "scope", scope, "id", id.String(), "attempt", attempt)
	}
}
