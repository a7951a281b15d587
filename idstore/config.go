package idstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Config describes how Open reaches the database.
type Config struct {
	// Dialect is MySQL or SQLite.
	Dialect Dialect

	// DSN is a go-sql-driver/mysql DSN or an SQLite path (":memory:" for a
	// private in-memory database). Ignored for MySQL when MySQL is set.
	DSN string

	// MySQL holds a parsed driver configuration, for callers that build it
	// with mysql.NewConfig instead of a DSN string.
	MySQL *mysql.Config

	// Pool tuning. Zero values select the defaults below.
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// BusyTimeout is the SQLite busy_timeout. Default: 10s.
	BusyTimeout time.Duration
}

const (
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = time.Hour
	defaultBusyTimeout     = 10 * time.Second
)

// Open connects to the database described by cfg, verifies the connection
// and returns a Store that owns it. The table is not created; call Init.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	if !cfg.Dialect.valid() {
		return nil, fmt.Errorf("idstore: unknown dialect %q", cfg.Dialect)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("idstore: ping: %w", err)
	}

	s, err := New(db, cfg.Dialect, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.ownsDB = true
	return s, nil
}

func openDB(cfg Config) (*sql.DB, error) {
	var db *sql.DB
	switch cfg.Dialect {
	case MySQL:
		mc := cfg.MySQL
		if mc == nil {
			var err error
			if mc, err = mysql.ParseDSN(cfg.DSN); err != nil {
				return nil, fmt.Errorf("idstore: parse dsn: %w", err)
			}
		}
		connector, err := mysql.NewConnector(mc)
		if err != nil {
			return nil, fmt.Errorf("idstore: mysql connector: %w", err)
		}
		db = sql.OpenDB(connector)
	case SQLite:
		var err error
		if db, err = sql.Open("sqlite", sqliteDSN(cfg)); err != nil {
			return nil, fmt.Errorf("idstore: open: %w", err)
		}
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenConns
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = defaultMaxIdleConns
	}
	lifetime := cfg.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = defaultConnMaxLifetime
	}
	// Every connection to ":memory:" is a separate database, and closing
	// the last one drops it.
	if cfg.Dialect == SQLite && strings.HasPrefix(cfg.DSN, ":memory:") {
		maxOpen, maxIdle, lifetime = 1, 1, 0
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(lifetime)
	return db, nil
}

// sqliteDSN appends the busy timeout as a _pragma parameter so that every
// pooled connection applies it.
func sqliteDSN(cfg Config) string {
	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = defaultBusyTimeout
	}
	sep := "?"
	if strings.Contains(cfg.DSN, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_pragma=busy_timeout(%d)", cfg.DSN, sep, busy.Milliseconds())
}
