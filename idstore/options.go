package idstore

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/juju/clock"

	"github.com/Lzww0608/fquuid"
)

const (
	defaultTable = "fquuid_ids"

	// maxScopeLen matches the MySQL column width.
	maxScopeLen = 128
)

type options struct {
	table  string
	src    fquuid.Source
	clock  clock.Clock
	logger *slog.Logger
}

// Option configures a Store or a KVStore.
type Option func(*options)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithSource sets the entropy source used by Allocate and Reserve.
// Default: fquuid.DefaultSource.
func WithSource(src fquuid.Source) Option { return func(o *options) { o.src = src } }

// WithClock sets the clock used for v7 timestamps and creation times.
// Default: clock.WallClock.
func WithClock(clk clock.Clock) Option { return func(o *options) { o.clock = clk } }

// WithTable sets the table name, or the key prefix of a KVStore. It must
// be a plain SQL identifier. Default: "fquuid_ids".
func WithTable(name string) Option { return func(o *options) { o.table = name } }

func buildOptions(opts []Option) (options, error) {
	o := options{
		table:  defaultTable,
		src:    fquuid.DefaultSource,
		clock:  clock.WallClock,
		logger: slog.Default(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	if !validIdentifier(o.table) {
		return o, fmt.Errorf("idstore: invalid table name %q", o.table)
	}
	return o, nil
}

func (o options) generator() *fquuid.Generator {
	return fquuid.NewGenerator(fquuid.WithSource(o.src), fquuid.WithClock(o.clock))
}

// checkScope rejects empty and over-long scopes. NUL is the key separator
// of a KVStore and is rejected by both stores. Every operation taking a
// scope checks it first, so both stores fail the same way.
func checkScope(scope string) error {
	if scope == "" || len(scope) > maxScopeLen {
		return fmt.Errorf("%w: must be 1 to %d bytes, got %d", ErrInvalidScope, maxScopeLen, len(scope))
	}
	if strings.IndexByte(scope, 0) >= 0 {
		return fmt.Errorf("%w: %q contains NUL", ErrInvalidScope, scope)
	}
	return nil
}

func validIdentifier(name string) bool {
	if name == "" || len(name) > 64 {
		return false
	}
	for i, c := range name {
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
