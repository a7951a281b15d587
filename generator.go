package fquuid

import (
	"io"
	"time"

	"github.com/juju/clock"
)

// Generator produces v4 and v7 UUIDs from a private Source and Clock.
// It keeps no state between calls, so it is exactly as safe for
// concurrent use as its Source. The zero value is not usable; call
// NewGenerator.
type Generator struct {
	src   Source
	clock clock.Clock
}

// Option configures a Generator.
type Option func(*Generator)

// WithSource sets the random-bit source. Default: DefaultSource.
func WithSource(src Source) Option { return func(g *Generator) { g.src = src } }

// WithClock sets the clock that supplies v7 timestamps. Default: clock.WallClock.
func WithClock(clk clock.Clock) Option { return func(g *Generator) { g.clock = clk } }

// NewGenerator creates a generator reading crypto/rand and the wall clock
// unless overridden by opts.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		src:   DefaultSource,
		clock: clock.WallClock,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// NewGeneratorWithReader creates a generator with a custom random source.
// This is primarily useful for testing with deterministic random sources.
func NewGeneratorWithReader(r io.Reader) *Generator {
	return NewGenerator(WithSource(NewReaderSource(r)))
}

// New generates a new UUIDv7 with the current timestamp.
func (g *Generator) New() (UUID, error) {
	return g.NewV7()
}

// NewV4 generates a random UUIDv4.
func (g *Generator) NewV4() (UUID, error) {
	return GenerateV4(g.src)
}

// NewV7 generates a UUIDv7 stamped with the generator's clock.
func (g *Generator) NewV7() (UUID, error) {
	return GenerateV7Now(g.src, g.clock)
}

// NewV7At generates a UUIDv7 carrying the given Unix millisecond timestamp.
func (g *Generator) NewV7At(ms int64) (UUID, error) {
	return GenerateV7(g.src, ms)
}

// NewWithTime generates a UUIDv7 with the specified timestamp,
// truncated to milliseconds.
func (g *Generator) NewWithTime(t time.Time) (UUID, error) {
	return GenerateV7(g.src, t.UnixMilli())
}

// Must is a helper that wraps a call to a function returning (UUID, error)
// and panics if the error is non-nil. It is intended for use in variable
// initializations such as:
//
//	var id = fquuid.Must(generator.New())
func Must(uuid UUID, err error) UUID {
	if err != nil {
		panic(err)
	}
	return uuid
}

// defaultGenerator is the package-level generator used by the New* functions
var defaultGenerator = NewGenerator()

// New generates a new UUIDv7 using the default generator.
func New() (UUID, error) {
	return defaultGenerator.NewV7()
}

// NewV4 generates a new UUIDv4 using the default generator.
func NewV4() (UUID, error) {
	return defaultGenerator.NewV4()
}

// NewV7 is New with the version spelled out.
func NewV7() (UUID, error) {
	return defaultGenerator.NewV7()
}
