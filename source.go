package fquuid

import (
	"bufio"
	"crypto/rand"
	"errors"
	"io"
	mrand "math/rand/v2"
	"os"
	"sync"
	"syscall"
)

// Source produces uniformly distributed random bits for the generators.
type Source interface {
	// Uint64 returns 64 uniformly distributed random bits.
	Uint64() (uint64, error)
}

// maxInterrupts bounds how often a read interrupted by a signal is retried.
const maxInterrupts = 8

// Bits returns a uniformly distributed value of the given width in bits
// drawn from src. It panics if width is 0 or greater than 64, like
// math/rand's Intn for a non-positive n; failures of src are returned as
// *EntropyError.
func Bits(src Source, width uint) (uint64, error) {
	if width == 0 || width > 64 {
		panic("fquuid: Bits width out of range")
	}
	x, err := src.Uint64()
	if err != nil {
		return 0, entropyErr("source", err)
	}
	if width == 64 {
		return x, nil
	}
	return x & (1<<width - 1), nil
}

// DefaultSource reads from crypto/rand. It is safe for concurrent use.
var DefaultSource Source = NewReaderSource(rand.Reader)

// ReaderSource draws bits from an io.Reader, eight bytes per call.
// It is as safe for concurrent use as the underlying reader.
type ReaderSource struct {
	r io.Reader
}

// NewReaderSource returns a Source reading from r. Read errors are
// reported as *EntropyError.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

func (s *ReaderSource) Uint64() (uint64, error) {
	var b [8]byte
	if err := readFull(s.r, b[:]); err != nil {
		return 0, entropyErr("reader", err)
	}
	return loadUint64(b[:]), nil
}

// readFull is io.ReadFull, resuming after reads interrupted by a signal.
func readFull(r io.Reader, b []byte) error {
	for tries := 0; ; tries++ {
		n, err := io.ReadFull(r, b)
		if err == nil {
			return nil
		}
		if !errors.Is(err, syscall.EINTR) || tries >= maxInterrupts {
			return err
		}
		b = b[n:]
	}
}

// DeviceSource reads random bits from a character device such as
// /dev/urandom through a small buffer. It is not safe for concurrent use;
// wrap it with NewLockedSource to share it.
type DeviceSource struct {
	path string
	f    *os.File
	r    *bufio.Reader
}

// OpenDeviceSource opens the device at path.
func OpenDeviceSource(path string) (*DeviceSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, entropyErr(path, err)
	}
	return &DeviceSource{path: path, f: f, r: bufio.NewReaderSize(f, 256)}, nil
}

func (s *DeviceSource) Uint64() (uint64, error) {
	if s.f == nil {
		return 0, entropyErr(s.path, os.ErrClosed)
	}
	var b [8]byte
	if err := readFull(s.r, b[:]); err != nil {
		return 0, entropyErr(s.path, err)
	}
	return loadUint64(b[:]), nil
}

// Close closes the device. Further draws fail.
func (s *DeviceSource) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f, s.r = nil, nil
	return err
}

// RandSource adapts a math/rand/v2 generator such as PCG or ChaCha8. It
// never fails. It is meant for deterministic tests and for callers that
// trade entropy quality for speed; it is not safe for concurrent use.
type RandSource struct {
	src mrand.Source
}

// NewRandSource returns a Source drawing from src.
func NewRandSource(src mrand.Source) *RandSource {
	return &RandSource{src: src}
}

// NewSeededSource returns a PCG-backed RandSource; equal seeds give equal
// sequences.
func NewSeededSource(seed uint64) *RandSource {
	return NewRandSource(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func (s *RandSource) Uint64() (uint64, error) {
	return s.src.Uint64(), nil
}

// LockedSource serialises access to a Source that is not safe for
// concurrent use.
type LockedSource struct {
	mu  sync.Mutex
	src Source
}

// NewLockedSource wraps src in a mutex.
func NewLockedSource(src Source) *LockedSource {
	return &LockedSource{src: src}
}

func (s *LockedSource) Uint64() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

// SystemSource draws bits straight from the kernel: getrandom(2) on Linux,
// crypto/rand elsewhere. It never blocks waiting for the entropy pool; an
// uninitialised pool is reported as *EntropyError. It is safe for
// concurrent use.
type SystemSource struct{}

// NewSystemSource returns a SystemSource.
func NewSystemSource() SystemSource {
	return SystemSource{}
}
