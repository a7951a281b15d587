// Package fquuid provides a compact UUID value type with strict text and
// binary codecs and two generators: UUIDv4 (random) and UUIDv7
// (time-ordered random).
//
// A UUID is held as two 64-bit halves. It is comparable, orders the same
// way as its 16-byte big-endian form, and can be used directly as a map
// key. Compare, Less and Hash are provided for containers that take
// explicit comparator or hash functions.
//
// Basic Usage:
//
//	// Generate a new UUIDv7
//	id, err := fquuid.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(id)
//
//	// Generate a random UUIDv4
//	id, err = fquuid.NewV4()
//
//	// Parse a UUID from string
//	id, err = fquuid.Parse("f47ac10b-58cc-4372-a567-0e02b2c3d479")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Text Forms:
//
// Parse accepts the canonical 36-character form, the 32-character form
// without hyphens, either one wrapped in braces, and one trailing NUL.
// Anything else is a *FormatError. Output is always the canonical
// lower-case form. ParseText and FormatText work on any fixed-width code
// unit (bytes, UTF-16, runes) and never allocate:
//
//	var buf [37]uint16
//	n, err := fquuid.FormatText(id, buf[:], fquuid.TerminatorNull)
//
// Binary Form:
//
//	var b [16]byte
//	err := fquuid.Store(id, b[:])
//	id, err = fquuid.Load(b[:])
//
// Custom Generator:
//
//	// Deterministic generation for tests
//	gen := fquuid.NewGenerator(
//	    fquuid.WithSource(fquuid.NewSeededSource(42)),
//	    fquuid.WithClock(testclock.NewClock(start)),
//	)
//	id, err := gen.NewV7()
//
// Thread Safety:
//
// Values and codecs need no synchronization. The default generator reads
// crypto/rand and can be used concurrently from multiple goroutines. A
// Generator built on a private source (RandSource, DeviceSource) must stay
// on one goroutine unless the source is wrapped with NewLockedSource.
//
// Standards Compliance:
//
// This implementation follows RFC 9562. The UUIDv7 format includes:
//   - 48-bit timestamp (millisecond precision)
//   - 12-bit random data (rand_a)
//   - 62-bit random data (rand_b)
//   - Version and variant bits as per RFC 9562
package fquuid
