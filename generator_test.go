package fquuid

import (
	"bytes"
	"crypto/rand"
	"errors"
	"sync"
	"testing"
)

func TestGenerator_New(t *testing.T) {
	gen := NewGenerator()

	uuid, err := gen.New()
	if err != nil {
		t.Fatalf("Generator.New() error = %v", err)
	}

	if uuid.IsNil() {
		t.Error("Generator.New() returned nil UUID")
	}

	if uuid.Version() != VersionTimeSorted {
		t.Errorf("Generator.New() version = %v, want %v", uuid.Version(), VersionTimeSorted)
	}

	if uuid.Variant() != VariantRFC4122 {
		t.Errorf("Generator.New() variant = %v, want %v", uuid.Variant(), VariantRFC4122)
	}
}

func TestNewGeneratorWithReader(t *testing.T) {
	// Create a generator with crypto/rand
	gen := NewGeneratorWithReader(rand.Reader)

	uuid, err := gen.New()
	if err != nil {
		t.Fatalf("NewGeneratorWithReader() generation error = %v", err)
	}

	if uuid.IsNil() {
		t.Error("NewGeneratorWithReader() generated nil UUID")
	}

	// A fixed byte stream gives a fixed UUID.
	stream := bytes.NewReader(bytes.Repeat([]byte{0x5a}, 16))
	u, err := NewGeneratorWithReader(stream).NewV4()
	if err != nil {
		t.Fatalf("NewV4() error = %v", err)
	}
	if got, want := u.String(), "5a5a5a5a-5a5a-4a5a-9a5a-5a5a5a5a5a5a"; got != want {
		t.Errorf("NewV4() = %v, want %v", got, want)
	}
}

func TestMust(t *testing.T) {
	// Valid UUID should not panic
	gen := NewGenerator()
	uuid := Must(gen.New())
	if uuid.IsNil() {
		t.Error("Must() returned nil UUID")
	}

	// Error should panic
	defer func() {
		r := recover()
		if r == nil {
			t.Error("Must() did not panic on error")
			return
		}
		if err, ok := r.(error); !ok || !errors.Is(err, ErrEntropy) {
			t.Errorf("Must() panicked with %v, want an entropy error", r)
		}
	}()

	// Create an error scenario by using a broken reader
	brokenGen := NewGeneratorWithReader(&brokenReader{})
	Must(brokenGen.New())
}

// brokenReader is a reader that always returns an error
type brokenReader struct{}

func (br *brokenReader) Read(p []byte) (n int, err error) {
	return 0, bytes.ErrTooLarge
}

func TestGenerator_EntropyError(t *testing.T) {
	gen := NewGeneratorWithReader(&brokenReader{})

	for name, fn := range map[string]func() (UUID, error){
		"NewV4": gen.NewV4,
		"NewV7": gen.NewV7,
	} {
		u, err := fn()
		if !errors.Is(err, ErrEntropy) {
			t.Errorf("%s() error = %v, want ErrEntropy", name, err)
		}
		if errors.Is(err, ErrInvalidFormat) {
			t.Errorf("%s() error = %v matches ErrInvalidFormat", name, err)
		}
		if !errors.Is(err, bytes.ErrTooLarge) {
			t.Errorf("%s() error = %v does not wrap the reader error", name, err)
		}
		if !u.IsNil() {
			t.Errorf("%s() = %v on error, want Nil", name, u)
		}
	}
}

func TestGenerator_ConcurrentSafety(t *testing.T) {
	gen := NewGenerator()
	const goroutines = 10
	const uuidsPerGoroutine = 100

	results := make(chan UUID, goroutines*uuidsPerGoroutine)
	var wg sync.WaitGroup

	// Start multiple goroutines generating UUIDs concurrently
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(v4 bool) {
			defer wg.Done()
			for j := 0; j < uuidsPerGoroutine; j++ {
				var (
					uuid UUID
					err  error
				)
				if v4 {
					uuid, err = gen.NewV4()
				} else {
					uuid, err = gen.New()
				}
				if err != nil {
					t.Errorf("Concurrent generation error: %v", err)
					return
				}
				results <- uuid
			}
		}(i%2 == 0)
	}

	wg.Wait()
	close(results)

	// Check for uniqueness
	seen := make(map[UUID]bool)
	for uuid := range results {
		if seen[uuid] {
			t.Errorf("Duplicate UUID generated in concurrent test: %v", uuid)
		}
		seen[uuid] = true
	}

	if len(seen) != goroutines*uuidsPerGoroutine {
		t.Errorf("Expected %d unique UUIDs, got %d", goroutines*uuidsPerGoroutine, len(seen))
	}
}
