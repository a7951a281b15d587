//go:build linux

package fquuid

import (
	"errors"
	"io"

	"golang.org/x/sys/unix"
)

// getrandom is replaced in tests to script kernel results.
var getrandom = unix.Getrandom

func (SystemSource) Uint64() (uint64, error) {
	var b [8]byte
	n, tries := 0, 0
	for n < len(b) {
		m, err := getrandom(b[n:], unix.GRND_NONBLOCK)
		switch {
		case err == nil && m > 0:
			n += m
		case err == nil:
			return 0, entropyErr("getrandom", io.ErrNoProgress)
		case errors.Is(err, unix.EINTR) && tries < maxInterrupts:
			tries++
		default:
			// EAGAIN means the pool is not initialised yet; report it
			// rather than wait.
			return 0, entropyErr("getrandom", err)
		}
	}
	return loadUint64(b[:]), nil
}
