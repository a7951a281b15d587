package fquuid

import (
	"fmt"
	"io"
	"slices"
)

// Char is a fixed-width text code unit: UTF-8 bytes, UTF-16 code units
// (the Windows wide character), runes, or raw 32-bit units.
type Char interface {
	~uint8 | ~uint16 | ~int32 | ~uint32
}

// Terminator selects whether FormatText appends a trailing NUL.
type Terminator int

const (
	TerminatorNone Terminator = iota
	TerminatorNull
)

const (
	// CanonicalLen is the length of xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx.
	CanonicalLen = 36
	// HexLen is the length of the form without hyphens.
	HexLen = 32
)

// ParseText parses a UUID from a slice of code units. It accepts:
//   - xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx (canonical)
//   - xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx (without hyphens)
//   - either of the above wrapped in {}
//
// A single trailing NUL is ignored. Hex digits are case-insensitive.
// On failure the returned UUID is Nil and the error is a *FormatError.
func ParseText[C Char](s []C) (UUID, error) {
	u, err := parseText(s)
	if err != nil {
		return Nil, formatErr("parse", err)
	}
	return u, nil
}

func parseText[C Char](s []C) (UUID, error) {
	if n := len(s); n > 0 && s[n-1] == 0 {
		s = s[:n-1]
	}
	if n := len(s); n > 0 && (s[0] == '{' || s[n-1] == '}') {
		if n < 2 || s[0] != '{' || s[n-1] != '}' {
			return Nil, ErrUnbalancedBraces
		}
		s = s[1 : n-1]
	}

	switch len(s) {
	case CanonicalLen:
		return parseCanonical(s)
	case HexLen:
		return parseHex(s)
	}
	return Nil, ErrInvalidLength
}

func parseCanonical[C Char](s []C) (UUID, error) {
	s, _ = exact(s, CanonicalLen)
	if s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
		return Nil, ErrInvalidSeparator
	}

	timeLow, ok1 := decodeHex(s[0:8])
	timeMid, ok2 := decodeHex(s[9:13])
	timeHi, ok3 := decodeHex(s[14:18])
	clockSeq, ok4 := decodeHex(s[19:23])
	node, ok5 := decodeHex(s[24:36])
	if !(ok1 && ok2 && ok3 && ok4 && ok5) {
		return Nil, ErrInvalidHex
	}

	return UUID{
		upper: timeLow<<32 | timeMid<<16 | timeHi,
		lower: clockSeq<<48 | node,
	}, nil
}

func parseHex[C Char](s []C) (UUID, error) {
	s, ok := exact(s, HexLen)
	if !ok {
		return Nil, ErrInvalidLength
	}
	upper, ok1 := decodeHex(s[:16])
	lower, ok2 := decodeHex(s[16:])
	if !ok1 || !ok2 {
		return Nil, ErrInvalidHex
	}
	return UUID{upper: upper, lower: lower}, nil
}

// Parse parses a UUID from its string representation.
// See ParseText for the accepted forms.
func Parse(s string) (UUID, error) {
	return ParseText([]byte(s))
}

// ParseBytes is like Parse but takes UTF-8 bytes.
func ParseBytes(b []byte) (UUID, error) {
	return ParseText(b)
}

// ParseUTF16 is like Parse but takes UTF-16 code units.
func ParseUTF16(s []uint16) (UUID, error) {
	return ParseText(s)
}

// ParseRunes is like Parse but takes runes.
func ParseRunes(s []rune) (UUID, error) {
	return ParseText(s)
}

// MustParse is like Parse but panics if the string cannot be parsed.
// It simplifies safe initialization of global variables.
func MustParse(s string) UUID {
	uuid, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("fquuid: Parse(%q): %v", s, err))
	}
	return uuid
}

// FormatText writes the canonical lower-case form of u into dst and
// returns the number of code units written. dst must hold 36 units, or
// 37 with TerminatorNull; otherwise nothing is written and a *FormatError
// is returned.
func FormatText[C Char](u UUID, dst []C, term Terminator) (int, error) {
	n := CanonicalLen
	if term == TerminatorNull {
		n++
	}
	out, ok := fixed(dst, n)
	if !ok {
		return 0, formatErr("format", ErrShortBuffer)
	}
	encodeCanonical(out[:CanonicalLen], u, lowerHexDigits)
	if term == TerminatorNull {
		out[CanonicalLen] = 0
	}
	return n, nil
}

// encodeCanonical writes u as 8-4-4-4-12 hex groups. dst must be exactly
// CanonicalLen long.
func encodeCanonical[C Char](dst []C, u UUID, digits string) {
	_ = dst[CanonicalLen-1]
	encodeHex(dst[0:8], u.upper>>32, digits)
	dst[8] = '-'
	encodeHex(dst[9:13], u.upper>>16, digits)
	dst[13] = '-'
	encodeHex(dst[14:18], u.upper, digits)
	dst[18] = '-'
	encodeHex(dst[19:23], u.lower>>48, digits)
	dst[23] = '-'
	encodeHex(dst[24:36], u.lower, digits)
}

// String returns the canonical string representation of the UUID
// in the format: xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx
func (u UUID) String() string {
	var buf [CanonicalLen]byte
	encodeCanonical(buf[:], u, lowerHexDigits)
	return string(buf[:])
}

// UTF16 returns the canonical form as UTF-16 code units.
func (u UUID) UTF16() []uint16 {
	s := make([]uint16, CanonicalLen)
	encodeCanonical(s, u, lowerHexDigits)
	return s
}

// Runes returns the canonical form as runes.
func (u UUID) Runes() []rune {
	s := make([]rune, CanonicalLen)
	encodeCanonical(s, u, lowerHexDigits)
	return s
}

// AppendText implements the encoding.TextAppender interface
func (u UUID) AppendText(b []byte) ([]byte, error) {
	n := len(b)
	b = slices.Grow(b, CanonicalLen)[:n+CanonicalLen]
	encodeCanonical(b[n:], u, lowerHexDigits)
	return b, nil
}

// Format implements fmt.Formatter. %v and %s print the canonical form,
// %x and %X the 32 hex digits without hyphens, %q the quoted canonical form.
func (u UUID) Format(f fmt.State, verb rune) {
	var buf [CanonicalLen + 2]byte
	switch verb {
	case 'v', 's':
		encodeCanonical(buf[:CanonicalLen], u, lowerHexDigits)
		f.Write(buf[:CanonicalLen])
	case 'q':
		buf[0], buf[CanonicalLen+1] = '"', '"'
		encodeCanonical(buf[1:CanonicalLen+1], u, lowerHexDigits)
		f.Write(buf[:])
	case 'x':
		encodeHex(buf[:16], u.upper, lowerHexDigits)
		encodeHex(buf[16:HexLen], u.lower, lowerHexDigits)
		f.Write(buf[:HexLen])
	case 'X':
		encodeHex(buf[:16], u.upper, upperHexDigits)
		encodeHex(buf[16:HexLen], u.lower, upperHexDigits)
		f.Write(buf[:HexLen])
	default:
		io.WriteString(f, "%!")
		io.WriteString(f, string(verb))
		io.WriteString(f, "(fquuid.UUID="+u.String()+")")
	}
}
