package fquuid

import (
	"encoding/base64"
	"strings"
)

const urnPrefix = "urn:uuid:"

// EncodeToHex encodes the UUID to a hexadecimal string without hyphens
func (u UUID) EncodeToHex() string {
	var buf [HexLen]byte
	encodeHex(buf[:16], u.upper, lowerHexDigits)
	encodeHex(buf[16:], u.lower, lowerHexDigits)
	return string(buf[:])
}

// EncodeToBase64 encodes the UUID to a base64 string (URL-safe, no padding)
func (u UUID) EncodeToBase64() string {
	a := u.Array()
	return base64.RawURLEncoding.EncodeToString(a[:])
}

// EncodeToBase64Std encodes the UUID to a standard base64 string
func (u UUID) EncodeToBase64Std() string {
	a := u.Array()
	return base64.StdEncoding.EncodeToString(a[:])
}

// URN returns the RFC 9562 URN form, urn:uuid:xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx
func (u UUID) URN() string {
	var buf [len(urnPrefix) + CanonicalLen]byte
	copy(buf[:], urnPrefix)
	encodeCanonical(buf[len(urnPrefix):], u, lowerHexDigits)
	return string(buf[:])
}

// DecodeFromHex decodes exactly 32 hexadecimal digits to a UUID
func DecodeFromHex(s string) (UUID, error) {
	u, err := parseHex([]byte(s))
	if err != nil {
		return Nil, formatErr("decode", err)
	}
	return u, nil
}

// DecodeFromBase64 decodes a base64 string to UUID (URL-safe encoding)
func DecodeFromBase64(s string) (UUID, error) {
	return decodeBase64(base64.RawURLEncoding, s)
}

// DecodeFromBase64Std decodes a standard base64 string to UUID
func DecodeFromBase64Std(s string) (UUID, error) {
	return decodeBase64(base64.StdEncoding, s)
}

func decodeBase64(enc *base64.Encoding, s string) (UUID, error) {
	data, err := enc.DecodeString(s)
	if err != nil {
		return Nil, formatErr("decode", err)
	}
	if len(data) != Size {
		return Nil, formatErr("decode", ErrInvalidLength)
	}
	return Load(data)
}

// ParseURN parses a UUID with an optional, case-insensitive urn:uuid:
// prefix; the remainder follows the rules of Parse.
func ParseURN(s string) (UUID, error) {
	if len(s) >= len(urnPrefix) && strings.EqualFold(s[:len(urnPrefix)], urnPrefix) {
		s = s[len(urnPrefix):]
	}
	return Parse(s)
}

// FromBytes creates a UUID from a byte slice of exactly 16 bytes
func FromBytes(b []byte) (UUID, error) {
	in, ok := exact(b, Size)
	if !ok {
		return Nil, formatErr("load", ErrInvalidLength)
	}
	return Load(in)
}

// MustFromBytes is like FromBytes but panics on error
func MustFromBytes(b []byte) UUID {
	uuid, err := FromBytes(b)
	if err != nil {
		panic(err)
	}
	return uuid
}
