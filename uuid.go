package fquuid

import (
	"time"

	"github.com/cespare/xxhash/v2"
)

// UUID is a 128-bit Universally Unique Identifier as defined by RFC 9562.
// The value is held as two 64-bit halves in big-endian order: upper carries
// the first 8 bytes of the canonical form and lower the last 8. UUID is
// comparable, so it can be used directly as a map key.
type UUID struct {
	upper uint64
	lower uint64
}

// Version represents the UUID version
type Version byte

const (
	_ Version = iota
	VersionTimeBased
	VersionDCESecurity
	VersionNameBasedMD5
	VersionRandom // UUIDv4
	VersionNameBasedSHA1
	_
	VersionTimeSorted // UUIDv7
	VersionCustom     // UUIDv8
)

// Variant represents the UUID variant
type Variant byte

const (
	VariantNCS Variant = iota
	VariantRFC4122
	VariantMicrosoft
	VariantFuture
)

// Field masks within the two halves.
const (
	versionShift = 12
	versionMask  = uint64(0xf) << versionShift

	variantShift = 62
	variantMask  = uint64(0x3) << variantShift
	variantRFC   = uint64(0x2) << variantShift

	timestampShift = 16
	timestampBits  = 48
	timestampMask  = uint64(1)<<timestampBits - 1
)

// Nil is the nil UUID (all zeros)
var Nil UUID

// FromUint64s builds a UUID from its upper and lower halves.
func FromUint64s(upper, lower uint64) UUID {
	return UUID{upper: upper, lower: lower}
}

// Upper returns the first 8 bytes of the UUID as a big-endian integer.
func (u UUID) Upper() uint64 { return u.upper }

// Lower returns the last 8 bytes of the UUID as a big-endian integer.
func (u UUID) Lower() uint64 { return u.lower }

// IsNil returns true if the UUID is the nil UUID (all zeros)
func (u UUID) IsNil() bool {
	return u.upper == 0 && u.lower == 0
}

// Version returns the version of the UUID
func (u UUID) Version() Version {
	return Version((u.upper & versionMask) >> versionShift)
}

// Variant returns the variant of the UUID
func (u UUID) Variant() Variant {
	top := byte(u.lower >> 56)
	switch {
	case top&0x80 == 0x00:
		return VariantNCS
	case top&0xc0 == 0x80:
		return VariantRFC4122
	case top&0xe0 == 0xc0:
		return VariantMicrosoft
	default:
		return VariantFuture
	}
}

// withVersion returns u with its 4-bit version field replaced by v.
func (u UUID) withVersion(v Version) UUID {
	u.upper = u.upper&^versionMask | uint64(v&0xf)<<versionShift
	return u
}

// withRFCVariant returns u with its variant bits set to binary 10.
func (u UUID) withRFCVariant() UUID {
	u.lower = u.lower&^variantMask | variantRFC
	return u
}

// withTimestamp returns u with the 48-bit unix_ts_ms field set to ms.
func (u UUID) withTimestamp(ms int64) UUID {
	u.upper = u.upper&(1<<timestampShift-1) | (uint64(ms)&timestampMask)<<timestampShift
	return u
}

// Compare returns an integer comparing two UUIDs lexicographically.
// The result will be 0 if u==other, -1 if u < other, and +1 if u > other.
// The order matches a byte-wise comparison of the 16-byte big-endian form.
func (u UUID) Compare(other UUID) int {
	switch {
	case u.upper < other.upper:
		return -1
	case u.upper > other.upper:
		return 1
	case u.lower < other.lower:
		return -1
	case u.lower > other.lower:
		return 1
	}
	return 0
}

// Equal returns true if u and other represent the same UUID
func (u UUID) Equal(other UUID) bool {
	return u == other
}

// Hash returns a 64-bit hash of u that is stable across processes and
// consistent with Equal. Each half is hashed independently; the lower
// hash is rotated so that swapping the halves changes the result.
func (u UUID) Hash() uint64 {
	var b [16]byte
	putUint64(b[:8], u.upper)
	putUint64(b[8:], u.lower)
	hi := xxhash.Sum64(b[:8])
	lo := xxhash.Sum64(b[8:])
	return hi ^ (lo<<32 | lo>>32)
}

// Timestamp extracts the Unix timestamp (in milliseconds) from a UUIDv7.
// It returns 0 for any other version.
func (u UUID) Timestamp() int64 {
	if u.Version() != VersionTimeSorted {
		return 0
	}
	return int64(u.upper >> timestampShift)
}

// Time returns the timestamp as a time.Time for UUIDv7
func (u UUID) Time() time.Time {
	if u.Version() != VersionTimeSorted {
		return time.Time{}
	}
	return time.UnixMilli(u.Timestamp())
}
