package fquuid

import "github.com/juju/clock"

// GenerateV7 builds a UUIDv7 for the Unix millisecond timestamp ms, which
// is truncated to its low 48 bits. The layout is:
//
//	unix_ts_ms (48) | ver (4) | rand_a (12) | var (2) | rand_b (62)
//
// rand_a and rand_b come from a 16-bit and a 64-bit draw of src. There is
// no per-millisecond counter: two values with the same timestamp are
// ordered by their random bits only.
func GenerateV7(src Source, ms int64) (UUID, error) {
	randA, err := Bits(src, 16)
	if err != nil {
		return Nil, err
	}
	randB, err := Bits(src, 64)
	if err != nil {
		return Nil, err
	}
	u := UUID{upper: randA, lower: randB}
	return u.withTimestamp(ms).withVersion(VersionTimeSorted).withRFCVariant(), nil
}

// GenerateV7Now is GenerateV7 stamped with clk.Now().
func GenerateV7Now(src Source, clk clock.Clock) (UUID, error) {
	return GenerateV7(src, clk.Now().UnixMilli())
}
