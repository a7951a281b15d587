package fquuid

// Size is the length of a UUID in bytes.
const Size = 16

// Byte is a one-byte element type usable as a binary buffer.
type Byte interface {
	~uint8 | ~int8
}

// Load reads a UUID from the first 16 elements of b in big-endian order.
// Element 0 is the most significant byte. Extra elements are ignored.
func Load[B Byte](b []B) (UUID, error) {
	in, ok := fixed(b, Size)
	if !ok {
		return Nil, formatErr("load", ErrInvalidLength)
	}
	return UUID{upper: loadUint64(in[:8]), lower: loadUint64(in[8:])}, nil
}

// Store writes u into the first 16 elements of dst in big-endian order.
// If dst is shorter than 16 nothing is written.
func Store[B Byte](u UUID, dst []B) error {
	out, ok := fixed(dst, Size)
	if !ok {
		return formatErr("store", ErrShortBuffer)
	}
	putUint64(out[:8], u.upper)
	putUint64(out[8:], u.lower)
	return nil
}

func loadUint64[B Byte](b []B) uint64 {
	_ = b[7]
	return uint64(uint8(b[0]))<<56 |
		uint64(uint8(b[1]))<<48 |
		uint64(uint8(b[2]))<<40 |
		uint64(uint8(b[3]))<<32 |
		uint64(uint8(b[4]))<<24 |
		uint64(uint8(b[5]))<<16 |
		uint64(uint8(b[6]))<<8 |
		uint64(uint8(b[7]))
}

func putUint64[B Byte](b []B, x uint64) {
	_ = b[7]
	b[0] = B(x >> 56)
	b[1] = B(x >> 48)
	b[2] = B(x >> 40)
	b[3] = B(x >> 32)
	b[4] = B(x >> 24)
	b[5] = B(x >> 16)
	b[6] = B(x >> 8)
	b[7] = B(x)
}

// Bytes returns the UUID as a newly allocated 16-byte slice
func (u UUID) Bytes() []byte {
	b := make([]byte, Size)
	putUint64(b[:8], u.upper)
	putUint64(b[8:], u.lower)
	return b
}

// Array returns the UUID as a 16-byte array
func (u UUID) Array() [Size]byte {
	var a [Size]byte
	putUint64(a[:8], u.upper)
	putUint64(a[8:], u.lower)
	return a
}
