package fquuid

const (
	lowerHexDigits = "0123456789abcdef"
	upperHexDigits = "0123456789ABCDEF"

	badHex = 0xff
)

// hexValues maps a code unit in 0..255 to its hex value, or badHex.
var hexValues = func() (t [256]byte) {
	for i := range t {
		switch {
		case '0' <= i && i <= '9':
			t[i] = byte(i - '0')
		case 'a' <= i && i <= 'f':
			t[i] = byte(i - 'a' + 10)
		case 'A' <= i && i <= 'F':
			t[i] = byte(i - 'A' + 10)
		default:
			t[i] = badHex
		}
	}
	return t
}()

func hexValue[C Char](c C) byte {
	if uint32(c) > 0xff {
		return badHex
	}
	return hexValues[byte(c)]
}

// decodeHex reads up to 16 hex digits most significant first.
// ok is false if any digit is invalid.
func decodeHex[C Char](s []C) (x uint64, ok bool) {
	var bad byte
	for _, c := range s {
		v := hexValue(c)
		bad |= v
		x = x<<4 | uint64(v&0xf)
	}
	return x, bad&0xf0 == 0
}

// encodeHex fills dst with the low 4*len(dst) bits of x, most significant
// digit first.
func encodeHex[C Char](dst []C, x uint64, digits string) {
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = C(digits[x&0xf])
		x >>= 4
	}
}
