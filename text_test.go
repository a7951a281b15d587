package fquuid

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

const (
	canonicalText = "d604557f-6739-4883-b627-bc0a81b84e97"
	bareText      = "d604557f67394883b627bc0a81b84e97"
)

var canonicalUUID = FromUint64s(0xd604557f67394883, 0xb627bc0a81b84e97)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"canonical format", canonicalText},
		{"upper case", strings.ToUpper(canonicalText)},
		{"mixed case", "D604557f-6739-4883-B627-bc0A81b84E97"},
		{"without hyphens", bareText},
		{"without hyphens upper case", strings.ToUpper(bareText)},
		{"with braces", "{" + canonicalText + "}"},
		{"with braces without hyphens", "{" + bareText + "}"},
		{"trailing NUL", canonicalText + "\x00"},
		{"without hyphens trailing NUL", bareText + "\x00"},
		{"with braces trailing NUL", "{" + canonicalText + "}\x00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uuid, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if uuid != canonicalUUID {
				t.Errorf("Parse() = %v, want %v", uuid, canonicalUUID)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "", ErrInvalidLength},
		{"only NUL", "\x00", ErrInvalidLength},
		{"35 characters", canonicalText[:35], ErrInvalidLength},
		{"31 hex digits", bareText[:31], ErrInvalidLength},
		{"33 hex digits", bareText + "0", ErrInvalidLength},
		{"35 hex digits", bareText + "012", ErrInvalidLength},
		{"37 hex digits", bareText + "01234", ErrInvalidLength},
		{"trailing garbage", canonicalText + "000", ErrInvalidLength},
		{"trailing newline", bareText + "\n", ErrInvalidLength},
		{"two trailing NULs", canonicalText + "\x00\x00", ErrInvalidLength},
		{"URN prefix", "urn:uuid:" + canonicalText, ErrInvalidLength},
		{"empty braces", "{}", ErrInvalidLength},
		{"misplaced dash", "d604557f-6739-4883-b627b-c0a81b84e97", ErrInvalidSeparator},
		{"dashes shifted", "d604557f6-739-4883-b627-bc0a81b84e97", ErrInvalidSeparator},
		{"spaces for dashes", "d604557f 6739 4883 b627 bc0a81b84e97", ErrInvalidSeparator},
		{"non-hex in group", "d604557f-6739-x883-b627-bc0a81b84e97", ErrInvalidHex},
		{"non-hex first", "g604557f-6739-4883-b627-bc0a81b84e97", ErrInvalidHex},
		{"non-hex last", "d604557f-6739-4883-b627-bc0a81b84e9z", ErrInvalidHex},
		{"non-hex without hyphens", "g604557f67394883b627bc0a81b84e97", ErrInvalidHex},
		{"dash in bare form", "d604557f-673948-b627bc0a81b84e97", ErrInvalidHex},
		{"opening brace only", "{" + canonicalText, ErrUnbalancedBraces},
		{"closing brace only", canonicalText + "}", ErrUnbalancedBraces},
		{"lone brace", "{", ErrUnbalancedBraces},
		{"reversed braces", "}" + canonicalText + "{", ErrInvalidLength},
		{"double braces", "{{" + canonicalText + "}}", ErrInvalidLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uuid, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) = %v, want error", tt.input, uuid)
			}
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("Parse() error = %v, want ErrInvalidFormat", err)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
			var fe *FormatError
			if !errors.As(err, &fe) || fe.Op != "parse" {
				t.Errorf("Parse() error = %#v, want *FormatError with Op parse", err)
			}
			if !uuid.IsNil() {
				t.Errorf("Parse() returned partial value %v", uuid)
			}
		})
	}
}

func TestParseText_Widths(t *testing.T) {
	utf16 := make([]uint16, 0, CanonicalLen)
	for _, r := range canonicalText {
		utf16 = append(utf16, uint16(r))
	}
	if u, err := ParseUTF16(utf16); err != nil || u != canonicalUUID {
		t.Errorf("ParseUTF16() = %v, %v, want %v", u, err, canonicalUUID)
	}

	runes := []rune("{" + strings.ToUpper(bareText) + "}\x00")
	if u, err := ParseRunes(runes); err != nil || u != canonicalUUID {
		t.Errorf("ParseRunes() = %v, %v, want %v", u, err, canonicalUUID)
	}

	wide := make([]uint32, 0, HexLen)
	for _, r := range bareText {
		wide = append(wide, uint32(r))
	}
	if u, err := ParseText(wide); err != nil || u != canonicalUUID {
		t.Errorf("ParseText([]uint32) = %v, %v, want %v", u, err, canonicalUUID)
	}

	type char8 byte
	c8 := []char8(canonicalText)
	if u, err := ParseText(c8); err != nil || u != canonicalUUID {
		t.Errorf("ParseText([]char8) = %v, %v, want %v", u, err, canonicalUUID)
	}
}

func TestParseText_WideNonASCII(t *testing.T) {
	// 0x0130 and 0x10030 truncate to '0' when narrowed to a byte; they
	// must still be rejected.
	s := make([]uint16, 0, HexLen)
	for _, r := range bareText {
		s = append(s, uint16(r))
	}
	s[5] = 0x0130
	if _, err := ParseUTF16(s); !errors.Is(err, ErrInvalidHex) {
		t.Errorf("ParseUTF16() error = %v, want %v", err, ErrInvalidHex)
	}

	r := []rune(canonicalText)
	r[0] = 0x10030
	if _, err := ParseRunes(r); !errors.Is(err, ErrInvalidHex) {
		t.Errorf("ParseRunes() error = %v, want %v", err, ErrInvalidHex)
	}

	r = []rune(canonicalText)
	r[0] = -1
	if _, err := ParseRunes(r); !errors.Is(err, ErrInvalidHex) {
		t.Errorf("ParseRunes() error = %v, want %v", err, ErrInvalidHex)
	}
}

func TestParse_FormEquivalence(t *testing.T) {
	a := MustParse(bareText)
	b := MustParse(canonicalText)
	c := MustParse("{" + canonicalText + "}")
	d := MustParse(strings.ToUpper(canonicalText))
	if a != b || b != c || c != d {
		t.Errorf("forms disagree: %v %v %v %v", a, b, c, d)
	}
}

func TestMustParse(t *testing.T) {
	// Valid UUID should not panic
	uuid := MustParse("f47ac10b-58cc-4372-a567-0e02b2c3d479")
	if uuid != testUUID {
		t.Errorf("MustParse() = %v, want %v", uuid, testUUID)
	}

	// Invalid UUID should panic
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustParse() did not panic on invalid input")
		}
	}()
	MustParse("invalid-uuid")
}

func TestUUID_String(t *testing.T) {
	want := "f47ac10b-58cc-4372-a567-0e02b2c3d479"
	got := testUUID.String()
	if got != want {
		t.Errorf("String() = %v, want %v", got, want)
	}
}

func TestFormatText(t *testing.T) {
	buf := bytes.Repeat([]byte{'*'}, 40)
	n, err := FormatText(canonicalUUID, buf, TerminatorNone)
	if err != nil {
		t.Fatalf("FormatText() error = %v", err)
	}
	if n != CanonicalLen {
		t.Errorf("FormatText() n = %d, want %d", n, CanonicalLen)
	}
	if got, want := string(buf), canonicalText+"****"; got != want {
		t.Errorf("FormatText() buffer = %q, want %q", got, want)
	}

	buf = bytes.Repeat([]byte{'*'}, 40)
	n, err = FormatText(canonicalUUID, buf, TerminatorNull)
	if err != nil {
		t.Fatalf("FormatText(TerminatorNull) error = %v", err)
	}
	if n != CanonicalLen+1 {
		t.Errorf("FormatText(TerminatorNull) n = %d, want %d", n, CanonicalLen+1)
	}
	if got, want := string(buf), canonicalText+"\x00***"; got != want {
		t.Errorf("FormatText(TerminatorNull) buffer = %q, want %q", got, want)
	}

	exactBuf := make([]uint16, CanonicalLen)
	if _, err := FormatText(canonicalUUID, exactBuf, TerminatorNone); err != nil {
		t.Fatalf("FormatText([]uint16) error = %v", err)
	}
	for i, c := range exactBuf {
		if rune(c) != rune(canonicalText[i]) {
			t.Fatalf("FormatText([]uint16)[%d] = %q, want %q", i, rune(c), canonicalText[i])
		}
	}
}

func TestFormatText_ShortBuffer(t *testing.T) {
	tests := []struct {
		name string
		size int
		term Terminator
	}{
		{"empty", 0, TerminatorNone},
		{"35 without terminator", 35, TerminatorNone},
		{"36 with terminator", 36, TerminatorNull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := bytes.Repeat([]byte{'*'}, tt.size)
			n, err := FormatText(canonicalUUID, buf, tt.term)
			if !errors.Is(err, ErrShortBuffer) || !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("FormatText() error = %v, want %v", err, ErrShortBuffer)
			}
			if n != 0 {
				t.Errorf("FormatText() n = %d, want 0", n)
			}
			if !bytes.Equal(buf, bytes.Repeat([]byte{'*'}, tt.size)) {
				t.Errorf("FormatText() wrote into a short buffer: %q", buf)
			}
		})
	}
}

func TestUUID_UTF16AndRunes(t *testing.T) {
	if got := string(canonicalUUID.Runes()); got != canonicalText {
		t.Errorf("Runes() = %q, want %q", got, canonicalText)
	}
	u16 := canonicalUUID.UTF16()
	if len(u16) != CanonicalLen {
		t.Fatalf("UTF16() length = %d, want %d", len(u16), CanonicalLen)
	}
	back, err := ParseUTF16(u16)
	if err != nil || back != canonicalUUID {
		t.Errorf("ParseUTF16(UTF16()) = %v, %v, want %v", back, err, canonicalUUID)
	}
}

func TestUUID_AppendText(t *testing.T) {
	b, err := canonicalUUID.AppendText([]byte("id="))
	if err != nil {
		t.Fatalf("AppendText() error = %v", err)
	}
	if got, want := string(b), "id="+canonicalText; got != want {
		t.Errorf("AppendText() = %q, want %q", got, want)
	}
}

func TestUUID_Format(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"%v", canonicalText},
		{"%s", canonicalText},
		{"{%v}", "{" + canonicalText + "}"},
		{"%x", bareText},
		{"%X", strings.ToUpper(bareText)},
		{"%q", `"` + canonicalText + `"`},
		{"%d", "%!d(fquuid.UUID=" + canonicalText + ")"},
	}
	for _, tt := range tests {
		if got := fmt.Sprintf(tt.format, canonicalUUID); got != tt.want {
			t.Errorf("Sprintf(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestText_RoundTrip(t *testing.T) {
	src := NewSeededSource(1)
	for i := 0; i < 1000; i++ {
		hi, _ := src.Uint64()
		lo, _ := src.Uint64()
		u := FromUint64s(hi, lo)

		got, err := Parse(u.String())
		if err != nil || got != u {
			t.Fatalf("Parse(String()) = %v, %v, want %v", got, err, u)
		}
		got, err = Parse(strings.ToUpper(u.String()))
		if err != nil || got != u {
			t.Fatalf("Parse(upper String()) = %v, %v, want %v", got, err, u)
		}
		got, err = Parse(u.EncodeToHex())
		if err != nil || got != u {
			t.Fatalf("Parse(EncodeToHex()) = %v, %v, want %v", got, err, u)
		}
	}
}
