package wide

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/wippyai/native-addin/errors"
)

const (
	surrHigh = 0xD800
	surrLow  = 0xDC00
	surrEnd  = 0xE000

	// decodeStackCap is the UTF-8 scratch size Decode keeps on the stack.
	decodeStackCap = 256
)

// EncodedLen returns the number of UTF-16 code units needed to encode s.
func EncodedLen(s string) int {
	n := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			n++
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// Encode returns s as UTF-16 in a slice of exactly EncodedLen(s) code units.
func Encode(s string) []uint16 {
	if s == "" {
		return []uint16{}
	}
	return AppendEncode(make([]uint16, 0, EncodedLen(s)), s)
}

// AppendEncode appends the UTF-16 encoding of s to dst.
func AppendEncode(dst []uint16, s string) []uint16 {
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			dst = append(dst, uint16(c))
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		dst = utf16.AppendRune(dst, r)
	}
	return dst
}

// Decode converts UTF-16 code units to a Go string, failing on unpaired
// surrogates.
func Decode(src []uint16) (string, error) {
	var stack [decodeStackCap]byte
	buf, err := appendDecode(stack[:0], src, true)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// DecodeLossy converts UTF-16 code units to a Go string, replacing unpaired
// surrogates with U+FFFD.
func DecodeLossy(src []uint16) string {
	var stack [decodeStackCap]byte
	buf, _ := appendDecode(stack[:0], src, false)
	return string(buf)
}

// AppendDecode appends the strict UTF-8 decoding of src to dst.
func AppendDecode(dst []byte, src []uint16) ([]byte, error) {
	return appendDecode(dst, src, true)
}

// Valid reports whether src contains no unpaired surrogates.
func Valid(src []uint16) bool {
	for i := 0; i < len(src); i++ {
		u := src[i]
		if u < surrHigh || u >= surrEnd {
			continue
		}
		if u < surrLow && i+1 < len(src) && src[i+1] >= surrLow && src[i+1] < surrEnd {
			i++
			continue
		}
		return false
	}
	return true
}

func appendDecode(dst []byte, src []uint16, strict bool) ([]byte, error) {
	for i := 0; i < len(src); i++ {
		u := src[i]
		switch {
		case u < utf8.RuneSelf:
			dst = append(dst, byte(u))
		case u < surrHigh || u >= surrEnd:
			dst = utf8.AppendRune(dst, rune(u))
		case u < surrLow && i+1 < len(src) && src[i+1] >= surrLow && src[i+1] < surrEnd:
			dst = utf8.AppendRune(dst, utf16.DecodeRune(rune(u), rune(src[i+1])))
			i++
		default:
			if strict {
				return dst, errors.InvalidUTF16(errors.PhaseEncoding, nil, i, u)
			}
			dst = utf8.AppendRune(dst, utf8.RuneError)
		}
	}
	return dst, nil
}
