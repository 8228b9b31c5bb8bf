package wide

import (
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// EqualFold reports whether the wide string a and the Go string s are equal
// under simple Unicode case folding. Host name lookups are case-insensitive.
func EqualFold(a []uint16, s string) bool {
	i := 0
	for len(s) > 0 {
		if i >= len(a) {
			return false
		}
		var r1 rune
		r1, i = nextRune(a, i)

		r2, size := utf8.DecodeRuneInString(s)
		s = s[size:]

		if r1 == r2 {
			continue
		}
		if unicode.ToLower(r1) != unicode.ToLower(r2) && unicode.ToUpper(r1) != unicode.ToUpper(r2) {
			return false
		}
	}
	return i == len(a)
}

func nextRune(a []uint16, i int) (rune, int) {
	u := a[i]
	if u >= surrHigh && u < surrLow && i+1 < len(a) && a[i+1] >= surrLow && a[i+1] < surrEnd {
		return utf16.DecodeRune(rune(u), rune(a[i+1])), i + 2
	}
	if u >= surrHigh && u < surrEnd {
		return utf8.RuneError, i + 1
	}
	return rune(u), i + 1
}
