package render

import "strings"

// LessTS orders two fractional-seconds timestamp strings ascending by
// numeric value. The two dot-separated integer components are compared
// separately, so large timestamps do not lose precision to a float parse
// and "9.5" still sorts before "10.1".
func LessTS(a, b string) bool {
	aSec, aFrac := splitTS(a)
	bSec, bFrac := splitTS(b)
	if aSec != bSec {
		return lessInteger(aSec, bSec)
	}
	// Right-pad the fractional digits to equal width; equal-length digit
	// strings compare numerically.
	width := max(len(aFrac), len(bFrac))
	return padRight(aFrac, width) < padRight(bFrac, width)
}

func splitTS(ts string) (sec, frac string) {
	sec, frac, _ = strings.Cut(ts, ".")
	return sec, frac
}

// lessInteger compares two non-negative decimal integer strings of any
// length: shorter means smaller, equal length falls back to byte order.
func lessInteger(a, b string) bool {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat("0", width-len(s))
}
