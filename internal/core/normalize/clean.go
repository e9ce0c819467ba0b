// Package normalize cleans upstream text before it is stored
// Pipeline order
// 1 drop invalid UTF-8 bytes
// 2 drop control characters except newline, carriage return and tab
// 3 Unicode NFC composition
package normalize

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			runes.Remove(runes.Predicate(drop)),
			norm.NFC,
		)
	},
}

// drop sees only valid UTF-8, so a RuneError here is an encoded U+FFFD and stays
func drop(r rune) bool {
	if r == '\n' || r == '\r' || r == '\t' {
		return false
	}
	return unicode.IsControl(r)
}

// Clean returns s without invalid bytes or control characters, NFC composed.
// Already clean input is returned unchanged without allocating
func Clean(s string) string {
	if isClean(s) {
		return s
	}
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		return s
	}
	return out
}

// isClean is the fast path: printable ASCII plus allowed whitespace, or valid
// UTF-8 that is already NFC with no controls
func isClean(s string) bool {
	ascii := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x80 {
			ascii = false
			break
		}
		if (c < 0x20 && c != '\n' && c != '\r' && c != '\t') || c == 0x7F {
			return false
		}
	}
	if ascii {
		return true
	}
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if drop(r) {
			return false
		}
	}
	return norm.NFC.IsNormalString(s)
}
