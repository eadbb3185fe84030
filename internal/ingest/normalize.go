package ingest

import (
	"strings"
	"sync"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

var repairPool = sync.Pool{
	New: func() any {
		return runes.ReplaceIllFormed()
	},
}

// Normalize repairs encoding problems in loaded text without changing its character
// count: each ill-formed UTF-8 byte becomes U+FFFD and a lone carriage return becomes
// a newline. Whitespace is left exactly as the source has it, so the input cap and
// the fingerprint see what the user wrote.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	tr := repairPool.Get().(transform.Transformer)
	fixed, _, err := transform.String(tr, s)
	tr.Reset()
	repairPool.Put(tr)
	if err == nil {
		s = fixed
	}

	if !strings.Contains(s, "\r") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\r' && (i+1 == len(s) || s[i+1] != '\n') {
			c = '\n'
		}
		b.WriteByte(c)
	}
	return b.String()
}
