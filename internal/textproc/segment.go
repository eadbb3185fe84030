package textproc

import (
	"iter"
	"math/rand/v2"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sentences yields the sentence-like units of text. A unit ends at '.', '!' or '?'
// when the mark is immediately followed by whitespace. Units are trimmed and empty
// units are skipped. Abbreviations are not special-cased.
//
// The sequence re-scans text on every range, so it can be consumed more than once.
func Sentences(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		start := 0
		i := 0
		for i < len(text) {
			c := text[i]
			if c != '.' && c != '!' && c != '?' {
				i++
				continue
			}
			j := i + 1
			for j < len(text) {
				r, size := utf8.DecodeRuneInString(text[j:])
				if !unicode.IsSpace(r) {
					break
				}
				j += size
			}
			if j == i+1 {
				i++
				continue
			}
			if s := strings.TrimSpace(text[start : i+1]); s != "" {
				if !yield(s) {
					return
				}
			}
			start = j
			i = j
		}
		if s := strings.TrimSpace(text[start:]); s != "" {
			yield(s)
		}
	}
}

// Segment collects Sentences into a slice.
func Segment(text string) []string {
	return slices.Collect(Sentences(text))
}

// WordCount counts whitespace-delimited tokens.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// paragraphs splits text on line breaks (LF or CRLF) and drops blank lines.
func paragraphs(text string) []string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func pick(rng *rand.Rand, pool []string) string {
	return pool[rng.IntN(len(pool))]
}
