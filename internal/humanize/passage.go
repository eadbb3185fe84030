package humanize

import (
	"strings"
	"unicode/utf8"

	"humanizer/internal/textproc"
)

// Passage is the user-supplied text after the input cap.
type Passage struct {
	Text      string
	Words     int
	Chars     int
	Truncated bool
}

// NewPassage keeps the first maxChars characters of text. A non-positive maxChars
// disables the cap.
func NewPassage(text string, maxChars int) Passage {
	p := Passage{Text: text}
	if maxChars > 0 && utf8.RuneCountInString(text) > maxChars {
		p.Text = truncateRunes(text, maxChars)
		p.Truncated = true
	}
	p.Words = textproc.WordCount(p.Text)
	p.Chars = utf8.RuneCountInString(p.Text)
	return p
}

// Blank reports whether the passage has no non-whitespace content.
func (p Passage) Blank() bool {
	return strings.TrimSpace(p.Text) == ""
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
