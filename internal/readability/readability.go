// Package readability computes word counts and the Flesch reading-ease score.
package readability

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"humanizer/internal/textproc"
)

// Stats describes a passage.
type Stats struct {
	Words     int
	Sentences int
	Syllables int
	Chars     int
	// FleschReadingEase is 206.835 - 1.015*(words/sentences) - 84.6*(syllables/words).
	// Zero for a passage without words.
	FleschReadingEase float64
}

// Analyze counts words, sentences, syllables and characters (runes) in text.
func Analyze(text string) Stats {
	s := Stats{Chars: utf8.RuneCountInString(text)}
	for _, w := range strings.Fields(text) {
		if n := Syllables(w); n > 0 {
			s.Words++
			s.Syllables += n
		}
	}
	if s.Words == 0 {
		return s
	}
	s.Sentences = len(textproc.Segment(text))
	if s.Sentences == 0 {
		s.Sentences = 1
	}
	s.FleschReadingEase = 206.835 -
		1.015*(float64(s.Words)/float64(s.Sentences)) -
		84.6*(float64(s.Syllables)/float64(s.Words))
	return s
}

// Syllables estimates the syllable count of one word by counting vowel groups.
// A trailing silent 'e' is dropped and every word with a letter counts at least one.
// Tokens without letters (numbers, punctuation) count zero.
func Syllables(word string) int {
	w := strings.ToLower(strings.TrimFunc(word, func(r rune) bool { return !unicode.IsLetter(r) }))
	if w == "" {
		return 0
	}

	count := 0
	prevVowel := false
	for _, r := range w {
		v := isVowel(r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}

	if strings.HasSuffix(w, "e") && !strings.HasSuffix(w, "le") && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

// Grade maps a reading-ease score onto the conventional Flesch bands.
func Grade(score float64) string {
	switch {
	case score >= 90:
		return "very easy"
	case score >= 80:
		return "easy"
	case score >= 70:
		return "fairly easy"
	case score >= 60:
		return "standard"
	case score >= 50:
		return "fairly difficult"
	case score >= 30:
		return "difficult"
	default:
		return "very confusing"
	}
}
