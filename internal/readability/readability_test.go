package readability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyllables(t *testing.T) {
	tests := map[string]int{
		"cat":       1,
		"the":       1,
		"make":      1,
		"table":     2,
		"reading":   2,
		"Hello,":    2,
		"beautiful": 3,
		"rhythm":    1,
		"42":        0,
		"--":        0,
	}
	for word, want := range tests {
		assert.Equal(t, want, Syllables(word), "word=%q", word)
	}
}

func TestAnalyze(t *testing.T) {
	s := Analyze("The cat sat.")
	assert.Equal(t, 3, s.Words)
	assert.Equal(t, 1, s.Sentences)
	assert.Equal(t, 3, s.Syllables)
	assert.Equal(t, 12, s.Chars)
	assert.InDelta(t, 119.19, s.FleschReadingEase, 0.001)
}

func TestAnalyze_HarderTextScoresLower(t *testing.T) {
	easy := Analyze("The dog ran. It was fun. We sat in the sun.")
	hard := Analyze("Institutional considerations necessitate comprehensive organizational reevaluation of interdisciplinary methodologies.")
	assert.Greater(t, easy.FleschReadingEase, hard.FleschReadingEase)
}

func TestAnalyze_Empty(t *testing.T) {
	assert.Equal(t, Stats{}, Analyze(""))
	s := Analyze("  123 ... ")
	assert.Equal(t, 0, s.Words)
	assert.Zero(t, s.FleschReadingEase)
	assert.Equal(t, 10, s.Chars)
}

func TestAnalyze_CountsRunes(t *testing.T) {
	s := Analyze("Café déjà vu.")
	assert.Equal(t, 13, s.Chars)
	assert.Equal(t, 3, s.Words)
}

func TestGrade(t *testing.T) {
	assert.Equal(t, "very easy", Grade(95))
	assert.Equal(t, "standard", Grade(65))
	assert.Equal(t, "very confusing", Grade(-10))
}
