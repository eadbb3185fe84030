package textproc

import (
	"math/rand/v2"
	"strings"
	"unicode"
	"unicode/utf8"
)

// BalanceOptions tunes the length balancer.
type BalanceOptions struct {
	// LongThreshold is the word count above which a sentence is re-split.
	LongThreshold int
	// ShortRunCap is how many consecutive short sentences pass through untouched.
	ShortRunCap int
	// ShortSuffixProbability is the chance a capped short sentence gets a stock suffix.
	ShortSuffixProbability float64
	// ChunkMinWords and ChunkMaxWords bound the randomized chunk target.
	ChunkMinWords int
	ChunkMaxWords int
}

// DefaultBalanceOptions mirrors the built-in pipeline tuning.
func DefaultBalanceOptions() BalanceOptions {
	return BalanceOptions{
		LongThreshold:          20,
		ShortRunCap:            2,
		ShortSuffixProbability: 0.3,
		ChunkMinWords:          6,
		ChunkMaxWords:          12,
	}
}

// conjunctions open a new clause when a long sentence is chopped.
var conjunctions = map[string]struct{}{
	"and":     {},
	"but":     {},
	"because": {},
	"so":      {},
	"yet":     {},
	"or":      {},
}

// Balance evens out sentence length paragraph by paragraph. Long sentences are chopped
// into clause chunks; runs of short sentences beyond ShortRunCap may pick up a stock
// suffix. Paragraphs are joined by a blank line and sentences by a single space.
func Balance(text string, opts BalanceOptions, pools Pools, rng *rand.Rand) string {
	var out []string
	for _, para := range paragraphs(text) {
		var units []string
		shortRun := 0
		for s := range Sentences(para) {
			if WordCount(s) > opts.LongThreshold {
				units = append(units, chop(s, opts, rng)...)
				shortRun = 0
				continue
			}
			if shortRun < opts.ShortRunCap {
				units = append(units, s)
				shortRun++
				continue
			}
			if len(pools.ShortSuffixes) > 0 && rng.Float64() < opts.ShortSuffixProbability {
				s += " " + pick(rng, pools.ShortSuffixes)
			}
			units = append(units, s)
		}
		if len(units) > 0 {
			out = append(out, strings.Join(units, " "))
		}
	}
	return strings.Join(out, "\n\n")
}

// chop re-splits one long sentence. Clauses are accumulated until the running chunk
// reaches a randomized target; a short trailing chunk is still emitted.
func chop(sentence string, opts BalanceOptions, rng *rand.Rand) []string {
	var units []string
	var chunk []string
	target := chunkTarget(opts, rng)
	for _, clause := range splitClauses(sentence) {
		chunk = append(chunk, clause...)
		if len(chunk) >= target {
			units = append(units, asSentence(chunk))
			chunk = nil
			target = chunkTarget(opts, rng)
		}
	}
	if len(chunk) > 0 {
		units = append(units, asSentence(chunk))
	}
	return units
}

// splitClauses breaks a sentence after words ending in ',' or ';' and before
// coordinating conjunctions.
func splitClauses(sentence string) [][]string {
	var clauses [][]string
	var cur []string
	for _, w := range strings.Fields(sentence) {
		if _, ok := conjunctions[strings.ToLower(w)]; ok && len(cur) > 0 {
			clauses = append(clauses, cur)
			cur = nil
		}
		cur = append(cur, w)
		if strings.HasSuffix(w, ",") || strings.HasSuffix(w, ";") {
			clauses = append(clauses, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		clauses = append(clauses, cur)
	}
	return clauses
}

func chunkTarget(opts BalanceOptions, rng *rand.Rand) int {
	lo, hi := opts.ChunkMinWords, opts.ChunkMaxWords
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}
	return lo + rng.IntN(hi-lo+1)
}

// asSentence turns a word chunk into a standalone sentence: capitalized first letter,
// clause punctuation swapped for a period, terminal mark guaranteed.
func asSentence(words []string) string {
	s := strings.Join(words, " ")
	s = strings.TrimRight(s, ",;:")
	if s == "" {
		return s
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
	default:
		s += "."
	}
	r, size := utf8.DecodeRuneInString(s)
	if unicode.IsLower(r) {
		s = string(unicode.ToUpper(r)) + s[size:]
	}
	return s
}
