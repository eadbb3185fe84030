package textproc

import (
	"regexp"
	"sync"
)

type synonymRule struct {
	pattern *regexp.Regexp
	plain   string
}

// Simplifier swaps formal vocabulary for plain words. Patterns are compiled once.
type Simplifier struct {
	rules []synonymRule
}

// NewSimplifier compiles a case-insensitive whole-word pattern for each table entry.
// Entries with an empty Formal word are skipped.
func NewSimplifier(table SynonymTable) *Simplifier {
	rules := make([]synonymRule, 0, len(table))
	for _, syn := range table {
		if syn.Formal == "" {
			continue
		}
		rules = append(rules, synonymRule{
			pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(syn.Formal) + `\b`),
			plain:   syn.Plain,
		})
	}
	return &Simplifier{rules: rules}
}

// Simplify applies every rule in table order.
func (s *Simplifier) Simplify(text string) string {
	for _, r := range s.rules {
		text = r.pattern.ReplaceAllLiteralString(text, r.plain)
	}
	return text
}

var (
	defaultSimplifier     *Simplifier
	defaultSimplifierOnce sync.Once
)

// Simplify runs the default synonym table over text.
func Simplify(text string) string {
	defaultSimplifierOnce.Do(func() {
		defaultSimplifier = NewSimplifier(DefaultSynonyms)
	})
	return defaultSimplifier.Simplify(text)
}
