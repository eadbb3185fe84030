package textproc

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"
)

// RedundancyOptions tunes the echo-sentence injector.
type RedundancyOptions struct {
	Probability float64
	// MinWords is exclusive: a sentence needs more than MinWords words to qualify.
	MinWords int
}

// FragmentOptions tunes the fragment injector.
type FragmentOptions struct {
	Probability float64
	// MaxInsertions caps fragments per call, across all paragraphs.
	MaxInsertions int
}

// InjectRedundancy appends an echo sentence after qualifying sentences. The echo
// restates the sentence's first word behind a randomly drawn opener.
func InjectRedundancy(text string, opts RedundancyOptions, pools Pools, rng *rand.Rand) string {
	return eachParagraph(text, func(para string) string {
		var out []string
		for s := range Sentences(para) {
			out = append(out, s)
			if len(pools.EchoOpeners) == 0 || WordCount(s) <= opts.MinWords {
				continue
			}
			if rng.Float64() < opts.Probability {
				out = append(out, echo(s, pick(rng, pools.EchoOpeners)))
			}
		}
		return strings.Join(out, " ")
	})
}

// InjectFragments inserts stock fragments between sentences until MaxInsertions
// fragments have been added.
func InjectFragments(text string, opts FragmentOptions, pools Pools, rng *rand.Rand) string {
	inserted := 0
	return eachParagraph(text, func(para string) string {
		var out []string
		for s := range Sentences(para) {
			out = append(out, s)
			if inserted >= opts.MaxInsertions || len(pools.Fragments) == 0 {
				continue
			}
			if rng.Float64() < opts.Probability {
				out = append(out, pick(rng, pools.Fragments))
				inserted++
			}
		}
		return strings.Join(out, " ")
	})
}

func echo(sentence, opener string) string {
	first := strings.Fields(sentence)[0]
	word := strings.TrimFunc(first, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
	if word == "" {
		word = first
	}
	return fmt.Sprintf("%s %s is important.", opener, strings.ToLower(word))
}

func eachParagraph(text string, fn func(string) string) string {
	paras := paragraphs(text)
	out := make([]string, 0, len(paras))
	for _, p := range paras {
		if s := fn(p); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n\n")
}
