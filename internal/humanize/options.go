package humanize

import (
	"humanizer/internal/config"
	"humanizer/internal/textproc"
)

// DefaultMaxInputChars is the passage cap in characters (runes).
const DefaultMaxInputChars = 10000

// Options tunes the mangling stages.
type Options struct {
	MaxInputChars int
	Synonyms      textproc.SynonymTable
	Pools         textproc.Pools
	Balance       textproc.BalanceOptions
	Redundancy    textproc.RedundancyOptions
	Fragments     textproc.FragmentOptions
}

// DefaultOptions returns the built-in tuning.
func DefaultOptions() Options {
	return Options{
		MaxInputChars: DefaultMaxInputChars,
		Synonyms:      textproc.DefaultSynonyms,
		Pools:         textproc.DefaultPools(),
		Balance:       textproc.DefaultBalanceOptions(),
		Redundancy:    textproc.RedundancyOptions{Probability: 0.15, MinWords: 6},
		Fragments:     textproc.FragmentOptions{Probability: 0.18, MaxInsertions: 5},
	}
}

// OptionsFromConfig maps the pipeline section of the config file onto Options.
func OptionsFromConfig(pc config.PipelineConfig) Options {
	opts := DefaultOptions()
	opts.MaxInputChars = pc.MaxInputChars
	opts.Balance = textproc.BalanceOptions{
		LongThreshold:          pc.LongThreshold,
		ShortRunCap:            pc.ShortRunCap,
		ShortSuffixProbability: pc.ShortSuffixProbability,
		ChunkMinWords:          pc.ChunkMinWords,
		ChunkMaxWords:          pc.ChunkMaxWords,
	}
	opts.Redundancy = textproc.RedundancyOptions{
		Probability: pc.RedundancyProbability,
		MinWords:    pc.RedundancyMinWords,
	}
	opts.Fragments = textproc.FragmentOptions{
		Probability:   pc.FragmentProbability,
		MaxInsertions: pc.MaxFragments,
	}
	return opts
}
