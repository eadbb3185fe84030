package textproc

// Synonym maps an elevated word to its plainer replacement.
type Synonym struct {
	Formal string
	Plain  string
}

// SynonymTable is applied in order. A later pair sees the output of earlier ones.
type SynonymTable []Synonym

// DefaultSynonyms is the built-in simplification table.
var DefaultSynonyms = SynonymTable{
	{Formal: "utilize", Plain: "use"},
	{Formal: "therefore", Plain: "so"},
	{Formal: "subsequently", Plain: "then"},
	{Formal: "prioritize", Plain: "focus on"},
	{Formal: "implementation", Plain: "doing"},
	{Formal: "prohibit", Plain: "stop"},
	{Formal: "facilitate", Plain: "help"},
	{Formal: "demonstrate", Plain: "show"},
	{Formal: "significant", Plain: "big"},
	{Formal: "furthermore", Plain: "also"},
}

// Pools holds the stock phrases sampled by the balancer and the injectors.
type Pools struct {
	// ShortSuffixes are appended to short sentences once a short run is capped.
	ShortSuffixes []string
	// EchoOpeners start the synthetic echo sentences.
	EchoOpeners []string
	// Fragments are inserted between sentences.
	Fragments []string
}

// DefaultPools returns a fresh copy of the built-in phrase pools.
func DefaultPools() Pools {
	return Pools{
		ShortSuffixes: []string{"Still.", "This matters.", "Even then."},
		EchoOpeners: []string{
			"This shows that",
			"It is clear that",
			"Put simply,",
			"Again,",
			"In the end,",
		},
		Fragments: []string{
			"This matters.", "That’s significant.", "It’s worth noting.", "Don’t ignore this.", "Key point.",
			"Still.", "Even then.", "That said.", "On the other hand.", "Then again.",
			"Not always.", "Could be debated.", "That’s one view.", "It’s not that simple.", "There’s more to it.",
			"That’s the issue.", "Potential flaw.", "Risk worth considering.", "Could break under pressure.", "Weak point.",
			"Makes sense in context.", "That explains it.", "Fits the pattern.", "Shows something deeper.", "Hard to ignore.",
		},
	}
}
