package persona

import (
	"math/rand/v2"
	"slices"
	"sync"

	"humanizer/internal/logging"
	"humanizer/internal/textproc"
)

// Selector picks personas so the same passage does not get the same persona twice
// until every persona has been used.
type Selector struct {
	set Set

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector binds a selector to a persona set and a random source.
func NewSelector(set Set, rng *rand.Rand) *Selector {
	return &Selector{set: set, rng: rng}
}

// Set returns the selector's persona table.
func (s *Selector) Set() Set { return s.set }

// Select chooses uniformly among the personas not yet used for fp. When all have
// been used the history for fp is reset first, so the last pick of one cycle may
// repeat as the first pick of the next.
func (s *Selector) Select(fp textproc.Fingerprint, h History) (Persona, int) {
	used := h.Used(fp)
	eligible := make([]int, 0, s.set.Len())
	for i := range s.set.Len() {
		if !slices.Contains(used, i) {
			eligible = append(eligible, i)
		}
	}
	if len(eligible) == 0 {
		logging.Persona("history exhausted for %s, resetting after %d picks", fp.Short(), len(used))
		h.Reset(fp)
		for i := range s.set.Len() {
			eligible = append(eligible, i)
		}
	}

	s.mu.Lock()
	idx := eligible[s.rng.IntN(len(eligible))]
	s.mu.Unlock()

	h.Record(fp, idx)
	p := s.set.At(idx)
	logging.PersonaDebug("selected persona %d (%s) for %s", idx, p.Label, fp.Short())
	return p, idx
}
