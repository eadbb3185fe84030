// Package humanize runs the mangling pipeline and the rewrite call for one session.
//
// A passage flows through: input cap, fingerprint, lexical simplification, length
// balancing, redundancy injection, fragment injection, persona selection and prompt
// assembly. Only the final rewrite call performs I/O.
package humanize

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"humanizer/internal/articulation"
	"humanizer/internal/logging"
	"humanizer/internal/perception"
	"humanizer/internal/persona"
	"humanizer/internal/readability"
	"humanizer/internal/textproc"
)

// Prepared is everything computed before the rewrite call.
type Prepared struct {
	Passage      Passage
	Fingerprint  textproc.Fingerprint
	Mangled      string
	Persona      persona.Persona
	PersonaIndex int
	Prompt       articulation.Prompt
}

// Result is a finished rewrite.
type Result struct {
	ID           string
	SessionID    string
	Text         string
	Persona      string
	PersonaIndex int
	Fingerprint  textproc.Fingerprint
	Truncated    bool
	InputWords   int
	InputChars   int
	OutputWords  int
	OutputChars  int
	Readability  readability.Stats
	Duration     time.Duration
}

// Humanizer owns one session: its persona history and random source. Calls are
// serialized.
type Humanizer struct {
	client     perception.LLMClient
	opts       Options
	simplifier *textproc.Simplifier
	selector   *persona.Selector
	history    persona.History
	rng        *rand.Rand
	sessionID  string

	mu sync.Mutex
}

// New builds a session. A nil history gets a fresh MemoryHistory and a nil rng is
// seeded randomly. client may be nil when only Prepare is used.
func New(client perception.LLMClient, opts Options, set persona.Set, history persona.History, rng *rand.Rand) (*Humanizer, error) {
	if set.Len() < persona.MinSetSize {
		return nil, fmt.Errorf("%w: got %d", persona.ErrSetSize, set.Len())
	}
	if history == nil {
		history = persona.NewMemoryHistory()
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Synonyms == nil {
		opts.Synonyms = textproc.DefaultSynonyms
	}

	h := &Humanizer{
		client:     client,
		opts:       opts,
		simplifier: textproc.NewSimplifier(opts.Synonyms),
		selector:   persona.NewSelector(set, rng),
		history:    history,
		rng:        rng,
		sessionID:  uuid.NewString(),
	}
	if tc, ok := client.(*perception.TracingClient); ok {
		tc.SetSession(h.sessionID)
	}
	logging.Pipeline("session %s started with %d personas", h.sessionID, set.Len())
	return h, nil
}

// SessionID identifies this session in logs and the journal.
func (h *Humanizer) SessionID() string { return h.sessionID }

// Personas returns the session's persona table.
func (h *Humanizer) Personas() persona.Set { return h.selector.Set() }

// Prepare runs every stage up to prompt assembly. It records the persona pick in the
// session history, so repeated calls rotate personas.
func (h *Humanizer) Prepare(text string) (*Prepared, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.prepare(text)
}

func (h *Humanizer) prepare(text string) (*Prepared, error) {
	timer := logging.StartTimer(logging.CategoryPipeline, "prepare")
	defer timer.Stop()

	passage := NewPassage(text, h.opts.MaxInputChars)
	if passage.Truncated {
		logging.Pipeline("input truncated to %d characters", passage.Chars)
	}
	if passage.Blank() {
		return nil, ErrInputEmpty
	}

	fp := textproc.FingerprintOf(passage.Text)

	mangled := h.simplifier.Simplify(passage.Text)
	mangled = textproc.Balance(mangled, h.opts.Balance, h.opts.Pools, h.rng)
	mangled = textproc.InjectRedundancy(mangled, h.opts.Redundancy, h.opts.Pools, h.rng)
	mangled = textproc.InjectFragments(mangled, h.opts.Fragments, h.opts.Pools, h.rng)
	logging.PipelineDebug("mangled %s: %d -> %d words", fp.Short(), passage.Words, textproc.WordCount(mangled))

	p, idx := h.selector.Select(fp, h.history)
	prompt := articulation.Assemble(p, mangled)
	logging.PipelineDebug("prompt for %s as %q: %d bytes", fp.Short(), p.Label, prompt.Len())

	return &Prepared{
		Passage:      passage,
		Fingerprint:  fp,
		Mangled:      mangled,
		Persona:      p,
		PersonaIndex: idx,
		Prompt:       prompt,
	}, nil
}

// Humanize prepares text and makes exactly one rewrite call. Failures of the call
// wrap ErrExternalCall.
func (h *Humanizer) Humanize(ctx context.Context, text string) (*Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Blank input is reported before a missing client; neither touches the history.
	if NewPassage(text, h.opts.MaxInputChars).Blank() {
		return nil, ErrInputEmpty
	}
	if h.client == nil {
		return nil, ErrNoClient
	}

	prep, err := h.prepare(text)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	out, err := h.client.CompleteWithSystem(ctx, prep.Prompt.System, prep.Prompt.User)
	if err != nil {
		logging.Get(logging.CategoryPipeline).Error("rewrite failed for %s: %v", prep.Fingerprint.Short(), err)
		return nil, fmt.Errorf("%w: %w", ErrExternalCall, err)
	}
	out = strings.TrimSpace(out)

	res := &Result{
		ID:           uuid.NewString(),
		SessionID:    h.sessionID,
		Text:         out,
		Persona:      prep.Persona.Label,
		PersonaIndex: prep.PersonaIndex,
		Fingerprint:  prep.Fingerprint,
		Truncated:    prep.Passage.Truncated,
		InputWords:   prep.Passage.Words,
		InputChars:   prep.Passage.Chars,
		OutputWords:  textproc.WordCount(out),
		OutputChars:  utf8.RuneCountInString(out),
		Readability:  readability.Analyze(out),
		Duration:     time.Since(start),
	}
	logging.Pipeline("rewrote %s with %q in %v", prep.Fingerprint.Short(), res.Persona, res.Duration)
	return res, nil
}
