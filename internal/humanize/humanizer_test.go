package humanize

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"humanizer/internal/articulation"
	"humanizer/internal/config"
	"humanizer/internal/perception"
	"humanizer/internal/persona"
	"humanizer/internal/textproc"
)

type fakeClient struct {
	mu       sync.Mutex
	calls    int
	systems  []string
	users    []string
	response string
	err      error
}

func (f *fakeClient) Complete(ctx context.Context, prompt string) (string, error) {
	return f.CompleteWithSystem(ctx, "", prompt)
}

func (f *fakeClient) CompleteWithSystem(_ context.Context, system, user string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.systems = append(f.systems, system)
	f.users = append(f.users, user)
	return f.response, f.err
}

func newTestHumanizer(t *testing.T, client perception.LLMClient, seed uint64) *Humanizer {
	t.Helper()
	h, err := New(client, DefaultOptions(), persona.DefaultSet(), nil, rand.New(rand.NewPCG(seed, seed)))
	require.NoError(t, err)
	return h
}

const sample = "Furthermore, the results demonstrate a significant improvement in recall across every benchmark we tried (Lee, 2021). " +
	"We utilize a simple baseline. It works. It is fast.\n\n" +
	"Subsequently, the team decided to prioritize the implementation of the second stage, because the first stage was already stable and well tested."

func TestHumanize_Success(t *testing.T) {
	client := &fakeClient{response: "  The rewritten passage reads well. It is short.  \n"}
	h := newTestHumanizer(t, client, 1)

	res, err := h.Humanize(context.Background(), sample)
	require.NoError(t, err)

	assert.Equal(t, 1, client.calls)
	assert.Equal(t, "The rewritten passage reads well. It is short.", res.Text)
	assert.Equal(t, 8, res.OutputWords)
	assert.Equal(t, utf8.RuneCountInString(res.Text), res.OutputChars)
	assert.Equal(t, textproc.WordCount(sample), res.InputWords)
	assert.Equal(t, textproc.FingerprintOf(sample), res.Fingerprint)
	assert.False(t, res.Truncated)
	assert.Equal(t, h.SessionID(), res.SessionID)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, 2, res.Readability.Sentences)
	assert.Equal(t, persona.DefaultSet().At(res.PersonaIndex).Label, res.Persona)

	p := persona.DefaultSet().At(res.PersonaIndex)
	assert.Equal(t, p.Instruction, client.systems[0])
	assert.True(t, strings.HasPrefix(client.users[0], p.Instruction+"\n\n"))
	assert.True(t, strings.HasSuffix(client.users[0], articulation.CitationClause(p.PreserveCitations)))
}

func TestHumanize_EmptyInputNeverCallsClient(t *testing.T) {
	client := &fakeClient{response: "x"}
	h := newTestHumanizer(t, client, 1)

	for _, in := range []string{"", "   ", "\n\t \n"} {
		_, err := h.Humanize(context.Background(), in)
		assert.ErrorIs(t, err, ErrInputEmpty, "input=%q", in)
	}
	assert.Zero(t, client.calls)
}

func TestHumanize_ExternalFailure(t *testing.T) {
	cause := perception.ErrRateLimited
	client := &fakeClient{err: cause}
	h := newTestHumanizer(t, client, 1)

	_, err := h.Humanize(context.Background(), sample)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExternalCall)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, client.calls, "the call must not be retried")
}

func TestHumanize_NoClient(t *testing.T) {
	h := newTestHumanizer(t, nil, 1)
	_, err := h.Humanize(context.Background(), sample)
	assert.ErrorIs(t, err, ErrNoClient)

	prep, err := h.Prepare(sample)
	require.NoError(t, err)
	assert.NotEmpty(t, prep.Prompt.User)
}

func TestHumanize_BlankInputWithoutClient(t *testing.T) {
	h := newTestHumanizer(t, nil, 1)
	_, err := h.Humanize(context.Background(), "  \n\t ")
	assert.ErrorIs(t, err, ErrInputEmpty)
	assert.NotErrorIs(t, err, ErrNoClient)
}

func TestPrepare_TruncatesToFirstTenThousandChars(t *testing.T) {
	input := strings.Repeat("abcdefghi ", 1200)
	require.Equal(t, 12000, len(input))

	h := newTestHumanizer(t, nil, 1)
	prep, err := h.Prepare(input)
	require.NoError(t, err)

	assert.True(t, prep.Passage.Truncated)
	assert.Equal(t, 10000, prep.Passage.Chars)
	assert.Equal(t, input[:10000], prep.Passage.Text)
	assert.Equal(t, textproc.FingerprintOf(input[:10000]), prep.Fingerprint)
}

func TestPrepare_TruncationCountsRunes(t *testing.T) {
	input := strings.Repeat("é", 10005)
	h := newTestHumanizer(t, nil, 1)
	prep, err := h.Prepare(input)
	require.NoError(t, err)
	assert.Equal(t, 10000, utf8.RuneCountInString(prep.Passage.Text))
	assert.True(t, utf8.ValidString(prep.Passage.Text))
}

func TestPrepare_ShortInputNotTruncated(t *testing.T) {
	h := newTestHumanizer(t, nil, 1)
	prep, err := h.Prepare("Short text.")
	require.NoError(t, err)
	assert.False(t, prep.Passage.Truncated)
	assert.Equal(t, "Short text.", prep.Passage.Text)
}

func TestPrepare_SimplifiesVocabulary(t *testing.T) {
	opts := DefaultOptions()
	opts.Balance.ShortSuffixProbability = 0
	opts.Redundancy.Probability = 0
	opts.Fragments.Probability = 0

	h, err := New(nil, opts, persona.DefaultSet(), nil, rand.New(rand.NewPCG(3, 3)))
	require.NoError(t, err)

	prep, err := h.Prepare("We utilize tools. Therefore we win.")
	require.NoError(t, err)
	assert.Equal(t, "We use tools. so we win.", prep.Mangled)
	assert.Contains(t, prep.Prompt.User, "We use tools. so we win.")
}

func TestPrepare_DeterministicForSeed(t *testing.T) {
	a, err := newTestHumanizer(t, nil, 42).Prepare(sample)
	require.NoError(t, err)
	b, err := newTestHumanizer(t, nil, 42).Prepare(sample)
	require.NoError(t, err)

	assert.Equal(t, a.Mangled, b.Mangled)
	assert.Equal(t, a.PersonaIndex, b.PersonaIndex)
	assert.Equal(t, a.Prompt, b.Prompt)
}

func TestHumanize_RotatesPersonasForSamePassage(t *testing.T) {
	client := &fakeClient{response: "ok"}
	h := newTestHumanizer(t, client, 7)
	n := persona.DefaultSet().Len()

	seen := make(map[int]bool)
	for range n {
		res, err := h.Humanize(context.Background(), sample)
		require.NoError(t, err)
		assert.False(t, seen[res.PersonaIndex], "persona %d repeated within a cycle", res.PersonaIndex)
		seen[res.PersonaIndex] = true
	}
	assert.Len(t, seen, n)

	_, err := h.Humanize(context.Background(), sample)
	require.NoError(t, err)
	assert.Equal(t, n+1, client.calls)
}

func TestHumanize_FailedCallStillConsumesPersona(t *testing.T) {
	history := persona.NewMemoryHistory()
	h, err := New(&fakeClient{err: errors.New("down")}, DefaultOptions(), persona.DefaultSet(), history, rand.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)

	_, err = h.Humanize(context.Background(), sample)
	require.Error(t, err)
	assert.Len(t, history.Used(textproc.FingerprintOf(sample)), 1)
}

func TestNew_RejectsEmptySet(t *testing.T) {
	_, err := New(nil, DefaultOptions(), persona.Set{}, nil, nil)
	assert.ErrorIs(t, err, persona.ErrSetSize)
}

func TestHumanize_TracingClientGetsSession(t *testing.T) {
	tc := perception.NewTracingClient(&fakeClient{response: "done"})
	h := newTestHumanizer(t, tc, 1)

	_, err := h.Humanize(context.Background(), sample)
	require.NoError(t, err)
	require.NotNil(t, tc.LastTrace())
	assert.Equal(t, h.SessionID(), tc.LastTrace().SessionID)
}

func TestOptionsFromConfig(t *testing.T) {
	pc := config.DefaultConfig().Pipeline
	pc.MaxFragments = 2
	pc.ChunkMaxWords = 9

	opts := OptionsFromConfig(pc)
	assert.Equal(t, 10000, opts.MaxInputChars)
	assert.Equal(t, 2, opts.Fragments.MaxInsertions)
	assert.Equal(t, 9, opts.Balance.ChunkMaxWords)
	assert.Equal(t, 0.15, opts.Redundancy.Probability)
	assert.Equal(t, DefaultOptions().Balance.LongThreshold, opts.Balance.LongThreshold)
}

func TestNewPassage(t *testing.T) {
	p := NewPassage("one two three", 0)
	assert.False(t, p.Truncated)
	assert.Equal(t, 3, p.Words)
	assert.Equal(t, 13, p.Chars)

	p = NewPassage("abcdef", 3)
	assert.True(t, p.Truncated)
	assert.Equal(t, "abc", p.Text)

	assert.True(t, NewPassage(" \n ", 10).Blank())
}
