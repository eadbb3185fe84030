package persona

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"humanizer/internal/textproc"
)

func TestDefaultSet(t *testing.T) {
	set := DefaultSet()
	require.Equal(t, 6, set.Len())
	assert.Equal(t, "Precision Student", set.At(0).Label)

	var paraphrasing []string
	for _, p := range set.All() {
		if !p.PreserveCitations {
			paraphrasing = append(paraphrasing, p.Label)
		}
	}
	assert.Equal(t, []string{"Casual Blogger"}, paraphrasing)
}

func TestNewSet_SizeBounds(t *testing.T) {
	mk := func(n int) []Persona {
		out := make([]Persona, n)
		for i := range out {
			out[i] = Persona{Label: string(rune('A' + i)), Instruction: "Rewrite it."}
		}
		return out
	}

	for _, n := range []int{0, 1, 9} {
		_, err := NewSet(mk(n))
		assert.ErrorIs(t, err, ErrSetSize, "n=%d", n)
	}
	for _, n := range []int{2, 8} {
		set, err := NewSet(mk(n))
		require.NoError(t, err, "n=%d", n)
		assert.Equal(t, n, set.Len())
	}
}

func TestNewSet_RejectsInvalidPersonas(t *testing.T) {
	_, err := NewSet([]Persona{{Label: "A", Instruction: "x"}, {Label: "a", Instruction: "y"}})
	assert.ErrorIs(t, err, ErrDuplicateLabel)

	_, err = NewSet([]Persona{{Label: "A", Instruction: "x"}, {Label: "", Instruction: "y"}})
	assert.Error(t, err)

	_, err = NewSet([]Persona{{Label: "A", Instruction: "x"}, {Label: "B", Instruction: "   "}})
	assert.Error(t, err)
}

func TestNewSet_CopiesInput(t *testing.T) {
	in := []Persona{{Label: "A", Instruction: "x"}, {Label: "B", Instruction: "y"}}
	set, err := NewSet(in)
	require.NoError(t, err)
	in[0].Label = "mutated"
	assert.Equal(t, "A", set.At(0).Label)

	all := set.All()
	all[1].Label = "mutated"
	assert.Equal(t, "B", set.At(1).Label)
}

func TestSet_Filter(t *testing.T) {
	set := DefaultSet()

	sub, err := set.Filter([]string{"lab notebook", "Precision Student"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Precision Student", "Lab Notebook"}, sub.Labels())

	same, err := set.Filter(nil)
	require.NoError(t, err)
	assert.Equal(t, set.Labels(), same.Labels())

	_, err = set.Filter([]string{"Precision Student", "Nobody"})
	assert.ErrorIs(t, err, ErrUnknownLabel)

	_, err = set.Filter([]string{"Lab Notebook"})
	assert.ErrorIs(t, err, ErrSetSize)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personas.yaml")
	content := `- label: Terse
  preserve_citations: true
  instruction: Rewrite tersely.
- label: Loose
  preserve_citations: false
  instruction: Rewrite loosely.
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	set, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())
	assert.Equal(t, Persona{Label: "Loose", PreserveCitations: false, Instruction: "Rewrite loosely."}, set.At(1))
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "one.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- label: Solo\n  instruction: x\n"), 0644))
	_, err = LoadFile(path)
	assert.ErrorIs(t, err, ErrSetSize)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("label: [unclosed"), 0644))
	_, err = LoadFile(bad)
	assert.Error(t, err)
}

func TestMemoryHistory(t *testing.T) {
	h := NewMemoryHistory()
	fp := textproc.FingerprintOf("passage")

	assert.Empty(t, h.Used(fp))
	h.Record(fp, 2)
	h.Record(fp, 0)
	h.Record(fp, 2)
	assert.Equal(t, []int{2, 0}, h.Used(fp))

	used := h.Used(fp)
	used[0] = 99
	assert.Equal(t, []int{2, 0}, h.Used(fp), "Used must return a copy")

	h.Reset(fp)
	assert.Empty(t, h.Used(fp))
}

func TestSelector_NoRepeatWithinCycle(t *testing.T) {
	set := DefaultSet()
	for seed := uint64(0); seed < 50; seed++ {
		sel := NewSelector(set, rand.New(rand.NewPCG(seed, 3)))
		h := NewMemoryHistory()
		fp := textproc.FingerprintOf("the same passage")

		seen := make(map[int]bool)
		for i := 0; i < set.Len(); i++ {
			p, idx := sel.Select(fp, h)
			assert.False(t, seen[idx], "seed=%d repeated index %d", seed, idx)
			assert.Equal(t, set.At(idx), p)
			seen[idx] = true

			used := h.Used(fp)
			assert.Len(t, used, i+1)
			assert.LessOrEqual(t, len(used), set.Len())
		}
		assert.Len(t, seen, set.Len())
	}
}

func TestSelector_ResetsWhenExhausted(t *testing.T) {
	set := DefaultSet()
	sel := NewSelector(set, rand.New(rand.NewPCG(1, 2)))
	h := NewMemoryHistory()
	fp := textproc.FingerprintOf("x")

	for range set.Len() {
		sel.Select(fp, h)
	}
	require.Len(t, h.Used(fp), set.Len())

	_, idx := sel.Select(fp, h)
	assert.Equal(t, []int{idx}, h.Used(fp))
}

func TestSelector_FingerprintsAreIndependent(t *testing.T) {
	set := DefaultSet()
	sel := NewSelector(set, rand.New(rand.NewPCG(5, 5)))
	h := NewMemoryHistory()
	a, b := textproc.FingerprintOf("a"), textproc.FingerprintOf("b")

	sel.Select(a, h)
	sel.Select(a, h)
	sel.Select(b, h)
	assert.Len(t, h.Used(a), 2)
	assert.Len(t, h.Used(b), 1)
}

func TestSelector_Deterministic(t *testing.T) {
	run := func() []int {
		sel := NewSelector(DefaultSet(), rand.New(rand.NewPCG(9, 9)))
		h := NewMemoryHistory()
		var out []int
		for range 10 {
			_, idx := sel.Select(textproc.FingerprintOf("p"), h)
			out = append(out, idx)
		}
		return out
	}
	assert.Equal(t, run(), run())
}
