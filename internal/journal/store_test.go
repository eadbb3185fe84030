package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"humanizer/internal/humanize"
	"humanizer/internal/readability"
	"humanizer/internal/textproc"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, label := range []string{"Precision Student", "Lab Notebook", "Plain Explainer"} {
		_, err := s.Record(ctx, Entry{
			SessionID:   "session-1",
			Fingerprint: "abc",
			Persona:     label,
			InputWords:  10 + i,
			ReadingEase: 55.5,
			Truncated:   i == 2,
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	recent, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "Plain Explainer", recent[0].Persona)
	assert.Equal(t, "Lab Notebook", recent[1].Persona)
	assert.True(t, recent[0].Truncated)
	assert.False(t, recent[1].Truncated)
	assert.Equal(t, 12, recent[0].InputWords)
	assert.InDelta(t, 55.5, recent[0].ReadingEase, 1e-9)
	assert.True(t, recent[0].CreatedAt.Equal(base.Add(2*time.Second)))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRecordFillsDefaults(t *testing.T) {
	s := openTestStore(t)

	e, err := s.Record(context.Background(), Entry{SessionID: "s", Fingerprint: "f", Persona: "p"})
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.CreatedAt.IsZero())
	assert.Equal(t, time.UTC, e.CreatedAt.Location())
}

func TestRecordDuplicateID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Record(ctx, Entry{ID: "same", SessionID: "s", Fingerprint: "f", Persona: "p"})
	require.NoError(t, err)
	_, err = s.Record(ctx, Entry{ID: "same", SessionID: "s", Fingerprint: "f", Persona: "p"})
	assert.Error(t, err)
}

func TestSession(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, sid := range []string{"a", "b", "a", "a"} {
		_, err := s.Record(ctx, Entry{SessionID: sid, Fingerprint: "f", Persona: "p", PersonaIndex: i, CreatedAt: base.Add(time.Duration(i) * time.Millisecond)})
		require.NoError(t, err)
	}

	got, err := s.Session(ctx, "a")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int{0, 2, 3}, []int{got[0].PersonaIndex, got[1].PersonaIndex, got[2].PersonaIndex})
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Record(ctx, Entry{SessionID: "s", Fingerprint: "f", Persona: "p"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestClosedStore(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.Record(context.Background(), Entry{})
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.Recent(context.Background(), 5)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestEntryFromResult(t *testing.T) {
	r := &humanize.Result{
		ID:           "id-1",
		SessionID:    "sess",
		Persona:      "Lab Notebook",
		PersonaIndex: 4,
		Fingerprint:  textproc.FingerprintOf("hello"),
		Truncated:    true,
		InputWords:   3,
		InputChars:   17,
		OutputWords:  4,
		OutputChars:  21,
		Readability:  readability.Stats{FleschReadingEase: 71.2},
		Duration:     1500 * time.Millisecond,
	}

	e := EntryFromResult("essay.txt", r)
	assert.Equal(t, "id-1", e.ID)
	assert.Equal(t, "essay.txt", e.Source)
	assert.Equal(t, r.Fingerprint.String(), e.Fingerprint)
	assert.Equal(t, 4, e.PersonaIndex)
	assert.Equal(t, int64(1500), e.DurationMs)
	assert.InDelta(t, 71.2, e.ReadingEase, 1e-9)
	assert.True(t, e.Truncated)
}
