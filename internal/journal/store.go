// Package journal keeps an on-disk audit trail of rewrites in SQLite.
//
// The journal only records what happened. Persona history is never read back from it,
// so a new session always starts with an empty history.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"humanizer/internal/humanize"
	"humanizer/internal/logging"
)

// timeLayout sorts lexically in time order for UTC values.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DefaultLimit is used by Recent when limit is not positive.
const DefaultLimit = 20

// ErrClosed is returned after Close.
var ErrClosed = errors.New("journal is closed")

// Entry is one journaled rewrite.
type Entry struct {
	ID           string
	SessionID    string
	Source       string
	Fingerprint  string
	Persona      string
	PersonaIndex int
	InputWords   int
	InputChars   int
	OutputWords  int
	OutputChars  int
	ReadingEase  float64
	Truncated    bool
	DurationMs   int64
	CreatedAt    time.Time
}

// EntryFromResult converts a finished rewrite. source names where the passage came from.
func EntryFromResult(source string, r *humanize.Result) Entry {
	return Entry{
		ID:           r.ID,
		SessionID:    r.SessionID,
		Source:       source,
		Fingerprint:  r.Fingerprint.String(),
		Persona:      r.Persona,
		PersonaIndex: r.PersonaIndex,
		InputWords:   r.InputWords,
		InputChars:   r.InputChars,
		OutputWords:  r.OutputWords,
		OutputChars:  r.OutputChars,
		ReadingEase:  r.Readability.FleschReadingEase,
		Truncated:    r.Truncated,
		DurationMs:   r.Duration.Milliseconds(),
	}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS rewrites (
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	source TEXT NOT NULL DEFAULT '',
	fingerprint TEXT NOT NULL,
	persona TEXT NOT NULL,
	persona_index INTEGER NOT NULL,
	input_words INTEGER NOT NULL,
	input_chars INTEGER NOT NULL,
	output_words INTEGER NOT NULL,
	output_chars INTEGER NOT NULL,
	reading_ease REAL NOT NULL,
	truncated INTEGER NOT NULL DEFAULT 0,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_rewrites_created ON rewrites(created_at);
CREATE INDEX IF NOT EXISTS idx_rewrites_session ON rewrites(session_id);
`

// Store is a SQLite-backed journal.
type Store struct {
	db     *sql.DB
	path   string
	mu     sync.RWMutex
	closed bool
}

// Open creates or opens the journal at path, creating parent directories.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("journal path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	logging.Journal("journal opened at %s", path)
	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Record stores e. Missing ID and CreatedAt are filled in; the stored entry is returned.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Entry{}, ErrClosed
	}

	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.CreatedAt = e.CreatedAt.UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rewrites (id, session_id, source, fingerprint, persona, persona_index,
			input_words, input_chars, output_words, output_chars, reading_ease,
			truncated, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.Source, e.Fingerprint, e.Persona, e.PersonaIndex,
		e.InputWords, e.InputChars, e.OutputWords, e.OutputChars, e.ReadingEase,
		boolToInt(e.Truncated), e.DurationMs, e.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		logging.JournalError("failed to record %s: %v", e.ID, err)
		return Entry{}, fmt.Errorf("record rewrite: %w", err)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return s.query(ctx, `
		SELECT id, session_id, source, fingerprint, persona, persona_index,
			input_words, input_chars, output_words, output_chars, reading_ease,
			truncated, duration_ms, created_at
		FROM rewrites ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
}

// Session returns every entry of one session in the order they were recorded.
func (s *Store) Session(ctx context.Context, sessionID string) ([]Entry, error) {
	return s.query(ctx, `
		SELECT id, session_id, source, fingerprint, persona, persona_index,
			input_words, input_chars, output_words, output_chars, reading_ease,
			truncated, duration_ms, created_at
		FROM rewrites WHERE session_id = ? ORDER BY created_at ASC, rowid ASC`, sessionID)
}

// Count returns the number of journaled rewrites.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rewrites").Scan(&n); err != nil {
		return 0, fmt.Errorf("count rewrites: %w", err)
	}
	return n, nil
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			truncated int
			created   string
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Source, &e.Fingerprint, &e.Persona, &e.PersonaIndex,
			&e.InputWords, &e.InputChars, &e.OutputWords, &e.OutputChars, &e.ReadingEase,
			&truncated, &e.DurationMs, &created); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		e.Truncated = truncated != 0
		if t, perr := time.Parse(timeLayout, created); perr == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database. Further calls return ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
