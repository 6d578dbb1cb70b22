// Package history is an append-only, SQLite-backed log of generated text.
//
// The package does not import a SQLite driver. Callers open the *sql.DB with
// whichever driver they link in (modernc.org/sqlite or github.com/mattn/go-sqlite3)
// and call SetupSchema once before NewStore.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get when no entry has the requested ID.
var ErrNotFound = errors.New("history entry not found")

// Entry is one generated result.
type Entry struct {
	ID        string    `json:"id"`
	Seed      string    `json:"seed,omitempty"`
	WordLimit int       `json:"word_limit"`
	Text      string    `json:"text"`
	Corpus    string    `json:"corpus,omitempty"` // Where the training text came from, e.g. a file path
	CreatedAt time.Time `json:"created_at"`
}

// SetupSchema creates the history table in db. It is idempotent and safe to
// call on an already-initialized database.
func SetupSchema(db *sql.DB) error {
	const (
		schemaHistory = `
CREATE TABLE IF NOT EXISTS history_entries (
    seq        INTEGER PRIMARY KEY,
    entry_id   TEXT NOT NULL UNIQUE,
    seed       TEXT NOT NULL,
    word_limit INTEGER NOT NULL,
    text       TEXT NOT NULL,
    corpus     TEXT NOT NULL,
    created_at INTEGER NOT NULL
);
`
		indexCreated = `CREATE INDEX IF NOT EXISTS idx_history_created ON history_entries (created_at);`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaHistory); err != nil {
		return fmt.Errorf("could not create history schema: %w", err)
	}
	if _, err = tx.Exec(indexCreated); err != nil {
		return fmt.Errorf("could not create history index: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// Store appends to and reads from the history table using prepared statements.
type Store struct {
	db         *sql.DB
	stmtAppend *sql.Stmt
	stmtGet    *sql.Stmt
	stmtRecent *sql.Stmt
	stmtAll    *sql.Stmt
	stmtCount  *sql.Stmt
	now        func() time.Time
	logger     *slog.Logger
}

// NewStore prepares all statements the Store needs. SetupSchema must have been
// called on db first.
func NewStore(db *sql.DB) (*Store, error) {
	stmtAppend, err := db.Prepare(`INSERT INTO history_entries (entry_id, seed, word_limit, text, corpus, created_at) VALUES (?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return nil, err
	}

	stmtGet, err := db.Prepare(`SELECT entry_id, seed, word_limit, text, corpus, created_at FROM history_entries WHERE entry_id = ?;`)
	if err != nil {
		return nil, err
	}

	stmtRecent, err := db.Prepare(`SELECT entry_id, seed, word_limit, text, corpus, created_at FROM history_entries ORDER BY seq DESC LIMIT ?;`)
	if err != nil {
		return nil, err
	}

	stmtAll, err := db.Prepare(`SELECT entry_id, seed, word_limit, text, corpus, created_at FROM history_entries ORDER BY seq ASC;`)
	if err != nil {
		return nil, err
	}

	stmtCount, err := db.Prepare(`SELECT COUNT(*) FROM history_entries;`)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:         db,
		stmtAppend: stmtAppend,
		stmtGet:    stmtGet,
		stmtRecent: stmtRecent,
		stmtAll:    stmtAll,
		stmtCount:  stmtCount,
		now:        time.Now,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// Close releases the prepared statements. It does not close the database.
func (s *Store) Close() {
	_ = s.stmtAppend.Close()
	_ = s.stmtGet.Close()
	_ = s.stmtRecent.Close()
	_ = s.stmtAll.Close()
	_ = s.stmtCount.Close()
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Append writes e to the log and returns it as stored. A zero ID is replaced
// with a new random UUID and a zero CreatedAt with the current time.
func (s *Store) Append(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	e.CreatedAt = e.CreatedAt.UTC().Truncate(time.Millisecond)

	_, err := s.stmtAppend.ExecContext(ctx, e.ID, e.Seed, e.WordLimit, e.Text, e.Corpus, e.CreatedAt.UnixMilli())
	if err != nil {
		return Entry{}, fmt.Errorf("could not append history entry: %w", err)
	}

	s.logger.DebugContext(ctx, "History entry appended",
		slog.String("entry_id", e.ID),
		slog.Int("text_length", len(e.Text)),
	)
	return e, nil
}

// Get returns the entry with the given ID, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	e, err := scanEntry(s.stmtGet.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("could not get history entry %q: %w", id, err)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first. A limit of zero or less
// returns nothing.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return []Entry{}, nil
	}
	rows, err := s.stmtRecent.QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("could not query history: %w", err)
	}
	return collectEntries(rows)
}

// Count returns the number of entries in the log.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.stmtCount.QueryRowContext(ctx).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// WriteText writes the whole log to w as plain text, oldest first, one
// "<RFC3339 time>\t<text>" line per entry.
func (s *Store) WriteText(ctx context.Context, w io.Writer) error {
	rows, err := s.stmtAll.QueryContext(ctx)
	if err != nil {
		return fmt.Errorf("could not query history: %w", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return err
		}
		if _, err = fmt.Fprintf(w, "%s\t%s\n", e.CreatedAt.Format(time.RFC3339), e.Text); err != nil {
			return err
		}
	}
	return rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var e Entry
	var createdMillis int64
	if err := row.Scan(&e.ID, &e.Seed, &e.WordLimit, &e.Text, &e.Corpus, &createdMillis); err != nil {
		return Entry{}, err
	}
	e.CreatedAt = time.UnixMilli(createdMillis).UTC()
	return e, nil
}

func collectEntries(rows *sql.Rows) ([]Entry, error) {
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	entries := make([]Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
