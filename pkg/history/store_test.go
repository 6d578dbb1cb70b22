package history

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestStore creates a new SQLite database and a Store for testing.
// It uses t.Cleanup to ensure resources are released.
func setupTestStore(t *testing.T) (*sql.DB, *Store) {
	dbFile := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", dbFile+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := SetupSchema(db); err != nil {
		t.Fatalf("failed to set up schema: %v", err)
	}
	// Calling it twice must be harmless.
	if err := SetupSchema(db); err != nil {
		t.Fatalf("second SetupSchema failed: %v", err)
	}

	s, err := NewStore(db)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(s.Close)

	return db, s
}

func TestAppendAndGet(t *testing.T) {
	_, s := setupTestStore(t)
	ctx := context.Background()

	fixed := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	stored, err := s.Append(ctx, Entry{Seed: "the", WordLimit: 3, Text: "the cat sat", Corpus: "cats.txt"})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if stored.ID == "" {
		t.Error("expected Append to assign an ID")
	}
	if !stored.CreatedAt.Equal(fixed) {
		t.Errorf("expected CreatedAt %v, got %v", fixed, stored.CreatedAt)
	}

	got, err := s.Get(ctx, stored.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != stored.ID || got.Seed != "the" || got.WordLimit != 3 || got.Text != "the cat sat" || got.Corpus != "cats.txt" || !got.CreatedAt.Equal(fixed) {
		t.Errorf("Get() = %+v, want %+v", got, stored)
	}

	if _, err = s.Get(ctx, "does-not-exist"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Duplicate IDs are rejected, the log is append-only.
	if _, err = s.Append(ctx, stored); err == nil {
		t.Error("expected an error when appending a duplicate ID")
	}
}

func TestRecentAndCount(t *testing.T) {
	_, s := setupTestStore(t)
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		if _, err := s.Append(ctx, Entry{Text: text}); err != nil {
			t.Fatalf("Append(%q) failed: %v", text, err)
		}
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 entries, got %d", n)
	}

	recent, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 2 || recent[0].Text != "third" || recent[1].Text != "second" {
		t.Errorf("expected [third second], got %+v", recent)
	}

	none, err := s.Recent(ctx, 0)
	if err != nil || len(none) != 0 {
		t.Errorf("expected no entries for limit 0, got %+v (%v)", none, err)
	}
}

func TestWriteText(t *testing.T) {
	_, s := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	_, _ = s.Append(ctx, Entry{Text: "one fish", CreatedAt: base})
	_, _ = s.Append(ctx, Entry{Text: "two fish", CreatedAt: base.Add(time.Minute)})

	var buf bytes.Buffer
	if err := s.WriteText(ctx, &buf); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}

	expected := "2024-01-02T03:04:05Z\tone fish\n2024-01-02T03:05:05Z\ttwo fish\n"
	if buf.String() != expected {
		t.Errorf("WriteText() = %q, want %q", buf.String(), expected)
	}

	// An empty log writes nothing.
	_, empty := setupTestStore(t)
	buf.Reset()
	if err := empty.WriteText(ctx, &buf); err != nil {
		t.Fatalf("WriteText on empty log failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "" {
		t.Errorf("expected no output for an empty log, got %q", buf.String())
	}
}
