package history

import (
	"fmt"
	"path/filepath"
	"testing"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndRecentNewestFirst(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	for _, q := range []string{"first", "second", "third"} {
		if err := s.Append(q); err != nil {
			t.Fatalf("Append(%q): %v", q, err)
		}
	}

	got, err := s.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 || got[0] != "third" || got[1] != "second" {
		t.Fatalf("Recent(2) = %v, want newest first", got)
	}
}

func TestAppendSkipsConsecutiveDuplicates(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	for _, q := range []string{"same", "same", "other", "same"} {
		if err := s.Append(q); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3 (consecutive dup dropped)", len(got))
	}
	if got[0] != "same" || got[1] != "other" || got[2] != "same" {
		t.Fatalf("entries = %v", got)
	}
}

func TestAppendPrunesOldEntries(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	total := maxEntries + 10
	for i := 0; i < total; i++ {
		if err := s.Append(fmt.Sprintf("query-%03d", i)); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := s.Recent(total)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != maxEntries {
		t.Fatalf("got %d entries, want pruned to %d", len(got), maxEntries)
	}
	if got[0] != fmt.Sprintf("query-%03d", total-1) {
		t.Fatalf("newest = %q", got[0])
	}
}

func TestAppendIgnoresEmptyQuery(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	if err := s.Append(""); err != nil {
		t.Fatalf("Append empty: %v", err)
	}
	got, err := s.Recent(1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("entries = %v, want none", got)
	}
}
