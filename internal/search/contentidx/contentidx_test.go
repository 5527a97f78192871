package contentidx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blevesearch/bleve/v2"

	"github.com/esqtui/esq/internal/search"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// buildIndex writes real files and a bleve index over their contents.
func buildIndex(t *testing.T) (indexPath string, docs map[string]string) {
	t.Helper()

	dir := t.TempDir()
	docs = map[string]string{
		"invoice.txt": "this is an invoice for services rendered in march",
		"notes.txt":   "meeting notes without the magic word",
	}

	indexPath = filepath.Join(dir, "index.bleve")
	idx, err := bleve.New(indexPath, bleve.NewIndexMapping())
	if err != nil {
		t.Fatalf("creating index: %v", err)
	}

	for name, content := range docs {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
		doc := map[string]any{
			"content":  content,
			"name":     name,
			"path":     path,
			"size":     float64(len(content)),
			"mod_time": "2024-03-15T09:30:00Z",
		}
		if err := idx.Index(path, doc); err != nil {
			t.Fatalf("indexing %s: %v", name, err)
		}
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("closing index: %v", err)
	}
	return indexPath, docs
}

func TestSearchFindsMatchingContent(t *testing.T) {
	t.Parallel()

	indexPath, _ := buildIndex(t)

	a := New(indexPath, testLogger())
	defer a.Close()

	spec := search.Spec{
		Backend: search.BackendContentIndex,
		Terms:   []string{"invoice"},
		Limit:   10,
	}
	items, err := a.Search(context.Background(), spec)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}

	item := items[0]
	if item.Name != "invoice.txt" {
		t.Fatalf("name = %q", item.Name)
	}
	if item.Origin != search.BackendContentIndex {
		t.Fatalf("origin = %v", item.Origin)
	}
	if item.Size <= 0 {
		t.Fatalf("size = %d, want stored size", item.Size)
	}
	if item.Modified.IsZero() {
		t.Fatal("modified not decoded from stored field")
	}
	if !strings.Contains(item.MatchContext, "invoice") {
		t.Fatalf("match context %q missing the matched term", item.MatchContext)
	}
}

func TestSearchRequiresAllTerms(t *testing.T) {
	t.Parallel()

	indexPath, _ := buildIndex(t)

	a := New(indexPath, testLogger())
	defer a.Close()

	spec := search.Spec{
		Backend: search.BackendContentIndex,
		Terms:   []string{"invoice", "nonexistentterm"},
		Limit:   10,
	}
	items, err := a.Search(context.Background(), spec)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("got %d items, want 0 for AND semantics", len(items))
	}
}

func TestMissingIndexIsUnavailable(t *testing.T) {
	t.Parallel()

	spec := search.Spec{Backend: search.BackendContentIndex, Terms: []string{"x"}, Limit: 1}

	a := New("", testLogger())
	if _, err := a.Search(context.Background(), spec); !errors.Is(err, search.ErrBackendUnavailable) {
		t.Fatalf("empty path err = %v, want ErrBackendUnavailable", err)
	}

	a = New(filepath.Join(t.TempDir(), "missing.bleve"), testLogger())
	if _, err := a.Search(context.Background(), spec); !errors.Is(err, search.ErrBackendUnavailable) {
		t.Fatalf("missing index err = %v, want ErrBackendUnavailable", err)
	}
}
