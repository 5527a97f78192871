package cache

import "testing"

func TestPutEvictsOldestBeyondCapacity(t *testing.T) {
	t.Parallel()

	c := New(2)
	c.Put("/a", "preview a")
	c.Put("/b", "preview b")
	c.Put("/c", "preview c")

	if _, ok := c.Get("/a"); ok {
		t.Fatalf("expected oldest entry to be evicted")
	}
	if v, ok := c.Get("/c"); !ok || v != "preview c" {
		t.Fatalf("Get(/c) = %q, %v", v, ok)
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
}

func TestGetRefreshesRecency(t *testing.T) {
	t.Parallel()

	c := New(2)
	c.Put("/a", "a")
	c.Put("/b", "b")

	if _, ok := c.Get("/a"); !ok {
		t.Fatalf("expected /a present")
	}

	c.Put("/c", "c")

	if _, ok := c.Get("/a"); !ok {
		t.Fatalf("recently used entry should survive eviction")
	}
	if _, ok := c.Get("/b"); ok {
		t.Fatalf("least recently used entry should be evicted")
	}
}

func TestPutUpdatesExistingEntry(t *testing.T) {
	t.Parallel()

	c := New(2)
	c.Put("/a", "old")
	c.Put("/a", "new")

	if v, _ := c.Get("/a"); v != "new" {
		t.Fatalf("Get(/a) = %q, want %q", v, "new")
	}
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
}
