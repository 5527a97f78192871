package search

import (
	"strings"
	"testing"
	"time"
)

func TestAggregateFastFirstNoDedup(t *testing.T) {
	t.Parallel()

	fast := []Item{{Path: "/a", Name: "a"}, {Path: "/b", Name: "b"}}
	content := []Item{{Path: "/a", Name: "a", Origin: BackendContentIndex}, {Path: "/c", Name: "c"}}

	set := Aggregate(3, DefaultQuery("x"), fast, content, nil, time.Millisecond)

	if set.Generation != 3 {
		t.Fatalf("generation = %d, want 3", set.Generation)
	}
	// /a appears from both backends and stays twice; order is fast then content.
	wantPaths := []string{"/a", "/b", "/a", "/c"}
	if len(set.Items) != len(wantPaths) {
		t.Fatalf("got %d items, want %d", len(set.Items), len(wantPaths))
	}
	for i, want := range wantPaths {
		if set.Items[i].Path != want {
			t.Fatalf("items[%d].Path = %q, want %q", i, set.Items[i].Path, want)
		}
	}
}

func TestAggregateCapsAtMaxResults(t *testing.T) {
	t.Parallel()

	q := DefaultQuery("x")
	q.MaxResults = 3

	fast := []Item{{Path: "/1"}, {Path: "/2"}}
	content := []Item{{Path: "/3"}, {Path: "/4"}}

	set := Aggregate(1, q, fast, content, nil, 0)
	if len(set.Items) != 3 {
		t.Fatalf("got %d items, want cap of 3", len(set.Items))
	}
	if set.Items[2].Path != "/3" {
		t.Fatalf("cap applied to wrong end: %v", set.Items)
	}
}

func TestFailureSummary(t *testing.T) {
	t.Parallel()

	set := Aggregate(1, DefaultQuery("x"), nil, nil, []BackendFailure{
		{BackendFastIndex, ErrBackendUnavailable},
		{BackendContentIndex, ErrTimeout},
	}, 0)

	summary := set.FailureSummary()
	if summary == "" {
		t.Fatal("expected non-empty summary")
	}
	for _, want := range []string{"everything", "content-index"} {
		if !strings.Contains(summary, want) {
			t.Fatalf("summary %q missing %q", summary, want)
		}
	}

	empty := Aggregate(2, DefaultQuery("x"), nil, nil, nil, 0)
	if s := empty.FailureSummary(); s != "" {
		t.Fatalf("summary = %q, want empty", s)
	}
}
