package search

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

type fakeAdapter struct {
	backend    Backend
	items      []Item
	err        error
	block      bool // always wait for ctx
	blockFirst bool // wait for ctx on the first call only
	calls      atomic.Int32
}

func (f *fakeAdapter) Backend() Backend { return f.backend }

func (f *fakeAdapter) Search(ctx context.Context, spec Spec) ([]Item, error) {
	call := f.calls.Add(1)
	if f.block || (f.blockFirst && call == 1) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func receiveSet(t *testing.T, o *Orchestrator) *Set {
	t.Helper()
	select {
	case set := <-o.Results():
		return set
	case <-time.After(5 * time.Second):
		t.Fatal("no set published")
		return nil
	}
}

func TestSubmitPublishesMergedSet(t *testing.T) {
	t.Parallel()

	fast := &fakeAdapter{backend: BackendFastIndex, items: []Item{{Path: "/fast"}}}
	content := &fakeAdapter{backend: BackendContentIndex, items: []Item{{Path: "/content"}}}
	o := NewOrchestrator(fast, content, time.Second, testLogger())

	q := DefaultQuery("x")
	q.SearchContent = true

	gen, err := o.Submit(q)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if gen != 1 {
		t.Fatalf("generation = %d, want 1", gen)
	}

	set := receiveSet(t, o)
	if set.Generation != 1 {
		t.Fatalf("set generation = %d, want 1", set.Generation)
	}
	if len(set.Items) != 2 || set.Items[0].Path != "/fast" || set.Items[1].Path != "/content" {
		t.Fatalf("items = %v, want fast before content", set.Items)
	}
	if len(set.Failures) != 0 {
		t.Fatalf("failures = %v, want none", set.Failures)
	}
}

func TestSupersededGenerationIsNotPublished(t *testing.T) {
	t.Parallel()

	fast := &fakeAdapter{
		backend:    BackendFastIndex,
		items:      []Item{{Path: "/second"}},
		blockFirst: true,
	}
	o := NewOrchestrator(fast, nil, time.Second, testLogger())

	if _, err := o.Submit(DefaultQuery("one")); err != nil {
		t.Fatalf("Submit one: %v", err)
	}
	gen2, err := o.Submit(DefaultQuery("two"))
	if err != nil {
		t.Fatalf("Submit two: %v", err)
	}

	set := receiveSet(t, o)
	if set.Generation != gen2 {
		t.Fatalf("published generation %d, want %d", set.Generation, gen2)
	}
	if set.Query.Text != "two" {
		t.Fatalf("published query %q, want %q", set.Query.Text, "two")
	}

	select {
	case extra := <-o.Results():
		t.Fatalf("unexpected extra publication: generation %d", extra.Generation)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPartialFailureStillPublishes(t *testing.T) {
	t.Parallel()

	fast := &fakeAdapter{backend: BackendFastIndex, err: ErrBackendUnavailable}
	content := &fakeAdapter{backend: BackendContentIndex, items: []Item{{Path: "/hit"}}}
	o := NewOrchestrator(fast, content, time.Second, testLogger())

	q := DefaultQuery("x")
	q.SearchContent = true
	if _, err := o.Submit(q); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	set := receiveSet(t, o)
	if len(set.Items) != 1 || set.Items[0].Path != "/hit" {
		t.Fatalf("items = %v", set.Items)
	}
	if len(set.Failures) != 1 || !errors.Is(set.Failures[0].Err, ErrBackendUnavailable) {
		t.Fatalf("failures = %v", set.Failures)
	}
}

func TestBothBackendsFailingPublishesEmptySet(t *testing.T) {
	t.Parallel()

	fast := &fakeAdapter{backend: BackendFastIndex, err: ErrBackendUnavailable}
	content := &fakeAdapter{backend: BackendContentIndex, err: ErrMalformedOutput}
	o := NewOrchestrator(fast, content, time.Second, testLogger())

	q := DefaultQuery("x")
	q.SearchContent = true
	if _, err := o.Submit(q); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	set := receiveSet(t, o)
	if len(set.Items) != 0 {
		t.Fatalf("items = %v, want none", set.Items)
	}
	if len(set.Failures) != 2 {
		t.Fatalf("failures = %v, want both backends", set.Failures)
	}
	if set.FailureSummary() == "" {
		t.Fatal("expected a failure summary")
	}
}

func TestTimeoutMapsToErrTimeout(t *testing.T) {
	t.Parallel()

	fast := &fakeAdapter{backend: BackendFastIndex, block: true}
	o := NewOrchestrator(fast, nil, 20*time.Millisecond, testLogger())

	if _, err := o.Submit(DefaultQuery("x")); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	set := receiveSet(t, o)
	if len(set.Failures) != 1 || !errors.Is(set.Failures[0].Err, ErrTimeout) {
		t.Fatalf("failures = %v, want ErrTimeout", set.Failures)
	}
}

func TestTranslationErrorStartsNothing(t *testing.T) {
	t.Parallel()

	fast := &fakeAdapter{backend: BackendFastIndex}
	o := NewOrchestrator(fast, nil, time.Second, testLogger())

	_, err := o.Submit(DefaultQuery("  "))
	if !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("err = %v, want ErrEmptyQuery", err)
	}
	if o.Generation() != 0 {
		t.Fatalf("generation advanced to %d on rejected submit", o.Generation())
	}
	if n := fast.calls.Load(); n != 0 {
		t.Fatalf("adapter called %d times for rejected submit", n)
	}
}

func TestCancelPublishesNothing(t *testing.T) {
	t.Parallel()

	fast := &fakeAdapter{backend: BackendFastIndex, block: true}
	o := NewOrchestrator(fast, nil, time.Second, testLogger())

	if _, err := o.Submit(DefaultQuery("x")); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	o.Cancel()

	select {
	case set := <-o.Results():
		t.Fatalf("canceled generation published set %d", set.Generation)
	case <-time.After(150 * time.Millisecond):
	}
}
