package search

import "time"

// Aggregate merges the per-backend item slices into one published Set.
// Fast-index results come first, content results are appended after, and
// no de-duplication is performed: the two backends answer different
// questions and an item may legitimately appear from both. The result cap
// applies to the concatenation, not per backend.
func Aggregate(gen uint64, q Query, fast, content []Item, failures []BackendFailure, elapsed time.Duration) *Set {
	items := make([]Item, 0, len(fast)+len(content))
	items = append(items, fast...)
	items = append(items, content...)

	if q.MaxResults > 0 && len(items) > q.MaxResults {
		items = items[:q.MaxResults]
	}

	return &Set{
		Generation: gen,
		Query:      q,
		Items:      items,
		Failures:   failures,
		Elapsed:    elapsed,
	}
}
