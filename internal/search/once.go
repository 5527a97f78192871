package search

import (
	"log/slog"
	"time"
)

// RunOnce executes a single query synchronously and returns its published
// Set, for one-shot command use outside the interactive browser.
func RunOnce(fast, content Adapter, timeout time.Duration, log *slog.Logger, q Query) (*Set, error) {
	o := NewOrchestrator(fast, content, timeout, log)
	if _, err := o.Submit(q); err != nil {
		return nil, err
	}
	return <-o.Results(), nil
}
