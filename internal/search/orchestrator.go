package search

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Adapter executes one backend-specific Spec. Implementations must honor
// ctx promptly: once canceled they stop producing records, release any
// process or query handle, and return ctx's error.
type Adapter interface {
	Backend() Backend
	Search(ctx context.Context, spec Spec) ([]Item, error)
}

// DefaultTimeout matches the per-call subprocess ceiling of the original
// tool.
const DefaultTimeout = 30 * time.Second

// Orchestrator owns search concurrency. Each submitted query gets a
// monotonically increasing generation; submitting a new query cancels any
// in-flight older generation, and a completion for a stale generation is
// discarded silently instead of published. At most two adapter calls run
// per generation, one per backend, regardless of how quickly queries are
// issued.
type Orchestrator struct {
	fast    Adapter
	content Adapter
	timeout time.Duration
	log     *slog.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc

	out chan *Set
}

func NewOrchestrator(fast, content Adapter, timeout time.Duration, log *slog.Logger) *Orchestrator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Orchestrator{
		fast:    fast,
		content: content,
		timeout: timeout,
		log:     log,
		out:     make(chan *Set, 4),
	}
}

// Results delivers published Sets. Publications are linearized by
// generation; consumers must still discard any Set whose generation is
// below the highest they have observed.
func (o *Orchestrator) Results() <-chan *Set {
	return o.out
}

// Generation returns the latest generation handed out by Submit.
func (o *Orchestrator) Generation() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.gen
}

// Submit translates q and starts the applicable adapters concurrently
// under a fresh generation, superseding any search still in flight.
// Translation errors are returned immediately and nothing is started.
func (o *Orchestrator) Submit(q Query) (uint64, error) {
	specs, err := Translate(q)
	if err != nil {
		return 0, err
	}

	o.mu.Lock()
	o.gen++
	gen := o.gen
	if o.cancel != nil {
		o.cancel()
	}
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	o.cancel = cancel
	o.mu.Unlock()

	o.log.Debug("search submitted", "generation", gen, "query", q.Text, "backends", len(specs))

	go o.run(ctx, gen, q, specs)
	return gen, nil
}

// Cancel aborts the current generation without starting a new one. No Set
// is published for a canceled generation.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

func (o *Orchestrator) run(ctx context.Context, gen uint64, q Query, specs []Spec) {
	start := time.Now()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		fast     []Item
		content  []Item
		failures []BackendFailure
	)

	for _, spec := range specs {
		adapter := o.adapterFor(spec.Backend)
		if adapter == nil {
			continue
		}
		wg.Add(1)
		go func(spec Spec) {
			defer wg.Done()
			items, err := adapter.Search(ctx, spec)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				if spec.Backend == BackendFastIndex {
					fast = items
				} else {
					content = items
				}
			case errors.Is(err, context.Canceled):
				// Supersession, not a failure.
			case errors.Is(err, context.DeadlineExceeded):
				failures = append(failures, BackendFailure{spec.Backend, ErrTimeout})
			default:
				failures = append(failures, BackendFailure{spec.Backend, err})
			}
		}(spec)
	}
	wg.Wait()

	// A canceled generation publishes nothing; its partial results are
	// dropped rather than mixed into a later set.
	if errors.Is(context.Cause(ctx), context.Canceled) {
		o.log.Debug("search superseded", "generation", gen)
		return
	}

	o.mu.Lock()
	latest := o.gen
	o.mu.Unlock()
	if gen != latest {
		o.log.Debug("stale completion discarded", "generation", gen, "latest", latest)
		return
	}

	set := Aggregate(gen, q, fast, content, failures, time.Since(start))
	o.log.Debug("search published",
		"generation", gen, "items", len(set.Items), "failures", len(set.Failures))

	// Never block the worker on a slow consumer: evict the oldest pending
	// publication, it is stale by construction.
	for {
		select {
		case o.out <- set:
			return
		default:
			select {
			case <-o.out:
			default:
			}
		}
	}
}

func (o *Orchestrator) adapterFor(b Backend) Adapter {
	switch b {
	case BackendFastIndex:
		return o.fast
	case BackendContentIndex:
		return o.content
	default:
		return nil
	}
}
