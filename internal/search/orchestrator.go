package search

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/seelkers/favsearch/internal/collection"
	"github.com/seelkers/favsearch/internal/errors"
	"github.com/seelkers/favsearch/internal/model"
	"github.com/seelkers/favsearch/internal/remote"
)

// DefaultDebounce is the quiet period after the last keystroke before a
// search is issued.
const DefaultDebounce = 300 * time.Millisecond

// Searcher is the slice of the remote client the orchestrator needs.
type Searcher interface {
	Search(ctx context.Context, query string, opts remote.SearchOptions) (*remote.SearchResponse, error)
}

// SessionState is the orchestrator's position in the query lifecycle.
type SessionState int

const (
	StateIdle SessionState = iota
	StateDebouncing
	StateSearching
)

// String returns the state name for logging.
func (s SessionState) String() string {
	switch s {
	case StateDebouncing:
		return "debouncing"
	case StateSearching:
		return "searching"
	default:
		return "idle"
	}
}

// Config configures an Orchestrator.
type Config struct {
	// Searcher issues the remote search calls.
	Searcher Searcher

	// Source is the host view to reorder.
	Source collection.Source

	// Weights is the per-model weight configuration.
	Weights model.Weights

	// Fusion configures the rank fusion step.
	Fusion Options

	// Debounce overrides the quiet period. Zero uses DefaultDebounce.
	Debounce time.Duration

	// Limit caps results per model. Zero means service default.
	Limit int
}

// Orchestrator owns the lifecycle of keystroke-driven queries: debounce,
// cancellation of superseded requests, fusion, and applying the reordered
// view. All view mutations go through the orchestrator's own mutex; network
// callbacks never touch the source directly.
type Orchestrator struct {
	cfg      Config
	snapshot []collection.Item // unfiltered view, restored on clear

	mu     sync.Mutex
	state  SessionState
	gen    uint64 // bumped on every input; stale generations discard results
	timer  *time.Timer
	cancel context.CancelFunc
	closed bool
}

// NewOrchestrator creates an orchestrator, capturing the source's current
// items as the unfiltered snapshot.
func NewOrchestrator(cfg Config) *Orchestrator {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	return &Orchestrator{
		cfg:      cfg,
		snapshot: cfg.Source.Items(),
	}
}

// Snapshot returns a copy of the unfiltered collection snapshot.
func (o *Orchestrator) Snapshot() []collection.Item {
	out := make([]collection.Item, len(o.snapshot))
	copy(out, o.snapshot)
	return out
}

// State returns the current session state.
func (o *Orchestrator) State() SessionState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// OnInput handles one input change. Any pending debounce timer is cancelled
// and any in-flight search is aborted before the new input takes effect.
// Empty input skips debouncing entirely: the unfiltered snapshot is restored
// synchronously and the session returns to idle.
func (o *Orchestrator) OnInput(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return
	}

	o.gen++
	o.supersede()

	if text == "" {
		o.state = StateIdle
		o.cfg.Source.SetItems(o.snapshot)
		o.cfg.Source.ForceRefresh()
		return
	}

	gen := o.gen
	o.state = StateDebouncing
	o.timer = time.AfterFunc(o.cfg.Debounce, func() {
		o.beginSearch(text, gen)
	})
}

// Clear resets the view to the unfiltered snapshot. Equivalent to empty
// input.
func (o *Orchestrator) Clear() {
	o.OnInput("")
}

// Close tears the session down: pending timer cancelled, in-flight request
// aborted, and every late-arriving callback becomes a no-op. Safe to call
// more than once.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return
	}
	o.closed = true
	o.supersede()
	o.state = StateIdle
}

// supersede stops the debounce timer and aborts the in-flight request.
// Caller holds the mutex.
func (o *Orchestrator) supersede() {
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

// beginSearch fires when the quiet period elapses without further input.
func (o *Orchestrator) beginSearch(text string, gen uint64) {
	o.mu.Lock()
	if o.closed || gen != o.gen {
		o.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	o.state = StateSearching
	o.mu.Unlock()

	go func() {
		resp, err := o.cfg.Searcher.Search(ctx, text, remote.SearchOptions{
			Models: o.cfg.Weights.Enabled(),
			Limit:  o.cfg.Limit,
		})

		o.mu.Lock()
		defer o.mu.Unlock()

		// A response for a superseded or torn-down session is dropped
		// silently; this is what keeps a slow response for an old query from
		// clobbering the view built for a newer one.
		if o.closed || gen != o.gen {
			return
		}

		o.state = StateIdle
		o.cancel = nil

		if err != nil {
			switch {
			case errors.IsCancelled(err):
				// Superseded mid-flight; nothing to log.
			case errors.IsNotConfigured(err):
				slog.Debug("search suppressed: index key not configured")
			default:
				slog.Warn("search failed, keeping current view",
					slog.String("query", text),
					slog.String("error", err.Error()))
			}
			return
		}

		fused := Fuse(resp.Results, o.snapshot, o.cfg.Weights, o.cfg.Fusion)
		o.cfg.Source.SetItems(fused)
		o.cfg.Source.ForceRefresh()

		slog.Debug("applied search results",
			slog.String("query", text),
			slog.Int("matches", len(fused)))
	}()
}
