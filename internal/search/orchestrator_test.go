package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seelkers/favsearch/internal/collection"
	"github.com/seelkers/favsearch/internal/errors"
	"github.com/seelkers/favsearch/internal/model"
	"github.com/seelkers/favsearch/internal/remote"
)

const testDebounce = 20 * time.Millisecond

// fakeSearcher is a Searcher whose per-query responses can be delayed until
// released, mimicking slow remote calls.
type fakeSearcher struct {
	mu        sync.Mutex
	calls     []string
	responses map[string]*remote.SearchResponse
	blocks    map[string]chan struct{} // query -> release gate
	ignoreCtx map[string]bool          // simulate a transport that finishes anyway
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{
		responses: make(map[string]*remote.SearchResponse),
		blocks:    make(map[string]chan struct{}),
		ignoreCtx: make(map[string]bool),
	}
}

func (f *fakeSearcher) respond(query, locator string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[query] = &remote.SearchResponse{
		Results: map[string][]remote.ScoredLocator{
			"clip": {{Locator: locator, Score: 1.0}},
		},
	}
}

func (f *fakeSearcher) gate(query string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.blocks[query] = ch
	return ch
}

func (f *fakeSearcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeSearcher) Search(ctx context.Context, query string, opts remote.SearchOptions) (*remote.SearchResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, query)
	block := f.blocks[query]
	ignoreCtx := f.ignoreCtx[query]
	resp := f.responses[query]
	f.mu.Unlock()

	if block != nil {
		if ignoreCtx {
			<-block
		} else {
			select {
			case <-block:
			case <-ctx.Done():
				return nil, errors.Cancelled("search superseded", ctx.Err())
			}
		}
	}
	if resp == nil {
		resp = &remote.SearchResponse{Results: map[string][]remote.ScoredLocator{}}
	}
	return resp, nil
}

func snapshot() []collection.Item {
	return []collection.Item{
		{ID: "cat-id", Locator: "https://media.tenor.co/cat.gif"},
		{ID: "dog-id", Locator: "https://media.tenor.co/dog.gif"},
		{ID: "fox-id", Locator: "https://media.tenor.co/fox.gif"},
	}
}

func newTestOrchestrator(t *testing.T, searcher Searcher) (*Orchestrator, *collection.MemorySource) {
	t.Helper()
	source := collection.NewMemorySource(snapshot())
	orch := NewOrchestrator(Config{
		Searcher: searcher,
		Source:   source,
		Weights:  model.Weights{"clip": 1.0},
		Debounce: testDebounce,
	})
	t.Cleanup(orch.Close)
	return orch, source
}

func viewIDs(source *collection.MemorySource) []string {
	items := source.Items()
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

func TestOrchestrator_DebouncesInput(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.respond("cats", "https://media.tenor.co/cat.gif")
	orch, source := newTestOrchestrator(t, searcher)

	// Rapid typing: only the final value may reach the network.
	orch.OnInput("c")
	orch.OnInput("ca")
	orch.OnInput("cat")
	orch.OnInput("cats")
	assert.Equal(t, StateDebouncing, orch.State())
	assert.Equal(t, 0, searcher.callCount(), "no call before the quiet period")

	require.Eventually(t, func() bool {
		return len(viewIDs(source)) == 1 && viewIDs(source)[0] == "cat-id"
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 1, searcher.callCount(), "intermediate keystrokes must not hit the network")
	assert.Equal(t, StateIdle, orch.State())
}

func TestOrchestrator_EmptyInputRestoresSnapshotSynchronously(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.respond("cat", "https://media.tenor.co/cat.gif")
	orch, source := newTestOrchestrator(t, searcher)

	orch.OnInput("cat")
	require.Eventually(t, func() bool {
		return len(viewIDs(source)) == 1
	}, time.Second, 5*time.Millisecond)

	// Clearing skips debouncing entirely: the restore is visible before
	// OnInput returns.
	orch.OnInput("")
	assert.Equal(t, []string{"cat-id", "dog-id", "fox-id"}, viewIDs(source))
	assert.Equal(t, StateIdle, orch.State())
	assert.Equal(t, 1, searcher.callCount())
}

func TestOrchestrator_LateResponseForSupersededQueryIsDropped(t *testing.T) {
	// Given: "cat" produces a response only after it has been superseded,
	// through a transport that does not honor cancellation.
	searcher := newFakeSearcher()
	catGate := searcher.gate("cat")
	searcher.mu.Lock()
	searcher.ignoreCtx["cat"] = true
	searcher.mu.Unlock()
	searcher.respond("cat", "https://media.tenor.co/cat.gif")
	searcher.respond("c", "https://media.tenor.co/dog.gif")

	orch, source := newTestOrchestrator(t, searcher)

	// When: "cat" is typed, its search starts, then "c" supersedes it.
	orch.OnInput("cat")
	require.Eventually(t, func() bool { return searcher.callCount() == 1 },
		time.Second, time.Millisecond)

	orch.OnInput("c")
	require.Eventually(t, func() bool {
		ids := viewIDs(source)
		return len(ids) == 1 && ids[0] == "dog-id"
	}, time.Second, 5*time.Millisecond, "the newer query's view should apply")

	// And: the stale "cat" response finally arrives.
	close(catGate)

	// Then: it must not clobber the newer view.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"dog-id"}, viewIDs(source))
}

func TestOrchestrator_ClearDuringInFlightRestoresSnapshot(t *testing.T) {
	searcher := newFakeSearcher()
	gate := searcher.gate("cat")
	searcher.mu.Lock()
	searcher.ignoreCtx["cat"] = true
	searcher.mu.Unlock()
	searcher.respond("cat", "https://media.tenor.co/cat.gif")

	orch, source := newTestOrchestrator(t, searcher)

	orch.OnInput("cat")
	require.Eventually(t, func() bool { return searcher.callCount() == 1 },
		time.Second, time.Millisecond)

	orch.Clear()
	assert.Equal(t, []string{"cat-id", "dog-id", "fox-id"}, viewIDs(source))

	close(gate)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"cat-id", "dog-id", "fox-id"}, viewIDs(source),
		"in-flight result must not override an explicit clear")
}

func TestOrchestrator_CancelledRequestIsNotAnError(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.gate("cat") // never released; relies on context cancellation
	orch, source := newTestOrchestrator(t, searcher)

	orch.OnInput("cat")
	require.Eventually(t, func() bool { return searcher.callCount() == 1 },
		time.Second, time.Millisecond)

	// Supersede; the aborted request returns a cancellation, which is
	// swallowed rather than surfaced.
	orch.OnInput("")
	assert.Equal(t, []string{"cat-id", "dog-id", "fox-id"}, viewIDs(source))
}

func TestOrchestrator_CloseSuppressesLateCallbacks(t *testing.T) {
	searcher := newFakeSearcher()
	gate := searcher.gate("cat")
	searcher.mu.Lock()
	searcher.ignoreCtx["cat"] = true
	searcher.mu.Unlock()
	searcher.respond("cat", "https://media.tenor.co/cat.gif")

	orch, source := newTestOrchestrator(t, searcher)

	orch.OnInput("cat")
	require.Eventually(t, func() bool { return searcher.callCount() == 1 },
		time.Second, time.Millisecond)

	before := viewIDs(source)
	orch.Close()
	close(gate)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, before, viewIDs(source), "a torn-down session must never mutate the view")

	// Input after teardown is a no-op too.
	orch.OnInput("dog")
	time.Sleep(2 * testDebounce)
	assert.Equal(t, 1, searcher.callCount())
}

func TestOrchestrator_SearchFailureKeepsCurrentView(t *testing.T) {
	failing := &failingSearcher{}
	orch, source := newTestOrchestrator(t, failing)

	orch.OnInput("cat")
	require.Eventually(t, func() bool { return failing.called() },
		time.Second, time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"cat-id", "dog-id", "fox-id"}, viewIDs(source),
		"failures degrade to the existing view")
}

type failingSearcher struct {
	mu    sync.Mutex
	calls int
}

func (f *failingSearcher) called() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls > 0
}

func (f *failingSearcher) Search(ctx context.Context, query string, opts remote.SearchOptions) (*remote.SearchResponse, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return nil, errors.NetworkError("search failed: 503", nil)
}
