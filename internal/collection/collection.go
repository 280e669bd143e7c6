// Package collection defines the media collection data model and the
// integration surface the host UI must provide. The host owns the items;
// this package only reads them and swaps the rendered view.
package collection

import "sync"

// Item is one entry in the user's media collection.
// Identity is the ID; the Locator is a URL-like reference to the media itself.
type Item struct {
	ID      string `json:"id"`
	Locator string `json:"src"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Format  int    `json:"format,omitempty"`
	Order   int    `json:"order,omitempty"`
}

// Source is the data-source surface an embedding host exposes.
// Items returns the current (possibly filtered) view, SetItems replaces the
// view, and ForceRefresh asks the host to re-render.
//
// The engine never creates or deletes items through this interface; it only
// reorders a view and restores the unfiltered snapshot.
type Source interface {
	Items() []Item
	SetItems(items []Item)
	ForceRefresh()
}

// MemorySource is an in-process Source backed by a slice. It is the host
// surface used by the CLI and by tests. Safe for concurrent use; search
// results are applied from a background goroutine.
type MemorySource struct {
	mu       sync.Mutex
	items    []Item
	refreshs int
}

// NewMemorySource creates a MemorySource seeded with the given items.
func NewMemorySource(items []Item) *MemorySource {
	s := &MemorySource{}
	s.SetItems(items)
	return s
}

// Items returns a copy of the current view.
func (s *MemorySource) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// SetItems replaces the current view.
func (s *MemorySource) SetItems(items []Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make([]Item, len(items))
	copy(s.items, items)
}

// ForceRefresh records a refresh request. A slice-backed source has nothing
// to re-render, but tests assert the call happened.
func (s *MemorySource) ForceRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshs++
}

// Refreshes returns how many times ForceRefresh was called.
func (s *MemorySource) Refreshes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshs
}
