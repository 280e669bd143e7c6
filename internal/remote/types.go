package remote

import (
	"encoding/json"
	"fmt"
)

// SubmitRequest is the body of POST /{key}/index.
type SubmitRequest struct {
	// Names are the validated item IDs, in submission order.
	Names []string `json:"names"`

	// MediaSrcs are the validated item locators, parallel to Names.
	MediaSrcs []string `json:"media_srcs"`

	// Models are the IDs of every model with a positive weight.
	Models []string `json:"models"`
}

// ScoredLocator is one (locator, rawScore) pair from a model's ranked list.
// The wire format is a two-element JSON array.
type ScoredLocator struct {
	Locator string
	Score   float64
}

// UnmarshalJSON decodes the [locator, score] tuple form.
func (s *ScoredLocator) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) < 2 {
		return fmt.Errorf("scored locator: want [locator, score], got %d elements", len(tuple))
	}
	if err := json.Unmarshal(tuple[0], &s.Locator); err != nil {
		return fmt.Errorf("scored locator: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &s.Score); err != nil {
		return fmt.Errorf("scored locator: %w", err)
	}
	return nil
}

// MarshalJSON encodes back to the tuple form. Used by tests and the cache.
func (s ScoredLocator) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{s.Locator, s.Score})
}

// SearchResponse is the body of GET /{key}/search: one ranked list per model.
type SearchResponse struct {
	Results map[string][]ScoredLocator `json:"results"`
}

// Status is the body of GET /{key}/statuscounts.
type Status struct {
	Status string                  `json:"status"`
	Counts map[string]ModelCounts `json:"counts"`
}

// ModelCounts is the per-model item breakdown, wire order
// [failed, downloading, processing, completed].
type ModelCounts struct {
	Failed      int
	Downloading int
	Processing  int
	Completed   int
}

// UnmarshalJSON decodes the four-element array form.
func (m *ModelCounts) UnmarshalJSON(data []byte) error {
	var counts []int
	if err := json.Unmarshal(data, &counts); err != nil {
		return err
	}
	if len(counts) < 4 {
		return fmt.Errorf("model counts: want 4 elements, got %d", len(counts))
	}
	m.Failed, m.Downloading, m.Processing, m.Completed = counts[0], counts[1], counts[2], counts[3]
	return nil
}

// MarshalJSON encodes back to the array form.
func (m ModelCounts) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]int{m.Failed, m.Downloading, m.Processing, m.Completed})
}

// Total returns the count of items the model knows about in any state.
func (m ModelCounts) Total() int {
	return m.Failed + m.Downloading + m.Processing + m.Completed
}
