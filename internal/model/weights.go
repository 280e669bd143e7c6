// Package model holds the per-model weight configuration shared by the
// indexing and query pipelines.
package model

import "sort"

// DefaultWeight is applied when the remote service returns a ranked list for
// a model that has no configured weight.
const DefaultWeight = 0.5

// Weights maps a model ID to its configured weight in [0,1]. Externally
// configured; read-only inside the engine.
type Weights map[string]float64

// Enabled returns the IDs of all models with a positive weight, sorted for
// deterministic iteration.
func (w Weights) Enabled() []string {
	ids := make([]string, 0, len(w))
	for id, weight := range w {
		if weight > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Get returns the weight for a model, falling back to DefaultWeight for
// models the configuration does not mention.
func (w Weights) Get(id string) float64 {
	if weight, ok := w[id]; ok {
		return weight
	}
	return DefaultWeight
}

// Clone returns an independent copy.
func (w Weights) Clone() Weights {
	out := make(Weights, len(w))
	for id, weight := range w {
		out[id] = weight
	}
	return out
}
