// Package search turns free-text queries into a reordered collection view:
// the orchestrator debounces input and manages in-flight requests, and the
// fusion engine combines per-model rank lists into one total order.
package search

import (
	"sort"

	"github.com/seelkers/favsearch/internal/collection"
	"github.com/seelkers/favsearch/internal/model"
	"github.com/seelkers/favsearch/internal/remote"
)

// ScoreOrder declares which direction of a model's raw score means a better
// match. The remote contract does not state this, so it is an explicit
// parameter rather than an assumption baked into the sort.
type ScoreOrder int

const (
	// ScoreAscending means lower raw score = better match (the behavior of
	// the current service).
	ScoreAscending ScoreOrder = iota

	// ScoreDescending means higher raw score = better match.
	ScoreDescending
)

// Options configures fusion.
type Options struct {
	Order ScoreOrder
}

// fusedEntry pairs a locator with its accumulated weighted utility.
type fusedEntry struct {
	locator     string
	totalScore  float64
	totalWeight float64
}

// Fuse combines per-model ranked lists into one ordering over the collection
// snapshot. Pure: no side effects, deterministic for a given input.
//
// Each model's list is sorted by raw score (direction per opts.Order; ties
// keep input order) and assigned dense ranks 1..N. A locator's combined
// score is the weighted average of its reciprocal ranks across the models
// that returned it, using model.DefaultWeight for models absent from the
// configuration. Locators with zero total weight, and locators that resolve
// to no item in favCopy, are dropped.
//
// Go randomizes map iteration, so the locator union is built by iterating
// model IDs in sorted order; equal combined scores keep that enumeration
// order (stable sort). This makes the tie-break reproducible where the
// original relied on object key order.
func Fuse(results map[string][]remote.ScoredLocator, favCopy []collection.Item, weights model.Weights, opts Options) []collection.Item {
	if len(results) == 0 {
		return nil
	}

	modelIDs := make([]string, 0, len(results))
	for id := range results {
		modelIDs = append(modelIDs, id)
	}
	sort.Strings(modelIDs)

	// Per-model dense ranks, plus the union in enumeration order.
	ranksByModel := make(map[string]map[string]int, len(results))
	var union []string
	seen := make(map[string]bool)
	for _, id := range modelIDs {
		sorted := sortedCopy(results[id], opts.Order)
		ranksByModel[id] = rankList(sorted)

		for _, sl := range sorted {
			if !seen[sl.Locator] {
				seen[sl.Locator] = true
				union = append(union, sl.Locator)
			}
		}
	}

	entries := make([]fusedEntry, 0, len(union))
	for _, locator := range union {
		e := fusedEntry{locator: locator}
		for _, id := range modelIDs {
			rank, ok := ranksByModel[id][locator]
			if !ok {
				continue
			}
			w := weights.Get(id)
			e.totalScore += (1.0 / float64(rank)) * w
			e.totalWeight += w
		}
		if e.totalWeight == 0 {
			continue
		}
		entries = append(entries, e)
	}

	// Stable keeps union enumeration order for equal scores.
	sort.SliceStable(entries, func(i, j int) bool {
		return combined(entries[i]) > combined(entries[j])
	})

	byLocator := make(map[string]collection.Item, len(favCopy))
	for _, it := range favCopy {
		if _, ok := byLocator[it.Locator]; !ok {
			byLocator[it.Locator] = it
		}
	}

	out := make([]collection.Item, 0, len(entries))
	for _, e := range entries {
		if it, ok := byLocator[e.locator]; ok {
			out = append(out, it)
		}
	}
	return out
}

func combined(e fusedEntry) float64 {
	return e.totalScore / e.totalWeight
}

// sortedCopy returns the list sorted by raw score in the better-first
// direction, with ties keeping input order.
func sortedCopy(list []remote.ScoredLocator, order ScoreOrder) []remote.ScoredLocator {
	out := make([]remote.ScoredLocator, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		if order == ScoreDescending {
			return out[i].Score > out[j].Score
		}
		return out[i].Score < out[j].Score
	})
	return out
}

// rankList assigns dense ranks 1..N to an already better-first-sorted list.
// If a locator appears twice, its best rank wins.
func rankList(sorted []remote.ScoredLocator) map[string]int {
	ranks := make(map[string]int, len(sorted))
	for i, sl := range sorted {
		if _, ok := ranks[sl.Locator]; !ok {
			ranks[sl.Locator] = i + 1
		}
	}
	return ranks
}
