package syncer

import (
	"github.com/seelkers/favsearch/internal/collection"
	"github.com/seelkers/favsearch/internal/model"
	"github.com/seelkers/favsearch/internal/validate"
)

// ShouldResync reports whether the remote index is stale relative to the
// current collection, weight configuration, and account. Pure: it never
// mutates state and never touches the network.
//
// The comparison against the last submitted IDs is order-sensitive on
// purpose: reordering the collection triggers a full resubmission even when
// the content is unchanged. Submission is idempotent, so this costs traffic,
// not correctness.
func ShouldResync(epoch string, items []collection.Item, weights model.Weights, st *State, rules validate.Rules) bool {
	// Account switch forces a full resync.
	if epoch != st.Epoch() {
		return true
	}

	valid := validate.Validate(items, rules)
	last := st.LastValidatedIDs()
	if len(valid) != len(last) {
		return true
	}
	for i, v := range valid {
		if v.ID != last[i] {
			return true
		}
	}

	// A newly enabled (or never successfully submitted) model needs
	// backfilling even when the content itself is unchanged.
	for _, id := range weights.Enabled() {
		if !st.HasIndexedModel(id) {
			return true
		}
	}

	return false
}
