// Package syncer keeps the remote index converged with local collection
// state: a pure change detector decides when a resync is due, and a
// single-flight indexer performs the submission.
package syncer

import (
	"sync"

	"github.com/seelkers/favsearch/internal/model"
)

// State is the process-lifetime record of what has already been submitted to
// the remote index for one account. It is mutated only by the Indexer, and
// only after a successful submission; a failed submission leaves it untouched
// so the next detector pass retries.
//
// Invariant: the indexed-model set only grows while the epoch is unchanged;
// an epoch change (account switch) resets everything.
type State struct {
	mu sync.RWMutex

	epoch            string
	lastValidatedIDs []string
	indexedModels    map[string]struct{}
	lastWeights      model.Weights
}

// NewState creates an empty sync state bound to the given account epoch.
func NewState(epoch string) *State {
	return &State{
		epoch:         epoch,
		indexedModels: make(map[string]struct{}),
		lastWeights:   model.Weights{},
	}
}

// Epoch returns the account epoch this state belongs to.
func (s *State) Epoch() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// LastValidatedIDs returns the ordered IDs of the last successful submission.
func (s *State) LastValidatedIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.lastValidatedIDs))
	copy(out, s.lastValidatedIDs)
	return out
}

// HasIndexedModel reports whether the model has been part of a successful
// submission during the current epoch.
func (s *State) HasIndexedModel(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.indexedModels[id]
	return ok
}

// LastWeights returns the weight configuration in effect at the last
// successful submission.
func (s *State) LastWeights() model.Weights {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastWeights.Clone()
}

// Reset clears everything and rebinds the state to a new epoch.
func (s *State) Reset(epoch string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(epoch)
}

func (s *State) reset(epoch string) {
	s.epoch = epoch
	s.lastValidatedIDs = nil
	s.indexedModels = make(map[string]struct{})
	s.lastWeights = model.Weights{}
}

// RecordSubmission records a successful submission. If the submission was
// made under a different epoch the state resets first, so the indexed-model
// set never survives an account switch.
func (s *State) RecordSubmission(epoch string, ids []string, modelIDs []string, weights model.Weights) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch {
		s.reset(epoch)
	}

	s.lastValidatedIDs = make([]string, len(ids))
	copy(s.lastValidatedIDs, ids)
	for _, id := range modelIDs {
		s.indexedModels[id] = struct{}{}
	}
	s.lastWeights = weights.Clone()
}
