package syncer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/seelkers/favsearch/internal/collection"
	"github.com/seelkers/favsearch/internal/errors"
	"github.com/seelkers/favsearch/internal/model"
	"github.com/seelkers/favsearch/internal/remote"
	"github.com/seelkers/favsearch/internal/validate"
)

// Submitter is the slice of the remote client the indexer needs.
type Submitter interface {
	Submit(ctx context.Context, req remote.SubmitRequest) error
}

// Indexer owns submission of validated items to the remote index. At most
// one submission is in flight at a time; callers that arrive while one is
// outstanding are no-ops, not queued. The next detector pass retries.
type Indexer struct {
	client Submitter
	rules  validate.Rules

	mu       sync.Mutex
	inFlight bool
}

// NewIndexer creates an indexer submitting through the given client.
func NewIndexer(client Submitter, rules validate.Rules) *Indexer {
	return &Indexer{
		client: client,
		rules:  rules,
	}
}

// InFlight reports whether a submission is currently outstanding.
func (ix *Indexer) InFlight() bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.inFlight
}

// Submit validates items and submits them under the given epoch. The state
// is updated only on success. Returns nil without submitting when another
// submission is in flight, when nothing validates, or when no model has a
// positive weight.
func (ix *Indexer) Submit(ctx context.Context, epoch string, items []collection.Item, weights model.Weights, st *State) error {
	ix.mu.Lock()
	if ix.inFlight {
		ix.mu.Unlock()
		slog.Debug("index submission already in flight, skipping")
		return nil
	}
	ix.inFlight = true
	ix.mu.Unlock()

	defer func() {
		ix.mu.Lock()
		ix.inFlight = false
		ix.mu.Unlock()
	}()

	valid := validate.Validate(items, ix.rules)
	enabled := weights.Enabled()
	if len(valid) == 0 || len(enabled) == 0 {
		slog.Debug("nothing to submit",
			slog.Int("valid_items", len(valid)),
			slog.Int("enabled_models", len(enabled)))
		return nil
	}

	ids := make([]string, len(valid))
	srcs := make([]string, len(valid))
	for i, v := range valid {
		ids[i] = v.ID
		srcs[i] = v.Locator
	}

	start := time.Now()
	err := ix.client.Submit(ctx, remote.SubmitRequest{
		Names:     ids,
		MediaSrcs: srcs,
		Models:    enabled,
	})
	if err != nil {
		if errors.IsNotConfigured(err) || errors.IsCancelled(err) {
			return err
		}
		// Failure leaves the state untouched: the change detector will flag
		// the same content again and that is the entire retry mechanism.
		slog.Warn("index submission failed",
			slog.Int("items", len(ids)),
			slog.String("error", err.Error()))
		return err
	}

	st.RecordSubmission(epoch, ids, enabled, weights)
	slog.Info("index synchronized",
		slog.Int("items", len(ids)),
		slog.Int("models", len(enabled)),
		slog.Duration("took", time.Since(start)))
	return nil
}

// SyncIfNeeded runs the change detector and submits when it reports staleness.
// Returns true when a submission was attempted.
func (ix *Indexer) SyncIfNeeded(ctx context.Context, epoch string, items []collection.Item, weights model.Weights, st *State) (bool, error) {
	if !ShouldResync(epoch, items, weights, st, ix.rules) {
		return false, nil
	}
	return true, ix.Submit(ctx, epoch, items, weights, st)
}
