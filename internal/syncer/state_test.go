package syncer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seelkers/favsearch/internal/model"
)

func TestState_IndexedModelsGrowMonotonically(t *testing.T) {
	st := NewState("acct1")

	st.RecordSubmission("acct1", []string{"a"}, []string{"clip"}, model.Weights{"clip": 1})
	st.RecordSubmission("acct1", []string{"a"}, []string{"blip"}, model.Weights{"blip": 1})

	assert.True(t, st.HasIndexedModel("clip"))
	assert.True(t, st.HasIndexedModel("blip"))
}

func TestState_EpochChangeResetsEverything(t *testing.T) {
	st := NewState("acct1")
	st.RecordSubmission("acct1", []string{"a"}, []string{"clip"}, model.Weights{"clip": 1})

	st.RecordSubmission("acct2", []string{"b"}, []string{"blip"}, model.Weights{"blip": 1})

	assert.Equal(t, "acct2", st.Epoch())
	assert.False(t, st.HasIndexedModel("clip"), "indexed set must not survive an account switch")
	assert.True(t, st.HasIndexedModel("blip"))
	assert.Equal(t, []string{"b"}, st.LastValidatedIDs())
}

func TestState_RecordCopiesInputs(t *testing.T) {
	st := NewState("acct1")
	ids := []string{"a", "b"}
	weights := model.Weights{"clip": 1}

	st.RecordSubmission("acct1", ids, []string{"clip"}, weights)
	ids[0] = "mutated"
	weights["clip"] = 0

	assert.Equal(t, []string{"a", "b"}, st.LastValidatedIDs())
	assert.Equal(t, 1.0, st.LastWeights()["clip"])
}
