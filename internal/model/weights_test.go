package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeights_EnabledSortedPositiveOnly(t *testing.T) {
	w := Weights{"clip": 0.8, "align": 0.0, "blip": 0.3}

	assert.Equal(t, []string{"blip", "clip"}, w.Enabled())
}

func TestWeights_GetFallsBackToDefault(t *testing.T) {
	w := Weights{"clip": 0.8}

	assert.Equal(t, 0.8, w.Get("clip"))
	assert.Equal(t, DefaultWeight, w.Get("unknown"))
}

func TestWeights_CloneIsIndependent(t *testing.T) {
	w := Weights{"clip": 0.8}
	c := w.Clone()
	c["clip"] = 0.1

	assert.Equal(t, 0.8, w["clip"])
}
