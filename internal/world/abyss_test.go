package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbyssRequirementsMet(t *testing.T) {
	ab := NewAbyssState()
	assert.False(t, ab.RequirementsMet())

	for res, need := range ab.Required {
		ab.Current[res] = need - 1
	}
	assert.False(t, ab.RequirementsMet())

	for res, need := range ab.Required {
		ab.Current[res] = need
	}
	assert.True(t, ab.RequirementsMet())
}

func TestAbyssContributionLedger(t *testing.T) {
	ab := NewAbyssState()
	ab.Contribute("a", "shells", 100)
	ab.Contribute("a", "moonstone", 5)
	ab.Contribute("b", "shells", 50)

	assert.Equal(t, 150, ab.Current["shells"])
	assert.Equal(t, 100, ab.Contributions["a"].Shells)
	assert.Equal(t, 5, ab.Contributions["a"].Resources["moonstone"])
	assert.Equal(t, 50, ab.Contributions["b"].Shells)
}

func TestNullPhaseThresholds(t *testing.T) {
	ab := NewAbyssState()
	ab.Open(0)

	require.Equal(t, 10000, ab.NullMaxHP)
	assert.Equal(t, 1, ab.PhaseFor())

	ab.NullHP = 6001
	assert.Equal(t, 1, ab.PhaseFor())
	ab.NullHP = 6000
	assert.Equal(t, 2, ab.PhaseFor())

	ab.NullHP = 3001
	assert.Equal(t, 2, ab.PhaseFor())
	ab.NullHP = 3000
	assert.Equal(t, 3, ab.PhaseFor())
}

func TestAbyssExpireDecaysContributions(t *testing.T) {
	ab := NewAbyssState()
	ab.Current["shells"] = 4000
	ab.Current["moonstone"] = 101
	ab.Open(10)
	ab.Participants["a"] = 500

	ab.Expire()
	assert.False(t, ab.IsOpen)
	assert.Equal(t, 0, ab.NullPhase)
	assert.Equal(t, ab.NullMaxHP, ab.NullHP)
	assert.Equal(t, 2000, ab.Current["shells"])
	assert.Equal(t, 50, ab.Current["moonstone"])
	assert.Empty(t, ab.Participants)
}
