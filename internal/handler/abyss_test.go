package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContributeOpensGateOnFinalShell(t *testing.T) {
	e, s, _ := newTestEngine(t)

	a := addAgent(s, "a1", "Brine", abyssGateZone)
	a.Shells = 10000

	// Every requirement satisfied except one shell.
	ab := s.Abyss
	for res, need := range ab.Required {
		ab.Current[res] = need
	}
	ab.Current["shells"] = ab.Required["shells"] - 1

	res := HandleContribute(e, a, &Command{Action: "contribute", Amount: 1})
	require.True(t, res.Success)

	assert.True(t, ab.IsOpen)
	assert.Equal(t, 1, ab.NullPhase)
	assert.Equal(t, ab.NullMaxHP, ab.NullHP)
	assert.Equal(t, 10000-1, a.Shells)
}

func TestContributeOnlyAtGateZone(t *testing.T) {
	e, s, _ := newTestEngine(t)

	a := addAgent(s, "a1", "Brine", "shallows")
	res := HandleContribute(e, a, &Command{Action: "contribute", Amount: 100})
	assert.False(t, res.Success)
}

func TestGateStaysClosedUnderClosedOverride(t *testing.T) {
	e, s, _ := newTestEngine(t)
	e.deps.Config.Server.AbyssGateOverride = "closed"

	a := addAgent(s, "a1", "Brine", abyssGateZone)
	a.Shells = 10000

	ab := s.Abyss
	for res, need := range ab.Required {
		ab.Current[res] = need
	}
	ab.Current["shells"] = ab.Required["shells"] - 1

	res := HandleContribute(e, a, &Command{Action: "contribute", Amount: 1})
	require.True(t, res.Success)
	assert.True(t, ab.RequirementsMet())
	assert.False(t, ab.IsOpen)
}

func TestOfferFeedsResourceRequirement(t *testing.T) {
	e, s, _ := newTestEngine(t)

	a := addAgent(s, "a1", "Brine", abyssGateZone)
	s.AddToInventory(a, "moonstone", 10)

	res := HandleOffer(e, a, &Command{Action: "offer", Resource: "moonstone", Quantity: 4})
	require.True(t, res.Success)
	assert.Equal(t, 4, s.Abyss.Current["moonstone"])
	assert.Equal(t, 6, s.InventoryOf(a.ID)["moonstone"])
	assert.Equal(t, 4, s.Abyss.Contributions[a.ID].Resources["moonstone"])
}

func TestOfferRejectsUnwantedResource(t *testing.T) {
	e, s, _ := newTestEngine(t)

	a := addAgent(s, "a1", "Brine", abyssGateZone)
	s.AddToInventory(a, "kelp_salve", 3)

	res := HandleOffer(e, a, &Command{Action: "offer", Resource: "kelp_salve", Quantity: 1})
	assert.False(t, res.Success)

	// Shells go through contribute, never offer.
	res = HandleOffer(e, a, &Command{Action: "offer", Resource: "shells", Quantity: 1})
	assert.False(t, res.Success)
}
