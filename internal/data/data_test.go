package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalogCrossReferences(t *testing.T) {
	c, err := LoadCatalog()
	require.NoError(t, err)

	assert.Equal(t, 8, c.Zones.Count())
	assert.Positive(t, c.Mobs.Count())
	assert.Positive(t, c.Items.Count())
	assert.Positive(t, c.Recipes.Count())
	assert.Positive(t, c.Factions.Count())
	assert.Positive(t, c.Travel.Count())
	assert.Positive(t, c.Dungeons.Count())
	assert.Positive(t, c.Quests.Count())

	require.NotNil(t, c.Zones.Get(StartZone))
	require.NotNil(t, c.Items.Get(LegendaryItemID))

	// Every zone connection, mob and guardian was resolved during validate;
	// spot-check the gate zone used by the season finale.
	gate := c.Zones.Get("the_abyss")
	require.NotNil(t, gate)
	trench := c.Zones.Get("deep_trench")
	require.NotNil(t, trench)
	assert.True(t, trench.ConnectsTo("the_abyss"))
}

func TestZoneResourceLookup(t *testing.T) {
	c, err := LoadCatalog()
	require.NoError(t, err)

	z := c.Zones.Get("coral_gardens")
	require.NotNil(t, z)
	res := z.Resource("moonstone")
	require.NotNil(t, res)
	assert.NotEmpty(t, res.Guardian, "rare nodes carry a guardian")
	assert.Nil(t, z.Resource("no_such_resource"))
}

func TestTravelRoutes(t *testing.T) {
	c, err := LoadCatalog()
	require.NoError(t, err)

	route := c.Travel.Find(StartZone, "shipwreck_graveyard")
	require.NotNil(t, route)
	assert.Positive(t, route.Cost)
	assert.NotEmpty(t, route.Name)

	assert.Nil(t, c.Travel.Find(StartZone, StartZone))
	assert.NotEmpty(t, c.Travel.From(StartZone))
}

func TestTournamentTierBands(t *testing.T) {
	tier, bps := TournamentTier(20)
	assert.Equal(t, "Bronze", tier)
	assert.Zero(t, bps)

	tier, bps = TournamentTier(32)
	assert.Equal(t, "Silver", tier)
	assert.Equal(t, 2500, bps)

	tier, bps = TournamentTier(64)
	assert.Equal(t, "Gold", tier)
	assert.Equal(t, 5000, bps)

	tier, bps = TournamentTier(128)
	assert.Equal(t, "Legendary", tier)
	assert.Equal(t, 10000, bps)
}

func TestAbyssRequirementsIncludeShells(t *testing.T) {
	req := AbyssRequirements()
	assert.Equal(t, 5000, req["shells"])
	assert.Contains(t, req, "abyssal_pearl")
	assert.Len(t, req, 6)
}

func TestFeaturedPoolExcludesUnsellable(t *testing.T) {
	c, err := LoadCatalog()
	require.NoError(t, err)

	pool := c.Items.FeaturedPool()
	require.NotEmpty(t, pool)
	for _, id := range pool {
		item := c.Items.Get(id)
		require.NotNil(t, item)
		assert.True(t, item.Featured)
		assert.Positive(t, item.Price, "featured rotation only holds shop stock")
	}
	assert.NotContains(t, pool, LegendaryItemID)
}
