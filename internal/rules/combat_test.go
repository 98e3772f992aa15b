package rules

import (
	"testing"

	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedDice struct {
	f float64
	n int
}

func (d fixedDice) Float64() float64 { return d.f }
func (d fixedDice) Intn(n int) int   { return d.n }

func loadItems(t *testing.T) *data.ItemTable {
	t.Helper()
	c, err := data.LoadCatalog()
	require.NoError(t, err)
	return c.Items
}

func TestDeathPenaltyBounds(t *testing.T) {
	assert.Equal(t, 5, DeathPenalty(0))
	assert.Equal(t, 5, DeathPenalty(30))
	assert.Equal(t, 15, DeathPenalty(100))
	assert.Equal(t, 500, DeathPenalty(10000))
}

func TestPvPFleeChanceClamps(t *testing.T) {
	assert.InDelta(t, 0.50, PvPFleeChance(5, 5), 1e-9)
	assert.InDelta(t, 0.60, PvPFleeChance(7, 5), 1e-9)
	assert.InDelta(t, 0.20, PvPFleeChance(1, 20), 1e-9)
	assert.InDelta(t, 0.90, PvPFleeChance(20, 1), 1e-9)
}

func TestEncounterChanceClamps(t *testing.T) {
	assert.InDelta(t, 0.25, EncounterChance(5, 5), 1e-9)
	assert.InDelta(t, 0.40, EncounterChance(5, 8), 1e-9)
	assert.InDelta(t, 0.05, EncounterChance(20, 1), 1e-9)
	assert.InDelta(t, 0.60, EncounterChance(1, 12), 1e-9)
}

func TestReduceDamageFloor(t *testing.T) {
	assert.Equal(t, 7, ReduceDamage(10, 3))
	assert.Equal(t, 1, ReduceDamage(3, 10))
}

func TestUnderlevelMultiplier(t *testing.T) {
	assert.InDelta(t, 1.0, UnderlevelMultiplier(10, 8), 1e-9)
	assert.InDelta(t, 1.30, UnderlevelMultiplier(6, 8), 1e-9)
}

func TestScaleMobStats(t *testing.T) {
	m := &data.Mob{Level: 5, HP: 100, Damage: 20}

	hp, dmg := ScaleMobStats(m, 5)
	assert.Equal(t, 100, hp)
	assert.Equal(t, 20, dmg)

	hp, dmg = ScaleMobStats(m, 10)
	assert.Equal(t, 150, hp)
	assert.Equal(t, 25, dmg)

	hp, dmg = ScaleMobStats(m, 3)
	assert.Equal(t, 100, hp, "outleveling agents never weaken the mob")
	assert.Equal(t, 20, dmg)
}

func TestCalculateDamageAddsWeapon(t *testing.T) {
	items := loadItems(t)

	a := &world.Agent{Level: 5}
	res := CalculateDamage(a, 10, items, nil, fixedDice{f: 1})
	assert.Equal(t, 10, res.Damage, "bare fists add nothing")
	assert.False(t, res.IsCrit)

	a.Equipped.Weapon = "tideforged_trident"
	trident := items.Get("tideforged_trident")
	require.NotNil(t, trident)
	res = CalculateDamage(a, 10, items, nil, fixedDice{f: 1})
	assert.Equal(t, 10+trident.Stats.Damage, res.Damage)
}

func TestCalculateDamageReductionSumsSlots(t *testing.T) {
	items := loadItems(t)

	a := &world.Agent{}
	assert.Zero(t, CalculateDamageReduction(a, items))

	a.Equipped.Armor = "scalemail"
	assert.Equal(t, 3, CalculateDamageReduction(a, items))

	a.Equipped.Armor = "barnacle_plate"
	assert.Equal(t, 5, CalculateDamageReduction(a, items))
}

func TestRollRange(t *testing.T) {
	assert.Equal(t, 15, RollRange(fixedDice{n: 5}, 10, 20))
	assert.Equal(t, 10, RollRange(fixedDice{}, 10, 10))
	assert.Equal(t, 10, RollRange(fixedDice{}, 10, 5), "inverted range collapses to min")
}
