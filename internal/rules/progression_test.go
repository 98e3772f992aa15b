package rules

import (
	"testing"

	"github.com/reefgo/server/internal/world"
	"github.com/stretchr/testify/assert"
)

func TestXPForLevelCurve(t *testing.T) {
	assert.Equal(t, 0, XPForLevel(1))
	assert.Equal(t, 100, XPForLevel(2))
	assert.Equal(t, 300, XPForLevel(3))
	assert.Equal(t, 600, XPForLevel(4))
	assert.Equal(t, 1000, XPForLevel(5))
}

func TestGrantXPLevelUpRefills(t *testing.T) {
	a := &world.Agent{Level: 1, HP: 40, MaxHP: 100, Energy: 10, MaxEnergy: 100}

	gained, levels := GrantXP(a, 350, nil)
	assert.Equal(t, 350, gained)
	assert.Equal(t, 2, levels)
	assert.Equal(t, 3, a.Level)
	assert.Equal(t, 120, a.MaxHP)
	assert.Equal(t, 110, a.MaxEnergy)
	assert.Equal(t, a.MaxHP, a.HP, "level up refills hp")
	assert.Equal(t, a.MaxEnergy, a.Energy)
}

func TestGrantXPNoLevelKeepsHP(t *testing.T) {
	a := &world.Agent{Level: 5, XP: 1000, HP: 40, MaxHP: 100}
	gained, levels := GrantXP(a, 10, nil)
	assert.Equal(t, 10, gained)
	assert.Zero(t, levels)
	assert.Equal(t, 40, a.HP)

	gained, levels = GrantXP(a, 0, nil)
	assert.Zero(t, gained)
	assert.Zero(t, levels)
}

func TestMobKillXPBands(t *testing.T) {
	assert.Equal(t, 40, MobKillXP(3, 5, 40), "never boosted above the template")
	assert.Equal(t, 40, MobKillXP(5, 5, 40))
	assert.Equal(t, 30, MobKillXP(6, 5, 40))
	assert.Equal(t, 20, MobKillXP(7, 5, 40))
	assert.Equal(t, 10, MobKillXP(8, 5, 40))
	assert.Equal(t, 4, MobKillXP(9, 5, 40))
	assert.Equal(t, 1, MobKillXP(10, 5, 40))
	assert.Equal(t, 1, MobKillXP(20, 5, 40))
}

func TestVaultSlotPriceScales(t *testing.T) {
	assert.Equal(t, 150, VaultSlotPrice(5))
	assert.Equal(t, 175, VaultSlotPrice(6))
}

func TestInventorySlotPriceCaps(t *testing.T) {
	assert.Equal(t, 100, InventorySlotPrice(10))
	assert.Equal(t, 100, InventorySlotPrice(19))
	assert.Zero(t, InventorySlotPrice(20))
}

func TestPotentialWinTruncates(t *testing.T) {
	assert.Equal(t, 25, PotentialWin(10, 2.5))
	assert.Equal(t, 14, PotentialWin(10, 1.45))
}
