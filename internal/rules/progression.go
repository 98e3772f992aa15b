package rules

import (
	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/world"
)

// Per-level stat growth applied on level-up.
const (
	hpPerLevel     = 10
	energyPerLevel = 5
)

// XPForLevel is the cumulative XP threshold for a level:
// L·(L−1)·50 (level 1 = 0, level 2 = 100, level 3 = 300, ...).
func XPForLevel(level int) int {
	return level * (level - 1) * 50
}

// faction returns the agent's faction entry, or nil.
func faction(a *world.Agent, factions *data.FactionTable) *data.Faction {
	if a.Faction == "" || factions == nil {
		return nil
	}
	return factions.Get(a.Faction)
}

// GrantXP applies the faction multiplier, adds XP and processes any level-ups
// (maxHp/maxEnergy growth, full refill). Returns (xp gained, levels gained).
func GrantXP(a *world.Agent, base int, factions *data.FactionTable) (int, int) {
	if base <= 0 {
		return 0, 0
	}
	gain := base
	if f := faction(a, factions); f != nil {
		gain = int(float64(base) * f.XPMultiplier)
	}
	a.XP += gain
	levels := 0
	for a.XP >= XPForLevel(a.Level+1) {
		a.Level++
		levels++
		a.MaxHP += hpPerLevel
		a.MaxEnergy += energyPerLevel
	}
	if levels > 0 {
		a.HP = a.MaxHP
		a.Energy = a.MaxEnergy
	}
	return gain, levels
}

// MobKillXP scales a mob's XP grant by the (agentLevel − mobLevel) band:
// at or below the mob's level pays full, each level above fades it, five or
// more levels above pays a fixed 1 XP.
func MobKillXP(agentLevel, mobLevel, mobXP int) int {
	diff := mobLevel - agentLevel
	switch {
	case diff >= 0:
		return mobXP
	case diff == -1:
		return mobXP * 75 / 100
	case diff == -2:
		return mobXP * 50 / 100
	case diff == -3:
		return mobXP * 25 / 100
	case diff == -4:
		return mobXP * 10 / 100
	default:
		return 1
	}
}

// GrantShells applies the faction shell multiplier. Returns shells granted.
func GrantShells(a *world.Agent, base int, factions *data.FactionTable) int {
	if base <= 0 {
		return 0
	}
	gain := base
	if f := faction(a, factions); f != nil {
		gain = int(float64(base) * f.ShellMultiplier)
	}
	a.Shells += gain
	return gain
}

// ApplyFactionStats permanently rebases stats on faction join. The handler
// enforces the level 5 gate and the one-faction-forever rule.
func ApplyFactionStats(a *world.Agent, f *data.Faction) {
	a.MaxHP += f.MaxHPBonus
	a.HP = a.MaxHP
}
