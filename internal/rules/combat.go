package rules

import (
	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/world"
)

// DamageResult is one attack roll after faction scaling and crit.
type DamageResult struct {
	Damage int
	IsCrit bool
}

// CalculateDamage applies the equipped weapon, the faction damage multiplier
// and a Bernoulli crit (doubling) to a base roll.
func CalculateDamage(a *world.Agent, baseRoll int, items *data.ItemTable, factions *data.FactionTable, dice Dice) DamageResult {
	dmg := baseRoll
	if w := a.Equipped.Weapon; w != "" && items != nil {
		if it := items.Get(w); it != nil {
			dmg += it.Stats.Damage
		}
	}
	crit := false
	if f := faction(a, factions); f != nil {
		dmg = int(float64(dmg) * f.DamageMultiplier)
		if f.CritChance > 0 && dice.Float64() < f.CritChance {
			crit = true
			dmg *= 2
		}
	}
	return DamageResult{Damage: dmg, IsCrit: crit}
}

// CalculateDamageReduction sums the damage_reduction stats across the
// defender's equipped slots.
func CalculateDamageReduction(a *world.Agent, items *data.ItemTable) int {
	if items == nil {
		return 0
	}
	total := 0
	for _, slot := range []string{"weapon", "armor", "accessory"} {
		if id := a.Equipped.Get(slot); id != "" {
			if it := items.Get(id); it != nil {
				total += it.Stats.DamageReduction
			}
		}
	}
	return total
}

// ReduceDamage applies armor with a floor of 1.
func ReduceDamage(raw, reduction int) int {
	d := raw - reduction
	if d < 1 {
		d = 1
	}
	return d
}

// EncounterChance is the travel-ambush probability, rising with the zone's
// level advantage over the agent.
func EncounterChance(agentLevel, zoneLevel int) float64 {
	c := 0.25 + 0.05*float64(zoneLevel-agentLevel)
	if c < 0.05 {
		c = 0.05
	}
	if c > 0.60 {
		c = 0.60
	}
	return c
}

// ScaleMobStats grows a template's hp and damage when the agent outlevels it
// so high-level agents still see a fight.
func ScaleMobStats(m *data.Mob, agentLevel int) (hp, damage int) {
	hp, damage = m.HP, m.Damage
	if over := agentLevel - m.Level; over > 0 {
		hp += hp * over * 10 / 100
		damage += damage * over * 5 / 100
	}
	return hp, damage
}

// ZoneAccess reports the level gate: underleveled agents may still enter but
// take +15% hostile damage per missing level.
type ZoneAccess struct {
	UnderLeveled  bool
	RequiredLevel int
	AgentLevel    int
}

func CheckZoneAccess(a *world.Agent, z *data.Zone) ZoneAccess {
	return ZoneAccess{
		UnderLeveled:  a.Level < z.Level,
		RequiredLevel: z.Level,
		AgentLevel:    a.Level,
	}
}

// UnderlevelMultiplier is the hostile-damage scale for an underleveled agent.
func UnderlevelMultiplier(agentLevel, zoneLevel int) float64 {
	gap := zoneLevel - agentLevel
	if gap <= 0 {
		return 1.0
	}
	return 1.0 + data.UnderLevelPenalty*float64(gap)
}

// DeathPenalty is the shell loss on death: 15%, floored at 5, capped at 500.
func DeathPenalty(shells int) int {
	p := shells * 15 / 100
	if p < data.DeathPenaltyMin {
		p = data.DeathPenaltyMin
	}
	if p > data.DeathPenaltyMax {
		p = data.DeathPenaltyMax
	}
	return p
}

// PvPFleeChance: base 50%, ±5% per level difference, clamped [20%,90%].
func PvPFleeChance(fleeingLevel, opponentLevel int) float64 {
	c := data.PvPFleeBase + data.PvPFleePerLevel*float64(fleeingLevel-opponentLevel)
	if c < data.PvPFleeMin {
		c = data.PvPFleeMin
	}
	if c > data.PvPFleeMax {
		c = data.PvPFleeMax
	}
	return c
}
