package handler

import (
	"fmt"
	"time"

	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/rules"
	"github.com/reefgo/server/internal/world"
)

// HandleMove swims to a connected zone. Hostile zones may ambush: the
// encounter is created and the move is held until the mob dies or the agent
// flees back.
func HandleMove(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	s := e.deps.World
	dest := e.deps.Catalog.Zones.Get(cmd.Target)
	if dest == nil {
		return world.Fail(fmt.Sprintf("No such place as %q.", cmd.Target))
	}
	from := e.deps.Catalog.Zones.Get(a.Location)
	if !from.ConnectsTo(dest.ID) {
		return world.Fail(fmt.Sprintf("%s does not border %s.", from.Name, dest.Name))
	}
	if gateMsg := e.zoneGateMessage(dest); gateMsg != "" {
		return world.Fail(gateMsg)
	}
	if a.Energy < data.EnergyPerMove {
		return world.Fail("You are too exhausted to swim on.")
	}

	// Ambush roll against the destination's natives.
	if len(dest.Mobs) > 0 {
		chance := rules.EncounterChance(a.Level, dest.Level)
		if e.deps.Dice.Float64() < chance {
			mob := e.deps.Catalog.Mobs.Get(dest.Mobs[e.deps.Dice.Intn(len(dest.Mobs))])
			hp, dmg := rules.ScaleMobStats(mob, a.Level)
			s.StartEncounter(&world.Encounter{
				AgentID:            a.ID,
				MobID:              mob.ID,
				MobName:            mob.Name,
				MobLevel:           mob.Level,
				MobHP:              hp,
				MobMaxHP:           hp,
				MobDamage:          dmg,
				MobXP:              mob.XP,
				MobShells:          mob.Shells,
				Zone:               a.Location,
				PendingDestination: dest.ID,
			})
			return world.Fail(fmt.Sprintf(
				"A %s bursts from the murk between here and %s! Fight or flee.", mob.Name, dest.Name))
		}
	}

	a.SetEnergy(a.Energy - data.EnergyPerMove)
	a.Location = dest.ID
	res := world.OK(fmt.Sprintf("You swim into %s. %s", dest.Name, dest.Description))
	res.Change("location", dest.ID)
	res.Change("energy", fmt.Sprintf("-%d", data.EnergyPerMove))

	if !a.VisitedZones[dest.ID] {
		a.VisitedZones[dest.ID] = true
		e.grantMoveXP(a, res)
	}
	if acc := rules.CheckZoneAccess(a, dest); acc.UnderLeveled {
		res.Change("warning", fmt.Sprintf(
			"this is level %d water; hostiles hit %d%% harder per level you lack",
			acc.RequiredLevel, int(data.UnderLevelPenalty*100)))
	}
	return res
}

// HandleTravel fast-travels along a paid route to a previously visited zone.
// Routes never ambush.
func HandleTravel(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	dest := e.deps.Catalog.Zones.Get(cmd.Target)
	if dest == nil {
		return world.Fail(fmt.Sprintf("No such place as %q.", cmd.Target))
	}
	route := e.deps.Catalog.Travel.Find(a.Location, dest.ID)
	if route == nil {
		return world.Fail(fmt.Sprintf("No current runs from here to %s.", dest.Name))
	}
	if !a.VisitedZones[dest.ID] {
		return world.Fail(fmt.Sprintf("You have never been to %s; you must find your own way first.", dest.Name))
	}
	if gateMsg := e.zoneGateMessage(dest); gateMsg != "" {
		return world.Fail(gateMsg)
	}
	if a.Shells < route.Cost {
		return world.Fail(fmt.Sprintf("The %s costs %d shells; you carry %d.", route.Name, route.Cost, a.Shells))
	}

	a.AddShells(-route.Cost)
	a.Location = dest.ID
	res := world.OK(fmt.Sprintf("You ride the %s to %s.", route.Name, dest.Name))
	res.Change("location", dest.ID)
	res.Change("shells", fmt.Sprintf("-%d", route.Cost))
	return res
}

// zoneGateMessage returns a refusal for gated zones whose event is not live.
func (e *Engine) zoneGateMessage(z *data.Zone) string {
	if !z.Gated {
		return ""
	}
	s := e.deps.World
	switch z.ID {
	case data.LeviathanZone:
		if !s.Leviathan.IsAlive {
			return "The lair is sealed; nothing stirs inside. Wait for the Leviathan."
		}
	case data.AbyssZone:
		if !s.Abyss.IsOpen {
			return "The Abyss gate is shut. The reef has not paid its price yet."
		}
	}
	return ""
}

// grantMoveXP pays exploration XP, rate-limited per UTC day.
func (e *Engine) grantMoveXP(a *world.Agent, res *world.Result) {
	s := e.deps.World
	now := time.Now()
	// The counter tracks grants, not XP: the cap divides out evenly.
	if s.Cooldowns.DailyCount(a.ID, world.CounterMoveXP, now) >= data.MoveXPDailyCap/data.MoveXP {
		return
	}
	s.Cooldowns.IncrDaily(a.ID, world.CounterMoveXP, now)
	gained, levels := rules.GrantXP(a, data.MoveXP, e.deps.Catalog.Factions)
	res.Change("xp", fmt.Sprintf("+%d for charting new water", gained))
	if levels > 0 {
		res.Change("level", fmt.Sprintf("you are now level %d", a.Level))
	}
}
