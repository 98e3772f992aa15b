package handler

import (
	"fmt"

	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/rules"
	"github.com/reefgo/server/internal/world"
)

// HandleGather harvests a resource node. Guarded nodes spawn their guardian
// first; killing it buys a grace window per (agent, node). Rare nodes flag
// the gatherer for open PvP.
func HandleGather(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	s := e.deps.World
	target := cmd.Target
	if target == "" {
		target = cmd.Resource
	}
	z := e.deps.Catalog.Zones.Get(a.Location)
	zr := z.Resource(target)
	node := s.ZoneResource(a.Location, target)
	if zr == nil || node == nil {
		return world.Fail(fmt.Sprintf("There is no %s to gather here.", target))
	}
	if a.Energy < data.EnergyPerGather {
		return world.Fail("You are too exhausted to gather.")
	}
	if node.Current <= 0 {
		return world.Fail(fmt.Sprintf("The %s here is picked clean; give it time to regrow.", target))
	}
	if s.InventoryCount(a.ID) >= a.InventorySlots {
		return world.Fail("Your satchel is full. Vault, sell or drop something first.")
	}

	// Guardian check: the node is defended unless this agent killed the
	// guardian within the grace window.
	if zr.Guardian != "" {
		key := world.GuardianKeyFor(a.ID, target, a.Location)
		killTick, ok := s.GuardianKills[key]
		if !ok || s.Tick-killTick > data.GuardianKillGraceTk {
			mob := e.deps.Catalog.Mobs.Get(zr.Guardian)
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
				IsResourceGuardian: true,
				GuardedResource:    target,
			})
			return world.Fail(fmt.Sprintf(
				"A %s rises to defend the %s! Kill it and the vein is yours for a while.",
				mob.Name, target))
		}
	}

	qty := rules.RollRange(e.deps.Dice, 1, 3)
	if qty > node.Current {
		qty = node.Current
	}
	stored := s.AddToInventory(a, target, qty)
	if stored == 0 {
		return world.Fail("Your satchel is full. Vault, sell or drop something first.")
	}
	node.Current -= stored
	a.SetEnergy(a.Energy - data.EnergyPerGather)

	res := world.OK(fmt.Sprintf("You gather %d %s.", stored, target))
	res.Change("inventory", fmt.Sprintf("+%d %s", stored, target))
	res.Change("energy", fmt.Sprintf("-%d", data.EnergyPerGather))
	if stored < qty {
		res.Change("inventory", "your satchel could not hold it all")
	}

	if zr.Rare {
		a.PvPFlaggedUntil = s.Tick + data.PvPFlagTicks
		res.Change("pvp", fmt.Sprintf(
			"hauling %s marks you: attackable anywhere for %d ticks", target, data.PvPFlagTicks))
		ev := s.LogEvent("rare_gather",
			fmt.Sprintf("%s pulled %s out of %s and is fair game.", a.Name, target, z.Name),
			a.Location, a.ID)
		e.deps.Events.Publish(ev)
	}
	return res
}
