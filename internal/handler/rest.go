package handler

import (
	"fmt"
	"time"

	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/world"
)

// HandleRest recovers hp and energy on a wall-clock cooldown. A dead agent's
// rest is its respawn: back to the shallows at full strength, penalty already
// paid at death.
func HandleRest(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	s := e.deps.World
	now := time.Now()
	if cooling, left := s.Cooldowns.OnCooldown(a.ID, world.CooldownRest, now); cooling {
		return world.Fail(fmt.Sprintf("You are not tired enough to rest again yet (%ds).",
			int(left.Seconds())+1))
	}

	if !a.IsAlive {
		a.IsAlive = true
		a.Location = data.StartZone
		a.SetHP(a.MaxHP)
		a.SetEnergy(a.MaxEnergy)
		a.PvPFlaggedUntil = 0
		s.Cooldowns.StartCooldown(a.ID, world.CooldownRest, now, data.RestCooldownSec*time.Second)
		res := world.OK("You wake in the warm shallows, whole again. The reef gave you back.")
		res.Change("location", data.StartZone)
		res.Change("hp", fmt.Sprintf("%d/%d", a.HP, a.MaxHP))
		return res
	}

	if s.Engagements.Of(a.ID) != nil {
		return world.Fail("You cannot nap mid-fight.")
	}

	// Only protected waters allow a full recovery. Anywhere else the rest is
	// watchful and restores half.
	z := e.deps.Catalog.Zones.Get(a.Location)
	narrative := "You tuck into a crevice and let the current rock you. Fully rested."
	if z != nil && z.Safe {
		a.SetHP(a.MaxHP)
		a.SetEnergy(a.MaxEnergy)
	} else {
		a.SetHP(a.HP + a.MaxHP/2)
		a.SetEnergy(a.Energy + a.MaxEnergy/2)
		narrative = "You rest with one eye open. These waters never let you fully relax."
	}
	s.Cooldowns.StartCooldown(a.ID, world.CooldownRest, now, data.RestCooldownSec*time.Second)
	res := world.OK(narrative)
	res.Change("hp", fmt.Sprintf("%d/%d", a.HP, a.MaxHP))
	res.Change("energy", fmt.Sprintf("%d/%d", a.Energy, a.MaxEnergy))
	return res
}
