package handler

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/rules"
	"github.com/reefgo/server/internal/world"
)

// HandleAttack routes to the live encounter, the live engagement, or a new
// PvP engagement against "@name".
func HandleAttack(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	s := e.deps.World

	if enc := s.EncounterOf(a.ID); enc != nil {
		return e.attackMob(a, enc)
	}
	if eng := s.Engagements.Of(a.ID); eng != nil {
		return e.attackAgent(a, s.Agent(eng.Opponent(a.ID)), eng)
	}
	if strings.HasPrefix(cmd.Target, "@") {
		return e.startPvP(a, strings.TrimPrefix(cmd.Target, "@"))
	}
	if cmd.Target != "" {
		return e.startPvP(a, cmd.Target)
	}
	return world.Fail("Attack what? There is no fight here and no target named.")
}

// attackMob runs one PvE exchange: your hit, then the mob's if it survives.
func (e *Engine) attackMob(a *world.Agent, enc *world.Encounter) *world.Result {
	s := e.deps.World
	if a.Energy < data.EnergyPerAttack {
		return world.Fail("You are too exhausted to fight.")
	}
	a.SetEnergy(a.Energy - data.EnergyPerAttack)

	roll := data.BasePlayerDamage + e.deps.Dice.Intn(11)
	dmg := rules.CalculateDamage(a, roll, e.deps.Catalog.Items, e.deps.Catalog.Factions, e.deps.Dice)
	enc.MobHP -= dmg.Damage

	res := world.OK("")
	hit := fmt.Sprintf("You hit the %s for %d", enc.MobName, dmg.Damage)
	if dmg.IsCrit {
		hit += " — a vicious crit"
	}
	res.Change("damage", hit)
	res.Change("energy", fmt.Sprintf("-%d", data.EnergyPerAttack))

	if enc.MobHP <= 0 {
		return e.finishMobKill(a, enc, res)
	}

	// Retaliation, scaled up when the agent is underleveled for the zone.
	z := e.deps.Catalog.Zones.Get(enc.Zone)
	raw := int(float64(enc.MobDamage+e.deps.Dice.Intn(6)) * rules.UnderlevelMultiplier(a.Level, z.Level))
	taken := rules.ReduceDamage(raw, rules.CalculateDamageReduction(a, e.deps.Catalog.Items))
	a.SetHP(a.HP - taken)
	res.Narrative = fmt.Sprintf("You trade blows with the %s (%d/%d hp left).",
		enc.MobName, enc.MobHP, enc.MobMaxHP)
	res.Change("hp", fmt.Sprintf("the %s hits back for %d", enc.MobName, taken))
	if a.HP == 0 {
		s.EndEncounter(a.ID)
		e.killAgent(a, "the "+enc.MobName, res)
		res.Narrative = fmt.Sprintf("The %s proves too much. Everything goes dark.", enc.MobName)
	}
	return res
}

// finishMobKill pays out a dead mob: XP band, shells, loot, guardian grace,
// and a held travel destination.
func (e *Engine) finishMobKill(a *world.Agent, enc *world.Encounter, res *world.Result) *world.Result {
	s := e.deps.World
	s.EndEncounter(a.ID)

	mob := e.deps.Catalog.Mobs.Get(enc.MobID)
	xp := rules.MobKillXP(a.Level, enc.MobLevel, enc.MobXP)
	gained, levels := rules.GrantXP(a, xp, e.deps.Catalog.Factions)
	shells := rules.GrantShells(a, enc.MobShells, e.deps.Catalog.Factions)

	res.Narrative = fmt.Sprintf("The %s goes limp and drifts down.", enc.MobName)
	res.Change("xp", fmt.Sprintf("+%d", gained))
	res.Change("shells", fmt.Sprintf("+%d", shells))
	if levels > 0 {
		res.Change("level", fmt.Sprintf("you are now level %d", a.Level))
	}

	if mob != nil {
		for _, entry := range mob.Loot {
			if e.deps.Dice.Float64() >= entry.Chance {
				continue
			}
			qty := rules.RollRange(e.deps.Dice, entry.Min, entry.Max)
			if stored := s.AddToInventory(a, entry.Resource, qty); stored > 0 {
				res.Change("inventory", fmt.Sprintf("+%d %s", stored, entry.Resource))
			}
		}
	}

	if enc.IsResourceGuardian {
		key := world.GuardianKeyFor(a.ID, enc.GuardedResource, enc.Zone)
		s.GuardianKills[key] = s.Tick
		res.Change("guardian", fmt.Sprintf(
			"the %s vein is unguarded for you for %d ticks", enc.GuardedResource, data.GuardianKillGraceTk))
	}

	if enc.PendingDestination != "" {
		dest := e.deps.Catalog.Zones.Get(enc.PendingDestination)
		a.SetEnergy(a.Energy - data.EnergyPerMove)
		a.Location = dest.ID
		if !a.VisitedZones[dest.ID] {
			a.VisitedZones[dest.ID] = true
		}
		res.Change("location", dest.ID)
		res.Narrative += fmt.Sprintf(" The way is clear; you press on into %s.", dest.Name)
	}
	return res
}

// startPvP opens an engagement against a named agent in the same zone.
func (e *Engine) startPvP(a *world.Agent, name string) *world.Result {
	s := e.deps.World
	target := s.AgentByName(name)
	if target == nil || target.ID == a.ID {
		return world.Fail(fmt.Sprintf("No one called %q here.", name))
	}
	if target.Location != a.Location || !target.IsAlive {
		return world.Fail(fmt.Sprintf("%s is not here.", target.Name))
	}
	z := e.deps.Catalog.Zones.Get(a.Location)
	if z.Safe && !target.PvPFlagged(s.Tick) {
		return world.Fail("These are protected waters. No blood in the shallows.")
	}
	if s.Engagements.Of(target.ID) != nil {
		return world.Fail(fmt.Sprintf("%s is already fighting someone else.", target.Name))
	}

	eng := s.Engagements.Start(a.ID, target.ID, a.Location, time.Now())
	if eng == nil {
		return world.Fail("You are already locked in a fight.")
	}
	ev := s.LogEvent("pvp_start",
		fmt.Sprintf("%s turned on %s in %s.", a.Name, target.Name, z.Name),
		a.Location, a.ID, target.ID)
	e.deps.Events.Publish(ev)

	// The opening attack lands as part of the same action.
	return e.attackAgent(a, target, eng)
}

// attackAgent runs one PvP hit. No automatic riposte: the defender answers on
// their own action.
func (e *Engine) attackAgent(a, target *world.Agent, eng *world.Engagement) *world.Result {
	s := e.deps.World
	if target == nil || !target.IsAlive {
		s.Engagements.End(a.ID)
		return world.Fail("Your opponent is gone.")
	}
	if a.Energy < data.EnergyPerAttack {
		return world.Fail("You are too exhausted to fight.")
	}
	a.SetEnergy(a.Energy - data.EnergyPerAttack)

	roll := data.BasePlayerDamage + e.deps.Dice.Intn(11)
	dmg := rules.CalculateDamage(a, roll, e.deps.Catalog.Items, e.deps.Catalog.Factions, e.deps.Dice)
	taken := rules.ReduceDamage(dmg.Damage, rules.CalculateDamageReduction(target, e.deps.Catalog.Items))
	target.SetHP(target.HP - taken)

	res := world.OK(fmt.Sprintf("You strike %s for %d (%d/%d hp left).",
		target.Name, taken, target.HP, target.MaxHP))
	res.Change("damage", fmt.Sprintf("%d to %s", taken, target.Name))
	res.Change("energy", fmt.Sprintf("-%d", data.EnergyPerAttack))

	if target.HP == 0 {
		e.finishPvPKill(a, target, res)
	}
	return res
}

// finishPvPKill ends the engagement, loots up to three half-stacks, and pays
// the winner's XP.
func (e *Engine) finishPvPKill(winner, loser *world.Agent, res *world.Result) {
	s := e.deps.World
	s.Engagements.End(winner.ID)

	// Loot: half of up to three stacks, largest first.
	inv := s.InventoryOf(loser.ID)
	type stack struct {
		resource string
		qty      int
	}
	stacks := make([]stack, 0, len(inv))
	for r, q := range inv {
		stacks = append(stacks, stack{r, q})
	}
	sort.Slice(stacks, func(i, j int) bool {
		if stacks[i].qty != stacks[j].qty {
			return stacks[i].qty > stacks[j].qty
		}
		return stacks[i].resource < stacks[j].resource
	})
	if len(stacks) > data.PvPLootStacks {
		stacks = stacks[:data.PvPLootStacks]
	}
	for _, st := range stacks {
		half := st.qty / 2
		if half == 0 {
			continue
		}
		if !s.RemoveFromInventory(loser.ID, st.resource, half) {
			continue
		}
		if stored := s.AddToInventory(winner, st.resource, half); stored > 0 {
			res.Change("inventory", fmt.Sprintf("+%d %s looted", stored, st.resource))
		}
	}

	gained, levels := rules.GrantXP(winner, data.PvPWinXP, e.deps.Catalog.Factions)
	res.Change("xp", fmt.Sprintf("+%d", gained))
	if levels > 0 {
		res.Change("level", fmt.Sprintf("you are now level %d", winner.Level))
	}

	e.claimBounty(winner, loser, res)
	e.killAgent(loser, winner.Name, res)
	res.Narrative = fmt.Sprintf("%s sinks, beaten. The water tastes of iron.", loser.Name)

	ev := s.LogEvent("pvp_kill",
		fmt.Sprintf("%s defeated %s in %s.", winner.Name, loser.Name, winner.Location),
		winner.Location, winner.ID, loser.ID)
	e.deps.Events.Publish(ev)
}
