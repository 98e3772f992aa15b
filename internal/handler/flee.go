package handler

import (
	"fmt"

	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/rules"
	"github.com/reefgo/server/internal/world"
)

// HandleFlee breaks out of the current fight. PvE flight always works but the
// mob gets a parting bite; PvP flight is a level-weighted roll, and failing
// it hands the opponent a free hit.
func HandleFlee(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	s := e.deps.World

	if enc := s.EncounterOf(a.ID); enc != nil {
		s.EndEncounter(a.ID)
		parting := int(float64(enc.MobDamage)*data.FleeDamageFactor) + e.deps.Dice.Intn(6)
		parting = rules.ReduceDamage(parting, rules.CalculateDamageReduction(a, e.deps.Catalog.Items))
		a.SetHP(a.HP - parting)
		res := world.OK(fmt.Sprintf("You kick away from the %s. It tears at you as you go.", enc.MobName))
		res.Change("hp", fmt.Sprintf("-%d parting hit", parting))
		if enc.PendingDestination != "" {
			res.Change("location", "you fall back; the crossing is abandoned")
		}
		if a.HP == 0 {
			e.killAgent(a, "the "+enc.MobName, res)
			res.Narrative = fmt.Sprintf("The %s catches you mid-flight.", enc.MobName)
		}
		return res
	}

	if eng := s.Engagements.Of(a.ID); eng != nil {
		opp := s.Agent(eng.Opponent(a.ID))
		chance := rules.PvPFleeChance(a.Level, opp.Level)
		if e.deps.Dice.Float64() < chance {
			s.Engagements.End(a.ID)
			res := world.OK(fmt.Sprintf("You vanish into the silt. %s loses your trail.", opp.Name))
			res.Change("pvp", "engagement broken")
			return res
		}
		// Failed escape: the opponent gets a free unanswered hit.
		roll := data.BasePlayerDamage + e.deps.Dice.Intn(11)
		dmg := rules.CalculateDamage(opp, roll, e.deps.Catalog.Items, e.deps.Catalog.Factions, e.deps.Dice)
		taken := rules.ReduceDamage(dmg.Damage, rules.CalculateDamageReduction(a, e.deps.Catalog.Items))
		a.SetHP(a.HP - taken)
		res := world.OK(fmt.Sprintf("%s cuts off your escape and opens you up for %d.", opp.Name, taken))
		res.Change("hp", fmt.Sprintf("-%d", taken))
		if a.HP == 0 {
			e.finishPvPKill(opp, a, res)
			res.Narrative = fmt.Sprintf("%s runs you down. The chase is over.", opp.Name)
		}
		return res
	}

	return world.Fail("There is nothing to flee from.")
}
