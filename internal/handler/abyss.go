package handler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/world"
)

// abyssGateZone is where the reef feeds the gate. The Abyss itself stays
// unreachable until it opens.
const abyssGateZone = "deep_trench"

// HandleContribute feeds shells into the Abyss gate.
func HandleContribute(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	if a.Location != abyssGateZone {
		return world.Fail("The gate drinks only at the deep trench.")
	}
	amount := cmd.Amount
	if amount <= 0 {
		return world.Fail("Contribute how many shells?")
	}
	if a.Shells < amount {
		return world.Fail(fmt.Sprintf("You carry %d shells.", a.Shells))
	}
	s := e.deps.World
	a.AddShells(-amount)
	s.Abyss.Contribute(a.ID, "shells", amount)

	res := world.OK(fmt.Sprintf("You pour %d shells into the dark. It takes them without thanks.", amount))
	res.Change("shells", fmt.Sprintf("-%d", amount))
	res.Change("abyss", fmt.Sprintf("shells %d/%d", s.Abyss.Current["shells"], s.Abyss.Required["shells"]))
	e.maybeOpenAbyss(res)
	return res
}

// HandleOffer feeds gathered resources into the Abyss gate.
func HandleOffer(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	if a.Location != abyssGateZone {
		return world.Fail("The gate drinks only at the deep trench.")
	}
	resource := cmd.Resource
	if resource == "" {
		resource = cmd.Target
	}
	qty := cmd.Quantity
	if qty <= 0 {
		qty = 1
	}
	s := e.deps.World
	if _, wanted := s.Abyss.Required[resource]; !wanted || resource == "shells" {
		return world.Fail(fmt.Sprintf("The gate has no hunger for %q.", resource))
	}
	if !s.RemoveFromInventory(a.ID, resource, qty) {
		return world.Fail(fmt.Sprintf("You are not carrying %d %s.", qty, resource))
	}
	s.Abyss.Contribute(a.ID, resource, qty)

	res := world.OK(fmt.Sprintf("You feed %d %s to the gate. The water swallows it whole.", qty, resource))
	res.Change("inventory", fmt.Sprintf("-%d %s", qty, resource))
	res.Change("abyss", fmt.Sprintf("%s %d/%d", resource, s.Abyss.Current[resource], s.Abyss.Required[resource]))
	e.maybeOpenAbyss(res)
	return res
}

// maybeOpenAbyss opens the gate when every requirement is met and operations
// allow it. The "open" override is handled by the background sweep so forced
// opens do not depend on someone contributing.
func (e *Engine) maybeOpenAbyss(res *world.Result) {
	s := e.deps.World
	if s.Abyss.IsOpen || e.deps.Config.Server.AbyssGateOverride != "auto" {
		return
	}
	if !s.Abyss.RequirementsMet() {
		return
	}
	s.Abyss.Open(s.Tick)
	res.Change("abyss", "THE GATE IS OPEN")
	ev := s.LogEvent("abyss_open",
		"The reef has paid its price. The Abyss yawns open, and something waits inside.",
		data.AbyssZone)
	e.deps.Events.Publish(ev)
}

// HandleAbyssStatus reports the gate ledger or, once open, the fight.
func HandleAbyssStatus(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	s := e.deps.World
	ab := s.Abyss

	if ab.IsOpen {
		remaining := ab.OpenedAtTick + ab.EventDuration - s.Tick
		return world.OK(fmt.Sprintf(
			"The Abyss is OPEN. The Null: %d/%d hp, phase %d. The window closes in %d ticks.",
			ab.NullHP, ab.NullMaxHP, ab.NullPhase, remaining))
	}

	names := make([]string, 0, len(ab.Required))
	for res := range ab.Required {
		names = append(names, res)
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString("The gate is sealed. It demands:")
	for _, res := range names {
		fmt.Fprintf(&b, " %s %d/%d;", res, ab.Current[res], ab.Required[res])
	}
	if c := ab.Contributions[a.ID]; c != nil {
		fmt.Fprintf(&b, " your ledger: %d shells", c.Shells)
		for res, qty := range c.Resources {
			fmt.Fprintf(&b, ", %d %s", qty, res)
		}
		b.WriteString(".")
	}
	return world.OK(b.String())
}
