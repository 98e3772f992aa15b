package handler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/reefgo/server/internal/rules"
	"github.com/reefgo/server/internal/world"
)

// HandleStatus reports the agent's sheet: vitals, progression, equipment,
// faction, standing and any live fight.
func HandleStatus(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	s := e.deps.World
	var b strings.Builder
	fmt.Fprintf(&b, "%s — level %d (%d/%d xp to next).",
		a.Name, a.Level, a.XP, rules.XPForLevel(a.Level+1))
	fmt.Fprintf(&b, " HP %d/%d, energy %d/%d, %d shells, %d reputation.",
		a.HP, a.MaxHP, a.Energy, a.MaxEnergy, a.Shells, a.Reputation)
	fmt.Fprintf(&b, " In %s.", a.Location)

	if a.Faction != "" {
		if f := e.deps.Catalog.Factions.Get(a.Faction); f != nil {
			fmt.Fprintf(&b, " Sworn to %s.", f.Name)
		}
	}
	var gear []string
	for _, slot := range []string{"weapon", "armor", "accessory"} {
		if id := a.Equipped.Get(slot); id != "" {
			gear = append(gear, fmt.Sprintf("%s: %s", slot, id))
		}
	}
	if len(gear) > 0 {
		fmt.Fprintf(&b, " Equipped — %s.", strings.Join(gear, ", "))
	}
	if a.PvPFlagged(s.Tick) {
		fmt.Fprintf(&b, " PvP-flagged for %d more ticks.", a.PvPFlaggedUntil-s.Tick)
	}
	if enc := s.EncounterOf(a.ID); enc != nil {
		fmt.Fprintf(&b, " Fighting a %s (%d/%d hp).", enc.MobName, enc.MobHP, enc.MobMaxHP)
	}
	if eng := s.Engagements.Of(a.ID); eng != nil {
		if opp := s.Agent(eng.Opponent(a.ID)); opp != nil {
			fmt.Fprintf(&b, " Engaged against %s.", opp.Name)
		}
	}
	if p := s.Parties.Of(a.ID); p != nil {
		fmt.Fprintf(&b, " In a party of %d.", len(p.Members))
	}
	return world.OK(b.String())
}

// HandleInventory lists carried and vaulted stacks with slot usage.
func HandleInventory(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	s := e.deps.World
	var b strings.Builder
	fmt.Fprintf(&b, "Satchel %d/%d:", s.InventoryCount(a.ID), a.InventorySlots)
	b.WriteString(formatStacks(s.InventoryOf(a.ID)))
	fmt.Fprintf(&b, " Vault %d/%d:", s.VaultCount(a.ID), a.VaultSlots)
	b.WriteString(formatStacks(s.VaultOf(a.ID)))
	return world.OK(b.String())
}

func formatStacks(stacks map[string]int) string {
	if len(stacks) == 0 {
		return " empty."
	}
	keys := make([]string, 0, len(stacks))
	for k := range stacks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%d %s", stacks[k], k))
	}
	return " " + strings.Join(parts, ", ") + "."
}
