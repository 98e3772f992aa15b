package handler

import (
	"fmt"
	"strings"

	"github.com/reefgo/server/internal/rules"
	"github.com/reefgo/server/internal/world"
)

// factionMinLevel gates affiliation; the choice is permanent.
const factionMinLevel = 5

// HandleFaction joins a faction, or lists them when no choice is given.
func HandleFaction(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	factions := e.deps.Catalog.Factions
	id := cmd.Item
	if id == "" {
		id = cmd.Target
	}
	if id == "" || id == "list" {
		var b strings.Builder
		b.WriteString("The currents run under three banners:")
		for _, fid := range factions.IDs() {
			f := factions.Get(fid)
			fmt.Fprintf(&b, " [%s] %s;", f.ID, f.Name)
		}
		return world.OK(b.String())
	}

	if a.Faction != "" {
		return world.Fail("You swore once already. The reef does not forget oaths.")
	}
	if a.Level < factionMinLevel {
		return world.Fail(fmt.Sprintf("The banners take no one under level %d.", factionMinLevel))
	}
	f := factions.Get(id)
	if f == nil {
		return world.Fail(fmt.Sprintf("No banner called %q flies here.", id))
	}

	a.Faction = f.ID
	rules.ApplyFactionStats(a, f)

	s := e.deps.World
	ev := s.LogEvent("faction_join",
		fmt.Sprintf("%s has sworn to %s.", a.Name, f.Name), a.Location, a.ID)
	e.deps.Events.Publish(ev)

	res := world.OK(fmt.Sprintf("You swear to %s. There is no unswearing.", f.Name))
	res.Change("faction", f.ID)
	if f.MaxHPBonus > 0 {
		res.Change("hp", fmt.Sprintf("max +%d", f.MaxHPBonus))
	}
	return res
}
