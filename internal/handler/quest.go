package handler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/reefgo/server/internal/rules"
	"github.com/reefgo/server/internal/world"
)

// HandleQuest runs the turn-in board: accept, complete, list. Quests are
// repeatable resource sinks; completing one hands the materials over.
func HandleQuest(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	s := e.deps.World
	switch cmd.Target {
	case "accept":
		q := e.deps.Catalog.Quests.Get(cmd.Item)
		if q == nil {
			return world.Fail(fmt.Sprintf("The board lists no quest %q.", cmd.Item))
		}
		for _, id := range s.Quests[a.ID] {
			if id == q.ID {
				return world.Fail("You already carry that contract.")
			}
		}
		s.Quests[a.ID] = append(s.Quests[a.ID], q.ID)
		res := world.OK(fmt.Sprintf("Contract taken: %s. Bring %s.", q.Name, questNeeds(q.Requires)))
		res.Change("quest", q.ID)
		return res

	case "complete":
		q := e.deps.Catalog.Quests.Get(cmd.Item)
		if q == nil {
			return world.Fail(fmt.Sprintf("The board lists no quest %q.", cmd.Item))
		}
		accepted := -1
		for i, id := range s.Quests[a.ID] {
			if id == q.ID {
				accepted = i
				break
			}
		}
		if accepted < 0 {
			return world.Fail("You never took that contract.")
		}
		for res, qty := range q.Requires {
			if !s.HasInInventory(a.ID, res, qty) {
				return world.Fail(fmt.Sprintf("The contract wants %s.", questNeeds(q.Requires)))
			}
		}
		for res, qty := range q.Requires {
			s.RemoveFromInventory(a.ID, res, qty)
		}
		s.Quests[a.ID] = append(s.Quests[a.ID][:accepted], s.Quests[a.ID][accepted+1:]...)

		shells := rules.GrantShells(a, q.RewardShells, e.deps.Catalog.Factions)
		xp, _ := rules.GrantXP(a, q.RewardXP, e.deps.Catalog.Factions)
		res := world.OK(fmt.Sprintf("Contract fulfilled: %s.", q.Name))
		res.Change("shells", fmt.Sprintf("+%d", shells))
		res.Change("xp", fmt.Sprintf("+%d", xp))
		for item, qty := range q.RewardItems {
			s.AddToInventory(a, item, qty)
			res.Change("inventory", fmt.Sprintf("+%d %s", qty, item))
		}
		return res

	case "list", "":
		var b strings.Builder
		b.WriteString("The board offers:")
		for _, id := range e.deps.Catalog.Quests.IDs() {
			q := e.deps.Catalog.Quests.Get(id)
			taken := ""
			for _, have := range s.Quests[a.ID] {
				if have == id {
					taken = " (taken)"
				}
			}
			fmt.Fprintf(&b, " [%s] %s: %s for %d shells, %d xp%s;",
				q.ID, q.Name, questNeeds(q.Requires), q.RewardShells, q.RewardXP, taken)
		}
		return world.OK(b.String())
	}
	return world.Fail("Quest how? accept, complete or list.")
}

func questNeeds(requires map[string]int) string {
	names := make([]string, 0, len(requires))
	for res := range requires {
		names = append(names, res)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, res := range names {
		parts = append(parts, fmt.Sprintf("%d %s", requires[res], res))
	}
	return strings.Join(parts, " and ")
}
