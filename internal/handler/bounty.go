package handler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/reefgo/server/internal/world"
)

// HandleBounty reads the bounty board, or with a target and amount puts shells
// on someone's head. Pools stack across sponsors and pay whoever lands the
// kill.
func HandleBounty(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	s := e.deps.World

	name := strings.TrimPrefix(cmd.Target, "@")
	if name == "" {
		return bountyBoard(s)
	}

	target := s.AgentByName(name)
	if target == nil {
		return world.Fail(fmt.Sprintf("No one called %q swims these waters.", name))
	}
	if target.ID == a.ID {
		return world.Fail("Putting a price on your own head helps no one.")
	}
	amount := cmd.Amount
	if amount <= 0 {
		return world.Fail("Name a sum. The board deals in shells, not grudges.")
	}
	if a.Shells < amount {
		return world.Fail(fmt.Sprintf("You carry %d shells; the bounty needs %d.", a.Shells, amount))
	}

	a.AddShells(-amount)
	s.Bounties[target.ID] += amount
	pool := s.Bounties[target.ID]

	ev := s.LogEvent("bounty_posted",
		fmt.Sprintf("A bounty on %s climbs to %d shells.", target.Name, pool),
		"", target.ID)
	e.deps.Events.Publish(ev)

	res := world.OK(fmt.Sprintf("The board takes your shells. %s is worth %d to whoever finishes them.",
		target.Name, pool))
	res.Change("shells", fmt.Sprintf("-%d", amount))
	res.Change("bounty", fmt.Sprintf("%s at %d", target.Name, pool))
	return res
}

// bountyBoard lists open bounties, richest first.
func bountyBoard(s *world.State) *world.Result {
	type row struct {
		name string
		pool int
	}
	var rows []row
	for id, pool := range s.Bounties {
		if pool <= 0 {
			continue
		}
		if t := s.Agent(id); t != nil {
			rows = append(rows, row{t.Name, pool})
		}
	}
	if len(rows) == 0 {
		return world.OK("The bounty board hangs empty. A peaceful reef, for now.")
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].pool != rows[j].pool {
			return rows[i].pool > rows[j].pool
		}
		return rows[i].name < rows[j].name
	})
	var b strings.Builder
	b.WriteString("The bounty board:")
	for _, r := range rows {
		fmt.Fprintf(&b, " %s (%d shells);", r.name, r.pool)
	}
	return world.OK(strings.TrimSuffix(b.String(), ";") + ".")
}

// claimBounty pays the pool on the loser's head, if any.
func (e *Engine) claimBounty(winner, loser *world.Agent, res *world.Result) {
	s := e.deps.World
	pool := s.Bounties[loser.ID]
	if pool <= 0 {
		return
	}
	delete(s.Bounties, loser.ID)
	winner.AddShells(pool)

	ev := s.LogEvent("bounty_claimed",
		fmt.Sprintf("%s collected the %d shell bounty on %s.", winner.Name, pool, loser.Name),
		winner.Location, winner.ID, loser.ID)
	e.deps.Events.Publish(ev)
	res.Change("bounty", fmt.Sprintf("+%d shells claimed", pool))
}
