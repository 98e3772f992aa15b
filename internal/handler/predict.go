package handler

import (
	"fmt"
	"strings"

	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/rules"
	"github.com/reefgo/server/internal/world"
)

// HandlePredict places a position on an open prediction market, or lists the
// markets taking bets. One position per agent per market; odds are locked at
// bet time into the recorded potential win.
func HandlePredict(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	s := e.deps.World
	if cmd.Target == "list" || cmd.Target == "" {
		return e.predictList()
	}

	m := s.Markets[cmd.Target]
	if m == nil {
		return world.Fail("No such market.")
	}
	if m.Resolved || (m.ExpiresAtTick > 0 && s.Tick >= m.ExpiresAtTick) {
		return world.Fail("That market is closed.")
	}
	if s.BetOf(m.ID, a.ID) != nil {
		return world.Fail("You already hold a position there.")
	}

	idx := cmd.Option
	if idx < 0 || idx >= len(m.Options) {
		return world.Fail(fmt.Sprintf("Pick an option: %s.", strings.Join(m.Options, ", ")))
	}
	amount := cmd.Amount
	if amount < data.MarketMinBet {
		return world.Fail(fmt.Sprintf("Minimum stake is %d shells.", data.MarketMinBet))
	}
	if a.Shells < amount {
		return world.Fail(fmt.Sprintf("You carry %d shells.", a.Shells))
	}

	a.AddShells(-amount)
	win := rules.PotentialWin(amount, m.Odds[idx])
	s.PlaceBet(&world.Bet{
		MarketID:     m.ID,
		AgentID:      a.ID,
		OptionIndex:  idx,
		Amount:       amount,
		PotentialWin: win,
	})

	res := world.OK(fmt.Sprintf("%d shells on %q. Pays %d if you called it.",
		amount, m.Options[idx], win))
	res.Change("shells", fmt.Sprintf("-%d", amount))
	res.Change("market", m.ID)
	return res
}

func (e *Engine) predictList() *world.Result {
	s := e.deps.World
	var b strings.Builder
	open := 0
	for _, m := range s.Markets {
		if m.Resolved || (m.ExpiresAtTick > 0 && s.Tick >= m.ExpiresAtTick) {
			continue
		}
		open++
		fmt.Fprintf(&b, " [%s] %s (", m.ID, m.Question)
		for i, o := range m.Options {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s @%.1fx", o, m.Odds[i])
		}
		fmt.Fprintf(&b, ") pool %d;", m.TotalPool)
	}
	if open == 0 {
		return world.OK("No markets are taking bets.")
	}
	return world.OK("Open markets:" + b.String())
}
