package handler

import (
	"fmt"
	"time"

	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/rules"
	"github.com/reefgo/server/internal/world"
	"github.com/google/uuid"
)

// HandleDuel manages wagered arena fights: challenge, accept, decline, status.
func HandleDuel(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	if !e.deps.Config.Server.ArenaEnabled {
		return world.Fail("The arena is closed for the season.")
	}
	switch cmd.Target {
	case "challenge":
		return e.duelChallenge(a, cmd)
	case "accept":
		return e.duelAccept(a)
	case "decline":
		return e.duelDecline(a)
	case "status", "":
		return e.duelStatus(a)
	}
	return world.Fail("Duel how? challenge, accept, decline or status.")
}

func (e *Engine) duelChallenge(a *world.Agent, cmd *Command) *world.Result {
	s := e.deps.World
	if s.DuelOf(a.ID) != nil {
		return world.Fail("You already have a duel on your hands.")
	}
	opp := s.AgentByName(cmd.To)
	if opp == nil {
		opp = s.AgentByName(cmd.Item)
	}
	if opp == nil {
		return world.Fail("Challenge whom?")
	}
	if opp.ID == a.ID {
		return world.Fail("You cannot duel your own reflection.")
	}
	if !opp.IsAlive || opp.Location != a.Location {
		return world.Fail(fmt.Sprintf("%s is not here to answer you.", opp.Name))
	}
	if s.DuelOf(opp.ID) != nil {
		return world.Fail(fmt.Sprintf("%s is already spoken for.", opp.Name))
	}
	wager := cmd.Amount
	if wager <= 0 {
		return world.Fail("A duel needs a wager.")
	}
	if a.Shells < wager {
		return world.Fail(fmt.Sprintf("You cannot back a %d-shell wager with %d shells.", wager, a.Shells))
	}

	d := &world.Duel{
		ID:          uuid.NewString(),
		Challenger:  a.ID,
		Opponent:    opp.ID,
		Wager:       wager,
		Status:      world.DuelPending,
		MaxHP:       data.DuelMaxHP,
		Bets:        make(map[string]*world.DuelBet),
		CreatedTick: s.Tick,
	}
	s.Duels[d.ID] = d
	s.AddMessage(world.Message{
		From:      a.ID,
		To:        opp.ID,
		Type:      "dm",
		Body:      fmt.Sprintf("%s challenges you to a duel for %d shells. duel accept, or duel decline.", a.Name, wager),
		CreatedAt: time.Now(),
	})
	res := world.OK(fmt.Sprintf("You throw down before %s: %d shells on the line.", opp.Name, wager))
	res.Change("duel", d.ID)
	return res
}

// duelAccept escrows both wagers and starts the fight. Challenger strikes
// first.
func (e *Engine) duelAccept(a *world.Agent) *world.Result {
	s := e.deps.World
	d := s.DuelOf(a.ID)
	if d == nil || d.Status != world.DuelPending || d.Opponent != a.ID {
		return world.Fail("No challenge awaits your answer.")
	}
	ch := s.Agent(d.Challenger)
	if ch == nil || !ch.IsAlive {
		d.Status = world.DuelFinished
		return world.Fail("Your challenger is in no state to fight.")
	}
	if a.Shells < d.Wager {
		return world.Fail(fmt.Sprintf("You cannot cover the %d-shell wager.", d.Wager))
	}
	if ch.Shells < d.Wager {
		d.Status = world.DuelFinished
		return world.Fail(fmt.Sprintf("%s can no longer cover the wager. The duel is off.", ch.Name))
	}

	a.AddShells(-d.Wager)
	ch.AddShells(-d.Wager)
	d.Status = world.DuelActive
	d.ChallengerHP = d.MaxHP
	d.OpponentHP = d.MaxHP
	d.Turn = d.Challenger

	ev := s.LogEvent("duel_start",
		fmt.Sprintf("%s and %s square off for %d shells.", ch.Name, a.Name, d.Wager),
		a.Location, ch.ID, a.ID)
	e.deps.Events.Publish(ev)

	res := world.OK(fmt.Sprintf("The wagers are down. %s strikes first.", ch.Name))
	res.Change("shells", fmt.Sprintf("-%d escrowed", d.Wager))
	return res
}

func (e *Engine) duelDecline(a *world.Agent) *world.Result {
	s := e.deps.World
	d := s.DuelOf(a.ID)
	if d == nil || d.Status != world.DuelPending || d.Opponent != a.ID {
		return world.Fail("No challenge awaits your answer.")
	}
	d.Status = world.DuelFinished
	return world.OK("You wave the challenge away.")
}

func (e *Engine) duelStatus(a *world.Agent) *world.Result {
	s := e.deps.World
	d := s.DuelOf(a.ID)
	if d == nil {
		return world.Fail("You have no duel going.")
	}
	ch, opp := s.Agent(d.Challenger), s.Agent(d.Opponent)
	if d.Status == world.DuelPending {
		return world.OK(fmt.Sprintf("Pending: %s challenged %s for %d shells.", ch.Name, opp.Name, d.Wager))
	}
	turn := ch.Name
	if d.Turn == d.Opponent {
		turn = opp.Name
	}
	return world.OK(fmt.Sprintf("%s %d hp vs %s %d hp. %s to strike. Pot: %d shells.",
		ch.Name, d.ChallengerHP, opp.Name, d.OpponentHP, turn, d.Wager*2))
}

// HandleStrike lands one arena blow. Turns alternate; first to zero loses.
func HandleStrike(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	if !e.deps.Config.Server.ArenaEnabled {
		return world.Fail("The arena is closed for the season.")
	}
	s := e.deps.World
	d := s.DuelOf(a.ID)
	if d == nil || d.Status != world.DuelActive {
		return world.Fail("You have no active duel.")
	}
	if d.Turn != a.ID {
		return world.Fail("Not your turn. Hold your strike.")
	}

	roll := data.BasePlayerDamage + e.deps.Dice.Intn(11)
	dmg := rules.CalculateDamage(a, roll, e.deps.Catalog.Items, e.deps.Catalog.Factions, e.deps.Dice)

	oppID := d.OpponentOf(a.ID)
	opp := s.Agent(oppID)
	var hp int
	if oppID == d.Challenger {
		d.ChallengerHP -= dmg.Damage
		if d.ChallengerHP < 0 {
			d.ChallengerHP = 0
		}
		hp = d.ChallengerHP
	} else {
		d.OpponentHP -= dmg.Damage
		if d.OpponentHP < 0 {
			d.OpponentHP = 0
		}
		hp = d.OpponentHP
	}

	if hp == 0 {
		return e.settleDuel(d, a, opp)
	}
	d.Turn = oppID
	hit := "You land a blow"
	if dmg.IsCrit {
		hit = "You land a crushing blow"
	}
	res := world.OK(fmt.Sprintf("%s for %d. %s stands at %d hp.", hit, dmg.Damage, opp.Name, hp))
	res.Change("duel", fmt.Sprintf("%d damage", dmg.Damage))
	return res
}

// HandleYield concedes the active duel.
func HandleYield(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	if !e.deps.Config.Server.ArenaEnabled {
		return world.Fail("The arena is closed for the season.")
	}
	s := e.deps.World
	d := s.DuelOf(a.ID)
	if d == nil || d.Status != world.DuelActive {
		return world.Fail("You have no active duel.")
	}
	winner := s.Agent(d.OpponentOf(a.ID))
	res := e.settleDuel(d, winner, a)
	res.Narrative = fmt.Sprintf("You yield. %s takes the pot.", winner.Name)
	return res
}

// settleDuel pays the winner double the wager and settles spectator bets at
// the spectator multiplier. Arena duels never kill.
func (e *Engine) settleDuel(d *world.Duel, winner, loser *world.Agent) *world.Result {
	s := e.deps.World
	d.Status = world.DuelFinished
	d.Winner = winner.ID

	pot := d.Wager * 2
	winner.AddShells(pot)
	for bettorID, b := range d.Bets {
		if b.OnAgent != winner.ID {
			continue
		}
		if bettor := s.Agent(bettorID); bettor != nil {
			bettor.AddShells(b.Amount * data.SpectatorBetMultiplier)
		}
	}

	ev := s.LogEvent("duel_finish",
		fmt.Sprintf("%s defeats %s in the arena and takes %d shells.", winner.Name, loser.Name, pot),
		winner.Location, winner.ID, loser.ID)
	e.deps.Events.Publish(ev)

	res := world.OK(fmt.Sprintf("%s falls. You take the pot: %d shells.", loser.Name, pot))
	res.Change("shells", fmt.Sprintf("+%d", pot))
	res.Change("duel", "won")
	return res
}

// HandleBet places a spectator wager on one side of an active duel.
func HandleBet(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	if !e.deps.Config.Server.ArenaEnabled {
		return world.Fail("The arena is closed for the season.")
	}
	s := e.deps.World
	name := cmd.To
	if name == "" {
		name = cmd.Target
	}
	fighter := s.AgentByName(name)
	if fighter == nil {
		return world.Fail("Back whom?")
	}
	d := s.DuelOf(fighter.ID)
	if d == nil || d.Status != world.DuelActive {
		return world.Fail(fmt.Sprintf("%s is not fighting anyone right now.", fighter.Name))
	}
	if d.IsParticipant(a.ID) {
		return world.Fail("Fighters bet with their hides, not their shells.")
	}
	if d.Bets[a.ID] != nil {
		return world.Fail("You already have shells on this fight.")
	}
	amount := cmd.Amount
	if amount <= 0 {
		return world.Fail("Bet how much?")
	}
	if a.Shells < amount {
		return world.Fail(fmt.Sprintf("You carry %d shells.", a.Shells))
	}

	a.AddShells(-amount)
	d.Bets[a.ID] = &world.DuelBet{OnAgent: fighter.ID, Amount: amount}

	res := world.OK(fmt.Sprintf("You put %d shells on %s. Pays %dx if they win.",
		amount, fighter.Name, data.SpectatorBetMultiplier))
	res.Change("shells", fmt.Sprintf("-%d", amount))
	return res
}
