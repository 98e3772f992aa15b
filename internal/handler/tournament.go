package handler

import (
	"fmt"

	"github.com/reefgo/server/internal/world"
)

// HandleTournament covers the agent-facing side of tournaments: register and
// status. The bracket itself is driven by the background runner.
func HandleTournament(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	if !e.deps.Config.Server.ArenaEnabled {
		return world.Fail("The arena is closed for the season.")
	}
	s := e.deps.World
	t := s.Tournament

	switch cmd.Target {
	case "register":
		if t == nil || t.Status != world.TournamentRegistration {
			return world.Fail("No tournament is taking names right now.")
		}
		if s.Tick >= t.RegistrationDeadline {
			return world.Fail("Registration has closed.")
		}
		if t.IsRegistered(a.ID) {
			return world.Fail("Your name is already on the roster.")
		}
		if a.Shells < t.EntryFee {
			return world.Fail(fmt.Sprintf("Entry costs %d shells; you carry %d.", t.EntryFee, a.Shells))
		}
		a.AddShells(-t.EntryFee)
		t.PrizePool += t.EntryFee
		t.Participants = append(t.Participants, a.ID)

		res := world.OK(fmt.Sprintf("You are in. %d registered; the pot stands at %d shells.",
			len(t.Participants), t.PrizePool))
		res.Change("shells", fmt.Sprintf("-%d", t.EntryFee))
		res.Change("tournament", t.ID)
		return res

	case "status", "":
		if t == nil {
			return world.Fail("No tournament, running or forming.")
		}
		switch t.Status {
		case world.TournamentRegistration:
			return world.OK(fmt.Sprintf(
				"%s: registration open, %d entered, pot %d shells. Closes at tick %d.",
				t.Name, len(t.Participants), t.PrizePool, t.RegistrationDeadline))
		case world.TournamentActive:
			mine := ""
			for _, m := range t.Matches(t.CurrentRound) {
				if m.Status != world.MatchFinished && (m.Agent1 == a.ID || m.Agent2 == a.ID) {
					oppID := m.Agent1
					if oppID == a.ID {
						oppID = m.Agent2
					}
					if opp := s.Agent(oppID); opp != nil {
						mine = fmt.Sprintf(" Your match: vs %s.", opp.Name)
					}
				}
			}
			return world.OK(fmt.Sprintf(
				"%s (%s tier): round %d of %d, %d matches decided.%s",
				t.Name, t.Tier, t.CurrentRound, t.TotalRounds, t.FinishedMatches(), mine))
		default:
			champ := t.Champion
			if c := s.Agent(t.Champion); c != nil {
				champ = c.Name
			}
			return world.OK(fmt.Sprintf("%s is over. Champion: %s.", t.Name, champ))
		}
	}
	return world.Fail("Tournament how? register or status.")
}
