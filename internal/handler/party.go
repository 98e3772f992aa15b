package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/world"
)

// HandleParty manages the grouping lifecycle: create, invite, accept, leave,
// status. Parties exist to run dungeons together.
func HandleParty(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	s := e.deps.World
	switch cmd.Target {
	case "create":
		p := s.Parties.Create(a.ID)
		if p == nil {
			return world.Fail("You are already in a party.")
		}
		res := world.OK("You raise a party banner. Invite up to three others.")
		res.Change("party", p.ID)
		return res

	case "invite":
		p := s.Parties.Of(a.ID)
		if p == nil {
			return world.Fail("You have no party. Create one first.")
		}
		if p.Leader != a.ID {
			return world.Fail("Only the party leader invites.")
		}
		if p.Status == world.PartyInDungeon {
			return world.Fail("No recruiting mid-dungeon.")
		}
		if len(p.Members) >= data.MaxPartySize {
			return world.Fail(fmt.Sprintf("Parties cap at %d.", data.MaxPartySize))
		}
		target := s.AgentByName(cmd.To)
		if target == nil {
			target = s.AgentByName(cmd.Item)
		}
		if target == nil {
			return world.Fail("Invite whom?")
		}
		if p.HasMember(target.ID) {
			return world.Fail(fmt.Sprintf("%s already swims with you.", target.Name))
		}
		s.Parties.Invite(p, target.ID, time.Now())
		s.AddMessage(world.Message{
			From:      a.ID,
			To:        target.ID,
			Type:      "dm",
			Body:      fmt.Sprintf("%s invites you to their party (expires in %ds).", a.Name, data.PartyInviteSec),
			CreatedAt: time.Now(),
		})
		return world.OK(fmt.Sprintf("Invitation sent to %s.", target.Name))

	case "accept":
		leader := s.AgentByName(cmd.To)
		if leader == nil {
			leader = s.AgentByName(cmd.Item)
		}
		if leader == nil {
			return world.Fail("Accept whose invitation?")
		}
		p := s.Parties.Of(leader.ID)
		if p == nil {
			return world.Fail(fmt.Sprintf("%s has no party anymore.", leader.Name))
		}
		// Standing next to a forming party is invitation enough.
		walkUp := p.Status == world.PartyForming && leader.Location == a.Location
		if !walkUp && !s.Parties.InviteValid(p, a.ID, time.Now()) {
			return world.Fail("That invitation has washed away.")
		}
		if !s.Parties.Join(p, a.ID) {
			return world.Fail("The party is full, or you are already in one.")
		}
		res := world.OK(fmt.Sprintf("You join %s's party (%d strong).", leader.Name, len(p.Members)))
		res.Change("party", p.ID)
		return res

	case "leave":
		p := s.Parties.Of(a.ID)
		if p == nil {
			return world.Fail("You are in no party.")
		}
		inDungeon := s.DungeonOf(p.ID)
		remaining := s.Parties.Leave(a.ID)
		if remaining == nil && inDungeon != nil {
			s.EndDungeon(p.ID)
		}
		return world.OK("You slip away from the party.")

	case "status", "":
		p := s.Parties.Of(a.ID)
		if p == nil {
			return world.Fail("You are in no party.")
		}
		var names []string
		for _, id := range p.Members {
			if m := s.Agent(id); m != nil {
				tag := m.Name
				if id == p.Leader {
					tag += " (leader)"
				}
				names = append(names, tag)
			}
		}
		return world.OK(fmt.Sprintf("Party [%s]: %s.", p.Status, strings.Join(names, ", ")))
	}
	return world.Fail("Party how? create, invite, accept, leave or status.")
}
