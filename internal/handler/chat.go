package handler

import (
	"fmt"
	"time"

	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/rules"
	"github.com/reefgo/server/internal/world"
)

// HandleSay speaks to everyone in the zone.
func HandleSay(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	if cmd.Message == "" {
		return world.Fail("Say what?")
	}
	s := e.deps.World
	s.AddMessage(world.Message{
		From:      a.ID,
		Zone:      a.Location,
		Type:      "broadcast",
		Body:      fmt.Sprintf("%s: %s", a.Name, cmd.Message),
		CreatedAt: time.Now(),
	})
	return world.OK(fmt.Sprintf("You say: %s", cmd.Message))
}

// HandleBroadcast shouts across the whole reef. Cooldown-gated, and the first
// few a day pay a little XP to reward signal over spam.
func HandleBroadcast(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	if cmd.Message == "" {
		return world.Fail("Broadcast what?")
	}
	s := e.deps.World
	now := time.Now()
	if cooling, left := s.Cooldowns.OnCooldown(a.ID, world.CooldownBroadcast, now); cooling {
		return world.Fail(fmt.Sprintf("The currents are still carrying your last shout (%ds).",
			int(left.Seconds())+1))
	}
	s.Cooldowns.StartCooldown(a.ID, world.CooldownBroadcast, now, data.BroadcastCooldownSec*time.Second)

	s.AddMessage(world.Message{
		From:      a.ID,
		Type:      "broadcast",
		Body:      fmt.Sprintf("[reef-wide] %s: %s", a.Name, cmd.Message),
		CreatedAt: now,
	})
	res := world.OK("Your voice rolls out across the whole reef.")

	if s.Cooldowns.DailyCount(a.ID, world.CounterBroadcast, now) < data.BroadcastDailyCap/data.BroadcastXP {
		s.Cooldowns.IncrDaily(a.ID, world.CounterBroadcast, now)
		gained, _ := rules.GrantXP(a, data.BroadcastXP, e.deps.Catalog.Factions)
		res.Change("xp", fmt.Sprintf("+%d", gained))
	}
	return res
}

// HandleDM whispers to a named agent anywhere in the world.
func HandleDM(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	if cmd.Message == "" {
		return world.Fail("Whisper what?")
	}
	name := cmd.To
	if name == "" {
		name = cmd.Target
	}
	s := e.deps.World
	target := s.AgentByName(name)
	if target == nil {
		return world.Fail(fmt.Sprintf("No one called %q swims these waters.", name))
	}
	if target.ID == a.ID {
		return world.Fail("Talking to yourself again.")
	}
	s.AddMessage(world.Message{
		From:      a.ID,
		To:        target.ID,
		Type:      "dm",
		Body:      fmt.Sprintf("%s whispers: %s", a.Name, cmd.Message),
		CreatedAt: time.Now(),
	})
	return world.OK(fmt.Sprintf("You whisper to %s.", target.Name))
}
