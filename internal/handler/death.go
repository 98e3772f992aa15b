package handler

import (
	"fmt"

	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/rules"
	"github.com/reefgo/server/internal/world"
)

// killAgent processes a death: shell penalty, combat slots cleared, the agent
// soft-disabled until it rests. The tide carries the body back to the
// shallows; a dead agent is never anywhere else.
func (e *Engine) killAgent(a *world.Agent, cause string, res *world.Result) {
	s := e.deps.World

	a.IsAlive = false
	a.HP = 0
	a.Deaths++

	penalty := rules.DeathPenalty(a.Shells)
	lost := -a.AddShells(-penalty)

	s.EndEncounter(a.ID)
	s.Engagements.End(a.ID)

	ev := s.LogEvent("death",
		fmt.Sprintf("%s was slain by %s in %s.", a.Name, cause, a.Location),
		a.Location, a.ID)
	e.deps.Events.Publish(ev)
	e.deps.Metrics.Deaths.Inc()

	a.Location = data.StartZone

	res.Change("death", fmt.Sprintf("slain by %s, %d shells lost", cause, lost))
}
