package handler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/reefgo/server/internal/world"
)

// HandleLook describes the agent's zone: ambience, resources, visible agents,
// exits, and any live encounter.
func HandleLook(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	s := e.deps.World
	z := e.deps.Catalog.Zones.Get(a.Location)
	if z == nil {
		return world.Fail("You are nowhere at all. This should not happen.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s — %s", z.Name, z.Description)
	fmt.Fprintf(&b, " It is %s, the water %s.", s.DayCycle, s.Weather)

	if enc := s.EncounterOf(a.ID); enc != nil {
		fmt.Fprintf(&b, " A %s circles you (%d/%d hp).", enc.MobName, enc.MobHP, enc.MobMaxHP)
	}

	if nodes := s.ZoneResources(a.Location); len(nodes) > 0 {
		names := make([]string, 0, len(nodes))
		for name, n := range nodes {
			names = append(names, fmt.Sprintf("%s (%d)", name, n.Current))
		}
		sort.Strings(names)
		fmt.Fprintf(&b, " Resources: %s.", strings.Join(names, ", "))
	}

	var others []string
	for _, other := range s.AgentsInZone(a.Location) {
		if other.ID != a.ID && !other.IsHidden {
			others = append(others, other.Name)
		}
	}
	if len(others) > 0 {
		sort.Strings(others)
		fmt.Fprintf(&b, " Also here: %s.", strings.Join(others, ", "))
	}

	if len(z.Connections) > 0 {
		fmt.Fprintf(&b, " Exits: %s.", strings.Join(z.Connections, ", "))
	}

	return world.OK(b.String())
}
