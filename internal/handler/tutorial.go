package handler

import "github.com/reefgo/server/internal/world"

// firstUseHints are shown once per agent, the first time a verb succeeds.
var firstUseHints = map[string]string{
	"look":   "Hint: move <zone> follows an exit; gather <resource> works any node you can see.",
	"move":   "Hint: visiting a zone unlocks fast travel back to it. Deep zones crush the unprepared.",
	"gather": "Hint: rare nodes flag you for PvP. Craft at any time with craft <recipe>.",
	"attack": "Hint: flee works every time against creatures, at the cost of a parting blow.",
	"rest":   "Hint: rest fully restores you, once a minute. Death sends you back to the shallows.",
	"buy":    "Hint: the shop features one discounted item each hour while its stock lasts.",
	"party":  "Hint: a party of two or more can enter a dungeon with dungeon enter.",
}

// appendHint attaches the verb's one-time hint to a successful result.
func (e *Engine) appendHint(a *world.Agent, verb string, res *world.Result) {
	hint, ok := firstUseHints[verb]
	if !ok {
		return
	}
	s := e.deps.World
	seen := s.Tutorial[a.ID]
	if seen == nil {
		seen = make(map[string]bool)
		s.Tutorial[a.ID] = seen
	}
	if seen[verb] {
		return
	}
	seen[verb] = true
	res.Change("hint", hint)
}
