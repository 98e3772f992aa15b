package httpapi

import (
	"context"
	"net/http"
	"sort"

	"github.com/gorilla/mux"
	"github.com/reefgo/server/internal/world"
)

// agentView is the public projection of an agent. API key material never
// leaves the engine.
type agentView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Location   string `json:"location"`
	HP         int    `json:"hp"`
	MaxHP      int    `json:"maxHp"`
	Energy     int    `json:"energy"`
	MaxEnergy  int    `json:"maxEnergy"`
	Level      int    `json:"level"`
	XP         int    `json:"xp"`
	Shells     int    `json:"shells"`
	Reputation int    `json:"reputation"`
	Faction    string `json:"faction,omitempty"`
	IsAlive    bool   `json:"isAlive"`
	Deaths     int    `json:"deaths"`

	Weapon    string `json:"weapon,omitempty"`
	Armor     string `json:"armor,omitempty"`
	Accessory string `json:"accessory,omitempty"`
}

func newAgentView(a *world.Agent) *agentView {
	return &agentView{
		ID:         a.ID,
		Name:       a.Name,
		Location:   a.Location,
		HP:         a.HP,
		MaxHP:      a.MaxHP,
		Energy:     a.Energy,
		MaxEnergy:  a.MaxEnergy,
		Level:      a.Level,
		XP:         a.XP,
		Shells:     a.Shells,
		Reputation: a.Reputation,
		Faction:    a.Faction,
		IsAlive:    a.IsAlive,
		Deaths:     a.Deaths,
		Weapon:     a.Equipped.Weapon,
		Armor:      a.Equipped.Armor,
		Accessory:  a.Equipped.Accessory,
	}
}

type stackView struct {
	Resource string `json:"resource"`
	Quantity int    `json:"quantity"`
}

func stacksOf(inv map[string]int) []stackView {
	out := make([]stackView, 0, len(inv))
	for res, qty := range inv {
		out = append(out, stackView{Resource: res, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Resource < out[j].Resource })
	return out
}

func (s *Server) handleWorld(w http.ResponseWriter, r *http.Request) {
	var out map[string]any
	s.eng.View(func(st *world.State) {
		out = map[string]any{
			"tick":           st.Tick,
			"dayCycle":       st.DayCycle,
			"weather":        st.Weather,
			"agents":         st.AgentCount(),
			"aliveAgents":    st.AliveAgentCount(),
			"leviathanAlive": st.Leviathan.IsAlive,
			"abyssOpen":      st.Abyss.IsOpen,
		}
	})
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAgent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var view *agentView
	s.eng.View(func(st *world.State) {
		a := st.Agent(id)
		if a == nil {
			a = st.AgentByName(id)
		}
		if a != nil {
			view = newAgentView(a)
		}
	})
	if view == nil {
		s.writeError(w, http.StatusNotFound, "no such agent")
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleZone(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var out map[string]any
	s.eng.View(func(st *world.State) {
		nodes := st.ZoneResources(id)
		if nodes == nil {
			return
		}
		resources := make(map[string]int, len(nodes))
		for res, n := range nodes {
			resources[res] = n.Current
		}
		var agents []string
		for _, a := range st.AgentsInZone(id) {
			if !a.IsHidden {
				agents = append(agents, a.Name)
			}
		}
		sort.Strings(agents)
		out = map[string]any{
			"id":        id,
			"resources": resources,
			"agents":    agents,
		}
	})
	if out == nil {
		s.writeError(w, http.StatusNotFound, "no such zone")
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleBoss(w http.ResponseWriter, r *http.Request) {
	var out map[string]any
	s.eng.View(func(st *world.State) {
		lev := st.Leviathan
		out = map[string]any{
			"isAlive":       lev.IsAlive,
			"announced":     lev.Announced,
			"currentHp":     lev.CurrentHP,
			"maxHp":         lev.MaxHP,
			"participants":  len(lev.Participants),
			"totalDamage":   lev.TotalDamage(),
			"nextSpawnTick": lev.NextSpawnTick,
		}
	})
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAbyss(w http.ResponseWriter, r *http.Request) {
	var out map[string]any
	s.eng.View(func(st *world.State) {
		ab := st.Abyss
		gate := make(map[string]map[string]int, len(ab.Required))
		for res, need := range ab.Required {
			gate[res] = map[string]int{"current": ab.Current[res], "required": need}
		}
		out = map[string]any{
			"isOpen":       ab.IsOpen,
			"requirements": gate,
			"nullHp":       ab.NullHP,
			"nullMaxHp":    ab.NullMaxHP,
			"nullPhase":    ab.NullPhase,
			"participants": len(ab.Participants),
		}
	})
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleArena(w http.ResponseWriter, r *http.Request) {
	var out map[string]any
	s.eng.View(func(st *world.State) {
		active := 0
		for _, d := range st.Duels {
			if d.Status == world.DuelActive {
				active++
			}
		}
		out = map[string]any{
			"enabled":     s.cfg.Server.ArenaEnabled,
			"activeDuels": active,
		}
		if t := st.Tournament; t != nil {
			out["tournament"] = map[string]any{
				"id":           t.ID,
				"name":         t.Name,
				"status":       t.Status,
				"tier":         t.Tier,
				"participants": len(t.Participants),
				"prizePool":    t.PrizePool,
				"currentRound": t.CurrentRound,
				"totalRounds":  t.TotalRounds,
				"champion":     t.Champion,
			}
		}
	})
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSeason(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), seasonTimeout)
	defer cancel()
	info, err := s.treasury.SeasonInfo(ctx)
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "season unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	var events []world.WorldEvent
	s.eng.View(func(st *world.State) {
		events = st.RecentEvents(50)
	})
	s.writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	type row struct {
		Name       string `json:"name"`
		Level      int    `json:"level"`
		XP         int    `json:"xp"`
		Shells     int    `json:"shells"`
		Reputation int    `json:"reputation"`
	}
	var rows []row
	s.eng.View(func(st *world.State) {
		st.AllAgents(func(a *world.Agent) {
			rows = append(rows, row{
				Name:       a.Name,
				Level:      a.Level,
				XP:         a.XP,
				Shells:     a.Shells,
				Reputation: a.Reputation,
			})
		})
	})
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].XP != rows[j].XP {
			return rows[i].XP > rows[j].XP
		}
		return rows[i].Name < rows[j].Name
	})
	if len(rows) > 20 {
		rows = rows[:20]
	}
	s.writeJSON(w, http.StatusOK, rows)
}
