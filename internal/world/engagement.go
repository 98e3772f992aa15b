package world

import "time"

// Engagement is a pairwise PvP lock. Both participant ids resolve to the same
// record; either side may end it (kill, flee, inactivity forfeit).
type Engagement struct {
	AttackerID         string    `json:"attackerId"`
	DefenderID         string    `json:"defenderId"`
	Zone               string    `json:"zone"`
	AttackerLastAction time.Time `json:"attackerLastAction"`
	DefenderLastAction time.Time `json:"defenderLastAction"`
	StartedAt          time.Time `json:"startedAt"`
}

// Opponent returns the other side, or "" if the id is not a participant.
func (e *Engagement) Opponent(agentID string) string {
	switch agentID {
	case e.AttackerID:
		return e.DefenderID
	case e.DefenderID:
		return e.AttackerID
	}
	return ""
}

// Touch refreshes the participant's activity stamp.
func (e *Engagement) Touch(agentID string, now time.Time) {
	if agentID == e.AttackerID {
		e.AttackerLastAction = now
	} else if agentID == e.DefenderID {
		e.DefenderLastAction = now
	}
}

// LastAction returns the participant's activity stamp.
func (e *Engagement) LastAction(agentID string) time.Time {
	if agentID == e.AttackerID {
		return e.AttackerLastAction
	}
	return e.DefenderLastAction
}

// EngagementRegistry maintains the one-engagement-per-agent invariant with a
// central record set and a side index per participant.
type EngagementRegistry struct {
	byAgent map[string]*Engagement
}

func NewEngagementRegistry() *EngagementRegistry {
	return &EngagementRegistry{byAgent: make(map[string]*Engagement)}
}

func (r *EngagementRegistry) Of(agentID string) *Engagement {
	return r.byAgent[agentID]
}

// Start creates the pair lock. Fails if either side is already engaged.
func (r *EngagementRegistry) Start(attackerID, defenderID, zone string, now time.Time) *Engagement {
	if r.byAgent[attackerID] != nil || r.byAgent[defenderID] != nil {
		return nil
	}
	e := &Engagement{
		AttackerID:         attackerID,
		DefenderID:         defenderID,
		Zone:               zone,
		AttackerLastAction: now,
		DefenderLastAction: now,
		StartedAt:          now,
	}
	r.byAgent[attackerID] = e
	r.byAgent[defenderID] = e
	return e
}

// End removes both side entries for the agent's engagement.
func (r *EngagementRegistry) End(agentID string) {
	e := r.byAgent[agentID]
	if e == nil {
		return
	}
	delete(r.byAgent, e.AttackerID)
	delete(r.byAgent, e.DefenderID)
}

// All returns every engagement exactly once.
func (r *EngagementRegistry) All() []*Engagement {
	seen := make(map[*Engagement]bool)
	var out []*Engagement
	for _, e := range r.byAgent {
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}

// Restore re-indexes a loaded engagement (persistence only).
func (r *EngagementRegistry) Restore(e *Engagement) {
	r.byAgent[e.AttackerID] = e
	r.byAgent[e.DefenderID] = e
}
