package world

// Encounter is a single-agent PvE combat slot. At most one per agent; while
// it is live the router only admits attack / flee / look.
type Encounter struct {
	AgentID   string
	MobID     string
	MobName   string
	MobLevel  int
	MobHP     int
	MobMaxHP  int
	MobDamage int
	MobXP     int
	MobShells int
	Zone      string

	// IsResourceGuardian distinguishes a gather interrupt from a travel
	// ambush. Guardian kills suppress refights for a grace window.
	IsResourceGuardian bool
	GuardedResource    string

	// PendingDestination is set on travel ambushes: the move completes only
	// if the mob dies.
	PendingDestination string
}

// StartEncounter registers the slot. Returns false if one is already live.
func (s *State) StartEncounter(e *Encounter) bool {
	if _, busy := s.Encounters[e.AgentID]; busy {
		return false
	}
	s.Encounters[e.AgentID] = e
	return true
}

func (s *State) EncounterOf(agentID string) *Encounter {
	return s.Encounters[agentID]
}

func (s *State) EndEncounter(agentID string) {
	delete(s.Encounters, agentID)
}
