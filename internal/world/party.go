package world

import (
	"time"

	"github.com/google/uuid"
	"github.com/reefgo/server/internal/data"
)

type PartyStatus string

const (
	PartyForming   PartyStatus = "forming"
	PartyInDungeon PartyStatus = "in_dungeon"
	PartyDisbanded PartyStatus = "disbanded"
)

// Party groups 1..4 agents. Invites expire lazily at read/accept time.
type Party struct {
	ID      string               `json:"id"`
	Leader  string               `json:"leaderId"`
	Members []string             `json:"members"`
	Invites map[string]time.Time `json:"invites"` // agent id → expiry
	Status  PartyStatus          `json:"status"`
}

func (p *Party) HasMember(agentID string) bool {
	for _, m := range p.Members {
		if m == agentID {
			return true
		}
	}
	return false
}

// PartyManager owns every party plus the agent→party reverse index.
type PartyManager struct {
	parties map[string]*Party
	byAgent map[string]string // agent id → party id
}

func NewPartyManager() *PartyManager {
	return &PartyManager{
		parties: make(map[string]*Party),
		byAgent: make(map[string]string),
	}
}

func (m *PartyManager) Get(partyID string) *Party { return m.parties[partyID] }

func (m *PartyManager) Of(agentID string) *Party {
	pid, ok := m.byAgent[agentID]
	if !ok {
		return nil
	}
	return m.parties[pid]
}

// Create starts a forming party led by the agent. Fails if already partied.
func (m *PartyManager) Create(leaderID string) *Party {
	if m.byAgent[leaderID] != "" {
		return nil
	}
	p := &Party{
		ID:      uuid.NewString(),
		Leader:  leaderID,
		Members: []string{leaderID},
		Invites: make(map[string]time.Time),
		Status:  PartyForming,
	}
	m.parties[p.ID] = p
	m.byAgent[leaderID] = p.ID
	return p
}

// Invite records an invitation expiring after the invite window.
func (m *PartyManager) Invite(p *Party, agentID string, now time.Time) {
	p.Invites[agentID] = now.Add(data.PartyInviteSec * time.Second)
}

// InviteValid evaluates expiry lazily and prunes a stale entry.
func (m *PartyManager) InviteValid(p *Party, agentID string, now time.Time) bool {
	exp, ok := p.Invites[agentID]
	if !ok {
		return false
	}
	if now.After(exp) {
		delete(p.Invites, agentID)
		return false
	}
	return true
}

// Join adds a member. Fails when full, disbanded, or agent already partied.
func (m *PartyManager) Join(p *Party, agentID string) bool {
	if p.Status == PartyDisbanded || len(p.Members) >= data.MaxPartySize {
		return false
	}
	if m.byAgent[agentID] != "" {
		return false
	}
	p.Members = append(p.Members, agentID)
	m.byAgent[agentID] = p.ID
	delete(p.Invites, agentID)
	return true
}

// Leave removes the member; leadership passes to the first remaining member;
// an emptied party is deleted. Returns the party (nil once deleted).
func (m *PartyManager) Leave(agentID string) *Party {
	p := m.Of(agentID)
	if p == nil {
		return nil
	}
	delete(m.byAgent, agentID)
	for i, id := range p.Members {
		if id == agentID {
			p.Members = append(p.Members[:i], p.Members[i+1:]...)
			break
		}
	}
	if len(p.Members) == 0 {
		p.Status = PartyDisbanded
		delete(m.parties, p.ID)
		return nil
	}
	if p.Leader == agentID {
		p.Leader = p.Members[0]
	}
	return p
}

// All returns every live party.
func (m *PartyManager) All() []*Party {
	out := make([]*Party, 0, len(m.parties))
	for _, p := range m.parties {
		out = append(out, p)
	}
	return out
}

// Restore re-indexes a loaded party and rebuilds the reverse index.
func (m *PartyManager) Restore(p *Party) {
	m.parties[p.ID] = p
	for _, id := range p.Members {
		m.byAgent[id] = p.ID
	}
}

func (m *PartyManager) Count() int { return len(m.parties) }
