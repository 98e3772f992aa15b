package world

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/reefgo/server/internal/data"
)

// LocationResource is one regenerating resource node instance.
type LocationResource struct {
	Zone        string
	Resource    string
	Current     int
	Max         int
	RespawnRate int
}

// WorldEvent is one row of the append-only world log, totally ordered by tick.
type WorldEvent struct {
	ID          string   `json:"id"`
	Tick        int64    `json:"tick"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Zone        string   `json:"zone,omitempty"`
	AgentIDs    []string `json:"agentIds,omitempty"`
}

// Message is a dm or zone/world broadcast.
type Message struct {
	ID        string
	From      string
	To        string // empty for broadcasts
	Zone      string // empty for dms and world broadcasts
	Type      string // "dm" | "broadcast"
	Body      string
	CreatedAt time.Time
	Tick      int64
}

// State is the authoritative in-memory world. It is NOT self-synchronizing:
// all access goes through the engine, which holds one lock for the span of an
// action (and for read projections). See handler.Engine.
type State struct {
	Tick     int64
	DayCycle string
	Weather  string

	agents  map[string]*Agent
	byName  map[string]string // lower(name) → agent id
	byKey   map[string]string // api key hash → agent id
	invs    map[string]map[string]int
	vaults  map[string]map[string]int
	zoneRes map[string]map[string]*LocationResource

	events   []WorldEvent
	messages []Message

	Trades   map[string]*TradeOffer
	Listings map[string]*Listing

	Parties     *PartyManager
	Dungeons    map[string]*DungeonInstance // party id → instance
	Encounters  map[string]*Encounter       // agent id → at most one
	Engagements *EngagementRegistry

	Leviathan *LeviathanState
	Abyss     *AbyssState

	Duels      map[string]*Duel
	Tournament *Tournament

	Markets map[string]*Market
	Bets    map[string]map[string]*Bet // market id → agent id → bet

	Quests   map[string][]string        // agent id → accepted quest ids
	Tutorial map[string]map[string]bool // agent id → completed step ids

	Cooldowns     *CooldownBook
	GuardianKills map[string]int64 // agent|resource|zone → kill tick
	Featured      *FeaturedItem

	Bounties map[string]int // target agent id → pooled shells
}

// FeaturedItem is the hourly shop rotation pick.
type FeaturedItem struct {
	ItemID string
	Stock  int
	Hour   time.Time // truncated UTC hour the pick belongs to
}

func NewState(catalog *data.Catalog) *State {
	s := &State{
		DayCycle:      "day",
		Weather:       "calm",
		agents:        make(map[string]*Agent),
		byName:        make(map[string]string),
		byKey:         make(map[string]string),
		invs:          make(map[string]map[string]int),
		vaults:        make(map[string]map[string]int),
		zoneRes:       make(map[string]map[string]*LocationResource),
		Trades:        make(map[string]*TradeOffer),
		Listings:      make(map[string]*Listing),
		Parties:       NewPartyManager(),
		Dungeons:      make(map[string]*DungeonInstance),
		Encounters:    make(map[string]*Encounter),
		Engagements:   NewEngagementRegistry(),
		Leviathan:     NewLeviathanState(),
		Abyss:         NewAbyssState(),
		Duels:         make(map[string]*Duel),
		Markets:       make(map[string]*Market),
		Bets:          make(map[string]map[string]*Bet),
		Quests:        make(map[string][]string),
		Tutorial:      make(map[string]map[string]bool),
		Cooldowns:     NewCooldownBook(),
		GuardianKills: make(map[string]int64),
		Bounties:      make(map[string]int),
	}
	for _, zid := range catalog.Zones.IDs() {
		z := catalog.Zones.Get(zid)
		nodes := make(map[string]*LocationResource, len(z.Resources))
		for _, r := range z.Resources {
			nodes[r.Resource] = &LocationResource{
				Zone:        zid,
				Resource:    r.Resource,
				Current:     r.Max,
				Max:         r.Max,
				RespawnRate: r.RespawnRate,
			}
		}
		s.zoneRes[zid] = nodes
	}
	return s
}

// ── Agents ─────────────────────────────────────────────────────────

// CreateAgent registers a new agent with starting stats. Name collisions are
// the caller's problem to have checked via AgentByName.
func (s *State) CreateAgent(wallet, name, apiKeyHash string) *Agent {
	a := &Agent{
		ID:             uuid.NewString(),
		Wallet:         wallet,
		Name:           name,
		APIKeyHash:     apiKeyHash,
		Location:       data.StartZone,
		HP:             data.StartHP,
		MaxHP:          data.StartHP,
		Energy:         data.StartEnergy,
		MaxEnergy:      data.StartEnergy,
		Level:          1,
		Shells:         data.StartShells,
		IsAlive:        true,
		VisitedZones:   map[string]bool{data.StartZone: true},
		Buffs:          make(map[string]int64),
		InventorySlots: data.StartInvSlots,
		VaultSlots:     data.StartVaultSlot,
		TickEntered:    s.Tick,
	}
	s.AddAgent(a)
	return a
}

// AddAgent indexes an agent (used by CreateAgent and by the loader).
func (s *State) AddAgent(a *Agent) {
	s.agents[a.ID] = a
	s.byName[strings.ToLower(a.Name)] = a.ID
	if a.APIKeyHash != "" {
		s.byKey[a.APIKeyHash] = a.ID
	}
}

func (s *State) Agent(id string) *Agent { return s.agents[id] }

func (s *State) AgentByName(name string) *Agent {
	id, ok := s.byName[strings.ToLower(name)]
	if !ok {
		return nil
	}
	return s.agents[id]
}

func (s *State) AgentByKeyHash(hash string) *Agent {
	id, ok := s.byKey[hash]
	if !ok {
		return nil
	}
	return s.agents[id]
}

// AllAgents iterates every agent. Do not mutate the map during iteration.
func (s *State) AllAgents(fn func(*Agent)) {
	for _, a := range s.agents {
		fn(a)
	}
}

// AgentsInZone returns alive agents currently at the zone.
func (s *State) AgentsInZone(zone string) []*Agent {
	var out []*Agent
	for _, a := range s.agents {
		if a.Location == zone && a.IsAlive {
			out = append(out, a)
		}
	}
	return out
}

func (s *State) AgentCount() int { return len(s.agents) }

// AliveAgentCount counts alive agents world-wide (boss spawn precondition).
func (s *State) AliveAgentCount() int {
	n := 0
	for _, a := range s.agents {
		if a.IsAlive {
			n++
		}
	}
	return n
}

// ── Inventory / vault ──────────────────────────────────────────────

// InventoryCount is the total unit count across stacks; each unit occupies
// one slot.
func (s *State) InventoryCount(agentID string) int {
	n := 0
	for _, q := range s.invs[agentID] {
		n += q
	}
	return n
}

func (s *State) VaultCount(agentID string) int {
	n := 0
	for _, q := range s.vaults[agentID] {
		n += q
	}
	return n
}

// AddToInventory inserts up to qty units, capped by free slots. Returns the
// quantity actually stored (same (agent,resource) stacks sum).
func (s *State) AddToInventory(a *Agent, resource string, qty int) int {
	if qty <= 0 {
		return 0
	}
	free := a.InventorySlots - s.InventoryCount(a.ID)
	if free <= 0 {
		return 0
	}
	if qty > free {
		qty = free
	}
	inv := s.invs[a.ID]
	if inv == nil {
		inv = make(map[string]int)
		s.invs[a.ID] = inv
	}
	inv[resource] += qty
	return qty
}

// RemoveFromInventory removes qty units; returns false (and removes nothing)
// if the stack is short.
func (s *State) RemoveFromInventory(agentID, resource string, qty int) bool {
	if qty <= 0 {
		return false
	}
	inv := s.invs[agentID]
	if inv == nil || inv[resource] < qty {
		return false
	}
	inv[resource] -= qty
	if inv[resource] == 0 {
		delete(inv, resource)
	}
	return true
}

func (s *State) InventoryOf(agentID string) map[string]int {
	out := make(map[string]int, len(s.invs[agentID]))
	for r, q := range s.invs[agentID] {
		out[r] = q
	}
	return out
}

func (s *State) HasInInventory(agentID, resource string, qty int) bool {
	return s.invs[agentID][resource] >= qty
}

// AddToVault mirrors AddToInventory against the vault slots.
func (s *State) AddToVault(a *Agent, resource string, qty int) int {
	if qty <= 0 {
		return 0
	}
	free := a.VaultSlots - s.VaultCount(a.ID)
	if free <= 0 {
		return 0
	}
	if qty > free {
		qty = free
	}
	v := s.vaults[a.ID]
	if v == nil {
		v = make(map[string]int)
		s.vaults[a.ID] = v
	}
	v[resource] += qty
	return qty
}

func (s *State) RemoveFromVault(agentID, resource string, qty int) bool {
	if qty <= 0 {
		return false
	}
	v := s.vaults[agentID]
	if v == nil || v[resource] < qty {
		return false
	}
	v[resource] -= qty
	if v[resource] == 0 {
		delete(v, resource)
	}
	return true
}

func (s *State) VaultOf(agentID string) map[string]int {
	out := make(map[string]int, len(s.vaults[agentID]))
	for r, q := range s.vaults[agentID] {
		out[r] = q
	}
	return out
}

// SetInventory replaces an agent's inventory wholesale (loader only).
func (s *State) SetInventory(agentID string, inv map[string]int) {
	s.invs[agentID] = inv
}

func (s *State) SetVault(agentID string, v map[string]int) {
	s.vaults[agentID] = v
}

// ── Zone resources ─────────────────────────────────────────────────

func (s *State) ZoneResource(zone, resource string) *LocationResource {
	return s.zoneRes[zone][resource]
}

func (s *State) ZoneResources(zone string) map[string]*LocationResource {
	return s.zoneRes[zone]
}

// ── Tick / events / messages ───────────────────────────────────────

// AdvanceTick increments the world clock and regenerates resource nodes.
// Strictly one increment per successful action.
func (s *State) AdvanceTick() int64 {
	s.Tick++
	for _, nodes := range s.zoneRes {
		for _, n := range nodes {
			if n.Current < n.Max {
				n.Current += n.RespawnRate
				if n.Current > n.Max {
					n.Current = n.Max
				}
			}
		}
	}
	return s.Tick
}

func (s *State) LogEvent(evType, description, zone string, agentIDs ...string) WorldEvent {
	ev := WorldEvent{
		ID:          uuid.NewString(),
		Tick:        s.Tick,
		Type:        evType,
		Description: description,
		Zone:        zone,
		AgentIDs:    agentIDs,
	}
	s.events = append(s.events, ev)
	return ev
}

// RecentEvents returns up to n most recent world events, newest last.
func (s *State) RecentEvents(n int) []WorldEvent {
	if n <= 0 || n > len(s.events) {
		n = len(s.events)
	}
	return append([]WorldEvent(nil), s.events[len(s.events)-n:]...)
}

func (s *State) AddMessage(m Message) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.Tick = s.Tick
	s.messages = append(s.messages, m)
}

// EventCount supports incremental flushing: the persister remembers how many
// events it has written and asks for the rest.
func (s *State) EventCount() int { return len(s.events) }

// EventsSince returns events from index from onward.
func (s *State) EventsSince(from int) []WorldEvent {
	if from < 0 || from >= len(s.events) {
		return nil
	}
	return append([]WorldEvent(nil), s.events[from:]...)
}

func (s *State) MessageCount() int { return len(s.messages) }

// MessagesSince returns messages from index from onward.
func (s *State) MessagesSince(from int) []Message {
	if from < 0 || from >= len(s.messages) {
		return nil
	}
	return append([]Message(nil), s.messages[from:]...)
}

// MessagesFor returns dms addressed to the agent plus broadcasts for its zone.
func (s *State) MessagesFor(agentID, zone string, limit int) []Message {
	var out []Message
	for i := len(s.messages) - 1; i >= 0 && len(out) < limit; i-- {
		m := s.messages[i]
		if m.To == agentID || (m.Type == "broadcast" && (m.Zone == "" || m.Zone == zone)) {
			out = append(out, m)
		}
	}
	return out
}

// GuardianKeyFor builds the guardian-cooldown ledger key.
func GuardianKeyFor(agentID, resource, zone string) string {
	return fmt.Sprintf("%s|%s|%s", agentID, resource, zone)
}
