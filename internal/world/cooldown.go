package world

import "time"

// Cooldown kinds. Wall-clock cooldowns expire lazily at read time; daily
// counters reset at the next UTC midnight after their stamp.
const (
	CooldownRest      = "rest"
	CooldownBroadcast = "broadcast"
	CounterMoveXP     = "move_xp"
	CounterBroadcast  = "broadcast_xp"
	CounterDungeon    = "dungeon_daily"
)

// CooldownEntry is a persisted cooldown or counter row.
type CooldownEntry struct {
	Type      string    `json:"type"`
	Value     int       `json:"value"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CooldownBook tracks per-agent cooldowns and daily counters.
type CooldownBook struct {
	entries map[string]map[string]*CooldownEntry // agent id → type → entry
}

func NewCooldownBook() *CooldownBook {
	return &CooldownBook{entries: make(map[string]map[string]*CooldownEntry)}
}

func (b *CooldownBook) of(agentID string) map[string]*CooldownEntry {
	m := b.entries[agentID]
	if m == nil {
		m = make(map[string]*CooldownEntry)
		b.entries[agentID] = m
	}
	return m
}

// OnCooldown reports whether the wall-clock cooldown is still running and, if
// so, how much remains.
func (b *CooldownBook) OnCooldown(agentID, kind string, now time.Time) (bool, time.Duration) {
	e := b.entries[agentID][kind]
	if e == nil || !now.Before(e.ExpiresAt) {
		return false, 0
	}
	return true, e.ExpiresAt.Sub(now)
}

// StartCooldown arms a wall-clock cooldown.
func (b *CooldownBook) StartCooldown(agentID, kind string, now time.Time, d time.Duration) {
	b.of(agentID)[kind] = &CooldownEntry{Type: kind, ExpiresAt: now.Add(d)}
}

// nextUTCMidnight returns the first UTC midnight strictly after t.
func nextUTCMidnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
}

// DailyCount returns the counter value after applying the lazy UTC-midnight
// reset.
func (b *CooldownBook) DailyCount(agentID, kind string, now time.Time) int {
	e := b.entries[agentID][kind]
	if e == nil {
		return 0
	}
	if !now.Before(e.ExpiresAt) { // resetAt passed → fresh day
		e.Value = 0
		e.ExpiresAt = nextUTCMidnight(now)
	}
	return e.Value
}

// IncrDaily bumps the counter, arming the reset stamp on first use.
func (b *CooldownBook) IncrDaily(agentID, kind string, now time.Time) int {
	m := b.of(agentID)
	e := m[kind]
	if e == nil || !now.Before(e.ExpiresAt) {
		e = &CooldownEntry{Type: kind, ExpiresAt: nextUTCMidnight(now)}
		m[kind] = e
	}
	e.Value++
	return e.Value
}

// Snapshot exports every entry for persistence.
func (b *CooldownBook) Snapshot() map[string][]*CooldownEntry {
	out := make(map[string][]*CooldownEntry, len(b.entries))
	for agent, m := range b.entries {
		for _, e := range m {
			out[agent] = append(out[agent], e)
		}
	}
	return out
}

// Restore re-imports persisted entries (loader only).
func (b *CooldownBook) Restore(agentID string, entries []*CooldownEntry) {
	m := b.of(agentID)
	for _, e := range entries {
		m[e.Type] = e
	}
}
