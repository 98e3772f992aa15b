package world

import "github.com/google/uuid"

type DungeonStatus string

const (
	DungeonActive  DungeonStatus = "active"
	DungeonCleared DungeonStatus = "cleared"
	DungeonFailed  DungeonStatus = "failed"
)

// DungeonChatLine is a shared-instance chat entry.
type DungeonChatLine struct {
	AgentID string `json:"agentId"`
	Name    string `json:"name"`
	Body    string `json:"body"`
	Tick    int64  `json:"tick"`
}

// DungeonInstance is a wave-based run owned by a party. The final wave is the
// boss; earlier waves count mobs down.
type DungeonInstance struct {
	ID            string            `json:"id"`
	PartyID       string            `json:"partyId"`
	Zone          string            `json:"zone"`
	Wave          int               `json:"wave"`
	MaxWaves      int               `json:"maxWaves"`
	MobsRemaining int               `json:"mobsRemaining"`
	BossHP        int               `json:"bossHp"`
	BossMaxHP     int               `json:"bossMaxHp"`
	Damage        map[string]int    `json:"damage"` // agent id → dealt
	Chat          []DungeonChatLine `json:"chat"`
	Status        DungeonStatus     `json:"status"`
	StartedTick   int64             `json:"startedTick"`
}

// OnBossWave reports whether the instance has reached its final wave.
func (d *DungeonInstance) OnBossWave() bool { return d.Wave >= d.MaxWaves }

// StartDungeon creates and registers an instance for the party.
func (s *State) StartDungeon(partyID, zone string, waves, mobsPerWave, bossHP int) *DungeonInstance {
	d := &DungeonInstance{
		ID:            uuid.NewString(),
		PartyID:       partyID,
		Zone:          zone,
		Wave:          1,
		MaxWaves:      waves,
		MobsRemaining: mobsPerWave,
		BossHP:        bossHP,
		BossMaxHP:     bossHP,
		Damage:        make(map[string]int),
		Status:        DungeonActive,
		StartedTick:   s.Tick,
	}
	if waves <= 1 {
		// Single-wave configs go straight to the boss.
		d.MobsRemaining = 0
	}
	s.Dungeons[partyID] = d
	return d
}

func (s *State) DungeonOf(partyID string) *DungeonInstance {
	return s.Dungeons[partyID]
}

func (s *State) EndDungeon(partyID string) {
	delete(s.Dungeons, partyID)
}
