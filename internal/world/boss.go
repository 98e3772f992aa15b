package world

import "github.com/reefgo/server/internal/data"

// LeviathanState is the world-boss singleton. Lifecycle:
// dormant → announced → alive → dormant.
type LeviathanState struct {
	SpawnID    string         `json:"spawnId"` // unique per life, payout accounting key
	CurrentHP  int            `json:"currentHp"`
	MaxHP      int            `json:"maxHp"`
	BaseHP     int            `json:"baseHp"`
	HPPerAgent int            `json:"hpPerAgent"`
	IsAlive    bool           `json:"isAlive"`
	HPScaled   bool           `json:"hpScaled"` // set on first engagement of a spawn
	NextSpawnTick int64       `json:"nextSpawnTick"`
	LastDeathTick int64       `json:"lastDeathTick"`
	Announced     bool        `json:"announced"`
	Participants  map[string]int    `json:"participants"`       // agent id → damage dealt
	Wallets       map[string]string `json:"participantWallets"` // agent id → address
}

func NewLeviathanState() *LeviathanState {
	return &LeviathanState{
		BaseHP:       data.LeviathanBaseHP,
		MaxHP:        data.LeviathanBaseHP,
		HPPerAgent:   data.LeviathanHPPerAgent,
		Participants: make(map[string]int),
		Wallets:      make(map[string]string),
	}
}

// TotalDamage sums all participant damage. While alive,
// TotalDamage + CurrentHP == MaxHP once scaled.
func (l *LeviathanState) TotalDamage() int {
	total := 0
	for _, d := range l.Participants {
		total += d
	}
	return total
}

// TopDamager returns the highest-damage participant ("" when none).
func (l *LeviathanState) TopDamager() string {
	best, bestDmg := "", -1
	for id, d := range l.Participants {
		if d > bestDmg {
			best, bestDmg = id, d
		}
	}
	return best
}

// ResetForSpawn clears per-spawn accounting and marks the boss alive.
func (l *LeviathanState) ResetForSpawn(spawnID string) {
	l.SpawnID = spawnID
	l.IsAlive = true
	l.Announced = false
	l.HPScaled = false
	l.MaxHP = l.BaseHP
	l.CurrentHP = l.BaseHP
	l.Participants = make(map[string]int)
	l.Wallets = make(map[string]string)
}
