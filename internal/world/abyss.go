package world

import "github.com/reefgo/server/internal/data"

// Contribution is one agent's ledger entry toward the Abyss gate.
type Contribution struct {
	Shells    int            `json:"shells"`
	Resources map[string]int `json:"resources"`
}

// AbyssState is the season-finale singleton: a multi-resource global gate and,
// once open, the 3-phase Null fight.
type AbyssState struct {
	IsOpen        bool  `json:"isOpen"`
	OpenedAtTick  int64 `json:"openedAtTick"`
	EventDuration int64 `json:"eventDuration"`

	NullHP    int `json:"nullHp"`
	NullMaxHP int `json:"nullMaxHp"`
	NullPhase int `json:"nullPhase"` // 0 = gate closed, 1..3 while fighting

	Participants  map[string]int           `json:"participants"` // agent id → damage
	Wallets       map[string]string        `json:"wallets"`
	Contributions map[string]*Contribution `json:"contributions"`

	// Requirements: resource ("shells" included) → {required, current}.
	Required map[string]int `json:"required"`
	Current  map[string]int `json:"current"`
}

func NewAbyssState() *AbyssState {
	return &AbyssState{
		EventDuration: data.AbyssEventDuration,
		NullHP:        data.NullMaxHP,
		NullMaxHP:     data.NullMaxHP,
		Participants:  make(map[string]int),
		Wallets:       make(map[string]string),
		Contributions: make(map[string]*Contribution),
		Required:      data.AbyssRequirements(),
		Current:       make(map[string]int),
	}
}

// RequirementsMet reports whether every gate entry has reached its target.
func (a *AbyssState) RequirementsMet() bool {
	for res, need := range a.Required {
		if a.Current[res] < need {
			return false
		}
	}
	return true
}

// Contribute records a gate contribution and the per-agent attribution.
func (a *AbyssState) Contribute(agentID, resource string, qty int) {
	a.Current[resource] += qty
	c := a.Contributions[agentID]
	if c == nil {
		c = &Contribution{Resources: make(map[string]int)}
		a.Contributions[agentID] = c
	}
	if resource == "shells" {
		c.Shells += qty
	} else {
		c.Resources[resource] += qty
	}
}

// Open starts the event window and phase 1.
func (a *AbyssState) Open(tick int64) {
	a.IsOpen = true
	a.OpenedAtTick = tick
	a.NullPhase = 1
	a.NullHP = a.NullMaxHP
	a.Participants = make(map[string]int)
	a.Wallets = make(map[string]string)
}

// Expire closes an unfinished event: hp restored, every requirement decayed.
func (a *AbyssState) Expire() {
	a.IsOpen = false
	a.NullPhase = 0
	a.NullHP = a.NullMaxHP
	for res := range a.Current {
		a.Current[res] = int(float64(a.Current[res]) * data.AbyssDecayRatio)
	}
	a.Participants = make(map[string]int)
}

// ResetAfterKill zeroes the requirements for the next cycle.
func (a *AbyssState) ResetAfterKill() {
	a.IsOpen = false
	a.NullPhase = 0
	a.NullHP = a.NullMaxHP
	a.Current = make(map[string]int)
	a.Contributions = make(map[string]*Contribution)
	a.Participants = make(map[string]int)
	a.Wallets = make(map[string]string)
}

// PhaseFor returns the fight phase for an hp ratio.
func (a *AbyssState) PhaseFor() int {
	ratio := float64(a.NullHP) / float64(a.NullMaxHP)
	switch {
	case ratio <= data.NullPhase3Ratio:
		return 3
	case ratio <= data.NullPhase2Ratio:
		return 2
	default:
		return 1
	}
}

func (a *AbyssState) TotalDamage() int {
	total := 0
	for _, d := range a.Participants {
		total += d
	}
	return total
}
