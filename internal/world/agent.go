package world

import (
	"time"
)

// Equipment holds at most one item id per slot.
type Equipment struct {
	Weapon    string `json:"weapon,omitempty"`
	Armor     string `json:"armor,omitempty"`
	Accessory string `json:"accessory,omitempty"`
}

func (e *Equipment) Get(slot string) string {
	switch slot {
	case "weapon":
		return e.Weapon
	case "armor":
		return e.Armor
	case "accessory":
		return e.Accessory
	}
	return ""
}

func (e *Equipment) Set(slot, itemID string) {
	switch slot {
	case "weapon":
		e.Weapon = itemID
	case "armor":
		e.Armor = itemID
	case "accessory":
		e.Accessory = itemID
	}
}

// Agent is a live player-agent row. Mutated only under the engine lock.
// Agents are never destroyed; death soft-disables them until they rest.
type Agent struct {
	ID         string
	Wallet     string
	Name       string
	APIKeyHash string

	Location  string
	HP        int
	MaxHP     int
	Energy    int
	MaxEnergy int
	Level     int
	XP        int
	Shells    int
	Reputation int
	Deaths     int
	IsAlive    bool
	IsHidden   bool

	// PvPFlaggedUntil is the tick until which the agent may be attacked even
	// in safe zones (set by gathering rare resources). 0 = unflagged.
	PvPFlaggedUntil int64

	VisitedZones map[string]bool
	Faction      string
	Equipped     Equipment

	InventorySlots int
	VaultSlots     int

	// Buffs maps buff id → expiry tick (e.g. pressure_resist).
	Buffs map[string]int64

	LastActionTick int64
	LastActionAt   time.Time
	TickEntered    int64
}

// SetHP clamps into [0, MaxHP].
func (a *Agent) SetHP(hp int) {
	if hp < 0 {
		hp = 0
	}
	if hp > a.MaxHP {
		hp = a.MaxHP
	}
	a.HP = hp
}

// SetEnergy clamps into [0, MaxEnergy].
func (a *Agent) SetEnergy(e int) {
	if e < 0 {
		e = 0
	}
	if e > a.MaxEnergy {
		e = a.MaxEnergy
	}
	a.Energy = e
}

// AddShells floors at zero; the delta actually applied is returned.
func (a *Agent) AddShells(delta int) int {
	next := a.Shells + delta
	if next < 0 {
		delta -= next
		next = 0
	}
	a.Shells = next
	return delta
}

// HasBuff reports whether the buff is active at the given tick.
func (a *Agent) HasBuff(id string, tick int64) bool {
	exp, ok := a.Buffs[id]
	return ok && exp > tick
}

// PvPFlagged reports whether the safe-zone PvP flag is live.
func (a *Agent) PvPFlagged(tick int64) bool {
	return a.PvPFlaggedUntil > tick
}
