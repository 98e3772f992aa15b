package data

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// LootEntry is one Bernoulli roll in a loot table: on success a uniform
// quantity in [Min,Max] drops.
type LootEntry struct {
	Resource string  `yaml:"resource"`
	Chance   float64 `yaml:"chance"`
	Min      int     `yaml:"min"`
	Max      int     `yaml:"max"`
}

// Mob is a hostile template. Encounter instances copy and scale these stats.
type Mob struct {
	ID     string      `yaml:"id"`
	Name   string      `yaml:"name"`
	Level  int         `yaml:"level"`
	HP     int         `yaml:"hp"`
	Damage int         `yaml:"damage"`
	XP     int         `yaml:"xp"`
	Shells int         `yaml:"shells"`
	Loot   []LootEntry `yaml:"loot"`
}

type MobTable struct {
	mobs map[string]*Mob
}

func LoadMobTable(raw []byte) (*MobTable, error) {
	var doc struct {
		Mobs []*Mob `yaml:"mobs"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse mobs: %w", err)
	}
	t := &MobTable{mobs: make(map[string]*Mob, len(doc.Mobs))}
	for _, m := range doc.Mobs {
		if _, dup := t.mobs[m.ID]; dup {
			return nil, fmt.Errorf("duplicate mob %q", m.ID)
		}
		t.mobs[m.ID] = m
	}
	return t, nil
}

func (t *MobTable) Get(id string) *Mob { return t.mobs[id] }
func (t *MobTable) Count() int         { return len(t.mobs) }
