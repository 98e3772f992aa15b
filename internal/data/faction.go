package data

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Faction is a permanent affiliation taken at level 5+. Multipliers apply to
// every later grant; MaxHPBonus rebases maxHp once on join.
type Faction struct {
	ID               string  `yaml:"id"`
	Name             string  `yaml:"name"`
	XPMultiplier     float64 `yaml:"xp_multiplier"`
	ShellMultiplier  float64 `yaml:"shell_multiplier"`
	DamageMultiplier float64 `yaml:"damage_multiplier"`
	CritChance       float64 `yaml:"crit_chance"`
	MaxHPBonus       int     `yaml:"max_hp_bonus"`
}

type FactionTable struct {
	factions map[string]*Faction
}

func LoadFactionTable(raw []byte) (*FactionTable, error) {
	var doc struct {
		Factions []*Faction `yaml:"factions"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse factions: %w", err)
	}
	t := &FactionTable{factions: make(map[string]*Faction, len(doc.Factions))}
	for _, f := range doc.Factions {
		if _, dup := t.factions[f.ID]; dup {
			return nil, fmt.Errorf("duplicate faction %q", f.ID)
		}
		t.factions[f.ID] = f
	}
	return t, nil
}

func (t *FactionTable) Get(id string) *Faction { return t.factions[id] }
func (t *FactionTable) Count() int             { return len(t.factions) }

// IDs returns every faction id in stable order.
func (t *FactionTable) IDs() []string {
	ids := make([]string, 0, len(t.factions))
	for id := range t.factions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
