package data

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ItemStats are the stat contributions of an equippable item.
type ItemStats struct {
	Damage          int `yaml:"damage"`
	DamageReduction int `yaml:"damage_reduction"`
	MaxHP           int `yaml:"max_hp"`
	MaxEnergy       int `yaml:"max_energy"`
}

// Item is a shop catalog entry: equipment (Slot != "") or consumable
// (Effect != ""). Featured items join the hourly rotation pool.
type Item struct {
	ID       string    `yaml:"id"`
	Name     string    `yaml:"name"`
	Slot     string    `yaml:"slot"` // weapon | armor | accessory | ""
	Price    int       `yaml:"price"`
	Rarity   string    `yaml:"rarity"`
	Effect   string    `yaml:"effect"` // heal_50 | energy_40 | pressure_resist | ...
	Featured bool      `yaml:"featured"`
	Stock    int       `yaml:"stock"` // featured stock per rotation
	Stats    ItemStats `yaml:"stats"`
}

func (i *Item) IsEquipment() bool { return i.Slot != "" }

type ItemTable struct {
	items    map[string]*Item
	featured []string
}

func LoadItemTable(raw []byte) (*ItemTable, error) {
	var doc struct {
		Items []*Item `yaml:"items"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse items: %w", err)
	}
	t := &ItemTable{items: make(map[string]*Item, len(doc.Items))}
	for _, it := range doc.Items {
		if _, dup := t.items[it.ID]; dup {
			return nil, fmt.Errorf("duplicate item %q", it.ID)
		}
		t.items[it.ID] = it
		if it.Featured {
			t.featured = append(t.featured, it.ID)
		}
	}
	return t, nil
}

func (t *ItemTable) Get(id string) *Item { return t.items[id] }
func (t *ItemTable) Count() int          { return len(t.items) }

// FeaturedPool returns the ids eligible for the hourly featured rotation.
func (t *ItemTable) FeaturedPool() []string { return t.featured }
