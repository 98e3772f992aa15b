package data

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ZoneResource describes one gatherable resource node in a zone.
type ZoneResource struct {
	Resource    string `yaml:"resource"`
	Max         int    `yaml:"max"`
	RespawnRate int    `yaml:"respawn_rate"` // units regained per tick
	Guardian    string `yaml:"guardian"`     // mob id guarding the node ("" = none)
	Rare        bool   `yaml:"rare"`         // gathering flags the agent for PvP
}

// Zone is a static world location template.
type Zone struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Level       int            `yaml:"level"`
	Safe        bool           `yaml:"safe"`
	Pressure    bool           `yaml:"pressure"` // environmental damage per action
	Gated       bool           `yaml:"gated"`    // reachable only while its boss event is live
	Description string         `yaml:"description"`
	Connections []string       `yaml:"connections"`
	Resources   []ZoneResource `yaml:"resources"`
	Mobs        []string       `yaml:"mobs"`
}

func (z *Zone) Resource(id string) *ZoneResource {
	for i := range z.Resources {
		if z.Resources[i].Resource == id {
			return &z.Resources[i]
		}
	}
	return nil
}

func (z *Zone) ConnectsTo(id string) bool {
	for _, c := range z.Connections {
		if c == id {
			return true
		}
	}
	return false
}

type ZoneTable struct {
	zones map[string]*Zone
	order []string
}

func LoadZoneTable(raw []byte) (*ZoneTable, error) {
	var doc struct {
		Zones []*Zone `yaml:"zones"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse zones: %w", err)
	}
	t := &ZoneTable{zones: make(map[string]*Zone, len(doc.Zones))}
	for _, z := range doc.Zones {
		if _, dup := t.zones[z.ID]; dup {
			return nil, fmt.Errorf("duplicate zone %q", z.ID)
		}
		t.zones[z.ID] = z
		t.order = append(t.order, z.ID)
	}
	return t, nil
}

func (t *ZoneTable) Get(id string) *Zone { return t.zones[id] }
func (t *ZoneTable) Count() int          { return len(t.zones) }

// IDs returns zone ids in file order (stable for projections).
func (t *ZoneTable) IDs() []string { return t.order }
