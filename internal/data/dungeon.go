package data

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// EquipDrop is an equipment entry in a dungeon clear table.
type EquipDrop struct {
	ItemID string  `yaml:"item"`
	Chance float64 `yaml:"chance"`
}

// DungeonConfig keys a wave-based dungeon instance to its zone.
type DungeonConfig struct {
	Zone           string      `yaml:"zone"`
	Waves          int         `yaml:"waves"`
	MobsPerWave    int         `yaml:"mobs_per_wave"`
	BossName       string      `yaml:"boss_name"`
	BossHP         int         `yaml:"boss_hp"`
	ZoneMultiplier float64     `yaml:"zone_multiplier"`
	Loot           []LootEntry `yaml:"loot"`
	Equipment      []EquipDrop `yaml:"equipment"`
}

type DungeonTable struct {
	dungeons map[string]*DungeonConfig
}

func LoadDungeonTable(raw []byte) (*DungeonTable, error) {
	var doc struct {
		Dungeons []*DungeonConfig `yaml:"dungeons"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse dungeons: %w", err)
	}
	t := &DungeonTable{dungeons: make(map[string]*DungeonConfig, len(doc.Dungeons))}
	for _, d := range doc.Dungeons {
		if _, dup := t.dungeons[d.Zone]; dup {
			return nil, fmt.Errorf("duplicate dungeon zone %q", d.Zone)
		}
		t.dungeons[d.Zone] = d
	}
	return t, nil
}

func (t *DungeonTable) Get(zone string) *DungeonConfig { return t.dungeons[zone] }
func (t *DungeonTable) Count() int                     { return len(t.dungeons) }
