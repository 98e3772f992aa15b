package data

import (
	"embed"
	"fmt"
)

//go:embed yaml/*.yaml
var dataFS embed.FS

// Catalog bundles every static table. Read-only after load.
type Catalog struct {
	Zones    *ZoneTable
	Mobs     *MobTable
	Items    *ItemTable
	Recipes  *RecipeTable
	Factions *FactionTable
	Travel   *TravelTable
	Dungeons *DungeonTable
	Quests   *QuestTable
}

// LoadCatalog parses the embedded YAML tables and cross-checks references
// (zone mobs, guardians and dungeon loot must resolve).
func LoadCatalog() (*Catalog, error) {
	read := func(name string) ([]byte, error) {
		return dataFS.ReadFile("yaml/" + name)
	}

	var c Catalog
	var err error
	steps := []func() error{
		func() error {
			raw, e := read("zones.yaml")
			if e != nil {
				return e
			}
			c.Zones, err = LoadZoneTable(raw)
			return err
		},
		func() error {
			raw, e := read("mobs.yaml")
			if e != nil {
				return e
			}
			c.Mobs, err = LoadMobTable(raw)
			return err
		},
		func() error {
			raw, e := read("items.yaml")
			if e != nil {
				return e
			}
			c.Items, err = LoadItemTable(raw)
			return err
		},
		func() error {
			raw, e := read("recipes.yaml")
			if e != nil {
				return e
			}
			c.Recipes, err = LoadRecipeTable(raw)
			return err
		},
		func() error {
			raw, e := read("factions.yaml")
			if e != nil {
				return e
			}
			c.Factions, err = LoadFactionTable(raw)
			return err
		},
		func() error {
			raw, e := read("travel.yaml")
			if e != nil {
				return e
			}
			c.Travel, err = LoadTravelTable(raw)
			return err
		},
		func() error {
			raw, e := read("dungeons.yaml")
			if e != nil {
				return e
			}
			c.Dungeons, err = LoadDungeonTable(raw)
			return err
		},
		func() error {
			raw, e := read("quests.yaml")
			if e != nil {
				return e
			}
			c.Quests, err = LoadQuestTable(raw)
			return err
		},
	}
	for _, step := range steps {
		if e := step(); e != nil {
			return nil, e
		}
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	for _, zid := range c.Zones.IDs() {
		z := c.Zones.Get(zid)
		for _, mid := range z.Mobs {
			if c.Mobs.Get(mid) == nil {
				return fmt.Errorf("zone %s references unknown mob %q", zid, mid)
			}
		}
		for _, r := range z.Resources {
			if r.Guardian != "" && c.Mobs.Get(r.Guardian) == nil {
				return fmt.Errorf("zone %s resource %s: unknown guardian %q", zid, r.Resource, r.Guardian)
			}
		}
		for _, conn := range z.Connections {
			if c.Zones.Get(conn) == nil {
				return fmt.Errorf("zone %s connects to unknown zone %q", zid, conn)
			}
		}
	}
	if c.Items.Get(LegendaryItemID) == nil {
		return fmt.Errorf("legendary item %q missing from catalog", LegendaryItemID)
	}
	return nil
}
