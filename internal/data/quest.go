package data

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Quest is a collect-type quest: completion consumes Requires from inventory
// and grants the rewards.
type Quest struct {
	ID           string         `yaml:"id"`
	Name         string         `yaml:"name"`
	Requires     map[string]int `yaml:"requires"`
	RewardShells int            `yaml:"reward_shells"`
	RewardXP     int            `yaml:"reward_xp"`
	RewardItems  map[string]int `yaml:"reward_items"`
}

type QuestTable struct {
	quests map[string]*Quest
	order  []string
}

func LoadQuestTable(raw []byte) (*QuestTable, error) {
	var doc struct {
		Quests []*Quest `yaml:"quests"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse quests: %w", err)
	}
	t := &QuestTable{quests: make(map[string]*Quest, len(doc.Quests))}
	for _, q := range doc.Quests {
		if _, dup := t.quests[q.ID]; dup {
			return nil, fmt.Errorf("duplicate quest %q", q.ID)
		}
		t.quests[q.ID] = q
		t.order = append(t.order, q.ID)
	}
	return t, nil
}

func (t *QuestTable) Get(id string) *Quest { return t.quests[id] }
func (t *QuestTable) Count() int           { return len(t.quests) }
func (t *QuestTable) IDs() []string        { return t.order }
