package data

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Recipe consumes Inputs from inventory and produces Quantity × Output.
type Recipe struct {
	ID       string         `yaml:"id"`
	Output   string         `yaml:"output"`
	Quantity int            `yaml:"quantity"`
	Inputs   map[string]int `yaml:"inputs"`
}

type RecipeTable struct {
	recipes map[string]*Recipe
}

func LoadRecipeTable(raw []byte) (*RecipeTable, error) {
	var doc struct {
		Recipes []*Recipe `yaml:"recipes"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse recipes: %w", err)
	}
	t := &RecipeTable{recipes: make(map[string]*Recipe, len(doc.Recipes))}
	for _, r := range doc.Recipes {
		if _, dup := t.recipes[r.ID]; dup {
			return nil, fmt.Errorf("duplicate recipe %q", r.ID)
		}
		t.recipes[r.ID] = r
	}
	return t, nil
}

func (t *RecipeTable) Get(id string) *Recipe { return t.recipes[id] }
func (t *RecipeTable) Count() int            { return len(t.recipes) }
