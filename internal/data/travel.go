package data

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// TravelRoute is one fast-travel edge. Travel requires the destination to
// have been visited before and never rolls an ambush.
type TravelRoute struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
	Cost int    `yaml:"cost"`
	Name string `yaml:"name"`
}

type TravelTable struct {
	routes []TravelRoute
}

func LoadTravelTable(raw []byte) (*TravelTable, error) {
	var doc struct {
		Routes []TravelRoute `yaml:"routes"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse travel routes: %w", err)
	}
	return &TravelTable{routes: doc.Routes}, nil
}

// Find returns the route between two zones, or nil.
func (t *TravelTable) Find(from, to string) *TravelRoute {
	for i := range t.routes {
		if t.routes[i].From == from && t.routes[i].To == to {
			return &t.routes[i]
		}
	}
	return nil
}

func (t *TravelTable) From(zone string) []TravelRoute {
	var out []TravelRoute
	for _, r := range t.routes {
		if r.From == zone {
			out = append(out, r)
		}
	}
	return out
}

func (t *TravelTable) Count() int { return len(t.routes) }
