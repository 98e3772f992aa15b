package handler

import (
	"testing"

	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pveEncounter(s *world.State, agentID string, zone string, mobDamage, mobHP int) *world.Encounter {
	enc := &world.Encounter{
		AgentID:   agentID,
		MobID:     "moray_eel",
		MobName:   "moray eel",
		MobLevel:  2,
		MobHP:     mobHP,
		MobMaxHP:  mobHP,
		MobDamage: mobDamage,
		Zone:      zone,
	}
	s.StartEncounter(enc)
	return enc
}

// Retaliation is the mob's base damage plus a 0..5 bite, before armor.
func TestMobRetaliationRollsExtraBite(t *testing.T) {
	e, s, dice := newTestEngine(t)
	a := addAgent(s, "a1", "Brine", "coral_gardens")
	pveEncounter(s, a.ID, "coral_gardens", 10, 1000)

	// Player roll die 0, retaliation die 5.
	dice.ints = []int{0, 5}
	res := HandleAttack(e, a, &Command{Action: "attack"})
	require.True(t, res.Success)

	assert.Equal(t, 100-15, a.HP)
}

func TestDeathReturnsAgentToShallows(t *testing.T) {
	e, s, _ := newTestEngine(t)
	a := addAgent(s, "a1", "Brine", "coral_gardens")
	a.HP = 5
	pveEncounter(s, a.ID, "coral_gardens", 100, 1000)

	res := HandleAttack(e, a, &Command{Action: "attack"})
	require.True(t, res.Success)

	assert.False(t, a.IsAlive)
	assert.Equal(t, 0, a.HP)
	assert.Equal(t, data.StartZone, a.Location)
	assert.Nil(t, s.EncounterOf(a.ID))
}
