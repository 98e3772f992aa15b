package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The parting hit is half the mob's damage plus a 0..5 bite.
func TestFleePartingHitRollsExtraBite(t *testing.T) {
	e, s, dice := newTestEngine(t)
	a := addAgent(s, "a1", "Brine", "coral_gardens")
	pveEncounter(s, a.ID, "coral_gardens", 10, 1000)

	dice.ints = []int{4}
	res := HandleFlee(e, a, &Command{Action: "flee"})
	require.True(t, res.Success)

	assert.Equal(t, 100-9, a.HP)
	assert.Nil(t, s.EncounterOf(a.ID))
}
