package handler

import (
	"testing"

	"github.com/reefgo/server/internal/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestInSafeZoneRestoresFull(t *testing.T) {
	e, s, _ := newTestEngine(t)
	a := addAgent(s, "a1", "Brine", "shallows")
	a.HP = 10
	a.Energy = 20

	res := HandleRest(e, a, &Command{Action: "rest"})
	require.True(t, res.Success)

	assert.Equal(t, a.MaxHP, a.HP)
	assert.Equal(t, a.MaxEnergy, a.Energy)
}

// Outside protected waters the rest is watchful: half of max, not full.
func TestRestOutsideSafeZoneRestoresHalf(t *testing.T) {
	e, s, _ := newTestEngine(t)
	a := addAgent(s, "a1", "Brine", "shipwreck_graveyard")
	a.HP = 10
	a.Energy = 20

	res := HandleRest(e, a, &Command{Action: "rest"})
	require.True(t, res.Success)

	assert.Equal(t, 10+a.MaxHP/2, a.HP)
	assert.Equal(t, 20+a.MaxEnergy/2, a.Energy)
}

func TestRestRevivesDeadAgentInShallows(t *testing.T) {
	e, s, _ := newTestEngine(t)
	a := addAgent(s, "a1", "Brine", "shallows")
	a.IsAlive = false
	a.HP = 0
	a.Energy = 0

	res := HandleRest(e, a, &Command{Action: "rest"})
	require.True(t, res.Success)

	assert.True(t, a.IsAlive)
	assert.Equal(t, data.StartZone, a.Location)
	assert.Equal(t, a.MaxHP, a.HP)
	assert.Equal(t, a.MaxEnergy, a.Energy)
}

func TestRestCooldown(t *testing.T) {
	e, s, _ := newTestEngine(t)
	a := addAgent(s, "a1", "Brine", "shallows")

	res := HandleRest(e, a, &Command{Action: "rest"})
	require.True(t, res.Success)

	res = HandleRest(e, a, &Command{Action: "rest"})
	assert.False(t, res.Success)
}
