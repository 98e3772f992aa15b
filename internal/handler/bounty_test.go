package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBountyPostingPoolsShells(t *testing.T) {
	e, s, _ := newTestEngine(t)
	a := addAgent(s, "a1", "Brine", "shallows")
	addAgent(s, "b2", "Coil", "shallows")

	res, err := e.Execute(a.APIKeyHash, &Command{Action: "bounty", Target: "@Coil", Amount: 200})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, 800, a.Shells)
	assert.Equal(t, 200, s.Bounties["b2"])

	a.LastActionAt = time.Time{}
	res, err = e.Execute(a.APIKeyHash, &Command{Action: "bounty", Target: "@Brine", Amount: 50})
	require.NoError(t, err)
	assert.False(t, res.Success, "no self bounties")

	a.LastActionAt = time.Time{}
	board, err := e.Execute(a.APIKeyHash, &Command{Action: "bounty"})
	require.NoError(t, err)
	assert.Contains(t, board.Narrative, "Coil")
	assert.Contains(t, board.Narrative, "200")
}

func TestBountyClaimedOnPvPKill(t *testing.T) {
	e, s, _ := newTestEngine(t)
	hunter := addAgent(s, "a1", "Brine", "coral_gardens")
	mark := addAgent(s, "b2", "Coil", "coral_gardens")
	sponsor := addAgent(s, "c3", "Drift", "shallows")

	_, err := e.Execute(sponsor.APIKeyHash, &Command{Action: "bounty", Target: "@Coil", Amount: 300})
	require.NoError(t, err)

	mark.HP = 5
	res, err := e.Execute(hunter.APIKeyHash, &Command{Action: "attack", Target: "@Coil"})
	require.NoError(t, err)
	require.True(t, res.Success)

	assert.False(t, mark.IsAlive)
	assert.Equal(t, 1300, hunter.Shells)
	assert.NotContains(t, s.Bounties, "b2", "claimed pool is cleared")
}
