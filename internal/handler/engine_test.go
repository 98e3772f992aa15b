package handler

import (
	"context"
	"testing"
	"time"

	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteUnknownKey(t *testing.T) {
	e, _, _ := newTestEngine(t)
	_, err := e.Execute("no-such-hash", &Command{Action: "status"})
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestExecuteAdvancesTickOncePerSuccess(t *testing.T) {
	e, s, _ := newTestEngine(t)
	a := addAgent(s, "a1", "Brine", "shallows")

	res, err := e.Execute(a.APIKeyHash, &Command{Action: "status"})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, int64(1), s.Tick)
	assert.Equal(t, int64(1), a.LastActionTick)

	// A failed action leaves the clock alone.
	a.LastActionAt = time.Time{}
	res, err = e.Execute(a.APIKeyHash, &Command{Action: "gather", Target: "obsidian_glass"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, int64(1), s.Tick)
}

func TestExecuteActionCooldown(t *testing.T) {
	e, s, _ := newTestEngine(t)
	a := addAgent(s, "a1", "Brine", "shallows")

	_, err := e.Execute(a.APIKeyHash, &Command{Action: "status"})
	require.NoError(t, err)

	_, err = e.Execute(a.APIKeyHash, &Command{Action: "status"})
	var rl *RateLimitedError
	require.ErrorAs(t, err, &rl)
	assert.Greater(t, rl.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, rl.RetryAfter, data.ActionCooldownSec*time.Second)
}

func TestExecuteUnknownVerbFails(t *testing.T) {
	e, s, _ := newTestEngine(t)
	a := addAgent(s, "a1", "Brine", "shallows")

	res, err := e.Execute(a.APIKeyHash, &Command{Action: "teleport"})
	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestDeadAgentsMayOnlyRest(t *testing.T) {
	e, s, _ := newTestEngine(t)
	a := addAgent(s, "a1", "Brine", "shallows")
	a.IsAlive = false
	a.HP = 0

	res, err := e.Execute(a.APIKeyHash, &Command{Action: "gather", Target: "kelp_fiber"})
	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestEncounterBlocksOtherVerbs(t *testing.T) {
	e, s, _ := newTestEngine(t)
	a := addAgent(s, "a1", "Brine", "coral_gardens")
	s.StartEncounter(&world.Encounter{AgentID: a.ID, MobName: "moray eel", MobHP: 10, Zone: a.Location})

	res, err := e.Execute(a.APIKeyHash, &Command{Action: "gather", Target: "coral_shards"})
	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestEnterRegistersAgent(t *testing.T) {
	e, s, _ := newTestEngine(t)

	key, a, err := e.Enter(context.Background(), "0xabc", "Brine")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.NotEmpty(t, key)
	assert.Equal(t, data.StartZone, a.Location)
	assert.Equal(t, data.StartShells, a.Shells)
	assert.Same(t, a, s.AgentByKeyHash(HashAPIKey(key)))

	_, _, err = e.Enter(context.Background(), "0xdef", "brine")
	assert.ErrorIs(t, err, ErrNameTaken)

	_, _, err = e.Enter(context.Background(), "0xabc", "Other")
	assert.ErrorIs(t, err, ErrWalletTaken)
}

func TestPressureZoneBleedsHP(t *testing.T) {
	e, s, _ := newTestEngine(t)
	a := addAgent(s, "a1", "Brine", "deep_trench")

	res, err := e.Execute(a.APIKeyHash, &Command{Action: "status"})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, 100-data.PressureDamage, a.HP)

	// A rebreather holds the pressure off.
	a.LastActionAt = time.Time{}
	a.Equipped.Accessory = "rebreather"
	_, err = e.Execute(a.APIKeyHash, &Command{Action: "status"})
	require.NoError(t, err)
	assert.Equal(t, 100-data.PressureDamage, a.HP)
}

func TestEngagementForfeitOnSilence(t *testing.T) {
	e, s, _ := newTestEngine(t)
	a := addAgent(s, "a1", "Brine", "coral_gardens")
	b := addAgent(s, "b2", "Coil", "coral_gardens")

	stale := time.Now().Add(-2 * data.PvPInactivitySec * time.Second)
	eng := s.Engagements.Start(a.ID, b.ID, "coral_gardens", stale)
	require.NotNil(t, eng)

	res, err := e.Execute(a.APIKeyHash, &Command{Action: "status"})
	require.NoError(t, err)
	require.True(t, res.Success)

	assert.Nil(t, s.Engagements.Of(a.ID))
	assert.Nil(t, s.Engagements.Of(b.ID))
	assert.Equal(t, 100-int(float64(b.MaxHP)*data.PvPForfeitRatio), b.HP)
}
