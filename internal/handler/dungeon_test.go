package handler

import (
	"testing"
	"time"

	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoPartyAt(t *testing.T, s *world.State, zone string) (*world.Agent, *world.Agent, *world.Party) {
	t.Helper()
	a := addAgent(s, "a1", "Brine", zone)
	b := addAgent(s, "b2", "Coil", zone)
	p := s.Parties.Create(a.ID)
	require.NotNil(t, p)
	require.True(t, s.Parties.Join(p, b.ID))
	return a, b, p
}

func TestDungeonEnterChecks(t *testing.T) {
	e, s, _ := newTestEngine(t)
	a, b, p := twoPartyAt(t, s, "coral_gardens")

	res := HandleDungeon(e, b, &Command{Action: "dungeon", Target: "enter"})
	assert.False(t, res.Success, "only the leader opens the delve")

	b.Location = "shallows"
	res = HandleDungeon(e, a, &Command{Action: "dungeon", Target: "enter"})
	assert.False(t, res.Success, "everyone must stand at the entrance")

	b.Location = "coral_gardens"
	res = HandleDungeon(e, a, &Command{Action: "dungeon", Target: "enter"})
	require.True(t, res.Success)
	assert.Equal(t, world.PartyInDungeon, p.Status)

	d := s.DungeonOf(p.ID)
	require.NotNil(t, d)
	assert.Equal(t, 1, d.Wave)
	assert.Equal(t, 3, d.MobsRemaining)

	now := time.Now()
	assert.Equal(t, 1, s.Cooldowns.DailyCount(a.ID, world.CounterDungeon, now))
	assert.Equal(t, 1, s.Cooldowns.DailyCount(b.ID, world.CounterDungeon, now))
}

func TestDungeonDailyLimit(t *testing.T) {
	e, s, _ := newTestEngine(t)
	a, b, _ := twoPartyAt(t, s, "coral_gardens")
	_ = b

	now := time.Now()
	for i := 0; i < data.DungeonRunsPerDay; i++ {
		s.Cooldowns.IncrDaily(a.ID, world.CounterDungeon, now)
	}
	res := HandleDungeon(e, a, &Command{Action: "dungeon", Target: "enter"})
	assert.False(t, res.Success)
}

func TestDungeonClearRewards(t *testing.T) {
	e, s, dice := newTestEngine(t)
	a, b, p := twoPartyAt(t, s, "coral_gardens")
	a.Shells, b.Shells = 0, 0
	a.Level, b.Level = 1, 1
	a.XP, b.XP = 0, 0

	res := HandleDungeon(e, a, &Command{Action: "dungeon", Target: "enter"})
	require.True(t, res.Success)

	// Skip to a nearly dead boss so one swing settles it.
	d := s.DungeonOf(p.ID)
	d.Wave = d.MaxWaves
	d.MobsRemaining = 0
	d.BossHP = 5

	// Loot and equipment rolls all miss (exhausted script rolls 1.0).
	dice.ints = []int{0}
	res = HandleDungeon(e, a, &Command{Action: "dungeon", Target: "attack"})
	require.True(t, res.Success)

	// coral_gardens multiplier 1.0, party of 2 → bonus 2.0.
	assert.Equal(t, 150, a.Shells)
	assert.Equal(t, 150, b.Shells)
	assert.Equal(t, 100, a.XP)
	assert.Equal(t, 100, b.XP)
	assert.Equal(t, 5, a.Reputation)
	assert.Equal(t, 5, b.Reputation)

	assert.Equal(t, 100-data.EnergyPerDungeon, a.Energy)
	assert.Nil(t, s.DungeonOf(p.ID))
	assert.Equal(t, world.PartyForming, p.Status)
}

func TestDungeonWaveProgression(t *testing.T) {
	e, s, _ := newTestEngine(t)
	a, _, p := twoPartyAt(t, s, "coral_gardens")

	res := HandleDungeon(e, a, &Command{Action: "dungeon", Target: "enter"})
	require.True(t, res.Success)
	d := s.DungeonOf(p.ID)

	for i := 0; i < 3; i++ {
		res = HandleDungeon(e, a, &Command{Action: "dungeon", Target: "attack"})
		require.True(t, res.Success)
	}
	assert.Equal(t, 2, d.Wave)
	assert.True(t, d.OnBossWave())
	assert.Equal(t, d.BossMaxHP, d.BossHP)
}

func TestDungeonAbandon(t *testing.T) {
	e, s, _ := newTestEngine(t)
	a, b, p := twoPartyAt(t, s, "coral_gardens")

	res := HandleDungeon(e, a, &Command{Action: "dungeon", Target: "enter"})
	require.True(t, res.Success)

	res = HandleDungeon(e, b, &Command{Action: "dungeon", Target: "abandon"})
	assert.False(t, res.Success, "only the leader calls a retreat")

	res = HandleDungeon(e, a, &Command{Action: "dungeon", Target: "abandon"})
	require.True(t, res.Success)
	assert.Nil(t, s.DungeonOf(p.ID))
	assert.Equal(t, world.PartyForming, p.Status)
}

func TestPartyWalkUpJoin(t *testing.T) {
	e, s, _ := newTestEngine(t)
	a := addAgent(s, "a1", "Brine", "coral_gardens")
	b := addAgent(s, "b2", "Coil", "coral_gardens")
	c := addAgent(s, "c3", "Fin", "shallows")

	res := HandleParty(e, a, &Command{Action: "party", Target: "create"})
	require.True(t, res.Success)
	p := s.Parties.Of(a.ID)
	require.NotNil(t, p)

	// Same zone as a forming party: no invite needed.
	res = HandleParty(e, b, &Command{Action: "party", Target: "accept", To: a.Name})
	assert.True(t, res.Success)
	assert.True(t, p.HasMember(b.ID))

	// Different zone and no invite: rejected.
	res = HandleParty(e, c, &Command{Action: "party", Target: "accept", To: a.Name})
	assert.False(t, res.Success)
}
