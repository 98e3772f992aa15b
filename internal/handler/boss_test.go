package handler

import (
	"testing"
	"time"

	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeviathanKillSettlement(t *testing.T) {
	e, s, dice := newTestEngine(t)

	a := addAgent(s, "a1", "Brine", data.LeviathanZone)
	b := addAgent(s, "b2", "Coil", data.LeviathanZone)
	a.Shells, b.Shells = 0, 0

	lev := s.Leviathan
	lev.IsAlive = true
	lev.SpawnID = "spawn-1"
	lev.HPScaled = true
	lev.MaxHP = 100
	lev.CurrentHP = 100
	lev.Participants = map[string]int{a.ID: 60, b.ID: 40}
	lev.Wallets = map[string]string{a.ID: a.Wallet, b.ID: b.Wallet}

	m := s.CreateMarket("Will the Leviathan fall?", []string{"Yes", "No"}, []float64{2.0, 1.5},
		"boss", lev.SpawnID, s.Tick+500)
	s.PlaceBet(&world.Bet{MarketID: m.ID, AgentID: b.ID, OptionIndex: 0, Amount: 50, PotentialWin: 100})

	// First Float64 fires the legendary raffle, second lands pick 3 of the 10
	// damage tickets (6 for a1, 4 for b2) on a1.
	dice.floats = []float64{0.1, 0.3}

	res := e.leviathanKill(a, world.OK(""))
	require.True(t, res.Success)

	assert.False(t, lev.IsAlive)
	assert.False(t, lev.Announced)
	assert.Greater(t, lev.NextSpawnTick, s.Tick)

	// 1500 shells split evenly, plus b2's resolved bet payout.
	assert.Equal(t, 750, a.Shells)
	assert.Equal(t, 750+100, b.Shells)

	// Top damager reputation bonus.
	assert.Equal(t, data.LeviathanRepTop, a.Reputation)
	assert.Equal(t, data.LeviathanRepAll, b.Reputation)

	// Fixed loot table, ceil(base/2) each.
	for _, agent := range []*world.Agent{a, b} {
		inv := s.InventoryOf(agent.ID)
		assert.Equal(t, 8, inv["moonstone"])
		assert.Equal(t, 6, inv["void_crystals"])
		assert.Equal(t, 4, inv["abyssal_pearl"])
	}

	// Raffle winner by damage tickets.
	assert.Equal(t, 1, s.InventoryOf(a.ID)[data.LegendaryItemID])
	assert.Zero(t, s.InventoryOf(b.ID)[data.LegendaryItemID])

	assert.True(t, m.Resolved)
	assert.Equal(t, 0, m.Outcome)
}

// The killing blow's response must not wait on the chain: the season read and
// the distribution both run on the payout goroutine.
func TestLeviathanPayoutDoesNotBlockAction(t *testing.T) {
	e, s, _ := newTestEngine(t)
	e.deps.Treasury = stallTreasury{delay: 1500 * time.Millisecond}

	a := addAgent(s, "a1", "Brine", data.LeviathanZone)
	b := addAgent(s, "b2", "Coil", data.LeviathanZone)

	lev := s.Leviathan
	lev.IsAlive = true
	lev.SpawnID = "spawn-1"
	lev.HPScaled = true
	lev.MaxHP = 100
	lev.CurrentHP = 1
	lev.Participants = map[string]int{a.ID: 60, b.ID: 39}
	lev.Wallets = map[string]string{a.ID: a.Wallet, b.ID: b.Wallet}

	start := time.Now()
	res, err := e.Execute(a.APIKeyHash, &Command{Action: "challenge"})
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.True(t, res.Success)
	assert.False(t, lev.IsAlive)
	assert.Less(t, elapsed, 500*time.Millisecond)
}

func TestChallengeLeviathanRequiresHuntingParty(t *testing.T) {
	e, s, _ := newTestEngine(t)

	a := addAgent(s, "a1", "Brine", data.LeviathanZone)
	s.Leviathan.IsAlive = true

	res := HandleChallenge(e, a, &Command{Action: "challenge"})
	assert.False(t, res.Success)

	addAgent(s, "b2", "Coil", data.LeviathanZone)
	res = HandleChallenge(e, a, &Command{Action: "challenge"})
	assert.True(t, res.Success)
	assert.Equal(t, 100-data.EnergyPerAttack, a.Energy)
}

func TestChallengeLeviathanScalesHPOnFirstHit(t *testing.T) {
	e, s, _ := newTestEngine(t)

	a := addAgent(s, "a1", "Brine", data.LeviathanZone)
	addAgent(s, "b2", "Coil", data.LeviathanZone)
	addAgent(s, "c3", "Fin", data.LeviathanZone)

	lev := s.Leviathan
	lev.IsAlive = true
	lev.BaseHP = data.LeviathanBaseHP
	lev.HPPerAgent = data.LeviathanHPPerAgent

	res := HandleChallenge(e, a, &Command{Action: "challenge"})
	require.True(t, res.Success)
	assert.True(t, lev.HPScaled)
	assert.Equal(t, data.LeviathanBaseHP+3*data.LeviathanHPPerAgent, lev.MaxHP)
}

func TestChallengeLeviathanPerAgentDamageCap(t *testing.T) {
	e, s, _ := newTestEngine(t)

	a := addAgent(s, "a1", "Brine", data.LeviathanZone)
	addAgent(s, "b2", "Coil", data.LeviathanZone)

	lev := s.Leviathan
	lev.IsAlive = true
	lev.HPScaled = true
	lev.MaxHP = 10000
	lev.CurrentHP = 10000
	lev.Participants[a.ID] = data.LeviathanMaxDmgAgent

	res := HandleChallenge(e, a, &Command{Action: "challenge"})
	assert.False(t, res.Success)
}

func TestNullKillPaysByDamageShare(t *testing.T) {
	e, s, _ := newTestEngine(t)

	a := addAgent(s, "a1", "Brine", data.AbyssZone)
	b := addAgent(s, "b2", "Coil", data.AbyssZone)
	a.Shells, b.Shells = 0, 0

	ab := s.Abyss
	ab.Open(s.Tick)
	ab.Participants = map[string]int{a.ID: 300, b.ID: 200}
	ab.Wallets = map[string]string{a.ID: a.Wallet, b.ID: b.Wallet}
	ab.NullHP = 0

	res := e.nullKill(a, world.OK(""))
	require.True(t, res.Success)

	assert.Equal(t, data.NullShellPool*300/500, a.Shells)
	assert.Equal(t, data.NullShellPool*200/500, b.Shells)

	// The gate resets for the next cycle.
	assert.False(t, ab.IsOpen)
	assert.Equal(t, 0, ab.NullPhase)
	assert.Equal(t, ab.NullMaxHP, ab.NullHP)
	assert.Empty(t, ab.Participants)
	assert.Empty(t, ab.Current)
}

func TestChallengeNullGates(t *testing.T) {
	e, s, _ := newTestEngine(t)

	a := addAgent(s, "a1", "Brine", data.AbyssZone)

	res := HandleChallenge(e, a, &Command{Action: "challenge"})
	assert.False(t, res.Success, "sealed abyss rejects challenges")

	s.Abyss.Open(s.Tick)
	res = HandleChallenge(e, a, &Command{Action: "challenge"})
	assert.False(t, res.Success, "needs three agents in the zone")

	addAgent(s, "b2", "Coil", data.AbyssZone)
	addAgent(s, "c3", "Fin", data.AbyssZone)
	res = HandleChallenge(e, a, &Command{Action: "challenge"})
	assert.True(t, res.Success)
	assert.Equal(t, 100-data.EnergyPerAbyss, a.Energy)
}
