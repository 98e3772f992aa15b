package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveMarketPaysWinnersOnce(t *testing.T) {
	s := newTestState(t)
	a := s.CreateAgent("0x1", "Brine", "h1")
	b := s.CreateAgent("0x2", "Coil", "h2")
	a.Shells, b.Shells = 0, 0

	m := s.CreateMarket("Will the Leviathan fall?", []string{"Yes", "No"}, []float64{2.0, 1.5},
		"boss", "spawn-1", 500)
	s.PlaceBet(&Bet{MarketID: m.ID, AgentID: a.ID, OptionIndex: 0, Amount: 50, PotentialWin: 100})
	s.PlaceBet(&Bet{MarketID: m.ID, AgentID: b.ID, OptionIndex: 1, Amount: 30, PotentialWin: 45})
	assert.Equal(t, 80, m.TotalPool)

	paid := s.ResolveMarket(m.ID, 0)
	require.Len(t, paid, 1)
	assert.Equal(t, 100, a.Shells)
	assert.Zero(t, b.Shells)
	assert.True(t, m.Resolved)
	assert.Equal(t, 0, m.Outcome)

	// Re-resolution is a no-op.
	assert.Nil(t, s.ResolveMarket(m.ID, 1))
	assert.Equal(t, 100, a.Shells)
}

func TestExpireMarketsResolvesBossMarketsNo(t *testing.T) {
	s := newTestState(t)
	a := s.CreateAgent("0x1", "Brine", "h1")
	a.Shells = 0

	boss := s.CreateMarket("Will it fall?", []string{"Yes", "No"}, []float64{2.0, 1.5},
		"boss", "spawn-1", 100)
	s.PlaceBet(&Bet{MarketID: boss.ID, AgentID: a.ID, OptionIndex: 1, Amount: 10, PotentialWin: 15})
	open := s.CreateMarket("Still open?", []string{"Yes", "No"}, []float64{2.0, 1.5},
		"boss", "spawn-2", 200)

	assert.Empty(t, s.ExpireMarkets(99))

	swept := s.ExpireMarkets(100)
	require.Len(t, swept, 1)
	assert.True(t, boss.Resolved)
	assert.Equal(t, 1, boss.Outcome)
	assert.Equal(t, 15, a.Shells, "No-backers cash out on expiry")
	assert.False(t, open.Resolved)
}

func TestBetOf(t *testing.T) {
	s := newTestState(t)
	m := s.CreateMarket("?", []string{"Yes", "No"}, []float64{2, 2}, "world", "", 0)
	assert.Nil(t, s.BetOf(m.ID, "a"))
	s.PlaceBet(&Bet{MarketID: m.ID, AgentID: "a", OptionIndex: 0, Amount: 10, PotentialWin: 20})
	assert.NotNil(t, s.BetOf(m.ID, "a"))
}
