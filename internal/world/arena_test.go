package world

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaddedSize(t *testing.T) {
	assert.Equal(t, 1, PaddedSize(1))
	assert.Equal(t, 2, PaddedSize(2))
	assert.Equal(t, 8, PaddedSize(5))
	assert.Equal(t, 32, PaddedSize(20))
	assert.Equal(t, 128, PaddedSize(128))
}

// decideRound picks the first listed fighter of every undecided match.
func decideRound(tour *Tournament) string {
	for _, m := range tour.Matches(tour.CurrentRound) {
		if m.Status == MatchFinished {
			continue
		}
		m.Winner = m.Agent1
		if m.Agent1 == ByeSentinel {
			m.Winner = m.Agent2
		}
		m.Status = MatchFinished
	}
	return tour.AdvanceRound()
}

func TestBracketFiveEntrants(t *testing.T) {
	tour := NewTournament("Tide Cup", 100, 500)
	for i := 0; i < 5; i++ {
		tour.Participants = append(tour.Participants, fmt.Sprintf("agent-%d", i))
	}

	tour.BuildBracket(append([]string(nil), tour.Participants...))
	assert.Equal(t, 3, tour.TotalRounds)
	assert.Equal(t, 1, tour.CurrentRound)

	// 5 entrants pad to 8: the half-bye and double-bye matches resolve at
	// build time, the double bye forwarding its sentinel to round 2.
	round1 := tour.Matches(1)
	require.Len(t, round1, 4)
	var winners []string
	for _, m := range round1 {
		if m.Status == MatchFinished {
			winners = append(winners, m.Winner)
		}
	}
	assert.ElementsMatch(t, []string{"agent-4", ByeSentinel}, winners)

	champion := ""
	for round := 0; round < 3 && champion == ""; round++ {
		champion = decideRound(tour)
	}
	require.NotEmpty(t, champion)
	assert.Equal(t, TournamentFinished, tour.Status)
	assert.Equal(t, champion, tour.Champion)

	// paddedSize−1 decided matches once a champion exists.
	assert.Equal(t, 7, tour.FinishedMatches())
}

func TestBracketPowerOfTwoEntrants(t *testing.T) {
	tour := NewTournament("Tide Cup", 100, 500)
	for i := 0; i < 8; i++ {
		tour.Participants = append(tour.Participants, fmt.Sprintf("agent-%d", i))
	}
	tour.BuildBracket(append([]string(nil), tour.Participants...))
	assert.Equal(t, 3, tour.TotalRounds)
	for _, m := range tour.Matches(1) {
		assert.Equal(t, MatchPending, m.Status)
	}

	champion := ""
	for champion == "" {
		champion = decideRound(tour)
	}
	assert.Equal(t, "agent-0", champion)
	assert.Equal(t, 7, tour.FinishedMatches())
}

func TestAdvanceRoundWaitsForFullRound(t *testing.T) {
	tour := NewTournament("Tide Cup", 100, 500)
	tour.BuildBracket([]string{"a", "b", "c", "d"})

	m := tour.Matches(1)[0]
	m.Winner = "a"
	m.Status = MatchFinished
	assert.Empty(t, tour.AdvanceRound())
	assert.Equal(t, 1, tour.CurrentRound)
}

func TestDuelOf(t *testing.T) {
	s := newTestState(t)
	d := &Duel{ID: "d1", Challenger: "a", Opponent: "b", Status: DuelActive, Bets: map[string]*DuelBet{}}
	s.Duels[d.ID] = d

	assert.Same(t, d, s.DuelOf("a"))
	assert.Same(t, d, s.DuelOf("b"))
	assert.Nil(t, s.DuelOf("c"))

	d.Status = DuelFinished
	assert.Nil(t, s.DuelOf("a"))
}
