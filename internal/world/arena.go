package world

import (
	"math"

	"github.com/google/uuid"
)

type DuelStatus string

const (
	DuelPending  DuelStatus = "pending"
	DuelActive   DuelStatus = "active"
	DuelFinished DuelStatus = "finished"
)

// DuelBet is a spectator wager on one side of a duel.
type DuelBet struct {
	OnAgent string `json:"onAgent"`
	Amount  int    `json:"amount"`
}

// Duel is a pairwise wagered arena fight. Both wagers are escrowed on accept;
// the winner takes 2× wager and backers of the winner take 2× their stake.
type Duel struct {
	ID           string             `json:"id"`
	Challenger   string             `json:"challenger"`
	Opponent     string             `json:"opponent"`
	Wager        int                `json:"wager"`
	Status       DuelStatus         `json:"status"`
	ChallengerHP int                `json:"challengerHp"`
	OpponentHP   int                `json:"opponentHp"`
	MaxHP        int                `json:"maxHp"`
	Turn         string             `json:"turn"` // agent id to act
	Bets         map[string]*DuelBet `json:"bets"` // bettor id → bet
	Winner       string             `json:"winner,omitempty"`
	CreatedTick  int64              `json:"createdTick"`
}

func (d *Duel) IsParticipant(agentID string) bool {
	return agentID == d.Challenger || agentID == d.Opponent
}

func (d *Duel) OpponentOf(agentID string) string {
	if agentID == d.Challenger {
		return d.Opponent
	}
	return d.Challenger
}

// DuelOf returns the pending or active duel the agent participates in.
func (s *State) DuelOf(agentID string) *Duel {
	for _, d := range s.Duels {
		if d.Status != DuelFinished && d.IsParticipant(agentID) {
			return d
		}
	}
	return nil
}

type TournamentStatus string

const (
	TournamentRegistration TournamentStatus = "registration"
	TournamentActive       TournamentStatus = "active"
	TournamentFinished     TournamentStatus = "finished"
)

type MatchStatus string

const (
	MatchPending  MatchStatus = "pending"
	MatchActive   MatchStatus = "active"
	MatchFinished MatchStatus = "finished"
)

// ByeSentinel marks an empty bracket slot that auto-advances its partner.
const ByeSentinel = "__BYE__"

// BracketMatch is one slot of the single-elimination bracket.
type BracketMatch struct {
	Round      int         `json:"round"`
	MatchIndex int         `json:"matchIndex"`
	Agent1     string      `json:"agent1,omitempty"` // "" = unpopulated, ByeSentinel = bye
	Agent2     string      `json:"agent2,omitempty"`
	Winner     string      `json:"winner,omitempty"`
	Agent1HP   int         `json:"agent1Hp"`
	Agent2HP   int         `json:"agent2Hp"`
	Status     MatchStatus `json:"status"`
}

// Tournament is a bracketed single-elimination event.
type Tournament struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"name"`
	Status               TournamentStatus `json:"status"`
	EntryFee             int              `json:"entryFee"`
	PrizePool            int              `json:"prizePool"`
	Tier                 string           `json:"tier"`
	TierBps              int              `json:"tierBps"`
	Participants         []string         `json:"participants"`
	Bracket              []*BracketMatch  `json:"bracket"`
	CurrentRound         int              `json:"currentRound"`
	TotalRounds          int              `json:"totalRounds"`
	Champion             string           `json:"champion,omitempty"`
	RegistrationDeadline int64            `json:"registrationDeadline"` // tick
}

func NewTournament(name string, entryFee int, deadlineTick int64) *Tournament {
	return &Tournament{
		ID:                   uuid.NewString(),
		Name:                 name,
		Status:               TournamentRegistration,
		EntryFee:             entryFee,
		RegistrationDeadline: deadlineTick,
	}
}

func (t *Tournament) IsRegistered(agentID string) bool {
	for _, p := range t.Participants {
		if p == agentID {
			return true
		}
	}
	return false
}

// PaddedSize is the next power of two ≥ participant count.
func PaddedSize(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

// BuildBracket pads the (already shuffled) participants with BYE sentinels to
// a power of two, lays out round 1, and creates placeholder matches for every
// later round. First-round byes auto-advance immediately.
func (t *Tournament) BuildBracket(shuffled []string) {
	size := PaddedSize(len(shuffled))
	slots := make([]string, size)
	copy(slots, shuffled)
	for i := len(shuffled); i < size; i++ {
		slots[i] = ByeSentinel
	}

	t.TotalRounds = int(math.Log2(float64(size)))
	t.CurrentRound = 1
	t.Bracket = nil

	for i := 0; i < size/2; i++ {
		m := &BracketMatch{
			Round:      1,
			MatchIndex: i,
			Agent1:     slots[2*i],
			Agent2:     slots[2*i+1],
			Status:     MatchPending,
		}
		m.resolveBye()
		t.Bracket = append(t.Bracket, m)
	}
	matches := size / 4
	for round := 2; round <= t.TotalRounds; round++ {
		for i := 0; i < matches; i++ {
			t.Bracket = append(t.Bracket, &BracketMatch{
				Round:      round,
				MatchIndex: i,
				Status:     MatchPending,
			})
		}
		matches /= 2
	}
}

// resolveBye finishes a match immediately when one side is a bye. A double
// bye advances a bye so the next round resolves it the same way.
func (m *BracketMatch) resolveBye() {
	a1Bye := m.Agent1 == ByeSentinel
	a2Bye := m.Agent2 == ByeSentinel
	switch {
	case a1Bye && a2Bye:
		m.Winner = ByeSentinel
		m.Status = MatchFinished
	case a1Bye:
		m.Winner = m.Agent2
		m.Status = MatchFinished
	case a2Bye:
		m.Winner = m.Agent1
		m.Status = MatchFinished
	}
}

// Matches returns the matches of one round ordered by index.
func (t *Tournament) Matches(round int) []*BracketMatch {
	var out []*BracketMatch
	for _, m := range t.Bracket {
		if m.Round == round {
			out = append(out, m)
		}
	}
	return out
}

// RoundFinished reports whether every match of the round is decided.
func (t *Tournament) RoundFinished(round int) bool {
	for _, m := range t.Matches(round) {
		if m.Status != MatchFinished {
			return false
		}
	}
	return true
}

// AdvanceRound seeds round N+1 from round N winners, resolving byes.
// Returns the champion id when the final match is done, else "".
func (t *Tournament) AdvanceRound() string {
	if !t.RoundFinished(t.CurrentRound) {
		return ""
	}
	winners := make([]string, 0)
	for _, m := range t.Matches(t.CurrentRound) {
		winners = append(winners, m.Winner)
	}
	if t.CurrentRound == t.TotalRounds {
		t.Champion = winners[0]
		t.Status = TournamentFinished
		return t.Champion
	}
	next := t.Matches(t.CurrentRound + 1)
	for i, m := range next {
		m.Agent1 = winners[2*i]
		m.Agent2 = winners[2*i+1]
		m.resolveBye()
	}
	t.CurrentRound++
	// A round that is nothing but byes collapses immediately.
	if t.RoundFinished(t.CurrentRound) {
		return t.AdvanceRound()
	}
	return ""
}

// FinishedMatches counts decided non-placeholder matches (bracket invariant:
// equals paddedSize−1 when a champion exists).
func (t *Tournament) FinishedMatches() int {
	n := 0
	for _, m := range t.Bracket {
		if m.Status == MatchFinished {
			n++
		}
	}
	return n
}
