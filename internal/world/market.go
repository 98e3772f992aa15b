package world

import "github.com/google/uuid"

// Market is a prediction market. Odds are fixed at creation; payouts are the
// potential win recorded with each bet.
type Market struct {
	ID            string    `json:"id"`
	Question      string    `json:"question"`
	Options       []string  `json:"options"`
	Odds          []float64 `json:"odds"`
	TotalPool     int       `json:"totalPool"`
	Outcome       int       `json:"outcome"` // option index, valid when Resolved
	Resolved      bool      `json:"resolved"`
	ExpiresAtTick int64     `json:"expiresAtTick"`
	Category      string    `json:"category"` // e.g. "boss"
	ReferenceID   string    `json:"referenceId,omitempty"`
}

// Bet is one agent's position; at most one per (market, agent).
type Bet struct {
	MarketID     string `json:"marketId"`
	AgentID      string `json:"agentId"`
	OptionIndex  int    `json:"optionIndex"`
	Amount       int    `json:"amount"`
	PotentialWin int    `json:"potentialWin"`
	PaidOut      bool   `json:"paidOut"`
}

// CreateMarket registers a new unresolved market.
func (s *State) CreateMarket(question string, options []string, odds []float64, category, refID string, expiresAtTick int64) *Market {
	m := &Market{
		ID:            uuid.NewString(),
		Question:      question,
		Options:       options,
		Odds:          odds,
		Category:      category,
		ReferenceID:   refID,
		ExpiresAtTick: expiresAtTick,
	}
	s.Markets[m.ID] = m
	return m
}

// BetOf returns the agent's bet on the market, or nil.
func (s *State) BetOf(marketID, agentID string) *Bet {
	return s.Bets[marketID][agentID]
}

// PlaceBet records a bet; validation belongs to the handler.
func (s *State) PlaceBet(b *Bet) {
	byAgent := s.Bets[b.MarketID]
	if byAgent == nil {
		byAgent = make(map[string]*Bet)
		s.Bets[b.MarketID] = byAgent
	}
	byAgent[b.AgentID] = b
	if m := s.Markets[b.MarketID]; m != nil {
		m.TotalPool += b.Amount
	}
}

// ResolveMarket pays winners their recorded potential win and flags the
// market resolved. Returns the paid bets.
func (s *State) ResolveMarket(marketID string, winningOption int) []*Bet {
	m := s.Markets[marketID]
	if m == nil || m.Resolved {
		return nil
	}
	m.Resolved = true
	m.Outcome = winningOption
	var paid []*Bet
	for _, b := range s.Bets[marketID] {
		if b.OptionIndex != winningOption || b.PaidOut {
			continue
		}
		if a := s.Agent(b.AgentID); a != nil {
			a.AddShells(b.PotentialWin)
		}
		b.PaidOut = true
		paid = append(paid, b)
	}
	return paid
}

// ExpireMarkets lazily auto-resolves boss markets as "No" (option 1) past
// their expiry tick. Returns the markets swept.
func (s *State) ExpireMarkets(tick int64) []*Market {
	var swept []*Market
	for _, m := range s.Markets {
		if m.Resolved || m.ExpiresAtTick == 0 || tick < m.ExpiresAtTick {
			continue
		}
		if m.Category == "boss" && len(m.Options) >= 2 {
			s.ResolveMarket(m.ID, 1)
			swept = append(swept, m)
		}
	}
	return swept
}
