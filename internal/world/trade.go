package world

import "github.com/google/uuid"

type TradeStatus string

const (
	TradePending   TradeStatus = "pending"
	TradeCompleted TradeStatus = "completed"
	TradeCancelled TradeStatus = "cancelled"
)

// TradeLeg is one side of an offer: a resource and quantity.
type TradeLeg struct {
	Resource string `json:"resource"`
	Quantity int    `json:"quantity"`
}

// TradeOffer is a direct agent-to-agent swap. Inventories are re-validated at
// accept time; a consumed side cancels the offer.
type TradeOffer struct {
	ID          string      `json:"id"`
	From        string      `json:"from"`
	To          string      `json:"to"`
	Offering    TradeLeg    `json:"offering"`
	Requesting  TradeLeg    `json:"requesting"`
	Status      TradeStatus `json:"status"`
	CreatedTick int64       `json:"createdTick"`
}

func (s *State) CreateTrade(from, to string, offering, requesting TradeLeg) *TradeOffer {
	t := &TradeOffer{
		ID:          uuid.NewString(),
		From:        from,
		To:          to,
		Offering:    offering,
		Requesting:  requesting,
		Status:      TradePending,
		CreatedTick: s.Tick,
	}
	s.Trades[t.ID] = t
	return t
}

// PendingTradesFor lists offers addressed to the agent, insertion-ordered by
// created tick.
func (s *State) PendingTradesFor(agentID string) []*TradeOffer {
	var out []*TradeOffer
	for _, t := range s.Trades {
		if t.To == agentID && t.Status == TradePending {
			out = append(out, t)
		}
	}
	sortTradesByTick(out)
	return out
}

func sortTradesByTick(ts []*TradeOffer) {
	for i := 1; i < len(ts); i++ {
		for j := i; j > 0 && ts[j-1].CreatedTick > ts[j].CreatedTick; j-- {
			ts[j-1], ts[j] = ts[j], ts[j-1]
		}
	}
}

type ListingStatus string

const (
	ListingActive    ListingStatus = "active"
	ListingSold      ListingStatus = "sold"
	ListingCancelled ListingStatus = "cancelled"
)

// Listing is a market sale; the listed quantity is escrowed out of the
// seller's inventory until sold or cancelled.
type Listing struct {
	ID          string        `json:"id"`
	SellerID    string        `json:"sellerId"`
	SellerName  string        `json:"sellerName"`
	Resource    string        `json:"resource"`
	Quantity    int           `json:"quantity"`
	PriceShells int           `json:"priceShells"`
	Status      ListingStatus `json:"status"`
	CreatedTick int64         `json:"createdTick"`
}

func (s *State) CreateListing(sellerID, sellerName, resource string, qty, price int) *Listing {
	l := &Listing{
		ID:          uuid.NewString(),
		SellerID:    sellerID,
		SellerName:  sellerName,
		Resource:    resource,
		Quantity:    qty,
		PriceShells: price,
		Status:      ListingActive,
		CreatedTick: s.Tick,
	}
	s.Listings[l.ID] = l
	return l
}

// ActiveListingsBy counts a seller's live listings (≤5 allowed).
func (s *State) ActiveListingsBy(sellerID string) int {
	n := 0
	for _, l := range s.Listings {
		if l.SellerID == sellerID && l.Status == ListingActive {
			n++
		}
	}
	return n
}

// ActiveListings returns live listings, oldest first (strict first-come for
// buyers).
func (s *State) ActiveListings() []*Listing {
	var out []*Listing
	for _, l := range s.Listings {
		if l.Status == ListingActive {
			out = append(out, l)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].CreatedTick > out[j].CreatedTick; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
