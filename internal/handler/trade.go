package handler

import (
	"fmt"
	"strings"

	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/world"
)

// HandleTrade manages direct swaps: offer, accept, decline, list.
func HandleTrade(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	switch cmd.Target {
	case "offer":
		return e.tradeOffer(a, cmd)
	case "accept":
		return e.tradeAccept(a, cmd.Item)
	case "decline":
		return e.tradeDecline(a, cmd.Item)
	case "list", "":
		return e.tradeList(a)
	}
	return world.Fail("Trade how? offer, accept, decline or list.")
}

func (e *Engine) tradeOffer(a *world.Agent, cmd *Command) *world.Result {
	s := e.deps.World
	to := s.AgentByName(cmd.To)
	if to == nil {
		return world.Fail(fmt.Sprintf("No one called %q to trade with.", cmd.To))
	}
	if to.ID == a.ID {
		return world.Fail("Trading with yourself moves nothing.")
	}
	if cmd.OfferResource == "" || cmd.OfferQuantity <= 0 ||
		cmd.RequestResource == "" || cmd.RequestQuantity <= 0 {
		return world.Fail("An offer needs both legs: what you give and what you want.")
	}
	if !s.HasInInventory(a.ID, cmd.OfferResource, cmd.OfferQuantity) {
		return world.Fail(fmt.Sprintf("You are not carrying %d %s.", cmd.OfferQuantity, cmd.OfferResource))
	}
	t := s.CreateTrade(a.ID, to.ID,
		world.TradeLeg{Resource: cmd.OfferResource, Quantity: cmd.OfferQuantity},
		world.TradeLeg{Resource: cmd.RequestResource, Quantity: cmd.RequestQuantity})
	res := world.OK(fmt.Sprintf("You offer %s %d %s for %d %s.",
		to.Name, cmd.OfferQuantity, cmd.OfferResource, cmd.RequestQuantity, cmd.RequestResource))
	res.Change("trade", t.ID)
	return res
}

// tradeAccept re-validates both inventories at accept time; either side having
// spent the goods voids the offer.
func (e *Engine) tradeAccept(a *world.Agent, tradeID string) *world.Result {
	s := e.deps.World
	t := s.Trades[tradeID]
	if t == nil || t.Status != world.TradePending {
		return world.Fail("That offer is gone.")
	}
	if t.To != a.ID {
		return world.Fail("That offer was not made to you.")
	}
	from := s.Agent(t.From)
	if from == nil {
		t.Status = world.TradeCancelled
		return world.Fail("The offering party has vanished.")
	}
	if !s.HasInInventory(from.ID, t.Offering.Resource, t.Offering.Quantity) {
		t.Status = world.TradeCancelled
		return world.Fail(fmt.Sprintf("%s no longer has the goods; the offer collapses.", from.Name))
	}
	if !s.HasInInventory(a.ID, t.Requesting.Resource, t.Requesting.Quantity) {
		return world.Fail(fmt.Sprintf("You no longer have %d %s to give.",
			t.Requesting.Quantity, t.Requesting.Resource))
	}

	// Net slot change must fit on both sides before anything moves.
	if s.InventoryCount(a.ID)-t.Requesting.Quantity+t.Offering.Quantity > a.InventorySlots {
		return world.Fail("You have no room for what they are offering.")
	}
	if s.InventoryCount(from.ID)-t.Offering.Quantity+t.Requesting.Quantity > from.InventorySlots {
		return world.Fail(fmt.Sprintf("%s has no room for your side of the deal.", from.Name))
	}

	s.RemoveFromInventory(from.ID, t.Offering.Resource, t.Offering.Quantity)
	s.RemoveFromInventory(a.ID, t.Requesting.Resource, t.Requesting.Quantity)
	s.AddToInventory(a, t.Offering.Resource, t.Offering.Quantity)
	s.AddToInventory(from, t.Requesting.Resource, t.Requesting.Quantity)
	t.Status = world.TradeCompleted

	res := world.OK(fmt.Sprintf("Deal. %d %s for %d %s with %s.",
		t.Offering.Quantity, t.Offering.Resource,
		t.Requesting.Quantity, t.Requesting.Resource, from.Name))
	res.Change("inventory", fmt.Sprintf("+%d %s, -%d %s",
		t.Offering.Quantity, t.Offering.Resource,
		t.Requesting.Quantity, t.Requesting.Resource))
	return res
}

func (e *Engine) tradeDecline(a *world.Agent, tradeID string) *world.Result {
	s := e.deps.World
	t := s.Trades[tradeID]
	if t == nil || t.Status != world.TradePending {
		return world.Fail("That offer is gone.")
	}
	if t.To != a.ID && t.From != a.ID {
		return world.Fail("That offer is not yours to touch.")
	}
	t.Status = world.TradeCancelled
	return world.OK("The offer is withdrawn.")
}

func (e *Engine) tradeList(a *world.Agent) *world.Result {
	s := e.deps.World
	pending := s.PendingTradesFor(a.ID)
	if len(pending) == 0 {
		return world.OK("No offers await you.")
	}
	var b strings.Builder
	b.WriteString("Offers for you:")
	for _, t := range pending {
		from := "someone"
		if f := s.Agent(t.From); f != nil {
			from = f.Name
		}
		fmt.Fprintf(&b, " [%s] %s gives %d %s for %d %s.",
			t.ID, from, t.Offering.Quantity, t.Offering.Resource,
			t.Requesting.Quantity, t.Requesting.Resource)
	}
	return world.OK(b.String())
}

// HandleMarket manages the open listing board: list, buy, cancel, view.
// Listed goods are escrowed out of the seller's satchel until resolution.
func HandleMarket(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	switch cmd.Target {
	case "list":
		return e.marketList(a, cmd)
	case "buy":
		return e.marketBuy(a, cmd.Item)
	case "cancel":
		return e.marketCancel(a, cmd.Item)
	case "view", "":
		return e.marketView()
	}
	return world.Fail("Market how? list, buy, cancel or view.")
}

func (e *Engine) marketList(a *world.Agent, cmd *Command) *world.Result {
	s := e.deps.World
	if cmd.Resource == "" || cmd.Quantity <= 0 || cmd.Amount <= 0 {
		return world.Fail("Listing needs a resource, a quantity and a price.")
	}
	if s.ActiveListingsBy(a.ID) >= data.MaxActiveListings {
		return world.Fail(fmt.Sprintf("The board allows %d listings per seller.", data.MaxActiveListings))
	}
	if !s.RemoveFromInventory(a.ID, cmd.Resource, cmd.Quantity) {
		return world.Fail(fmt.Sprintf("You are not carrying %d %s.", cmd.Quantity, cmd.Resource))
	}
	l := s.CreateListing(a.ID, a.Name, cmd.Resource, cmd.Quantity, cmd.Amount)
	res := world.OK(fmt.Sprintf("Listed %d %s at %d shells.", cmd.Quantity, cmd.Resource, cmd.Amount))
	res.Change("listing", l.ID)
	return res
}

func (e *Engine) marketBuy(a *world.Agent, listingID string) *world.Result {
	s := e.deps.World
	l := s.Listings[listingID]
	if l == nil || l.Status != world.ListingActive {
		return world.Fail("That listing is gone.")
	}
	if l.SellerID == a.ID {
		return world.Fail("Buying your own goods back helps no one.")
	}
	if a.Shells < l.PriceShells {
		return world.Fail(fmt.Sprintf("It costs %d shells; you carry %d.", l.PriceShells, a.Shells))
	}
	if s.InventoryCount(a.ID)+l.Quantity > a.InventorySlots {
		return world.Fail("You have no room for that much.")
	}

	a.AddShells(-l.PriceShells)
	if seller := s.Agent(l.SellerID); seller != nil {
		seller.AddShells(l.PriceShells)
	}
	s.AddToInventory(a, l.Resource, l.Quantity)
	l.Status = world.ListingSold

	res := world.OK(fmt.Sprintf("You buy %d %s from %s for %d shells.",
		l.Quantity, l.Resource, l.SellerName, l.PriceShells))
	res.Change("shells", fmt.Sprintf("-%d", l.PriceShells))
	res.Change("inventory", fmt.Sprintf("+%d %s", l.Quantity, l.Resource))
	return res
}

func (e *Engine) marketCancel(a *world.Agent, listingID string) *world.Result {
	s := e.deps.World
	l := s.Listings[listingID]
	if l == nil || l.Status != world.ListingActive {
		return world.Fail("That listing is gone.")
	}
	if l.SellerID != a.ID {
		return world.Fail("Not your listing.")
	}
	if s.InventoryCount(a.ID)+l.Quantity > a.InventorySlots {
		return world.Fail("You have no room to take the goods back.")
	}
	l.Status = world.ListingCancelled
	s.AddToInventory(a, l.Resource, l.Quantity)
	res := world.OK(fmt.Sprintf("You pull your %s off the board.", l.Resource))
	res.Change("inventory", fmt.Sprintf("+%d %s returned", l.Quantity, l.Resource))
	return res
}

func (e *Engine) marketView() *world.Result {
	s := e.deps.World
	active := s.ActiveListings()
	if len(active) == 0 {
		return world.OK("The board is bare.")
	}
	var b strings.Builder
	b.WriteString("On the board:")
	for _, l := range active {
		fmt.Fprintf(&b, " [%s] %d %s at %d shells (%s).",
			l.ID, l.Quantity, l.Resource, l.PriceShells, l.SellerName)
	}
	return world.OK(b.String())
}
