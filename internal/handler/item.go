package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/rules"
	"github.com/reefgo/server/internal/world"
)

// pressureBuffTicks is how long a pressure philter holds the depths off.
const pressureBuffTicks = 50

// HandleUse equips equipment or drinks a consumable from the satchel.
func HandleUse(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	s := e.deps.World
	id := cmd.Item
	if id == "" {
		id = cmd.Target
	}
	item := e.deps.Catalog.Items.Get(id)
	if item == nil {
		return world.Fail(fmt.Sprintf("You do not know what a %q is.", id))
	}
	if !s.HasInInventory(a.ID, id, 1) {
		return world.Fail(fmt.Sprintf("No %s in your satchel.", item.Name))
	}

	if item.IsEquipment() {
		// Remove first so the swap never needs a free slot.
		s.RemoveFromInventory(a.ID, id, 1)
		prev := a.Equipped.Get(item.Slot)
		a.Equipped.Set(item.Slot, id)
		res := world.OK(fmt.Sprintf("You equip the %s.", item.Name))
		res.Change("equipment", fmt.Sprintf("%s: %s", item.Slot, id))
		if prev != "" {
			s.AddToInventory(a, prev, 1)
			res.Change("inventory", fmt.Sprintf("%s stowed", prev))
		}
		return res
	}

	effect, magnitude := parseEffect(item.Effect)
	switch effect {
	case "heal":
		s.RemoveFromInventory(a.ID, id, 1)
		a.SetHP(a.HP + magnitude)
		res := world.OK(fmt.Sprintf("The %s knits your wounds.", item.Name))
		res.Change("hp", fmt.Sprintf("+%d (%d/%d)", magnitude, a.HP, a.MaxHP))
		return res
	case "energy":
		s.RemoveFromInventory(a.ID, id, 1)
		a.SetEnergy(a.Energy + magnitude)
		res := world.OK(fmt.Sprintf("The %s burns away your fatigue.", item.Name))
		res.Change("energy", fmt.Sprintf("+%d (%d/%d)", magnitude, a.Energy, a.MaxEnergy))
		return res
	case "pressure_resist":
		s.RemoveFromInventory(a.ID, id, 1)
		a.Buffs["pressure_resist"] = s.Tick + pressureBuffTicks
		res := world.OK(fmt.Sprintf("The %s settles in your blood. The deep cannot squeeze you for a while.", item.Name))
		res.Change("buff", fmt.Sprintf("pressure_resist for %d ticks", pressureBuffTicks))
		return res
	}
	return world.Fail(fmt.Sprintf("The %s does nothing you can figure out.", item.Name))
}

// parseEffect splits "heal_50" into ("heal", 50). Flat effects come back with
// magnitude 0.
func parseEffect(effect string) (string, int) {
	if i := strings.LastIndex(effect, "_"); i > 0 {
		if n, err := strconv.Atoi(effect[i+1:]); err == nil {
			return effect[:i], n
		}
	}
	return effect, 0
}

// HandleCraft runs a recipe: inputs out, output in, all-or-nothing.
func HandleCraft(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	s := e.deps.World
	id := cmd.Item
	if id == "" {
		id = cmd.Target
	}
	recipe := e.deps.Catalog.Recipes.Get(id)
	if recipe == nil {
		return world.Fail(fmt.Sprintf("You know no recipe for %q.", id))
	}
	for res, qty := range recipe.Inputs {
		if !s.HasInInventory(a.ID, res, qty) {
			return world.Fail(fmt.Sprintf("You need %d %s for that.", qty, res))
		}
	}
	// Consuming inputs always frees at least as many slots as the output
	// needs for our recipes, so the insert cannot be short.
	for res, qty := range recipe.Inputs {
		s.RemoveFromInventory(a.ID, res, qty)
	}
	s.AddToInventory(a, recipe.Output, recipe.Quantity)
	res := world.OK(fmt.Sprintf("You work the materials into %d %s.", recipe.Quantity, recipe.Output))
	res.Change("inventory", fmt.Sprintf("+%d %s", recipe.Quantity, recipe.Output))
	return res
}

// HandleBuy purchases from the shop. The hourly featured item sells at a
// quarter off while its stock lasts; legendaries are never sold.
func HandleBuy(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	s := e.deps.World
	id := cmd.Item
	if id == "" {
		id = cmd.Target
	}
	item := e.deps.Catalog.Items.Get(id)
	if item == nil {
		return world.Fail(fmt.Sprintf("The shop carries no %q.", id))
	}
	if item.Rarity == "legendary" {
		return world.Fail("That is not for sale. It never was.")
	}

	e.rotateFeatured(time.Now())
	price := item.Price
	featured := s.Featured != nil && s.Featured.ItemID == id && s.Featured.Stock > 0
	if featured {
		price = price * 3 / 4
	}
	if a.Shells < price {
		return world.Fail(fmt.Sprintf("The %s costs %d shells; you carry %d.", item.Name, price, a.Shells))
	}
	if s.InventoryCount(a.ID) >= a.InventorySlots {
		return world.Fail("Your satchel is full.")
	}

	a.AddShells(-price)
	s.AddToInventory(a, id, 1)
	if featured {
		s.Featured.Stock--
	}
	res := world.OK(fmt.Sprintf("You buy a %s for %d shells.", item.Name, price))
	res.Change("shells", fmt.Sprintf("-%d", price))
	res.Change("inventory", "+1 "+id)
	if featured {
		res.Change("shop", fmt.Sprintf("featured deal, %d left this hour", s.Featured.Stock))
	}
	return res
}

// rotateFeatured re-rolls the featured pick when the UTC hour turns over.
func (e *Engine) rotateFeatured(now time.Time) {
	s := e.deps.World
	hour := now.UTC().Truncate(time.Hour)
	if s.Featured != nil && s.Featured.Hour.Equal(hour) {
		return
	}
	pool := e.deps.Catalog.Items.FeaturedPool()
	if len(pool) == 0 {
		return
	}
	id := pool[e.deps.Dice.Intn(len(pool))]
	stock := e.deps.Catalog.Items.Get(id).Stock
	if stock <= 0 {
		stock = 5
	}
	s.Featured = &world.FeaturedItem{ItemID: id, Stock: stock, Hour: hour}
}

// HandleVault moves stacks between satchel and vault, or buys capacity.
// Vault access is shallows-only.
func HandleVault(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	s := e.deps.World
	if a.Location != data.StartZone {
		return world.Fail("Your vault is a hollow in the shallows. Go home to use it.")
	}
	qty := cmd.Quantity
	if qty <= 0 {
		qty = 1
	}
	switch cmd.Target {
	case "deposit":
		if !s.HasInInventory(a.ID, cmd.Resource, qty) {
			return world.Fail(fmt.Sprintf("You are not carrying %d %s.", qty, cmd.Resource))
		}
		free := a.VaultSlots - s.VaultCount(a.ID)
		if free < qty {
			return world.Fail(fmt.Sprintf("Your vault has %d free slots.", free))
		}
		s.RemoveFromInventory(a.ID, cmd.Resource, qty)
		s.AddToVault(a, cmd.Resource, qty)
		res := world.OK(fmt.Sprintf("You tuck %d %s into the hollow.", qty, cmd.Resource))
		res.Change("vault", fmt.Sprintf("+%d %s", qty, cmd.Resource))
		return res
	case "withdraw":
		free := a.InventorySlots - s.InventoryCount(a.ID)
		if free < qty {
			return world.Fail(fmt.Sprintf("Your satchel has %d free slots.", free))
		}
		if !s.RemoveFromVault(a.ID, cmd.Resource, qty) {
			return world.Fail(fmt.Sprintf("The vault holds no %d %s.", qty, cmd.Resource))
		}
		s.AddToInventory(a, cmd.Resource, qty)
		res := world.OK(fmt.Sprintf("You retrieve %d %s.", qty, cmd.Resource))
		res.Change("inventory", fmt.Sprintf("+%d %s", qty, cmd.Resource))
		return res
	case "upgrade":
		price := rules.VaultSlotPrice(a.VaultSlots)
		if a.Shells < price {
			return world.Fail(fmt.Sprintf("Another vault slot costs %d shells.", price))
		}
		a.AddShells(-price)
		a.VaultSlots++
		res := world.OK(fmt.Sprintf("You dig the hollow a little deeper. Vault: %d slots.", a.VaultSlots))
		res.Change("shells", fmt.Sprintf("-%d", price))
		return res
	case "expand":
		// Satchel expansion, flat price up to the hard cap.
		price := rules.InventorySlotPrice(a.InventorySlots)
		if price == 0 {
			return world.Fail("Your satchel cannot be stretched any further.")
		}
		if a.Shells < price {
			return world.Fail(fmt.Sprintf("A bigger satchel costs %d shells.", price))
		}
		a.AddShells(-price)
		a.InventorySlots++
		res := world.OK(fmt.Sprintf("You stitch in another pouch. Satchel: %d slots.", a.InventorySlots))
		res.Change("shells", fmt.Sprintf("-%d", price))
		return res
	}
	return world.Fail("Vault how? deposit, withdraw, upgrade or expand.")
}
