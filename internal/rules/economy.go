package rules

import "github.com/reefgo/server/internal/data"

// VaultSlotPrice is linear in the slots already owned.
func VaultSlotPrice(currentSlots int) int {
	return data.VaultSlotPriceStep * (currentSlots + 1)
}

// InventorySlotPrice is flat up to the hard cap (0 = cap reached).
func InventorySlotPrice(currentSlots int) int {
	if currentSlots >= data.MaxInventorySlots {
		return 0
	}
	return data.InventorySlotPrice
}

// PotentialWin is the fixed-odds prediction payout: ⌊amount × odds⌋.
func PotentialWin(amount int, odds float64) int {
	return int(float64(amount) * odds)
}
