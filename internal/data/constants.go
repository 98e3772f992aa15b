package data

// World tuning constants. These are product balance values: tests assert
// them literally, so change them together with the test suite.

const (
	// Starting agent stats.
	StartZone      = "shallows"
	StartHP        = 100
	StartEnergy    = 100
	StartShells    = 50
	StartInvSlots  = 10
	StartVaultSlot = 5

	// Slot economics.
	MaxInventorySlots   = 20
	InventorySlotPrice  = 100 // flat, up to MaxInventorySlots
	VaultSlotPriceStep  = 25  // price = step × (currentSlots+1)
	MaxActiveListings   = 5
	MarketMinBet        = 10
	MaxPartySize        = 4
	DungeonRunsPerDay   = 5
	GuardianKillGraceTk = 50 // ticks a killed guardian stays down per agent

	// Energy costs.
	EnergyPerAttack  = 5
	EnergyPerGather  = 5
	EnergyPerMove    = 5
	EnergyPerDungeon = 10
	EnergyPerAbyss   = 25

	// Combat.
	BasePlayerDamage  = 10 // + U(0,10)
	FleeDamageFactor  = 0.5
	PvPFleeBase       = 0.50
	PvPFleePerLevel   = 0.05
	PvPFleeMin        = 0.20
	PvPFleeMax        = 0.90
	PvPForfeitRatio   = 0.20 // of maxHp, charged to the inactive side
	PvPLootStacks     = 3    // at most this many stacks, half each, on kill
	PvPWinXP          = 40
	PvPFlagTicks      = 30 // rare-resource gather flag duration
	UnderLevelPenalty = 0.15

	// Death.
	DeathPenaltyRate = 0.15
	DeathPenaltyMin  = 5
	DeathPenaltyMax  = 500

	// Environmental.
	PressureDamage = 5 // deep_trench, per non-move action

	// XP rate limits (per agent per UTC day).
	MoveXP            = 2
	MoveXPDailyCap    = 20
	BroadcastXP       = 5
	BroadcastDailyCap = 10

	// Leviathan.
	LeviathanZone         = "leviathans_lair"
	LeviathanBaseHP       = 5000
	LeviathanHPPerAgent   = 500
	LeviathanMaxDmgAgent  = 1000
	LeviathanHitBase      = 15 // + U(0,20)
	LeviathanDamagePerHit = 25 // + U(0,10)
	LeviathanEnrageRatio  = 0.25
	LeviathanEnrageMult   = 2.0
	LeviathanSpawnMinTk   = 360
	LeviathanSpawnMaxTk   = 720
	LeviathanAnnounceMin  = 5
	LeviathanAnnounceMax  = 10
	LeviathanMinAgents    = 2
	LeviathanEqualShare   = 0.60 // equal pool fraction of the MON pool
	LegendaryDropChance   = 0.25
	LegendaryItemID       = "tideforged_trident"
	LeviathanRepAll       = 50
	LeviathanRepTop       = 75
	LeviathanShellPool    = 1500 // shells split evenly (ceil) among participants

	// Abyss / The Null.
	AbyssZone          = "the_abyss"
	NullMaxHP          = 10000
	NullMaxDmgAgent    = 500
	NullHitBase        = 20 // + phase×15 + U(0,20)
	NullHitPerPhase    = 15
	NullPhase2Ratio    = 0.6
	NullPhase3Ratio    = 0.3
	NullMinAgents      = 3
	NullShellPool      = 2000
	AbyssEventDuration = 500 // ticks the gate stays open before decay
	AbyssDecayRatio    = 0.5

	// Arena / tournament.
	MinTournamentPlayers   = 20
	TournamentRegDeadline  = 500 // ticks
	TournamentEntryFee     = 100 // shells, pooled into the prize
	DuelMaxHP              = 100
	SpectatorBetMultiplier = 2

	// Cooldowns (wall clock).
	ActionCooldownSec    = 5
	RestCooldownSec      = 60
	BroadcastCooldownSec = 60
	PartyInviteSec       = 60
	PvPInactivitySec     = 60
)

// AbyssRequirements is the season-finale global gate: every entry must reach
// its requirement before the Abyss opens. "shells" is contributed via the
// contribute verb, everything else via offer=<resource>:<qty>.
func AbyssRequirements() map[string]int {
	return map[string]int{
		"shells":        5000,
		"kelp_fiber":    800,
		"coral_shards":  500,
		"moonstone":     200,
		"void_crystals": 100,
		"abyssal_pearl": 40,
	}
}

// TournamentTier maps a final participant count to (tier name, MON share in
// basis points). Bronze pays no MON.
func TournamentTier(participants int) (string, int) {
	switch {
	case participants >= 128:
		return "Legendary", 10000
	case participants >= 64:
		return "Gold", 5000
	case participants >= 32:
		return "Silver", 2500
	default:
		return "Bronze", 0
	}
}
