package handler

import (
	"fmt"
	"sort"
	"time"

	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/rules"
	"github.com/reefgo/server/internal/treasury"
	"github.com/reefgo/server/internal/world"
)

// leviathanLoot is the fixed kill table; each participant receives
// max(1, ceil(base/participants)) of every entry.
var leviathanLoot = []struct {
	Resource string
	Base     int
}{
	{"moonstone", 16},
	{"void_crystals", 12},
	{"abyssal_pearl", 8},
}

// HandleChallenge engages whichever horror lives where the agent stands: the
// Leviathan in its lair, The Null in the open Abyss.
func HandleChallenge(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	switch a.Location {
	case data.LeviathanZone:
		return e.challengeLeviathan(a)
	case data.AbyssZone:
		return e.challengeNull(a)
	}
	return world.Fail("Nothing in these waters answers a challenge.")
}

func (e *Engine) challengeLeviathan(a *world.Agent) *world.Result {
	s := e.deps.World
	lev := s.Leviathan
	if !lev.IsAlive {
		return world.Fail("The lair is empty. The Leviathan sleeps elsewhere.")
	}
	inLair := e.aliveInZone(data.LeviathanZone)
	if inLair < data.LeviathanMinAgents {
		return world.Fail(fmt.Sprintf(
			"The Leviathan ignores lone prey. At least %d hunters must stand here.",
			data.LeviathanMinAgents))
	}
	if a.Energy < data.EnergyPerAttack {
		return world.Fail("You are too exhausted to fight.")
	}

	// First blood of a spawn locks the HP scale to the hunting party size.
	if !lev.HPScaled {
		lev.MaxHP = lev.BaseHP + inLair*lev.HPPerAgent
		lev.CurrentHP = lev.MaxHP
		lev.HPScaled = true
	}

	allowance := data.LeviathanMaxDmgAgent - lev.Participants[a.ID]
	if allowance <= 0 {
		return world.Fail("You have dealt all the harm one hunter may. Let the others finish it.")
	}
	a.SetEnergy(a.Energy - data.EnergyPerAttack)

	roll := data.LeviathanHitBase + e.deps.Dice.Intn(21)
	dmg := rules.CalculateDamage(a, roll, e.deps.Catalog.Items, e.deps.Catalog.Factions, e.deps.Dice)
	dealt := dmg.Damage
	if dealt > allowance {
		dealt = allowance
	}
	if dealt > lev.CurrentHP {
		dealt = lev.CurrentHP
	}
	lev.Participants[a.ID] += dealt
	lev.Wallets[a.ID] = a.Wallet
	lev.CurrentHP -= dealt

	res := world.OK("")
	res.Change("energy", fmt.Sprintf("-%d", data.EnergyPerAttack))
	res.Change("boss", fmt.Sprintf("%d damage dealt", dealt))

	if lev.CurrentHP <= 0 {
		return e.leviathanKill(a, res)
	}

	raw := float64(data.LeviathanDamagePerHit + e.deps.Dice.Intn(11))
	zone := e.deps.Catalog.Zones.Get(data.LeviathanZone)
	if rules.CheckZoneAccess(a, zone).UnderLeveled {
		raw *= 2
	}
	if float64(lev.CurrentHP)/float64(lev.MaxHP) <= data.LeviathanEnrageRatio {
		raw *= data.LeviathanEnrageMult
	}
	taken := rules.ReduceDamage(int(raw), rules.CalculateDamageReduction(a, e.deps.Catalog.Items))
	a.SetHP(a.HP - taken)

	res.Narrative = fmt.Sprintf("Your strike lands for %d. The Leviathan (%d/%d) lashes back for %d.",
		dealt, lev.CurrentHP, lev.MaxHP, taken)
	res.Change("hp", fmt.Sprintf("-%d", taken))
	if a.HP == 0 {
		e.killAgent(a, "the Leviathan", res)
	}
	return res
}

// leviathanKill settles a spawn: shells, reputation, the fixed loot table, the
// legendary raffle, boss market resolution, and the on-chain MON split
// (60% equal, 40% by damage).
func (e *Engine) leviathanKill(killer *world.Agent, res *world.Result) *world.Result {
	s := e.deps.World
	lev := s.Leviathan
	lev.IsAlive = false
	lev.LastDeathTick = s.Tick
	lev.NextSpawnTick = s.Tick + int64(rules.RollRange(e.deps.Dice,
		data.LeviathanSpawnMinTk, data.LeviathanSpawnMaxTk))
	lev.Announced = false
	e.deps.Metrics.BossKills.Inc()

	ids := sortedKeys(lev.Participants)
	n := len(ids)
	total := lev.TotalDamage()
	if total == 0 {
		total = 1
	}
	top := lev.TopDamager()

	shellShare := (data.LeviathanShellPool + n - 1) / n
	for _, id := range ids {
		p := s.Agent(id)
		if p == nil {
			continue
		}
		p.AddShells(shellShare)
		if id == top {
			p.Reputation += data.LeviathanRepTop
		} else {
			p.Reputation += data.LeviathanRepAll
		}
		for _, entry := range leviathanLoot {
			qty := (entry.Base + n - 1) / n
			if qty < 1 {
				qty = 1
			}
			s.AddToInventory(p, entry.Resource, qty)
		}
	}

	// Legendary raffle: one winner, tickets by damage.
	legendary := ""
	if e.deps.Dice.Float64() < data.LegendaryDropChance {
		tickets := make([]int, n)
		totalTickets := 0
		for i, id := range ids {
			t := lev.Participants[id] / 10
			if t < 1 {
				t = 1
			}
			tickets[i] = t
			totalTickets += t
		}
		pick := int(e.deps.Dice.Float64() * float64(totalTickets))
		if pick >= totalTickets {
			pick = totalTickets - 1
		}
		for i, id := range ids {
			if pick < tickets[i] {
				if w := s.Agent(id); w != nil {
					s.AddToInventory(w, data.LegendaryItemID, 1)
					legendary = w.Name
				}
				break
			}
			pick -= tickets[i]
		}
	}

	for _, m := range s.Markets {
		if !m.Resolved && m.Category == "boss" && m.ReferenceID == lev.SpawnID {
			s.ResolveMarket(m.ID, 0)
		}
	}

	e.payLeviathanPool(lev, ids, total)

	for _, id := range ids {
		if id == killer.ID {
			continue
		}
		s.AddMessage(world.Message{
			From: killer.ID,
			To:   id,
			Type: "dm",
			Body: fmt.Sprintf("The Leviathan is down. Your share: %d shells, %d of %d total damage.",
				shellShare, lev.Participants[id], total),
			CreatedAt: time.Now(),
		})
	}

	res.Narrative = "The Leviathan shudders, rolls, and sinks. The lair falls silent."
	if legendary != "" {
		res.Narrative += fmt.Sprintf(" %s pries the %s from its hide.", legendary, data.LegendaryItemID)
	}
	res.Change("boss", "leviathan slain")
	res.Change("shells", fmt.Sprintf("+%d", shellShare))
	ev := s.LogEvent("leviathan_kill",
		fmt.Sprintf("The Leviathan has been slain by %d hunters. %s dealt the final blow.", n, killer.Name),
		data.LeviathanZone, ids...)
	e.deps.Events.Publish(ev)
	return res
}

// payLeviathanPool converts the hybrid split into basis points per wallet and
// fires the distribution. The season pool is read and priced on the payout
// goroutine, so the killing action never waits on the chain.
func (e *Engine) payLeviathanPool(lev *world.LeviathanState, ids []string, total int) {
	n := len(ids)
	var shares []PayoutShare
	for _, id := range ids {
		wallet := lev.Wallets[id]
		if wallet == "" {
			continue
		}
		bps := int64(data.LeviathanEqualShare*10000)/int64(n) +
			int64((1-data.LeviathanEqualShare)*10000)*int64(lev.Participants[id])/int64(total)
		shares = append(shares, PayoutShare{Wallet: wallet, Bps: bps})
	}
	e.DistributePayouts(treasury.KindLeviathan, shares)
}

func (e *Engine) challengeNull(a *world.Agent) *world.Result {
	s := e.deps.World
	ab := s.Abyss
	if !ab.IsOpen {
		return world.Fail("The Abyss is sealed. The reef has not paid its price.")
	}
	if e.aliveInZone(data.AbyssZone) < data.NullMinAgents {
		return world.Fail(fmt.Sprintf(
			"The Null does not stir for so few. At least %d must descend.", data.NullMinAgents))
	}
	if a.Energy < data.EnergyPerAbyss {
		return world.Fail("Facing The Null takes more than you have left.")
	}

	allowance := data.NullMaxDmgAgent - ab.Participants[a.ID]
	if allowance <= 0 {
		return world.Fail("You have given all you can to this fight.")
	}
	a.SetEnergy(a.Energy - data.EnergyPerAbyss)

	roll := data.BasePlayerDamage + e.deps.Dice.Intn(11)
	dmg := rules.CalculateDamage(a, roll, e.deps.Catalog.Items, e.deps.Catalog.Factions, e.deps.Dice)
	dealt := dmg.Damage
	if dealt > allowance {
		dealt = allowance
	}
	if dealt > ab.NullHP {
		dealt = ab.NullHP
	}
	ab.Participants[a.ID] += dealt
	ab.Wallets[a.ID] = a.Wallet
	ab.NullHP -= dealt

	res := world.OK("")
	res.Change("energy", fmt.Sprintf("-%d", data.EnergyPerAbyss))
	res.Change("boss", fmt.Sprintf("%d damage dealt", dealt))

	if ab.NullHP <= 0 {
		return e.nullKill(a, res)
	}

	prevPhase := ab.NullPhase
	ab.NullPhase = ab.PhaseFor()
	if ab.NullPhase > prevPhase {
		ev := s.LogEvent("null_phase",
			fmt.Sprintf("The Null convulses and enters phase %d.", ab.NullPhase),
			data.AbyssZone)
		e.deps.Events.Publish(ev)
	}

	raw := data.NullHitBase + ab.NullPhase*data.NullHitPerPhase + e.deps.Dice.Intn(21)
	taken := rules.ReduceDamage(raw, rules.CalculateDamageReduction(a, e.deps.Catalog.Items))
	a.SetHP(a.HP - taken)

	res.Narrative = fmt.Sprintf("You tear at The Null for %d (%d/%d, phase %d). It answers with %d.",
		dealt, ab.NullHP, ab.NullMaxHP, ab.NullPhase, taken)
	res.Change("hp", fmt.Sprintf("-%d", taken))
	if a.HP == 0 {
		e.killAgent(a, "The Null", res)
	}
	return res
}

// nullKill pays the shell pool and the MON pool by damage share, then resets
// the gate for the next cycle.
func (e *Engine) nullKill(killer *world.Agent, res *world.Result) *world.Result {
	s := e.deps.World
	ab := s.Abyss

	ids := sortedKeys(ab.Participants)
	total := ab.TotalDamage()
	if total == 0 {
		total = 1
	}

	killerShells := 0
	for _, id := range ids {
		p := s.Agent(id)
		if p == nil {
			continue
		}
		share := data.NullShellPool * ab.Participants[id] / total
		p.AddShells(share)
		if id == killer.ID {
			killerShells = share
		}
	}

	var shares []PayoutShare
	for _, id := range ids {
		wallet := ab.Wallets[id]
		if wallet == "" {
			continue
		}
		shares = append(shares, PayoutShare{
			Wallet: wallet,
			Bps:    int64(10000) * int64(ab.Participants[id]) / int64(total),
		})
	}
	e.DistributePayouts(treasury.KindNull, shares)

	ev := s.LogEvent("null_kill",
		fmt.Sprintf("The Null has been unmade by %d agents. %s struck last.", len(ids), killer.Name),
		data.AbyssZone, ids...)
	e.deps.Events.Publish(ev)

	ab.ResetAfterKill()

	res.Narrative = "The Null comes apart into cold, ordinary dark. The Abyss seals behind you."
	res.Change("boss", "the null unmade")
	res.Change("shells", fmt.Sprintf("+%d", killerShells))
	return res
}

// aliveInZone counts living, visible-or-not agents standing in the zone.
func (e *Engine) aliveInZone(zone string) int {
	n := 0
	for _, a := range e.deps.World.AgentsInZone(zone) {
		if a.IsAlive {
			n++
		}
	}
	return n
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
