package handler

import (
	"fmt"
	"time"

	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/rules"
	"github.com/reefgo/server/internal/world"
)

// Dungeon reward tuning. Per-member shells and xp scale with the zone
// multiplier and the party bonus (1 + size × 0.5).
const (
	dungeonBaseShells = 75
	dungeonBaseXP     = 50
	dungeonClearRep   = 5
	dungeonPartyBonus = 0.5
)

// HandleDungeon runs the party-instanced content: enter, attack, chat,
// status, abandon.
func HandleDungeon(e *Engine, a *world.Agent, cmd *Command) *world.Result {
	switch cmd.Target {
	case "enter":
		return e.dungeonEnter(a)
	case "attack":
		return e.dungeonAttack(a)
	case "chat":
		return e.dungeonChat(a, cmd.Message)
	case "status", "":
		return e.dungeonStatus(a)
	case "abandon":
		return e.dungeonAbandon(a)
	}
	return world.Fail("Dungeon how? enter, attack, chat, status or abandon.")
}

func (e *Engine) dungeonEnter(a *world.Agent) *world.Result {
	s := e.deps.World
	p := s.Parties.Of(a.ID)
	if p == nil {
		return world.Fail("Dungeons are party work. Group up first.")
	}
	cfg := e.deps.Catalog.Dungeons.Get(a.Location)
	if cfg == nil {
		return world.Fail("There is no delve here.")
	}
	if p.Leader != a.ID {
		return world.Fail("The leader opens the delve.")
	}
	if len(p.Members) < 2 {
		return world.Fail("A delve needs at least two of you.")
	}
	if s.DungeonOf(p.ID) != nil {
		return world.Fail("Your party is already inside.")
	}

	now := time.Now()
	for _, id := range p.Members {
		m := s.Agent(id)
		if m == nil || !m.IsAlive {
			return world.Fail("Every member must be alive to enter.")
		}
		if m.Location != a.Location {
			return world.Fail(fmt.Sprintf("%s is not at the entrance.", m.Name))
		}
		if s.Cooldowns.DailyCount(id, world.CounterDungeon, now) >= data.DungeonRunsPerDay {
			return world.Fail(fmt.Sprintf("%s has no delves left today.", m.Name))
		}
	}
	for _, id := range p.Members {
		s.Cooldowns.IncrDaily(id, world.CounterDungeon, now)
	}

	d := s.StartDungeon(p.ID, a.Location, cfg.Waves, cfg.MobsPerWave, cfg.BossHP)
	p.Status = world.PartyInDungeon

	res := world.OK(fmt.Sprintf(
		"Your party descends. Wave 1 of %d, %d creatures between you and %s.",
		cfg.Waves, d.MobsRemaining, cfg.BossName))
	res.Change("dungeon", d.ID)
	return res
}

func (e *Engine) dungeonAttack(a *world.Agent) *world.Result {
	s := e.deps.World
	p := s.Parties.Of(a.ID)
	if p == nil {
		return world.Fail("You are in no party.")
	}
	d := s.DungeonOf(p.ID)
	if d == nil || d.Status != world.DungeonActive {
		return world.Fail("Your party is not inside a dungeon.")
	}
	cfg := e.deps.Catalog.Dungeons.Get(d.Zone)
	if a.Energy < data.EnergyPerDungeon {
		return world.Fail("You are too exhausted to fight.")
	}
	a.SetEnergy(a.Energy - data.EnergyPerDungeon)

	roll := data.BasePlayerDamage + e.deps.Dice.Intn(11)
	dmg := rules.CalculateDamage(a, roll, e.deps.Catalog.Items, e.deps.Catalog.Factions, e.deps.Dice)
	d.Damage[a.ID] += dmg.Damage

	res := world.OK("")
	res.Change("energy", fmt.Sprintf("-%d", data.EnergyPerDungeon))

	if !d.OnBossWave() && d.MobsRemaining > 0 {
		d.MobsRemaining--
		res.Narrative = fmt.Sprintf("You cut one down. Wave %d: %d left.", d.Wave, d.MobsRemaining)
		if d.MobsRemaining == 0 {
			d.Wave++
			if d.OnBossWave() {
				res.Narrative += fmt.Sprintf(" The water stills. %s comes.", cfg.BossName)
			} else {
				d.MobsRemaining = cfg.MobsPerWave
				res.Narrative += fmt.Sprintf(" Wave %d pours in: %d more.", d.Wave, d.MobsRemaining)
			}
		}
		e.dungeonRetaliate(a, d, cfg, res, false)
		return res
	}

	d.BossHP -= dmg.Damage
	if d.BossHP <= 0 {
		d.BossHP = 0
		return e.dungeonClear(a, p, d, cfg, res)
	}
	res.Narrative = fmt.Sprintf("You wound %s (%d/%d hp).", cfg.BossName, d.BossHP, d.BossMaxHP)
	e.dungeonRetaliate(a, d, cfg, res, true)
	return res
}

// dungeonRetaliate hits the acting agent back; a full party wipe fails the
// run.
func (e *Engine) dungeonRetaliate(a *world.Agent, d *world.DungeonInstance, cfg *data.DungeonConfig, res *world.Result, boss bool) {
	s := e.deps.World
	base := 8.0
	if boss {
		base = 15.0
	}
	raw := int(base * cfg.ZoneMultiplier)
	taken := rules.ReduceDamage(raw, rules.CalculateDamageReduction(a, e.deps.Catalog.Items))
	a.SetHP(a.HP - taken)
	res.Change("hp", fmt.Sprintf("-%d", taken))
	if a.HP > 0 {
		return
	}
	e.killAgent(a, cfg.BossName, res)

	p := s.Parties.Get(d.PartyID)
	for _, id := range p.Members {
		if m := s.Agent(id); m != nil && m.IsAlive {
			return
		}
	}
	d.Status = world.DungeonFailed
	s.EndDungeon(d.PartyID)
	p.Status = world.PartyForming
	res.Change("dungeon", "the delve ends in silence; your whole party is down")
}

// dungeonClear pays the run out: flat per-member shells and xp scaled by zone
// and party bonus, plus loot and equipment rolls per member.
func (e *Engine) dungeonClear(a *world.Agent, p *world.Party, d *world.DungeonInstance, cfg *data.DungeonConfig, res *world.Result) *world.Result {
	s := e.deps.World
	d.Status = world.DungeonCleared
	s.EndDungeon(p.ID)
	p.Status = world.PartyForming

	bonus := 1 + float64(len(p.Members))*dungeonPartyBonus
	shells := int(dungeonBaseShells * cfg.ZoneMultiplier * bonus)
	xp := int(dungeonBaseXP * cfg.ZoneMultiplier * bonus)

	for _, id := range p.Members {
		m := s.Agent(id)
		if m == nil {
			continue
		}
		rules.GrantXP(m, xp, e.deps.Catalog.Factions)
		rules.GrantShells(m, shells, e.deps.Catalog.Factions)
		m.Reputation += dungeonClearRep

		for _, entry := range cfg.Loot {
			if e.deps.Dice.Float64() >= entry.Chance {
				continue
			}
			qty := rules.RollRange(e.deps.Dice, entry.Min, entry.Max)
			s.AddToInventory(m, entry.Resource, qty)
		}
		for _, eq := range cfg.Equipment {
			if e.deps.Dice.Float64() < eq.Chance {
				s.AddToInventory(m, eq.ItemID, 1)
			}
		}
	}

	res.Narrative = fmt.Sprintf("%s breaks apart and settles. The delve is yours.", cfg.BossName)
	res.Change("dungeon", "cleared")
	ev := s.LogEvent("dungeon_clear",
		fmt.Sprintf("%s's party cleared the %s delve.", a.Name, d.Zone), d.Zone, p.Members...)
	e.deps.Events.Publish(ev)
	return res
}

func (e *Engine) dungeonChat(a *world.Agent, msg string) *world.Result {
	if msg == "" {
		return world.Fail("Say what?")
	}
	s := e.deps.World
	p := s.Parties.Of(a.ID)
	if p == nil {
		return world.Fail("You are in no party.")
	}
	d := s.DungeonOf(p.ID)
	if d == nil {
		return world.Fail("Your party is not inside a dungeon.")
	}
	d.Chat = append(d.Chat, world.DungeonChatLine{
		AgentID: a.ID,
		Name:    a.Name,
		Body:    msg,
		Tick:    s.Tick,
	})
	return world.OK(fmt.Sprintf("(party) %s", msg))
}

func (e *Engine) dungeonStatus(a *world.Agent) *world.Result {
	s := e.deps.World
	p := s.Parties.Of(a.ID)
	if p == nil {
		return world.Fail("You are in no party.")
	}
	d := s.DungeonOf(p.ID)
	if d == nil {
		return world.Fail("Your party is not inside a dungeon.")
	}
	cfg := e.deps.Catalog.Dungeons.Get(d.Zone)
	if d.OnBossWave() {
		return world.OK(fmt.Sprintf("Boss wave: %s at %d/%d hp.", cfg.BossName, d.BossHP, d.BossMaxHP))
	}
	return world.OK(fmt.Sprintf("Wave %d of %d: %d creatures left.", d.Wave, d.MaxWaves, d.MobsRemaining))
}

func (e *Engine) dungeonAbandon(a *world.Agent) *world.Result {
	s := e.deps.World
	p := s.Parties.Of(a.ID)
	if p == nil {
		return world.Fail("You are in no party.")
	}
	if p.Leader != a.ID {
		return world.Fail("Only the leader calls a retreat.")
	}
	d := s.DungeonOf(p.ID)
	if d == nil {
		return world.Fail("Your party is not inside a dungeon.")
	}
	d.Status = world.DungeonFailed
	s.EndDungeon(p.ID)
	p.Status = world.PartyForming
	return world.OK("You call the retreat. The delve keeps its secrets.")
}
