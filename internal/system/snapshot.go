package system

import (
	"context"
	"fmt"
	"time"

	"github.com/reefgo/server/internal/handler"
	"github.com/reefgo/server/internal/persist"
	"github.com/reefgo/server/internal/world"
	"go.uber.org/zap"
)

// snapshotTimeout bounds one full snapshot write.
const snapshotTimeout = 20 * time.Second

// arenaBlob bundles the arena singletons into one engine_state row.
type arenaBlob struct {
	Duels      map[string]*world.Duel `json:"duels"`
	Tournament *world.Tournament      `json:"tournament,omitempty"`
}

// Orchestrator snapshots all volatile engine state every interval and once
// more on shutdown. Writes happen under the engine lock; at the expected load
// a snapshot is a short pause, and the lock makes the cut consistent.
type Orchestrator struct {
	eng      *handler.Engine
	log      *zap.Logger
	interval time.Duration

	flushedEvents   int
	flushedMessages int
}

func NewOrchestrator(eng *handler.Engine, log *zap.Logger, interval time.Duration) *Orchestrator {
	return &Orchestrator{eng: eng, log: log, interval: interval}
}

// Run snapshots on the interval until the context ends, then takes the final
// shutdown snapshot on a fresh context.
func (o *Orchestrator) Run(ctx context.Context) {
	t := time.NewTicker(o.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			shutCtx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
			if err := o.Snapshot(shutCtx); err != nil {
				o.log.Error("final snapshot failed", zap.Error(err))
			}
			cancel()
			return
		case <-t.C:
			snapCtx, cancel := context.WithTimeout(ctx, snapshotTimeout)
			if err := o.Snapshot(snapCtx); err != nil {
				o.log.Error("snapshot failed", zap.Error(err))
			}
			cancel()
		}
	}
}

// Snapshot writes every volatile structure to the store.
func (o *Orchestrator) Snapshot(ctx context.Context) error {
	var err error
	start := time.Now()
	o.eng.Locked(func(d *handler.Deps) {
		err = o.write(ctx, d)
	})
	if err == nil {
		o.log.Debug("snapshot complete", zap.Duration("took", time.Since(start)))
	}
	return err
}

func (o *Orchestrator) write(ctx context.Context, d *handler.Deps) error {
	s := d.World

	if err := d.WorldRepo.SaveMeta(ctx, s.Tick, s.DayCycle, s.Weather); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	if events := s.EventsSince(o.flushedEvents); len(events) > 0 {
		if err := d.WorldRepo.AppendEvents(ctx, events); err != nil {
			return fmt.Errorf("append events: %w", err)
		}
		o.flushedEvents = s.EventCount()
	}
	for _, m := range s.MessagesSince(o.flushedMessages) {
		if err := d.WorldRepo.AppendMessage(ctx, &m); err != nil {
			return fmt.Errorf("append message: %w", err)
		}
	}
	o.flushedMessages = s.MessageCount()

	var agentErr error
	s.AllAgents(func(a *world.Agent) {
		if agentErr != nil {
			return
		}
		if err := d.AgentRepo.Upsert(ctx, a); err != nil {
			agentErr = fmt.Errorf("upsert agent %s: %w", a.ID, err)
			return
		}
		if err := d.AgentRepo.SaveInventory(ctx, a.ID, s.InventoryOf(a.ID)); err != nil {
			agentErr = fmt.Errorf("save inventory %s: %w", a.ID, err)
			return
		}
		if err := d.AgentRepo.SaveVault(ctx, a.ID, s.VaultOf(a.ID)); err != nil {
			agentErr = fmt.Errorf("save vault %s: %w", a.ID, err)
		}
	})
	if agentErr != nil {
		return agentErr
	}

	for _, t := range s.Trades {
		if err := d.TradeRepo.UpsertTrade(ctx, t); err != nil {
			return fmt.Errorf("upsert trade: %w", err)
		}
	}
	for _, l := range s.Listings {
		if err := d.TradeRepo.UpsertListing(ctx, l); err != nil {
			return fmt.Errorf("upsert listing: %w", err)
		}
	}
	for _, m := range s.Markets {
		if err := d.MarketRepo.Upsert(ctx, m); err != nil {
			return fmt.Errorf("upsert market: %w", err)
		}
	}
	for _, byAgent := range s.Bets {
		for _, b := range byAgent {
			if err := d.MarketRepo.UpsertBet(ctx, b); err != nil {
				return fmt.Errorf("upsert bet: %w", err)
			}
		}
	}

	resources := make(map[string]map[string]int)
	for _, zid := range d.Catalog.Zones.IDs() {
		nodes := make(map[string]int)
		for res, n := range s.ZoneResources(zid) {
			nodes[res] = n.Current
		}
		resources[zid] = nodes
	}

	blobs := []struct {
		key string
		v   any
	}{
		{persist.StateKeyParties, s.Parties.All()},
		{persist.StateKeyDungeons, s.Dungeons},
		{persist.StateKeyEngagements, s.Engagements.All()},
		{persist.StateKeyLeviathan, s.Leviathan},
		{persist.StateKeyNull, s.Abyss},
		{persist.StateKeyArena, arenaBlob{Duels: s.Duels, Tournament: s.Tournament}},
		{persist.StateKeyQuests, s.Quests},
		{persist.StateKeyCooldowns, s.Cooldowns.Snapshot()},
		{persist.StateKeyFeatured, s.Featured},
		{persist.StateKeyResources, resources},
		{persist.StateKeyBounties, s.Bounties},
	}
	for _, b := range blobs {
		if err := d.StateRepo.Save(ctx, b.key, b.v); err != nil {
			return fmt.Errorf("save %s: %w", b.key, err)
		}
	}
	return nil
}

// Load restores the world from the store at boot, before any loop starts.
// Order matters: agents first, then everything keyed off them, rebuilding the
// reverse indexes as it goes.
func Load(ctx context.Context, d *handler.Deps) error {
	s := d.World

	tick, day, weather, err := d.WorldRepo.LoadMeta(ctx)
	if err != nil {
		return fmt.Errorf("load meta: %w", err)
	}
	s.Tick, s.DayCycle, s.Weather = tick, day, weather

	agents, err := d.AgentRepo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load agents: %w", err)
	}
	for _, a := range agents {
		s.AddAgent(a)
	}
	invs, err := d.AgentRepo.LoadInventories(ctx)
	if err != nil {
		return fmt.Errorf("load inventories: %w", err)
	}
	for id, inv := range invs {
		s.SetInventory(id, inv)
	}
	vaults, err := d.AgentRepo.LoadVaults(ctx)
	if err != nil {
		return fmt.Errorf("load vaults: %w", err)
	}
	for id, v := range vaults {
		s.SetVault(id, v)
	}

	trades, err := d.TradeRepo.LoadOpenTrades(ctx)
	if err != nil {
		return fmt.Errorf("load trades: %w", err)
	}
	for _, t := range trades {
		s.Trades[t.ID] = t
	}
	listings, err := d.TradeRepo.LoadActiveListings(ctx)
	if err != nil {
		return fmt.Errorf("load listings: %w", err)
	}
	for _, l := range listings {
		s.Listings[l.ID] = l
	}

	markets, err := d.MarketRepo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load markets: %w", err)
	}
	for _, m := range markets {
		s.Markets[m.ID] = m
	}
	bets, err := d.MarketRepo.LoadBets(ctx)
	if err != nil {
		return fmt.Errorf("load bets: %w", err)
	}
	for _, b := range bets {
		byAgent := s.Bets[b.MarketID]
		if byAgent == nil {
			byAgent = make(map[string]*world.Bet)
			s.Bets[b.MarketID] = byAgent
		}
		byAgent[b.AgentID] = b
	}

	var parties []*world.Party
	if _, err := d.StateRepo.Load(ctx, persist.StateKeyParties, &parties); err != nil {
		return fmt.Errorf("load parties: %w", err)
	}
	for _, p := range parties {
		s.Parties.Restore(p)
	}

	if _, err := d.StateRepo.Load(ctx, persist.StateKeyDungeons, &s.Dungeons); err != nil {
		return fmt.Errorf("load dungeons: %w", err)
	}

	var engagements []*world.Engagement
	if _, err := d.StateRepo.Load(ctx, persist.StateKeyEngagements, &engagements); err != nil {
		return fmt.Errorf("load engagements: %w", err)
	}
	for _, e := range engagements {
		s.Engagements.Restore(e)
	}

	var lev world.LeviathanState
	if found, err := d.StateRepo.Load(ctx, persist.StateKeyLeviathan, &lev); err != nil {
		return fmt.Errorf("load leviathan: %w", err)
	} else if found {
		s.Leviathan = &lev
	}

	var abyss world.AbyssState
	if found, err := d.StateRepo.Load(ctx, persist.StateKeyNull, &abyss); err != nil {
		return fmt.Errorf("load abyss: %w", err)
	} else if found {
		s.Abyss = &abyss
	}

	var arena arenaBlob
	if found, err := d.StateRepo.Load(ctx, persist.StateKeyArena, &arena); err != nil {
		return fmt.Errorf("load arena: %w", err)
	} else if found {
		if arena.Duels != nil {
			s.Duels = arena.Duels
		}
		s.Tournament = arena.Tournament
	}

	if _, err := d.StateRepo.Load(ctx, persist.StateKeyQuests, &s.Quests); err != nil {
		return fmt.Errorf("load quests: %w", err)
	}

	var cooldowns map[string][]*world.CooldownEntry
	if _, err := d.StateRepo.Load(ctx, persist.StateKeyCooldowns, &cooldowns); err != nil {
		return fmt.Errorf("load cooldowns: %w", err)
	}
	for agentID, entries := range cooldowns {
		s.Cooldowns.Restore(agentID, entries)
	}

	var featured *world.FeaturedItem
	if found, err := d.StateRepo.Load(ctx, persist.StateKeyFeatured, &featured); err != nil {
		return fmt.Errorf("load featured: %w", err)
	} else if found {
		s.Featured = featured
	}

	if _, err := d.StateRepo.Load(ctx, persist.StateKeyBounties, &s.Bounties); err != nil {
		return fmt.Errorf("load bounties: %w", err)
	}

	var resources map[string]map[string]int
	if _, err := d.StateRepo.Load(ctx, persist.StateKeyResources, &resources); err != nil {
		return fmt.Errorf("load resources: %w", err)
	}
	for zid, nodes := range resources {
		for res, current := range nodes {
			if n := s.ZoneResource(zid, res); n != nil {
				n.Current = current
			}
		}
	}

	d.Metrics.Agents.Set(float64(s.AgentCount()))
	d.Log.Info("world restored",
		zap.Int64("tick", s.Tick),
		zap.Int("agents", s.AgentCount()),
		zap.Int("parties", s.Parties.Count()),
	)
	return nil
}
