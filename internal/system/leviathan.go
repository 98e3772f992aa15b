// Package system holds the background loops that drive the world when no one
// is acting: the boss scheduler, housekeeping sweeps, the tournament runner,
// and the persistence orchestrator. Every loop mutates state through the
// engine lock.
package system

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/handler"
	"github.com/reefgo/server/internal/rules"
	"go.uber.org/zap"
)

// LeviathanScheduler walks the boss through its lifecycle:
// dormant, announced, alive.
type LeviathanScheduler struct {
	eng      *handler.Engine
	log      *zap.Logger
	interval time.Duration
}

func NewLeviathanScheduler(eng *handler.Engine, log *zap.Logger, interval time.Duration) *LeviathanScheduler {
	return &LeviathanScheduler{eng: eng, log: log, interval: interval}
}

func (l *LeviathanScheduler) Run(ctx context.Context) {
	t := time.NewTicker(l.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			l.eng.Locked(l.step)
		}
	}
}

func (l *LeviathanScheduler) step(d *handler.Deps) {
	s := d.World
	lev := s.Leviathan
	if lev.IsAlive {
		return
	}
	if lev.NextSpawnTick == 0 {
		lev.NextSpawnTick = s.Tick + int64(rules.RollRange(d.Dice,
			data.LeviathanSpawnMinTk, data.LeviathanSpawnMaxTk))
		l.log.Info("leviathan spawn scheduled", zap.Int64("tick", lev.NextSpawnTick))
		return
	}
	if s.AliveAgentCount() < data.LeviathanMinAgents {
		return
	}

	announceAt := lev.NextSpawnTick - int64(rules.RollRange(d.Dice,
		data.LeviathanAnnounceMin, data.LeviathanAnnounceMax))
	if !lev.Announced && s.Tick >= announceAt {
		lev.Announced = true
		lev.SpawnID = uuid.NewString()
		ev := s.LogEvent("leviathan_announce",
			"The water trembles. Something vast is rising toward the lair.",
			data.LeviathanZone)
		d.Events.Publish(ev)

		// Open a boss market keyed to the coming spawn.
		s.CreateMarket(
			"Will the Leviathan fall before it tires of us?",
			[]string{"Yes", "No"},
			[]float64{2.0, 1.5},
			"boss", lev.SpawnID,
			lev.NextSpawnTick+bossMarketWindow)
	}

	if s.Tick >= lev.NextSpawnTick {
		if lev.SpawnID == "" {
			lev.SpawnID = uuid.NewString()
		}
		lev.ResetForSpawn(lev.SpawnID)
		d.Metrics.BossSpawns.Inc()
		ev := s.LogEvent("leviathan_spawn",
			"The Leviathan has surfaced in its lair. The gate stands open to those brave enough.",
			data.LeviathanZone)
		d.Events.Publish(ev)
		l.log.Info("leviathan spawned",
			zap.String("spawn", lev.SpawnID),
			zap.Int64("tick", s.Tick))
	}
}

// bossMarketWindow is how long past the spawn tick a boss market stays open
// before the sweep settles it as "No".
const bossMarketWindow = 500
