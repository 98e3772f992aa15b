package system

import (
	"context"
	"time"

	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/handler"
	"go.uber.org/zap"
)

// Sweeper does the periodic housekeeping nothing else owns: expired market
// settlement, the Abyss event window, and the operational gate override.
type Sweeper struct {
	eng      *handler.Engine
	log      *zap.Logger
	interval time.Duration
}

func NewSweeper(eng *handler.Engine, log *zap.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{eng: eng, log: log, interval: interval}
}

func (w *Sweeper) Run(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.eng.Locked(w.step)
		}
	}
}

func (w *Sweeper) step(d *handler.Deps) {
	s := d.World

	if swept := s.ExpireMarkets(s.Tick); len(swept) > 0 {
		w.log.Info("markets expired", zap.Int("count", len(swept)))
	}

	ab := s.Abyss
	if ab.IsOpen && s.Tick >= ab.OpenedAtTick+ab.EventDuration {
		ab.Expire()
		ev := s.LogEvent("abyss_expire",
			"The Abyss seals itself. Half of everything the reef fed it is gone.",
			data.AbyssZone)
		d.Events.Publish(ev)
	}

	// A forced-open gate does not wait for contributions.
	if d.Config.Server.AbyssGateOverride == "open" && !ab.IsOpen {
		ab.Open(s.Tick)
		ev := s.LogEvent("abyss_open",
			"The Abyss yawns open, and something waits inside.", data.AbyssZone)
		d.Events.Publish(ev)
	}
}
