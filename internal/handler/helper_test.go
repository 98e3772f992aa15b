package handler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/reefgo/server/internal/config"
	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/events"
	"github.com/reefgo/server/internal/metrics"
	"github.com/reefgo/server/internal/treasury"
	"github.com/reefgo/server/internal/world"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptDice replays scripted rolls; exhausted scripts return rolls that never
// trigger chance effects (Float64 1.0, Intn 0).
type scriptDice struct {
	floats []float64
	ints   []int
}

func (d *scriptDice) Float64() float64 {
	if len(d.floats) == 0 {
		return 1.0
	}
	v := d.floats[0]
	d.floats = d.floats[1:]
	return v
}

func (d *scriptDice) Intn(n int) int {
	if len(d.ints) == 0 {
		return 0
	}
	v := d.ints[0]
	d.ints = d.ints[1:]
	if v >= n {
		v = n - 1
	}
	return v
}

// downTreasury fails every season read, which makes payout paths log and skip
// instead of distributing.
type downTreasury struct{}

func (downTreasury) SeasonInfo(ctx context.Context) (*treasury.SeasonInfo, error) {
	return nil, errors.New("treasury unreachable")
}

func (downTreasury) HasEntered(ctx context.Context, wallet string) (bool, error) {
	return true, nil
}

func (downTreasury) Distribute(ctx context.Context, kind string, payouts []treasury.Payout) ([]string, error) {
	return nil, errors.New("treasury unreachable")
}

// stallTreasury answers season reads only after a delay, standing in for a
// congested RPC endpoint.
type stallTreasury struct {
	delay time.Duration
}

func (s stallTreasury) SeasonInfo(ctx context.Context) (*treasury.SeasonInfo, error) {
	time.Sleep(s.delay)
	return nil, errors.New("treasury timed out")
}

func (stallTreasury) HasEntered(ctx context.Context, wallet string) (bool, error) {
	return true, nil
}

func (stallTreasury) Distribute(ctx context.Context, kind string, payouts []treasury.Payout) ([]string, error) {
	return nil, errors.New("treasury timed out")
}

func newTestEngine(t *testing.T) (*Engine, *world.State, *scriptDice) {
	t.Helper()

	catalog, err := data.LoadCatalog()
	require.NoError(t, err)

	log := zap.NewNop()
	bus, err := events.NewBus(log, "", "")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Server.DevMode = true
	cfg.Server.ArenaEnabled = true
	cfg.Server.AbyssGateOverride = "auto"

	dice := &scriptDice{}
	deps := &Deps{
		Config:   cfg,
		Log:      log,
		World:    world.NewState(catalog),
		Catalog:  catalog,
		Dice:     dice,
		Treasury: downTreasury{},
		Events:   bus,
		Metrics:  metrics.New(prometheus.NewRegistry()),
	}
	return NewEngine(deps), deps.World, dice
}

// addAgent registers a ready-to-fight agent with a fixed id so damage maps
// sort deterministically.
func addAgent(s *world.State, id, name, zone string) *world.Agent {
	a := &world.Agent{
		ID:             id,
		Wallet:         "0x" + id,
		Name:           name,
		APIKeyHash:     "hash-" + id,
		Location:       zone,
		HP:             100,
		MaxHP:          100,
		Energy:         100,
		MaxEnergy:      100,
		Level:          10,
		IsAlive:        true,
		Shells:         1000,
		VisitedZones:   map[string]bool{zone: true},
		Buffs:          make(map[string]int64),
		InventorySlots: 100,
		VaultSlots:     10,
	}
	s.AddAgent(a)
	return a
}
