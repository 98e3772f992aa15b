package system

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/reefgo/server/internal/config"
	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/events"
	"github.com/reefgo/server/internal/handler"
	"github.com/reefgo/server/internal/metrics"
	"github.com/reefgo/server/internal/rules"
	"github.com/reefgo/server/internal/treasury"
	"github.com/reefgo/server/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRunnerFixture(t *testing.T) (*TournamentRunner, *handler.Engine, *world.State) {
	t.Helper()

	catalog, err := data.LoadCatalog()
	require.NoError(t, err)

	log := zap.NewNop()
	bus, err := events.NewBus(log, "", "")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Server.DevMode = true
	cfg.Server.ArenaEnabled = true

	deps := &handler.Deps{
		Config:   cfg,
		Log:      log,
		World:    world.NewState(catalog),
		Catalog:  catalog,
		Dice:     rules.NewDice(),
		Treasury: treasury.NewDev(),
		Events:   bus,
		Metrics:  metrics.New(prometheus.NewRegistry()),
	}
	eng := handler.NewEngine(deps)
	return NewTournamentRunner(eng, log, 0), eng, deps.World
}

func fighter(s *world.State, i int) *world.Agent {
	a := &world.Agent{
		ID:             fmt.Sprintf("f-%02d", i),
		Wallet:         fmt.Sprintf("0xf%02d", i),
		Name:           fmt.Sprintf("Fighter%02d", i),
		APIKeyHash:     fmt.Sprintf("hash-f%02d", i),
		Location:       data.StartZone,
		HP:             100,
		MaxHP:          100,
		Energy:         100,
		MaxEnergy:      100,
		Level:          5,
		IsAlive:        true,
		VisitedZones:   map[string]bool{data.StartZone: true},
		Buffs:          make(map[string]int64),
		InventorySlots: 100,
		VaultSlots:     10,
	}
	s.AddAgent(a)
	return a
}

func TestRunnerOpensRegistration(t *testing.T) {
	r, eng, _ := newRunnerFixture(t)

	eng.Locked(r.step)
	eng.View(func(s *world.State) {
		require.NotNil(t, s.Tournament)
		assert.Equal(t, world.TournamentRegistration, s.Tournament.Status)
		assert.Equal(t, data.TournamentEntryFee, s.Tournament.EntryFee)
		assert.Equal(t, int64(data.TournamentRegDeadline), s.Tournament.RegistrationDeadline)
	})
}

func TestRunnerRefundsUndersubscribed(t *testing.T) {
	r, eng, s := newRunnerFixture(t)

	eng.Locked(r.step)
	var entrants []*world.Agent
	for i := 0; i < 5; i++ {
		a := fighter(s, i)
		a.Shells = 0
		s.Tournament.Participants = append(s.Tournament.Participants, a.ID)
		s.Tournament.PrizePool += s.Tournament.EntryFee
		entrants = append(entrants, a)
	}

	s.Tick = s.Tournament.RegistrationDeadline
	eng.Locked(r.step)

	assert.Nil(t, s.Tournament)
	for _, a := range entrants {
		assert.Equal(t, data.TournamentEntryFee, a.Shells, "fee returned on cancellation")
	}
}

func TestRunnerPlaysBronzeTournamentToChampion(t *testing.T) {
	r, eng, s := newRunnerFixture(t)

	eng.Locked(r.step)
	for i := 0; i < data.MinTournamentPlayers; i++ {
		a := fighter(s, i)
		a.Shells = 0
		s.Tournament.Participants = append(s.Tournament.Participants, a.ID)
		s.Tournament.PrizePool += s.Tournament.EntryFee
	}
	tour := s.Tournament

	s.Tick = tour.RegistrationDeadline
	eng.Locked(r.step)
	assert.Equal(t, world.TournamentActive, tour.Status)
	assert.Equal(t, "Bronze", tour.Tier)
	assert.Zero(t, tour.TierBps)
	assert.Equal(t, 32, world.PaddedSize(len(tour.Participants)))

	for i := 0; i < tour.TotalRounds; i++ {
		eng.Locked(r.step)
	}
	require.Equal(t, world.TournamentFinished, tour.Status)
	require.NotEmpty(t, tour.Champion)

	champ := s.Agent(tour.Champion)
	require.NotNil(t, champ)
	pot := data.TournamentEntryFee * data.MinTournamentPlayers
	assert.Equal(t, pot, champ.Shells)
	assert.Equal(t, 5, s.InventoryOf(champ.ID)["moonstone"], "bronze award")
}
