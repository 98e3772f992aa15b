package system

import (
	"context"
	"fmt"
	"time"

	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/handler"
	"github.com/reefgo/server/internal/rules"
	"github.com/reefgo/server/internal/treasury"
	"github.com/reefgo/server/internal/world"
	"go.uber.org/zap"
)

// tierAwards is the champion's extras on top of the shell pool and MON share.
var tierAwards = map[string]struct {
	Materials map[string]int
	Equipment []string
}{
	"Bronze":    {Materials: map[string]int{"moonstone": 5}},
	"Silver":    {Materials: map[string]int{"moonstone": 10}, Equipment: []string{"bone_harpoon"}},
	"Gold":      {Materials: map[string]int{"moonstone": 15, "void_crystals": 5}, Equipment: []string{"barnacle_plate", "depth_charm"}},
	"Legendary": {Materials: map[string]int{"void_crystals": 10, "abyssal_pearl": 5}, Equipment: []string{"rebreather", data.LegendaryItemID}},
}

// TournamentRunner creates tournaments, closes registration, simulates rounds
// and settles the champion.
type TournamentRunner struct {
	eng      *handler.Engine
	log      *zap.Logger
	interval time.Duration
	seq      int
}

func NewTournamentRunner(eng *handler.Engine, log *zap.Logger, interval time.Duration) *TournamentRunner {
	return &TournamentRunner{eng: eng, log: log, interval: interval}
}

func (r *TournamentRunner) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.eng.Locked(r.step)
		}
	}
}

func (r *TournamentRunner) step(d *handler.Deps) {
	if !d.Config.Server.ArenaEnabled {
		return
	}
	s := d.World
	t := s.Tournament

	if t == nil || t.Status == world.TournamentFinished {
		r.seq++
		s.Tournament = world.NewTournament(
			fmt.Sprintf("Tide Cup %d", r.seq),
			data.TournamentEntryFee,
			s.Tick+data.TournamentRegDeadline)
		ev := s.LogEvent("tournament_open",
			fmt.Sprintf("%s takes registrations: %d shells buys a place in the bracket.",
				s.Tournament.Name, data.TournamentEntryFee), "")
		d.Events.Publish(ev)
		return
	}

	switch t.Status {
	case world.TournamentRegistration:
		if s.Tick < t.RegistrationDeadline {
			return
		}
		if len(t.Participants) < data.MinTournamentPlayers {
			r.refund(d, t)
			return
		}
		r.start(d, t)
	case world.TournamentActive:
		r.playRound(d, t)
	}
}

// refund hands entry fees back and scraps the under-subscribed event.
func (r *TournamentRunner) refund(d *handler.Deps, t *world.Tournament) {
	s := d.World
	for _, id := range t.Participants {
		if a := s.Agent(id); a != nil {
			a.AddShells(t.EntryFee)
		}
	}
	ev := s.LogEvent("tournament_cancelled",
		fmt.Sprintf("%s drew only %d of the %d needed. Fees returned.",
			t.Name, len(t.Participants), data.MinTournamentPlayers), "")
	d.Events.Publish(ev)
	s.Tournament = nil
}

func (r *TournamentRunner) start(d *handler.Deps, t *world.Tournament) {
	s := d.World
	t.Tier, t.TierBps = data.TournamentTier(len(t.Participants))

	shuffled := append([]string(nil), t.Participants...)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := d.Dice.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	t.BuildBracket(shuffled)
	t.Status = world.TournamentActive

	ev := s.LogEvent("tournament_start",
		fmt.Sprintf("%s begins: %d fighters, %s tier, %d shells in the pot.",
			t.Name, len(t.Participants), t.Tier, t.PrizePool), "")
	d.Events.Publish(ev)
	r.log.Info("tournament started",
		zap.String("tournament", t.ID),
		zap.Int("participants", len(t.Participants)),
		zap.String("tier", t.Tier))
}

// playRound simulates every undecided match of the current round, then
// advances the bracket. One round per pass keeps results spread over time.
func (r *TournamentRunner) playRound(d *handler.Deps, t *world.Tournament) {
	for _, m := range t.Matches(t.CurrentRound) {
		if m.Status == world.MatchFinished {
			continue
		}
		m.Winner = r.fight(d, m)
		m.Status = world.MatchFinished
	}
	if champion := t.AdvanceRound(); champion != "" {
		r.settle(d, t, champion)
	}
}

// fight plays a match to zero hp with alternating damage rolls. A missing or
// dead fighter loses by default.
func (r *TournamentRunner) fight(d *handler.Deps, m *world.BracketMatch) string {
	s := d.World
	a1, a2 := s.Agent(m.Agent1), s.Agent(m.Agent2)
	if a1 == nil || !a1.IsAlive {
		return m.Agent2
	}
	if a2 == nil || !a2.IsAlive {
		return m.Agent1
	}
	m.Agent1HP, m.Agent2HP = data.DuelMaxHP, data.DuelMaxHP
	attacker, defender := a1, a2
	for {
		roll := data.BasePlayerDamage + d.Dice.Intn(11)
		dmg := rules.CalculateDamage(attacker, roll, d.Catalog.Items, d.Catalog.Factions, d.Dice)
		if defender.ID == m.Agent1 {
			m.Agent1HP -= dmg.Damage
			if m.Agent1HP <= 0 {
				m.Agent1HP = 0
				return m.Agent2
			}
		} else {
			m.Agent2HP -= dmg.Damage
			if m.Agent2HP <= 0 {
				m.Agent2HP = 0
				return m.Agent1
			}
		}
		attacker, defender = defender, attacker
	}
}

// settle pays the champion: the full shell pool, the tier's MON share, and the
// tier award table.
func (r *TournamentRunner) settle(d *handler.Deps, t *world.Tournament, championID string) {
	s := d.World
	champ := s.Agent(championID)
	if champ == nil {
		return
	}
	champ.AddShells(t.PrizePool)

	award := tierAwards[t.Tier]
	for res, qty := range award.Materials {
		s.AddToInventory(champ, res, qty)
	}
	for _, item := range award.Equipment {
		s.AddToInventory(champ, item, 1)
	}

	if t.TierBps > 0 && champ.Wallet != "" {
		r.eng.DistributePayouts(treasury.KindTournament, []handler.PayoutShare{{
			Wallet: champ.Wallet,
			Bps:    int64(t.TierBps),
		}})
	}

	ev := s.LogEvent("tournament_champion",
		fmt.Sprintf("%s wins %s and %d shells.", champ.Name, t.Name, t.PrizePool),
		"", champ.ID)
	d.Events.Publish(ev)
	r.log.Info("tournament settled",
		zap.String("tournament", t.ID),
		zap.String("champion", champ.Name))
}
