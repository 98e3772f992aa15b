package handler

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/world"
	"go.uber.org/zap"
)

// ErrUnknownKey means the API key resolves to no agent.
var ErrUnknownKey = errors.New("unknown api key")

// ErrBusy means the agent already has an action in flight.
var ErrBusy = errors.New("action already in flight")

// RateLimitedError carries the remaining per-agent action cooldown.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry in %s", e.RetryAfter)
}

// Engine serializes all world access behind one mutex: an action holds the
// lock for its whole span, and read projections take the same lock. A
// per-agent in-flight guard rejects pipelined duplicates before they queue.
type Engine struct {
	mu   sync.Mutex
	deps *Deps

	inflightMu sync.Mutex
	inflight   map[string]bool // api key hash → in flight

	verbs map[string]handlerFunc
}

func NewEngine(deps *Deps) *Engine {
	return &Engine{
		deps:     deps,
		inflight: make(map[string]bool),
		verbs:    registry(),
	}
}

// View runs fn with the world locked. HTTP read projections go through here.
func (e *Engine) View(fn func(*world.State)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.deps.World)
}

// Locked runs fn with the world locked, for background systems that mutate
// state (boss scheduler, sweeps, persistence snapshots).
func (e *Engine) Locked(fn func(*Deps)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.deps)
}

// Execute routes one action. On success the world tick advances exactly once.
func (e *Engine) Execute(apiKeyHash string, cmd *Command) (*world.Result, error) {
	cmd.sanitize()

	e.inflightMu.Lock()
	if e.inflight[apiKeyHash] {
		e.inflightMu.Unlock()
		return nil, ErrBusy
	}
	e.inflight[apiKeyHash] = true
	e.inflightMu.Unlock()
	defer func() {
		e.inflightMu.Lock()
		delete(e.inflight, apiKeyHash)
		e.inflightMu.Unlock()
	}()

	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.deps.World
	a := s.AgentByKeyHash(apiKeyHash)
	if a == nil {
		return nil, ErrUnknownKey
	}

	now := time.Now()
	if wait := data.ActionCooldownSec*time.Second - now.Sub(a.LastActionAt); !a.LastActionAt.IsZero() && wait > 0 {
		return nil, &RateLimitedError{RetryAfter: wait}
	}

	res := e.dispatch(a, cmd, now)

	outcome := "fail"
	if res.Success {
		outcome = "ok"
		tick := s.AdvanceTick()
		a.LastActionTick = tick
		a.LastActionAt = now
		e.deps.Metrics.Ticks.Inc()

		e.applyPressure(a, cmd.Action, res)
		e.touchEngagement(a, now, res)
		e.appendHint(a, cmd.Action, res)
	}
	e.deps.Metrics.Actions.WithLabelValues(cmd.Action, outcome).Inc()
	e.deps.Log.Debug("action",
		zap.String("agent", a.Name),
		zap.String("verb", cmd.Action),
		zap.String("outcome", outcome),
		zap.Int64("tick", s.Tick),
	)
	return res, nil
}

// dispatch enforces the admission gates and runs the verb handler.
func (e *Engine) dispatch(a *world.Agent, cmd *Command, now time.Time) *world.Result {
	s := e.deps.World

	if !a.IsAlive && cmd.Action != "rest" {
		return world.Fail("You are dead. Only rest can bring you back to the shallows.")
	}

	if enc := s.EncounterOf(a.ID); enc != nil {
		switch cmd.Action {
		case "attack", "flee", "look", "status":
		default:
			return world.Fail(fmt.Sprintf("The %s blocks your way. Attack or flee first.", enc.MobName))
		}
	}

	if eng := s.Engagements.Of(a.ID); eng != nil {
		switch cmd.Action {
		case "move", "travel":
			return world.Fail("You are locked in combat. Flee if you want out.")
		}
		// The opponent going silent for a minute forfeits the engagement.
		e.checkForfeit(a, eng, now)
	}

	h, ok := e.verbs[cmd.Action]
	if !ok {
		return world.Fail(fmt.Sprintf("Unknown action %q.", cmd.Action))
	}
	return h(e, a, cmd)
}

// applyPressure bleeds hp in pressure zones for any non-movement action,
// unless a rebreather is equipped or a pressure buff is live.
func (e *Engine) applyPressure(a *world.Agent, verb string, res *world.Result) {
	if verb == "move" || verb == "travel" || !a.IsAlive {
		return
	}
	z := e.deps.Catalog.Zones.Get(a.Location)
	if z == nil || !z.Pressure {
		return
	}
	if a.Equipped.Accessory == "rebreather" || a.HasBuff("pressure_resist", e.deps.World.Tick) {
		return
	}
	a.SetHP(a.HP - data.PressureDamage)
	res.Change("hp", fmt.Sprintf("the pressure crushes you for %d", data.PressureDamage))
	if a.HP == 0 {
		e.killAgent(a, "the crushing depths", res)
	}
}

// touchEngagement refreshes this agent's PvP activity stamp.
func (e *Engine) touchEngagement(a *world.Agent, now time.Time, res *world.Result) {
	if eng := e.deps.World.Engagements.Of(a.ID); eng != nil {
		eng.Touch(a.ID, now)
	}
}

// checkForfeit charges an opponent inactive for a minute 20% of max hp and
// breaks the engagement.
func (e *Engine) checkForfeit(a *world.Agent, eng *world.Engagement, now time.Time) {
	oppID := eng.Opponent(a.ID)
	if now.Sub(eng.LastAction(oppID)) < data.PvPInactivitySec*time.Second {
		return
	}
	s := e.deps.World
	opp := s.Agent(oppID)
	s.Engagements.End(a.ID)
	if opp == nil {
		return
	}
	forfeit := int(float64(opp.MaxHP) * data.PvPForfeitRatio)
	opp.SetHP(opp.HP - forfeit)
	s.LogEvent("pvp_forfeit",
		fmt.Sprintf("%s went quiet and forfeited the fight against %s.", opp.Name, a.Name),
		eng.Zone, opp.ID, a.ID)
	if opp.HP == 0 {
		r := world.OK("")
		e.killAgent(opp, a.Name, r)
	}
}
