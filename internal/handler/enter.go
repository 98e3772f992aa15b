package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/reefgo/server/internal/world"
	"go.uber.org/zap"
	"golang.org/x/crypto/sha3"
)

const (
	apiKeyPrefix = "reef_"
	maxNameLen   = 24
)

// Enter registration failures the HTTP layer maps to 4xx.
var (
	ErrNameTaken    = errors.New("name already taken")
	ErrWalletTaken  = errors.New("wallet already registered")
	ErrBadName      = errors.New("invalid name")
	ErrNotEntered   = errors.New("wallet has not entered the season")
	ErrSeasonClosed = errors.New("season entry check unavailable")
)

// HashAPIKey derives the stored lookup key. Plaintext keys exist only in the
// enter response.
func HashAPIKey(key string) string {
	sum := sha3.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Enter mints a new agent for a wallet that has paid the season entry fee.
// Returns the plaintext API key exactly once.
func (e *Engine) Enter(ctx context.Context, wallet, name string) (apiKey string, agent *world.Agent, err error) {
	name = sanitizeText(name, maxNameLen)
	if name == "" || wallet == "" {
		return "", nil, ErrBadName
	}

	if !e.deps.Config.Server.DevMode {
		entered, herr := e.deps.Treasury.HasEntered(ctx, wallet)
		if herr != nil {
			e.deps.Log.Error("season entry check failed", zap.String("wallet", wallet), zap.Error(herr))
			return "", nil, ErrSeasonClosed
		}
		if !entered {
			return "", nil, ErrNotEntered
		}
	}

	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", nil, fmt.Errorf("mint api key: %w", err)
	}
	apiKey = apiKeyPrefix + hex.EncodeToString(raw)

	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.deps.World

	if s.AgentByName(name) != nil {
		return "", nil, ErrNameTaken
	}
	taken := false
	s.AllAgents(func(a *world.Agent) {
		if a.Wallet == wallet {
			taken = true
		}
	})
	if taken {
		return "", nil, ErrWalletTaken
	}

	agent = s.CreateAgent(wallet, name, HashAPIKey(apiKey))
	e.deps.Metrics.Agents.Set(float64(s.AgentCount()))

	ev := s.LogEvent("agent_enter",
		fmt.Sprintf("%s surfaces in the shallows.", name), agent.Location, agent.ID)
	e.deps.Events.Publish(ev)
	e.deps.Log.Info("agent registered",
		zap.String("agent", agent.ID),
		zap.String("name", name),
	)
	return apiKey, agent, nil
}
