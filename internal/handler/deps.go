package handler

import (
	"github.com/reefgo/server/internal/config"
	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/events"
	"github.com/reefgo/server/internal/metrics"
	"github.com/reefgo/server/internal/persist"
	"github.com/reefgo/server/internal/rules"
	"github.com/reefgo/server/internal/treasury"
	"github.com/reefgo/server/internal/world"
	"go.uber.org/zap"
)

// Deps holds shared dependencies injected into all action handlers.
type Deps struct {
	Config  *config.Config
	Log     *zap.Logger
	World   *world.State
	Catalog *data.Catalog
	Dice    rules.Dice

	AgentRepo  *persist.AgentRepo
	WorldRepo  *persist.WorldRepo
	TradeRepo  *persist.TradeRepo
	MarketRepo *persist.MarketRepo
	StateRepo  *persist.StateRepo
	TxLogRepo  *persist.TxLogRepo

	Treasury treasury.Client
	Events   *events.Bus
	Metrics  *metrics.Set
}
