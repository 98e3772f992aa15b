package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/reefgo/server/internal/config"
	"github.com/reefgo/server/internal/data"
	"github.com/reefgo/server/internal/events"
	"github.com/reefgo/server/internal/handler"
	"github.com/reefgo/server/internal/httpapi"
	"github.com/reefgo/server/internal/metrics"
	"github.com/reefgo/server/internal/persist"
	"github.com/reefgo/server/internal/rules"
	"github.com/reefgo/server/internal/system"
	"github.com/reefgo/server/internal/treasury"
	"github.com/reefgo/server/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m             reefd  v0.1.0                 \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      The Reef · world engine              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s\n\n", serverName)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load env and config
	_ = godotenv.Load()

	cfgPath := "config/reefd.toml"
	if p := os.Getenv("REEFD_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name)

	// 3. Connect to PostgreSQL and run migrations
	printSection("database")

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelBoot()

	db, err := persist.NewDB(bootCtx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	printOK("PostgreSQL connected")

	if err := persist.RunMigrations(bootCtx, db.Pool); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	printOK("migrations applied")
	fmt.Println()

	// 4. Create repositories
	agentRepo := persist.NewAgentRepo(db)
	worldRepo := persist.NewWorldRepo(db)
	tradeRepo := persist.NewTradeRepo(db)
	marketRepo := persist.NewMarketRepo(db)
	stateRepo := persist.NewStateRepo(db)
	txLogRepo := persist.NewTxLogRepo(db)

	// 5. Load static tables and build world state
	printSection("data tables")

	catalog, err := data.LoadCatalog()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	printStat("zones", catalog.Zones.Count())
	printStat("mobs", catalog.Mobs.Count())
	printStat("items", catalog.Items.Count())
	printStat("recipes", catalog.Recipes.Count())
	printStat("factions", catalog.Factions.Count())
	printStat("travel routes", catalog.Travel.Count())
	printStat("dungeons", catalog.Dungeons.Count())
	printStat("quests", catalog.Quests.Count())
	fmt.Println()

	worldState := world.NewState(catalog)

	// 6. Treasury: on-chain unless dev mode or the signer env is incomplete
	printSection("treasury")

	var tre treasury.Client
	chainReady := cfg.Treasury.RPCURL != "" &&
		cfg.Treasury.ContractAddress != "" &&
		cfg.Treasury.PrivateKey != ""
	if cfg.Server.DevMode || !chainReady {
		tre = treasury.NewDev()
		if cfg.Server.DevMode {
			printOK("dev treasury (DEV_MODE)")
		} else {
			printOK("dev treasury (signer env incomplete)")
		}
	} else {
		chain, err := treasury.NewChain(bootCtx,
			cfg.Treasury.RPCURL, cfg.Treasury.ContractAddress, cfg.Treasury.PrivateKey, log)
		if err != nil {
			return fmt.Errorf("treasury: %w", err)
		}
		tre = chain
		printOK("Monad treasury connected")
	}

	// 7. Side channels and metrics
	bus, err := events.NewBus(log, cfg.Redis.URL, cfg.Server.DiscordWebhookURL)
	if err != nil {
		return fmt.Errorf("event bus: %w", err)
	}
	defer bus.Close()

	reg := prometheus.NewRegistry()
	met := metrics.New(reg)

	// 8. Wire the engine
	deps := &handler.Deps{
		Config:  cfg,
		Log:     log,
		World:   worldState,
		Catalog: catalog,
		Dice:    rules.NewDice(),

		AgentRepo:  agentRepo,
		WorldRepo:  worldRepo,
		TradeRepo:  tradeRepo,
		MarketRepo: marketRepo,
		StateRepo:  stateRepo,
		TxLogRepo:  txLogRepo,

		Treasury: tre,
		Events:   bus,
		Metrics:  met,
	}
	eng := handler.NewEngine(deps)

	// 9. Restore persisted world
	if err := system.Load(bootCtx, deps); err != nil {
		return fmt.Errorf("restore world: %w", err)
	}
	printStat("agents restored", worldState.AgentCount())
	fmt.Println()

	// 10. Background loops
	loopCtx, cancelLoops := context.WithCancel(context.Background())
	orchestrator := system.NewOrchestrator(eng, log, 30*time.Second)

	var wg sync.WaitGroup
	loops := []func(context.Context){
		orchestrator.Run,
		system.NewLeviathanScheduler(eng, log, 5*time.Second).Run,
		system.NewSweeper(eng, log, 5*time.Second).Run,
		system.NewTournamentRunner(eng, log, 10*time.Second).Run,
	}
	for _, loop := range loops {
		wg.Add(1)
		go func(fn func(context.Context)) {
			defer wg.Done()
			fn(loopCtx)
		}(loop)
	}

	// 11. HTTP server
	srv := httpapi.NewServer(cfg, log, eng, tre, reg)
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	printSection("server ready")
	printReady(fmt.Sprintf("listening on %s", cfg.HTTP.BindAddress))
	printReady("background loops running")
	fmt.Println()

	// 12. Wait for shutdown
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdownCh:
		log.Info("shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("http server failed", zap.Error(err))
	}

	shutCtx, cancelShut := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShut()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}

	// Cancelling the loop context makes the orchestrator take its final
	// snapshot before returning.
	cancelLoops()
	wg.Wait()

	log.Info("server stopped")
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
