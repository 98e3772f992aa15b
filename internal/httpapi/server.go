// Package httpapi is the outer HTTP surface: the two write endpoints (enter,
// action) and read-only projections of engine state. All world access goes
// through the engine; nothing here touches state directly.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/reefgo/server/internal/config"
	"github.com/reefgo/server/internal/handler"
	"github.com/reefgo/server/internal/treasury"
	"go.uber.org/zap"
)

type Server struct {
	cfg      *config.Config
	log      *zap.Logger
	eng      *handler.Engine
	treasury treasury.Client
	srv      *http.Server
}

func NewServer(cfg *config.Config, log *zap.Logger, eng *handler.Engine, tre treasury.Client, reg *prometheus.Registry) *Server {
	s := &Server{
		cfg:      cfg,
		log:      log,
		eng:      eng,
		treasury: tre,
	}

	r := mux.NewRouter()
	r.Use(newIPLimiter(20, 40).middleware)

	r.HandleFunc("/enter", s.handleEnter).Methods(http.MethodPost)
	r.HandleFunc("/action", s.handleAction).Methods(http.MethodPost)

	r.HandleFunc("/world", s.handleWorld).Methods(http.MethodGet)
	r.HandleFunc("/agent/{id}", s.handleAgent).Methods(http.MethodGet)
	r.HandleFunc("/zone/{id}", s.handleZone).Methods(http.MethodGet)
	r.HandleFunc("/boss", s.handleBoss).Methods(http.MethodGet)
	r.HandleFunc("/abyss", s.handleAbyss).Methods(http.MethodGet)
	r.HandleFunc("/arena", s.handleArena).Methods(http.MethodGet)
	r.HandleFunc("/season", s.handleSeason).Methods(http.MethodGet)
	r.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	r.HandleFunc("/leaderboard", s.handleLeaderboard).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	s.srv = &http.Server{
		Addr:         cfg.HTTP.BindAddress,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
	return s
}

// ListenAndServe blocks until the listener fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.log.Info("http listening", zap.String("addr", s.srv.Addr))
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("response encode failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// seasonTimeout bounds the on-chain read behind GET /season.
const seasonTimeout = 5 * time.Second
