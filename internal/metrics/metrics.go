// Package metrics exposes the engine's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Set struct {
	Actions    *prometheus.CounterVec // verb, outcome
	Ticks      prometheus.Counter
	Deaths     prometheus.Counter
	BossSpawns prometheus.Counter
	BossKills  prometheus.Counter
	Payouts    *prometheus.CounterVec // kind, status
	Agents     prometheus.Gauge
}

func New(reg prometheus.Registerer) *Set {
	f := promauto.With(reg)
	return &Set{
		Actions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reef_actions_total",
			Help: "Actions processed, by verb and outcome.",
		}, []string{"verb", "outcome"}),
		Ticks: f.NewCounter(prometheus.CounterOpts{
			Name: "reef_ticks_total",
			Help: "World tick advances.",
		}),
		Deaths: f.NewCounter(prometheus.CounterOpts{
			Name: "reef_agent_deaths_total",
			Help: "Agent deaths from any cause.",
		}),
		BossSpawns: f.NewCounter(prometheus.CounterOpts{
			Name: "reef_leviathan_spawns_total",
			Help: "Leviathan spawns.",
		}),
		BossKills: f.NewCounter(prometheus.CounterOpts{
			Name: "reef_leviathan_kills_total",
			Help: "Leviathan kills.",
		}),
		Payouts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reef_treasury_payouts_total",
			Help: "On-chain payout attempts, by kind and status.",
		}, []string{"kind", "status"}),
		Agents: f.NewGauge(prometheus.GaugeOpts{
			Name: "reef_agents",
			Help: "Registered agents.",
		}),
	}
}
