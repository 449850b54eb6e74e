package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jaminalder/undo-tic-tac-toe/internal/domain"
)

// Metrics groups the game counters on a private registry.
type Metrics struct {
	reg      *prometheus.Registry
	actions  *prometheus.CounterVec
	finished *prometheus.CounterVec
	sessions prometheus.Gauge
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tictactoe_actions_total",
				Help: "Dispatched actions by type and whether they changed state",
			},
			[]string{"type", "accepted"},
		),
		finished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tictactoe_games_finished_total",
				Help: "Finished games by result",
			},
			[]string{"winner"},
		),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tictactoe_sessions",
			Help: "Game sessions held in memory",
		}),
	}
	m.reg.MustRegister(m.actions, m.finished, m.sessions)
	return m
}

// Action counts one dispatch.
func (m *Metrics) Action(a domain.Action, accepted bool) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(string(a.Type), strconv.FormatBool(accepted)).Inc()
}

// Finished counts one recorded result.
func (m *Metrics) Finished(winner domain.Cell) {
	if m == nil {
		return
	}
	label := winner.String()
	if label == "" {
		label = "draw"
	}
	m.finished.WithLabelValues(label).Inc()
}

// SessionCreated bumps the sessions gauge.
func (m *Metrics) SessionCreated() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}

// Registry exposes the registry for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
