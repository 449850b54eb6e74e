package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jaminalder/undo-tic-tac-toe/internal/app"
	"github.com/jaminalder/undo-tic-tac-toe/internal/logging"
	"github.com/jaminalder/undo-tic-tac-toe/internal/metrics"
)

// Option configures NewServer.
type Option func(*handlers)

// WithMetrics mounts the Prometheus endpoint at /metrics.
func WithMetrics(m *metrics.Metrics) Option { return func(h *handlers) { h.metrics = m } }

// WithHeartbeat sets the SSE keep-alive interval.
func WithHeartbeat(d time.Duration) Option {
	return func(h *handlers) {
		if d > 0 {
			h.heartbeat = d
		}
	}
}

// WithLogger sets the handler logger.
func WithLogger(l *slog.Logger) Option { return func(h *handlers) { h.log = l } }

// NewServer wires routes and returns an http.Handler. It also installs the
// board fragment as the service's broadcast renderer so SSE clients get HTML.
func NewServer(s *app.Service, opts ...Option) http.Handler {
	h := &handlers{svc: s, tpl: loadTemplates(), heartbeat: 15 * time.Second, log: logging.NewNop()}
	for _, opt := range opts {
		opt(h)
	}
	s.SetRenderer(func(gs app.Session) []byte { return h.renderBoard(gs, "") })

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", h.index)
	r.Post("/game", h.create)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", h.view)
		r.Post("/play", h.play)
		r.Post("/undo", h.undo)
		r.Post("/redo", h.redo)
		r.Post("/finish", h.finish)
		r.Post("/actions", h.dispatch)
		r.Get("/state", h.getState)
		r.Get("/events", h.events)
	})
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}
	return r
}
