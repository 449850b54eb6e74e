package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jaminalder/undo-tic-tac-toe/internal/domain"
	"github.com/jaminalder/undo-tic-tac-toe/internal/history"
	"github.com/jaminalder/undo-tic-tac-toe/internal/logging"
	"github.com/jaminalder/undo-tic-tac-toe/internal/metrics"
	"github.com/jaminalder/undo-tic-tac-toe/internal/state"
)

// Errors exposed by the service layer.
var (
	ErrNotFound    = errors.New("game not found")
	ErrNotFinished = errors.New("game not finished")
)

// Session is the in-memory state tracked per game.
type Session struct {
	ID      string
	Root    state.Root
	Created time.Time
	Updated time.Time
}

// View derives the read-only projections for the session.
func (s Session) View() state.View { return state.Derive(s.Root) }

type subscriber struct {
	ch        chan []byte
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service holds sessions, applies actions to them one at a time, and
// fans out snapshots to subscribers.
type Service struct {
	mu      sync.Mutex
	games   map[string]*Session
	subs    map[string]map[*subscriber]struct{}
	reducer *state.Reducer
	render  func(Session) []byte
	log     *slog.Logger
	metrics *metrics.Metrics
	buffer  int
}

// Option configures a Service.
type Option func(*serviceConfig)

type serviceConfig struct {
	historyLimit int
	buffer       int
	render       func(Session) []byte
	log          *slog.Logger
	metrics      *metrics.Metrics
}

// WithHistoryLimit caps the undo depth of every session.
func WithHistoryLimit(n int) Option { return func(c *serviceConfig) { c.historyLimit = n } }

// WithSubscriberBuffer sets the channel size handed to subscribers.
func WithSubscriberBuffer(n int) Option {
	return func(c *serviceConfig) {
		if n > 0 {
			c.buffer = n
		}
	}
}

// WithRenderer sets the broadcast payload encoder.
func WithRenderer(r func(Session) []byte) Option { return func(c *serviceConfig) { c.render = r } }

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option { return func(c *serviceConfig) { c.log = l } }

// WithMetrics records dispatches and results.
func WithMetrics(m *metrics.Metrics) Option { return func(c *serviceConfig) { c.metrics = m } }

func nopRenderer(Session) []byte { return nil }

// NewService creates a service. Without a renderer, broadcasts carry no payload.
func NewService(opts ...Option) *Service {
	cfg := serviceConfig{buffer: 1}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.render == nil {
		cfg.render = nopRenderer
	}
	if cfg.log == nil {
		cfg.log = logging.NewNop()
	}
	return &Service{
		games:   make(map[string]*Session),
		subs:    make(map[string]map[*subscriber]struct{}),
		reducer: state.NewReducer(history.WithLimit(cfg.historyLimit)),
		render:  cfg.render,
		log:     cfg.log,
		metrics: cfg.metrics,
		buffer:  cfg.buffer,
	}
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(Session) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renderer == nil {
		s.render = nopRenderer
		return
	}
	s.render = renderer
}

// CreateGame creates and registers a new session.
func (s *Service) CreateGame() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	gs := &Session{ID: uuid.NewString(), Root: state.Initial(), Created: now, Updated: now}
	s.games[gs.ID] = gs
	s.metrics.SessionCreated()
	s.log.Info("game created", "game", gs.ID)
	cp := *gs
	return &cp, nil
}

// Get returns a copy of the session if present.
func (s *Service) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return nil, false
	}
	cp := *gs
	return &cp, true
}

// Dispatch applies a to the session and reports whether the state changed.
// A rejected action is not an error; the session keeps its last state.
func (s *Service) Dispatch(id string, a domain.Action) (*Session, bool, error) {
	return s.update(id, func(gs *Session) (bool, error) {
		return s.applyLocked(gs, a), nil
	})
}

// Play places the mark of whoever is to move. Moves after a win are ignored.
func (s *Service) Play(id string, pos int) (*Session, bool, error) {
	return s.update(id, func(gs *Session) (bool, error) {
		v := state.Derive(gs.Root)
		if v.Winner != domain.Empty {
			return false, nil
		}
		return s.applyLocked(gs, domain.Play(v.CurrentPlayer, pos)), nil
	})
}

// Undo steps the board back one move.
func (s *Service) Undo(id string) (*Session, bool, error) {
	return s.Dispatch(id, domain.Action{Type: domain.Undo})
}

// Redo replays the most recently undone move.
func (s *Service) Redo(id string) (*Session, bool, error) {
	return s.Dispatch(id, domain.Action{Type: domain.Redo})
}

// Finish records the result of a finished game and starts the next one.
func (s *Service) Finish(id string) (*Session, bool, error) {
	return s.update(id, func(gs *Session) (bool, error) {
		v := state.Derive(gs.Root)
		if !v.Finished {
			return false, ErrNotFinished
		}
		if !s.applyLocked(gs, domain.Action{Type: domain.Finish, Winner: v.Winner}) {
			return false, nil
		}
		s.log.Info("game finished", "game", gs.ID, "winner", v.Winner.String(), "score", gs.Root.Score)
		s.applyLocked(gs, domain.Action{Type: domain.NewGame})
		return true, nil
	})
}

func (s *Service) applyLocked(gs *Session, a domain.Action) bool {
	next, changed := s.reducer.Reduce(gs.Root, a)
	s.metrics.Action(a, changed)
	s.log.Debug("dispatch", "game", gs.ID, "action", a.String(), "accepted", changed)
	if !changed {
		return false
	}
	gs.Root = next
	if a.Type == domain.Finish {
		s.metrics.Finished(a.Winner)
	}
	return true
}

// update runs fn under the lock and broadcasts when it reports a change.
func (s *Service) update(id string, fn func(*Session) (bool, error)) (*Session, bool, error) {
	var dropped int

	s.mu.Lock()
	gs, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return nil, false, ErrNotFound
	}
	changed, err := fn(gs)
	cp := *gs
	if err != nil || !changed {
		s.mu.Unlock()
		return &cp, false, err
	}
	gs.Updated = time.Now()
	cp = *gs
	payload := s.render(cp)

	// Sends never block, so fan-out stays under the lock; unsub closes
	// channels under the same lock and cannot race a send.
	set := s.subs[id]
	for sub := range set {
		select {
		case sub.ch <- payload:
		default:
			sub.close()
			delete(set, sub)
			dropped++
		}
	}
	s.mu.Unlock()

	if dropped > 0 {
		s.log.Warn("dropped slow subscribers", "game", id, "count", dropped)
	}
	return &cp, true, nil
}

// Subscribe registers a subscriber for a session. It returns a channel of
// rendered snapshots and an unsubscribe func; cancelling ctx also unsubscribes.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return nil, func() {}, ErrNotFound
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan []byte, s.buffer)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub, nil
}
