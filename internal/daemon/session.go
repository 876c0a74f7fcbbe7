package daemon

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/wmstack/internal/platform"
	"github.com/1broseidon/wmstack/internal/stacking"
	"github.com/oklog/ulid/v2"
)

// ErrSessionStopped is returned by Do once the session loop has exited.
var ErrSessionStopped = errors.New("session stopped")

// SessionConfig holds the tunables a session reads from configuration.
type SessionConfig struct {
	Mapping           platform.AtomMapping
	PublishClientList bool
	Logger            *slog.Logger
}

// Session tracks the top-level windows of one display and keeps their
// physical stacking order in sync with the stacking rules. All state is
// owned by the goroutine running Run; other goroutines reach it through Do.
type Session struct {
	id        string
	startedAt time.Time

	backend platform.Backend
	events  platform.EventSource
	logger  *slog.Logger

	mapping           platform.AtomMapping
	publishClientList bool

	clients *stacking.Clients
	panels  *stacking.Panels
	manager *stacking.Manager

	requests chan func()
	done     chan struct{}
}

// NewSession creates a session bound to backend and events.
func NewSession(backend platform.Backend, events platform.EventSource, cfg SessionConfig) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		id:                ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String(),
		startedAt:         time.Now(),
		backend:           backend,
		events:            events,
		logger:            logger,
		mapping:           cfg.Mapping,
		publishClientList: cfg.PublishClientList,
		clients:           stacking.NewClients(),
		panels:            stacking.NewPanels(),
		requests:          make(chan func()),
		done:              make(chan struct{}),
	}
	s.manager = stacking.NewManager(s.clients, s.panels, backend, logger.With("component", "stacking"))
	s.clients.Subscribe(s.manager)
	s.panels.Subscribe(s.manager)
	s.manager.AddListener(stacking.StackingListenerFunc(s.publishStacking))
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// StartedAt returns when the session was created.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Manager exposes the stacking manager. It must only be used from the
// session goroutine.
func (s *Session) Manager() *stacking.Manager {
	return s.manager
}

// AddListener registers an additional stacking listener. Call before Run.
func (s *Session) AddListener(l stacking.StackingListener) {
	s.manager.AddListener(l)
}

func (s *Session) publishStacking(bottomToTop []stacking.WindowID) {
	if !s.publishClientList {
		return
	}
	if err := s.backend.PublishStacking(bottomToTop); err != nil {
		s.logger.Debug("failed to publish client list stacking", "error", err)
	}
}

// Run watches the display, adopts existing windows and processes events
// until ctx is cancelled or the event loop quits. A refresh runs every
// time the event queue drains and after every request.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)

	if err := s.events.Watch(platform.Handlers{
		Map:          s.HandleMap,
		Unmap:        s.HandleUnmap,
		Destroy:      s.HandleDestroy,
		Configure:    s.HandleConfigure,
		Property:     s.HandleProperty,
		StateRequest: s.HandleStateRequest,
	}); err != nil {
		return fmt.Errorf("failed to watch display: %w", err)
	}

	if err := s.Adopt(); err != nil {
		s.logger.Warn("failed to adopt existing windows", "error", err)
	}
	s.manager.Refresh()

	s.logger.Info("session started", "session", s.id, "windows", s.clients.Len(), "panels", s.panels.Len())

	before, after, quit := s.events.MainPing()
	for {
		select {
		case <-ctx.Done():
			s.events.Quit()
			go drainEvents(before, after, quit)
			s.logger.Info("session stopped", "session", s.id)
			return nil
		case <-quit:
			s.logger.Info("event loop quit", "session", s.id)
			return nil
		case <-before:
			<-after
			if s.events.QueueEmpty() {
				s.manager.Refresh()
			}
		case fn := <-s.requests:
			fn()
			s.manager.Refresh()
		}
	}
}

// drainEvents acknowledges pings until the event loop reports that it quit.
// The loop only sees the quit flag between events, so it may still be
// blocked sending on before when the session stops.
func drainEvents(before, after, quit chan struct{}) {
	for {
		select {
		case <-quit:
			return
		case <-before:
			<-after
		}
	}
}

// Do runs fn on the session goroutine and waits for it to finish.
func (s *Session) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		fn()
	}

	select {
	case s.requests <- wrapped:
	case <-s.done:
		return ErrSessionStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-s.done:
		return ErrSessionStopped
	}
}

// Adopt tracks every mapped top-level window, bottom first.
func (s *Session) Adopt() error {
	windows, err := s.backend.TopLevelWindows()
	if err != nil {
		return fmt.Errorf("failed to list top-level windows: %w", err)
	}
	for _, w := range windows {
		s.HandleMap(w)
	}
	return nil
}

// Configure applies new tunables and re-reads every tracked window so
// that changed atom mappings take effect.
func (s *Session) Configure(cfg SessionConfig) {
	s.mapping = cfg.Mapping
	s.publishClientList = cfg.PublishClientList

	for _, w := range s.clients.IDs() {
		s.syncClient(w)
	}
	for _, p := range s.panels.Panels() {
		s.syncPanel(p.ID)
	}
	s.manager.MarkDirty()
	if s.publishClientList {
		s.publishStacking(s.manager.Windows())
	}
}

// Tracked returns every window the session manages, clients first.
func (s *Session) Tracked() []stacking.WindowID {
	ids := s.manager.Windows()
	for _, p := range s.panels.Panels() {
		ids = append(ids, p.ID)
	}
	return ids
}

// Forget drops w as if it had been destroyed.
func (s *Session) Forget(w stacking.WindowID) {
	s.HandleDestroy(w)
}

// Raise moves a tracked client to the top of its layer.
func (s *Session) Raise(w stacking.WindowID) error {
	if !s.manager.Contains(w) {
		return fmt.Errorf("%w: %s", stacking.ErrUnknownWindow, w)
	}
	s.manager.PushBack(w)
	return nil
}

// Lower moves a tracked client to the bottom of its layer.
func (s *Session) Lower(w stacking.WindowID) error {
	if !s.manager.Contains(w) {
		return fmt.Errorf("%w: %s", stacking.ErrUnknownWindow, w)
	}
	s.manager.PushFront(w)
	return nil
}
