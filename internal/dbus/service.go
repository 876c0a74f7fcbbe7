// Package dbus exports the stacking order on the session bus.
//
// The service answers GetStack with the last published order and emits
// StackingChanged whenever the stack is mutated. Raise and Lower are
// forwarded to a Controller.
package dbus

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/1broseidon/wmstack/internal/stacking"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

// Controller applies stack requests received over D-Bus.
type Controller interface {
	Raise(window uint32) error
	Lower(window uint32) error
}

// Options names the service on the bus.
type Options struct {
	BusName    string
	ObjectPath string
}

// StackingService implements the stacking D-Bus interface.
type StackingService struct {
	opts       Options
	controller Controller
	logger     *slog.Logger

	mu      sync.RWMutex
	conn    *dbus.Conn
	stack   []uint32
	running bool
}

var _ stacking.StackingListener = (*StackingService)(nil)

// NewStackingService creates a service. Start must be called before it
// appears on the bus.
func NewStackingService(opts Options, controller Controller, logger *slog.Logger) *StackingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StackingService{
		opts:       opts,
		controller: controller,
		logger:     logger,
	}
}

// Start connects to the session bus and exports the service.
func (s *StackingService) Start() error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return s.StartOn(conn)
}

// StartOn exports the service on an existing connection.
func (s *StackingService) StartOn(conn *dbus.Conn) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("service already running")
	}
	s.mu.Unlock()

	path := dbus.ObjectPath(s.opts.ObjectPath)
	if !path.IsValid() {
		return fmt.Errorf("invalid object path %q", s.opts.ObjectPath)
	}

	if err := conn.Export(s, path, s.opts.BusName); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: s.opts.ObjectPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    s.opts.BusName,
				Methods: stackingMethods(),
				Signals: stackingSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), path,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(s.opts.BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", s.opts.BusName)
	}

	s.mu.Lock()
	s.conn = conn
	s.running = true
	s.mu.Unlock()

	s.logger.Info("dbus stacking service started", "bus_name", s.opts.BusName, "path", s.opts.ObjectPath)
	return nil
}

// Stop releases the bus name. The shared session connection stays open.
func (s *StackingService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if _, err := s.conn.ReleaseName(s.opts.BusName); err != nil {
		s.logger.Warn("failed to release bus name", "error", err)
	}
	s.conn.Export(nil, dbus.ObjectPath(s.opts.ObjectPath), s.opts.BusName)
	s.conn = nil

	s.logger.Info("dbus stacking service stopped")
	return nil
}

// StackingChanged records the new order and emits the StackingChanged signal.
func (s *StackingService) StackingChanged(bottomToTop []stacking.WindowID) {
	ids := make([]uint32, len(bottomToTop))
	for i, w := range bottomToTop {
		ids[i] = uint32(w)
	}

	s.mu.Lock()
	s.stack = ids
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return
	}
	if err := conn.Emit(dbus.ObjectPath(s.opts.ObjectPath), s.opts.BusName+".StackingChanged", ids); err != nil {
		s.logger.Warn("failed to emit StackingChanged signal", "error", err)
		return
	}
	s.logger.Debug("emitted StackingChanged signal", "windows", len(ids))
}

// GetStack returns the last published order, bottom first.
// D-Bus method: GetStack() -> au
func (s *StackingService) GetStack() ([]uint32, *dbus.Error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stack == nil {
		return []uint32{}, nil
	}
	return slices.Clone(s.stack), nil
}

// Raise moves a window to the top of its layer.
// D-Bus method: Raise(u) -> nothing
func (s *StackingService) Raise(window uint32) *dbus.Error {
	s.logger.Debug("Raise called", "window", window)
	if err := s.controller.Raise(window); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// Lower moves a window to the bottom of its layer.
// D-Bus method: Lower(u) -> nothing
func (s *StackingService) Lower(window uint32) *dbus.Error {
	s.logger.Debug("Lower called", "window", window)
	if err := s.controller.Lower(window); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

func stackingMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "GetStack",
			Args: []introspect.Arg{
				{Name: "windows", Type: "au", Direction: "out"},
			},
		},
		{
			Name: "Raise",
			Args: []introspect.Arg{
				{Name: "window", Type: "u", Direction: "in"},
			},
		},
		{
			Name: "Lower",
			Args: []introspect.Arg{
				{Name: "window", Type: "u", Direction: "in"},
			},
		},
	}
}

func stackingSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "StackingChanged",
			Args: []introspect.Arg{
				{Name: "windows", Type: "au"},
			},
		},
	}
}
