// Package stacking maintains the client stack of a window manager and
// turns it, together with layering rules, transient relationships and
// panels, into a single physical Z-order.
package stacking

import "log/slog"

// Restacker is the display-ordering primitive. StackAbove places w
// directly above sibling; a None sibling places w at the bottom of the
// whole order.
type Restacker interface {
	StackAbove(w, sibling WindowID) error
}

// RestackerFunc adapts a function to the Restacker interface.
type RestackerFunc func(w, sibling WindowID) error

func (f RestackerFunc) StackAbove(w, sibling WindowID) error { return f(w, sibling) }

// StackingListener is told about every stack mutation with the current
// stack, bottom first. Notifications are not coalesced.
type StackingListener interface {
	StackingChanged(bottomToTop []WindowID)
}

// StackingListenerFunc adapts a function to the StackingListener interface.
type StackingListenerFunc func(bottomToTop []WindowID)

func (f StackingListenerFunc) StackingChanged(bottomToTop []WindowID) { f(bottomToTop) }

// Manager owns the stack and the dirty flag of one window manager
// session. It is not safe for concurrent use; callers confine it to the
// event-processing goroutine.
type Manager struct {
	stack     Stack
	dirty     bool
	clients   ClientSource
	panels    PanelSource
	restacker Restacker
	listeners []StackingListener
	logger    *slog.Logger

	refreshes    int
	lastCommands int
}

var _ Observer = (*Manager)(nil)

// NewManager creates a manager reading attributes from clients and panels
// and applying orders through restacker. A nil logger discards output.
func NewManager(clients ClientSource, panels PanelSource, restacker Restacker, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		clients:   clients,
		panels:    panels,
		restacker: restacker,
		logger:    logger,
	}
}

// AddListener registers a sink for stack mutations.
func (m *Manager) AddListener(l StackingListener) {
	m.listeners = append(m.listeners, l)
}

// Remove drops w from the stack. Removing an absent window is not an
// error; listeners are notified and the stack is marked dirty regardless.
func (m *Manager) Remove(w WindowID) {
	m.stack.Remove(w)
	m.mutated()
}

// PushFront moves w to the bottom of its layer.
func (m *Manager) PushFront(w WindowID) {
	m.stack.PushFront(w)
	m.mutated()
}

// PushBack moves w to the top of its layer.
func (m *Manager) PushBack(w WindowID) {
	m.stack.PushBack(w)
	m.mutated()
}

// Contains reports whether w is on the stack.
func (m *Manager) Contains(w WindowID) bool {
	return m.stack.Contains(w)
}

// Windows returns the stack, bottom first.
func (m *Manager) Windows() []WindowID {
	return m.stack.Windows()
}

func (m *Manager) mutated() {
	windows := m.stack.Windows()
	for _, l := range m.listeners {
		l.StackingChanged(windows)
	}
	m.dirty = true
}

// MarkDirty schedules a restack on the next Refresh.
func (m *Manager) MarkDirty() {
	m.dirty = true
}

// Dirty reports whether a restack is pending.
func (m *Manager) Dirty() bool {
	return m.dirty
}

// Notify implements Observer: every change kind invalidates the order.
func (m *Manager) Notify(w WindowID, c Change) {
	m.logger.Debug("stack invalidated", "window", w, "change", c)
	m.MarkDirty()
}

// Refresh recomputes and applies the physical order if a restack is
// pending. Bottom to top the result is: desktop windows, panels that are
// not on top, the below through ontop layers (each window followed by its
// transient subtree), then panels that are on top.
func (m *Manager) Refresh() {
	if !m.dirty {
		return
	}

	pass := m.newPass()
	var panels []Panel
	if m.panels != nil {
		panels = m.panels.Panels()
	}

	previous := None
	previous = pass.stackLayers(LayerDesktop, LayerBelow, previous)
	previous = pass.stackPanels(panels, false, previous)
	previous = pass.stackLayers(LayerBelow, layerCount, previous)
	pass.stackPanels(panels, true, previous)

	m.dirty = false
	m.refreshes++
	m.lastCommands = pass.commands
	m.logger.Debug("stack refreshed", "windows", m.stack.Len(), "panels", len(panels), "commands", pass.commands)
}

// resolve returns the attributes used for classification. A transient
// owner that is not on the stack is treated as unset so that the window
// is still placed by its own layer.
func (m *Manager) resolve(w WindowID) Attributes {
	var a Attributes
	if m.clients != nil {
		a, _ = m.clients.Attributes(w)
	}
	if a.TransientFor == w || (a.TransientFor != None && !m.stack.Contains(a.TransientFor)) {
		a.TransientFor = None
	}
	return a
}

// Entry describes one stacked window for status surfaces.
type Entry struct {
	ID           WindowID
	Layer        Layer
	TransientFor WindowID
}

// Snapshot is a read-only view of the manager state.
type Snapshot struct {
	Stack        []Entry
	Panels       []Panel
	Dirty        bool
	Refreshes    int
	LastCommands int
}

// Snapshot captures the stack with resolved layers, bottom first.
func (m *Manager) Snapshot() Snapshot {
	s := Snapshot{
		Dirty:        m.dirty,
		Refreshes:    m.refreshes,
		LastCommands: m.lastCommands,
	}
	for _, w := range m.stack.windows {
		a := m.resolve(w)
		s.Stack = append(s.Stack, Entry{ID: w, Layer: Classify(a), TransientFor: a.TransientFor})
	}
	if m.panels != nil {
		s.Panels = m.panels.Panels()
	}
	return s
}
