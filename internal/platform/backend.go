package platform

import "github.com/1broseidon/wmstack/internal/stacking"

// Properties are the raw stacking-relevant properties of a top-level
// window, named the way the window system names them.
type Properties struct {
	States       []string
	Types        []string
	TransientFor stacking.WindowID
}

// WindowInfo carries descriptive metadata used by status surfaces.
type WindowInfo struct {
	Class string
	Title string
}

// Backend abstracts the window-system operations the stacking session
// needs.
type Backend interface {
	stacking.Restacker
	TopLevelWindows() ([]stacking.WindowID, error)
	WindowExists(w stacking.WindowID) bool
	Properties(w stacking.WindowID) Properties
	SetStates(w stacking.WindowID, states []string) error
	Info(w stacking.WindowID) WindowInfo
	ScreenOf(w stacking.WindowID) (int, error)
	PublishStacking(bottomToTop []stacking.WindowID) error
}

// Handlers receives window events from an EventSource.
type Handlers struct {
	Map          func(w stacking.WindowID)
	Unmap        func(w stacking.WindowID)
	Destroy      func(w stacking.WindowID)
	Configure    func(w stacking.WindowID)
	Property     func(w stacking.WindowID, name string)
	StateRequest func(w stacking.WindowID, action uint32, states []string)
}

// EventSource drives the session event loop. Callbacks registered through
// Watch run between a receive on before and a receive on after.
type EventSource interface {
	Watch(h Handlers) error
	WatchWindow(w stacking.WindowID) error
	UnwatchWindow(w stacking.WindowID)
	MainPing() (before, after, quit chan struct{})
	QueueEmpty() bool
	Quit()
}
