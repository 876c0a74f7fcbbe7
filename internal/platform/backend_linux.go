//go:build linux

package platform

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/1broseidon/wmstack/internal/stacking"
	"github.com/1broseidon/wmstack/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// LinuxBackend wraps an X11 connection behind the Backend and EventSource
// interfaces.
type LinuxBackend struct {
	conn    *x11.Connection
	handler Handlers
	logger  *slog.Logger
}

var (
	_ Backend     = (*LinuxBackend)(nil)
	_ EventSource = (*LinuxBackend)(nil)
)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection, logger *slog.Logger) *LinuxBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &LinuxBackend{conn: conn, logger: logger}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay(logger *slog.Logger) (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewLinuxBackend(conn, logger), nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// StackAbove implements stacking.Restacker.
func (b *LinuxBackend) StackAbove(w, sibling stacking.WindowID) error {
	return b.conn.StackAbove(xproto.Window(w), xproto.Window(sibling))
}

// TopLevelWindows returns mapped top-level windows, bottom first.
func (b *LinuxBackend) TopLevelWindows() ([]stacking.WindowID, error) {
	windows, err := b.conn.TopLevelWindows()
	if err != nil {
		return nil, err
	}
	ids := make([]stacking.WindowID, len(windows))
	for i, w := range windows {
		ids[i] = stacking.WindowID(w)
	}
	return ids, nil
}

// WindowExists reports whether the X server still knows w.
func (b *LinuxBackend) WindowExists(w stacking.WindowID) bool {
	return b.conn.WindowExists(xproto.Window(w))
}

// Properties reads the stacking-relevant properties of w.
func (b *LinuxBackend) Properties(w stacking.WindowID) Properties {
	props := b.conn.ReadProperties(xproto.Window(w))
	return Properties{
		States:       props.States,
		Types:        props.Types,
		TransientFor: stacking.WindowID(props.TransientFor),
	}
}

// SetStates writes _NET_WM_STATE on w.
func (b *LinuxBackend) SetStates(w stacking.WindowID, states []string) error {
	return b.conn.SetStates(xproto.Window(w), states)
}

// Info returns the class and title of w, empty when unavailable.
func (b *LinuxBackend) Info(w stacking.WindowID) WindowInfo {
	windowID := xproto.Window(w)
	return WindowInfo{
		Class: b.windowClass(windowID),
		Title: b.windowTitle(windowID),
	}
}

// ScreenOf returns the monitor index containing w.
func (b *LinuxBackend) ScreenOf(w stacking.WindowID) (int, error) {
	return b.conn.ScreenOf(xproto.Window(w))
}

// PublishStacking writes _NET_CLIENT_LIST_STACKING.
func (b *LinuxBackend) PublishStacking(bottomToTop []stacking.WindowID) error {
	windows := make([]xproto.Window, len(bottomToTop))
	for i, w := range bottomToTop {
		windows[i] = xproto.Window(w)
	}
	return b.conn.SetClientListStacking(windows)
}

// Watch routes root window events to h.
func (b *LinuxBackend) Watch(h Handlers) error {
	b.handler = h
	return b.conn.WatchRoot(x11.EventHandlers{
		Map:       wrap(h.Map),
		Unmap:     wrap(h.Unmap),
		Destroy:   wrap(h.Destroy),
		Configure: wrap(h.Configure),
		StateRequest: func(windowID xproto.Window, action uint32, states []string) {
			if h.StateRequest != nil {
				h.StateRequest(stacking.WindowID(windowID), action, states)
			}
		},
	}, b.logger)
}

// WatchWindow subscribes to property changes of w.
func (b *LinuxBackend) WatchWindow(w stacking.WindowID) error {
	return b.conn.WatchClient(xproto.Window(w), x11.EventHandlers{
		Property: func(windowID xproto.Window, name string) {
			if b.handler.Property != nil {
				b.handler.Property(stacking.WindowID(windowID), name)
			}
		},
	})
}

// UnwatchWindow drops property subscriptions of w.
func (b *LinuxBackend) UnwatchWindow(w stacking.WindowID) {
	b.conn.UnwatchClient(xproto.Window(w))
}

func (b *LinuxBackend) MainPing() (before, after, quit chan struct{}) {
	return b.conn.MainPing()
}

func (b *LinuxBackend) QueueEmpty() bool {
	return b.conn.QueueEmpty()
}

func (b *LinuxBackend) Quit() {
	b.conn.Quit()
}

func wrap(fn func(stacking.WindowID)) func(xproto.Window) {
	if fn == nil {
		return nil
	}
	return func(windowID xproto.Window) {
		fn(stacking.WindowID(windowID))
	}
}

func (b *LinuxBackend) windowClass(windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(b.conn.XUtil, windowID)
	if err != nil || wmClass == nil {
		return ""
	}
	if wmClass.Class != "" {
		return wmClass.Class
	}
	return wmClass.Instance
}

func (b *LinuxBackend) windowTitle(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(b.conn.XUtil, windowID)
	if err == nil && strings.TrimSpace(title) != "" {
		return title
	}
	title, err = icccm.WmNameGet(b.conn.XUtil, windowID)
	if err == nil {
		return title
	}
	return ""
}
