package x11

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// EventHandlers receives the window lifecycle and property events the
// stacking session cares about. Nil handlers are skipped.
type EventHandlers struct {
	Map          func(windowID xproto.Window)
	Unmap        func(windowID xproto.Window)
	Destroy      func(windowID xproto.Window)
	Configure    func(windowID xproto.Window)
	Property     func(windowID xproto.Window, atom string)
	StateRequest func(windowID xproto.Window, action uint32, states []string)
}

// WatchRoot selects substructure and property events on the root window
// and routes them to h.
func (c *Connection) WatchRoot(h EventHandlers, logger *slog.Logger) error {
	root := xwindow.New(c.XUtil, c.Root)
	if err := root.Listen(xproto.EventMaskSubstructureNotify, xproto.EventMaskPropertyChange); err != nil {
		return fmt.Errorf("failed to select root events: %w", err)
	}

	xevent.MapNotifyFun(func(_ *xgbutil.XUtil, ev xevent.MapNotifyEvent) {
		if ev.OverrideRedirect || h.Map == nil {
			return
		}
		h.Map(ev.Window)
	}).Connect(c.XUtil, c.Root)

	xevent.UnmapNotifyFun(func(_ *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
		if h.Unmap != nil {
			h.Unmap(ev.Window)
		}
	}).Connect(c.XUtil, c.Root)

	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		xevent.Detach(xu, ev.Window)
		if h.Destroy != nil {
			h.Destroy(ev.Window)
		}
	}).Connect(c.XUtil, c.Root)

	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		if h.Configure != nil && ev.Window != c.Root {
			h.Configure(ev.Window)
		}
	}).Connect(c.XUtil, c.Root)

	xevent.ClientMessageFun(func(_ *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
		if h.StateRequest == nil || ev.Format != 32 {
			return
		}
		name, err := c.AtomName(ev.Type)
		if err != nil || name != AtomWmState {
			return
		}
		data := ev.Data.Data32
		if len(data) < 3 {
			return
		}
		var states []string
		for _, atom := range data[1:3] {
			if atom == 0 {
				continue
			}
			state, err := c.AtomName(xproto.Atom(atom))
			if err != nil {
				logger.Debug("ignoring unknown state atom", "window", ev.Window, "atom", atom)
				continue
			}
			states = append(states, state)
		}
		h.StateRequest(ev.Window, data[0], states)
	}).Connect(c.XUtil, c.Root)

	return nil
}

// WatchClient selects property changes on a client window and routes
// them to h.Property. Callbacks are detached when the window is destroyed.
func (c *Connection) WatchClient(windowID xproto.Window, h EventHandlers) error {
	win := xwindow.New(c.XUtil, windowID)
	if err := win.Listen(xproto.EventMaskPropertyChange); err != nil {
		return fmt.Errorf("failed to select events on window %d: %w", windowID, err)
	}
	if h.Property == nil {
		return nil
	}

	xevent.PropertyNotifyFun(func(_ *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := c.AtomName(ev.Atom)
		if err != nil {
			return
		}
		h.Property(ev.Window, name)
	}).Connect(c.XUtil, windowID)
	return nil
}

// UnwatchClient drops every callback attached to windowID.
func (c *Connection) UnwatchClient(windowID xproto.Window) {
	xevent.Detach(c.XUtil, windowID)
}
