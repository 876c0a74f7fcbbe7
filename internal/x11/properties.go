package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// Property names whose changes affect stacking.
const (
	AtomWmState        = "_NET_WM_STATE"
	AtomWmWindowType   = "_NET_WM_WINDOW_TYPE"
	AtomWmTransientFor = "WM_TRANSIENT_FOR"
)

// WindowProperties are the raw ordering-relevant properties of a window.
type WindowProperties struct {
	States       []string
	Types        []string
	TransientFor xproto.Window
}

// ReadProperties reads the EWMH states, window types and the ICCCM
// transient hint. Missing properties read as empty.
func (c *Connection) ReadProperties(windowID xproto.Window) WindowProperties {
	var props WindowProperties
	if states, err := ewmh.WmStateGet(c.XUtil, windowID); err == nil {
		props.States = states
	}
	if types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID); err == nil {
		props.Types = types
	}
	if owner, err := icccm.WmTransientForGet(c.XUtil, windowID); err == nil && owner != c.Root {
		props.TransientFor = owner
	}
	return props
}

// SetStates replaces _NET_WM_STATE on windowID.
func (c *Connection) SetStates(windowID xproto.Window, states []string) error {
	if err := ewmh.WmStateSet(c.XUtil, windowID, states); err != nil {
		return fmt.Errorf("failed to set _NET_WM_STATE: %w", err)
	}
	return nil
}
