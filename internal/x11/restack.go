package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// StackAbove places windowID directly above sibling. A zero sibling
// lowers the window to the bottom of the root's children.
//
// The request is sent unchecked: a window destroyed in the meantime
// produces an asynchronous BadWindow that the event loop logs and drops.
func (c *Connection) StackAbove(windowID, sibling xproto.Window) error {
	if sibling == 0 {
		xproto.ConfigureWindow(c.XUtil.Conn(), windowID,
			xproto.ConfigWindowStackMode,
			[]uint32{xproto.StackModeBelow})
		return nil
	}
	xproto.ConfigureWindow(c.XUtil.Conn(), windowID,
		xproto.ConfigWindowSibling|xproto.ConfigWindowStackMode,
		[]uint32{uint32(sibling), xproto.StackModeAbove})
	return nil
}

// SetClientListStacking publishes _NET_CLIENT_LIST_STACKING, bottom first.
func (c *Connection) SetClientListStacking(windows []xproto.Window) error {
	if err := ewmh.ClientListStackingSet(c.XUtil, windows); err != nil {
		return fmt.Errorf("failed to set _NET_CLIENT_LIST_STACKING: %w", err)
	}
	return nil
}

// TopLevelWindows returns the mapped, non override-redirect children of
// the root window, bottom first.
func (c *Connection) TopLevelWindows() ([]xproto.Window, error) {
	tree, err := xproto.QueryTree(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to query window tree: %w", err)
	}

	windows := make([]xproto.Window, 0, len(tree.Children))
	for _, child := range tree.Children {
		attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), child).Reply()
		if err != nil {
			continue
		}
		if attrs.OverrideRedirect || attrs.MapState != xproto.MapStateViewable {
			continue
		}
		windows = append(windows, child)
	}
	return windows, nil
}

// WindowExists reports whether the server still knows windowID.
func (c *Connection) WindowExists(windowID xproto.Window) bool {
	_, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	return err == nil
}
