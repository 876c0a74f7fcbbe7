package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection establishes a connection to the X11 server
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	// EWMH is initialized lazily by xgbutil, RandR on the first screen lookup
	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// MainPing starts the X11 event loop in its own goroutine. Every event is
// bracketed by a send on before and after, so a caller that receives from
// before and then after owns the loop for the duration of the callbacks.
func (c *Connection) MainPing() (before, after, quit chan struct{}) {
	return xevent.MainPing(c.XUtil)
}

// QueueEmpty reports whether every read event has been processed.
func (c *Connection) QueueEmpty() bool {
	return xevent.Empty(c.XUtil)
}

// Quit stops the event loop after the current event.
func (c *Connection) Quit() {
	xevent.Quit(c.XUtil)
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}

// AtomName returns the name of an interned atom.
func (c *Connection) AtomName(atom xproto.Atom) (string, error) {
	name, err := xprop.AtomName(c.XUtil, atom)
	if err != nil {
		return "", fmt.Errorf("failed to resolve atom %d: %w", atom, err)
	}
	return name, nil
}
