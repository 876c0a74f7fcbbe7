package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// screenRect is the root-relative area of one enabled CRTC.
type screenRect struct {
	x, y, width, height int
}

func (r screenRect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.width && y >= r.y && y < r.y+r.height
}

// screens lists the enabled CRTCs in RandR order. A panel's screen number
// is its index in this list.
func (c *Connection) screens() ([]screenRect, error) {
	conn := c.XUtil.Conn()
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}
	res, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var out []screenRect
	for _, crtc := range res.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, res.ConfigTimestamp).Reply()
		if err != nil || info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}
		out = append(out, screenRect{
			x:      int(info.X),
			y:      int(info.Y),
			width:  int(info.Width),
			height: int(info.Height),
		})
	}
	return out, nil
}

// ScreenOf returns the screen holding the center of windowID, or 0 when
// the window lies outside every screen.
func (c *Connection) ScreenOf(windowID xproto.Window) (int, error) {
	rects, err := c.screens()
	if err != nil {
		return 0, err
	}

	conn := c.XUtil.Conn()
	geom, err := xproto.GetGeometry(conn, xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to get window geometry: %w", err)
	}
	pos, err := xproto.TranslateCoordinates(conn, windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to translate window coordinates: %w", err)
	}

	return screenAt(rects, int(pos.DstX)+int(geom.Width)/2, int(pos.DstY)+int(geom.Height)/2), nil
}

func screenAt(rects []screenRect, x, y int) int {
	for i, r := range rects {
		if r.contains(x, y) {
			return i
		}
	}
	return 0
}
