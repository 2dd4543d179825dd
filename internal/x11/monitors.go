package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// Monitor is the area covered by one active CRTC.
type Monitor struct {
	X, Y          int
	Width, Height int
}

// Monitors lists the active CRTCs reported by RandR.
func (c *Connection) Monitors() ([]Monitor, error) {
	conn := c.XUtil.Conn()
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}
	res, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var out []Monitor
	for _, crtc := range res.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, res.ConfigTimestamp).Reply()
		if err != nil || len(info.Outputs) == 0 || info.Width == 0 || info.Height == 0 {
			continue
		}
		out = append(out, Monitor{
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}
	return out, nil
}

// DesktopBounds is the bounding box of all monitors, falling back to the
// root window geometry when RandR has nothing to say.
func (c *Connection) DesktopBounds() (x, y, width, height int, err error) {
	if monitors, err := c.Monitors(); err == nil && len(monitors) > 0 {
		x, y, width, height = unionMonitors(monitors)
		return x, y, width, height, nil
	}

	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to get root geometry: %w", err)
	}
	return int(geom.X), int(geom.Y), int(geom.Width), int(geom.Height), nil
}

func unionMonitors(monitors []Monitor) (x, y, width, height int) {
	left, top := monitors[0].X, monitors[0].Y
	right, bottom := left+monitors[0].Width, top+monitors[0].Height
	for _, m := range monitors[1:] {
		left = min(left, m.X)
		top = min(top, m.Y)
		right = max(right, m.X+m.Width)
		bottom = max(bottom, m.Y+m.Height)
	}
	return left, top, right - left, bottom - top
}
