package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

const (
	stateMaxVert = "_NET_WM_STATE_MAXIMIZED_VERT"
	stateMaxHorz = "_NET_WM_STATE_MAXIMIZED_HORZ"
	stateHidden  = "_NET_WM_STATE_HIDDEN"
	stateRemove  = 0
	stateAdd     = 1
	sourcePager  = 2
)

// ClientList returns the windows the window manager is currently managing.
func (c *Connection) ClientList() ([]xproto.Window, error) {
	return ewmh.ClientListGet(c.XUtil)
}

// Exists reports whether windowID still names a live window.
func (c *Connection) Exists(windowID xproto.Window) bool {
	_, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	return err == nil
}

// IsMapped reports whether the window is currently viewable.
func (c *Connection) IsMapped(windowID xproto.Window) (bool, error) {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return false, err
	}
	return attrs.MapState == xproto.MapStateViewable, nil
}

// HasWMState reports whether the window manager has set WM_STATE on the
// window. Withdrawing only behaves when a compliant manager is running.
func (c *Connection) HasWMState(windowID xproto.Window) bool {
	_, err := icccm.WmStateGet(c.XUtil, windowID)
	return err == nil
}

// IsTopLevel reports whether windowID is a client-level window: a direct
// child of the root, or a frame-reparented window the manager tracks via
// WM_STATE. Override-redirect windows (menus, tooltips) never qualify.
func (c *Connection) IsTopLevel(windowID xproto.Window) (bool, error) {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return false, err
	}
	tree, err := xproto.QueryTree(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return false, err
	}
	return topLevel(tree.Parent == c.Root, c.HasWMState(windowID), attrs.OverrideRedirect), nil
}

func topLevel(parentIsRoot, managed, overrideRedirect bool) bool {
	if overrideRedirect {
		return false
	}
	return parentIsRoot || managed
}

// IsIconic reports whether the window is minimized.
func (c *Connection) IsIconic(windowID xproto.Window) (bool, error) {
	if st, err := icccm.WmStateGet(c.XUtil, windowID); err == nil && st.State == icccm.StateIconic {
		return true, nil
	}
	return c.hasNetState(windowID, stateHidden)
}

// IsMaximized reports whether the window is maximized in both directions.
func (c *Connection) IsMaximized(windowID xproto.Window) (bool, error) {
	states, err := c.netStates(windowID)
	if err != nil {
		return false, err
	}
	return states[stateMaxVert] && states[stateMaxHorz], nil
}

func (c *Connection) netStates(windowID xproto.Window) (map[string]bool, error) {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		// An absent property means no states.
		if !c.Exists(windowID) {
			return nil, err
		}
		return map[string]bool{}, nil
	}
	set := make(map[string]bool, len(states))
	for _, s := range states {
		set[s] = true
	}
	return set, nil
}

func (c *Connection) hasNetState(windowID xproto.Window, state string) (bool, error) {
	states, err := c.netStates(windowID)
	if err != nil {
		return false, err
	}
	return states[state], nil
}

// Geometry returns the window's position in root coordinates and its size.
func (c *Connection) Geometry(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, err
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return 0, 0, 0, 0, err
	}

	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), nil
}

// Title returns the EWMH title, falling back to WM_NAME.
func (c *Connection) Title(windowID xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, windowID); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(c.XUtil, windowID); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// PID returns the process id advertised through _NET_WM_PID.
func (c *Connection) PID(windowID xproto.Window) (int, error) {
	pid, err := ewmh.WmPidGet(c.XUtil, windowID)
	if err != nil {
		return 0, err
	}
	if pid == 0 {
		return 0, fmt.Errorf("window %d has no pid", windowID)
	}
	return int(pid), nil
}

// Icon returns the _NET_WM_ICON entry closest to size as ARGB pixels.
func (c *Connection) Icon(windowID xproto.Window, size int) (width, height int, pixels []uint32, err error) {
	icons, err := ewmh.WmIconGet(c.XUtil, windowID)
	if err != nil {
		return 0, 0, nil, err
	}
	if len(icons) == 0 {
		return 0, 0, nil, fmt.Errorf("window %d has no icon", windowID)
	}

	best := icons[0]
	for _, icon := range icons[1:] {
		if iconScore(icon, size) < iconScore(best, size) {
			best = icon
		}
	}

	pixels = make([]uint32, len(best.Data))
	for i, v := range best.Data {
		pixels[i] = uint32(v)
	}
	return int(best.Width), int(best.Height), pixels, nil
}

// iconScore prefers the smallest icon at least size wide, then the largest.
func iconScore(icon ewmh.WmIcon, size int) int {
	w := int(icon.Width)
	if w >= size {
		return w - size
	}
	return 1<<20 + (size - w)
}

// Withdraw unmaps the window and announces the withdrawal to the window
// manager, which drops it from the client list, taskbars and switchers.
func (c *Connection) Withdraw(windowID xproto.Window) error {
	if err := xproto.UnmapWindowChecked(c.XUtil.Conn(), windowID).Check(); err != nil {
		return fmt.Errorf("unmap window: %w", err)
	}

	ev := xproto.UnmapNotifyEvent{
		Event:         c.Root,
		Window:        windowID,
		FromConfigure: false,
	}
	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// Map maps the window so the window manager manages it again.
func (c *Connection) Map(windowID xproto.Window) error {
	return xproto.MapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// MoveResizeWindow places the client area (not the frame) at x, y in root
// coordinates, matching what Geometry reports. Managed windows go through
// the window manager with static gravity; unmanaged ones are configured
// directly.
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	if !c.HasWMState(windowID) {
		mask, values := configureRequest(x, y, width, height)
		if err := xproto.ConfigureWindowChecked(c.XUtil.Conn(), windowID, mask, values).Check(); err != nil {
			return fmt.Errorf("configure window: %w", err)
		}
		return nil
	}

	// Maximized windows ignore geometry requests.
	if err := c.Unmaximize(windowID); err != nil {
		return fmt.Errorf("unmaximize: %w", err)
	}
	if err := ewmh.MoveresizeWindowExtra(c.XUtil, windowID, x, y, width, height,
		xproto.GravityStatic, sourcePager, true, true); err != nil {
		return fmt.Errorf("moveresize request: %w", err)
	}
	return nil
}

// configureRequest builds a ConfigureWindow value list for position and
// size. Negative coordinates travel as two's complement INT16 values.
func configureRequest(x, y, width, height int) (uint16, []uint32) {
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY |
		xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	return mask, []uint32{
		uint32(int32(x)),
		uint32(int32(y)),
		uint32(max(width, 1)),
		uint32(max(height, 1)),
	}
}

// Maximize asks the window manager to maximize in both directions.
func (c *Connection) Maximize(windowID xproto.Window) error {
	return ewmh.WmStateReqExtra(c.XUtil, windowID, stateAdd, stateMaxVert, stateMaxHorz, sourcePager)
}

// Unmaximize removes maximized state from a window
func (c *Connection) Unmaximize(windowID xproto.Window) error {
	states, err := c.netStates(windowID)
	if err != nil {
		return err
	}
	if !states[stateMaxVert] && !states[stateMaxHorz] {
		return nil
	}
	return ewmh.WmStateReqExtra(c.XUtil, windowID, stateRemove, stateMaxVert, stateMaxHorz, sourcePager)
}

// Minimize iconifies a window via WM_CHANGE_STATE.
func (c *Connection) Minimize(windowID xproto.Window) error {
	return ewmh.ClientEvent(c.XUtil, windowID, "WM_CHANGE_STATE", icccm.StateIconic)
}

// Activate raises and focuses a window via _NET_ACTIVE_WINDOW.
func (c *Connection) Activate(windowID xproto.Window) error {
	if err := ewmh.ActiveWindowReqExtra(c.XUtil, windowID, sourcePager, 0, 0); err != nil {
		return fmt.Errorf("failed to activate window: %w", err)
	}
	return nil
}
