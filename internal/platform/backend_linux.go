//go:build linux

package platform

import (
	"fmt"
	"os"

	"github.com/1broseidon/winhide/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewBackend opens a connection to the X server named by $DISPLAY.
func NewBackend() (Backend, error) {
	return NewLinuxBackendFromDisplay()
}

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Close closes the underlying X11 connection.
func (b *LinuxBackend) Close() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Windows lists the clients the window manager is managing. Withdrawn
// windows are not included.
func (b *LinuxBackend) Windows() ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	clients, err := conn.ClientList()
	if err != nil {
		return nil, err
	}

	windows := make([]Window, 0, len(clients))
	for _, id := range clients {
		windows = append(windows, &x11Window{conn: conn, id: id})
	}
	return windows, nil
}

// Resolve returns a handle for id as long as the X window still exists
// and is top-level, whether or not it is mapped. A withdrawn window sits
// directly under the root, so it still resolves for restore.
func (b *LinuxBackend) Resolve(id WindowID) (Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	if top, err := conn.IsTopLevel(xproto.Window(id)); err != nil || !top {
		return nil, fmt.Errorf("window %d: %w", id, ErrWindowNotFound)
	}
	return &x11Window{conn: conn, id: xproto.Window(id)}, nil
}

// DesktopBounds returns the union of all monitors.
func (b *LinuxBackend) DesktopBounds() (Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return Rect{}, err
	}
	x, y, w, h, err := conn.DesktopBounds()
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: x, Y: y, Width: w, Height: h}, nil
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

// x11Window is a handle to one client window.
type x11Window struct {
	conn *x11.Connection
	id   xproto.Window
}

func (w *x11Window) ID() WindowID { return WindowID(w.id) }

func (w *x11Window) IsValid() bool { return w.conn.Exists(w.id) }

// IsVisible treats iconified windows as visible: they still sit on the
// taskbar.
func (w *x11Window) IsVisible() (bool, error) {
	mapped, err := w.conn.IsMapped(w.id)
	if err != nil || mapped {
		return mapped, err
	}
	return w.conn.IsIconic(w.id)
}

func (w *x11Window) IsMinimized() (bool, error) { return w.conn.IsIconic(w.id) }

func (w *x11Window) IsMaximized() (bool, error) { return w.conn.IsMaximized(w.id) }

func (w *x11Window) Title() (string, error) {
	if !w.conn.Exists(w.id) {
		return "", ErrWindowNotFound
	}
	return w.conn.Title(w.id), nil
}

func (w *x11Window) Path() (string, error) {
	pid, err := w.conn.PID(w.id)
	if err != nil {
		return "", err
	}
	return os.Readlink(fmt.Sprintf("/proc/%d/exe", pid))
}

func (w *x11Window) Bounds() (Rect, error) {
	x, y, width, height, err := w.conn.Geometry(w.id)
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: x, Y: y, Width: width, Height: height}, nil
}

func (w *x11Window) Icon(size int) ([]byte, error) {
	width, height, pixels, err := w.conn.Icon(w.id, size)
	if err != nil {
		return nil, err
	}
	return EncodeARGBIcon(width, height, pixels, size)
}

// HideCapability withdraws windows managed by an ICCCM window manager.
// Without WM_STATE there is nobody to tell, so the fallback is used.
func (w *x11Window) HideCapability() HideCapability {
	if !w.conn.HasWMState(w.id) {
		return FallbackOnly{}
	}
	return NativeHideCapable{Hide: func() error {
		return w.conn.Withdraw(w.id)
	}}
}

func (w *x11Window) Show() error { return w.conn.Map(w.id) }

func (w *x11Window) SetBounds(r Rect) error {
	return w.conn.MoveResizeWindow(w.id, r.X, r.Y, r.Width, r.Height)
}

func (w *x11Window) Minimize() error { return w.conn.Minimize(w.id) }

func (w *x11Window) Maximize() error { return w.conn.Maximize(w.id) }

// Restore leaves the maximized and iconic states.
func (w *x11Window) Restore() error {
	if err := w.conn.Unmaximize(w.id); err != nil {
		return err
	}
	return w.conn.Map(w.id)
}

func (w *x11Window) Raise() error { return w.conn.Activate(w.id) }
