//go:build windows

package platform

import (
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                   = windows.NewLazySystemDLL("user32.dll")
	gdi32                    = windows.NewLazySystemDLL("gdi32.dll")
	procGetWindowTextW       = user32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW = user32.NewProc("GetWindowTextLengthW")
	procGetWindowRect        = user32.NewProc("GetWindowRect")
	procShowWindow           = user32.NewProc("ShowWindow")
	procSetWindowPos         = user32.NewProc("SetWindowPos")
	procGetAncestor          = user32.NewProc("GetAncestor")
	procIsIconic             = user32.NewProc("IsIconic")
	procIsZoomed             = user32.NewProc("IsZoomed")
	procSetForegroundWindow  = user32.NewProc("SetForegroundWindow")
	procBringWindowToTop     = user32.NewProc("BringWindowToTop")
	procGetSystemMetrics     = user32.NewProc("GetSystemMetrics")
	procSendMessageTimeoutW  = user32.NewProc("SendMessageTimeoutW")
	procGetClassLongPtrW     = user32.NewProc("GetClassLongPtrW")
	procGetIconInfo          = user32.NewProc("GetIconInfo")
	procGetDC                = user32.NewProc("GetDC")
	procReleaseDC            = user32.NewProc("ReleaseDC")
	procGetObjectW           = gdi32.NewProc("GetObjectW")
	procGetDIBits            = gdi32.NewProc("GetDIBits")
	procDeleteObject         = gdi32.NewProc("DeleteObject")
)

const (
	swHide     = 0
	swShow     = 5
	swMinimize = 6
	swMaximize = 3
	swRestore  = 9

	swpNoZOrder   = 0x0004
	swpNoActivate = 0x0010

	smXVirtualScreen  = 76
	smYVirtualScreen  = 77
	smCxVirtualScreen = 78
	smCyVirtualScreen = 79

	wmGetIcon       = 0x007F
	iconBig         = 1
	iconSmall2      = 2
	gclpHIcon       = -14
	smtoAbortIfHung = 0x0002

	gaRoot = 2
)

type winRect struct {
	Left, Top, Right, Bottom int32
}

type iconInfo struct {
	FIcon    int32
	XHotspot uint32
	YHotspot uint32
	HbmMask  windows.Handle
	HbmColor windows.Handle
}

type bitmap struct {
	Type       int32
	Width      int32
	Height     int32
	WidthBytes int32
	Planes     uint16
	BitsPixel  uint16
	Bits       uintptr
}

type bitmapInfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

// WindowsBackend talks to user32 directly.
type WindowsBackend struct{}

var _ Backend = (*WindowsBackend)(nil)

// NewBackend returns the Win32 backend.
func NewBackend() (Backend, error) {
	return &WindowsBackend{}, nil
}

// The runtime never frees callbacks, so one is created for the process and
// guarded by enumMu.
var (
	enumMu    sync.Mutex
	enumHWNDs []windows.HWND
	enumProc  = windows.NewCallback(func(hwnd windows.HWND, _ uintptr) uintptr {
		enumHWNDs = append(enumHWNDs, hwnd)
		return 1
	})
)

// Windows enumerates every top-level window.
func (b *WindowsBackend) Windows() ([]Window, error) {
	enumMu.Lock()
	enumHWNDs = enumHWNDs[:0]
	err := windows.EnumWindows(enumProc, nil)
	hwnds := make([]windows.HWND, len(enumHWNDs))
	copy(hwnds, enumHWNDs)
	enumMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("EnumWindows: %w", err)
	}

	result := make([]Window, 0, len(hwnds))
	for _, hwnd := range hwnds {
		result = append(result, &win32Window{hwnd: hwnd})
	}
	return result, nil
}

// Resolve accepts only live top-level windows. Hidden windows keep their
// place under the desktop, so they still resolve for restore.
func (b *WindowsBackend) Resolve(id WindowID) (Window, error) {
	hwnd := windows.HWND(uintptr(id))
	if !windows.IsWindow(hwnd) {
		return nil, fmt.Errorf("window %d: %w", id, ErrWindowNotFound)
	}
	if root, _, _ := procGetAncestor.Call(uintptr(hwnd), gaRoot); windows.HWND(root) != hwnd {
		return nil, fmt.Errorf("window %d: %w", id, ErrWindowNotFound)
	}
	return &win32Window{hwnd: hwnd}, nil
}

// DesktopBounds returns the virtual screen spanning all monitors.
func (b *WindowsBackend) DesktopBounds() (Rect, error) {
	metric := func(i int) int {
		v, _, _ := procGetSystemMetrics.Call(uintptr(i))
		return int(int32(v))
	}
	r := Rect{
		X:      metric(smXVirtualScreen),
		Y:      metric(smYVirtualScreen),
		Width:  metric(smCxVirtualScreen),
		Height: metric(smCyVirtualScreen),
	}
	if r.Width == 0 || r.Height == 0 {
		return Rect{}, fmt.Errorf("GetSystemMetrics returned an empty virtual screen")
	}
	return r, nil
}

func (b *WindowsBackend) Close() {}

type win32Window struct {
	hwnd windows.HWND
}

func (w *win32Window) ID() WindowID { return WindowID(uintptr(w.hwnd)) }

func (w *win32Window) IsValid() bool { return windows.IsWindow(w.hwnd) }

func (w *win32Window) IsVisible() (bool, error) {
	if !windows.IsWindow(w.hwnd) {
		return false, ErrWindowNotFound
	}
	return windows.IsWindowVisible(w.hwnd), nil
}

func (w *win32Window) IsMinimized() (bool, error) {
	return w.boolProc(procIsIconic)
}

func (w *win32Window) IsMaximized() (bool, error) {
	return w.boolProc(procIsZoomed)
}

func (w *win32Window) boolProc(proc *windows.LazyProc) (bool, error) {
	if !windows.IsWindow(w.hwnd) {
		return false, ErrWindowNotFound
	}
	ret, _, _ := proc.Call(uintptr(w.hwnd))
	return ret != 0, nil
}

func (w *win32Window) Title() (string, error) {
	n, _, _ := procGetWindowTextLengthW.Call(uintptr(w.hwnd))
	if n == 0 {
		return "", nil
	}
	buf := make([]uint16, n+1)
	copied, _, err := procGetWindowTextW.Call(uintptr(w.hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if copied == 0 && err != nil && err != syscall.Errno(0) {
		return "", fmt.Errorf("GetWindowText: %w", err)
	}
	return windows.UTF16ToString(buf[:copied]), nil
}

func (w *win32Window) Path() (string, error) {
	var pid uint32
	if _, err := windows.GetWindowThreadProcessId(w.hwnd, &pid); err != nil {
		return "", fmt.Errorf("GetWindowThreadProcessId: %w", err)
	}

	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return "", fmt.Errorf("OpenProcess %d: %w", pid, err)
	}
	defer windows.CloseHandle(h)

	buf := make([]uint16, windows.MAX_LONG_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return "", fmt.Errorf("QueryFullProcessImageName: %w", err)
	}
	return windows.UTF16ToString(buf[:size]), nil
}

func (w *win32Window) Bounds() (Rect, error) {
	var r winRect
	ret, _, err := procGetWindowRect.Call(uintptr(w.hwnd), uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return Rect{}, fmt.Errorf("GetWindowRect: %w", err)
	}
	return Rect{
		X:      int(r.Left),
		Y:      int(r.Top),
		Width:  int(r.Right - r.Left),
		Height: int(r.Bottom - r.Top),
	}, nil
}

// Icon reads the window's icon bitmap through GDI.
func (w *win32Window) Icon(size int) ([]byte, error) {
	hicon := w.iconHandle()
	if hicon == 0 {
		return nil, fmt.Errorf("window %d has no icon", w.ID())
	}

	var info iconInfo
	if ret, _, err := procGetIconInfo.Call(hicon, uintptr(unsafe.Pointer(&info))); ret == 0 {
		return nil, fmt.Errorf("GetIconInfo: %w", err)
	}
	defer procDeleteObject.Call(uintptr(info.HbmMask))
	defer procDeleteObject.Call(uintptr(info.HbmColor))
	if info.HbmColor == 0 {
		return nil, fmt.Errorf("monochrome icons are not supported")
	}

	var bm bitmap
	if ret, _, err := procGetObjectW.Call(uintptr(info.HbmColor), unsafe.Sizeof(bm), uintptr(unsafe.Pointer(&bm))); ret == 0 {
		return nil, fmt.Errorf("GetObject: %w", err)
	}
	width, height := int(bm.Width), int(bm.Height)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid icon bitmap")
	}

	hdc, _, _ := procGetDC.Call(0)
	if hdc == 0 {
		return nil, fmt.Errorf("GetDC failed")
	}
	defer procReleaseDC.Call(0, hdc)

	hdr := bitmapInfoHeader{
		Size:     uint32(unsafe.Sizeof(bitmapInfoHeader{})),
		Width:    int32(width),
		Height:   -int32(height), // top-down
		Planes:   1,
		BitCount: 32,
	}
	pixels := make([]uint32, width*height)
	ret, _, err := procGetDIBits.Call(
		hdc,
		uintptr(info.HbmColor),
		0,
		uintptr(height),
		uintptr(unsafe.Pointer(&pixels[0])),
		uintptr(unsafe.Pointer(&hdr)),
		0,
	)
	if ret == 0 {
		return nil, fmt.Errorf("GetDIBits: %w", err)
	}

	// Legacy icons carry no alpha channel at all.
	opaque := true
	for _, p := range pixels {
		if p>>24 != 0 {
			opaque = false
			break
		}
	}
	if opaque {
		for i := range pixels {
			pixels[i] |= 0xFF000000
		}
	}

	return EncodeARGBIcon(width, height, pixels, size)
}

func (w *win32Window) iconHandle() uintptr {
	for _, which := range []uintptr{iconBig, iconSmall2} {
		var result uintptr
		ret, _, _ := procSendMessageTimeoutW.Call(
			uintptr(w.hwnd), wmGetIcon, which, 0,
			smtoAbortIfHung, 200, uintptr(unsafe.Pointer(&result)),
		)
		if ret != 0 && result != 0 {
			return result
		}
	}
	gclp := gclpHIcon
	h, _, _ := procGetClassLongPtrW.Call(uintptr(w.hwnd), uintptr(gclp))
	return h
}

// HideCapability is always native on Windows: SW_HIDE removes the window
// from the taskbar and Alt-Tab.
func (w *win32Window) HideCapability() HideCapability {
	return NativeHideCapable{Hide: func() error {
		return w.show(swHide)
	}}
}

func (w *win32Window) show(cmd int) error {
	if !windows.IsWindow(w.hwnd) {
		return ErrWindowNotFound
	}
	// ShowWindow returns the previous visibility, not success.
	procShowWindow.Call(uintptr(w.hwnd), uintptr(cmd))
	return nil
}

func (w *win32Window) Show() error { return w.show(swShow) }

func (w *win32Window) SetBounds(r Rect) error {
	ret, _, err := procSetWindowPos.Call(
		uintptr(w.hwnd),
		0,
		uintptr(r.X),
		uintptr(r.Y),
		uintptr(r.Width),
		uintptr(r.Height),
		swpNoZOrder|swpNoActivate,
	)
	if ret == 0 {
		return fmt.Errorf("SetWindowPos: %w", err)
	}
	return nil
}

func (w *win32Window) Minimize() error { return w.show(swMinimize) }

func (w *win32Window) Maximize() error { return w.show(swMaximize) }

func (w *win32Window) Restore() error { return w.show(swRestore) }

func (w *win32Window) Raise() error {
	procBringWindowToTop.Call(uintptr(w.hwnd))
	ret, _, err := procSetForegroundWindow.Call(uintptr(w.hwnd))
	if ret == 0 {
		return fmt.Errorf("SetForegroundWindow: %w", err)
	}
	return nil
}
