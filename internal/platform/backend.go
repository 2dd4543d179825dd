package platform

import "errors"

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// UniqueIDs returns ids without repeats, keeping first-occurrence order.
// A nil input stays nil.
func UniqueIDs(ids []WindowID) []WindowID {
	if ids == nil {
		return nil
	}
	seen := make(map[WindowID]struct{}, len(ids))
	out := make([]WindowID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// ErrWindowNotFound is returned by Resolve when an id no longer refers to a
// live top-level window.
var ErrWindowNotFound = errors.New("window not found")

// ErrUnsupported is returned by NewBackend on platforms without a backend.
var ErrUnsupported = errors.New("window backend not supported on this platform")

// Window is a live handle to a top-level OS window. Handles are cheap to
// obtain and should not be cached across operations: every query goes back
// to the window system.
type Window interface {
	ID() WindowID
	// IsValid reports whether the handle still refers to a live window.
	IsValid() bool
	IsVisible() (bool, error)
	IsMinimized() (bool, error)
	IsMaximized() (bool, error)
	Title() (string, error)
	// Path returns the owning process's executable path.
	Path() (string, error)
	Bounds() (Rect, error)
	// Icon returns a PNG encoded icon no larger than size x size.
	Icon(size int) ([]byte, error)
	HideCapability() HideCapability

	Show() error
	SetBounds(r Rect) error
	Minimize() error
	Maximize() error
	Restore() error
	Raise() error
}

// Backend abstracts window-system queries across platforms.
type Backend interface {
	// Windows returns all top-level windows known to the window system.
	Windows() ([]Window, error)
	// Resolve returns a fresh handle for id, including windows that are
	// currently hidden. Returns ErrWindowNotFound for vanished or non-top-level
	// windows.
	Resolve(id WindowID) (Window, error)
	// DesktopBounds returns the union of all display areas.
	DesktopBounds() (Rect, error)
	Close()
}

// HideCapability describes how a window can be removed from view. It is
// either NativeHideCapable or FallbackOnly.
type HideCapability interface {
	hideCapability()
}

// NativeHideCapable windows can be hidden directly, which also removes them
// from the taskbar and task switcher.
type NativeHideCapable struct {
	Hide func() error
}

// FallbackOnly windows have no native hide; callers emulate it by minimizing
// and moving the window off-screen.
type FallbackOnly struct{}

func (NativeHideCapable) hideCapability() {}
func (FallbackOnly) hideCapability()      {}
