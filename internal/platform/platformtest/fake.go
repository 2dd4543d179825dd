// Package platformtest provides an in-memory window system for tests.
package platformtest

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/1broseidon/winhide/internal/platform"
)

// FakeWindow is the mutable state of one simulated window.
type FakeWindow struct {
	ID        platform.WindowID
	Title     string
	Path      string
	Bounds    platform.Rect
	Visible   bool
	Minimized bool
	Maximized bool
	Hidden    bool
	Native    bool
	Icon      []byte

	// Child marks a non-top-level window: never listed, never resolved.
	Child bool

	// Fail maps an operation name ("Title", "SetBounds", ...) to the error it returns.
	Fail map[string]error
	// Panic lists operations that panic.
	Panic map[string]bool
	// Block lists operations that never return until Release is called.
	Block map[string]bool
}

// Backend is a fake platform.Backend. All methods are safe for concurrent use.
type Backend struct {
	mu         sync.Mutex
	windows    map[platform.WindowID]*FakeWindow
	calls      []string
	foreground platform.WindowID
	desktop    platform.Rect
	listErr    error
	release    chan struct{}
}

var _ platform.Backend = (*Backend)(nil)

// NewBackend returns a fake backend with a 1920x1080 desktop.
func NewBackend(windows ...*FakeWindow) *Backend {
	b := &Backend{
		windows: make(map[platform.WindowID]*FakeWindow),
		desktop: platform.Rect{Width: 1920, Height: 1080},
		release: make(chan struct{}),
	}
	for _, w := range windows {
		b.Add(w)
	}
	return b
}

// Add registers w. Windows default to visible.
func (b *Backend) Add(w *FakeWindow) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.windows[w.ID] = w
}

// Remove simulates a window closing.
func (b *Backend) Remove(id platform.WindowID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.windows, id)
}

// Get returns a copy of the window state.
func (b *Backend) Get(id platform.WindowID) (FakeWindow, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[id]
	if !ok {
		return FakeWindow{}, false
	}
	return *w, true
}

// Update mutates a window under the backend lock.
func (b *Backend) Update(id platform.WindowID, fn func(w *FakeWindow)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if w, ok := b.windows[id]; ok {
		fn(w)
	}
}

// SetListError makes Windows fail.
func (b *Backend) SetListError(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listErr = err
}

// SetDesktop overrides the desktop bounds.
func (b *Backend) SetDesktop(r platform.Rect) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.desktop = r
}

// Foreground returns the last raised window.
func (b *Backend) Foreground() platform.WindowID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.foreground
}

// Calls returns the recorded OS calls as "Op:id" strings.
func (b *Backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

// ResetCalls clears the call log.
func (b *Backend) ResetCalls() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = nil
}

// Release unblocks every operation stuck on Block.
func (b *Backend) Release() {
	close(b.release)
}

func (b *Backend) Windows() ([]platform.Window, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, "Windows")
	if b.listErr != nil {
		return nil, b.listErr
	}
	ids := make([]platform.WindowID, 0, len(b.windows))
	for id, w := range b.windows {
		if w.Hidden || w.Child {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]platform.Window, 0, len(ids))
	for _, id := range ids {
		out = append(out, &handle{b: b, id: id})
	}
	return out, nil
}

func (b *Backend) Resolve(id platform.WindowID) (platform.Window, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, fmt.Sprintf("Resolve:%d", id))
	if w, ok := b.windows[id]; !ok || w.Child {
		return nil, platform.ErrWindowNotFound
	}
	return &handle{b: b, id: id}, nil
}

func (b *Backend) DesktopBounds() (platform.Rect, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.desktop, nil
}

func (b *Backend) Close() {}

var errGone = errors.New("window destroyed")

type handle struct {
	b  *Backend
	id platform.WindowID
}

// do runs fn against the window state, honoring the configured failure modes.
func (h *handle) do(op string, fn func(w *FakeWindow) error) error {
	h.b.mu.Lock()
	h.b.calls = append(h.b.calls, fmt.Sprintf("%s:%d", op, h.id))
	w, ok := h.b.windows[h.id]
	if !ok {
		h.b.mu.Unlock()
		return errGone
	}
	if w.Block[op] {
		release := h.b.release
		h.b.mu.Unlock()
		<-release
		h.b.mu.Lock()
	}
	defer h.b.mu.Unlock()
	if w.Panic[op] {
		panic(fmt.Sprintf("fake %s panic", op))
	}
	if err := w.Fail[op]; err != nil {
		return err
	}
	return fn(w)
}

func (h *handle) ID() platform.WindowID { return h.id }

func (h *handle) IsValid() bool {
	h.b.mu.Lock()
	defer h.b.mu.Unlock()
	_, ok := h.b.windows[h.id]
	return ok
}

func (h *handle) IsVisible() (v bool, err error) {
	err = h.do("IsVisible", func(w *FakeWindow) error { v = w.Visible && !w.Hidden; return nil })
	return
}

func (h *handle) IsMinimized() (v bool, err error) {
	err = h.do("IsMinimized", func(w *FakeWindow) error { v = w.Minimized; return nil })
	return
}

func (h *handle) IsMaximized() (v bool, err error) {
	err = h.do("IsMaximized", func(w *FakeWindow) error { v = w.Maximized; return nil })
	return
}

func (h *handle) Title() (s string, err error) {
	err = h.do("Title", func(w *FakeWindow) error { s = w.Title; return nil })
	return
}

func (h *handle) Path() (s string, err error) {
	err = h.do("Path", func(w *FakeWindow) error { s = w.Path; return nil })
	return
}

func (h *handle) Bounds() (r platform.Rect, err error) {
	err = h.do("Bounds", func(w *FakeWindow) error { r = w.Bounds; return nil })
	return
}

func (h *handle) Icon(int) (data []byte, err error) {
	err = h.do("Icon", func(w *FakeWindow) error {
		if w.Icon == nil {
			return errors.New("no icon")
		}
		data = w.Icon
		return nil
	})
	return
}

func (h *handle) HideCapability() platform.HideCapability {
	h.b.mu.Lock()
	w, ok := h.b.windows[h.id]
	native := ok && w.Native
	h.b.mu.Unlock()
	if !native {
		return platform.FallbackOnly{}
	}
	return platform.NativeHideCapable{Hide: func() error {
		return h.do("Hide", func(w *FakeWindow) error { w.Hidden = true; return nil })
	}}
}

func (h *handle) Show() error {
	return h.do("Show", func(w *FakeWindow) error { w.Hidden = false; w.Visible = true; return nil })
}

func (h *handle) SetBounds(r platform.Rect) error {
	return h.do("SetBounds", func(w *FakeWindow) error { w.Bounds = r; return nil })
}

func (h *handle) Minimize() error {
	return h.do("Minimize", func(w *FakeWindow) error { w.Minimized = true; w.Maximized = false; return nil })
}

func (h *handle) Maximize() error {
	return h.do("Maximize", func(w *FakeWindow) error { w.Maximized = true; w.Minimized = false; return nil })
}

func (h *handle) Restore() error {
	return h.do("Restore", func(w *FakeWindow) error { w.Maximized = false; w.Minimized = false; return nil })
}

func (h *handle) Raise() error {
	return h.do("Raise", func(w *FakeWindow) error { h.b.foreground = h.id; return nil })
}
