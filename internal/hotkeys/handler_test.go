package hotkeys

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/winhide/internal/accelerator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegistrar struct {
	mu       sync.Mutex
	bindings map[string]func()
	taken    map[string]bool
	unbinds  int

	ready     chan struct{}
	readyOnce sync.Once
}

func newFakeRegistrar() *fakeRegistrar {
	f := newLoopRegistrar()
	f.markReady()
	return f
}

// newLoopRegistrar only accepts bindings once Run has started, like the
// Win32 registrar.
func newLoopRegistrar() *fakeRegistrar {
	return &fakeRegistrar{
		bindings: map[string]func(){},
		taken:    map[string]bool{},
		ready:    make(chan struct{}),
	}
}

func (f *fakeRegistrar) markReady() {
	f.readyOnce.Do(func() { close(f.ready) })
}

func (f *fakeRegistrar) Ready() <-chan struct{} {
	return f.ready
}

func (f *fakeRegistrar) Register(a accelerator.Accelerator, fn func()) error {
	select {
	case <-f.ready:
	default:
		return errors.New("event loop is not running")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.taken[a.String()] {
		return errors.New("already grabbed by another client")
	}
	f.bindings[a.String()] = fn
	return nil
}

func (f *fakeRegistrar) UnregisterAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bindings = map[string]func(){}
	f.unbinds++
}

func (f *fakeRegistrar) Run(ctx context.Context) error {
	f.markReady()
	<-ctx.Done()
	return nil
}

func (f *fakeRegistrar) press(accel string) bool {
	f.mu.Lock()
	fn, ok := f.bindings[accel]
	f.mu.Unlock()
	if ok {
		fn()
	}
	return ok
}

func waitFor(t *testing.T, ch <-chan Action) Action {
	t.Helper()
	select {
	case a := <-ch:
		return a
	case <-time.After(time.Second):
		t.Fatal("hotkey action did not fire")
		return ""
	}
}

func TestBindRegistersBothActions(t *testing.T) {
	reg := newFakeRegistrar()
	fired := make(chan Action, 4)
	h := NewHandler(reg, map[Action]func(){
		ActionHide: func() { fired <- ActionHide },
		ActionShow: func() { fired <- ActionShow },
	}, time.Millisecond, nil)

	warnings := h.Bind("ctrl+alt+h", "Control+Alt+S")
	assert.Empty(t, warnings)
	assert.Equal(t, map[Action]string{ActionHide: "ctrl+alt+h", ActionShow: "Control+Alt+S"}, h.Bound())

	require.True(t, reg.press("Control+Alt+H"))
	assert.Equal(t, ActionHide, waitFor(t, fired))
	require.True(t, reg.press("Control+Alt+S"))
	assert.Equal(t, ActionShow, waitFor(t, fired))
}

func TestBindReplacesPreviousBindings(t *testing.T) {
	reg := newFakeRegistrar()
	h := NewHandler(reg, map[Action]func(){ActionHide: func() {}, ActionShow: func() {}}, time.Millisecond, nil)

	h.Bind("Control+Alt+H", "Control+Alt+S")
	h.Bind("Alt+F1", "Alt+F2")

	assert.False(t, reg.press("Control+Alt+H"))
	assert.True(t, reg.press("Alt+F1"))
	assert.Equal(t, 2, reg.unbinds)
}

func TestBindFailureIsWarning(t *testing.T) {
	reg := newFakeRegistrar()
	reg.taken["Control+Alt+S"] = true
	h := NewHandler(reg, map[Action]func(){ActionHide: func() {}, ActionShow: func() {}}, time.Millisecond, nil)

	warnings := h.Bind("Control+Alt+H", "Control+Alt+S")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Error(), "show hotkey")
	assert.Equal(t, map[Action]string{ActionHide: "Control+Alt+H"}, h.Bound())

	warnings = h.Bind("Shift", "")
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], accelerator.ErrModifierOnly)
	assert.Empty(t, h.Bound())
}

func TestRepeatIsSuppressed(t *testing.T) {
	reg := newFakeRegistrar()
	fired := make(chan Action, 10)
	h := NewHandler(reg, map[Action]func(){
		ActionHide: func() { fired <- ActionHide },
	}, time.Hour, nil)
	h.Bind("Control+Alt+H", "")

	for i := 0; i < 5; i++ {
		reg.press("Control+Alt+H")
	}
	waitFor(t, fired)

	select {
	case <-fired:
		t.Fatal("repeat should have been suppressed")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnbind(t *testing.T) {
	reg := newFakeRegistrar()
	h := NewHandler(reg, map[Action]func(){ActionHide: func() {}}, time.Millisecond, nil)
	h.Bind("Control+Alt+H", "")
	h.Unbind()

	assert.Empty(t, h.Bound())
	assert.False(t, reg.press("Control+Alt+H"))
}

func TestWaitReadyThenBind(t *testing.T) {
	reg := newLoopRegistrar()
	fired := make(chan Action, 1)
	h := NewHandler(reg, map[Action]func(){
		ActionHide: func() { fired <- ActionHide },
		ActionShow: func() {},
	}, time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	require.NoError(t, h.WaitReady(ctx, time.Second))
	assert.Empty(t, h.Bind("Control+Alt+H", "Control+Alt+S"))
	require.True(t, reg.press("Control+Alt+H"))
	assert.Equal(t, ActionHide, waitFor(t, fired))
}

func TestWaitReadyWithoutLoop(t *testing.T) {
	reg := newLoopRegistrar()
	h := NewHandler(reg, map[Action]func(){ActionHide: func() {}}, time.Millisecond, nil)

	assert.Error(t, h.WaitReady(context.Background(), 20*time.Millisecond))
	assert.Len(t, h.Bind("Control+Alt+H", ""), 1)
}
