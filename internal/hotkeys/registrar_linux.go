//go:build linux

package hotkeys

import (
	"context"
	"fmt"
	"sync"

	"github.com/1broseidon/winhide/internal/accelerator"
	"github.com/1broseidon/winhide/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"go.uber.org/zap"
)

// x11Accessor is implemented by backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// x11Registrar grabs keys on the root window. Grabs go straight to the
// server, so it is ready before the event loop runs.
type x11Registrar struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	logger *zap.Logger
	ready  chan struct{}
}

var ignoreModsOnce sync.Once

// NewRegistrar returns the X11 registrar for backend.
func NewRegistrar(backend platform.Backend, logger *zap.Logger) (Registrar, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok || accessor.XUtil() == nil {
		return nil, fmt.Errorf("backend does not expose an X11 connection")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	xu := accessor.XUtil()
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	ready := make(chan struct{})
	close(ready)
	return &x11Registrar{
		xu:     xu,
		root:   accessor.RootWindow(),
		logger: logger,
		ready:  ready,
	}, nil
}

func (r *x11Registrar) Ready() <-chan struct{} {
	return r.ready
}

func (r *x11Registrar) Register(a accelerator.Accelerator, fn func()) error {
	seq, err := a.X11()
	if err != nil {
		return err
	}
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		fn()
	}).Connect(r.xu, r.root, seq, true)
}

func (r *x11Registrar) UnregisterAll() {
	keybind.Detach(r.xu, r.root)
}

// Run runs the X event loop until ctx is cancelled. The loop itself only
// notices the quit flag after the next event, so Run returns without waiting
// for it; closing the backend connection ends it.
func (r *x11Registrar) Run(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		xevent.Main(r.xu)
	}()

	select {
	case <-ctx.Done():
		xevent.Quit(r.xu)
	case <-done:
	}
	return nil
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
