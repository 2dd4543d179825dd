//go:build windows

package hotkeys

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"github.com/1broseidon/winhide/internal/accelerator"
	"github.com/1broseidon/winhide/internal/platform"
	"go.uber.org/zap"
	"golang.org/x/sys/windows"
)

var (
	user32                 = windows.NewLazySystemDLL("user32.dll")
	procRegisterHotKey     = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey   = user32.NewProc("UnregisterHotKey")
	procGetMessageW        = user32.NewProc("GetMessageW")
	procPostThreadMessageW = user32.NewProc("PostThreadMessageW")
	procPeekMessageW       = user32.NewProc("PeekMessageW")
)

const (
	wmQuit   = 0x0012
	wmHotkey = 0x0312
	wmUser   = 0x0400
	wmApp    = 0x8000
)

type msg struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      struct{ x, y int32 }
}

// win32Registrar owns a locked OS thread running a message loop. Hotkeys
// registered without a window are delivered to the registering thread, so
// every RegisterHotKey call is marshalled onto that thread.
type win32Registrar struct {
	logger *zap.Logger

	mu       sync.Mutex
	threadID uint32
	ready    chan struct{}
	stopped  chan struct{}
	requests chan func()
	handlers map[uintptr]func()
	nextID   uintptr
}

// NewRegistrar returns the Win32 registrar. The backend is not used.
func NewRegistrar(_ platform.Backend, logger *zap.Logger) (Registrar, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &win32Registrar{
		logger:   logger,
		ready:    make(chan struct{}),
		stopped:  make(chan struct{}),
		requests: make(chan func(), 16),
		handlers: make(map[uintptr]func()),
		nextID:   1,
	}, nil
}

// Ready is closed once Run has locked its thread and created the queue.
func (r *win32Registrar) Ready() <-chan struct{} {
	return r.ready
}

// onThread runs fn on the message loop thread and waits for it.
func (r *win32Registrar) onThread(fn func() error) error {
	select {
	case <-r.ready:
	case <-time.After(5 * time.Second):
		return errors.New("hotkey message loop is not running")
	}

	done := make(chan error, 1)
	select {
	case r.requests <- func() { done <- fn() }:
	case <-r.stopped:
		return errors.New("hotkey message loop stopped")
	}
	r.mu.Lock()
	tid := r.threadID
	r.mu.Unlock()
	procPostThreadMessageW.Call(uintptr(tid), wmApp, 0, 0)

	select {
	case err := <-done:
		return err
	case <-r.stopped:
		return errors.New("hotkey message loop stopped")
	}
}

func (r *win32Registrar) Register(a accelerator.Accelerator, fn func()) error {
	mods, vk, err := a.Win32()
	if err != nil {
		return err
	}
	return r.onThread(func() error {
		r.mu.Lock()
		id := r.nextID
		r.nextID++
		r.mu.Unlock()

		ret, _, callErr := procRegisterHotKey.Call(0, id, uintptr(mods), uintptr(vk))
		if ret == 0 {
			return fmt.Errorf("RegisterHotKey: %w", callErr)
		}
		r.mu.Lock()
		r.handlers[id] = fn
		r.mu.Unlock()
		return nil
	})
}

func (r *win32Registrar) UnregisterAll() {
	_ = r.onThread(func() error {
		r.mu.Lock()
		defer r.mu.Unlock()
		for id := range r.handlers {
			procUnregisterHotKey.Call(0, id)
		}
		r.handlers = make(map[uintptr]func())
		return nil
	})
}

func (r *win32Registrar) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(r.stopped)

	// Force creation of the thread's message queue before anyone posts to it.
	var m msg
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, wmUser, wmUser, 0)

	r.mu.Lock()
	r.threadID = windows.GetCurrentThreadId()
	r.mu.Unlock()
	close(r.ready)

	go func() {
		<-ctx.Done()
		r.mu.Lock()
		tid := r.threadID
		r.mu.Unlock()
		procPostThreadMessageW.Call(uintptr(tid), wmQuit, 0, 0)
	}()

	for {
		ret, _, err := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		switch int32(ret) {
		case -1:
			return fmt.Errorf("GetMessage: %w", err)
		case 0:
			return nil
		}

		switch m.message {
		case wmApp:
			r.drain()
		case wmHotkey:
			r.mu.Lock()
			fn := r.handlers[m.wParam]
			r.mu.Unlock()
			if fn != nil {
				fn()
			}
		}
	}
}

func (r *win32Registrar) drain() {
	for {
		select {
		case fn := <-r.requests:
			fn()
		default:
			return
		}
	}
}
