package hotkeys

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/1broseidon/winhide/internal/accelerator"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Registrar binds global hotkeys with the operating system.
type Registrar interface {
	// Register binds a; fn is called from the registrar's event loop.
	Register(a accelerator.Accelerator, fn func()) error
	// UnregisterAll removes every binding made through Register.
	UnregisterAll()
	// Run processes hotkey events until ctx is cancelled.
	Run(ctx context.Context) error
	// Ready is closed once Register can be called, which for some
	// registrars is only after Run has started.
	Ready() <-chan struct{}
}

// Action names a hotkey-triggered operation.
type Action string

const (
	ActionHide Action = "hide"
	ActionShow Action = "show"
)

// Handler keeps the hide and show hotkeys registered.
type Handler struct {
	mu       sync.Mutex
	reg      Registrar
	logger   *zap.Logger
	cooldown time.Duration
	actions  map[Action]func()
	bound    map[Action]string
}

// NewHandler creates a hotkey handler. Each action fires at most once per
// cooldown so held keys do not repeat.
func NewHandler(reg Registrar, actions map[Action]func(), cooldown time.Duration, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		reg:      reg,
		logger:   logger,
		cooldown: cooldown,
		actions:  actions,
		bound:    make(map[Action]string),
	}
}

// Bind replaces all registrations with the given accelerators. Empty strings
// leave the action unbound. Failures are returned as warnings; a failed
// action stays unbound.
func (h *Handler) Bind(hide, show string) []error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.reg.UnregisterAll()
	h.bound = make(map[Action]string)

	var warnings []error
	for _, b := range []struct {
		action Action
		accel  string
	}{
		{ActionHide, hide},
		{ActionShow, show},
	} {
		if b.accel == "" {
			continue
		}
		if err := h.register(b.action, b.accel); err != nil {
			h.logger.Warn("hotkey registration failed",
				zap.String("action", string(b.action)),
				zap.String("accelerator", b.accel),
				zap.Error(err))
			warnings = append(warnings, fmt.Errorf("%s hotkey %q: %w", b.action, b.accel, err))
			continue
		}
		h.bound[b.action] = b.accel
		h.logger.Info("hotkey registered",
			zap.String("action", string(b.action)),
			zap.String("accelerator", b.accel))
	}
	return warnings
}

func (h *Handler) register(action Action, accel string) error {
	a, err := accelerator.Parse(accel)
	if err != nil {
		return err
	}
	fn, ok := h.actions[action]
	if !ok {
		return fmt.Errorf("no handler for %s", action)
	}
	return h.reg.Register(a, h.debounce(action, fn))
}

func (h *Handler) debounce(action Action, fn func()) func() {
	limiter := rate.NewLimiter(rate.Every(h.cooldown), 1)
	return func() {
		if !limiter.Allow() {
			h.logger.Debug("hotkey repeat suppressed", zap.String("action", string(action)))
			return
		}
		h.logger.Info("hotkey triggered", zap.String("action", string(action)))
		go fn()
	}
}

// Bound returns the accelerators currently registered.
func (h *Handler) Bound() map[Action]string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[Action]string, len(h.bound))
	for k, v := range h.bound {
		out[k] = v
	}
	return out
}

// Unbind removes all registrations.
func (h *Handler) Unbind() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reg.UnregisterAll()
	h.bound = make(map[Action]string)
}

// WaitReady blocks until the registrar accepts bindings. Start Run first.
func (h *Handler) WaitReady(ctx context.Context, timeout time.Duration) error {
	select {
	case <-h.reg.Ready():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(timeout):
		return fmt.Errorf("hotkey event loop not ready after %s", timeout)
	}
}

// Run delegates to the registrar's event loop.
func (h *Handler) Run(ctx context.Context) error {
	return h.reg.Run(ctx)
}
