package visibility

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/1broseidon/winhide/internal/metrics"
	"github.com/1broseidon/winhide/internal/oscall"
	"github.com/1broseidon/winhide/internal/platform"
	"go.uber.org/zap"
)

// Controller owns the set of windows hidden by this process. Hide, RestoreAll
// and Prune are serialized; each runs to completion before the next starts.
type Controller struct {
	mu      sync.Mutex
	backend platform.Backend
	hidden  map[platform.WindowID]SavedState

	guard   oscall.Guard
	logger  *zap.Logger
	metrics *metrics.Recorder
	now     func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithGuard(g oscall.Guard) Option {
	return func(c *Controller) { c.guard = g }
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(c *Controller) { c.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController creates a controller with an empty hidden set.
func NewController(backend platform.Backend, opts ...Option) *Controller {
	c := &Controller{
		backend: backend,
		hidden:  make(map[platform.WindowID]SavedState),
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Hide removes the given windows from view. Ids that no longer resolve are
// skipped. Repeated ids in one call are hidden once. Hiding an id that is
// already hidden by an earlier call recaptures its state.
func (c *Controller) Hide(ids []platform.WindowID) HideResult {
	var res HideResult
	if len(ids) == 0 {
		return res
	}
	ids = platform.UniqueIDs(ids)

	c.mu.Lock()
	defer c.mu.Unlock()

	var desktop *platform.Rect
	for _, id := range ids {
		log := c.logger.With(zap.Uint32("window", uint32(id)))

		w, err := c.resolve(id)
		if err != nil {
			log.Debug("skipping unresolved window", zap.Error(err))
			res.Skipped = append(res.Skipped, id)
			continue
		}

		state, err := c.capture(w)
		if err != nil {
			log.Warn("could not capture window state", zap.Error(err))
			res.Skipped = append(res.Skipped, id)
			continue
		}

		capability, err := oscall.Value(c.guard, "HideCapability", func() (platform.HideCapability, error) {
			return w.HideCapability(), nil
		})
		if err != nil {
			log.Debug("hide capability unknown, using fallback", zap.Error(err))
			capability = platform.FallbackOnly{}
		}

		switch hc := capability.(type) {
		case platform.NativeHideCapable:
			state.Method = MethodNative
			c.hidden[id] = state
			c.call(log, "Hide", hc.Hide)
		default:
			state.Method = MethodFallback
			c.hidden[id] = state
			if desktop == nil {
				d, err := oscall.Value(c.guard, "DesktopBounds", c.backend.DesktopBounds)
				if err != nil {
					log.Debug("desktop bounds unavailable", zap.Error(err))
				}
				desktop = &d
			}
			if !state.WasMinimized {
				c.call(log, "Minimize", w.Minimize)
			}
			target := offscreen(state.Bounds, *desktop)
			c.call(log, "SetBounds", func() error { return w.SetBounds(target) })
		}

		res.Hidden = append(res.Hidden, id)
		c.metrics.WindowHidden()
		log.Info("window hidden",
			zap.String("method", string(state.Method)),
			zap.Bool("minimized", state.WasMinimized),
			zap.Bool("maximized", state.WasMaximized))
	}

	c.metrics.SetHidden(len(c.hidden))
	return res
}

// RestoreAll restores every hidden window and empties the hidden set. Each
// entry is removed after one restore attempt, whether or not every step
// succeeded.
func (c *Controller) RestoreAll() RestoreResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	var res RestoreResult
	for _, id := range c.sortedIDs() {
		state := c.hidden[id]
		log := c.logger.With(zap.Uint32("window", uint32(id)))

		w, err := c.resolve(id)
		if err != nil {
			log.Info("dropping vanished window", zap.Error(err))
			delete(c.hidden, id)
			res.Dropped = append(res.Dropped, id)
			c.metrics.EntryDropped()
			continue
		}

		c.restore(log, w, state)
		delete(c.hidden, id)
		res.Restored = append(res.Restored, id)
		c.metrics.WindowRestored()
	}

	c.metrics.SetHidden(len(c.hidden))
	return res
}

func (c *Controller) restore(log *zap.Logger, w platform.Window, state SavedState) {
	c.call(log, "Show", w.Show)
	c.call(log, "SetBounds", func() error { return w.SetBounds(state.Bounds) })

	if state.WasMinimized {
		c.call(log, "Minimize", w.Minimize)
		log.Info("window restored minimized")
		return
	}

	if state.WasMaximized {
		c.call(log, "Maximize", w.Maximize)
	} else {
		c.call(log, "Restore", w.Restore)
	}
	c.call(log, "Raise", w.Raise)
	log.Info("window restored", zap.Bool("maximized", state.WasMaximized))
}

// Prune drops entries whose windows no longer exist. Live windows are not
// touched.
func (c *Controller) Prune() []platform.WindowID {
	c.mu.Lock()
	defer c.mu.Unlock()

	var dropped []platform.WindowID
	for _, id := range c.sortedIDs() {
		if _, err := c.resolve(id); errors.Is(err, platform.ErrWindowNotFound) {
			delete(c.hidden, id)
			dropped = append(dropped, id)
			c.metrics.EntryDropped()
		}
	}
	if len(dropped) > 0 {
		c.metrics.SetHidden(len(c.hidden))
	}
	return dropped
}

// Hidden returns a snapshot of the hidden set ordered by id.
func (c *Controller) Hidden() []HiddenEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]HiddenEntry, 0, len(c.hidden))
	for _, id := range c.sortedIDs() {
		out = append(out, HiddenEntry{ID: id, State: c.hidden[id]})
	}
	return out
}

// Len returns the number of hidden windows.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.hidden)
}

func (c *Controller) resolve(id platform.WindowID) (platform.Window, error) {
	return oscall.Value(c.guard, "Resolve", func() (platform.Window, error) {
		return c.backend.Resolve(id)
	})
}

// capture reads the state needed to undo a hide. Bounds are required; the
// minimized and maximized flags default to false when unreadable.
func (c *Controller) capture(w platform.Window) (SavedState, error) {
	bounds, err := oscall.Value(c.guard, "Bounds", w.Bounds)
	if err != nil {
		c.metrics.CallFailed("Bounds")
		return SavedState{}, err
	}

	minimized, err := oscall.Value(c.guard, "IsMinimized", w.IsMinimized)
	if err != nil {
		c.metrics.CallFailed("IsMinimized")
		minimized = false
	}
	maximized, err := oscall.Value(c.guard, "IsMaximized", w.IsMaximized)
	if err != nil {
		c.metrics.CallFailed("IsMaximized")
		maximized = false
	}

	return SavedState{
		Bounds:       bounds,
		WasMinimized: minimized,
		WasMaximized: maximized,
		HiddenAt:     c.now(),
	}, nil
}

// call runs one guarded window operation; failures are logged and counted.
func (c *Controller) call(log *zap.Logger, op string, fn func() error) {
	if err := c.guard.Do(op, fn); err != nil {
		c.metrics.CallFailed(op)
		log.Warn("window call failed", zap.String("op", op), zap.Error(err))
	}
}

func (c *Controller) sortedIDs() []platform.WindowID {
	ids := make([]platform.WindowID, 0, len(c.hidden))
	for id := range c.hidden {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
