package enumerator

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/1broseidon/winhide/internal/exclusion"
	"github.com/1broseidon/winhide/internal/metrics"
	"github.com/1broseidon/winhide/internal/oscall"
	"github.com/1broseidon/winhide/internal/platform"
	"go.uber.org/zap"
)

// Windows smaller than this are tooltips, splash screens or helpers.
const (
	MinWidth  = 100
	MinHeight = 50
)

// IconSize is the edge length of icons returned by List.
const IconSize = 32

// WindowHandle describes one selectable window. It is valid only for the
// enumeration that produced it.
type WindowHandle struct {
	ID     platform.WindowID `json:"id"`
	Title  string            `json:"title"`
	Path   string            `json:"path"`
	Bounds platform.Rect     `json:"bounds"`
	Icon   []byte            `json:"icon,omitempty"`
}

// Lister enumerates user-facing top-level windows.
type Lister struct {
	backend platform.Backend
	filter  *exclusion.Filter
	guard   oscall.Guard
	logger  *zap.Logger
	metrics *metrics.Recorder
	icons   bool
}

// Option configures a Lister.
type Option func(*Lister)

func WithLogger(l *zap.Logger) Option {
	return func(ls *Lister) {
		if l != nil {
			ls.logger = l
		}
	}
}

func WithGuard(g oscall.Guard) Option {
	return func(ls *Lister) { ls.guard = g }
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(ls *Lister) { ls.metrics = m }
}

// WithoutIcons skips icon retrieval.
func WithoutIcons() Option {
	return func(ls *Lister) { ls.icons = false }
}

// NewLister creates a Lister. A nil filter excludes nothing.
func NewLister(backend platform.Backend, filter *exclusion.Filter, opts ...Option) *Lister {
	l := &Lister{
		backend: backend,
		filter:  filter,
		logger:  zap.NewNop(),
		icons:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// List returns eligible windows sorted by title. A failure while inspecting
// one window excludes only that window.
func (l *Lister) List() ([]WindowHandle, error) {
	start := time.Now()

	windows, err := oscall.Value(l.guard, "Windows", l.backend.Windows)
	if err != nil {
		l.metrics.CallFailed("Windows")
		return nil, fmt.Errorf("enumerate windows: %w", err)
	}

	out := make([]WindowHandle, 0, len(windows))
	for _, w := range windows {
		h, ok := l.inspect(w)
		if ok {
			out = append(out, h)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Title < out[j].Title
	})

	l.metrics.ObserveEnumeration(time.Since(start), len(out))
	l.logger.Debug("enumerated windows",
		zap.Int("candidates", len(windows)),
		zap.Int("eligible", len(out)),
		zap.Duration("took", time.Since(start)))
	return out, nil
}

func (l *Lister) inspect(w platform.Window) (WindowHandle, bool) {
	id := w.ID()
	log := l.logger.With(zap.Uint32("window", uint32(id)))

	valid, err := oscall.Value(l.guard, "IsValid", func() (bool, error) {
		return w.IsValid(), nil
	})
	if err != nil || !valid {
		return WindowHandle{}, l.reject(log, "IsValid", err)
	}

	visible, err := oscall.Value(l.guard, "IsVisible", w.IsVisible)
	if err != nil || !visible {
		return WindowHandle{}, l.reject(log, "IsVisible", err)
	}

	bounds, err := oscall.Value(l.guard, "Bounds", w.Bounds)
	if err != nil || bounds.Width < MinWidth || bounds.Height < MinHeight {
		return WindowHandle{}, l.reject(log, "Bounds", err)
	}

	title, err := oscall.Value(l.guard, "Title", w.Title)
	if err != nil || strings.TrimSpace(title) == "" {
		return WindowHandle{}, l.reject(log, "Title", err)
	}

	path, err := oscall.Value(l.guard, "Path", w.Path)
	if err != nil {
		// Windows without a resolvable executable are still listed.
		log.Debug("executable path unavailable", zap.Error(err))
		path = ""
	}
	if l.filter.Excluded(path) {
		log.Debug("window excluded", zap.String("path", path))
		return WindowHandle{}, false
	}

	h := WindowHandle{
		ID:     id,
		Title:  title,
		Path:   path,
		Bounds: bounds,
	}

	if l.icons {
		icon, err := oscall.Value(l.guard, "Icon", func() ([]byte, error) {
			return w.Icon(IconSize)
		})
		if err == nil {
			h.Icon = icon
		}
	}

	return h, true
}

// reject logs why a window was dropped and always returns false.
func (l *Lister) reject(log *zap.Logger, op string, err error) bool {
	if err != nil {
		l.metrics.CallFailed(op)
		log.Debug("window query failed", zap.String("op", op), zap.Error(err))
	}
	return false
}
