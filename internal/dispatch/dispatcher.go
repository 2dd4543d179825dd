package dispatch

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/1broseidon/winhide/internal/config"
	"github.com/1broseidon/winhide/internal/enumerator"
	"github.com/1broseidon/winhide/internal/exclusion"
	"github.com/1broseidon/winhide/internal/platform"
	"github.com/1broseidon/winhide/internal/visibility"
	"go.uber.org/zap"
)

// Binder re-registers the global hotkeys. Registration failures come back
// as warnings.
type Binder interface {
	Bind(hide, show string) []error
}

// Persister writes the config to durable storage.
type Persister interface {
	Save(cfg *config.Config) error
}

// Options wires the dispatcher's collaborators.
type Options struct {
	Config     *config.Config
	Store      Persister
	Lister     *enumerator.Lister
	Filter     *exclusion.Filter
	Controller *visibility.Controller
	Logger     *zap.Logger
}

// Dispatcher is the application context shared by the IPC server, the tray
// and the hotkey callbacks. It holds no window logic of its own.
type Dispatcher struct {
	mu         sync.RWMutex
	cfg        *config.Config
	store      Persister
	lister     *enumerator.Lister
	filter     *exclusion.Filter
	controller *visibility.Controller
	binder     Binder
	logger     *zap.Logger
	startTime  time.Time
}

// SaveResult is returned by RequestSaveConfig.
type SaveResult struct {
	Config   *config.Config `json:"config"`
	Warnings []string       `json:"warnings,omitempty"`
}

// Status summarizes the running daemon.
type Status struct {
	Platform      string                   `json:"platform"`
	HideHotkey    string                   `json:"hideHotkey"`
	ShowHotkey    string                   `json:"showHotkey"`
	SelectedCount int                      `json:"selectedCount"`
	HiddenCount   int                      `json:"hiddenCount"`
	Hidden        []visibility.HiddenEntry `json:"hidden"`
	UptimeSeconds int64                    `json:"uptimeSeconds"`
}

// New builds a dispatcher. Config, Lister and Controller are required.
func New(opts Options) (*Dispatcher, error) {
	if opts.Config == nil || opts.Lister == nil || opts.Controller == nil {
		return nil, errors.New("dispatch: config, lister and controller are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	filter := opts.Filter
	if filter == nil {
		filter = exclusion.NewFilter(opts.Config.ExcludedPaths)
	}
	return &Dispatcher{
		cfg:        opts.Config.Clone(),
		store:      opts.Store,
		lister:     opts.Lister,
		filter:     filter,
		controller: opts.Controller,
		logger:     logger.Named("dispatch"),
		startTime:  time.Now(),
	}, nil
}

// SetBinder installs the hotkey binder used when accelerators change.
func (d *Dispatcher) SetBinder(b Binder) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.binder = b
}

// Config returns a copy of the current config.
func (d *Dispatcher) Config() *config.Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg.Clone()
}

// RequestHide hides ids. An empty request does nothing.
func (d *Dispatcher) RequestHide(ids []platform.WindowID) visibility.HideResult {
	return d.controller.Hide(ids)
}

// HideSelected hides the windows saved in the config selection.
func (d *Dispatcher) HideSelected() visibility.HideResult {
	d.mu.RLock()
	ids := append([]platform.WindowID(nil), d.cfg.SelectedWindowIDs...)
	d.mu.RUnlock()
	return d.RequestHide(ids)
}

// RequestRestore restores every hidden window.
func (d *Dispatcher) RequestRestore() visibility.RestoreResult {
	return d.controller.RestoreAll()
}

// RequestList enumerates the windows that can be selected.
func (d *Dispatcher) RequestList() ([]enumerator.WindowHandle, error) {
	return d.lister.List()
}

// RequestSaveConfig merges s into the current config. The in-memory config
// is updated before persisting and is not rolled back if the write fails.
// Hotkeys are rebound only when an accelerator string changed.
func (d *Dispatcher) RequestSaveConfig(s config.Settings) (SaveResult, error) {
	d.mu.Lock()
	prev := d.cfg
	next := prev.Apply(s)
	if err := next.Validate(); err != nil {
		d.mu.Unlock()
		return SaveResult{Config: prev.Clone()}, err
	}
	d.cfg = next
	d.filter.SetPatterns(next.ExcludedPaths)
	binder := d.binder
	d.mu.Unlock()

	result := SaveResult{Config: next.Clone()}

	if binder != nil && (prev.HideHotkey != next.HideHotkey || prev.ShowHotkey != next.ShowHotkey) {
		for _, werr := range binder.Bind(next.HideHotkey, next.ShowHotkey) {
			d.logger.Warn("hotkey registration failed", zap.Error(werr))
			result.Warnings = append(result.Warnings, werr.Error())
		}
	}

	if d.store != nil {
		if err := d.store.Save(next); err != nil {
			d.logger.Error("failed to save config", zap.Error(err))
			return result, fmt.Errorf("save config: %w", err)
		}
	}

	d.logger.Info("config saved",
		zap.Int("selected", len(next.SelectedWindowIDs)),
		zap.Int("excluded", len(next.ExcludedPaths)),
	)
	return result, nil
}

// Prune drops hidden entries whose windows have closed.
func (d *Dispatcher) Prune() []platform.WindowID {
	return d.controller.Prune()
}

// Status reports the hotkeys, selection and hidden windows.
func (d *Dispatcher) Status() Status {
	d.mu.RLock()
	cfg := d.cfg
	st := Status{
		Platform:      runtime.GOOS,
		HideHotkey:    cfg.HideHotkey,
		ShowHotkey:    cfg.ShowHotkey,
		SelectedCount: len(cfg.SelectedWindowIDs),
	}
	d.mu.RUnlock()

	st.Hidden = d.controller.Hidden()
	st.HiddenCount = len(st.Hidden)
	st.UptimeSeconds = int64(time.Since(d.startTime).Seconds())
	return st
}
