// Package tray puts the hide and restore actions in the system tray.
package tray

import (
	"context"
	"fmt"
	"time"

	"github.com/getlantern/systray"
	"go.uber.org/zap"

	"github.com/1broseidon/winhide/internal/dispatch"
	"github.com/1broseidon/winhide/internal/visibility"
)

const refreshInterval = 2 * time.Second

// Actions is the part of the dispatcher the tray menu drives.
type Actions interface {
	HideSelected() visibility.HideResult
	RequestRestore() visibility.RestoreResult
	Status() dispatch.Status
}

// Tray owns the tray icon and its menu.
type Tray struct {
	actions Actions
	quit    func()
	logger  *zap.Logger

	menuHide    *systray.MenuItem
	menuRestore *systray.MenuItem
	menuStatus  *systray.MenuItem
	menuQuit    *systray.MenuItem
}

// New creates a tray. quit is called when the user picks Quit.
func New(actions Actions, quit func(), logger *zap.Logger) *Tray {
	if logger == nil {
		logger = zap.NewNop()
	}
	if quit == nil {
		quit = func() {}
	}
	return &Tray{
		actions: actions,
		quit:    quit,
		logger:  logger.Named("tray"),
	}
}

// Run shows the tray icon and blocks until ctx is cancelled or the user
// quits from the menu.
func (t *Tray) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-ctx.Done()
		systray.Quit()
	}()

	systray.Run(func() { t.onReady(ctx) }, t.onExit)
	return nil
}

func (t *Tray) onReady(ctx context.Context) {
	t.logger.Debug("initializing system tray")

	if icon, err := trayIcon(); err != nil {
		t.logger.Warn("failed to render tray icon", zap.Error(err))
	} else {
		systray.SetIcon(icon)
	}
	systray.SetTitle("winhide")
	systray.SetTooltip("winhide - hide and restore windows")

	st := t.actions.Status()
	t.menuHide = systray.AddMenuItem(hideLabel(st.HideHotkey), "Hide the selected windows")
	t.menuRestore = systray.AddMenuItem(restoreLabel(st.ShowHotkey), "Restore every hidden window")
	systray.AddSeparator()

	t.menuStatus = systray.AddMenuItem(statusLabel(st), "Hidden and selected windows")
	t.menuStatus.Disable()
	systray.AddSeparator()

	t.menuQuit = systray.AddMenuItem("Quit", "Stop the winhide daemon")

	go t.handleMenuEvents(ctx)
}

func (t *Tray) onExit() {
	t.logger.Debug("system tray exited")
}

func (t *Tray) handleMenuEvents(ctx context.Context) {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.refresh()
		case <-t.menuHide.ClickedCh:
			t.hide()
		case <-t.menuRestore.ClickedCh:
			t.restore()
		case <-t.menuQuit.ClickedCh:
			t.logger.Info("quit requested from tray")
			t.quit()
			systray.Quit()
			return
		}
	}
}

func (t *Tray) hide() {
	res := t.actions.HideSelected()
	t.logger.Info("hide from tray",
		zap.Int("hidden", len(res.Hidden)),
		zap.Int("skipped", len(res.Skipped)))
	t.refresh()
}

func (t *Tray) restore() {
	res := t.actions.RequestRestore()
	t.logger.Info("restore from tray",
		zap.Int("restored", len(res.Restored)),
		zap.Int("dropped", len(res.Dropped)))
	t.refresh()
}

// refresh re-reads hotkeys and counts; saving settings can change both.
func (t *Tray) refresh() {
	if t.menuStatus == nil {
		return
	}
	st := t.actions.Status()
	t.menuHide.SetTitle(hideLabel(st.HideHotkey))
	t.menuRestore.SetTitle(restoreLabel(st.ShowHotkey))
	t.menuStatus.SetTitle(statusLabel(st))
}

func hideLabel(hotkey string) string {
	return withHotkey("Hide", hotkey)
}

func restoreLabel(hotkey string) string {
	return withHotkey("Restore", hotkey)
}

func withHotkey(label, hotkey string) string {
	if hotkey == "" {
		return label
	}
	return fmt.Sprintf("%s (%s)", label, hotkey)
}

func statusLabel(st dispatch.Status) string {
	return fmt.Sprintf("Hidden: %d  Selected: %d", st.HiddenCount, st.SelectedCount)
}
