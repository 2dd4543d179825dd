package dispatch

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/1broseidon/winhide/internal/accelerator"
	"github.com/1broseidon/winhide/internal/config"
	"github.com/1broseidon/winhide/internal/enumerator"
	"github.com/1broseidon/winhide/internal/exclusion"
	"github.com/1broseidon/winhide/internal/oscall"
	"github.com/1broseidon/winhide/internal/platform"
	"github.com/1broseidon/winhide/internal/platform/platformtest"
	"github.com/1broseidon/winhide/internal/visibility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBinder struct {
	calls [][2]string
	fail  error
}

func (b *fakeBinder) Bind(hide, show string) []error {
	b.calls = append(b.calls, [2]string{hide, show})
	if b.fail != nil {
		return []error{b.fail}
	}
	return nil
}

type failingStore struct{ err error }

func (s failingStore) Save(*config.Config) error { return s.err }

type fixture struct {
	backend *platformtest.Backend
	store   *config.Store
	binder  *fakeBinder
	d       *Dispatcher
}

func newFixture(t *testing.T, windows ...*platformtest.FakeWindow) *fixture {
	t.Helper()

	backend := platformtest.NewBackend(windows...)
	cfg := config.DefaultConfig()
	filter := exclusion.NewFilter(cfg.ExcludedPaths)
	guard := oscall.New(100 * time.Millisecond)
	store := config.NewStore(filepath.Join(t.TempDir(), "config.yaml"))

	d, err := New(Options{
		Config:     cfg,
		Store:      store,
		Lister:     enumerator.NewLister(backend, filter, enumerator.WithGuard(guard), enumerator.WithoutIcons()),
		Filter:     filter,
		Controller: visibility.NewController(backend, visibility.WithGuard(guard)),
	})
	require.NoError(t, err)

	binder := &fakeBinder{}
	d.SetBinder(binder)
	return &fixture{backend: backend, store: store, binder: binder, d: d}
}

func window(id platform.WindowID, title, path string) *platformtest.FakeWindow {
	return &platformtest.FakeWindow{
		ID:      id,
		Title:   title,
		Path:    path,
		Bounds:  platform.Rect{X: 50, Y: 50, Width: 800, Height: 600},
		Visible: true,
		Native:  true,
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestHideAndRestore(t *testing.T) {
	f := newFixture(t, window(1, "Editor", "/usr/bin/code"), window(2, "Shell", "/usr/bin/xterm"))

	res := f.d.RequestHide([]platform.WindowID{1, 2, 99})
	assert.ElementsMatch(t, []platform.WindowID{1, 2}, res.Hidden)
	assert.Equal(t, []platform.WindowID{99}, res.Skipped)
	assert.Equal(t, 2, f.d.Status().HiddenCount)

	restored := f.d.RequestRestore()
	assert.ElementsMatch(t, []platform.WindowID{1, 2}, restored.Restored)
	assert.Zero(t, f.d.Status().HiddenCount)
}

func TestHideSelectedUsesConfig(t *testing.T) {
	f := newFixture(t, window(1, "Editor", "/usr/bin/code"), window(2, "Shell", "/usr/bin/xterm"))

	_, err := f.d.RequestSaveConfig(config.Settings{SelectedWindowIDs: []platform.WindowID{2}})
	require.NoError(t, err)

	res := f.d.HideSelected()
	assert.Equal(t, []platform.WindowID{2}, res.Hidden)

	w, _ := f.backend.Get(1)
	assert.False(t, w.Hidden)
}

func TestHideSelectedWithEmptySelection(t *testing.T) {
	f := newFixture(t, window(1, "Editor", "/usr/bin/code"))

	res := f.d.HideSelected()
	assert.Empty(t, res.Hidden)
	assert.Empty(t, f.backend.Calls())
}

func TestRequestListHonoursExclusions(t *testing.T) {
	f := newFixture(t, window(1, "Editor", "/usr/bin/code"), window(2, "Panel", "/usr/bin/plasmashell"))

	list, err := f.d.RequestList()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, platform.WindowID(1), list[0].ID)

	_, err = f.d.RequestSaveConfig(config.Settings{ExcludedPaths: []string{"code"}})
	require.NoError(t, err)

	list, err = f.d.RequestList()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, platform.WindowID(2), list[0].ID)
}

func TestSavePersistsAndRebinds(t *testing.T) {
	f := newFixture(t)

	res, err := f.d.RequestSaveConfig(config.Settings{HideHotkey: "Alt+F9"})
	require.NoError(t, err)
	assert.Equal(t, "Alt+F9", res.Config.HideHotkey)
	assert.Equal(t, config.DefaultShowHotkey, res.Config.ShowHotkey)
	assert.Equal(t, [][2]string{{"Alt+F9", config.DefaultShowHotkey}}, f.binder.calls)

	loaded, err := f.store.Load()
	require.NoError(t, err)
	assert.Equal(t, "Alt+F9", loaded.HideHotkey)
}

func TestSaveWithoutHotkeyChangeDoesNotRebind(t *testing.T) {
	f := newFixture(t)

	_, err := f.d.RequestSaveConfig(config.Settings{
		HideHotkey:        config.DefaultHideHotkey,
		SelectedWindowIDs: []platform.WindowID{4},
	})
	require.NoError(t, err)
	assert.Empty(t, f.binder.calls)
}

func TestSaveReturnsBindWarnings(t *testing.T) {
	f := newFixture(t)
	f.binder.fail = errors.New("show hotkey \"Alt+F2\": already grabbed")

	res, err := f.d.RequestSaveConfig(config.Settings{ShowHotkey: "Alt+F2"})
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "already grabbed")
}

func TestSaveRejectsInvalidConfig(t *testing.T) {
	f := newFixture(t)

	_, err := f.d.RequestSaveConfig(config.Settings{HideHotkey: "Control+Alt"})
	require.Error(t, err)
	assert.ErrorIs(t, err, accelerator.ErrModifierOnly)

	var verr *config.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, config.DefaultHideHotkey, f.d.Config().HideHotkey)
	assert.Empty(t, f.binder.calls)
}

func TestSaveFailureKeepsInMemoryChange(t *testing.T) {
	f := newFixture(t)
	f.d.store = failingStore{err: errors.New("disk full")}

	_, err := f.d.RequestSaveConfig(config.Settings{SelectedWindowIDs: []platform.WindowID{7, 8}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, []platform.WindowID{7, 8}, f.d.Config().SelectedWindowIDs)
}

func TestConfigReturnsCopy(t *testing.T) {
	f := newFixture(t)

	cfg := f.d.Config()
	cfg.HideHotkey = "Alt+X"
	assert.Equal(t, config.DefaultHideHotkey, f.d.Config().HideHotkey)
}

func TestPruneDropsClosedWindows(t *testing.T) {
	f := newFixture(t, window(1, "Editor", "/usr/bin/code"))
	f.d.RequestHide([]platform.WindowID{1})
	f.backend.Remove(1)

	assert.Equal(t, []platform.WindowID{1}, f.d.Prune())
	assert.Zero(t, f.d.Status().HiddenCount)
}
