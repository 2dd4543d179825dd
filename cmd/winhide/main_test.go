package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/winhide/internal/accelerator"
	"github.com/1broseidon/winhide/internal/config"
	"github.com/1broseidon/winhide/internal/dispatch"
	"github.com/1broseidon/winhide/internal/enumerator"
	"github.com/1broseidon/winhide/internal/exclusion"
	"github.com/1broseidon/winhide/internal/ipc"
	"github.com/1broseidon/winhide/internal/oscall"
	"github.com/1broseidon/winhide/internal/platform"
	"github.com/1broseidon/winhide/internal/platform/platformtest"
	"github.com/1broseidon/winhide/internal/visibility"
)

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"42", "0x3a00007"})
	require.NoError(t, err)
	assert.Equal(t, []platform.WindowID{42, 0x3a00007}, ids)

	ids, err = parseIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = parseIDs([]string{"browser"})
	assert.Error(t, err)
	_, err = parseIDs([]string{"-1"})
	assert.Error(t, err)
}

func TestRenderWindows(t *testing.T) {
	var buf bytes.Buffer
	renderWindows(&buf, []enumerator.WindowHandle{
		{ID: 7, Title: "Editor", Path: "/usr/bin/code", Bounds: platform.Rect{X: 10, Y: 20, Width: 800, Height: 600}},
		{ID: 9, Title: "Terminal", Path: "/usr/bin/kitty", Bounds: platform.Rect{Width: 640, Height: 480}},
	}, map[platform.WindowID]bool{9: true}, 0)

	out := buf.String()
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "Editor")
	assert.Contains(t, out, "/usr/bin/kitty")
	assert.Contains(t, out, "800x600+10+20")
	assert.Contains(t, out, "*")

	buf.Reset()
	renderWindows(&buf, nil, nil, 80)
	assert.Equal(t, "No windows\n", buf.String())
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, &dispatch.Status{
		Platform:      "linux",
		HideHotkey:    "Control+Alt+H",
		SelectedCount: 2,
		HiddenCount:   1,
		UptimeSeconds: 90,
		Hidden: []visibility.HiddenEntry{{
			ID: 5,
			State: visibility.SavedState{
				Bounds:       platform.Rect{Width: 300, Height: 200},
				WasMaximized: true,
				Method:       visibility.MethodNative,
			},
		}},
	})

	out := buf.String()
	assert.Contains(t, out, "Uptime:        1m30s")
	assert.Contains(t, out, "Show hotkey:   (none)")
	assert.Contains(t, out, "Hidden:        1")
	assert.Contains(t, out, "300x200+0+0 maximized")
}

func TestSaveToFile(t *testing.T) {
	store := config.NewStore(filepath.Join(t.TempDir(), "winhide", "config.yaml"))

	res, err := saveToFile(store, config.Settings{
		HideHotkey:        "Alt+F9",
		SelectedWindowIDs: []platform.WindowID{3},
	})
	require.NoError(t, err)
	assert.Equal(t, "Alt+F9", res.Config.HideHotkey)

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "Alt+F9", cfg.HideHotkey)
	assert.Equal(t, config.DefaultShowHotkey, cfg.ShowHotkey)
	assert.Equal(t, []platform.WindowID{3}, cfg.SelectedWindowIDs)

	_, err = saveToFile(store, config.Settings{ShowHotkey: "Control+Shift"})
	assert.ErrorIs(t, err, accelerator.ErrModifierOnly)

	cfg, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultShowHotkey, cfg.ShowHotkey)
}

func TestPrintConfig(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printConfig(&buf, config.DefaultConfig()))
	assert.Contains(t, buf.String(), "hideHotkey: Control+Alt+H")
	assert.Contains(t, buf.String(), "showHotkey: Control+Alt+S")
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "debug", firstNonEmpty("", "debug", "info"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}

// startDaemon serves a dispatcher over a fake backend on a temp socket.
func startDaemon(t *testing.T, windows ...*platformtest.FakeWindow) (string, *platformtest.Backend) {
	t.Helper()

	backend := platformtest.NewBackend(windows...)
	cfg := config.DefaultConfig()
	cfg.SelectedWindowIDs = []platform.WindowID{1}
	filter := exclusion.NewFilter(nil)
	guard := oscall.New(100 * time.Millisecond)

	d, err := dispatch.New(dispatch.Options{
		Config:     cfg,
		Store:      config.NewStore(filepath.Join(t.TempDir(), "config.yaml")),
		Lister:     enumerator.NewLister(backend, filter, enumerator.WithGuard(guard), enumerator.WithoutIcons()),
		Filter:     filter,
		Controller: visibility.NewController(backend, visibility.WithGuard(guard)),
	})
	require.NoError(t, err)

	dir, err := os.MkdirTemp("", "winhide-cmd")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	socket := filepath.Join(dir, "winhide.sock")
	srv := ipc.NewServer(socket, d, nil)
	require.NoError(t, srv.Start())
	t.Cleanup(srv.Stop)
	return socket, backend
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestHideAndShowCommands(t *testing.T) {
	win := &platformtest.FakeWindow{
		ID:      1,
		Title:   "editor",
		Path:    "/usr/bin/editor",
		Bounds:  platform.Rect{Width: 640, Height: 480},
		Visible: true,
		Native:  true,
	}
	socket, backend := startDaemon(t, win)

	out, err := execute(t, "--socket", socket, "hide")
	require.NoError(t, err)
	assert.Contains(t, out, "Hidden: 1")
	w, _ := backend.Get(1)
	assert.True(t, w.Hidden)

	out, err = execute(t, "--socket", socket, "hide", "77")
	require.NoError(t, err)
	assert.Contains(t, out, "Skipped: 77")

	out, err = execute(t, "--socket", socket, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Restored: 1")
	w, _ = backend.Get(1)
	assert.False(t, w.Hidden)
}

func TestCommandsFailWithoutDaemon(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "missing.sock")

	_, err := execute(t, "--socket", socket, "show")
	assert.Error(t, err)
}
