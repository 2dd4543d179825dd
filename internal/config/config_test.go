package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/1broseidon/winhide/internal/accelerator"
	"github.com/1broseidon/winhide/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return NewStore(path)
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "Control+Alt+H", cfg.HideHotkey)
	assert.Equal(t, "Control+Alt+S", cfg.ShowHotkey)
	assert.Empty(t, cfg.SelectedWindowIDs)
	assert.Contains(t, cfg.ExcludedPaths, "winhide")
	assert.Equal(t, DefaultCallTimeout, cfg.CallTimeout())
	assert.Equal(t, DefaultPruneInterval, cfg.PruneInterval())
	assert.Equal(t, DefaultCooldown, cfg.HotkeyCooldown())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope", "config.yaml"))
	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	store := writeConfig(t, "hideHotkey: Control+Shift+H\nselectedWindowIds: [12, 34]\n")

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "Control+Shift+H", cfg.HideHotkey)
	assert.Equal(t, DefaultShowHotkey, cfg.ShowHotkey)
	assert.Equal(t, []platform.WindowID{12, 34}, cfg.SelectedWindowIDs)
	assert.Equal(t, DefaultExcludedPaths, cfg.ExcludedPaths)
}

func TestLoadDropsRepeatedSelection(t *testing.T) {
	store := writeConfig(t, "selectedWindowIds: [12, 34, 12]\n")

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []platform.WindowID{12, 34}, cfg.SelectedWindowIDs)
}

func TestLoadIgnoresUnknownFields(t *testing.T) {
	store := writeConfig(t, "theme: dark\nshowHotkey: Alt+F2\nwindowBounds: {x: 1}\n")

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "Alt+F2", cfg.ShowHotkey)
}

func TestLoadAcceptsJSON(t *testing.T) {
	store := writeConfig(t, `{"hideHotkey":"Control+Alt+J","selectedWindowIds":[7],"excludedPaths":["explorer.exe"],"extra":true}`)

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "Control+Alt+J", cfg.HideHotkey)
	assert.Equal(t, []platform.WindowID{7}, cfg.SelectedWindowIDs)
	assert.Equal(t, []string{"explorer.exe"}, cfg.ExcludedPaths)
}

func TestLoadNullListsBecomeEmpty(t *testing.T) {
	store := writeConfig(t, "selectedWindowIds: null\nexcludedPaths: ~\n")

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.NotNil(t, cfg.SelectedWindowIDs)
	assert.NotNil(t, cfg.ExcludedPaths)
	assert.Empty(t, cfg.ExcludedPaths)
}

func TestLoadCorruptFile(t *testing.T) {
	store := writeConfig(t, "hideHotkey: [unterminated\n")

	_, err := store.Load()
	require.Error(t, err)

	cfg, err := LoadOrDefault(store)
	require.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadInvalidHotkey(t *testing.T) {
	store := writeConfig(t, "hideHotkey: Control+Alt\n")

	_, err := store.Load()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "hideHotkey", verr.Path)
	assert.ErrorIs(t, err, accelerator.ErrModifierOnly)
}

func TestSaveRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "sub", "config.yaml"))
	interval := 0

	cfg := DefaultConfig()
	cfg.SelectedWindowIDs = []platform.WindowID{5, 9}
	cfg.ExcludedPaths = []string{"a.exe"}
	cfg.PruneIntervalSeconds = &interval
	require.NoError(t, store.Save(cfg))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.Zero(t, loaded.PruneInterval())

	_, err = os.Stat(store.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestSaveRejectsInvalid(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "config.yaml"))
	cfg := DefaultConfig()
	cfg.ShowHotkey = "control+alt+h"

	err := store.Save(cfg)
	require.Error(t, err)
	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestValidate(t *testing.T) {
	negative := -1
	tests := []struct {
		name   string
		mutate func(c *Config)
		path   string
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, "logLevel"},
		{"negative timeout", func(c *Config) { c.CallTimeoutMS = -5 }, "callTimeoutMs"},
		{"negative prune", func(c *Config) { c.PruneIntervalSeconds = &negative }, "pruneIntervalSeconds"},
		{"negative cooldown", func(c *Config) { c.HotkeyCooldownMS = -1 }, "hotkeyCooldownMs"},
		{"show modifier only", func(c *Config) { c.ShowHotkey = "Shift" }, "showHotkey"},
		{"bad exclusion glob", func(c *Config) { c.ExcludedPaths = []string{"steam", "glob:[x"} }, "excludedPaths[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.path, verr.Path)
		})
	}
}

func TestDurations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CallTimeoutMS = 500
	cfg.HotkeyCooldownMS = 50
	assert.Equal(t, 500*time.Millisecond, cfg.CallTimeout())
	assert.Equal(t, 50*time.Millisecond, cfg.HotkeyCooldown())
}

func TestApplySettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SelectedWindowIDs = []platform.WindowID{1}

	next := cfg.Apply(Settings{ShowHotkey: "Alt+F3", SelectedWindowIDs: []platform.WindowID{2, 3}})
	assert.Equal(t, DefaultHideHotkey, next.HideHotkey)
	assert.Equal(t, "Alt+F3", next.ShowHotkey)
	assert.Equal(t, []platform.WindowID{2, 3}, next.SelectedWindowIDs)
	assert.Equal(t, DefaultExcludedPaths, next.ExcludedPaths)

	// The original is untouched.
	assert.Equal(t, []platform.WindowID{1}, cfg.SelectedWindowIDs)

	deduped := next.Apply(Settings{SelectedWindowIDs: []platform.WindowID{5, 5, 4, 5}})
	assert.Equal(t, []platform.WindowID{5, 4}, deduped.SelectedWindowIDs)

	cleared := next.Apply(Settings{SelectedWindowIDs: []platform.WindowID{}, ExcludedPaths: []string{}})
	assert.Empty(t, cleared.SelectedWindowIDs)
	assert.Empty(t, cleared.ExcludedPaths)
}

func TestSettingsJSON(t *testing.T) {
	var s Settings
	require.NoError(t, json.Unmarshal([]byte(`{"hideHotkey":"","selectedWindowIds":"bogus"}`), &s))
	assert.Nil(t, s.SelectedWindowIDs)
}

func TestSettingsAcceptsExcludePatterns(t *testing.T) {
	var s Settings
	require.NoError(t, json.Unmarshal([]byte(`{"excludePatterns":["x.exe"],"selectedWindowIds":[4]}`), &s))
	assert.Equal(t, []string{"x.exe"}, s.ExcludedPaths)
	assert.Equal(t, []platform.WindowID{4}, s.SelectedWindowIDs)

	var omitted Settings
	require.NoError(t, json.Unmarshal([]byte(`{}`), &omitted))
	assert.Nil(t, omitted.ExcludedPaths)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("WINHIDE_CONFIG", "/tmp/custom.yaml")
	t.Setenv("WINHIDE_LOG_LEVEL", "debug")

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "debug", env.LogLevel)

	path, err := env.ResolvePath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.yaml", path)
}

func TestDefaultConfigPathUsesUserConfigDir(t *testing.T) {
	if runtime.GOOS == "linux" {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	}
	dir, err := os.UserConfigDir()
	require.NoError(t, err)

	path, err := DefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "winhide", "config.yaml"), path)
	if runtime.GOOS == "linux" {
		assert.Equal(t, "/tmp/xdg-config/winhide/config.yaml", path)
	}

	t.Setenv("WINHIDE_CONFIG", "")
	env, err := LoadEnv()
	require.NoError(t, err)
	resolved, err := env.ResolvePath()
	require.NoError(t, err)
	assert.Equal(t, path, resolved)
}
