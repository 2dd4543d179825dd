package config

import (
	"fmt"
	"time"

	"github.com/1broseidon/winhide/internal/accelerator"
	"github.com/1broseidon/winhide/internal/exclusion"
	"github.com/1broseidon/winhide/internal/platform"
)

// Config holds the persisted user settings.
type Config struct {
	HideHotkey        string              `yaml:"hideHotkey" json:"hideHotkey"`
	ShowHotkey        string              `yaml:"showHotkey" json:"showHotkey"`
	SelectedWindowIDs []platform.WindowID `yaml:"selectedWindowIds" json:"selectedWindowIds"`
	ExcludedPaths     []string            `yaml:"excludedPaths" json:"excludedPaths"`

	LogLevel             string `yaml:"logLevel,omitempty" json:"logLevel,omitempty"`
	CallTimeoutMS        int    `yaml:"callTimeoutMs,omitempty" json:"callTimeoutMs,omitempty"`
	PruneIntervalSeconds *int   `yaml:"pruneIntervalSeconds,omitempty" json:"pruneIntervalSeconds,omitempty"`
	HotkeyCooldownMS     int    `yaml:"hotkeyCooldownMs,omitempty" json:"hotkeyCooldownMs,omitempty"`
}

const (
	DefaultHideHotkey    = "Control+Alt+H"
	DefaultShowHotkey    = "Control+Alt+S"
	DefaultLogLevel      = "info"
	DefaultCallTimeout   = 2 * time.Second
	DefaultPruneInterval = 30 * time.Second
	DefaultCooldown      = 300 * time.Millisecond
)

// DefaultExcludedPaths lists shell and system surfaces that should never be
// offered for hiding, plus winhide itself.
var DefaultExcludedPaths = []string{
	"SearchApp.exe",
	"SearchHost.exe",
	"StartMenuExperienceHost.exe",
	"ApplicationFrameHost.exe",
	"TextInputHost.exe",
	"SystemSettings.exe",
	"ShellExperienceHost.exe",
	"LockApp.exe",
	"gnome-shell",
	"plasmashell",
	"xfce4-panel",
	"xfdesktop",
	"winhide",
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		HideHotkey:        DefaultHideHotkey,
		ShowHotkey:        DefaultShowHotkey,
		SelectedWindowIDs: []platform.WindowID{},
		ExcludedPaths:     append([]string(nil), DefaultExcludedPaths...),
		LogLevel:          DefaultLogLevel,
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.SelectedWindowIDs = append([]platform.WindowID{}, c.SelectedWindowIDs...)
	cp.ExcludedPaths = append([]string{}, c.ExcludedPaths...)
	if c.PruneIntervalSeconds != nil {
		v := *c.PruneIntervalSeconds
		cp.PruneIntervalSeconds = &v
	}
	return &cp
}

// CallTimeout returns the per-call window operation timeout.
func (c *Config) CallTimeout() time.Duration {
	if c.CallTimeoutMS <= 0 {
		return DefaultCallTimeout
	}
	return time.Duration(c.CallTimeoutMS) * time.Millisecond
}

// PruneInterval returns how often vanished hidden windows are swept. Zero
// disables pruning.
func (c *Config) PruneInterval() time.Duration {
	if c.PruneIntervalSeconds == nil {
		return DefaultPruneInterval
	}
	return time.Duration(*c.PruneIntervalSeconds) * time.Second
}

// HotkeyCooldown returns the minimum delay between two firings of one hotkey.
func (c *Config) HotkeyCooldown() time.Duration {
	if c.HotkeyCooldownMS <= 0 {
		return DefaultCooldown
	}
	return time.Duration(c.HotkeyCooldownMS) * time.Millisecond
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.HideHotkey != "" {
		if _, err := accelerator.Parse(c.HideHotkey); err != nil {
			return &ValidationError{Path: "hideHotkey", Err: err}
		}
	}
	if c.ShowHotkey != "" {
		if _, err := accelerator.Parse(c.ShowHotkey); err != nil {
			return &ValidationError{Path: "showHotkey", Err: err}
		}
	}
	if c.HideHotkey != "" && sameAccelerator(c.HideHotkey, c.ShowHotkey) {
		return &ValidationError{Path: "showHotkey", Err: fmt.Errorf("showHotkey must differ from hideHotkey")}
	}
	for i, p := range c.ExcludedPaths {
		if err := exclusion.ValidatePattern(p); err != nil {
			return &ValidationError{Path: fmt.Sprintf("excludedPaths[%d]", i), Err: err}
		}
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "logLevel", Err: fmt.Errorf("logLevel must be one of: debug, info, warn, error")}
	}
	if c.CallTimeoutMS < 0 {
		return &ValidationError{Path: "callTimeoutMs", Err: fmt.Errorf("callTimeoutMs must be >= 0")}
	}
	if c.PruneIntervalSeconds != nil && *c.PruneIntervalSeconds < 0 {
		return &ValidationError{Path: "pruneIntervalSeconds", Err: fmt.Errorf("pruneIntervalSeconds must be >= 0")}
	}
	if c.HotkeyCooldownMS < 0 {
		return &ValidationError{Path: "hotkeyCooldownMs", Err: fmt.Errorf("hotkeyCooldownMs must be >= 0")}
	}
	return nil
}

func sameAccelerator(a, b string) bool {
	na, errA := accelerator.Normalize(a)
	nb, errB := accelerator.Normalize(b)
	return errA == nil && errB == nil && na == nb
}

// ValidationError reports an invalid config field.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
