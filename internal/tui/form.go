package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/1broseidon/winhide/internal/accelerator"
	"github.com/1broseidon/winhide/internal/config"
)

// ErrCancelled is returned by EditSettings when the user aborts the form or
// declines to save.
var ErrCancelled = errors.New("edit cancelled")

// settingsForm holds the values bound to the huh fields.
type settingsForm struct {
	hideHotkey string
	showHotkey string
	excluded   string
	confirm    bool
}

func newSettingsForm(cfg *config.Config) *settingsForm {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &settingsForm{
		hideHotkey: cfg.HideHotkey,
		showHotkey: cfg.ShowHotkey,
		excluded:   strings.Join(cfg.ExcludedPaths, "\n"),
		confirm:    true,
	}
}

func (f *settingsForm) build() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("hide_hotkey").
				Title("Hide Hotkey").
				Description("Hides the selected windows, e.g. Control+Alt+H").
				Validate(validateHotkey).
				Value(&f.hideHotkey),

			huh.NewInput().
				Key("show_hotkey").
				Title("Show Hotkey").
				Description("Restores every hidden window").
				Validate(validateHotkey).
				Value(&f.showHotkey),
		),
		huh.NewGroup(
			huh.NewText().
				Key("excluded_paths").
				Title("Excluded Paths").
				Description("One pattern per line; windows whose executable path contains a pattern are never listed").
				Lines(8).
				Value(&f.excluded),

			huh.NewConfirm().
				Title("Save settings?").
				Affirmative("Save").
				Negative("Discard").
				Value(&f.confirm),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

// settings converts the form values into a save payload. Hotkeys are
// normalized; blank lines and surrounding space in the patterns are dropped.
func (f *settingsForm) settings() (config.Settings, error) {
	hide, err := accelerator.Normalize(f.hideHotkey)
	if err != nil {
		return config.Settings{}, fmt.Errorf("hide hotkey: %w", err)
	}
	show, err := accelerator.Normalize(f.showHotkey)
	if err != nil {
		return config.Settings{}, fmt.Errorf("show hotkey: %w", err)
	}

	patterns := []string{}
	for _, line := range strings.Split(f.excluded, "\n") {
		if p := strings.TrimSpace(line); p != "" {
			patterns = append(patterns, p)
		}
	}

	return config.Settings{
		HideHotkey:    hide,
		ShowHotkey:    show,
		ExcludedPaths: patterns,
	}, nil
}

func validateHotkey(s string) error {
	_, err := accelerator.Parse(s)
	return err
}

// EditSettings runs an interactive form prefilled from cfg and returns the
// edited hotkeys and exclusion patterns. The selection is left untouched.
func EditSettings(cfg *config.Config) (config.Settings, error) {
	f := newSettingsForm(cfg)
	if err := f.build().Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return config.Settings{}, ErrCancelled
		}
		return config.Settings{}, err
	}
	if !f.confirm {
		return config.Settings{}, ErrCancelled
	}
	return f.settings()
}
