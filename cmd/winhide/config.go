package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/winhide/internal/config"
	"github.com/1broseidon/winhide/internal/dispatch"
	"github.com/1broseidon/winhide/internal/platform"
	"github.com/1broseidon/winhide/internal/tui"
)

var (
	flagSetHide    string
	flagSetShow    string
	flagSetExclude []string
	flagSetSelect  []string
	flagSetClear   bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change settings",
}

var configPrintCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE:  runConfigPrint,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := configStore()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), store.Path())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change hotkeys, exclusions or the selection",
	Long: `Change settings. When the daemon is running the change goes through it so
hotkeys are re-registered immediately; otherwise the config file is edited.`,
	Example: `  winhide config set --hide-hotkey Control+Alt+H --show-hotkey Control+Alt+S
  winhide config set --exclude steam --exclude discord
  winhide config set --select 0x3a00007 --select 0x3c00004`,
	Args: cobra.NoArgs,
	RunE: runConfigSet,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit hotkeys and exclusions in an interactive form",
	Args:  cobra.NoArgs,
	RunE:  runConfigEdit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPrintCmd, configPathCmd, configSetCmd, configEditCmd)

	configSetCmd.Flags().StringVar(&flagSetHide, "hide-hotkey", "", "hide hotkey, e.g. Control+Alt+H")
	configSetCmd.Flags().StringVar(&flagSetShow, "show-hotkey", "", "show hotkey, e.g. Control+Alt+S")
	configSetCmd.Flags().StringSliceVar(&flagSetExclude, "exclude", nil, "replace the excluded path patterns (repeatable)")
	configSetCmd.Flags().StringSliceVar(&flagSetSelect, "select", nil, "replace the selected window ids, decimal or 0x hex (repeatable)")
	configSetCmd.Flags().BoolVar(&flagSetClear, "clear-selection", false, "clear the selected window ids")
}

// loadConfig prefers the daemon's in-memory config and falls back to the
// file when the daemon is not running.
func loadConfig() (*config.Config, error) {
	if client, err := newClient(); err == nil && client.Ping() == nil {
		return client.GetConfig()
	}
	store, err := configStore()
	if err != nil {
		return nil, err
	}
	return store.Load()
}

func runConfigPrint(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return printConfig(cmd.OutOrStdout(), cfg)
}

func printConfig(w io.Writer, cfg *config.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

func runConfigSet(cmd *cobra.Command, _ []string) error {
	s, err := settingsFromFlags(cmd)
	if err != nil {
		return err
	}
	res, err := saveSettings(s)
	if err != nil {
		return err
	}
	reportSave(cmd.OutOrStdout(), res)
	return nil
}

func settingsFromFlags(cmd *cobra.Command) (config.Settings, error) {
	var s config.Settings
	flags := cmd.Flags()

	s.HideHotkey = flagSetHide
	s.ShowHotkey = flagSetShow
	if flags.Changed("exclude") {
		s.ExcludedPaths = append([]string{}, flagSetExclude...)
	}

	if flagSetClear && flags.Changed("select") {
		return config.Settings{}, errors.New("--select and --clear-selection are mutually exclusive")
	}
	switch {
	case flagSetClear:
		s.SelectedWindowIDs = []platform.WindowID{}
	case flags.Changed("select"):
		ids, err := parseIDs(flagSetSelect)
		if err != nil {
			return config.Settings{}, err
		}
		s.SelectedWindowIDs = ids
	}

	if s.HideHotkey == "" && s.ShowHotkey == "" && s.ExcludedPaths == nil && s.SelectedWindowIDs == nil {
		return config.Settings{}, errors.New("nothing to change; see --help")
	}
	return s, nil
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := tui.EditSettings(cfg)
	if errors.Is(err, tui.ErrCancelled) {
		fmt.Fprintln(cmd.OutOrStdout(), "No changes saved")
		return nil
	}
	if err != nil {
		return err
	}
	res, err := saveSettings(s)
	if err != nil {
		return err
	}
	reportSave(cmd.OutOrStdout(), res)
	return nil
}

// saveSettings sends s to the running daemon, or writes the config file
// directly when no daemon answers.
func saveSettings(s config.Settings) (*dispatch.SaveResult, error) {
	if client, err := newClient(); err == nil && client.Ping() == nil {
		return client.SaveSettings(s)
	}
	store, err := configStore()
	if err != nil {
		return nil, err
	}
	return saveToFile(store, s)
}

func saveToFile(store *config.Store, s config.Settings) (*dispatch.SaveResult, error) {
	cfg, err := store.Load()
	if err != nil {
		return nil, err
	}
	next := cfg.Apply(s)
	if err := next.Validate(); err != nil {
		return nil, err
	}
	if err := store.Save(next); err != nil {
		return nil, fmt.Errorf("save config: %w", err)
	}
	return &dispatch.SaveResult{Config: next}, nil
}

func reportSave(w io.Writer, res *dispatch.SaveResult) {
	fmt.Fprintln(w, "Settings saved")
	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
}
