package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1broseidon/winhide/internal/palette"
)

var flagPickLauncher string

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick windows from a rofi/fuzzel/wofi/dmenu menu",
	Long: `Show the window list in an external launcher. Picking a window toggles it in
the hide selection; the first two rows hide the selection or restore hidden
windows. Bind this command to a key in your window manager for quick access.`,
	Args: cobra.NoArgs,
	RunE: runPick,
}

func init() {
	rootCmd.AddCommand(pickCmd)
	pickCmd.Flags().StringVar(&flagPickLauncher, "launcher", "auto", "launcher to use: auto, rofi, fuzzel, wofi or dmenu")
}

func runPick(cmd *cobra.Command, _ []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	if err := client.Ping(); err != nil {
		return fmt.Errorf("daemon not running: %w", err)
	}

	backend, err := palette.NewBackend(flagPickLauncher)
	if err != nil {
		return err
	}
	msg, err := palette.NewPicker(backend, client).Run()
	if err != nil {
		return err
	}
	if msg != "" {
		fmt.Fprintln(cmd.OutOrStdout(), msg)
	}
	return nil
}
