package main

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/winhide/internal/tui"
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Pick the windows the hide hotkey acts on",
	Long: `Open an interactive list of windows. Space toggles a window, H and S
capture new hide and show hotkeys, w saves through the running daemon.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		if err := client.Ping(); err != nil {
			return err
		}
		return tui.Run(client)
	},
}

func init() {
	rootCmd.AddCommand(selectCmd)
}
