package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/1broseidon/winhide/internal/dispatch"
)

var flagStatusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&flagStatusJSON, "json", false, "print JSON")
}

func runStatus(cmd *cobra.Command, _ []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	st, err := client.GetStatus()
	if err != nil {
		return err
	}
	if flagStatusJSON {
		return writeJSON(cmd.OutOrStdout(), st)
	}
	printStatus(cmd.OutOrStdout(), st)
	return nil
}

func printStatus(w io.Writer, st *dispatch.Status) {
	fmt.Fprintf(w, "Platform:      %s\n", st.Platform)
	fmt.Fprintf(w, "Uptime:        %s\n", time.Duration(st.UptimeSeconds)*time.Second)
	fmt.Fprintf(w, "Hide hotkey:   %s\n", displayOrDefault(st.HideHotkey, "(none)"))
	fmt.Fprintf(w, "Show hotkey:   %s\n", displayOrDefault(st.ShowHotkey, "(none)"))
	fmt.Fprintf(w, "Selected:      %d\n", st.SelectedCount)
	fmt.Fprintf(w, "Hidden:        %d\n", st.HiddenCount)

	for _, e := range st.Hidden {
		var flags string
		switch {
		case e.State.WasMaximized:
			flags = " maximized"
		case e.State.WasMinimized:
			flags = " minimized"
		}
		fmt.Fprintf(w, "  %-10d %-8s %s%s\n", e.ID, e.State.Method, formatRect(e.State.Bounds), flags)
	}
}

func displayOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
