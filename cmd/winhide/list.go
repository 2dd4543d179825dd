package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/1broseidon/winhide/internal/enumerator"
	"github.com/1broseidon/winhide/internal/platform"
)

var flagListJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the windows that can be hidden",
	Long:  "List user-facing top-level windows, sorted by title. Selected windows are marked with *.",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&flagListJSON, "json", false, "print JSON instead of a table")
}

func runList(cmd *cobra.Command, _ []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	windows, err := client.GetWindows()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagListJSON {
		for i := range windows {
			windows[i].Icon = nil
		}
		return writeJSON(out, windows)
	}

	cfg, err := client.GetConfig()
	if err != nil {
		return err
	}
	selected := make(map[platform.WindowID]bool, len(cfg.SelectedWindowIDs))
	for _, id := range cfg.SelectedWindowIDs {
		selected[id] = true
	}

	renderWindows(out, windows, selected, terminalWidth())
	return nil
}

func renderWindows(w io.Writer, windows []enumerator.WindowHandle, selected map[platform.WindowID]bool, width int) {
	if len(windows) == 0 {
		fmt.Fprintln(w, "No windows")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		Headers("", "ID", "TITLE", "PATH", "BOUNDS")
	if width > 0 {
		t = t.Width(width)
	}

	for _, win := range windows {
		mark := ""
		if selected[win.ID] {
			mark = "*"
		}
		t.Row(mark, strconv.FormatUint(uint64(win.ID), 10), win.Title, win.Path, formatRect(win.Bounds))
	}
	fmt.Fprintln(w, t.Render())
}

func formatRect(r platform.Rect) string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// terminalWidth returns the stdout width, or 0 when stdout is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
