package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/1broseidon/winhide/internal/platform"
)

var hideCmd = &cobra.Command{
	Use:   "hide [window-id...]",
	Short: "Hide windows now",
	Long:  "Hide the given windows, or the saved selection when no ids are given.",
	RunE:  runHide,
}

var showCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"restore"},
	Short:   "Restore every hidden window",
	Args:    cobra.NoArgs,
	RunE:    runShow,
}

func init() {
	rootCmd.AddCommand(hideCmd)
	rootCmd.AddCommand(showCmd)
}

func runHide(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	client, err := newClient()
	if err != nil {
		return err
	}
	res, err := client.HideNow(ids)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Hidden: %d\n", len(res.Hidden))
	printIDs(out, "Skipped", res.Skipped)
	return nil
}

func runShow(cmd *cobra.Command, _ []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	res, err := client.ShowNow()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Restored: %d\n", len(res.Restored))
	printIDs(out, "Dropped (closed while hidden)", res.Dropped)
	return nil
}

// parseIDs accepts decimal or 0x-prefixed hexadecimal window ids.
func parseIDs(args []string) ([]platform.WindowID, error) {
	ids := make([]platform.WindowID, 0, len(args))
	for _, arg := range args {
		n, err := strconv.ParseUint(arg, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid window id %q", arg)
		}
		ids = append(ids, platform.WindowID(n))
	}
	return ids, nil
}

func printIDs(w io.Writer, label string, ids []platform.WindowID) {
	if len(ids) == 0 {
		return
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	fmt.Fprintf(w, "%s: %s\n", label, strings.Join(parts, ", "))
}
