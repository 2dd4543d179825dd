package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

type launcherKind int

const (
	kindRofi launcherKind = iota
	kindFuzzel
	kindWofi
	kindDmenu
)

// runFunc runs a launcher and returns its trimmed stdout.
type runFunc func(command string, args []string, stdin string) (string, error)

// launcher drives a dmenu-style program: rows on stdin, the pick on stdout.
type launcher struct {
	command string
	kind    launcherKind
	caps    Capabilities
	run     runFunc
}

func newLauncher(name string) (*launcher, bool) {
	l := &launcher{command: name, run: runCommand}
	switch name {
	case "rofi":
		l.kind = kindRofi
		l.caps = Capabilities{Icons: true, Markup: true, NonSelectable: true, IndexOutput: true, MessageBar: true, RowStates: true}
	case "fuzzel":
		l.kind = kindFuzzel
		l.caps = Capabilities{Icons: true, IndexOutput: true}
	case "wofi":
		l.kind = kindWofi
		l.caps = Capabilities{Icons: true, Markup: true}
	case "dmenu":
		l.kind = kindDmenu
	default:
		return nil, false
	}
	return l, true
}

func (l *launcher) Capabilities() Capabilities {
	return l.caps
}

func (l *launcher) Show(prompt string, items []Item, message string) (Item, error) {
	if len(items) == 0 {
		return Item{}, errors.New("palette: no items to show")
	}

	rows := make([]Item, len(items))
	copy(rows, items)
	if !l.caps.IndexOutput {
		disambiguate(rows)
	}

	input, active, cursor := l.formatInput(rows)
	selection, err := l.run(l.command, l.buildArgs(prompt, message, active, cursor), input)
	if err != nil {
		if selection == "" && isCancelExit(err) {
			return Item{}, ErrCancelled
		}
		return Item{}, err
	}
	if selection == "" {
		return Item{}, ErrCancelled
	}

	item, err := l.parseSelection(selection, rows)
	if err != nil {
		return Item{}, err
	}
	if item.IsHeader || item.IsDivider {
		return Item{}, ErrCancelled
	}
	return item, nil
}

func (l *launcher) buildArgs(prompt, message string, active []int, cursor int) []string {
	var args []string

	switch l.kind {
	case kindRofi:
		args = []string{"-dmenu", "-i", "-format", "i", "-no-custom", "-markup-rows", "-show-icons"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		if len(active) > 0 {
			args = append(args, "-a", joinInts(active))
		}
		if cursor >= 0 {
			args = append(args, "-selected-row", strconv.Itoa(cursor))
		}
		if message != "" {
			args = append(args, "-mesg", html.EscapeString(message))
		}

	case kindFuzzel:
		args = []string{"--dmenu", "--index"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}

	case kindWofi:
		args = []string{"--dmenu", "--allow-markup", "--allow-images"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}

	case kindDmenu:
		args = []string{"-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
	}
	return args
}

// formatInput renders one row per item. It also returns the indices of
// active rows and the row the cursor should start on (-1 for none).
func (l *launcher) formatInput(items []Item) (string, []int, int) {
	lines := make([]string, len(items))
	var active []int
	first, firstActive := -1, -1

	for i, item := range items {
		lines[i] = l.formatItem(item)
		if item.IsHeader || item.IsDivider {
			continue
		}
		if first < 0 {
			first = i
		}
		if item.IsActive {
			if firstActive < 0 {
				firstActive = i
			}
			if l.caps.RowStates {
				active = append(active, i)
			}
		}
	}

	cursor := first
	if firstActive >= 0 {
		cursor = firstActive
	}
	return strings.Join(lines, "\n"), active, cursor
}

func (l *launcher) formatItem(item Item) string {
	display := cleanLabel(item.Label)
	if l.caps.Markup {
		display = html.EscapeString(display)
		switch {
		case item.IsHeader:
			display = "<b>" + display + "</b>"
		case item.IsDivider:
			display = "<span foreground='#666666'>" + display + "</span>"
		}
	}

	// rofi row options: a single NUL, then key\x1fvalue pairs.
	if l.kind != kindRofi {
		return display
	}
	var opts []string
	if item.IsHeader || item.IsDivider {
		opts = append(opts, "nonselectable", "true")
	}
	if item.Icon != "" {
		opts = append(opts, "icon", cleanField(item.Icon))
	}
	if item.Meta != "" {
		opts = append(opts, "meta", cleanField(item.Meta))
	}
	if len(opts) == 0 {
		return display
	}
	return display + "\x00" + strings.Join(opts, "\x1f")
}

func (l *launcher) parseSelection(selection string, items []Item) (Item, error) {
	if l.caps.IndexOutput {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(items) {
				return Item{}, fmt.Errorf("palette: index %d out of range", idx)
			}
			return items[idx], nil
		}
	}
	for _, item := range items {
		label := cleanLabel(item.Label)
		if label == selection || (l.caps.Markup && html.EscapeString(label) == selection) {
			return item, nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", selection)
}

// disambiguate suffixes repeated labels so launchers that echo the row text
// back still identify a single item.
func disambiguate(items []Item) {
	seen := make(map[string]int)
	for i := range items {
		if items[i].IsHeader || items[i].IsDivider {
			continue
		}
		key := cleanLabel(items[i].Label)
		if key == "" {
			continue
		}
		if n := seen[key]; n > 0 {
			items[i].Label = fmt.Sprintf("%s (%d)", key, n+1)
		}
		seen[key]++
	}
}

func cleanLabel(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\r", " ", "\n", " ").Replace(s))
}

func cleanField(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\x00", " ", "\x1f", " ", "\r", " ", "\n", " ").Replace(s))
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func runCommand(command string, args []string, stdin string) (string, error) {
	cmd := exec.Command(command, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	selection := strings.TrimSpace(string(out))
	if err != nil && !isCancelExit(err) {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return selection, fmt.Errorf("%s failed: %s", command, msg)
		}
		return selection, fmt.Errorf("%s failed: %w", command, err)
	}
	return selection, err
}

// isCancelExit reports the exit codes launchers use for "nothing picked"
// (1) and Ctrl+C (130).
func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	code := exitErr.ExitCode()
	return code == 1 || code == 130
}
