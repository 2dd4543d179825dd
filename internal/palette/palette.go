// Package palette shows the window picker in an external launcher menu
// (rofi, fuzzel, wofi or dmenu).
package palette

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCancelled is returned when the user closes the launcher without picking
// an entry.
var ErrCancelled = errors.New("palette cancelled")

// Item is a single row in the launcher.
type Item struct {
	Label     string // Display text
	Action    string // Returned on selection
	Icon      string // Icon name for launchers that show icons
	Meta      string // Hidden search keywords
	IsHeader  bool   // Non-selectable section header
	IsDivider bool   // Non-selectable divider line
	IsActive  bool   // Highlighted row
}

// Capabilities describes what a launcher supports.
type Capabilities struct {
	Icons         bool
	Markup        bool
	NonSelectable bool
	IndexOutput   bool // reports the picked row index instead of its text
	MessageBar    bool
	RowStates     bool
}

// Backend shows items and returns the one the user picked.
type Backend interface {
	Show(prompt string, items []Item, message string) (Item, error)
	Capabilities() Capabilities
}

var launchers = []string{"rofi", "fuzzel", "wofi", "dmenu"}

// DetectBackend returns the first launcher found in PATH, in priority order:
// rofi, fuzzel, wofi, dmenu.
func DetectBackend() (string, error) {
	for _, name := range launchers {
		if _, err := exec.LookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no palette backend found in PATH (looked for: %s)", strings.Join(launchers, ", "))
}

// NewBackend creates a backend by name. "" and "auto" detect one.
func NewBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		detected, err := DetectBackend()
		if err != nil {
			return nil, err
		}
		name = detected
	}

	b, ok := newLauncher(name)
	if !ok {
		return nil, fmt.Errorf("unknown palette backend: %q (expected: auto, %s)", name, strings.Join(launchers, ", "))
	}
	if _, err := exec.LookPath(b.command); err != nil {
		return nil, fmt.Errorf("palette backend %q not found in PATH", name)
	}
	return b, nil
}
