package tui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/winhide/internal/accelerator"
)

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	SelectAll   key.Binding
	Clear       key.Binding
	CaptureHide key.Binding
	CaptureShow key.Binding
	Save        key.Binding
	Refresh     key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "select all"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear"),
		),
		CaptureHide: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "set hide hotkey"),
		),
		CaptureShow: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "set show hotkey"),
		),
		Save: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "save"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.SelectAll, k.Clear, k.Save, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.SelectAll, k.Clear, k.Refresh},
		{k.CaptureHide, k.CaptureShow, k.Save},
		{k.Help, k.Quit},
	}
}

// terminal key names that differ from accelerator names
var teaKeyNames = map[string]string{
	"pgup":   "PageUp",
	"pgdown": "PageDown",
	"esc":    "Escape",
}

// keyEvent converts a terminal key press into the form the accelerator
// builder expects. Terminals report Shift only through the rune case, so an
// upper-case letter implies Shift.
func keyEvent(msg tea.KeyMsg) accelerator.KeyEvent {
	var ev accelerator.KeyEvent
	s := msg.String()

	for {
		switch {
		case strings.HasPrefix(s, "alt+") && len(s) > len("alt+"):
			ev.Alt = true
			s = s[len("alt+"):]
			continue
		case strings.HasPrefix(s, "ctrl+") && len(s) > len("ctrl+"):
			ev.Ctrl = true
			s = s[len("ctrl+"):]
			continue
		case strings.HasPrefix(s, "shift+") && len(s) > len("shift+"):
			ev.Shift = true
			s = s[len("shift+"):]
			continue
		}
		break
	}

	if name, ok := teaKeyNames[s]; ok {
		s = name
	}
	if r := []rune(s); len(r) == 1 && unicode.IsUpper(r[0]) {
		ev.Shift = true
	}
	ev.Key = s
	return ev
}
