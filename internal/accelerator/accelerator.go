// Package accelerator parses and builds hotkey strings such as
// "Control+Alt+H" and converts them to the native forms used by X11 and
// Win32 hotkey registration.
package accelerator

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmpty        = errors.New("accelerator is empty")
	ErrModifierOnly = errors.New("accelerator has no key, only modifiers")
	ErrNoKey        = errors.New("key event has no usable key")
	ErrMultipleKeys = errors.New("accelerator has more than one key")
	ErrUnknownKey   = errors.New("unknown key")
)

// Modifier is a bit set of modifier keys.
type Modifier uint8

const (
	Control Modifier = 1 << iota
	Alt
	Shift
	Super
)

// modifierOrder is the canonical output order.
var modifierOrder = []struct {
	mod  Modifier
	name string
}{
	{Control, "Control"},
	{Alt, "Alt"},
	{Shift, "Shift"},
	{Super, "Super"},
}

var modifierAliases = map[string]Modifier{
	"control":          Control,
	"ctrl":             Control,
	"alt":              Alt,
	"option":           Alt,
	"shift":            Shift,
	"super":            Super,
	"meta":             Super,
	"cmd":              Super,
	"command":          Super,
	"win":              Super,
	"commandorcontrol": Control,
	"cmdorctrl":        Control,
}

// Accelerator is a parsed hotkey: a modifier set plus exactly one key.
type Accelerator struct {
	Modifiers Modifier
	Key       string
}

// Parse parses an accelerator string. Tokens are separated by "+"; modifier
// names are case-insensitive and may appear in any order.
func Parse(s string) (Accelerator, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Accelerator{}, ErrEmpty
	}

	var a Accelerator
	for _, raw := range strings.Split(s, "+") {
		tok := strings.TrimSpace(raw)
		if tok == "" {
			return Accelerator{}, fmt.Errorf("accelerator %q: empty token", s)
		}
		if mod, ok := modifierAliases[strings.ToLower(tok)]; ok {
			a.Modifiers |= mod
			continue
		}
		key, ok := canonicalKey(tok)
		if !ok {
			return Accelerator{}, fmt.Errorf("accelerator %q: %w %q", s, ErrUnknownKey, tok)
		}
		if a.Key != "" {
			return Accelerator{}, fmt.Errorf("accelerator %q: %w", s, ErrMultipleKeys)
		}
		a.Key = key
	}

	if a.Key == "" {
		return Accelerator{}, fmt.Errorf("accelerator %q: %w", s, ErrModifierOnly)
	}
	return a, nil
}

// Valid reports whether s parses.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Normalize returns the canonical form of s.
func Normalize(s string) (string, error) {
	a, err := Parse(s)
	if err != nil {
		return "", err
	}
	return a.String(), nil
}

// Has reports whether all of m are set.
func (a Accelerator) Has(m Modifier) bool {
	return a.Modifiers&m == m
}

// String returns the canonical accelerator string.
func (a Accelerator) String() string {
	parts := make([]string, 0, 5)
	for _, m := range modifierOrder {
		if a.Has(m.mod) {
			parts = append(parts, m.name)
		}
	}
	if a.Key != "" {
		parts = append(parts, a.Key)
	}
	return strings.Join(parts, "+")
}

// KeyEvent is a captured key press as reported by a keyboard event source.
// Key is the produced key value ("a", "Shift", "ArrowUp"); Code is the
// physical key code when available ("KeyA", "Digit1").
type KeyEvent struct {
	Key   string
	Code  string
	Ctrl  bool
	Alt   bool
	Shift bool
	Meta  bool
}

// Build turns a captured key press into an accelerator. Presses of a bare
// modifier key return ErrModifierOnly.
func Build(ev KeyEvent) (Accelerator, error) {
	if _, isMod := modifierAliases[strings.ToLower(ev.Key)]; isMod {
		return Accelerator{}, ErrModifierOnly
	}
	switch ev.Key {
	case "Control", "Shift", "Alt", "Meta", "AltGraph", "OS":
		return Accelerator{}, ErrModifierOnly
	}

	key := keyFromEvent(ev)
	if key == "" {
		return Accelerator{}, ErrNoKey
	}
	canon, ok := canonicalKey(key)
	if !ok {
		return Accelerator{}, fmt.Errorf("%w %q", ErrUnknownKey, key)
	}

	a := Accelerator{Key: canon}
	if ev.Ctrl {
		a.Modifiers |= Control
	}
	if ev.Alt {
		a.Modifiers |= Alt
	}
	if ev.Shift {
		a.Modifiers |= Shift
	}
	if ev.Meta {
		a.Modifiers |= Super
	}
	return a, nil
}

// keyFromEvent prefers the physical code so that Shift+1 yields "1" rather
// than "!".
func keyFromEvent(ev KeyEvent) string {
	switch {
	case strings.HasPrefix(ev.Code, "Key") && len(ev.Code) == 4:
		return ev.Code[3:]
	case strings.HasPrefix(ev.Code, "Digit") && len(ev.Code) == 6:
		return ev.Code[5:]
	}
	if len([]rune(ev.Key)) == 1 {
		return strings.ToUpper(ev.Key)
	}
	return ev.Key
}
