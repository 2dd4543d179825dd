package accelerator

import (
	"strconv"
	"strings"
)

// keyInfo maps a canonical key name to its X11 keysym name and Win32
// virtual-key code.
type keyInfo struct {
	keysym string
	vk     uint32
}

var namedKeys = map[string]keyInfo{
	"Space":       {"space", 0x20},
	"Tab":         {"Tab", 0x09},
	"Enter":       {"Return", 0x0D},
	"Escape":      {"Escape", 0x1B},
	"Backspace":   {"BackSpace", 0x08},
	"Delete":      {"Delete", 0x2E},
	"Insert":      {"Insert", 0x2D},
	"Home":        {"Home", 0x24},
	"End":         {"End", 0x23},
	"PageUp":      {"Prior", 0x21},
	"PageDown":    {"Next", 0x22},
	"Left":        {"Left", 0x25},
	"Up":          {"Up", 0x26},
	"Right":       {"Right", 0x27},
	"Down":        {"Down", 0x28},
	"Plus":        {"plus", 0xBB},
	"PrintScreen": {"Print", 0x2C},
	"=":           {"equal", 0xBB},
	"-":           {"minus", 0xBD},
	",":           {"comma", 0xBC},
	".":           {"period", 0xBE},
	"/":           {"slash", 0xBF},
	";":           {"semicolon", 0xBA},
	"'":           {"apostrophe", 0xDE},
	"`":           {"grave", 0xC0},
	"[":           {"bracketleft", 0xDB},
	"]":           {"bracketright", 0xDD},
	"\\":          {"backslash", 0xDC},
}

var keyAliases = map[string]string{
	"space":       "Space",
	"spacebar":    "Space",
	" ":           "Space",
	"tab":         "Tab",
	"enter":       "Enter",
	"return":      "Enter",
	"escape":      "Escape",
	"esc":         "Escape",
	"backspace":   "Backspace",
	"delete":      "Delete",
	"del":         "Delete",
	"insert":      "Insert",
	"ins":         "Insert",
	"home":        "Home",
	"end":         "End",
	"pageup":      "PageUp",
	"pagedown":    "PageDown",
	"left":        "Left",
	"arrowleft":   "Left",
	"up":          "Up",
	"arrowup":     "Up",
	"right":       "Right",
	"arrowright":  "Right",
	"down":        "Down",
	"arrowdown":   "Down",
	"plus":        "Plus",
	"minus":       "-",
	"+":           "Plus",
	"printscreen": "PrintScreen",
	"print":       "PrintScreen",
}

// canonicalKey normalizes a key token. Letters become upper case.
func canonicalKey(tok string) (string, bool) {
	if len(tok) == 1 {
		c := tok[0]
		switch {
		case c >= 'a' && c <= 'z':
			return string(c - 'a' + 'A'), true
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			return tok, true
		}
		if _, ok := namedKeys[tok]; ok {
			return tok, true
		}
		if alias, ok := keyAliases[tok]; ok {
			return alias, true
		}
		return "", false
	}

	if n, ok := functionKey(tok); ok {
		return "F" + strconv.Itoa(n), true
	}
	if alias, ok := keyAliases[strings.ToLower(tok)]; ok {
		return alias, true
	}
	return "", false
}

// functionKey parses F1..F24 case-insensitively.
func functionKey(tok string) (int, bool) {
	if len(tok) < 2 || (tok[0] != 'F' && tok[0] != 'f') {
		return 0, false
	}
	n, err := strconv.Atoi(tok[1:])
	if err != nil || n < 1 || n > 24 {
		return 0, false
	}
	return n, true
}
