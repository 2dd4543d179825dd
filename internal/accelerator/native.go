package accelerator

import (
	"fmt"
	"strconv"
	"strings"
)

// X11 returns the accelerator in xgbutil keybind syntax, e.g.
// "control-mod1-h". Alt maps to mod1 and Super to mod4.
func (a Accelerator) X11() (string, error) {
	key, err := a.keysym()
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, 5)
	if a.Has(Control) {
		parts = append(parts, "control")
	}
	if a.Has(Alt) {
		parts = append(parts, "mod1")
	}
	if a.Has(Shift) {
		parts = append(parts, "shift")
	}
	if a.Has(Super) {
		parts = append(parts, "mod4")
	}
	return strings.Join(append(parts, key), "-"), nil
}

func (a Accelerator) keysym() (string, error) {
	k := a.Key
	switch {
	case len(k) == 1 && k[0] >= 'A' && k[0] <= 'Z':
		return strings.ToLower(k), nil
	case len(k) == 1 && k[0] >= '0' && k[0] <= '9':
		return k, nil
	}
	if n, ok := functionKey(k); ok {
		return "F" + strconv.Itoa(n), nil
	}
	if info, ok := namedKeys[k]; ok {
		return info.keysym, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownKey, k)
}

// Win32 modifier flags for RegisterHotKey.
const (
	ModAlt      uint32 = 0x0001
	ModControl  uint32 = 0x0002
	ModShift    uint32 = 0x0004
	ModWin      uint32 = 0x0008
	ModNoRepeat uint32 = 0x4000
)

// Win32 returns RegisterHotKey modifiers and virtual-key code. MOD_NOREPEAT
// is always set.
func (a Accelerator) Win32() (mods uint32, vk uint32, err error) {
	mods = ModNoRepeat
	if a.Has(Control) {
		mods |= ModControl
	}
	if a.Has(Alt) {
		mods |= ModAlt
	}
	if a.Has(Shift) {
		mods |= ModShift
	}
	if a.Has(Super) {
		mods |= ModWin
	}

	k := a.Key
	switch {
	case len(k) == 1 && ((k[0] >= 'A' && k[0] <= 'Z') || (k[0] >= '0' && k[0] <= '9')):
		return mods, uint32(k[0]), nil
	}
	if n, ok := functionKey(k); ok {
		return mods, 0x70 + uint32(n-1), nil
	}
	if info, ok := namedKeys[k]; ok {
		return mods, info.vk, nil
	}
	return 0, 0, fmt.Errorf("%w %q", ErrUnknownKey, k)
}
