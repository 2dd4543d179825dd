package accelerator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Control+Alt+H", "Control+Alt+H"},
		{"ctrl+alt+h", "Control+Alt+H"},
		{"Alt+Control+s", "Control+Alt+S"},
		{"Super+Shift+F12", "Shift+Super+F12"},
		{"Meta+1", "Super+1"},
		{"Control+Space", "Control+Space"},
		{"control+esc", "Control+Escape"},
		{"Alt+PageDown", "Alt+PageDown"},
		{"Control+-", "Control+-"},
		{"Control+Plus", "Control+Plus"},
		{"  Control + Alt + H  ", "Control+Alt+H"},
		{"F5", "F5"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Normalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"", ErrEmpty},
		{"Shift", ErrModifierOnly},
		{"Control+Alt", ErrModifierOnly},
		{"Control+A+B", ErrMultipleKeys},
		{"Control+Hyper", ErrUnknownKey},
		{"Control+F25", ErrUnknownKey},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := Parse(tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.False(t, Valid("Control++"))
}

func TestBuild(t *testing.T) {
	_, err := Build(KeyEvent{Key: "Shift", Code: "ShiftLeft", Shift: true})
	assert.ErrorIs(t, err, ErrModifierOnly)

	_, err = Build(KeyEvent{Key: "Control", Ctrl: true})
	assert.ErrorIs(t, err, ErrModifierOnly)

	a, err := Build(KeyEvent{Key: "A", Code: "KeyA", Shift: true})
	require.NoError(t, err)
	assert.Equal(t, "Shift+A", a.String())

	a, err = Build(KeyEvent{Key: "!", Code: "Digit1", Ctrl: true, Shift: true})
	require.NoError(t, err)
	assert.Equal(t, "Control+Shift+1", a.String())

	a, err = Build(KeyEvent{Key: "h", Ctrl: true, Alt: true})
	require.NoError(t, err)
	assert.Equal(t, "Control+Alt+H", a.String())

	a, err = Build(KeyEvent{Key: "ArrowUp", Code: "ArrowUp", Meta: true})
	require.NoError(t, err)
	assert.Equal(t, "Super+Up", a.String())

	_, err = Build(KeyEvent{})
	assert.ErrorIs(t, err, ErrNoKey)
}

func TestBuildOutputParses(t *testing.T) {
	a, err := Build(KeyEvent{Key: "F7", Code: "F7", Ctrl: true, Alt: true})
	require.NoError(t, err)

	back, err := Parse(a.String())
	require.NoError(t, err)
	assert.Equal(t, a, back)
}

func TestX11(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Control+Alt+H", "control-mod1-h"},
		{"Super+Shift+Enter", "shift-mod4-Return"},
		{"Control+-", "control-minus"},
		{"Alt+F4", "mod1-F4"},
		{"Control+PageUp", "control-Prior"},
		{"Control+9", "control-9"},
	}

	for _, tt := range tests {
		a, err := Parse(tt.in)
		require.NoError(t, err)
		got, err := a.X11()
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestWin32(t *testing.T) {
	a, err := Parse("Control+Alt+H")
	require.NoError(t, err)
	mods, vk, err := a.Win32()
	require.NoError(t, err)
	assert.Equal(t, ModControl|ModAlt|ModNoRepeat, mods)
	assert.Equal(t, uint32('H'), vk)

	a, err = Parse("Super+F12")
	require.NoError(t, err)
	mods, vk, err = a.Win32()
	require.NoError(t, err)
	assert.Equal(t, ModWin|ModNoRepeat, mods)
	assert.Equal(t, uint32(0x7B), vk)

	a, err = Parse("Shift+Escape")
	require.NoError(t, err)
	_, vk, err = a.Win32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x1B), vk)
}
