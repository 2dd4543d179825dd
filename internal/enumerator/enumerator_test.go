package enumerator

import (
	"errors"
	"testing"
	"time"

	"github.com/1broseidon/winhide/internal/exclusion"
	"github.com/1broseidon/winhide/internal/oscall"
	"github.com/1broseidon/winhide/internal/platform"
	"github.com/1broseidon/winhide/internal/platform/platformtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func win(id platform.WindowID, title, path string) *platformtest.FakeWindow {
	return &platformtest.FakeWindow{
		ID:      id,
		Title:   title,
		Path:    path,
		Bounds:  platform.Rect{X: 10, Y: 10, Width: 800, Height: 600},
		Visible: true,
	}
}

func ids(handles []WindowHandle) []platform.WindowID {
	out := make([]platform.WindowID, 0, len(handles))
	for _, h := range handles {
		out = append(out, h.ID)
	}
	return out
}

func TestListSortsByTitle(t *testing.T) {
	backend := platformtest.NewBackend(
		win(1, "zsh", "/usr/bin/alacritty"),
		win(2, "Mail", "/usr/bin/thunderbird"),
		win(3, "Browser", "/usr/bin/firefox"),
		win(4, "mail draft", "/usr/bin/thunderbird"),
	)

	got, err := NewLister(backend, nil).List()
	require.NoError(t, err)

	// Case-sensitive: uppercase sorts before lowercase.
	assert.Equal(t, []platform.WindowID{3, 2, 4, 1}, ids(got))
}

func TestListAppliesFilters(t *testing.T) {
	minimized := win(2, "Minimized", "/usr/bin/gimp")
	minimized.Minimized = true

	invisible := win(3, "Invisible", "/usr/bin/x")
	invisible.Visible = false

	narrow := win(4, "Narrow", "/usr/bin/x")
	narrow.Bounds.Width = 99

	short := win(5, "Short", "/usr/bin/x")
	short.Bounds.Height = 49

	exact := win(6, "Exact", "/usr/bin/x")
	exact.Bounds = platform.Rect{Width: 100, Height: 50}

	backend := platformtest.NewBackend(
		win(1, "Editor", "/usr/bin/code"),
		minimized,
		invisible,
		narrow,
		short,
		exact,
		win(7, "   ", "/usr/bin/x"),
		win(8, "", "/usr/bin/x"),
		win(9, "Panel", "/usr/bin/xfce4-panel"),
	)

	filter := exclusion.NewFilter([]string{"XFCE4-PANEL"})
	got, err := NewLister(backend, filter).List()
	require.NoError(t, err)

	assert.Equal(t, []platform.WindowID{1, 6, 2}, ids(got))
	for _, h := range got {
		assert.NotEmpty(t, h.Title)
		assert.GreaterOrEqual(t, h.Bounds.Width, MinWidth)
		assert.GreaterOrEqual(t, h.Bounds.Height, MinHeight)
	}
}

func TestListIsolatesPerWindowFailures(t *testing.T) {
	broken := win(2, "Broken", "/usr/bin/a")
	broken.Fail = map[string]error{"Title": errors.New("BadWindow")}

	panicky := win(3, "Panicky", "/usr/bin/b")
	panicky.Panic = map[string]bool{"Bounds": true}

	hung := win(4, "Hung", "/usr/bin/c")
	hung.Block = map[string]bool{"IsVisible": true}

	backend := platformtest.NewBackend(win(1, "Fine", "/usr/bin/ok"), broken, panicky, hung)
	defer backend.Release()

	got, err := NewLister(backend, nil, WithGuard(oscall.New(50*time.Millisecond))).List()
	require.NoError(t, err)
	assert.Equal(t, []platform.WindowID{1}, ids(got))
}

func TestListIconIsBestEffort(t *testing.T) {
	withIcon := win(1, "A", "/usr/bin/a")
	withIcon.Icon = []byte{0x89, 'P', 'N', 'G'}
	noIcon := win(2, "B", "/usr/bin/b")

	backend := platformtest.NewBackend(withIcon, noIcon)
	got, err := NewLister(backend, nil).List()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, withIcon.Icon, got[0].Icon)
	assert.Nil(t, got[1].Icon)

	got, err = NewLister(backend, nil, WithoutIcons()).List()
	require.NoError(t, err)
	assert.Nil(t, got[0].Icon)
}

func TestListMissingPathStillListed(t *testing.T) {
	w := win(1, "Orphan", "")
	w.Fail = map[string]error{"Path": errors.New("no pid")}

	backend := platformtest.NewBackend(w)
	got, err := NewLister(backend, exclusion.NewFilter([]string{"anything"})).List()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Path)
}

func TestListBackendError(t *testing.T) {
	backend := platformtest.NewBackend()
	backend.SetListError(errors.New("display gone"))

	_, err := NewLister(backend, nil).List()
	assert.Error(t, err)
}
