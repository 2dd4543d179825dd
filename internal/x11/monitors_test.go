package x11

import (
	"testing"

	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/stretchr/testify/assert"
)

func TestUnionMonitors(t *testing.T) {
	x, y, w, h := unionMonitors([]Monitor{
		{X: 0, Y: 0, Width: 1920, Height: 1080},
		{X: 1920, Y: -200, Width: 1280, Height: 1024},
	})
	assert.Equal(t, 0, x)
	assert.Equal(t, -200, y)
	assert.Equal(t, 3200, w)
	assert.Equal(t, 1280, h)
}

func TestIconScorePrefersClosestLarger(t *testing.T) {
	small := ewmh.WmIcon{Width: 16, Height: 16}
	exact := ewmh.WmIcon{Width: 32, Height: 32}
	large := ewmh.WmIcon{Width: 128, Height: 128}

	assert.Less(t, iconScore(exact, 32), iconScore(large, 32))
	assert.Less(t, iconScore(large, 32), iconScore(small, 32))
}

func TestConfigureRequestEncodesNegativeOrigin(t *testing.T) {
	mask, values := configureRequest(-40, 25, 800, 0)
	assert.Equal(t, uint16(0x0f), mask)
	assert.Equal(t, []uint32{0xffffffd8, 25, 800, 1}, values)
}

func TestTopLevel(t *testing.T) {
	assert.True(t, topLevel(true, false, false), "unmanaged child of root")
	assert.True(t, topLevel(false, true, false), "reparented client")
	assert.False(t, topLevel(false, false, false), "nested child window")
	assert.False(t, topLevel(true, true, true), "override-redirect popup")
}
