package platform

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeARGBIconScalesDown(t *testing.T) {
	const w, h = 64, 32
	pixels := make([]uint32, w*h)
	for i := range pixels {
		pixels[i] = 0xFF00FF00
	}

	data, err := EncodeARGBIcon(w, h, pixels, 32)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())
}

func TestEncodeARGBIconKeepsSmallIcons(t *testing.T) {
	pixels := []uint32{0xFFFF0000, 0xFF0000FF, 0x00000000, 0x80FFFFFF}

	data, err := EncodeARGBIcon(2, 2, pixels, 32)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())

	r, g, b, a := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xFFFF), r)
	assert.Zero(t, g)
	assert.Zero(t, b)
	assert.Equal(t, uint32(0xFFFF), a)
}

func TestEncodeARGBIconRejectsShortBuffer(t *testing.T) {
	_, err := EncodeARGBIcon(4, 4, make([]uint32, 3), 32)
	assert.Error(t, err)
}
