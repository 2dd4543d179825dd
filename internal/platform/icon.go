package platform

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
)

// EncodeARGBIcon converts packed 0xAARRGGBB pixels into a PNG scaled to fit
// within size x size.
func EncodeARGBIcon(width, height int, pixels []uint32, size int) ([]byte, error) {
	if width <= 0 || height <= 0 || len(pixels) < width*height {
		return nil, errors.New("invalid icon dimensions")
	}

	src := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := pixels[y*width+x]
			src.SetNRGBA(x, y, color.NRGBA{
				A: uint8(p >> 24),
				R: uint8(p >> 16),
				G: uint8(p >> 8),
				B: uint8(p),
			})
		}
	}

	return EncodeIcon(src, size)
}

// EncodeIcon scales img to fit within size x size and encodes it as PNG.
func EncodeIcon(img image.Image, size int) ([]byte, error) {
	b := img.Bounds()
	if size > 0 && (b.Dx() > size || b.Dy() > size) {
		w, h := fitWithin(b.Dx(), b.Dy(), size)
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fitWithin(w, h, size int) (int, int) {
	if w >= h {
		nh := h * size / w
		if nh < 1 {
			nh = 1
		}
		return size, nh
	}
	nw := w * size / h
	if nw < 1 {
		nw = 1
	}
	return nw, size
}
