package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"runtime"

	"github.com/1broseidon/winhide/internal/platform"
)

const iconSize = 32

var (
	iconFill   = color.NRGBA{R: 0x5f, G: 0x5f, B: 0xd7, A: 0xff}
	iconStroke = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// trayIcon renders the tray icon: a filled disc crossed by a slash. Windows
// wants an ICO container, everything else takes the PNG directly.
func trayIcon() ([]byte, error) {
	data, err := platform.EncodeIcon(drawIcon(iconSize*2), iconSize)
	if err != nil {
		return nil, err
	}
	if runtime.GOOS == "windows" {
		return wrapICO(data, iconSize, iconSize), nil
	}
	return data, nil
}

func drawIcon(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	c := float64(size-1) / 2
	r := float64(size) / 2
	stroke := float64(size) / 10

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)-c, float64(y)-c
			if dx*dx+dy*dy > r*r {
				continue
			}
			// distance from the anti-diagonal x+y = 2c
			d := (dx + dy) / 1.4142135
			if d < 0 {
				d = -d
			}
			if d < stroke {
				img.SetNRGBA(x, y, iconStroke)
			} else {
				img.SetNRGBA(x, y, iconFill)
			}
		}
	}
	return img
}

// wrapICO places a PNG image in a single-entry ICO file.
func wrapICO(png []byte, width, height int) []byte {
	var buf bytes.Buffer
	// ICONDIR
	binary.Write(&buf, binary.LittleEndian, uint16(0))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	// ICONDIRENTRY
	buf.WriteByte(icoDim(width))
	buf.WriteByte(icoDim(height))
	buf.WriteByte(0) // palette
	buf.WriteByte(0) // reserved
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(32))
	binary.Write(&buf, binary.LittleEndian, uint32(len(png)))
	binary.Write(&buf, binary.LittleEndian, uint32(6+16))
	buf.Write(png)
	return buf.Bytes()
}

// icoDim encodes 256 as 0.
func icoDim(n int) byte {
	if n >= 256 {
		return 0
	}
	return byte(n)
}
