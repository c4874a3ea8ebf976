// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package papertex synthesizes paper noise textures and encodes them as
PNG images.

A Texture describes a small RGBA raster filled with warm, faintly
transparent noise around a base tint.  Scanlines produces the raw,
unfiltered image data; Encode wraps such data into a PNG stream
consisting of the signature and the IHDR, IDAT and IEND chunks.
*/
package papertex // import "github.com/unixdj/papertex"

import (
	"errors"
	"image/color"
	"io"
	"math"
)

var (
	ErrArgs       = errors.New("papertex: invalid arguments")
	ErrLength     = errors.New("papertex: scanline data length mismatch")
	ErrChunkType  = errors.New("papertex: invalid chunk type")
	ErrLargeImage = errors.New("papertex: image too large")
)

// A Source supplies uniformly distributed samples in [0, 1).
// *rand.Rand from math/rand and math/rand/v2 are Sources.
type Source interface {
	Float64() float64
}

// A Texture describes a paper noise texture.
type Texture struct {
	Width  int // width in pixels
	Height int // height in pixels

	// Tint is the base colour.  Its alpha is ignored.
	Tint color.RGBA

	// Jitter holds per-channel amplitudes for red, green and blue.
	// A sample s offsets the channel by floor((s-0.5)*Jitter[i]).
	Jitter [3]int

	// Alpha is AlphaMin + floor(s*AlphaRange).
	AlphaMin   int
	AlphaRange int

	// Independent draws a separate sample for each channel.
	// By default one sample per pixel drives all four channels.
	Independent bool
}

// Default is the 100x100 warm rice paper texture.
var Default = Texture{
	Width:      100,
	Height:     100,
	Tint:       color.RGBA{0xf9, 0xf4, 0xe8, 0xff},
	Jitter:     [3]int{16, 14, 12},
	AlphaMin:   5,
	AlphaRange: 25,
}

// maxSize limits width and height to what IHDR can express.
const maxSize = 1<<31 - 1

// RowLen returns the length of a raw scanline of the given width:
// the filter type byte followed by four bytes per pixel.
func RowLen(width int) int {
	return 1 + 4*width
}

// rawLen returns the raw data length for the given dimensions,
// or -1 if they are invalid or the length overflows int.
func rawLen(width, height int) int {
	if width <= 0 || height <= 0 || width > maxSize || height > maxSize {
		return -1
	}
	if (1+4*uint64(width))*uint64(height) > math.MaxInt32 {
		return -1
	}
	return RowLen(width) * height
}

// Scanlines returns the raw image data: for each row a filter type
// byte of 0 (None) followed by Width RGBA pixels.  Samples are drawn
// from src in row-major order.
func (t *Texture) Scanlines(src Source) ([]byte, error) {
	if src == nil || t == nil || t.Width <= 0 || t.Height <= 0 {
		return nil, ErrArgs
	}
	n := rawLen(t.Width, t.Height)
	if n < 0 {
		return nil, ErrLargeImage
	}
	const ftNone = 0
	buf := make([]byte, n)
	stride := RowLen(t.Width)
	for y := 0; y < t.Height; y++ {
		row := buf[y*stride : (y+1)*stride]
		row[0] = ftNone
		for x := 1; x < len(row); x += 4 {
			t.pixel(row[x:x+4], src)
		}
	}
	return buf, nil
}

// pixel fills p with one RGBA pixel.
func (t *Texture) pixel(p []byte, src Source) {
	var s [4]float64
	s[0] = src.Float64()
	if t.Independent {
		for i := 1; i < len(s); i++ {
			s[i] = src.Float64()
		}
	} else {
		s[1], s[2], s[3] = s[0], s[0], s[0]
	}
	_ = p[3]
	p[0] = jitter(t.Tint.R, s[0], t.Jitter[0])
	p[1] = jitter(t.Tint.G, s[1], t.Jitter[1])
	p[2] = jitter(t.Tint.B, s[2], t.Jitter[2])
	p[3] = clamp(t.AlphaMin + int(math.Floor(s[3]*float64(t.AlphaRange))))
}

func jitter(base uint8, s float64, amp int) byte {
	return clamp(int(base) + int(math.Floor((s-0.5)*float64(amp))))
}

func clamp(v int) byte {
	return byte(min(max(v, 0), 255))
}

// PNG returns a PNG image of a texture drawn from src.
func (t *Texture) PNG(src Source) ([]byte, error) {
	raw, err := t.Scanlines(src)
	if err != nil {
		return nil, err
	}
	return Encode(t.Width, t.Height, raw)
}

// EncodePNG writes a PNG image of a texture drawn from src to w.
func (t *Texture) EncodePNG(w io.Writer, src Source) error {
	if w == nil {
		return ErrArgs
	}
	b, err := t.PNG(src)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
