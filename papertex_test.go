// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package papertex

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// constSource always returns the same sample.
type constSource float64

func (s constSource) Float64() float64 { return float64(s) }

// seqSource returns samples from a list, cycling.
type seqSource struct {
	s []float64
	n int
}

func (s *seqSource) Float64() float64 {
	v := s.s[s.n%len(s.s)]
	s.n++
	return v
}

func TestScanlinesLength(t *testing.T) {
	for _, size := range [][2]int{{1, 1}, {3, 7}, {100, 100}, {257, 2}} {
		tex := Default
		tex.Width, tex.Height = size[0], size[1]
		raw, err := tex.Scanlines(rand.New(rand.NewPCG(1, 1)))
		if err != nil {
			t.Fatalf("%dx%d: %v", size[0], size[1], err)
		}
		if want := size[1] * (1 + 4*size[0]); len(raw) != want {
			t.Errorf("%dx%d: len = %d, want %d",
				size[0], size[1], len(raw), want)
		}
	}
}

func TestScanlinesDefault(t *testing.T) {
	raw, err := Default.Scanlines(rand.New(rand.NewPCG(42, 7)))
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != 40100 {
		t.Fatalf("len = %d, want 40100", len(raw))
	}
	checkNoise(t, raw, Default.Width)
}

// checkNoise checks filter bytes and channel ranges of Default noise.
func checkNoise(t *testing.T, raw []byte, width int) {
	t.Helper()
	lo := [4]byte{241, 237, 226, 5}
	hi := [4]byte{255, 255, 255, 29}
	stride := RowLen(width)
	for y := 0; y*stride < len(raw); y++ {
		row := raw[y*stride : (y+1)*stride]
		if row[0] != 0 {
			t.Fatalf("row %d: filter type %d, want 0", y, row[0])
		}
		for x := 1; x < len(row); x++ {
			c := (x - 1) & 3
			if v := row[x]; v < lo[c] || v > hi[c] {
				t.Fatalf("row %d pixel %d channel %d = %d, want [%d,%d]",
					y, (x-1)/4, c, v, lo[c], hi[c])
			}
		}
	}
}

func TestPixel(t *testing.T) {
	tests := []struct {
		name string
		s    float64
		want [4]byte
	}{
		{"zero", 0, [4]byte{241, 237, 226, 5}},
		{"half", 0.5, [4]byte{249, 244, 232, 17}},
		{"quarter", 0.25, [4]byte{245, 240, 229, 11}},
		{"almost one", 0.9999999, [4]byte{255, 250, 237, 29}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex := Default
			tex.Width, tex.Height = 2, 1
			raw, err := tex.Scanlines(constSource(tt.s))
			if err != nil {
				t.Fatal(err)
			}
			want := append([]byte{0}, tt.want[:]...)
			want = append(want, tt.want[:]...)
			if diff := cmp.Diff(want, raw); diff != "" {
				t.Errorf("Scanlines mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPixelClamp(t *testing.T) {
	tex := Texture{
		Width: 1, Height: 1,
		Jitter:     [3]int{100, 100, 100},
		AlphaMin:   250,
		AlphaRange: 100,
	}
	raw, err := tex.Scanlines(constSource(0))
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{0, 0, 0, 0, 250}; !bytes.Equal(raw, want) {
		t.Errorf("low clamp: got %v, want %v", raw, want)
	}
	tex.Tint.R, tex.Tint.G, tex.Tint.B = 250, 250, 250
	if raw, err = tex.Scanlines(constSource(0.99)); err != nil {
		t.Fatal(err)
	}
	if want := []byte{0, 255, 255, 255, 255}; !bytes.Equal(raw, want) {
		t.Errorf("high clamp: got %v, want %v", raw, want)
	}
}

func TestIndependent(t *testing.T) {
	tex := Default
	tex.Width, tex.Height = 1, 1
	src := &seqSource{s: []float64{0, 0.5, 0.9999999, 0.25}}
	raw, err := tex.Scanlines(src)
	if err != nil {
		t.Fatal(err)
	}
	if src.n != 1 {
		t.Errorf("shared mode drew %d samples, want 1", src.n)
	}
	if want := []byte{0, 241, 237, 226, 5}; !bytes.Equal(raw, want) {
		t.Errorf("shared: got %v, want %v", raw, want)
	}

	tex.Independent = true
	src.n = 0
	if raw, err = tex.Scanlines(src); err != nil {
		t.Fatal(err)
	}
	if src.n != 4 {
		t.Errorf("independent mode drew %d samples, want 4", src.n)
	}
	if want := []byte{0, 241, 244, 237, 11}; !bytes.Equal(raw, want) {
		t.Errorf("independent: got %v, want %v", raw, want)
	}
}

func TestScanlinesSeeded(t *testing.T) {
	a, err := Default.Scanlines(rand.New(rand.NewPCG(9, 9)))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Default.Scanlines(rand.New(rand.NewPCG(9, 9)))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("equal seeds gave different scanlines")
	}
	c, err := Default.Scanlines(rand.New(rand.NewPCG(9, 10)))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a, c) {
		t.Error("different seeds gave equal scanlines")
	}
}

func TestScanlinesErrors(t *testing.T) {
	tests := []struct {
		name string
		tex  *Texture
		src  Source
		want error
	}{
		{"nil texture", nil, constSource(0), ErrArgs},
		{"nil source", &Default, nil, ErrArgs},
		{"zero width", &Texture{Width: 0, Height: 1}, constSource(0), ErrArgs},
		{"negative height", &Texture{Width: 1, Height: -1}, constSource(0), ErrArgs},
		{"too large", &Texture{Width: 1 << 20, Height: 1 << 20}, constSource(0), ErrLargeImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := tt.tex.Scanlines(tt.src)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if raw != nil {
				t.Errorf("got %d bytes, want nil", len(raw))
			}
		})
	}
}

func TestEncodePNG(t *testing.T) {
	var a, b bytes.Buffer
	if err := Default.EncodePNG(&a, rand.New(rand.NewPCG(8, 8))); err != nil {
		t.Fatal(err)
	}
	if err := Default.EncodePNG(&b, rand.New(rand.NewPCG(8, 8))); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("equal seeds gave different PNG streams")
	}
	readChunks(t, a.Bytes())
	if err := Default.EncodePNG(nil, constSource(0)); !errors.Is(err, ErrArgs) {
		t.Errorf("EncodePNG(nil): err = %v, want %v", err, ErrArgs)
	}
}
