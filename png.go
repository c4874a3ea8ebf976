// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package papertex

/*
Minimal PNG Encoder

The encoder writes 8-bit RGBA, non-interlaced images with exactly
three chunks: IHDR, a single IDAT and IEND.  Scanlines are passed
through as given, filter type bytes included, and compressed as one
zlib stream directly into the output buffer.  Chunk lengths are
patched in after the data is written, and checksums are computed
over the chunk type and data in place.
*/

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// A CompressionLevel selects the zlib compression level of IDAT data.
type CompressionLevel int

const (
	DefaultCompression CompressionLevel = 0
	NoCompression      CompressionLevel = -1
	BestSpeed          CompressionLevel = -2
	BestCompression    CompressionLevel = -3
)

func (l CompressionLevel) zlibLevel() int {
	switch l {
	case NoCompression:
		return zlib.NoCompression
	case BestSpeed:
		return zlib.BestSpeed
	case BestCompression:
		return zlib.BestCompression
	default:
		return zlib.DefaultCompression
	}
}

// An Encoder configures PNG encoding.  The zero Encoder uses
// DefaultCompression.
type Encoder struct {
	CompressionLevel CompressionLevel
}

// PNG colour type and bit depth written to IHDR.
const (
	bitDepth  = 8
	colorRGBA = 6
)

const pngHeader = "\x89PNG\r\n\x1a\n"

// Encode returns a PNG image of the given size built from raw
// scanlines, as produced by Texture.Scanlines.  raw must hold exactly
// height rows of RowLen(width) bytes each.
func Encode(width, height int, raw []byte) ([]byte, error) {
	var e Encoder
	return e.Encode(width, height, raw)
}

// Encode returns a PNG image of the given size built from raw
// scanlines.
func (e *Encoder) Encode(width, height int, raw []byte) ([]byte, error) {
	w, err := encodePNG(e, width, height, raw)
	if err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

// EncodeTo writes a PNG image of the given size built from raw
// scanlines to ww.
func (e *Encoder) EncodeTo(ww io.Writer, width, height int, raw []byte) error {
	if ww == nil {
		return ErrArgs
	}
	w, err := encodePNG(e, width, height, raw)
	if err != nil {
		return err
	}
	_, err = w.buf.WriteTo(ww)
	return err
}

// A pngWriter accumulates a PNG stream.
type pngWriter struct {
	buf   bytes.Buffer
	tmp   [13]byte
	crc   crcDigest
	start int
}

func encodePNG(e *Encoder, width, height int, raw []byte) (*pngWriter, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrArgs
	}
	n := rawLen(width, height)
	if n < 0 {
		return nil, ErrLargeImage
	}
	if len(raw) != n {
		return nil, fmt.Errorf("%w: have %d bytes, want %d for %dx%d",
			ErrLength, len(raw), n, width, height)
	}
	var w pngWriter
	w.buf.Grow(len(pngHeader) + 3*12 + 13 + n/2)

	// Header
	w.buf.WriteString(pngHeader)

	// Header block
	binary.BigEndian.PutUint32(w.tmp[0:4], uint32(width))
	binary.BigEndian.PutUint32(w.tmp[4:8], uint32(height))
	w.tmp[8] = bitDepth
	w.tmp[9] = colorRGBA
	w.tmp[10] = 0 // deflate
	w.tmp[11] = 0 // adaptive filtering
	w.tmp[12] = 0 // no interlace
	w.writeChunk("IHDR", w.tmp[:13])

	// Data
	w.startChunk("IDAT")
	if err := w.compress(raw, e.CompressionLevel.zlibLevel()); err != nil {
		return nil, err
	}
	if w.buf.Len()-w.start-8 > maxSize {
		return nil, ErrLargeImage
	}
	w.endChunk()

	// End
	w.writeChunk("IEND", nil)
	return &w, nil
}

// compress writes raw to the current chunk as a zlib stream.
func (w *pngWriter) compress(raw []byte, level int) error {
	zw, err := zlib.NewWriterLevel(&w.buf, level)
	if err != nil {
		return fmt.Errorf("papertex: zlib: %w", err)
	}
	if _, err := zw.Write(raw); err != nil {
		return fmt.Errorf("papertex: zlib: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("papertex: zlib: %w", err)
	}
	return nil
}

func (w *pngWriter) writeChunk(name string, data []byte) {
	w.startChunk(name)
	w.buf.Write(data)
	w.endChunk()
}

// startChunk writes a chunk header with a placeholder length.
func (w *pngWriter) startChunk(name string) {
	w.start = w.buf.Len()
	w.buf.Write(w.tmp[:4])
	w.buf.WriteString(name)
}

// endChunk sets the length of the current chunk and appends its CRC.
func (w *pngWriter) endChunk() {
	b := w.buf.Bytes()[w.start:]
	binary.BigEndian.PutUint32(b, uint32(len(b)-8))
	w.crc.Reset()
	w.crc.Write(b[4:])
	binary.BigEndian.PutUint32(w.tmp[0:4], w.crc.Sum32())
	w.buf.Write(w.tmp[0:4])
}

// AppendChunk appends a chunk of type typ holding data to dst.
// typ must consist of four ASCII letters.
func AppendChunk(dst []byte, typ string, data []byte) ([]byte, error) {
	if !validChunkType(typ) {
		return dst, ErrChunkType
	}
	if len(data) > maxSize {
		return dst, ErrLargeImage
	}
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(data)))
	dst = append(dst, typ...)
	dst = append(dst, data...)
	var d crcDigest
	d.Reset()
	d.WriteString(typ)
	d.Write(data)
	return binary.BigEndian.AppendUint32(dst, d.Sum32()), nil
}

func validChunkType(typ string) bool {
	if len(typ) != 4 {
		return false
	}
	for i := 0; i < len(typ); i++ {
		if c := typ[i] | 0x20; c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}
