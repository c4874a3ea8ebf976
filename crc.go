// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package papertex

// crcPoly is the reflected CRC-32 polynomial used by PNG and zlib.
const crcPoly = 0xedb88320

var crcTable = makeCRCTable()

func makeCRCTable() *[256]uint32 {
	var t [256]uint32
	for i := range t {
		c := uint32(i)
		for j := 0; j < 8; j++ {
			if c&1 != 0 {
				c = crcPoly ^ c>>1
			} else {
				c >>= 1
			}
		}
		t[i] = c
	}
	return &t
}

// A crcDigest computes a running PNG CRC-32.
type crcDigest struct {
	crc uint32
}

func (d *crcDigest) Reset() { d.crc = 0xffffffff }

func (d *crcDigest) Write(p []byte) {
	d.crc = crcUpdate(d.crc, p)
}

func (d *crcDigest) WriteString(s string) {
	crc := d.crc
	for i := 0; i < len(s); i++ {
		crc = crcTable[byte(crc)^s[i]] ^ crc>>8
	}
	d.crc = crc
}

func (d *crcDigest) Sum32() uint32 { return d.crc ^ 0xffffffff }

func crcUpdate(crc uint32, p []byte) uint32 {
	for _, v := range p {
		crc = crcTable[byte(crc)^v] ^ crc>>8
	}
	return crc
}

// CRC32 returns the CRC-32 checksum of b as used in PNG chunks.
func CRC32(b []byte) uint32 {
	return crcUpdate(0xffffffff, b) ^ 0xffffffff
}
