package ot

import (
	"errors"
)

// Reading bytes from a font's binary representation

var errBufferBounds = errors.New("internal inconsistency: buffer bounds error")

func u16(b []byte) uint16 {
	_ = b[1] // Bounds check hint to compiler
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func u32(b []byte) uint32 {
	_ = b[3] // Bounds check hint to compiler
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])<<0
}

func putU16(b []byte, i int, n uint16) {
	b[i] = byte(n >> 8)
	b[i+1] = byte(n)
}

func putU32(b []byte, i int, n uint32) {
	b[i] = byte(n >> 24)
	b[i+1] = byte(n >> 16)
	b[i+2] = byte(n >> 8)
	b[i+3] = byte(n)
}

// binarySegm is a segment of byte data. Tables are binary segments of the
// font's data.
type binarySegm []byte

// view returns n bytes at the given offset.
// The byte segment returned is a sub-slice of b.
func (b binarySegm) view(offset, n int) (binarySegm, error) {
	if offset < 0 || n <= 0 || offset+n > len(b) {
		return nil, errBufferBounds
	}
	return b[offset : offset+n], nil
}

// u16 returns the uint16 in b at the relative offset i.
func (b binarySegm) u16(i int) (uint16, error) {
	buf, err := b.view(i, 2)
	if err != nil {
		return 0, err
	}
	return u16(buf), nil
}

// u32 returns the uint32 in b at the relative offset i.
func (b binarySegm) u32(i int) (uint32, error) {
	buf, err := b.view(i, 4)
	if err != nil {
		return 0, err
	}
	return u32(buf), nil
}

// fixed converts a 16.16 fixed point number to float64.
func fixed(n uint32) float64 {
	return float64(int32(n)) / 65536
}

// checksum is the OpenType table checksum: the sum of the table's big-endian
// uint32 words, the last word padded with zeros.
func checksum(b []byte) uint32 {
	var sum uint32
	n := len(b) &^ 3
	for i := 0; i < n; i += 4 {
		sum += u32(b[i:])
	}
	if rest := len(b) - n; rest > 0 {
		var last [4]byte
		copy(last[:], b[n:])
		sum += u32(last[:])
	}
	return sum
}

// padLen returns n rounded up to a multiple of 4.
func padLen(n int) int {
	return (n + 3) &^ 3
}
