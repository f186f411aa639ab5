package ot

import (
	"errors"
	"fmt"
	"io"
	"math/bits"

	"github.com/npillmayer/recmono/internal/fontload"
)

// WriteCollection writes fonts as a font collection (TTC version 1.0) to w.
//
// Tables with identical content are stored once and shared between fonts.
// Each font's head table carries the checksum adjustment it would have as a
// standalone font. The order of fonts is kept.
func WriteCollection(w io.Writer, fonts []*Font) (int64, error) {
	if len(fonts) == 0 {
		return 0, errors.New("font collection: no fonts")
	}
	if len(fonts) > MaxCollectionSize {
		return 0, errors.New("font collection: too many fonts")
	}
	type fontTables struct {
		fontType uint32
		tags     []Tag
		data     [][]byte
	}
	all := make([]fontTables, len(fonts))
	size := 12 + 4*len(fonts)
	for i, otf := range fonts {
		tags, data, err := otf.standaloneTables()
		if err != nil {
			return 0, fmt.Errorf("font collection: font #%d: %w", i, err)
		}
		all[i] = fontTables{fontType: otf.Header.FontType, tags: tags, data: data}
		size += 12 + 16*len(tags)
	}

	out := make([]byte, size)
	putU32(out, 0, fontload.TagCollection)
	putU16(out, 4, 1) // majorVersion
	putU16(out, 6, 0) // minorVersion
	putU32(out, 8, uint32(len(fonts)))

	shared := make(map[string]uint32)
	dir := 12 + 4*len(fonts)
	for i, ft := range all {
		putU32(out, 12+4*i, uint32(dir))
		writeDirectoryHeader(out[dir:], ft.fontType, len(ft.tags))
		for j, tag := range ft.tags {
			d := ft.data[j]
			off, ok := shared[string(d)]
			if !ok {
				off = uint32(len(out))
				shared[string(d)] = off
				out = append(out, d...)
				out = append(out, make([]byte, padLen(len(d))-len(d))...)
			}
			sum := checksum(d)
			if tag == T("head") && len(d) >= headChecksumOffset+4 {
				sum -= u32(d[headChecksumOffset:])
			}
			writeTableRecord(out[dir+12+16*j:], tag, sum, off, uint32(len(d)))
		}
		dir += 12 + 16*len(ft.tags)
	}
	tracer().Debugf("font collection: %d fonts, %d distinct tables", len(fonts), len(shared))
	n, err := w.Write(out)
	return int64(n), err
}

// writeDirectoryHeader writes sfntVersion, numTables, searchRange,
// entrySelector and rangeShift.
func writeDirectoryHeader(b []byte, fontType uint32, numTables int) {
	var entrySelector, searchRange uint16
	if numTables > 0 {
		entrySelector = uint16(bits.Len(uint(numTables)) - 1)
		searchRange = (1 << entrySelector) * 16
	}
	putU32(b, 0, fontType)
	putU16(b, 4, uint16(numTables))
	putU16(b, 6, searchRange)
	putU16(b, 8, entrySelector)
	putU16(b, 10, uint16(numTables*16)-searchRange)
}

func writeTableRecord(b []byte, tag Tag, sum, offset, length uint32) {
	putU32(b, 0, uint32(tag))
	putU32(b, 4, sum)
	putU32(b, 8, offset)
	putU32(b, 12, length)
}
