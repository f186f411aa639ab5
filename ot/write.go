package ot

import (
	"bytes"
	"fmt"
	"io"

	"seehuhn.de/go/sfnt/header"
)

// Offset of checkSumAdjustment within the head table.
const headChecksumOffset = 8

// Write writes the binary form of the font to w.
//
// The table directory is assembled by package sfnt/header: table records
// are sorted by tag, tables start on four-byte boundaries, table checksums
// and the head table's checkSumAdjustment are recomputed. All other bytes
// are written as they are. Writing the same font twice yields identical
// output.
func (otf *Font) Write(w io.Writer) (int64, error) {
	tables := otf.tableData()
	if len(tables) == 0 {
		return 0, fmt.Errorf("%w: font has no tables", ErrMissingTable)
	}
	return header.Write(w, otf.Header.FontType, tables)
}

// Bytes returns the binary form of the font, see Write.
func (otf *Font) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := otf.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// tableData maps table names to table bytes, the form sfnt/header expects.
// The head table is copied with its checkSumAdjustment cleared, the
// adjustment stored in the font is stale after any edit.
func (otf *Font) tableData() map[string][]byte {
	tables := make(map[string][]byte, len(otf.tables))
	for tag, t := range otf.tables {
		data := t.Binary()
		if tag == T("head") && len(data) >= headChecksumOffset+4 {
			data = append([]byte(nil), data...)
			putU32(data, headChecksumOffset, 0)
		}
		tables[tag.String()] = data
	}
	return tables
}

// standaloneTables writes the font through sfnt/header and reads the tables
// back, in ascending tag order. The head table then carries the checksum
// adjustment of the font as a standalone file.
func (otf *Font) standaloneTables() ([]Tag, [][]byte, error) {
	b, err := otf.Bytes()
	if err != nil {
		return nil, nil, err
	}
	r := bytes.NewReader(b)
	info, err := header.Read(r)
	if err != nil {
		return nil, nil, err
	}
	tags := otf.TableTags()
	data := make([][]byte, len(tags))
	for i, tag := range tags {
		if data[i], err = info.ReadTableBytes(r, tag.String()); err != nil {
			return nil, nil, fmt.Errorf("table %s: %w", tag, err)
		}
	}
	return tags, data, nil
}
