package ot

import (
	"fmt"
	"math"

	"github.com/npillmayer/recmono/internal/fontload"
	"seehuhn.de/go/postscript/funit"
)

// Code comment often will cite passage from the
// OpenType specification version 1.8.4;
// see https://docs.microsoft.com/en-us/typography/opentype/spec/.

// MaxTableCount limits the number of table records we accept in a table
// directory.
const MaxTableCount = 512

// MaxCollectionSize limits the number of fonts in a collection.
const MaxCollectionSize = 256

func checkedAddUint32(a, b uint32) (uint32, error) {
	if a > math.MaxUint32-b {
		return 0, fmt.Errorf("integer overflow: %d + %d", a, b)
	}
	return a + b, nil
}

// Load reads and parses a single font from a file.
func Load(path string) (*Font, error) {
	f, err := fontload.LoadOpenTypeFont(path)
	if err != nil {
		return nil, err
	}
	if f.IsCollection() {
		return nil, fmt.Errorf("%s: %w", path, errFontFormat("font collection, expected single font"))
	}
	otf, err := Parse(f.Binary)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	otf.F = f
	tracer().Debugf("loaded font %s with %d tables", f.Fontname, len(otf.tables))
	return otf, nil
}

// Parse parses an OpenType font from a byte slice.
// An ot.Font needs ongoing access to the font's byte-data after the Parse
// function returns. Setters of typed tables modify this data in place.
func Parse(font []byte) (*Font, error) {
	return parseAt(font, 0)
}

// ParseCollection parses all fonts of a font collection. If font is not a
// collection, a single font is returned.
func ParseCollection(font []byte) ([]*Font, error) {
	src := binarySegm(font)
	tag, err := src.u32(0)
	if err != nil {
		return nil, errFontFormat("font header")
	}
	if tag != fontload.TagCollection {
		otf, err := Parse(font)
		if err != nil {
			return nil, err
		}
		return []*Font{otf}, nil
	}
	// TTC header: tag, majorVersion, minorVersion, numFonts, offsets[numFonts]
	n, err := src.u32(8)
	if err != nil || n == 0 || n > MaxCollectionSize {
		return nil, errFontFormat("collection font count")
	}
	fonts := make([]*Font, 0, n)
	for i := 0; i < int(n); i++ {
		off, err := src.u32(12 + 4*i)
		if err != nil {
			return nil, errFontFormat("collection offsets")
		}
		otf, err := parseAt(font, off)
		if err != nil {
			return nil, fmt.Errorf("font #%d in collection: %w", i, err)
		}
		fonts = append(fonts, otf)
	}
	return fonts, nil
}

// parseAt parses the table directory starting at dirOffset. Table offsets
// are relative to the start of font, which matters for collections.
func parseAt(font []byte, dirOffset uint32) (*Font, error) {
	src := binarySegm(font)
	hdr, err := src.view(int(dirOffset), 12)
	if err != nil {
		return nil, errFontFormat("font header")
	}
	h := FontHeader{FontType: u32(hdr), TableCount: u16(hdr[4:])}
	tracer().Debugf("header = %v, tag = %x|%s", h, h.FontType, Tag(h.FontType).String())

	ec := &errorCollector{}
	if !(h.FontType == FontTypeCFF ||
		h.FontType == FontTypeTrueType ||
		h.FontType == FontTypeApple) {
		return nil, errFontFormat(fmt.Sprintf("font type not supported: %x", h.FontType))
	}
	if h.TableCount > MaxTableCount {
		return nil, errFontFormat(fmt.Sprintf("table count too large: %d", h.TableCount))
	}
	otf := &Font{Header: &h, tables: make(map[Tag]Table)}
	// "The Offset Table is followed immediately by the Table Record entries …
	// sorted in ascending order by tag", 16 bytes each.
	buf, err := src.view(int(dirOffset)+12, 16*int(h.TableCount))
	if err != nil {
		return nil, errFontFormat("table record entries")
	}
	for b, prevTag := buf, Tag(0); len(b) > 0; b = b[16:] {
		tag := MakeTag(b)
		if tag < prevTag {
			ec.addWarning(tag, "table records not sorted by tag", dirOffset+12)
		}
		prevTag = tag
		sum, off, size := u32(b[4:8]), u32(b[8:12]), u32(b[12:16])
		if off&3 != 0 { // "all tables must begin on four byte boundries".
			return nil, errFontFormat(fmt.Sprintf("table %s: invalid table offset", tag))
		}
		tableEnd, err := checkedAddUint32(off, size)
		if err != nil {
			return nil, errFontFormat(fmt.Sprintf("table %s: size calculation overflow: %v", tag, err))
		}
		if off > uint32(len(src)) || tableEnd > uint32(len(src)) {
			return nil, errFontFormat(fmt.Sprintf("table %s: bounds [%d:%d] exceed font size %d",
				tag, off, tableEnd, len(src)))
		}
		data := src[off:tableEnd]
		if tag != T("head") && checksum(data) != sum {
			ec.addWarning(tag, "table checksum mismatch", off)
		}
		if otf.tables[tag], err = parseTable(tag, data, off, size, ec); err != nil {
			return nil, err
		}
	}
	otf.parseErrors = ec.errors
	otf.parseWarnings = ec.warnings
	if len(ec.warnings) > 0 {
		tracer().Debugf("font parsed with %d warnings", len(ec.warnings))
	}
	return otf, nil
}

func parseTable(t Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	switch t {
	case T("head"):
		return parseHead(t, b, offset, size, ec)
	case T("OS/2"):
		return parseOS2(t, b, offset, size, ec)
	case T("post"):
		return parsePost(t, b, offset, size, ec)
	case T("fvar"):
		return parseFVar(t, b, offset, size, ec)
	case T("maxp"):
		return parseMaxP(t, b, offset, size, ec)
	}
	return newTable(t, b, offset, size), nil
}

// --- Head table ------------------------------------------------------------

func parseHead(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	if size < 54 {
		ec.addError(tag, "Size", fmt.Sprintf("head table too small: %d bytes (need 54)", size), SeverityCritical, offset)
		return nil, errFontFormat("size of head table")
	}
	t := newHeadTable(tag, b, offset, size)
	t.FontRevision = u32(b[4:])
	t.CheckSumAdjustment = u32(b[8:])
	t.MagicNumber = u32(b[12:])
	if t.MagicNumber != headMagic {
		ec.addWarning(tag, fmt.Sprintf("bad magic number %x", t.MagicNumber), offset)
	}
	t.Flags = u16(b[16:])
	t.UnitsPerEm = u16(b[18:])
	t.MacStyle = u16(b[44:])
	// 0 for short offsets, 1 for long
	t.IndexToLocFormat = u16(b[50:])
	return t, nil
}

// --- OS/2 table ------------------------------------------------------------

// Versions 0 through 5 share the layout of the first 68 bytes, which is all
// we need.
func parseOS2(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	if size < os2MinSize {
		ec.addError(tag, "Size", fmt.Sprintf("OS/2 table too small: %d bytes (need %d)", size, os2MinSize), SeverityCritical, offset)
		return nil, errFontFormat("size of OS/2 table")
	}
	t := newOS2Table(tag, b, offset, size)
	t.Version = u16(b)
	if t.Version > 5 {
		ec.addWarning(tag, fmt.Sprintf("unknown table version %d", t.Version), offset)
	}
	t.XAvgCharWidth = funit.Int16(int16(u16(b[os2AvgWidthOffset:])))
	t.WeightClass = u16(b[4:])
	t.WidthClass = u16(b[6:])
	copy(t.Panose[:], b[os2PanoseOffset:os2PanoseOffset+10])
	t.FsSelection = u16(b[os2SelectionOffset:])
	return t, nil
}

// --- post table ------------------------------------------------------------

func parsePost(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	if size < postMinSize {
		ec.addError(tag, "Size", fmt.Sprintf("post table too small: %d bytes (need %d)", size, postMinSize), SeverityCritical, offset)
		return nil, errFontFormat("size of post table")
	}
	t := newPostTable(tag, b, offset, size)
	t.Version = u32(b)
	t.ItalicAngle = fixed(u32(b[postItalicAngleOffset:]))
	t.UnderlinePosition = funit.Int16(int16(u16(b[8:])))
	t.UnderlineThickness = funit.Int16(int16(u16(b[10:])))
	t.IsFixedPitch = u32(b[postFixedPitchOffset:]) != 0
	return t, nil
}

// --- fvar table ------------------------------------------------------------

// The fvar header is followed by axisCount VariationAxisRecords of axisSize
// bytes each, starting at axesArrayOffset. Named instance records follow the
// axes and are only counted here.
func parseFVar(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	if size < fvarHeaderSize {
		ec.addError(tag, "Size", fmt.Sprintf("fvar table too small: %d bytes", size), SeverityCritical, offset)
		return nil, errFontFormat("size of fvar table")
	}
	t := newFVarTable(tag, b, offset, size)
	axesOffset := int(u16(b[4:]))
	axisCount := int(u16(b[8:]))
	axisSize := int(u16(b[10:]))
	t.InstanceCount = int(u16(b[12:]))
	if axisSize < fvarAxisSize {
		ec.addError(tag, "Axes", fmt.Sprintf("axis record size %d", axisSize), SeverityCritical, offset)
		return nil, errFontFormat("fvar axis record size")
	}
	for i := 0; i < axisCount; i++ {
		rec, err := b.view(axesOffset+i*axisSize, fvarAxisSize)
		if err != nil {
			ec.addError(tag, "Axes", fmt.Sprintf("axis record %d out of bounds", i), SeverityCritical, offset)
			return nil, errFontFormat("fvar axis records")
		}
		t.Axes = append(t.Axes, VariationAxis{
			Tag:     MakeTag(rec[0:4]),
			Min:     fixed(u32(rec[4:])),
			Default: fixed(u32(rec[8:])),
			Max:     fixed(u32(rec[12:])),
			Flags:   u16(rec[16:]),
			NameID:  u16(rec[18:]),
		})
	}
	return t, nil
}

// --- MaxP table ------------------------------------------------------------

func parseMaxP(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	t := newMaxPTable(tag, b, offset, size)
	if n, err := b.u16(4); err == nil {
		t.NumGlyphs = int(n)
	} else {
		ec.addWarning(tag, "maxp table too small", offset)
	}
	return t, nil
}
