package ot

import (
	"fmt"

	"seehuhn.de/go/postscript/funit"
)

// --- head ------------------------------------------------------------------

// HeadTable gives global information about the font.
// See https://docs.microsoft.com/en-us/typography/opentype/spec/head
type HeadTable struct {
	tableBase
	FontRevision       uint32 // 16.16 fixed
	CheckSumAdjustment uint32
	MagicNumber        uint32
	Flags              uint16
	UnitsPerEm         uint16 // values 16 … 16384 are valid
	MacStyle           uint16
	IndexToLocFormat   uint16 // needed to interpret loca table
}

const headMagic = 0x5F0F3CF5

func newHeadTable(tag Tag, b binarySegm, offset, size uint32) *HeadTable {
	t := &HeadTable{}
	t.tableBase = tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.self = t
	return t
}

// IsBold reports bit 0 of macStyle.
func (t *HeadTable) IsBold() bool {
	return t.MacStyle&0x01 != 0
}

// IsItalic reports bit 1 of macStyle.
func (t *HeadTable) IsItalic() bool {
	return t.MacStyle&0x02 != 0
}

// --- OS/2 ------------------------------------------------------------------

// Panose holds the 10-byte PANOSE classification of a font.
// See https://monotype.github.io/panose/
type Panose [10]byte

// PANOSE digit values for the proportion byte of Latin text faces.
const (
	PanoseProportionAny        byte = 0
	PanoseProportionMonospaced byte = 9
)

// FamilyType returns the first PANOSE digit (bFamilyType).
func (p Panose) FamilyType() byte {
	return p[0]
}

// Proportion returns the PANOSE proportion digit (bProportion).
func (p Panose) Proportion() byte {
	return p[3]
}

// OS2Table contains the subset of table 'OS/2' fields a code font needs to
// get right.
// See https://docs.microsoft.com/en-us/typography/opentype/spec/os2
type OS2Table struct {
	tableBase
	Version       uint16
	XAvgCharWidth funit.Int16
	WeightClass   uint16
	WidthClass    uint16
	Panose        Panose
	FsSelection   uint16
}

const (
	os2MinSize         = 68
	os2AvgWidthOffset  = 2
	os2PanoseOffset    = 32
	os2SelectionOffset = 62
)

func newOS2Table(tag Tag, b binarySegm, offset, size uint32) *OS2Table {
	t := &OS2Table{}
	t.tableBase = tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.self = t
	return t
}

// SetXAvgCharWidth overwrites the average character width.
func (t *OS2Table) SetXAvgCharWidth(w funit.Int16) {
	putU16(t.data, os2AvgWidthOffset, uint16(w))
	t.XAvgCharWidth = w
}

// SetPanoseProportion overwrites the PANOSE proportion digit.
func (t *OS2Table) SetPanoseProportion(p byte) {
	t.data[os2PanoseOffset+3] = p
	t.Panose[3] = p
}

// --- post ------------------------------------------------------------------

// PostTable holds the PostScript information of a font, in as far as it
// is relevant for font selection.
// See https://docs.microsoft.com/en-us/typography/opentype/spec/post
type PostTable struct {
	tableBase
	Version            uint32 // 16.16 fixed
	ItalicAngle        float64
	UnderlinePosition  funit.Int16
	UnderlineThickness funit.Int16
	IsFixedPitch       bool
}

const (
	postMinSize           = 32
	postFixedPitchOffset  = 12
	postItalicAngleOffset = 4
)

func newPostTable(tag Tag, b binarySegm, offset, size uint32) *PostTable {
	t := &PostTable{}
	t.tableBase = tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.self = t
	return t
}

// SetFixedPitch sets or clears the isFixedPitch flag. Fonts flagged as fixed
// pitch are offered by applications which only list monospaced fonts.
func (t *PostTable) SetFixedPitch(fixedPitch bool) {
	var v uint32
	if fixedPitch {
		v = 1
	}
	putU32(t.data, postFixedPitchOffset, v)
	t.IsFixedPitch = fixedPitch
}

// --- fvar ------------------------------------------------------------------

// VariationAxis is an axis of a variable font's design space.
type VariationAxis struct {
	Tag     Tag
	Min     float64
	Default float64
	Max     float64
	Flags   uint16
	NameID  uint16
}

// Contains reports whether v lies within the axis' range.
func (a VariationAxis) Contains(v float64) bool {
	return v >= a.Min && v <= a.Max
}

func (a VariationAxis) String() string {
	return fmt.Sprintf("%s[%g…%g, default %g]", a.Tag, a.Min, a.Max, a.Default)
}

// FVarTable lists the design axes of a variable font.
// See https://docs.microsoft.com/en-us/typography/opentype/spec/fvar
type FVarTable struct {
	tableBase
	Axes          []VariationAxis
	InstanceCount int
}

const (
	fvarHeaderSize = 16
	fvarAxisSize   = 20
)

func newFVarTable(tag Tag, b binarySegm, offset, size uint32) *FVarTable {
	t := &FVarTable{}
	t.tableBase = tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.self = t
	return t
}

// Axis returns the axis for a tag like "wght".
func (t *FVarTable) Axis(tag Tag) (VariationAxis, bool) {
	for _, a := range t.Axes {
		if a.Tag == tag {
			return a, true
		}
	}
	return VariationAxis{}, false
}

// --- maxp ------------------------------------------------------------------

// MaxPTable contains the number of glyphs in the font.
type MaxPTable struct {
	tableBase
	NumGlyphs int
}

func newMaxPTable(tag Tag, b binarySegm, offset, size uint32) *MaxPTable {
	t := &MaxPTable{}
	t.tableBase = tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.self = t
	return t
}
