// Package testfont synthesises small sfnt fonts for tests.
//
// The fonts carry the tables the code font pipeline reads or edits (head,
// maxp, name, OS/2, post, optionally fvar and STAT). They contain no
// outlines, so they are only good for metadata tests.
package testfont

import (
	"os"

	"github.com/npillmayer/recmono/ot"
	"github.com/npillmayer/recmono/otname"
	"golang.org/x/image/font/sfnt"
	"seehuhn.de/go/postscript/funit"
)

// Options describe a synthetic font.
type Options struct {
	Names        map[sfnt.NameID]string // written to the Windows and Mac records
	AvgCharWidth funit.Int16
	Proportion   byte
	FixedPitch   bool
	STAT         bool
	Axes         []ot.VariationAxis // non-empty for a variable font
}

// RecursiveNames are the names of the default instance of the Recursive
// variable font.
func RecursiveNames() map[sfnt.NameID]string {
	return map[sfnt.NameID]string{
		sfnt.NameIDFamily:               "Recursive Sans Linear Light",
		sfnt.NameIDSubfamily:            "Regular",
		sfnt.NameIDUniqueIdentifier:     "1.054;ARRW;Recursive-SansLinearLight",
		sfnt.NameIDFull:                 "Recursive Sans Linear Light",
		sfnt.NameIDPostScript:           "Recursive-SansLinearLight",
		sfnt.NameIDTypographicFamily:    "Recursive Sans",
		sfnt.NameIDTypographicSubfamily: "Linear Light",
	}
}

// RecursiveAxes is the design space of the Recursive variable font.
func RecursiveAxes() []ot.VariationAxis {
	return []ot.VariationAxis{
		{Tag: ot.T("wght"), Min: 300, Default: 300, Max: 1000, NameID: 256},
		{Tag: ot.T("CASL"), Min: 0, Default: 0, Max: 1, NameID: 257},
		{Tag: ot.T("MONO"), Min: 0, Default: 0, Max: 1, NameID: 258},
		{Tag: ot.T("slnt"), Min: -15, Default: 0, Max: 0, NameID: 259},
		{Tag: ot.T("CRSV"), Min: 0, Default: 0.5, Max: 1, NameID: 260},
	}
}

// Recursive returns options for a variable source font resembling Recursive.
func Recursive() Options {
	return Options{
		Names:        RecursiveNames(),
		AvgCharWidth: 612,
		Proportion:   3,
		STAT:         true,
		Axes:         RecursiveAxes(),
	}
}

// Static returns options for a static instance as the instancer emits it:
// the names of the default instance, no fvar, STAT still present.
func Static() Options {
	opts := Recursive()
	opts.Axes = nil
	return opts
}

// Build assembles a font from opts.
func Build(opts Options) (*ot.Font, error) {
	otf := ot.NewFont(ot.FontTypeTrueType)
	tables := map[ot.Tag][]byte{
		ot.T("head"): Head(),
		ot.T("maxp"): MaxP(4),
		ot.T("OS/2"): OS2(opts.AvgCharWidth, opts.Proportion),
		ot.T("post"): Post(opts.FixedPitch),
	}
	if opts.STAT {
		tables[ot.T("STAT")] = STAT()
	}
	if len(opts.Axes) > 0 {
		tables[ot.T("fvar")] = FVar(opts.Axes)
	}
	for tag, data := range tables {
		if err := otf.SetTable(tag, data); err != nil {
			return nil, err
		}
	}
	names := &otname.Table{}
	for id, value := range opts.Names {
		if _, err := names.Update(id, value, otname.Windows, otname.Mac); err != nil {
			return nil, err
		}
	}
	if err := names.Store(otf); err != nil {
		return nil, err
	}
	return otf, nil
}

// Bytes returns the binary form of a font built from opts.
func Bytes(opts Options) ([]byte, error) {
	otf, err := Build(opts)
	if err != nil {
		return nil, err
	}
	return otf.Bytes()
}

// WriteFile writes a font built from opts to path.
func WriteFile(path string, opts Options) error {
	b, err := Bytes(opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// --- Tables ----------------------------------------------------------------

// Head returns a 54 byte head table with 1000 units per em.
func Head() []byte {
	b := make([]byte, 54)
	put32(b, 0, 0x00010000)  // version
	put32(b, 4, 0x00010D91)  // fontRevision 1.053
	put32(b, 12, 0x5F0F3CF5) // magicNumber
	put16(b, 16, 0x000B)     // flags
	put16(b, 18, 1000)       // unitsPerEm
	put16(b, 50, 1)          // indexToLocFormat
	return b
}

// MaxP returns a version 0.5 maxp table.
func MaxP(numGlyphs uint16) []byte {
	b := make([]byte, 6)
	put32(b, 0, 0x00005000)
	put16(b, 4, numGlyphs)
	return b
}

// OS2 returns a version 4 OS/2 table.
func OS2(avgCharWidth funit.Int16, proportion byte) []byte {
	b := make([]byte, 96)
	put16(b, 0, 4)
	put16(b, 2, uint16(avgCharWidth))
	put16(b, 4, 400) // usWeightClass
	put16(b, 6, 5)   // usWidthClass
	copy(b[32:42], []byte{2, 11, 5, proportion, 2, 2, 2, 2, 2, 4})
	put16(b, 62, 0x0040) // fsSelection REGULAR
	return b
}

// Post returns a version 3 post table.
func Post(fixedPitch bool) []byte {
	b := make([]byte, 32)
	put32(b, 0, 0x00030000)
	put16(b, 8, uint16(0xFF9C)) // underlinePosition -100
	put16(b, 10, 50)
	if fixedPitch {
		put32(b, 12, 1)
	}
	return b
}

// FVar returns an fvar table for axes, without named instances.
func FVar(axes []ot.VariationAxis) []byte {
	b := make([]byte, 16+20*len(axes))
	put16(b, 0, 1)  // majorVersion
	put16(b, 4, 16) // axesArrayOffset
	put16(b, 6, 2)  // reserved
	put16(b, 8, uint16(len(axes)))
	put16(b, 10, 20)
	put16(b, 14, uint16(4+4*len(axes))) // instanceSize
	for i, a := range axes {
		rec := b[16+20*i:]
		put32(rec, 0, uint32(a.Tag))
		put32(rec, 4, fixed(a.Min))
		put32(rec, 8, fixed(a.Default))
		put32(rec, 12, fixed(a.Max))
		put16(rec, 16, a.Flags)
		put16(rec, 18, a.NameID)
	}
	return b
}

// STAT returns an empty version 1.1 STAT table.
func STAT() []byte {
	b := make([]byte, 20)
	put16(b, 0, 1)
	put16(b, 2, 1)
	put16(b, 4, 8) // designAxisSize
	return b
}

func fixed(f float64) uint32 {
	return uint32(int32(f * 65536))
}

func put16(b []byte, i int, n uint16) {
	b[i] = byte(n >> 8)
	b[i+1] = byte(n)
}

func put32(b []byte, i int, n uint32) {
	b[i] = byte(n >> 24)
	b[i+1] = byte(n >> 16)
	b[i+2] = byte(n >> 8)
	b[i+3] = byte(n)
}
