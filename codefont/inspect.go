package codefont

import (
	"sort"

	"github.com/npillmayer/recmono/ot"
	"github.com/npillmayer/recmono/otname"
	"seehuhn.de/go/postscript/funit"
)

// Summary lists what a code font build changes in a font.
type Summary struct {
	Tables       []string
	Axes         []ot.VariationAxis
	Names        []NameEntry
	Glyphs       int
	Bold, Italic bool // head.macStyle
	FamilyType   byte // PANOSE
	FixedPitch   bool
	Proportion   byte
	AvgCharWidth funit.Int16
	HasSTAT      bool
	Warnings     []string
}

// NameEntry is a decoded name record.
type NameEntry struct {
	Key   otname.Key
	Value string
}

// IsCodeFont reports whether all edits of Patch are in place.
func (s Summary) IsCodeFont() bool {
	return s.FixedPitch && !s.HasSTAT &&
		s.Proportion == ot.PanoseProportionMonospaced &&
		s.AvgCharWidth == CodeAvgCharWidth
}

// Summarize collects the names and fields of a font relevant for code font
// builds. Missing tables leave the respective fields zero.
func Summarize(otf *ot.Font) Summary {
	var s Summary
	for _, tag := range otf.TableTags() {
		s.Tables = append(s.Tables, tag.String())
	}
	if fvar := otf.FVar(); fvar != nil {
		s.Axes = fvar.Axes
	}
	if names, err := otname.FromFont(otf); err == nil {
		for key, value := range names.NamesRange() {
			s.Names = append(s.Names, NameEntry{Key: key, Value: value})
		}
		sort.SliceStable(s.Names, func(i, j int) bool {
			a, b := s.Names[i].Key, s.Names[j].Key
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return a.Platform > b.Platform // Windows first
		})
	}
	if head := otf.Head(); head != nil {
		s.Bold, s.Italic = head.IsBold(), head.IsItalic()
	}
	if maxp := otf.Table(ot.T("maxp")); maxp != nil {
		if m := maxp.Self().AsMaxP(); m != nil {
			s.Glyphs = m.NumGlyphs
		}
	}
	if post := otf.Post(); post != nil {
		s.FixedPitch = post.IsFixedPitch
	}
	if os2 := otf.OS2(); os2 != nil {
		s.FamilyType = os2.Panose.FamilyType()
		s.Proportion = os2.Panose.Proportion()
		s.AvgCharWidth = os2.XAvgCharWidth
	}
	s.HasSTAT = otf.HasTable(ot.T("STAT"))
	for _, w := range otf.Warnings() {
		s.Warnings = append(s.Warnings, w.String())
	}
	return s
}
