package codefont

import (
	"fmt"

	"github.com/npillmayer/recmono/ot"
	"seehuhn.de/go/postscript/funit"
)

// CodeAvgCharWidth is the advance width of Rec Mono glyphs. The average
// computed from the glyphs is higher, because the wide code ligatures count
// in.
const CodeAvgCharWidth funit.Int16 = 600

// Patch applies the OpenType edits every code font needs:
//
//   - table STAT is dropped, so Windows falls back to RIBBI style linking,
//   - post.isFixedPitch is set,
//   - OS/2 PANOSE bProportion is set to monospaced,
//   - OS/2 xAvgCharWidth is set to CodeAvgCharWidth.
//
// Fonts without post or OS/2 table are rejected.
func Patch(otf *ot.Font) error {
	post, os2 := otf.Post(), otf.OS2()
	if post == nil {
		return fmt.Errorf("%w: post", ot.ErrMissingTable)
	}
	if os2 == nil {
		return fmt.Errorf("%w: OS/2", ot.ErrMissingTable)
	}
	if otf.RemoveTable(ot.T("STAT")) {
		tracer().Debugf("dropped table STAT")
	}
	post.SetFixedPitch(true)
	os2.SetPanoseProportion(ot.PanoseProportionMonospaced)
	if os2.XAvgCharWidth != CodeAvgCharWidth {
		tracer().Debugf("xAvgCharWidth %d → %d", os2.XAvgCharWidth, CodeAvgCharWidth)
		os2.SetXAvgCharWidth(CodeAvgCharWidth)
	}
	return nil
}
