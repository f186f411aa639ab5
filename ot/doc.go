/*
Package ot provides access to the table directory of an OpenType font and
to the few table fields a font post-processing tool needs to edit.

Package ot does not interpret glyph outlines or layout tables. A font is
read into a map of tables, a small number of tables get typed views
(head, OS/2, post, fvar, maxp), and all other tables are carried as opaque
byte blobs. Writing a font hands the table map to package
seehuhn.de/go/sfnt/header, which re-assembles the table directory and
recomputes table checksums and the head table's checksum adjustment.
Nothing else is touched, in particular time stamps are kept, so a font
written by this package reads back and writes out to the same bytes.

Fonts are edited in place: setters of typed views write into the table's
bytes, and tables may be added, replaced or removed.

	otf, err := ot.Load("RecMono-Linear-1.054.ttf")
	...
	otf.RemoveTable(ot.T("STAT"))
	otf.Post().SetFixedPitch(true)
	_, err = otf.Write(w)

Font collections (*.ttc) may be read with ParseCollection and written with
WriteCollection.

# Status

Only the fields listed above are interpreted. CFF outlines are carried
through like any other table.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ot

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'recmono.ot'
func tracer() tracing.Trace {
	return tracing.Select("recmono.ot")
}
