/*
Package otname reads, edits and writes OpenType 'name' tables.

Name records are addressed by a Key, which follows the OpenType NameRecord
fields directly: platform, encoding, language and name ID. Strings of the
Unicode and Windows platforms are stored as UTF-16BE, strings of the
Macintosh platform (Roman encoding) as Mac OS Roman. Records of other
encodings are carried through unchanged but cannot be read or set.

Fonts usually carry each name twice, once for Windows (3, 1, 0x409) and once
for the Macintosh (1, 0, 0). Update keeps both in sync:

	names, err := otname.FromFont(otf)
	changes, err := names.Update(sfnt.NameIDFamily, "Rec Mono Linear", otname.Windows, otname.Mac)
	err = names.Store(otf)

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otname

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'recmono.ot'
func tracer() tracing.Trace {
	return tracing.Select("recmono.ot")
}
