/*
Package recmono builds Rec Mono, the code editor variant of the Recursive
variable font.

Rec Mono consists of static fonts, each pinned to one location of
Recursive's design space. We will stick to the following definitions:

▪︎ A "package" is a group of static fonts sharing a family, e.g. "Linear".
Packages are written to a common directory and may be packed into a font
collection (*.ttc).

▪︎ An "instance" is one static font of a package, e.g. "Linear Bold
Italic". Its style-linking name ("Bold Italic") tells applications how it
relates to the other fonts of the family.

The build itself lives in package codefont, its collaborators in packages
config, naming, otname, ot and toolchain. This package offers the whole
build as a single call.

# Links

Recursive: https://github.com/arrowtype/recursive

OpenType explained:
https://docs.microsoft.com/en-us/typography/opentype/

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package recmono

import (
	"context"

	"github.com/npillmayer/recmono/codefont"
	"github.com/npillmayer/recmono/config"
	"github.com/npillmayer/recmono/internal/fontload"
	"github.com/npillmayer/recmono/ot"
	"github.com/npillmayer/recmono/otname"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/sfnt"
)

// tracer writes to trace with key 'recmono'
func tracer() tracing.Trace {
	return tracing.Select("recmono")
}

// Generate reads the instance configuration at configPath and builds all of
// its instances. If opts.Source does not exist, it is looked up among the
// fonts installed on the system.
func Generate(ctx context.Context, configPath string, opts codefont.Options) (*codefont.Report, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if opts.Source, err = fontload.Locate(opts.Source); err != nil {
		return nil, err
	}
	tracer().Infof("building %d instances from %s", conf.Len(), opts.Source)
	return codefont.NewGenerator(conf, opts).Run(ctx)
}

// FromBinary parses raw OpenType bytes and returns a decoded font.
//
// The input is expected to contain a complete single-font SFNT stream.
// It must not change after parsing for the font to be usable.
func FromBinary(data []byte) (*ot.Font, error) {
	return ot.Parse(data)
}

// FamilyName extracts family and subfamily names from a font's `name` table,
// preferring the Windows records.
//
// Returned values are empty if no matching records exist or if records cannot be
// decoded.
func FamilyName(f *ot.Font) (family, subfamily string) {
	names, err := otname.FromFont(f)
	if err != nil {
		return
	}
	for _, loc := range []otname.Locator{otname.Mac, otname.Windows} {
		if s, err := names.Get(loc.Key(sfnt.NameIDFamily)); err == nil {
			family = s
		}
		if s, err := names.Get(loc.Key(sfnt.NameIDSubfamily)); err == nil {
			subfamily = s
		}
	}
	return
}
