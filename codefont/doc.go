/*
Package codefont turns a variable font into static fonts for code editors.

A Generator walks the instance configuration package by package. For every
instance it

  - has the instancer pin the source font's axes,
  - rewrites the instance's names (see package naming),
  - patches the OpenType fields code editors look at (see Patch),
  - writes the font to <output>/<package>/,
  - freezes stylistic sets and converts dlig to calt in place, and
  - re-reads the result with an independent parser.

With collections enabled, each package directory is finally packed into one
font collection file and removed.

Instances are processed one after the other; the first failure ends the
run.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package codefont

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'recmono'
func tracer() tracing.Trace {
	return tracing.Select("recmono")
}
