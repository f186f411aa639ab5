/*
Package toolchain wraps the external programs a code font build delegates
to: the variable font instancer, the OpenType feature freezer, the dlig→calt
converter and the font collection builder.

Every collaborator sits behind a narrow interface, so tests and alternative
implementations can replace it. The default implementations run a command
line tool with os/exec. A failing tool is reported as ErrToolFailed,
carrying the tool's standard error output.

A font collection may alternatively be built in-process, see
NativeCollectionBuilder.
*/
package toolchain

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'recmono.tools'
func tracer() tracing.Trace {
	return tracing.Select("recmono.tools")
}
