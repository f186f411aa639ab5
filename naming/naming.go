/*
Package naming derives the names of code font instances from the names of
the variable source font.

The source font's default instance carries names like "Recursive Sans Linear
Light". Rules rewrite them by plain substring substitution: the marketing
suffix ("Sans") is dropped, the family is renamed and the placeholder of the
default instance ("Linear Light") is replaced by the instance's display name.
*/
package naming

import (
	"path/filepath"
	"strings"

	"golang.org/x/image/font/sfnt"
)

// Rules hold the substitution parameters.
type Rules struct {
	OldFamily   string // family name of the source font, e.g. "Recursive"
	NewFamily   string // family name of the generated fonts, e.g. "Rec Mono"
	Marketing   string // suffix dropped from the family, e.g. "Sans"
	Placeholder string // name of the source's default instance, e.g. "Linear Light"
}

// Default returns the rules for Rec Mono.
func Default() Rules {
	return Rules{
		OldFamily:   "Recursive",
		NewFamily:   "Rec Mono",
		Marketing:   "Sans",
		Placeholder: "Linear Light",
	}
}

// WithFamily returns a copy of r with a different new family name.
func (r Rules) WithFamily(family string) Rules {
	r.NewFamily = family
	return r
}

func squash(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

// PostScriptName rewrites name ID 6.
func (r Rules) PostScriptName(current, instance string) string {
	s := strings.ReplaceAll(current, r.Marketing, "")
	s = strings.ReplaceAll(s, r.OldFamily, squash(r.NewFamily))
	return strings.ReplaceAll(s, squash(r.Placeholder), squash(instance))
}

// UniqueID rewrites name ID 3. The unique ID embeds the PostScript name and
// follows the same rule.
func (r Rules) UniqueID(current, instance string) string {
	return r.PostScriptName(current, instance)
}

// FullName rewrites name ID 4. The space before the placeholder is consumed
// together with it, which also swallows the space left behind by the
// removed marketing suffix.
func (r Rules) FullName(current, instance string) string {
	s := strings.ReplaceAll(current, r.Marketing, "")
	s = strings.ReplaceAll(s, r.OldFamily, r.NewFamily)
	return strings.ReplaceAll(s, " "+r.Placeholder, instance)
}

// FamilyName rewrites name IDs 1 and 16. The instance name is stripped of
// its own style suffix, so that "Linear Bold" with style "Bold" yields the
// family "Rec Mono Linear" and the style appears only once in the full
// name.
func (r Rules) FamilyName(current, instance, style string) string {
	s := strings.ReplaceAll(current, " "+r.Marketing, "")
	s = strings.ReplaceAll(s, r.OldFamily, r.NewFamily)
	if style != "" {
		instance = strings.ReplaceAll(instance, " "+style, "")
	}
	return strings.ReplaceAll(s, r.Placeholder, instance)
}

// FileName derives the output file name from the source file name, e.g.
// "Recursive_VF_1.054.ttf" → "RecMono-LinearBold-1.054.ttf".
func (r Rules) FileName(source, instance string) string {
	base := filepath.Base(source)
	base = strings.ReplaceAll(base, r.OldFamily, squash(r.NewFamily))
	return strings.ReplaceAll(base, "_VF_", "-"+squash(instance)+"-")
}

// CollectionPrefix starts the file name of every font collection.
const CollectionPrefix = "RecMono"

// CollectionName is the file name of a package's font collection, e.g.
// "RecMono-Code.ttc". It does not depend on the new family name.
func (r Rules) CollectionName(pkg string) string {
	return CollectionPrefix + "-" + pkg + ".ttc"
}

// Rewrite is a name ID together with its new value.
type Rewrite struct {
	ID    sfnt.NameID
	Value string
}

// Rewrites computes all name rewrites of an instance, in the order they are
// to be applied. lookup returns the current value of a name ID.
func (r Rules) Rewrites(lookup func(sfnt.NameID) (string, error), instance, style string) ([]Rewrite, error) {
	var current = make(map[sfnt.NameID]string, 4)
	for _, id := range []sfnt.NameID{
		sfnt.NameIDPostScript,
		sfnt.NameIDFull,
		sfnt.NameIDUniqueIdentifier,
		sfnt.NameIDFamily,
	} {
		s, err := lookup(id)
		if err != nil {
			return nil, err
		}
		current[id] = s
	}
	family := r.FamilyName(current[sfnt.NameIDFamily], instance, style)
	return []Rewrite{
		{sfnt.NameIDPostScript, r.PostScriptName(current[sfnt.NameIDPostScript], instance)},
		{sfnt.NameIDFull, r.FullName(current[sfnt.NameIDFull], instance)},
		{sfnt.NameIDUniqueIdentifier, r.UniqueID(current[sfnt.NameIDUniqueIdentifier], instance)},
		{sfnt.NameIDSubfamily, style},
		{sfnt.NameIDTypographicSubfamily, style},
		{sfnt.NameIDFamily, family},
		{sfnt.NameIDTypographicFamily, family},
	}, nil
}
