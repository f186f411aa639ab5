package codefont

import (
	"errors"
	"fmt"

	"github.com/npillmayer/recmono/naming"
	"github.com/npillmayer/recmono/ot"
	"github.com/npillmayer/recmono/otname"
	"golang.org/x/image/font/sfnt"
)

// Rename rewrites the names of an instance font according to rules.
// Current names are read from the Windows records; every new name is
// written to the Windows and the Mac records. Records already holding the
// new value are left untouched. All changes are traced and returned.
func Rename(otf *ot.Font, rules naming.Rules, instance, style string) ([]otname.Change, error) {
	names, err := otname.FromFont(otf)
	if err != nil {
		return nil, err
	}
	lookup := func(id sfnt.NameID) (string, error) {
		return names.Get(otname.Windows.Key(id))
	}
	rewrites, err := rules.Rewrites(lookup, instance, style)
	if err != nil {
		return nil, err
	}
	var changes []otname.Change
	for _, rw := range rewrites {
		ch, err := names.Update(rw.ID, rw.Value, otname.Windows, otname.Mac)
		changes = append(changes, ch...)
		if err != nil {
			return changes, err
		}
		for _, c := range ch {
			if c.Old == "" {
				tracer().Infof("• name %d: %s name now '%s'", rw.ID, label(c.Key), c.New)
				continue
			}
			tracer().Infof("• name %d: %s name was '%s', now '%s'", rw.ID, label(c.Key), c.Old, c.New)
		}
	}
	if len(changes) == 0 {
		return nil, nil
	}
	return changes, names.Store(otf)
}

func label(k otname.Key) string {
	return otname.Locator{Platform: k.Platform, Encoding: k.Encoding, Language: k.Language}.Label()
}

// ErrNameMismatch is reported by CheckNames.
var ErrNameMismatch = errors.New("Windows and Mac names differ")

// CheckNames verifies that the Windows and the Mac record of every name the
// renaming touches carry the same string.
func CheckNames(otf *ot.Font) error {
	names, err := otname.FromFont(otf)
	if err != nil {
		return err
	}
	for _, id := range renamed {
		win, err1 := names.Get(otname.Windows.Key(id))
		mac, err2 := names.Get(otname.Mac.Key(id))
		if errors.Is(err1, otname.ErrNotFound) && errors.Is(err2, otname.ErrNotFound) {
			continue
		}
		if err1 != nil || err2 != nil || win != mac {
			return fmt.Errorf("%w: name %d: '%s' vs. '%s'", ErrNameMismatch, id, win, mac)
		}
	}
	return nil
}

var renamed = []sfnt.NameID{
	sfnt.NameIDFamily,
	sfnt.NameIDSubfamily,
	sfnt.NameIDUniqueIdentifier,
	sfnt.NameIDFull,
	sfnt.NameIDPostScript,
	sfnt.NameIDTypographicFamily,
	sfnt.NameIDTypographicSubfamily,
}
