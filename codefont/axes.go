package codefont

import (
	"errors"
	"fmt"

	"github.com/npillmayer/recmono/config"
	"github.com/npillmayer/recmono/ot"
)

// ErrAxisRange is returned for instance locations outside of the source
// font's design space.
var ErrAxisRange = errors.New("axis value out of range")

// ErrNotVariable is returned if the source font has no fvar table.
var ErrNotVariable = errors.New("not a variable font")

// CheckLocation verifies that every axis value of loc lies within the
// corresponding axis of the source font's design space.
func CheckLocation(src *ot.Font, loc []config.AxisValue) error {
	fvar := src.FVar()
	if fvar == nil || len(fvar.Axes) == 0 {
		return ErrNotVariable
	}
	for _, av := range loc {
		axis, ok := fvar.Axis(ot.T(av.Tag))
		if !ok {
			return fmt.Errorf("%w: font has no axis %s", ErrAxisRange, av.Tag)
		}
		if !axis.Contains(av.Value) {
			return fmt.Errorf("%w: %s not within %s", ErrAxisRange, av, axis)
		}
	}
	return nil
}

// CheckConfig checks the locations of all configured instances against the
// source font.
func CheckConfig(src *ot.Font, conf *config.Config) error {
	for _, pkg := range conf.Packages {
		for _, inst := range pkg.Instances {
			if err := CheckLocation(src, inst.Location()); err != nil {
				return fmt.Errorf("%s/%s: %w", pkg.Name, inst.Name, err)
			}
		}
	}
	return nil
}
