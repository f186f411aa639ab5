// Package fontload reads font files into memory and finds fonts installed
// on the system.
package fontload

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'recmono.ot'
func tracer() tracing.Trace {
	return tracing.Select("recmono.ot")
}

// ErrNotSFNT is returned for data which does not start with a known sfnt
// version tag.
var ErrNotSFNT = errors.New("not an sfnt font")

// sfnt version tags we accept at offset 0.
const (
	TagTrueType   uint32 = 0x00010000
	TagCFF        uint32 = 0x4F54544F // 'OTTO'
	TagApple      uint32 = 0x74727565 // 'true'
	TagCollection uint32 = 0x74746366 // 'ttcf'
)

// ScalableFont holds the raw bytes of a font file together with its origin.
type ScalableFont struct {
	Fontname string
	Filepath string
	Binary   []byte
}

// LoadOpenTypeFont loads an OpenType font (TTF, OTF or TTC) from a file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fontfile, err)
	}
	f.Filepath = fontfile
	base := filepath.Base(fontfile)
	f.Fontname = strings.TrimSuffix(base, filepath.Ext(base))
	return f, nil
}

// ParseOpenTypeFont wraps font data held in memory. Only the version tag is
// checked; table parsing is left to package ot.
func ParseOpenTypeFont(fbytes []byte) (*ScalableFont, error) {
	if len(fbytes) < 12 {
		return nil, ErrNotSFNT
	}
	switch binary.BigEndian.Uint32(fbytes) {
	case TagTrueType, TagCFF, TagApple, TagCollection:
	default:
		return nil, ErrNotSFNT
	}
	return &ScalableFont{Binary: fbytes}, nil
}

// IsCollection reports whether the font data is a font collection.
func (f *ScalableFont) IsCollection() bool {
	return len(f.Binary) >= 4 && binary.BigEndian.Uint32(f.Binary) == TagCollection
}

// Locate returns the path of a font file. If fontfile does not exist, its
// base name is searched for among the fonts installed on the system. Only an
// installed font with exactly that file name (ignoring case) is accepted.
func Locate(fontfile string) (string, error) {
	if _, err := os.Stat(fontfile); err == nil {
		return fontfile, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	base := filepath.Base(fontfile)
	fpath, err := findfont.Find(base) // try to find as system font
	if err != nil {
		return "", fmt.Errorf("font %s: %w", fontfile, os.ErrNotExist)
	}
	// findfont settles for partial matches, which would be a different font
	if !strings.EqualFold(filepath.Base(fpath), base) {
		tracer().Debugf("font %s: ignoring system font %s", base, fpath)
		return "", fmt.Errorf("font %s: %w", fontfile, os.ErrNotExist)
	}
	return fpath, nil
}
