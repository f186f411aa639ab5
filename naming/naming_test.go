package naming

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"golang.org/x/image/font/sfnt"
)

var recursive = map[sfnt.NameID]string{
	sfnt.NameIDFamily:           "Recursive Sans Linear Light",
	sfnt.NameIDUniqueIdentifier: "1.054;ARRW;Recursive-SansLinearLight",
	sfnt.NameIDFull:             "Recursive Sans Linear Light",
	sfnt.NameIDPostScript:       "Recursive-SansLinearLight",
}

func lookup(id sfnt.NameID) (string, error) {
	if s, ok := recursive[id]; ok {
		return s, nil
	}
	return "", errors.New("no such name")
}

func TestRules(t *testing.T) {
	r := Default()
	tests := []struct {
		instance, style                  string
		family, full, postscript, unique string
	}{
		{"Linear", "Regular",
			"Rec Mono Linear", "Rec Mono Linear", "RecMono-Linear", "1.054;ARRW;RecMono-Linear"},
		{"Linear Bold", "Bold",
			"Rec Mono Linear", "Rec Mono Linear Bold", "RecMono-LinearBold", "1.054;ARRW;RecMono-LinearBold"},
		{"Casual Bold Italic", "Bold Italic",
			"Rec Mono Casual", "Rec Mono Casual Bold Italic", "RecMono-CasualBoldItalic", "1.054;ARRW;RecMono-CasualBoldItalic"},
		{"Duotone Italic", "Italic",
			"Rec Mono Duotone", "Rec Mono Duotone Italic", "RecMono-DuotoneItalic", "1.054;ARRW;RecMono-DuotoneItalic"},
	}
	for _, tt := range tests {
		t.Run(tt.instance, func(t *testing.T) {
			assert.Equal(t, tt.family, r.FamilyName(recursive[sfnt.NameIDFamily], tt.instance, tt.style))
			assert.Equal(t, tt.full, r.FullName(recursive[sfnt.NameIDFull], tt.instance))
			assert.Equal(t, tt.postscript, r.PostScriptName(recursive[sfnt.NameIDPostScript], tt.instance))
			assert.Equal(t, tt.unique, r.UniqueID(recursive[sfnt.NameIDUniqueIdentifier], tt.instance))
		})
	}
}

func TestFamilyDoesNotRepeatStyle(t *testing.T) {
	r := Default()
	fam := r.FamilyName("Recursive Sans Linear Light", "Linear Bold", "Bold")
	assert.NotContains(t, fam, "Bold")
	fam = r.FamilyName("Recursive Sans Linear Light Bold", "Linear Bold", "Bold")
	assert.NotContains(t, fam, "Bold Bold")
}

func TestFileNames(t *testing.T) {
	r := Default()
	assert.Equal(t, "RecMono-LinearBold-1.054.ttf", r.FileName("./font-data/Recursive_VF_1.054.ttf", "Linear Bold"))
	assert.Equal(t, "RecMono-Code.ttc", r.CollectionName("Code"))
	r = r.WithFamily("Rec Code")
	assert.Equal(t, "RecCode-Linear-1.054.ttf", r.FileName("Recursive_VF_1.054.ttf", "Linear"))
	assert.Equal(t, "RecMono-Code.ttc", r.CollectionName("Code"))
}

func TestRewrites(t *testing.T) {
	rw, err := Default().Rewrites(lookup, "Linear Bold", "Bold")
	if err != nil {
		t.Fatal(err)
	}
	want := []Rewrite{
		{sfnt.NameIDPostScript, "RecMono-LinearBold"},
		{sfnt.NameIDFull, "Rec Mono Linear Bold"},
		{sfnt.NameIDUniqueIdentifier, "1.054;ARRW;RecMono-LinearBold"},
		{sfnt.NameIDSubfamily, "Bold"},
		{sfnt.NameIDTypographicSubfamily, "Bold"},
		{sfnt.NameIDFamily, "Rec Mono Linear"},
		{sfnt.NameIDTypographicFamily, "Rec Mono Linear"},
	}
	if diff := cmp.Diff(want, rw); diff != "" {
		t.Errorf("rewrites mismatch (-want +got):\n%s", diff)
	}
}

func TestRewritesNeedsNames(t *testing.T) {
	_, err := Default().Rewrites(func(sfnt.NameID) (string, error) {
		return "", errors.New("no name table")
	}, "Linear", "Regular")
	assert.Error(t, err)
}
