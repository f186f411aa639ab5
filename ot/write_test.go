package ot_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/go-text/typesetting/font/opentype"
	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/recmono/internal/testfont"
	"github.com/npillmayer/recmono/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/sfnt/header"
)

// --- Test Suite Preparation ------------------------------------------------

type WriteTestEnviron struct {
	suite.Suite
	font []byte
}

func TestWrite(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "recmono.ot")
	defer teardown()
	suite.Run(t, new(WriteTestEnviron))
}

func (env *WriteTestEnviron) SetupTest() {
	var err error
	env.font, err = testfont.Bytes(testfont.Recursive())
	env.Require().NoError(err)
}

// --- Tests -----------------------------------------------------------------

func (env *WriteTestEnviron) TestParseSynthesizedFont() {
	otf, err := ot.Parse(env.font)
	env.Require().NoError(err)
	env.Empty(otf.Warnings(), "freshly written font should parse without warnings")
	env.True(otf.IsVariable())
	env.True(otf.HasTable(ot.T("STAT")))
	env.Equal(uint16(1000), otf.Head().UnitsPerEm)
	env.Equal(funit.Int16(612), otf.OS2().XAvgCharWidth)
	env.Equal(byte(3), otf.OS2().Panose.Proportion())
	env.False(otf.Post().IsFixedPitch)
	wght, ok := otf.FVar().Axis(ot.T("wght"))
	env.Require().True(ok)
	env.Equal(300.0, wght.Min)
	env.Equal(1000.0, wght.Max)
	slnt, ok := otf.FVar().Axis(ot.T("slnt"))
	env.Require().True(ok)
	env.Equal(-15.0, slnt.Min)
}

func (env *WriteTestEnviron) TestRoundTripIsIdentical() {
	otf, err := ot.Parse(env.font)
	env.Require().NoError(err)
	b, err := otf.Bytes()
	env.Require().NoError(err)
	env.True(bytes.Equal(env.font, b), "re-writing an unmodified font changed its bytes")
}

func (env *WriteTestEnviron) TestChecksumAdjustment() {
	otf, err := ot.Parse(env.font)
	env.Require().NoError(err)
	otf.OS2().SetXAvgCharWidth(600)
	b, err := otf.Bytes()
	env.Require().NoError(err)
	var sum uint32
	for i := 0; i < len(b); i += 4 {
		sum += binary.BigEndian.Uint32(b[i:])
	}
	env.Equal(uint32(0xB1B0AFBA), sum, "whole-font checksum must equal the magic constant")
	env.Zero(len(b)%4, "font length must be a multiple of 4")
}

func (env *WriteTestEnviron) TestTableDirectoryReadsBack() {
	otf, err := ot.Parse(env.font)
	env.Require().NoError(err)
	otf.Post().SetFixedPitch(true)
	b, err := otf.Bytes()
	env.Require().NoError(err)

	r := bytes.NewReader(b)
	info, err := header.Read(r)
	env.Require().NoError(err)
	env.Equal(uint32(ot.FontTypeTrueType), uint32(info.ScalerType))
	env.Len(info.Toc, len(otf.TableTags()))
	for _, tag := range otf.TableTags() {
		data, err := info.ReadTableBytes(r, tag.String())
		env.Require().NoError(err)
		if tag == ot.T("head") {
			continue // checkSumAdjustment differs
		}
		env.Equal(otf.Table(tag).Binary(), data, "table %s", tag)
	}
}

func (env *WriteTestEnviron) TestSettersPersist() {
	otf, err := ot.Parse(env.font)
	env.Require().NoError(err)
	otf.OS2().SetXAvgCharWidth(600)
	otf.OS2().SetPanoseProportion(ot.PanoseProportionMonospaced)
	otf.Post().SetFixedPitch(true)
	env.True(otf.RemoveTable(ot.T("STAT")))
	env.False(otf.RemoveTable(ot.T("STAT")))

	b, err := otf.Bytes()
	env.Require().NoError(err)
	again, err := ot.Parse(b)
	env.Require().NoError(err)
	env.Equal(funit.Int16(600), again.OS2().XAvgCharWidth)
	env.Equal(ot.PanoseProportionMonospaced, again.OS2().Panose.Proportion())
	env.True(again.Post().IsFixedPitch)
	env.False(again.HasTable(ot.T("STAT")))
	if diff := cmp.Diff(otf.Table(ot.T("name")).Binary(), again.Table(ot.T("name")).Binary()); diff != "" {
		env.Failf("name table changed", "(-before +after):\n%s", diff)
	}
}

func (env *WriteTestEnviron) TestIndependentLoaderAgrees() {
	ld, err := opentype.NewLoader(bytes.NewReader(env.font))
	env.Require().NoError(err)
	otf, err := ot.Parse(env.font)
	env.Require().NoError(err)
	var tags []string
	for _, tag := range otf.TableTags() {
		tags = append(tags, tag.String())
	}
	var theirs []string
	for _, tag := range ld.Tables() {
		theirs = append(theirs, tag.String())
	}
	env.Equal(tags, theirs)
	os2, err := ld.RawTable(opentype.MustNewTag("OS/2"))
	env.Require().NoError(err)
	env.Equal(otf.Table(ot.T("OS/2")).Binary(), os2)
}

func (env *WriteTestEnviron) TestCollection() {
	regular, err := ot.Parse(env.font)
	env.Require().NoError(err)
	bold, err := testfont.Build(testfont.Recursive())
	env.Require().NoError(err)
	bold.OS2().SetXAvgCharWidth(640)

	var buf bytes.Buffer
	n, err := ot.WriteCollection(&buf, []*ot.Font{regular, bold})
	env.Require().NoError(err)
	env.Equal(int64(buf.Len()), n)
	env.Less(buf.Len(), len(env.font)*2, "identical tables should be shared")

	fonts, err := ot.ParseCollection(buf.Bytes())
	env.Require().NoError(err)
	env.Require().Len(fonts, 2)
	env.Equal(funit.Int16(612), fonts[0].OS2().XAvgCharWidth)
	env.Equal(funit.Int16(640), fonts[1].OS2().XAvgCharWidth)
	env.Empty(fonts[0].Warnings())
	env.Empty(fonts[1].Warnings())

	loaders, err := opentype.NewLoaders(bytes.NewReader(buf.Bytes()))
	env.Require().NoError(err)
	env.Len(loaders, 2)
}

func (env *WriteTestEnviron) TestParseCollectionOfSingleFont() {
	fonts, err := ot.ParseCollection(env.font)
	env.Require().NoError(err)
	env.Len(fonts, 1)
}

func TestParseRejectsGarbage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "recmono.ot")
	defer teardown()
	for _, b := range [][]byte{
		nil,
		[]byte("wOFF"),
		{0, 1, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0}, // one table, no record
	} {
		if _, err := ot.Parse(b); err == nil {
			t.Errorf("expected error for %v", b)
		}
	}
}

func TestWriteNeedsTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "recmono.ot")
	defer teardown()
	_, err := ot.NewFont(ot.FontTypeTrueType).Bytes()
	if !errors.Is(err, ot.ErrMissingTable) {
		t.Errorf("expected ErrMissingTable for a font without tables, got %v", err)
	}
}

func TestSetTableRejectsShortTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "recmono.ot")
	defer teardown()
	otf := ot.NewFont(ot.FontTypeTrueType)
	if err := otf.SetTable(ot.T("OS/2"), make([]byte, 20)); err == nil {
		t.Error("expected OS/2 table of 20 bytes to be rejected")
	}
	if err := otf.SetTable(ot.T("zzzz"), []byte{1, 2, 3}); err != nil {
		t.Errorf("generic table rejected: %v", err)
	}
	if got := otf.TableTags(); len(got) != 1 || got[0] != ot.T("zzzz") {
		t.Errorf("unexpected tables %v", got)
	}
}

func TestTagString(t *testing.T) {
	if s := ot.T("OS/2").String(); s != "OS/2" {
		t.Errorf("expected OS/2, got %q", s)
	}
	if tag := ot.MakeTag([]byte("fvar")); tag != ot.T("fvar") {
		t.Errorf("MakeTag and T disagree for fvar")
	}
}
