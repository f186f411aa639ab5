package codefont

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/recmono/config"
	"github.com/npillmayer/recmono/internal/testfont"
	"github.com/npillmayer/recmono/naming"
	"github.com/npillmayer/recmono/ot"
	"github.com/npillmayer/recmono/otname"
	"github.com/npillmayer/recmono/toolchain"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
	"golang.org/x/image/font/sfnt"
	"seehuhn.de/go/postscript/funit"
)

const codeConfig = `
Code:
  Linear:
    wght: 400
    CASL: 0
    MONO: 1
    slnt: 0
    CRSV: 0
    style: Regular
  Linear Bold:
    wght: 700
    CASL: 0
    MONO: 1
    slnt: 0
    CRSV: 0
    style: Bold
Casual:
  Casual Bold Italic:
    wght: 700
    CASL: 1
    MONO: 1
    slnt: -10
    CRSV: 1
    style: Bold Italic
`

// --- Test Suite Preparation ------------------------------------------------

type GeneratorTestEnviron struct {
	suite.Suite
	dir   string
	conf  *config.Config
	tools *fakeTools
	opts  Options
}

func TestGenerator(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "recmono")
	defer teardown()
	suite.Run(t, new(GeneratorTestEnviron))
}

func (env *GeneratorTestEnviron) SetupSuite() {
	tracing.Select("recmono.ot").SetTraceLevel(tracing.LevelError)
}

func (env *GeneratorTestEnviron) SetupTest() {
	env.dir = env.T().TempDir()
	var err error
	env.conf, err = config.Parse(strings.NewReader(codeConfig))
	env.Require().NoError(err)
	src := filepath.Join(env.dir, "Recursive_VF_1.054.ttf")
	env.Require().NoError(testfont.WriteFile(src, testfont.Recursive()))
	env.tools = &fakeTools{}
	env.opts = Options{
		Source:    src,
		OutputDir: filepath.Join(env.dir, "out"),
		Rules:     naming.Default(),
		Features:  toolchain.DefaultFeatures,
		Tools:     env.tools.toolchain(),
	}
}

func (env *GeneratorTestEnviron) output(pkg, file string) string {
	return filepath.Join(env.opts.OutputDir, pkg, file)
}

func (env *GeneratorTestEnviron) load(path string) *ot.Font {
	otf, err := ot.Load(path)
	env.Require().NoError(err)
	return otf
}

func (env *GeneratorTestEnviron) name(otf *ot.Font, id sfnt.NameID) string {
	names, err := otname.FromFont(otf)
	env.Require().NoError(err)
	win, err := names.Get(otname.Windows.Key(id))
	env.Require().NoError(err)
	mac, err := names.Get(otname.Mac.Key(id))
	env.Require().NoError(err)
	env.Equal(win, mac, "Windows and Mac name %d differ", id)
	return win
}

// --- Tests -----------------------------------------------------------------

func (env *GeneratorTestEnviron) TestOneFontPerInstance() {
	report, err := NewGenerator(env.conf, env.opts).Run(context.Background())
	env.Require().NoError(err)
	env.Require().Len(report.Fonts, 3)
	env.Empty(report.Collections)
	for _, want := range []struct{ pkg, file string }{
		{"Code", "RecMono-Linear-1.054.ttf"},
		{"Code", "RecMono-LinearBold-1.054.ttf"},
		{"Casual", "RecMono-CasualBoldItalic-1.054.ttf"},
	} {
		env.FileExists(env.output(want.pkg, want.file))
	}
	env.Equal(env.output("Code", "RecMono-Linear-1.054.ttf"), report.Fonts[0].Path)
	env.Len(env.tools.frozen, 3)
	env.Len(env.tools.converted, 3)
	env.Equal(toolchain.DefaultFeatures, env.tools.features)
	env.Equal([]config.AxisValue{{Tag: "wght", Value: 700}, {Tag: "CASL", Value: 1}, {Tag: "MONO", Value: 1}, {Tag: "slnt", Value: -10}, {Tag: "CRSV", Value: 1}},
		env.tools.locations[2])
}

func (env *GeneratorTestEnviron) TestPatchedFields() {
	_, err := NewGenerator(env.conf, env.opts).Run(context.Background())
	env.Require().NoError(err)
	otf := env.load(env.output("Code", "RecMono-LinearBold-1.054.ttf"))
	env.True(otf.Post().IsFixedPitch)
	env.Equal(ot.PanoseProportionMonospaced, otf.OS2().Panose.Proportion())
	env.Equal(funit.Int16(600), otf.OS2().XAvgCharWidth)
	env.False(otf.HasTable(ot.T("STAT")))
	env.True(Summarize(otf).IsCodeFont())
	env.Empty(otf.Warnings())
}

func (env *GeneratorTestEnviron) TestNames() {
	_, err := NewGenerator(env.conf, env.opts).Run(context.Background())
	env.Require().NoError(err)

	linear := env.load(env.output("Code", "RecMono-Linear-1.054.ttf"))
	env.Equal("Rec Mono Linear", env.name(linear, sfnt.NameIDFamily))
	env.Equal("Rec Mono Linear", env.name(linear, sfnt.NameIDTypographicFamily))
	env.Equal("Rec Mono Linear", env.name(linear, sfnt.NameIDFull))
	env.Equal("Regular", env.name(linear, sfnt.NameIDSubfamily))
	env.Equal("RecMono-Linear", env.name(linear, sfnt.NameIDPostScript))

	bold := env.load(env.output("Code", "RecMono-LinearBold-1.054.ttf"))
	env.Equal("Rec Mono Linear", env.name(bold, sfnt.NameIDFamily))
	env.Equal("Rec Mono Linear Bold", env.name(bold, sfnt.NameIDFull))
	env.Equal("Bold", env.name(bold, sfnt.NameIDTypographicSubfamily))
	env.Equal("1.054;ARRW;RecMono-LinearBold", env.name(bold, sfnt.NameIDUniqueIdentifier))

	casual := env.load(env.output("Casual", "RecMono-CasualBoldItalic-1.054.ttf"))
	env.Equal("Rec Mono Casual", env.name(casual, sfnt.NameIDFamily))
	env.Equal("Bold Italic", env.name(casual, sfnt.NameIDSubfamily))
	env.NoError(CheckNames(casual))
}

func (env *GeneratorTestEnviron) TestIdempotent() {
	_, err := NewGenerator(env.conf, env.opts).Run(context.Background())
	env.Require().NoError(err)
	first, err := os.ReadFile(env.output("Code", "RecMono-Linear-1.054.ttf"))
	env.Require().NoError(err)

	_, err = NewGenerator(env.conf, env.opts).Run(context.Background())
	env.Require().NoError(err)
	second, err := os.ReadFile(env.output("Code", "RecMono-Linear-1.054.ttf"))
	env.Require().NoError(err)
	env.True(bytes.Equal(first, second), "second run produced different bytes")
}

func (env *GeneratorTestEnviron) TestCollections() {
	env.opts.Collections = true
	report, err := NewGenerator(env.conf, env.opts).Run(context.Background())
	env.Require().NoError(err)
	env.Equal([]string{
		filepath.Join(env.opts.OutputDir, "RecMono-Code.ttc"),
		filepath.Join(env.opts.OutputDir, "RecMono-Casual.ttc"),
	}, report.Collections)
	env.NoDirExists(filepath.Join(env.opts.OutputDir, "Code"))
	env.NoDirExists(filepath.Join(env.opts.OutputDir, "Casual"))
	for _, r := range report.Fonts {
		env.Empty(r.Path)
	}

	b, err := os.ReadFile(report.Collections[0])
	env.Require().NoError(err)
	fonts, err := ot.ParseCollection(b)
	env.Require().NoError(err)
	env.Require().Len(fonts, 2)
	// otf2otc gets the files in directory order, so does the native builder
	env.Equal("Rec Mono Linear", env.name(fonts[0], sfnt.NameIDFull))
	env.Equal("Rec Mono Linear Bold", env.name(fonts[1], sfnt.NameIDFull))
}

func (env *GeneratorTestEnviron) TestCollectionNameIgnoresFamily() {
	env.opts.Collections = true
	env.opts.Rules = env.opts.Rules.WithFamily("Rec Code")
	report, err := NewGenerator(env.conf, env.opts).Run(context.Background())
	env.Require().NoError(err)
	env.Equal(filepath.Join(env.opts.OutputDir, "RecMono-Code.ttc"), report.Collections[0])
	env.Equal(filepath.Join(env.opts.OutputDir, "RecMono-Casual.ttc"), report.Collections[1])
}

func (env *GeneratorTestEnviron) TestCollectionFailureKeepsPackage() {
	env.opts.Collections = true
	env.opts.Tools.CollectionBuilder = failingBuilder{}
	report, err := NewGenerator(env.conf, env.opts).Run(context.Background())
	env.ErrorIs(err, toolchain.ErrToolFailed)
	env.Empty(report.Collections)
	env.DirExists(filepath.Join(env.opts.OutputDir, "Code"))
	env.FileExists(env.output("Code", "RecMono-Linear-1.054.ttf"))
	env.NoDirExists(filepath.Join(env.opts.OutputDir, "Casual"), "no further package after a failure")
	env.NoFileExists(filepath.Join(env.opts.OutputDir, "RecMono-Code.ttc"))
}

func (env *GeneratorTestEnviron) TestAxisOutOfRange() {
	env.conf.Packages[0].Instances[1].Wght = 1200
	_, err := NewGenerator(env.conf, env.opts).Run(context.Background())
	env.ErrorIs(err, ErrAxisRange)
	env.Empty(env.tools.locations, "instancer must not run for an invalid configuration")
}

func (env *GeneratorTestEnviron) TestToolFailureEndsRun() {
	env.tools.failOn = "convert"
	report, err := NewGenerator(env.conf, env.opts).Run(context.Background())
	env.ErrorIs(err, toolchain.ErrToolFailed)
	env.Empty(report.Fonts)
	env.Len(env.tools.locations, 1, "no further instance after a failure")
}

func (env *GeneratorTestEnviron) TestCancelled() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewGenerator(env.conf, env.opts).Run(ctx)
	env.ErrorIs(err, context.Canceled)
}

func (env *GeneratorTestEnviron) TestMissingSource() {
	env.opts.Source = filepath.Join(env.dir, "missing.ttf")
	_, err := NewGenerator(env.conf, env.opts).Run(context.Background())
	env.ErrorIs(err, os.ErrNotExist)
}

func (env *GeneratorTestEnviron) TestStaticSourceRejected() {
	env.Require().NoError(testfont.WriteFile(env.opts.Source, testfont.Static()))
	_, err := NewGenerator(env.conf, env.opts).Run(context.Background())
	env.ErrorIs(err, ErrNotVariable)
}
