package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/npillmayer/recmono/config"
	"github.com/npillmayer/recmono/ot"
)

// Instancer pins the axes of a variable font, writing a static font.
type Instancer interface {
	Instantiate(ctx context.Context, src, dst string, loc []config.AxisValue) error
}

// FeatureFreezer permanently applies OpenType features to a font file, in
// place.
type FeatureFreezer interface {
	Freeze(ctx context.Context, path string, features []string) error
}

// LigatureConverter rewrites discretionary ligatures (dlig) as contextual
// alternates (calt), in place.
type LigatureConverter interface {
	Convert(ctx context.Context, path string) error
}

// CollectionBuilder packs font files into a font collection.
type CollectionBuilder interface {
	Build(ctx context.Context, fonts []string, dst string) error
}

// DefaultFeatures are frozen into every code font: rvrn selects the glyph
// alternates of the pinned location, the stylistic sets pick Rec Mono's
// default letterforms.
var DefaultFeatures = []string{"rvrn", "ss03", "ss05", "ss07", "ss09"}

// --- Instancer -------------------------------------------------------------

// FontToolsInstancer runs the fontTools instancer,
// `fonttools varLib.instancer`.
type FontToolsInstancer struct {
	Tool Tool
}

// Instantiate implements Instancer.
func (fi FontToolsInstancer) Instantiate(ctx context.Context, src, dst string, loc []config.AxisValue) error {
	args := []string{"-o", dst, src}
	for _, av := range loc {
		args = append(args, av.Tag+"="+strconv.FormatFloat(av.Value, 'g', -1, 64))
	}
	return fi.Tool.Run(ctx, args...)
}

// --- Feature freezer -------------------------------------------------------

// FeatFreeze runs pyftfeatfreeze from the opentype-feature-freezer package.
type FeatFreeze struct {
	Tool Tool
}

// Freeze implements FeatureFreezer.
func (ff FeatFreeze) Freeze(ctx context.Context, path string, features []string) error {
	if len(features) == 0 {
		return nil
	}
	return ff.Tool.Run(ctx, "--features="+strings.Join(features, ","), path, path)
}

// --- Ligature converter ----------------------------------------------------

// Dlig2Calt runs the dlig2calt converter.
type Dlig2Calt struct {
	Tool Tool
}

// Convert implements LigatureConverter.
func (dc Dlig2Calt) Convert(ctx context.Context, path string) error {
	return dc.Tool.Run(ctx, path)
}

// --- Collection builder ----------------------------------------------------

// OTF2OTC runs otf2otc from the AFDKO.
type OTF2OTC struct {
	Tool Tool
}

// Build implements CollectionBuilder.
func (oc OTF2OTC) Build(ctx context.Context, fonts []string, dst string) error {
	if len(fonts) == 0 {
		return errors.New("font collection: no fonts")
	}
	args := append(append([]string{}, fonts...), "-o", dst)
	return oc.Tool.Run(ctx, args...)
}

// NativeCollectionBuilder writes a font collection without an external
// tool. Tables with identical content are shared between fonts.
type NativeCollectionBuilder struct{}

// Build implements CollectionBuilder.
func (NativeCollectionBuilder) Build(ctx context.Context, fonts []string, dst string) error {
	otfs := make([]*ot.Font, 0, len(fonts))
	for _, path := range fonts {
		if err := ctx.Err(); err != nil {
			return err
		}
		otf, err := ot.Load(path)
		if err != nil {
			return err
		}
		otfs = append(otfs, otf)
	}
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err = ot.WriteCollection(f, otfs); err != nil {
		f.Close()
		return fmt.Errorf("font collection %s: %w", dst, err)
	}
	tracer().Infof("wrote font collection %s with %d fonts", dst, len(otfs))
	return f.Close()
}

// --- Toolchain -------------------------------------------------------------

// Toolchain bundles the collaborators of a code font build.
type Toolchain struct {
	Instancer         Instancer
	FeatureFreezer    FeatureFreezer
	LigatureConverter LigatureConverter
	CollectionBuilder CollectionBuilder
}

// Default returns the command line tools a Rec Mono build uses.
func Default() Toolchain {
	return Toolchain{
		Instancer:         FontToolsInstancer{Tool: Tool{Command: "fonttools", Args: []string{"varLib.instancer", "-q"}}},
		FeatureFreezer:    FeatFreeze{Tool: Tool{Command: "pyftfeatfreeze"}},
		LigatureConverter: Dlig2Calt{Tool: Tool{Command: "dlig2calt", Args: []string{"--inplace"}}},
		CollectionBuilder: OTF2OTC{Tool: Tool{Command: "otf2otc"}},
	}
}

// Check verifies that the external commands of all command based
// collaborators can be found. withCollections tells whether the collection
// builder will be needed.
func (tc Toolchain) Check(withCollections bool) error {
	type commandBased interface{ command() Tool }
	collaborators := []any{tc.Instancer, tc.FeatureFreezer, tc.LigatureConverter}
	if withCollections {
		collaborators = append(collaborators, tc.CollectionBuilder)
	}
	var errs []error
	for _, c := range collaborators {
		if c == nil {
			errs = append(errs, errors.New("toolchain incomplete"))
			continue
		}
		if cb, ok := c.(commandBased); ok {
			if err := cb.command().Available(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (fi FontToolsInstancer) command() Tool { return fi.Tool }
func (ff FeatFreeze) command() Tool { return ff.Tool }
func (dc Dlig2Calt) command() Tool { return dc.Tool }
func (oc OTF2OTC) command() Tool { return oc.Tool }
