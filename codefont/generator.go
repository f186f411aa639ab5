package codefont

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/npillmayer/recmono/config"
	"github.com/npillmayer/recmono/naming"
	"github.com/npillmayer/recmono/ot"
	"github.com/npillmayer/recmono/toolchain"
)

// Options control a code font build.
type Options struct {
	Source      string       // variable source font
	OutputDir   string       // fonts are written to OutputDir/<package>/
	Rules       naming.Rules // name substitution
	Features    []string     // features to freeze, see toolchain.DefaultFeatures
	Collections bool         // pack every package into a font collection
	Zip         bool         // accepted for compatibility, has no effect
	Tools       toolchain.Toolchain
}

// DefaultOptions returns the options of a standard Rec Mono build.
func DefaultOptions() Options {
	return Options{
		Source:    filepath.Join("font-data", "Recursive_VF_1.054.ttf"),
		OutputDir: filepath.Join("fonts", "rec_mono-for-code"),
		Rules:     naming.Default(),
		Features:  toolchain.DefaultFeatures,
		Tools:     toolchain.Default(),
	}
}

// Result describes one generated font.
type Result struct {
	Package  string
	Instance string
	Path     string // empty once the font went into a collection
}

// Report lists the outcome of a build.
type Report struct {
	Fonts       []Result
	Collections []string
}

// Generator builds the static code fonts of a configuration.
type Generator struct {
	conf *config.Config
	opts Options
}

// NewGenerator creates a generator for the instances of conf.
func NewGenerator(conf *config.Config, opts Options) *Generator {
	return &Generator{conf: conf, opts: opts}
}

// Run builds all configured instances, package by package. The first
// failure ends the run; the report lists what has been completed until
// then.
func (g *Generator) Run(ctx context.Context) (*Report, error) {
	report := &Report{}
	if g.conf == nil || len(g.conf.Packages) == 0 {
		return report, errors.New("no instances configured")
	}
	if g.opts.Tools.Instancer == nil || g.opts.Tools.FeatureFreezer == nil ||
		g.opts.Tools.LigatureConverter == nil ||
		(g.opts.Collections && g.opts.Tools.CollectionBuilder == nil) {
		return report, errors.New("toolchain incomplete")
	}
	src, err := ot.Load(g.opts.Source)
	if err != nil {
		return report, err
	}
	if err := CheckConfig(src, g.conf); err != nil {
		return report, err
	}
	if g.opts.Zip {
		tracer().Infof("zip output requested; nothing to do")
	}
	tmp, err := os.MkdirTemp("", "recmono-")
	if err != nil {
		return report, err
	}
	defer os.RemoveAll(tmp)

	for _, pkg := range g.conf.Packages {
		dir := filepath.Join(g.opts.OutputDir, pkg.Name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return report, err
		}
		first := len(report.Fonts)
		for _, inst := range pkg.Instances {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			tracer().Infof("%s/%s", pkg.Name, inst.Name)
			path, err := g.instance(ctx, inst, dir, tmp)
			if err != nil {
				return report, fmt.Errorf("%s/%s: %w", pkg.Name, inst.Name, err)
			}
			report.Fonts = append(report.Fonts, Result{Package: pkg.Name, Instance: inst.Name, Path: path})
		}
		if !g.opts.Collections {
			continue
		}
		ttc, err := g.pack(ctx, pkg.Name, dir)
		if err != nil {
			return report, fmt.Errorf("%s: %w", pkg.Name, err)
		}
		for i := first; i < len(report.Fonts); i++ {
			report.Fonts[i].Path = ""
		}
		report.Collections = append(report.Collections, ttc)
	}
	return report, nil
}

// instance produces one static font in dir and returns its path.
func (g *Generator) instance(ctx context.Context, inst config.Instance, dir, tmp string) (string, error) {
	rules := g.opts.Rules
	name := rules.FileName(g.opts.Source, inst.Name)
	pinned := filepath.Join(tmp, name)
	if err := g.opts.Tools.Instancer.Instantiate(ctx, g.opts.Source, pinned, inst.Location()); err != nil {
		return "", err
	}
	otf, err := ot.Load(pinned)
	if err != nil {
		return "", err
	}
	if _, err := Rename(otf, rules, inst.Name, inst.Style); err != nil {
		return "", err
	}
	if err := CheckNames(otf); err != nil {
		return "", err
	}
	if err := Patch(otf); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := writeFont(otf, path); err != nil {
		return "", err
	}
	if err := g.opts.Tools.FeatureFreezer.Freeze(ctx, path, g.opts.Features); err != nil {
		return "", err
	}
	if err := g.opts.Tools.LigatureConverter.Convert(ctx, path); err != nil {
		return "", err
	}
	return path, Verify(path)
}

// pack builds the font collection of a package and removes the package
// directory.
func (g *Generator) pack(ctx context.Context, pkg, dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	var fonts []string
	for _, e := range entries { // sorted by file name
		if e.IsDir() {
			continue
		}
		abs, err := filepath.Abs(filepath.Join(dir, e.Name()))
		if err != nil {
			return "", err
		}
		fonts = append(fonts, abs)
	}
	dst := filepath.Join(g.opts.OutputDir, g.opts.Rules.CollectionName(pkg))
	if err := g.opts.Tools.CollectionBuilder.Build(ctx, fonts, dst); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	tracer().Infof("packed %d fonts into %s", len(fonts), dst)
	return dst, os.RemoveAll(abs)
}

func writeFont(otf *ot.Font, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := otf.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
