/*
Command recmono generates the Rec Mono code fonts.

Usage:

	recmono [--output-directory DIR] [--new-name NAME] [--ttc] …
	recmono inspect <font>

Without a sub-command, recmono reads the instance configuration
(config.yaml), pins one static font per configured instance from the
Recursive variable font, renames and patches it for code editors and runs
the post-processing tools on it. The external tools (fonttools, pyftfeatfreeze,
dlig2calt and, for --ttc, otf2otc) have to be installed.

Sub-command inspect prints the names and fields of a font a code font build
touches.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/npillmayer/recmono"
	"github.com/npillmayer/recmono/codefont"
	"github.com/npillmayer/recmono/naming"
	"github.com/npillmayer/recmono/toolchain"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
)

// traceKeys are the trace keys of all packages of the module.
var traceKeys = []string{"recmono", "recmono.ot", "recmono.config", "recmono.tools"}

// tracer traces with key 'recmono'
func tracer() tracing.Trace {
	return tracing.Select("recmono")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter": "go",
	}
	for _, key := range traceKeys {
		conf["trace."+key] = "Info"
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	commando.
		SetExecutableName("recmono").
		SetVersion("v1.0.0").
		SetDescription("Generate static Rec Mono code fonts from the Recursive variable font.")

	defaults := codefont.DefaultOptions()
	commando.
		Register(nil).
		AddFlag("output-directory,o", "output directory", commando.String, defaults.OutputDir).
		AddFlag("new-name,n", "family name of the generated fonts (collections stay RecMono-<package>.ttc)", commando.String, defaults.Rules.NewFamily).
		AddFlag("ttc", "pack each package into a font collection", commando.Bool, nil).
		AddFlag("zip", "zip output (accepted, no effect)", commando.Bool, nil).
		AddFlag("font,f", "variable source font", commando.String, defaults.Source).
		AddFlag("config,c", "instance configuration", commando.String, "config.yaml").
		AddFlag("native-ttc", "build font collections without otf2otc", commando.Bool, nil).
		AddFlag("features", "features to freeze, comma separated", commando.String, strings.Join(toolchain.DefaultFeatures, ",")).
		AddFlag("trace,t", "trace level [Debug|Info|Error]", commando.String, "Info").
		AddFlag("instancer", "instancer command", commando.String, "fonttools varLib.instancer -q").
		AddFlag("featfreeze", "feature freezer command", commando.String, "pyftfeatfreeze").
		AddFlag("dlig2calt", "dlig to calt converter command", commando.String, "dlig2calt --inplace").
		AddFlag("otf2otc", "font collection builder command", commando.String, "otf2otc").
		SetAction(runGenerate)

	commando.
		Register("inspect").
		SetDescription("Print the names and OpenType fields a code font build touches.").
		SetShortDescription("font diagnostics").
		AddArgument("font", "OpenType font file path", "").
		AddFlag("errors,e", "print parse warnings", commando.Bool, nil).
		AddFlag("trace,t", "trace level [Debug|Info|Error]", commando.String, "Error").
		SetAction(runInspect)

	commando.Parse(nil)
}

func runGenerate(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	setTraceLevel(mustFlagString(flags["trace"], "trace"))
	opts := codefont.DefaultOptions()
	opts.OutputDir = mustFlagString(flags["output-directory"], "output-directory")
	opts.Rules = naming.Default().WithFamily(mustFlagString(flags["new-name"], "new-name"))
	opts.Source = mustFlagString(flags["font"], "font")
	opts.Collections = mustFlagBool(flags["ttc"], "ttc")
	opts.Zip = mustFlagBool(flags["zip"], "zip")
	opts.Features = splitCSVSpace(mustFlagString(flags["features"], "features"))
	opts.Tools = toolchain.Toolchain{
		Instancer:         toolchain.FontToolsInstancer{Tool: mustTool(flags, "instancer")},
		FeatureFreezer:    toolchain.FeatFreeze{Tool: mustTool(flags, "featfreeze")},
		LigatureConverter: toolchain.Dlig2Calt{Tool: mustTool(flags, "dlig2calt")},
		CollectionBuilder: toolchain.OTF2OTC{Tool: mustTool(flags, "otf2otc")},
	}
	if mustFlagBool(flags["native-ttc"], "native-ttc") {
		opts.Tools.CollectionBuilder = toolchain.NativeCollectionBuilder{}
	}
	if err := opts.Tools.Check(opts.Collections); err != nil {
		fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	pterm.Info.Println("Generating " + opts.Rules.NewFamily)
	report, err := recmono.Generate(ctx, mustFlagString(flags["config"], "config"), opts)
	if report != nil {
		for _, r := range report.Fonts {
			if r.Path != "" {
				pterm.Printf("%-12s %-24s %s\n", r.Package, r.Instance, r.Path)
			}
		}
		for _, ttc := range report.Collections {
			pterm.Printf("collection   %s\n", ttc)
		}
	}
	if err != nil {
		stop()
		fatalf("%v", err)
	}
	pterm.Info.Println(fmt.Sprintf("%d fonts done", len(report.Fonts)))
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func setTraceLevel(level string) {
	var l tracing.TraceLevel
	switch level {
	case "Debug":
		l = tracing.LevelDebug
	case "Info":
		l = tracing.LevelInfo
	case "Error":
		l = tracing.LevelError
	default:
		fatalf("invalid trace level: %s", level)
	}
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(l)
	}
	tracer().Debugf("trace level is %s", level)
}

func mustTool(flags map[string]commando.FlagValue, name string) toolchain.Tool {
	tool := toolchain.ParseTool(mustFlagString(flags[name], name))
	if tool.Command == "" {
		fatalf("--%s: no command given", name)
	}
	return tool
}

func mustFlagString(flag commando.FlagValue, name string) string {
	s, err := flag.GetString()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return strings.TrimSpace(s)
}

func mustFlagBool(flag commando.FlagValue, name string) bool {
	b, err := flag.GetBool()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return b
}

func splitCSVSpace(list string) []string {
	return strings.FieldsFunc(list, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

func fatalf(format string, args ...interface{}) {
	pterm.Error.Println(fmt.Sprintf(format, args...))
	os.Exit(1)
}
