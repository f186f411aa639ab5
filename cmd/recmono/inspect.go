package main

import (
	"fmt"
	"strings"

	"github.com/npillmayer/recmono/codefont"
	"github.com/npillmayer/recmono/internal/fontload"
	"github.com/npillmayer/recmono/ot"
	"github.com/npillmayer/recmono/otname"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
)

func runInspect(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	setTraceLevel(mustFlagString(flags["trace"], "trace"))
	fontPath := strings.TrimSpace(args["font"].Value)
	if fontPath == "" {
		fatalf("font path is required")
	}
	fontPath, err := fontload.Locate(fontPath)
	if err != nil {
		fatalf("%v", err)
	}
	f, err := fontload.LoadOpenTypeFont(fontPath)
	if err != nil {
		fatalf("cannot read font %s: %v", fontPath, err)
	}
	fonts, err := ot.ParseCollection(f.Binary)
	if err != nil {
		fatalf("cannot parse font %s: %v", fontPath, err)
	}
	pterm.Printf("Path: %s\n", fontPath)
	for i, otf := range fonts {
		if len(fonts) > 1 {
			pterm.Info.Println(fmt.Sprintf("Font #%d of collection", i))
		}
		printSummary(codefont.Summarize(otf), mustFlagBool(flags["errors"], "errors"))
	}
}

func printSummary(s codefont.Summary, showIssues bool) {
	pterm.Printf("Tables (%d): %s\n", len(s.Tables), strings.Join(s.Tables, " "))
	pterm.Printf("Glyphs: %d, bold: %v, italic: %v\n", s.Glyphs, s.Bold, s.Italic)
	for _, a := range s.Axes {
		pterm.Printf("Axis: %s\n", a)
	}
	data := [][]string{
		{"ID", "Platform", "Value"},
	}
	for _, n := range s.Names {
		loc := otname.Locator{Platform: n.Key.Platform, Encoding: n.Key.Encoding, Language: n.Key.Language}
		data = append(data, []string{fmt.Sprintf("%d", n.Key.Name), loc.Label(), n.Value})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	pterm.Printf("post.isFixedPitch:  %v\n", s.FixedPitch)
	pterm.Printf("PANOSE bFamilyType: %d\n", s.FamilyType)
	pterm.Printf("PANOSE bProportion: %d\n", s.Proportion)
	pterm.Printf("xAvgCharWidth:      %d\n", s.AvgCharWidth)
	pterm.Printf("STAT:               %v\n", s.HasSTAT)
	if s.IsCodeFont() {
		pterm.Info.Println("font is patched for code editors")
	} else {
		pterm.Info.Println("font is not patched for code editors")
	}
	if showIssues {
		for _, w := range s.Warnings {
			pterm.Printf("warning: %s\n", w)
		}
	}
}
