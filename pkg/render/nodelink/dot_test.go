package nodelink

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/spancal/pkg/calibrate"
	"github.com/matzehuels/spancal/pkg/monitor"
)

func tree() ([]monitor.Monitor, []calibrate.Result) {
	ms := []monitor.Monitor{
		{ID: 0, FriendlyName: "Main", Primary: true, ResolutionX: 2560, ResolutionY: 1440, PhysicalWidthMM: 597, PhysicalHeightMM: 336, SizeSource: monitor.SourceEDID},
		{ID: 1, ResolutionX: 1920, ResolutionY: 1080},
		{ID: 2, ResolutionX: 1920, ResolutionY: 1080},
	}
	results := []calibrate.Result{
		{MonitorID: 1, BoundTo: 0, Scale: 1.5, Gap: 4, Orientation: monitor.Horizontal, AlignChild: 270, AlignParent: 360},
	}
	return ms, results
}

func TestToDOT(t *testing.T) {
	ms, results := tree()
	dot := ToDOT(ms, results, Options{})

	for _, want := range []string{
		"digraph G {",
		`"m0" [label="Main\n2560x1440\nscale 1.000", peripheries=2];`,
		`"m1" [label="Display 2\n1920x1080\nscale 1.500"];`,
		`"m2" [label="Display 3\n1920x1080\nscale 1.000", style="rounded,filled,dashed", fillcolor=lightgrey];`,
		`"m1" -> "m0" [label="horizontal, gap 4"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "ppi") {
		t.Error("plain labels should not include details")
	}
}

func TestToDOTDetailed(t *testing.T) {
	ms, results := tree()
	dot := ToDOT(ms, results, Options{Detailed: true})

	for _, want := range []string{`597x336 mm (edid)`, `ppi`, `align 270/360`} {
		if !strings.Contains(dot, want) {
			t.Errorf("detailed DOT missing %q\n%s", want, dot)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	ms, results := tree()
	svg, err := RenderSVG(context.Background(), ToDOT(ms, results, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("Main")) {
		t.Errorf("unexpected SVG output: %.200s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() =\n%s\nwant\n%s", got, want)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); !bytes.Equal(got, plain) {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}
