package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/spancal/pkg/calibrate"
	"github.com/matzehuels/spancal/pkg/errors"
	"github.com/matzehuels/spancal/pkg/monitor"
)

// Options configures calibration tree rendering.
type Options struct {
	// Detailed adds physical size, pixel density and alignment to labels.
	Detailed bool
}

// ToDOT converts a calibration tree to Graphviz DOT. Each monitor is a node;
// each result is an edge from the child to the monitor it was bound to.
// The primary monitor is drawn with a double outline.
func ToDOT(ms []monitor.Monitor, results []calibrate.Result, opts Options) string {
	byID := make(map[int]calibrate.Result, len(results))
	for _, r := range results {
		byID[r.MonitorID] = r
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=14];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("\n")

	for _, m := range ms {
		r, calibrated := byID[m.ID]
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(m, r, calibrated, opts.Detailed))}
		if m.Primary {
			attrs = append(attrs, "peripheries=2")
		}
		if !calibrated && !m.Primary {
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(m.ID), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, r := range results {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", nodeID(r.MonitorID), nodeID(r.BoundTo), fmtEdge(r))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(id int) string { return "m" + strconv.Itoa(id) }

func fmtLabel(m monitor.Monitor, r calibrate.Result, calibrated, detailed bool) string {
	scale := 1.0
	if calibrated {
		scale = r.Scale
	}
	lines := []string{
		m.DisplayName(),
		fmt.Sprintf("%dx%d", m.ResolutionX, m.ResolutionY),
		fmt.Sprintf("scale %.3f", scale),
	}
	if !detailed {
		return strings.Join(lines, "\n")
	}
	if m.HasPhysicalSize() {
		lines = append(lines, fmt.Sprintf("%dx%d mm (%s)", m.PhysicalWidthMM, m.PhysicalHeightMM, m.SizeSource))
	}
	if ppi, ok := m.KnownPPI(); ok {
		lines = append(lines, fmt.Sprintf("%.1f ppi", ppi))
	}
	if calibrated {
		lines = append(lines, fmt.Sprintf("align %d/%d", r.AlignChild, r.AlignParent))
	}
	return strings.Join(lines, "\n")
}

func fmtEdge(r calibrate.Result) string {
	return fmt.Sprintf("%s, gap %d", r.Orientation, r.Gap)
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
