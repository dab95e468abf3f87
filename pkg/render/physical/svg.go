// Package physical draws a reconstructed layout to scale as SVG.
//
// Each monitor is a rectangle at its physical position in inches on the
// 144 x 96 inch export canvas, labelled with its name and diagonal.
package physical

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"

	"github.com/matzehuels/spancal/pkg/layout"
	"github.com/matzehuels/spancal/pkg/monitor"
)

// DefaultPixelsPerInch is the drawing scale used unless [WithScale] is given.
const DefaultPixelsPerInch = 8.0

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	scale  float64
	canvas bool
	fit    bool
}

// WithScale sets the drawing scale in SVG pixels per physical inch.
func WithScale(pxPerInch float64) SVGOption { return func(r *svgRenderer) { r.scale = pxPerInch } }

// WithCanvas outlines the full export canvas behind the monitors.
func WithCanvas() SVGOption { return func(r *svgRenderer) { r.canvas = true } }

// WithFit crops the drawing to the monitors plus a small margin instead of
// the whole canvas.
func WithFit() SVGOption { return func(r *svgRenderer) { r.fit = true } }

// RenderSVG draws placements ps for monitors ms. ps must be in monitor order.
func RenderSVG(ms []monitor.Monitor, ps []layout.Placement, opts ...SVGOption) []byte {
	r := svgRenderer{scale: DefaultPixelsPerInch}
	for _, o := range opts {
		o(&r)
	}
	if !(r.scale > 0) {
		r.scale = DefaultPixelsPerInch
	}

	ox, oy, w, h := 0.0, 0.0, layout.CanvasWidth, layout.CanvasHeight
	if r.fit && len(ps) > 0 {
		const margin = 2.0
		ox, oy, w, h = extent(ps)
		ox, oy, w, h = ox-margin, oy-margin, w+2*margin, h+2*margin
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w*r.scale, h*r.scale, w*r.scale, h*r.scale)
	buf.WriteString(`  <style>.mon { fill: #f4f6fb; stroke: #3b4a6b; stroke-width: 2; } .primary { fill: #dfe8ff; } text { font-family: sans-serif; fill: #1c2333; }</style>` + "\n")

	if r.canvas {
		fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#bbb" stroke-dasharray="6 4"/>`+"\n",
			-ox*r.scale, -oy*r.scale, layout.CanvasWidth*r.scale, layout.CanvasHeight*r.scale)
	}

	for _, p := range ps {
		m := ms[p.Index]
		class := "mon"
		if m.Primary {
			class += " primary"
		}
		x, y := (p.X-ox)*r.scale, (p.Y-oy)*r.scale
		pw, ph := p.Width*r.scale, p.Height*r.scale
		fmt.Fprintf(&buf, `  <rect id="monitor-%d" class="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="3"/>`+"\n",
			m.ID, class, x, y, pw, ph)

		size := math.Max(10, math.Min(pw, ph)/8)
		cx, cy := x+pw/2, y+ph/2
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-size="%.1f" text-anchor="middle">%s</text>`+"\n",
			cx, cy, size, escapeXML(m.DisplayName()))
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-size="%.1f" text-anchor="middle">%.1f&quot; %dx%d</text>`+"\n",
			cx, cy+size*1.3, size*0.8, math.Hypot(p.Width, p.Height), m.ResolutionX, m.ResolutionY)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func extent(ps []layout.Placement) (x, y, w, h float64) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range ps {
		minX, minY = math.Min(minX, p.X), math.Min(minY, p.Y)
		maxX, maxY = math.Max(maxX, p.X+p.Width), math.Max(maxY, p.Y+p.Height)
	}
	return minX, minY, maxX - minX, maxY - minY
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
