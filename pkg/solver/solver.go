// Package solver turns the raw output of an adjustment pass into a scale
// ratio, an alignment offset and a relative position.
//
// All positions are virtual-desktop pixels in a shared frame. Offsets along
// the calibration axis are measured from each monitor's own origin: y for
// side-by-side pairs, x for stacked ones.
package solver

import (
	"math"

	"github.com/matzehuels/spancal/pkg/monitor"
)

// MinSpan is the smallest parent-side line separation, in pixels, that is
// trusted as a denominator. Below it the parent scale is kept unchanged.
const MinSpan = 1

// Fit is the outcome of the Scale pass for one pair.
type Fit struct {
	// Scale is the child's scale relative to the primary monitor.
	Scale float64
	// Offset places the child's origin in the parent's frame along the
	// cross axis: AlignParent - AlignChild*Scale.
	Offset float64
	// AlignChild and AlignParent are the near-line offsets from each
	// monitor's own origin, in that monitor's pixels. They describe the same
	// physical height on both monitors.
	AlignChild  int
	AlignParent int
	// SpanChild and SpanParent are the near-to-far line separations.
	SpanChild  int
	SpanParent int
}

// SolveScale derives the child's chained scale and alignment from the four
// Scale pass lines [nearChild, nearParent, farChild, farParent].
func SolveScale(lines [4]int, o monitor.Orientation, child, parent monitor.Rect, parentScale float64) Fit {
	var co, po int
	if o == monitor.Vertical {
		co, po = child.X, parent.X
	} else {
		co, po = child.Y, parent.Y
	}
	nearC, nearP := lines[0]-co, lines[1]-po
	farC, farP := lines[2]-co, lines[3]-po

	f := Fit{
		AlignChild:  nearC,
		AlignParent: nearP,
		SpanChild:   abs(farC - nearC),
		SpanParent:  abs(farP - nearP),
		Scale:       parentScale,
	}
	if f.SpanParent > MinSpan {
		f.Scale = parentScale * float64(f.SpanChild) / float64(f.SpanParent)
	}
	f.Offset = float64(nearP) - float64(nearC)*f.Scale
	return f
}

// Relative converts a confirmed gap into the child's position relative to
// its parent. The calibration-axis coordinate depends on which monitor
// comes first on the virtual desktop; the cross-axis coordinate is offset.
//
// The Gap pass draws its seam as a half gap pulled back from each edge, so
// the coordinate delta is twice the confirmed value.
func Relative(gap int, o monitor.Orientation, child, parent monitor.Monitor, scale, parentScale, offset float64) (x, y float64) {
	g := 2 * float64(gap)
	if o == monitor.Vertical {
		var ry float64
		if child.PositionY < parent.PositionY {
			ry = -g - float64(child.ResolutionY)*scale
		} else {
			ry = float64(parent.ResolutionY)*parentScale + g
		}
		return offset, ry
	}
	var rx float64
	if child.PositionX < parent.PositionX {
		rx = -g - float64(child.ResolutionX)*scale
	} else {
		rx = float64(parent.ResolutionX)*parentScale + g
	}
	return rx, offset
}

// Midpoints returns the middle of each monitor's two Scale pass lines,
// which seeds the Gap pass.
func Midpoints(lines [4]int) [2]int {
	return [2]int{(lines[0] + lines[2]) / 2, (lines[1] + lines[3]) / 2}
}

// Finite reports whether every value is a finite number.
func Finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
