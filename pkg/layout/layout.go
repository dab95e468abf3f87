// Package layout reconstructs the physical arrangement of calibrated
// monitors.
//
// Reconstruction runs in two passes. [PropagatePPI] spreads known pixel
// densities across the calibration tree. [Reconstruct] then places a
// reference monitor at the origin and walks the tree outwards, turning gaps
// and alignment offsets into inches. The result is centered on the export
// canvas.
package layout

import (
	"math"
	"strings"

	"github.com/matzehuels/spancal/pkg/calibrate"
	"github.com/matzehuels/spancal/pkg/errors"
	"github.com/matzehuels/spancal/pkg/monitor"
)

// The export canvas, in inches.
const (
	CanvasWidth  = 144.0
	CanvasHeight = 96.0
)

// Placement is a monitor's physical rectangle in inches.
type Placement struct {
	Index  int     `json:"index"`
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Reconstruct computes physical placements for ms from finished results.
// Placements are returned in monitor order and depend only on the inputs.
//
// Every monitor needs a pixel density after propagation; otherwise the
// error is NO_PPI_ANCHOR. A monitor that cannot be reached from the
// reference through the results is INVALID_INPUT.
func Reconstruct(ms []monitor.Monitor, results []calibrate.Result) ([]Placement, error) {
	if len(ms) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no monitors to place")
	}
	ppi, err := PropagatePPI(ms, results)
	if err != nil {
		return nil, err
	}
	if missing := missingPPI(ms, ppi); len(missing) > 0 {
		return nil, errors.New(errors.ErrCodeNoPPIAnchor,
			"no physical size known for %s or any monitor calibrated with it", strings.Join(missing, ", "))
	}

	index, _ := indexByID(ms)
	ref := referenceIndex(ms, results, ppi)

	placed := make([]bool, len(ms))
	out := make([]Placement, len(ms))
	out[ref] = sized(ms, ppi, ref)
	placed[ref] = true

	for progress := true; progress; {
		progress = false
		for _, r := range results {
			c, p := index[r.MonitorID], index[r.BoundTo]
			if placed[c] || !placed[p] {
				continue
			}
			out[c] = place(ms, ppi, r, c, p, out[p])
			placed[c] = true
			progress = true
		}
	}
	for i, ok := range placed {
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"%s is not connected to %s through the calibration results", ms[i].DisplayName(), ms[ref].DisplayName())
		}
	}

	center(out)
	return out, nil
}

// The reference is the first monitor that was never calibrated against
// another and has a known density; index 0 otherwise.
func referenceIndex(ms []monitor.Monitor, results []calibrate.Result, ppi []float64) int {
	child := make(map[int]bool, len(results))
	for _, r := range results {
		child[r.MonitorID] = true
	}
	for i, m := range ms {
		if !child[m.ID] && ppi[i] > 0 {
			return i
		}
	}
	return 0
}

func sized(ms []monitor.Monitor, ppi []float64, i int) Placement {
	return Placement{
		Index:  i,
		ID:     ms[i].ID,
		Width:  float64(ms[i].ResolutionX) / ppi[i],
		Height: float64(ms[i].ResolutionY) / ppi[i],
	}
}

// place positions child c next to its placed parent. The side is taken from
// the virtual-desktop positions; the gap is converted with the parent's
// density and each alignment offset with its own monitor's density.
func place(ms []monitor.Monitor, ppi []float64, r calibrate.Result, c, p int, parent Placement) Placement {
	pl := sized(ms, ppi, c)
	gap := math.Abs(float64(r.Gap)) / ppi[p]
	align := float64(r.AlignParent)/ppi[p] - float64(r.AlignChild)/ppi[c]

	if r.Orientation == monitor.Vertical {
		if ms[c].PositionY < ms[p].PositionY {
			pl.Y = parent.Y - pl.Height - gap
		} else {
			pl.Y = parent.Y + parent.Height + gap
		}
		pl.X = parent.X + align
		return pl
	}
	if ms[c].PositionX < ms[p].PositionX {
		pl.X = parent.X - pl.Width - gap
	} else {
		pl.X = parent.X + parent.Width + gap
	}
	pl.Y = parent.Y + align
	return pl
}

// center moves the placements so their bounding box is centered on the
// canvas.
func center(ps []Placement) {
	minX, minY, maxX, maxY := bbox(ps)
	dx := CanvasWidth/2 - (minX+maxX)/2
	dy := CanvasHeight/2 - (minY+maxY)/2
	for i := range ps {
		ps[i].X += dx
		ps[i].Y += dy
	}
}

func bbox(ps []Placement) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range ps {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X+p.Width)
		maxY = math.Max(maxY, p.Y+p.Height)
	}
	return minX, minY, maxX, maxY
}

func missingPPI(ms []monitor.Monitor, ppi []float64) []string {
	var names []string
	for i, v := range ppi {
		if !(v > 0) || math.IsInf(v, 0) {
			names = append(names, ms[i].DisplayName())
		}
	}
	return names
}

// Bounds returns the width and height of the area covered by ps.
func Bounds(ps []Placement) (w, h float64) {
	if len(ps) == 0 {
		return 0, 0
	}
	minX, minY, maxX, maxY := bbox(ps)
	return maxX - minX, maxY - minY
}
