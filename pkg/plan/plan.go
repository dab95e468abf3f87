// Package plan orders monitors into a calibration sequence.
//
// [Plan] grows a spanning tree from the primary monitor by repeatedly binding
// the unbound monitor whose center is nearest to any bound monitor. The
// resulting pair list always lists a parent before any pair that uses it as
// a child's reference, so scale factors can be chained in list order.
package plan

import (
	"math"

	"github.com/matzehuels/spancal/pkg/monitor"
)

// Pair binds Child to the already-bound Parent. Both are indices into the
// monitor slice passed to [Plan].
type Pair struct {
	Child       int                 `json:"child"`
	Parent      int                 `json:"parent"`
	Orientation monitor.Orientation `json:"orientation"`
}

// Plan returns the binding order for ms. It returns an empty slice for fewer
// than two monitors.
//
// Ties between equally distant pairs go to the first pair found scanning
// unbound monitors, then bound monitors, in index order.
func Plan(ms []monitor.Monitor) []Pair {
	if len(ms) < 2 {
		return []Pair{}
	}

	bound := make([]bool, len(ms))
	bound[monitor.PrimaryIndex(ms)] = true
	pairs := make([]Pair, 0, len(ms)-1)

	for len(pairs) < len(ms)-1 {
		best := math.Inf(1)
		child, parent := -1, -1
		for u := range ms {
			if bound[u] {
				continue
			}
			for b := range ms {
				if !bound[b] {
					continue
				}
				if d := centerDistance(ms[u], ms[b]); d < best {
					best, child, parent = d, u, b
				}
			}
		}
		if child < 0 {
			// Only reachable with NaN distances; every monitor has finite
			// integer geometry in practice.
			break
		}
		bound[child] = true
		pairs = append(pairs, Pair{
			Child:       child,
			Parent:      parent,
			Orientation: DetermineBindOrientation(ms[child], ms[parent]),
		})
	}
	return pairs
}

func centerDistance(a, b monitor.Monitor) float64 {
	ax, ay := a.Center()
	bx, by := b.Center()
	return math.Hypot(ax-bx, ay-by)
}

// DetermineBindOrientation classifies two monitors as side by side
// ([monitor.Horizontal]) or stacked ([monitor.Vertical]) by comparing how
// much their bounding boxes overlap on each axis. Vertical overlap wins ties.
// The result is symmetric in its arguments.
func DetermineBindOrientation(a, b monitor.Monitor) monitor.Orientation {
	ra, rb := a.Rect(), b.Rect()
	vertical := overlap(ra.Y, ra.Y+ra.H, rb.Y, rb.Y+rb.H)
	horizontal := overlap(ra.X, ra.X+ra.W, rb.X, rb.X+rb.W)
	if vertical >= horizontal {
		return monitor.Horizontal
	}
	return monitor.Vertical
}

func overlap(a0, a1, b0, b1 int) int {
	return max(0, min(a1, b1)-max(a0, b0))
}

// Children returns the child indices of parent in pair order.
func Children(pairs []Pair, parent int) []int {
	var out []int
	for _, p := range pairs {
		if p.Parent == parent {
			out = append(out, p.Child)
		}
	}
	return out
}
