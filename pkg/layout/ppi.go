package layout

import (
	"github.com/matzehuels/spancal/pkg/calibrate"
	"github.com/matzehuels/spancal/pkg/errors"
	"github.com/matzehuels/spancal/pkg/monitor"
)

// Edge is one calibration binding between monitor indices. Ratio is the
// child's pixel density relative to the parent's.
type Edge struct {
	Child  int
	Parent int
	Ratio  float64
}

// SeedPPI returns each monitor's known pixel density, or 0 when unknown.
func SeedPPI(ms []monitor.Monitor) []float64 {
	ppi := make([]float64, len(ms))
	for i, m := range ms {
		if v, ok := m.KnownPPI(); ok {
			ppi[i] = v
		}
	}
	return ppi
}

// Edges converts results into index-based edges. Results carry scales
// relative to the primary, so the per-edge ratio divides out the parent's
// own scale. Monitors without a result (the primary) have scale 1.
func Edges(ms []monitor.Monitor, results []calibrate.Result) ([]Edge, error) {
	index, err := indexByID(ms)
	if err != nil {
		return nil, err
	}
	scale := make([]float64, len(ms))
	for i := range scale {
		scale[i] = 1
	}
	edges := make([]Edge, 0, len(results))
	for _, r := range results {
		c, ok := index[r.MonitorID]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidMonitor, "result references unknown monitor %d", r.MonitorID)
		}
		p, ok := index[r.BoundTo]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidMonitor, "monitor %d is bound to unknown monitor %d", r.MonitorID, r.BoundTo)
		}
		if !(r.Scale > 0) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "monitor %d has non-positive scale %v", r.MonitorID, r.Scale)
		}
		scale[c] = r.Scale
		edges = append(edges, Edge{Child: c, Parent: p})
	}
	for i := range edges {
		edges[i].Ratio = scale[edges[i].Child] / scale[edges[i].Parent]
	}
	return edges, nil
}

// Relax propagates known densities across edges until a full sweep changes
// nothing: an unknown parent gets child/ratio and an unknown child gets
// parent*ratio. It updates ppi in place and returns the number of sweeps
// that made progress, which never exceeds len(edges). Running it again on a
// converged slice returns 0 and changes nothing.
func Relax(ppi []float64, edges []Edge) int {
	rounds := 0
	for {
		changed := false
		for _, e := range edges {
			c, p := ppi[e.Child], ppi[e.Parent]
			switch {
			case c > 0 && p == 0:
				ppi[e.Parent] = c / e.Ratio
				changed = true
			case p > 0 && c == 0:
				ppi[e.Child] = p * e.Ratio
				changed = true
			}
		}
		if !changed {
			return rounds
		}
		rounds++
	}
}

// PropagatePPI seeds densities from monitor metadata and relaxes them over
// the calibration tree. Unknown densities stay 0.
func PropagatePPI(ms []monitor.Monitor, results []calibrate.Result) ([]float64, error) {
	edges, err := Edges(ms, results)
	if err != nil {
		return nil, err
	}
	ppi := SeedPPI(ms)
	Relax(ppi, edges)
	return ppi, nil
}

func indexByID(ms []monitor.Monitor) (map[int]int, error) {
	index := make(map[int]int, len(ms))
	for i, m := range ms {
		if _, dup := index[m.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate monitor id %d", m.ID)
		}
		index[m.ID] = i
	}
	return index, nil
}
