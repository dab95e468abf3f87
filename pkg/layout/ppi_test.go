package layout

import (
	"testing"

	"github.com/matzehuels/spancal/pkg/calibrate"
	"github.com/matzehuels/spancal/pkg/monitor"
)

func TestEdgesUseRelativeRatio(t *testing.T) {
	ms := []monitor.Monitor{
		display(0, 0, 0, 1920, 1080, true),
		display(1, 1920, 0, 1920, 1080, false),
		display(2, 3840, 0, 1920, 1080, false),
	}
	results := []calibrate.Result{
		{MonitorID: 1, BoundTo: 0, Scale: 1.5},
		{MonitorID: 2, BoundTo: 1, Scale: 0.75},
	}

	edges, err := Edges(ms, results)
	if err != nil {
		t.Fatalf("Edges: %v", err)
	}
	want := []Edge{{Child: 1, Parent: 0, Ratio: 1.5}, {Child: 2, Parent: 1, Ratio: 0.5}}
	for i := range want {
		if edges[i] != want[i] {
			t.Errorf("edge %d = %+v, want %+v", i, edges[i], want[i])
		}
	}
}

func TestPropagatePPI(t *testing.T) {
	tests := []struct {
		name  string
		seeds map[int]float64
		want  []float64
	}{
		{"from primary", map[int]float64{0: 100}, []float64{100, 150, 75}},
		{"from leaf upwards", map[int]float64{2: 75}, []float64{100, 150, 75}},
		{"from middle", map[int]float64{1: 150}, []float64{100, 150, 75}},
		{"known values are kept", map[int]float64{0: 100, 2: 80}, []float64{100, 150, 80}},
		{"nothing known", nil, []float64{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := []monitor.Monitor{
				display(0, 0, 0, 1920, 1080, true),
				display(1, 1920, 0, 1920, 1080, false),
				display(2, 3840, 0, 1920, 1080, false),
			}
			for i, v := range tt.seeds {
				ms[i].PPI = v
			}
			results := []calibrate.Result{
				{MonitorID: 1, BoundTo: 0, Scale: 1.5},
				{MonitorID: 2, BoundTo: 1, Scale: 0.75},
			}

			ppi, err := PropagatePPI(ms, results)
			if err != nil {
				t.Fatalf("PropagatePPI: %v", err)
			}
			for i := range tt.want {
				if !near(ppi[i], tt.want[i]) {
					t.Errorf("ppi[%d] = %v, want %v", i, ppi[i], tt.want[i])
				}
			}
		})
	}
}

func TestRelaxConvergesWithinEdgeCount(t *testing.T) {
	// Edges listed root first, known density only at the far leaf: each
	// sweep can only move one step up the chain.
	edges := []Edge{
		{Child: 1, Parent: 0, Ratio: 2},
		{Child: 2, Parent: 1, Ratio: 2},
		{Child: 3, Parent: 2, Ratio: 2},
		{Child: 4, Parent: 3, Ratio: 2},
	}
	ppi := []float64{0, 0, 0, 0, 160}

	rounds := Relax(ppi, edges)
	if rounds > len(edges) {
		t.Errorf("rounds = %d, want <= %d", rounds, len(edges))
	}
	if rounds != 4 {
		t.Errorf("rounds = %d, want 4 for a reversed chain", rounds)
	}
	want := []float64{10, 20, 40, 80, 160}
	for i := range want {
		if ppi[i] != want[i] {
			t.Errorf("ppi[%d] = %v, want %v", i, ppi[i], want[i])
		}
	}

	before := append([]float64(nil), ppi...)
	if again := Relax(ppi, edges); again != 0 {
		t.Errorf("second Relax rounds = %d, want 0", again)
	}
	for i := range before {
		if ppi[i] != before[i] {
			t.Errorf("second Relax changed ppi[%d]: %v -> %v", i, before[i], ppi[i])
		}
	}
}

func TestRelaxNoAnchor(t *testing.T) {
	ppi := []float64{0, 0}
	if rounds := Relax(ppi, []Edge{{Child: 1, Parent: 0, Ratio: 1}}); rounds != 0 {
		t.Errorf("rounds = %d, want 0", rounds)
	}
	if ppi[0] != 0 || ppi[1] != 0 {
		t.Errorf("ppi = %v, want unknown", ppi)
	}
}

func TestSeedPPI(t *testing.T) {
	ms := []monitor.Monitor{
		{ResolutionX: 1920, ResolutionY: 1080, PPI: 92},
		{ResolutionX: 1920, ResolutionY: 1080, PhysicalWidthMM: 531, PhysicalHeightMM: 299},
		{ResolutionX: 1920, ResolutionY: 1080},
	}
	ppi := SeedPPI(ms)
	if ppi[0] != 92 || ppi[1] < 91.8 || ppi[1] > 91.9 || ppi[2] != 0 {
		t.Errorf("SeedPPI() = %v", ppi)
	}
}
