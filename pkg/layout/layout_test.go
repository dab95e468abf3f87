package layout

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/spancal/pkg/calibrate"
	"github.com/matzehuels/spancal/pkg/errors"
	"github.com/matzehuels/spancal/pkg/monitor"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) <= eps }

func display(id, x, y, w, h int, primary bool) monitor.Monitor {
	return monitor.Monitor{ID: id, PositionX: x, PositionY: y, ResolutionX: w, ResolutionY: h, Primary: primary}
}

func TestScenarioSideBySideIdentity(t *testing.T) {
	primary := display(0, 0, 0, 1920, 1080, true)
	primary.PhysicalWidthMM, primary.PhysicalHeightMM = 531, 299
	ms := []monitor.Monitor{primary, display(1, 1920, 0, 1920, 1080, false)}
	results := []calibrate.Result{{
		MonitorID: 1, BoundTo: 0, Scale: 1, Gap: 0,
		Orientation: monitor.Horizontal, AlignChild: 270, AlignParent: 270,
	}}

	ps, err := Reconstruct(ms, results)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}

	if !near(ps[1].X-ps[0].X, ps[0].Width) {
		t.Errorf("second monitor offset = %v, want primary width %v", ps[1].X-ps[0].X, ps[0].Width)
	}
	if ps[1].Y != ps[0].Y {
		t.Errorf("vertical offset = %v, want 0", ps[1].Y-ps[0].Y)
	}
	if ps[0].Width != ps[1].Width || ps[0].Height != ps[1].Height {
		t.Errorf("sizes differ: %+v vs %+v", ps[0], ps[1])
	}
	if want := 531 / 25.4; math.Abs(ps[0].Width-want) > 0.01 {
		t.Errorf("primary width = %v in, want ~%v", ps[0].Width, want)
	}
}

func TestReconstructStacked(t *testing.T) {
	parent := display(0, 0, 0, 2560, 1440, true)
	parent.PPI = 100
	ms := []monitor.Monitor{parent, display(1, 320, 1440, 1920, 1080, false)}
	results := []calibrate.Result{{
		MonitorID: 1, BoundTo: 0, Scale: 0.8, Gap: -10,
		Orientation: monitor.Vertical, AlignChild: 480, AlignParent: 480,
	}}

	ps, err := Reconstruct(ms, results)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}

	if !near(ps[1].Width, 24) || !near(ps[1].Height, 13.5) {
		t.Errorf("child size = %vx%v, want 24x13.5", ps[1].Width, ps[1].Height)
	}
	// Gap magnitude via the parent's density, offsets via each side's own.
	if dy := ps[1].Y - ps[0].Y; !near(dy, 14.4+0.1) {
		t.Errorf("child dy = %v, want 14.5", dy)
	}
	if dx := ps[1].X - ps[0].X; !near(dx, 4.8-6) {
		t.Errorf("child dx = %v, want -1.2", dx)
	}
}

func TestReconstructLeadingSides(t *testing.T) {
	anchor := display(0, 0, 0, 1920, 1080, true)
	anchor.PPI = 96
	ms := []monitor.Monitor{
		anchor,
		display(1, -1920, 0, 1920, 1080, false),
		display(2, 0, -1080, 1920, 1080, false),
	}
	results := []calibrate.Result{
		{MonitorID: 1, BoundTo: 0, Scale: 1, Gap: 48, Orientation: monitor.Horizontal},
		{MonitorID: 2, BoundTo: 0, Scale: 1, Orientation: monitor.Vertical},
	}

	ps, err := Reconstruct(ms, results)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if dx := ps[0].X - (ps[1].X + ps[1].Width); !near(dx, 0.5) {
		t.Errorf("left gap = %v in, want 0.5", dx)
	}
	if dy := ps[0].Y - (ps[2].Y + ps[2].Height); !near(dy, 0) {
		t.Errorf("top gap = %v in, want 0", dy)
	}
}

func TestReconstructCentersOnCanvas(t *testing.T) {
	a := display(0, 0, 0, 2560, 1440, true)
	a.PPI = 109
	ms := []monitor.Monitor{a, display(1, 2560, 200, 1920, 1080, false)}
	results := []calibrate.Result{{MonitorID: 1, BoundTo: 0, Scale: 0.85, Gap: 12, AlignChild: 300, AlignParent: 500, Orientation: monitor.Horizontal}}

	ps, err := Reconstruct(ms, results)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	minX, minY, maxX, maxY := bbox(ps)
	if !near((minX+maxX)/2, CanvasWidth/2) || !near((minY+maxY)/2, CanvasHeight/2) {
		t.Errorf("bbox center = (%v, %v), want (72, 48)", (minX+maxX)/2, (minY+maxY)/2)
	}
	w, h := Bounds(ps)
	if !near(w, maxX-minX) || !near(h, maxY-minY) {
		t.Errorf("Bounds() = %vx%v", w, h)
	}
}

func TestReconstructDeterministic(t *testing.T) {
	a := display(0, 0, 0, 2560, 1440, true)
	a.PhysicalWidthMM, a.PhysicalHeightMM = 597, 336
	ms := []monitor.Monitor{
		a,
		display(1, 2560, 0, 1920, 1080, false),
		display(2, -1080, -300, 1080, 1920, false),
		display(3, 4480, 0, 1920, 1080, false),
	}
	results := []calibrate.Result{
		{MonitorID: 1, BoundTo: 0, Scale: 0.83, Gap: 7, AlignChild: 251, AlignParent: 303, Orientation: monitor.Horizontal},
		{MonitorID: 2, BoundTo: 0, Scale: 1.07, Gap: 3, AlignChild: 611, AlignParent: 311, Orientation: monitor.Horizontal},
		{MonitorID: 3, BoundTo: 1, Scale: 0.91, Gap: 0, AlignChild: 270, AlignParent: 268, Orientation: monitor.Horizontal},
	}

	first, err := Reconstruct(ms, results)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Reconstruct(ms, results)
		if err != nil {
			t.Fatalf("Reconstruct: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs:\n%+v\n%+v", i, first, again)
		}
	}
	for i, p := range first {
		if p.Index != i || p.ID != ms[i].ID {
			t.Errorf("placement %d = index %d id %d, want sorted by index", i, p.Index, p.ID)
		}
	}
}

func TestReconstructReferenceIsRoot(t *testing.T) {
	root := display(7, 0, 0, 1920, 1080, true)
	root.PPI = 90
	child := display(3, -1920, 0, 1920, 1080, false)
	child.PPI = 120
	// The child comes first in monitor order but is never the reference.
	ms := []monitor.Monitor{child, root}
	results := []calibrate.Result{{MonitorID: 3, BoundTo: 7, Scale: 120.0 / 90.0, Orientation: monitor.Horizontal}}

	ps, err := Reconstruct(ms, results)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if !near(ps[1].X-(ps[0].X+ps[0].Width), 0) {
		t.Errorf("child should sit flush left of root: %+v", ps)
	}
	if !near(ps[0].Width, 16) {
		t.Errorf("child width = %v, want 16 (own ppi)", ps[0].Width)
	}
}

func TestReconstructErrors(t *testing.T) {
	known := func(m monitor.Monitor) monitor.Monitor { m.PPI = 100; return m }

	tests := []struct {
		name    string
		ms      []monitor.Monitor
		results []calibrate.Result
		code    errors.Code
	}{
		{
			name:    "no monitors",
			code:    errors.ErrCodeInvalidInput,
			results: nil,
		},
		{
			name:    "no ppi anywhere",
			ms:      []monitor.Monitor{display(0, 0, 0, 1920, 1080, true), display(1, 1920, 0, 1920, 1080, false)},
			results: []calibrate.Result{{MonitorID: 1, BoundTo: 0, Scale: 1}},
			code:    errors.ErrCodeNoPPIAnchor,
		},
		{
			name: "disconnected monitor without ppi",
			ms: []monitor.Monitor{
				known(display(0, 0, 0, 1920, 1080, true)),
				display(1, 1920, 0, 1920, 1080, false),
				display(2, 3840, 0, 1920, 1080, false),
			},
			results: []calibrate.Result{{MonitorID: 1, BoundTo: 0, Scale: 1}},
			code:    errors.ErrCodeNoPPIAnchor,
		},
		{
			name: "disconnected monitor with ppi",
			ms: []monitor.Monitor{
				known(display(0, 0, 0, 1920, 1080, true)),
				display(1, 1920, 0, 1920, 1080, false),
				known(display(2, 3840, 0, 1920, 1080, false)),
			},
			results: []calibrate.Result{{MonitorID: 1, BoundTo: 0, Scale: 1}},
			code:    errors.ErrCodeInvalidInput,
		},
		{
			name:    "unknown monitor",
			ms:      []monitor.Monitor{known(display(0, 0, 0, 1920, 1080, true))},
			results: []calibrate.Result{{MonitorID: 9, BoundTo: 0, Scale: 1}},
			code:    errors.ErrCodeInvalidMonitor,
		},
		{
			name:    "zero scale",
			ms:      []monitor.Monitor{known(display(0, 0, 0, 1920, 1080, true)), display(1, 1920, 0, 1920, 1080, false)},
			results: []calibrate.Result{{MonitorID: 1, BoundTo: 0, Scale: 0}},
			code:    errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps, err := Reconstruct(tt.ms, tt.results)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
			if ps != nil {
				t.Errorf("placements = %v, want nil", ps)
			}
		})
	}
}
