package export

import (
	"bytes"
	"encoding/json"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/spancal/pkg/calibrate"
	"github.com/matzehuels/spancal/pkg/errors"
	"github.com/matzehuels/spancal/pkg/layout"
	"github.com/matzehuels/spancal/pkg/monitor"
)

func pair() ([]monitor.Monitor, []calibrate.Result) {
	ms := []monitor.Monitor{
		{
			ID: 0, DeviceName: `\\.\DISPLAY1`, FriendlyName: "DELL U2720Q", Primary: true,
			ResolutionX: 1920, ResolutionY: 1080, PhysicalWidthMM: 531, PhysicalHeightMM: 299,
			SizeSource: monitor.SourceEDID,
		},
		{
			ID: 1, DeviceName: `\\.\DISPLAY2`, MonitorName: "Generic PnP Monitor",
			ResolutionX: 2560, ResolutionY: 1440, PositionX: 1920,
		},
	}
	results := []calibrate.Result{{
		MonitorID: 1, BoundTo: 0, Scale: 1.25, Offset: -12.5, RelativeX: 1924, RelativeY: -12.5,
		Gap: 2, Orientation: monitor.Horizontal, AlignChild: 400, AlignParent: 300,
	}}
	return ms, results
}

func TestBuildConfig(t *testing.T) {
	ms, results := pair()
	at := time.Date(2026, 10, 19, 14, 30, 0, 0, time.FixedZone("CEST", 2*3600))

	cfg, err := BuildConfig(ms, results, at)
	if err != nil {
		t.Fatalf("BuildConfig: %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.CalibratedAt != "2026-10-19T12:30:00Z" {
		t.Errorf("CalibratedAt = %q, want UTC RFC3339", cfg.CalibratedAt)
	}

	primary, child := cfg.Monitors[0], cfg.Monitors[1]
	if primary.BoundTo != nil || primary.Scale != 1 || primary.RelativeX != 0 {
		t.Errorf("primary = %+v, want uncalibrated defaults", primary)
	}
	if primary.PhysicalSizeMM == nil || *primary.PhysicalSizeMM != [2]int{531, 299} {
		t.Errorf("primary PhysicalSizeMM = %v", primary.PhysicalSizeMM)
	}
	if primary.PhysicalSizeSource != "edid" {
		t.Errorf("primary source = %q, want edid", primary.PhysicalSizeSource)
	}

	if child.BoundTo == nil || *child.BoundTo != 0 {
		t.Errorf("child BoundTo = %v, want 0", child.BoundTo)
	}
	if child.Scale != 1.25 || child.RelativeX != 1924 || child.RelativeY != -12.5 || child.Offset != -12.5 || child.Gap != 2 {
		t.Errorf("child = %+v", child)
	}
	if child.FriendlyName != "Generic PnP Monitor" {
		t.Errorf("child FriendlyName = %q, want monitor name fallback", child.FriendlyName)
	}
	if child.PhysicalSizeMM != nil || child.PhysicalSizeSource != "none" {
		t.Errorf("child physical = %v/%q, want nil/none", child.PhysicalSizeMM, child.PhysicalSizeSource)
	}
	if child.Orientation != monitor.Horizontal || child.VirtualPosition != [2]int{1920, 0} {
		t.Errorf("child orientation/position = %s/%v", child.Orientation, child.VirtualPosition)
	}
}

func TestBuildConfigNonFinite(t *testing.T) {
	ms, results := pair()
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		r := append([]calibrate.Result(nil), results...)
		r[0].RelativeY = bad
		cfg, err := BuildConfig(ms, r, time.Now())
		if !errors.Is(err, errors.ErrCodeSerialization) {
			t.Errorf("%v: error = %v, want %s", bad, err, errors.ErrCodeSerialization)
		}
		if cfg != nil {
			t.Errorf("%v: cfg = %+v, want nil", bad, cfg)
		}
	}
}

func TestAspectRatio(t *testing.T) {
	tests := []struct {
		rx, ry int
		want   [2]int
	}{
		{1920, 1080, [2]int{16, 9}},
		{1920, 1200, [2]int{8, 5}},
		{2560, 1080, [2]int{64, 27}},
		{3440, 1440, [2]int{43, 18}},
		{1080, 1920, [2]int{9, 16}},
		{1280, 1024, [2]int{5, 4}},
		{0, 0, [2]int{16, 9}},
	}
	for _, tt := range tests {
		if got := AspectRatio(tt.rx, tt.ry); got != tt.want {
			t.Errorf("AspectRatio(%d, %d) = %v, want %v", tt.rx, tt.ry, got, tt.want)
		}
	}
}

func TestResolutionName(t *testing.T) {
	tests := map[[2]int]string{
		{1920, 1080}: "FHD",
		{1920, 1200}: "WUXGA",
		{2560, 1080}: "UWFHD",
		{2560, 1440}: "QHD",
		{3440, 1440}: "UWQHD",
		{3840, 2160}: "4K",
		{3840, 1600}: "UW4K",
		{1366, 768}:  "1366x768",
	}
	for res, want := range tests {
		if got := ResolutionName(res[0], res[1]); got != want {
			t.Errorf("ResolutionName(%d, %d) = %q, want %q", res[0], res[1], got, want)
		}
	}
}

func TestBuildLayout(t *testing.T) {
	ms := []monitor.Monitor{
		{ID: 0, Primary: true, ResolutionX: 2560, ResolutionY: 1440, DiagonalIn: 27, FriendlyName: "Main"},
		{ID: 1, ResolutionX: 1080, ResolutionY: 1920, Rotation: monitor.Rotate90},
	}
	ps := []layout.Placement{
		{Index: 0, X: 50.123456, Y: 40.000049, Width: 23.5, Height: 13.2},
		{Index: 1, ID: 1, X: 73.62, Y: 36, Width: 12, Height: 16},
	}

	l, err := BuildLayout(ms, ps)
	if err != nil {
		t.Fatalf("BuildLayout: %v", err)
	}
	if l.V != 1 || len(l.M) != 2 {
		t.Fatalf("layout = %+v", l)
	}

	wide, side := l.M[0], l.M[1]
	if wide.N != `27" QHD` || wide.D != 27 {
		t.Errorf("wide n/d = %q/%v, want known diagonal", wide.N, wide.D)
	}
	if wide.X != 50.1235 || wide.Y != 40 {
		t.Errorf("wide x/y = %v/%v, want rounded to 4 decimals", wide.X, wide.Y)
	}
	if wide.DN != "Main" || wide.Rot != 0 {
		t.Errorf("wide dn/rot = %q/%d", wide.DN, wide.Rot)
	}

	if side.D != 20 || side.N != `20" 1080x1920` {
		t.Errorf("side n/d = %q/%v, want diagonal from placement", side.N, side.D)
	}
	if side.Rot != 90 || side.AR != [2]int{9, 16} {
		t.Errorf("side rot/ar = %d/%v", side.Rot, side.AR)
	}
}

func TestBuildLayoutErrors(t *testing.T) {
	ms := []monitor.Monitor{{ID: 0, ResolutionX: 1920, ResolutionY: 1080}}

	if _, err := BuildLayout(ms, nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("mismatched placements error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
	bad := []layout.Placement{{X: math.NaN(), Width: 20, Height: 11}}
	if _, err := BuildLayout(ms, bad); !errors.Is(err, errors.ErrCodeSerialization) {
		t.Errorf("NaN placement error = %v, want %s", err, errors.ErrCodeSerialization)
	}
}

func TestSpanrightNeedsAnchor(t *testing.T) {
	ms := []monitor.Monitor{
		{ID: 0, Primary: true, ResolutionX: 1920, ResolutionY: 1080},
		{ID: 1, PositionX: 1920, ResolutionX: 1920, ResolutionY: 1080},
	}
	results := []calibrate.Result{{MonitorID: 1, BoundTo: 0, Scale: 1}}
	if _, err := Spanright(ms, results); !errors.Is(err, errors.ErrCodeNoPPIAnchor) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeNoPPIAnchor)
	}
}

func TestURL(t *testing.T) {
	l := &Layout{V: 1, M: []LayoutMonitor{{N: `27" QHD`, D: 27, AR: [2]int{16, 9}, RX: 2560, RY: 1440, X: 58.5, Y: 40.25, DN: "DELL U2720Q"}}}

	u, err := URL(l)
	if err != nil {
		t.Fatalf("URL: %v", err)
	}
	if !strings.HasPrefix(u, SpanrightBaseURL) {
		t.Fatalf("URL = %q, want prefix %q", u, SpanrightBaseURL)
	}
	fragment := strings.TrimPrefix(u, SpanrightBaseURL)
	if strings.ContainsAny(fragment, ` "{}`) {
		t.Errorf("fragment %q is not escaped", fragment)
	}

	raw, err := url.PathUnescape(fragment)
	if err != nil {
		t.Fatalf("PathUnescape: %v", err)
	}
	var back Layout
	if err := json.Unmarshal([]byte(raw), &back); err != nil {
		t.Fatalf("decode fragment: %v", err)
	}
	if back.M[0] != l.M[0] {
		t.Errorf("decoded = %+v, want %+v", back.M[0], l.M[0])
	}
}

func TestWriteJSON(t *testing.T) {
	ms, results := pair()
	cfg, err := BuildConfig(ms, results, time.Unix(0, 0))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(cfg, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"calibratedAt": "1970-01-01T00:00:00Z"`, `"boundTo": null`, `"bindOrientation": "horizontal"`, `"physicalSizeSource": "none"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	l := &Layout{V: 1, M: []LayoutMonitor{{N: "24\" FHD", D: 24, AR: [2]int{16, 9}, RX: 1920, RY: 1080}}}

	if err := ExportJSON(l, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"rx": 1920`) {
		t.Errorf("file content = %s", data)
	}

	if err := ExportJSON(l, ""); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("empty path error = %v, want %s", err, errors.ErrCodeInvalidPath)
	}
}
