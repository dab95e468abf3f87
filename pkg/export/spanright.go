package export

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"

	"github.com/matzehuels/spancal/pkg/calibrate"
	"github.com/matzehuels/spancal/pkg/errors"
	"github.com/matzehuels/spancal/pkg/layout"
	"github.com/matzehuels/spancal/pkg/monitor"
)

// SpanrightBaseURL prefixes the encoded layout in [URL].
const SpanrightBaseURL = "https://spanright.com/#layout="

// Layout is the Spanright layout document. Coordinates are inches on the
// layout canvas.
type Layout struct {
	V int             `json:"v"`
	M []LayoutMonitor `json:"m"`
}

// LayoutMonitor is one monitor of a [Layout].
type LayoutMonitor struct {
	N   string  `json:"n"`
	D   float64 `json:"d"`
	AR  [2]int  `json:"ar"`
	RX  int     `json:"rx"`
	RY  int     `json:"ry"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Rot int     `json:"rot,omitempty"`
	DN  string  `json:"dn,omitempty"`
}

var resolutionNames = map[[2]int]string{
	{1920, 1080}: "FHD",
	{1920, 1200}: "WUXGA",
	{2560, 1080}: "UWFHD",
	{2560, 1440}: "QHD",
	{3440, 1440}: "UWQHD",
	{3840, 2160}: "4K",
	{3840, 1600}: "UW4K",
}

// ResolutionName returns the marketing name for a resolution, or "WxH".
func ResolutionName(rx, ry int) string {
	if n, ok := resolutionNames[[2]int{rx, ry}]; ok {
		return n
	}
	return fmt.Sprintf("%dx%d", rx, ry)
}

// AspectRatio reduces a resolution by its greatest common divisor. A 0x0
// resolution yields 16:9.
func AspectRatio(rx, ry int) [2]int {
	g := gcd(rx, ry)
	if g == 0 {
		return [2]int{16, 9}
	}
	return [2]int{rx / g, ry / g}
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// BuildLayout turns reconstructed placements into a Spanright document.
// ps must be in monitor order, as returned by [layout.Reconstruct].
func BuildLayout(ms []monitor.Monitor, ps []layout.Placement) (*Layout, error) {
	if len(ps) != len(ms) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%d placements for %d monitors", len(ps), len(ms))
	}
	out := &Layout{V: 1, M: make([]LayoutMonitor, len(ms))}
	for i, m := range ms {
		p := ps[i]
		diag := m.DiagonalIn
		if !(diag > 0) {
			diag = math.Hypot(p.Width, p.Height)
		}
		if err := requireFinite(m.DisplayName(), diag, p.X, p.Y); err != nil {
			return nil, err
		}
		lm := LayoutMonitor{
			N:  fmt.Sprintf("%d\" %s", int(math.Round(diag)), ResolutionName(m.ResolutionX, m.ResolutionY)),
			D:  round(diag, 100),
			AR: AspectRatio(m.ResolutionX, m.ResolutionY),
			RX: m.ResolutionX,
			RY: m.ResolutionY,
			X:  round(p.X, 10000),
			Y:  round(p.Y, 10000),
			DN: m.FriendlyName,
		}
		if m.Rotation.IsPortrait() {
			lm.Rot = 90
		}
		out.M[i] = lm
	}
	return out, nil
}

// Spanright reconstructs the physical layout and builds its document.
func Spanright(ms []monitor.Monitor, results []calibrate.Result) (*Layout, error) {
	ps, err := layout.Reconstruct(ms, results)
	if err != nil {
		return nil, err
	}
	return BuildLayout(ms, ps)
}

// URL encodes l as a Spanright share link. The layout travels as
// percent-escaped JSON in the URL fragment.
func URL(l *Layout) (string, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeSerialization, err, "encode layout")
	}
	return SpanrightBaseURL + url.PathEscape(string(data)), nil
}

func round(v, unit float64) float64 {
	return math.Round(v*unit) / unit
}
