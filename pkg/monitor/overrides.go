package monitor

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/spancal/pkg/errors"
)

// SizeOverride is a manual physical size for one display. Either both
// millimeter dimensions or a diagonal must be set.
type SizeOverride struct {
	WidthMM    int     `toml:"width_mm" json:"widthMm,omitempty"`
	HeightMM   int     `toml:"height_mm" json:"heightMm,omitempty"`
	DiagonalIn float64 `toml:"diagonal_in" json:"diagonalIn,omitempty"`
}

func (o SizeOverride) valid() bool {
	return (o.WidthMM > 0 && o.HeightMM > 0) || o.DiagonalIn > 0
}

// Overrides maps a monitor's device name to its manual physical size. It is
// passed explicitly to the discovery step; nothing holds it globally.
type Overrides map[string]SizeOverride

// LoadOverrides reads a TOML overrides file:
//
//	['\\.\DISPLAY2']
//	diagonal_in = 27
//
//	['\\.\DISPLAY3']
//	width_mm = 597
//	height_mm = 336
//
// A missing file yields an empty set.
func LoadOverrides(path string) (Overrides, error) {
	if path == "" {
		return Overrides{}, nil
	}
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Overrides{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read overrides %s", path)
	}
	var o Overrides
	if err := toml.Unmarshal(data, &o); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode overrides %s", path)
	}
	for name, so := range o {
		if !so.valid() {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"override for %q needs width_mm and height_mm, or diagonal_in", name)
		}
	}
	return o, nil
}

// Apply returns a copy of ms with overrides applied and derived physical
// fields recomputed. Overridden monitors are tagged [SourceManual].
func (o Overrides) Apply(ms []Monitor) []Monitor {
	out := append([]Monitor(nil), ms...)
	for i := range out {
		so, ok := o[out[i].DeviceName]
		if !ok || !so.valid() {
			continue
		}
		m := &out[i]
		if so.WidthMM > 0 && so.HeightMM > 0 {
			m.PhysicalWidthMM, m.PhysicalHeightMM = so.WidthMM, so.HeightMM
		} else {
			SetPhysicalFromDiagonal(m, so.DiagonalIn)
		}
		m.SizeSource = SourceManual
		m.PPI = 0
		m.Derive()
	}
	return out
}
