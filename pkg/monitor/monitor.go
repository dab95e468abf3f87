package monitor

import (
	"fmt"
	"math"
)

// mmPerInch converts panel dimensions reported in millimeters to inches.
const mmPerInch = 25.4

// Orientation classifies how two monitors in a binding pair relate.
// It is derived once per pair and never recomputed.
type Orientation string

const (
	// Horizontal means the monitors sit side by side. They are calibrated
	// along the vertical axis and offset horizontally.
	Horizontal Orientation = "horizontal"
	// Vertical means the monitors are stacked. They are calibrated along the
	// horizontal axis and offset vertically.
	Vertical Orientation = "vertical"
)

// Rotation is the display rotation in degrees as reported by the OS.
type Rotation int

const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// IsPortrait reports whether the panel is turned on its side.
func (r Rotation) IsPortrait() bool { return r == Rotate90 || r == Rotate270 }

// Physical-size provenance tags carried into the generic export.
const (
	SourceEDID    = "edid"
	SourceGuessed = "guessed"
	SourceManual  = "manual"
	SourceNone    = "none"
)

// Monitor is one physical display as reported by the discovery collaborator.
// It is immutable for the duration of a calibration session.
//
// Physical fields use zero for "unknown".
type Monitor struct {
	ID           int    `json:"id" toml:"id" bson:"id"`
	DeviceName   string `json:"deviceName" toml:"device_name" bson:"device_name"`
	FriendlyName string `json:"friendlyName,omitempty" toml:"friendly_name" bson:"friendly_name,omitempty"`
	MonitorName  string `json:"monitorName,omitempty" toml:"monitor_name" bson:"monitor_name,omitempty"`
	AdapterName  string `json:"adapterName,omitempty" toml:"adapter_name" bson:"adapter_name,omitempty"`
	Primary      bool   `json:"isPrimary" toml:"primary" bson:"primary"`

	ResolutionX int      `json:"resolutionX" toml:"resolution_x" bson:"resolution_x"`
	ResolutionY int      `json:"resolutionY" toml:"resolution_y" bson:"resolution_y"`
	PositionX   int      `json:"positionX" toml:"position_x" bson:"position_x"`
	PositionY   int      `json:"positionY" toml:"position_y" bson:"position_y"`
	Rotation    Rotation `json:"rotation,omitempty" toml:"rotation" bson:"rotation,omitempty"`

	PhysicalWidthMM  int     `json:"physicalWidthMm,omitempty" toml:"width_mm" bson:"width_mm,omitempty"`
	PhysicalHeightMM int     `json:"physicalHeightMm,omitempty" toml:"height_mm" bson:"height_mm,omitempty"`
	DiagonalIn       float64 `json:"diagonalIn,omitempty" toml:"diagonal_in" bson:"diagonal_in,omitempty"`
	PPI              float64 `json:"ppi,omitempty" toml:"ppi" bson:"ppi,omitempty"`
	SizeSource       string  `json:"sizeSource,omitempty" toml:"size_source" bson:"size_source,omitempty"`
}

// Rect is an axis-aligned rectangle in virtual-desktop pixels.
type Rect struct {
	X, Y, W, H int
}

// Rect returns the monitor's bounding box on the virtual desktop.
func (m Monitor) Rect() Rect {
	return Rect{X: m.PositionX, Y: m.PositionY, W: m.ResolutionX, H: m.ResolutionY}
}

// Center returns the center of the monitor's bounding box.
func (m Monitor) Center() (x, y float64) {
	return float64(m.PositionX) + float64(m.ResolutionX)/2,
		float64(m.PositionY) + float64(m.ResolutionY)/2
}

// HasPhysicalSize reports whether both panel dimensions are known.
func (m Monitor) HasPhysicalSize() bool {
	return m.PhysicalWidthMM > 0 && m.PhysicalHeightMM > 0
}

// PhysicalWidthIn returns the panel width in inches, or 0 if unknown.
func (m Monitor) PhysicalWidthIn() float64 {
	return float64(m.PhysicalWidthMM) / mmPerInch
}

// PhysicalHeightIn returns the panel height in inches, or 0 if unknown.
func (m Monitor) PhysicalHeightIn() float64 {
	return float64(m.PhysicalHeightMM) / mmPerInch
}

// DisplayName picks the friendliest available label.
func (m Monitor) DisplayName() string {
	switch {
	case m.FriendlyName != "":
		return m.FriendlyName
	case m.MonitorName != "":
		return m.MonitorName
	default:
		return fmt.Sprintf("Display %d", m.ID+1)
	}
}

// KnownPPI returns the monitor's pixel density if it can be determined from
// its own metadata: an explicit PPI wins, otherwise it is derived from the
// physical panel size.
func (m Monitor) KnownPPI() (float64, bool) {
	if m.PPI > 0 {
		return m.PPI, true
	}
	if !m.HasPhysicalSize() {
		return 0, false
	}
	return diagonalPixels(m) / math.Hypot(m.PhysicalWidthIn(), m.PhysicalHeightIn()), true
}

// Derive fills DiagonalIn and PPI from the physical panel size.
// Monitors without a known physical size are left untouched.
func (m *Monitor) Derive() {
	if !m.HasPhysicalSize() {
		return
	}
	diag := math.Hypot(m.PhysicalWidthIn(), m.PhysicalHeightIn())
	m.DiagonalIn = diag
	if diag > 0 {
		m.PPI = diagonalPixels(*m) / diag
	}
}

func diagonalPixels(m Monitor) float64 {
	return math.Hypot(float64(m.ResolutionX), float64(m.ResolutionY))
}
