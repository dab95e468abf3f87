package export

import (
	"fmt"
	"time"

	"github.com/matzehuels/spancal/pkg/calibrate"
	"github.com/matzehuels/spancal/pkg/errors"
	"github.com/matzehuels/spancal/pkg/monitor"
)

// ConfigVersion is the schema version of the generic document.
const ConfigVersion = 1

// Config is the generic calibration document.
type Config struct {
	Version      int                 `json:"version"`
	CalibratedAt string              `json:"calibratedAt"`
	Monitors     []CalibratedMonitor `json:"monitors"`
}

// CalibratedMonitor is one monitor of the generic document. Monitors without
// a calibration result (the primary) carry scale 1 and a nil BoundTo.
type CalibratedMonitor struct {
	ID                 int                 `json:"id"`
	DeviceName         string              `json:"deviceName"`
	FriendlyName       string              `json:"friendlyName"`
	Resolution         [2]int              `json:"resolution"`
	PhysicalSizeMM     *[2]int             `json:"physicalSizeMm"`
	PhysicalSizeSource string              `json:"physicalSizeSource"`
	Primary            bool                `json:"isPrimary"`
	VirtualPosition    [2]int              `json:"virtualPosition"`
	Scale              float64             `json:"scale"`
	RelativeX          float64             `json:"relativeX"`
	RelativeY          float64             `json:"relativeY"`
	Offset             float64             `json:"offset"`
	Gap                int                 `json:"gap"`
	BoundTo            *int                `json:"boundTo"`
	Orientation        monitor.Orientation `json:"bindOrientation,omitempty"`
}

// BuildConfig assembles the generic document for ms in monitor order.
// Every float must be finite; otherwise the error is SERIALIZATION_FAILURE.
func BuildConfig(ms []monitor.Monitor, results []calibrate.Result, at time.Time) (*Config, error) {
	byID := make(map[int]calibrate.Result, len(results))
	for _, r := range results {
		byID[r.MonitorID] = r
	}

	cfg := &Config{
		Version:      ConfigVersion,
		CalibratedAt: at.UTC().Format(time.RFC3339),
		Monitors:     make([]CalibratedMonitor, len(ms)),
	}
	for i, m := range ms {
		cm := CalibratedMonitor{
			ID:                 m.ID,
			DeviceName:         m.DeviceName,
			FriendlyName:       m.FriendlyName,
			Resolution:         [2]int{m.ResolutionX, m.ResolutionY},
			PhysicalSizeSource: sizeSource(m),
			Primary:            m.Primary,
			VirtualPosition:    [2]int{m.PositionX, m.PositionY},
			Scale:              1,
		}
		if cm.FriendlyName == "" {
			cm.FriendlyName = m.MonitorName
		}
		if m.HasPhysicalSize() {
			cm.PhysicalSizeMM = &[2]int{m.PhysicalWidthMM, m.PhysicalHeightMM}
		}
		if r, ok := byID[m.ID]; ok {
			parent := r.BoundTo
			cm.Scale = r.Scale
			cm.RelativeX = r.RelativeX
			cm.RelativeY = r.RelativeY
			cm.Offset = r.Offset
			cm.Gap = r.Gap
			cm.BoundTo = &parent
			cm.Orientation = r.Orientation
		}
		if err := requireFinite(fmt.Sprintf("monitor %d", m.ID),
			cm.Scale, cm.RelativeX, cm.RelativeY, cm.Offset); err != nil {
			return nil, err
		}
		cfg.Monitors[i] = cm
	}
	return cfg, nil
}

func sizeSource(m monitor.Monitor) string {
	if m.SizeSource != "" {
		return m.SizeSource
	}
	if m.HasPhysicalSize() {
		return monitor.SourceEDID
	}
	return monitor.SourceNone
}

func requireFinite(what string, vs ...float64) error {
	for _, v := range vs {
		if err := errors.RequireFinite(what, v); err != nil {
			return err
		}
	}
	return nil
}
