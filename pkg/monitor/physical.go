package monitor

import (
	"math"
	"strconv"
)

// Plausible panel diagonals, in inches, when guessing from a product name.
const (
	minGuessDiagonal = 10
	maxGuessDiagonal = 65
)

// GuessDiagonal looks for a plausible diagonal size in the monitor's
// friendly, monitor and adapter names (in that order). A candidate is a
// standalone integer between 10 and 65 inclusive; digits that are part of a
// longer number such as "2560" or "U2715H" are skipped.
func GuessDiagonal(m Monitor) (float64, bool) {
	for _, name := range []string{m.FriendlyName, m.MonitorName, m.AdapterName} {
		if d, ok := diagonalFromString(name); ok {
			return d, true
		}
	}
	return 0, false
}

func diagonalFromString(s string) (float64, bool) {
	for i := 0; i < len(s); {
		if !isDigit(s[i]) {
			i++
			continue
		}
		start := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		// A run of digits is already maximal, so only runs of length two
		// can fall in range.
		n, err := strconv.Atoi(s[start:i])
		if err != nil || n < minGuessDiagonal || n > maxGuessDiagonal {
			continue
		}
		return float64(n), true
	}
	return 0, false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// SetPhysicalFromDiagonal sets the physical panel size from a diagonal in
// inches using the monitor's pixel aspect ratio, falling back to 16:9 when
// the resolution is unknown.
func SetPhysicalFromDiagonal(m *Monitor, diagonalIn float64) {
	aspect := 16.0 / 9.0
	if m.ResolutionX > 0 && m.ResolutionY > 0 {
		aspect = float64(m.ResolutionX) / float64(m.ResolutionY)
	}
	h := diagonalIn / math.Sqrt(1+aspect*aspect)
	w := h * aspect
	m.PhysicalWidthMM = int(math.Round(w * mmPerInch))
	m.PhysicalHeightMM = int(math.Round(h * mmPerInch))
}

// Enrich performs the best-effort physical-size enrichment the discovery
// collaborator applies before monitors reach the core. Nothing here fails:
// anything that cannot be determined stays unknown.
func Enrich(m *Monitor) {
	switch {
	case m.HasPhysicalSize():
		if m.SizeSource == "" {
			m.SizeSource = SourceEDID
		}
	case m.DiagonalIn > 0:
		SetPhysicalFromDiagonal(m, m.DiagonalIn)
		if m.SizeSource == "" {
			m.SizeSource = SourceManual
		}
	default:
		if d, ok := GuessDiagonal(*m); ok {
			SetPhysicalFromDiagonal(m, d)
			m.SizeSource = SourceGuessed
		}
	}
	if m.SizeSource == "" {
		m.SizeSource = SourceNone
	}
	m.Derive()
}
