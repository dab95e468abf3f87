package monitor

import "github.com/matzehuels/spancal/pkg/errors"

// Validate checks the invariants the calibration flow relies on: unique
// IDs, exactly one primary monitor and positive resolutions.
func Validate(ms []Monitor) error {
	seen := make(map[int]bool, len(ms))
	primaries := 0
	for i, m := range ms {
		if seen[m.ID] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate monitor id %d", m.ID)
		}
		seen[m.ID] = true
		if m.Primary {
			primaries++
		}
		if m.ResolutionX <= 0 || m.ResolutionY <= 0 {
			return errors.New(errors.ErrCodeInvalidInput,
				"monitor %d (%s) has invalid resolution %dx%d", i, m.DisplayName(), m.ResolutionX, m.ResolutionY)
		}
	}
	if primaries != 1 {
		return errors.New(errors.ErrCodeInvalidInput, "expected exactly one primary monitor, got %d", primaries)
	}
	return nil
}

// PrimaryIndex returns the index of the primary monitor, or 0 if none is
// flagged.
func PrimaryIndex(ms []Monitor) int {
	for i, m := range ms {
		if m.Primary {
			return i
		}
	}
	return 0
}
