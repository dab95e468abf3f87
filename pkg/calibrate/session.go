package calibrate

import "github.com/matzehuels/spancal/pkg/errors"

// The adjustment surface takes over every display, so a second run in the
// same process is rejected instead of queued.
var sessionSlot = make(chan struct{}, 1)

func acquireSession() (release func(), err error) {
	select {
	case sessionSlot <- struct{}{}:
		return func() { <-sessionSlot }, nil
	default:
		return nil, errors.New(errors.ErrCodeSessionBusy, "another calibration session is already running")
	}
}
