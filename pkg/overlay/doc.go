// Package overlay defines the interactive adjustment contract used to
// calibrate one monitor pair.
//
// Each pair goes through two passes. In the Scale pass the user drags four
// reference lines, a near and a far line on each monitor, until the two
// pairs of lines look the same physical distance apart. In the Gap pass the
// user widens or narrows a seam marker until it matches the physical bezel
// gap.
//
// # Session
//
// [Session] is the pass as a plain state machine. It knows nothing about
// windows or terminals; a [Surface] translates raw input into
// [Session.Press], [Session.Move], [Session.Release], [Session.Nudge],
// [Session.Confirm] and [Session.Cancel] and draws from the accessors.
//
//	Idle --press on line--> Dragging --release--> Idle
//	any  --confirm/cancel--> done (later events ignored)
//
// # Surfaces
//
// [Dedicated] runs a surface on its own goroutine and blocks on a one-shot
// handoff, which is how the orchestrator drives the terminal surface.
// [Scripted] replays recorded actions and backs headless runs and tests.
package overlay
