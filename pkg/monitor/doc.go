// Package monitor defines the display records consumed by calibration and the
// discovery collaborator that produces them.
//
// # Monitors
//
// A [Monitor] carries what the OS reports about one display: pixel
// resolution, signed virtual-desktop position, primary flag, rotation and,
// when available, the physical panel size. Physical fields use zero for
// "unknown"; nothing in calibration requires them.
//
// # Discovery
//
// A [Source] enumerates monitors. [FileSource] reads TOML or JSON fixtures:
//
//	[[monitor]]
//	device_name = '\\.\DISPLAY1'
//	friendly_name = "DELL U2720Q"
//	primary = true
//	resolution_x = 3840
//	resolution_y = 2160
//	width_mm = 597
//	height_mm = 336
//
// Enrichment is best effort. When the panel size is missing, [GuessDiagonal]
// looks for a plausible diagonal in the display names and
// [SetPhysicalFromDiagonal] turns it into millimeters. Failures leave the
// size unknown rather than aborting.
//
// Manual sizes live in an explicit [Overrides] map that is applied before
// monitors reach the core.
package monitor
