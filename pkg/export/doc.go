// Package export formats calibration results for downstream tools.
//
// # Documents
//
// Two documents are built from the same results:
//
//   - [Config]: the generic per-monitor record with scale, offset, gap,
//     parent and orientation plus monitor metadata and the provenance of the
//     physical size ("edid", "guessed", "manual" or "none").
//   - [Layout]: the Spanright layout, placing each monitor in inches on the
//     144 x 96 inch canvas with its diagonal, reduced aspect ratio and an
//     optional portrait flag.
//
// # Generic Format
//
//	{
//	  "version": 1,
//	  "calibratedAt": "2026-10-19T12:00:00Z",
//	  "monitors": [
//	    {"deviceName": "\\\\.\\DISPLAY1", "scale": 1, "boundTo": null, ...},
//	    {"deviceName": "\\\\.\\DISPLAY2", "scale": 1.5, "boundTo": 0, ...}
//	  ]
//	}
//
// # Spanright Format
//
//	{"v": 1, "m": [{"n": "27\" QHD", "d": 27, "ar": [16, 9], "rx": 2560, "ry": 1440, "x": 58.5, "y": 40.1}]}
//
// Use [URL] to turn a layout into a share link.
//
// Building a document is pure. Every number must be finite; NaN or infinite
// values fail with SERIALIZATION_FAILURE instead of producing invalid JSON.
// [WriteJSON] and [ExportJSON] handle output.
package export
