// Package pkg provides the core libraries for Spancal multi-monitor calibration.
//
// # Overview
//
// Spancal works out where a set of monitors physically sit relative to each
// other. The user lines up reference lines across each neighbouring pair of
// screens; from those lines Spancal derives relative scale, offset and bezel
// gap, then reconstructs a to-scale layout that wallpaper-spanning tools can
// consume.
//
// # Architecture
//
// The data flow through a calibration run:
//
//	Monitor fixture / OS enumeration
//	         ↓
//	    [monitor] package (geometry, physical size, PPI)
//	         ↓
//	    [plan] package (spanning tree of neighbouring pairs)
//	         ↓
//	    [calibrate] package (one scale pass and one gap pass per pair,
//	         ↓               driven through an [overlay] surface)
//	    [layout] package (PPI propagation + physical placement)
//	         ↓
//	    [export] / [render] / [store]
//
// # Quick Start
//
//	ms, _ := monitor.FileSource{Path: "monitors.toml"}.Monitors(ctx)
//
//	script, _ := overlay.ReadScript(f)
//	results, err := calibrate.New(overlay.Dedicated(script), logger).Run(ctx, ms)
//	if err != nil {
//	    return err
//	}
//
//	placements, _ := layout.Reconstruct(ms, results)
//	doc, _ := export.BuildLayout(ms, placements)
//	url, _ := export.URL(doc)
//
// # Main Packages
//
// [monitor] - Monitor model, fixture loading (TOML or JSON), size overrides
// and validation.
//
// [plan] - Orders the monitors into parent/child pairs, nearest neighbours
// first, so every monitor is calibrated against one already placed.
//
// [overlay] - The interactive session: four draggable lines for the scale
// pass, a gap marker for the gap pass, hit testing and keyboard nudges.
// Surfaces draw it; a scripted surface replays recorded passes.
//
// [solver] - Pure math turning line positions into scale and relative
// position.
//
// [calibrate] - Runs the plan through a surface and collects one Result per
// pair.
//
// [layout] - Propagates PPI across the calibration tree and places every
// monitor in millimetres.
//
// [export] - The generic calibration document and the Spanright layout
// (JSON and share URL).
//
// [render] - Graphviz calibration tree and a to-scale SVG of the layout.
//
// [store] - Saved runs: file, SQLite, Redis and MongoDB backends.
//
// [errors] - Coded errors shared by the CLI and the HTTP API.
//
// [observability] - Hooks for HTTP, storage and calibration events.
//
// [monitor]: https://pkg.go.dev/github.com/matzehuels/spancal/pkg/monitor
// [plan]: https://pkg.go.dev/github.com/matzehuels/spancal/pkg/plan
// [overlay]: https://pkg.go.dev/github.com/matzehuels/spancal/pkg/overlay
// [solver]: https://pkg.go.dev/github.com/matzehuels/spancal/pkg/solver
// [calibrate]: https://pkg.go.dev/github.com/matzehuels/spancal/pkg/calibrate
// [layout]: https://pkg.go.dev/github.com/matzehuels/spancal/pkg/layout
// [export]: https://pkg.go.dev/github.com/matzehuels/spancal/pkg/export
// [render]: https://pkg.go.dev/github.com/matzehuels/spancal/pkg/render
// [store]: https://pkg.go.dev/github.com/matzehuels/spancal/pkg/store
// [errors]: https://pkg.go.dev/github.com/matzehuels/spancal/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/spancal/pkg/observability
package pkg
