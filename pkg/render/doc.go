// Package render groups the visual outputs of a calibration run.
//
//   - [nodelink]: the calibration tree (who was bound to whom) as a
//     Graphviz node-link diagram
//   - [physical]: the reconstructed physical layout drawn to scale
//
//	dot := nodelink.ToDOT(monitors, results, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
//	placements, err := layout.Reconstruct(monitors, results)
//	svg := physical.RenderSVG(monitors, placements, physical.WithFit())
//
// [nodelink]: github.com/matzehuels/spancal/pkg/render/nodelink
// [physical]: github.com/matzehuels/spancal/pkg/render/physical
package render
