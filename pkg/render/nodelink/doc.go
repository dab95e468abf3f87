// Package nodelink renders the calibration tree as a node-link diagram.
//
// Monitors are boxes labelled with name, resolution and global scale. Every
// calibration result becomes an arrow from the child to the monitor it was
// bound to, labelled with the binding orientation and seam gap. The primary
// monitor has a double outline; monitors that were never calibrated are
// dashed.
//
//	dot := nodelink.ToDOT(monitors, results, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [ToDOT] output can also be saved and processed with external Graphviz
// tools. [RenderSVG] runs Graphviz in-process via
// [github.com/goccy/go-graphviz].
package nodelink
