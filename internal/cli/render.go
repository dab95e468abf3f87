package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spancal/pkg/errors"
	"github.com/matzehuels/spancal/pkg/store"
)

const (
	vizTree   = "tree"   // calibration tree as a node-link diagram
	vizLayout = "layout" // physical layout drawn to scale
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file; .dot selects Graphviz source for the tree
	vizType  string // "tree" or "layout"
	detailed bool   // show physical size, ppi and alignment in tree nodes
	fit      bool   // crop the layout drawing to the monitors
}

// renderCommand draws a stored run.
//
// Defaults: type tree, output tree.svg (or layout.svg for --type layout).
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [run-id]",
		Short: "Render a stored run to SVG",
		Long: `Render a stored run.

Types:
  tree     who was bound to whom, with scale and gap per binding
  layout   the reconstructed physical layout, drawn to scale

A tree written to a .dot file is left as Graphviz source.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: c.completeRunIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.resolve(); err != nil {
				return err
			}
			return c.withRun(cmd.Context(), args, func(run *store.Run) error {
				var (
					doc document
					err error
				)
				switch opts.vizType {
				case vizTree:
					if isDOT(opts.output) {
						doc, err = treeDocument(cmd.Context(), run, opts.detailed, true)
						break
					}
					sp := startSpinner(cmd.Context(), cmd.ErrOrStderr(), "Laying out calibration tree...")
					doc, err = treeDocument(cmd.Context(), run, opts.detailed, false)
					sp.stop()
				case vizLayout:
					doc, err = layoutDocument(run, opts.fit)
				}
				if err != nil {
					return err
				}
				return writeDocument(doc, opts.output)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <type>.svg)")
	cmd.Flags().StringVarP(&opts.vizType, "type", "t", vizTree, "what to draw: tree or layout")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show detailed information (tree)")
	cmd.Flags().BoolVar(&opts.fit, "fit", false, "crop to the monitors instead of the whole canvas (layout)")

	return cmd
}

// resolve validates the type and fills in the default output path.
func (o *renderOpts) resolve() error {
	switch o.vizType {
	case vizTree, vizLayout:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown render type %q (want %s or %s)", o.vizType, vizTree, vizLayout)
	}
	if o.output == "" {
		o.output = o.vizType + ".svg"
	}
	if o.vizType == vizLayout && isDOT(o.output) {
		return errors.New(errors.ErrCodeUnsupported, "the layout can only be rendered as SVG")
	}
	return nil
}

func isDOT(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".dot" || ext == ".gv"
}
