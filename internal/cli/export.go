package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spancal/pkg/errors"
	"github.com/matzehuels/spancal/pkg/layout"
	"github.com/matzehuels/spancal/pkg/store"
)

// layoutCommand prints the reconstructed physical layout of a run.
func (c *CLI) layoutCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "layout [run-id]",
		Short: "Show the physical layout of a stored run",
		Long: `Reconstruct where the monitors of a run physically sit.

Positions are inches on a 144 x 96 inch canvas with the arrangement centered.
Without a run ID the latest run is used.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: c.completeRunIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withRun(cmd.Context(), args, func(run *store.Run) error {
				ps, err := layout.Reconstruct(run.Monitors, run.Results)
				if err != nil {
					return err
				}
				if asJSON {
					doc, err := jsonDocument(ps)
					if err != nil {
						return err
					}
					_, err = os.Stdout.Write(doc.body)
					return err
				}

				fmt.Println(placementTable(run.Monitors, ps))
				w, h := layout.Bounds(ps)
				printKeyValue("Run", run.ID)
				printKeyValue("Extent", fmt.Sprintf("%.1f x %.1f in", w, h))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print placements as JSON")
	return cmd
}

// exportOptions holds flags for the export command.
type exportOptions struct {
	format string // generic, spanright or url
	output string // output file, stdout when empty
}

// exportCommand writes a stored run in one of the export formats.
func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export [run-id]",
		Short: "Export a stored run",
		Long: `Export a stored run.

Formats:
  generic     calibration document with per-monitor scale, offset and gap
  spanright   Spanright layout JSON (physical inches)
  url         Spanright link with the layout embedded`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: c.completeRunIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withRun(cmd.Context(), args, func(run *store.Run) error {
				doc, err := exportDocument(run, opts.format)
				if err != nil {
					return err
				}
				return writeDocument(doc, opts.output)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatGeneric, "export format: generic, spanright or url")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")

	return cmd
}

// writeDocument writes doc to path, or to stdout when path is empty.
func writeDocument(doc document, path string) error {
	if path == "" {
		_, err := os.Stdout.Write(doc.body)
		return err
	}
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, doc.body, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	printSuccess("Wrote %s", doc.contentType)
	printFile(path)
	return nil
}
