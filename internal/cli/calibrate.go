package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spancal/pkg/calibrate"
	"github.com/matzehuels/spancal/pkg/errors"
	"github.com/matzehuels/spancal/pkg/export"
	"github.com/matzehuels/spancal/pkg/monitor"
	"github.com/matzehuels/spancal/pkg/overlay"
	"github.com/matzehuels/spancal/pkg/store"
)

// calibrateOptions holds flags for the calibrate command.
type calibrateOptions struct {
	script string // TOML file of scripted adjustment actions
	output string // optional generic export path
	noSave bool   // skip persisting the run
}

// calibrateCommand runs the interactive calibration flow.
func (c *CLI) calibrateCommand() *cobra.Command {
	var opts calibrateOptions

	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Calibrate every monitor pair and store the run",
		Long: `Calibrate the monitors of the fixture pair by pair.

Each pair gets two passes. In the Scale pass, drag (or select with 1-4 / tab
and nudge with the arrow keys) the four reference lines until each child line
sits at the same physical height as its partner on the parent monitor. In the
Gap pass, widen or narrow the seam until the markers line up across the
bezel. Enter confirms a pass, esc cancels the whole run.

With --script the passes are replayed from a TOML file instead:

  [[pass]]
  [[pass.action]]
  kind = "select"
  line = 0
  [[pass.action]]
  kind = "nudge"
  delta = -12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCalibrate(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.script, "script", "", "replay adjustment passes from a TOML script instead of the terminal surface")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "also write the generic calibration document to this file")
	cmd.Flags().BoolVar(&opts.noSave, "no-save", false, "do not store the run")

	return cmd
}

func (c *CLI) runCalibrate(cmd *cobra.Command, opts calibrateOptions) error {
	ctx := withLogger(cmd.Context(), c.Logger)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	ms, err := c.loadMonitors(ctx, cfg)
	if err != nil {
		return err
	}

	surface, err := newSurface(ms, opts.script)
	if err != nil {
		return err
	}

	prog := newProgress(loggerFromContext(ctx))
	results, err := calibrate.New(overlay.Dedicated(surface), c.Logger).Run(ctx, ms)
	if errors.Is(err, errors.ErrCodeCancelled) {
		printWarning("Calibration cancelled, nothing was saved")
		printDetail("%s", errors.UserMessage(err))
		return nil
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Calibrated %d pairs", len(results)))

	fmt.Println(resultTable(ms, results))

	run := store.NewRun(ms, results)
	if opts.output != "" {
		doc, err := export.BuildConfig(ms, results, run.CreatedAt)
		if err != nil {
			return err
		}
		if err := export.ExportJSON(doc, opts.output); err != nil {
			return err
		}
		printFile(opts.output)
	}
	if opts.noSave {
		return nil
	}

	s, err := c.openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.Save(ctx, run); err != nil {
		printError("Run could not be stored")
		return err
	}

	printSuccess("Stored run %s", StyleHighlight.Render(run.ID))
	printNewline()
	printNextStep("Show the physical layout", appName+" layout")
	printNextStep("Open it in Spanright", appName+" export --format url")
	return nil
}

// newSurface returns the scripted surface for script, or the terminal
// surface when script is empty.
func newSurface(ms []monitor.Monitor, script string) (overlay.Surface, error) {
	if script == "" {
		return newTerminalSurface(ms), nil
	}
	if err := errors.ValidatePath(script); err != nil {
		return nil, err
	}
	f, err := os.Open(script)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open script %s", script)
	}
	defer f.Close()
	return overlay.ReadScript(f)
}
