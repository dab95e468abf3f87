package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spancal/pkg/export"
	"github.com/matzehuels/spancal/pkg/monitor"
	"github.com/matzehuels/spancal/pkg/plan"
)

// monitorsCommand lists the monitors of the configured fixture.
func (c *CLI) monitorsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "monitors",
		Short: "List the monitors of the fixture",
		Long: `List the monitors of the monitor fixture with size overrides applied.

Monitors without a physical size cannot anchor the physical layout. Add a
width_mm/height_mm or diagonal_in override for them if no monitor in the set
reports one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			ms, err := c.loadMonitors(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if asJSON {
				return export.WriteJSON(ms, os.Stdout)
			}

			fmt.Println(monitorTable(ms))
			for _, m := range ms {
				if !m.HasPhysicalSize() {
					printWarning("%s has no physical size", m.DisplayName())
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the monitor records as JSON")
	return cmd
}

// planCommand prints the binding order calibrate will follow.
func (c *CLI) planCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show the order in which monitors are bound",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			ms, err := c.loadMonitors(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if err := monitor.Validate(ms); err != nil {
				return err
			}

			pairs := plan.Plan(ms)
			if len(pairs) == 0 {
				printInfo("Only one monitor, nothing to calibrate")
				return nil
			}
			fmt.Println(planTable(ms, pairs))
			printDetail("%d pairs, 2 passes each", len(pairs))
			return nil
		},
	}
}
