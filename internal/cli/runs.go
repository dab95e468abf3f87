package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spancal/pkg/export"
)

// runsCommand lists stored runs, newest first.
func (c *CLI) runsCommand() *cobra.Command {
	var (
		asJSON bool
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored calibration runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			s, err := c.openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			runs, err := s.List(ctx)
			if err != nil {
				return err
			}
			if limit > 0 && len(runs) > limit {
				runs = runs[:limit]
			}
			if asJSON {
				return export.WriteJSON(runs, os.Stdout)
			}
			if len(runs) == 0 {
				printInfo("No stored runs")
				printNextStep("Start one", appName+" calibrate")
				return nil
			}

			fmt.Println(runTable(runs))
			printDetail("latest: %s", runAge(runs[0].CreatedAt, time.Now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print summaries as JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most this many runs")
	return cmd
}

// runAge formats how long before now a run was created.
func runAge(created, now time.Time) string {
	d := now.Sub(created)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
