package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banshee-data/pickplace.report/internal/components"
	"github.com/banshee-data/pickplace.report/internal/geom"
)

func newWriteCmd(a *app) *cobra.Command {
	var (
		placesPath string
		fromPick   bool
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "write <folder>",
		Short: "Write place poses into a scan log",
		Long: `Write a place pose for every shard of the scan log in <folder>.

Place planes come either from a YAML places file (--places), a sequence with
one {origin, x_axis, y_axis} entry per shard in shard order, or from the
log's own pick poses (--from-pick). With --dry-run the planes are checked
against the log but nothing is written.

Examples:
  pickplace write scans/2024-05-01 --places layout.yaml
  pickplace write scans/2024-05-01 --from-pick --dry-run
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder := args[0]
			if (placesPath == "") == !fromPick {
				return errors.New("exactly one of --places or --from-pick is required")
			}

			var planes []geom.Plane
			if fromPick {
				data, report := components.ReadScanData(a.codec(), folder)
				if err := printReport(cmd.ErrOrStderr(), report); err != nil {
					return err
				}
				planes = data.PickPlanes
			} else {
				var err error
				if planes, err = loadPlaces(a.fs, placesPath); err != nil {
					return err
				}
			}

			saved, report := components.WritePickAndPlace(a.codec(), folder, planes, !dryRun)
			if err := printReport(cmd.ErrOrStderr(), report); err != nil {
				return err
			}
			if saved != "" {
				fmt.Fprintln(cmd.OutOrStdout(), saved)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&placesPath, "places", "", "YAML file with one place plane per shard")
	cmd.Flags().BoolVar(&fromPick, "from-pick", false, "Use the decoded pick poses as place poses")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate without writing")
	return cmd
}
