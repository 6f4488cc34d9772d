package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banshee-data/pickplace.report/internal/components"
)

func newReadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "read <folder>",
		Short: "Print the ground plane, shard planes, pick poses and mesh paths of a scan log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, report := components.ReadScanData(a.codec(), args[0])
			if err := printReport(cmd.ErrOrStderr(), report); err != nil {
				return err
			}

			unit := a.cfg.GetAngleUnits()
			out := cmd.OutOrStdout()
			rec := data.Record
			fmt.Fprintf(out, "ground: %s\n", formatEquation(rec.GroundPlane))
			for i, s := range rec.Shards {
				fmt.Fprintf(out, "%s:\n", s.Key)
				fmt.Fprintf(out, "  plane: %s\n", formatEquation(s.Plane))
				fmt.Fprintf(out, "  pick:  %s\n", formatPose(data.PickPlanes[i], unit))
				fmt.Fprintf(out, "  mesh:  %s\n", data.MeshPaths[i])
			}
			return nil
		},
	}
}
