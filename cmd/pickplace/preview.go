package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banshee-data/pickplace.report/internal/components"
	"github.com/banshee-data/pickplace.report/internal/geom"
	"github.com/banshee-data/pickplace.report/internal/preview"
)

func newPreviewCmd(a *app) *cobra.Command {
	var (
		output     string
		placesPath string
	)

	cmd := &cobra.Command{
		Use:   "preview <folder>",
		Short: "Render a top-down image of pick (and place) positions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, report := components.ReadScanData(a.codec(), args[0])
			if err := printReport(cmd.ErrOrStderr(), report); err != nil {
				return err
			}

			var places []geom.Plane
			if placesPath != "" {
				var err error
				if places, err = loadPlaces(a.fs, placesPath); err != nil {
					return err
				}
			}

			opts := preview.Options{SizeInches: a.cfg.GetPreviewSizeInches()}
			if err := preview.SaveLayout(a.fs, output, data.Record, places, opts); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "layout.png", "Output image (png, svg or pdf)")
	cmd.Flags().StringVar(&placesPath, "places", "", "YAML file with place planes to draw")
	return cmd
}
