package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banshee-data/pickplace.report/internal/components"
	"github.com/banshee-data/pickplace.report/internal/mesh"
)

func newMeshCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mesh <file.ply>",
		Short: "Print vertex and face counts of a mesh file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, report := components.ReadMesh(mesh.NewImporter(a.fs), args[0])
			if err := printReport(cmd.ErrOrStderr(), report); err != nil {
				return err
			}
			if m == nil {
				return errReported
			}
			fmt.Fprintf(cmd.OutOrStdout(), "vertices: %d\nfaces: %d\ncolors: %v\ncentroid: %s\n",
				m.VertexCount(), m.FaceCount(), m.HasColors(), formatVec(m.Centroid()))
			return nil
		},
	}
}
