package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banshee-data/pickplace.report/internal/components"
	"github.com/banshee-data/pickplace.report/internal/mesh"
	"github.com/banshee-data/pickplace.report/internal/meshmatch"
)

func newMatchCmd(a *app) *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "match <target.ply> <candidate.ply>...",
		Short: "Find the candidate mesh matching a target and the transform onto it",
		Long: `Find the first candidate whose vertex and face counts equal the target's
and print the rigid transform mapping it onto the target. The transform is
built from three randomly sampled vertices; pass --seed (or set match_seed
in the config) for repeatable output.

A candidate that cannot be read is kept in the list as a non-matching entry
so indices still line up with the arguments.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			importer := mesh.NewImporter(a.fs)
			errOut := cmd.ErrOrStderr()

			target, report := components.ReadMesh(importer, args[0])
			if err := printReport(errOut, report); err != nil {
				return err
			}
			if target == nil {
				return errReported
			}

			candidates := make([]*mesh.Mesh, 0, len(args)-1)
			for _, path := range args[1:] {
				m, report := components.ReadMesh(importer, path)
				if err := printReport(errOut, report); err != nil {
					return err
				}
				candidates = append(candidates, m)
			}

			sampler := meshmatch.NewTimeSeededSampler()
			if cfgSeed, ok := a.cfg.GetMatchSeed(); ok {
				sampler = meshmatch.NewRandomSampler(cfgSeed)
			}
			if cmd.Flags().Changed("seed") {
				sampler = meshmatch.NewRandomSampler(seed)
			}

			transform, index, report := components.MatchMeshTransformation(meshmatch.NewMatcher(sampler), candidates, target)
			if err := printReport(errOut, report); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if index == len(candidates) {
				fmt.Fprintf(out, "index: %d (no match)\n", index)
			} else {
				fmt.Fprintf(out, "index: %d (%s)\n", index, args[index+1])
			}
			fmt.Fprint(out, "transform:\n"+formatTransform(transform))
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for vertex sampling")
	return cmd
}
