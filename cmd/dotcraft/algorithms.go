package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wbrown/dotcraft"
)

var algorithmHelp = map[dotcraft.Algorithm]string{
	dotcraft.ClusterQuantize:   "k-means clustering in RGB, randomized unless --seed is set",
	dotcraft.MedianCutQuantize: "recursive median split of the widest channel",
	dotcraft.OctreeQuantize:    "octree with least-populated branches folded",
}

func newAlgorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List the supported quantization algorithms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range dotcraft.Algorithms() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", a, algorithmHelp[a])
			}
			return nil
		},
	}
}
