package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

func newRenderCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "render <tree>",
		Short: "Print a tree as an indented outline with node IDs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withTree(args[0], func(tree *types.Tree) (bool, error) {
				if e.flags.jsonMode {
					return false, printJSON(cmd, types.Flatten(tree.Root))
				}
				fmt.Fprint(cmd.OutOrStdout(), types.Render(tree.Root))
				return false, nil
			})
		},
	}
}
