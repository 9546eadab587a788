package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

func newPruneCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "prune <tree> <node-id>",
		Short: "Detach a node and discard its subtree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var removed int
			err := e.withTree(args[0], func(tree *types.Tree) (bool, error) {
				node, err := findNode(tree, args[1])
				if err != nil {
					return false, err
				}
				parent := node.Parent()
				if parent == nil {
					return false, fmt.Errorf("prune root %s: %w", node.ID(), types.ErrInvalidNode)
				}
				removed = types.Size(node)
				if err := parent.Detach(node); err != nil {
					return false, err
				}
				if b, ok := node.(*types.Branch); ok {
					b.Release()
				}
				return true, nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d node(s)\n", removed)
			return nil
		},
	}
}
