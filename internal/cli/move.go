package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

func newMoveCmd(e *env) *cobra.Command {
	var toID string
	cmd := &cobra.Command{
		Use:   "move <tree> <node-id>",
		Short: "Move a node and its subtree under another node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := e.withTree(args[0], func(tree *types.Tree) (bool, error) {
				node, err := findNode(tree, args[1])
				if err != nil {
					return false, err
				}
				dest, err := findNode(tree, toID)
				if err != nil {
					return false, err
				}
				if !dest.IsBranch() {
					return false, fmt.Errorf("move under %s: %w", dest.ID(), types.ErrUnsupportedOperation)
				}
				// Detach first: a node keeps a single parent.
				if old := node.Parent(); old != nil {
					if err := old.Detach(node); err != nil {
						return false, err
					}
				}
				if err := dest.Attach(node); err != nil {
					return false, fmt.Errorf("move %s under %s: %w", node.ID(), dest.ID(), err)
				}
				return true, nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s under %s\n", args[1], toID)
			return nil
		},
	}
	cmd.Flags().StringVar(&toID, "to", "", "ID of the new parent branch (required)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
