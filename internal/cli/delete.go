package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <tree>",
		Short: "Delete a stored tree by ID or name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := e.openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			tree, err := store.GetTree(args[0])
			if err != nil {
				return sysErr(fmt.Errorf("tree %q: %w", args[0], err))
			}
			if err := store.DeleteTree(tree.TreeID); err != nil {
				return sysErr(fmt.Errorf("delete tree: %w", err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted tree %s: %s\n", tree.Name, tree.TreeID)
			return nil
		},
	}
}
