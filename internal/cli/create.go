package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

func newCreateCmd(e *env) *cobra.Command {
	var rootLabel string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a tree whose root is an empty branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := e.openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			id, err := store.CreateTree(args[0], types.NewNamedBranch(rootLabel))
			if err != nil {
				return sysErr(fmt.Errorf("create tree: %w", err))
			}
			if e.flags.jsonMode {
				tree, err := store.GetTree(id)
				if err != nil {
					return sysErr(err)
				}
				return printJSON(cmd, treeView(tree))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created tree %s: %s\n", args[0], id)
			return nil
		},
	}
	cmd.Flags().StringVar(&rootLabel, "root-label", types.DefaultBranchLabel, "label of the root branch")
	return cmd
}
