package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

// buildDemoTree assembles Branch(Branch(Leaf+Leaf)+Branch(Leaf)) in memory.
func buildDemoTree(label string) (*types.Branch, error) {
	root, b1, b2 := types.NewBranch(), types.NewBranch(), types.NewBranch()
	steps := []struct {
		parent *types.Branch
		child  types.Node
	}{
		{b1, types.NewLeaf(label)},
		{b1, types.NewLeaf(label)},
		{b2, types.NewLeaf(label)},
		{root, b1},
		{root, b2},
	}
	for _, s := range steps {
		if err := s.parent.Attach(s.child); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func newDemoCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Build a sample tree in memory and print its contribution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := buildDemoTree(e.cfg.GetString(cfgKeyLeafLabel))
			if err != nil {
				return sysErr(err)
			}
			if e.flags.jsonMode {
				return printJSON(cmd, types.Flatten(root))
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, root.Contribute())

			// A leaf refuses children instead of ignoring them.
			leaf := types.NewLeaf(e.cfg.GetString(cfgKeyLeafLabel))
			if err := leaf.Attach(types.NewLeaf("")); err != nil {
				fmt.Fprintf(out, "leaf attach: %v\n", err)
			}
			return nil
		},
	}
}
