package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

// treeJSON is the --json view of a stored tree.
type treeJSON struct {
	TreeID       string    `json:"tree_id"`
	Name         string    `json:"name"`
	RootID       string    `json:"root_id"`
	Contribution string    `json:"contribution"`
	NodeCount    int       `json:"node_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func treeView(tree *types.Tree) treeJSON {
	return treeJSON{
		TreeID:       tree.TreeID,
		Name:         tree.Name,
		RootID:       tree.Root.ID(),
		Contribution: tree.Contribute(),
		NodeCount:    types.Size(tree.Root),
		CreatedAt:    tree.CreatedAt,
		UpdatedAt:    tree.UpdatedAt,
	}
}

// nodeJSON is the --json view of one node's subtree.
type nodeJSON struct {
	NodeID       string `json:"node_id"`
	Kind         string `json:"kind"`
	Label        string `json:"label"`
	ParentID     string `json:"parent_id,omitempty"`
	Depth        int    `json:"depth"`
	Contribution string `json:"contribution"`
	NodeCount    int    `json:"node_count"`
}

func nodeView(n types.Node) nodeJSON {
	v := nodeJSON{
		NodeID:       n.ID(),
		Kind:         n.Kind().String(),
		Label:        n.Label(),
		Depth:        types.Depth(n),
		Contribution: n.Contribute(),
		NodeCount:    types.Size(n),
	}
	if p := n.Parent(); p != nil {
		v.ParentID = p.ID()
	}
	return v
}

func newShowCmd(e *env) *cobra.Command {
	var nodeID string
	cmd := &cobra.Command{
		Use:   "show <tree>",
		Short: "Print the contribution of a tree or one of its nodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withTree(args[0], func(tree *types.Tree) (bool, error) {
				if e.flags.jsonMode && nodeID == "" {
					return false, printJSON(cmd, treeView(tree))
				}
				node, err := findNode(tree, nodeID)
				if err != nil {
					return false, err
				}
				if e.flags.jsonMode {
					return false, printJSON(cmd, nodeView(node))
				}
				fmt.Fprintln(cmd.OutOrStdout(), node.Contribute())
				return false, nil
			})
		},
	}
	cmd.Flags().StringVar(&nodeID, "node", "", "show only this node's subtree")
	return cmd
}
