package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

func newAddCmd(e *env) *cobra.Command {
	var (
		parentID string
		kindName string
		label    string
	)
	cmd := &cobra.Command{
		Use:   "add <tree>",
		Short: "Add a leaf or branch under a node",
		Long: `Add a new node to a stored tree. The node is attached as the last
child of --parent (the root when omitted). Leaves take their label from
--label, then from leaf_label in config.yaml.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := types.ParseKind(kindName)
			if err != nil {
				return fmt.Errorf("--kind %q: %w", kindName, err)
			}

			var node types.Node
			switch kind {
			case types.KindLeaf:
				if label == "" {
					label = e.cfg.GetString(cfgKeyLeafLabel)
				}
				node = types.NewLeaf(label)
			case types.KindBranch:
				node = types.NewNamedBranch(label)
			}

			var rec types.Record
			err = e.withTree(args[0], func(tree *types.Tree) (bool, error) {
				parent, err := findNode(tree, parentID)
				if err != nil {
					return false, err
				}
				if err := parent.Attach(node); err != nil {
					return false, fmt.Errorf("attach to %s %s: %w", parent.Kind(), parent.ID(), err)
				}
				e.log.Debug("attached node",
					zap.String("node_id", node.ID()),
					zap.Stringer("kind", node.Kind()),
					zap.String("parent_id", parent.ID()))
				rec = types.Record{
					NodeID:   node.ID(),
					Kind:     node.Kind().String(),
					Label:    node.Label(),
					ParentID: parent.ID(),
					Ordinal:  len(parent.Children()) - 1,
				}
				return true, nil
			})
			if err != nil {
				return err
			}

			if e.flags.jsonMode {
				return printJSON(cmd, rec)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s\n", node.Kind(), node.ID())
			return nil
		},
	}
	cmd.Flags().StringVar(&parentID, "parent", "", "ID of the node to attach under (default: root)")
	cmd.Flags().StringVar(&kindName, "kind", types.KindLeafName, "node kind: leaf or branch")
	cmd.Flags().StringVar(&label, "label", "", "node label")
	return cmd
}
