package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored trees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := e.openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			infos, err := store.ListTrees()
			if err != nil {
				return sysErr(fmt.Errorf("list trees: %w", err))
			}
			if e.flags.jsonMode {
				return printJSON(cmd, infos)
			}
			if len(infos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No trees")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tNODES\tUPDATED")
			for _, info := range infos {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
					info.TreeID, info.Name, info.NodeCount, info.UpdatedAt.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}
}
