package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newInitCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize arbor storage",
		Long:  "Create the configuration and data directories and the empty JSONL files.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The config directory and config.yaml already exist after setup.
			store, err := e.openStore()
			if err != nil {
				return err
			}
			if err := store.Detach(); err != nil {
				return sysErr(fmt.Errorf("finalize storage: %w", err))
			}
			dir, err := e.dataDir()
			if err != nil {
				return err
			}
			e.log.Info("initialized", zap.String("config_dir", e.configDir), zap.String("data_dir", dir))
			fmt.Fprintf(cmd.OutOrStdout(), "Arbor initialized in %s\n", dir)
			return nil
		},
	}
}
