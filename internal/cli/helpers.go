// Shared helpers for arbor CLI commands.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/arbor/internal/paths"
	"github.com/mesh-intelligence/arbor/internal/sqlite"
	"github.com/mesh-intelligence/arbor/pkg/types"
)

// dataDir resolves the data directory from flag, config, env, or default.
func (e *env) dataDir() (string, error) {
	dir, err := paths.ResolveDataDir(e.flags.dataDir, e.cfg.GetString(cfgKeyDataDir))
	if err != nil {
		return "", sysErr(fmt.Errorf("resolve data dir: %w", err))
	}
	return dir, nil
}

// openStore attaches a backend for the configured data directory. The
// caller must defer Detach.
func (e *env) openStore() (types.Store, error) {
	dir, err := e.dataDir()
	if err != nil {
		return nil, err
	}
	cfg := types.Config{
		Backend: e.cfg.GetString(cfgKeyBackend),
		DataDir: dir,
	}
	store := sqlite.NewBackend(sqlite.WithLogger(e.log))
	if err := store.Attach(cfg); err != nil {
		return nil, sysErr(fmt.Errorf("attach store: %w", err))
	}
	return store, nil
}

// withTree opens the store, loads the named tree, and calls fn. If fn
// reports the tree as modified, it is saved before the store is detached.
func (e *env) withTree(idOrName string, fn func(tree *types.Tree) (bool, error)) error {
	store, err := e.openStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	tree, err := store.GetTree(idOrName)
	if err != nil {
		return sysErr(fmt.Errorf("tree %q: %w", idOrName, err))
	}
	modified, err := fn(tree)
	if err != nil {
		return sysErr(err)
	}
	if !modified {
		return nil
	}
	if err := store.SaveTree(tree); err != nil {
		return sysErr(fmt.Errorf("save tree: %w", err))
	}
	e.log.Info("tree saved",
		zap.String("tree_id", tree.TreeID),
		zap.Int("nodes", types.Size(tree.Root)))
	return nil
}

// findNode returns the node with the given ID in tree, or the root when id
// is empty.
func findNode(tree *types.Tree, id string) (types.Node, error) {
	if id == "" {
		return tree.Root, nil
	}
	n := types.Find(tree.Root, id)
	if n == nil {
		return nil, fmt.Errorf("node %q: %w", id, types.ErrNodeNotFound)
	}
	return n, nil
}

// printJSON writes v as indented JSON to the command's output.
func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysErr(fmt.Errorf("marshal JSON: %w", err))
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
