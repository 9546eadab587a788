// Package cli implements the arbor command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mesh-intelligence/arbor/internal/paths"
	"github.com/mesh-intelligence/arbor/pkg/arbor"
	"github.com/mesh-intelligence/arbor/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool
}

// env is the state shared by the commands of one root command.
type env struct {
	flags     rootFlags
	configDir string
	cfg       *viper.Viper
	log       *zap.Logger
}

// NewRootCmd creates the top-level "arbor" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	e := &env{log: zap.NewNop()}

	root := &cobra.Command{
		Use:     "arbor",
		Short:   "Build and inspect composition trees",
		Long:    "Arbor stores named composition trees of leaves and branches\nand prints their contributions.",
		Version: arbor.Version,
		// Errors are printed once, by Execute.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return e.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = e.log.Sync()
		},
	}

	root.PersistentFlags().StringVar(&e.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&e.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.arbor-db)")
	root.PersistentFlags().BoolVar(&e.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&e.flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(e),
		newCreateCmd(e),
		newListCmd(e),
		newDeleteCmd(e),
		newAddCmd(e),
		newMoveCmd(e),
		newPruneCmd(e),
		newShowCmd(e),
		newRenderCmd(e),
		newDemoCmd(e),
	)
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "arbor:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// setup resolves the config directory, loads the config, and builds the logger.
func (e *env) setup() error {
	dir, err := paths.ResolveConfigDir(e.flags.configDir)
	if err != nil {
		return sysErr(fmt.Errorf("resolve config dir: %w", err))
	}
	cfg, err := loadConfig(dir)
	if err != nil {
		return sysErr(err)
	}
	log, err := newLogger(cfg.GetString(cfgKeyLogLevel), e.flags.verbose)
	if err != nil {
		return sysErr(fmt.Errorf("initialize logger: %w", err))
	}
	e.configDir, e.cfg, e.log = dir, cfg, log
	e.log.Debug("config loaded",
		zap.String("config_dir", dir),
		zap.String("config_file", cfg.ConfigFileUsed()))
	return nil
}

// newLogger builds a production zap logger writing to stderr. verbose forces
// debug level; otherwise level is parsed from config, defaulting to info.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("log_level %q: %w", level, err)
		}
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	config.Level = zap.NewAtomicLevelAt(lvl)
	return config.Build()
}

// systemError marks failures of the environment rather than of the request.
type systemError struct{ err error }

func (e systemError) Error() string { return e.err.Error() }
func (e systemError) Unwrap() error { return e.err }

// userErrors are the failures caused by what the caller asked for.
var userErrors = []error{
	types.ErrNotFound,
	types.ErrNodeNotFound,
	types.ErrInvalidName,
	types.ErrInvalidID,
	types.ErrDuplicateName,
	types.ErrInvalidNode,
	types.ErrInvalidKind,
	types.ErrHasParent,
	types.ErrUnsupportedOperation,
	types.ErrCycleDetected,
	types.ErrBackendUnknown,
	types.ErrBackendEmpty,
}

// sysErr wraps err as a system error unless it is a known user error.
func sysErr(err error) error {
	if err == nil {
		return nil
	}
	for _, u := range userErrors {
		if errors.Is(err, u) {
			return err
		}
	}
	return systemError{err: err}
}

// exitCode maps an error returned by a command to a process exit code.
// Anything not marked as a system error, including flag and argument
// errors from cobra, is a user error.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var se systemError
	if errors.As(err, &se) {
		return exitSysError
	}
	return exitUserError
}
