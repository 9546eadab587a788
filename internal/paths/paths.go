// Package paths resolves the arbor configuration and data directories.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under platform config and data roots.
const AppName = "arbor"

// DefaultDataDirName is the CWD-relative data directory used when nothing
// else is configured.
const DefaultDataDirName = ".arbor-db"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "ARBOR_CONFIG_DIR"
	EnvDataDir   = "ARBOR_DATA_DIR"
)

// platform holds OS lookups that tests replace.
var platform = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/arbor (fallback ~/.config/arbor)
// macOS:   ~/Library/Application Support/arbor
// Windows: %APPDATA%/arbor
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform-specific data directory.
//
// Linux:   $XDG_DATA_HOME/arbor (fallback ~/.local/share/arbor)
// macOS:   ~/Library/Application Support/arbor
// Windows: %APPDATA%/arbor
func DefaultDataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// xdgDir applies the XDG lookup on Linux and os.UserConfigDir elsewhere.
func xdgDir(env, homeFallback string) (string, error) {
	if platform.goos != "linux" {
		dir, err := platform.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platform.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeFallback, AppName), nil
}

// ResolveConfigDir returns the configuration directory, taking the first
// that is set of: flag, ARBOR_CONFIG_DIR, DefaultConfigDir().
// Explicit values are made absolute.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory, taking the first that is set
// of: flag, configValue (data_dir from config.yaml), ARBOR_DATA_DIR, and
// finally $(CWD)/.arbor-db.
func ResolveDataDir(flag, configValue string) (string, error) {
	for _, v := range []string{flag, configValue, os.Getenv(EnvDataDir)} {
		if v != "" {
			return filepath.Abs(v)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
