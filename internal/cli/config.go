package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend   = "backend"
	cfgKeyDataDir   = "data_dir"
	cfgKeyLeafLabel = "leaf_label"
	cfgKeyLogLevel  = "log_level"
)

// configFile is the structure written to a new config.yaml.
type configFile struct {
	Backend   string `yaml:"backend"`
	DataDir   string `yaml:"data_dir,omitempty"`
	LeafLabel string `yaml:"leaf_label"`
	LogLevel  string `yaml:"log_level"`
}

// defaultConfig is written on first run.
var defaultConfig = configFile{
	Backend:   types.BackendSQLite,
	LeafLabel: types.DefaultLeafLabel,
	LogLevel:  "info",
}

// envBindings lists the keys that ARBOR_* variables may override. data_dir
// is resolved by the paths package, which applies ARBOR_DATA_DIR itself.
var envBindings = map[string]string{
	cfgKeyBackend:   "ARBOR_BACKEND",
	cfgKeyLeafLabel: "ARBOR_LEAF_LABEL",
	cfgKeyLogLevel:  "ARBOR_LOG_LEVEL",
}

// loadConfig reads config.yaml from configDir, creating the directory and a
// default file on first run. A missing file is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := writeConfigIfMissing(filepath.Join(configDir, configFileExt)); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultConfig.Backend)
	v.SetDefault(cfgKeyLeafLabel, defaultConfig.LeafLabel)
	v.SetDefault(cfgKeyLogLevel, defaultConfig.LogLevel)
	v.SetDefault(cfgKeyDataDir, "")
	for key, name := range envBindings {
		if err := v.BindEnv(key, name); err != nil {
			return nil, fmt.Errorf("bind %s: %w", name, err)
		}
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing creates config.yaml with default values. An existing
// file is left alone.
func writeConfigIfMissing(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&defaultConfig)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# arbor configuration\n")
	return os.WriteFile(path, append(header, data...), 0o644)
}
