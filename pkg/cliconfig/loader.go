package cliconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LocalConfigFileNames are the names searched in the working directory, in order.
var LocalConfigFileNames = []string{"recstore.yaml", "recstore.yml", ".recstore.yaml"}

// FindLocalConfig returns the first local config file that exists, or "".
func FindLocalConfig() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for _, name := range LocalConfigFileNames {
		path := filepath.Join(cwd, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

// LoadConfigFile loads a Config from a YAML file. Only the keys present in
// the file are recorded in SetFields.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, newConfigError(path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, newConfigError(path, err)
	}
	cfg.SetFields = make(map[string]bool)
	collectKeys("", raw, cfg.SetFields)

	cfg.ConfigFile = path
	cfg.Sources = make(map[string]string)
	return &cfg, nil
}

// collectKeys records the dotted path of every mapping key under prefix.
// Sequences (seed lists) are leaves.
func collectKeys(prefix string, m map[string]any, out map[string]bool) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		out[key] = true
		if child, ok := v.(map[string]any); ok {
			collectKeys(key, child, out)
		}
	}
}

// ConfigError represents a configuration file error. yaml.v3 messages
// already carry the line number.
type ConfigError struct {
	Path    string
	Message string
}

func newConfigError(path string, err error) *ConfigError {
	ce := &ConfigError{Path: path, Message: err.Error()}
	var te *yaml.TypeError
	if errors.As(err, &te) && len(te.Errors) > 0 {
		ce.Message = te.Errors[0]
	}
	return ce
}

func (e *ConfigError) Error() string {
	return e.Path + ": " + e.Message
}

// LoadAll loads configuration from defaults, the config file and the
// environment, in increasing precedence. path is the --config flag value;
// when empty, RECSTORE_CONFIG and then the local search paths are tried.
// An explicitly named file that cannot be read is an error; a missing
// local file is not.
func LoadAll(path string) (*Config, error) {
	cfg := NewDefault()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		local, err := FindLocalConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to search for config file: %w", err)
		}
		path = local
	}

	if path != "" {
		fileCfg, err := LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		MergeConfig(cfg, fileCfg, SourceFile)
	}

	if err := LoadEnvConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
