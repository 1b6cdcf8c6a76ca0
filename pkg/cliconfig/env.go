package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variable names
const (
	EnvConfig           = "RECSTORE_CONFIG"
	EnvMemoEnabled      = "RECSTORE_MEMO_ENABLED"
	EnvMemoPort         = "RECSTORE_MEMO_PORT"
	EnvInventoryEnabled = "RECSTORE_INVENTORY_ENABLED"
	EnvInventoryPort    = "RECSTORE_INVENTORY_PORT"
	EnvLogLevel         = "RECSTORE_LOG_LEVEL"
	EnvLogFormat        = "RECSTORE_LOG_FORMAT"
	EnvLogFile          = "RECSTORE_LOG_FILE"
	EnvMaxBodyBytes     = "RECSTORE_MAX_BODY_BYTES"
	EnvShutdownTimeout  = "RECSTORE_SHUTDOWN_TIMEOUT"
)

// LoadEnvConfig applies environment variables to cfg. Only variables that
// are present are applied; a present but unparseable number is an error.
func LoadEnvConfig(cfg *Config) error {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}

	if v, ok := lookup(EnvMemoEnabled); ok {
		cfg.Memo.Enabled = parseBool(v)
		cfg.Sources["memo.enabled"] = SourceEnv
	}
	if v, ok := lookup(EnvMemoPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return envError(EnvMemoPort, v, err)
		}
		cfg.Memo.Port = port
		cfg.Sources["memo.port"] = SourceEnv
	}

	if v, ok := lookup(EnvInventoryEnabled); ok {
		cfg.Inventory.Enabled = parseBool(v)
		cfg.Sources["inventory.enabled"] = SourceEnv
	}
	if v, ok := lookup(EnvInventoryPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return envError(EnvInventoryPort, v, err)
		}
		cfg.Inventory.Port = port
		cfg.Sources["inventory.port"] = SourceEnv
	}

	if v, ok := lookup(EnvLogLevel); ok {
		cfg.Log.Level = v
		cfg.Sources["log.level"] = SourceEnv
	}
	if v, ok := lookup(EnvLogFormat); ok {
		cfg.Log.Format = v
		cfg.Sources["log.format"] = SourceEnv
	}
	if v, ok := lookup(EnvLogFile); ok {
		cfg.Log.File = v
		cfg.Sources["log.file"] = SourceEnv
	}

	if v, ok := lookup(EnvMaxBodyBytes); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return envError(EnvMaxBodyBytes, v, err)
		}
		cfg.MaxBodyBytes = n
		cfg.Sources["maxBodyBytes"] = SourceEnv
	}
	if v, ok := lookup(EnvShutdownTimeout); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError(EnvShutdownTimeout, v, err)
		}
		cfg.ShutdownTimeout = n
		cfg.Sources["shutdownTimeout"] = SourceEnv
	}
	return nil
}

func lookup(name string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	return v, v != ""
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

func envError(name, value string, err error) error {
	return fmt.Errorf("invalid %s=%q: %w", name, value, err)
}
