package cliconfig

import (
	"errors"
	"fmt"

	"github.com/getmockd/recstore/pkg/logging"
)

const maxTimeoutSeconds = 3600

// Validate checks the config for values serve cannot run with.
// Port 0 means "pick a free port".
func (c *Config) Validate() error {
	var errs []error

	checkPort := func(name string, port int) {
		if port < 0 || port > 65535 {
			errs = append(errs, fmt.Errorf("%s %d is out of range", name, port))
		}
	}
	checkPort("memo.port", c.Memo.Port)
	checkPort("inventory.port", c.Inventory.Port)

	if c.Memo.Enabled && c.Inventory.Enabled &&
		c.Memo.Port != 0 && c.Memo.Port == c.Inventory.Port {
		errs = append(errs, errors.New("memo.port and inventory.port cannot be the same"))
	}
	if !c.Memo.Enabled && !c.Inventory.Enabled {
		errs = append(errs, errors.New("at least one of memo and inventory must be enabled"))
	}

	checkTimeout := func(name string, v int) {
		if v < 0 || v > maxTimeoutSeconds {
			errs = append(errs, fmt.Errorf("%s %d is out of range", name, v))
		}
	}
	checkTimeout("readTimeout", c.ReadTimeout)
	checkTimeout("writeTimeout", c.WriteTimeout)
	checkTimeout("shutdownTimeout", c.ShutdownTimeout)

	if c.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("maxBodyBytes %d must be positive", c.MaxBodyBytes))
	}
	if _, ok := logging.LookupLevel(c.Log.Level); !ok {
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	if c.Log.Format != "" && c.Log.Format != string(logging.FormatText) && c.Log.Format != string(logging.FormatJSON) {
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}

	return errors.Join(errs...)
}

// LoggingConfig converts the log section into a logging.Config.
func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(c.Log.Level)
	cfg.Format = logging.ParseFormat(c.Log.Format)
	cfg.File = c.Log.File
	return cfg
}
