// Package cliconfig provides configuration types and loading for recstore.
package cliconfig

// Config represents the complete configuration for recstore serve.
// Values can come from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Config file (--config, RECSTORE_CONFIG, or recstore.yaml in the working directory)
// 4. Default values (lowest priority)
type Config struct {
	Memo      MemoConfig      `yaml:"memo" json:"memo"`
	Inventory InventoryConfig `yaml:"inventory" json:"inventory"`
	Log       LogConfig       `yaml:"log" json:"log"`

	// MaxBodyBytes caps every request body; larger bodies get 413.
	MaxBodyBytes int64 `yaml:"maxBodyBytes" json:"maxBodyBytes"`

	// Timeouts in seconds.
	ReadTimeout     int `yaml:"readTimeout" json:"readTimeout"`
	WriteTimeout    int `yaml:"writeTimeout" json:"writeTimeout"`
	ShutdownTimeout int `yaml:"shutdownTimeout" json:"shutdownTimeout"`

	// ConfigFile is the file the config was read from, if any.
	ConfigFile string `yaml:"-" json:"configFile,omitempty"`

	// Sources tracks where each value came from, keyed by dotted YAML path.
	Sources map[string]string `yaml:"-" json:"-"`

	// SetFields records which dotted keys were present in a loaded file, so
	// an explicit false can be told apart from an absent key.
	SetFields map[string]bool `yaml:"-" json:"-"`
}

// MemoConfig configures the memo surface.
type MemoConfig struct {
	Enabled bool             `yaml:"enabled" json:"enabled"`
	Port    int              `yaml:"port" json:"port"`
	Seed    []map[string]any `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// InventoryConfig configures the items/users surface.
type InventoryConfig struct {
	Enabled   bool             `yaml:"enabled" json:"enabled"`
	Port      int              `yaml:"port" json:"port"`
	SeedItems []map[string]any `yaml:"seedItems,omitempty" json:"seedItems,omitempty"`
	SeedUsers []map[string]any `yaml:"seedUsers,omitempty" json:"seedUsers,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
}

// ConfigSource identifies where a config value originated.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)
