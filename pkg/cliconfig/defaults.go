package cliconfig

// DefaultMemoPort is the default port of the memo surface.
const DefaultMemoPort = 5000

// DefaultInventoryPort is the default port of the items/users surface.
const DefaultInventoryPort = 8000

// DefaultMaxBodyBytes is the default request body limit (1 MiB).
const DefaultMaxBodyBytes int64 = 1 << 20

// DefaultReadTimeout is the default read timeout in seconds.
const DefaultReadTimeout = 30

// DefaultWriteTimeout is the default write timeout in seconds.
const DefaultWriteTimeout = 30

// DefaultShutdownTimeout is how long serve waits for in-flight requests, in seconds.
const DefaultShutdownTimeout = 10

// DefaultLogLevel is the default minimum log level.
const DefaultLogLevel = "info"

// DefaultLogFormat is the default log output format.
const DefaultLogFormat = "text"

// defaultKeys lists every key whose default is recorded in Sources.
var defaultKeys = []string{
	"memo.enabled", "memo.port",
	"inventory.enabled", "inventory.port",
	"log.level", "log.format",
	"maxBodyBytes", "readTimeout", "writeTimeout", "shutdownTimeout",
}

// NewDefault creates a new Config with default values.
func NewDefault() *Config {
	cfg := &Config{
		Memo: MemoConfig{
			Enabled: true,
			Port:    DefaultMemoPort,
		},
		Inventory: InventoryConfig{
			Enabled: true,
			Port:    DefaultInventoryPort,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		MaxBodyBytes:    DefaultMaxBodyBytes,
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		Sources:         make(map[string]string, len(defaultKeys)),
	}
	for _, key := range defaultKeys {
		cfg.Sources[key] = SourceDefault
	}
	return cfg
}
