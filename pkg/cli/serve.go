package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getmockd/recstore/pkg/cli/internal/output"
	"github.com/getmockd/recstore/pkg/cliconfig"
	"github.com/getmockd/recstore/pkg/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// serveFlags holds the values bound to the serve command's flags.
type serveFlags struct {
	configFile    string
	host          string
	memoPort      int
	inventoryPort int
	noMemo        bool
	noInventory   bool
	logLevel      string
	logFormat     string
	logFile       string
	maxBodyBytes  int64
}

// serveFlagVals is the package-level instance bound to cobra flags.
var serveFlagVals serveFlags

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the memo and inventory APIs (foreground)",
	Long: `Start the API surfaces and block until interrupted.

Each enabled surface listens on its own port with its own stores. Records
live in memory only and are lost when the process exits. Seed records from
the config file are created at start-up through the same validation as
API requests.`,
	Example: `  # Start with defaults (memo on 5000, inventory on 8000)
  recstore serve

  # Start only the inventory surface on a custom port
  recstore serve --no-memo --inventory-port 9000

  # Start with a config file and JSON logs
  recstore serve --config recstore.yaml --log-format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, &serveFlagVals)
	},
}

func initServeCmd() {
	rootCmd.AddCommand(serveCmd)
	bindServeFlags(serveCmd.Flags(), &serveFlagVals)
}

func bindServeFlags(fs *pflag.FlagSet, f *serveFlags) {
	fs.StringVarP(&f.configFile, "config", "c", "", "Path to config file")
	fs.StringVar(&f.host, "host", "", "Interface to bind (default: all)")
	fs.IntVar(&f.memoPort, "memo-port", cliconfig.DefaultMemoPort, "Memo surface port")
	fs.IntVar(&f.inventoryPort, "inventory-port", cliconfig.DefaultInventoryPort, "Inventory surface port")
	fs.BoolVar(&f.noMemo, "no-memo", false, "Disable the memo surface")
	fs.BoolVar(&f.noInventory, "no-inventory", false, "Disable the inventory surface")
	fs.StringVar(&f.logLevel, "log-level", cliconfig.DefaultLogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&f.logFormat, "log-format", cliconfig.DefaultLogFormat, "Log format (text, json)")
	fs.StringVar(&f.logFile, "log-file", "", "Also append JSON logs to this file")
	fs.Int64Var(&f.maxBodyBytes, "max-body-bytes", cliconfig.DefaultMaxBodyBytes, "Maximum request body size in bytes")
}

func init() {
	initServeCmd()
}

// runServe is the core serve logic called by the cobra command.
func runServe(cmd *cobra.Command, f *serveFlags) error {
	cfg, err := loadServeConfig(cmd.Flags(), f)
	if err != nil {
		return err
	}

	log, closeLog, err := logging.Open(cfg.LoggingConfig())
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, f.host, log, cmd.OutOrStdout())
}

// loadServeConfig resolves defaults, file and environment, then applies the
// flags the user actually set.
func loadServeConfig(fs *pflag.FlagSet, f *serveFlags) (*cliconfig.Config, error) {
	cfg, err := cliconfig.LoadAll(f.configFile)
	if err != nil {
		return nil, err
	}
	applyServeFlags(fs, f, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyServeFlags overlays explicitly set flags onto cfg.
func applyServeFlags(fs *pflag.FlagSet, f *serveFlags, cfg *cliconfig.Config) {
	set := func(name, key string) bool {
		if !fs.Changed(name) {
			return false
		}
		cfg.Sources[key] = cliconfig.SourceFlag
		return true
	}

	if set("memo-port", "memo.port") {
		cfg.Memo.Port = f.memoPort
	}
	if set("inventory-port", "inventory.port") {
		cfg.Inventory.Port = f.inventoryPort
	}
	if set("no-memo", "memo.enabled") {
		cfg.Memo.Enabled = !f.noMemo
	}
	if set("no-inventory", "inventory.enabled") {
		cfg.Inventory.Enabled = !f.noInventory
	}
	if set("log-level", "log.level") {
		cfg.Log.Level = f.logLevel
	}
	if set("log-format", "log.format") {
		cfg.Log.Format = f.logFormat
	}
	if set("log-file", "log.file") {
		cfg.Log.File = f.logFile
	}
	if set("max-body-bytes", "maxBodyBytes") {
		cfg.MaxBodyBytes = f.maxBodyBytes
	}
}

// serve starts the enabled surfaces, blocks until ctx is done and then
// drains them within the configured shutdown timeout.
func serve(ctx context.Context, cfg *cliconfig.Config, host string, log *slog.Logger, out io.Writer) error {
	surfaces, err := buildSurfaces(cfg, log)
	if err != nil {
		return err
	}
	if err := startSurfaces(surfaces, host); err != nil {
		return err
	}

	tw := output.Table(out)
	for _, s := range surfaces {
		fmt.Fprintf(tw, "%s\thttp://%s\n", s.name, s.server.Addr())
	}
	_ = tw.Flush()
	if cfg.ConfigFile != "" {
		log.Info("configuration loaded", "file", cfg.ConfigFile)
	}

	<-ctx.Done()
	fmt.Fprintln(out, "\nShutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := shutdownSurfaces(shutdownCtx, surfaces); err != nil {
		output.Warn(out, "shutdown incomplete: %v", err)
		return err
	}
	return nil
}
