package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Persistent flags available to all subcommands
	jsonOutput bool

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "recstore",
	Short: "recstore serves in-memory CRUD APIs for memos, items and users",
	Long: `recstore runs two small JSON APIs backed by in-memory record stores:

  memo       /memos                 (default port 5000)
  inventory  /items and /users      (default port 8000)

Every response uses the same envelope: {"status": "success", "data": ...}
or {"status": "error", "message": ..., "error_code": ...}.

Configuration can be provided via flags, environment variables (RECSTORE_*),
or a configuration file. By default, recstore looks for recstore.yaml in the
working directory.`,
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Execute()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
}
